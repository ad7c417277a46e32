package snapshot

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/olusolaa/pkgutils/internal/core/domain"
	"github.com/olusolaa/pkgutils/internal/core/ports"
	"github.com/olusolaa/pkgutils/internal/errors"
)

const RegistryTypeSnapshot = "snapshot"

type Config struct {
	Path string `yaml:"path" mapstructure:"path"`
}

type entry struct {
	record     domain.ApplicationRecord
	icon       string
	launchable bool
	components map[string]struct{}
	strings    map[string]string
	arrays     map[int][]string
	drawables  map[string]string
}

// Registry is an in-memory application registry. Its contents never
// change after construction; only accepted uninstall requests are recorded.
type Registry struct {
	source string
	order  []string
	apps   map[string]*entry

	mu       sync.Mutex
	requests []domain.UninstallRequest
}

// New builds a registry from already decoded applications.
func New(source string, apps ...Application) (*Registry, error) {
	doc := &Document{Applications: apps}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return fromDocument(source, doc), nil
}

func fromDocument(source string, doc *Document) *Registry {
	r := &Registry{
		source: source,
		order:  make([]string, 0, len(doc.Applications)),
		apps:   make(map[string]*entry, len(doc.Applications)),
	}
	for _, app := range doc.Applications {
		components := make(map[string]struct{}, len(app.Components))
		for _, c := range app.Components {
			components[c] = struct{}{}
		}
		r.order = append(r.order, app.ID)
		r.apps[app.ID] = &entry{
			record:     app.record(),
			icon:       app.Icon,
			launchable: app.Launchable,
			components: components,
			strings:    app.Strings,
			arrays:     app.arrays(),
			drawables:  app.Drawables,
		}
	}
	return r
}

// Parse builds a registry from raw snapshot bytes.
func Parse(data []byte, format Format, source string) (*Registry, error) {
	doc, err := ParseDocument(data, format, source)
	if err != nil {
		return nil, err
	}
	return fromDocument(source, doc), nil
}

// Load reads a snapshot file, choosing the format from its extension.
func Load(ctx context.Context, cfg Config, logger ports.Logger) (*Registry, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	logger = logger.WithFields(map[string]any{"component": "snapshot_registry", "file_path": cfg.Path})

	format, err := FormatFromPath(cfg.Path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(cfg.Path)
	if err != nil {
		return nil, errors.WrapUserFacing(err, errors.CodeSnapshotReadError,
			fmt.Sprintf("failed to read snapshot file %s", cfg.Path), "Check the --snapshot path.")
	}

	reg, err := Parse(data, format, cfg.Path)
	if err != nil {
		logger.Errorf(ctx, err, "Snapshot could not be loaded")
		return nil, err
	}
	logger.Debugf(ctx, "Loaded %d applications from %s snapshot", len(reg.order), format)
	return reg, nil
}

func (r *Registry) Type() string { return RegistryTypeSnapshot }

func (r *Registry) Source() string { return r.source }

func (r *Registry) Application(_ context.Context, id string) (domain.ApplicationRecord, bool, error) {
	e, ok := r.apps[id]
	if !ok {
		return domain.ApplicationRecord{}, false, nil
	}
	return e.record, true, nil
}

func (r *Registry) StringResource(_ context.Context, id, name string) (string, bool, error) {
	e, ok := r.apps[id]
	if !ok {
		return "", false, nil
	}
	v, ok := e.strings[name]
	return v, ok, nil
}

func (r *Registry) StringArrayResource(_ context.Context, id string, resID int) ([]string, bool, error) {
	e, ok := r.apps[id]
	if !ok {
		return nil, false, nil
	}
	v, ok := e.arrays[resID]
	if !ok {
		return nil, false, nil
	}
	out := make([]string, len(v))
	copy(out, v)
	return out, true, nil
}

func (r *Registry) DrawableResource(_ context.Context, id, name string) (domain.Icon, bool, error) {
	e, ok := r.apps[id]
	if !ok {
		return domain.Icon{}, false, nil
	}
	src, ok := e.drawables[name]
	if !ok {
		return domain.Icon{}, false, nil
	}
	return domain.Icon{Source: src}, true, nil
}

func (r *Registry) Icon(_ context.Context, id string) (domain.Icon, bool, error) {
	e, ok := r.apps[id]
	if !ok || e.icon == "" {
		return domain.Icon{}, false, nil
	}
	return domain.Icon{Source: e.icon}, true, nil
}

func (r *Registry) LaunchEntry(_ context.Context, id, component string) (domain.LaunchEntry, bool, error) {
	e, ok := r.apps[id]
	if !ok {
		return domain.LaunchEntry{}, false, nil
	}
	if component == "" {
		if !e.launchable {
			return domain.LaunchEntry{}, false, nil
		}
		return domain.LaunchEntry{
			Package:    id,
			Action:     domain.ActionMain,
			Categories: []string{domain.CategoryLauncher},
		}, true, nil
	}
	if _, ok := e.components[component]; !ok {
		return domain.LaunchEntry{}, false, nil
	}
	return domain.LaunchEntry{Package: id, Component: component, Action: domain.ActionMain}, true, nil
}

func (r *Registry) InstalledApplications(_ context.Context) ([]string, error) {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out, nil
}

// SubmitUninstall accepts requests for user applications and for updated
// system applications (whose updates can be rolled back). Everything else
// has no handler.
func (r *Registry) SubmitUninstall(_ context.Context, req domain.UninstallRequest) error {
	if req.Action != domain.ActionUninstallPackage {
		return errors.New(errors.CodeLaunchRejected, fmt.Sprintf("no handler for action %s", req.Action))
	}
	id := req.PackageID()
	e, ok := r.apps[id]
	if !ok {
		return errors.New(errors.CodeLaunchRejected, fmt.Sprintf("no handler for %s: application not installed", req.URI))
	}
	flags := e.record.Flags
	if flags.Has(domain.FlagSystem) && !flags.Has(domain.FlagUpdatedSystemApp) {
		return errors.New(errors.CodeLaunchRejected, fmt.Sprintf("no handler for %s: protected system application", req.URI))
	}

	r.mu.Lock()
	r.requests = append(r.requests, req)
	r.mu.Unlock()
	return nil
}

// Requests returns the uninstall requests accepted so far.
func (r *Registry) Requests() []domain.UninstallRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.UninstallRequest, len(r.requests))
	copy(out, r.requests)
	return out
}

// Records returns every application record sorted by identifier.
func (r *Registry) Records() []domain.ApplicationRecord {
	out := make([]domain.ApplicationRecord, 0, len(r.apps))
	for _, e := range r.apps {
		out = append(out, e.record)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
