package service

import (
	"context"
	"unicode/utf16"

	"github.com/olusolaa/pkgutils/internal/core/domain"
	"github.com/olusolaa/pkgutils/internal/core/ports"
	"github.com/olusolaa/pkgutils/internal/errors"
	"github.com/olusolaa/pkgutils/internal/resref"
)

// PackageResolver answers application queries against one registry.
// Lookups that find nothing fold into fallback values; the only error
// returned is errors.ErrNotInitialized.
type PackageResolver struct {
	registry ports.ApplicationRegistry
	logger   ports.Logger
}

func NewPackageResolver(registry ports.ApplicationRegistry, logger ports.Logger) (*PackageResolver, error) {
	if registry == nil {
		return nil, errors.New(errors.CodeNotInitialized, "application registry cannot be nil")
	}
	if logger == nil {
		return nil, errors.New(errors.CodeConfigValidation, "logger cannot be nil for package resolver")
	}
	return &PackageResolver{
		registry: registry,
		logger:   logger.WithFields(map[string]any{"component": "resolver", "registry": registry.Type()}),
	}, nil
}

func (r *PackageResolver) ready() error {
	if r == nil || r.registry == nil {
		return errors.ErrNotInitialized
	}
	return nil
}

// warn records a backend failure that is being folded into a fallback.
func (r *PackageResolver) warn(ctx context.Context, err error, op, appID string) {
	if r.logger != nil {
		r.logger.Warnf(ctx, "%s for %s failed, using fallback: %v", op, appID, err)
	}
}

func (r *PackageResolver) lookup(ctx context.Context, appID string) (domain.ApplicationRecord, bool) {
	rec, found, err := r.registry.Application(ctx, appID)
	if err != nil {
		r.warn(ctx, err, "application lookup", appID)
		return domain.ApplicationRecord{}, false
	}
	return rec, found
}

// ResolveText returns text unchanged unless it carries the '@' marker, in
// which case the referenced string resource is looked up for appID. An
// unresolved reference yields its bare name.
func (r *PackageResolver) ResolveText(ctx context.Context, appID, text string) (string, error) {
	if err := r.ready(); err != nil {
		return "", err
	}
	if !resref.HasScopeMarker(text) {
		return text, nil
	}
	return r.resourceString(ctx, appID, resref.ParseName(text)), nil
}

// ResourceString looks up a string resource by bare name, falling back to
// the name itself.
func (r *PackageResolver) ResourceString(ctx context.Context, appID, name string) (string, error) {
	if err := r.ready(); err != nil {
		return "", err
	}
	return r.resourceString(ctx, appID, name), nil
}

func (r *PackageResolver) resourceString(ctx context.Context, appID, name string) string {
	value, found, err := r.registry.StringResource(ctx, appID, name)
	if err != nil {
		r.warn(ctx, err, "string resource "+name, appID)
		return name
	}
	if !found {
		return name
	}
	return value
}

// ResolveMetadataString returns the literal string stored under tag, or ""
// when the application, its metadata, or the tag is missing.
func (r *PackageResolver) ResolveMetadataString(ctx context.Context, appID, tag string) (string, error) {
	if err := r.ready(); err != nil {
		return "", err
	}
	rec, found := r.lookup(ctx, appID)
	if !found || rec.Metadata == nil {
		return "", nil
	}
	v, ok := rec.Metadata[tag]
	if !ok || v.IsResource {
		return "", nil
	}
	return v.String, nil
}

// ResolveMetadataStringArray reads the resource id stored under tag and
// resolves it to a string array. ok is false whenever any step fails.
func (r *PackageResolver) ResolveMetadataStringArray(ctx context.Context, appID, tag string) ([]string, bool, error) {
	if err := r.ready(); err != nil {
		return nil, false, err
	}
	rec, found := r.lookup(ctx, appID)
	if !found || rec.Metadata == nil {
		return nil, false, nil
	}
	v, ok := rec.Metadata[tag]
	if !ok || !v.IsResource || v.ResourceID == 0 {
		return nil, false, nil
	}
	values, found, err := r.registry.StringArrayResource(ctx, appID, v.ResourceID)
	if err != nil {
		r.warn(ctx, err, "string array resource", appID)
		return nil, false, nil
	}
	if !found {
		return nil, false, nil
	}
	return values, true, nil
}

func (r *PackageResolver) ResourceDrawable(ctx context.Context, appID, name string) (domain.Icon, bool, error) {
	if err := r.ready(); err != nil {
		return domain.Icon{}, false, err
	}
	icon, found, err := r.registry.DrawableResource(ctx, appID, name)
	if err != nil {
		r.warn(ctx, err, "drawable resource "+name, appID)
		return domain.Icon{}, false, nil
	}
	return icon, found, nil
}

func (r *PackageResolver) Icon(ctx context.Context, appID string) (domain.Icon, bool, error) {
	if err := r.ready(); err != nil {
		return domain.Icon{}, false, err
	}
	icon, found, err := r.registry.Icon(ctx, appID)
	if err != nil {
		r.warn(ctx, err, "icon", appID)
		return domain.Icon{}, false, nil
	}
	return icon, found, nil
}

// IsSystemApp reports whether the record carries the base system flag.
func IsSystemApp(rec domain.ApplicationRecord) bool {
	return rec.Flags.Has(domain.FlagSystem)
}

func (r *PackageResolver) IsProtectedSystemComponent(ctx context.Context, appID string) (bool, error) {
	if err := r.ready(); err != nil {
		return false, err
	}
	rec, found := r.lookup(ctx, appID)
	return found && IsSystemApp(rec), nil
}

func (r *PackageResolver) IsUpdatedSystemApp(ctx context.Context, appID string) (bool, error) {
	if err := r.ready(); err != nil {
		return false, err
	}
	rec, found := r.lookup(ctx, appID)
	return found && rec.Flags.Has(domain.FlagUpdatedSystemApp), nil
}

// IsDeletable is true for installed applications without the system flag.
// An updated system application is still a system application.
func (r *PackageResolver) IsDeletable(ctx context.Context, appID string) (bool, error) {
	if err := r.ready(); err != nil {
		return false, err
	}
	rec, found := r.lookup(ctx, appID)
	return found && !IsSystemApp(rec), nil
}

func (r *PackageResolver) IsInstalled(ctx context.Context, appID string) (bool, error) {
	if err := r.ready(); err != nil {
		return false, err
	}
	_, found := r.lookup(ctx, appID)
	return found, nil
}

func (r *PackageResolver) IsLaunchable(ctx context.Context, appID string) (bool, error) {
	_, ok, err := r.LaunchEntry(ctx, appID, "")
	return ok, err
}

// LaunchEntry resolves the default launcher entry, or the named component
// when one is given.
func (r *PackageResolver) LaunchEntry(ctx context.Context, appID, component string) (domain.LaunchEntry, bool, error) {
	if err := r.ready(); err != nil {
		return domain.LaunchEntry{}, false, err
	}
	entry, found, err := r.registry.LaunchEntry(ctx, appID, component)
	if err != nil {
		r.warn(ctx, err, "launch entry", appID)
		return domain.LaunchEntry{}, false, nil
	}
	return entry, found, nil
}

// Packages lists installed application identifiers in registry order.
// A failing registry yields an empty list.
func (r *PackageResolver) Packages(ctx context.Context) ([]string, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	ids, err := r.registry.InstalledApplications(ctx)
	if err != nil {
		r.warn(ctx, err, "installed application listing", "*")
		return []string{}, nil
	}
	return ids, nil
}

func (r *PackageResolver) PackageHashes(ctx context.Context) ([]int32, error) {
	ids, err := r.Packages(ctx)
	if err != nil {
		return nil, err
	}
	hashes := make([]int32, len(ids))
	for i, id := range ids {
		hashes[i] = StringHash(id)
	}
	return hashes, nil
}

// StringHash is the platform's string hash: s[0]*31^(n-1) + ... + s[n-1]
// over UTF-16 code units with int32 overflow.
func StringHash(s string) int32 {
	var h int32
	for _, u := range utf16.Encode([]rune(s)) {
		h = 31*h + int32(u)
	}
	return h
}

// RemoveApplication submits an uninstall request. A rejected request is
// logged and reported as false.
func (r *PackageResolver) RemoveApplication(ctx context.Context, appID string) (bool, error) {
	if err := r.ready(); err != nil {
		return false, err
	}
	req := domain.NewUninstallRequest(appID)
	if err := r.registry.SubmitUninstall(ctx, req); err != nil {
		if r.logger != nil {
			r.logger.Errorf(ctx, err, "Cannot remove application %s", appID)
		}
		return false, nil
	}
	if r.logger != nil {
		r.logger.Infof(ctx, "Uninstall requested for %s", appID)
	}
	return true, nil
}

// Summarize builds the reporting view of one application. ok is false when
// the application is not installed.
func (r *PackageResolver) Summarize(ctx context.Context, appID string) (domain.ApplicationSummary, bool, error) {
	if err := r.ready(); err != nil {
		return domain.ApplicationSummary{}, false, err
	}
	rec, found := r.lookup(ctx, appID)
	if !found {
		return domain.ApplicationSummary{}, false, nil
	}
	launchable, err := r.IsLaunchable(ctx, appID)
	if err != nil {
		return domain.ApplicationSummary{}, false, err
	}
	label := rec.Label
	if label != "" {
		label = r.resolveLabel(ctx, appID, label)
	}
	return domain.ApplicationSummary{
		ID:            rec.ID,
		Label:         label,
		System:        IsSystemApp(rec),
		UpdatedSystem: rec.Flags.Has(domain.FlagUpdatedSystemApp),
		Deletable:     !IsSystemApp(rec),
		Launchable:    launchable,
		Hash:          StringHash(rec.ID),
	}, true, nil
}

func (r *PackageResolver) resolveLabel(ctx context.Context, appID, label string) string {
	if !resref.HasScopeMarker(label) {
		return label
	}
	return r.resourceString(ctx, appID, resref.ParseName(label))
}
