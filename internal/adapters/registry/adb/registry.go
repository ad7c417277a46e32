// Package adb reads the application registry of a connected Android
// device through adb shell. Resource tables and metadata are not exposed
// by the shell tools, so those lookups always report not-found.
package adb

import (
	"bufio"
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/olusolaa/pkgutils/internal/core/domain"
	"github.com/olusolaa/pkgutils/internal/core/ports"
	"github.com/olusolaa/pkgutils/internal/errors"
)

const RegistryTypeADB = "adb"

type Config struct {
	Binary string `yaml:"binary" mapstructure:"binary"`
	Serial string `yaml:"serial" mapstructure:"serial"`
}

var (
	rePkgFlags   = regexp.MustCompile(`(?m)^\s*pkgFlags=\[([^\]]*)\]`)
	reFlags      = regexp.MustCompile(`(?m)^\s*flags=\[([^\]]*)\]`)
	rePkgHeader  = regexp.MustCompile(`(?m)^\s*Package \[([^\]]+)\]`)
	reStartError = regexp.MustCompile(`(?m)^Error[^\n]*`)
)

type Registry struct {
	logger ports.Logger
	shell  CommandRunner
}

func NewRegistry(cfg Config, logger ports.Logger) *Registry {
	return NewRegistryWithRunner(NewExecRunner(cfg.Binary, cfg.Serial), logger)
}

func NewRegistryWithRunner(shell CommandRunner, logger ports.Logger) *Registry {
	return &Registry{
		logger: logger.WithFields(map[string]any{"component": "adb_registry"}),
		shell:  shell,
	}
}

func (r *Registry) Type() string { return RegistryTypeADB }

func (r *Registry) dumpsys(ctx context.Context, id string) (string, bool, error) {
	out, err := r.shell.Shell(ctx, "dumpsys", "package", id)
	if err != nil {
		return "", false, err
	}
	for _, m := range rePkgHeader.FindAllStringSubmatch(out, -1) {
		if m[1] == id {
			return out, true, nil
		}
	}
	return "", false, nil
}

// parseFlags reads the flag list dumpsys prints for a package. Newer
// releases print system bits under pkgFlags, older ones under flags.
func parseFlags(dump string) domain.Flags {
	var f domain.Flags
	for _, re := range []*regexp.Regexp{rePkgFlags, reFlags} {
		for _, m := range re.FindAllStringSubmatch(dump, -1) {
			for _, tok := range strings.Fields(m[1]) {
				switch tok {
				case "SYSTEM":
					f |= domain.FlagSystem
				case "UPDATED_SYSTEM_APP":
					f |= domain.FlagUpdatedSystemApp
				}
			}
		}
	}
	return f
}

func (r *Registry) Application(ctx context.Context, id string) (domain.ApplicationRecord, bool, error) {
	dump, found, err := r.dumpsys(ctx, id)
	if err != nil || !found {
		return domain.ApplicationRecord{}, false, err
	}
	return domain.ApplicationRecord{ID: id, Flags: parseFlags(dump)}, true, nil
}

func (r *Registry) StringResource(context.Context, string, string) (string, bool, error) {
	return "", false, nil
}

func (r *Registry) StringArrayResource(context.Context, string, int) ([]string, bool, error) {
	return nil, false, nil
}

func (r *Registry) DrawableResource(context.Context, string, string) (domain.Icon, bool, error) {
	return domain.Icon{}, false, nil
}

func (r *Registry) Icon(context.Context, string) (domain.Icon, bool, error) {
	return domain.Icon{}, false, nil
}

func (r *Registry) LaunchEntry(ctx context.Context, id, component string) (domain.LaunchEntry, bool, error) {
	if component != "" {
		dump, found, err := r.dumpsys(ctx, id)
		if err != nil || !found {
			return domain.LaunchEntry{}, false, err
		}
		if !strings.Contains(dump, id+"/"+component) {
			return domain.LaunchEntry{}, false, nil
		}
		return domain.LaunchEntry{Package: id, Component: component, Action: domain.ActionMain}, true, nil
	}

	out, err := r.shell.Shell(ctx, "cmd", "package", "resolve-activity", "--brief",
		"-a", domain.ActionMain, "-c", domain.CategoryLauncher, id)
	if err != nil {
		return domain.LaunchEntry{}, false, err
	}
	resolved := lastLine(out)
	pkg, activity, ok := strings.Cut(resolved, "/")
	if !ok || pkg != id {
		return domain.LaunchEntry{}, false, nil
	}
	return domain.LaunchEntry{
		Package:    id,
		Component:  activity,
		Action:     domain.ActionMain,
		Categories: []string{domain.CategoryLauncher},
	}, true, nil
}

func (r *Registry) InstalledApplications(ctx context.Context) ([]string, error) {
	out, err := r.shell.Shell(ctx, "pm", "list", "packages")
	if err != nil {
		return nil, err
	}
	var ids []string
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if id, ok := strings.CutPrefix(line, "package:"); ok && id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *Registry) SubmitUninstall(ctx context.Context, req domain.UninstallRequest) error {
	out, err := r.shell.Shell(ctx, "am", "start", "-a", req.Action, "-d", req.URI)
	if err != nil {
		return err
	}
	if msg := reStartError.FindString(out); msg != "" {
		return errors.New(errors.CodeLaunchRejected, fmt.Sprintf("no handler for %s: %s", req.URI, msg))
	}
	r.logger.Debugf(ctx, "Uninstall activity started for %s", req.URI)
	return nil
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
