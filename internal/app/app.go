package app

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/olusolaa/pkgutils/internal/adapters/registry/s3"
	"github.com/olusolaa/pkgutils/internal/adapters/registry/snapshot"
	"github.com/olusolaa/pkgutils/internal/config"
	"github.com/olusolaa/pkgutils/internal/core/domain"
	"github.com/olusolaa/pkgutils/internal/core/ports"
	"github.com/olusolaa/pkgutils/internal/core/service"
	"github.com/olusolaa/pkgutils/internal/errors"
	"github.com/olusolaa/pkgutils/internal/inventory"
)

// Application wires the configured registry backend and reporters. The
// backend is opened on first use so commands that never touch it (parse,
// diff) do not need a device or credentials.
type Application struct {
	Config     *config.Config
	Logger     ports.Logger
	Components *service.ComponentRegistry

	out      io.Writer
	once     sync.Once
	resolver *service.PackageResolver
	openErr  error
}

func (a *Application) Out() io.Writer { return a.out }

// Resolver opens the configured backend once and returns the resolver over it.
func (a *Application) Resolver(ctx context.Context) (*service.PackageResolver, error) {
	a.once.Do(func() {
		backend, err := a.Components.OpenBackend(ctx, a.Config.Registry.Backend)
		if err != nil {
			a.openErr = err
			return
		}
		a.Logger.Infof(ctx, "Using %s registry backend", backend.Type())
		a.resolver, a.openErr = service.NewPackageResolver(backend, a.Logger.WithFields(map[string]any{"component": "resolver"}))
	})
	return a.resolver, a.openErr
}

func (a *Application) Reporter() (ports.Reporter, error) {
	return a.Components.GetReporter(a.Config.Settings.ReporterType)
}

// Summaries describes every installed application in registry order.
func (a *Application) Summaries(ctx context.Context) ([]domain.ApplicationSummary, error) {
	resolver, err := a.Resolver(ctx)
	if err != nil {
		return nil, err
	}
	ids, err := resolver.Packages(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]domain.ApplicationSummary, 0, len(ids))
	for _, id := range ids {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		summary, found, err := resolver.Summarize(ctx, id)
		if err != nil {
			return nil, err
		}
		if !found {
			a.Logger.Warnf(ctx, "Application %s listed but not resolvable, skipping", id)
			continue
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (a *Application) List(ctx context.Context) error {
	reporter, err := a.Reporter()
	if err != nil {
		return err
	}
	summaries, err := a.Summaries(ctx)
	if err != nil {
		return err
	}
	a.Logger.Debugf(ctx, "Reporting %d applications", len(summaries))
	return reporter.Report(ctx, summaries)
}

// Diff compares two snapshots, each a local path or an s3:// location, and
// reports the differences. It returns whether any were found.
func (a *Application) Diff(ctx context.Context, before, after string) (bool, error) {
	reporter, err := a.Reporter()
	if err != nil {
		return false, err
	}

	a.Logger.Infof(ctx, "Comparing %s against %s", before, after)
	diff, err := inventory.LoadAndCompare(ctx, a.snapshotLoader(before), a.snapshotLoader(after))
	if err != nil {
		return false, err
	}
	if err := reporter.ReportDiff(ctx, diff); err != nil {
		return false, err
	}
	return !diff.Empty(), nil
}

func (a *Application) snapshotLoader(location string) inventory.Loader {
	return func(ctx context.Context) (inventory.Source, error) {
		if !strings.HasPrefix(location, s3Scheme) {
			reg, err := snapshot.Load(ctx, snapshot.Config{Path: location}, a.Logger)
			if err != nil {
				return nil, err
			}
			return reg, nil
		}

		bucket, key, err := splitS3Location(location)
		if err != nil {
			return nil, err
		}
		cfg := a.Config.Registry.S3
		cfg.Bucket, cfg.Key = bucket, key
		loader, err := s3.NewLoader(ctx, cfg, a.Logger)
		if err != nil {
			return nil, err
		}
		reg, err := loader.Load(ctx)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeRegistryError, "failed to load snapshot from S3")
		}
		return reg, nil
	}
}
