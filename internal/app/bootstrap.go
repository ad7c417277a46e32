package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/olusolaa/pkgutils/internal/adapters/registry/adb"
	"github.com/olusolaa/pkgutils/internal/adapters/registry/s3"
	"github.com/olusolaa/pkgutils/internal/adapters/registry/snapshot"
	"github.com/olusolaa/pkgutils/internal/config"
	"github.com/olusolaa/pkgutils/internal/core/ports"
	"github.com/olusolaa/pkgutils/internal/core/service"
	"github.com/olusolaa/pkgutils/internal/errors"
	"github.com/olusolaa/pkgutils/internal/log"
	"github.com/olusolaa/pkgutils/internal/reporting/json"
	"github.com/olusolaa/pkgutils/internal/reporting/text"
)

type buildOptions struct {
	out    io.Writer
	logOut io.Writer
}

type Option func(*buildOptions)

// WithOutput sets where reports are written. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(o *buildOptions) { o.out = w }
}

// WithLogOutput sets where logs are written. Defaults to stderr.
func WithLogOutput(w io.Writer) Option {
	return func(o *buildOptions) { o.logOut = w }
}

// LoadConfig unmarshals and validates the configuration held by v, after
// applying command line overrides.
func LoadConfig(ctx context.Context, v *viper.Viper) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, errors.CodeConfigParseError, "failed to unmarshal configuration")
	}

	if err := applySnapshotOverride(cfg, v.GetString("snapshot"), v.IsSet("registry.backend")); err != nil {
		return nil, err
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.StructCtx(ctx, cfg); err != nil {
		var errorDetails strings.Builder
		errorDetails.WriteString("Configuration validation failed:")
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range validationErrors {
				errorDetails.WriteString(fmt.Sprintf("\n - Field '%s': Failed on '%s' validation (value: '%v')", fe.Namespace(), fe.Tag(), fe.Value()))
			}
		} else {
			errorDetails.WriteString(" " + err.Error())
		}
		return nil, errors.NewUserFacing(errors.CodeConfigValidation, errorDetails.String(), "Please check your configuration file or flags.")
	}
	return cfg, nil
}

func BuildApplicationFromViper(ctx context.Context, v *viper.Viper, opts ...Option) (*Application, error) {
	o := buildOptions{out: os.Stdout, logOut: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}

	cfg, err := LoadConfig(ctx, v)
	if err != nil {
		return nil, err
	}

	logger, err := log.NewLogger(log.Config{Level: cfg.Settings.LogLevel, Format: cfg.Settings.LogFormat, Output: o.logOut})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "logger initialization failed")
	}
	logger.Debugf(ctx, "Logger initialized (Level: %s, Format: %s)", cfg.Settings.LogLevel, cfg.Settings.LogFormat)
	if v.ConfigFileUsed() != "" {
		logger.Debugf(ctx, "Using configuration file: %s", v.ConfigFileUsed())
	} else {
		logger.Debugf(ctx, "No configuration file found, using defaults/env/flags.")
	}

	components := service.NewComponentRegistry()
	if err := registerBackends(components, cfg, logger); err != nil {
		return nil, err
	}
	if err := registerReporters(components, cfg, o.out, logger); err != nil {
		return nil, err
	}
	logger.Debugf(ctx, "Component registry initialized with backends %v", components.BackendTypes())

	return &Application{
		Config:     cfg,
		Logger:     logger,
		Components: components,
		out:        o.out,
	}, nil
}

func registerBackends(components *service.ComponentRegistry, cfg *config.Config, logger ports.Logger) error {
	factories := map[string]service.RegistryFactory{
		snapshot.RegistryTypeSnapshot: func(ctx context.Context) (ports.ApplicationRegistry, error) {
			reg, err := snapshot.Load(ctx, cfg.Registry.Snapshot, logger)
			if err != nil {
				return nil, err
			}
			return reg, nil
		},
		adb.RegistryTypeADB: func(ctx context.Context) (ports.ApplicationRegistry, error) {
			return adb.NewRegistry(cfg.Registry.ADB, logger), nil
		},
		s3.RegistryTypeS3: func(ctx context.Context) (ports.ApplicationRegistry, error) {
			loader, err := s3.NewLoader(ctx, cfg.Registry.S3, logger)
			if err != nil {
				return nil, err
			}
			reg, err := loader.Load(ctx)
			if err != nil {
				return nil, err
			}
			return reg, nil
		},
	}
	for backendType, factory := range factories {
		if err := components.RegisterBackend(backendType, factory); err != nil {
			return err
		}
	}
	return nil
}

func registerReporters(components *service.ComponentRegistry, cfg *config.Config, out io.Writer, logger ports.Logger) error {
	textLog := logger.WithFields(map[string]any{"component": "reporter", "type": text.ReporterTypeText})
	textReporter, err := text.NewReporterWithWriter(cfg.Settings.Reporter.Text, out, textLog)
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to initialize Text reporter")
	}
	if err := components.RegisterReporter(text.ReporterTypeText, textReporter); err != nil {
		return err
	}

	jsonLog := logger.WithFields(map[string]any{"component": "reporter", "type": json.ReporterTypeJSON})
	jsonReporter, err := json.NewReporterWithWriter(cfg.Settings.Reporter.JSON, out, jsonLog)
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to initialize JSON reporter")
	}
	return components.RegisterReporter(json.ReporterTypeJSON, jsonReporter)
}
