package config

import (
	"github.com/olusolaa/pkgutils/internal/adapters/registry/adb"
	"github.com/olusolaa/pkgutils/internal/adapters/registry/s3"
	"github.com/olusolaa/pkgutils/internal/adapters/registry/snapshot"
	"github.com/olusolaa/pkgutils/internal/log"
	"github.com/olusolaa/pkgutils/internal/reporting/json"
	"github.com/olusolaa/pkgutils/internal/reporting/text"
)

type Config struct {
	Settings SettingsConfig `yaml:"settings" mapstructure:"settings"`
	Registry RegistryConfig `yaml:"registry" mapstructure:"registry"`
}

type SettingsConfig struct {
	LogLevel     log.Level       `yaml:"log_level" mapstructure:"log_level" validate:"oneof=debug info warn error"`
	LogFormat    log.Format      `yaml:"log_format" mapstructure:"log_format" validate:"oneof=text json"`
	ReporterType string          `yaml:"reporter" mapstructure:"reporter" validate:"oneof=text json"`
	Reporter     ReporterConfigs `yaml:"reporter_config" mapstructure:"reporter_config"`
}

type ReporterConfigs struct {
	Text text.Config `yaml:"text" mapstructure:"text"`
	JSON json.Config `yaml:"json" mapstructure:"json"`
}

// RegistryConfig selects the backend answering registry queries. Only the
// sub-config named by Backend is read.
type RegistryConfig struct {
	Backend  string          `yaml:"backend" mapstructure:"backend" validate:"oneof=snapshot adb s3"`
	Snapshot snapshot.Config `yaml:"snapshot" mapstructure:"snapshot"`
	ADB      adb.Config      `yaml:"adb" mapstructure:"adb"`
	S3       s3.Config       `yaml:"s3" mapstructure:"s3"`
}

func DefaultConfig() *Config {
	return &Config{
		Settings: SettingsConfig{
			LogLevel:     log.LevelInfo,
			LogFormat:    log.FormatText,
			ReporterType: text.ReporterTypeText,
		},
		Registry: RegistryConfig{
			Backend:  snapshot.RegistryTypeSnapshot,
			Snapshot: snapshot.Config{Path: "registry.json"},
			ADB:      adb.Config{Binary: "adb"},
			S3:       s3.Config{RPS: 5},
		},
	}
}
