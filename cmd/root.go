package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/olusolaa/pkgutils/internal/app"
	"github.com/olusolaa/pkgutils/internal/config"
	apperrors "github.com/olusolaa/pkgutils/internal/errors"
)

var (
	cfgFile   string
	logLevel  string
	logFormat string
	backend   string
	snapshot  string
	reporter  string
	noColor   bool
)

var rootCmd = &cobra.Command{
	Use:   "pkgutil",
	Short: "Queries the installed applications of a device registry.",
	Long: `pkgutil answers questions about the applications installed on a device:
whether one is installed, protected or removable, how its labels and
metadata resolve, how to launch it, and how to request its removal.

The registry is read from a snapshot file (JSON or HCL), a snapshot stored
in S3, or a device connected through adb.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
}

func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		printError(err)
		os.Exit(1)
	}
}

func init() {
	// Flag defaults are what viper falls back to when nothing else sets a
	// key, so they must match the configuration defaults.
	defaults := config.DefaultConfig()

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Configuration file path (default is .pkgutil.yaml in the working or home directory)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", string(defaults.Settings.LogLevel), "Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", string(defaults.Settings.LogFormat), "Override log format (text, json)")
	rootCmd.PersistentFlags().StringVar(&backend, "registry", defaults.Registry.Backend, "Registry backend (snapshot, adb, s3)")
	rootCmd.PersistentFlags().StringVar(&snapshot, "snapshot", "", "Snapshot file or s3://bucket/key location to read the registry from")
	rootCmd.PersistentFlags().StringVarP(&reporter, "output", "o", defaults.Settings.ReporterType, "Report format (text, json)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable coloured text output")

	viper.BindPFlag("settings.log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("settings.log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("settings.reporter", rootCmd.PersistentFlags().Lookup("output"))
	viper.BindPFlag("settings.reporter_config.text.no_color", rootCmd.PersistentFlags().Lookup("no-color"))
	viper.BindPFlag("registry.backend", rootCmd.PersistentFlags().Lookup("registry"))
	viper.BindPFlag("snapshot", rootCmd.PersistentFlags().Lookup("snapshot"))

	viper.SetEnvPrefix("PKGUTIL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

func initializeConfig(cmd *cobra.Command) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(".pkgutil")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return apperrors.Wrap(err, apperrors.CodeConfigReadError, "failed to read config file")
		}
	}
	return nil
}

// bootstrap builds the application for a subcommand, writing reports to the
// command's stdout.
func bootstrap(cmd *cobra.Command) (*app.Application, error) {
	return app.BuildApplicationFromViper(cmd.Context(), viper.GetViper(),
		app.WithOutput(cmd.OutOrStdout()), app.WithLogOutput(cmd.ErrOrStderr()))
}

func printError(err error) {
	fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
	if appErr := (*apperrors.AppError)(nil); errors.As(err, &appErr) {
		if appErr.IsUserFacing {
			fmt.Fprintf(os.Stderr, "Error Details: %s\n", appErr.Message)
			if appErr.SuggestedAction != "" {
				fmt.Fprintf(os.Stderr, "Suggestion: %s\n", appErr.SuggestedAction)
			}
		}
	}
}
