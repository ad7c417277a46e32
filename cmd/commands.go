package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/olusolaa/pkgutils/internal/core/service"
	apperrors "github.com/olusolaa/pkgutils/internal/errors"
	"github.com/olusolaa/pkgutils/internal/resref"
)

var (
	metaArray       bool
	launchComponent string
	iconDrawable    string
	diffExitCode    bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed applications",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		return application.List(cmd.Context())
	},
}

var infoCmd = &cobra.Command{
	Use:   "info <application-id>",
	Short: "Show how an application is classified",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resolver, err := openResolver(cmd)
		if err != nil {
			return err
		}
		ctx, id := cmd.Context(), args[0]

		summary, found, err := resolver.Summarize(ctx, id)
		if err != nil {
			return err
		}
		if !found {
			return apperrors.NewUserFacing(apperrors.CodeApplicationNotFound,
				fmt.Sprintf("application %s is not installed", id), "Run 'pkgutil list' to see installed applications.")
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
		defer tw.Flush()
		fmt.Fprintf(tw, "Identifier:\t%s\n", summary.ID)
		fmt.Fprintf(tw, "Label:\t%s\n", summary.Label)
		fmt.Fprintf(tw, "Protected system component:\t%t\n", summary.System)
		fmt.Fprintf(tw, "Updated system application:\t%t\n", summary.UpdatedSystem)
		fmt.Fprintf(tw, "Deletable:\t%t\n", summary.Deletable)
		fmt.Fprintf(tw, "Launchable:\t%t\n", summary.Launchable)
		fmt.Fprintf(tw, "Hash:\t%d\n", summary.Hash)
		return nil
	},
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <application-id> <text>",
	Short: "Resolve a text that may be a resource reference such as @string/app_name",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		resolver, err := openResolver(cmd)
		if err != nil {
			return err
		}
		text, err := resolver.ResolveText(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	},
}

var metaCmd = &cobra.Command{
	Use:   "meta <application-id> <tag>",
	Short: "Read an application metadata entry",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		resolver, err := openResolver(cmd)
		if err != nil {
			return err
		}
		ctx, id, tag := cmd.Context(), args[0], args[1]

		if !metaArray {
			value, err := resolver.ResolveMetadataString(ctx, id, tag)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		}

		values, ok, err := resolver.ResolveMetadataStringArray(ctx, id, tag)
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.NewUserFacing(apperrors.CodeMetadataNotFound,
				fmt.Sprintf("no string array under metadata tag %s of %s", tag, id), "")
		}
		for _, v := range values {
			fmt.Fprintln(cmd.OutOrStdout(), v)
		}
		return nil
	},
}

var parseCmd = &cobra.Command{
	Use:   "parse <reference>",
	Short: "Split a resource reference into kind and name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref, ok := resref.Parse(args[0])
		if !ok {
			return apperrors.NewUserFacing(apperrors.CodeMalformedReference,
				fmt.Sprintf("%q is not a resource reference", args[0]), "Expected @[android:]<kind>/<name>.")
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
		defer tw.Flush()
		fmt.Fprintf(tw, "Kind:\t%s\n", ref.Kind)
		fmt.Fprintf(tw, "Name:\t%s\n", ref.Name)
		fmt.Fprintf(tw, "Platform:\t%t\n", ref.PlatformScoped)
		return nil
	},
}

var iconCmd = &cobra.Command{
	Use:   "icon <application-id>",
	Short: "Show where an application's icon, or one of its drawables, comes from",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resolver, err := openResolver(cmd)
		if err != nil {
			return err
		}
		ctx, id := cmd.Context(), args[0]

		var found bool
		var source string
		if iconDrawable != "" {
			icon, ok, err := resolver.ResourceDrawable(ctx, id, iconDrawable)
			if err != nil {
				return err
			}
			found, source = ok, icon.Source
		} else {
			icon, ok, err := resolver.Icon(ctx, id)
			if err != nil {
				return err
			}
			found, source = ok, icon.Source
		}
		if !found {
			return apperrors.NewUserFacing(apperrors.CodeResourceNotFound,
				fmt.Sprintf("no icon available for %s", id), "")
		}
		fmt.Fprintln(cmd.OutOrStdout(), source)
		return nil
	},
}

var launchCmd = &cobra.Command{
	Use:   "launch <application-id>",
	Short: "Show the launch entry for an application",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resolver, err := openResolver(cmd)
		if err != nil {
			return err
		}
		entry, ok, err := resolver.LaunchEntry(cmd.Context(), args[0], launchComponent)
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.NewUserFacing(apperrors.CodeLaunchRejected,
				fmt.Sprintf("%s has no launch entry", args[0]), "Check the application id and --component.")
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
		defer tw.Flush()
		fmt.Fprintf(tw, "Package:\t%s\n", entry.Package)
		fmt.Fprintf(tw, "Component:\t%s\n", entry.Component)
		fmt.Fprintf(tw, "Action:\t%s\n", entry.Action)
		fmt.Fprintf(tw, "Categories:\t%s\n", strings.Join(entry.Categories, ","))
		return nil
	},
}

var uninstallCmd = &cobra.Command{
	Use:   "uninstall <application-id>",
	Short: "Request removal of an application",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resolver, err := openResolver(cmd)
		if err != nil {
			return err
		}
		accepted, err := resolver.RemoveApplication(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if !accepted {
			return apperrors.NewUserFacing(apperrors.CodeLaunchRejected,
				fmt.Sprintf("removal of %s was rejected", args[0]), "Protected system components cannot be removed.")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removal of %s requested\n", args[0])
		return nil
	},
}

var diffCmd = &cobra.Command{
	Use:   "diff <snapshot> <snapshot>",
	Short: "Compare two registry snapshots",
	Long: `Compare two registry snapshots and report applications that were added,
removed or changed. Each snapshot is a local .json/.hcl file or an
s3://bucket/key location.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		changed, err := application.Diff(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		if changed && diffExitCode {
			return apperrors.New(apperrors.CodeUnknown, "snapshots differ")
		}
		return nil
	},
}

func openResolver(cmd *cobra.Command) (*service.PackageResolver, error) {
	application, err := bootstrap(cmd)
	if err != nil {
		return nil, err
	}
	return application.Resolver(cmd.Context())
}

func init() {
	metaCmd.Flags().BoolVar(&metaArray, "array", false, "Treat the metadata value as a string-array resource id")
	launchCmd.Flags().StringVar(&launchComponent, "component", "", "Explicit component to launch instead of the default entry")
	iconCmd.Flags().StringVar(&iconDrawable, "drawable", "", "Drawable resource name to look up instead of the application icon")
	diffCmd.Flags().BoolVar(&diffExitCode, "exit-code", false, "Exit with status 1 when the snapshots differ")

	rootCmd.AddCommand(listCmd, infoCmd, resolveCmd, metaCmd, parseCmd, iconCmd, launchCmd, uninstallCmd, diffCmd)
}
