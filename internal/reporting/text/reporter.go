package text

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/olusolaa/pkgutils/internal/core/domain"
	"github.com/olusolaa/pkgutils/internal/core/ports"
)

const ReporterTypeText = "text"

type Config struct {
	NoColor bool `yaml:"no_color" mapstructure:"no_color"`
}

type Reporter struct {
	config Config
	writer io.Writer
	logger ports.Logger
}

func NewReporter(cfg Config, logger ports.Logger) (*Reporter, error) {
	return NewReporterWithWriter(cfg, os.Stdout, logger)
}

// NewReporterWithWriter disables colour unless w is a terminal.
func NewReporterWithWriter(cfg Config, w io.Writer, logger ports.Logger) (*Reporter, error) {
	if cfg.NoColor || !isTerminal(w) {
		color.NoColor = true
	}

	return &Reporter{
		config: cfg,
		writer: w,
		logger: logger,
	}, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}

func (r *Reporter) Report(ctx context.Context, apps []domain.ApplicationSummary) error {
	if len(apps) == 0 {
		fmt.Fprintln(r.writer, "No applications installed.")
		return nil
	}

	sort.SliceStable(apps, func(i, j int) bool { return apps[i].ID < apps[j].ID })

	tw := tabwriter.NewWriter(r.writer, 0, 8, 2, ' ', 0)
	defer tw.Flush()

	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()

	fmt.Fprintln(tw, "Installed Applications")
	fmt.Fprintln(tw, "======================")
	fmt.Fprintln(tw, "Kind\tIdentifier\tLabel\tLaunchable\tHash")
	fmt.Fprintln(tw, "----\t----------\t-----\t----------\t----")

	systemCount, updatedCount, userCount := 0, 0, 0
	for _, app := range apps {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		kind := ""
		switch {
		case app.UpdatedSystem:
			updatedCount++
			kind = yellow("[UPDATED]")
		case app.System:
			systemCount++
			kind = red("[SYSTEM]")
		default:
			userCount++
			kind = green("[USER]")
		}

		label := app.Label
		if label == "" {
			label = "-"
		}
		launchable := "no"
		if app.Launchable {
			launchable = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", kind, app.ID, label, launchable, app.Hash)
	}

	fmt.Fprintln(tw, "\nSummary:")
	fmt.Fprintln(tw, "-------")
	fmt.Fprintf(tw, "Total Applications:\t%d\n", len(apps))
	fmt.Fprintf(tw, "User (removable):\t%s\n", green(userCount))
	fmt.Fprintf(tw, "Updated System:\t%s\n", yellow(updatedCount))
	fmt.Fprintf(tw, "Protected System:\t%s\n", red(systemCount))

	return nil
}

func (r *Reporter) ReportDiff(ctx context.Context, diff domain.InventoryDiff) error {
	if diff.Empty() {
		fmt.Fprintln(r.writer, "No differences found.")
		return nil
	}

	tw := tabwriter.NewWriter(r.writer, 0, 8, 2, ' ', 0)
	defer tw.Flush()

	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()

	fmt.Fprintln(tw, "Inventory Differences")
	fmt.Fprintln(tw, "=====================")
	fmt.Fprintln(tw, "Status\tIdentifier\tDetails")
	fmt.Fprintln(tw, "------\t----------\t-------")

	for _, rec := range diff.Added {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", green("[ADDED]"), rec.ID, describe(rec))
	}
	for _, rec := range diff.Removed {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", red("[REMOVED]"), rec.ID, describe(rec))
	}
	for _, ch := range diff.Changed {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", yellow("[CHANGED]"), ch.ID, formatChange(ch))
	}

	fmt.Fprintln(tw, "\nSummary:")
	fmt.Fprintln(tw, "-------")
	fmt.Fprintf(tw, "Added:\t%s\n", green(len(diff.Added)))
	fmt.Fprintf(tw, "Removed:\t%s\n", red(len(diff.Removed)))
	fmt.Fprintf(tw, "Changed:\t%s\n", yellow(len(diff.Changed)))

	return nil
}

func describe(rec domain.ApplicationRecord) string {
	parts := []string{}
	if rec.Label != "" {
		parts = append(parts, fmt.Sprintf("label=%q", rec.Label))
	}
	if names := rec.Flags.Names(); len(names) > 0 {
		parts = append(parts, "flags="+strings.Join(names, ","))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}

func formatChange(ch domain.RecordChange) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("%d fields differ: ", len(ch.Fields)))
	for i, field := range ch.Fields {
		if i > 0 {
			builder.WriteString("; ")
		}
		switch field {
		case "label":
			builder.WriteString(fmt.Sprintf("label=[%q -> %q]", ch.Before.Label, ch.After.Label))
		case "flags":
			builder.WriteString(fmt.Sprintf("flags=[%s -> %s]",
				strings.Join(ch.Before.Flags.Names(), ","), strings.Join(ch.After.Flags.Names(), ",")))
		default:
			builder.WriteString(field)
		}
	}
	return builder.String()
}
