package json

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	jsoniter "github.com/json-iterator/go"

	"github.com/olusolaa/pkgutils/internal/core/domain"
	"github.com/olusolaa/pkgutils/internal/core/ports"
)

const ReporterTypeJSON = "json"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Config struct {
	Compact bool `yaml:"compact" mapstructure:"compact"`
}

type Reporter struct {
	config Config
	writer io.Writer
	logger ports.Logger
}

func NewReporter(cfg Config, logger ports.Logger) (*Reporter, error) {
	return NewReporterWithWriter(cfg, os.Stdout, logger)
}

func NewReporterWithWriter(cfg Config, w io.Writer, logger ports.Logger) (*Reporter, error) {
	return &Reporter{
		config: cfg,
		writer: w,
		logger: logger,
	}, nil
}

type jsonListing struct {
	Summary      jsonSummary       `json:"summary"`
	Applications []jsonApplication `json:"applications"`
}

type jsonSummary struct {
	Total         int `json:"total"`
	User          int `json:"user"`
	UpdatedSystem int `json:"updated_system"`
	System        int `json:"system"`
}

type jsonApplication struct {
	ID            string `json:"id"`
	Label         string `json:"label,omitempty"`
	System        bool   `json:"system"`
	UpdatedSystem bool   `json:"updated_system"`
	Deletable     bool   `json:"deletable"`
	Launchable    bool   `json:"launchable"`
	Hash          int32  `json:"hash"`
}

type jsonDiff struct {
	Added   []jsonRecord `json:"added"`
	Removed []jsonRecord `json:"removed"`
	Changed []jsonChange `json:"changed"`
}

type jsonRecord struct {
	ID    string   `json:"id"`
	Label string   `json:"label,omitempty"`
	Flags []string `json:"flags,omitempty"`
}

type jsonChange struct {
	ID     string     `json:"id"`
	Fields []string   `json:"fields"`
	Before jsonRecord `json:"before"`
	After  jsonRecord `json:"after"`
}

func (r *Reporter) Report(ctx context.Context, apps []domain.ApplicationSummary) error {
	listing := jsonListing{
		Summary:      jsonSummary{Total: len(apps)},
		Applications: make([]jsonApplication, 0, len(apps)),
	}

	sort.SliceStable(apps, func(i, j int) bool { return apps[i].ID < apps[j].ID })
	for _, app := range apps {
		if ctx.Err() != nil {
			r.logger.Warnf(ctx, "JSON report generation cancelled.")
			return ctx.Err()
		}

		switch {
		case app.UpdatedSystem:
			listing.Summary.UpdatedSystem++
		case app.System:
			listing.Summary.System++
		default:
			listing.Summary.User++
		}

		listing.Applications = append(listing.Applications, jsonApplication{
			ID:            app.ID,
			Label:         app.Label,
			System:        app.System,
			UpdatedSystem: app.UpdatedSystem,
			Deletable:     app.Deletable,
			Launchable:    app.Launchable,
			Hash:          app.Hash,
		})
	}

	return r.encode(ctx, listing)
}

func (r *Reporter) ReportDiff(ctx context.Context, diff domain.InventoryDiff) error {
	out := jsonDiff{
		Added:   toRecords(diff.Added),
		Removed: toRecords(diff.Removed),
		Changed: make([]jsonChange, 0, len(diff.Changed)),
	}
	for _, ch := range diff.Changed {
		out.Changed = append(out.Changed, jsonChange{
			ID:     ch.ID,
			Fields: ch.Fields,
			Before: toRecord(ch.Before),
			After:  toRecord(ch.After),
		})
	}
	return r.encode(ctx, out)
}

func toRecords(records []domain.ApplicationRecord) []jsonRecord {
	out := make([]jsonRecord, 0, len(records))
	for _, rec := range records {
		out = append(out, toRecord(rec))
	}
	return out
}

func toRecord(rec domain.ApplicationRecord) jsonRecord {
	return jsonRecord{ID: rec.ID, Label: rec.Label, Flags: rec.Flags.Names()}
}

func (r *Reporter) encode(ctx context.Context, v any) error {
	encoder := json.NewEncoder(r.writer)
	if !r.config.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(v); err != nil {
		r.logger.Errorf(ctx, err, "Failed to encode JSON report")
		return fmt.Errorf("failed to encode JSON report: %w", err)
	}

	r.logger.Debugf(ctx, "JSON report successfully generated.")
	return nil
}
