// Package inventory compares two application registries, typically two
// snapshots of the same device taken at different times.
package inventory

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"golang.org/x/sync/errgroup"

	"github.com/olusolaa/pkgutils/internal/core/domain"
	"github.com/olusolaa/pkgutils/internal/errors"
)

// Source is a registry that can list its full records.
type Source interface {
	Records() []domain.ApplicationRecord
}

type Loader func(ctx context.Context) (Source, error)

// An application without metadata and one with an empty metadata map are
// equivalent here.
var recordOptions = cmp.Options{cmpopts.EquateEmpty()}

// Compare reports which applications were added, removed or changed going
// from before to after. Every slice in the result is ordered by ID.
func Compare(before, after []domain.ApplicationRecord) domain.InventoryDiff {
	old := index(before)
	cur := index(after)

	var report domain.InventoryDiff
	for id, rec := range cur {
		prev, ok := old[id]
		if !ok {
			report.Added = append(report.Added, rec)
			continue
		}
		if fields := changedFields(prev, rec); len(fields) > 0 {
			report.Changed = append(report.Changed, domain.RecordChange{
				ID:     id,
				Fields: fields,
				Before: prev,
				After:  rec,
				Diff:   cmp.Diff(prev, rec, recordOptions),
			})
		}
	}
	for id, rec := range old {
		if _, ok := cur[id]; !ok {
			report.Removed = append(report.Removed, rec)
		}
	}

	sortRecords(report.Added)
	sortRecords(report.Removed)
	sort.Slice(report.Changed, func(i, j int) bool { return report.Changed[i].ID < report.Changed[j].ID })
	return report
}

func changedFields(a, b domain.ApplicationRecord) []string {
	var fields []string
	if a.Label != b.Label {
		fields = append(fields, "label")
	}
	if a.Flags != b.Flags {
		fields = append(fields, "flags")
	}
	if !cmp.Equal(a.Metadata, b.Metadata, recordOptions) {
		fields = append(fields, "metadata")
	}
	return fields
}

func index(records []domain.ApplicationRecord) map[string]domain.ApplicationRecord {
	m := make(map[string]domain.ApplicationRecord, len(records))
	for _, r := range records {
		m[r.ID] = r
	}
	return m
}

func sortRecords(records []domain.ApplicationRecord) {
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
}

// LoadAndCompare runs both loaders concurrently and compares the results.
// The first load failure cancels the other.
func LoadAndCompare(ctx context.Context, before, after Loader) (domain.InventoryDiff, error) {
	if before == nil || after == nil {
		return domain.InventoryDiff{}, errors.New(errors.CodeInternal, "inventory loaders cannot be nil")
	}

	var oldSrc, newSrc Source
	g, childCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		src, err := before(childCtx)
		if err != nil {
			return fmt.Errorf("loading baseline: %w", err)
		}
		oldSrc = src
		return nil
	})
	g.Go(func() error {
		src, err := after(childCtx)
		if err != nil {
			return fmt.Errorf("loading current: %w", err)
		}
		newSrc = src
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.InventoryDiff{}, errors.Wrap(err, errors.CodeRegistryError, "failed to load registries for comparison")
	}

	return Compare(oldSrc.Records(), newSrc.Records()), nil
}
