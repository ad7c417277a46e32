package text

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olusolaa/pkgutils/internal/core/domain"
	portsmocks "github.com/olusolaa/pkgutils/internal/core/ports/mocks"
)

func newTestReporter(t *testing.T) (*Reporter, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	r, err := NewReporterWithWriter(Config{NoColor: true}, &buf, new(portsmocks.Logger).AllowAll())
	require.NoError(t, err)
	return r, &buf
}

func TestReport(t *testing.T) {
	r, buf := newTestReporter(t)
	apps := []domain.ApplicationSummary{
		{ID: "org.example.notes", Label: "Notes", Deletable: true, Launchable: true, Hash: 7},
		{ID: "com.android.settings", System: true},
		{ID: "com.android.chrome", System: true, UpdatedSystem: true, Launchable: true},
	}
	require.NoError(t, r.Report(context.Background(), apps))

	out := buf.String()
	assert.Contains(t, out, "Installed Applications")
	assert.Contains(t, out, "[USER]")
	assert.Contains(t, out, "[SYSTEM]")
	assert.Contains(t, out, "[UPDATED]")
	assert.Regexp(t, `Total Applications:\s+3`, out)
	assert.Regexp(t, `Protected System:\s+1`, out)
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("com.android.chrome")), bytes.Index(buf.Bytes(), []byte("org.example.notes")))
}

func TestReport_Empty(t *testing.T) {
	r, buf := newTestReporter(t)
	require.NoError(t, r.Report(context.Background(), nil))
	assert.Equal(t, "No applications installed.\n", buf.String())
}

func TestReportDiff(t *testing.T) {
	r, buf := newTestReporter(t)
	diff := domain.InventoryDiff{
		Added:   []domain.ApplicationRecord{{ID: "org.example.new", Label: "New"}},
		Removed: []domain.ApplicationRecord{{ID: "org.example.old"}},
		Changed: []domain.RecordChange{{
			ID:     "com.android.chrome",
			Fields: []string{"flags", "label"},
			Before: domain.ApplicationRecord{ID: "com.android.chrome", Label: "Chrome", Flags: domain.FlagSystem},
			After:  domain.ApplicationRecord{ID: "com.android.chrome", Label: "Chrome Beta", Flags: domain.FlagSystem | domain.FlagUpdatedSystemApp},
		}},
	}
	require.NoError(t, r.ReportDiff(context.Background(), diff))

	out := buf.String()
	assert.Contains(t, out, "[ADDED]")
	assert.Contains(t, out, `label="New"`)
	assert.Contains(t, out, "[REMOVED]")
	assert.Contains(t, out, "flags=[system -> system,updated_system]")
	assert.Contains(t, out, `label=["Chrome" -> "Chrome Beta"]`)
}

func TestReportDiff_Empty(t *testing.T) {
	r, buf := newTestReporter(t)
	require.NoError(t, r.ReportDiff(context.Background(), domain.InventoryDiff{}))
	assert.Equal(t, "No differences found.\n", buf.String())
}
