package ports

import (
	"context"

	"github.com/olusolaa/pkgutils/internal/core/domain"
)

type Reporter interface {
	Report(ctx context.Context, apps []domain.ApplicationSummary) error
	ReportDiff(ctx context.Context, diff domain.InventoryDiff) error
}
