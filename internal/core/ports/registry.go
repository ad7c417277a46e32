package ports

import (
	"context"

	"github.com/olusolaa/pkgutils/internal/core/domain"
)

// ApplicationRegistry is the host's package registry. Absence is reported
// through the found result; a non-nil error means the backend itself failed.
type ApplicationRegistry interface {
	Type() string
	Application(ctx context.Context, id string) (domain.ApplicationRecord, bool, error)
	StringResource(ctx context.Context, id, name string) (string, bool, error)
	StringArrayResource(ctx context.Context, id string, resID int) ([]string, bool, error)
	DrawableResource(ctx context.Context, id, name string) (domain.Icon, bool, error)
	Icon(ctx context.Context, id string) (domain.Icon, bool, error)
	// LaunchEntry resolves the default launcher entry when component is empty.
	LaunchEntry(ctx context.Context, id, component string) (domain.LaunchEntry, bool, error)
	InstalledApplications(ctx context.Context) ([]string, error)
	// SubmitUninstall is fire-and-forget. It fails with CodeLaunchRejected
	// when nothing on the host handles the request.
	SubmitUninstall(ctx context.Context, req domain.UninstallRequest) error
}
