package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/olusolaa/pkgutils/internal/core/domain"
)

// ApplicationRegistry is a testify mock of ports.ApplicationRegistry.
type ApplicationRegistry struct {
	mock.Mock
}

func (m *ApplicationRegistry) Type() string {
	args := m.Called()
	return args.String(0)
}

func (m *ApplicationRegistry) Application(ctx context.Context, id string) (domain.ApplicationRecord, bool, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.ApplicationRecord), args.Bool(1), args.Error(2)
}

func (m *ApplicationRegistry) StringResource(ctx context.Context, id, name string) (string, bool, error) {
	args := m.Called(ctx, id, name)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *ApplicationRegistry) StringArrayResource(ctx context.Context, id string, resID int) ([]string, bool, error) {
	args := m.Called(ctx, id, resID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]string), args.Bool(1), args.Error(2)
}

func (m *ApplicationRegistry) DrawableResource(ctx context.Context, id, name string) (domain.Icon, bool, error) {
	args := m.Called(ctx, id, name)
	return args.Get(0).(domain.Icon), args.Bool(1), args.Error(2)
}

func (m *ApplicationRegistry) Icon(ctx context.Context, id string) (domain.Icon, bool, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Icon), args.Bool(1), args.Error(2)
}

func (m *ApplicationRegistry) LaunchEntry(ctx context.Context, id, component string) (domain.LaunchEntry, bool, error) {
	args := m.Called(ctx, id, component)
	return args.Get(0).(domain.LaunchEntry), args.Bool(1), args.Error(2)
}

func (m *ApplicationRegistry) InstalledApplications(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *ApplicationRegistry) SubmitUninstall(ctx context.Context, req domain.UninstallRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}
