package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/olusolaa/pkgutils/internal/core/ports"
)

// Logger is a testify mock of ports.Logger. Tests that only need a sink
// can call AllowAll instead of setting per-message expectations.
type Logger struct {
	mock.Mock
}

func (m *Logger) AllowAll() *Logger {
	m.On("Debugf", mock.Anything, mock.Anything, mock.Anything).Maybe()
	m.On("Infof", mock.Anything, mock.Anything, mock.Anything).Maybe()
	m.On("Warnf", mock.Anything, mock.Anything, mock.Anything).Maybe()
	m.On("Errorf", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Maybe()
	m.On("WithFields", mock.Anything).Return(m).Maybe()
	return m
}

func (m *Logger) Debugf(ctx context.Context, format string, args ...any) {
	m.Called(ctx, format, args)
}

func (m *Logger) Infof(ctx context.Context, format string, args ...any) {
	m.Called(ctx, format, args)
}

func (m *Logger) Warnf(ctx context.Context, format string, args ...any) {
	m.Called(ctx, format, args)
}

func (m *Logger) Errorf(ctx context.Context, err error, format string, args ...any) {
	m.Called(ctx, err, format, args)
}

func (m *Logger) WithFields(fields map[string]any) ports.Logger {
	args := m.Called(fields)
	return args.Get(0).(ports.Logger)
}
