package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/olusolaa/pkgutils/internal/core/ports"
	"github.com/olusolaa/pkgutils/internal/errors"
)

// RegistryFactory builds an application registry backend on demand, so
// backends that need credentials or a device are only touched when chosen.
type RegistryFactory func(ctx context.Context) (ports.ApplicationRegistry, error)

type ComponentRegistry struct {
	mu        sync.RWMutex
	backends  map[string]RegistryFactory
	reporters map[string]ports.Reporter
}

func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		backends:  make(map[string]RegistryFactory),
		reporters: make(map[string]ports.Reporter),
	}
}

func (r *ComponentRegistry) RegisterBackend(backendType string, factory RegistryFactory) error {
	if factory == nil {
		return errors.New(errors.CodeInternal, "attempted to register nil registry factory")
	}
	if backendType == "" {
		return errors.New(errors.CodeInternal, "registry backend type cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.backends[backendType]; exists {
		return errors.New(errors.CodeInternal, fmt.Sprintf("registry backend '%s' already registered", backendType))
	}
	r.backends[backendType] = factory
	return nil
}

// OpenBackend runs the factory registered under backendType.
func (r *ComponentRegistry) OpenBackend(ctx context.Context, backendType string) (ports.ApplicationRegistry, error) {
	r.mu.RLock()
	factory, exists := r.backends[backendType]
	r.mu.RUnlock()

	if !exists {
		return nil, errors.NewUserFacing(errors.CodeConfigValidation,
			fmt.Sprintf("registry backend '%s' not found", backendType),
			fmt.Sprintf("Supported backends: %v", r.BackendTypes()))
	}
	backend, err := factory(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeRegistryError, fmt.Sprintf("failed to open registry backend '%s'", backendType))
	}
	if backend == nil {
		return nil, errors.New(errors.CodeInternal, fmt.Sprintf("registry backend '%s' factory returned nil", backendType))
	}
	return backend, nil
}

func (r *ComponentRegistry) BackendTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.backends))
	for t := range r.backends {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

func (r *ComponentRegistry) RegisterReporter(format string, reporter ports.Reporter) error {
	if reporter == nil {
		return errors.New(errors.CodeInternal, "attempted to register nil reporter")
	}
	if format == "" {
		return errors.New(errors.CodeInternal, "reporter format cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.reporters[format]; exists {
		return errors.New(errors.CodeInternal, fmt.Sprintf("reporter '%s' already registered", format))
	}
	r.reporters[format] = reporter
	return nil
}

func (r *ComponentRegistry) GetReporter(format string) (ports.Reporter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reporter, exists := r.reporters[format]
	if !exists {
		return nil, errors.NewUserFacing(errors.CodeConfigValidation,
			fmt.Sprintf("reporter '%s' not found", format), "Supported: text, json")
	}
	return reporter, nil
}
