// Package capability provides the invocation context's module registry.
// Capability modules (filesystem, network, templating, ...) are external
// collaborators: the runtime only requires that each is obtainable by a
// stable name, resolved lazily, cached for the process lifetime, and
// substitutable before first use.
package capability

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrUnknownCapability = errors.New("glue: unknown capability")
	ErrAlreadyResolved   = errors.New("glue: capability already resolved")
)

// Factory builds a capability module on first resolution.
type Factory func() (any, error)

// Registry maps capability names to lazily-built modules. Each module is
// built at most once per process; the instance is cached afterwards.
// Substituting a factory (for tests) is only allowed before the name has
// been resolved.
type Registry struct {
	mu        sync.Mutex
	factories map[string]Factory
	instances map[string]any
	order     []string
}

func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		instances: make(map[string]any),
	}
}

// Register binds a factory to a name, replacing any previous binding. It
// fails once the name has been resolved, since handlers may already hold the
// cached instance.
func (r *Registry) Register(name string, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, resolved := r.instances[name]; resolved {
		return fmt.Errorf("%w: %s", ErrAlreadyResolved, name)
	}

	if _, exists := r.factories[name]; !exists {
		r.order = append(r.order, name)
	}
	r.factories[name] = factory

	return nil
}

// Resolve returns the cached module for name, building it on first use.
func (r *Registry) Resolve(name string) (any, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if instance, ok := r.instances[name]; ok {
		return instance, nil
	}

	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCapability, name)
	}

	instance, err := factory()
	if err != nil {
		return nil, fmt.Errorf("glue: capability '%s' failed to initialize: %w", name, err)
	}

	r.instances[name] = instance
	return instance, nil
}

// Names returns every registered capability name in registration order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.order...)
}

// Get resolves a capability and asserts its concrete type.
func Get[T any](r *Registry, name string) (T, error) {
	var zero T

	instance, err := r.Resolve(name)
	if err != nil {
		return zero, err
	}

	typed, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("glue: capability '%s' is %T, not %T", name, instance, zero)
	}

	return typed, nil
}
