// Package registry provides the service registry: a central place to obtain
// shared service instances without components constructing their own
// dependencies.
//
// Services are registered as factories at application startup and built
// lazily on first Resolve. Each key holds at most one live instance for the
// registry's lifetime; the registry owns every instance it creates, and
// consumers hold borrowed references that must not outlive Shutdown.
//
// Like the event bus, the registry is meant to be driven from a single
// logical thread. A mutex protects the descriptor and instance tables so
// concurrent reads cannot corrupt them, but resolving the same key from two
// goroutines at once is outside the contract.
package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
)

// Common errors for registry operations.
var (
	ErrUnknownService        = errors.New("service not registered")
	ErrDuplicateRegistration = errors.New("service already registered")
	ErrCircularDependency    = errors.New("circular service dependency")
	ErrRegistryClosed        = errors.New("registry has been shut down")
)

// Factory builds a service instance. It receives the registry so it can
// resolve its own dependencies; resolution loops are detected and surfaced
// as ErrCircularDependency instead of recursing forever.
type Factory func(r *Registry) (any, error)

// Option configures a single registration.
type Option func(*registerOptions)

type registerOptions struct {
	override bool
}

// WithOverride allows Register to replace an existing registration for the
// same key. Any cached instance for the key is discarded without being
// closed; overriding a key that has already been resolved is intended for
// tests, not for live reconfiguration.
func WithOverride() Option {
	return func(o *registerOptions) { o.override = true }
}

type descriptor struct {
	key     string
	factory Factory
}

// Registry creates, caches and tears down singleton service instances.
type Registry struct {
	mu          sync.Mutex
	descriptors map[string]*descriptor
	instances   map[string]any
	order       []string // creation order, closed in reverse on Shutdown
	resolving   map[string]bool
	stack       []string // resolution path, for cycle diagnostics
	closed      bool
	logger      *slog.Logger
}

// New creates an empty registry. Shutdown diagnostics are reported through
// logger; pass nil to use slog.Default().
func New(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		descriptors: make(map[string]*descriptor),
		instances:   make(map[string]any),
		resolving:   make(map[string]bool),
		logger:      logger,
	}
}

// Register stores a factory for later lazy construction. Registering a key
// twice fails with ErrDuplicateRegistration unless WithOverride is given.
func (r *Registry) Register(key string, factory Factory, opts ...Option) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("service key cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("register %q: factory cannot be nil", key)
	}

	var o registerOptions
	for _, opt := range opts {
		opt(&o)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return fmt.Errorf("register %q: %w", key, ErrRegistryClosed)
	}
	if _, exists := r.descriptors[key]; exists && !o.override {
		return fmt.Errorf("register %q: %w", key, ErrDuplicateRegistration)
	}

	if o.override {
		if _, had := r.instances[key]; had {
			delete(r.instances, key)
			r.dropFromOrder(key)
		}
	}

	r.descriptors[key] = &descriptor{key: key, factory: factory}
	return nil
}

// Resolve returns the cached singleton for key, building it on first use.
// Construction errors propagate to the caller and the key is not cached, so
// a later Resolve retries the factory.
func (r *Registry) Resolve(key string) (any, error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, fmt.Errorf("resolve %q: %w", key, ErrRegistryClosed)
	}
	if instance, ok := r.instances[key]; ok {
		r.mu.Unlock()
		return instance, nil
	}
	desc, ok := r.descriptors[key]
	if !ok {
		r.mu.Unlock()
		return nil, fmt.Errorf("resolve %q: %w", key, ErrUnknownService)
	}
	if r.resolving[key] {
		cycle := strings.Join(append(append([]string{}, r.stack...), key), " -> ")
		r.mu.Unlock()
		return nil, fmt.Errorf("resolve %q: %w (%s)", key, ErrCircularDependency, cycle)
	}
	r.resolving[key] = true
	r.stack = append(r.stack, key)
	// Release the lock while the factory runs so it can resolve its own
	// dependencies through this registry. The resolving marker stays set,
	// which is what turns a dependency loop into an error.
	r.mu.Unlock()

	instance, err := desc.factory(r)

	r.mu.Lock()
	delete(r.resolving, key)
	if n := len(r.stack); n > 0 && r.stack[n-1] == key {
		r.stack = r.stack[:n-1]
	}
	if err != nil {
		r.mu.Unlock()
		return nil, fmt.Errorf("build service %q: %w", key, err)
	}
	if cached, ok := r.instances[key]; ok {
		// Lost a race with another resolution of the same key; keep the
		// first instance so every caller observes the same one.
		instance = cached
	} else {
		r.instances[key] = instance
		r.order = append(r.order, key)
	}
	r.mu.Unlock()

	return instance, nil
}

// Has reports whether key is registered. It never triggers construction.
func (r *Registry) Has(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.descriptors[key]
	return ok
}

// Keys returns every registered service key, sorted.
func (r *Registry) Keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := make([]string, 0, len(r.descriptors))
	for key := range r.descriptors {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Resolved returns the keys of already-built instances in creation order.
func (r *Registry) Resolved() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string{}, r.order...)
}

// Shutdown closes every cached instance that implements Close() error, in
// reverse creation order, then clears the registry. Calling Shutdown again
// is a no-op.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.closed = true

	for i := len(r.order) - 1; i >= 0; i-- {
		key := r.order[i]
		closer, ok := r.instances[key].(interface{ Close() error })
		if !ok {
			continue
		}
		if err := closer.Close(); err != nil {
			r.logger.Warn("Service close failed", "service", key, "error", err)
		}
	}

	r.descriptors = make(map[string]*descriptor)
	r.instances = make(map[string]any)
	r.resolving = make(map[string]bool)
	r.order = nil
	r.stack = nil
}

func (r *Registry) dropFromOrder(key string) {
	for i, k := range r.order {
		if k == key {
			r.order = append(r.order[:i], r.order[i+1:]...)
			return
		}
	}
}

// As resolves key and asserts the instance to T.
func As[T any](r *Registry, key string) (T, error) {
	var zero T
	instance, err := r.Resolve(key)
	if err != nil {
		return zero, err
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("service %q is %T, not the requested type", key, instance)
	}
	return typed, nil
}
