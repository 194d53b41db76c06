package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/arthur-debert/fanout/pkg/errors"
)

// Registry stores items by name
type Registry[T any] struct {
	mu    sync.RWMutex
	items map[string]T
}

// New creates an empty Registry
func New[T any]() *Registry[T] {
	return &Registry[T]{
		items: make(map[string]T),
	}
}

// Register adds item under name. Names are case-insensitive.
func (r *Registry[T]) Register(name string, item T) error {
	key := normalize(name)
	if key == "" {
		return errors.New(errors.ErrInvalidInput, "registry name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[key]; exists {
		return errors.Newf(errors.ErrAlreadyExists, "item '%s' is already registered", key)
	}

	r.items[key] = item
	return nil
}

// Get retrieves the item registered under name
func (r *Registry[T]) Get(name string) (T, error) {
	key := normalize(name)

	r.mu.RLock()
	defer r.mu.RUnlock()

	item, exists := r.items[key]
	if !exists {
		var zero T
		return zero, errors.Newf(errors.ErrNotFound, "item '%s' not found in registry", key).
			WithDetail("known", r.namesLocked())
	}
	return item, nil
}

// Resolve looks up every name in order. The first unknown name fails the
// whole call.
func (r *Registry[T]) Resolve(names []string) ([]T, error) {
	out := make([]T, 0, len(names))
	for _, name := range names {
		item, err := r.Get(name)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

// Remove deletes the item registered under name
func (r *Registry[T]) Remove(name string) error {
	key := normalize(name)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[key]; !exists {
		return errors.Newf(errors.ErrNotFound, "item '%s' not found in registry", key)
	}

	delete(r.items, key)
	return nil
}

// Has checks if an item is registered
func (r *Registry[T]) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.items[normalize(name)]
	return exists
}

// Names returns all registered names in sorted order
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.namesLocked()
}

// Count returns the number of registered items
func (r *Registry[T]) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.items)
}

func (r *Registry[T]) namesLocked() []string {
	names := make([]string, 0, len(r.items))
	for name := range r.items {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// MustRegister registers an item and panics if registration fails
// This is useful for init() functions where registration errors are programming errors
func MustRegister[T any](reg *Registry[T], name string, item T) {
	if err := reg.Register(name, item); err != nil {
		panic(fmt.Sprintf("failed to register %s: %v", name, err))
	}
}
