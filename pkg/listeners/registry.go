package listeners

import (
	"context"
	"reflect"
	"slices"
	"sync"

	"github.com/arthur-debert/fanout/pkg/errors"
)

// Registry is a goroutine-safe, insertion-ordered set of listeners.
//
// The member slice is copy-on-write: mutations install a fresh slice, so a
// Snapshot can share the previous one without copying and without any lock
// held during iteration.
//
// The zero value is an empty registry with default settings.
type Registry[T comparable] struct {
	mu      sync.RWMutex
	index   map[T]struct{}
	members []T

	settings settings
}

var _ Store[*struct{}] = (*Registry[*struct{}])(nil)

// New creates an empty Registry.
func New[T comparable](opts ...Option) *Registry[T] {
	r := &Registry[T]{
		index: make(map[T]struct{}),
	}
	for _, opt := range opts {
		opt(&r.settings)
	}
	return r
}

// Count returns the number of registered listeners.
func (r *Registry[T]) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.index)
}

// Add registers l. It returns false when l is already registered.
func (r *Registry[T]) Add(l T) (bool, error) {
	if err := validate(l); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.index[l]; exists {
		return false, nil
	}

	if r.index == nil {
		r.index = make(map[T]struct{})
	}
	r.index[l] = struct{}{}
	// Clip forces append to allocate, leaving published snapshots untouched.
	r.members = append(slices.Clip(r.members), l)
	return true, nil
}

// Remove unregisters l. It returns false when l was not registered.
func (r *Registry[T]) Remove(l T) (bool, error) {
	if err := validate(l); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.index[l]; !exists {
		return false, nil
	}

	delete(r.index, l)
	i := slices.Index(r.members, l)
	next := make([]T, 0, len(r.members)-1)
	next = append(next, r.members[:i]...)
	r.members = append(next, r.members[i+1:]...)
	return true, nil
}

// Contains reports whether l is registered.
func (r *Registry[T]) Contains(l T) (bool, error) {
	if err := validate(l); err != nil {
		return false, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.index[l]
	return exists, nil
}

// Snapshot returns the members as of now, in insertion order.
func (r *Registry[T]) Snapshot() Snapshot[T] {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return Snapshot[T]{items: r.members}
}

// Ensure makes sure l is registered. See the package-level Ensure.
func (r *Registry[T]) Ensure(l T) (bool, error) {
	return Ensure[T](r, l)
}

// ForEach calls action for every listener in a snapshot. See the
// package-level ForEach.
func (r *Registry[T]) ForEach(action func(T)) {
	ForEach[T](r, action)
}

// ForEachErr is ForEach with error-returning callbacks.
func (r *Registry[T]) ForEachErr(action func(T) error) error {
	return ForEachErr[T](r, action)
}

// DispatchOnMain fans out on the scheduler configured with WithScheduler.
// Without one, the fan-out runs synchronously on the caller.
func (r *Registry[T]) DispatchOnMain(ctx context.Context, action func(T)) {
	DispatchOnMain[T](ctx, r, r.settings.scheduler, action)
}

func (r *Registry[T]) dispatchSettings() *settings {
	return &r.settings
}

// validate rejects nil references and values that cannot be used as map keys.
func validate[T comparable](l T) error {
	v := reflect.ValueOf(any(l))
	if !v.IsValid() {
		return errors.New(errors.ErrInvalidInput, "listener must not be nil")
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func, reflect.Slice, reflect.Interface, reflect.UnsafePointer:
		if v.IsNil() {
			return errors.New(errors.ErrInvalidInput, "listener must not be nil")
		}
	}

	if !v.Comparable() {
		return errors.Newf(errors.ErrInvalidInput, "listener of type %s is not comparable", v.Type())
	}
	return nil
}
