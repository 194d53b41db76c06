package listeners

import (
	"context"
	"iter"
	"slices"
)

// Store is the primitive contract a listener collection implements.
// The derived operations in this package are built on it.
type Store[T comparable] interface {
	// Count returns the number of registered listeners.
	Count() int

	// Add registers l if absent and reports whether it was newly added.
	Add(l T) (bool, error)

	// Remove unregisters l if present and reports whether it was removed.
	Remove(l T) (bool, error)

	// Contains reports whether l is registered.
	Contains(l T) (bool, error)

	// Snapshot returns an immutable copy of the current members.
	Snapshot() Snapshot[T]
}

// Scheduler funnels work onto the main execution context.
type Scheduler interface {
	// OnMain reports whether ctx belongs to work running on the main context.
	OnMain(ctx context.Context) bool

	// Post enqueues task to run on the main context without blocking.
	Post(task func(ctx context.Context)) error
}

// Snapshot is a point-in-time, read-only view of a registry's members.
// The zero value is an empty snapshot.
type Snapshot[T any] struct {
	items []T
}

// SnapshotOf returns a snapshot holding a copy of items.
func SnapshotOf[T any](items ...T) Snapshot[T] {
	return Snapshot[T]{items: slices.Clone(items)}
}

// Len returns the number of listeners captured.
func (s Snapshot[T]) Len() int {
	return len(s.items)
}

// At returns the i-th listener in iteration order.
func (s Snapshot[T]) At(i int) T {
	return s.items[i]
}

// All iterates the captured listeners in order.
func (s Snapshot[T]) All() iter.Seq[T] {
	return slices.Values(s.items)
}

// Items returns a copy of the captured listeners. Never nil.
func (s Snapshot[T]) Items() []T {
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}
