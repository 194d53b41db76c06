package mainloop

import (
	"context"
	"sync"

	"github.com/arthur-debert/fanout/pkg/errors"
)

// Manual is a scheduler whose tasks run only when Step or Drain is called,
// on the caller's goroutine.
type Manual struct {
	mu     sync.Mutex
	queue  []func(context.Context)
	closed bool
}

// NewManual returns an empty manual scheduler.
func NewManual() *Manual {
	return &Manual{}
}

// OnMain reports whether ctx was handed to a task by this scheduler and
// that task is still running.
func (m *Manual) OnMain(ctx context.Context) bool {
	return ownedBy(ctx, m)
}

// Post queues task.
func (m *Manual) Post(task func(ctx context.Context)) error {
	if task == nil {
		return errors.New(errors.ErrInvalidInput, "task must not be nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return errors.New(errors.ErrClosed, "manual scheduler is closed")
	}
	m.queue = append(m.queue, task)
	return nil
}

// Step runs the oldest queued task, if any, and reports whether one ran.
func (m *Manual) Step(ctx context.Context) bool {
	m.mu.Lock()
	if len(m.queue) == 0 {
		m.mu.Unlock()
		return false
	}
	task := m.queue[0]
	m.queue[0] = nil
	m.queue = m.queue[1:]
	m.mu.Unlock()

	taskCtx, release := WithMain(ctx, m)
	defer release()
	task(taskCtx)
	return true
}

// Drain runs tasks until the queue is empty, including tasks posted while
// draining, and returns how many ran.
func (m *Manual) Drain(ctx context.Context) int {
	n := 0
	for m.Step(ctx) {
		n++
	}
	return n
}

// Pending returns the number of queued tasks.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// Close makes further Post calls fail. Queued tasks can still be drained.
func (m *Manual) Close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
}
