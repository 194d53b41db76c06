package mainloop

import (
	"context"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/arthur-debert/fanout/pkg/errors"
	"github.com/arthur-debert/fanout/pkg/logging"
	"github.com/rs/zerolog"
)

// Loop is a single-goroutine task loop.
type Loop struct {
	mu      sync.Mutex
	queue   []func(context.Context)
	started bool
	closed  bool

	wake chan struct{}
	done chan struct{}

	logger    zerolog.Logger
	onPanic   func(recovered any, stack []byte)
	warnDepth int

	posted   atomic.Uint64
	executed atomic.Uint64
	panicked atomic.Uint64
}

// Stats contains counters for a loop.
type Stats struct {
	// Posted is the number of tasks accepted by Post.
	Posted uint64

	// Executed is the number of tasks that ran, panicking ones included.
	Executed uint64

	// Panicked is the number of tasks that panicked.
	Panicked uint64

	// Pending is the number of tasks waiting in the queue.
	Pending int
}

// Option configures a Loop.
type Option func(*Loop)

// WithLogger sets the loop's logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(l *Loop) {
		l.logger = logger
	}
}

// WithPanicHandler sets a hook called after a task panic is recovered.
func WithPanicHandler(h func(recovered any, stack []byte)) Option {
	return func(l *Loop) {
		l.onPanic = h
	}
}

// WithQueueWarnDepth logs a warning each time the queue grows to depth.
// Zero disables the warning.
func WithQueueWarnDepth(depth int) Option {
	return func(l *Loop) {
		if depth >= 0 {
			l.warnDepth = depth
		}
	}
}

// New creates a loop. Tasks may be posted before Run is called.
func New(opts ...Option) *Loop {
	l := &Loop{
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
		logger: logging.GetLogger("mainloop"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run makes the calling goroutine the main context and executes tasks
// until Close is called and the queue is drained, or ctx is done.
// Run may only be called once.
func (l *Loop) Run(ctx context.Context) error {
	l.mu.Lock()
	if l.started {
		l.mu.Unlock()
		return errors.New(errors.ErrAlreadyRunning, "main loop is already running")
	}
	l.started = true
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		l.closed = true
		dropped := len(l.queue)
		l.queue = nil
		l.mu.Unlock()

		if dropped > 0 {
			l.logger.Warn().Int("dropped", dropped).Msg("Main loop exited with queued tasks")
		}
		close(l.done)
	}()

	l.logger.Debug().Msg("Main loop started")

	for {
		task, closed := l.next()
		if task != nil {
			l.execute(ctx, task)
			if err := ctx.Err(); err != nil {
				return err
			}
			continue
		}
		if closed {
			l.logger.Debug().Uint64("executed", l.executed.Load()).Msg("Main loop stopped")
			return nil
		}

		select {
		case <-l.wake:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Post enqueues task. It never blocks. After Close it returns ErrClosed.
func (l *Loop) Post(task func(ctx context.Context)) error {
	if task == nil {
		return errors.New(errors.ErrInvalidInput, "task must not be nil")
	}

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return errors.New(errors.ErrClosed, "main loop is closed")
	}
	l.queue = append(l.queue, task)
	depth := len(l.queue)
	l.mu.Unlock()

	l.posted.Add(1)
	if l.warnDepth > 0 && depth == l.warnDepth {
		l.logger.Warn().Int("depth", depth).Msg("Main loop queue is backing up")
	}
	l.signal()
	return nil
}

// OnMain reports whether ctx was handed out by this loop to a task that
// is still running.
func (l *Loop) OnMain(ctx context.Context) bool {
	return ownedBy(ctx, l)
}

// Close stops accepting tasks. Run finishes the queued ones, then returns.
// Close is idempotent.
func (l *Loop) Close() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
	l.signal()
}

// Done is closed once Run has returned.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Pending returns the number of queued tasks.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// Stats returns loop counters.
func (l *Loop) Stats() Stats {
	return Stats{
		Posted:   l.posted.Load(),
		Executed: l.executed.Load(),
		Panicked: l.panicked.Load(),
		Pending:  l.Pending(),
	}
}

func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// next pops the oldest task. The returned flag reports whether the loop
// is closed, sampled under the same lock as the pop.
func (l *Loop) next() (func(context.Context), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.queue) == 0 {
		return nil, l.closed
	}
	task := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return task, l.closed
}

func (l *Loop) execute(ctx context.Context, task func(context.Context)) {
	taskCtx, release := WithMain(ctx, l)
	defer func() {
		release()
		l.executed.Add(1)
		if r := recover(); r != nil {
			stack := debug.Stack()
			l.panicked.Add(1)
			l.logger.Error().Interface("panic", r).Msg("Main loop task panicked")

			if l.onPanic != nil {
				func() {
					defer func() { _ = recover() }()
					l.onPanic(r, stack)
				}()
			}
		}
	}()

	task(taskCtx)
}
