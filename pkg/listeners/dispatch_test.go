// pkg/listeners/dispatch_test.go
// TEST TYPE: Unit Tests
// DEPENDENCIES: Mock Scheduler, mainloop
// PURPOSE: Test main-context dispatch and the composite free functions

package listeners_test

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/arthur-debert/fanout/pkg/listeners"
	"github.com/arthur-debert/fanout/pkg/mainloop"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockScheduler is a mock implementation of listeners.Scheduler
type MockScheduler struct {
	mock.Mock
}

func (m *MockScheduler) OnMain(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

func (m *MockScheduler) Post(task func(ctx context.Context)) error {
	args := m.Called(task)
	return args.Error(0)
}

func seeded(t *testing.T, opts ...listeners.Option) (*listeners.Registry[*spy], []*spy) {
	t.Helper()
	reg := newRegistry(opts...)
	ps := []*spy{{name: "a"}, {name: "b"}, {name: "c"}}
	for _, p := range ps {
		added, err := reg.Add(p)
		require.NoError(t, err)
		require.True(t, added)
	}
	return reg, ps
}

func TestDispatchOnMain_OffMainDefers(t *testing.T) {
	sched := mainloop.NewManual()
	reg, ps := seeded(t, listeners.WithScheduler(sched))

	var visited []string
	reg.DispatchOnMain(context.Background(), func(p *spy) {
		visited = append(visited, p.name)
	})

	assert.Empty(t, visited, "no callback may run before returning off-main")
	assert.Equal(t, 1, sched.Pending(), "the whole fan-out is a single task")

	// Membership changes after the call do not alter the queued snapshot.
	_, _ = reg.Remove(ps[0])
	_, _ = reg.Add(&spy{name: "d"})

	sched.Drain(context.Background())
	assert.Equal(t, []string{"a", "b", "c"}, visited)
}

func TestDispatchOnMain_OnMainRunsInPlace(t *testing.T) {
	sched := mainloop.NewManual()
	reg, _ := seeded(t, listeners.WithScheduler(sched))

	var visited []string
	require.NoError(t, sched.Post(func(ctx context.Context) {
		reg.DispatchOnMain(ctx, func(p *spy) {
			visited = append(visited, p.name)
		})
		assert.Equal(t, []string{"a", "b", "c"}, visited, "fan-out completes before the call returns")
		assert.Equal(t, 0, sched.Pending(), "nothing is re-queued on the fast path")
	}))

	assert.Equal(t, 1, sched.Drain(context.Background()))
}

func TestDispatchOnMain_ExpiredTaskContextDefers(t *testing.T) {
	sched := mainloop.NewManual()
	reg, _ := seeded(t, listeners.WithScheduler(sched))

	var held context.Context
	require.NoError(t, sched.Post(func(ctx context.Context) { held = ctx }))
	sched.Drain(context.Background())

	calls := 0
	reg.DispatchOnMain(held, func(*spy) { calls++ })

	assert.Equal(t, 0, calls, "an expired main ctx must not take the synchronous path")
	assert.Equal(t, 1, sched.Pending())

	sched.Drain(context.Background())
	assert.Equal(t, 3, calls)
}

func TestDispatchOnMain_ExpiredLoopContextDoesNotInterleave(t *testing.T) {
	loop := mainloop.New(mainloop.WithLogger(zerolog.Nop()))
	reg, _ := seeded(t, listeners.WithScheduler(loop))

	errCh := make(chan error, 1)
	go func() { errCh <- loop.Run(context.Background()) }()

	held := make(chan context.Context, 1)
	require.NoError(t, loop.Post(func(ctx context.Context) { held <- ctx }))
	stale := <-held
	returned := make(chan struct{})
	require.NoError(t, loop.Post(func(context.Context) { close(returned) }))
	<-returned

	var mu sync.Mutex
	calls := 0
	reg.DispatchOnMain(stale, func(*spy) {
		mu.Lock()
		calls++
		mu.Unlock()
	})

	loop.Close()
	require.NoError(t, <-errCh)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 3, calls)
	assert.Equal(t, uint64(3), loop.Stats().Executed, "the fan-out ran as a loop task")
}

func TestDispatchOnMain_NestedDispatchFromCallback(t *testing.T) {
	sched := mainloop.NewManual()
	reg, _ := seeded(t, listeners.WithScheduler(sched))

	var visited []string
	require.NoError(t, sched.Post(func(ctx context.Context) {
		reg.DispatchOnMain(ctx, func(p *spy) {
			visited = append(visited, p.name)
			if p.name == "a" {
				// Off-main context: queued behind the current task.
				reg.DispatchOnMain(context.Background(), func(p *spy) {
					visited = append(visited, "nested-"+p.name)
				})
			}
		})
	}))

	assert.Equal(t, 2, sched.Drain(context.Background()))
	assert.Equal(t, []string{"a", "b", "c", "nested-a", "nested-b", "nested-c"}, visited)
}

func TestDispatchOnMain_WithMockScheduler(t *testing.T) {
	t.Run("posts one task when off-main", func(t *testing.T) {
		sched := &MockScheduler{}
		reg, _ := seeded(t)

		var posted func(context.Context)
		sched.On("OnMain", mock.Anything).Return(false)
		sched.On("Post", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
			posted = args.Get(0).(func(context.Context))
		})

		calls := 0
		listeners.DispatchOnMain[*spy](context.Background(), reg, sched, func(*spy) { calls++ })

		sched.AssertExpectations(t)
		sched.AssertNumberOfCalls(t, "Post", 1)
		require.NotNil(t, posted)
		assert.Equal(t, 0, calls)

		posted(context.Background())
		assert.Equal(t, 3, calls)
	})

	t.Run("runs synchronously when on main", func(t *testing.T) {
		sched := &MockScheduler{}
		reg, _ := seeded(t)
		sched.On("OnMain", mock.Anything).Return(true)

		calls := 0
		listeners.DispatchOnMain[*spy](context.Background(), reg, sched, func(*spy) { calls++ })

		assert.Equal(t, 3, calls)
		sched.AssertNotCalled(t, "Post", mock.Anything)
	})

	t.Run("refused post drops the notification", func(t *testing.T) {
		sched := &MockScheduler{}
		reg, _ := seeded(t)
		sched.On("OnMain", mock.Anything).Return(false)
		sched.On("Post", mock.Anything).Return(stderrors.New("loop closed"))

		calls := 0
		assert.NotPanics(t, func() {
			listeners.DispatchOnMain[*spy](context.Background(), reg, sched, func(*spy) { calls++ })
		})
		assert.Equal(t, 0, calls)
	})
}

func TestDispatchOnMain_NoSchedulerRunsInPlace(t *testing.T) {
	reg, _ := seeded(t)

	calls := 0
	reg.DispatchOnMain(context.Background(), func(*spy) { calls++ })
	assert.Equal(t, 3, calls)
}

func TestDispatchOnMain_WithLoop(t *testing.T) {
	loop := mainloop.New(mainloop.WithLogger(zerolog.Nop()))
	reg, _ := seeded(t, listeners.WithScheduler(loop))

	errCh := make(chan error, 1)
	go func() { errCh <- loop.Run(context.Background()) }()

	var mu sync.Mutex
	var visited []string
	record := func(tag string) func(*spy) {
		return func(p *spy) {
			mu.Lock()
			visited = append(visited, tag+p.name)
			mu.Unlock()
		}
	}

	// Two fan-outs from a non-main goroutine must not interleave.
	done := make(chan struct{})
	go func() {
		reg.DispatchOnMain(context.Background(), record("1"))
		reg.DispatchOnMain(context.Background(), record("2"))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("DispatchOnMain blocked the caller")
	}

	loop.Close()
	require.NoError(t, <-errCh)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"1a", "1b", "1c", "2a", "2b", "2c"}, visited)
}

func TestDispatchOnMain_PanicIsolation(t *testing.T) {
	sched := mainloop.NewManual()
	panics := 0
	reg, _ := seeded(t,
		listeners.WithScheduler(sched),
		listeners.WithPanicHandler(func(any, any, []byte) { panics++ }),
	)

	var visited []string
	reg.DispatchOnMain(context.Background(), func(p *spy) {
		visited = append(visited, p.name)
		if p.name == "a" {
			panic("a failed")
		}
	})
	sched.Drain(context.Background())

	assert.Equal(t, []string{"a", "b", "c"}, visited)
	assert.Equal(t, 1, panics)
}

// plainStore implements only the primitives, to check the free functions
// do not depend on Registry.
type plainStore struct {
	items []string
}

func (s *plainStore) Count() int { return len(s.items) }
func (s *plainStore) Add(l string) (bool, error) {
	for _, it := range s.items {
		if it == l {
			return false, nil
		}
	}
	s.items = append(s.items, l)
	return true, nil
}
func (s *plainStore) Remove(l string) (bool, error) {
	for i, it := range s.items {
		if it == l {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}
func (s *plainStore) Contains(l string) (bool, error) {
	for _, it := range s.items {
		if it == l {
			return true, nil
		}
	}
	return false, nil
}
func (s *plainStore) Snapshot() listeners.Snapshot[string] {
	return listeners.SnapshotOf(s.items...)
}

func TestFreeFunctionsOverCustomStore(t *testing.T) {
	s := &plainStore{}

	ok, err := listeners.Ensure[string](s, "x")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = listeners.Ensure[string](s, "x")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, s.Count())

	_, _ = s.Add("y")
	var visited []string
	listeners.ForEach[string](s, func(l string) {
		visited = append(visited, l)
		_, _ = s.Remove("y")
	})
	assert.Equal(t, []string{"x", "y"}, visited)

	err = listeners.ForEachErr[string](s, func(l string) error { panic(l) })
	assert.Error(t, err)
}
