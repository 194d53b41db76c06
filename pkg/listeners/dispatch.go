package listeners

import (
	"context"
	stderrors "errors"
	"fmt"
	"runtime/debug"

	"github.com/arthur-debert/fanout/pkg/errors"
)

// configured is implemented by stores carrying dispatch settings.
type configured interface {
	dispatchSettings() *settings
}

func settingsOf[T comparable](s Store[T]) *settings {
	if c, ok := s.(configured); ok {
		return c.dispatchSettings()
	}
	return nil
}

// Ensure guarantees l is registered. It returns true when l was already
// present or was added; false only with an error.
func Ensure[T comparable](s Store[T], l T) (bool, error) {
	present, err := s.Contains(l)
	if err != nil {
		return false, err
	}
	if present {
		return true, nil
	}

	// A false result here means a concurrent caller won the insert.
	if _, err := s.Add(l); err != nil {
		return false, err
	}
	return true, nil
}

// ForEach snapshots s and calls action once per listener, in order, on the
// calling goroutine. A panicking callback is recovered and reported; the
// remaining listeners are still notified.
func ForEach[T comparable](s Store[T], action func(T)) {
	fanOut(settingsOf(s), s.Snapshot(), func(l T) error {
		action(l)
		return nil
	})
}

// ForEachErr is like ForEach but collects callback errors, panics
// included, and returns them joined. Every listener is visited.
func ForEachErr[T comparable](s Store[T], action func(T) error) error {
	return fanOut(settingsOf(s), s.Snapshot(), action)
}

// DispatchOnMain runs ForEach on the main context. When ctx already belongs
// to the main context the fan-out completes before DispatchOnMain returns.
// Otherwise the snapshot is taken now and the whole fan-out is posted as a
// single task; the caller never blocks. A nil scheduler runs in place.
func DispatchOnMain[T comparable](ctx context.Context, s Store[T], sched Scheduler, action func(T)) {
	cfg := settingsOf(s)
	call := func(l T) error {
		action(l)
		return nil
	}

	if sched == nil || sched.OnMain(ctx) {
		fanOut(cfg, s.Snapshot(), call)
		return
	}

	snap := s.Snapshot()
	err := sched.Post(func(context.Context) {
		fanOut(cfg, snap, call)
	})
	if err != nil {
		logger := cfg.log()
		logger.Warn().Err(err).Int("listeners", snap.Len()).Msg("Dropped main-thread dispatch")
	}
}

func fanOut[T any](cfg *settings, snap Snapshot[T], action func(T) error) error {
	var errs []error
	for i, l := range snap.items {
		if err := invoke(cfg, i, l, action); err != nil {
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}

func invoke[T any](cfg *settings, i int, l T, action func(T) error) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		stack := debug.Stack()

		logger := cfg.log()
		logger.Error().
			Interface("panic", r).
			Int("index", i).
			Str("listener", fmt.Sprintf("%v", l)).
			Msg("Listener panicked during fan-out")

		if cfg != nil && cfg.onPanic != nil {
			func() {
				defer func() { _ = recover() }()
				cfg.onPanic(l, r, stack)
			}()
		}

		err = errors.Newf(errors.ErrListenerPanic, "listener %d panicked: %v", i, r).
			WithDetail("index", i)
	}()

	return action(l)
}
