package listeners

import (
	"github.com/arthur-debert/fanout/pkg/logging"
	"github.com/rs/zerolog"
)

// PanicHandler is called with the listener, the recovered value and the
// goroutine stack whenever a callback panics during a fan-out.
type PanicHandler func(listener any, recovered any, stack []byte)

// Option configures a Registry.
type Option func(*settings)

type settings struct {
	logger    *zerolog.Logger
	onPanic   PanicHandler
	scheduler Scheduler
}

// WithLogger sets the logger used for panic and drop reports.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *settings) {
		s.logger = &logger
	}
}

// WithPanicHandler sets a hook invoked for every recovered callback panic.
func WithPanicHandler(h PanicHandler) Option {
	return func(s *settings) {
		s.onPanic = h
	}
}

// WithScheduler sets the main-context scheduler used by Registry.DispatchOnMain.
func WithScheduler(sched Scheduler) Option {
	return func(s *settings) {
		s.scheduler = sched
	}
}

// log resolves lazily so registries built before logging.Setup still
// follow the configured global logger.
func (s *settings) log() zerolog.Logger {
	if s != nil && s.logger != nil {
		return *s.logger
	}
	return logging.GetLogger("listeners")
}
