// Package demo wires the listener registry, the main loop and the sinks
// into the `fanout demo` run: a producer goroutine computes samples and
// funnels every broadcast onto the main loop.
package demo

import (
	"context"
	"io"
	"time"

	"github.com/arthur-debert/fanout/pkg/listeners"
	"github.com/arthur-debert/fanout/pkg/logging"
	"github.com/arthur-debert/fanout/pkg/mainloop"
	"github.com/arthur-debert/fanout/pkg/signal"
	"github.com/arthur-debert/fanout/pkg/sinks"
)

// samplesPerPeriod fixes the time step between samples.
const samplesPerPeriod = 20

// Options configures a run.
type Options struct {
	Sinks           []string
	Samples         int
	Interval        time.Duration
	DropAfter       int
	Wave            signal.Wave
	ShutdownTimeout time.Duration
	QueueWarnDepth  int
	Out             io.Writer
}

// Report summarizes a finished run.
type Report struct {
	// Delivered counts notifications per sink, in registration order.
	Delivered []Delivery
	Produced  int
	Dropped   string
	Loop      mainloop.Stats
}

// Delivery is the notification count of one sink.
type Delivery struct {
	Sink  string
	Count int
}

// counted wraps a sink to count deliveries.
type counted struct {
	sinks.Sink
	n int
}

func (c *counted) Notify(s signal.Sample) {
	c.n++
	c.Sink.Notify(s)
}

// dropper unsubscribes target, then itself, when sample DropAfter arrives.
type dropper struct {
	reg    *listeners.Registry[sinks.Sink]
	target sinks.Sink
	after  int
	fired  bool
}

func (d *dropper) Name() string { return "dropper" }

func (d *dropper) Notify(s signal.Sample) {
	if d.fired || s.Index < d.after {
		return
	}
	d.fired = true
	_, _ = d.reg.Remove(d.target)
	_, _ = d.reg.Remove(d)
}

// Run executes the demo. The calling goroutine becomes the main context
// and Run returns once every produced sample has been delivered, or the
// shutdown grace period after ctx is cancelled has elapsed.
func Run(ctx context.Context, opts Options) (*Report, error) {
	logger := logging.GetLogger("demo")
	defer logging.LogOperationStart(logger, "demo")()

	loop := mainloop.New(
		mainloop.WithLogger(logging.GetLogger("mainloop")),
		mainloop.WithQueueWarnDepth(opts.QueueWarnDepth),
	)
	reg := listeners.New[sinks.Sink](
		listeners.WithScheduler(loop),
		listeners.WithLogger(logging.GetLogger("listeners")),
	)

	built, err := sinks.Build(sinks.Catalog(), opts.Sinks, opts.Out)
	if err != nil {
		return nil, err
	}
	wrapped := make([]*counted, len(built))
	for i, s := range built {
		wrapped[i] = &counted{Sink: s}
		if _, err := reg.Add(wrapped[i]); err != nil {
			return nil, err
		}
	}

	report := &Report{}
	if opts.DropAfter > 0 && len(wrapped) > 1 {
		d := &dropper{reg: reg, target: wrapped[0], after: opts.DropAfter}
		if _, err := reg.Ensure(d); err != nil {
			return nil, err
		}
		report.Dropped = wrapped[0].Name()
	}

	logger.Info().
		Strs("sinks", opts.Sinks).
		Int("samples", opts.Samples).
		Int("listeners", reg.Count()).
		Msg("Starting demo")

	produced := make(chan int, 1)
	go func() {
		produced <- produce(ctx, reg, opts)
		loop.Close()
	}()

	// The loop keeps a grace period to drain after ctx is cancelled.
	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	defer cancel()
	go func() {
		select {
		case <-ctx.Done():
			loop.Close()
			select {
			case <-time.After(opts.ShutdownTimeout):
				logger.Warn().Dur("timeout", opts.ShutdownTimeout).Msg("Shutdown grace period elapsed")
				cancel()
			case <-loop.Done():
			}
		case <-loop.Done():
		}
	}()

	runErr := loop.Run(loopCtx)
	report.Produced = <-produced
	report.Loop = loop.Stats()
	for _, c := range wrapped {
		report.Delivered = append(report.Delivered, Delivery{Sink: c.Name(), Count: c.n})
	}

	for _, s := range built {
		if sum, ok := s.(sinks.Summarizer); ok {
			if err := sum.Summary(opts.Out); err != nil {
				logger.Warn().Err(err).Str("sink", s.Name()).Msg("Failed to render summary")
			}
		}
	}

	if runErr != nil && ctx.Err() == nil {
		return report, runErr
	}
	return report, nil
}

// produce computes samples off the main context and dispatches each one.
func produce(ctx context.Context, reg *listeners.Registry[sinks.Sink], opts Options) int {
	step := opts.Wave.Period / samplesPerPeriod
	n := 0
	for _, sample := range opts.Wave.Samples(opts.Samples, step) {
		if ctx.Err() != nil {
			break
		}
		sample.At = time.Now()
		reg.DispatchOnMain(ctx, func(s sinks.Sink) {
			s.Notify(sample)
		})
		n++

		if opts.Interval > 0 {
			select {
			case <-time.After(opts.Interval):
			case <-ctx.Done():
			}
		}
	}
	return n
}
