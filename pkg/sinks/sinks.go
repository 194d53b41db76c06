// Package sinks contains the demo listeners that receive signal samples.
//
// Sinks are notified from the main loop only, so they keep unsynchronized
// state.
package sinks

import (
	"fmt"
	"io"
	"math"

	"github.com/arthur-debert/fanout/pkg/logging"
	"github.com/arthur-debert/fanout/pkg/registry"
	"github.com/arthur-debert/fanout/pkg/signal"
	"github.com/arthur-debert/fanout/pkg/style"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// Sink is a listener for samples.
type Sink interface {
	Name() string
	Notify(s signal.Sample)
}

// Summarizer is implemented by sinks that report once the run is over.
type Summarizer interface {
	Summary(w io.Writer) error
}

// Factory builds a sink writing to w.
type Factory func(w io.Writer) Sink

// Catalog returns a registry holding the built-in sink factories.
func Catalog() *registry.Registry[Factory] {
	reg := registry.New[Factory]()
	registry.MustRegister(reg, "bar", func(w io.Writer) Sink { return NewBar(w, 20) })
	registry.MustRegister(reg, "stats", func(io.Writer) Sink { return NewStats("stats") })
	registry.MustRegister(reg, "log", func(io.Writer) Sink { return NewLog(logging.GetLogger("sink")) })
	return reg
}

// Build resolves names against reg and instantiates one sink per name.
func Build(reg *registry.Registry[Factory], names []string, w io.Writer) ([]Sink, error) {
	factories, err := reg.Resolve(names)
	if err != nil {
		return nil, err
	}
	out := make([]Sink, len(factories))
	for i, f := range factories {
		out[i] = f(w)
	}
	return out, nil
}

// Bar prints one horizontal bar per sample.
type Bar struct {
	w         io.Writer
	halfWidth int
}

// NewBar returns a bar sink.
func NewBar(w io.Writer, halfWidth int) *Bar {
	return &Bar{w: w, halfWidth: halfWidth}
}

func (b *Bar) Name() string { return "bar" }

func (b *Bar) Notify(s signal.Sample) {
	label := style.LabelStyle.Render(fmt.Sprintf("#%d", s.Index))
	fmt.Fprintf(b.w, "%s %s %+.3f\n", label, style.Bar(s.Value, b.halfWidth), s.Value)
}

// Stats accumulates running statistics.
type Stats struct {
	name  string
	count int
	min   float64
	max   float64
	sum   float64
}

// NewStats returns an empty statistics sink.
func NewStats(name string) *Stats {
	return &Stats{name: name, min: math.Inf(1), max: math.Inf(-1)}
}

func (s *Stats) Name() string { return s.name }

func (s *Stats) Notify(sample signal.Sample) {
	s.count++
	s.sum += sample.Value
	s.min = math.Min(s.min, sample.Value)
	s.max = math.Max(s.max, sample.Value)
}

// Count returns the number of samples seen.
func (s *Stats) Count() int { return s.count }

// Mean returns the average value, or 0 before any sample.
func (s *Stats) Mean() float64 {
	if s.count == 0 {
		return 0
	}
	return s.sum / float64(s.count)
}

// Summary renders a table of the collected statistics.
func (s *Stats) Summary(w io.Writer) error {
	data := pterm.TableData{
		{"sink", "samples", "min", "max", "mean"},
		{s.name, fmt.Sprint(s.count), "-", "-", "-"},
	}
	if s.count > 0 {
		data[1] = []string{
			s.name,
			fmt.Sprint(s.count),
			fmt.Sprintf("%.3f", s.min),
			fmt.Sprintf("%.3f", s.max),
			fmt.Sprintf("%.3f", s.Mean()),
		}
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, table)
	return err
}

// Log writes a structured log line per sample.
type Log struct {
	logger zerolog.Logger
}

// NewLog returns a logging sink.
func NewLog(logger zerolog.Logger) *Log {
	return &Log{logger: logger}
}

func (l *Log) Name() string { return "log" }

func (l *Log) Notify(s signal.Sample) {
	l.logger.Info().
		Int("index", s.Index).
		Float64("t", s.T).
		Float64("value", s.Value).
		Msg("Sample")
}
