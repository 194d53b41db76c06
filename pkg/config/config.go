package config

import (
	"time"

	"github.com/arthur-debert/fanout/pkg/errors"
	"github.com/arthur-debert/fanout/pkg/signal"
	"github.com/knadh/koanf/v2"
)

// Config is the effective fanout configuration.
type Config struct {
	Logging LoggingConfig `koanf:"logging"`
	Loop    LoopConfig    `koanf:"loop"`
	Demo    DemoConfig    `koanf:"demo"`

	// Source lists the layers that contributed, lowest precedence first.
	Source []string `koanf:"-"`

	k *koanf.Koanf
}

// LoggingConfig controls the global logger.
type LoggingConfig struct {
	Verbosity int  `koanf:"verbosity"`
	File      bool `koanf:"file"`
	NoColor   bool `koanf:"no_color"`
}

// LoopConfig controls the main loop.
type LoopConfig struct {
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	QueueWarnDepth  int           `koanf:"queue_warn_depth"`
}

// DemoConfig controls `fanout demo`.
type DemoConfig struct {
	Sinks     []string      `koanf:"sinks"`
	Samples   int           `koanf:"samples"`
	Interval  time.Duration `koanf:"interval"`
	DropAfter int           `koanf:"drop_after"`
	Wave      signal.Wave   `koanf:"wave"`
}

// Raw returns the merged key tree as loaded, before decoding.
func (c *Config) Raw() map[string]interface{} {
	if c.k == nil {
		return map[string]interface{}{}
	}
	return c.k.Raw()
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	invalid := func(key, format string, args ...interface{}) error {
		return errors.Newf(errors.ErrConfigValid, format, args...).WithDetail("key", key)
	}

	switch {
	case c.Logging.Verbosity < 0:
		return invalid("logging.verbosity", "verbosity must be >= 0, got %d", c.Logging.Verbosity)
	case c.Loop.ShutdownTimeout < 0:
		return invalid("loop.shutdown_timeout", "shutdown timeout must be >= 0, got %s", c.Loop.ShutdownTimeout)
	case c.Loop.QueueWarnDepth < 0:
		return invalid("loop.queue_warn_depth", "queue warn depth must be >= 0, got %d", c.Loop.QueueWarnDepth)
	case len(c.Demo.Sinks) == 0:
		return invalid("demo.sinks", "at least one sink is required")
	case c.Demo.Samples <= 0:
		return invalid("demo.samples", "samples must be > 0, got %d", c.Demo.Samples)
	case c.Demo.Interval < 0:
		return invalid("demo.interval", "interval must be >= 0, got %s", c.Demo.Interval)
	case c.Demo.DropAfter < 0:
		return invalid("demo.drop_after", "drop_after must be >= 0, got %d", c.Demo.DropAfter)
	case c.Demo.Wave.Period <= 0:
		return invalid("demo.wave.period", "wave period must be > 0, got %g", c.Demo.Wave.Period)
	case c.Demo.Wave.Split < 0 || c.Demo.Wave.Split > 1:
		return invalid("demo.wave.split", "wave split must be within [0, 1], got %g", c.Demo.Wave.Split)
	}
	return nil
}
