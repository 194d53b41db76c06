// Package signal generates the sample payloads the demo broadcasts.
package signal

import (
	"math"
	"time"
)

// Wave is a periodic piecewise signal: a sine arc over the first Split
// fraction of each period, then a triangle wave over the remainder.
type Wave struct {
	Period    float64 `koanf:"period" toml:"period" yaml:"period"`
	Amplitude float64 `koanf:"amplitude" toml:"amplitude" yaml:"amplitude"`
	Offset    float64 `koanf:"offset" toml:"offset" yaml:"offset"`
	Split     float64 `koanf:"split" toml:"split" yaml:"split"`
}

// DefaultWave is a unit-period wave split evenly between its two pieces.
var DefaultWave = Wave{Period: 1, Amplitude: 1, Split: 0.5}

// At evaluates the wave at t. A non-positive Period yields Offset.
func (w Wave) At(t float64) float64 {
	if w.Period <= 0 {
		return w.Offset
	}
	split := math.Min(math.Max(w.Split, 0), 1)

	phase := math.Mod(t, w.Period) / w.Period
	if phase < 0 {
		phase++
	}

	var v float64
	switch {
	case phase < split:
		// Half a sine cycle stretched over [0, split): starts and ends at 0.
		v = math.Sin(math.Pi * phase / split)
	default:
		// Triangle over [split, 1): 0 -> -1 -> 0.
		u := (phase - split) / (1 - split)
		v = -(1 - math.Abs(2*u-1))
	}
	return w.Offset + w.Amplitude*v
}

// Sample is one evaluated point of a wave.
type Sample struct {
	Index int
	T     float64
	Value float64
	At    time.Time
}

// Samples evaluates n points spaced step apart, starting at t=0.
func (w Wave) Samples(n int, step float64) []Sample {
	out := make([]Sample, 0, max(n, 0))
	for i := 0; i < n; i++ {
		t := float64(i) * step
		out = append(out, Sample{Index: i, T: t, Value: w.At(t)})
	}
	return out
}
