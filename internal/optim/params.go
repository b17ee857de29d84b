package optim

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/san-kum/fieldlab/internal/config"
)

var ErrUnknownParameter = errors.New("optim: unknown parameter")

// setters maps sweepable parameter names onto config fields. Values are
// applied raw; Experiment.Setup clamps them.
var setters = map[string]func(cfg *config.Config, v float64){
	"current":          func(c *config.Config, v float64) { c.Magnetic.Current = v },
	"turns":            func(c *config.Config, v float64) { c.Magnetic.Turns = int(math.Round(v)) },
	"wire_distance":    func(c *config.Config, v float64) { c.Magnetic.WireDistance = v },
	"particles":        func(c *config.Config, v float64) { c.Particles.Count = int(math.Round(v)) },
	"charge_speed":     func(c *config.Config, v float64) { c.Particles.Speed = v },
	"speed_multiplier": func(c *config.Config, v float64) { c.Clock.SpeedMultiplier = v },
	"wave_speed":       func(c *config.Config, v float64) { c.Wave.WaveSpeed = v },
	"damping":          func(c *config.Config, v float64) { c.Wave.Damping = v },
	"probe_x":          func(c *config.Config, v float64) { c.Wave.ProbeX = v },
	"probe_y":          func(c *config.Config, v float64) { c.Wave.ProbeY = v },
	"frequency": func(c *config.Config, v float64) {
		for i := range c.Wave.Sources {
			c.Wave.Sources[i].Frequency = v
		}
	},
	// phase of the second source relative to the first
	"phase_deg": func(c *config.Config, v float64) {
		if len(c.Wave.Sources) > 1 {
			c.Wave.Sources[1].PhaseDeg = c.Wave.Sources[0].PhaseDeg + v
		}
	},
}

// Parameters lists the sweepable parameter names.
func Parameters() []string {
	names := make([]string, 0, len(setters))
	for n := range setters {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Apply writes params into cfg.
func Apply(cfg *config.Config, params map[string]float64) error {
	for name, v := range params {
		set, ok := setters[name]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownParameter, name)
		}
		set(cfg, v)
	}
	return nil
}

// ParseRange reads "min:max:steps" into evenly spaced values, or a single
// number into a one-value range.
func ParseRange(s string) ([]float64, error) {
	parts := strings.Split(s, ":")
	if len(parts) == 1 {
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("parse range %q: %w", s, err)
		}
		return []float64{v}, nil
	}
	if len(parts) != 3 {
		return nil, fmt.Errorf("parse range %q: want min:max:steps", s)
	}

	lo, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return nil, fmt.Errorf("parse range %q: %w", s, err)
	}
	hi, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return nil, fmt.Errorf("parse range %q: %w", s, err)
	}
	steps, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		return nil, fmt.Errorf("parse range %q: %w", s, err)
	}
	if steps < 1 {
		return nil, fmt.Errorf("parse range %q: steps must be positive", s)
	}
	return Linspace(lo, hi, steps), nil
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}
