package config

import (
	"fmt"
	"math"
	"time"

	"github.com/san-kum/fieldlab/internal/dynamo"
	"github.com/san-kum/fieldlab/internal/physics"
)

// Range is an inclusive parameter bound.
type Range struct {
	Min, Max float64
}

func (r Range) Clamp(v float64) float64 { return dynamo.Clamp(v, r.Min, r.Max) }

func (r Range) Contains(v float64) bool { return v >= r.Min && v <= r.Max }

var (
	CoordRange        = Range{0, physics.PlaneSize}
	FrequencyRange    = Range{0.5, 5}
	AmplitudeRange    = Range{0.1, 2}
	WaveSpeedRange    = Range{0.5, 3}
	DampingRange      = Range{0.001, 0.1}
	CurrentRange      = Range{0, 10}
	WireDistanceRange = Range{10, 50}
	TurnsRange        = Range{1, 20}
	SpeedRange        = Range{0.1, 3}
	ChargeSpeedRange  = Range{1, 8}
	ParticleRange     = Range{1, 64}
	GridRange         = Range{4, 400}
	PlaneRange        = Range{100, 2000}
	DurationRange     = Range{0.1, 3600}
	FixedStepRange    = Range{0.001, 0.1}

	FrameIntervalMin = time.Millisecond
	FrameIntervalMax = time.Second
)

// WrapDegrees folds a phase into [0, 360).
func WrapDegrees(deg float64) float64 {
	if !dynamo.IsFinite(deg) {
		return 0
	}
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// WrapRadians folds a phase into [0, 2π).
func WrapRadians(rad float64) float64 {
	if !dynamo.IsFinite(rad) {
		return 0
	}
	rad = math.Mod(rad, 2*math.Pi)
	if rad < 0 {
		rad += 2 * math.Pi
	}
	return rad
}

func ClampWaveSpeed(v float64) float64 { return WaveSpeedRange.Clamp(v) }
func ClampDamping(v float64) float64   { return DampingRange.Clamp(v) }

// ClampSource brings every field of a model source into its range.
func ClampSource(s physics.WaveSource) physics.WaveSource {
	s.X = CoordRange.Clamp(s.X)
	s.Y = CoordRange.Clamp(s.Y)
	s.Frequency = FrequencyRange.Clamp(s.Frequency)
	s.Amplitude = AmplitudeRange.Clamp(s.Amplitude)
	s.Phase = WrapRadians(s.Phase)
	return s
}

func clampInt(v int, r Range) int {
	return int(r.Clamp(float64(v)))
}

// Clamp brings every parameter into its documented range and returns the
// names of the fields it changed.
func (c *Config) Clamp() []string {
	var fixed []string
	num := func(name string, v *float64, r Range) {
		if nv := r.Clamp(*v); nv != *v {
			*v = nv
			fixed = append(fixed, name)
		}
	}
	integer := func(name string, v *int, r Range) {
		if nv := clampInt(*v, r); nv != *v {
			*v = nv
			fixed = append(fixed, name)
		}
	}

	num("duration", &c.Duration, DurationRange)
	num("clock.fixed_step", &c.Clock.FixedStep, FixedStepRange)
	num("clock.speed_multiplier", &c.Clock.SpeedMultiplier, SpeedRange)
	if c.Clock.FrameInterval < FrameIntervalMin || c.Clock.FrameInterval > FrameIntervalMax {
		c.Clock.FrameInterval = min(max(c.Clock.FrameInterval, FrameIntervalMin), FrameIntervalMax)
		fixed = append(fixed, "clock.frame_interval")
	}

	num("wave.wave_speed", &c.Wave.WaveSpeed, WaveSpeedRange)
	num("wave.damping", &c.Wave.Damping, DampingRange)
	integer("wave.grid_cols", &c.Wave.GridCols, GridRange)
	integer("wave.grid_rows", &c.Wave.GridRows, GridRange)
	num("wave.probe_x", &c.Wave.ProbeX, CoordRange)
	num("wave.probe_y", &c.Wave.ProbeY, CoordRange)
	for i := range c.Wave.Sources {
		s := &c.Wave.Sources[i]
		prefix := fmt.Sprintf("wave.sources[%d].", i)
		num(prefix+"x", &s.X, CoordRange)
		num(prefix+"y", &s.Y, CoordRange)
		num(prefix+"frequency", &s.Frequency, FrequencyRange)
		num(prefix+"amplitude", &s.Amplitude, AmplitudeRange)
		if p := WrapDegrees(s.PhaseDeg); p != s.PhaseDeg {
			s.PhaseDeg = p
			fixed = append(fixed, prefix+"phase_deg")
		}
	}

	num("magnetic.current", &c.Magnetic.Current, CurrentRange)
	num("magnetic.wire_distance", &c.Magnetic.WireDistance, WireDistanceRange)
	integer("magnetic.turns", &c.Magnetic.Turns, TurnsRange)
	num("magnetic.plane_width", &c.Magnetic.PlaneWidth, PlaneRange)
	num("magnetic.plane_height", &c.Magnetic.PlaneHeight, PlaneRange)

	integer("particles.count", &c.Particles.Count, ParticleRange)
	num("particles.speed", &c.Particles.Speed, ChargeSpeedRange)
	return fixed
}
