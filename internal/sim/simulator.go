package sim

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/san-kum/fieldlab/internal/dynamo"
	"github.com/san-kum/fieldlab/internal/integrators"
	"github.com/san-kum/fieldlab/internal/physics"
	"github.com/san-kum/fieldlab/internal/scenario"
)

const (
	DefaultParticleCount = 8
	DefaultChargeSpeed   = 3.0
	DefaultGridCols      = 60
	DefaultGridRows      = 30

	MinChargeSpeed = 1.0
	MaxChargeSpeed = 8.0
)

type ParticleOptions struct {
	Enabled bool
	Count   int
	Mode    integrators.ChargeMode
	Speed   float64
}

type Options struct {
	FixedStep   float64
	MinInterval time.Duration
	Speed       float64

	Scenarios *scenario.Store
	Field     physics.Source
	Plane     physics.Plane
	Particles ParticleOptions

	GridCols, GridRows int
	FastGrid           bool
	ProbeX, ProbeY     float64
}

// Simulator ties the clock, the wave parameters and the particle system
// together. One tick advances the clock, steps the particles in the current
// field and samples the probe.
//
// A Simulator is not safe for concurrent use; Loop serializes access.
type Simulator struct {
	clock     *Clock
	scenarios *scenario.Store
	field     physics.Source
	system    *integrators.System
	particles ParticleOptions

	grids    *GridPool
	gridOpts physics.SampleOptions
	probeX   float64
	probeY   float64

	metrics   []Metric
	observers []Observer
}

func New(opts Options) *Simulator {
	if opts.MinInterval == 0 {
		opts.MinInterval = DefaultMinInterval
	}
	if opts.Scenarios == nil {
		opts.Scenarios = scenario.NewDefault()
	}
	if opts.Field == nil {
		opts.Field = physics.Coil{Current: 5, Turns: 10}
	}
	if opts.Plane.Width <= 0 || opts.Plane.Height <= 0 {
		opts.Plane = physics.DefaultPlane
	}
	if opts.Particles.Count <= 0 {
		opts.Particles.Count = DefaultParticleCount
	}
	if opts.Particles.Speed == 0 {
		opts.Particles.Speed = DefaultChargeSpeed
	}
	opts.Particles.Speed = dynamo.Clamp(opts.Particles.Speed, MinChargeSpeed, MaxChargeSpeed)
	if opts.GridCols <= 0 {
		opts.GridCols = DefaultGridCols
	}
	if opts.GridRows <= 0 {
		opts.GridRows = DefaultGridRows
	}

	s := &Simulator{
		clock:     NewClock(opts.FixedStep, opts.MinInterval),
		scenarios: opts.Scenarios,
		field:     opts.Field,
		system:    integrators.NewSystem(opts.Plane),
		particles: opts.Particles,
		grids:     NewGridPool(opts.GridCols, opts.GridRows),
		gridOpts:  physics.SampleOptions{Fast: opts.FastGrid},
		probeX:    opts.ProbeX,
		probeY:    opts.ProbeY,
	}
	if opts.Speed != 0 {
		s.clock.SetSpeed(opts.Speed)
	}
	s.reinit()
	return s
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Clock() *Clock              { return s.clock }
func (s *Simulator) Scenarios() *scenario.Store { return s.scenarios }
func (s *Simulator) Field() physics.Source      { return s.field }
func (s *Simulator) Plane() physics.Plane       { return s.system.Plane() }

func (s *Simulator) Particles() []integrators.Particle {
	return s.system.Particles()
}

func (s *Simulator) ParticleOptions() ParticleOptions { return s.particles }

// Trail returns particle i's recent positions, oldest first.
func (s *Simulator) Trail(i int) []integrators.Point { return s.system.Trail(i) }

func (s *Simulator) KineticEnergy() float64 { return s.system.KineticEnergy() }

// FieldAt samples the current magnetic source in plane coordinates.
func (s *Simulator) FieldAt(x, y float64) physics.FieldVector {
	return s.field.FieldAt(x, y, s.system.Plane())
}

// Wave returns a copy of the live wave parameters.
func (s *Simulator) Wave() physics.WaveParams { return s.scenarios.Live() }

func (s *Simulator) Probe() (float64, float64) { return s.probeX, s.probeY }

func (s *Simulator) SetProbe(x, y float64) {
	s.probeX = dynamo.Clamp(x, 0, physics.PlaneSize)
	s.probeY = dynamo.Clamp(y, 0, physics.PlaneSize)
}

// ProbeAmplitude is the wave amplitude at the probe point at the current
// simulated time.
func (s *Simulator) ProbeAmplitude() float64 {
	return s.scenarios.Live().At(s.probeX, s.probeY, s.clock.Elapsed())
}

// ProbeInterference classifies the probe amplitude against the maximum the
// active sources can produce.
func (s *Simulator) ProbeInterference() (float64, physics.InterferenceKind) {
	return physics.ClassifyAt(s.scenarios.Live(), s.probeX, s.probeY, s.clock.Elapsed())
}

// Grid samples the wave plane at the current time into a pooled grid.
// Callers hand it back with ReleaseGrid.
func (s *Simulator) Grid() *physics.Grid {
	g := s.grids.Get()
	physics.SampleGridInto(g, s.scenarios.Live(), s.clock.Elapsed(), s.gridOpts)
	return g
}

func (s *Simulator) ReleaseGrid(g *physics.Grid) { s.grids.Put(g) }

// SetField swaps the magnetic source. Particles keep moving in the new field.
func (s *Simulator) SetField(src physics.Source) {
	if src != nil {
		s.field = src
	}
}

func (s *Simulator) SetParticlesEnabled(on bool) {
	if s.particles.Enabled == on {
		return
	}
	s.particles.Enabled = on
	s.reinit()
}

func (s *Simulator) SetChargeMode(m integrators.ChargeMode) {
	s.particles.Mode = m
	s.reinit()
}

// SetChargeSpeed clamps v to [MinChargeSpeed, MaxChargeSpeed] and
// re-initializes the particles.
func (s *Simulator) SetChargeSpeed(v float64) {
	s.particles.Speed = dynamo.Clamp(v, MinChargeSpeed, MaxChargeSpeed)
	s.reinit()
}

func (s *Simulator) SetParticleCount(n int) {
	if n < 1 {
		n = 1
	}
	s.particles.Count = n
	s.reinit()
}

// Respawn re-initializes the particles with the current options.
func (s *Simulator) Respawn() { s.reinit() }

func (s *Simulator) reinit() {
	if !s.particles.Enabled {
		s.system.Clear()
		return
	}
	s.system.Reset(s.particles.Count, s.particles.Mode, s.particles.Speed)
}

// Tick is the scheduled entry point: it performs zero or one step depending
// on the clock state and the time since the previous tick.
func (s *Simulator) Tick(now time.Time) (Frame, bool) {
	if !s.clock.Advance(now) {
		return Frame{}, false
	}
	return s.advance(), true
}

// Step performs one tick unconditionally.
func (s *Simulator) Step() Frame {
	s.clock.Step()
	return s.advance()
}

func (s *Simulator) advance() Frame {
	var stats integrators.StepStats
	if s.particles.Enabled {
		stats = s.system.Step(s.field)
	}
	f := Frame{
		Tick:  s.clock.Ticks(),
		Time:  s.clock.Elapsed(),
		Probe: s.ProbeAmplitude(),
		Stats: stats,
	}
	if s.particles.Enabled {
		f.Particles = s.system.Particles()
	}
	for _, m := range s.metrics {
		m.Observe(f)
	}
	for _, o := range s.observers {
		o.OnFrame(f)
	}
	return f
}

// TicksFor returns the number of ticks covering duration simulated seconds
// at the current speed.
func (s *Simulator) TicksFor(duration float64) int {
	return int(math.Round(duration / (s.clock.FixedStep() * s.clock.Speed())))
}

// Run steps the simulator headlessly for cfg.Duration simulated seconds.
func (s *Simulator) Run(ctx context.Context, cfg RunConfig) (*Result, error) {
	if cfg.Duration <= 0 || !dynamo.IsFinite(cfg.Duration) {
		return nil, fmt.Errorf("%w: duration must be positive, got %f", dynamo.ErrParameterBounds, cfg.Duration)
	}

	steps := s.TicksFor(cfg.Duration)
	result := &Result{
		Times:   make([]float64, 0, steps),
		Probe:   make([]float64, 0, steps),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			s.collect(result)
			return result, ctx.Err()
		default:
		}

		f := s.Step()
		result.Ticks++
		result.Bounces += f.Stats.Bounces
		result.Clamped += f.Stats.Clamped
		result.Times = append(result.Times, f.Time)
		result.Probe = append(result.Probe, f.Probe)

		if cfg.ValidateState && !frameFinite(f) {
			s.collect(result)
			return result, &dynamo.SimulationError{Tick: f.Tick, Time: f.Time, Wrapped: dynamo.ErrInvalidState}
		}
		if cfg.SnapshotEvery > 0 && i%cfg.SnapshotEvery == 0 && f.Particles != nil {
			result.Snapshots = append(result.Snapshots, Snapshot{Tick: f.Tick, Time: f.Time, Particles: f.Particles})
		}
	}

	s.collect(result)
	return result, nil
}

func (s *Simulator) collect(r *Result) {
	for _, m := range s.metrics {
		r.Metrics[m.Name()] = m.Value()
	}
}

func frameFinite(f Frame) bool {
	if !dynamo.IsFinite(f.Probe) {
		return false
	}
	for _, p := range f.Particles {
		if !p.IsFinite() {
			return false
		}
	}
	return true
}
