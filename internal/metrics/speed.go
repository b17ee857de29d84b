package metrics

import (
	"github.com/san-kum/fieldlab/internal/sim"
)

// SpeedBound is the fraction of frames in which every particle respects
// the speed limit.
type SpeedBound struct {
	name       string
	limit      float64
	violations int
	samples    int
}

func NewSpeedBound(limit float64) *SpeedBound {
	return &SpeedBound{
		name:  "speed_bound",
		limit: limit,
	}
}

func (s *SpeedBound) Name() string {
	return s.name
}

func (s *SpeedBound) Observe(f sim.Frame) {
	s.samples++
	for _, p := range f.Particles {
		if p.Speed() > s.limit+1e-9 {
			s.violations++
			break
		}
	}
}

func (s *SpeedBound) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *SpeedBound) Reset() {
	s.violations = 0
	s.samples = 0
}

// MaxSpeed is the fastest particle speed seen.
type MaxSpeed struct {
	max float64
}

func NewMaxSpeed() *MaxSpeed { return &MaxSpeed{} }

func (m *MaxSpeed) Name() string { return "max_speed" }

func (m *MaxSpeed) Observe(f sim.Frame) {
	for _, p := range f.Particles {
		if v := p.Speed(); v > m.max {
			m.max = v
		}
	}
}

func (m *MaxSpeed) Value() float64 { return m.max }
func (m *MaxSpeed) Reset()         { m.max = 0 }

// Bounces counts boundary reflections.
type Bounces struct {
	n int
}

func NewBounces() *Bounces { return &Bounces{} }

func (b *Bounces) Name() string        { return "bounces" }
func (b *Bounces) Observe(f sim.Frame) { b.n += f.Stats.Bounces }
func (b *Bounces) Value() float64      { return float64(b.n) }
func (b *Bounces) Reset()              { b.n = 0 }
