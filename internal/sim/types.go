package sim

import (
	"github.com/san-kum/fieldlab/internal/integrators"
)

// Frame is the snapshot produced by one tick.
type Frame struct {
	Tick      uint64
	Time      float64
	Probe     float64
	Stats     integrators.StepStats
	Particles []integrators.Particle
}

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(f Frame)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(f Frame)

func (fn ObserverFunc) OnFrame(f Frame) { fn(f) }

type RunConfig struct {
	Duration float64
	// SnapshotEvery records particle positions every n ticks; 0 disables.
	SnapshotEvery int
	ValidateState bool
}

type Snapshot struct {
	Tick      uint64
	Time      float64
	Particles []integrators.Particle
}

type Result struct {
	Times     []float64
	Probe     []float64
	Snapshots []Snapshot
	Metrics   map[string]float64
	Bounces   int
	Clamped   int
	Ticks     uint64
}
