package metrics

import (
	"math"

	"github.com/san-kum/fieldlab/internal/sim"
)

// Energy is the mean total kinetic energy of the particles over all frames.
type Energy struct {
	name        string
	samples     int
	totalEnergy float64
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(f sim.Frame) {
	e.totalEnergy += kinetic(f)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyLoss is the largest fraction of the first observed kinetic energy
// lost so far. Damping and lossy bounces make it grow over a run.
type EnergyLoss struct {
	name          string
	initialEnergy float64
	maxLoss       float64
	samples       int
}

func NewEnergyLoss() *EnergyLoss {
	return &EnergyLoss{name: "energy_loss"}
}

func (e *EnergyLoss) Name() string { return e.name }

func (e *EnergyLoss) Observe(f sim.Frame) {
	energy := kinetic(f)
	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		loss := (e.initialEnergy - energy) / e.initialEnergy
		e.maxLoss = math.Max(e.maxLoss, loss)
	}
}

func (e *EnergyLoss) Value() float64 {
	return e.maxLoss
}

func (e *EnergyLoss) Reset() {
	e.initialEnergy = 0
	e.maxLoss = 0
	e.samples = 0
}

func kinetic(f sim.Frame) float64 {
	total := 0.0
	for _, p := range f.Particles {
		m := p.Mass
		if m == 0 {
			m = 1
		}
		total += 0.5 * m * (p.VX*p.VX + p.VY*p.VY)
	}
	return total
}
