package metrics

import (
	"math"

	"github.com/san-kum/fieldlab/internal/sim"
)

// ProbePeak is the largest absolute probe amplitude.
type ProbePeak struct {
	peak float64
}

func NewProbePeak() *ProbePeak { return &ProbePeak{} }

func (p *ProbePeak) Name() string { return "probe_peak" }

func (p *ProbePeak) Observe(f sim.Frame) {
	p.peak = math.Max(p.peak, math.Abs(f.Probe))
}

func (p *ProbePeak) Value() float64 { return p.peak }
func (p *ProbePeak) Reset()         { p.peak = 0 }

// ProbeRMS is the root mean square of the probe amplitude.
type ProbeRMS struct {
	sum     float64
	samples int
}

func NewProbeRMS() *ProbeRMS { return &ProbeRMS{} }

func (p *ProbeRMS) Name() string { return "probe_rms" }

func (p *ProbeRMS) Observe(f sim.Frame) {
	p.sum += f.Probe * f.Probe
	p.samples++
}

func (p *ProbeRMS) Value() float64 {
	if p.samples == 0 {
		return 0
	}
	return math.Sqrt(p.sum / float64(p.samples))
}

func (p *ProbeRMS) Reset() {
	p.sum = 0
	p.samples = 0
}
