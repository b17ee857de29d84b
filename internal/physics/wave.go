package physics

import (
	"math"

	"github.com/san-kum/fieldlab/internal/dynamo"
)

// PlaneSize is the extent of the normalized wave plane on both axes.
const PlaneSize = 100.0

// Classification thresholds on |amplitude| / maxPossible.
const (
	ConstructiveRatio = 0.8
	DestructiveRatio  = 0.2
)

// WaveSource is a point emitter on the normalized [0,100]² plane.
// Phase is in radians.
type WaveSource struct {
	X         float64 `yaml:"x" json:"x"`
	Y         float64 `yaml:"y" json:"y"`
	Frequency float64 `yaml:"frequency" json:"frequency"`
	Amplitude float64 `yaml:"amplitude" json:"amplitude"`
	Phase     float64 `yaml:"phase" json:"phase"`
	Active    bool    `yaml:"active" json:"active"`
}

// WaveParams is the full input set of the superposition model.
type WaveParams struct {
	Sources   []WaveSource
	WaveSpeed float64
	Damping   float64
}

// Clone returns a copy that shares no memory with p.
func (p WaveParams) Clone() WaveParams {
	c := p
	c.Sources = append([]WaveSource(nil), p.Sources...)
	return c
}

// SourceContribution is the displacement one source adds at (x, y, t).
func SourceContribution(src WaveSource, x, y, t, waveSpeed, damping float64) float64 {
	if !src.Active || src.Amplitude == 0 || src.Frequency <= 0 || waveSpeed <= 0 {
		return 0
	}
	d := math.Hypot(x-src.X, y-src.Y)
	wavelength := waveSpeed / src.Frequency
	phi := 2*math.Pi*src.Frequency*t - 2*math.Pi*d/wavelength + src.Phase
	return src.Amplitude * math.Exp(-damping*d) * math.Sin(phi)
}

// Interference sums the contributions of every active source at (x, y, t).
func Interference(sources []WaveSource, x, y, t, waveSpeed, damping float64) float64 {
	total := 0.0
	for _, src := range sources {
		total += SourceContribution(src, x, y, t, waveSpeed, damping)
	}
	return total
}

// At evaluates the superposition for p.
func (p WaveParams) At(x, y, t float64) float64 {
	return Interference(p.Sources, x, y, t, p.WaveSpeed, p.Damping)
}

// MaxAmplitude is the largest displacement the active sources can reach.
func MaxAmplitude(sources []WaveSource) float64 {
	sum := 0.0
	for _, src := range sources {
		if src.Active {
			sum += src.Amplitude
		}
	}
	return sum
}

type InterferenceKind int

const (
	Destructive InterferenceKind = iota
	Partial
	Constructive
)

func (i InterferenceKind) String() string {
	switch i {
	case Constructive:
		return "constructive"
	case Destructive:
		return "destructive"
	default:
		return "partial"
	}
}

// Classify buckets an amplitude relative to the maximum possible one.
// With nothing active there is no displacement, which reads as destructive.
func Classify(amplitude, maxPossible float64) InterferenceKind {
	if maxPossible <= 0 {
		return Destructive
	}
	ratio := math.Abs(amplitude) / maxPossible
	switch {
	case ratio > ConstructiveRatio:
		return Constructive
	case ratio < DestructiveRatio:
		return Destructive
	default:
		return Partial
	}
}

// ClassifyAt evaluates and classifies the field at one point.
func ClassifyAt(p WaveParams, x, y, t float64) (float64, InterferenceKind) {
	a := p.At(x, y, t)
	return a, Classify(a, MaxAmplitude(p.Sources))
}

// Grid is a row-major amplitude sample of the plane.
type Grid struct {
	Cols, Rows int
	Values     []float64
	Peak       float64 // largest |value|
}

func NewGrid(cols, rows int) *Grid {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return &Grid{Cols: cols, Rows: rows, Values: make([]float64, cols*rows)}
}

func (g *Grid) At(col, row int) float64 {
	if col < 0 || col >= g.Cols || row < 0 || row >= g.Rows {
		return 0
	}
	return g.Values[row*g.Cols+col]
}

// CellCenter maps a grid cell to plane coordinates.
func (g *Grid) CellCenter(col, row int) (float64, float64) {
	return (float64(col) + 0.5) * PlaneSize / float64(g.Cols),
		(float64(row) + 0.5) * PlaneSize / float64(g.Rows)
}

type SampleOptions struct {
	// Fast uses the shared sine table instead of math.Sin.
	Fast bool
}

// rows per goroutine before sampling goes parallel
const minRowsPerWorker = 16

// SampleGrid evaluates the field at every cell centre at time t.
func SampleGrid(p WaveParams, t float64, cols, rows int, opts SampleOptions) *Grid {
	g := NewGrid(cols, rows)
	SampleGridInto(g, p, t, opts)
	return g
}

// SampleGridInto fills an existing grid, reusing its buffer.
func SampleGridInto(g *Grid, p WaveParams, t float64, opts SampleOptions) {
	if len(g.Values) != g.Cols*g.Rows {
		g.Values = make([]float64, g.Cols*g.Rows)
	}
	sources := activeSources(p.Sources)
	peaks := make([]float64, g.Rows)

	dynamo.ParallelFor(g.Rows, minRowsPerWorker, func(start, end int) {
		for row := start; row < end; row++ {
			peak := 0.0
			for col := 0; col < g.Cols; col++ {
				x, y := g.CellCenter(col, row)
				var v float64
				if opts.Fast {
					v = fastInterference(sources, x, y, t, p.WaveSpeed, p.Damping)
				} else {
					v = Interference(sources, x, y, t, p.WaveSpeed, p.Damping)
				}
				g.Values[row*g.Cols+col] = v
				if a := math.Abs(v); a > peak {
					peak = a
				}
			}
			peaks[row] = peak
		}
	})

	g.Peak = 0
	for _, pk := range peaks {
		if pk > g.Peak {
			g.Peak = pk
		}
	}
}

func activeSources(sources []WaveSource) []WaveSource {
	out := make([]WaveSource, 0, len(sources))
	for _, s := range sources {
		if s.Active && s.Amplitude != 0 && s.Frequency > 0 {
			out = append(out, s)
		}
	}
	return out
}

func fastInterference(sources []WaveSource, x, y, t, waveSpeed, damping float64) float64 {
	if waveSpeed <= 0 {
		return 0
	}
	total := 0.0
	for _, src := range sources {
		d := math.Hypot(x-src.X, y-src.Y)
		phi := 2*math.Pi*src.Frequency*(t-d/waveSpeed) + src.Phase
		total += src.Amplitude * math.Exp(-damping*d) * dynamo.FastSin(phi)
	}
	return total
}
