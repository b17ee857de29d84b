package dynamo

import "math"

const twoPi = 2 * math.Pi

// SineTable is a precomputed sine over one period with linear interpolation.
// Accurate to ~1e-6 at 4096 entries; use only where results are displayed,
// never for the exact superposition path.
type SineTable struct {
	values []float64
	scale  float64
}

// DefaultSineTable has 4096 entries (~0.0015 rad resolution).
var DefaultSineTable = NewSineTable(4096)

func NewSineTable(n int) *SineTable {
	if n < 4 {
		n = 4
	}
	// one extra entry so interpolation never wraps the index
	values := make([]float64, n+1)
	for i := range values {
		values[i] = math.Sin(float64(i) * twoPi / float64(n))
	}
	return &SineTable{values: values, scale: float64(n) / twoPi}
}

func (t *SineTable) Sin(x float64) float64 {
	x = math.Mod(x, twoPi)
	if x < 0 {
		x += twoPi
	}
	pos := x * t.scale
	i := int(pos)
	if i >= len(t.values)-1 {
		i = len(t.values) - 2
	}
	frac := pos - float64(i)
	return t.values[i] + (t.values[i+1]-t.values[i])*frac
}

// Cos is Sin shifted by a quarter period.
func (t *SineTable) Cos(x float64) float64 {
	return t.Sin(x + math.Pi/2)
}

func FastSin(x float64) float64 {
	return DefaultSineTable.Sin(x)
}
