package physics

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/fieldlab/internal/dynamo"
)

// FieldVector is a magnetic field sample. Recomputed on every query.
type FieldVector = dynamo.Vec3

// Field model constants, in plane (pixel) units.
const (
	// MinDistance floors every distance used as a denominator.
	MinDistance = 1.0

	WireGain     = 20.0
	CoilGain     = 0.02
	BarGain      = 2.0e5
	BarZFraction = 0.5

	coilRadiusFraction    = 1.0 / 6
	barSeparationFraction = 0.2
)

type SourceKind int

const (
	KindWire SourceKind = iota
	KindCoil
	KindBar
)

var kindNames = map[SourceKind]string{
	KindWire: "wire",
	KindCoil: "coil",
	KindBar:  "bar",
}

func (k SourceKind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("SourceKind(%d)", int(k))
}

// ParseSourceKind accepts the short names plus a few long aliases.
func ParseSourceKind(name string) (SourceKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "wire", "straight", "straight_wire":
		return KindWire, nil
	case "coil", "solenoid":
		return KindCoil, nil
	case "bar", "magnet", "bar_magnet":
		return KindBar, nil
	}
	return 0, fmt.Errorf("%w: %q", dynamo.ErrUnknownField, name)
}

// Plane is the pixel space particles move in. Margin is the inset at which
// particles bounce.
type Plane struct {
	Width, Height, Margin float64
}

var DefaultPlane = Plane{Width: 400, Height: 400, Margin: 10}

func (p Plane) Center() (float64, float64) {
	return p.Width / 2, p.Height / 2
}

// Source is one magnetic field topology. Each variant carries only the
// parameters it needs.
type Source interface {
	Kind() SourceKind
	FieldAt(x, y float64, plane Plane) FieldVector
}

// Wire is a straight conductor through the plane centre, perpendicular to
// the plane. The circular field is reduced to its strength at radius r,
// reported on Z.
type Wire struct {
	Current  float64
	Distance float64 // readout radius, does not affect FieldAt
}

func (Wire) Kind() SourceKind { return KindWire }

func (w Wire) FieldAt(x, y float64, plane Plane) FieldVector {
	cx, cy := plane.Center()
	r := dynamo.FloorDistance(math.Hypot(x-cx, y-cy), MinDistance)
	return FieldVector{Z: WireGain * w.Current / r}
}

// StrengthAtDistance is the field magnitude at the configured readout radius.
func (w Wire) StrengthAtDistance() float64 {
	return WireGain * w.Current / dynamo.FloorDistance(w.Distance, MinDistance)
}

// Coil is a solenoid seen end-on: uniform inside Radius, inverse-square
// outside. Radius 0 selects a sixth of the smaller plane side.
type Coil struct {
	Current float64
	Turns   int
	Radius  float64
}

func (Coil) Kind() SourceKind { return KindCoil }

// CoreRadius is the radius of the uniform interior region.
func (c Coil) CoreRadius(plane Plane) float64 {
	if c.Radius > 0 {
		return c.Radius
	}
	return math.Min(plane.Width, plane.Height) * coilRadiusFraction
}

func (c Coil) FieldAt(x, y float64, plane Plane) FieldVector {
	cx, cy := plane.Center()
	core := CoilGain * c.Current * float64(c.Turns)
	R := dynamo.FloorDistance(c.CoreRadius(plane), MinDistance)
	r := dynamo.FloorDistance(math.Hypot(x-cx, y-cy), MinDistance)
	if r <= R {
		return FieldVector{Z: core}
	}
	ratio := R / r
	return FieldVector{Z: core * ratio * ratio}
}

// BarMagnet is two opposite point poles on the horizontal axis through the
// centre, north on the right. Z is a fixed fraction of the planar magnitude
// so planar particles still feel a force.
type BarMagnet struct {
	Current    float64
	Separation float64 // pole distance; 0 selects a fifth of the width
}

func (BarMagnet) Kind() SourceKind { return KindBar }

// Poles returns the north and south pole positions.
func (b BarMagnet) Poles(plane Plane) (nx, ny, sx, sy float64) {
	cx, cy := plane.Center()
	half := b.Separation / 2
	if b.Separation <= 0 {
		half = plane.Width * barSeparationFraction / 2
	}
	return cx + half, cy, cx - half, cy
}

func (b BarMagnet) FieldAt(x, y float64, plane Plane) FieldVector {
	nx, ny, sx, sy := b.Poles(plane)
	strength := BarGain * b.Current

	var field FieldVector
	for _, pole := range [...]struct{ x, y, sign float64 }{{nx, ny, 1}, {sx, sy, -1}} {
		dx, dy := x-pole.x, y-pole.y
		if dx == 0 && dy == 0 {
			// exactly on the pole there is no radial direction
			continue
		}
		r := dynamo.FloorDistance(math.Hypot(dx, dy), MinDistance)
		k := pole.sign * strength / (r * r * r * r)
		field.X += k * dx
		field.Y += k * dy
	}
	field.Z = BarZFraction * field.PlanarNorm()
	return field
}

// NewSource builds the variant for kind. Unknown kinds yield a wire with no
// current, which produces a zero field.
func NewSource(kind SourceKind, current float64, turns int, wireDistance float64) Source {
	switch kind {
	case KindCoil:
		return Coil{Current: current, Turns: turns}
	case KindBar:
		return BarMagnet{Current: current}
	case KindWire:
		return Wire{Current: current, Distance: wireDistance}
	}
	return Wire{}
}

// FieldAt samples the field of a source described by flat parameters.
func FieldAt(x, y, current float64, kind SourceKind, turns int, planeWidth, planeHeight float64) FieldVector {
	plane := Plane{Width: planeWidth, Height: planeHeight, Margin: DefaultPlane.Margin}
	return NewSource(kind, current, turns, 0).FieldAt(x, y, plane)
}

// SampleField evaluates src on a cols×rows lattice of cell centres.
func SampleField(src Source, plane Plane, cols, rows int) []FieldVector {
	if cols < 1 || rows < 1 {
		return nil
	}
	out := make([]FieldVector, cols*rows)
	cw, ch := plane.Width/float64(cols), plane.Height/float64(rows)
	dynamo.ParallelFor(rows, minRowsPerWorker, func(start, end int) {
		for row := start; row < end; row++ {
			for col := 0; col < cols; col++ {
				out[row*cols+col] = src.FieldAt((float64(col)+0.5)*cw, (float64(row)+0.5)*ch, plane)
			}
		}
	})
	return out
}
