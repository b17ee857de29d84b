package integrators

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/fieldlab/internal/dynamo"
)

// Particle is a unit-mass point charge moving in the field plane.
type Particle struct {
	ID     int     `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	VX     float64 `json:"vx"`
	VY     float64 `json:"vy"`
	Charge float64 `json:"charge"`
	Mass   float64 `json:"mass"`
}

func (p Particle) Speed() float64 {
	return math.Hypot(p.VX, p.VY)
}

// Velocity returns the planar velocity as a 3-vector.
func (p Particle) Velocity() dynamo.Vec3 {
	return dynamo.Vec3{X: p.VX, Y: p.VY}
}

func (p Particle) IsFinite() bool {
	return dynamo.IsFinite(p.X) && dynamo.IsFinite(p.Y) && dynamo.IsFinite(p.VX) && dynamo.IsFinite(p.VY)
}

// ChargeMode selects how charges are assigned when particles are spawned.
type ChargeMode int

const (
	AllPositive ChargeMode = iota
	AllNegative
	Alternating
)

func (m ChargeMode) String() string {
	switch m {
	case AllPositive:
		return "positive"
	case AllNegative:
		return "negative"
	case Alternating:
		return "alternating"
	}
	return fmt.Sprintf("ChargeMode(%d)", int(m))
}

func ParseChargeMode(name string) (ChargeMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "positive", "+", "pos":
		return AllPositive, nil
	case "negative", "-", "neg":
		return AllNegative, nil
	case "alternating", "mixed", "alt":
		return Alternating, nil
	}
	return 0, fmt.Errorf("%w: %q", dynamo.ErrUnknownChargeMode, name)
}

// ChargeFor returns the charge of the i-th spawned particle.
func (m ChargeMode) ChargeFor(i int) float64 {
	switch m {
	case AllNegative:
		return -1
	case Alternating:
		if i%2 == 1 {
			return -1
		}
	}
	return 1
}
