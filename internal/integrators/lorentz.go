package integrators

import (
	"math"

	"github.com/san-kum/fieldlab/internal/dynamo"
	"github.com/san-kum/fieldlab/internal/physics"
)

// Integration constants. One step is one tick; velocities are in plane
// units per tick.
const (
	MaxSpeedFactor  = 2.0
	ForceScale      = 0.05
	VelocityDamping = 0.995
	Restitution     = 0.8

	spawnRadiusFraction = 0.25
)

// StepStats counts events of one step.
type StepStats struct {
	Bounces int
	Clamped int
}

// System owns a batch of charged particles and their trails and advances
// them under the Lorentz force. Structural changes go through Reset; the
// batch is never repaired incrementally.
//
// A System is not safe for concurrent use.
type System struct {
	plane       physics.Plane
	mode        ChargeMode
	chargeSpeed float64
	particles   []Particle
	trails      []Trail
	fields      []physics.FieldVector
}

func NewSystem(plane physics.Plane) *System {
	return &System{plane: plane, chargeSpeed: 1}
}

func (s *System) Plane() physics.Plane { return s.plane }
func (s *System) Mode() ChargeMode     { return s.mode }
func (s *System) ChargeSpeed() float64 { return s.chargeSpeed }
func (s *System) Len() int             { return len(s.particles) }

// MaxSpeed is the speed bound enforced every step.
func (s *System) MaxSpeed() float64 {
	return s.chargeSpeed * MaxSpeedFactor
}

// SpawnRadius is the radius of the circle particles start on.
func (s *System) SpawnRadius() float64 {
	return math.Min(s.plane.Width, s.plane.Height) * spawnRadiusFraction
}

// Reset replaces the batch with count particles spaced evenly on the spawn
// circle, each moving tangentially (counter-clockwise) at chargeSpeed.
func (s *System) Reset(count int, mode ChargeMode, chargeSpeed float64) {
	if count < 0 {
		count = 0
	}
	s.mode = mode
	s.chargeSpeed = chargeSpeed
	s.particles = make([]Particle, count)
	s.trails = make([]Trail, count)
	s.fields = make([]physics.FieldVector, count)

	cx, cy := s.plane.Center()
	r := s.SpawnRadius()
	for i := range s.particles {
		angle := 2 * math.Pi * float64(i) / float64(count)
		sin, cos := math.Sincos(angle)
		s.particles[i] = Particle{
			ID:     i,
			X:      cx + r*cos,
			Y:      cy + r*sin,
			VX:     -sin * chargeSpeed,
			VY:     cos * chargeSpeed,
			Charge: mode.ChargeFor(i),
			Mass:   1,
		}
	}
}

// Clear drops every particle and trail.
func (s *System) Clear() {
	s.particles = nil
	s.trails = nil
	s.fields = nil
}

// Inject appends a single particle with a fresh trail. Its ID is replaced by
// the next index.
func (s *System) Inject(p Particle) int {
	p.ID = len(s.particles)
	if p.Mass == 0 {
		p.Mass = 1
	}
	s.particles = append(s.particles, p)
	s.trails = append(s.trails, Trail{})
	s.fields = append(s.fields, physics.FieldVector{})
	return p.ID
}

// Particles returns a copy of the current batch.
func (s *System) Particles() []Particle {
	return append([]Particle(nil), s.particles...)
}

func (s *System) Particle(i int) (Particle, bool) {
	if i < 0 || i >= len(s.particles) {
		return Particle{}, false
	}
	return s.particles[i], true
}

// Trail returns particle i's recent positions, oldest first.
func (s *System) Trail(i int) []Point {
	if i < 0 || i >= len(s.trails) {
		return nil
	}
	return s.trails[i].Points()
}

// LorentzForce returns q(v × B). Wire and coil fields are used through
// their Z component only, since v is planar; the bar magnet uses all three.
func LorentzForce(q float64, v dynamo.Vec3, b physics.FieldVector, kind physics.SourceKind) dynamo.Vec3 {
	if kind != physics.KindBar {
		b = physics.FieldVector{Z: b.Z}
	}
	return v.Cross(b).Scale(q)
}

// Step advances every particle by one tick in the field of src. Fields are
// sampled at the pre-tick positions of all particles before any particle
// moves.
func (s *System) Step(src physics.Source) StepStats {
	var stats StepStats
	if len(s.particles) == 0 {
		return stats
	}

	kind := src.Kind()
	for i := range s.particles {
		s.fields[i] = src.FieldAt(s.particles[i].X, s.particles[i].Y, s.plane)
	}

	max := s.MaxSpeed()
	for i := range s.particles {
		p := &s.particles[i]
		f := LorentzForce(p.Charge, p.Velocity(), s.fields[i], kind)
		Kick(p, f.X/p.Mass*ForceScale, f.Y/p.Mass*ForceScale)
		DampVelocity(p, VelocityDamping)
		if ClampSpeed(p, max) {
			stats.Clamped++
		}
		Drift(p)
		stats.Bounces += s.bounce(p)
		s.trails[i].Push(p.X, p.Y)
	}
	return stats
}

// bounce clamps p to the plane margin and reflects the crossing velocity
// component with Restitution. It returns the number of axes reflected.
func (s *System) bounce(p *Particle) int {
	lo := s.plane.Margin
	hiX := s.plane.Width - s.plane.Margin
	hiY := s.plane.Height - s.plane.Margin
	n := 0

	switch {
	case p.X < lo:
		p.X = lo
		p.VX = -p.VX * Restitution
		n++
	case p.X > hiX:
		p.X = hiX
		p.VX = -p.VX * Restitution
		n++
	}
	switch {
	case p.Y < lo:
		p.Y = lo
		p.VY = -p.VY * Restitution
		n++
	case p.Y > hiY:
		p.Y = hiY
		p.VY = -p.VY * Restitution
		n++
	}
	return n
}

// KineticEnergy is the total ½mv² of the batch.
func (s *System) KineticEnergy() float64 {
	e := 0.0
	for _, p := range s.particles {
		e += 0.5 * p.Mass * (p.VX*p.VX + p.VY*p.VY)
	}
	return e
}
