package integrators

import (
	"errors"
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fieldlab/internal/dynamo"
	"github.com/san-kum/fieldlab/internal/physics"
)

var _ = Describe("System", func() {
	var sys *System
	plane := physics.DefaultPlane

	BeforeEach(func() {
		sys = NewSystem(plane)
	})

	Describe("Reset", func() {
		It("spaces particles on the spawn circle with tangential velocity", func() {
			sys.Reset(6, Alternating, 3)
			cx, cy := plane.Center()
			Expect(sys.Len()).To(Equal(6))
			for i, p := range sys.Particles() {
				rx, ry := p.X-cx, p.Y-cy
				Expect(math.Hypot(rx, ry)).To(BeNumerically("~", sys.SpawnRadius(), 1e-9))
				Expect(rx*p.VX + ry*p.VY).To(BeNumerically("~", 0, 1e-9))
				Expect(p.Speed()).To(BeNumerically("~", 3, 1e-12))
				Expect(p.Mass).To(Equal(1.0))
				Expect(p.ID).To(Equal(i))
				Expect(p.Charge).To(Equal(Alternating.ChargeFor(i)))
			}
		})

		It("recreates the batch instead of mutating it", func() {
			sys.Reset(4, AllPositive, 2)
			sys.Step(physics.Coil{Current: 5, Turns: 10})
			Expect(sys.Trail(0)).To(HaveLen(1))

			sys.Reset(3, AllNegative, 5)
			Expect(sys.Len()).To(Equal(3))
			Expect(sys.Trail(0)).To(BeEmpty())
			Expect(sys.MaxSpeed()).To(Equal(5 * MaxSpeedFactor))
			for _, p := range sys.Particles() {
				Expect(p.Charge).To(Equal(-1.0))
			}
		})

		It("clears everything", func() {
			sys.Reset(4, AllPositive, 2)
			sys.Clear()
			Expect(sys.Len()).To(BeZero())
			Expect(sys.Trail(0)).To(BeNil())
			Expect(sys.Step(physics.Wire{Current: 3})).To(Equal(StepStats{}))
		})
	})

	Describe("Step", func() {
		It("curves a positive charge in a coil field within ten ticks", func() {
			sys.Reset(1, AllPositive, 3)
			start, _ := sys.Particle(0)
			heading0 := math.Atan2(start.VY, start.VX)
			coil := physics.Coil{Current: 5, Turns: 10}

			for i := 0; i < 10; i++ {
				sys.Step(coil)
			}
			p, _ := sys.Particle(0)
			// a straight path would keep X constant
			Expect(math.Abs(p.X - start.X)).To(BeNumerically(">", 0.5))
			Expect(math.Abs(math.Atan2(p.VY, p.VX) - heading0)).To(BeNumerically(">", 0.05))
		})

		It("bends opposite charges in opposite directions", func() {
			sys.Reset(2, AllPositive, 3)
			neg := NewSystem(plane)
			neg.Reset(2, AllNegative, 3)
			coil := physics.Coil{Current: 5, Turns: 10}
			sys.Step(coil)
			neg.Step(coil)
			cx, _ := plane.Center()
			p, _ := sys.Particle(0)
			n, _ := neg.Particle(0)
			Expect(p.X - cx).To(BeNumerically(">", n.X-cx))
		})

		It("keeps the trail capped at fifty points", func() {
			sys.Reset(3, Alternating, 4)
			coil := physics.Coil{Current: 5, Turns: 10}
			for i := 0; i < 500; i++ {
				sys.Step(coil)
				for j := 0; j < sys.Len(); j++ {
					Expect(len(sys.Trail(j))).To(BeNumerically("<=", TrailCapacity))
				}
			}
			trail := sys.Trail(0)
			Expect(trail).To(HaveLen(TrailCapacity))
			p, _ := sys.Particle(0)
			Expect(trail[len(trail)-1]).To(Equal(Point{p.X, p.Y}))
		})

		It("never exceeds the speed bound", func() {
			rng := rand.New(rand.NewSource(7))
			sys.Reset(0, AllPositive, 2)
			cx, cy := plane.Center()
			for i := 0; i < 40; i++ {
				sys.Inject(Particle{
					X:      cx + (rng.Float64()-0.5)*200,
					Y:      cy + (rng.Float64()-0.5)*200,
					VX:     (rng.Float64() - 0.5) * 40,
					VY:     (rng.Float64() - 0.5) * 40,
					Charge: float64(1 - 2*(i%2)),
				})
			}
			sources := []physics.Source{
				physics.BarMagnet{Current: 10},
				physics.Wire{Current: 10},
				physics.Coil{Current: 10, Turns: 20},
			}
			for tick := 0; tick < 300; tick++ {
				sys.Step(sources[tick%len(sources)])
				for _, p := range sys.Particles() {
					Expect(p.Speed()).To(BeNumerically("<=", sys.MaxSpeed()+1e-9))
					Expect(p.IsFinite()).To(BeTrue())
				}
			}
		})

		It("counts clamped particles", func() {
			sys.Reset(0, AllPositive, 1)
			sys.Inject(Particle{X: 200, Y: 200, VX: 10, Charge: 1})
			stats := sys.Step(physics.Wire{})
			Expect(stats.Clamped).To(Equal(1))
			p, _ := sys.Particle(0)
			Expect(p.VX).To(BeNumerically("~", sys.MaxSpeed(), 1e-12))
			Expect(p.VY).To(BeZero())
		})

		It("does not depend on particle order", func() {
			a := Particle{X: 150, Y: 180, VX: 2, VY: -1, Charge: 1}
			b := Particle{X: 260, Y: 220, VX: -1.5, VY: 2.5, Charge: -1}
			fwd, rev := NewSystem(plane), NewSystem(plane)
			fwd.Reset(0, AllPositive, 4)
			rev.Reset(0, AllPositive, 4)
			fwd.Inject(a)
			fwd.Inject(b)
			rev.Inject(b)
			rev.Inject(a)
			bar := physics.BarMagnet{Current: 5}
			for i := 0; i < 25; i++ {
				fwd.Step(bar)
				rev.Step(bar)
			}
			f0, _ := fwd.Particle(0)
			r1, _ := rev.Particle(1)
			Expect([]float64{f0.X, f0.Y, f0.VX, f0.VY}).To(Equal([]float64{r1.X, r1.Y, r1.VX, r1.VY}))
		})
	})

	Describe("boundaries", func() {
		hi := plane.Width - plane.Margin

		It("clamps to the upper margin and reflects with restitution", func() {
			sys.Reset(0, AllPositive, 8)
			sys.Inject(Particle{X: hi - 5, Y: 200, VX: 10, VY: 0, Charge: 1})
			stats := sys.Step(physics.Wire{})

			p, _ := sys.Particle(0)
			incoming := 10 * VelocityDamping
			Expect(stats.Bounces).To(Equal(1))
			Expect(p.X).To(Equal(hi))
			Expect(p.VX).To(BeNumerically("~", -Restitution*incoming, 1e-12))
			Expect(math.Abs(p.VX)).To(BeNumerically("<", incoming))
		})

		It("clamps to the lower margin on both axes", func() {
			sys.Reset(0, AllPositive, 8)
			sys.Inject(Particle{X: plane.Margin + 2, Y: plane.Margin + 1, VX: -5, VY: -6, Charge: 1})
			stats := sys.Step(physics.Wire{})

			p, _ := sys.Particle(0)
			Expect(stats.Bounces).To(Equal(2))
			Expect(p.X).To(Equal(plane.Margin))
			Expect(p.Y).To(Equal(plane.Margin))
			Expect(p.VX).To(BeNumerically("~", 5*VelocityDamping*Restitution, 1e-12))
			Expect(p.VY).To(BeNumerically("~", 6*VelocityDamping*Restitution, 1e-12))
		})

		It("keeps every particle inside the plane", func() {
			sys.Reset(12, Alternating, 8)
			bar := physics.BarMagnet{Current: 10}
			for i := 0; i < 400; i++ {
				sys.Step(bar)
				for _, p := range sys.Particles() {
					Expect(p.X).To(BeNumerically(">=", plane.Margin))
					Expect(p.X).To(BeNumerically("<=", hi))
					Expect(p.Y).To(BeNumerically(">=", plane.Margin))
					Expect(p.Y).To(BeNumerically("<=", plane.Height-plane.Margin))
				}
			}
		})
	})
})

var _ = Describe("LorentzForce", func() {
	v := dynamo.Vec3{X: 2, Y: 1}

	It("uses only Z for wire and coil", func() {
		b := physics.FieldVector{X: 5, Y: 7, Z: 3}
		f := LorentzForce(1, v, b, physics.KindCoil)
		Expect(f).To(Equal(dynamo.Vec3{X: 3, Y: -6, Z: 0}))
	})

	It("uses the full field for the bar magnet", func() {
		b := physics.FieldVector{X: 5, Y: 7, Z: 3}
		f := LorentzForce(-1, v, b, physics.KindBar)
		Expect(f).To(Equal(dynamo.Vec3{X: -3, Y: 6, Z: -9}))
	})

	It("is perpendicular to the velocity", func() {
		f := LorentzForce(1, v, physics.FieldVector{Z: 0.7}, physics.KindWire)
		Expect(f.Dot(v)).To(BeNumerically("~", 0, 1e-12))
	})
})

var _ = Describe("Trail", func() {
	It("evicts the oldest point first", func() {
		var tr Trail
		for i := 0; i < TrailCapacity+7; i++ {
			tr.Push(float64(i), float64(-i))
		}
		pts := tr.Points()
		Expect(pts).To(HaveLen(TrailCapacity))
		Expect(pts[0]).To(Equal(Point{7, -7}))
		last, ok := tr.Last()
		Expect(ok).To(BeTrue())
		Expect(last).To(Equal(Point{TrailCapacity + 6, -(TrailCapacity + 6)}))

		tr.Reset()
		Expect(tr.Len()).To(BeZero())
		_, ok = tr.Last()
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("ParseChargeMode", func() {
	It("parses names", func() {
		for name, mode := range map[string]ChargeMode{"positive": AllPositive, "NEG": AllNegative, "mixed": Alternating} {
			got, err := ParseChargeMode(name)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(mode))
		}
	})

	It("rejects unknown modes", func() {
		_, err := ParseChargeMode("neutral")
		Expect(errors.Is(err, dynamo.ErrUnknownChargeMode)).To(BeTrue())
	})
})
