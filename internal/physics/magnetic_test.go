package physics

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fieldlab/internal/dynamo"
)

var _ = Describe("Magnetic sources", func() {
	plane := DefaultPlane
	cx, cy := plane.Center()

	Describe("Wire", func() {
		w := Wire{Current: 5, Distance: 20}

		It("is purely out of plane", func() {
			b := w.FieldAt(cx+30, cy+40, plane)
			Expect(b.X).To(BeZero())
			Expect(b.Y).To(BeZero())
			Expect(b.Z).To(BeNumerically("~", WireGain*5/50, 1e-12))
		})

		It("falls off with inverse distance", func() {
			near := w.FieldAt(cx+20, cy, plane).Z
			far := w.FieldAt(cx+40, cy, plane).Z
			Expect(near / far).To(BeNumerically("~", 2, 1e-12))
		})

		It("reports the strength at its readout distance", func() {
			Expect(w.StrengthAtDistance()).To(BeNumerically("~", WireGain*5/20, 1e-12))
		})
	})

	Describe("Coil", func() {
		c := Coil{Current: 5, Turns: 10, Radius: 50}

		It("is uniform inside the radius", func() {
			inner := CoilGain * 5 * 10
			Expect(c.FieldAt(cx, cy, plane).Z).To(Equal(inner))
			Expect(c.FieldAt(cx+49, cy, plane).Z).To(Equal(inner))
			Expect(c.FieldAt(cx, cy+50, plane).Z).To(Equal(inner))
		})

		It("decays with inverse square outside", func() {
			inner := CoilGain * 5 * 10
			Expect(c.FieldAt(cx+100, cy, plane).Z).To(BeNumerically("~", inner/4, 1e-12))
			Expect(c.FieldAt(cx+150, cy, plane).Z).To(BeNumerically("~", inner/9, 1e-12))
		})

		It("scales with turns and current", func() {
			double := Coil{Current: 10, Turns: 10, Radius: 50}.FieldAt(cx, cy, plane).Z
			Expect(double).To(Equal(2 * c.FieldAt(cx, cy, plane).Z))
		})

		It("defaults its radius from the plane", func() {
			def := Coil{Current: 1, Turns: 1}
			r := plane.Width / 6
			Expect(def.FieldAt(cx+r-1, cy, plane).Z).To(Equal(CoilGain))
			Expect(def.FieldAt(cx+2*r, cy, plane).Z).To(BeNumerically("~", CoilGain/4, 1e-12))
		})
	})

	Describe("BarMagnet", func() {
		b := BarMagnet{Current: 5}

		It("is symmetric about the horizontal axis", func() {
			above := b.FieldAt(cx+13, cy-37, plane)
			below := b.FieldAt(cx+13, cy+37, plane)
			Expect(below.X).To(BeNumerically("~", above.X, 1e-9))
			Expect(below.Y).To(BeNumerically("~", -above.Y, 1e-9))
			Expect(below.Z).To(BeNumerically("~", above.Z, 1e-9))
		})

		It("points away from north and into south on the axis", func() {
			nx, _, sx, _ := b.Poles(plane)
			right := b.FieldAt(nx+30, cy, plane)
			left := b.FieldAt(sx-30, cy, plane)
			Expect(right.X).To(BeNumerically(">", 0))
			Expect(left.X).To(BeNumerically(">", 0))
			Expect(right.Y).To(BeNumerically("~", 0, 1e-12))
		})

		It("derives Z as a fraction of the planar magnitude", func() {
			f := b.FieldAt(cx+60, cy+90, plane)
			Expect(f.Z).To(BeNumerically("~", BarZFraction*math.Hypot(f.X, f.Y), 1e-12))
		})

		It("decays with inverse cube far from one pole", func() {
			single := BarMagnet{Current: 5, Separation: 2 * plane.Width}
			nx, ny, _, _ := single.Poles(plane)
			near := single.FieldAt(nx, ny+10, plane).PlanarNorm()
			far := single.FieldAt(nx, ny+20, plane).PlanarNorm()
			Expect(near / far).To(BeNumerically("~", 8, 0.1))
		})
	})

	Describe("singularities", func() {
		nx, ny, sx, sy := BarMagnet{Current: 10}.Poles(plane)
		points := [][2]float64{{cx, cy}, {nx, ny}, {sx, sy}, {nx + 1e-9, ny}, {0, 0}, {plane.Width, plane.Height}}

		It("never returns non-finite values", func() {
			for _, kind := range []SourceKind{KindWire, KindCoil, KindBar} {
				for _, p := range points {
					v := FieldAt(p[0], p[1], 10, kind, 20, plane.Width, plane.Height)
					Expect(v.IsFinite()).To(BeTrue(), "kind %s at %v", kind, p)
				}
			}
		})

		It("caps the wire at its floored distance", func() {
			Expect(FieldAt(cx, cy, 10, KindWire, 1, plane.Width, plane.Height).Z).To(Equal(WireGain * 10 / MinDistance))
		})
	})

	Describe("ParseSourceKind", func() {
		DescribeTable("known names",
			func(name string, kind SourceKind) {
				got, err := ParseSourceKind(name)
				Expect(err).NotTo(HaveOccurred())
				Expect(got).To(Equal(kind))
				Expect(got.String()).To(Equal(kindNames[kind]))
			},
			Entry("wire", "wire", KindWire),
			Entry("solenoid", "Solenoid", KindCoil),
			Entry("bar magnet", "bar_magnet", KindBar),
		)

		It("rejects unknown names", func() {
			_, err := ParseSourceKind("toroid")
			Expect(errors.Is(err, dynamo.ErrUnknownField)).To(BeTrue())
		})
	})

	It("samples a lattice of field vectors", func() {
		vs := SampleField(Coil{Current: 1, Turns: 1}, plane, 4, 3)
		Expect(vs).To(HaveLen(12))
		Expect(SampleField(Coil{}, plane, 0, 3)).To(BeNil())
	})
})
