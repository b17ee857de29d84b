package physics

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func symmetricPair(phase2 float64) []WaveSource {
	return []WaveSource{
		{X: 30, Y: 50, Frequency: 1.5, Amplitude: 1, Phase: 0, Active: true},
		{X: 70, Y: 50, Frequency: 1.5, Amplitude: 1, Phase: phase2, Active: true},
	}
}

var _ = Describe("Interference", func() {
	const (
		waveSpeed = 1.0
		damping   = 0.02
	)

	It("returns zero for an empty source set", func() {
		Expect(Interference(nil, 10, 10, 1, waveSpeed, damping)).To(BeZero())
	})

	It("ignores inactive sources", func() {
		sources := symmetricPair(0)
		sources[1].Active = false
		single := SourceContribution(sources[0], 20, 40, 0.3, waveSpeed, damping)
		Expect(Interference(sources, 20, 40, 0.3, waveSpeed, damping)).To(Equal(single))
	})

	It("never divides by a zero frequency or wave speed", func() {
		src := WaveSource{X: 50, Y: 50, Frequency: 0, Amplitude: 1, Active: true}
		Expect(SourceContribution(src, 10, 10, 1, waveSpeed, damping)).To(BeZero())
		src.Frequency = 1
		Expect(SourceContribution(src, 10, 10, 1, 0, damping)).To(BeZero())
	})

	It("matches the damped travelling sine for one source", func() {
		src := WaveSource{X: 0, Y: 0, Frequency: 2, Amplitude: 1.5, Phase: 0.4, Active: true}
		d := 5.0
		t := 0.7
		lambda := waveSpeed / src.Frequency
		expected := 1.5 * math.Exp(-damping*d) * math.Sin(2*math.Pi*2*t-2*math.Pi*d/lambda+0.4)
		Expect(SourceContribution(src, 3, 4, t, waveSpeed, damping)).To(BeNumerically("~", expected, 1e-12))
	})

	It("is linear in each source amplitude", func() {
		sources := symmetricPair(0.3)
		x, y, t := 41.0, 63.0, 0.37
		base := Interference(sources, x, y, t, waveSpeed, damping)
		first := SourceContribution(sources[0], x, y, t, waveSpeed, damping)
		other := SourceContribution(sources[1], x, y, t, waveSpeed, damping)

		for _, k := range []float64{0, 0.5, 2, 3.7} {
			scaled := append([]WaveSource(nil), sources...)
			scaled[0].Amplitude *= k
			got := Interference(scaled, x, y, t, waveSpeed, damping)
			Expect(got).To(BeNumerically("~", k*first+other, 1e-12))
			Expect(SourceContribution(scaled[1], x, y, t, waveSpeed, damping)).To(Equal(other))
		}
		Expect(base).To(BeNumerically("~", first+other, 1e-12))
	})

	Context("two sources equidistant from the midpoint", func() {
		It("doubles a single in-phase contribution", func() {
			sources := symmetricPair(0)
			for _, t := range []float64{0, 0.1, 0.25, 1.3} {
				single := SourceContribution(sources[0], 50, 50, t, waveSpeed, damping)
				total := Interference(sources, 50, 50, t, waveSpeed, damping)
				Expect(total).To(BeNumerically("~", 2*single, 1e-12))
			}
		})

		It("yields the damped amplitude at distance 20 at t=0", func() {
			sources := symmetricPair(0)
			single := math.Exp(-damping*20) * math.Sin(-2*math.Pi*20/(waveSpeed/1.5))
			Expect(Interference(sources, 50, 50, 0, waveSpeed, damping)).To(BeNumerically("~", 2*single, 1e-12))
		})

		It("cancels exactly with a phase offset of pi", func() {
			sources := symmetricPair(math.Pi)
			for t := 0.0; t < 3; t += 0.037 {
				Expect(Interference(sources, 50, 50, t, waveSpeed, damping)).To(BeNumerically("~", 0, 1e-12))
			}
		})
	})
})

var _ = Describe("Classify", func() {
	DescribeTable("buckets by ratio to the maximum",
		func(amplitude, max float64, expected InterferenceKind) {
			Expect(Classify(amplitude, max)).To(Equal(expected))
		},
		Entry("full constructive", 2.0, 2.0, Constructive),
		Entry("negative peak is constructive", -1.9, 2.0, Constructive),
		Entry("exactly 0.8 is partial", 1.6, 2.0, Partial),
		Entry("middle", 1.0, 2.0, Partial),
		Entry("exactly 0.2 is partial", 0.4, 2.0, Partial),
		Entry("near zero", 0.1, 2.0, Destructive),
		Entry("nothing active", 0.0, 0.0, Destructive),
	)

	It("sums only active amplitudes", func() {
		sources := symmetricPair(0)
		sources[1].Amplitude = 0.5
		Expect(MaxAmplitude(sources)).To(Equal(1.5))
		sources[0].Active = false
		Expect(MaxAmplitude(sources)).To(Equal(0.5))
	})

	It("classifies the symmetric midpoint cases", func() {
		params := WaveParams{Sources: symmetricPair(math.Pi), WaveSpeed: 1, Damping: 0}
		_, kind := ClassifyAt(params, 50, 50, 0.2)
		Expect(kind).To(Equal(Destructive))
		Expect(kind.String()).To(Equal("destructive"))
	})
})

var _ = Describe("SampleGrid", func() {
	params := WaveParams{Sources: symmetricPair(0), WaveSpeed: 1, Damping: 0.02}

	It("samples every cell centre with the exact model", func() {
		g := SampleGrid(params, 0.4, 20, 10, SampleOptions{})
		Expect(g.Values).To(HaveLen(200))
		for row := 0; row < g.Rows; row++ {
			for col := 0; col < g.Cols; col++ {
				x, y := g.CellCenter(col, row)
				Expect(g.At(col, row)).To(Equal(params.At(x, y, 0.4)))
				Expect(math.Abs(g.At(col, row))).To(BeNumerically("<=", g.Peak))
			}
		}
	})

	It("is deterministic when sampled in parallel", func() {
		a := SampleGrid(params, 1.1, 64, 64, SampleOptions{})
		b := SampleGrid(params, 1.1, 64, 64, SampleOptions{})
		Expect(a.Values).To(Equal(b.Values))
	})

	It("stays close to the exact grid in fast mode", func() {
		exact := SampleGrid(params, 0.9, 32, 32, SampleOptions{})
		fast := SampleGrid(params, 0.9, 32, 32, SampleOptions{Fast: true})
		for i := range exact.Values {
			Expect(fast.Values[i]).To(BeNumerically("~", exact.Values[i], 1e-4))
		}
	})

	It("reuses the buffer when filling in place", func() {
		g := NewGrid(8, 8)
		buf := &g.Values[0]
		SampleGridInto(g, params, 0.2, SampleOptions{})
		Expect(&g.Values[0]).To(BeIdenticalTo(buf))
		Expect(g.At(-1, 0)).To(BeZero())
	})
})
