package audio

import (
	"math"
)

const (
	SampleRate = 44100

	// base pitch of the voice at zero displacement (G2)
	BaseFreq = 98.0

	delaySeconds  = 0.25
	delayFeedback = 0.35
	volume        = 0.5
)

// Voice controls how displacement maps to sound.
type Voice struct {
	Base    float64 // pitch at zero displacement in Hz
	Octaves float64 // pitch swing at full displacement
	Scale   float64 // displacement treated as full scale; <= 0 uses the peak
}

func DefaultVoice() Voice {
	return Voice{Base: BaseFreq, Octaves: 1}
}

func triangle(phase float64) float64 {
	p := phase - math.Floor(phase)
	return 4.0*math.Abs(p-0.5) - 1.0
}

// one pole low pass
func lpf(sample, cutoff, dt, state float64) float64 {
	rc := 1.0 / (2.0 * math.Pi * cutoff)
	alpha := dt / (rc + dt)
	return state + alpha*(sample-state)
}

func peak(values []float64) float64 {
	m := 0.0
	for _, v := range values {
		if a := math.Abs(v); a > m {
			m = a
		}
	}
	return m
}

// at interpolates the probe series at fractional index x.
func at(values []float64, x float64) float64 {
	i := int(x)
	if i >= len(values)-1 {
		return values[len(values)-1]
	}
	f := x - float64(i)
	return values[i]*(1-f) + values[i+1]*f
}

// Sonify renders probe samples recorded at probeRate Hz into audio at
// SampleRate, preserving the recording's duration.
func (v Voice) Sonify(probe []float64, probeRate float64) []float32 {
	if len(probe) == 0 || probeRate <= 0 {
		return nil
	}

	scale := v.Scale
	if scale <= 0 {
		scale = peak(probe)
	}
	if scale < 1e-9 {
		scale = 1
	}
	base := v.Base
	if base <= 0 {
		base = BaseFreq
	}

	n := int(math.Round(float64(len(probe)) / probeRate * SampleRate))
	out := make([]float32, n)
	dt := 1.0 / SampleRate
	step := probeRate / SampleRate

	delay := make([]float64, int(delaySeconds*SampleRate))
	head := 0
	phase, state := 0.0, 0.0

	for i := range out {
		d := at(probe, float64(i)*step) / scale
		d = math.Max(-1, math.Min(1, d))

		freq := base * math.Pow(2, d*v.Octaves)
		phase += freq * dt

		cutoff := 300.0 + 900.0*math.Abs(d)
		state = lpf(triangle(phase)*(0.4+0.6*math.Abs(d)), cutoff, dt, state)

		mix := state + delay[head]*delayFeedback
		delay[head] = mix * 0.7
		head = (head + 1) % len(delay)

		s := mix * volume
		out[i] = float32(math.Max(-1, math.Min(1, s)))
	}
	return out
}
