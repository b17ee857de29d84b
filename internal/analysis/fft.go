package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

func FFT(data []float64) []complex128 {
	return fft.FFTReal(data)
}

// PowerSpectrum returns the magnitude of bins 0..N/2-1 after removing the
// mean, so a constant offset does not dominate bin 0.
func PowerSpectrum(data []float64) []float64 {
	if len(data) < 2 {
		return nil
	}
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	centered := make([]float64, len(data))
	for i, v := range data {
		centered[i] = v - mean
	}

	spectrum := FFT(centered)
	ps := make([]float64, len(spectrum)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// BinFrequency is the centre frequency of bin k of an n-point transform.
func BinFrequency(k, n int, sampleRate float64) float64 {
	if n == 0 {
		return 0
	}
	return float64(k) * sampleRate / float64(n)
}

// DominantFrequency returns the frequency of the strongest non-DC bin and
// its magnitude.
func DominantFrequency(data []float64, sampleRate float64) (float64, float64) {
	ps := PowerSpectrum(data)
	if len(ps) < 2 {
		return 0, 0
	}
	best := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[best] {
			best = k
		}
	}
	return BinFrequency(best, len(data), sampleRate), ps[best]
}
