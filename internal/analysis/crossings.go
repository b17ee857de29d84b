package analysis

// ZeroCrossings returns the interpolated times at which values crosses
// zero going upward.
func ZeroCrossings(times, values []float64) []float64 {
	n := min(len(times), len(values))
	var out []float64
	for i := 1; i < n; i++ {
		prev, curr := values[i-1], values[i]
		if prev < 0 && curr >= 0 {
			frac := -prev / (curr - prev)
			out = append(out, times[i-1]+frac*(times[i]-times[i-1]))
		}
	}
	return out
}

// CrossingFrequency estimates the fundamental frequency from the mean
// spacing of upward zero crossings. It returns 0 with fewer than two.
func CrossingFrequency(times, values []float64) float64 {
	c := ZeroCrossings(times, values)
	if len(c) < 2 {
		return 0
	}
	period := (c[len(c)-1] - c[0]) / float64(len(c)-1)
	if period <= 0 {
		return 0
	}
	return 1 / period
}
