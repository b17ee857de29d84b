// Package analysis inspects recorded runs.
//
//   - [PowerSpectrum], [DominantFrequency]: spectrum of a probe series
//   - [ZeroCrossings], [CrossingFrequency]: period estimate from sign changes
//   - [TrajectoryDivergence]: growth rate of the gap between two nearby
//     particles in the same field
//   - [TrajectoryToASCII]: particle paths as a character plot
//
// A probe series sampled at rate fs resolves frequencies up to fs/2 with
// bins fs/N wide:
//
//	freq, _ := analysis.DominantFrequency(probe, meta.SampleRate())
package analysis
