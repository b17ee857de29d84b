// Package audio renders a probe recording as sound.
//
// The probe displacement drives the pitch and brightness of a filtered
// triangle voice with a short feedback delay. The result can be written
// as a 16-bit mono WAV file.
package audio
