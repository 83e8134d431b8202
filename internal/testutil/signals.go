// Package testutil supplies deterministic synthetic signals and tolerance
// assertions shared by the DSP and spectrum-analysis test suites — a tone
// generator for bin-accuracy checks (spectrum's Goertzel tests), plus the
// assertion helpers every numerically-approximate test in this tree needs.
package testutil

import (
	"math"
	"math/rand"
)

// SineWave generates a deterministic sine wave, reproducible across runs so
// spectral-accuracy assertions get the same bin energy every time.
func SineWave(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// NoiseWave generates white noise with a fixed seed for reproducibility.
func NoiseWave(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Ones returns a slice of length n filled with 1.0.
func Ones(n int) []float64 {
	return DC(1.0, n)
}
