// Package testutil provides deterministic synthetic traces and tolerance
// assertions shared by package tests.
package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a sine wave starting at phase 0.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates uniform white noise with a fixed seed.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
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

// Ricker returns a Ricker (Mexican hat) wavelet of peak frequency freqHz
// centred on sample center.
func Ricker(length, center int, freqHz, sampleRate float64) []float64 {
	out := make([]float64, length)
	for i := range out {
		t := float64(i-center) / sampleRate
		a := math.Pi * freqHz * t
		a *= a
		out[i] = (1 - 2*a) * math.Exp(-a)
	}
	return out
}

// Arrival returns low-level noise with a burst of a sine at freqHz starting
// at sample onset and lasting for duration samples. The burst amplitude
// decays exponentially with the given time constant in samples.
func Arrival(seed int64, length, onset, duration int, freqHz, sampleRate, noise, amplitude, decay float64) []float64 {
	out := DeterministicNoise(seed, noise, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := onset; i < onset+duration && i < length; i++ {
		k := float64(i - onset)
		out[i] += amplitude * math.Exp(-k/decay) * math.Sin(step*k)
	}
	return out
}
