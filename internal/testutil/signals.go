package testutil

import (
	"math"
	"math/rand"
)

// Sine generates a float32 sine wave.
func Sine(freqHz, sampleRate, amplitude float64, length int) []float32 {
	out := make([]float32, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = float32(amplitude * math.Sin(step*float64(i)))
	}
	return out
}

// Noise generates white noise with a fixed seed for reproducibility.
func Noise(seed int64, amplitude float64, length int) []float32 {
	out := make([]float32, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = float32((rng.Float64()*2 - 1) * amplitude)
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float32, length int) []float32 {
	out := make([]float32, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Interleave builds an interleaved stereo buffer from two channels.
// The shorter channel determines the frame count.
func Interleave(left, right []float32) []float32 {
	n := min(len(left), len(right))
	out := make([]float32, 2*n)
	for i := range n {
		out[2*i] = left[i]
		out[2*i+1] = right[i]
	}
	return out
}
