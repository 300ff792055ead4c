// Package testutil holds signal generators and assertions shared by the
// package tests.
package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine returns length samples of amplitude*sin(2*pi*f*n/fs),
// starting at phase zero.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	w := 2 * math.Pi * freqHz / sampleRate

	for n := range out {
		out[n] = amplitude * math.Sin(w*float64(n))
	}

	return out
}

// SineDBFS is DeterministicSine with the peak given in dBFS.
func SineDBFS(freqHz, sampleRate, levelDB float64, length int) []float64 {
	return DeterministicSine(freqHz, sampleRate, math.Pow(10, levelDB/20), length)
}

// DeterministicNoise returns uniform white noise in [-amplitude, amplitude)
// drawn from a generator seeded with seed.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, length)

	for n := range out {
		out[n] = amplitude * (2*rng.Float64() - 1)
	}

	return out
}

// DC returns length copies of value.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for n := range out {
		out[n] = value
	}

	return out
}

// Blocks cuts signal into consecutive views of at most size samples, the
// way a host hands audio to Process. The views alias signal.
func Blocks(signal []float64, size int) [][]float64 {
	if size <= 0 {
		return nil
	}

	blocks := make([][]float64, 0, (len(signal)+size-1)/size)
	for len(signal) > 0 {
		n := min(size, len(signal))
		blocks = append(blocks, signal[:n])
		signal = signal[n:]
	}

	return blocks
}
