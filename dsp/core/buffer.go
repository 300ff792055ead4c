package core

import "math"

// EnsureLen returns buf resliced to n when its capacity allows, and a fresh
// slice otherwise. Only Prepare-time code should call it.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}

	if cap(buf) >= n {
		return buf[:n]
	}

	return make([]float64, n)
}

// Peak returns the largest absolute sample value in buf.
func Peak(buf []float64) float64 {
	peak := 0.0

	for _, v := range buf {
		peak = math.Max(peak, math.Abs(v))
	}

	return peak
}

// BoundInPlace clips every sample of buf to [-ceiling, ceiling]. NaN samples
// become 0.
func BoundInPlace(buf []float64, ceiling float64) {
	for i, v := range buf {
		switch {
		case v > ceiling:
			buf[i] = ceiling
		case v < -ceiling:
			buf[i] = -ceiling
		case math.IsNaN(v):
			buf[i] = 0
		}
	}
}
