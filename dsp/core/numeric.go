package core

import "math"

// denormalFloor is the magnitude below which recursive state is flushed to
// zero.
const denormalFloor = 1e-30

// Clamp returns value limited to [lo, hi]. Bounds given in the wrong order
// are swapped. NaN passes through.
func Clamp(value, lo, hi float64) float64 {
	if lo > hi {
		lo, hi = hi, lo
	}

	switch {
	case value < lo:
		return lo
	case value > hi:
		return hi
	default:
		return value
	}
}

// IsFinite reports whether x is neither NaN nor ±Inf.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// FlushDenormals returns 0 for |x| below 1e-30 and x otherwise. Filters call
// it on their state once per block so decaying tails reach exact silence.
func FlushDenormals(x float64) float64 {
	if math.Abs(x) < denormalFloor {
		return 0
	}

	return x
}

// Smoothstep evaluates 3t^2 - 2t^3 with t clamped to [0, 1].
func Smoothstep(t float64) float64 {
	t = Clamp(t, 0, 1)
	return t * t * (3 - 2*t)
}

// DBToLinear converts an amplitude level in dB to a linear factor.
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// LinearToDB converts a linear amplitude factor to dB. Zero maps to -Inf and
// negative input to NaN.
func LinearToDB(linear float64) float64 {
	return levelToDB(linear, 20)
}

// PowerToDB converts a power ratio to dB. Zero maps to -Inf and negative
// input to NaN.
func PowerToDB(power float64) float64 {
	return levelToDB(power, 10)
}

func levelToDB(v, scale float64) float64 {
	switch {
	case v < 0 || math.IsNaN(v):
		return math.NaN()
	case v == 0:
		return math.Inf(-1)
	default:
		return scale * math.Log10(v)
	}
}
