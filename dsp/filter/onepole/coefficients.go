package onepole

import (
	"math"
	"math/cmplx"
)

// maxCutoffRatio keeps designed corners safely below Nyquist.
const maxCutoffRatio = 0.49

// Coefficients holds a first-order transfer function with a0 normalized to 1:
//
//	H(z) = (B0 + B1*z^-1) / (1 + A1*z^-1)
type Coefficients struct {
	B0, B1 float64
	A1     float64
}

// Identity returns a pass-through section.
func Identity() Coefficients {
	return Coefficients{B0: 1}
}

// RCHighPass returns the bilinear transform of the passive RC high-pass
//
//	H(s) = sRC / (1 + sRC)
//
// without prewarping, so the section tracks the component values. The corner
// sits at 1/(2*pi*R*C).
func RCHighPass(r, c, sampleRate float64) Coefficients {
	if !validRC(r, c, sampleRate) {
		return Identity()
	}

	k := 2 * sampleRate * r * c
	norm := 1 / (1 + k)

	return Coefficients{B0: k * norm, B1: -k * norm, A1: (1 - k) * norm}
}

// RCLowPass returns the bilinear transform of the passive RC low-pass
//
//	H(s) = 1 / (1 + sRC)
//
// without prewarping. The -3 dB corner sits at 1/(2*pi*R*C).
func RCLowPass(r, c, sampleRate float64) Coefficients {
	if !validRC(r, c, sampleRate) {
		return Identity()
	}

	k := 2 * sampleRate * r * c
	norm := 1 / (1 + k)

	return Coefficients{B0: norm, B1: norm, A1: (1 - k) * norm}
}

// HighPass designs a prewarped bilinear first-order high-pass at freq Hz.
func HighPass(freq, sampleRate float64) Coefficients {
	k, ok := prewarp(freq, sampleRate)
	if !ok {
		return Identity()
	}

	norm := 1 / (1 + k)

	return Coefficients{B0: norm, B1: -norm, A1: (k - 1) * norm}
}

// LowPass designs a prewarped bilinear first-order low-pass at freq Hz.
func LowPass(freq, sampleRate float64) Coefficients {
	k, ok := prewarp(freq, sampleRate)
	if !ok {
		return Identity()
	}

	norm := 1 / (1 + k)

	return Coefficients{B0: k * norm, B1: k * norm, A1: (k - 1) * norm}
}

// Shelf designs the first-order shelving prototype
//
//	H(s) = (s + g*wc) / (s + wc)
//
// with linear gain g below the corner and unity gain above it. g = 0 yields a
// plain first-order high-pass, g = 1 an identity section. Negative or
// non-finite gains are treated as 0.
func Shelf(freq, gain, sampleRate float64) Coefficients {
	k, ok := prewarp(freq, sampleRate)
	if !ok {
		return Identity()
	}

	if gain < 0 || math.IsNaN(gain) || math.IsInf(gain, 0) {
		gain = 0
	}

	norm := 1 / (1 + k)
	gk := gain * k

	return Coefficients{B0: (1 + gk) * norm, B1: (gk - 1) * norm, A1: (k - 1) * norm}
}

// Magnitude evaluates |H(e^jw)| of c at freq Hz.
func Magnitude(c Coefficients, freq, sampleRate float64) float64 {
	if sampleRate <= 0 {
		return 0
	}

	w := 2 * math.Pi * freq / sampleRate
	zInv := cmplx.Exp(complex(0, -w))
	num := complex(c.B0, 0) + complex(c.B1, 0)*zInv
	den := 1 + complex(c.A1, 0)*zInv

	return cmplx.Abs(num / den)
}

// Stable reports whether the single pole lies strictly inside the unit circle.
func (c Coefficients) Stable() bool {
	return math.Abs(c.A1) < 1
}

func prewarp(freq, sampleRate float64) (float64, bool) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return 0, false
	}

	if freq <= 0 || math.IsNaN(freq) || math.IsInf(freq, 0) {
		return 0, false
	}

	freq = math.Min(freq, maxCutoffRatio*sampleRate)

	return math.Tan(math.Pi * freq / sampleRate), true
}

func validRC(r, c, sampleRate float64) bool {
	for _, v := range [...]float64{r, c, sampleRate} {
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}

	return true
}
