// Package window generates analysis windows for spectral measurement.
package window

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies a window function.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
)

var errMismatchedLength = errors.New("samples and coefficients must have same length")

// Generate returns the symmetric window of the given length. Unknown types
// and non-positive lengths yield nil.
func Generate(t Type, length int) []float64 {
	if length <= 0 || t < TypeRectangular || t > TypeHann {
		return nil
	}

	out := make([]float64, length)
	for i := range out {
		out[i] = evalWindow(t, samplePosition(i, length))
	}

	return out
}

// Hann returns symmetric Hann window coefficients.
func Hann(size int) ([]float64, error) {
	if size <= 0 {
		return nil, fmt.Errorf("window size must be > 0: %d", size)
	}

	return Generate(TypeHann, size), nil
}

// ApplyCoefficients multiplies samples with coefficients and returns a new slice.
func ApplyCoefficients(samples, coeffs []float64) ([]float64, error) {
	if len(samples) != len(coeffs) {
		return nil, errMismatchedLength
	}

	out := make([]float64, len(samples))
	vecmath.MulBlock(out, samples, coeffs)

	return out, nil
}

func evalWindow(t Type, x float64) float64 {
	if t == TypeHann {
		return 0.5 - 0.5*math.Cos(2*math.Pi*x)
	}

	return 1
}

// samplePosition maps n onto [0, 1] with both end points included.
func samplePosition(n, size int) float64 {
	if size <= 1 {
		return 0
	}

	return float64(n) / float64(size-1)
}
