//go:build !fastmath

package clip

import "math"

func mathExp(x float64) float64 {
	return math.Exp(x)
}

func mathAsinh(x float64) float64 {
	return math.Asinh(x)
}
