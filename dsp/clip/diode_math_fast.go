//go:build fastmath

package clip

import (
	"math"

	"github.com/meko-christian/algo-approx"
)

// mathExp computes e^x using fast approximation.
func mathExp(x float64) float64 {
	return approx.FastExp(x)
}

// mathAsinh computes asinh(x) = ln(x + sqrt(x^2 + 1)) using fast log and
// sqrt approximations. Odd symmetry is applied explicitly.
func mathAsinh(x float64) float64 {
	a := math.Abs(x)
	y := approx.FastLog(a + approx.FastSqrt(a*a+1))

	return math.Copysign(y, x)
}
