//go:build fastmath

package clip

// solveRelTol bounds |Residual(Solve(x), x)| relative to |x|. The
// approximated exponential settles the fixed Newton steps near 2e-6.
const solveRelTol = 1e-5
