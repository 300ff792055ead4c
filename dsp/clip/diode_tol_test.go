//go:build !fastmath

package clip

// solveRelTol bounds |Residual(Solve(x), x)| relative to |x|.
const solveRelTol = 1e-9
