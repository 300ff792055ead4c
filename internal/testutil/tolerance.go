package testutil

import (
	"math"
	"testing"
)

// RequireSliceNearlyEqual fails t unless got and want have the same length
// and every pair differs by at most eps. eps = 0 demands bit equality.
func RequireSliceNearlyEqual(t testing.TB, got, want []float64, eps float64) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}

	for i := range got {
		if d := math.Abs(got[i] - want[i]); d > eps || (eps == 0 && got[i] != want[i]) {
			t.Fatalf("index %d: got %v, want %v (diff %v > eps %v)", i, got[i], want[i], d, eps)
		}
	}
}

// RequireFinite fails t at the first NaN or Inf sample.
func RequireFinite(t testing.TB, data []float64) {
	t.Helper()

	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("index %d: non-finite value %v", i, v)
		}
	}
}

// RequireBounded fails t at the first sample whose magnitude exceeds limit.
func RequireBounded(t testing.TB, data []float64, limit float64) {
	t.Helper()

	for i, v := range data {
		if math.Abs(v) > limit {
			t.Fatalf("index %d: |%v| exceeds %v", i, v, limit)
		}
	}
}

// MaxStep returns the largest jump |x[n]-x[n-1]|. Clicks show up as steps
// well above those of the steady-state signal.
func MaxStep(x []float64) float64 {
	step := 0.0
	for n := 1; n < len(x); n++ {
		step = math.Max(step, math.Abs(x[n]-x[n-1]))
	}

	return step
}
