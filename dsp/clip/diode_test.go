package clip

import (
	"math"
	"testing"
)

func TestSolveZero(t *testing.T) {
	if got := NewDiodePair().Solve(0); got != 0 {
		t.Fatalf("Solve(0) = %v, want 0", got)
	}
}

func TestSolveFiniteForExtremeInputs(t *testing.T) {
	pair := NewDiodePair()

	inputs := []float64{
		1e-300, 1e-12, 1e-6, 0.01, 1, 5, 1e3, 1e9, 1e300, math.MaxFloat64,
		math.SmallestNonzeroFloat64,
	}

	for _, x := range inputs {
		for _, v := range []float64{x, -x} {
			got := pair.Solve(v)
			if math.IsNaN(got) || math.IsInf(got, 0) {
				t.Fatalf("Solve(%g) = %v, want finite", v, got)
			}
		}
	}
}

func TestSolveMonotonic(t *testing.T) {
	pairs := map[string]DiodePair{
		"default": NewDiodePair(),
		"norton": {
			Is:  DefaultSaturationCurrent,
			NVt: DefaultThermalVoltage,
			G:   DefaultShuntConductance + 1/2200.0,
		},
	}

	for name, pair := range pairs {
		t.Run(name, func(t *testing.T) {
			prev := math.Inf(-1)

			for i := -500; i <= 500; i++ {
				x := float64(i) * 0.01
				if name == "norton" {
					x /= 2200
				}

				got := pair.Solve(x)
				if got < prev {
					t.Fatalf("Solve(%g) = %v < previous %v", x, got, prev)
				}

				prev = got
			}
		})
	}
}

func TestSolveOddSymmetry(t *testing.T) {
	pair := NewDiodePair()

	for _, x := range []float64{1e-9, 1e-4, 0.3, 1, 4.2, 77} {
		pos := pair.Solve(x)
		neg := pair.Solve(-x)

		if neg != -pos {
			t.Fatalf("Solve(-%g) = %v, want %v", x, neg, -pos)
		}
	}
}

func TestSolveSatisfiesNodeEquation(t *testing.T) {
	tests := []struct {
		name string
		pair DiodePair
		in   []float64
	}{
		{
			name: "default",
			pair: NewDiodePair(),
			in:   []float64{1e-10, 1e-8, 1e-6, 1e-3, 0.1, 1, 5, 1e3},
		},
		{
			name: "norton",
			pair: DiodePair{
				Is:  DefaultSaturationCurrent,
				NVt: DefaultThermalVoltage,
				G:   DefaultShuntConductance + 1/2200.0,
			},
			// Currents from 1 mV to 10 V behind 2.2 kOhm, across the knee.
			in: []float64{1e-3 / 2200, 0.1 / 2200, 0.5 / 2200, 1.0 / 2200, 10.0 / 2200},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, x := range tt.in {
				v := tt.pair.Solve(x)

				res := math.Abs(tt.pair.Residual(v, x))
				if tol := 1e-15 + solveRelTol*math.Abs(x); res > tol {
					t.Fatalf("Residual(Solve(%g)) = %g, want <= %g", x, res, tol)
				}
			}
		})
	}
}

func TestSolveSaturates(t *testing.T) {
	pair := NewDiodePair()

	// Ten times the drive adds roughly nVt*ln(10) across the pair.
	a := pair.Solve(1)
	b := pair.Solve(10)

	step := b - a
	want := DefaultThermalVoltage * math.Ln10

	if math.Abs(step-want) > 1e-3 {
		t.Fatalf("decade step = %v, want ~%v", step, want)
	}
}

func BenchmarkDiodePairSolve(b *testing.B) {
	pair := NewDiodePair()
	x := 0.0

	b.ReportAllocs()

	for i := range b.N {
		x += pair.Solve(float64(i%200-100) * 0.05)
	}

	_ = x
}
