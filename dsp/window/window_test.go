package window

import (
	"math"
	"testing"
)

func TestGenerateHannGolden(t *testing.T) {
	want := []float64{
		0.0, 0.1882550990706332, 0.6112604669781572, 0.9504844339512095,
		0.9504844339512095, 0.6112604669781573, 0.1882550990706333, 0.0,
	}

	got := Generate(TypeHann, 8)
	if len(got) != len(want) {
		t.Fatalf("len=%d, want %d", len(got), len(want))
	}

	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-10 {
			t.Fatalf("w[%d]=%v, want %v", i, got[i], want[i])
		}
	}
}

func TestGenerateEdgeCases(t *testing.T) {
	tests := []struct {
		name   string
		typ    Type
		length int
		want   []float64
	}{
		{name: "zero length", typ: TypeHann, length: 0, want: nil},
		{name: "unknown type", typ: Type(9), length: 4, want: nil},
		{name: "single sample", typ: TypeHann, length: 1, want: []float64{0}},
		{name: "rectangular", typ: TypeRectangular, length: 3, want: []float64{1, 1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Generate(tt.typ, tt.length)
			if len(got) != len(tt.want) {
				t.Fatalf("Generate() = %v, want %v", got, tt.want)
			}

			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("Generate() = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestHannValidation(t *testing.T) {
	if _, err := Hann(0); err == nil {
		t.Fatal("expected size validation error")
	}

	w, err := Hann(5)
	if err != nil {
		t.Fatal(err)
	}

	if w[2] != 1 {
		t.Fatalf("centre coefficient = %v, want 1", w[2])
	}
}

func TestApplyCoefficients(t *testing.T) {
	out, err := ApplyCoefficients([]float64{1, 2, 3}, []float64{0.5, 0.5, 0.5})
	if err != nil {
		t.Fatal(err)
	}

	if math.Abs(out[2]-1.5) > 1e-12 {
		t.Fatalf("out[2]=%v", out[2])
	}

	if _, err := ApplyCoefficients([]float64{1, 2}, []float64{1}); err == nil {
		t.Fatal("expected length mismatch error")
	}
}
