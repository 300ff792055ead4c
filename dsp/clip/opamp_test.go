package clip

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-overdrive/internal/testutil"
)

func TestNewOpAmpStageValidation(t *testing.T) {
	for _, sr := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, err := NewOpAmpStage(sr); err == nil {
			t.Fatalf("expected error for sample rate %v", sr)
		}
	}
}

func TestOpAmpGain(t *testing.T) {
	if math.Abs(OpAmpGain-11.851063829787234) > 1e-12 {
		t.Fatalf("OpAmpGain = %v", OpAmpGain)
	}
}

func TestOpAmpStageBlocksDC(t *testing.T) {
	s, err := NewOpAmpStage(48000)
	if err != nil {
		t.Fatal(err)
	}

	buf := testutil.DC(1, 48000)
	s.ProcessInPlace(buf)

	testutil.RequireFinite(t, buf)

	if tail := math.Abs(buf[len(buf)-1]); tail > 1e-6 {
		t.Fatalf("DC leaks through: %g", tail)
	}
}

func TestOpAmpStageClipsLoudSine(t *testing.T) {
	s, err := NewOpAmpStage(96000)
	if err != nil {
		t.Fatal(err)
	}

	buf := testutil.DeterministicSine(1000, 96000, 1, 9600)
	s.ProcessInPlace(buf)

	testutil.RequireFinite(t, buf)
	testutil.RequireBounded(t, buf, 1.2)

	// The op-amp gain alone would reach ~11.85.
	tail := buf[4800:]
	if peak := peakAbs(tail); peak < 0.05 {
		t.Fatalf("output too quiet: %g", peak)
	}
}

func TestOpAmpStageResetClearsState(t *testing.T) {
	s, err := NewOpAmpStage(48000)
	if err != nil {
		t.Fatal(err)
	}

	in := testutil.DeterministicNoise(3, 0.5, 256)

	first := append([]float64(nil), in...)
	s.ProcessInPlace(first)

	s.Reset()

	second := append([]float64(nil), in...)
	s.ProcessInPlace(second)

	testutil.RequireSliceNearlyEqual(t, second, first, 0)

	if s.SampleRate() != 48000 {
		t.Fatalf("SampleRate() = %v", s.SampleRate())
	}
}

func peakAbs(x []float64) float64 {
	peak := 0.0
	for _, v := range x {
		peak = math.Max(peak, math.Abs(v))
	}

	return peak
}
