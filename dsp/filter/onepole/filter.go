package onepole

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-overdrive/dsp/core"
)

// Filter is a first-order direct form I section. It keeps the previous
// input and output sample.
//
// The feed-forward products are rounded separately, so a section with
// B1 == -B0 (every high-pass and the g = 0 shelf) outputs exactly zero once
// its input has been constant long enough for the feedback term to decay.
type Filter struct {
	Coefficients

	x1, y1       float64
	sampleRate   float64
	maxBlockSize int
}

// New returns a Filter with the given coefficients and cleared state.
func New(c Coefficients) *Filter {
	return &Filter{Coefficients: c}
}

// Prepare binds the filter to a stream contract and clears its state. It must
// be called before processing.
func (f *Filter) Prepare(sampleRate float64, maxBlockSize int) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("onepole sample rate must be > 0 and finite: %f", sampleRate)
	}

	if maxBlockSize <= 0 {
		return fmt.Errorf("onepole max block size must be > 0: %d", maxBlockSize)
	}

	f.sampleRate = sampleRate
	f.maxBlockSize = maxBlockSize
	f.Reset()

	return nil
}

// SetCoefficients replaces the transfer function. State is kept.
func (f *Filter) SetCoefficients(c Coefficients) {
	f.Coefficients = c
}

// SampleRate returns the rate passed to Prepare.
func (f *Filter) SampleRate() float64 { return f.sampleRate }

// MaxBlockSize returns the block size passed to Prepare.
func (f *Filter) MaxBlockSize() int { return f.maxBlockSize }

// State returns the previous output sample.
func (f *Filter) State() float64 { return f.y1 }

// Reset clears both state samples.
func (f *Filter) Reset() {
	f.x1 = 0
	f.y1 = 0
}

// ProcessSample filters one sample.
func (f *Filter) ProcessSample(x float64) float64 {
	y := step(f.B0, f.B1, f.A1, x, f.x1, f.y1)
	f.x1 = x
	f.y1 = y

	return y
}

// step evaluates one output sample. The float64 conversions keep the two
// feed-forward products from being fused into a multiply-add, which would
// break their exact cancellation at DC.
func step(b0, b1, a1, x, x1, y1 float64) float64 {
	return float64(b0*x) + float64(b1*x1) - a1*y1
}

// ProcessInPlace filters buf in place. Zero-alloc.
func (f *Filter) ProcessInPlace(buf []float64) {
	b0, b1, a1 := f.B0, f.B1, f.A1
	x1, y1 := f.x1, f.y1

	i := 0
	n := len(buf)
	for ; i+1 < n; i += 2 {
		x0 := buf[i]
		y0 := step(b0, b1, a1, x0, x1, y1)

		xn := buf[i+1]
		yn := step(b0, b1, a1, xn, x0, y0)

		buf[i] = y0
		buf[i+1] = yn
		x1, y1 = xn, yn
	}

	if i < n {
		x := buf[i]
		y := step(b0, b1, a1, x, x1, y1)
		buf[i] = y
		x1, y1 = x, y
	}

	f.x1 = x1
	f.y1 = core.FlushDenormals(y1)
}
