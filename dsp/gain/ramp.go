package gain

import "math"

// Ramp is a linear value smoother. The zero value holds 0 and jumps straight
// to new targets until Reset sets a ramp length.
type Ramp struct {
	current float64
	target  float64
	step    float64

	length    int
	remaining int
}

// Reset sets the ramp length to seconds at sampleRate and snaps the current
// value to the target.
func (r *Ramp) Reset(sampleRate, seconds float64) {
	r.length = 0
	if sampleRate > 0 && seconds > 0 && !math.IsInf(sampleRate*seconds, 0) {
		r.length = int(math.Floor(sampleRate * seconds))
	}

	r.current = r.target
	r.remaining = 0
}

// Length returns the ramp length in samples.
func (r *Ramp) Length() int { return r.length }

// SetCurrentAndTarget jumps to v without ramping.
func (r *Ramp) SetCurrentAndTarget(v float64) {
	r.current = v
	r.target = v
	r.remaining = 0
}

// SetTarget starts a ramp from the current value to v. Setting the same
// target again does not restart the ramp.
func (r *Ramp) SetTarget(v float64) {
	if v == r.target {
		return
	}

	if r.length <= 0 {
		r.SetCurrentAndTarget(v)
		return
	}

	r.target = v
	r.remaining = r.length
	r.step = (r.target - r.current) / float64(r.length)
}

// Current returns the most recently produced value.
func (r *Ramp) Current() float64 { return r.current }

// Target returns the value the ramp is heading to.
func (r *Ramp) Target() float64 { return r.target }

// IsSmoothing reports whether the ramp has not reached its target yet.
func (r *Ramp) IsSmoothing() bool { return r.remaining > 0 }

// Next advances one sample and returns the new value.
func (r *Ramp) Next() float64 {
	if r.remaining == 0 {
		return r.target
	}

	r.remaining--
	if r.remaining == 0 {
		r.current = r.target
	} else {
		r.current += r.step
	}

	return r.current
}

// Fill writes the next len(dst) values to dst.
func (r *Ramp) Fill(dst []float64) {
	if r.remaining == 0 {
		for i := range dst {
			dst[i] = r.target
		}

		return
	}

	for i := range dst {
		dst[i] = r.Next()
	}
}
