// Package gain provides linear parameter ramps and a smoothed gain stage.
//
// Ramp moves from its current value to a new target in a fixed number of
// samples, so a control change spread over one block never steps. Stage
// applies a ramped decibel gain to a buffer; per-sample gains are rendered
// into a scratch buffer sized at Prepare and multiplied in with algo-vecmath.
package gain
