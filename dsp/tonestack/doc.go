// Package tonestack implements a single-knob passive tone control as two
// first-order shelving paths recombined with the main signal.
//
// Map turns a knob position into a cutoff and boost factor for each path from
// the resistor and capacitor values of the emulated network. Stack runs both
// paths on scratch copies of the signal and sums them back:
//
//	main += bass*(-bassBoost) + treble*trebleBoost
//
// The bass term is subtracted because the passive network cuts highs by
// shunting them, which reads as a relative bass lift.
package tonestack
