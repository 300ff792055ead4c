// Package dynamics provides the output limiter of the pedal chain.
//
// Limiter is a zero-latency peak limiter with instantaneous attack and an
// exponential release. No output sample exceeds the threshold.
package dynamics
