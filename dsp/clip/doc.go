// Package clip models the clipping element of an overdrive circuit.
//
// DiodePair solves the node equation of two antiparallel silicon diodes with a
// small parallel conductance,
//
//	V*G + Is*(exp(V/nVt) - 1) - Is*(exp(-V/nVt) - 1) - vIn = 0,
//
// with a fixed number of Newton-Raphson iterations per sample, so the cost per
// call is constant. Each iterate is kept inside the bracket that the root is
// known to lie in, which keeps every call finite without a convergence check.
//
// Clipper wraps the solver (or one of two closed-form curves) as a block
// processor. OpAmpStage chains RC input filtering, a fixed op-amp gain, the
// diode pair and an RC output filter into a self-contained clipping circuit.
// ModeOpAmp puts that circuit behind the Clipper interface.
//
// Building with the fastmath tag swaps the exponentials for the algo-approx
// approximations.
package clip
