// Package harmonics measures the harmonic content of a processed test tone.
//
// Analyze windows the signal, takes one FFT and splits the spectrum into the
// fundamental, its harmonics below Nyquist, and everything else. For a
// nonlinear stage fed a pure tone, "everything else" is dominated by
// harmonics that folded back below Nyquist, so AliasRatioDB tracks how well
// oversampling suppresses aliasing.
package harmonics
