// Package onepole provides first-order IIR sections and their designers.
//
// Every section is realised in direct form I, keeping the previous input and
// output sample:
//
//	y[n] = B0*x[n] + B1*x[n-1] - A1*y[n-1]
//
// Two families of designers produce Coefficients:
//
//   - RCHighPass / RCLowPass bilinear-transform the passive resistor/capacitor
//     sections of the clipping-stage circuit model without prewarping, so the
//     corner lands at 1/(2*pi*R*C) as the component values dictate.
//   - HighPass / LowPass / Shelf bilinear-transform the analog first-order
//     prototypes with frequency prewarping, so the -3 dB point (or the shelf
//     corner) lands exactly on the requested cutoff.
//
// Coefficients are replaced wholesale when a governing control changes; the
// state samples carry over so a coefficient swap never resets the signal.
package onepole
