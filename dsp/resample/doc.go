// Package resample converts between sample rates with Kaiser-windowed sinc
// polyphase FIR filters.
//
// Oversampler is the real-time path: a fixed integer factor, buffers sized
// once by Prepare, and an Up/Down pair that never allocates. A nonlinear
// stage runs between Up and Down at factor times the native rate.
//
// Resampler is the offline path for arbitrary rational ratios. It keeps
// streaming state between calls but allocates its output.
//
// Both share the quality profiles below:
//
//	mode            taps/phase   nominal stopband
//	QualityFast     16           ~55 dB
//	QualityBalanced 32           ~75 dB
//	QualityBest     64           ~90 dB
package resample
