package dynamics

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-overdrive/dsp/core"
)

const (
	defaultLimiterThresholdDB = -0.3
	defaultLimiterReleaseMs   = 50.0

	minLimiterThresholdDB = -24.0
	maxLimiterThresholdDB = 0.0
	minLimiterReleaseMs   = 1.0
	maxLimiterReleaseMs   = 5000.0
)

// LimiterOption mutates construction-time parameters.
type LimiterOption func(*limiterConfig) error

type limiterConfig struct {
	thresholdDB float64
	releaseMs   float64
}

// WithThreshold sets the ceiling in dBFS, in [-24, 0].
func WithThreshold(dB float64) LimiterOption {
	return func(cfg *limiterConfig) error {
		if err := validateThreshold(dB); err != nil {
			return err
		}

		cfg.thresholdDB = dB

		return nil
	}
}

// WithRelease sets the release time in milliseconds, in [1, 5000].
func WithRelease(ms float64) LimiterOption {
	return func(cfg *limiterConfig) error {
		if err := validateRelease(ms); err != nil {
			return err
		}

		cfg.releaseMs = ms

		return nil
	}
}

// Limiter is a peak limiter. The gain drops to threshold/|x| at once when a
// sample would exceed the ceiling and recovers toward unity with the release
// time constant.
type Limiter struct {
	sampleRate  float64
	thresholdDB float64
	releaseMs   float64

	ceiling     float64
	releaseCoef float64
	gain        float64
}

// NewLimiter creates a limiter at -0.3 dBFS with 50 ms release.
func NewLimiter(sampleRate float64, opts ...LimiterOption) (*Limiter, error) {
	if err := validateSampleRate(sampleRate); err != nil {
		return nil, err
	}

	cfg := limiterConfig{
		thresholdDB: defaultLimiterThresholdDB,
		releaseMs:   defaultLimiterReleaseMs,
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	l := &Limiter{
		sampleRate:  sampleRate,
		thresholdDB: cfg.thresholdDB,
		releaseMs:   cfg.releaseMs,
		gain:        1,
	}
	l.updateCoefficients()

	return l, nil
}

// SetThreshold sets the ceiling in dBFS.
func (l *Limiter) SetThreshold(dB float64) error {
	if err := validateThreshold(dB); err != nil {
		return err
	}

	l.thresholdDB = dB
	l.updateCoefficients()

	return nil
}

// SetRelease sets the release time in milliseconds.
func (l *Limiter) SetRelease(ms float64) error {
	if err := validateRelease(ms); err != nil {
		return err
	}

	l.releaseMs = ms
	l.updateCoefficients()

	return nil
}

// SetSampleRate updates the sample rate. Gain state is kept.
func (l *Limiter) SetSampleRate(sampleRate float64) error {
	if err := validateSampleRate(sampleRate); err != nil {
		return err
	}

	l.sampleRate = sampleRate
	l.updateCoefficients()

	return nil
}

// Threshold returns the ceiling in dBFS.
func (l *Limiter) Threshold() float64 { return l.thresholdDB }

// Release returns the release time in milliseconds.
func (l *Limiter) Release() float64 { return l.releaseMs }

// SampleRate returns the sample rate in Hz.
func (l *Limiter) SampleRate() float64 { return l.sampleRate }

// Ceiling returns the threshold as a linear amplitude.
func (l *Limiter) Ceiling() float64 { return l.ceiling }

// GainReductionDB returns the current gain reduction as a non-negative dB
// value.
func (l *Limiter) GainReductionDB() float64 {
	return -core.LinearToDB(l.gain)
}

// Reset returns the gain to unity.
func (l *Limiter) Reset() {
	l.gain = 1
}

// ProcessSample limits one sample. NaN input yields 0.
func (l *Limiter) ProcessSample(x float64) float64 {
	g := 1 - (1-l.gain)*l.releaseCoef

	a := math.Abs(x)
	if a*g > l.ceiling {
		g = l.ceiling / a
	}

	l.gain = g

	y := x * g

	switch {
	case y > l.ceiling:
		return l.ceiling
	case y < -l.ceiling:
		return -l.ceiling
	case math.IsNaN(y):
		return 0
	}

	return y
}

// ProcessInPlace limits buf in place.
func (l *Limiter) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = l.ProcessSample(buf[i])
	}
}

func (l *Limiter) updateCoefficients() {
	l.ceiling = core.DBToLinear(l.thresholdDB)
	l.releaseCoef = math.Exp(-1000 / (l.releaseMs * l.sampleRate))
}

func validateSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return fmt.Errorf("limiter sample rate must be > 0 and finite: %f", sampleRate)
	}

	return nil
}

func validateThreshold(dB float64) error {
	if dB < minLimiterThresholdDB || dB > maxLimiterThresholdDB || !core.IsFinite(dB) {
		return fmt.Errorf("limiter threshold must be in [%f, %f]: %f",
			minLimiterThresholdDB, maxLimiterThresholdDB, dB)
	}

	return nil
}

func validateRelease(ms float64) error {
	if ms < minLimiterReleaseMs || ms > maxLimiterReleaseMs || !core.IsFinite(ms) {
		return fmt.Errorf("limiter release must be in [%f, %f]: %f",
			minLimiterReleaseMs, maxLimiterReleaseMs, ms)
	}

	return nil
}
