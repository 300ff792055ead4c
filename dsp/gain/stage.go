package gain

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-overdrive/dsp/core"
	"github.com/cwbudde/algo-vecmath"
)

const (
	defaultRampSeconds = 0.001
	maxRampSeconds     = 10.0
)

// StageOption mutates construction-time parameters.
type StageOption func(*stageConfig) error

type stageConfig struct {
	rampSeconds float64
}

// WithRampTime sets how long a gain change takes, in seconds. 0 applies
// changes immediately.
func WithRampTime(seconds float64) StageOption {
	return func(cfg *stageConfig) error {
		if seconds < 0 || seconds > maxRampSeconds || math.IsNaN(seconds) {
			return fmt.Errorf("gain ramp time must be in [0, %g]: %f", maxRampSeconds, seconds)
		}

		cfg.rampSeconds = seconds

		return nil
	}
}

// Stage multiplies a signal by a smoothed linear gain set in decibels.
type Stage struct {
	rampSeconds  float64
	sampleRate   float64
	maxBlockSize int

	gainDB float64
	ramp   Ramp
	gains  []float64
}

// NewStage creates an unprepared gain stage at 0 dB.
func NewStage(opts ...StageOption) (*Stage, error) {
	cfg := stageConfig{rampSeconds: defaultRampSeconds}

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	s := &Stage{rampSeconds: cfg.rampSeconds}
	s.ramp.SetCurrentAndTarget(1)

	return s, nil
}

// Prepare sizes the scratch buffer, sets the ramp length and snaps the gain
// to its current target.
func (s *Stage) Prepare(sampleRate float64, maxBlockSize int) error {
	cfg := core.ProcessorConfig{SampleRate: sampleRate, MaxBlockSize: maxBlockSize}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("gain stage: %w", err)
	}

	s.sampleRate = sampleRate
	s.maxBlockSize = maxBlockSize
	s.gains = core.EnsureLen(s.gains, maxBlockSize)
	s.ramp.Reset(sampleRate, s.rampSeconds)

	return nil
}

// SetGainDB sets the target gain. Non-finite values are ignored.
func (s *Stage) SetGainDB(db float64) {
	if math.IsNaN(db) || math.IsInf(db, 0) {
		return
	}

	s.gainDB = db
	s.ramp.SetTarget(core.DBToLinear(db))
}

// GainDB returns the target gain in decibels.
func (s *Stage) GainDB() float64 { return s.gainDB }

// Gain returns the current linear gain.
func (s *Stage) Gain() float64 { return s.ramp.Current() }

// IsSmoothing reports whether a gain change is still in progress.
func (s *Stage) IsSmoothing() bool { return s.ramp.IsSmoothing() }

// RampTime returns the ramp length in seconds.
func (s *Stage) RampTime() float64 { return s.rampSeconds }

// SampleRate returns the rate passed to Prepare.
func (s *Stage) SampleRate() float64 { return s.sampleRate }

// ProcessInPlace applies the gain to buf. len(buf) must not exceed the block
// size passed to Prepare.
func (s *Stage) ProcessInPlace(buf []float64) {
	if len(buf) > len(s.gains) {
		panic(fmt.Sprintf("gain stage: block of %d exceeds prepared size %d", len(buf), len(s.gains)))
	}

	if !s.ramp.IsSmoothing() {
		g := s.ramp.Target()
		if g == 1 {
			return
		}

		for i := range buf {
			buf[i] *= g
		}

		return
	}

	gains := s.gains[:len(buf)]
	s.ramp.Fill(gains)
	vecmath.MulBlockInPlace(buf, gains)
}
