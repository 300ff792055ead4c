package tonestack

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-overdrive/dsp/core"
	"github.com/cwbudde/algo-overdrive/dsp/filter/onepole"
	"github.com/cwbudde/algo-overdrive/dsp/gain"
	"github.com/cwbudde/algo-vecmath"
)

const (
	defaultTone        = 0.9
	defaultRampSeconds = 0.001
)

// Stack is the two-path tone stack. Call Prepare before processing.
type Stack struct {
	sampleRate   float64
	maxBlockSize int
	rampSeconds  float64

	tone         float64
	bass, treble Shelf

	bassFilter   onepole.Filter
	trebleFilter onepole.Filter

	// bassGain holds -BoostFactor of the bass path.
	bassGain   gain.Ramp
	trebleGain gain.Ramp

	bassBuf   []float64
	trebleBuf []float64
	gainBuf   []float64
}

// NewStack returns an unprepared stack at tone 0.9 (knob center through
// Taper) with a 1 ms boost ramp.
func NewStack() *Stack {
	return &Stack{tone: defaultTone, rampSeconds: defaultRampSeconds}
}

// SetRampTime sets the boost factor ramp length in seconds. It takes effect
// at the next Prepare.
func (s *Stack) SetRampTime(seconds float64) error {
	if seconds < 0 || seconds > 1 || math.IsNaN(seconds) {
		return fmt.Errorf("tonestack ramp time must be in [0, 1]: %f", seconds)
	}

	s.rampSeconds = seconds

	return nil
}

// Prepare sizes the scratch buffers, designs both shelves for the current
// tone at sampleRate and clears all state.
func (s *Stack) Prepare(sampleRate float64, maxBlockSize int) error {
	cfg := core.ProcessorConfig{SampleRate: sampleRate, MaxBlockSize: maxBlockSize}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("tonestack: %w", err)
	}

	s.sampleRate = sampleRate
	s.maxBlockSize = maxBlockSize

	s.bassBuf = core.EnsureLen(s.bassBuf, maxBlockSize)
	s.trebleBuf = core.EnsureLen(s.trebleBuf, maxBlockSize)
	s.gainBuf = core.EnsureLen(s.gainBuf, maxBlockSize)

	if err := s.bassFilter.Prepare(sampleRate, maxBlockSize); err != nil {
		return err
	}

	if err := s.trebleFilter.Prepare(sampleRate, maxBlockSize); err != nil {
		return err
	}

	s.bassGain.Reset(sampleRate, s.rampSeconds)
	s.trebleGain.Reset(sampleRate, s.rampSeconds)

	s.apply(s.tone)
	s.bassGain.SetCurrentAndTarget(-s.bass.BoostFactor)
	s.trebleGain.SetCurrentAndTarget(s.treble.BoostFactor)

	return nil
}

// SetTone maps tone to both paths. Filter coefficients are replaced at once;
// the boost factors ramp to their new values. Filter state is kept.
func (s *Stack) SetTone(tone float64) {
	s.apply(tone)
	s.bassGain.SetTarget(-s.bass.BoostFactor)
	s.trebleGain.SetTarget(s.treble.BoostFactor)
}

func (s *Stack) apply(tone float64) {
	s.tone = tone
	s.bass, s.treble = Map(tone)

	if s.sampleRate > 0 {
		s.bassFilter.SetCoefficients(onepole.Shelf(s.bass.CutoffHz, 0, s.sampleRate))
		s.trebleFilter.SetCoefficients(onepole.Shelf(s.treble.CutoffHz, 0, s.sampleRate))
	}
}

// Tone returns the last tone position passed to SetTone.
func (s *Stack) Tone() float64 { return s.tone }

// Bass returns the current bass path parameters.
func (s *Stack) Bass() Shelf { return s.bass }

// Treble returns the current treble path parameters.
func (s *Stack) Treble() Shelf { return s.treble }

// Coefficients returns the bass and treble filter coefficients.
func (s *Stack) Coefficients() (bass, treble onepole.Coefficients) {
	return s.bassFilter.Coefficients, s.trebleFilter.Coefficients
}

// Reset clears filter state and snaps the boost ramps to their targets.
func (s *Stack) Reset() {
	s.bassFilter.Reset()
	s.trebleFilter.Reset()
	s.bassGain.SetCurrentAndTarget(s.bassGain.Target())
	s.trebleGain.SetCurrentAndTarget(s.trebleGain.Target())
}

// ProcessInPlace runs the tone stack over main. len(main) must not exceed the
// block size passed to Prepare.
func (s *Stack) ProcessInPlace(main []float64) {
	n := len(main)
	if n > s.maxBlockSize {
		panic(fmt.Sprintf("tonestack: block of %d exceeds prepared size %d", n, s.maxBlockSize))
	}

	bass := s.bassBuf[:n]
	treble := s.trebleBuf[:n]
	gains := s.gainBuf[:n]

	copy(bass, main)
	copy(treble, main)

	s.bassFilter.ProcessInPlace(bass)
	s.trebleFilter.ProcessInPlace(treble)

	s.bassGain.Fill(gains)
	vecmath.MulBlockInPlace(bass, gains)

	s.trebleGain.Fill(gains)
	vecmath.MulBlockInPlace(treble, gains)

	for i := range main {
		main[i] += bass[i] + treble[i]
	}
}
