package clip

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-overdrive/dsp/filter/onepole"
)

// Component values of the op-amp clipping circuit. The input high-pass corner
// lands at about 7.2 Hz and the output low-pass corner at about 723 Hz.
const (
	inputResistance   = 470e3
	inputCapacitance  = 47e-9
	feedbackResistor  = 51e3
	groundResistor    = 4.7e3
	outputResistance  = 1e3
	outputCapacitance = 220e-9
)

// OpAmpGain is the non-inverting gain 1 + Rf/Rg of the clipping op-amp.
const OpAmpGain = 1 + feedbackResistor/groundResistor

// OpAmpStage is the complete clipping circuit: RC input high-pass, op-amp
// gain, diode pair and RC output low-pass, evaluated per sample.
type OpAmpStage struct {
	sampleRate float64

	pair DiodePair
	hp   onepole.Filter
	lp   onepole.Filter
}

// NewOpAmpStage creates the circuit at sampleRate.
func NewOpAmpStage(sampleRate float64) (*OpAmpStage, error) {
	s := &OpAmpStage{pair: NewDiodePair()}
	if err := s.Prepare(sampleRate); err != nil {
		return nil, err
	}

	return s, nil
}

// Prepare recomputes the RC sections for sampleRate and clears state.
func (s *OpAmpStage) Prepare(sampleRate float64) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("op-amp stage sample rate must be > 0 and finite: %f", sampleRate)
	}

	s.sampleRate = sampleRate
	s.hp.SetCoefficients(onepole.RCHighPass(inputResistance, inputCapacitance, sampleRate))
	s.lp.SetCoefficients(onepole.RCLowPass(outputResistance, outputCapacitance, sampleRate))
	s.Reset()

	return nil
}

// SampleRate returns the processing rate.
func (s *OpAmpStage) SampleRate() float64 { return s.sampleRate }

// Reset clears both filter states.
func (s *OpAmpStage) Reset() {
	s.hp.Reset()
	s.lp.Reset()
}

// ProcessSample runs one sample through the circuit.
func (s *OpAmpStage) ProcessSample(x float64) float64 {
	v := s.hp.ProcessSample(x)
	v = s.pair.Solve(v * OpAmpGain)

	return s.lp.ProcessSample(v)
}

// ProcessInPlace runs buf through the circuit in place.
func (s *OpAmpStage) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = s.ProcessSample(buf[i])
	}
}
