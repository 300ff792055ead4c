package clip

import (
	"fmt"
	"math"
)

const (
	defaultSeriesResistance = 2200.0
	maxSeriesResistance     = 1e7

	exponentialInputGain = 3.0
	exponentialKnee      = 0.55
	exponentialSharpness = 8.0

	defaultCircuitRate = 48000.0
)

// Mode selects the transfer curve used by Clipper.
type Mode int

const (
	// ModeDiodePair solves the antiparallel diode node equation per sample.
	ModeDiodePair Mode = iota
	// ModeTanh applies tanh(x).
	ModeTanh
	// ModeExponential is linear up to a knee, then approaches a ceiling
	// exponentially.
	ModeExponential
	// ModeOpAmp runs the complete OpAmpStage circuit. It carries filter
	// state, follows Prepare and ignores the series resistance.
	ModeOpAmp
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeDiodePair:
		return "diode"
	case ModeTanh:
		return "tanh"
	case ModeExponential:
		return "exponential"
	case ModeOpAmp:
		return "opamp"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode maps a mode name back to its Mode.
func ParseMode(name string) (Mode, error) {
	for _, m := range []Mode{ModeDiodePair, ModeTanh, ModeExponential, ModeOpAmp} {
		if m.String() == name {
			return m, nil
		}
	}

	return 0, fmt.Errorf("clip mode is invalid: %q", name)
}

// ClipperOption mutates construction-time parameters.
type ClipperOption func(*clipperConfig) error

type clipperConfig struct {
	mode             Mode
	seriesResistance float64
	pair             DiodePair
}

func defaultClipperConfig() clipperConfig {
	return clipperConfig{
		mode:             ModeDiodePair,
		seriesResistance: defaultSeriesResistance,
		pair:             NewDiodePair(),
	}
}

// WithClipperMode selects the transfer curve.
func WithClipperMode(mode Mode) ClipperOption {
	return func(cfg *clipperConfig) error {
		if !validMode(mode) {
			return fmt.Errorf("clip mode is invalid: %d", mode)
		}

		cfg.mode = mode

		return nil
	}
}

// WithSeriesResistance sets the resistance in front of the diode pair in
// ohms. The drive voltage is converted to its Norton equivalent (a current
// vIn/R with R in parallel to the pair). 0 feeds the drive straight into
// DiodePair.Solve.
func WithSeriesResistance(ohms float64) ClipperOption {
	return func(cfg *clipperConfig) error {
		if ohms < 0 || ohms > maxSeriesResistance || math.IsNaN(ohms) {
			return fmt.Errorf("clip series resistance must be in [0, %g]: %f", maxSeriesResistance, ohms)
		}

		cfg.seriesResistance = ohms

		return nil
	}
}

// WithDiodePair overrides the diode model.
func WithDiodePair(pair DiodePair) ClipperOption {
	return func(cfg *clipperConfig) error {
		if !(pair.Is > 0) || !(pair.NVt > 0) || pair.G < 0 {
			return fmt.Errorf("clip diode pair is invalid: %+v", pair)
		}

		cfg.pair = pair

		return nil
	}
}

// Clipper is a block processor around one transfer curve. Only ModeOpAmp
// keeps state between samples.
type Clipper struct {
	mode             Mode
	seriesResistance float64

	pair       DiodePair
	inputScale float64
	circuit    *OpAmpStage
}

// NewClipper creates a clipper with validated options.
func NewClipper(opts ...ClipperOption) (*Clipper, error) {
	cfg := defaultClipperConfig()

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	c := &Clipper{
		mode:             cfg.mode,
		seriesResistance: cfg.seriesResistance,
		pair:             cfg.pair,
		inputScale:       1,
	}

	if cfg.seriesResistance > 0 {
		c.pair.G += 1 / cfg.seriesResistance
		c.inputScale = 1 / cfg.seriesResistance
	}

	if cfg.mode == ModeOpAmp {
		circuit, err := NewOpAmpStage(defaultCircuitRate)
		if err != nil {
			return nil, err
		}

		c.circuit = circuit
	}

	return c, nil
}

// Prepare designs the circuit filters for sampleRate and clears their state.
// The closed-form curves only validate the rate.
func (c *Clipper) Prepare(sampleRate float64) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("clip sample rate must be > 0 and finite: %f", sampleRate)
	}

	if c.circuit != nil {
		return c.circuit.Prepare(sampleRate)
	}

	return nil
}

// Reset clears the circuit state.
func (c *Clipper) Reset() {
	if c.circuit != nil {
		c.circuit.Reset()
	}
}

// Mode returns the transfer curve.
func (c *Clipper) Mode() Mode { return c.mode }

// SeriesResistance returns the series resistance in ohms.
func (c *Clipper) SeriesResistance() float64 { return c.seriesResistance }

// Pair returns the effective diode model, including the Norton conductance.
func (c *Clipper) Pair() DiodePair { return c.pair }

// ProcessSample shapes one sample.
func (c *Clipper) ProcessSample(x float64) float64 {
	switch c.mode {
	case ModeTanh:
		return math.Tanh(x)
	case ModeExponential:
		return exponentialClip(x)
	case ModeOpAmp:
		return c.circuit.ProcessSample(x)
	default:
		return c.pair.Solve(x * c.inputScale)
	}
}

// ProcessInPlace shapes buf in place.
func (c *Clipper) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = c.ProcessSample(buf[i])
	}
}

func exponentialClip(x float64) float64 {
	v := x * exponentialInputGain
	a := math.Abs(v)

	if a <= exponentialKnee {
		return v
	}

	tail := (1 - mathExp(-exponentialSharpness*(a-exponentialKnee))) / exponentialSharpness

	return math.Copysign(exponentialKnee+tail, v)
}

func validMode(mode Mode) bool {
	return mode >= ModeDiodePair && mode <= ModeOpAmp
}
