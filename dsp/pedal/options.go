package pedal

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-overdrive/dsp/clip"
	"github.com/cwbudde/algo-overdrive/dsp/resample"
	"github.com/cwbudde/algo-overdrive/dsp/tonestack"
)

const (
	defaultOversampling = 8

	defaultInputHighPassHz  = 720.0
	defaultPreClipLowPassHz = 7200.0
	defaultPreToneLowPassHz = 3200.0
	defaultOutputHighPassHz = 20.0

	defaultLimiterThresholdDB = -0.3
	defaultLimiterReleaseMs   = 50.0
	defaultRampSeconds        = 0.001

	maxStaticCutoffHz = 100000.0
)

// Option mutates construction-time parameters.
type Option func(*config) error

type config struct {
	oversampling int
	quality      resample.Quality
	clipMode     clip.Mode
	seriesOhms   float64
	taper        tonestack.TaperFunc

	inputHighPassHz  float64
	preClipLowPassHz float64
	preToneLowPassHz float64
	outputHighPassHz float64

	limiterThresholdDB float64
	limiterReleaseMs   float64
	rampSeconds        float64
}

func defaultConfig() config {
	return config{
		oversampling:       defaultOversampling,
		quality:            resample.QualityBalanced,
		clipMode:           clip.ModeDiodePair,
		seriesOhms:         2200,
		taper:              tonestack.Taper,
		inputHighPassHz:    defaultInputHighPassHz,
		preClipLowPassHz:   defaultPreClipLowPassHz,
		preToneLowPassHz:   defaultPreToneLowPassHz,
		outputHighPassHz:   defaultOutputHighPassHz,
		limiterThresholdDB: defaultLimiterThresholdDB,
		limiterReleaseMs:   defaultLimiterReleaseMs,
		rampSeconds:        defaultRampSeconds,
	}
}

// WithOversampling sets the oversampling factor (1, 2, 4, 8 or 16).
func WithOversampling(factor int) Option {
	return func(cfg *config) error {
		switch factor {
		case 1, 2, 4, 8, 16:
			cfg.oversampling = factor
			return nil
		default:
			return fmt.Errorf("pedal: %w: %d", resample.ErrInvalidFactor, factor)
		}
	}
}

// WithQuality selects the oversampling filter profile.
func WithQuality(q resample.Quality) Option {
	return func(cfg *config) error {
		if q < resample.QualityFast || q > resample.QualityBest {
			return fmt.Errorf("pedal oversampling quality is invalid: %d", q)
		}

		cfg.quality = q

		return nil
	}
}

// WithClipper selects the clipper transfer curve.
func WithClipper(mode clip.Mode) Option {
	return func(cfg *config) error {
		if _, err := clip.ParseMode(mode.String()); err != nil {
			return fmt.Errorf("pedal: %w", err)
		}

		cfg.clipMode = mode

		return nil
	}
}

// WithSeriesResistance sets the resistance in front of the diode pair.
func WithSeriesResistance(ohms float64) Option {
	return func(cfg *config) error {
		if _, err := clip.NewClipper(clip.WithSeriesResistance(ohms)); err != nil {
			return fmt.Errorf("pedal: %w", err)
		}

		cfg.seriesOhms = ohms

		return nil
	}
}

// WithTaper sets the curve from raw tone knob to tone position.
func WithTaper(fn tonestack.TaperFunc) Option {
	return func(cfg *config) error {
		if fn == nil {
			return fmt.Errorf("pedal taper must not be nil")
		}

		cfg.taper = fn

		return nil
	}
}

// WithInputHighPass sets the input high-pass cutoff in Hz.
func WithInputHighPass(hz float64) Option {
	return cutoffOption("input high-pass", hz, func(cfg *config) { cfg.inputHighPassHz = hz })
}

// WithPreClipLowPass sets the low-pass cutoff in front of the drive in Hz.
func WithPreClipLowPass(hz float64) Option {
	return cutoffOption("pre-clip low-pass", hz, func(cfg *config) { cfg.preClipLowPassHz = hz })
}

// WithPreToneLowPass sets the low-pass cutoff after the clipper in Hz.
func WithPreToneLowPass(hz float64) Option {
	return cutoffOption("pre-tone low-pass", hz, func(cfg *config) { cfg.preToneLowPassHz = hz })
}

// WithOutputHighPass sets the output high-pass cutoff in Hz.
func WithOutputHighPass(hz float64) Option {
	return cutoffOption("output high-pass", hz, func(cfg *config) { cfg.outputHighPassHz = hz })
}

// WithLimiter sets the output ceiling in dBFS and the release time in ms.
func WithLimiter(thresholdDB, releaseMs float64) Option {
	return func(cfg *config) error {
		if thresholdDB < -24 || thresholdDB > 0 || math.IsNaN(thresholdDB) {
			return fmt.Errorf("pedal limiter threshold must be in [-24, 0]: %f", thresholdDB)
		}

		if releaseMs < 1 || releaseMs > 5000 || math.IsNaN(releaseMs) {
			return fmt.Errorf("pedal limiter release must be in [1, 5000]: %f", releaseMs)
		}

		cfg.limiterThresholdDB = thresholdDB
		cfg.limiterReleaseMs = releaseMs

		return nil
	}
}

// WithRampTime sets the drive and tone boost ramp length in seconds.
func WithRampTime(seconds float64) Option {
	return func(cfg *config) error {
		if seconds < 0 || seconds > 1 || math.IsNaN(seconds) {
			return fmt.Errorf("pedal ramp time must be in [0, 1]: %f", seconds)
		}

		cfg.rampSeconds = seconds

		return nil
	}
}

func cutoffOption(name string, hz float64, set func(*config)) Option {
	return func(cfg *config) error {
		if hz <= 0 || hz > maxStaticCutoffHz || math.IsNaN(hz) {
			return fmt.Errorf("pedal %s cutoff must be in (0, %g]: %f", name, maxStaticCutoffHz, hz)
		}

		set(cfg)

		return nil
	}
}
