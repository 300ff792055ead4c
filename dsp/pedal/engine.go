package pedal

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-overdrive/dsp/clip"
	"github.com/cwbudde/algo-overdrive/dsp/core"
	"github.com/cwbudde/algo-overdrive/dsp/dynamics"
	"github.com/cwbudde/algo-overdrive/dsp/filter/onepole"
	"github.com/cwbudde/algo-overdrive/dsp/gain"
	"github.com/cwbudde/algo-overdrive/dsp/resample"
	"github.com/cwbudde/algo-overdrive/dsp/tonestack"
)

// ErrNotPrepared is the panic value of Process on an unprepared engine.
var ErrNotPrepared = errors.New("pedal: Process called before Prepare")

// Processor is a mono block effect with a prepare/process lifecycle.
type Processor interface {
	Prepare(sampleRate float64, maxBlockSize int) error
	Process(buf []float64, c Controls)
	Latency() float64
	Release()
}

// Engine is the overdrive signal chain.
type Engine struct {
	cfg config

	prepared     bool
	sampleRate   float64
	maxBlockSize int

	over    *resample.Oversampler
	clipper *clip.Clipper
	drive   *gain.Stage
	tone    *tonestack.Stack
	limiter *dynamics.Limiter

	inputHighPass  onepole.Filter
	preClipLowPass onepole.Filter
	preToneLowPass onepole.Filter
	outHighPass    onepole.Filter

	rawTone    float64
	mappedTone float64
	driveDB    float64
}

var _ Processor = (*Engine)(nil)

// New designs the oversampling filters and builds the chain. The engine must
// be prepared before use.
func New(opts ...Option) (*Engine, error) {
	cfg := defaultConfig()

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	over, err := resample.NewOversampler(cfg.oversampling, resample.WithQuality(cfg.quality))
	if err != nil {
		return nil, fmt.Errorf("pedal: %w", err)
	}

	clipper, err := clip.NewClipper(
		clip.WithClipperMode(cfg.clipMode),
		clip.WithSeriesResistance(cfg.seriesOhms),
	)
	if err != nil {
		return nil, fmt.Errorf("pedal: %w", err)
	}

	drive, err := gain.NewStage(gain.WithRampTime(cfg.rampSeconds))
	if err != nil {
		return nil, fmt.Errorf("pedal: %w", err)
	}

	tone := tonestack.NewStack()
	if err := tone.SetRampTime(cfg.rampSeconds); err != nil {
		return nil, fmt.Errorf("pedal: %w", err)
	}

	limiter, err := dynamics.NewLimiter(
		float64(cfg.oversampling)*core.DefaultProcessorConfig().SampleRate,
		dynamics.WithThreshold(cfg.limiterThresholdDB),
		dynamics.WithRelease(cfg.limiterReleaseMs),
	)
	if err != nil {
		return nil, fmt.Errorf("pedal: %w", err)
	}

	e := &Engine{
		cfg:     cfg,
		over:    over,
		clipper: clipper,
		drive:   drive,
		tone:    tone,
		limiter: limiter,
	}
	e.resetControls()

	return e, nil
}

// Prepare binds the engine to a stream contract. It sizes every buffer,
// designs all filters at sampleRate times the oversampling factor, resets
// the controls to their defaults and clears all state. Calling it again
// with the same arguments yields the same coefficients.
func (e *Engine) Prepare(sampleRate float64, maxBlockSize int) error {
	pc := core.ProcessorConfig{SampleRate: sampleRate, MaxBlockSize: maxBlockSize}
	if err := pc.Validate(); err != nil {
		return fmt.Errorf("pedal: %w", err)
	}

	e.prepared = false

	over := pc.Oversampled(e.over.Factor())
	overRate, overBlock := over.SampleRate, over.MaxBlockSize

	if err := e.over.Prepare(maxBlockSize); err != nil {
		return fmt.Errorf("pedal: %w", err)
	}

	static := []struct {
		f *onepole.Filter
		c onepole.Coefficients
	}{
		{&e.inputHighPass, onepole.HighPass(e.cfg.inputHighPassHz, overRate)},
		{&e.preClipLowPass, onepole.LowPass(e.cfg.preClipLowPassHz, overRate)},
		{&e.preToneLowPass, onepole.LowPass(e.cfg.preToneLowPassHz, overRate)},
		{&e.outHighPass, onepole.HighPass(e.cfg.outputHighPassHz, overRate)},
	}

	for _, s := range static {
		s.f.SetCoefficients(s.c)

		if err := s.f.Prepare(overRate, overBlock); err != nil {
			return fmt.Errorf("pedal: %w", err)
		}
	}

	if err := e.clipper.Prepare(overRate); err != nil {
		return fmt.Errorf("pedal: %w", err)
	}

	e.resetControls()

	if err := e.drive.Prepare(overRate, overBlock); err != nil {
		return fmt.Errorf("pedal: %w", err)
	}

	if err := e.tone.Prepare(overRate, overBlock); err != nil {
		return fmt.Errorf("pedal: %w", err)
	}

	if err := e.limiter.SetSampleRate(overRate); err != nil {
		return fmt.Errorf("pedal: %w", err)
	}

	e.limiter.Reset()

	e.sampleRate = sampleRate
	e.maxBlockSize = maxBlockSize
	e.prepared = true

	return nil
}

// resetControls puts tone and drive back to their defaults without ramping
// once the next Prepare snaps the ramps.
func (e *Engine) resetControls() {
	e.rawTone = ToneParam.Default
	e.mappedTone = e.cfg.taper(e.rawTone)
	e.driveDB = DriveParam.Default

	e.tone.SetTone(e.mappedTone)
	e.drive.SetGainDB(e.driveDB)
}

// Process runs buf through the chain in place using controls c. Non-finite
// controls are ignored and out-of-range ones are clamped. It panics if the
// engine is unprepared or buf is longer than the prepared block size.
func (e *Engine) Process(buf []float64, c Controls) {
	if !e.prepared {
		panic(ErrNotPrepared)
	}

	if len(buf) > e.maxBlockSize {
		panic(fmt.Sprintf("pedal: block of %d exceeds prepared size %d", len(buf), e.maxBlockSize))
	}

	if len(buf) == 0 {
		return
	}

	e.applyControls(c)

	over := e.over.Up(buf)

	e.inputHighPass.ProcessInPlace(over)
	e.preClipLowPass.ProcessInPlace(over)
	e.drive.ProcessInPlace(over)
	e.clipper.ProcessInPlace(over)
	e.preToneLowPass.ProcessInPlace(over)
	e.tone.ProcessInPlace(over)
	e.outHighPass.ProcessInPlace(over)
	e.limiter.ProcessInPlace(over)

	e.over.Down(over, buf)
	core.BoundInPlace(buf, e.limiter.Ceiling())
}

// ProcessFromState is Process with controls loaded from s.
func (e *Engine) ProcessFromState(buf []float64, s *ControlState) {
	e.Process(buf, s.Load())
}

func (e *Engine) applyControls(c Controls) {
	if !math.IsNaN(c.Tone) {
		e.rawTone = ToneParam.Clamp(c.Tone)
	}

	// Tone is remapped only on an exact change so a held knob never
	// re-triggers the boost ramps.
	if mapped := e.cfg.taper(e.rawTone); mapped != e.mappedTone {
		e.mappedTone = mapped
		e.tone.SetTone(mapped)
	}

	if !math.IsNaN(c.DriveDB) {
		if db := DriveParam.Clamp(c.DriveDB); db != e.driveDB {
			e.driveDB = db
			e.drive.SetGainDB(db)
		}
	}
}

// Latency returns the processing delay in native samples.
func (e *Engine) Latency() float64 { return e.over.Latency() }

// LatencySamples returns Latency rounded to whole samples, as a host would
// report it.
func (e *Engine) LatencySamples() int { return int(math.Round(e.Latency())) }

// Release marks the engine unprepared and clears its state. Buffers are kept
// for the next Prepare.
func (e *Engine) Release() {
	e.prepared = false
	e.over.Reset()
	e.inputHighPass.Reset()
	e.preClipLowPass.Reset()
	e.preToneLowPass.Reset()
	e.outHighPass.Reset()
	e.clipper.Reset()
	e.tone.Reset()
	e.limiter.Reset()
}

// Prepared reports whether Process may be called.
func (e *Engine) Prepared() bool { return e.prepared }

// SampleRate returns the native rate passed to Prepare.
func (e *Engine) SampleRate() float64 { return e.sampleRate }

// MaxBlockSize returns the block size passed to Prepare.
func (e *Engine) MaxBlockSize() int { return e.maxBlockSize }

// Oversampling returns the oversampling factor.
func (e *Engine) Oversampling() int { return e.over.Factor() }

// Controls returns the controls applied by the last Process call, after
// sanitizing.
func (e *Engine) Controls() Controls {
	return Controls{Tone: e.rawTone, DriveDB: e.driveDB}
}

// Tone returns the tone position after the taper.
func (e *Engine) Tone() float64 { return e.mappedTone }

// Shelves returns the bass and treble shelf parameters currently in use.
func (e *Engine) Shelves() (bass, treble tonestack.Shelf) {
	return e.tone.Bass(), e.tone.Treble()
}

// ToneCoefficients returns the bass and treble filter coefficients.
func (e *Engine) ToneCoefficients() (bass, treble onepole.Coefficients) {
	return e.tone.Coefficients()
}

// Limiter returns the output limiter.
func (e *Engine) Limiter() *dynamics.Limiter { return e.limiter }
