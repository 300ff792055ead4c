package main

import (
	"fmt"

	"github.com/cwbudde/algo-overdrive/dsp/clip"
	"github.com/cwbudde/algo-overdrive/dsp/core"
	"github.com/cwbudde/algo-overdrive/dsp/pedal"
	"github.com/cwbudde/algo-overdrive/dsp/resample"
	"github.com/cwbudde/algo-overdrive/dsp/tonestack"
)

// EngineFlags are the construction options shared by render and play.
type EngineFlags struct {
	Oversampling int     `default:"8" help:"Oversampling factor (1, 2, 4, 8 or 16)"`
	Quality      string  `default:"balanced" enum:"fast,balanced,best" help:"Oversampling filter quality (${enum})"`
	Clipper      string  `default:"diode" enum:"diode,tanh,exponential,opamp" help:"Clipper curve (${enum})"`
	Taper        string  `default:"smooth" enum:"smooth,extreme,linear" help:"Tone knob taper (${enum})"`
	Series       float64 `default:"2200" help:"Series resistance in front of the diodes, ohms (0 disables)"`
}

var tapers = map[string]tonestack.TaperFunc{
	"smooth":  tonestack.Taper,
	"extreme": tonestack.TaperExtreme,
	"linear":  tonestack.TaperLinear,
}

func (f EngineFlags) newEngine(sampleRate float64, block int) (*pedal.Engine, error) {
	stream := core.ApplyProcessorOptions(core.WithSampleRate(sampleRate), core.WithMaxBlockSize(block))
	if err := stream.Validate(); err != nil {
		return nil, err
	}

	quality, err := resample.ParseQuality(f.Quality)
	if err != nil {
		return nil, err
	}

	mode, err := clip.ParseMode(f.Clipper)
	if err != nil {
		return nil, err
	}

	taper, ok := tapers[f.Taper]
	if !ok {
		return nil, fmt.Errorf("unknown taper %q", f.Taper)
	}

	e, err := pedal.New(
		pedal.WithOversampling(f.Oversampling),
		pedal.WithQuality(quality),
		pedal.WithClipper(mode),
		pedal.WithSeriesResistance(f.Series),
		pedal.WithTaper(taper),
	)
	if err != nil {
		return nil, err
	}

	if err := e.Prepare(stream.SampleRate, stream.MaxBlockSize); err != nil {
		return nil, err
	}

	return e, nil
}
