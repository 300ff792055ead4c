package main

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-overdrive/dsp/core"
	"github.com/cwbudde/algo-overdrive/dsp/pedal"
	"github.com/cwbudde/algo-overdrive/measure/harmonics"
)

type renderCmd struct {
	EngineFlags `embed:""`

	Rate    float64 `default:"48000" help:"Sample rate in Hz"`
	Block   int     `default:"512" help:"Block size in samples"`
	Freq    float64 `default:"1000" help:"Sine frequency in Hz"`
	Level   float64 `default:"-12" help:"Sine level in dBFS"`
	Seconds float64 `default:"1" help:"Render length in seconds"`
	Tone    float64 `default:"0.5" help:"Tone knob position, 0 to 1"`
	Drive   float64 `default:"0" help:"Drive in dB, 0 to 30"`
	Sweep   bool    `help:"Sweep the tone knob from 0 to 1 over the render"`
}

// renderStats summarizes one render.
type renderStats struct {
	peakDB     float64
	rmsDB      float64
	latency    float64
	latencyInt int
	analysis   harmonics.Result
}

func (c *renderCmd) Run() error {
	if c.Block <= 0 {
		return fmt.Errorf("block size must be > 0: %d", c.Block)
	}

	n := int(c.Seconds * c.Rate)
	if n < 2*c.Block {
		return fmt.Errorf("render of %g s at %g Hz is shorter than two blocks", c.Seconds, c.Rate)
	}

	e, err := c.newEngine(c.Rate, c.Block)
	if err != nil {
		return err
	}

	signal := make([]float64, n)
	newSine(c.Freq, c.Level, c.Rate).Fill(signal)

	controls := func(float64) pedal.Controls {
		return pedal.Controls{Tone: c.Tone, DriveDB: c.Drive}
	}

	if c.Sweep {
		controls = func(progress float64) pedal.Controls {
			return pedal.Controls{Tone: progress, DriveDB: c.Drive}
		}
	}

	out := renderBlocks(e, signal, c.Block, controls)
	stats := measure(e, out, c.Rate, c.Freq)

	printRender(c, e, stats)

	return nil
}

// renderBlocks processes signal in place, block by block, asking controls for
// the settings at each block start. progress runs from 0 to 1.
func renderBlocks(e *pedal.Engine, signal []float64, block int, controls func(progress float64) pedal.Controls) []float64 {
	last := max(len(signal)-block, 1)

	for start := 0; start < len(signal); start += block {
		end := min(start+block, len(signal))
		progress := math.Min(float64(start)/float64(last), 1)
		e.Process(signal[start:end], controls(progress))
	}

	return signal
}

// measure analyses the second half of out, past the start-up transients.
func measure(e *pedal.Engine, out []float64, sampleRate, freqHz float64) renderStats {
	tail := out[len(out)/2:]

	fftSize := 1
	for fftSize*2 <= len(tail) {
		fftSize *= 2
	}

	tail = tail[len(tail)-fftSize:]

	var sum float64
	for _, v := range tail {
		sum += v * v
	}

	return renderStats{
		peakDB:     core.LinearToDB(core.Peak(out)),
		rmsDB:      core.LinearToDB(math.Sqrt(sum / float64(len(tail)))),
		latency:    e.Latency(),
		latencyInt: e.LatencySamples(),
		analysis: harmonics.Analyze(tail, harmonics.Config{
			SampleRate:    sampleRate,
			FundamentalHz: freqHz,
			FFTSize:       fftSize,
		}),
	}
}
