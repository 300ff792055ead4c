package main

import (
	"math"

	"github.com/cwbudde/algo-overdrive/dsp/core"
)

// source generates a test signal block by block.
type source interface {
	Fill(buf []float64)
}

type sineSource struct {
	amp   float64
	phase float64
	step  float64
}

func newSine(freqHz, levelDB, sampleRate float64) *sineSource {
	return &sineSource{amp: core.DBToLinear(levelDB), step: 2 * math.Pi * freqHz / sampleRate}
}

func (s *sineSource) Fill(buf []float64) {
	for i := range buf {
		buf[i] = s.amp * math.Sin(s.phase)

		s.phase += s.step
		if s.phase >= 2*math.Pi {
			s.phase -= 2 * math.Pi
		}
	}
}

// riffNotes is a one-bar power-chord riff in E as root frequencies, one per
// eighth note.
var riffNotes = []float64{82.41, 82.41, 98.00, 82.41, 110.00, 82.41, 123.47, 110.00}

// riffSource plays riffNotes as plucked root-plus-fifth tones at 120 bpm.
type riffSource struct {
	amp        float64
	sampleRate float64
	noteLen    int
	decay      float64

	pos   int
	note  int
	env   float64
	root  float64
	fifth float64
}

func newRiff(levelDB, sampleRate float64) *riffSource {
	return &riffSource{
		amp:        core.DBToLinear(levelDB),
		sampleRate: sampleRate,
		noteLen:    int(sampleRate / 4),
		decay:      math.Exp(-1 / (0.15 * sampleRate)),
		note:       -1,
	}
}

func (r *riffSource) Fill(buf []float64) {
	for i := range buf {
		if r.pos%r.noteLen == 0 {
			r.note = (r.note + 1) % len(riffNotes)
			r.env = 1
		}

		f := riffNotes[r.note]
		r.root += 2 * math.Pi * f / r.sampleRate
		r.fifth += 2 * math.Pi * 1.5 * f / r.sampleRate
		r.root = math.Mod(r.root, 2*math.Pi)
		r.fifth = math.Mod(r.fifth, 2*math.Pi)

		buf[i] = r.amp * r.env * (0.6*math.Sin(r.root) + 0.4*math.Sin(r.fifth))
		r.env *= r.decay
		r.pos++
	}
}
