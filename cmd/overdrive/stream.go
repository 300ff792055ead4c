package main

import (
	"encoding/binary"
	"math"

	"github.com/cwbudde/algo-overdrive/dsp/pedal"
	"github.com/cwbudde/algo-overdrive/dsp/resample"
)

// stream renders engine output on demand as float32 little-endian mono PCM.
// Read runs on the audio device goroutine; controls arrive through state.
type stream struct {
	engine *pedal.Engine
	state  *pedal.ControlState
	src    source

	block     []float64
	rs        *resample.Resampler // nil when engine and device rates match
	converted []float64

	pending []float64
	head    int
}

func newStream(e *pedal.Engine, state *pedal.ControlState, src source, block int, engineRate, deviceRate float64) (*stream, error) {
	s := &stream{
		engine: e,
		state:  state,
		src:    src,
		block:  make([]float64, block),
	}

	perBlock := block
	if engineRate != deviceRate {
		rs, err := resample.NewForRates(engineRate, deviceRate)
		if err != nil {
			return nil, err
		}

		s.rs = rs
		perBlock = rs.PredictOutputLen(block) + 1
		s.converted = make([]float64, 0, perBlock)
	}

	s.pending = make([]float64, 0, 8*perBlock)

	return s, nil
}

func (s *stream) Read(p []byte) (int, error) {
	n := len(p) / 4

	for len(s.pending)-s.head < n {
		s.render()
	}

	for i, v := range s.pending[s.head : s.head+n] {
		binary.LittleEndian.PutUint32(p[4*i:], math.Float32bits(float32(v)))
	}

	s.head += n

	return 4 * n, nil
}

// render appends one engine block, converted to the device rate, to pending.
func (s *stream) render() {
	s.src.Fill(s.block)
	s.engine.ProcessFromState(s.block, s.state)

	out := s.block
	if s.rs != nil {
		s.converted = s.rs.AppendTo(s.converted[:0], s.block)
		out = s.converted
	}

	if s.head > 0 {
		m := copy(s.pending, s.pending[s.head:])
		s.pending = s.pending[:m]
		s.head = 0
	}

	s.pending = append(s.pending, out...)
}
