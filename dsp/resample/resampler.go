package resample

import (
	"errors"
	"math"
)

var (
	// ErrInvalidRatio indicates an invalid up/down ratio.
	ErrInvalidRatio = errors.New("resample: invalid ratio")
	// ErrInvalidRate indicates an invalid input/output sample rate.
	ErrInvalidRate = errors.New("resample: invalid sample rate")
)

// Resampler performs streaming rational sample-rate conversion.
type Resampler struct {
	up, down int
	quality  Quality
	proto    prototype

	phase   int
	next    int // absolute index of the newest input the next output needs
	totalIn int

	history []float64
	work    []float64
}

// NewRational creates a resampler for the ratio up/down, reduced to lowest
// terms.
func NewRational(up, down int, opts ...Option) (*Resampler, error) {
	if up <= 0 || down <= 0 {
		return nil, ErrInvalidRatio
	}

	g := gcd(up, down)
	up, down = up/g, down/g

	cfg := newConfig(opts)

	proto, err := designPrototype(up, down, cfg)
	if err != nil {
		return nil, err
	}

	return &Resampler{
		up:      up,
		down:    down,
		quality: cfg.quality,
		proto:   proto,
		history: make([]float64, 0, max(0, proto.maxPhase-1)),
	}, nil
}

// NewForRates creates a resampler for inRate -> outRate, approximating the
// ratio with a bounded denominator.
func NewForRates(inRate, outRate float64, opts ...Option) (*Resampler, error) {
	if !validRate(inRate) || !validRate(outRate) {
		return nil, ErrInvalidRate
	}

	cfg := newConfig(opts)
	up, down := approximateRatio(outRate/inRate, cfg.maxDen)

	return NewRational(up, down, opts...)
}

// Convert is a one-shot conversion of input from inRate to outRate.
func Convert(input []float64, inRate, outRate float64, opts ...Option) ([]float64, error) {
	r, err := NewForRates(inRate, outRate, opts...)
	if err != nil {
		return nil, err
	}

	return r.Process(input), nil
}

// Resample is a one-shot conversion of input by up/down.
func Resample(input []float64, up, down int, opts ...Option) ([]float64, error) {
	r, err := NewRational(up, down, opts...)
	if err != nil {
		return nil, err
	}

	return r.Process(input), nil
}

// Reset clears streaming state.
func (r *Resampler) Reset() {
	r.phase = 0
	r.next = 0
	r.totalIn = 0
	r.history = r.history[:0]
}

// Process converts the next block of a stream.
func (r *Resampler) Process(input []float64) []float64 {
	return r.AppendTo(make([]float64, 0, r.PredictOutputLen(len(input))), input)
}

// AppendTo converts the next block of a stream and appends the result to
// dst.
func (r *Resampler) AppendTo(dst, input []float64) []float64 {
	if len(input) == 0 {
		return dst
	}

	r.work = append(append(r.work[:0], r.history...), input...)

	first := r.totalIn - len(r.history)
	last := r.totalIn + len(input) - 1

	for r.next <= last {
		var y float64

		for k, c := range r.proto.phases[r.phase] {
			idx := r.next - k
			if idx < first {
				break
			}

			y += c * r.work[idx-first]
		}

		dst = append(dst, y)
		r.advance()
	}

	r.totalIn += len(input)

	keep := min(max(0, r.proto.maxPhase-1), len(r.work))
	r.history = append(r.history[:0], r.work[len(r.work)-keep:]...)

	return dst
}

func (r *Resampler) advance() {
	r.phase += r.down
	r.next += r.phase / r.up
	r.phase %= r.up
}

// PredictOutputLen returns how many samples the next Process call yields for
// inputLen input samples.
func (r *Resampler) PredictOutputLen(inputLen int) int {
	if inputLen <= 0 {
		return 0
	}

	last := r.totalIn + inputLen - 1
	next, phase := r.next, r.phase

	count := 0
	for next <= last {
		count++
		phase += r.down
		next += phase / r.up
		phase %= r.up
	}

	return count
}

// Ratio returns the reduced up/down factors.
func (r *Resampler) Ratio() (up, down int) { return r.up, r.down }

// Quality returns the configured quality mode.
func (r *Resampler) Quality() Quality { return r.quality }

// TapsPerPhase returns the length of the longest polyphase branch.
func (r *Resampler) TapsPerPhase() int { return r.proto.maxPhase }

// Prototype returns a copy of the prototype FIR.
func (r *Resampler) Prototype() []float64 {
	return append([]float64(nil), r.proto.taps...)
}

func validRate(rate float64) bool {
	return rate > 0 && !math.IsNaN(rate) && !math.IsInf(rate, 0)
}
