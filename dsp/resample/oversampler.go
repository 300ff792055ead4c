package resample

import (
	"errors"
	"fmt"
)

// ErrInvalidFactor indicates an oversampling factor other than 1, 2, 4, 8 or 16.
var ErrInvalidFactor = errors.New("resample: oversampling factor must be 1, 2, 4, 8 or 16")

// Oversampler raises a block to factor times its rate and brings it back.
//
// Both directions use the same linear-phase lowpass of TapsPerPhase*factor
// taps, so the round trip delays the signal by a constant
// (taps-1)/factor native samples.
type Oversampler struct {
	factor  int
	quality Quality

	upPhases [][]float64 // interpolation branches, unity DC gain each
	down     []float64   // decimation taps, unity DC gain

	maxBlockSize int

	upWork   []float64 // branch history followed by the native block
	over     []float64 // oversampled block handed out by Up
	downWork []float64 // filter history followed by the oversampled block
}

// NewOversampler designs the filters for factor.
func NewOversampler(factor int, opts ...Option) (*Oversampler, error) {
	switch factor {
	case 1, 2, 4, 8, 16:
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidFactor, factor)
	}

	cfg := newConfig(opts)
	o := &Oversampler{factor: factor, quality: cfg.quality}

	if factor == 1 {
		return o, nil
	}

	proto, err := designPrototype(factor, 1, cfg)
	if err != nil {
		return nil, err
	}

	o.upPhases = proto.phases
	o.down = make([]float64, len(proto.taps))

	for i, c := range proto.taps {
		o.down[i] = c / float64(factor)
	}

	return o, nil
}

// Prepare sizes all buffers for blocks of up to maxBlockSize native samples
// and clears the filter history.
func (o *Oversampler) Prepare(maxBlockSize int) error {
	if maxBlockSize <= 0 {
		return fmt.Errorf("oversampler max block size must be > 0: %d", maxBlockSize)
	}

	o.maxBlockSize = maxBlockSize
	o.over = make([]float64, maxBlockSize*o.factor)

	if o.factor > 1 {
		o.upWork = make([]float64, len(o.upPhases[0])-1+maxBlockSize)
		o.downWork = make([]float64, len(o.down)-1+maxBlockSize*o.factor)
	}

	return nil
}

// Factor returns the oversampling factor.
func (o *Oversampler) Factor() int { return o.factor }

// Quality returns the filter profile.
func (o *Oversampler) Quality() Quality { return o.quality }

// MaxBlockSize returns the native block size passed to Prepare.
func (o *Oversampler) MaxBlockSize() int { return o.maxBlockSize }

// FilterLength returns the number of taps of each anti-aliasing filter.
func (o *Oversampler) FilterLength() int { return len(o.down) }

// Latency returns the Up/Down round-trip delay in native samples.
func (o *Oversampler) Latency() float64 {
	if o.factor == 1 {
		return 0
	}

	return float64(len(o.down)-1) / float64(o.factor)
}

// Reset clears the filter history.
func (o *Oversampler) Reset() {
	clear(o.upWork)
	clear(o.downWork)
}

// Up interpolates block and returns len(block)*Factor() oversampled samples.
// The result aliases an internal buffer that the next Up call overwrites.
func (o *Oversampler) Up(block []float64) []float64 {
	n := len(block)
	if n > o.maxBlockSize {
		panic(fmt.Sprintf("oversampler: block of %d exceeds prepared size %d", n, o.maxBlockSize))
	}

	out := o.over[:n*o.factor]
	if o.factor == 1 {
		copy(out, block)
		return out
	}

	hist := len(o.upPhases[0]) - 1
	work := o.upWork[:hist+n]
	copy(work[hist:], block)

	for i := range n {
		newest := hist + i
		frame := out[i*o.factor : (i+1)*o.factor]

		for p, branch := range o.upPhases {
			var y float64
			for k, c := range branch {
				y += c * work[newest-k]
			}

			frame[p] = y
		}
	}

	copy(o.upWork[:hist], work[n:])

	return out
}

// Down decimates over into dst. len(over) must be len(dst)*Factor().
func (o *Oversampler) Down(over, dst []float64) {
	n := len(dst)
	if len(over) != n*o.factor {
		panic(fmt.Sprintf("oversampler: %d oversampled samples for %d outputs at factor %d", len(over), n, o.factor))
	}

	if n > o.maxBlockSize {
		panic(fmt.Sprintf("oversampler: block of %d exceeds prepared size %d", n, o.maxBlockSize))
	}

	if o.factor == 1 {
		copy(dst, over)
		return
	}

	hist := len(o.down) - 1
	work := o.downWork[:hist+len(over)]
	copy(work[hist:], over)

	for m := range n {
		newest := hist + m*o.factor

		var y float64
		for j, c := range o.down {
			y += c * work[newest-j]
		}

		dst[m] = y
	}

	copy(o.downWork[:hist], work[len(over):])
}
