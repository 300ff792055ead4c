package tonestack

import (
	"math"

	"github.com/cwbudde/algo-overdrive/dsp/core"
)

const (
	taperBreakPoint = 0.5
	taperStretch    = 0.9
)

// TaperFunc maps a raw knob position in [0, 1] to a tone position.
type TaperFunc func(raw float64) float64

// Taper spends the lower half of the knob travel on the first 90% of the
// tone range along a smoothstep, and the upper half on the last 10%. The
// input is clamped to [0, 1].
func Taper(raw float64) float64 {
	return taper(raw, core.Smoothstep)
}

// TaperExtreme is Taper with a square-root curve below the break point. It
// rises steeply from zero.
func TaperExtreme(raw float64) float64 {
	return taper(raw, math.Sqrt)
}

// TaperLinear clamps raw to [0, 1] and returns it.
func TaperLinear(raw float64) float64 {
	return core.Clamp(raw, 0, 1)
}

func taper(raw float64, curve func(float64) float64) float64 {
	switch {
	case math.IsNaN(raw):
		return 0
	case raw <= 0:
		return 0
	case raw >= 1:
		return 1
	case raw <= taperBreakPoint:
		return taperStretch * curve(raw/taperBreakPoint)
	default:
		u := (raw - taperBreakPoint) / (1 - taperBreakPoint)
		return taperStretch + u*(1-taperStretch)
	}
}
