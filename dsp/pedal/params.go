package pedal

import (
	"math"

	"github.com/cwbudde/algo-overdrive/dsp/core"
)

// Param describes one user control.
type Param struct {
	ID      string
	Name    string
	Unit    string
	Min     float64
	Max     float64
	Step    float64
	Default float64
}

var (
	// ToneParam is the tone knob position before the taper.
	ToneParam = Param{ID: "TONE", Name: "Tone", Min: 0, Max: 1, Step: 0.001, Default: 0.5}
	// DriveParam is the gain in front of the clipper.
	DriveParam = Param{ID: "DRIVE", Name: "Drive", Unit: "dB", Min: 0, Max: 30, Step: 0.1, Default: 0}
)

// Params returns the control descriptors in display order.
func Params() []Param {
	return []Param{ToneParam, DriveParam}
}

// ParamByID looks up a descriptor by ID.
func ParamByID(id string) (Param, bool) {
	for _, p := range Params() {
		if p.ID == id {
			return p, true
		}
	}

	return Param{}, false
}

// Clamp limits v to [Min, Max]. NaN maps to Default.
func (p Param) Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return p.Default
	}

	return core.Clamp(v, p.Min, p.Max)
}

// Snap clamps v and rounds it to the nearest step above Min.
func (p Param) Snap(v float64) float64 {
	v = p.Clamp(v)
	if p.Step <= 0 {
		return v
	}

	steps := math.Round((v - p.Min) / p.Step)

	return core.Clamp(p.Min+steps*p.Step, p.Min, p.Max)
}
