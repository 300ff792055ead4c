package pedal

import (
	"math"
	"sync/atomic"
)

// Controls are the per-block control values.
type Controls struct {
	Tone    float64 // raw knob position in [0, 1]
	DriveDB float64 // drive gain in [0, 30] dB
}

// DefaultControls returns the parameter defaults.
func DefaultControls() Controls {
	return Controls{Tone: ToneParam.Default, DriveDB: DriveParam.Default}
}

// ControlState hands controls from a UI or control goroutine to the audio
// goroutine. Each value is stored and loaded atomically, so a reader never
// sees a torn value; tone and drive are independent and may be observed one
// block apart.
type ControlState struct {
	tone  atomic.Uint64
	drive atomic.Uint64
}

// NewControlState returns a state holding DefaultControls.
func NewControlState() *ControlState {
	s := &ControlState{}
	s.Store(DefaultControls())

	return s
}

// StoreTone sets the tone knob position, clamped to its range.
func (s *ControlState) StoreTone(tone float64) {
	s.tone.Store(math.Float64bits(ToneParam.Clamp(tone)))
}

// StoreDrive sets the drive in dB, clamped to its range.
func (s *ControlState) StoreDrive(db float64) {
	s.drive.Store(math.Float64bits(DriveParam.Clamp(db)))
}

// Store sets both controls.
func (s *ControlState) Store(c Controls) {
	s.StoreTone(c.Tone)
	s.StoreDrive(c.DriveDB)
}

// Load returns the latest controls.
func (s *ControlState) Load() Controls {
	return Controls{
		Tone:    math.Float64frombits(s.tone.Load()),
		DriveDB: math.Float64frombits(s.drive.Load()),
	}
}
