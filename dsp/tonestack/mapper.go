package tonestack

import "math"

// Component values of the emulated tone network.
const (
	BassResistance    = 1e3    // R_bass (ohm)
	TonePotResistance = 20e3   // R_tonePot (ohm)
	FeedResistance    = 1e3    // R_feed (ohm)
	ShuntResistance   = 220.0  // R_shunt (ohm)
	ShuntCapacitance  = 220e-9 // C_shunt (F)
)

// Cutoffs substituted when the network formula has no physical solution.
const (
	BassFallbackHz   = 20.0
	TrebleFallbackHz = 20000.0
)

// minNetworkResistance treats a path resistance that only rounding keeps
// above zero as zero.
const minNetworkResistance = 1e-6

// Shelf is the derived parameter set of one tone path.
type Shelf struct {
	CutoffHz    float64
	BoostFactor float64
}

// BassShelf maps a tone position to the bass path.
//
// Rtot = tone*R_tonePot + R_shunt, Fp = 1/(2*pi*(R_bass+Rtot)*C_shunt),
// boost = 1 - Rtot/(R_bass+Rtot).
func BassShelf(tone float64) Shelf {
	rTot := tone*TonePotResistance + ShuntResistance
	if !(rTot > minNetworkResistance) {
		return Shelf{CutoffHz: BassFallbackHz}
	}

	series := BassResistance + rTot
	fp := 1 / (2 * math.Pi * series * ShuntCapacitance)

	return Shelf{
		CutoffHz:    cutoffOr(fp, BassFallbackHz),
		BoostFactor: finiteOrZero(1 - rTot/series),
	}
}

// TrebleShelf maps a tone position to the treble path.
//
// Rtot = (1-tone)*R_tonePot + R_shunt, Fp = 1/(2*pi*Rtot*C_shunt),
// boost = R_feed/Rtot.
func TrebleShelf(tone float64) Shelf {
	rTot := (1-tone)*TonePotResistance + ShuntResistance
	if !(rTot > minNetworkResistance) {
		return Shelf{CutoffHz: TrebleFallbackHz}
	}

	fp := 1 / (2 * math.Pi * rTot * ShuntCapacitance)

	return Shelf{
		CutoffHz:    cutoffOr(fp, TrebleFallbackHz),
		BoostFactor: finiteOrZero(FeedResistance / rTot),
	}
}

// Map returns both paths for a tone position. tone is not clamped; positions
// outside [0, 1] that leave the network without a positive resistance get the
// fallback cutoff and a muted path.
func Map(tone float64) (bass, treble Shelf) {
	return BassShelf(tone), TrebleShelf(tone)
}

func cutoffOr(fp, fallback float64) float64 {
	if fp > 0 && !math.IsInf(fp, 0) {
		return fp
	}

	return fallback
}

func finiteOrZero(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}

	return x
}
