package clip

import "math"

const (
	// DefaultSaturationCurrent is the 1N4148 saturation current in amperes.
	DefaultSaturationCurrent = 2.52e-9
	// DefaultThermalVoltage is the ideality factor times the thermal voltage.
	DefaultThermalVoltage = 1.906 * 0.02585
	// DefaultShuntConductance keeps the Jacobian non-singular around V=0.
	DefaultShuntConductance = 1e-8
	// NewtonIterations is the fixed iteration count of Solve.
	NewtonIterations = 8

	// maxSolveInput bounds the drive so exp(V/nVt) stays far from overflow.
	maxSolveInput = 1e6
)

// DiodePair is an antiparallel diode pair shunted by a conductance G.
// The zero value is not usable; start from NewDiodePair.
type DiodePair struct {
	Is  float64 // saturation current (A)
	NVt float64 // ideality factor * thermal voltage (V)
	G   float64 // parallel conductance (S)
}

// NewDiodePair returns the 1N4148 pair used by the clipping stage.
func NewDiodePair() DiodePair {
	return DiodePair{
		Is:  DefaultSaturationCurrent,
		NVt: DefaultThermalVoltage,
		G:   DefaultShuntConductance,
	}
}

// Current returns the diode current I(V) = Is*(exp(V/nVt) - 1) of one diode.
func (d DiodePair) Current(v float64) float64 {
	return d.Is * (mathExp(v/d.NVt) - 1)
}

// Residual evaluates the node equation at voltage v for drive vIn. It is zero
// at the solution.
func (d DiodePair) Residual(v, vIn float64) float64 {
	return v*d.G + d.Current(v) - d.Current(-v) - vIn
}

// Solve returns the voltage across the pair for drive vIn. It runs
// NewtonIterations steps from V=0 and always returns a finite value for
// finite input. Solve(-x) == -Solve(x) exactly.
func (d DiodePair) Solve(vIn float64) float64 {
	if vIn == 0 || math.IsNaN(vIn) {
		return 0
	}

	i := math.Min(math.Abs(vIn), maxSolveInput)
	twoIs := 2 * d.Is

	// The root lies in [0, hi]: the diodes alone, or the conductance alone,
	// would each need at least that voltage to carry i.
	hi := d.NVt * mathAsinh(i/twoIs)
	if d.G > 0 {
		hi = math.Min(hi, i/d.G)
	}

	v := 0.0
	for range NewtonIterations {
		e := mathExp(v / d.NVt)
		ei := 1 / e

		f := d.G*v + d.Is*(e-ei) - i
		df := d.G + d.Is*(e+ei)/d.NVt

		v -= f / df
		if v > hi {
			v = hi
		} else if v < 0 {
			v = 0
		}
	}

	return math.Copysign(v, vIn)
}
