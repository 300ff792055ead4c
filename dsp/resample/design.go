package resample

import (
	"errors"
	"fmt"
	"math"
)

// prototype is a lowpass FIR split into up polyphase branches. Branch p holds
// taps p, p+up, p+2*up, ...
type prototype struct {
	taps     []float64
	phases   [][]float64
	maxPhase int
}

// designPrototype designs the anti-aliasing lowpass for an up/down
// converter. The taps sum to up so that every branch has unity DC gain.
func designPrototype(up, down int, cfg config) (prototype, error) {
	if up <= 0 || down <= 0 {
		return prototype{}, ErrInvalidRatio
	}

	if cfg.tapsPerPhase <= 0 {
		return prototype{}, errors.New("resample: taps per phase must be > 0")
	}

	n := cfg.tapsPerPhase * up
	fc := 0.5 / float64(max(up, down)) * cfg.cutoffScale

	if fc <= 0 || fc >= 0.5 {
		return prototype{}, fmt.Errorf("resample: cutoff must be in (0, 0.5): %f", fc)
	}

	taps := make([]float64, n)
	center := 0.5 * float64(n-1)

	var sum float64
	for i := range taps {
		t := float64(i) - center
		taps[i] = 2 * fc * sinc(2*fc*t) * kaiser(i, n, cfg.kaiserBeta)
		sum += taps[i]
	}

	if sum == 0 {
		return prototype{}, errors.New("resample: designed zero-sum filter")
	}

	scale := float64(up) / sum
	for i := range taps {
		taps[i] *= scale
	}

	p := prototype{
		taps:   taps,
		phases: make([][]float64, up),
	}

	for ph := range up {
		branch := make([]float64, 0, (n-ph+up-1)/up)
		for i := ph; i < n; i += up {
			branch = append(branch, taps[i])
		}

		p.phases[ph] = branch
		p.maxPhase = max(p.maxPhase, len(branch))
	}

	return p, nil
}

// approximateRatio finds num/den close to v with den <= maxDen using
// continued fractions.
func approximateRatio(v float64, maxDen int) (num, den int) {
	if maxDen <= 0 {
		maxDen = defaultMaxDenominator
	}

	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 1, 1
	}

	p0, q0 := 1.0, 0.0
	p1, q1 := math.Floor(v), 1.0

	for x := v; ; {
		frac := x - math.Floor(x)
		if frac == 0 {
			break
		}

		x = 1 / frac
		a := math.Floor(x)

		p2, q2 := a*p1+p0, a*q1+q0
		if q2 > float64(maxDen) {
			break
		}

		p0, q0, p1, q1 = p1, q1, p2, q2
	}

	num, den = int(math.Round(p1)), int(math.Round(q1))
	if num <= 0 || den <= 0 {
		return 1, 1
	}

	g := gcd(num, den)

	return num / g, den / g
}

func gcd(a, b int) int {
	if a < 0 {
		a = -a
	}

	if b < 0 {
		b = -b
	}

	for b != 0 {
		a, b = b, a%b
	}

	if a == 0 {
		return 1
	}

	return a
}

func sinc(x float64) float64 {
	if math.Abs(x) < 1e-12 {
		return 1
	}

	return math.Sin(math.Pi*x) / (math.Pi * x)
}

func kaiser(i, n int, beta float64) float64 {
	if n <= 1 || beta == 0 {
		return 1
	}

	t := 2*float64(i)/float64(n-1) - 1

	return besselI0(beta*math.Sqrt(math.Max(0, 1-t*t))) / besselI0(beta)
}

// besselI0 evaluates the zeroth-order modified Bessel function by its power
// series.
func besselI0(x float64) float64 {
	sum, term := 1.0, 1.0
	q := x * x / 4

	for k := 1; k < 64; k++ {
		term *= q / float64(k*k)
		sum += term

		if term < 1e-16*sum {
			break
		}
	}

	return sum
}
