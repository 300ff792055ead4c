package harmonics

import (
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-overdrive/dsp/core"
	"github.com/cwbudde/algo-overdrive/dsp/window"
)

const (
	defaultMaxHarmonics = 10
	defaultCaptureBins  = 2 // Hann main lobe half-width
	dcGuardBins         = 3
)

// Config holds analysis parameters.
type Config struct {
	SampleRate    float64
	FundamentalHz float64
	FFTSize       int // 0 picks the next power of two >= len(signal)
	MaxHarmonics  int // highest harmonic order counted, 0 means 10
	CaptureBins   int // bins summed on each side of a peak, 0 means 2
}

// Result holds the measurement. Levels are amplitude ratios unless the name
// says otherwise.
type Result struct {
	FundamentalHz    float64
	FundamentalLevel float64
	THD              float64
	THDdB            float64
	Harmonics        []float64 // level of harmonic k+2 relative to the fundamental
	AliasPower       float64   // non-harmonic power relative to the fundamental power
	AliasRatioDB     float64
}

// Analyze measures signal. It returns the zero Result when the configuration
// or the signal cannot be analyzed.
func Analyze(signal []float64, cfg Config) Result {
	if len(signal) < 2 || !(cfg.SampleRate > 0) || !(cfg.FundamentalHz > 0) {
		return Result{}
	}

	cfg = normalize(cfg, len(signal))
	if cfg.FFTSize < len(signal) {
		return Result{}
	}

	power, ok := powerSpectrum(signal, cfg.FFTSize)
	if !ok {
		return Result{}
	}

	binHz := cfg.SampleRate / float64(cfg.FFTSize)
	maxBin := len(power) - 1

	fundamentalBin := int(math.Round(cfg.FundamentalHz / binHz))
	if fundamentalBin <= cfg.CaptureBins || fundamentalBin+cfg.CaptureBins > maxBin {
		return Result{}
	}

	used := make([]bool, len(power))
	for i := 0; i <= dcGuardBins && i <= maxBin; i++ {
		used[i] = true
	}

	fundamental := collect(power, used, fundamentalBin, cfg.CaptureBins)
	if fundamental <= 0 {
		return Result{FundamentalHz: float64(fundamentalBin) * binHz}
	}

	res := Result{
		FundamentalHz:    float64(fundamentalBin) * binHz,
		FundamentalLevel: math.Sqrt(fundamental),
		Harmonics:        make([]float64, 0, cfg.MaxHarmonics-1),
	}

	harmonicPower := 0.0

	for k := 2; k <= cfg.MaxHarmonics; k++ {
		bin := k * fundamentalBin
		if bin > maxBin {
			break
		}

		p := collect(power, used, bin, cfg.CaptureBins)
		harmonicPower += p
		res.Harmonics = append(res.Harmonics, math.Sqrt(p/fundamental))
	}

	residual := 0.0
	for i, p := range power {
		if !used[i] {
			residual += p
		}
	}

	res.THD = math.Sqrt(harmonicPower / fundamental)
	res.THDdB = core.LinearToDB(res.THD)
	res.AliasPower = residual / fundamental
	res.AliasRatioDB = core.PowerToDB(res.AliasPower)

	return res
}

func normalize(cfg Config, n int) Config {
	if cfg.FFTSize <= 0 {
		cfg.FFTSize = nextPowerOf2(n)
	}

	if cfg.MaxHarmonics <= 1 {
		cfg.MaxHarmonics = defaultMaxHarmonics
	}

	if cfg.CaptureBins <= 0 {
		cfg.CaptureBins = defaultCaptureBins
	}

	return cfg
}

// powerSpectrum returns |X[k]|^2 for k in [0, n/2] of the Hann-windowed,
// zero-padded signal.
func powerSpectrum(signal []float64, n int) ([]float64, bool) {
	coeffs, err := window.Hann(len(signal))
	if err != nil {
		return nil, false
	}

	windowed, err := window.ApplyCoefficients(signal, coeffs)
	if err != nil {
		return nil, false
	}

	in := make([]complex128, n)
	for i, v := range windowed {
		in[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, false
	}

	out := make([]complex128, n)
	if err := plan.Forward(out, in); err != nil {
		return nil, false
	}

	bins := n/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)

	for i := range bins {
		re[i] = real(out[i])
		im[i] = imag(out[i])
	}

	power := make([]float64, bins)
	vecmath.Power(power, re, im)

	return power, true
}

// collect sums the not yet claimed power within width bins of center and
// claims those bins.
func collect(power []float64, used []bool, center, width int) float64 {
	lo := max(center-width, 0)
	hi := min(center+width, len(power)-1)

	sum := 0.0
	for i := lo; i <= hi; i++ {
		if !used[i] {
			sum += power[i]
			used[i] = true
		}
	}

	return sum
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
