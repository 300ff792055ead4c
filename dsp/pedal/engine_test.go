package pedal

import (
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/cwbudde/algo-overdrive/dsp/clip"
	"github.com/cwbudde/algo-overdrive/dsp/core"
	"github.com/cwbudde/algo-overdrive/dsp/resample"
	"github.com/cwbudde/algo-overdrive/dsp/tonestack"
	"github.com/cwbudde/algo-overdrive/internal/testutil"
	"github.com/cwbudde/algo-overdrive/measure/harmonics"
)

func newPrepared(t testing.TB, sampleRate float64, block int, opts ...Option) *Engine {
	t.Helper()

	e, err := New(opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := e.Prepare(sampleRate, block); err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	return e
}

// render runs signal through e in blocks of size block with fixed controls.
func render(e *Engine, signal []float64, block int, c Controls) []float64 {
	out := append([]float64(nil), signal...)
	for start := 0; start < len(out); start += block {
		end := min(start+block, len(out))
		e.Process(out[start:end], c)
	}

	return out
}

func mustPanic(t *testing.T, name string, fn func()) any {
	t.Helper()

	var got any

	func() {
		defer func() { got = recover() }()
		fn()
	}()

	if got == nil {
		t.Fatalf("%s did not panic", name)
	}

	return got
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name    string
		opt     Option
		wantErr bool
	}{
		{name: "defaults", opt: nil},
		{name: "oversampling 1", opt: WithOversampling(1)},
		{name: "oversampling 16", opt: WithOversampling(16)},
		{name: "oversampling 3", opt: WithOversampling(3), wantErr: true},
		{name: "oversampling 0", opt: WithOversampling(0), wantErr: true},
		{name: "quality best", opt: WithQuality(resample.QualityBest)},
		{name: "quality invalid", opt: WithQuality(resample.Quality(9)), wantErr: true},
		{name: "clipper tanh", opt: WithClipper(clip.ModeTanh)},
		{name: "clipper opamp", opt: WithClipper(clip.ModeOpAmp)},
		{name: "clipper invalid", opt: WithClipper(clip.Mode(7)), wantErr: true},
		{name: "series resistance", opt: WithSeriesResistance(4700)},
		{name: "series resistance negative", opt: WithSeriesResistance(-1), wantErr: true},
		{name: "taper", opt: WithTaper(tonestack.TaperLinear)},
		{name: "taper nil", opt: WithTaper(nil), wantErr: true},
		{name: "input high-pass", opt: WithInputHighPass(100)},
		{name: "input high-pass zero", opt: WithInputHighPass(0), wantErr: true},
		{name: "pre-clip low-pass NaN", opt: WithPreClipLowPass(math.NaN()), wantErr: true},
		{name: "pre-tone low-pass", opt: WithPreToneLowPass(5000)},
		{name: "output high-pass too high", opt: WithOutputHighPass(1e6), wantErr: true},
		{name: "limiter", opt: WithLimiter(-1, 100)},
		{name: "limiter threshold positive", opt: WithLimiter(1, 100), wantErr: true},
		{name: "limiter release zero", opt: WithLimiter(-1, 0), wantErr: true},
		{name: "ramp time", opt: WithRampTime(0.01)},
		{name: "ramp time negative", opt: WithRampTime(-1), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := New(tt.opt)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}

			if !tt.wantErr && e == nil {
				t.Fatal("New() returned nil engine")
			}
		})
	}
}

func TestPrepareValidation(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := e.Prepare(0, 512); err == nil {
		t.Fatal("expected error for zero sample rate")
	}

	if err := e.Prepare(48000, 0); err == nil {
		t.Fatal("expected error for zero block size")
	}

	if e.Prepared() {
		t.Fatal("engine reports prepared after failed Prepare")
	}

	if err := e.Prepare(48000, 256); err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	if !e.Prepared() || e.SampleRate() != 48000 || e.MaxBlockSize() != 256 {
		t.Fatalf("prepared=%v rate=%g block=%d", e.Prepared(), e.SampleRate(), e.MaxBlockSize())
	}
}

func TestLatency(t *testing.T) {
	tests := []struct {
		factor  int
		latency float64
		samples int
	}{
		{factor: 1, latency: 0, samples: 0},
		{factor: 2, latency: 31.5, samples: 32},
		{factor: 8, latency: 31.875, samples: 32},
	}

	for _, tt := range tests {
		e := newPrepared(t, 44100, 128, WithOversampling(tt.factor))

		if e.Oversampling() != tt.factor {
			t.Fatalf("Oversampling() = %d, want %d", e.Oversampling(), tt.factor)
		}

		if e.Latency() != tt.latency || e.LatencySamples() != tt.samples {
			t.Fatalf("factor %d: latency = %g (%d), want %g (%d)",
				tt.factor, e.Latency(), e.LatencySamples(), tt.latency, tt.samples)
		}
	}
}

func TestSineAtMinusTwelveStaysUnderCeiling(t *testing.T) {
	const (
		sampleRate = 44100.0
		block      = 512
	)

	e := newPrepared(t, sampleRate, block)
	in := testutil.SineDBFS(1000, sampleRate, -12, int(sampleRate))
	out := render(e, in, block, Controls{Tone: 0.5, DriveDB: 0})

	testutil.RequireFinite(t, out)
	testutil.RequireBounded(t, out, core.DBToLinear(-0.3))

	if peak := core.Peak(out[len(out)/2:]); peak < 0.01 {
		t.Fatalf("output nearly silent: peak %g", peak)
	}
}

func TestFullDriveFullScaleBounded(t *testing.T) {
	const (
		sampleRate = 48000.0
		block      = 256
	)

	e := newPrepared(t, sampleRate, block)
	in := testutil.DeterministicSine(440, sampleRate, 1, int(sampleRate/2))

	for _, tone := range []float64{0, 0.5, 1} {
		out := render(e, in, block, Controls{Tone: tone, DriveDB: 30})

		testutil.RequireFinite(t, out)
		testutil.RequireBounded(t, out, e.Limiter().Ceiling())
	}
}

func TestOpAmpClipperBoundedAndReset(t *testing.T) {
	const (
		sampleRate = 48000.0
		block      = 256
	)

	e := newPrepared(t, sampleRate, block, WithClipper(clip.ModeOpAmp), WithOversampling(2))
	in := testutil.DeterministicSine(440, sampleRate, 1, int(sampleRate/4))

	out := render(e, in, block, Controls{Tone: 0.5, DriveDB: 30})
	testutil.RequireFinite(t, out)
	testutil.RequireBounded(t, out, e.Limiter().Ceiling())

	e.Release()
	if err := e.Prepare(sampleRate, block); err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	silence := render(e, make([]float64, 2048), block, Controls{Tone: 0.5, DriveDB: 30})
	for i, v := range silence {
		if v != 0 {
			t.Fatalf("out[%d] = %g after re-prepare, want 0", i, v)
		}
	}
}

func TestSilenceInSilenceOut(t *testing.T) {
	e := newPrepared(t, 48000, 512)
	out := render(e, make([]float64, 4096), 512, Controls{Tone: 1, DriveDB: 30})

	for i, v := range out {
		if v != 0 {
			t.Fatalf("out[%d] = %g, want 0", i, v)
		}
	}
}

func TestToneSweepIsClickFree(t *testing.T) {
	const (
		sampleRate = 44100.0
		block      = 256
		warmup     = 80
		sweep      = 100
	)

	in := testutil.SineDBFS(220, sampleRate, -30, (warmup+sweep+20)*block)

	var steady float64

	for _, tone := range []float64{0, 0.25, 0.5, 0.75, 1} {
		e := newPrepared(t, sampleRate, block)
		out := render(e, in[:(warmup+40)*block], block, Controls{Tone: tone})
		steady = math.Max(steady, testutil.MaxStep(out[warmup*block:]))
	}

	e := newPrepared(t, sampleRate, block)
	out := append([]float64(nil), in...)

	for b := 0; b*block < len(out); b++ {
		tone := 0.0
		if b >= warmup {
			tone = math.Min(float64(b-warmup)/float64(sweep-1), 1)
		}

		e.Process(out[b*block:(b+1)*block], Controls{Tone: tone})
	}

	testutil.RequireFinite(t, out)

	got := testutil.MaxStep(out[warmup*block:])
	if limit := 1.5*steady + 1e-6; got > limit {
		t.Fatalf("max step during sweep %g exceeds %g (steady %g)", got, limit, steady)
	}
}

func TestRepeatedPrepareIsDeterministic(t *testing.T) {
	const block = 128

	e := newPrepared(t, 44100, block)
	bass0, treble0 := e.ToneCoefficients()
	in := testutil.DeterministicNoise(3, 0.5, 16*block)
	first := render(e, in, block, Controls{Tone: 0.8, DriveDB: 12})

	render(e, in, block, Controls{Tone: 0.1, DriveDB: 30})

	if err := e.Prepare(44100, block); err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	bass1, treble1 := e.ToneCoefficients()
	if bass0 != bass1 || treble0 != treble1 {
		t.Fatalf("coefficients differ after re-prepare: %+v/%+v vs %+v/%+v", bass0, treble0, bass1, treble1)
	}

	if c := e.Controls(); c != DefaultControls() {
		t.Fatalf("Controls() after Prepare = %+v, want defaults", c)
	}

	second := render(e, in, block, Controls{Tone: 0.8, DriveDB: 12})
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("sample %d differs after re-prepare: %g vs %g", i, first[i], second[i])
		}
	}
}

func TestControlsAreSanitized(t *testing.T) {
	e := newPrepared(t, 48000, 64)
	buf := testutil.DeterministicSine(1000, 48000, 0.5, 64)

	e.Process(buf, Controls{Tone: 0.3, DriveDB: 10})

	if got := e.Controls(); got.Tone != 0.3 || got.DriveDB != 10 {
		t.Fatalf("Controls() = %+v", got)
	}

	e.Process(buf, Controls{Tone: math.NaN(), DriveDB: math.NaN()})

	if got := e.Controls(); got.Tone != 0.3 || got.DriveDB != 10 {
		t.Fatalf("NaN controls changed state: %+v", got)
	}

	e.Process(buf, Controls{Tone: math.Inf(1), DriveDB: math.Inf(-1)})

	if got := e.Controls(); got.Tone != 1 || got.DriveDB != 0 {
		t.Fatalf("infinite controls not clamped: %+v", got)
	}

	if e.Tone() != tonestack.Taper(1) {
		t.Fatalf("Tone() = %g, want %g", e.Tone(), tonestack.Taper(1))
	}

	e.Process(buf, Controls{Tone: -3, DriveDB: 99})

	if got := e.Controls(); got.Tone != 0 || got.DriveDB != 30 {
		t.Fatalf("out-of-range controls not clamped: %+v", got)
	}

	testutil.RequireFinite(t, buf)
}

func TestToneShelvesFollowTaper(t *testing.T) {
	e := newPrepared(t, 48000, 64, WithTaper(tonestack.TaperLinear))
	e.Process(make([]float64, 64), Controls{Tone: 0.25})

	bass, treble := e.Shelves()
	wantBass, wantTreble := tonestack.Map(0.25)

	if e.Tone() != 0.25 || bass != wantBass || treble != wantTreble {
		t.Fatalf("tone %g shelves %+v %+v, want %+v %+v", e.Tone(), bass, treble, wantBass, wantTreble)
	}
}

func TestOversamplingLowersAliasing(t *testing.T) {
	const (
		sampleRate = 48000.0
		block      = 512
		fftSize    = 8192
		warmup     = 4096
	)

	// Bin-centred fundamental whose aliases miss the harmonic bins.
	f0 := 437 * sampleRate / fftSize
	in := testutil.SineDBFS(f0, sampleRate, -6, warmup+fftSize)
	cfg := harmonics.Config{SampleRate: sampleRate, FundamentalHz: f0, FFTSize: fftSize}
	controls := Controls{Tone: 0, DriveDB: 30}

	ratio := func(factor int) float64 {
		e := newPrepared(t, sampleRate, block, WithOversampling(factor))
		out := render(e, in, block, controls)
		testutil.RequireFinite(t, out)

		return harmonics.Analyze(out[warmup:], cfg).AliasRatioDB
	}

	native := ratio(1)
	oversampled := ratio(8)

	if oversampled > native-20 {
		t.Fatalf("alias ratio %.1f dB at 8x, %.1f dB at 1x", oversampled, native)
	}
}

func TestProcessPanics(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	got := mustPanic(t, "unprepared Process", func() { e.Process(make([]float64, 8), DefaultControls()) })
	if got != ErrNotPrepared {
		t.Fatalf("panic value = %v, want ErrNotPrepared", got)
	}

	if err := e.Prepare(48000, 32); err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	mustPanic(t, "oversize Process", func() { e.Process(make([]float64, 33), DefaultControls()) })

	e.Release()

	if e.Prepared() {
		t.Fatal("Prepared() = true after Release")
	}

	mustPanic(t, "released Process", func() { e.Process(make([]float64, 8), DefaultControls()) })
}

func TestProcessEmptyBlock(t *testing.T) {
	e := newPrepared(t, 48000, 32)
	e.Process(nil, Controls{Tone: math.NaN()})
}

func TestProcessDoesNotAllocate(t *testing.T) {
	e := newPrepared(t, 48000, 256)
	buf := testutil.DeterministicSine(440, 48000, 0.5, 256)
	state := NewControlState()
	state.Store(Controls{Tone: 0.7, DriveDB: 20})

	allocs := testing.AllocsPerRun(50, func() {
		e.ProcessFromState(buf, state)
	})

	if allocs != 0 {
		t.Fatalf("Process allocated %.1f times per block", allocs)
	}
}

func TestConcurrentControlWrites(t *testing.T) {
	const block = 128

	e := newPrepared(t, 48000, block)
	state := NewControlState()
	buf := make([]float64, block)
	done := make(chan struct{})

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()

		for i := 0; ; i++ {
			select {
			case <-done:
				return
			default:
			}

			state.StoreTone(float64(i%1000) / 1000)
			state.StoreDrive(float64(i % 31))
		}
	}()

	for i := range 200 {
		copy(buf, testutil.DeterministicSine(330, 48000, 0.8, block))
		e.ProcessFromState(buf, state)

		if i%50 == 0 {
			testutil.RequireBounded(t, buf, e.Limiter().Ceiling())
		}
	}

	close(done)
	wg.Wait()

	testutil.RequireFinite(t, buf)
}

func BenchmarkEngineProcess(b *testing.B) {
	for _, factor := range []int{1, 8} {
		b.Run(fmt.Sprintf("%dx", factor), func(b *testing.B) {
			e := newPrepared(b, 48000, 512, WithOversampling(factor))
			buf := testutil.DeterministicSine(440, 48000, 0.5, 512)
			c := Controls{Tone: 0.5, DriveDB: 15}

			b.ReportAllocs()
			b.SetBytes(int64(len(buf) * 8))
			b.ResetTimer()

			for range b.N {
				e.Process(buf, c)
			}
		})
	}
}
