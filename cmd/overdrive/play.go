package main

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/cwbudde/algo-overdrive/dsp/pedal"
)

type playCmd struct {
	EngineFlags `embed:""`

	Rate       int     `default:"48000" help:"Device sample rate in Hz"`
	EngineRate float64 `help:"Engine sample rate in Hz, resampled to the device rate when different (default: device rate)"`
	Block      int     `default:"256" help:"Engine block size in samples"`
	Freq       float64 `default:"110" help:"Sine frequency in Hz"`
	Level      float64 `default:"-6" help:"Input level in dBFS"`
	Riff       bool    `help:"Play a riff instead of a sine"`
	Seconds    float64 `default:"10" help:"Playback length in seconds"`
	Tone       float64 `default:"0.5" help:"Tone knob position, 0 to 1"`
	Drive      float64 `default:"12" help:"Drive in dB, 0 to 30"`
	Sweep      float64 `default:"0" help:"Tone sweep period in seconds, 0 holds the tone"`
}

func (c *playCmd) Run() error {
	if c.Rate <= 0 || c.Block <= 0 {
		return fmt.Errorf("rate and block size must be > 0: %d, %d", c.Rate, c.Block)
	}

	deviceRate := float64(c.Rate)

	engineRate := c.EngineRate
	if engineRate <= 0 {
		engineRate = deviceRate
	}

	e, err := c.newEngine(engineRate, c.Block)
	if err != nil {
		return err
	}

	state := pedal.NewControlState()
	state.Store(pedal.Controls{Tone: c.Tone, DriveDB: c.Drive})

	var src source = newSine(c.Freq, c.Level, engineRate)
	if c.Riff {
		src = newRiff(c.Level, engineRate)
	}

	st, err := newStream(e, state, src, c.Block, engineRate, deviceRate)
	if err != nil {
		return err
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   c.Rate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return fmt.Errorf("open audio device: %w", err)
	}
	<-ready

	player := ctx.NewPlayer(st)
	defer player.Close()

	printPlay(c, e, engineRate)
	player.Play()

	stop := make(chan struct{})

	var wg sync.WaitGroup

	if c.Sweep > 0 {
		wg.Add(1)

		go func() {
			defer wg.Done()
			sweepTone(state, c.Sweep, stop)
		}()
	}

	err = waitPlayer(player, time.Duration(c.Seconds*float64(time.Second)))

	close(stop)
	wg.Wait()

	return err
}

func waitPlayer(player *oto.Player, d time.Duration) error {
	deadline := time.After(d)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			return player.Err()
		case <-ticker.C:
			if err := player.Err(); err != nil {
				return err
			}
		}
	}
}

// sweepTone moves the tone knob along a triangle of the given period until
// stop is closed.
func sweepTone(state *pedal.ControlState, periodSeconds float64, stop <-chan struct{}) {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	start := time.Now()

	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			state.StoreTone(triangle(now.Sub(start).Seconds() / periodSeconds))
		}
	}
}

// triangle maps phase (in cycles) to a 0 -> 1 -> 0 ramp.
func triangle(phase float64) float64 {
	frac := phase - math.Floor(phase)

	return 1 - math.Abs(2*frac-1)
}

func printPlay(c *playCmd, e *pedal.Engine, engineRate float64) {
	input := fmt.Sprintf("sine %.1f Hz", c.Freq)
	if c.Riff {
		input = "riff in E"
	}

	tone := fmt.Sprintf("%.3f", c.Tone)
	if c.Sweep > 0 {
		tone = fmt.Sprintf("sweep every %.1f s", c.Sweep)
	}

	fmt.Println(titleStyle.Render("overdrive play"))
	fmt.Println(field("input", "%s at %.1f dBFS", input, c.Level))
	fmt.Println(field("stream", "engine %.0f Hz, device %d Hz, %dx", engineRate, c.Rate, e.Oversampling()))
	fmt.Println(field("controls", "tone %s, drive %.1f dB", tone, c.Drive))
	fmt.Println(noteStyle.Render(fmt.Sprintf("playing %.1f s", c.Seconds)))
}
