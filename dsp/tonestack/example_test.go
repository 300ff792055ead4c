package tonestack_test

import (
	"fmt"

	"github.com/cwbudde/algo-overdrive/dsp/tonestack"
)

func ExampleMap() {
	bass, treble := tonestack.Map(tonestack.Taper(0.5))

	fmt.Printf("bass %.1f Hz x%.3f\n", bass.CutoffHz, bass.BoostFactor)
	fmt.Printf("treble %.1f Hz x%.3f\n", treble.CutoffHz, treble.BoostFactor)
	// Output:
	// bass 37.6 Hz x0.052
	// treble 325.9 Hz x0.450
}
