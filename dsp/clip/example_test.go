package clip_test

import (
	"fmt"

	"github.com/cwbudde/algo-overdrive/dsp/clip"
)

func ExampleDiodePair_Solve() {
	pair := clip.NewDiodePair()

	fmt.Printf("%.3f %.3f\n", pair.Solve(0), pair.Solve(1))
	fmt.Println(pair.Solve(-1) == -pair.Solve(1))
	// Output:
	// 0.000 0.975
	// true
}

func ExampleNewClipper() {
	c, err := clip.NewClipper(clip.WithClipperMode(clip.ModeExponential))
	if err != nil {
		panic(err)
	}

	fmt.Printf("%.2f %s\n", c.ProcessSample(0.1), c.Mode())
	// Output: 0.30 exponential
}
