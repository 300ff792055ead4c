package onepole_test

import (
	"fmt"

	"github.com/cwbudde/algo-overdrive/dsp/filter/onepole"
)

func ExampleShelf() {
	c := onepole.Shelf(300, 0.25, 48000)
	fmt.Printf("dc=%.2f hf=%.2f\n",
		onepole.Magnitude(c, 0, 48000),
		onepole.Magnitude(c, 24000, 48000))

	// Output:
	// dc=0.25 hf=1.00
}

func ExampleFilter_ProcessInPlace() {
	f := onepole.New(onepole.LowPass(1000, 48000))
	if err := f.Prepare(48000, 4); err != nil {
		panic(err)
	}

	buf := []float64{1, 1, 1, 1}
	f.ProcessInPlace(buf)
	fmt.Println(buf[3] > buf[0])

	// Output: true
}
