package main

import (
	"fmt"

	"github.com/cwbudde/algo-overdrive/dsp/pedal"
)

type paramsCmd struct{}

func (paramsCmd) Run() error {
	fmt.Println(titleStyle.Render("overdrive parameters"))
	fmt.Println(paramsTable(pedal.Params()))

	return nil
}
