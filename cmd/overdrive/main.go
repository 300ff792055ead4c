// Command overdrive runs signals through the overdrive engine.
//
// Usage:
//
//	overdrive <command> [flags]
//
// Commands:
//
//	render  process a synthesized sine offline and print level and
//	        distortion statistics
//	play    stream a sine or a short riff through the engine to the sound card
//	params  list the control parameters
//
// Examples:
//
//	overdrive render --drive 24 --tone 0.7
//	overdrive render --oversampling 1 --freq 2500 --drive 30
//	overdrive play --riff --drive 20 --sweep 4
//	overdrive params
package main

import (
	"log"

	"github.com/alecthomas/kong"
)

var version = "0.1.0"

// CLI defines the command-line interface.
type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version information"`

	Render renderCmd `cmd:"" help:"Process a sine offline and print statistics"`
	Play   playCmd   `cmd:"" help:"Stream through the engine to the sound card"`
	Params paramsCmd `cmd:"" help:"List control parameters"`
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("overdrive: ")

	var cli CLI

	ctx := kong.Parse(&cli,
		kong.Name("overdrive"),
		kong.Description("Digital overdrive pedal engine"),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)

	if err := ctx.Run(); err != nil {
		log.Fatal(err)
	}
}
