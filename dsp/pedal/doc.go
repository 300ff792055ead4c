// Package pedal is the overdrive engine: it runs one mono stream through
//
//	upsample -> input HP -> pre-clip LP -> drive -> clipper -> pre-tone LP
//	-> tone stack -> output HP -> limiter -> downsample
//
// once per block, with two controls (tone and drive) read at the start of
// each block.
//
// Engine follows a prepare/process lifecycle. Prepare sizes every buffer and
// designs every filter; Process never allocates, locks or blocks, and panics
// on misuse (calling it unprepared or with a block larger than prepared).
// Controls written from another goroutine go through ControlState, which
// hands them over with atomic loads and stores.
package pedal
