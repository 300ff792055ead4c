package core

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned by ProcessorConfig.Validate.
var ErrInvalidConfig = errors.New("core: invalid processor config")

// ProcessorConfig is the stream contract agreed with the host at Prepare:
// the native sample rate and the largest block one Process call may carry.
type ProcessorConfig struct {
	SampleRate   float64
	MaxBlockSize int
}

// ProcessorOption adjusts a ProcessorConfig. Options ignore non-positive
// values.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig is 48 kHz with 512-sample blocks.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{SampleRate: 48000, MaxBlockSize: 512}
}

// WithSampleRate sets the native sample rate.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithMaxBlockSize sets the largest block size.
func WithMaxBlockSize(blockSize int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if blockSize > 0 {
			cfg.MaxBlockSize = blockSize
		}
	}
}

// ApplyProcessorOptions starts from DefaultProcessorConfig and applies opts
// in order. Nil options are skipped.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}

// Oversampled returns the contract seen by stages running factor times
// faster than the host: both the rate and the block size scale.
func (c ProcessorConfig) Oversampled(factor int) ProcessorConfig {
	return ProcessorConfig{
		SampleRate:   c.SampleRate * float64(factor),
		MaxBlockSize: c.MaxBlockSize * factor,
	}
}

// Validate checks that the sample rate is finite and positive and that the
// block size is at least one sample.
func (c ProcessorConfig) Validate() error {
	if c.SampleRate <= 0 || !IsFinite(c.SampleRate) {
		return fmt.Errorf("%w: sample rate must be > 0 and finite: %v", ErrInvalidConfig, c.SampleRate)
	}

	if c.MaxBlockSize <= 0 {
		return fmt.Errorf("%w: max block size must be > 0: %d", ErrInvalidConfig, c.MaxBlockSize)
	}

	return nil
}
