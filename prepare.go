package audioprep

import (
	"fmt"
	"math"
)

// Format describes the layout of an interleaved sample buffer.
type Format struct {
	SampleRate uint32
	Channels   uint16
}

// Validate checks that the format can be prepared.
func (f Format) Validate() error {
	if f.SampleRate == 0 {
		return fmt.Errorf("%w: sample rate must be positive", ErrConfig)
	}
	return validateChannels(f.Channels)
}

// PrepareConfig controls Prepare.
type PrepareConfig struct {
	// TargetRate is the output sample rate in Hz.
	TargetRate uint32

	// Normalize enables loudness normalization of the converted audio.
	Normalize bool

	// TargetLoudness is the normalization target in LUFS.
	TargetLoudness float64

	// PassthroughWhenUnmeasured leaves audio too short or too quiet to
	// measure unchanged instead of failing with ErrMeasurement.
	PassthroughWhenUnmeasured bool
}

// DefaultPrepareConfig returns the configuration for speech models:
// 16 kHz mono normalized to -23 LUFS.
func DefaultPrepareConfig() PrepareConfig {
	return PrepareConfig{
		TargetRate:                DefaultTargetRate,
		Normalize:                 true,
		TargetLoudness:            TargetLoudness,
		PassthroughWhenUnmeasured: true,
	}
}

// Validate checks if the configuration is valid.
func (c *PrepareConfig) Validate() error {
	if c.TargetRate == 0 {
		return fmt.Errorf("%w: target rate must be positive", ErrConfig)
	}

	if !c.Normalize {
		return nil
	}

	if c.TargetRate < MinNormalizerRate || c.TargetRate > MaxNormalizerRate {
		return fmt.Errorf("%w: cannot normalize at %d Hz (supported %d-%d)",
			ErrConfig, c.TargetRate, MinNormalizerRate, MaxNormalizerRate)
	}

	if math.IsNaN(c.TargetLoudness) || c.TargetLoudness < minTargetLoudness || c.TargetLoudness > maxTargetLoudness {
		return fmt.Errorf("%w: target loudness %.1f LUFS outside [%.0f, %.0f]",
			ErrConfig, c.TargetLoudness, minTargetLoudness, maxTargetLoudness)
	}

	return nil
}

// Prepare converts interleaved audio to mono at cfg.TargetRate and,
// if enabled, normalizes its loudness. Stereo is reduced first, then
// resampled in as many hops as needed, then normalized as one block.
func Prepare(samples []float32, in Format, cfg PrepareConfig) ([]float32, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	mono := samples
	if in.Channels == stereoChannels {
		var err error
		if mono, err = StereoToMono(samples); err != nil {
			return nil, err
		}
	}

	out, err := ResampleChain(mono, in.SampleRate, cfg.TargetRate, monoChannels)
	if err != nil {
		return nil, err
	}

	if !cfg.Normalize {
		return out, nil
	}

	opts := []NormalizerOption{WithTargetLoudness(cfg.TargetLoudness)}
	if cfg.PassthroughWhenUnmeasured {
		opts = append(opts, WithPassthroughWhenUnmeasured())
	}
	return NormalizeBlock(out, monoChannels, cfg.TargetRate, opts...)
}
