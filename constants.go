package audioprep

import (
	"github.com/tphakala/go-audio-prep/internal/loudness"
	"github.com/tphakala/go-audio-prep/internal/sinc"
)

// Window selects the taper applied to the resampler's sinc kernel.
type Window = sinc.Window

// Resampler design parameters.
const (
	// SincLength is the total kernel length in taps, centred on the
	// interpolation point (SincLength/2 input samples on each side).
	SincLength = 256

	// SincCutoff is the anti-aliasing cutoff relative to the Nyquist
	// frequency. When downsampling it is scaled by the conversion ratio.
	SincCutoff = 0.95

	// SincOversampling is the number of precomputed sub-sample phases.
	// Positions between two phases are linearly interpolated.
	SincOversampling = 256

	// WindowBlackmanHarris2 is the squared Blackman-Harris window.
	WindowBlackmanHarris2 = sinc.WindowBlackmanHarris2

	// SincWindow is the window used by the resampler.
	SincWindow = WindowBlackmanHarris2

	// MaxRatioRelative bounds the conversion ratio of a single resampler
	// in either direction. ResampleChain covers larger changes.
	MaxRatioRelative = 2.0
)

// Loudness normalization.
const (
	// TargetLoudness is the EBU R128 programme loudness target in LUFS.
	TargetLoudness = -23.0

	// minTargetLoudness is the lowest target accepted; anything quieter
	// would sit below the absolute gate of the meter.
	minTargetLoudness = -70.0
	maxTargetLoudness = 0.0

	clampMin = -1.0
	clampMax = 1.0
)

// Layout limits.
const (
	monoChannels   = 1
	stereoChannels = 2

	// MinNormalizerRate and MaxNormalizerRate bound the sample rates the
	// loudness meter accepts.
	MinNormalizerRate = loudness.MinSampleRate
	MaxNormalizerRate = loudness.MaxSampleRate
)
