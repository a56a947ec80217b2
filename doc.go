// Package audioprep prepares audio for speech analysis and transcription
// in pure Go: it converts a signal to a canonical sample rate and channel
// layout, then stabilizes its perceived loudness.
//
// # Features
//
//   - Windowed-sinc resampling with a 256-tap squared Blackman-Harris kernel
//   - Chained resampling for ratios beyond 2x in either direction
//   - Stereo to mono reduction
//   - EBU R128 / ITU-R BS.1770-4 loudness measurement and normalization
//   - Optional SIMD acceleration (AVX2/SSE/NEON) via github.com/tphakala/simd
//
// # Quick Start
//
// For the whole preparation pipeline:
//
//	out, err := audioprep.Prepare(samples,
//	    audioprep.Format{SampleRate: 48000, Channels: 2},
//	    audioprep.DefaultPrepareConfig(),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// The components can also be used on their own:
//
//	mono, err := audioprep.StereoToMono(interleaved)
//	resampled, err := audioprep.Resample(mono, 32000, 16000, 1)
//
//	n, err := audioprep.NewNormalizer(1, 16000)
//	normalized, err := n.NormalizeLoudness(resampled)
//
// # Resampling
//
// [Resample] performs a single conversion whose ratio lies within
// [MaxRatioRelative] in either direction. Output sample j is placed exactly
// at input position j·from/to and the output holds floor(n·to/from)
// samples; the buffer edges are treated as silence. Equal rates return an
// exact copy. [ResampleChain] plans intermediate integer rates for larger
// conversions such as 96 kHz to 8 kHz.
//
// # Loudness
//
// A [Normalizer] accumulates its measurement over every buffer it is given,
// as integrated loudness is defined over a whole programme. The gain applied
// to a buffer therefore depends on the audio fed before it.
// [NormalizeBlock] measures and normalizes a single buffer in isolation.
// Normalized samples are always clamped to [-1, 1].
//
// # Errors
//
// Every failure is returned as an error wrapping one of [ErrInvalidInput],
// [ErrConfig], [ErrMeasurement] or [ErrProcessing]. Nothing panics on bad
// input.
//
// # Thread Safety
//
// [Resampler] and [Normalizer] instances must not be used by multiple
// goroutines at once. The package-level functions are safe for concurrent use.
package audioprep
