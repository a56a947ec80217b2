package audioprep

import (
	"fmt"
	"math"
	"time"

	"github.com/tphakala/go-audio-prep/internal/loudness"
	"github.com/tphakala/go-audio-prep/internal/simdops"
)

// LoudnessStats is a snapshot of everything the loudness meter measures.
// Loudness values are in LUFS and are -Inf until a full window has been
// measured.
type LoudnessStats struct {
	Momentary  float64
	ShortTerm  float64
	Integrated float64

	// LoudnessRange is in LU; 0 until enough audio has been measured.
	LoudnessRange float64

	// SamplePeak and TruePeak are linear, one value per channel.
	SamplePeak []float64
	TruePeak   []float64

	// Duration is the amount of audio measured.
	Duration time.Duration
}

// Measured reports whether an integrated loudness reading is available.
func (s LoudnessStats) Measured() bool {
	return !math.IsInf(s.Integrated, -1)
}

// MaxTruePeakDB returns the largest true peak over all channels in dBTP.
func (s LoudnessStats) MaxTruePeakDB() float64 {
	var peak float64
	for _, p := range s.TruePeak {
		peak = math.Max(peak, p)
	}
	if peak == 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(peak)
}

// NormalizerOption configures a Normalizer.
type NormalizerOption func(*normalizerConfig)

type normalizerConfig struct {
	target      float64
	passthrough bool
}

// WithTargetLoudness sets the integrated loudness to normalize to, in LUFS.
// The default is TargetLoudness.
func WithTargetLoudness(lufs float64) NormalizerOption {
	return func(cfg *normalizerConfig) {
		cfg.target = lufs
	}
}

// WithPassthroughWhenUnmeasured makes NormalizeLoudness return an unchanged
// copy of its input instead of ErrMeasurement while no loudness reading is
// available yet.
func WithPassthroughWhenUnmeasured() NormalizerOption {
	return func(cfg *normalizerConfig) {
		cfg.passthrough = true
	}
}

// Normalizer rescales audio to a target integrated loudness.
//
// The measurement accumulates over every sample passed to NormalizeLoudness
// since construction or the last Reset, so the gain applied to a buffer
// depends on all audio fed before it, not just on that buffer. Feeding the
// same buffer twice may therefore apply two different gains. Use
// NormalizeBlock to normalize a buffer on its own.
//
// A Normalizer is not safe for concurrent use.
type Normalizer struct {
	meter    *loudness.Meter
	channels int
	rate     int
	frames   int64
	cfg      normalizerConfig
}

// NewNormalizer creates a normalizer for interleaved audio with the given
// layout. channels must be 1 or 2 and sampleRate within
// [MinNormalizerRate, MaxNormalizerRate].
func NewNormalizer(channels, sampleRate uint32, opts ...NormalizerOption) (*Normalizer, error) {
	cfg := normalizerConfig{target: TargetLoudness}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if !(cfg.target >= minTargetLoudness && cfg.target <= maxTargetLoudness) {
		return nil, fmt.Errorf("%w: target loudness %.1f LUFS outside [%.0f, %.0f]",
			ErrConfig, cfg.target, minTargetLoudness, maxTargetLoudness)
	}
	if channels < monoChannels || channels > stereoChannels {
		return nil, fmt.Errorf("%w: channel count %d not supported (1 or 2)", ErrConfig, channels)
	}
	if sampleRate < MinNormalizerRate || sampleRate > MaxNormalizerRate {
		return nil, fmt.Errorf("%w: sample rate %d outside [%d, %d]",
			ErrConfig, sampleRate, MinNormalizerRate, MaxNormalizerRate)
	}

	meter, err := loudness.NewMeter(int(channels), int(sampleRate), loudness.ModeAll)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	return &Normalizer{
		meter:    meter,
		channels: int(channels),
		rate:     int(sampleRate),
		cfg:      cfg,
	}, nil
}

// NormalizeLoudness adds samples to the running measurement, then returns a
// copy of samples scaled so that the integrated loudness measured so far
// would hit the target. Every output sample is clamped to [-1, 1].
//
// Stereo input is interleaved; its length must be a multiple of the
// channel count. Until a 400 ms block passes the loudness gates the call
// fails with ErrMeasurement, unless the Normalizer was built with
// WithPassthroughWhenUnmeasured.
func (n *Normalizer) NormalizeLoudness(samples []float32) ([]float32, error) {
	if err := n.addFrames(samples); err != nil {
		return nil, err
	}

	measured := n.meter.Integrated()
	if math.IsInf(measured, -1) {
		if n.cfg.passthrough {
			out := make([]float32, len(samples))
			copy(out, samples)
			return out, nil
		}
		return nil, fmt.Errorf("%w: no gated block after %v of audio", ErrMeasurement, n.duration())
	}

	gain := float32(math.Pow(10, float64(float32((n.cfg.target-measured)/20))))
	if math.IsNaN(float64(gain)) || math.IsInf(float64(gain), 0) {
		return nil, fmt.Errorf("%w: gain for measured loudness %.2f LUFS is not finite", ErrProcessing, measured)
	}

	out := make([]float32, len(samples))
	simdops.ScaleClamp(out, samples, gain, clampMin, clampMax)
	return out, nil
}

// Stats returns the current measurements.
func (n *Normalizer) Stats() LoudnessStats {
	return statsOf(n.meter, n.duration())
}

// Reset discards the accumulated measurement.
func (n *Normalizer) Reset() {
	n.meter.Reset()
	n.frames = 0
}

// Target returns the target loudness in LUFS.
func (n *Normalizer) Target() float64 {
	return n.cfg.target
}

// addFrames feeds the meter. Buffers with partial frames or non-finite
// samples are rejected whole so the accumulated measurement stays valid.
func (n *Normalizer) addFrames(samples []float32) error {
	if len(samples)%n.channels != 0 {
		return fmt.Errorf("%w: %d samples do not form whole %d-channel frames",
			ErrInvalidInput, len(samples), n.channels)
	}
	for i, s := range samples {
		if math.IsNaN(float64(s)) || math.IsInf(float64(s), 0) {
			return fmt.Errorf("%w: non-finite sample at index %d", ErrInvalidInput, i)
		}
	}

	if err := n.meter.AddFrames(samples); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	n.frames += int64(len(samples) / n.channels)
	return nil
}

// duration splits whole seconds from the remainder so long sessions
// cannot overflow.
func (n *Normalizer) duration() time.Duration {
	rate := int64(n.rate)
	whole := time.Duration(n.frames/rate) * time.Second
	return whole + time.Duration(n.frames%rate)*time.Second/time.Duration(rate)
}

// NormalizeBlock normalizes one buffer using loudness measured on that
// buffer alone. It never shares state with other calls.
func NormalizeBlock(samples []float32, channels, sampleRate uint32, opts ...NormalizerOption) ([]float32, error) {
	n, err := NewNormalizer(channels, sampleRate, opts...)
	if err != nil {
		return nil, err
	}
	return n.NormalizeLoudness(samples)
}

// Measure returns loudness statistics of one buffer without modifying it.
func Measure(samples []float32, channels, sampleRate uint32) (LoudnessStats, error) {
	n, err := NewNormalizer(channels, sampleRate)
	if err != nil {
		return LoudnessStats{}, err
	}
	if err := n.addFrames(samples); err != nil {
		return LoudnessStats{}, err
	}
	return n.Stats(), nil
}

func statsOf(m *loudness.Meter, d time.Duration) LoudnessStats {
	return LoudnessStats{
		Momentary:     m.Momentary(),
		ShortTerm:     m.ShortTerm(),
		Integrated:    m.Integrated(),
		LoudnessRange: m.LoudnessRange(),
		SamplePeak:    m.SamplePeaks(),
		TruePeak:      m.TruePeaks(),
		Duration:      d,
	}
}
