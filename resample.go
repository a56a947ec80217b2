package audioprep

import (
	"fmt"
	"math"

	"github.com/tphakala/go-audio-prep/internal/pipeline"
	"github.com/tphakala/go-audio-prep/internal/sinc"
	"github.com/tphakala/simd/cpu"
)

// Resampler converts mono sample buffers between two fixed rates using
// windowed-sinc interpolation.
//
// Output sample j sits exactly at input position j·from/to, so the
// conversion adds no delay; samples beyond the buffer edges are treated
// as silence. Each call to Process is independent: a Resampler holds no
// state between calls and may be reused sequentially.
type Resampler struct {
	fromRate uint32
	toRate   uint32

	// interp is nil when both rates are equal.
	interp *sinc.Interpolator
	table  *sinc.Table
}

// Info describes a resampler's filter.
type Info struct {
	// FromRate and ToRate are the conversion rates in Hz.
	FromRate, ToRate uint32

	// FilterLength is the number of sinc taps per output sample.
	FilterLength int

	// Phases is the number of precomputed sub-sample phases.
	Phases int

	// Cutoff is the effective anti-aliasing cutoff relative to the
	// input Nyquist frequency.
	Cutoff float64

	// Window names the kernel window.
	Window string

	// SIMDType describes the SIMD instruction set in use.
	SIMDType string
}

// NewResampler creates a resampler from fromRate to toRate. The ratio
// toRate/fromRate must lie within [1/MaxRatioRelative, MaxRatioRelative].
func NewResampler(fromRate, toRate uint32) (*Resampler, error) {
	if fromRate == 0 || toRate == 0 {
		return nil, fmt.Errorf("%w: sample rates must be positive (from=%d, to=%d)", ErrConfig, fromRate, toRate)
	}

	r := &Resampler{fromRate: fromRate, toRate: toRate}
	if fromRate == toRate {
		return r, nil
	}

	ratio := r.Ratio()
	if float64(toRate) > float64(fromRate)*MaxRatioRelative || float64(fromRate) > float64(toRate)*MaxRatioRelative {
		return nil, fmt.Errorf("%w: ratio %d/%d (%.4f) outside [%.2f, %.2f]; use ResampleChain",
			ErrConfig, toRate, fromRate, ratio, 1/MaxRatioRelative, MaxRatioRelative)
	}

	table, err := sinc.NewTable(sinc.Params{
		Length:       SincLength,
		Oversampling: SincOversampling,
		Cutoff:       SincCutoff * math.Min(1, ratio),
		Window:       SincWindow,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	interp, err := sinc.NewInterpolator(table, fromRate, toRate)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	r.table = table
	r.interp = interp
	return r, nil
}

// Process resamples a mono buffer. The result has
// floor(len(samples)·to/from) samples; when the rates are equal it is an
// exact copy. The input is not modified.
func (r *Resampler) Process(samples []float32) ([]float32, error) {
	if r.interp == nil {
		out := make([]float32, len(samples))
		copy(out, samples)
		return out, nil
	}

	out, err := r.interp.Process(samples)
	if err != nil {
		return nil, fmt.Errorf("%w: resampling %d→%d: %w", ErrProcessing, r.fromRate, r.toRate, err)
	}
	return out, nil
}

// OutputLength returns the number of samples Process produces for n input samples.
func (r *Resampler) OutputLength(n int) int {
	if r.interp == nil {
		return max(n, 0)
	}
	return r.interp.OutputLength(n)
}

// Ratio returns the conversion ratio (to/from).
func (r *Resampler) Ratio() float64 {
	return float64(r.toRate) / float64(r.fromRate)
}

// FromRate returns the input sample rate.
func (r *Resampler) FromRate() uint32 { return r.fromRate }

// ToRate returns the output sample rate.
func (r *Resampler) ToRate() uint32 { return r.toRate }

// Info returns a description of the resampler's filter. An equal-rate
// resampler reports no filter.
func (r *Resampler) Info() Info {
	info := Info{
		FromRate: r.fromRate,
		ToRate:   r.toRate,
		SIMDType: cpu.Info(),
	}
	if r.table != nil {
		info.FilterLength = r.table.Length()
		info.Phases = r.table.Oversampling()
		info.Cutoff = r.table.Cutoff()
		info.Window = r.table.Window().String()
	}
	return info
}

// Resample converts a mono buffer from fromRate to toRate in a single hop.
//
// channels is validated (1 or 2) but not used to split the buffer:
// interleaved stereo must be reduced or de-interleaved by the caller first.
// Ratios beyond MaxRatioRelative return ErrConfig.
func Resample(samples []float32, fromRate, toRate uint32, channels uint16) ([]float32, error) {
	if err := validateChannels(channels); err != nil {
		return nil, err
	}

	r, err := NewResampler(fromRate, toRate)
	if err != nil {
		return nil, err
	}
	return r.Process(samples)
}

// ResampleChain converts a mono buffer between any two rates by chaining
// single hops through integer intermediate rates, none exceeding
// MaxRatioRelative.
func ResampleChain(samples []float32, fromRate, toRate uint32, channels uint16) ([]float32, error) {
	if err := validateChannels(channels); err != nil {
		return nil, err
	}

	plan, err := pipeline.PlanHops(fromRate, toRate, MaxRatioRelative)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	if plan.Len() == 0 {
		out := make([]float32, len(samples))
		copy(out, samples)
		return out, nil
	}

	out := samples
	for _, hop := range plan.Hops() {
		out, err = Resample(out, hop.From, hop.To, channels)
		if err != nil {
			return nil, fmt.Errorf("hop %s of %s: %w", hop, plan, err)
		}
	}
	return out, nil
}

func validateChannels(channels uint16) error {
	if channels < monoChannels || channels > stereoChannels {
		return fmt.Errorf("%w: channel count %d not supported (1 or 2)", ErrConfig, channels)
	}
	return nil
}
