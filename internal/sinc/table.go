// Package sinc implements band-limited interpolation with a precomputed,
// oversampled table of windowed-sinc kernels.
//
// The kernel for a fractional offset x (in input samples) is
//
//	h(x) = fc · sinc(fc · x) · w((x + L/2) / L)
//
// where L is the kernel length, fc the cutoff relative to the input Nyquist
// frequency and w the window. The table stores h sampled at Oversampling
// sub-sample offsets; values between two stored offsets are obtained by
// linear interpolation of the two filter outputs.
package sinc

import (
	"fmt"
	"math"

	"github.com/tphakala/go-audio-prep/internal/simdops"
)

// Params holds parameters for table design.
type Params struct {
	// Length is the total kernel length in taps (even). The kernel spans
	// Length/2 input samples on each side of the interpolation point.
	Length int

	// Oversampling is the number of sub-sample offsets stored per tap.
	Oversampling int

	// Cutoff is the normalized cutoff frequency in (0, 1], where 1 is the
	// Nyquist frequency of the input.
	Cutoff float64

	// Window tapers the kernel.
	Window Window

	// KaiserBeta is the Kaiser β, used only with WindowKaiser.
	KaiserBeta float64
}

// Validate checks if table parameters are valid.
func (p *Params) Validate() error {
	if p.Length < minLength || p.Length > maxLength {
		return fmt.Errorf("kernel length %d out of range [%d, %d]", p.Length, minLength, maxLength)
	}

	if p.Length%halfDivisor != 0 {
		return fmt.Errorf("kernel length %d must be even", p.Length)
	}

	if p.Oversampling < minOversampling || p.Oversampling > maxOversampling {
		return fmt.Errorf("oversampling %d out of range [%d, %d]", p.Oversampling, minOversampling, maxOversampling)
	}

	if p.Length*(p.Oversampling+1) > maxTableCoeffs {
		return fmt.Errorf("table of %d×%d coefficients is too large", p.Oversampling+1, p.Length)
	}

	if !(p.Cutoff > 0 && p.Cutoff <= 1) {
		return fmt.Errorf("cutoff %f out of range (0, 1]", p.Cutoff)
	}

	if !p.Window.valid() {
		return fmt.Errorf("unknown window %v", p.Window)
	}

	if p.Window == WindowKaiser && p.KaiserBeta < 0 {
		return fmt.Errorf("kaiser beta %f must not be negative", p.KaiserBeta)
	}

	return nil
}

// Table is an oversampled bank of windowed-sinc kernels.
//
// Row p (0 ≤ p ≤ Oversampling) holds the taps for a fractional position of
// p/Oversampling between two input samples; row Oversampling is kept so that
// linear interpolation never needs to wrap. Every row is normalized to unit
// DC gain so that a constant input passes through unchanged at any offset.
type Table struct {
	params Params
	rows   [][]float32
}

// NewTable designs a table from params.
func NewTable(params Params) (*Table, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid sinc parameters: %w", err)
	}

	length := params.Length
	over := params.Oversampling
	half := length / halfDivisor

	t := &Table{
		params: params,
		rows:   make([][]float32, over+1),
	}

	ops := simdops.Float64Ops()
	row := make([]float64, length)
	for p := 0; p <= over; p++ {
		frac := float64(p) / float64(over)
		for n := range length {
			row[n] = kernel(float64(half-1-n)+frac, params)
		}

		sum := ops.Sum(row)
		if math.Abs(sum) < dcGainFloor {
			return nil, fmt.Errorf("sinc row %d has vanishing DC gain", p)
		}
		ops.Scale(row, row, 1.0/sum)

		out := make([]float32, length)
		for n, v := range row {
			out[n] = float32(v)
		}
		t.rows[p] = out
	}

	return t, nil
}

// kernel evaluates the windowed sinc at offset x input samples.
func kernel(x float64, p Params) float64 {
	half := float64(p.Length) / halfDivisor
	u := (x + half) / float64(p.Length)

	w := p.Window.At(u, p.KaiserBeta)
	if w == 0 {
		return 0
	}

	return p.Cutoff * normalizedSinc(p.Cutoff*x) * w
}

func normalizedSinc(x float64) float64 {
	if math.Abs(x) < sincZeroThreshold {
		return 1
	}
	arg := math.Pi * x
	return math.Sin(arg) / arg
}

// Row returns the taps for fractional position p/Oversampling.
// The returned slice must not be modified.
func (t *Table) Row(p int) []float32 {
	return t.rows[p]
}

// Length returns the kernel length in taps.
func (t *Table) Length() int { return t.params.Length }

// Oversampling returns the number of stored sub-sample offsets.
func (t *Table) Oversampling() int { return t.params.Oversampling }

// Cutoff returns the normalized cutoff frequency.
func (t *Table) Cutoff() float64 { return t.params.Cutoff }

// Window returns the window used by the table.
func (t *Table) Window() Window { return t.params.Window }

// DCGain returns the sum of the taps in row p.
func (t *Table) DCGain(p int) float64 {
	var sum float64
	for _, c := range t.rows[p] {
		sum += float64(c)
	}
	return sum
}

// Padding returns the number of zero samples assumed on each edge of the
// input. Interpolation is centred, so the kernel adds no group delay.
func (t *Table) Padding() int { return t.params.Length / halfDivisor }
