package sinc

import (
	"fmt"
	"math"

	"github.com/tphakala/go-audio-prep/internal/simdops"
)

// Interpolator converts whole buffers between two sample rates using a Table.
//
// Output sample j is evaluated at input position j·from/to. Positions are
// tracked as exact integer fractions, so there is no drift over long inputs.
// Samples beyond either edge of the input are taken as zero.
//
// An Interpolator holds no per-call state and may be reused sequentially.
type Interpolator struct {
	table *Table
	from  uint64
	to    uint64
	ops   *simdops.Ops[float32]
}

// NewInterpolator creates an interpolator from fromRate to toRate.
func NewInterpolator(table *Table, fromRate, toRate uint32) (*Interpolator, error) {
	if table == nil {
		return nil, fmt.Errorf("sinc table is nil")
	}
	if fromRate == 0 || toRate == 0 {
		return nil, fmt.Errorf("sample rates must be positive: from=%d, to=%d", fromRate, toRate)
	}

	return &Interpolator{
		table: table,
		from:  uint64(fromRate),
		to:    uint64(toRate),
		ops:   simdops.Float32Ops(),
	}, nil
}

// Ratio returns the conversion ratio (to/from).
func (ip *Interpolator) Ratio() float64 {
	return float64(ip.to) / float64(ip.from)
}

// OutputLength returns the number of samples Process produces for n input samples.
func (ip *Interpolator) OutputLength(n int) int {
	if n <= 0 {
		return 0
	}
	return int(uint64(n) * ip.to / ip.from)
}

// Process resamples input and returns a new buffer of OutputLength(len(input))
// samples. It fails if any produced sample is not finite.
func (ip *Interpolator) Process(input []float32) ([]float32, error) {
	outLen := ip.OutputLength(len(input))
	output := make([]float32, outLen)
	if outLen == 0 {
		return output, nil
	}

	length := ip.table.Length()
	over := uint64(ip.table.Oversampling())
	pad := ip.table.Padding()

	// Zero-padded working copy so every kernel window is in range.
	padded := make([]float32, len(input)+length)
	copy(padded[pad:], input)

	dot := ip.ops.DotProductUnsafe
	scale := float64(over) / float64(ip.to)

	for j := range outLen {
		pos := uint64(j) * ip.from
		idx := int(pos / ip.to)
		rem := pos % ip.to

		window := padded[idx+1 : idx+1+length]

		subPos := float64(rem) * scale
		phase := int(subPos)
		frac := float32(subPos - float64(phase))

		y := dot(ip.table.Row(phase), window)
		if frac != 0 {
			y1 := dot(ip.table.Row(phase+1), window)
			y += frac * (y1 - y)
		}

		if math.IsNaN(float64(y)) || math.IsInf(float64(y), 0) {
			return nil, fmt.Errorf("non-finite output sample %d (input index %d)", j, idx)
		}
		output[j] = y
	}

	return output, nil
}
