package loudness

import (
	"fmt"
	"math"

	"github.com/tphakala/go-audio-prep/internal/mathutil"
	"github.com/tphakala/go-audio-prep/internal/simdops"
	"github.com/tphakala/go-audio-prep/internal/sinc"
)

// truePeakFactor returns the oversampling factor used for sampleRate.
func truePeakFactor(sampleRate int) int {
	switch {
	case sampleRate < truePeak4xBelow:
		return truePeak4x
	case sampleRate < truePeak2xBelow:
		return truePeak2x
	default:
		return 1
	}
}

// truePeakDetector estimates inter-sample peaks by evaluating each channel
// at Factor evenly spaced positions per input sample.
type truePeakDetector struct {
	factor int
	table  *sinc.Table
	ops    *simdops.Ops[float32]

	// history[c] holds the last truePeakTaps samples twice over so the
	// newest window is always one contiguous slice.
	history [][]float32
	pos     int
	peaks   []float64
}

func newTruePeakDetector(channels, sampleRate int) (*truePeakDetector, error) {
	d := &truePeakDetector{
		factor: truePeakFactor(sampleRate),
		ops:    simdops.Float32Ops(),
		peaks:  make([]float64, channels),
	}
	if d.factor == 1 {
		return d, nil
	}

	table, err := sinc.NewTable(sinc.Params{
		Length:       truePeakTaps,
		Oversampling: d.factor,
		Cutoff:       truePeakCutoff,
		Window:       sinc.WindowKaiser,
		KaiserBeta:   mathutil.KaiserBeta(truePeakAttenuation),
	})
	if err != nil {
		return nil, fmt.Errorf("true-peak filter: %w", err)
	}
	d.table = table

	d.history = make([][]float32, channels)
	for c := range d.history {
		d.history[c] = make([]float32, 2*truePeakTaps)
	}
	return d, nil
}

// push consumes one frame.
func (d *truePeakDetector) push(frame []float32) {
	if d.table == nil {
		for c, x := range frame {
			d.peaks[c] = math.Max(d.peaks[c], math.Abs(float64(x)))
		}
		return
	}

	for c, x := range frame {
		h := d.history[c]
		h[d.pos] = x
		h[d.pos+truePeakTaps] = x
		window := h[d.pos+1 : d.pos+1+truePeakTaps]

		peak := d.peaks[c]
		for phase := range d.factor {
			y := d.ops.DotProductUnsafe(d.table.Row(phase), window)
			peak = math.Max(peak, math.Abs(float64(y)))
		}
		d.peaks[c] = peak
	}

	d.pos++
	if d.pos == truePeakTaps {
		d.pos = 0
	}
}

func (d *truePeakDetector) reset() {
	for c := range d.peaks {
		d.peaks[c] = 0
	}
	for _, h := range d.history {
		clear(h)
	}
	d.pos = 0
}
