package loudness

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// toLUFS converts a channel-summed mean square to LUFS.
func toLUFS(meanSquare float64) float64 {
	if meanSquare <= 0 {
		return math.Inf(-1)
	}
	return lufsOffset + 10*math.Log10(meanSquare)
}

// fromLUFS converts LUFS back to a channel-summed mean square.
func fromLUFS(lufs float64) float64 {
	return math.Pow(10, (lufs-lufsOffset)/10)
}

// absoluteGated returns the blocks above the absolute gate.
func absoluteGated(blocks []float64) []float64 {
	threshold := fromLUFS(absoluteGateLUFS)
	gated := make([]float64, 0, len(blocks))
	for _, e := range blocks {
		if e > threshold {
			gated = append(gated, e)
		}
	}
	return gated
}

// gatedLoudness computes integrated loudness over 400 ms block energies
// with the two-stage gate of BS.1770-4. It returns -Inf when no block
// survives.
func gatedLoudness(blocks []float64) float64 {
	gated := absoluteGated(blocks)
	if len(gated) == 0 {
		return math.Inf(-1)
	}

	relative := floats.Sum(gated) / float64(len(gated)) * math.Pow(10, relativeGateLU/10)

	var sum float64
	var n int
	for _, e := range gated {
		if e > relative {
			sum += e
			n++
		}
	}
	if n == 0 {
		return math.Inf(-1)
	}
	return toLUFS(sum / float64(n))
}

// loudnessRange computes LRA (EBU Tech 3342) over 3 s block energies.
// It returns 0 when no block survives the gates.
func loudnessRange(blocks []float64) float64 {
	gated := absoluteGated(blocks)
	if len(gated) == 0 {
		return 0
	}

	relative := floats.Sum(gated) / float64(len(gated)) * math.Pow(10, rangeRelGateLU/10)

	levels := make([]float64, 0, len(gated))
	for _, e := range gated {
		if e > relative {
			levels = append(levels, toLUFS(e))
		}
	}
	if len(levels) == 0 {
		return 0
	}

	slices.Sort(levels)
	low := stat.Quantile(rangeLowQuantile, stat.Empirical, levels, nil)
	high := stat.Quantile(rangeHighQuantile, stat.Empirical, levels, nil)
	return high - low
}
