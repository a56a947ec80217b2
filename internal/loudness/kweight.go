package loudness

import "math"

// biquad is a second-order section in Direct Form II Transposed:
//
//	y  = b0*x + d0
//	d0 = b1*x - a1*y + d1
//	d1 = b2*x - a2*y
type biquad struct {
	b0, b1, b2 float64
	a1, a2     float64

	d0, d1 float64
}

func (s *biquad) process(x float64) float64 {
	y := s.b0*x + s.d0
	s.d0 = s.b1*x - s.a1*y + s.d1
	s.d1 = s.b2*x - s.a2*y
	return y
}

func (s *biquad) reset() {
	s.d0, s.d1 = 0, 0
}

// kWeighting returns the two K-weighting stages for sampleRate: the
// head-related high shelf followed by the RLB high-pass.
func kWeighting(sampleRate float64) (shelf, highpass biquad) {
	k := math.Tan(math.Pi * shelfFreq / sampleRate)
	vh := math.Pow(10, shelfGainDB/20)
	vb := math.Pow(vh, shelfVbExponent)
	a0 := 1 + k/shelfQ + k*k

	shelf = biquad{
		b0: (vh + vb*k/shelfQ + k*k) / a0,
		b1: 2 * (k*k - vh) / a0,
		b2: (vh - vb*k/shelfQ + k*k) / a0,
		a1: 2 * (k*k - 1) / a0,
		a2: (1 - k/shelfQ + k*k) / a0,
	}

	k = math.Tan(math.Pi * highpassFreq / sampleRate)
	a0 = 1 + k/highpassQ + k*k

	highpass = biquad{
		b0: 1,
		b1: -2,
		b2: 1,
		a1: 2 * (k*k - 1) / a0,
		a2: (1 - k/highpassQ + k*k) / a0,
	}

	return shelf, highpass
}
