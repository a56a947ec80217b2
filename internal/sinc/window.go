package sinc

import (
	"fmt"
	"math"

	"github.com/tphakala/go-audio-prep/internal/mathutil"
)

// Window selects the function that tapers the sinc kernel.
type Window int

const (
	// WindowBlackmanHarris is the 4-term Blackman-Harris window.
	WindowBlackmanHarris Window = iota

	// WindowBlackmanHarris2 is the squared Blackman-Harris window. Squaring
	// trades a wider main lobe for much lower sidelobes.
	WindowBlackmanHarris2

	// WindowKaiser is a Kaiser window; Params.KaiserBeta sets its shape.
	WindowKaiser
)

// String returns the window name.
func (w Window) String() string {
	switch w {
	case WindowBlackmanHarris:
		return "blackman-harris"
	case WindowBlackmanHarris2:
		return "blackman-harris-squared"
	case WindowKaiser:
		return "kaiser"
	default:
		return fmt.Sprintf("window(%d)", int(w))
	}
}

func (w Window) valid() bool {
	return w >= WindowBlackmanHarris && w <= WindowKaiser
}

// At evaluates the window at the normalized position u, where u = 0 and
// u = 1 are the window edges and u = 0.5 is the centre.
func (w Window) At(u, kaiserBeta float64) float64 {
	if u < 0 || u > 1 {
		return 0
	}

	switch w {
	case WindowBlackmanHarris:
		return blackmanHarris(u)
	case WindowBlackmanHarris2:
		v := blackmanHarris(u)
		return v * v
	case WindowKaiser:
		return mathutil.KaiserAt(halfDivisor*u-1, kaiserBeta)
	default:
		return 0
	}
}

func blackmanHarris(u float64) float64 {
	phase := 2 * math.Pi * u
	return blackmanHarrisA0 -
		blackmanHarrisA1*math.Cos(phase) +
		blackmanHarrisA2*math.Cos(2*phase) -
		blackmanHarrisA3*math.Cos(3*phase)
}
