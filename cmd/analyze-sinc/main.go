// Command analyze-sinc prints the DC gain and magnitude response of the
// interpolation kernels the resampler builds for a set of rate pairs.
//
// Usage:
//
//	analyze-sinc
//	analyze-sinc 44100:48000 48000:24000
package main

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	audioprep "github.com/tphakala/go-audio-prep"
	"github.com/tphakala/go-audio-prep/internal/sinc"
	"github.com/tphakala/simd/cpu"
	"gonum.org/v1/gonum/dsp/fourier"
)

const (
	// FFT length for the magnitude response; a power of two well above
	// the kernel length.
	defaultFFTSize = 16384

	// Fraction of the cutoff treated as passband.
	passbandFraction = 0.9

	// Nyquist in cycles per sample
	nyquist = 0.5

	minDB = -300.0
)

var defaultPairs = []string{"44100:48000", "48000:44100", "32000:16000", "16000:32000", "22050:16000"}

// CLI defines the command-line interface.
type CLI struct {
	Pairs   []string `arg:"" optional:"" help:"Rate pairs as from:to (default: a set of common conversions)"`
	FFTSize int      `name:"fft-size" default:"${fft_size}" help:"FFT length for the magnitude response"`
}

// report summarizes one kernel table.
type report struct {
	from, to     uint32
	cutoff       float64
	minDC, maxDC float64
	rippleDB     float64
	stopbandDB   float64
}

func main() {
	cli := &CLI{}
	parser := newParser(cli)
	_, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	pairs := cli.Pairs
	if len(pairs) == 0 {
		pairs = defaultPairs
	}

	fmt.Println("=== Analyzing Sinc Kernels ===")
	fmt.Printf("  Taps: %d, Phases: %d, Window: %s\n", audioprep.SincLength, audioprep.SincOversampling, audioprep.SincWindow)
	fmt.Printf("  SIMD: %s\n", cpu.Info())

	for _, pair := range pairs {
		from, to, err := parsePair(pair)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		r, err := analyze(from, to, cli.FFTSize)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("\n=== %d -> %d (ratio = %.6f) ===\n", r.from, r.to, float64(r.to)/float64(r.from))
		fmt.Printf("  Cutoff: %.4f of input Nyquist\n", r.cutoff)
		fmt.Printf("  DC gain over phases: [%.10f, %.10f]\n", r.minDC, r.maxDC)
		fmt.Printf("  Passband ripple: %.4f dB\n", r.rippleDB)
		fmt.Printf("  Stopband attenuation: %.1f dB\n", r.stopbandDB)
	}
}

func newParser(cli *CLI) *kong.Kong {
	return kong.Must(cli,
		kong.Name("analyze-sinc"),
		kong.Description("Analyze resampler interpolation kernels"),
		kong.UsageOnError(),
		kong.Vars{
			"fft_size": strconv.Itoa(defaultFFTSize),
		},
	)
}

func parsePair(s string) (from, to uint32, err error) {
	a, b, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, fmt.Errorf("rate pair %q: want from:to", s)
	}
	f, err := strconv.ParseUint(a, 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("rate pair %q: %w", s, err)
	}
	t, err := strconv.ParseUint(b, 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("rate pair %q: %w", s, err)
	}
	return uint32(f), uint32(t), nil
}

// analyze builds the table the resampler would use for from→to and
// measures it. The magnitude response is taken from row 0.
func analyze(from, to uint32, fftSize int) (*report, error) {
	if _, err := audioprep.NewResampler(from, to); err != nil {
		return nil, err
	}
	if from == to {
		return nil, fmt.Errorf("%d -> %d needs no filter", from, to)
	}
	if fftSize < audioprep.SincLength {
		return nil, fmt.Errorf("FFT size %d shorter than kernel (%d taps)", fftSize, audioprep.SincLength)
	}

	ratio := float64(to) / float64(from)
	table, err := sinc.NewTable(sinc.Params{
		Length:       audioprep.SincLength,
		Oversampling: audioprep.SincOversampling,
		Cutoff:       audioprep.SincCutoff * math.Min(1, ratio),
		Window:       audioprep.SincWindow,
	})
	if err != nil {
		return nil, err
	}

	r := &report{from: from, to: to, cutoff: table.Cutoff(), minDC: math.Inf(1), maxDC: math.Inf(-1)}
	for p := 0; p <= table.Oversampling(); p++ {
		dc := table.DCGain(p)
		r.minDC = math.Min(r.minDC, dc)
		r.maxDC = math.Max(r.maxDC, dc)
	}

	mags := magnitudeResponse(table.Row(0), fftSize)
	passEdge := passbandFraction * table.Cutoff() * nyquist
	stopEdge := math.Min(1, ratio) * nyquist

	lo, hi := math.Inf(1), math.Inf(-1)
	peakStop := 0.0
	for k, m := range mags {
		f := float64(k) / float64(fftSize)
		switch {
		case f <= passEdge:
			lo = math.Min(lo, m)
			hi = math.Max(hi, m)
		case f >= stopEdge:
			peakStop = math.Max(peakStop, m)
		}
	}
	r.rippleDB = toDB(hi) - toDB(lo)
	r.stopbandDB = -toDB(peakStop)
	return r, nil
}

// magnitudeResponse returns |H| for bins 0..n/2 of the zero-padded taps.
func magnitudeResponse(taps []float32, n int) []float64 {
	seq := make([]float64, n)
	for i, c := range taps {
		seq[i] = float64(c)
	}

	coeffs := fourier.NewFFT(n).Coefficients(nil, seq)
	mags := make([]float64, len(coeffs))
	for i, c := range coeffs {
		mags[i] = math.Hypot(real(c), imag(c))
	}
	return mags
}

func toDB(m float64) float64 {
	if m <= 0 {
		return minDB
	}
	return 20 * math.Log10(m)
}
