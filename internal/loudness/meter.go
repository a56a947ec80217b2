// Package loudness implements ITU-R BS.1770-4 / EBU R128 loudness metering.
//
// A Meter accumulates K-weighted energy in 100 ms sub-blocks. Momentary
// (400 ms) and short-term (3 s) loudness slide over the most recent
// sub-blocks; integrated loudness gates every 400 ms block produced since
// the last Reset, with blocks overlapping by 75 %. Loudness range uses 3 s
// blocks taken once per second.
//
// Windows only count once they are full: before 400 ms of audio has been
// added, momentary and integrated loudness report -Inf.
package loudness

import (
	"fmt"
	"math"
)

// Mode selects the measurements a Meter maintains.
type Mode uint8

const (
	ModeMomentary Mode = 1 << iota
	ModeShortTerm
	ModeIntegrated
	ModeLoudnessRange
	ModeSamplePeak
	ModeTruePeak

	ModeAll = ModeMomentary | ModeShortTerm | ModeIntegrated |
		ModeLoudnessRange | ModeSamplePeak | ModeTruePeak
)

// Has reports whether every measurement in other is enabled.
func (m Mode) Has(other Mode) bool { return m&other == other }

// Meter measures loudness of interleaved float32 audio.
// A Meter is not safe for concurrent use.
type Meter struct {
	mode       Mode
	channels   int
	sampleRate int

	shelf    []biquad
	highpass []biquad

	// Current sub-block.
	subblockFrames int
	acc            float64
	accFrames      int

	// Energies (sum of squares over channels) of the last completed
	// sub-blocks, oldest overwritten first.
	ring     [shortTermSubblocks]float64
	ringPos  int
	complete int

	gatingBlocks []float64
	rangeBlocks  []float64

	samplePeaks []float64
	truePeak    *truePeakDetector
}

// NewMeter creates a meter for the given layout.
func NewMeter(channels, sampleRate int, mode Mode) (*Meter, error) {
	if channels < 1 || channels > MaxChannels {
		return nil, fmt.Errorf("channel count %d out of range [1, %d]", channels, MaxChannels)
	}
	if sampleRate < MinSampleRate || sampleRate > MaxSampleRate {
		return nil, fmt.Errorf("sample rate %d out of range [%d, %d]", sampleRate, MinSampleRate, MaxSampleRate)
	}
	if mode == 0 || mode&^ModeAll != 0 {
		return nil, fmt.Errorf("invalid mode %#x", uint8(mode))
	}

	m := &Meter{
		mode:           mode,
		channels:       channels,
		sampleRate:     sampleRate,
		shelf:          make([]biquad, channels),
		highpass:       make([]biquad, channels),
		subblockFrames: (sampleRate + subblockRounding) / subblocksPerSecond,
		samplePeaks:    make([]float64, channels),
	}

	shelf, highpass := kWeighting(float64(sampleRate))
	for c := range channels {
		m.shelf[c] = shelf
		m.highpass[c] = highpass
	}

	if mode.Has(ModeTruePeak) {
		tp, err := newTruePeakDetector(channels, sampleRate)
		if err != nil {
			return nil, err
		}
		m.truePeak = tp
	}

	return m, nil
}

// Channels returns the channel count.
func (m *Meter) Channels() int { return m.channels }

// SampleRate returns the sample rate in Hz.
func (m *Meter) SampleRate() int { return m.sampleRate }

// Mode returns the enabled measurements.
func (m *Meter) Mode() Mode { return m.mode }

// AddFrames feeds interleaved samples. The length must be a multiple of
// the channel count.
func (m *Meter) AddFrames(samples []float32) error {
	if len(samples)%m.channels != 0 {
		return fmt.Errorf("sample count %d is not a multiple of %d channels", len(samples), m.channels)
	}

	trackPeaks := m.mode.Has(ModeSamplePeak)

	for i := 0; i < len(samples); i += m.channels {
		frame := samples[i : i+m.channels]

		for c, s := range frame {
			x := float64(s)
			if trackPeaks {
				m.samplePeaks[c] = math.Max(m.samplePeaks[c], math.Abs(x))
			}
			y := m.highpass[c].process(m.shelf[c].process(x))
			m.acc += y * y
		}

		if m.truePeak != nil {
			m.truePeak.push(frame)
		}

		m.accFrames++
		if m.accFrames == m.subblockFrames {
			m.finishSubblock()
		}
	}

	return nil
}

func (m *Meter) finishSubblock() {
	m.ring[m.ringPos] = m.acc
	m.ringPos = (m.ringPos + 1) % shortTermSubblocks
	m.complete++
	m.acc = 0
	m.accFrames = 0

	if m.mode.Has(ModeIntegrated) && m.complete >= momentarySubblocks {
		m.gatingBlocks = append(m.gatingBlocks, m.windowMeanSquare(momentarySubblocks))
	}

	if m.mode.Has(ModeLoudnessRange) && m.complete >= shortTermSubblocks &&
		(m.complete-shortTermSubblocks)%rangeHopSubblocks == 0 {
		m.rangeBlocks = append(m.rangeBlocks, m.windowMeanSquare(shortTermSubblocks))
	}
}

// windowMeanSquare returns the channel-summed mean square over the last n
// completed sub-blocks.
func (m *Meter) windowMeanSquare(n int) float64 {
	var sum float64
	pos := m.ringPos
	for range n {
		pos--
		if pos < 0 {
			pos = shortTermSubblocks - 1
		}
		sum += m.ring[pos]
	}
	return sum / float64(n*m.subblockFrames)
}

// Momentary returns the loudness of the last 400 ms in LUFS.
func (m *Meter) Momentary() float64 {
	if !m.mode.Has(ModeMomentary) || m.complete < momentarySubblocks {
		return math.Inf(-1)
	}
	return toLUFS(m.windowMeanSquare(momentarySubblocks))
}

// ShortTerm returns the loudness of the last 3 s in LUFS.
func (m *Meter) ShortTerm() float64 {
	if !m.mode.Has(ModeShortTerm) || m.complete < shortTermSubblocks {
		return math.Inf(-1)
	}
	return toLUFS(m.windowMeanSquare(shortTermSubblocks))
}

// Integrated returns the gated loudness of everything added since the last
// Reset, or -Inf when no block passes the gates.
func (m *Meter) Integrated() float64 {
	if !m.mode.Has(ModeIntegrated) {
		return math.Inf(-1)
	}
	return gatedLoudness(m.gatingBlocks)
}

// LoudnessRange returns the loudness range in LU, or 0 when fewer than 3 s
// of gated audio are available.
func (m *Meter) LoudnessRange() float64 {
	if !m.mode.Has(ModeLoudnessRange) {
		return 0
	}
	return loudnessRange(m.rangeBlocks)
}

// SamplePeaks returns the largest absolute sample value per channel.
// It returns nil if sample peaks are not measured.
func (m *Meter) SamplePeaks() []float64 {
	if !m.mode.Has(ModeSamplePeak) {
		return nil
	}
	return append([]float64(nil), m.samplePeaks...)
}

// TruePeaks returns the oversampled peak estimate per channel. Samples in
// the last half filter length are not yet included. It returns nil if true
// peaks are not measured.
func (m *Meter) TruePeaks() []float64 {
	if m.truePeak == nil {
		return nil
	}
	return append([]float64(nil), m.truePeak.peaks...)
}

// TruePeakFactor returns the oversampling factor of the true-peak detector.
func (m *Meter) TruePeakFactor() int {
	if m.truePeak == nil {
		return 0
	}
	return m.truePeak.factor
}

// Reset discards all measurement history.
func (m *Meter) Reset() {
	for c := range m.channels {
		m.shelf[c].reset()
		m.highpass[c].reset()
		m.samplePeaks[c] = 0
	}
	m.acc = 0
	m.accFrames = 0
	m.ring = [shortTermSubblocks]float64{}
	m.ringPos = 0
	m.complete = 0
	m.gatingBlocks = m.gatingBlocks[:0]
	m.rangeBlocks = m.rangeBlocks[:0]
	if m.truePeak != nil {
		m.truePeak.reset()
	}
}
