package audioprep

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-audio-prep/internal/testutil"
)

func TestNewNormalizer_Validation(t *testing.T) {
	tests := []struct {
		name     string
		channels uint32
		rate     uint32
		opts     []NormalizerOption
		wantErr  bool
	}{
		{"mono 48k", 1, 48000, nil, false},
		{"stereo 44.1k", 2, 44100, nil, false},
		{"custom target", 1, 16000, []NormalizerOption{WithTargetLoudness(-16)}, false},
		{"nil option ignored", 1, 16000, []NormalizerOption{nil}, false},
		{"zero channels", 0, 48000, nil, true},
		{"five channels", 5, 48000, nil, true},
		{"zero rate", 1, 0, nil, true},
		{"rate too low", 1, 4000, nil, true},
		{"rate too high", 1, 1000000, nil, true},
		{"target above full scale", 1, 48000, []NormalizerOption{WithTargetLoudness(3)}, true},
		{"target below gate", 1, 48000, []NormalizerOption{WithTargetLoudness(-80)}, true},
		{"NaN target", 1, 48000, []NormalizerOption{WithTargetLoudness(math.NaN())}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := NewNormalizer(tt.channels, tt.rate, tt.opts...)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrConfig), "got %v", err)
				assert.Nil(t, n)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, n)
		})
	}
}

// TestNormalizeLoudness_BoostsQuietSignal feeds a very quiet tone and
// expects a large boost that still stays within full scale.
func TestNormalizeLoudness_BoostsQuietSignal(t *testing.T) {
	n, err := NewNormalizer(1, 48000)
	require.NoError(t, err)

	input := testutil.Sine(1000, 48000, 0.001, 48000)
	out, err := n.NormalizeLoudness(input)
	require.NoError(t, err)
	require.Len(t, out, len(input))

	// About -63 LUFS in, so roughly +40 dB of gain.
	peak := testutil.MaxAbs(out)
	assert.Greater(t, peak, 0.05)
	assert.LessOrEqual(t, peak, 1.0)
	testutil.AssertRelativeError(t, 0.1, peak, 0.02)
}

func TestNormalizeLoudness_ReachesTarget(t *testing.T) {
	for _, amp := range []float64{0.01, 0.05, 0.3} {
		n, err := NewNormalizer(1, 48000)
		require.NoError(t, err)

		out, err := n.NormalizeLoudness(testutil.Sine(1000, 48000, amp, 48000*3))
		require.NoError(t, err)

		stats, err := Measure(out, 1, 48000)
		require.NoError(t, err)
		assert.InDelta(t, TargetLoudness, stats.Integrated, testutil.LUFSTolerance, "amplitude %v", amp)
	}
}

// TestNormalizeLoudness_ConvergesOverBlocks feeds a steady programme in
// half-second blocks and checks the later blocks land on the target.
func TestNormalizeLoudness_ConvergesOverBlocks(t *testing.T) {
	const rate = 48000
	const block = rate / 2

	n, err := NewNormalizer(1, rate)
	require.NoError(t, err)

	signal := testutil.Sine(500, rate, 0.02, block*12)
	var tail []float32
	for i := 0; i < len(signal); i += block {
		out, err := n.NormalizeLoudness(signal[i : i+block])
		require.NoError(t, err)
		if i >= block*4 {
			tail = append(tail, out...)
		}
	}

	stats, err := Measure(tail, 1, rate)
	require.NoError(t, err)
	assert.InDelta(t, TargetLoudness, stats.Integrated, testutil.LUFSTolerance)
	assert.InDelta(t, 6.0, n.Stats().Duration.Seconds(), 1e-9)
}

// TestNormalizeLoudness_GainDependsOnHistory shows the accumulating
// measurement: the same quiet block gets less gain after loud audio.
func TestNormalizeLoudness_GainDependsOnHistory(t *testing.T) {
	loud := testutil.Sine(1000, 48000, 0.5, 48000*2)
	quiet := testutil.Sine(1000, 48000, 0.01, 48000)

	isolated, err := NormalizeBlock(quiet, 1, 48000)
	require.NoError(t, err)

	n, err := NewNormalizer(1, 48000)
	require.NoError(t, err)
	_, err = n.NormalizeLoudness(loud)
	require.NoError(t, err)
	afterLoud, err := n.NormalizeLoudness(quiet)
	require.NoError(t, err)

	assert.Less(t, testutil.MaxAbs(afterLoud), testutil.MaxAbs(isolated)/2)

	// Reset forgets the loud passage.
	n.Reset()
	fresh, err := n.NormalizeLoudness(quiet)
	require.NoError(t, err)
	testutil.AssertSlicesInDelta(t, isolated, fresh, testutil.SampleTolerance)
}

func TestNormalizeLoudness_OutputAlwaysClamped(t *testing.T) {
	// A large DC offset is invisible to the K-weighted measurement, so the
	// gain chosen for the small tone drives the offset past full scale.
	n, err := NewNormalizer(1, 48000)
	require.NoError(t, err)

	tone := testutil.Sine(1000, 48000, 0.05, 48000*2)
	input := make([]float32, len(tone))
	for i, s := range tone {
		input[i] = 0.9 + s
	}

	out, err := n.NormalizeLoudness(input)
	require.NoError(t, err)

	testutil.AssertAllInRange(t, out, -1, 1)
	assert.Equal(t, 1.0, testutil.MaxAbs(out))
}

func TestNormalizeLoudness_LoudInputStaysInRange(t *testing.T) {
	n, err := NewNormalizer(2, 44100, WithTargetLoudness(0))
	require.NoError(t, err)

	left := testutil.Noise(11, 1, 44100)
	right := testutil.Noise(12, 1, 44100)
	out, err := n.NormalizeLoudness(testutil.Interleave(left, right))
	require.NoError(t, err)

	testutil.AssertNoNaNOrInf(t, out)
	testutil.AssertAllInRange(t, out, -1, 1)
}

func TestNormalizeLoudness_NotMeasurable(t *testing.T) {
	tests := []struct {
		name  string
		input []float32
	}{
		{"empty", nil},
		{"shorter than a gating block", testutil.Sine(1000, 48000, 0.5, 9600)},
		{"silence", make([]float32, 48000)},
		// The K-weighting high-pass removes DC entirely.
		{"constant offset", testutil.DC(0.001, 48000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := NewNormalizer(1, 48000)
			require.NoError(t, err)

			out, err := n.NormalizeLoudness(tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMeasurement), "got %v", err)
			assert.Nil(t, out)
		})
	}
}

func TestNormalizeLoudness_PassthroughWhenUnmeasured(t *testing.T) {
	n, err := NewNormalizer(1, 48000, WithPassthroughWhenUnmeasured())
	require.NoError(t, err)

	input := testutil.Sine(1000, 48000, 0.5, 9600)
	out, err := n.NormalizeLoudness(input)
	require.NoError(t, err)
	assert.Equal(t, input, out)

	// Once enough audio has accumulated the gain applies.
	out, err = n.NormalizeLoudness(testutil.Sine(1000, 48000, 0.5, 48000))
	require.NoError(t, err)
	assert.Less(t, testutil.MaxAbs(out), 0.2)
}

func TestNormalizeLoudness_PartialStereoFrame(t *testing.T) {
	n, err := NewNormalizer(2, 48000)
	require.NoError(t, err)

	_, err = n.NormalizeLoudness(make([]float32, 9))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput), "got %v", err)
}

func TestNormalizeLoudness_RejectsNonFinite(t *testing.T) {
	tests := []struct {
		name  string
		value float32
	}{
		{"NaN", float32(math.NaN())},
		{"+Inf", float32(math.Inf(1))},
		{"-Inf", float32(math.Inf(-1))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := NewNormalizer(1, 48000)
			require.NoError(t, err)

			bad := testutil.Sine(1000, 48000, 0.5, 4800)
			bad[10] = tt.value
			out, err := n.NormalizeLoudness(bad)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput), "got %v", err)
			assert.Nil(t, out)
			assert.Zero(t, n.Stats().Duration)

			// The rejected buffer never reached the meter.
			good := testutil.Sine(1000, 48000, 0.5, 48000*2)
			out, err = n.NormalizeLoudness(good)
			require.NoError(t, err)

			want, err := NormalizeBlock(good, 1, 48000)
			require.NoError(t, err)
			assert.Equal(t, want, out)

			stats := n.Stats()
			assert.InDelta(t, -9.03, stats.Integrated, testutil.LUFSTolerance)
			assert.False(t, math.IsNaN(stats.Momentary))
			assert.False(t, math.IsNaN(stats.ShortTerm))
		})
	}
}

func TestMeasure_RejectsNonFinite(t *testing.T) {
	input := testutil.Sine(1000, 48000, 0.5, 48000)
	input[100] = float32(math.NaN())

	_, err := Measure(input, 1, 48000)
	assert.True(t, errors.Is(err, ErrInvalidInput), "got %v", err)
}

func TestNormalizer_DurationLongSession(t *testing.T) {
	n, err := NewNormalizer(1, 48000)
	require.NoError(t, err)

	// 60 hours of frames overflows a naive frames*time.Second product.
	n.frames = 48000 * 3600 * 60
	assert.Equal(t, 60*time.Hour, n.Stats().Duration)

	n.frames = 48000*10 + 24000
	assert.Equal(t, 10*time.Second+500*time.Millisecond, n.Stats().Duration)
}

func TestNormalizer_Stats(t *testing.T) {
	n, err := NewNormalizer(2, 48000)
	require.NoError(t, err)

	before := n.Stats()
	assert.False(t, before.Measured())
	assert.True(t, math.IsInf(before.MaxTruePeakDB(), -1))

	sine := testutil.Sine(1000, 48000, 0.5, 48000*4)
	_, err = n.NormalizeLoudness(testutil.Interleave(sine, sine))
	require.NoError(t, err)

	stats := n.Stats()
	assert.True(t, stats.Measured())
	// Two coherent channels add 3 dB to the -9.03 LUFS of one.
	assert.InDelta(t, -6.02, stats.Integrated, testutil.LUFSTolerance)
	assert.InDelta(t, -6.02, stats.Momentary, testutil.LUFSTolerance)
	assert.InDelta(t, -6.02, stats.ShortTerm, testutil.LUFSTolerance)
	assert.InDelta(t, 0.0, stats.LoudnessRange, 0.1)
	require.Len(t, stats.SamplePeak, 2)
	assert.InDelta(t, 0.5, stats.SamplePeak[0], testutil.SampleTolerance)
	require.Len(t, stats.TruePeak, 2)
	assert.InDelta(t, -6.02, stats.MaxTruePeakDB(), 0.1)
	assert.InDelta(t, 4.0, stats.Duration.Seconds(), 1e-9)
	assert.Equal(t, TargetLoudness, n.Target())
}

func TestMeasure_Validation(t *testing.T) {
	_, err := Measure(make([]float32, 3), 2, 48000)
	assert.True(t, errors.Is(err, ErrInvalidInput), "got %v", err)

	_, err = Measure(nil, 1, 100)
	assert.True(t, errors.Is(err, ErrConfig), "got %v", err)
}
