package main

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	audioprep "github.com/tphakala/go-audio-prep"
)

func TestDecodeFile_FileNotFound(t *testing.T) {
	_, err := decodeFile("/nonexistent/file.wav", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open input file")
}

func TestDecodeFile_InvalidWAV(t *testing.T) {
	tmpDir := t.TempDir()
	invalidFile := filepath.Join(tmpDir, "invalid.wav")
	require.NoError(t, os.WriteFile(invalidFile, []byte("not a wav file"), 0o644))

	_, err := decodeFile(invalidFile, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid WAV file")
}

func TestDecoderFor(t *testing.T) {
	tests := []struct {
		path    string
		wantErr bool
	}{
		{"speech.wav", false},
		{"SPEECH.WAV", false},
		{"take.wave", false},
		{"podcast.mp3", false},
		{"music.ogg", false},
		{"music.oga", false},
		{"song.flac", true},
		{"noextension", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			dec, err := decoderFor(tt.path)
			if tt.wantErr {
				assert.True(t, errors.Is(err, errUnsupportedFormat), "got %v", err)
				assert.Nil(t, dec)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, dec)
		})
	}
}

func TestGetMaxValue(t *testing.T) {
	assert.Equal(t, maxInt8, getMaxValue(8))
	assert.Equal(t, maxInt16, getMaxValue(16))
	assert.Equal(t, maxInt24, getMaxValue(24))
	assert.Equal(t, maxInt32, getMaxValue(32))
	assert.Equal(t, maxInt16, getMaxValue(12))
}

func TestPCMToFloat(t *testing.T) {
	got := pcmToFloat([]int{0, 32767, -32767, 16384}, 16)
	assert.InDeltaSlice(t, []float32{0, 1, -1, 0.5}, got, 1e-4)

	// 8-bit WAV samples are unsigned around 128.
	got = pcmToFloat([]int{128, 255, 1}, 8)
	assert.InDeltaSlice(t, []float32{0, 1, -1}, got, 1e-6)

	got = pcmToFloat([]int{8388607}, 24)
	assert.InDelta(t, 1.0, got[0], 1e-6)
}

func TestInt16LEToFloat(t *testing.T) {
	raw := []byte{
		0x00, 0x00, // 0
		0x00, 0x40, // 16384
		0x00, 0x80, // -32768
		0xff, 0x7f, // 32767
		0x01, // trailing byte
	}
	got := int16LEToFloat(raw)
	require.Len(t, got, 4)
	assert.InDeltaSlice(t, []float32{0, 0.5, -1, 32767.0 / 32768.0}, got, 1e-7)
}

func TestFloatToPCM16(t *testing.T) {
	got := floatToPCM16([]float32{0, 0.5, -0.5, 1, -1, 1.5, -2, float32(math.Inf(1))})
	assert.Equal(t, []int{0, 16384, -16384, 32767, -32767, 32767, -32767, 32767}, got)
}

func TestWriteWAV_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")

	samples := make([]float32, 1600)
	for i := range samples {
		samples[i] = float32(0.5 * math.Sin(2*math.Pi*440*float64(i)/16000))
	}
	require.NoError(t, writeWAV(path, samples, 16000))

	got, err := decodeFile(path, false)
	require.NoError(t, err)
	assert.Equal(t, "wav", got.codec)
	assert.Equal(t, audioprep.Format{SampleRate: 16000, Channels: 1}, got.format)
	assert.Equal(t, 16, got.bitDepth)
	require.Len(t, got.samples, len(samples))
	assert.Equal(t, len(samples), got.frames())
	assert.InDeltaSlice(t, samples, got.samples, 1.0/maxInt16)
}

func TestWriteWAV_InvalidDirectory(t *testing.T) {
	err := writeWAV("/nonexistent/dir/out.wav", []float32{0}, 16000)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create output file")
}

func TestCLIConfig(t *testing.T) {
	cli := &CLI{Rate: 8000, Target: -20, NoNormalize: true, Strict: true}
	cfg := cli.config()
	assert.Equal(t, uint32(8000), cfg.TargetRate)
	assert.Equal(t, -20.0, cfg.TargetLoudness)
	assert.False(t, cfg.Normalize)
	assert.False(t, cfg.PassthroughWhenUnmeasured)
}

// TestRun_PreparesWAV converts a 48 kHz file to the default speech format.
func TestRun_PreparesWAV(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.wav")
	output := filepath.Join(dir, "out.wav")

	samples := make([]float32, 48000*2)
	for i := range samples {
		samples[i] = float32(0.05 * math.Sin(2*math.Pi*500*float64(i)/48000))
	}
	require.NoError(t, writeWAV(input, samples, 48000))

	cli := &CLI{Input: input, Output: output, Rate: 16000, Target: -23}
	require.NoError(t, run(cli))

	got, err := decodeFile(output, false)
	require.NoError(t, err)
	assert.Equal(t, audioprep.Format{SampleRate: 16000, Channels: 1}, got.format)
	assert.Len(t, got.samples, 16000*2)

	stats, err := audioprep.Measure(got.samples, 1, 16000)
	require.NoError(t, err)
	assert.InDelta(t, -23.0, stats.Integrated, 0.2)
}

func TestRun_RejectsUnsupportedInput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.flac")
	require.NoError(t, os.WriteFile(input, []byte("fLaC"), 0o644))

	err := run(&CLI{Input: input, Output: filepath.Join(dir, "out.wav"), Rate: 16000, Target: -23})
	assert.True(t, errors.Is(err, errUnsupportedFormat), "got %v", err)
}

func TestFormatLUFS(t *testing.T) {
	assert.Equal(t, "n/a", formatLUFS(math.Inf(-1)))
	assert.Equal(t, "-23.0 LUFS", formatLUFS(-23))
	assert.Equal(t, "n/a", formatDBTP(math.Inf(-1)))
	assert.Equal(t, "-1.5 dBTP", formatDBTP(-1.5))
}
