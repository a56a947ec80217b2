package main

import (
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// writeWAV writes mono float32 samples as 16-bit PCM.
func writeWAV(path string, samples []float32, sampleRate uint32) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing output file: %w", cerr)
		}
	}()

	encoder := wav.NewEncoder(f, int(sampleRate), outputBitDepth, outputChannels, wavPCMFormat)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: outputChannels,
			SampleRate:  int(sampleRate),
		},
		Data:           floatToPCM16(samples),
		SourceBitDepth: outputBitDepth,
	}

	if err := encoder.Write(buf); err != nil {
		return fmt.Errorf("writing samples: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("finalizing WAV header: %w", err)
	}
	return nil
}

// floatToPCM16 rounds to 16-bit integers, clamping to full scale.
func floatToPCM16(samples []float32) []int {
	out := make([]int, len(samples))
	for i, s := range samples {
		v := math.Round(float64(s) * maxInt16)
		out[i] = int(math.Max(-maxInt16, math.Min(maxInt16, v)))
	}
	return out
}
