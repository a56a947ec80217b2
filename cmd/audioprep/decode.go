package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	audioprep "github.com/tphakala/go-audio-prep"
)

var errUnsupportedFormat = errors.New("unsupported input format")

// decodedAudio is a fully decoded input file as interleaved float32.
type decodedAudio struct {
	samples  []float32
	format   audioprep.Format
	codec    string
	bitDepth int
}

// frames returns the number of sample frames.
func (d *decodedAudio) frames() int {
	if d.format.Channels == 0 {
		return 0
	}
	return len(d.samples) / int(d.format.Channels)
}

type decodeFunc func(r io.ReadSeeker) (*decodedAudio, error)

// decoderFor picks a decoder from the file extension.
func decoderFor(path string) (decodeFunc, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case extensionWAV, extensionWAVE:
		return decodeWAV, nil
	case extensionMP3:
		return decodeMP3, nil
	case extensionOGG, extensionOGA:
		return decodeOGG, nil
	default:
		return nil, fmt.Errorf("%w: %q (want .wav, .mp3 or .ogg)", errUnsupportedFormat, filepath.Ext(path))
	}
}

// decodeFile opens and decodes an audio file into memory.
func decodeFile(path string, verbose bool) (*decodedAudio, error) {
	decode, err := decoderFor(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer func() { _ = f.Close() }()

	audio, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}

	if verbose {
		log.Printf("Input format: %s, %d Hz, %d channels, %d-bit, %d frames",
			audio.codec, audio.format.SampleRate, audio.format.Channels, audio.bitDepth, audio.frames())
	}
	return audio, nil
}

func decodeWAV(r io.ReadSeeker) (*decodedAudio, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return nil, errors.New("invalid WAV file")
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("reading PCM data: %w", err)
	}

	bitDepth := int(decoder.BitDepth)
	return &decodedAudio{
		samples: pcmToFloat(buf.Data, bitDepth),
		format: audioprep.Format{
			SampleRate: uint32(buf.Format.SampleRate),
			Channels:   uint16(buf.Format.NumChannels),
		},
		codec:    "wav",
		bitDepth: bitDepth,
	}, nil
}

// decodeMP3 reads the whole stream. go-mp3 always yields 16-bit
// little-endian stereo.
func decodeMP3(r io.ReadSeeker) (*decodedAudio, error) {
	decoder, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, err
	}

	raw, err := io.ReadAll(decoder)
	if err != nil {
		return nil, fmt.Errorf("reading MP3 frames: %w", err)
	}

	return &decodedAudio{
		samples: int16LEToFloat(raw),
		format: audioprep.Format{
			SampleRate: uint32(decoder.SampleRate()),
			Channels:   mp3Channels,
		},
		codec:    "mp3",
		bitDepth: bitsPerSample16,
	}, nil
}

func decodeOGG(r io.ReadSeeker) (*decodedAudio, error) {
	samples, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return nil, err
	}

	return &decodedAudio{
		samples: samples,
		format: audioprep.Format{
			SampleRate: uint32(format.SampleRate),
			Channels:   uint16(format.Channels),
		},
		codec:    "vorbis",
		bitDepth: bitsPerSample32,
	}, nil
}

// getMaxValue returns the maximum sample value for the given bit depth.
func getMaxValue(bitDepth int) float64 {
	switch bitDepth {
	case bitsPerSample8:
		return maxInt8
	case bitsPerSample16:
		return maxInt16
	case bitsPerSample24:
		return maxInt24
	case bitsPerSample32:
		return maxInt32
	default:
		return maxInt16
	}
}

// pcmToFloat scales integer PCM to [-1, 1]. 8-bit WAV is unsigned.
func pcmToFloat(data []int, bitDepth int) []float32 {
	out := make([]float32, len(data))
	invMax := 1 / getMaxValue(bitDepth)
	offset := 0
	if bitDepth == bitsPerSample8 {
		offset = uint8Midpoint
	}
	for i, v := range data {
		out[i] = float32(float64(v-offset) * invMax)
	}
	return out
}

// int16LEToFloat converts little-endian 16-bit PCM bytes. A trailing odd
// byte is ignored.
func int16LEToFloat(raw []byte) []float32 {
	out := make([]float32, len(raw)/bytesPerSample)
	for i := range out {
		v := int16(uint16(raw[2*i]) | uint16(raw[2*i+1])<<8)
		out[i] = float32(v) / int16FullScale
	}
	return out
}
