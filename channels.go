package audioprep

import "fmt"

// StereoToMono averages each (left, right) frame of an interleaved stereo
// buffer into one mono sample. The length must be even.
func StereoToMono(samples []float32) ([]float32, error) {
	if len(samples)%stereoChannels != 0 {
		return nil, fmt.Errorf("%w: stereo buffer has odd length %d", ErrInvalidInput, len(samples))
	}

	out := make([]float32, len(samples)/stereoChannels)
	for i := range out {
		out[i] = (samples[2*i] + samples[2*i+1]) / 2
	}
	return out, nil
}
