package audioprep

import "errors"

// Errors returned by the package. They are always wrapped with context;
// test for them with errors.Is.
var (
	// ErrInvalidInput indicates a malformed sample buffer, such as an
	// odd-length stereo buffer.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConfig indicates invalid construction parameters: zero or
	// unsupported sample rates, channel counts or conversion ratios.
	ErrConfig = errors.New("invalid configuration")

	// ErrMeasurement indicates that loudness cannot be computed yet from
	// the audio accumulated so far.
	ErrMeasurement = errors.New("loudness not measurable")

	// ErrProcessing indicates an internal failure while processing, such
	// as a non-finite output sample.
	ErrProcessing = errors.New("processing failed")
)
