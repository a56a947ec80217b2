package loudness

// Supported stream layouts.
const (
	MinSampleRate = 8000
	MaxSampleRate = 384000
	MaxChannels   = 2
)

// K-weighting pre-filter, ITU-R BS.1770-4 Annex 1, in the rate-independent
// analog prototype form so that any sample rate gets the same response.
const (
	shelfFreq       = 1681.974450955533
	shelfGainDB     = 3.999843853973347
	shelfQ          = 0.7071752369554196
	shelfVbExponent = 0.4996667741545416

	highpassFreq = 38.13547087602444
	highpassQ    = 0.5003270373238773
)

// Block timing. All windows are built from 100 ms sub-blocks.
const (
	subblocksPerSecond = 10
	subblockRounding   = 5 // rounds rate/10 to the nearest frame

	momentarySubblocks = 4  // 400 ms
	shortTermSubblocks = 30 // 3 s
	rangeHopSubblocks  = 10 // 1 s between loudness range blocks
)

// Gating (BS.1770-4, EBU Tech 3342).
const (
	lufsOffset = -0.691

	absoluteGateLUFS  = -70.0
	relativeGateLU    = -10.0
	rangeRelGateLU    = -20.0
	rangeLowQuantile  = 0.10
	rangeHighQuantile = 0.95
)

// True-peak oversampling.
const (
	truePeakTaps        = 48
	truePeakCutoff      = 1.0
	truePeakAttenuation = 80.0 // dB, sets the Kaiser β

	truePeak4xBelow = 96000
	truePeak2xBelow = 192000
	truePeak4x      = 4
	truePeak2x      = 2
)
