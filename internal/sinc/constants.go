package sinc

// Table design limits
const (
	minLength       = 2
	maxLength       = 4096
	minOversampling = 1
	maxOversampling = 4096

	// Largest table the design step allows, in coefficients.
	maxTableCoeffs = 1 << 22
)

// 4-term Blackman-Harris coefficients (Harris, 1978).
const (
	blackmanHarrisA0 = 0.35875
	blackmanHarrisA1 = 0.48829
	blackmanHarrisA2 = 0.14128
	blackmanHarrisA3 = 0.01168
)

const (
	// sincZeroThreshold treats |x| below this as the sinc centre.
	sincZeroThreshold = 1e-12

	// dcGainFloor guards phase normalization against a degenerate table.
	dcGainFloor = 1e-9

	halfDivisor = 2
)
