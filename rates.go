package audioprep

// Common sample rates.
const (
	// RateTelephony is the narrowband telephony rate.
	RateTelephony = 8000

	// RateWideband is the wideband speech rate used by most speech
	// recognition models.
	RateWideband = 16000

	// RateSpeech is half the CD rate, common for speech archives.
	RateSpeech = 22050

	// RateCD is the CD quality sample rate (Red Book standard).
	RateCD = 44100

	// RateDAT is the DAT/DVD and video production sample rate.
	RateDAT = 48000

	// RateHiRes96 is the high-resolution 2x DAT sample rate.
	RateHiRes96 = 96000

	// DefaultTargetRate is the rate Prepare converts to by default.
	DefaultTargetRate = RateWideband
)
