package main

const (
	// Sample format constants
	bitsPerSample8  = 8
	bitsPerSample16 = 16
	bitsPerSample24 = 24
	bitsPerSample32 = 32

	// Conversion constants
	maxInt8        = 127.0
	maxInt16       = 32767.0
	maxInt24       = 8388607.0
	maxInt32       = 2147483647.0
	uint8Midpoint  = 128
	int16FullScale = 32768.0
	bytesPerSample = 2

	// go-mp3 always decodes to stereo
	mp3Channels = 2

	// Output format
	wavPCMFormat   = 1
	outputBitDepth = bitsPerSample16
	outputChannels = 1

	// Recognized input extensions
	extensionWAV  = ".wav"
	extensionWAVE = ".wave"
	extensionMP3  = ".mp3"
	extensionOGG  = ".ogg"
	extensionOGA  = ".oga"
)
