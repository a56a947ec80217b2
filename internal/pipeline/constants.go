package pipeline

const (
	// defaultHopCapacity covers every common rate pair without growth.
	defaultHopCapacity = 4

	// maxHops bounds planning; a 2x hop limit reaches any uint32 rate in
	// at most 32 hops.
	maxHops = 64
)
