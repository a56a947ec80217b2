// Package pipeline plans multi-hop sample rate conversions.
//
// A single interpolator hop only supports a bounded rate ratio. Larger
// conversions are decomposed the way a multi-stage resampler factors out
// powers of two: whole steps of the maximum ratio first, then one final hop
// that lands on the target rate. Every intermediate rate is an integer.
package pipeline

import (
	"fmt"
	"math"
	"strings"
)

// Hop is one conversion step between two integer sample rates.
type Hop struct {
	From uint32
	To   uint32
}

// Ratio returns the hop's conversion ratio (To/From).
func (h Hop) Ratio() float64 {
	return float64(h.To) / float64(h.From)
}

// String formats the hop as "from→to".
func (h Hop) String() string {
	return fmt.Sprintf("%d→%d", h.From, h.To)
}

// Plan is an ordered list of hops from a source rate to a target rate.
type Plan struct {
	from uint32
	to   uint32
	hops []Hop
}

// PlanHops decomposes the conversion fromRate→toRate into hops whose ratio
// never exceeds maxRatio in either direction. Equal rates give an empty plan.
func PlanHops(fromRate, toRate uint32, maxRatio float64) (*Plan, error) {
	if fromRate == 0 || toRate == 0 {
		return nil, fmt.Errorf("sample rates must be positive: from=%d, to=%d", fromRate, toRate)
	}
	if !(maxRatio > 1) || math.IsInf(maxRatio, 1) {
		return nil, fmt.Errorf("invalid maximum hop ratio: %f", maxRatio)
	}

	p := &Plan{
		from: fromRate,
		to:   toRate,
		hops: make([]Hop, 0, defaultHopCapacity),
	}

	current := fromRate
	target := float64(toRate)

	// Downsampling: step down while the remaining ratio is too large.
	for float64(current) > target*maxRatio {
		next := uint32(math.Ceil(float64(current) / maxRatio))
		if err := p.add(current, next); err != nil {
			return nil, err
		}
		current = next
	}

	// Upsampling: step up while the remaining ratio is too large.
	for float64(current)*maxRatio < target {
		next := uint32(math.Floor(float64(current) * maxRatio))
		if err := p.add(current, next); err != nil {
			return nil, err
		}
		current = next
	}

	if current != toRate {
		if err := p.add(current, toRate); err != nil {
			return nil, err
		}
	}

	return p, nil
}

func (p *Plan) add(from, to uint32) error {
	if len(p.hops) >= maxHops {
		return fmt.Errorf("conversion %d→%d needs more than %d hops", p.from, p.to, maxHops)
	}
	if to == 0 || to == from {
		return fmt.Errorf("hop planning stalled at %d Hz", from)
	}
	p.hops = append(p.hops, Hop{From: from, To: to})
	return nil
}

// Hops returns the planned hops in order.
func (p *Plan) Hops() []Hop {
	return p.hops
}

// Len returns the number of hops.
func (p *Plan) Len() int {
	return len(p.hops)
}

// TotalRatio returns the combined ratio of all hops.
func (p *Plan) TotalRatio() float64 {
	return float64(p.to) / float64(p.from)
}

// String formats the plan as a chain of rates, e.g. "48000→24000→16000".
func (p *Plan) String() string {
	if len(p.hops) == 0 {
		return fmt.Sprintf("%d (no conversion)", p.from)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d", p.from)
	for _, h := range p.hops {
		fmt.Fprintf(&b, "→%d", h.To)
	}
	return b.String()
}
