package baselines

import (
	"math"
	"math/bits"

	cbitio "github.com/trajcost/cost/bitio"
	"github.com/trajcost/cost/trajectory"
)

// Gorilla is a minimal Facebook Gorilla-style baseline: XOR-of-previous-
// value float compression for lon and lat, and delta-of-delta timestamp
// compression, matching the well-known published scheme. It has no
// prediction bank and no mode switching; it exists purely as a second
// genuinely-computed comparison point for cmd/costbench (spec §1's
// "expected call shape and output unit" is all a real Gorilla client would
// need).
type Gorilla struct {
	bw   *cbitio.Writer
	bits uint64

	wroteFirst bool
	n          int // points seen

	prevLonBits, prevLatBits uint64
	prevLeadLon, prevTrailLon int
	prevLeadLat, prevTrailLat int

	prevTS    uint64
	prevDelta int64 // ts[n-1] - ts[n-2], valid once n >= 2

	closed bool
}

// NewGorilla returns an empty Gorilla compressor.
func NewGorilla() *Gorilla {
	return &Gorilla{bw: cbitio.NewWriter()}
}

func (g *Gorilla) AddPoint(p trajectory.Sample) error {
	lonBits := math.Float64bits(p.Lon)
	latBits := math.Float64bits(p.Lat)

	if !g.wroteFirst {
		if _, err := g.bw.WriteU64(lonBits, 64); err != nil {
			return err
		}
		if _, err := g.bw.WriteU64(latBits, 64); err != nil {
			return err
		}
		if _, err := g.bw.WriteU64(p.TS, 64); err != nil {
			return err
		}
		g.bits += 192
		g.wroteFirst = true
		g.prevLonBits, g.prevLatBits = lonBits, latBits
		g.prevTS = p.TS
		g.n = 1
		return nil
	}

	n, err := g.writeValue(lonBits, g.prevLonBits, &g.prevLeadLon, &g.prevTrailLon)
	if err != nil {
		return err
	}
	g.bits += uint64(n)
	n, err = g.writeValue(latBits, g.prevLatBits, &g.prevLeadLat, &g.prevTrailLat)
	if err != nil {
		return err
	}
	g.bits += uint64(n)

	n, err = g.writeTimestamp(p.TS)
	if err != nil {
		return err
	}
	g.bits += uint64(n)

	g.prevLonBits, g.prevLatBits = lonBits, latBits
	g.prevTS = p.TS
	g.n++
	return nil
}

// writeTimestamp implements Gorilla's delta-of-delta timestamp coding: the
// second point writes a raw 64-bit delta; every later point writes a dod
// bucketed into {0, 7, 9, 12, 32} bits by magnitude.
func (g *Gorilla) writeTimestamp(ts uint64) (int, error) {
	delta := int64(ts) - int64(g.prevTS)
	if g.n == 1 {
		if _, err := g.bw.WriteU64(uint64(delta), 64); err != nil {
			return 0, err
		}
		g.prevDelta = delta
		return 64, nil
	}

	dod := delta - g.prevDelta
	g.prevDelta = delta

	switch {
	case dod == 0:
		if _, err := g.bw.WriteBit(false); err != nil {
			return 0, err
		}
		return 1, nil
	case dod >= -63 && dod <= 64:
		return g.writeBucket(dod, 0x2, 2, 7)
	case dod >= -255 && dod <= 256:
		return g.writeBucket(dod, 0x6, 3, 9)
	case dod >= -2047 && dod <= 2048:
		return g.writeBucket(dod, 0xe, 4, 12)
	default:
		return g.writeBucket(dod, 0x1e, 5, 32)
	}
}

func (g *Gorilla) writeBucket(v int64, marker uint64, markerLen byte, payloadLen byte) (int, error) {
	if _, err := g.bw.WriteBits(marker, markerLen); err != nil {
		return 0, err
	}
	if _, err := g.bw.WriteBits(uint64(v)&((1<<payloadLen)-1), payloadLen); err != nil {
		return 0, err
	}
	return int(markerLen) + int(payloadLen), nil
}

// writeValue implements Gorilla's XOR-of-previous-value float coding: a
// zero XOR costs one bit; otherwise the meaningful (non-zero) bit range is
// written, either reusing the previous block's leading/trailing zero
// counts (one control bit) or specifying a new range (two 5/6-bit counts).
func (g *Gorilla) writeValue(v, prev uint64, prevLead, prevTrail *int) (int, error) {
	xor := v ^ prev
	if xor == 0 {
		if _, err := g.bw.WriteBit(false); err != nil {
			return 0, err
		}
		return 1, nil
	}
	lead := bits.LeadingZeros64(xor)
	trail := bits.TrailingZeros64(xor)
	meaningfulLen := 64 - lead - trail

	total := 1
	if _, err := g.bw.WriteBit(true); err != nil {
		return 0, err
	}
	if lead >= *prevLead && trail >= *prevTrail && (64-*prevLead-*prevTrail) > 0 {
		if _, err := g.bw.WriteBit(false); err != nil {
			return 0, err
		}
		blockLen := 64 - *prevLead - *prevTrail
		shifted := (xor >> uint(*prevTrail)) & ((uint64(1) << uint(blockLen)) - 1)
		if _, err := g.bw.WriteBits(shifted, byte(blockLen)); err != nil {
			return 0, err
		}
		total += 1 + blockLen
		return total, nil
	}

	if _, err := g.bw.WriteBit(true); err != nil {
		return 0, err
	}
	if _, err := g.bw.WriteBits(uint64(lead), 5); err != nil {
		return 0, err
	}
	if _, err := g.bw.WriteBits(uint64(meaningfulLen), 6); err != nil {
		return 0, err
	}
	shifted := (xor >> uint(trail)) & ((uint64(1) << uint(meaningfulLen)) - 1)
	if _, err := g.bw.WriteBits(shifted, byte(meaningfulLen)); err != nil {
		return 0, err
	}
	*prevLead, *prevTrail = lead, trail
	total += 1 + 5 + 6 + meaningfulLen
	return total, nil
}

// Close flushes the bit sink.
func (g *Gorilla) Close() error {
	if g.closed {
		return nil
	}
	g.closed = true
	return g.bw.Flush()
}

// CompressedBits returns the total number of bits written.
func (g *Gorilla) CompressedBits() uint64 {
	return g.bits
}
