package baselines

import (
	"testing"

	"github.com/trajcost/cost/trajectory"
)

func samplePoints() []trajectory.Sample {
	return []trajectory.Sample{
		{Lon: 10.0, Lat: 50.0, TS: 1000},
		{Lon: 10.0001, Lat: 50.00005, TS: 1010},
		{Lon: 10.0002, Lat: 50.00010, TS: 1020},
		{Lon: 10.0002, Lat: 50.00015, TS: 1031},
		{Lon: 10.0003, Lat: 50.00020, TS: 1040},
	}
}

func TestSerfXORProducesBits(t *testing.T) {
	c := NewSerfXOR(1e-4)
	for _, p := range samplePoints() {
		if err := c.AddPoint(p); err != nil {
			t.Fatalf("AddPoint: %v", err)
		}
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if c.CompressedBits() < 192 {
		t.Fatalf("CompressedBits = %d, want at least the anchor's 192", c.CompressedBits())
	}
}

func TestGorillaProducesBits(t *testing.T) {
	c := NewGorilla()
	for _, p := range samplePoints() {
		if err := c.AddPoint(p); err != nil {
			t.Fatalf("AddPoint: %v", err)
		}
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if c.CompressedBits() < 192 {
		t.Fatalf("CompressedBits = %d, want at least the anchor's 192", c.CompressedBits())
	}
}

func TestGorillaRepeatedPointIsCheap(t *testing.T) {
	c := NewGorilla()
	p := trajectory.Sample{Lon: 1, Lat: 2, TS: 100}
	// First point: raw anchor. Second: raw 64-bit timestamp delta (n==1).
	// Third: identical lon/lat (1 bit each) and a zero delta-of-delta
	// (1 bit), so it should be the cheapest point in the stream.
	if err := c.AddPoint(p); err != nil {
		t.Fatalf("AddPoint: %v", err)
	}
	if err := c.AddPoint(trajectory.Sample{Lon: 1, Lat: 2, TS: 110}); err != nil {
		t.Fatalf("AddPoint: %v", err)
	}
	before := c.CompressedBits()
	if err := c.AddPoint(trajectory.Sample{Lon: 1, Lat: 2, TS: 120}); err != nil {
		t.Fatalf("AddPoint: %v", err)
	}
	after := c.CompressedBits()
	if after-before > 4 {
		t.Fatalf("repeated point cost %d bits, want at most 4 (two zero-XOR bits plus a zero dod)", after-before)
	}
}

func TestStubsReturnUnimplemented(t *testing.T) {
	for _, c := range []Compressor{NewChimp(), NewSZ2(), NewSquishE(), NewVOLTCom()} {
		if err := c.AddPoint(trajectory.Sample{}); err != ErrUnimplemented {
			t.Fatalf("AddPoint: got %v, want ErrUnimplemented", err)
		}
	}
}
