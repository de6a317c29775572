package cost

import (
	"math"
	"testing"

	"github.com/trajcost/cost/trajectory"
)

func straightLine(n int) []trajectory.Sample {
	out := make([]trajectory.Sample, n)
	for i := 0; i < n; i++ {
		out[i] = trajectory.Sample{
			Lon: 10.0 + 0.0001*float64(i),
			Lat: 50.0 + 0.00005*float64(i),
			TS:  uint64(1000 + 10*i),
		}
	}
	return out
}

func maneuvering(n int) []trajectory.Sample {
	out := make([]trajectory.Sample, n)
	lon, lat := 10.0, 50.0
	ts := uint64(1000)
	for i := 0; i < n; i++ {
		out[i] = trajectory.Sample{Lon: lon, Lat: lat, TS: ts}
		switch i % 7 {
		case 0:
			lon += 0.0002
		case 1:
			lat += 0.0001
		case 2:
			lon -= 0.00005
			lat -= 0.00015
		case 3:
			lon += 0.0003
			lat += 0.0003
		default:
			lon += 0.00001
			lat += 0.00001
		}
		ts += uint64(5 + (i % 3))
	}
	return out
}

func roundTrip(t *testing.T, cfg Config, pts []trajectory.Sample) []trajectory.Sample {
	t.Helper()
	c := NewCompressor(cfg)
	for _, p := range pts {
		if err := c.Add(p); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	data := c.CompressedBytes()

	d := NewDecompressor(data)
	got := d.All()
	if len(got) != len(pts) {
		t.Fatalf("got %d points, want %d", len(got), len(pts))
	}
	return got
}

func TestRoundTripStraightLine(t *testing.T) {
	pts := straightLine(50)
	cfg := Config{BlockSize: uint16(len(pts)), Epsilon: 1e-4, EvaluationWindow: 8}
	got := roundTrip(t, cfg, pts)
	for i := range pts {
		if got[i].TS != pts[i].TS {
			t.Fatalf("point %d: ts = %d, want %d", i, got[i].TS, pts[i].TS)
		}
		if math.Abs(got[i].Lon-pts[i].Lon) > cfg.Epsilon {
			t.Fatalf("point %d: lon error %.9f exceeds epsilon", i, math.Abs(got[i].Lon-pts[i].Lon))
		}
		if math.Abs(got[i].Lat-pts[i].Lat) > cfg.Epsilon {
			t.Fatalf("point %d: lat error %.9f exceeds epsilon", i, math.Abs(got[i].Lat-pts[i].Lat))
		}
	}
}

func TestRoundTripManeuvering(t *testing.T) {
	pts := maneuvering(200)
	cfg := Config{BlockSize: uint16(len(pts)), Epsilon: 2e-5, EvaluationWindow: 16}
	got := roundTrip(t, cfg, pts)
	for i := range pts {
		if math.Abs(got[i].Lon-pts[i].Lon) > cfg.Epsilon {
			t.Fatalf("point %d: lon error exceeds epsilon", i)
		}
		if math.Abs(got[i].Lat-pts[i].Lat) > cfg.Epsilon {
			t.Fatalf("point %d: lat error exceeds epsilon", i)
		}
	}
}

func TestRoundTripTimeWindow(t *testing.T) {
	pts := maneuvering(150)
	cfg := Config{BlockSize: uint16(len(pts)), Epsilon: 5e-5, UseTimeWindow: true, TimeWindowSeconds: 60}
	got := roundTrip(t, cfg, pts)
	for i := range pts {
		if math.Abs(got[i].Lon-pts[i].Lon) > cfg.Epsilon {
			t.Fatalf("point %d: lon error exceeds epsilon", i)
		}
		if math.Abs(got[i].Lat-pts[i].Lat) > cfg.Epsilon {
			t.Fatalf("point %d: lat error exceeds epsilon", i)
		}
	}
}

// TestModeSwitchFiresOnStraightLine drives a long straight-line trajectory
// through the real Compressor. Each step moves about half a quantization
// step, so the cheapest predictor alternates between LDR and ZP; on every
// point where LDR wins, LDR_ONLY saves the predictor flag, and on the
// others it costs no more, so the mode controller (spec §4.4.3) should
// switch into LDR_ONLY once a full evaluation window has accumulated.
func TestModeSwitchFiresOnStraightLine(t *testing.T) {
	pts := straightLine(300)
	cfg := Config{BlockSize: uint16(len(pts)), Epsilon: 1e-4, EvaluationWindow: 8}
	c := NewCompressor(cfg)
	for _, p := range pts {
		if err := c.Add(p); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	st := c.Stats()
	if st.ModeSwitchCount == 0 {
		t.Fatalf("ModeSwitchCount = 0, want at least one switch into LDR_ONLY")
	}
	if st.LDROnlyModePoints == 0 {
		t.Fatalf("LDROnlyModePoints = 0, want the controller to have spent time in LDR_ONLY")
	}
}

func TestStatsAccounting(t *testing.T) {
	pts := straightLine(100)
	cfg := Config{BlockSize: uint16(len(pts)), Epsilon: 1e-4, EvaluationWindow: 10}
	c := NewCompressor(cfg)
	for _, p := range pts {
		if err := c.Add(p); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	st := c.Stats()
	total := st.PredictorCounts[0] + st.PredictorCounts[1] + st.PredictorCounts[2]
	if total != len(pts)-1 {
		t.Fatalf("predictor counts sum to %d, want %d", total, len(pts)-1)
	}
	if c.CompressedBits() == 0 {
		t.Fatalf("CompressedBits is zero")
	}
	if st.Bits.Total() == 0 {
		t.Fatalf("stats bit breakdown is zero")
	}
}

func TestAddAfterCloseErrors(t *testing.T) {
	cfg := Config{BlockSize: 1, Epsilon: 1e-4}
	c := NewCompressor(cfg)
	if err := c.Add(trajectory.Sample{Lon: 1, Lat: 1, TS: 1}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := c.Add(trajectory.Sample{Lon: 2, Lat: 2, TS: 2}); err == nil {
		t.Fatalf("Add after Close: want error, got nil")
	}
}

func TestDecompressorTruncatedStream(t *testing.T) {
	pts := straightLine(20)
	cfg := Config{BlockSize: uint16(len(pts)), Epsilon: 1e-4, EvaluationWindow: 5}
	c := NewCompressor(cfg)
	for _, p := range pts {
		if err := c.Add(p); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	data := c.CompressedBytes()
	truncated := data[:len(data)/2]

	d := NewDecompressor(truncated)
	got := d.All()
	if len(got) >= len(pts) {
		t.Fatalf("truncated stream yielded %d points, want fewer than %d", len(got), len(pts))
	}
}
