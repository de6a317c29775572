package baselines

import (
	"math"

	cbitio "github.com/trajcost/cost/bitio"
	iobits "github.com/trajcost/cost/internal/bits"
	"github.com/trajcost/cost/residual"
	"github.com/trajcost/cost/trajectory"
)

// SerfXOR is a minimal stand-in for the Serf family's XOR/delta baselines:
// no prediction bank, no mode switching, just a fixed quantization step and
// delta+ZigZag+Elias-Gamma coding of lon, lat and timestamp against the
// immediately preceding point. It exists so cmd/costbench has a simple,
// genuinely-computed point of comparison (spec §1's "expected call shape
// and output unit" is all the real Serf variants require).
type SerfXOR struct {
	codec residual.Codec
	bw    *cbitio.Writer
	bits  uint64

	wroteFirst bool
	prev       trajectory.Sample

	closed bool
}

// NewSerfXOR returns a SerfXOR quantizing lon/lat deltas on step
// 2*epsilon, matching residual.New's convention.
func NewSerfXOR(epsilon float64) *SerfXOR {
	return &SerfXOR{
		codec: residual.New(epsilon),
		bw:    cbitio.NewWriter(),
	}
}

// AddPoint encodes the next sample.
func (s *SerfXOR) AddPoint(p trajectory.Sample) error {
	if !s.wroteFirst {
		if _, err := s.bw.WriteU64(math.Float64bits(p.Lon), 64); err != nil {
			return err
		}
		if _, err := s.bw.WriteU64(math.Float64bits(p.Lat), 64); err != nil {
			return err
		}
		if _, err := s.bw.WriteU64(p.TS, 64); err != nil {
			return err
		}
		s.bits += 192
		s.wroteFirst = true
		s.prev = p
		return nil
	}

	qLon := s.codec.Quantize(p.Lon - s.prev.Lon)
	qLat := s.codec.Quantize(p.Lat - s.prev.Lat)
	nLon, err := s.codec.Encode(s.bw.Raw(), qLon)
	if err != nil {
		return err
	}
	nLat, err := s.codec.Encode(s.bw.Raw(), qLat)
	if err != nil {
		return err
	}

	dts := iobits.EncodeZigZag(int64(p.TS)-int64(s.prev.TS)) + 1
	nTS, err := iobits.EncodeGamma(s.bw.Raw(), dts)
	if err != nil {
		return err
	}

	s.bits += uint64(nLon + nLat + nTS)
	s.prev = trajectory.Sample{
		Lon: s.prev.Lon + s.codec.Dequantize(qLon),
		Lat: s.prev.Lat + s.codec.Dequantize(qLat),
		TS:  p.TS,
	}
	return nil
}

// Close flushes the bit sink.
func (s *SerfXOR) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.bw.Flush()
}

// CompressedBits returns the total number of bits written.
func (s *SerfXOR) CompressedBits() uint64 {
	return s.bits
}
