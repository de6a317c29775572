// Package baselines specifies the peer-compressor call shape spec §1 needs
// for the comparison harness ("only the expected call shape and output
// unit matter"), plus two genuinely-runnable reference implementations so
// cmd/costbench has real numbers to report alongside CoST's own. The more
// sophisticated peers spec §1 names (Chimp, SZ2, SQUISH-E, VOLTCom) are
// left as documented stubs: the pack carries no client library for any of
// them, and fabricating one would misrepresent a real dependency (see
// DESIGN.md).
package baselines

import (
	"errors"

	"github.com/trajcost/cost/trajectory"
)

// ErrUnimplemented is returned by stub Compressors' AddPoint.
var ErrUnimplemented = errors.New("baselines: not implemented")

// Compressor is the peer-baseline call shape spec §1 requires: feed points
// one at a time, Close to flush, then read back the compressed size.
type Compressor interface {
	AddPoint(p trajectory.Sample) error
	Close() error
	CompressedBits() uint64
}

// stub is a named Compressor that refuses every AddPoint, for peers the
// pack has no library to build from.
type stub struct {
	name string
}

func (s stub) AddPoint(trajectory.Sample) error { return ErrUnimplemented }
func (s stub) Close() error                     { return nil }
func (s stub) CompressedBits() uint64           { return 0 }

// NewChimp returns an unimplemented stand-in for the Chimp compressor.
func NewChimp() Compressor { return stub{name: "Chimp"} }

// NewSZ2 returns an unimplemented stand-in for SZ2.
func NewSZ2() Compressor { return stub{name: "SZ2"} }

// NewSquishE returns an unimplemented stand-in for SQUISH-E, which is
// really a simplifier rather than a byte compressor; see simplify.DouglasPeucker.
func NewSquishE() Compressor { return stub{name: "SQUISH-E"} }

// NewVOLTCom returns an unimplemented stand-in for VOLTCom.
func NewVOLTCom() Compressor { return stub{name: "VOLTCom"} }
