// Package huffman maintains the adaptive 3-symbol prefix code over
// predictor identities (spec §4.3). The code alphabet is always the fixed
// set {0, 10, 11}; only its assignment to LDR/CP/ZP changes, driven by a
// sliding window of recent predictor choices.
//
// The approach — evaluate every candidate assignment and keep the minimum —
// is grounded on the teacher's analysis_fixed.go, which does the same
// exhaustive-search-then-pick-argmin for FLAC's Rice parameter; here the
// search space is a 3-way sort by frequency instead of a 0..14 parameter
// sweep.
package huffman

import (
	"sort"

	ibitio "github.com/icza/bitio"

	"github.com/trajcost/cost/predict"
	"github.com/trajcost/cost/window"
)

// windowSize is W_p in spec §3.
const windowSize = 1000

// reassignEvery is the cadence spec §4.3 names: "every time the window
// size is an exact multiple of 100".
const reassignEvery = 100

// code is one of the three fixed codewords: {0}, {10}, {11}.
type code struct {
	bits uint64
	len  byte
}

var codesByRank = [3]code{
	{bits: 0x0, len: 1}, // "0"
	{bits: 0x2, len: 2}, // "10"
	{bits: 0x3, len: 2}, // "11"
}

// Table is the encoder/decoder-shared adaptive Huffman state. Both sides
// construct one identically and drive it with the same sequence of Push
// calls (encoder: after each transmitted choice; decoder: after each
// decoded choice), so their assignments never diverge.
type Table struct {
	counts     [3]int
	assignment [3]code // indexed by predict.ID
	decodeMap  map[code]predict.ID

	win *window.Ring[predict.ID]
}

// New returns a Table seeded with the prior counts spec §4.3 names:
// {LDR: 60, CP: 10, ZP: 30}.
func New() *Table {
	t := &Table{
		counts: [3]int{int(predict.LDR): 60, int(predict.CP): 10, int(predict.ZP): 30},
		win:    window.NewRing[predict.ID](windowSize),
	}
	t.reassign()
	return t
}

// Len returns the current codeword length, in bits, for id.
func (t *Table) Len(id predict.ID) byte {
	return t.assignment[id].len
}

// EncodeTo writes id's current codeword to bw and returns the number of
// bits written.
func (t *Table) EncodeTo(bw *ibitio.Writer, id predict.ID) (int, error) {
	c := t.assignment[id]
	if err := bw.WriteBits(c.bits, c.len); err != nil {
		return 0, err
	}
	return int(c.len), nil
}

// DecodeFrom reads one codeword from br and returns the predictor it names
// under the table's current assignment.
func (t *Table) DecodeFrom(br *ibitio.Reader) (predict.ID, error) {
	first, err := br.ReadBool()
	if err != nil {
		return 0, err
	}
	if !first {
		return t.decodeMap[code{bits: 0x0, len: 1}], nil
	}
	second, err := br.ReadBool()
	if err != nil {
		return 0, err
	}
	bits := uint64(0x2)
	if second {
		bits = 0x3
	}
	return t.decodeMap[code{bits: bits, len: 2}], nil
}

// Push records that id was the predictor actually transmitted for a point,
// updating the sliding window and, whenever the window's length is a
// multiple of reassignEvery, the code assignment. Once the window is full
// its length stays at windowSize, so from then on every push reassigns.
func (t *Table) Push(id predict.ID) {
	t.counts[id]++
	if evicted, had := t.win.Push(id); had {
		t.counts[evicted]--
	}
	if t.win.Len()%reassignEvery == 0 {
		t.reassign()
	}
}

// reassign sorts the three predictors by (frequency desc, id asc) and
// assigns codes 0, 10, 11 in that order.
func (t *Table) reassign() {
	ids := [3]predict.ID{predict.LDR, predict.CP, predict.ZP}
	sort.Slice(ids[:], func(i, j int) bool {
		ci, cj := t.counts[ids[i]], t.counts[ids[j]]
		if ci != cj {
			return ci > cj
		}
		return ids[i] < ids[j]
	})
	t.decodeMap = make(map[code]predict.ID, 3)
	for rank, id := range ids {
		c := codesByRank[rank]
		t.assignment[id] = c
		t.decodeMap[c] = id
	}
}
