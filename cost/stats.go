package cost

import "github.com/trajcost/cost/predict"

// BitBreakdown splits the total bits emitted into the four named
// categories spec §6 asks for.
type BitBreakdown struct {
	PredictorFlagBits int64
	ModeBits          int64
	ResidualBits      int64
	TimestampBits     int64
}

// Total returns the sum of every category.
func (b BitBreakdown) Total() int64 {
	return b.PredictorFlagBits + b.ModeBits + b.ResidualBits + b.TimestampBits
}

// Stats reports the bookkeeping spec §6 names plus the richer breakdown
// supplemented from original_source/algorithm/cost_compressor.h (see
// SPEC_FULL.md "Supplemented features"): per-predictor counts, mode
// residency, and the number of times the mode flipped.
type Stats struct {
	PredictorCounts map[predict.ID]int

	ModeSwitchCount          int
	MultiPredictorModePoints int
	LDROnlyModePoints        int

	Bits BitBreakdown
}

func newStats() Stats {
	return Stats{PredictorCounts: map[predict.ID]int{predict.LDR: 0, predict.CP: 0, predict.ZP: 0}}
}
