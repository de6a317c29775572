// Package predict maintains the reconstructed-sample history shared by
// encoder and decoder and computes the three CoST predictions for a target
// timestamp (spec §4.2). It generalizes the teacher's fixed-order
// predictors (frame/subframe.go's order-0/1/2 stencils over a uniform
// sample index) to an unevenly-sampled timestamp axis.
package predict

import "github.com/trajcost/cost/trajectory"

// ID names one of the three predictors. The zero value is LDR; the order
// LDR < CP < ZP is the fixed tie-break priority spec §3/§4.4.1 requires.
type ID int

const (
	LDR ID = iota
	CP
	ZP
)

func (id ID) String() string {
	switch id {
	case LDR:
		return "LDR"
	case CP:
		return "CP"
	case ZP:
		return "ZP"
	default:
		return "?"
	}
}

// history capacity H (spec §3: "H = 3 suffices").
const historySize = 3

// velocity is a per-axis rate of change between two consecutive
// reconstructed samples.
type velocity struct {
	Lon float64
	Lat float64
}

type entry struct {
	point trajectory.Sample
	vel   velocity // velocity from the previous reconstructed sample to point; zero for the first
}

// Bank holds the bounded reconstructed-sample history and predicts from it.
// Encoder and decoder each own one; their Apply calls are fed identical
// reconstructed samples, so the two banks stay byte-identical (spec §3's
// mirroring invariant).
type Bank struct {
	history []entry
}

// NewBank returns an empty Bank. Call Seed with the stream's anchor sample
// before the first Predict.
func NewBank() *Bank {
	return &Bank{}
}

// Seed resets the bank to hold only the anchor sample, with zero velocity
// (spec §4.4.4: "History is seeded with the point and zero velocity").
func (b *Bank) Seed(p trajectory.Sample) {
	b.history = []entry{{point: p}}
}

// CurrentTS returns the timestamp of the most recently reconstructed
// sample, the reference point Predict's Δt is measured from.
func (b *Bank) CurrentTS() uint64 {
	return b.history[len(b.history)-1].point.TS
}

// Predict returns the zero, linear dead-reckoning, and curve predictions
// for targetTS, in that order.
func (b *Bank) Predict(targetTS uint64) (zp, ldr, cp trajectory.Sample) {
	cur := b.history[len(b.history)-1]
	dt := deltaT(cur.point.TS, targetTS)

	zp = trajectory.Sample{Lon: cur.point.Lon, Lat: cur.point.Lat, TS: targetTS}

	if len(b.history) < 2 {
		ldr = zp
	} else {
		vLast := cur.vel
		ldr = trajectory.Sample{
			Lon: cur.point.Lon + vLast.Lon*dt,
			Lat: cur.point.Lat + vLast.Lat*dt,
			TS:  targetTS,
		}
	}

	if len(b.history) < 3 {
		cp = ldr
	} else {
		vLast := cur.vel
		vPrev := b.history[len(b.history)-2].vel
		aLon := vLast.Lon - vPrev.Lon
		aLat := vLast.Lat - vPrev.Lat
		cp = trajectory.Sample{
			Lon: cur.point.Lon + vLast.Lon*dt + 0.5*aLon*dt*dt,
			Lat: cur.point.Lat + vLast.Lat*dt + 0.5*aLat*dt*dt,
			TS:  targetTS,
		}
	}
	return zp, ldr, cp
}

// Apply appends a reconstructed sample to the history, computing its
// velocity from the previous reconstructed sample, and evicts the oldest
// entry once size exceeds H.
func (b *Bank) Apply(reconstructed trajectory.Sample) {
	cur := b.history[len(b.history)-1]
	var vel velocity
	dtSigned := int64(reconstructed.TS) - int64(cur.point.TS)
	if dtSigned > 0 {
		vel.Lon = (reconstructed.Lon - cur.point.Lon) / float64(dtSigned)
		vel.Lat = (reconstructed.Lat - cur.point.Lat) / float64(dtSigned)
	}
	b.history = append(b.history, entry{point: reconstructed, vel: vel})
	if len(b.history) > historySize {
		b.history = b.history[1:]
	}
}

// deltaT returns max(targetTS - currentTS, 1) as a float64, computed
// through a signed subtraction so that a backward or zero jump clamps to 1
// instead of wrapping or dividing by zero (spec §4.2, §9).
func deltaT(currentTS, targetTS uint64) float64 {
	d := int64(targetTS) - int64(currentTS)
	if d < 1 {
		d = 1
	}
	return float64(d)
}
