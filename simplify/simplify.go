// Package simplify specifies the one-dimensional geometric simplifier call
// shape spec §1 lists as an external baseline family (Douglas-Peucker,
// Dead-Reckoning, SQUISH-E, VOLTCom) and implements the one member of that
// family that is a pure function of the points themselves: Douglas-Peucker.
package simplify

import (
	"math"

	"github.com/trajcost/cost/trajectory"
)

// Simplifier reduces a trajectory to a subset of its points that stays
// within some implementation-defined tolerance of the original path.
type Simplifier interface {
	Simplify(points []trajectory.Sample, epsilon float64) []trajectory.Sample
}

// DouglasPeucker is the classic recursive perpendicular-distance
// simplifier, applied to the (Lon, Lat) plane; timestamps are carried
// through on the retained points but do not affect the distance test.
type DouglasPeucker struct{}

// Simplify returns the subsequence of points such that no retained segment
// deviates from the original path by more than epsilon, using the
// standard Ramer-Douglas-Peucker algorithm. The first and last points are
// always retained.
func (DouglasPeucker) Simplify(points []trajectory.Sample, epsilon float64) []trajectory.Sample {
	if len(points) < 3 {
		out := make([]trajectory.Sample, len(points))
		copy(out, points)
		return out
	}
	keep := make([]bool, len(points))
	keep[0] = true
	keep[len(points)-1] = true
	douglasPeucker(points, 0, len(points)-1, epsilon, keep)

	out := make([]trajectory.Sample, 0, len(points))
	for i, k := range keep {
		if k {
			out = append(out, points[i])
		}
	}
	return out
}

func douglasPeucker(points []trajectory.Sample, first, last int, epsilon float64, keep []bool) {
	if last <= first+1 {
		return
	}
	maxDist := -1.0
	maxIdx := -1
	for i := first + 1; i < last; i++ {
		d := perpendicularDistance(points[i], points[first], points[last])
		if d > maxDist {
			maxDist = d
			maxIdx = i
		}
	}
	if maxDist <= epsilon {
		return
	}
	keep[maxIdx] = true
	douglasPeucker(points, first, maxIdx, epsilon, keep)
	douglasPeucker(points, maxIdx, last, epsilon, keep)
}

// perpendicularDistance returns p's distance to the line through a and b,
// falling back to the distance to a when a and b coincide.
func perpendicularDistance(p, a, b trajectory.Sample) float64 {
	dx := b.Lon - a.Lon
	dy := b.Lat - a.Lat
	if dx == 0 && dy == 0 {
		return math.Hypot(p.Lon-a.Lon, p.Lat-a.Lat)
	}
	num := math.Abs(dy*p.Lon - dx*p.Lat + b.Lon*a.Lat - b.Lat*a.Lon)
	den := math.Hypot(dx, dy)
	return num / den
}
