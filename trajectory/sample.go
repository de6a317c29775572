// Package trajectory holds the CoST data model's base value type and the
// ingestion/segmentation machinery that sits in front of the core codec:
// CSV loading, timestamp parsing, and splitting a file into independent
// per-trajectory runs (spec §1's "out of scope, specified only by the
// interfaces they present to the core").
package trajectory

import "fmt"

// Sample is a single GPS fix: a (longitude, latitude, timestamp) triple.
// lon/lat are degrees; ts is an opaque unsigned tick the codec only ever
// differences (the source data treats it as seconds since the epoch).
type Sample struct {
	Lon float64
	Lat float64
	TS  uint64
}

func (s Sample) String() string {
	return fmt.Sprintf("(%.7f, %.7f, %d)", s.Lon, s.Lat, s.TS)
}
