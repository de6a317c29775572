package trajectory

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/mewkiz/pkg/errutil"
)

// ColumnSpec describes which CSV columns hold the fields CoST needs. Set
// either TSCol (a raw integer tick column) or both DateCol and TimeCol (two
// text columns combined and parsed with DateTimeLayout); exactly one of the
// two timestamp forms must be configured.
//
// No CSV or date-parsing library appears anywhere in the retrieval pack
// (see DESIGN.md), so this uses only encoding/csv and time from the
// standard library.
type ColumnSpec struct {
	LonCol int
	LatCol int

	TSCol int // -1 if unused

	DateCol        int // -1 if unused
	TimeCol        int // -1 if unused
	DateTimeLayout string

	TrajIDCol int // -1 means the whole file is a single trajectory

	HasHeader bool
}

// Record is one parsed CSV row: a sample tagged with its trajectory id.
type Record struct {
	TrajID string
	Sample Sample
}

// LoadCSV parses every data row of r according to spec.
func LoadCSV(r io.Reader, spec ColumnSpec) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var records []Record
	first := true
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errutil.Err(err)
		}
		if first && spec.HasHeader {
			first = false
			continue
		}
		first = false

		rec, err := parseRow(row, spec)
		if err != nil {
			return nil, errutil.Err(err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseRow(row []string, spec ColumnSpec) (Record, error) {
	lon, err := strconv.ParseFloat(row[spec.LonCol], 64)
	if err != nil {
		return Record{}, errutil.Newf("longitude column %d: %v", spec.LonCol, err)
	}
	lat, err := strconv.ParseFloat(row[spec.LatCol], 64)
	if err != nil {
		return Record{}, errutil.Newf("latitude column %d: %v", spec.LatCol, err)
	}

	ts, err := parseTimestamp(row, spec)
	if err != nil {
		return Record{}, err
	}

	trajID := ""
	if spec.TrajIDCol >= 0 {
		trajID = row[spec.TrajIDCol]
	}

	return Record{
		TrajID: trajID,
		Sample: Sample{Lon: lon, Lat: lat, TS: ts},
	}, nil
}

func parseTimestamp(row []string, spec ColumnSpec) (uint64, error) {
	if spec.TSCol >= 0 {
		ts, err := strconv.ParseUint(row[spec.TSCol], 10, 64)
		if err != nil {
			return 0, errutil.Newf("timestamp column %d: %v", spec.TSCol, err)
		}
		return ts, nil
	}

	if spec.DateCol >= 0 && spec.TimeCol >= 0 {
		text := row[spec.DateCol] + " " + row[spec.TimeCol]
		t, err := time.Parse(spec.DateTimeLayout, text)
		if err != nil {
			return 0, errutil.Newf("date+time columns %d/%d: %v", spec.DateCol, spec.TimeCol, err)
		}
		sec := t.Unix()
		if sec < 0 {
			return 0, errutil.Newf("timestamp %q predates the epoch, cannot represent as unsigned tick", text)
		}
		return uint64(sec), nil
	}

	return 0, errutil.Newf("ColumnSpec must set TSCol, or both DateCol and TimeCol")
}

// Segment is one trajectory's samples, in file order.
type Segment struct {
	TrajID  string
	Samples []Sample
}

// SegmentByTrajectoryID groups records by TrajID, preserving both the
// order samples were seen within a trajectory and the order trajectories
// were first seen in the file.
func SegmentByTrajectoryID(records []Record) []Segment {
	index := make(map[string]int)
	var segments []Segment
	for _, rec := range records {
		i, ok := index[rec.TrajID]
		if !ok {
			i = len(segments)
			index[rec.TrajID] = i
			segments = append(segments, Segment{TrajID: rec.TrajID})
		}
		segments[i].Samples = append(segments[i].Samples, rec.Sample)
	}
	return segments
}
