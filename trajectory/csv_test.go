package trajectory

import (
	"strings"
	"testing"
)

func TestLoadCSVWithRawTimestamp(t *testing.T) {
	data := "traj,lon,lat,ts\n" +
		"A,116.3,39.9,1000000000\n" +
		"A,116.30001,39.9,1000000010\n" +
		"B,100.0,30.0,1000000000\n"

	spec := ColumnSpec{
		LonCol: 1, LatCol: 2, TSCol: 3, DateCol: -1, TimeCol: -1,
		TrajIDCol: 0, HasHeader: true,
	}
	records, err := LoadCSV(strings.NewReader(data), spec)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}

	segments := SegmentByTrajectoryID(records)
	if len(segments) != 2 {
		t.Fatalf("got %d segments, want 2", len(segments))
	}
	if segments[0].TrajID != "A" || len(segments[0].Samples) != 2 {
		t.Errorf("segment 0 = %+v", segments[0])
	}
	if segments[1].TrajID != "B" || len(segments[1].Samples) != 1 {
		t.Errorf("segment 1 = %+v", segments[1])
	}
}

func TestLoadCSVWithDateTimeColumns(t *testing.T) {
	data := "lon,lat,date,time\n116.3,39.9,2024-01-02,03:04:05\n"
	spec := ColumnSpec{
		LonCol: 0, LatCol: 1, TSCol: -1,
		DateCol: 2, TimeCol: 3, DateTimeLayout: "2006-01-02 15:04:05",
		TrajIDCol: -1, HasHeader: true,
	}
	records, err := LoadCSV(strings.NewReader(data), spec)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].Sample.TS == 0 {
		t.Errorf("expected non-zero parsed timestamp")
	}
}

func TestLoadCSVMissingTimestampSpec(t *testing.T) {
	data := "0,0\n"
	spec := ColumnSpec{LonCol: 0, LatCol: 1, TSCol: -1, DateCol: -1, TimeCol: -1, TrajIDCol: -1}
	if _, err := LoadCSV(strings.NewReader(data), spec); err == nil {
		t.Fatal("expected error for missing timestamp configuration")
	}
}
