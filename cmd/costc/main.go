// costc compresses a CSV trajectory file into one or more CoST binaries.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/mewkiz/pkg/osutil"
	"github.com/mewkiz/pkg/pathutil"
	"github.com/pkg/errors"

	"github.com/trajcost/cost/cost"
	"github.com/trajcost/cost/trajectory"
)

func main() {
	var (
		force     bool
		epsilon   float64
		evalWin   uint
		lonCol    int
		latCol    int
		tsCol     int
		trajCol   int
		hasHeader bool
	)
	flag.BoolVar(&force, "f", false, "force overwrite")
	flag.Float64Var(&epsilon, "epsilon", 1e-5, "absolute spatial tolerance, same units as lon/lat")
	flag.UintVar(&evalWin, "eval-window", 96, "point-count mode-evaluation interval")
	flag.IntVar(&lonCol, "lon-col", 0, "CSV column index of longitude")
	flag.IntVar(&latCol, "lat-col", 1, "CSV column index of latitude")
	flag.IntVar(&tsCol, "ts-col", 2, "CSV column index of the raw integer timestamp")
	flag.IntVar(&trajCol, "traj-col", -1, "CSV column index of the trajectory id, or -1 for a single trajectory")
	flag.BoolVar(&hasHeader, "header", false, "the CSV file has a header row")
	flag.Parse()

	spec := trajectory.ColumnSpec{
		LonCol:    lonCol,
		LatCol:    latCol,
		TSCol:     tsCol,
		DateCol:   -1,
		TimeCol:   -1,
		TrajIDCol: trajCol,
		HasHeader: hasHeader,
	}

	for _, csvPath := range flag.Args() {
		if err := costc(csvPath, spec, epsilon, uint16(evalWin), force); err != nil {
			log.Fatalf("%+v", err)
		}
	}
}

func costc(csvPath string, spec trajectory.ColumnSpec, epsilon float64, evalWin uint16, force bool) error {
	r, err := os.Open(csvPath)
	if err != nil {
		return errors.WithStack(err)
	}
	defer r.Close()

	records, err := trajectory.LoadCSV(r, spec)
	if err != nil {
		return errors.WithStack(err)
	}
	segments := trajectory.SegmentByTrajectoryID(records)

	base := pathutil.TrimExt(csvPath)
	for _, seg := range segments {
		outPath := base + ".cost"
		if spec.TrajIDCol >= 0 {
			outPath = fmt.Sprintf("%s.%s.cost", base, seg.TrajID)
		}
		if !force && osutil.Exists(outPath) {
			return errors.Errorf("CoST file %q already present; use -f flag to force overwrite", outPath)
		}
		if err := compressSegment(seg.Samples, outPath, epsilon, evalWin); err != nil {
			return err
		}
	}
	return nil
}

func compressSegment(samples []trajectory.Sample, outPath string, epsilon float64, evalWin uint16) error {
	cfg := cost.Config{
		BlockSize:        uint16(len(samples)),
		Epsilon:          epsilon,
		EvaluationWindow: evalWin,
	}
	c := cost.NewCompressor(cfg)
	for _, p := range samples {
		if err := c.Add(p); err != nil {
			return errors.WithStack(err)
		}
	}
	if err := c.Close(); err != nil {
		return errors.WithStack(err)
	}

	w, err := os.Create(outPath)
	if err != nil {
		return errors.WithStack(err)
	}
	defer w.Close()
	if _, err := w.Write(c.CompressedBytes()); err != nil {
		return errors.WithStack(err)
	}

	st := c.Stats()
	fmt.Printf("%s: %d points, %d bits (%d bytes), %d mode switches\n",
		outPath, len(samples), c.CompressedBits(), len(c.CompressedBytes()), st.ModeSwitchCount)
	return nil
}
