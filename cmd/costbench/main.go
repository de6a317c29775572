// costbench compares CoST against the baselines/ reference compressors
// across every trajectory segment of a CSV file, emitting a CSV report.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/pkg/errors"

	"github.com/trajcost/cost/baselines"
	"github.com/trajcost/cost/cost"
	"github.com/trajcost/cost/trajectory"
)

var (
	flagEpsilon float64
	flagLonCol  int
	flagLatCol  int
	flagTSCol   int
	flagTrajCol int
	flagHeader  bool
	flagOut     string
)

func init() {
	flag.Float64Var(&flagEpsilon, "epsilon", 1e-5, "absolute spatial tolerance")
	flag.IntVar(&flagLonCol, "lon-col", 0, "CSV column index of longitude")
	flag.IntVar(&flagLatCol, "lat-col", 1, "CSV column index of latitude")
	flag.IntVar(&flagTSCol, "ts-col", 2, "CSV column index of the raw integer timestamp")
	flag.IntVar(&flagTrajCol, "traj-col", -1, "CSV column index of the trajectory id, or -1 for a single trajectory")
	flag.BoolVar(&flagHeader, "header", false, "the CSV file has a header row")
	flag.StringVar(&flagOut, "out", "", "report CSV path; defaults to stdout")
	flag.Usage = usage
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: costbench [OPTION]... FILE...")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Flags:")
	flag.PrintDefaults()
}

func main() {
	flag.Parse()
	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	out := os.Stdout
	if flagOut != "" {
		f, err := os.Create(flagOut)
		if err != nil {
			log.Fatalf("%+v", errors.WithStack(err))
		}
		defer f.Close()
		out = f
	}

	w := csv.NewWriter(out)
	defer w.Flush()
	if err := w.Write([]string{"file", "traj_id", "points", "compressor", "compressed_bits", "mode_switches"}); err != nil {
		log.Fatalf("%+v", errors.WithStack(err))
	}

	for _, path := range flag.Args() {
		if err := bench(path, w); err != nil {
			log.Fatalf("%+v", err)
		}
	}
}

func bench(path string, w *csv.Writer) error {
	r, err := os.Open(path)
	if err != nil {
		return errors.WithStack(err)
	}
	defer r.Close()

	spec := trajectory.ColumnSpec{
		LonCol:    flagLonCol,
		LatCol:    flagLatCol,
		TSCol:     flagTSCol,
		DateCol:   -1,
		TimeCol:   -1,
		TrajIDCol: flagTrajCol,
		HasHeader: flagHeader,
	}
	records, err := trajectory.LoadCSV(r, spec)
	if err != nil {
		return errors.WithStack(err)
	}

	for _, seg := range trajectory.SegmentByTrajectoryID(records) {
		if len(seg.Samples) == 0 {
			continue
		}
		results, err := runAll(seg.Samples, flagEpsilon)
		if err != nil {
			return err
		}
		for _, res := range results {
			row := []string{
				path,
				seg.TrajID,
				strconv.Itoa(len(seg.Samples)),
				res.name,
				strconv.FormatUint(res.bits, 10),
				strconv.Itoa(res.modeSwitches),
			}
			if err := w.Write(row); err != nil {
				return errors.WithStack(err)
			}
		}
		w.Flush()
	}
	return nil
}

type result struct {
	name         string
	bits         uint64
	modeSwitches int
}

func runAll(samples []trajectory.Sample, epsilon float64) ([]result, error) {
	var results []result

	c := cost.NewCompressor(cost.Config{BlockSize: uint16(len(samples)), Epsilon: epsilon, EvaluationWindow: 96})
	for _, p := range samples {
		if err := c.Add(p); err != nil {
			return nil, errors.WithStack(err)
		}
	}
	if err := c.Close(); err != nil {
		return nil, errors.WithStack(err)
	}
	st := c.Stats()
	results = append(results, result{name: "CoST", bits: c.CompressedBits(), modeSwitches: st.ModeSwitchCount})

	serf := baselines.NewSerfXOR(epsilon)
	if err := runBaseline(serf, samples); err != nil {
		return nil, err
	}
	results = append(results, result{name: "Serf-XOR", bits: serf.CompressedBits()})

	gorilla := baselines.NewGorilla()
	if err := runBaseline(gorilla, samples); err != nil {
		return nil, err
	}
	results = append(results, result{name: "Gorilla", bits: gorilla.CompressedBits()})

	for _, stub := range []baselines.Compressor{baselines.NewChimp(), baselines.NewSZ2(), baselines.NewSquishE(), baselines.NewVOLTCom()} {
		_ = stub.AddPoint(samples[0]) // always returns baselines.ErrUnimplemented; no report row is written for stubs.
	}

	return results, nil
}

func runBaseline(c baselines.Compressor, samples []trajectory.Sample) error {
	for _, p := range samples {
		if err := c.AddPoint(p); err != nil {
			return errors.WithStack(err)
		}
	}
	return c.Close()
}
