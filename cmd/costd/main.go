// costd decompresses a CoST binary back into a CSV trajectory file.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/mewkiz/pkg/osutil"
	"github.com/mewkiz/pkg/pathutil"
	"github.com/pkg/errors"

	"github.com/trajcost/cost/cost"
)

func main() {
	var force bool
	flag.BoolVar(&force, "f", false, "force overwrite")
	flag.Parse()
	for _, costPath := range flag.Args() {
		if err := costd(costPath, force); err != nil {
			log.Fatalf("%+v", err)
		}
	}
}

func costd(costPath string, force bool) error {
	data, err := os.ReadFile(costPath)
	if err != nil {
		return errors.WithStack(err)
	}

	csvPath := pathutil.TrimExt(costPath) + ".csv"
	if !force && osutil.Exists(csvPath) {
		return errors.Errorf("CSV file %q already present; use -f flag to force overwrite", csvPath)
	}
	w, err := os.Create(csvPath)
	if err != nil {
		return errors.WithStack(err)
	}
	defer w.Close()

	cw := csv.NewWriter(w)
	defer cw.Flush()

	d := cost.NewDecompressor(data)
	n := 0
	for {
		p, ok := d.Next()
		if !ok {
			break
		}
		row := []string{
			strconv.FormatFloat(p.Lon, 'f', -1, 64),
			strconv.FormatFloat(p.Lat, 'f', -1, 64),
			strconv.FormatUint(p.TS, 10),
		}
		if err := cw.Write(row); err != nil {
			return errors.WithStack(err)
		}
		n++
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.WithStack(err)
	}

	fmt.Printf("%s: wrote %d points to %s\n", costPath, n, csvPath)
	return nil
}
