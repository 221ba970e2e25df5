// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// carta renders the span DP frontier of a read written by span -curve:
// the best-matching reference length against the consumed read length.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var (
	in     string
	read   string
	format string
)

func init() {
	flag.StringVar(&in, "in", "", "file name of a span -curve TSV file to be processed.")
	flag.StringVar(&read, "read", "", "name of the read whose frontier is rendered.")
	flag.StringVar(&format, "format", "svg", "specifies the output format of the plot: eps, jpg, jpeg, pdf, png, svg, and tiff.")
	help := flag.Bool("help", false, "output this usage message.")
	flag.Parse()
	if *help {
		flag.Usage()
		os.Exit(0)
	}
	if in == "" || read == "" {
		flag.Usage()
		os.Exit(1)
	}
	for _, s := range []string{"eps", "jpg", "jpeg", "pdf", "png", "svg", "tiff"} {
		if format == s {
			return
		}
	}
	flag.Usage()
	os.Exit(1)
}

func main() {
	xys, err := readCurve(in, read)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if len(xys) == 0 {
		fmt.Fprintf(os.Stderr, "no frontier points for %q in %q\n", read, in)
		os.Exit(1)
	}

	p := plot.New()
	p.Title.Text = read
	p.X.Label.Text = "read consumed"
	p.Y.Label.Text = "reference consumed"

	s, err := plotter.NewScatter(xys)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	s.GlyphStyle.Radius = vg.Points(1)
	p.Add(s, plotter.NewGrid())

	err = p.Save(15*vg.Centimeter, 15*vg.Centimeter, filepath.Base(in)+"."+read+"."+format)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// readCurve reads the frontier points of the named read from a span
// -curve TSV file.
func readCurve(in, read string) (plotter.XYs, error) {
	f, err := os.Open(in)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var xys plotter.XYs
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) != 3 || fields[0] != read {
			continue
		}
		x, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("bad curve line %q: %v", sc.Text(), err)
		}
		y, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("bad curve line %q: %v", sc.Text(), err)
		}
		xys = append(xys, plotter.XY{X: x, Y: y})
	}
	return xys, sc.Err()
}
