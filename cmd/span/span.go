// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// span aligns located reads against their reference windows with the
// one-sided partial aligners, writing one dump record per read holding
// the detected breakpoints and the inversion-match score.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/kortschak/leeway/align"
	"github.com/kortschak/leeway/dict"
	"github.com/kortschak/leeway/sv"
)

var (
	ref     = flag.String("ref", "", "input reference fasta file name (required)")
	reads   = flag.String("long", "", "input long read fasta file name (required)")
	locFile = flag.String("locate", "", "input locate record file name (required)")
	procs   = flag.Int("procs", 1, "number of concurrent span workers")
	curve   = flag.String("curve", "", "tsv output file for the per-read DP frontier")

	outFile = flag.String("out", "", "output record file name (default to stdout)")
	errFile = flag.String("err", "", "log file name (default to stderr)")
)

func main() {
	flag.Parse()
	if *ref == "" || *reads == "" || *locFile == "" {
		fmt.Fprintln(os.Stderr, "invalid argument: must have ref, long and locate set")
		flag.Usage()
		os.Exit(1)
	}

	if *errFile != "" {
		w, err := os.Create(*errFile)
		if err != nil {
			log.Fatalf("failed to create log file: %v", err)
		}
		defer w.Close()
		log.SetOutput(w)
	}
	out := os.Stdout
	if *outFile != "" {
		var err error
		out, err = os.Create(*outFile)
		if err != nil {
			log.Fatalf("failed to create out file: %v", err)
		}
		defer out.Close()
	}
	var curveOut *os.File
	if *curve != "" {
		var err error
		curveOut, err = os.Create(*curve)
		if err != nil {
			log.Fatalf("failed to create curve file: %v", err)
		}
		defer curveOut.Close()
	}

	refs, err := dict.LoadFile(*ref)
	if err != nil {
		log.Fatalf("failed to read reference sequences: %v", err)
	}
	refs.SortByName()
	refs.BuildIndex()
	log.Printf("loaded %q", *ref)

	runs, err := dict.LoadFile(*reads)
	if err != nil {
		log.Fatalf("failed to read long reads: %v", err)
	}
	runs.BuildIndex()
	log.Printf("loaded %q", *reads)

	lf, err := os.Open(*locFile)
	if err != nil {
		log.Fatalf("failed to open %q: %v", *locFile, err)
	}
	recs, err := sv.ReadLocateRecords(lf)
	lf.Close()
	if err != nil {
		log.Fatalf("failed to read locate records: %v", err)
	}
	log.Printf("loaded %q", *locFile)

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(*procs)
	for _, rec := range recs {
		rec := rec

		run := runs.Find(rec.Name)
		target := refs.Find(rec.Target)
		if run == nil || target == nil {
			log.Printf("skipping %s @%s: unknown sequence", rec.Name, rec.Target)
			continue
		}
		if rec.Right < rec.Left {
			log.Printf("skipping %s @%s: empty window", rec.Name, rec.Target)
			continue
		}

		g.Go(func() error {
			t := run.Seq.Slice()
			if rec.Reversed {
				t = t.RevComp()
			}

			refSlice := target.Seq.Slice()
			left := max(1, rec.Left)
			right := min(refSlice.Len(), rec.Right)
			s := refSlice.Take(left, right+1)

			prefix := align.PrefixSpan(s, t)
			suffix := align.SuffixSpan(s, t)

			drec := sv.NewDumpRecord(rec.Name, rec.Target, left, prefix, suffix, refSlice, t)

			log.Printf("%s @%s[%d, %d]: n=%d, m=%d, [%d, %d)-[%d, %d)=%d, [%d, %d)-[%d, %d)=%d",
				rec.Name, rec.Target, left, right,
				s.Len(), t.Len(),
				prefix.Range1.Begin, prefix.Range1.End,
				prefix.Range2.Begin, prefix.Range2.End,
				prefix.Loss,
				suffix.Range1.Begin, suffix.Range1.End,
				suffix.Range2.Begin, suffix.Range2.End,
				suffix.Loss,
			)

			var frontier []byte
			if curveOut != nil {
				for _, v := range align.SpanCurve(s, t) {
					frontier = append(frontier, fmt.Sprintf("%s\t%.0f\t%.0f\n", rec.Name, v.X, v.Y)...)
				}
			}

			mu.Lock()
			defer mu.Unlock()
			if _, err := fmt.Fprintln(out, drec); err != nil {
				return err
			}
			if curveOut != nil {
				if _, err := curveOut.Write(frontier); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatalf("failed span pass: %v", err)
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
