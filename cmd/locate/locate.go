// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// locate localises long reads on a reference assembly using a per-contig
// suffix-automaton index, writing one locate record per read.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/kortschak/leeway/align"
	"github.com/kortschak/leeway/dict"
	"github.com/kortschak/leeway/index"
	"github.com/kortschak/leeway/sv"
)

var (
	ref    = flag.String("ref", "", "input reference fasta file name (required)")
	reads  = flag.String("long", "", "input long read fasta file name (required)")
	procs  = flag.Int("procs", 1, "number of concurrent locate workers")
	strict = flag.Bool("strict-prefix", true, `only locate reads named S<i>_* against the i'th reference
    	false locates every read against every reference`,
	)

	outFile = flag.String("out", "", "output record file name (default to stdout)")
	errFile = flag.String("err", "", "log file name (default to stderr)")
)

func main() {
	flag.Parse()
	if *ref == "" || *reads == "" {
		fmt.Fprintln(os.Stderr, "invalid argument: must have ref and long set")
		flag.Usage()
		os.Exit(1)
	}

	if *errFile != "" {
		w, err := os.Create(*errFile)
		if err != nil {
			// Oh, the irony.
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

	refs, err := dict.LoadFile(*ref)
	if err != nil {
		log.Fatalf("failed to read reference sequences: %v", err)
	}
	refs.SortByName()
	log.Printf("loaded %q", *ref)

	runs, err := dict.LoadFile(*reads)
	if err != nil {
		log.Fatalf("failed to read long reads: %v", err)
	}
	log.Printf("loaded %q", *reads)

	var mu sync.Mutex
	for i, e := range refs.Entries() {
		e := e
		prefix := fmt.Sprintf("S%d_", i+1)

		idx := index.New()
		idx.AppendSlice(e.Seq.Slice())
		idx.Build()
		log.Printf("index built for %q", e.Name)

		var g errgroup.Group
		g.SetLimit(*procs)
		for _, run := range runs.Entries() {
			if *strict && !strings.HasPrefix(run.Name, prefix) {
				continue
			}
			run := run

			g.Go(func() error {
				t := run.Seq.Slice()
				loc := idx.FuzzyLocate(t)

				s := e.Seq.Slice().Take(loc.Left, loc.Right+1)

				var result align.Result
				if loc.Reversed {
					result = align.LocalAlign(s, t.RevComp())
				} else {
					result = align.LocalAlign(s, t)
				}

				left := result.Range1.Begin + loc.Left - 1
				right := result.Range1.End - 1 + loc.Left - 1
				matchRate := float64(t.Len()-result.Loss) / float64(t.Len())

				log.Printf("%s @%s: [%d, %d], loss=%d (%.3f%%), ratio=%.3f, rev=%v",
					run.Name, e.Name,
					left, right,
					result.Loss, matchRate*100,
					float64(result.Range1.Length())/float64(t.Len()),
					loc.Reversed,
				)

				rec := sv.LocateRecord{
					Name:     run.Name,
					Target:   e.Name,
					Left:     left,
					Right:    right,
					Loss:     result.Loss,
					Reversed: loc.Reversed,
				}
				mu.Lock()
				defer mu.Unlock()
				_, err := fmt.Fprintln(out, rec)
				return err
			})
		}
		if err := g.Wait(); err != nil {
			log.Fatalf("failed to locate reads for %q: %v", e.Name, err)
		}
		log.Printf("%s completed", e.Name)
	}
}
