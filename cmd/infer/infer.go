// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// infer ingests per-read dump records and emits structural-variant calls:
// inversions, deletions, duplications, insertions and translocations.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/biogo/biogo/io/featio/gff"
	"github.com/biogo/biogo/seq"

	"github.com/kortschak/leeway/dict"
	"github.com/kortschak/leeway/dna"
	"github.com/kortschak/leeway/sv"
)

var (
	ref      = flag.String("ref", "", "input reference fasta file name (required)")
	reads    = flag.String("long", "", "input long read fasta file name (required)")
	locFile  = flag.String("locate", "", "input locate record file name (required)")
	dumpFile = flag.String("dump", "", "input dump record file name (required)")
	gffOut   = flag.String("gff", "", "gff output file for the emitted calls")

	outFile = flag.String("out", "", "output record file name (default to stdout)")
	errFile = flag.String("err", "", "log file name (default to stderr)")
)

func main() {
	flag.Parse()
	if *ref == "" || *reads == "" || *locFile == "" || *dumpFile == "" {
		fmt.Fprintln(os.Stderr, "invalid argument: must have ref, long, locate and dump set")
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
	runs.BuildIndex()
	log.Printf("loaded %q", *reads)

	lf, err := os.Open(*locFile)
	if err != nil {
		log.Fatalf("failed to open %q: %v", *locFile, err)
	}
	locs, err := sv.ReadLocateRecords(lf)
	lf.Close()
	if err != nil {
		log.Fatalf("failed to read locate records: %v", err)
	}
	// Orient the reads the way the spanning stage saw them.
	for _, rec := range locs {
		if !rec.Reversed {
			continue
		}
		if run := runs.Find(rec.Name); run != nil {
			run.Seq = dna.RevComp(run.Seq)
		}
	}
	log.Printf("loaded %q", *locFile)

	df, err := os.Open(*dumpFile)
	if err != nil {
		log.Fatalf("failed to open %q: %v", *dumpFile, err)
	}
	dumps, err := sv.ReadDumpRecords(df)
	df.Close()
	if err != nil {
		log.Fatalf("failed to read dump records: %v", err)
	}
	log.Printf("loaded %q", *dumpFile)

	inf := sv.NewInferrer(refs, runs)
	for _, rec := range dumps {
		inf.Add(rec)
	}

	calls, err := inf.Infer(out)
	if err != nil {
		log.Fatalf("failed to write calls: %v", err)
	}
	log.Printf("emitted %d calls", len(calls))

	if *gffOut != "" {
		f, err := os.Create(*gffOut)
		if err != nil {
			log.Fatalf("failed to create GFF outfile: %q", *gffOut)
		}
		defer f.Close()
		w := gff.NewWriter(f, 60, true)
		for _, c := range calls {
			if err := writeGFF(w, c); err != nil {
				log.Fatalf("failed to write GFF feature: %v", err)
			}
		}
	}
}

var featureName = map[sv.LinkType]string{
	sv.INV: "inversion",
	sv.DEL: "deletion",
	sv.DUP: "duplication",
	sv.INS: "insertion",
	sv.TRA: "translocation",
}

func writeGFF(w *gff.Writer, c sv.Call) error {
	f := &gff.Feature{
		SeqName:    c.Ref,
		Source:     "leeway",
		Feature:    featureName[c.Type],
		FeatStart:  c.Left,
		FeatEnd:    c.Right,
		FeatStrand: seq.None,
		FeatFrame:  gff.NoFrame,
	}
	if f.FeatEnd <= f.FeatStart {
		// GFF does not allow zero length features.
		f.FeatEnd = f.FeatStart + 1
	}
	if c.Type == sv.TRA {
		f.FeatAttributes = gff.Attributes{{
			Tag:   "Mate",
			Value: fmt.Sprintf("%s %d %d", c.Ref2, c.Left2, c.Right2),
		}}
	}
	_, err := w.Write(f)
	if err != nil {
		return err
	}
	if c.Type == sv.TRA {
		mate := *f
		mate.SeqName = c.Ref2
		mate.FeatStart = c.Left2
		mate.FeatEnd = c.Right2
		if mate.FeatEnd <= mate.FeatStart {
			mate.FeatEnd = mate.FeatStart + 1
		}
		mate.FeatAttributes = gff.Attributes{{
			Tag:   "Mate",
			Value: fmt.Sprintf("%s %d %d", c.Ref, c.Left, c.Right),
		}}
		_, err = w.Write(&mate)
	}
	return err
}
