// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// query reports the locate records whose reference window intersects a
// given window, with the interleaving of the two windows' endpoints.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/biogo/store/interval"

	"github.com/kortschak/leeway/sv"
)

var (
	locFile = flag.String("locate", "", "input locate record file name (required)")
	left    = flag.Int("left", 0, "left end of the query window (required)")
	right   = flag.Int("right", 0, "right end of the query window (required)")
	target  = flag.String("target", "", "restrict the report to one reference")
)

func main() {
	flag.Parse()
	if *locFile == "" {
		flag.Usage()
		os.Exit(1)
	}
	if *left > *right {
		log.Fatalf("left=%d should not be greater than right=%d", *left, *right)
	}

	f, err := os.Open(*locFile)
	if err != nil {
		log.Fatalf("failed to open %q: %v", *locFile, err)
	}
	recs, err := sv.ReadLocateRecords(f)
	f.Close()
	if err != nil {
		log.Fatalf("failed to read locate records: %v", err)
	}

	trees := make(map[string]*interval.IntTree)
	for i, rec := range recs {
		t, ok := trees[rec.Target]
		if !ok {
			t = &interval.IntTree{}
			trees[rec.Target] = t
		}
		err = t.Insert(recInterval{rec: rec, id: uintptr(i)}, true)
		if err != nil {
			log.Fatalf("failed to insert locate record: %v", err)
		}
	}
	for _, t := range trees {
		t.AdjustRanges()
	}

	targets := make([]string, 0, len(trees))
	for name := range trees {
		if *target != "" && name != *target {
			continue
		}
		targets = append(targets, name)
	}
	sort.Strings(targets)

	for _, name := range targets {
		hits := trees[name].Get(window{start: *left, end: *right})
		sort.Slice(hits, func(i, j int) bool {
			return hits[i].(recInterval).rec.Left < hits[j].(recInterval).rec.Left
		})
		for _, h := range hits {
			rec := h.(recInterval).rec
			fmt.Printf("%10s @%-16s [%d, %d]: %s\n",
				rec.Name, rec.Target, rec.Left, rec.Right,
				interleave(*left, *right, rec.Left, rec.Right),
			)
		}
	}
}

// recInterval adapts a locate record to the interval tree interface.
type recInterval struct {
	rec sv.LocateRecord
	id  uintptr
}

func (i recInterval) ID() uintptr { return i.id }
func (i recInterval) Range() interval.IntRange {
	return interval.IntRange{Start: i.rec.Left, End: i.rec.Right}
}
func (i recInterval) Overlap(b interval.IntRange) bool {
	// Both windows are closed.
	return i.rec.Right >= b.Start && i.rec.Left <= b.End
}

// window is a closed query interval.
type window struct {
	start, end int
}

func (w window) Overlap(b interval.IntRange) bool {
	return w.end >= b.Start && w.start <= b.End
}

// interleave renders the ordering of the query window endpoints (A) and
// the record window endpoints (B) with the gaps between them.
func interleave(aLeft, aRight, bLeft, bRight int) string {
	type item struct {
		id       byte
		position int
	}
	a := []item{
		{'A', aLeft}, {'A', aRight},
		{'B', bLeft}, {'B', bRight},
	}
	sort.SliceStable(a, func(i, j int) bool { return a[i].position < a[j].position })

	var s []byte
	for i, v := range a {
		if i > 0 {
			s = append(s, fmt.Sprintf(" --%d-- ", v.position-a[i-1].position)...)
		}
		s = append(s, v.id)
	}
	return string(s)
}
