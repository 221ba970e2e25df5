// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// probe is an interactive explorer for the suffix-automaton index: read
// subranges are approximately matched against the indexed reference
// assembly and their occurrence position sets printed.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/kortschak/leeway/dict"
	"github.com/kortschak/leeway/dna"
	"github.com/kortschak/leeway/index"
)

var (
	ref   = flag.String("ref", "", "input reference fasta file name (required)")
	reads = flag.String("long", "", "input long read fasta file name (required)")
)

func main() {
	flag.Parse()
	if *ref == "" || *reads == "" {
		flag.Usage()
		os.Exit(1)
	}

	refs, err := dict.LoadFile(*ref)
	if err != nil {
		log.Fatalf("failed to read reference sequences: %v", err)
	}
	fmt.Printf("read %d string(s) from %q.\n", refs.Len(), *ref)

	runs, err := dict.LoadFile(*reads)
	if err != nil {
		log.Fatalf("failed to read long reads: %v", err)
	}
	fmt.Printf("read %d string(s) from %q.\n", runs.Len(), *reads)

	// All references share one index, separated by sentinel symbols so
	// exact runs of A, C, G and T cannot straddle a contig boundary. Align
	// can still cross one by consuming a query N or by paying for a
	// mismatch or an insertion.
	idx := index.New()
	for _, e := range refs.Entries() {
		idx.AppendSlice(e.Seq.Slice())
		idx.Append(0)
	}
	idx.Build()
	fmt.Println("index built.")

	sc := bufio.NewScanner(os.Stdin)
	for {
		fmt.Printf("select run id [0-%d]: ", runs.Len()-1)
		if !sc.Scan() {
			break
		}
		var id int
		if _, err := fmt.Sscan(sc.Text(), &id); err != nil || id < 0 || id >= runs.Len() {
			fmt.Println("cancelled.")
			continue
		}
		run := runs.At(id)

		fmt.Printf("select range [l, r] [1-%d]: ", len(run.Seq))
		if !sc.Scan() {
			break
		}
		var left, right int
		if _, err := fmt.Sscan(sc.Text(), &left, &right); err != nil {
			fmt.Println("cancelled.")
			continue
		}
		left = max(1, left)
		right = min(len(run.Seq), right)
		if left > right {
			fmt.Println("cancelled.")
			continue
		}

		pattern := dna.New(run.Seq).Take(left, right+1)
		r := idx.Align(pattern)

		if r.Token.ID > 1 {
			fmt.Println(formatSet(idx.RPSet(r.Token)))
			fmt.Printf("len=%d, loss=%d, states=%d\n", r.Token.Len, r.Loss, r.Debug.StatesVisited)
		} else {
			fmt.Println("cancelled.")
		}
	}
}

func formatSet(set []int) string {
	s := []byte{'['}
	for i, v := range set {
		if i > 0 {
			s = append(s, ' ')
		}
		s = append(s, fmt.Sprint(v)...)
	}
	return string(append(s, ']'))
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
