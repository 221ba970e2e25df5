// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// net performs set operations on infer call sets. Two calls are the same
// event when they are of the same type on the same reference and their
// intervals agree to at least the given jaccard similarity.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/biogo/biogo/io/featio"
	"github.com/biogo/biogo/io/featio/gff"
)

var (
	left   = flag.String("a", "", "specify left gff file (required)")
	right  = flag.String("b", "", "specify right gff file (required)")
	thresh = flag.Float64("thresh", 0.90, "specify minimum jaccard similarity for identity between events")
	op     = flag.String("op", "sub", `specify set operation (from "sub" (a\b), "union" (a∪b), "intersect" (a∩b)`)
)

func main() {
	flag.Parse()
	if *left == "" || *right == "" || !validOp(*op) {
		flag.Usage()
		os.Exit(1)
	}

	a, err := events(*left)
	if err != nil {
		log.Fatal(err)
	}
	b, err := events(*right)
	if err != nil {
		log.Fatal(err)
	}

	var c []*gff.Feature
	switch *op {
	case "sub":
		c = sub(a, b, *thresh)
	case "union":
		c = union(a, b, *thresh)
	case "intersect":
		c = intersect(a, b, *thresh)
	}
	w := gff.NewWriter(os.Stdout, 60, true)
	for _, v := range c {
		w.Write(v)
	}
}

func validOp(op string) bool {
	return op == "sub" || op == "union" || op == "intersect"
}

// events returns the calls from an infer gff file.
func events(file string) ([]*gff.Feature, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open %q: %v", file, err)
	}
	defer f.Close()
	var set []*gff.Feature
	sc := featio.NewScanner(gff.NewReader(f))
	for sc.Next() {
		set = append(set, sc.Feat().(*gff.Feature))
	}
	if err := sc.Error(); err != nil {
		return nil, fmt.Errorf("error during gff read: %v", err)
	}
	return set, nil
}

// sub returns the result of the set operation a\b. It does this using the
// naive O(n^2) approach rather than using a collection of interval trees
// since call sets are small.
func sub(a, b []*gff.Feature, thresh float64) []*gff.Feature {
	var c []*gff.Feature
	for _, ea := range a {
		matched := false
		for _, eb := range b {
			if same(ea, eb, thresh) {
				matched = true
				break
			}
		}
		if !matched {
			c = append(c, ea)
		}
	}
	return c
}

// union returns the result of the set operation a∪b, keeping the a
// member of each matched pair.
func union(a, b []*gff.Feature, thresh float64) []*gff.Feature {
	c := make([]*gff.Feature, len(a))
	copy(c, a)
	for _, eb := range b {
		matched := false
		for _, ea := range a {
			if same(ea, eb, thresh) {
				matched = true
				break
			}
		}
		if !matched {
			c = append(c, eb)
		}
	}
	return c
}

// intersect returns the result of the set operation a∩b, annotating each
// reported a member with the matching b interval.
func intersect(a, b []*gff.Feature, thresh float64) []*gff.Feature {
	var c []*gff.Feature
	for _, ea := range a {
		for _, eb := range b {
			if same(ea, eb, thresh) {
				ea.FeatAttributes = append(ea.FeatAttributes, gff.Attribute{
					Tag: "Other", Value: fmt.Sprintf("%d %d", eb.FeatStart, eb.FeatEnd),
				})
				c = append(c, ea)
				break
			}
		}
	}
	return c
}

func same(a, b *gff.Feature, thresh float64) bool {
	return a.Feature == b.Feature && jaccard(a, b) >= thresh
}

func jaccard(a, b *gff.Feature) float64 {
	n := intersection(a, b)
	return float64(n) / (float64(a.Len() + b.Len() - n))
}

func intersection(a, b *gff.Feature) int {
	if a.SeqName != b.SeqName {
		return 0
	}
	return max(0, min(a.FeatEnd, b.FeatEnd)-max(a.FeatStart, b.FeatStart))
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
