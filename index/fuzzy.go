// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package index

import (
	"math"
	"sort"

	"github.com/kortschak/leeway/dna"
)

const (
	kmer          = 20
	step          = 3
	minBucketSize = 850
	minThreshold  = 10
)

// FuzzyLocate reports where on the indexed reference the query most
// likely aligns and in which orientation. Overlapping k-mers of the query
// and of its reverse complement are approximately matched against the
// index and their occurrence positions voted into coarse buckets; the
// densest bucket neighbourhood wins and is extended while adjacent
// buckets stay above a dynamic threshold.
func (x *Index) FuzzyLocate(seq dna.Slice) Location {
	n := seq.Len()

	s := [2]dna.Slice{seq, seq.RevComp()}

	bucketSize := n / 2
	if bucketSize < minBucketSize {
		bucketSize = minBucketSize
	}
	var bucket [2]map[int]int
	for i := range bucket {
		bucket[i] = make(map[int]int)
	}

	put := func(i, j int) { bucket[i][j/bucketSize]++ }
	probe := func(i, j int) int { return bucket[i][j] }

	for i := range s {
		for l := 1; l+kmer-1 <= n; l += step {
			t := x.Align(s[i].Take(l, l+kmer)).Token

			for _, j := range x.RPSet(t) {
				put(i, j-t.Len/2)
			}
		}
	}

	threshold := math.MaxInt
	maxScore := math.MinInt
	var bestI, bestJ int
	for i := range bucket {
		keys := make([]int, 0, len(bucket[i]))
		for j := range bucket[i] {
			keys = append(keys, j)
		}
		sort.Ints(keys)

		for _, j := range keys {
			self := bucket[i][j]
			prev := probe(i, j-1)
			succ := probe(i, j+1)

			if self*2 < prev+succ {
				continue
			}

			score := prev + self + succ
			if score > maxScore {
				hi := max(self, max(prev, succ))
				lo := min(self, min(prev, succ))
				threshold = lo - (hi-lo)/2

				maxScore = score
				bestI = i
				bestJ = j
			}
		}
	}

	if threshold < minThreshold {
		threshold = minThreshold
	}

	left := bestJ - 1
	for probe(bestI, left-1) >= threshold {
		left--
	}
	right := bestJ + 1
	for probe(bestI, right+1) >= threshold {
		right++
	}

	var loc Location
	loc.Reversed = bestI != 0
	loc.Left = max(1, left*bucketSize)
	loc.Right = min(x.n, (right+2)*bucketSize-1)

	return loc
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
