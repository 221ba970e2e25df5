// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package align provides the dynamic-programming aligners used by the
// pipeline: whole-sequence edit distance, a local aligner anchoring a
// query inside a reference window, and one-sided partial aligners that
// detect the position at which a read diverges from the reference.
package align

import "github.com/kortschak/leeway/dna"

// inf is large enough to dominate any accumulated loss while leaving
// headroom for the DP transition additions.
const inf = 0x3f3f3f3f

// Range is a half-open, 1-indexed interval on a sequence.
type Range struct {
	Begin, End int
}

// Length returns the number of positions covered by r.
func (r Range) Length() int { return r.End - r.Begin }

// Result describes an alignment of s2 against s1. Mark is set by the span
// aligners when the alignment was judged unreliable; callers may retry
// with a corrected reference window.
type Result struct {
	Range1 Range
	Range2 Range
	Loss   int
	Mark   bool
}

// MatchRate2 returns the fraction of Range2 explained by the alignment.
func (r Result) MatchRate2() float64 {
	return 1 - float64(r.Loss)/float64(r.Range2.Length())
}

// FullAlign returns the unit-cost edit distance between s1 and s2. Memory
// is linear in the shorter of the two.
func FullAlign(s1, s2 dna.Slice) int {
	n, m := s1.Len(), s2.Len()
	if m > n {
		s1, s2 = s2, s1
		n, m = m, n
	}

	f := make([]int, m+1)
	for j := range f {
		f[j] = j
	}
	for i := 1; i <= n; i++ {
		prev := f[0]
		f[0] = i
		for j := 1; j <= m; j++ {
			diag := prev
			if s1.Code(i) != s2.Code(j) {
				diag++
			}
			prev = f[j]
			f[j] = min(diag, min(f[j]+1, f[j-1]+1))
		}
	}

	return f[m]
}

// LocalAlign reports the best alignment of the whole of s2 against an
// arbitrary substring of s1. The running value pairs the accumulated loss
// with the length drift between the two sides so that the matched
// reference interval can be reconstructed from the optimum alone.
func LocalAlign(s1, s2 dna.Slice) Result {
	type value struct {
		t, d int
	}
	less := func(a, b value) bool {
		if a.t != b.t {
			return a.t < b.t
		}
		return abs(a.d) < abs(b.d)
	}

	n, m := s1.Len(), s2.Len()

	f := make([]value, m+1)
	for j := range f {
		f[j] = value{t: j, d: -j}
	}

	opt := value{t: inf, d: inf}
	optI := 0
	for i := 1; i <= n; i++ {
		for j := m; j > 0; j-- {
			f[j] = value{t: f[j].t + 1, d: f[j].d + 1}
			if s1.Code(i) == s2.Code(j) {
				if v := f[j-1]; less(v, f[j]) {
					f[j] = v
				}
			}
		}

		if v := (value{}); less(v, f[0]) {
			f[0] = v
		}

		for j := 1; j <= m; j++ {
			if v := (value{t: f[j-1].t + 1, d: f[j-1].d - 1}); less(v, f[j]) {
				f[j] = v
			}
		}

		if less(f[m], opt) {
			opt = f[m]
			optI = i
		}
	}

	length := m + opt.d
	return Result{
		Range1: Range{Begin: optI - length + 1, End: optI + 1},
		Range2: Range{Begin: 1, End: m + 1},
		Loss:   opt.t,
	}
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
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
