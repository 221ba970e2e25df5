// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package align

import (
	"math"
	"sort"

	"github.com/kortschak/leeway/dna"
	"github.com/kortschak/leeway/numeric"
)

const (
	// spanPenalty is the extra cost of opening a gap in the span DP.
	spanPenalty = 3

	nReduce         = 8
	offsetThreshold = 10
	locatorLength   = 100
	minSlope        = 0.8
)

// record accumulates the span DP state: cost so far and the number of
// symbols consumed on each side.
type record struct {
	t, l1, l2 int
}

func recMax() record { return record{t: inf} }

func (r record) add(u record) record {
	return record{t: r.t + u.t, l1: r.l1 + u.l1, l2: r.l2 + u.l2}
}

// less prefers lower cost, breaking ties towards the longer alignment.
func (r record) less(u record) bool {
	if r.t != u.t {
		return r.t < u.t
	}
	return r.l1+r.l2 > u.l1+u.l2
}

func update(dst *record, v record) {
	if v.less(*dst) {
		*dst = v
	}
}

// spanFrontier runs the two-mode span DP of s2 against s1[offset:] and
// returns, for every count j of consumed s2 symbols, the best record ever
// seen at column j. Row 0 of the recurrence ends on a diagonal move, row 1
// on a gap; the gap-open penalty is paid on entering row 1 only.
func spanFrontier(s1, s2 dna.Slice, offset int) []record {
	n := s1.Len() - offset
	if n < 0 {
		n = 0
	}
	m := s2.Len()

	var f [2][]record
	for c := range f {
		f[c] = make([]record, m+1)
		for j := 0; j <= m; j++ {
			f[c][j] = record{t: j, l2: j}
		}
	}

	opt := make([]record, m+1)
	for j := range opt {
		opt[j] = recMax()
	}

	for i := 1; i <= n; i++ {
		for j := m; j > 0; j-- {
			f[1][j] = f[1][j].add(record{t: 1, l1: 1})
			update(&f[1][j], f[0][j].add(record{t: 1 + spanPenalty, l1: 1}))

			f[0][j] = recMax()
			if s1.Code(offset+i) == s2.Code(j) {
				update(&f[0][j], f[0][j-1].add(record{l1: 1, l2: 1}))
				update(&f[0][j], f[1][j-1].add(record{l1: 1, l2: 1}))
			}
		}

		f[1][0] = f[1][0].add(record{t: 1, l1: 1})
		update(&f[1][0], f[0][0].add(record{t: 1 + spanPenalty, l1: 1}))
		f[0][0] = recMax()

		for j := 1; j <= m; j++ {
			update(&f[1][j], f[1][j-1].add(record{t: 1, l2: 1}))
			update(&f[1][j], f[0][j-1].add(record{t: 1 + spanPenalty, l2: 1}))
		}

		for j := 0; j <= m; j++ {
			update(&opt[j], f[0][j])
			update(&opt[j], f[1][j])
		}
	}

	return opt
}

// trimOutliers marks the members of the longest non-decreasing l1
// subsequence of vs, and any point whose l1 is within 50 of a marked
// neighbour, isolating the monotone alignment ridge from DP noise.
func trimOutliers(vs []record) []bool {
	const innerThreshold = 50

	n := len(vs)

	type cell struct{ x, y int }
	f := make([]cell, n)
	bucket := []cell{{x: -1, y: -inf}}

	for i := 0; i < n; i++ {
		y := vs[i].l1
		j := sort.Search(len(bucket), func(k int) bool { return bucket[k].y > y })

		f[i] = cell{x: bucket[j-1].x, y: j}

		if j == len(bucket) {
			bucket = append(bucket, cell{x: i, y: y})
		} else if bucket[j].y >= y {
			bucket[j] = cell{x: i, y: y}
		}
	}

	mark := make([]bool, n)
	for i := bucket[len(bucket)-1].x; i != -1; i = f[i].x {
		mark[i] = true
	}

	newMark := make([]bool, n)
	last := -1
	for i := 0; i < n; i++ {
		if mark[i] {
			last = i
		} else if last != -1 && abs(vs[last].l1-vs[i].l1) <= innerThreshold {
			newMark[i] = true
		}
	}
	last = -1
	for i := n - 1; i >= 0; i-- {
		if mark[i] {
			last = i
		} else if last != -1 && abs(vs[last].l1-vs[i].l1) <= innerThreshold {
			newMark[i] = true
		}
	}
	for i := range newMark {
		if newMark[i] {
			mark[i] = true
		}
	}

	return mark
}

func rangeSlope(vs []numeric.Vec2) float64 {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, v := range vs {
		minX = math.Min(minX, v.X)
		maxX = math.Max(maxX, v.X)
		minY = math.Min(minY, v.Y)
		maxY = math.Max(maxY, v.Y)
	}

	switch {
	case len(vs) < 2:
		return 1
	case len(vs) < 5:
		return (maxY - minY) / 10
	default:
		return (maxY - minY) / math.Max(0.1, maxX-minX)
	}
}

// decompose drives the french-stick decomposition of the frontier curve,
// iteratively shedding steep or truncated tail segments and melding
// leading segments of near-equal slope. The segment count decreases
// monotonically and the iteration stops at a stable partition.
func decompose(vs []numeric.Vec2) numeric.Decomposition {
	const (
		minSegmentLen           = 45
		maxSlope                = 9.5
		slopeDeviationThreshold = 0.1
		tailCutMaxLength        = 25
	)

	k := 3

	var result numeric.Decomposition
	for k > 0 {
		lastSize := len(vs)
		result = numeric.FrenchStick(vs, k)

		failCount := 0
		for _, seg := range result.Segments {
			if seg.Length() >= minSegmentLen {
				continue
			}

			failCount++

			doErase := seg.End >= len(vs)
			if !doErase && seg.Length() > 1 {
				doErase = rangeSlope(vs[seg.Begin:seg.End]) > maxSlope
			}

			if doErase {
				vs = vs[:seg.Begin]
				break
			}
		}

		if failCount == 0 && len(result.Segments) > 1 {
			s1 := result.Segments[0]
			s2 := result.Segments[1]

			k1, _ := numeric.LeastSquares(vs[s1.Begin:s1.End], 0)
			k2, _ := numeric.LeastSquares(vs[s2.Begin:s2.End], 0)
			if math.Abs(k1-k2) <= slopeDeviationThreshold {
				failCount++
			}
		}

		if failCount == 0 && len(result.Segments) > 1 {
			s := result.Segments[1]
			length := min(s.Length()/2, tailCutMaxLength)
			left := s.End - length
			if rangeSlope(vs[left:s.End]) > maxSlope {
				vs = vs[:left]
				if k == 3 {
					failCount++
				}
			}
		}

		if failCount == 0 && len(vs) == lastSize {
			break
		}
		k -= failCount
	}

	return result
}

type spanOutput func(rec record, i, j int) Result

func partialSpan(s1, s2 dna.Slice, factory func(offset int) spanOutput, offset int, correlate bool) Result {
	output := factory(offset)

	m := s2.Len()
	opt := spanFrontier(s1, s2, offset)

	mark := trimOutliers(opt)
	vs := make([]numeric.Vec2, 0, m+1)
	for j := 0; j <= m; j++ {
		if mark[j] {
			vs = append(vs, numeric.Vec2{X: float64(opt[j].l2), Y: float64(opt[j].l1)})
		}
	}

	decomp := decompose(vs)

	corner := 0
	if end := decomp.Segments[0].End; 0 < end && end <= len(vs) {
		corner = int(vs[end-1].X + 0.5)
	}
	if corner > m {
		corner = m
	}
	if corner < 0 {
		corner = 0
	}

	first := min(decomp.Segments[0].End, len(vs))
	slope, _ := numeric.LeastSquares(vs[:first], nReduce)
	slopeNotify := slope < minSlope

	if len(decomp.Segments) <= 1 || slopeNotify {
		if slopeNotify && correlate {
			locator := s2.Take(1, min(s2.Len(), locatorLength)+1)
			alignment := LocalAlign(s1, locator)

			if off := alignment.Range1.Begin; off > offsetThreshold {
				return partialSpan(s1, s2, factory, off, false)
			}
		}

		corner = 0
	}

	best := opt[corner]
	result := output(best, best.l1, best.l2)
	result.Mark = slopeNotify
	return result
}

// PrefixSpan finds the longest prefix of s2 aligning well against a
// prefix of s1 and the point at which the alignment breaks down. An
// unreliable detection is flagged through Mark after at most one
// re-entry with a corrected window offset.
func PrefixSpan(s1, s2 dna.Slice) Result {
	return partialSpan(s1, s2, func(offset int) spanOutput {
		return func(rec record, i, j int) Result {
			return Result{
				Range1: Range{Begin: 1, End: offset + i + 1},
				Range2: Range{Begin: 1, End: j + 1},
				Loss:   rec.t,
			}
		}
	}, 0, true)
}

// SuffixSpan is the mirror of PrefixSpan, aligning a suffix of s2 against
// a suffix of s1 by reversing both inputs.
func SuffixSpan(s1, s2 dna.Slice) Result {
	n, m := s1.Len(), s2.Len()

	r1 := dna.New(dna.Reverse(s1.Bytes()))
	r2 := dna.New(dna.Reverse(s2.Bytes()))

	return partialSpan(r1, r2, func(offset int) spanOutput {
		return func(rec record, i, j int) Result {
			return Result{
				Range1: Range{Begin: n - offset - i + 1, End: n + 1},
				Range2: Range{Begin: m - j + 1, End: m + 1},
				Loss:   rec.t,
			}
		}
	}, 0, true)
}

// SpanCurve returns the trimmed DP frontier of the prefix span of s2
// against s1: for each point, the consumed read length and the best
// matching reference length. It is used by visualisation tooling.
func SpanCurve(s1, s2 dna.Slice) []numeric.Vec2 {
	opt := spanFrontier(s1, s2, 0)
	mark := trimOutliers(opt)
	vs := make([]numeric.Vec2, 0, len(opt))
	for j, rec := range opt {
		if mark[j] {
			vs = append(vs, numeric.Vec2{X: float64(rec.l2), Y: float64(rec.l1)})
		}
	}
	return vs
}
