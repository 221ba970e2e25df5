// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package numeric

import "math"

// bendCoefficient flattens large hull areas so that one wide bend does
// not dominate a sum of small ones.
const bendCoefficient = 0.45

// Segment is a half-open index interval of a decomposed point series.
type Segment struct {
	Begin, End int
}

// Length returns the number of points covered by s.
func (s Segment) Length() int { return s.End - s.Begin }

// Decomposition is a partition of a point series into contiguous
// segments, with the summed bend area of the partition.
type Decomposition struct {
	Segments []Segment
	Area     float64
}

func lastEdge(vs []Vec2) float64 {
	if len(vs) < 2 {
		return 0
	}
	p := vs[len(vs)-1]
	q := vs[len(vs)-2]
	return p.Cross(q) / 2
}

func pushInto(vs *[]Vec2, p Vec2, upper bool) float64 {
	var sum float64
	for len(*vs) > 1 {
		q := (*vs)[len(*vs)-1]
		r := (*vs)[len(*vs)-2]
		c := q.Sub(p).Cross(r.Sub(p))

		var pred bool
		if upper {
			pred = c <= 0
		} else {
			pred = c >= 0
		}
		if !pred {
			break
		}
		sum += lastEdge(*vs)
		*vs = (*vs)[:len(*vs)-1]
	}

	*vs = append(*vs, p)
	return sum
}

// HullAreas sweeps vs from the left maintaining the upper and lower
// convex envelopes of the points seen so far, and reports at each point
// the absolute area enclosed between them.
func HullAreas(vs []Vec2) []float64 {
	dest := make([]float64, len(vs))
	var sum float64
	var upper, lower []Vec2
	for i, p := range vs {
		sum += pushInto(&upper, p, true)
		sum -= pushInto(&lower, p, false)
		sum += lastEdge(lower)
		sum -= lastEdge(upper)
		dest[i] = math.Abs(sum)
	}
	return dest
}

func bendAreas(vs []Vec2) []float64 {
	a := HullAreas(vs)
	for i, v := range a {
		a[i] = math.Pow(v, bendCoefficient)
	}
	return a
}

func reversed(vs []Vec2) []Vec2 {
	r := make([]Vec2, len(vs))
	for i, v := range vs {
		r[len(vs)-1-i] = v
	}
	return r
}

// FrenchStick splits the x-sorted point series vs into k contiguous
// segments minimising the summed bend area of the segments.
func FrenchStick(vs []Vec2, k int) Decomposition {
	if k < 1 {
		panic("numeric: non-positive segment count")
	}

	n := len(vs)
	if n == 0 {
		return Decomposition{Segments: []Segment{{}}}
	}

	suffix := bendAreas(reversed(vs))
	for i, j := 0, len(suffix)-1; i < j; i, j = i+1, j-1 {
		suffix[i], suffix[j] = suffix[j], suffix[i]
	}

	var decompose func(k, beg int) Decomposition
	decompose = func(k, beg int) Decomposition {
		if k == 1 {
			return Decomposition{Segments: []Segment{{Begin: beg, End: n}}, Area: suffix[beg]}
		}

		m := n - beg
		prefix := bendAreas(vs[beg:])

		opt := Decomposition{Area: math.MaxFloat64}
		optI := 0
		for i := 0; i+k <= m; i++ {
			if prefix[i] > opt.Area {
				break
			}

			sub := decompose(k-1, beg+i+1)
			if area := prefix[i] + sub.Area; opt.Area > area {
				optI = i
				opt.Area = area
				opt.Segments = sub.Segments
			}
		}

		opt.Segments = append(opt.Segments, Segment{Begin: beg, End: beg + optI + 1})
		return opt
	}

	result := decompose(k, 0)
	for i, j := 0, len(result.Segments)-1; i < j; i, j = i+1, j-1 {
		result.Segments[i], result.Segments[j] = result.Segments[j], result.Segments[i]
	}
	return result
}
