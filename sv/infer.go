// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sv

import (
	"io"
	"math"
	"sort"

	"github.com/kortschak/leeway/align"
	"github.com/kortschak/leeway/dict"
)

// Tuning constants of the inference stage.
const (
	SnapDistance           = 200
	MaxSVLength            = 1100
	MinSVLength            = 50
	InvMinScore            = 0.65
	MaxConjectionLength    = 150
	MinConjectionMatchRate = 0.6
	MaxTraDiscrepancy      = 20
	LocatorLength          = 100
	ExtraLocatorLength     = 256
	ScanLength             = 1800
	LocatorMinMatchRate    = 0.75
)

// Call is one emitted structural variant record.
type Call struct {
	Type  LinkType
	Ref   string
	Left  int
	Right int

	// Set for TRA calls only.
	Ref2   string
	Left2  int
	Right2 int
}

// invRange is a candidate inversion interval with its match score.
type invRange struct {
	left, right int
	score       float64
}

// Inferrer accumulates dump records and infers structural variants from
// the endpoint sets they describe. It is not safe for concurrent use; a
// run's outputs are deterministic given the input order.
type Inferrer struct {
	refs *dict.Dict
	runs *dict.Dict

	arena  []Endpoint
	eps    map[epKey][]int
	ranges map[string][]invRange
	graphs linkGraphs
}

// NewInferrer returns an Inferrer over the given references and reads.
// The reads must already be oriented as located (reverse complemented
// where the locate record says so).
func NewInferrer(refs, runs *dict.Dict) *Inferrer {
	return &Inferrer{
		refs:   refs,
		runs:   runs,
		eps:    make(map[epKey][]int),
		ranges: make(map[string][]invRange),
		graphs: make(linkGraphs),
	}
}

// Add registers the endpoints of one dump record. Breakpoints at
// non-positive reference positions are discarded; ordered pairs
// contribute a candidate inversion interval.
func (v *Inferrer) Add(rec DumpRecord) {
	if rec.LP.Pos > 0 {
		v.push(epKey{ref: rec.Ref, side: Left}, Endpoint{
			Run: rec.Run, Pos: rec.LP.Pos, ReadPos: rec.LP.ReadPos, Len: rec.LP.Len,
		})
	}
	if rec.RP.Pos > 0 {
		v.push(epKey{ref: rec.Ref, side: Right}, Endpoint{
			Run: rec.Run, Pos: rec.RP.Pos, ReadPos: rec.RP.ReadPos, Len: rec.RP.Len,
		})
	}
	if rec.LP.Pos > 0 && rec.RP.Pos > 0 && rec.LP.Pos < rec.RP.Pos {
		v.ranges[rec.Ref] = append(v.ranges[rec.Ref], invRange{
			left: rec.LP.Pos, right: rec.RP.Pos, score: rec.InvScore,
		})
	}
}

func (v *Inferrer) push(key epKey, ep Endpoint) {
	v.arena = append(v.arena, ep)
	v.eps[key] = append(v.eps[key], len(v.arena)-1)
}

func dist(a, b Endpoint) int { return abs(a.Pos - b.Pos) }

func snap(pos, to, maxDist int) bool { return abs(pos-to) <= maxDist }

// probeINV links endpoint pairs that snap to a high-scoring candidate
// inversion interval.
func (v *Inferrer) probeINV(L, R []int, rs []invRange) {
	for _, r := range rs {
		if r.score < InvMinScore {
			continue
		}

		for _, li := range L {
			for _, ri := range R {
				if snap(v.arena[li].Pos, r.left, SnapDistance) && snap(v.arena[ri].Pos, r.right, SnapDistance) {
					v.graphs.link(INV, li, ri)
				}
			}
		}
	}
}

// probeDELDUP links endpoint pairs whose reference distance is in SV
// range and whose bracketing read windows align: the pair is a deletion
// when the left break precedes the right on the reference, otherwise a
// duplication.
func (v *Inferrer) probeDELDUP(L, R []int) {
	for _, li := range L {
		for _, ri := range R {
			lp, rp := v.arena[li], v.arena[ri]
			if dist(lp, rp) < MinSVLength || dist(lp, rp) > MaxSVLength {
				continue
			}

			run1 := v.runs.Find(lp.Run)
			run2 := v.runs.Find(rp.Run)
			if run1 == nil || run2 == nil {
				continue
			}
			seq1, seq2 := run1.Seq.Slice(), run2.Seq.Slice()
			size1, size2 := seq1.Len(), seq2.Len()

			leftLen := min(MaxConjectionLength, min(lp.ReadPos, rp.ReadPos))
			rightLen := min(MaxConjectionLength, min(size1-lp.ReadPos, size2-rp.ReadPos))
			if leftLen < 0 || rightLen < 0 || leftLen+rightLen == 0 {
				continue
			}
			length := leftLen + rightLen

			b1, e1 := max(1, lp.ReadPos-leftLen+1), min(size1+1, lp.ReadPos+rightLen)
			b2, e2 := max(1, rp.ReadPos-leftLen+1), min(size2+1, rp.ReadPos+rightLen)
			if b1 >= e1 || b2 >= e2 {
				continue
			}

			loss := align.FullAlign(seq1.Take(b1, e1), seq2.Take(b2, e2))
			rate := 1 - float64(loss)/float64(length)
			if rate < MinConjectionMatchRate {
				continue
			}

			if lp.Pos < rp.Pos {
				v.graphs.link(DEL, li, ri)
			} else {
				v.graphs.link(DUP, li, ri)
			}
		}
	}
}

// probeINS links endpoint pairs within insertion snapping distance.
func (v *Inferrer) probeINS(L, R []int) {
	for _, li := range L {
		for _, ri := range R {
			if snap(v.arena[li].Pos, v.arena[ri].Pos, MinSVLength) {
				v.graphs.link(INS, li, ri)
			}
		}
	}
}

// Infer runs the probes, aggregates linked endpoints and writes one SV
// record per line to w, returning the emitted calls.
func (v *Inferrer) Infer(w io.Writer) ([]Call, error) {
	for _, e := range v.refs.Entries() {
		L := v.eps[epKey{ref: e.Name, side: Left}]
		R := v.eps[epKey{ref: e.Name, side: Right}]

		v.probeINV(L, R, v.ranges[e.Name])
		v.probeDELDUP(L, R)
		v.probeINS(L, R)
	}

	out := &emitter{w: w}

	v.aggregate(INV, out.normal)
	v.aggregate(DEL, out.normal)
	v.aggregate(DUP, out.normal)
	v.aggregate(INS, out.ins)

	pmap := v.compact()
	v.emitTRA(pmap, out)

	v.emitExtraDELDUP(out)
	v.emitExtraINV(pmap, out)

	return out.calls, out.err
}

// aggregate walks the typed endpoint graph, collecting each component of
// left-rooted endpoints into its two parity classes, and emits one record
// per component holding both classes.
func (v *Inferrer) aggregate(t LinkType, emit func(t LinkType, ref string, L, R []Endpoint)) {
	visited := make([]bool, len(v.arena))

	for _, e := range v.refs.Entries() {
		for _, i := range v.eps[epKey{ref: e.Name, side: Left}] {
			if visited[i] {
				continue
			}
			li, ri := v.graphs.collect(t, i, visited)
			if len(li) == 0 || len(ri) == 0 {
				continue
			}
			emit(t, e.Name, v.endpoints(li), v.endpoints(ri))
		}
	}
}

func (v *Inferrer) endpoints(idx []int) []Endpoint {
	eps := make([]Endpoint, len(idx))
	for i, j := range idx {
		eps[i] = v.arena[j]
	}
	return eps
}

// position is one snap-clustered reference position; marked positions
// have been consumed by a translocation pairing.
type position struct {
	pos    float64
	marked bool
}

func (p position) round() int { return int(math.Round(p.pos)) }

type posMap map[epKey][]*position

// compact snap-clusters each per-(reference, side) endpoint position set,
// replacing every single-linkage cluster by its mean.
func (v *Inferrer) compact() posMap {
	pmap := make(posMap)

	for key, idx := range v.eps {
		list := make([]float64, len(idx))
		for i, j := range idx {
			list[i] = float64(v.arena[j].Pos)
		}
		sort.Float64s(list)

		compacted := pmap[key]
		for i := 0; i < len(list); {
			k := i + 1
			for k < len(list) && math.Abs(list[k]-list[k-1]) <= SnapDistance {
				k++
			}

			var sum float64
			for _, p := range list[i:k] {
				sum += p
			}
			compacted = append(compacted, &position{pos: sum / float64(k-i)})

			i = k
		}
		pmap[key] = compacted
	}

	return pmap
}

// emitTRA pairs compacted windows across references when their lengths
// are in SV range and within the allowed discrepancy, marking the
// participating positions.
func (v *Inferrer) emitTRA(pmap posMap, out *emitter) {
	refs := v.refs.Entries()
	for _, e1 := range refs {
		for _, l1 := range pmap[epKey{ref: e1.Name, side: Left}] {
			for _, r1 := range pmap[epKey{ref: e1.Name, side: Right}] {
				len1 := r1.pos - l1.pos
				if len1 < MinSVLength || len1 > MaxSVLength {
					continue
				}

				for _, e2 := range refs {
					if e2.Name <= e1.Name {
						continue
					}
					for _, l2 := range pmap[epKey{ref: e2.Name, side: Left}] {
						for _, r2 := range pmap[epKey{ref: e2.Name, side: Right}] {
							len2 := r2.pos - l2.pos
							if len2 < MinSVLength || len2 > MaxSVLength {
								continue
							}

							if math.Abs(len1-len2) <= MaxTraDiscrepancy {
								l1.marked = true
								r1.marked = true
								l2.marked = true
								r2.marked = true

								out.tra(e1.Name, l1.round(), r1.round(), e2.Name, l2.round(), r2.round())
							}
						}
					}
				}
			}
		}
	}
}

// emitExtraDELDUP probes isolated endpoints with enough flanking read
// sequence: a locator cut from the read beyond the breakpoint is locally
// aligned against a scan window on either side of the breakpoint on the
// reference, and a confident shifted hit is reported as a deletion or
// duplication.
func (v *Inferrer) emitExtraDELDUP(out *emitter) {
	for _, e := range v.refs.Entries() {
		ref := e.Seq.Slice()

		for _, i := range v.eps[epKey{ref: e.Name, side: Left}] {
			lp := v.arena[i]
			run := v.runs.Find(lp.Run)
			if run == nil {
				continue
			}
			if !v.graphs.isolated(i) || lp.ReadPos >= len(run.Seq)-LocatorLength {
				continue
			}
			if lp.ReadPos < 0 || lp.Pos > ref.Len() {
				continue
			}

			length := min(ExtraLocatorLength, len(run.Seq)-lp.ReadPos)
			locator := run.Seq.Slice().Take(lp.ReadPos+1, lp.ReadPos+length+1)

			// Deletion: scan downstream of the break.
			if right := min(ref.Len(), lp.Pos+ScanLength); lp.Pos+1 <= right {
				r := align.LocalAlign(ref.Take(lp.Pos+1, right+1), locator)
				pos := lp.Pos + r.Range1.Begin
				if r.MatchRate2() >= LocatorMinMatchRate && abs(pos-lp.Pos) > MinSVLength {
					out.call(DEL, e.Name, lp.Pos, pos)
				}
			}

			// Duplication: scan upstream of the break.
			if left := max(1, lp.Pos-ScanLength); left < lp.Pos {
				r := align.LocalAlign(ref.Take(left, lp.Pos), locator)
				pos := left + r.Range1.Begin
				if r.MatchRate2() >= LocatorMinMatchRate && abs(pos-lp.Pos) > MinSVLength {
					out.call(DUP, e.Name, pos, lp.Pos)
				}
			}
		}

		for _, i := range v.eps[epKey{ref: e.Name, side: Right}] {
			rp := v.arena[i]
			if !v.graphs.isolated(i) || rp.ReadPos <= LocatorLength {
				continue
			}
			run := v.runs.Find(rp.Run)
			if run == nil {
				continue
			}
			if rp.ReadPos > len(run.Seq) || rp.Pos > ref.Len() {
				continue
			}

			length := min(ExtraLocatorLength, rp.ReadPos-1)
			locator := run.Seq.Slice().Take(rp.ReadPos-length, rp.ReadPos)

			// Deletion: scan upstream of the break.
			if left := max(1, rp.Pos-ScanLength); left < rp.Pos {
				r := align.LocalAlign(ref.Take(left, rp.Pos), locator)
				pos := left + r.Range1.End
				if r.MatchRate2() >= LocatorMinMatchRate && abs(rp.Pos-pos) > MinSVLength {
					out.call(DEL, e.Name, pos, rp.Pos)
				}
			}

			// Duplication: scan downstream of the break.
			if right := min(ref.Len(), rp.Pos+ScanLength); rp.Pos+1 <= right {
				r := align.LocalAlign(ref.Take(rp.Pos+1, right+1), locator)
				pos := rp.Pos + r.Range1.End
				if r.MatchRate2() >= LocatorMinMatchRate && abs(rp.Pos-pos) > MinSVLength {
					out.call(DUP, e.Name, rp.Pos, pos)
				}
			}
		}
	}
}

// emitExtraINV reports window pairs left unmarked by translocation
// pairing that are in SV length range.
func (v *Inferrer) emitExtraINV(pmap posMap, out *emitter) {
	for _, e := range v.refs.Entries() {
		for _, l := range pmap[epKey{ref: e.Name, side: Left}] {
			for _, r := range pmap[epKey{ref: e.Name, side: Right}] {
				length := r.pos - l.pos
				if !l.marked && !r.marked && MinSVLength <= length && length <= MaxSVLength {
					out.call(INV, e.Name, l.round(), r.round())
				}
			}
		}
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
