// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sv

import (
	"fmt"
	"io"
	"math"
)

// emitter writes SV records, retaining the first write error and the
// emitted calls.
type emitter struct {
	w     io.Writer
	calls []Call
	err   error
}

func (e *emitter) printf(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

func (e *emitter) call(t LinkType, ref string, left, right int) {
	e.calls = append(e.calls, Call{Type: t, Ref: ref, Left: left, Right: right})
	e.printf("%v %s %d %d\n", t, ref, left, right)
}

func (e *emitter) tra(ref1 string, left1, right1 int, ref2 string, left2, right2 int) {
	e.calls = append(e.calls, Call{
		Type: TRA,
		Ref:  ref1, Left: left1, Right: right1,
		Ref2: ref2, Left2: left2, Right2: right2,
	})
	e.printf("%v %s %d %d %s %d %d\n", TRA, ref1, left1, right1, ref2, left2, right2)
}

func meanPos(eps []Endpoint) float64 {
	var sum float64
	for _, ep := range eps {
		sum += float64(ep.Pos)
	}
	return sum / float64(len(eps))
}

// normal emits an INV, DEL or DUP record at the mean positions of the two
// endpoint classes.
func (e *emitter) normal(t LinkType, ref string, L, R []Endpoint) {
	left := int(math.Round(meanPos(L)))
	right := int(math.Round(meanPos(R)))
	if right < left {
		left, right = right, left
	}
	e.call(t, ref, left, right)
}

// ins emits an INS record: the left coordinate is the mean of every
// endpoint position, the right adds the weighted mean inserted length.
// Reads seen on both sides are upweighted.
func (e *emitter) ins(t LinkType, ref string, L, R []Endpoint) {
	var sum float64
	count := 0
	for _, ep := range L {
		sum += float64(ep.Pos)
		count++
	}
	for _, ep := range R {
		sum += float64(ep.Pos)
		count++
	}
	left := int(math.Round(sum / float64(count)))

	sum = 0
	count = 0
	onLeft := make(map[string]bool)
	for _, ep := range L {
		if ep.Len > MaxSVLength {
			continue
		}
		sum += float64(ep.Len)
		count++
		onLeft[ep.Run] = true
	}
	for _, ep := range R {
		if ep.Len > MaxSVLength {
			continue
		}
		scale := 1
		if onLeft[ep.Run] {
			scale = 4
		}
		sum += float64(ep.Len * scale)
		count += scale
	}

	right := left
	if count != 0 {
		right += int(math.Round(sum / float64(count)))
	}

	e.call(t, ref, left, right)
}
