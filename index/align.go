// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package index

import (
	"container/heap"

	"github.com/kortschak/leeway/dna"
)

// Cost model for approximate matching. Every consumed symbol pays CharCost;
// a mismatching consumption, a reference insertion and a query skip each
// add MissCost on top.
const (
	MissCost = 10
	CharCost = 1
	fullCost = MissCost + CharCost
	hValue   = 5
)

// Alignment is the result of an approximate match: the end state reached,
// and the accumulated loss of the best operation sequence.
type Alignment struct {
	Token Token
	Loss  int
	Debug DebugInfo
}

// DebugInfo carries search effort counters for an Align call.
type DebugInfo struct {
	StatesVisited int
	MaxQueueSize  int
}

type searchKey struct {
	x, y int
}

type searchState struct {
	key  searchKey
	t, l int
}

type stateQueue struct {
	s []searchState
	n int
}

func (q *stateQueue) estimate(s searchState) int { return s.t + hValue*(q.n-s.key.y) }

func (q *stateQueue) Len() int           { return len(q.s) }
func (q *stateQueue) Less(i, j int) bool { return q.estimate(q.s[i]) < q.estimate(q.s[j]) }
func (q *stateQueue) Swap(i, j int)      { q.s[i], q.s[j] = q.s[j], q.s[i] }
func (q *stateQueue) Push(x interface{}) { q.s = append(q.s, x.(searchState)) }
func (q *stateQueue) Pop() interface{} {
	v := q.s[len(q.s)-1]
	q.s = q.s[:len(q.s)-1]
	return v
}

// Align finds the end state of the cheapest approximate alignment of s
// against the index by best-first search with the estimate
// loss + 5·(remaining query symbols). The estimate can exceed the true
// remaining cost (a matched symbol costs only CharCost), so the first state
// popped with the whole query consumed is returned without a guarantee that
// it is optimal under the cost model. If the queue is exhausted first, the
// last best state is returned with its loss.
func (x *Index) Align(s dna.Slice) Alignment {
	n := s.Len()
	q := stateQueue{n: n}
	best := make(map[searchKey]int)

	probe := func(v searchState) {
		t, ok := best[v.key]
		if !ok || t > v.t {
			best[v.key] = v.t
			heap.Push(&q, v)
		}
	}

	probe(searchState{key: searchKey{x: 1, y: 0}})

	opt := searchState{key: searchKey{x: 1, y: 0}}
	maxQueue := 0

	for q.Len() > 0 {
		if q.Len() > maxQueue {
			maxQueue = q.Len()
		}
		u := heap.Pop(&q).(searchState)

		if u.t > best[u.key] {
			continue
		}

		if u.key.y == n {
			opt = u
			break
		}

		xv, y := u.key.x, u.key.y

		probe(searchState{key: searchKey{x: xv, y: y + 1}, t: u.t + fullCost, l: u.l})

		for c := 0; c < dna.Sigma; c++ {
			z := x.m[xv].transition[c]
			if z == 0 {
				continue
			}

			cost := CharCost
			if c != s.Code(y+1) {
				cost += MissCost
			}
			probe(searchState{key: searchKey{x: z, y: y + 1}, t: u.t + cost, l: u.l + 1})
			probe(searchState{key: searchKey{x: z, y: y}, t: u.t + fullCost, l: u.l + 1})
		}
	}

	return Alignment{
		Token: Token{ID: opt.key.x, Len: opt.l},
		Loss:  opt.t,
		Debug: DebugInfo{
			StatesVisited: len(best),
			MaxQueueSize:  maxQueue,
		},
	}
}
