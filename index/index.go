// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package index provides a suffix-automaton index over reference sequences
// with exact and error-tolerant matching and occurrence reporting.
package index

import (
	"sort"

	"github.com/kortschak/leeway/dna"
)

// Token identifies a matching state within an Index. The zero value plus
// id 1 is the initial state; Len may be less than the state's longest
// string when matching fell back along the suffix links.
type Token struct {
	ID  int
	Len int
}

// Location is the result of a fuzzy localisation: a closed window
// [Left, Right] on the reference in 1-indexed coordinates, and whether the
// query matched reverse complemented.
type Location struct {
	Reversed    bool
	Left, Right int
}

type node struct {
	maxlen, fail int
	index        int
	transition   [dna.Sigma]int

	dfn      struct{ in, out int }
	children []int
}

// Index is a suffix automaton over the concatenation of the appended
// symbols. State 1 is the initial state; state 0 is a sentinel whose every
// transition leads to state 1, keeping the construction loop branchless.
// After Build, the index is read-only and safe for concurrent use.
type Index struct {
	last   int
	m      []node
	sorted []int
	n      int
}

// New returns an empty Index.
func New() *Index {
	x := &Index{last: 1, m: make([]node, 2)}
	x.m[0].maxlen = -1
	for c := range x.m[0].transition {
		x.m[0].transition[c] = 1
	}
	return x
}

func (x *Index) allocate() int {
	x.m = append(x.m, node{})
	return len(x.m) - 1
}

func (x *Index) append(v, c int) int {
	x.n++

	y := x.allocate()
	x.m[y].maxlen = x.m[v].maxlen + 1
	x.m[y].index = x.m[y].maxlen

	for x.m[v].transition[c] == 0 {
		x.m[v].transition[c] = y
		v = x.m[v].fail
	}

	p := x.m[v].transition[c]
	if x.m[v].maxlen+1 != x.m[p].maxlen {
		q := x.allocate()
		x.m[q].fail = x.m[p].fail
		x.m[q].transition = x.m[p].transition
		x.m[q].maxlen = x.m[v].maxlen + 1
		// Clones carry no position of their own; every end position is
		// reported by the state created when its symbol was appended.
		x.m[q].index = 0
		x.m[p].fail = q
		x.m[y].fail = q

		for x.m[v].transition[c] == p {
			x.m[v].transition[c] = q
			v = x.m[v].fail
		}
	} else {
		x.m[y].fail = p
	}

	return y
}

// Append extends the automaton by the single symbol class c.
func (x *Index) Append(c int) {
	x.last = x.append(x.last, c)
}

// AppendSlice extends the automaton by every symbol of s in order.
func (x *Index) AppendSlice(s dna.Slice) {
	for i := 1; i <= s.Len(); i++ {
		x.Append(s.Code(i))
	}
}

// Len returns the number of symbols appended so far.
func (x *Index) Len() int { return x.n }

// Build computes the suffix-link tree and its DFS numbering. It must be
// called after the final Append and before RPSet or FuzzyLocate.
func (x *Index) Build() {
	for i := 1; i < len(x.m); i++ {
		x.m[i].children = x.m[i].children[:0]
	}
	for i := 2; i < len(x.m); i++ {
		p := x.m[i].fail
		x.m[p].children = append(x.m[p].children, i)
	}

	x.sorted = make([]int, len(x.m))

	// An explicit stack; the suffix-link tree of a chromosome-scale
	// reference is deep enough to exhaust goroutine stacks by recursion.
	type frame struct {
		v    int
		next int
	}
	count := 0
	stack := []frame{{v: 1}}
	count++
	x.m[1].dfn.in = count
	x.sorted[count] = x.m[1].index
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next < len(x.m[top.v].children) {
			v := x.m[top.v].children[top.next]
			top.next++
			count++
			x.m[v].dfn.in = count
			x.sorted[count] = x.m[v].index
			stack = append(stack, frame{v: v})
			continue
		}
		x.m[top.v].dfn.out = count
		stack = stack[:len(stack)-1]
	}
}

// RPSet returns the sorted set of end positions at which the strings of
// t's state occur in the appended text.
func (x *Index) RPSet(t Token) []int {
	l := x.m[t.ID].dfn.in
	r := x.m[t.ID].dfn.out + 1

	set := make([]int, 0, r-l)
	for _, p := range x.sorted[l:r] {
		if p > 0 {
			set = append(set, p)
		}
	}
	sort.Ints(set)

	j := 0
	for i := 1; i < len(set); i++ {
		if set[i] != set[j] {
			j++
			set[j] = set[i]
		}
	}
	if len(set) != 0 {
		set = set[:j+1]
	}

	return set
}

// Next advances t by the symbol class c, falling back along suffix links
// on mismatch. When no state has the transition, the initial token is
// returned.
func (x *Index) Next(t Token, c int) Token {
	v, l := t.ID, t.Len
	for x.m[v].transition[c] == 0 {
		v = x.m[v].fail
		l = x.m[v].maxlen
	}
	return Token{ID: x.m[v].transition[c], Len: l + 1}
}

// Locate matches s symbol by symbol from the initial state.
func (x *Index) Locate(s dna.Slice) Token {
	var t Token
	t.ID = 1
	for i := 1; i <= s.Len(); i++ {
		t = x.Next(t, s.Code(i))
	}
	return t
}
