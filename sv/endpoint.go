// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sv

import (
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/traverse"
)

// Side distinguishes the two breakpoints of a read.
type Side int

const (
	Left Side = iota
	Right
)

// LinkType is the structural-variant interpretation attached to an edge
// of the endpoint graph.
type LinkType int

const (
	INV LinkType = iota
	DUP
	DEL
	INS
	TRA
)

var ltypeString = [...]string{
	INV: "INV",
	DUP: "DUP",
	DEL: "DEL",
	INS: "INS",
	TRA: "TRA",
}

func (t LinkType) String() string {
	if t < 0 || int(t) >= len(ltypeString) {
		return "(unknown)"
	}
	return ltypeString[t]
}

// Endpoint is one read breakpoint attributed to a reference. Endpoints
// live in a flat arena for the duration of an inference run; graph
// adjacency refers to arena indices, avoiding pointer cycles.
type Endpoint struct {
	Run     string
	Pos     int
	ReadPos int
	Len     int
}

type epKey struct {
	ref  string
	side Side
}

// linkGraphs is the typed endpoint graph: one undirected gonum graph per
// link type over the shared endpoint arena.
type linkGraphs map[LinkType]*simple.UndirectedGraph

func (g linkGraphs) link(t LinkType, u, v int) {
	gr, ok := g[t]
	if !ok {
		gr = simple.NewUndirectedGraph()
		g[t] = gr
	}
	gr.SetEdge(simple.Edge{F: simple.Node(u), T: simple.Node(v)})
}

// isolated reports whether arena index i has no link of any type.
func (g linkGraphs) isolated(i int) bool {
	for _, gr := range g {
		if gr.Node(int64(i)) != nil {
			return false
		}
	}
	return true
}

// collect gathers the connected component of start restricted to edges of
// type t, split by breadth-first depth parity: the start's parity class
// in the first list, the opposite class in the second. All visited arena
// indices are marked in visited.
func (g linkGraphs) collect(t LinkType, start int, visited []bool) (even, odd []int) {
	gr := g[t]
	if gr == nil || gr.Node(int64(start)) == nil {
		visited[start] = true
		return []int{start}, nil
	}

	bf := traverse.BreadthFirst{}
	bf.Walk(gr, gr.Node(int64(start)), func(n graph.Node, d int) bool {
		i := int(n.ID())
		visited[i] = true
		if d%2 == 0 {
			even = append(even, i)
		} else {
			odd = append(odd, i)
		}
		return false
	})
	return even, odd
}
