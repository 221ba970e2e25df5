// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package index

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kortschak/leeway/dna"
)

func TestAlignExact(t *testing.T) {
	x := indexOf("ACGTACGTACGTACGT")

	r := x.Align(dna.New(dna.Seq("GTAC")))
	require.Equal(t, 4*CharCost, r.Loss)
	require.Equal(t, 4, r.Token.Len)
	require.Equal(t, []int{6, 10, 14}, x.RPSet(r.Token))

	require.NotZero(t, r.Debug.StatesVisited)
}

func TestAlignSubstituted(t *testing.T) {
	x := indexOf("ACGTACGTACGTACGT")

	// One unmatchable symbol: three matched consumptions plus either a
	// skip or a mismatching consumption of the N.
	r := x.Align(dna.New(dna.Seq("GTAN")))
	require.Equal(t, 3*CharCost+MissCost+CharCost, r.Loss)
	require.Contains(t, []int{3, 4}, r.Token.Len)
}

func TestAlignApproximate(t *testing.T) {
	x := indexOf("ACGTACGTACGTACGT")

	// The whole query is present: loss is one unit per symbol.
	r := x.Align(dna.New(dna.Seq("ACGTACGT")))
	require.Equal(t, 8*CharCost, r.Loss)
	require.Equal(t, 8, r.Token.Len)

	// A query with an unmatchable prefix pays for both prefix symbols.
	// The inflated heuristic trades optimality for search effort, so
	// only the cost bounds are fixed.
	r = x.Align(dna.New(dna.Seq("NNACGTACGT")))
	require.GreaterOrEqual(t, r.Loss, 2*MissCost+10*CharCost)
	require.LessOrEqual(t, r.Loss, 10*(MissCost+CharCost))
}
