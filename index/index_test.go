// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package index

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kortschak/leeway/dna"
)

func indexOf(s string) *Index {
	x := New()
	x.AppendSlice(dna.New(dna.Seq(s)))
	x.Build()
	return x
}

func TestFailTreeInvariants(t *testing.T) {
	x := indexOf("ACGTACGTACGT")

	for v := 2; v < len(x.m); v++ {
		require.Less(t, x.m[x.m[v].fail].maxlen, x.m[v].maxlen, "fail maxlen at state %d", v)

		// Every fail chain terminates at the initial state.
		u := v
		for steps := 0; u != 1; steps++ {
			require.Less(t, steps, len(x.m), "unterminated fail chain from state %d", v)
			u = x.m[u].fail
		}
	}
}

func TestLocateRPSet(t *testing.T) {
	x := indexOf("ACGTACGTACGT")

	tok := x.Locate(dna.New(dna.Seq("ACGT")))
	require.Equal(t, 4, tok.Len)
	require.Equal(t, []int{4, 8, 12}, x.RPSet(tok))

	tok = x.Locate(dna.New(dna.Seq("GTAC")))
	require.Equal(t, 4, tok.Len)
	require.Equal(t, []int{6, 10}, x.RPSet(tok))

	tok = x.Locate(dna.New(dna.Seq("T")))
	require.Equal(t, []int{4, 8, 12}, x.RPSet(tok))
}

func TestNextFallback(t *testing.T) {
	x := indexOf("ACGTACGTACGT")

	// A symbol class absent from the text resets matching.
	tok := x.Locate(dna.New(dna.Seq("ACG")))
	require.Equal(t, 3, tok.Len)
	tok = x.Next(tok, dna.Code('N'))
	require.Equal(t, Token{ID: 1, Len: 0}, tok)

	// Fallback to a shorter suffix keeps matching.
	tok = x.Locate(dna.New(dna.Seq("GTA")))
	tok = x.Next(tok, dna.Code('C'))
	require.Equal(t, 4, tok.Len)
}

func TestSentinelChaining(t *testing.T) {
	// Two references chained with a sentinel: positions continue across
	// the boundary and matches cannot straddle it.
	x := New()
	x.AppendSlice(dna.New(dna.Seq("ACGT")))
	x.Append(0)
	x.AppendSlice(dna.New(dna.Seq("TTTT")))
	x.Build()

	require.Equal(t, 9, x.Len())

	tok := x.Locate(dna.New(dna.Seq("TTTT")))
	require.Equal(t, 4, tok.Len)
	require.Equal(t, []int{9}, x.RPSet(tok))

	tok = x.Locate(dna.New(dna.Seq("T")))
	require.Equal(t, []int{4, 6, 7, 8, 9}, x.RPSet(tok))
}
