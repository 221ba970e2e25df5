// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package index

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kortschak/leeway/dna"
)

func randomSeq(rnd *rand.Rand, n int) dna.Seq {
	s := make(dna.Seq, n)
	for i := range s {
		s[i] = "ACGT"[rnd.Intn(4)]
	}
	return s
}

func TestFuzzyLocateForward(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	ref := randomSeq(rnd, 3000)

	x := New()
	x.AppendSlice(dna.New(ref))
	x.Build()

	// A read cut from [1001, 1400].
	read := make(dna.Seq, 400)
	copy(read, ref[1000:1400])

	loc := x.FuzzyLocate(dna.New(read))
	require.False(t, loc.Reversed)
	require.LessOrEqual(t, loc.Left, 1001)
	require.GreaterOrEqual(t, loc.Right, 1400)
}

func TestFuzzyLocateReversed(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	ref := randomSeq(rnd, 3000)

	x := New()
	x.AppendSlice(dna.New(ref))
	x.Build()

	// A read that is the reverse complement of [2001, 2400].
	read := dna.RevComp(ref[2000:2400])

	loc := x.FuzzyLocate(dna.New(read))
	require.True(t, loc.Reversed)
	require.LessOrEqual(t, loc.Left, 2001)
	require.GreaterOrEqual(t, loc.Right, 2400)
}
