// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package align

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

func TestFullAlign(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	s := randomSeq(rnd, 200)
	u := randomSeq(rnd, 180)

	require.Zero(t, FullAlign(dna.New(s), dna.New(s)))

	require.Equal(t,
		FullAlign(dna.New(s), dna.New(u)),
		FullAlign(dna.New(u), dna.New(s)),
	)

	// Matching is case-insensitive.
	lower := make(dna.Seq, len(s))
	for i, c := range s {
		lower[i] = c | 0x20
	}
	require.Zero(t, FullAlign(dna.New(s), dna.New(lower)))

	// Inserting k symbols into one argument raises the loss by at most k.
	ins := append(append(append(dna.Seq(nil), s[:100]...), "GATTA"...), s[100:]...)
	require.LessOrEqual(t, FullAlign(dna.New(s), dna.New(ins)), 5)
}

func TestLocalAlignPlanted(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	s1 := randomSeq(rnd, 500)

	s2 := append(dna.Seq(nil), s1[200:260]...)

	r := LocalAlign(dna.New(s1), dna.New(s2))
	require.Zero(t, r.Loss)
	require.Equal(t, Range{Begin: 201, End: 261}, r.Range1)
	require.Equal(t, Range{Begin: 1, End: 61}, r.Range2)
	require.Equal(t, 1.0, r.MatchRate2())
}

func TestLocalAlignSubstituted(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	s1 := randomSeq(rnd, 500)

	s2 := append(dna.Seq(nil), s1[200:260]...)
	s2[30] = map[byte]byte{'A': 'C', 'C': 'G', 'G': 'T', 'T': 'A'}[s2[30]]

	r := LocalAlign(dna.New(s1), dna.New(s2))
	require.NotZero(t, r.Loss)
	require.LessOrEqual(t, r.Loss, 2)
}
