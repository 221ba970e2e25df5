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

// mutate substitutes every period'th symbol, imitating long-read noise.
func mutate(s dna.Seq, period int) dna.Seq {
	sub := map[byte]byte{'A': 'C', 'C': 'G', 'G': 'T', 'T': 'A'}
	t := append(dna.Seq(nil), s...)
	for i := period - 1; i < len(t); i += period {
		t[i] = sub[t[i]]
	}
	return t
}

func TestPrefixSpanBreakpoint(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	ref := randomSeq(rnd, 700)

	// The read follows the reference for 350 symbols, then diverges.
	read := append(mutate(ref[:350], 13), randomSeq(rnd, 350)...)

	r := PrefixSpan(dna.New(ref), dna.New(read))
	require.False(t, r.Mark)

	// The detected corner sits at the divergence point.
	require.InDelta(t, 350, r.Range2.End-1, 60)
	require.InDelta(t, r.Range2.End, r.Range1.End, 70)

	// The loss is bounded by the planted substitution noise.
	require.LessOrEqual(t, r.Loss, 200)
	require.LessOrEqual(t, r.Loss, r.Range2.Length())
}

func TestSuffixSpanBreakpoint(t *testing.T) {
	rnd := rand.New(rand.NewSource(2))
	ref := randomSeq(rnd, 700)

	// The read diverges for 350 symbols, then follows the reference.
	read := append(randomSeq(rnd, 350), mutate(ref[350:], 13)...)

	r := SuffixSpan(dna.New(ref), dna.New(read))
	require.False(t, r.Mark)

	require.InDelta(t, 351, r.Range2.Begin, 60)
	require.InDelta(t, r.Range2.Begin, r.Range1.Begin, 70)
	require.LessOrEqual(t, r.Loss, 200)
}

func TestSpanRangesWellFormed(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	ref := randomSeq(rnd, 400)
	read := mutate(ref, 17)

	for _, r := range []Result{
		PrefixSpan(dna.New(ref), dna.New(read)),
		SuffixSpan(dna.New(ref), dna.New(read)),
	} {
		require.LessOrEqual(t, r.Range1.Begin, r.Range1.End)
		require.LessOrEqual(t, r.Range2.Begin, r.Range2.End)
		require.GreaterOrEqual(t, r.Range1.Begin, 1)
		require.GreaterOrEqual(t, r.Range2.Begin, 1)
		require.LessOrEqual(t, r.Range1.End, 401)
		require.LessOrEqual(t, r.Range2.End, 401)
	}
}

func TestSpanCurveMonotone(t *testing.T) {
	rnd := rand.New(rand.NewSource(4))
	ref := randomSeq(rnd, 300)
	read := append(mutate(ref[:150], 13), randomSeq(rnd, 150)...)

	vs := SpanCurve(dna.New(ref), dna.New(read))
	require.NotEmpty(t, vs)
	for i := 1; i < len(vs); i++ {
		require.Less(t, vs[i-1].X, vs[i].X)
	}
}
