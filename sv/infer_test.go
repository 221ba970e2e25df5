// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sv

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kortschak/leeway/dict"
	"github.com/kortschak/leeway/dna"
)

func randomSeq(rnd *rand.Rand, n int) dna.Seq {
	s := make(dna.Seq, n)
	for i := range s {
		s[i] = "ACGT"[rnd.Intn(4)]
	}
	return s
}

// homopolymer reads defeat the conjection probe without involving the
// extra locator scans.
func polySeq(c byte, n int) dna.Seq {
	s := make(dna.Seq, n)
	for i := range s {
		s[i] = c
	}
	return s
}

func halfAndHalf(n int) dna.Seq {
	return append(polySeq('A', n/2), polySeq('C', n-n/2)...)
}

func TestInferINS(t *testing.T) {
	refs := dict.New(&dict.Entry{Name: "refA", Seq: polySeq('A', 100)})
	runs := dict.New(
		&dict.Entry{Name: "r1", Seq: halfAndHalf(120)},
		&dict.Entry{Name: "r2", Seq: halfAndHalf(120)},
	)
	runs.BuildIndex()

	inf := NewInferrer(refs, runs)
	inf.Add(DumpRecord{
		Run: "r1", Ref: "refA",
		LP: Break{Pos: 1000, ReadPos: 60, Len: 300},
		RP: Break{Pos: 1020, ReadPos: 60, Len: 300},
	})
	inf.Add(DumpRecord{
		Run: "r2", Ref: "refA",
		LP: Break{Pos: 1020, ReadPos: 60, Len: 300},
		RP: Break{Pos: 1040, ReadPos: 60, Len: 300},
	})

	var buf bytes.Buffer
	calls, err := inf.Infer(&buf)
	require.NoError(t, err)

	// All four endpoints link into one insertion component: the left
	// coordinate is the mean position, the length the upweighted mean
	// of the unaligned middles.
	require.Equal(t, "INS refA 1020 1320\n", buf.String())
	require.Len(t, calls, 1)
	require.Equal(t, Call{Type: INS, Ref: "refA", Left: 1020, Right: 1320}, calls[0])
}

func TestInferDEL(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	period := randomSeq(rnd, 200)
	run := make(dna.Seq, 1000)
	for i := range run {
		run[i] = period[i%200]
	}

	refs := dict.New(&dict.Entry{Name: "refA", Seq: polySeq('A', 100)})
	runs := dict.New(&dict.Entry{Name: "r1", Seq: run})
	runs.BuildIndex()

	inf := NewInferrer(refs, runs)
	inf.Add(DumpRecord{
		Run: "r1", Ref: "refA",
		LP: Break{Pos: 1000, ReadPos: 500, Len: 10},
		RP: Break{Pos: 1500, ReadPos: 700, Len: 10},
	})

	var buf bytes.Buffer
	_, err := inf.Infer(&buf)
	require.NoError(t, err)

	// The conjection windows are one period apart in the read and match
	// exactly, and the unmarked window pair is reported as an extra
	// inversion candidate.
	require.Equal(t, "DEL refA 1000 1500\nINV refA 1000 1500\n", buf.String())
}

func TestInferDUP(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	period := randomSeq(rnd, 200)
	run := make(dna.Seq, 1000)
	for i := range run {
		run[i] = period[i%200]
	}

	refs := dict.New(&dict.Entry{Name: "refA", Seq: polySeq('A', 100)})
	runs := dict.New(&dict.Entry{Name: "r1", Seq: run})
	runs.BuildIndex()

	inf := NewInferrer(refs, runs)
	inf.Add(DumpRecord{
		Run: "r1", Ref: "refA",
		LP: Break{Pos: 1500, ReadPos: 700, Len: 10},
		RP: Break{Pos: 1000, ReadPos: 500, Len: 10},
	})

	var buf bytes.Buffer
	_, err := inf.Infer(&buf)
	require.NoError(t, err)

	require.Equal(t, "DUP refA 1000 1500\n", buf.String())
}

func TestInferTRA(t *testing.T) {
	refs := dict.New(
		&dict.Entry{Name: "refA", Seq: polySeq('A', 100)},
		&dict.Entry{Name: "refB", Seq: polySeq('A', 100)},
	)
	runs := dict.New(
		&dict.Entry{Name: "rA", Seq: halfAndHalf(120)},
		&dict.Entry{Name: "rB", Seq: halfAndHalf(120)},
		&dict.Entry{Name: "rB2", Seq: halfAndHalf(120)},
	)
	runs.BuildIndex()

	inf := NewInferrer(refs, runs)
	inf.Add(DumpRecord{
		Run: "rA", Ref: "refA",
		LP: Break{Pos: 1000, ReadPos: 30, Len: 10},
		RP: Break{Pos: 1500, ReadPos: 90, Len: 10},
	})
	inf.Add(DumpRecord{
		Run: "rB", Ref: "refB",
		LP: Break{Pos: 2000, ReadPos: 30, Len: 10},
		RP: Break{Pos: 2500, ReadPos: 90, Len: 10},
	})
	inf.Add(DumpRecord{
		Run: "rB2", Ref: "refB",
		LP: Break{Pos: 2010, ReadPos: 30, Len: 10},
		RP: Break{Pos: 0, ReadPos: 0, Len: 0}, // discarded
	})

	var buf bytes.Buffer
	_, err := inf.Infer(&buf)
	require.NoError(t, err)

	// The two compacted windows have lengths 500 and 495 and pair once,
	// ordered by reference name. Marked windows are not re-reported as
	// inversions.
	require.Equal(t, "TRA refA 1000 1500 refB 2005 2500\n", buf.String())
}

func TestCompactSnapClustering(t *testing.T) {
	refs := dict.New(&dict.Entry{Name: "refA", Seq: polySeq('A', 100)})
	runs := dict.New(&dict.Entry{Name: "r1", Seq: halfAndHalf(120)})
	runs.BuildIndex()

	inf := NewInferrer(refs, runs)
	for _, pos := range []int{1000, 1100, 1150, 2000} {
		inf.Add(DumpRecord{
			Run: "r1", Ref: "refA",
			LP: Break{Pos: pos, ReadPos: 30, Len: 10},
		})
	}

	pmap := inf.compact()
	got := pmap[epKey{ref: "refA", side: Left}]
	require.Len(t, got, 2)
	// Single linkage chains 1000-1100-1150; 2000 stands alone.
	require.InDelta(t, (1000+1100+1150)/3.0, got[0].pos, 1e-12)
	require.InDelta(t, 2000, got[1].pos, 1e-12)
}
