// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dna

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCode(t *testing.T) {
	for _, c := range []struct {
		letter byte
		code   int
	}{
		{'A', 1}, {'a', 1},
		{'C', 2}, {'c', 2},
		{'G', 3}, {'g', 3},
		{'T', 4}, {'t', 4},
		{'N', 0}, {'n', 0}, {'X', 0}, {'-', 0},
	} {
		require.Equal(t, c.code, Code(c.letter), "code of %q", c.letter)
	}
}

func TestRevComp(t *testing.T) {
	require.Equal(t, Seq("TTACGT"), RevComp([]byte("ACGTAA")))

	// Reverse complementing is an involution over the ACGT alphabet.
	s := []byte("GATTACAGATTACA")
	require.Equal(t, Seq(s), RevComp(RevComp(s)))

	// Letters outside the alphabet become N and do not round-trip.
	require.Equal(t, Seq("NACGT"), RevComp([]byte("ACGTX")))
}

func TestSlice(t *testing.T) {
	s := New(Seq("ACGTACGT"))
	require.Equal(t, 8, s.Len())
	require.Equal(t, byte('A'), s.At(1))
	require.Equal(t, byte('T'), s.At(8))

	w := s.Take(3, 7)
	require.Equal(t, 4, w.Len())
	require.Equal(t, "GTAC", string(w.Bytes()))
	require.Equal(t, byte('G'), w.At(1))
	require.Equal(t, 3, w.Code(1))

	// Sub-windows are relative to the window, not the backing sequence.
	require.Equal(t, "TA", string(w.Take(2, 4).Bytes()))

	require.Equal(t, "GTAC", string(w.RevComp().Bytes()))
}
