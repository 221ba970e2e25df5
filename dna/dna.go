// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dna provides the sequence model shared by the leeway aligners:
// a five-class symbol coding over {A,C,G,T,N}, 1-indexed sequence windows
// and Watson-Crick reverse complementing.
package dna

// Sigma is the size of the coded alphabet. Class 0 is the sentinel/unknown
// class; A/a=1, C/c=2, G/g=3 and T/t=4.
const Sigma = 5

var codes [256]byte

func init() {
	for _, c := range []struct {
		letter byte
		code   byte
	}{
		{'A', 1}, {'a', 1},
		{'C', 2}, {'c', 2},
		{'G', 3}, {'g', 3},
		{'T', 4}, {'t', 4},
	} {
		codes[c.letter] = c.code
	}
}

// Code returns the symbol class of the letter c.
func Code(c byte) int { return int(codes[c]) }

// Seq is a raw sequence of nucleotide letters.
type Seq []byte

// Slice returns a window spanning the whole of s.
func (s Seq) Slice() Slice { return Slice{seq: s, n: len(s)} }

// Slice is a non-owning view of a sequence. Positions are 1-indexed at the
// domain level and windows are half-open, matching the coordinate
// conventions used throughout the pipeline.
type Slice struct {
	seq Seq
	off int
	n   int
}

// New returns a window spanning the whole of s.
func New(s Seq) Slice { return s.Slice() }

// Len returns the number of symbols in the window.
func (p Slice) Len() int { return p.n }

// At returns the letter at the 1-indexed position i.
func (p Slice) At(i int) byte { return p.seq[p.off+i-1] }

// Code returns the symbol class at the 1-indexed position i.
func (p Slice) Code(i int) int { return Code(p.seq[p.off+i-1]) }

// Take returns the sub-window [begin, end) of p in p's 1-indexed
// coordinates.
func (p Slice) Take(begin, end int) Slice {
	return Slice{seq: p.seq, off: p.off + begin - 1, n: end - begin}
}

// Bytes returns the letters covered by the window. The returned slice
// aliases the backing sequence.
func (p Slice) Bytes() []byte { return p.seq[p.off : p.off+p.n] }

// RevComp returns a window over a fresh reverse complement of p.
func (p Slice) RevComp() Slice { return New(RevComp(p.Bytes())) }

// RevComp returns the reverse complement of s as a new sequence. A and T,
// and C and G are exchanged; all other letters become N.
func RevComp(s []byte) Seq {
	t := make(Seq, len(s))
	for i, c := range s {
		switch c {
		case 'A', 'a':
			c = 'T'
		case 'T', 't':
			c = 'A'
		case 'C', 'c':
			c = 'G'
		case 'G', 'g':
			c = 'C'
		default:
			c = 'N'
		}
		t[len(s)-1-i] = c
	}
	return t
}

// Reverse returns s reversed without complementing, as a new sequence.
func Reverse(s []byte) Seq {
	t := make(Seq, len(s))
	for i, c := range s {
		t[len(s)-1-i] = c
	}
	return t
}
