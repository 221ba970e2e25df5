// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sv provides the interchange records of the pipeline stages and
// the structural-variant inference built over them.
package sv

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kortschak/leeway/align"
	"github.com/kortschak/leeway/dna"
)

// LocateRecord is one line of stage-one output: the reference window and
// orientation a read was localised to, with the local alignment loss.
type LocateRecord struct {
	Name     string
	Target   string
	Left     int
	Right    int
	Loss     int
	Reversed bool
}

// String formats r in the stage interchange form
// "name target left right loss reversed".
func (r LocateRecord) String() string {
	rev := 0
	if r.Reversed {
		rev = 1
	}
	return fmt.Sprintf("%s %s %d %d %d %d", r.Name, r.Target, r.Left, r.Right, r.Loss, rev)
}

// ParseLocateRecord parses a locate record line.
func ParseLocateRecord(line string) (LocateRecord, error) {
	var r LocateRecord
	fields := strings.Fields(line)
	if len(fields) < 6 {
		return r, fmt.Errorf("locate record has %d fields: %q", len(fields), line)
	}
	r.Name = fields[0]
	r.Target = fields[1]
	for i, dst := range []*int{&r.Left, &r.Right, &r.Loss} {
		v, err := strconv.Atoi(fields[i+2])
		if err != nil {
			return r, fmt.Errorf("bad locate record field %q: %v", fields[i+2], err)
		}
		*dst = v
	}
	rev, err := strconv.Atoi(fields[5])
	if err != nil {
		return r, fmt.Errorf("bad locate record field %q: %v", fields[5], err)
	}
	r.Reversed = rev != 0
	return r, nil
}

// ReadLocateRecords reads locate records one per line, skipping
// malformed lines.
func ReadLocateRecords(r io.Reader) ([]LocateRecord, error) {
	var recs []LocateRecord
	sc := bufio.NewScanner(r)
	sc.Buffer(nil, 1<<20)
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) == "" {
			continue
		}
		rec, err := ParseLocateRecord(sc.Text())
		if err != nil {
			continue
		}
		recs = append(recs, rec)
	}
	return recs, sc.Err()
}

// Break is one read breakpoint: a reference position, the corresponding
// read position and the read's unaligned middle length.
type Break struct {
	Pos     int
	ReadPos int
	Len     int
}

// DumpRecord is one line of stage-two output: the left and right
// breakpoints found for a read on a reference, and the inversion-match
// score of the spanned segment.
type DumpRecord struct {
	Run      string
	Ref      string
	LP, RP   Break
	InvScore float64
}

// String formats r in the stage interchange form "run ref lp.ref lp.read
// lp.len rp.ref rp.read rp.len inv_score".
func (r DumpRecord) String() string {
	return fmt.Sprintf("%s %s %d %d %d %d %d %d %.4f",
		r.Run, r.Ref,
		r.LP.Pos, r.LP.ReadPos, r.LP.Len,
		r.RP.Pos, r.RP.ReadPos, r.RP.Len,
		r.InvScore,
	)
}

// ParseDumpRecord parses a dump record line.
func ParseDumpRecord(line string) (DumpRecord, error) {
	var r DumpRecord
	fields := strings.Fields(line)
	if len(fields) < 9 {
		return r, fmt.Errorf("dump record has %d fields: %q", len(fields), line)
	}
	r.Run = fields[0]
	r.Ref = fields[1]
	for i, dst := range []*int{
		&r.LP.Pos, &r.LP.ReadPos, &r.LP.Len,
		&r.RP.Pos, &r.RP.ReadPos, &r.RP.Len,
	} {
		v, err := strconv.Atoi(fields[i+2])
		if err != nil {
			return r, fmt.Errorf("bad dump record field %q: %v", fields[i+2], err)
		}
		*dst = v
	}
	score, err := strconv.ParseFloat(fields[8], 64)
	if err != nil {
		return r, fmt.Errorf("bad dump record field %q: %v", fields[8], err)
	}
	r.InvScore = score
	return r, nil
}

// ReadDumpRecords reads dump records one per line, skipping malformed
// lines.
func ReadDumpRecords(r io.Reader) ([]DumpRecord, error) {
	var recs []DumpRecord
	sc := bufio.NewScanner(r)
	sc.Buffer(nil, 1<<20)
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) == "" {
			continue
		}
		rec, err := ParseDumpRecord(sc.Text())
		if err != nil {
			continue
		}
		recs = append(recs, rec)
	}
	return recs, sc.Err()
}

// NewDumpRecord derives the dump record for a located read from its
// prefix and suffix spans against the located reference window starting
// at left. The read slice must already be in located orientation. The
// inversion-match score compares the reference between the two breaks
// against the reverse complement of the read between them; it is zero
// unless both breaks are positive and ordered.
func NewDumpRecord(run, ref string, left int, p, s align.Result, refSeq, readSeq dna.Slice) DumpRecord {
	mid := s.Range2.Begin - p.Range2.End

	rec := DumpRecord{
		Run: run,
		Ref: ref,
		LP:  Break{Pos: left + p.Range1.End - 1, ReadPos: p.Range2.End - 1, Len: mid},
		RP:  Break{Pos: left + s.Range1.Begin - 2, ReadPos: s.Range2.Begin, Len: mid},
	}

	if rec.LP.Pos > 0 && rec.RP.Pos > 0 &&
		rec.LP.Pos < rec.RP.Pos &&
		0 < rec.LP.ReadPos && rec.LP.ReadPos < rec.RP.ReadPos && rec.RP.ReadPos <= readSeq.Len() &&
		rec.RP.Pos <= refSeq.Len() {
		seg1 := refSeq.Take(rec.LP.Pos+1, rec.RP.Pos+1)
		seg2 := readSeq.Take(rec.LP.ReadPos+1, rec.RP.ReadPos+1).RevComp()
		if n := seg1.Len() + seg2.Len(); n > 0 {
			loss := align.FullAlign(seg1, seg2)
			rec.InvScore = 1 - 2*float64(loss)/float64(n)
		}
	}

	return rec
}
