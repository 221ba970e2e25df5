// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dict provides ordered dictionaries of named sequences loaded
// from FASTA files.
package dict

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"

	"github.com/kortschak/leeway/dna"
)

// Entry is a named sequence.
type Entry struct {
	Name string
	Seq  dna.Seq
}

// Dict is an ordered list of named sequences with an optional name
// lookup. Names are unique after load.
type Dict struct {
	entries []*Entry
	index   map[string]*Entry
}

// New returns a Dict over the given entries, keeping their order.
func New(entries ...*Entry) *Dict {
	return &Dict{entries: entries}
}

// LoadFile reads the FASTA file at path into a new Dict.
func LoadFile(path string) (*Dict, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	d, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %v", path, err)
	}
	return d, nil
}

// Read reads FASTA sequence data into a new Dict, keeping the input
// order. Duplicated names are rejected.
func Read(r io.Reader) (*Dict, error) {
	d := &Dict{}
	seen := make(map[string]bool)
	sc := seqio.NewScanner(fasta.NewReader(r, linear.NewSeq("", nil, alphabet.DNAgapped)))
	for sc.Next() {
		s := sc.Seq().(*linear.Seq)
		if seen[s.ID] {
			return nil, fmt.Errorf("duplicated sequence name %q", s.ID)
		}
		seen[s.ID] = true
		d.entries = append(d.entries, &Entry{
			Name: s.ID,
			Seq:  dna.Seq(alphabet.LettersToBytes(s.Seq)),
		})
	}
	if err := sc.Error(); err != nil {
		return nil, err
	}
	return d, nil
}

// Len returns the number of entries held by d.
func (d *Dict) Len() int { return len(d.entries) }

// At returns the i'th entry of d.
func (d *Dict) At(i int) *Entry { return d.entries[i] }

// Entries returns the ordered entries of d.
func (d *Dict) Entries() []*Entry { return d.entries }

// SortByName sorts the entries lexically by name. Any index built before
// the sort remains valid.
func (d *Dict) SortByName() {
	sort.Slice(d.entries, func(i, j int) bool { return d.entries[i].Name < d.entries[j].Name })
}

// BuildIndex builds the name lookup used by Find.
func (d *Dict) BuildIndex() {
	d.index = make(map[string]*Entry, len(d.entries))
	for _, e := range d.entries {
		d.index[e.Name] = e
	}
}

// Find returns the entry named name, or nil. Without a built index the
// lookup is a linear scan.
func (d *Dict) Find(name string) *Entry {
	if d.index == nil {
		for _, e := range d.entries {
			if e.Name == name {
				return e
			}
		}
		return nil
	}
	return d.index[name]
}
