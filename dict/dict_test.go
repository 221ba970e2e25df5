// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dict

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const testFasta = ">chrII some description\n" +
	"ACGTACGTACGT\n" +
	"TTTTACGT\n" +
	">chrI\n" +
	"GATTACA\n"

func TestRead(t *testing.T) {
	d, err := Read(strings.NewReader(testFasta))
	require.NoError(t, err)
	require.Equal(t, 2, d.Len())

	require.Equal(t, "chrII", d.At(0).Name)
	require.Equal(t, "ACGTACGTACGTTTTTACGT", string(d.At(0).Seq))
	require.Equal(t, "chrI", d.At(1).Name)
	require.Equal(t, "GATTACA", string(d.At(1).Seq))
}

func TestReadRejectsDuplicates(t *testing.T) {
	_, err := Read(strings.NewReader(">a\nACGT\n>a\nACGT\n"))
	require.Error(t, err)
}

func TestSortAndFind(t *testing.T) {
	d, err := Read(strings.NewReader(testFasta))
	require.NoError(t, err)

	d.SortByName()
	require.Equal(t, "chrI", d.At(0).Name)
	require.Equal(t, "chrII", d.At(1).Name)

	// Linear scan without an index.
	require.NotNil(t, d.Find("chrII"))
	require.Nil(t, d.Find("chrIII"))

	d.BuildIndex()
	require.Equal(t, d.At(1), d.Find("chrII"))
	require.Nil(t, d.Find("chrIII"))
}
