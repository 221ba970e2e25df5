// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package numeric

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLeastSquaresExact(t *testing.T) {
	vs := make([]Vec2, 100)
	for i := range vs {
		vs[i] = Vec2{X: float64(i), Y: 2*float64(i) + 1}
	}
	k, b := LeastSquares(vs, 0)
	require.InDelta(t, 2, k, 1e-9)
	require.InDelta(t, 1, b, 1e-9)
}

func TestLeastSquaresReduce(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	vs := make([]Vec2, 200)
	for i := range vs {
		vs[i] = Vec2{X: float64(i), Y: 0.5*float64(i) + rnd.Float64()*0.01}
	}
	// A handful of gross outliers are shed by the reduction passes.
	for _, i := range []int{10, 90, 150} {
		vs[i].Y += 500
	}
	k, _ := LeastSquares(vs, 8)
	require.InDelta(t, 0.5, k, 0.05)
}

func TestLineIntersection(t *testing.T) {
	p := LineIntersection(Vec2{X: 1, Y: 0}, Vec2{X: -1, Y: 2})
	require.InDelta(t, 1, p.X, 1e-12)
	require.InDelta(t, 1, p.Y, 1e-12)
}

func TestHullAreasCollinear(t *testing.T) {
	vs := make([]Vec2, 50)
	for i := range vs {
		vs[i] = Vec2{X: float64(i), Y: 3 * float64(i)}
	}
	for _, a := range HullAreas(vs) {
		require.Zero(t, a)
	}
}

func TestHullAreasTriangle(t *testing.T) {
	a := HullAreas([]Vec2{{0, 0}, {1, 1}, {2, 0}})
	require.Equal(t, []float64{0, 0, 1}, a)
}

func TestFrenchStickSingle(t *testing.T) {
	vs := make([]Vec2, 80)
	for i := range vs {
		vs[i] = Vec2{X: float64(i), Y: 3 * float64(i)}
	}
	d := FrenchStick(vs, 1)
	require.Equal(t, []Segment{{Begin: 0, End: 80}}, d.Segments)
	require.Zero(t, d.Area)
}

func TestFrenchStickElbow(t *testing.T) {
	var vs []Vec2
	for i := 0; i <= 50; i++ {
		vs = append(vs, Vec2{X: float64(i), Y: float64(i)})
	}
	for i := 51; i <= 100; i++ {
		vs = append(vs, Vec2{X: float64(i), Y: 50})
	}

	d := FrenchStick(vs, 2)
	require.Zero(t, d.Area)
	require.Len(t, d.Segments, 2)
	require.Equal(t, 0, d.Segments[0].Begin)
	require.Equal(t, d.Segments[0].End, d.Segments[1].Begin)
	require.Equal(t, 101, d.Segments[1].End)
	// The split lands on the elbow, whose point lies on both lines.
	require.InDelta(t, 50, d.Segments[0].End, 1)
}
