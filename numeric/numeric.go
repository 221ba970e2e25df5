// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package numeric provides the small geometric kit behind breakpoint
// detection: 2D vectors, robust linear least squares and the french-stick
// decomposition of monotone point sets.
package numeric

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Vec2 is a point or vector in the plane. When a Vec2 describes a line it
// holds the slope in X and the intercept in Y.
type Vec2 struct {
	X, Y float64
}

// Add returns v+u.
func (v Vec2) Add(u Vec2) Vec2 { return Vec2{X: v.X + u.X, Y: v.Y + u.Y} }

// Sub returns v-u.
func (v Vec2) Sub(u Vec2) Vec2 { return Vec2{X: v.X - u.X, Y: v.Y - u.Y} }

// Scale returns v scaled by a.
func (v Vec2) Scale(a float64) Vec2 { return Vec2{X: v.X * a, Y: v.Y * a} }

// Cross returns the z component of v×u.
func (v Vec2) Cross(u Vec2) float64 { return v.X*u.Y - v.Y*u.X }

// Len2 returns the squared length of v.
func (v Vec2) Len2() float64 { return v.X*v.X + v.Y*v.Y }

// Len returns the length of v.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// LineIntersection returns the intersection point of the lines l1 and l2
// given in slope/intercept form.
func LineIntersection(l1, l2 Vec2) Vec2 {
	x := (l2.Y - l1.Y) / (l1.X - l2.X)
	return Vec2{X: x, Y: l1.X*x + l1.Y}
}

const nThreshold = 30

// LeastSquares fits a line to the points of vs, returning its slope and
// intercept. When reduce is positive, points deviating from the fit by
// more than twice the mean absolute deviation are shed and the fit is
// repeated, at most reduce times, while at least nThreshold points
// survive.
func LeastSquares(vs []Vec2, reduce int) (k, b float64) {
	xs := make([]float64, len(vs))
	ys := make([]float64, len(vs))
	for i, v := range vs {
		xs[i] = v.X
		ys[i] = v.Y
	}
	b, k = stat.LinearRegression(xs, ys, nil, false)

	if reduce > 0 {
		dev := func(v Vec2) float64 {
			return math.Abs(v.Y - (k*v.X + b))
		}

		var sdev float64
		for _, v := range vs {
			sdev += dev(v)
		}
		threshold := 2 * sdev / float64(len(vs))

		kept := make([]Vec2, 0, len(vs))
		for _, v := range vs {
			if dev(v) <= threshold {
				kept = append(kept, v)
			}
		}

		if nThreshold <= len(kept) && len(kept) < len(vs) {
			return LeastSquares(kept, reduce-1)
		}
	}

	return k, b
}
