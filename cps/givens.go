// Copyright ©2025 go-numerics. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cps

import "math"

// Givens is a plane rotation acting on rows (or columns) I and J of a
// matrix, with C*C+S*S == 1. MakeGivens builds the rotation that zeros a
// target component, and rotate2 applies an already-built rotation to a
// pair of scalars, the classic two-function split for Givens kernels.
type Givens struct {
	I, J int
	C, S float64
}

// MakeGivens builds the rotation that, applied to the column vector (a, b),
// yields (r, 0): c*a + s*b == r and -s*a + c*b == 0. When a and b are both
// zero it returns the identity rotation, per the ε_zero identity policy
// used throughout this package to keep rotation sequences at fixed length.
func MakeGivens(i, j int, a, b float64) (Givens, float64) {
	if a == 0 && b == 0 {
		return Givens{I: i, J: j, C: 1, S: 0}, 0
	}
	var c, s, r float64
	xa, xb := math.Abs(a), math.Abs(b)
	if xa > xb {
		t := b / a
		u := math.Sqrt(1 + t*t)
		c = math.Copysign(1/u, a)
		s = c * t
		r = xa * u
	} else {
		t := a / b
		u := math.Sqrt(1 + t*t)
		s = math.Copysign(1/u, b)
		c = s * t
		r = xb * u
	}
	return Givens{I: i, J: j, C: c, S: s}, r
}

// rotate2 applies the 2x2 rotation [[c,s],[-s,c]] to the pair (x,y).
func rotate2(c, s, x, y float64) (float64, float64) {
	return c*x + s*y, -s*x + c*y
}

// ApplyLeft replaces rows I and J of m by the rotated pair: row I' = c*row I
// + s*row J, row J' = -s*row I + c*row J.
func (g Givens) ApplyLeft(m Matrix) {
	for k := 0; k < m.Cols; k++ {
		x, y := m.At(g.I, k), m.At(g.J, k)
		nx, ny := rotate2(g.C, g.S, x, y)
		m.Set(g.I, k, nx)
		m.Set(g.J, k, ny)
	}
}

// ApplyRight replaces columns I and J of m by the rotated pair, mirroring
// ApplyLeft on columns: col I' = c*col I + s*col J, col J' = -s*col I +
// c*col J.
func (g Givens) ApplyRight(m Matrix) {
	for k := 0; k < m.Rows; k++ {
		x, y := m.At(k, g.I), m.At(k, g.J)
		nx, ny := rotate2(g.C, g.S, x, y)
		m.Set(k, g.I, nx)
		m.Set(k, g.J, ny)
	}
}

// Extend shifts both indices of the rotation by delta, used when a rotation
// computed against a local sub-block is spliced into a bigger matrix at a
// row/column offset.
func (g *Givens) Extend(delta int) {
	g.I += delta
	g.J += delta
}

// Identity reports whether g is the no-op rotation (c==1, s==0).
func (g Givens) Identity() bool {
	return g.C == 1 && g.S == 0
}
