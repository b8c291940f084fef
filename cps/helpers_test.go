// Copyright ©2025 go-numerics. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cps

import "math"

// almostEqual is a plain float64 tolerance check, since this package's
// tests never compare slices directly (they compare norms/residuals
// instead).
func almostEqual(want, got, tol float64) bool {
	return math.Abs(want-got) <= tol
}

// linSpace returns n values evenly spaced in [lo,hi], inclusive, matching
// the δ = LinSpaced(n, 0.01, 0.19) fixture used throughout
// original_source/c++/tests/LeastSquareTest.cpp.
func linSpace(n int, lo, hi float64) []float64 {
	v := make([]float64, n)
	if n == 1 {
		v[0] = lo
		return v
	}
	step := (hi - lo) / float64(n-1)
	for i := range v {
		v[i] = lo + step*float64(i)
	}
	return v
}

// identityMatrix builds an n x n identity, for orthogonality checks.
func identityMatrix(n int) Matrix {
	m := NewMatrix(n, n)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}

// frobeniusDiff returns ‖a-b‖_F for two matrices of the same shape.
func frobeniusDiff(a, b Matrix) float64 {
	s := 0.0
	for j := 0; j < a.Cols; j++ {
		for i := 0; i < a.Rows; i++ {
			d := a.At(i, j) - b.At(i, j)
			s += d * d
		}
	}
	return math.Sqrt(s)
}
