// Copyright ©2025 go-numerics. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cps

import "math"

// The helpers below are small, allocation-free vector kernels in the spirit
// of a hand-unrolled daxpy/ddot/dcopy/dscal/dnrm2/dzero set: this package
// only ever needs unit-stride versions, so the increment arguments a
// Fortran-derived BLAS carries for general strides are dropped.

// daxpy computes y += alpha*x, in place.
func daxpy(alpha float64, x, y []float64) {
	if len(x) != len(y) {
		panic("bound check error")
	}
	for i := range x {
		y[i] += alpha * x[i]
	}
}

// ddot computes the dot product of x and y.
func ddot(x, y []float64) float64 {
	if len(x) != len(y) {
		panic("bound check error")
	}
	s := 0.0
	for i := range x {
		s += x[i] * y[i]
	}
	return s
}

// dcopy copies x into y.
func dcopy(x, y []float64) {
	if len(x) != len(y) {
		panic("bound check error")
	}
	copy(y, x)
}

// dscal scales x by alpha, in place.
func dscal(alpha float64, x []float64) {
	for i := range x {
		x[i] *= alpha
	}
}

// dnrm2 computes the Euclidean norm of x.
func dnrm2(x []float64) float64 {
	s := 0.0
	for _, v := range x {
		s += v * v
	}
	return math.Sqrt(s)
}

// dzero zeros x in place.
func dzero(x []float64) {
	for i := range x {
		x[i] = 0
	}
}
