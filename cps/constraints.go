// Copyright ©2025 go-numerics. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cps

import "math"

// Side records which bound an active constraint is pinned against.
type Side int

const (
	AtNone  Side = iota
	AtLower      // pinned at its lower bound
	AtUpper      // pinned at its upper bound
)

// LinearConstraints holds the box bounds l <= x <= u together with the
// single scalar weighted-sum bound w_lo <= sum(x) <= w_hi, and the
// active-set bookkeeping the driver mutates as it walks the box/weighted
// constraints in and out of the active set. Index n (one past the last
// x-variable) is reserved for the weighted-sum row throughout this type.
//
// Exercised exactly as original_source/c++/tests/LeastSquareTest.cpp drives
// checkPrimal/checkDual.
type LinearConstraints struct {
	n int

	l, u       []float64
	wLo, wHi   float64
	active     []bool
	side       []Side
}

// NewLinearConstraints builds a constraint set for n box-bounded variables
// plus one weighted-sum bound. l and u must have length n and satisfy
// l[i] <= u[i]; wLo must be <= wHi.
func NewLinearConstraints(l, u []float64, wLo, wHi float64) (*LinearConstraints, error) {
	n := len(l)
	if len(u) != n {
		return nil, DimensionMismatch("NewLinearConstraints: len(l)=%d, len(u)=%d", n, len(u))
	}
	sumL, sumU := 0.0, 0.0
	for i := 0; i < n; i++ {
		if l[i] > u[i] {
			return nil, Infeasible("NewLinearConstraints: l[%d]=%v > u[%d]=%v", i, l[i], i, u[i])
		}
		sumL += l[i]
		sumU += u[i]
	}
	if wLo > wHi {
		return nil, Infeasible("NewLinearConstraints: w_lo=%v > w_hi=%v", wLo, wHi)
	}
	if wHi < sumL || wLo > sumU {
		return nil, Infeasible("NewLinearConstraints: [w_lo,w_hi]=[%v,%v] disjoint from [sum(l),sum(u)]=[%v,%v]", wLo, wHi, sumL, sumU)
	}
	lc := &LinearConstraints{
		n:      n,
		l:      append([]float64(nil), l...),
		u:      append([]float64(nil), u...),
		wLo:    wLo,
		wHi:    wHi,
		active: make([]bool, n+1),
		side:   make([]Side, n+1),
	}
	return lc, nil
}

// N returns the number of x-variables.
func (lc *LinearConstraints) N() int { return lc.n }

// Bounds returns the box bounds for index i.
func (lc *LinearConstraints) Bounds(i int) (lo, hi float64) { return lc.l[i], lc.u[i] }

// WeightedBounds returns the scalar weighted-sum bound.
func (lc *LinearConstraints) WeightedBounds() (lo, hi float64) { return lc.wLo, lc.wHi }

// ChangeBounds updates the box bound for a single index.
func (lc *LinearConstraints) ChangeBounds(i int, lo, hi float64) error {
	if lo > hi {
		return Infeasible("ChangeBounds: lo=%v > hi=%v at index %d", lo, hi, i)
	}
	lc.l[i], lc.u[i] = lo, hi
	return nil
}

// ChangeBoundsVec replaces every box bound at once.
func (lc *LinearConstraints) ChangeBoundsVec(l, u []float64) error {
	if len(l) != lc.n || len(u) != lc.n {
		return DimensionMismatch("ChangeBoundsVec: got lengths %d/%d, want %d", len(l), len(u), lc.n)
	}
	for i := 0; i < lc.n; i++ {
		if l[i] > u[i] {
			return Infeasible("ChangeBoundsVec: l[%d]=%v > u[%d]=%v", i, l[i], i, u[i])
		}
	}
	copy(lc.l, l)
	copy(lc.u, u)
	return nil
}

// Activate pins index i (n for the weighted-sum row) against the given side.
func (lc *LinearConstraints) Activate(i int, side Side) {
	lc.active[i] = true
	lc.side[i] = side
}

// Deactivate frees index i from the active set.
func (lc *LinearConstraints) Deactivate(i int) {
	lc.active[i] = false
	lc.side[i] = AtNone
}

// Reset clears the whole active set.
func (lc *LinearConstraints) Reset() {
	for i := range lc.active {
		lc.active[i] = false
		lc.side[i] = AtNone
	}
}

// Active reports whether index i (n for the weighted-sum row) is active.
func (lc *LinearConstraints) Active(i int) bool { return lc.active[i] }

// ActiveSide reports the side index i is pinned against, AtNone if free.
func (lc *LinearConstraints) ActiveSide(i int) Side { return lc.side[i] }

// ActiveBoxMask returns a fresh []bool of length n, true where the
// corresponding box bound is active (irrespective of the weighted row).
func (lc *LinearConstraints) ActiveBoxMask() []bool {
	mask := make([]bool, lc.n)
	copy(mask, lc.active[:lc.n])
	return mask
}

// WeightedActive reports whether the weighted-sum row is currently active.
func (lc *LinearConstraints) WeightedActive() bool { return lc.active[lc.n] }

// CheckPrimal reports whether x satisfies every bound to within eps.
func (lc *LinearConstraints) CheckPrimal(x []float64, eps float64) bool {
	if len(x) != lc.n {
		panic("bound check error")
	}
	sum := 0.0
	for i, xi := range x {
		if xi < lc.l[i]-eps || xi > lc.u[i]+eps {
			return false
		}
		sum += xi
	}
	return sum >= lc.wLo-eps && sum <= lc.wHi+eps
}

// CheckDual reports whether the multipliers lambda (length n+1, the last
// entry for the weighted-sum row) have the signs KKT stationarity demands
// given the current active set: a multiplier for an inactive constraint
// must be (numerically) zero; one active at its lower bound must be
// nonpositive; one active at its upper bound must be nonnegative. This is
// the sign convention of the stationarity condition g + C^T lambda = 0.
func (lc *LinearConstraints) CheckDual(lambda []float64, eps float64) bool {
	if len(lambda) != lc.n+1 {
		panic("bound check error")
	}
	for i := 0; i <= lc.n; i++ {
		switch {
		case !lc.active[i]:
			if math.Abs(lambda[i]) > eps {
				return false
			}
		case lc.side[i] == AtLower:
			if lambda[i] > eps {
				return false
			}
		case lc.side[i] == AtUpper:
			if lambda[i] < -eps {
				return false
			}
		}
	}
	return true
}

// Matrix materializes the (n+1) x n constraint matrix C: the top n rows are
// the identity (box bounds), the last row is all-ones (the weighted sum).
// Debug/test helper only.
func (lc *LinearConstraints) Matrix() Matrix {
	m := NewMatrix(lc.n+1, lc.n)
	for i := 0; i < lc.n; i++ {
		m.Set(i, i, 1)
		m.Set(lc.n, i, 1)
	}
	return m
}
