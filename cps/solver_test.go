// Copyright ©2025 go-numerics. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cps

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestLeastSquareFeasibility mirrors
// original_source/c++/tests/LeastSquareTest.cpp's LeastSquareFeasibilityTest:
// fixed box bounds with w_lo=-1, w_hi=1 must yield a point the constraint
// set itself certifies as primal-feasible.
func TestLeastSquareFeasibility(t *testing.T) {
	n := 6
	l := []float64{-0.5, -0.4, -0.3, -0.2, -0.1, 0}
	u := []float64{0.5, 0.6, 0.7, 0.8, 0.9, 1.0}
	lc, err := NewLinearConstraints(l, u, -1, 1)
	require.NoError(t, err)

	ls := NewLeastSquare(n)
	status := ls.SolveFeasibility(lc)
	require.Equal(t, Converged, status)
	require.True(t, lc.CheckPrimal(ls.X(), 1e-9))
}

// TestLeastSquareKKT mirrors LeastSquareTest's main scenario: solve the
// constrained least-squares problem and verify both the primal feasibility
// and the dual (KKT sign) conditions the constraint set exposes.
func TestLeastSquareKKT(t *testing.T) {
	n := 8
	delta := linSpace(n, 0.01, 0.19)
	obj, err := NewLeastSquareObjective(delta)
	require.NoError(t, err)

	l := make([]float64, n)
	u := make([]float64, n)
	for i := range l {
		l[i] = 0.05
		u[i] = 5
	}
	lc, err := NewLinearConstraints(l, u, -1, 1)
	require.NoError(t, err)

	jDir := make([]float64, n-1)
	for i := range jDir {
		jDir[i] = 1
	}

	ls := NewLeastSquare(n)
	status := ls.Solve(obj, jDir, 0.3, lc)
	require.Contains(t, []Status{Converged, MaxIterations}, status)

	require.True(t, lc.CheckPrimal(ls.X(), 1e-6))
	if status == Converged {
		require.True(t, lc.CheckDual(ls.Lambda(), 1e-6))
	}
}

// TestLeastSquareWarmStartIdempotent checks that calling Solve twice in a
// row on the same problem reaches the same iterate, since Solve always
// resets the active set and initial point itself.
func TestLeastSquareWarmStartIdempotent(t *testing.T) {
	n := 6
	delta := linSpace(n, 0.01, 0.19)
	obj, err := NewLeastSquareObjective(delta)
	require.NoError(t, err)

	l := make([]float64, n)
	u := make([]float64, n)
	for i := range l {
		l[i] = 0.1
		u[i] = 3
	}
	lc, err := NewLinearConstraints(l, u, -1, 1)
	require.NoError(t, err)

	jDir := make([]float64, n-1)
	for i := range jDir {
		jDir[i] = float64(i) * 0.1
	}

	ls := NewLeastSquare(n)
	ls.Solve(obj, jDir, 0.2, lc)
	first := append([]float64(nil), ls.X()...)

	ls.Solve(obj, jDir, 0.2, lc)
	second := ls.X()

	for i := range first {
		require.InDelta(t, first[i], second[i], 1e-9)
	}
}

// TestLeastSquareTraceHookFires checks that a caller-supplied Trace
// callback observes at least one active-set event during a solve that
// activates a bound before converging.
func TestLeastSquareTraceHookFires(t *testing.T) {
	n := 6
	delta := linSpace(n, 0.01, 0.19)
	obj, err := NewLeastSquareObjective(delta)
	require.NoError(t, err)

	l := make([]float64, n)
	u := make([]float64, n)
	for i := range l {
		l[i] = 0.1
		u[i] = 0.15
	}
	lc, err := NewLinearConstraints(l, u, -1, 1)
	require.NoError(t, err)

	jDir := make([]float64, n-1)
	for i := range jDir {
		jDir[i] = 1
	}

	ls := NewLeastSquare(n)
	var lines []string
	ls.Trace = func(format string, args ...interface{}) {
		lines = append(lines, fmt.Sprintf(format, args...))
	}
	ls.Solve(obj, jDir, 5, lc)
	require.NotEmpty(t, lines)
}

// TestLeastSquareSetTolerancesAdjustsIterationBudget checks that
// SetTolerances recomputes the iteration cap from MaxIterExtra.
func TestLeastSquareSetTolerancesAdjustsIterationBudget(t *testing.T) {
	ls := NewLeastSquare(5)
	require.Equal(t, 2*5+DefaultTolerances().MaxIterExtra, ls.maxIter)
	ls.SetTolerances(Tolerances{EpsZero: 1e-8, EpsRank: 1e-12, MaxIterExtra: 3})
	require.Equal(t, 2*5+3, ls.maxIter)
}

// TestLeastSquarePrecomputeEquivalence checks that solving against a
// precomputed objective gives the same iterate as against a fresh one.
func TestLeastSquarePrecomputeEquivalence(t *testing.T) {
	n := 6
	delta := linSpace(n, 0.01, 0.19)

	fresh, err := NewLeastSquareObjective(delta)
	require.NoError(t, err)
	cached, err := NewLeastSquareObjective(delta)
	require.NoError(t, err)
	require.NoError(t, cached.Precompute(0))

	l := make([]float64, n)
	u := make([]float64, n)
	for i := range l {
		l[i] = 0.1
		u[i] = 3
	}

	jDir := make([]float64, n-1)
	for i := range jDir {
		jDir[i] = 0.2
	}

	lc1, err := NewLinearConstraints(l, u, -1, 1)
	require.NoError(t, err)
	lc2, err := NewLinearConstraints(l, u, -1, 1)
	require.NoError(t, err)

	ls1 := NewLeastSquare(n)
	ls1.Solve(fresh, jDir, 0.1, lc1)

	ls2 := NewLeastSquare(n)
	ls2.Solve(cached, jDir, 0.1, lc2)

	for i := 0; i < n; i++ {
		require.InDelta(t, ls1.X()[i], ls2.X()[i], 1e-7)
	}
}
