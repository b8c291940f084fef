// Copyright ©2025 go-numerics. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cps

import "math"

// Tolerances bundles the numeric stopping/threshold knobs for a LeastSquare
// driver into one small struct passed by value.
type Tolerances struct {
	// EpsZero is the KKT-sign and primal-feasibility tolerance used by
	// CheckPrimal/CheckDual and the driver's own convergence check.
	EpsZero float64
	// EpsRank is the pivot magnitude below which backSubstituteUpper treats
	// a diagonal entry as rank-deficient; Solve then returns
	// NumericalFailure rather than dividing by a near-zero pivot.
	EpsRank float64
	// MaxIterExtra is added on top of the driver's base budget of 2n
	// iterations.
	MaxIterExtra int
}

// DefaultTolerances returns the knobs this package's scenario tests are
// written against: EpsZero=1e-10, EpsRank=1e-13, MaxIterExtra=10.
func DefaultTolerances() Tolerances {
	return Tolerances{EpsZero: 1e-10, EpsRank: 1e-13, MaxIterExtra: 10}
}

// LeastSquare is the primal active-set driver for
//   minimize   ½‖J x + c·jDir‖²
//   subject to l <= x <= u,  w_lo <= sum(x) <= w_hi
// where J is the structured tridiagonal Jacobian owned by a
// LeastSquareObjective, jDir is a caller-supplied (n-1)-vector and c a
// scalar. It owns preallocated scratch sized at construction time so that
// repeated Solve calls on the same problem size never allocate once warmed
// up via Precompute.
//
// Exercised by the scenario tests in
// original_source/c++/tests/LeastSquareTest.cpp.
type LeastSquare struct {
	n int

	x      []float64
	lambda []float64 // length n+1

	// scratch, reused across iterations
	g     []float64 // n: J^T(Jx+c*j)
	resid []float64 // n-1: residual Jx+c*j, also equalityPhase's base RHS
	y     []float64 // n: trial full iterate
	dx    []float64 // n: step direction y-x; also backSubstituteUpper's output scratch within equalityPhase

	free        []int                      // up to n: indices not in the active set
	keptRows    []int                      // up to n-1: rows kept after dropping all-zero rows
	activeMask  []bool                     // n: active-set mask handed to obj.QR
	reducedData []float64                  // (n-1)*(n-1): backing store for the weighted-phase reduced block
	rhsBuf      []float64                  // n-1: right-hand side fed to backSubstituteUpper
	q           *CondensedOrthogonalMatrix // weighted-phase QR scratch, capacity (n-1) x (n-1)

	maxIter int
	tol     Tolerances

	// Trace, if non-nil, is called once per outer iteration with a
	// human-readable line describing the active-set change just made. It is
	// injected by the caller, never a global logger, keeping this package
	// free of any side-effecting dependency.
	Trace func(format string, args ...interface{})
}

// NewLeastSquare preallocates a driver for an n-variable problem, with
// DefaultTolerances() as its starting Tolerances.
func NewLeastSquare(n int) *LeastSquare {
	tol := DefaultTolerances()
	return &LeastSquare{
		n:           n,
		x:           make([]float64, n),
		lambda:      make([]float64, n+1),
		g:           make([]float64, n),
		resid:       make([]float64, n-1),
		y:           make([]float64, n),
		dx:          make([]float64, n),
		free:        make([]int, 0, n),
		keptRows:    make([]int, 0, n-1),
		activeMask:  make([]bool, n),
		reducedData: make([]float64, (n-1)*(n-1)),
		rhsBuf:      make([]float64, n-1),
		q:           NewCOM(n-1, 1, (n-1)*(n-1)),
		maxIter:     2*n + tol.MaxIterExtra,
		tol:         tol,
	}
}

// X returns the current iterate.
func (ls *LeastSquare) X() []float64 { return ls.x }

// Lambda returns the current Lagrange multipliers (length n+1, last entry
// for the weighted-sum row).
func (ls *LeastSquare) Lambda() []float64 { return ls.lambda }

// SetTolerances overrides the driver's Tolerances, recomputing the
// iteration budget from MaxIterExtra.
func (ls *LeastSquare) SetTolerances(tol Tolerances) {
	ls.tol = tol
	ls.maxIter = 2*ls.n + tol.MaxIterExtra
}

func (ls *LeastSquare) trace(format string, args ...interface{}) {
	if ls.Trace != nil {
		ls.Trace(format, args...)
	}
}

func (ls *LeastSquare) initPoint(lc *LinearConstraints) {
	n := ls.n
	sum := 0.0
	for i := 0; i < n; i++ {
		lo, hi := lc.Bounds(i)
		ls.x[i] = 0.5 * (lo + hi)
		sum += ls.x[i]
	}
	wLo, wHi := lc.WeightedBounds()
	var shift float64
	switch {
	case sum < wLo:
		shift = (wLo - sum) / float64(n)
	case sum > wHi:
		shift = (wHi - sum) / float64(n)
	}
	if shift != 0 {
		for i := 0; i < n; i++ {
			ls.x[i] += shift
			lo, hi := lc.Bounds(i)
			if ls.x[i] < lo {
				ls.x[i] = lo
			} else if ls.x[i] > hi {
				ls.x[i] = hi
			}
		}
	}
}

// Solve runs the active-set loop to minimize ½‖J x + c·jDir‖² subject to
// the bounds in lc, starting from a fresh midpoint-projected initial point
// and an empty active set.
func (ls *LeastSquare) Solve(obj *LeastSquareObjective, jDir []float64, c float64, lc *LinearConstraints) Status {
	if len(jDir) != obj.N()-1 || obj.N() != ls.n || lc.N() != ls.n {
		return NumericalFailure
	}
	lc.Reset()
	ls.initPoint(lc)
	dzero(ls.lambda)

	for iter := 0; iter < ls.maxIter; iter++ {
		y, free, ok := ls.equalityPhase(obj, jDir, c, lc)
		if !ok {
			return NumericalFailure
		}

		dcopy(ls.x, ls.dx)
		dscal(-1, ls.dx)
		daxpy(1, y, ls.dx) // dx = y - x

		alpha, blocker, side := ls.ratioTest(lc, free)
		if alpha < 1 {
			daxpy(alpha, ls.dx, ls.x)
			lc.Activate(blocker, side)
			ls.trace("iter %d: activate %d side=%v alpha=%v", iter, blocker, side, alpha)
			continue
		}

		dcopy(y, ls.x)
		ls.computeMultipliers(obj, jDir, c, lc, free)
		if lc.CheckDual(ls.lambda, ls.tol.EpsZero) && lc.CheckPrimal(ls.x, ls.tol.EpsZero) {
			ls.trace("iter %d: converged", iter)
			return Converged
		}
		dropped, idx := ls.dropMostViolated(lc)
		if !dropped {
			ls.trace("iter %d: converged (no dual violation to drop)", iter)
			return Converged
		}
		ls.trace("iter %d: drop %d", iter, idx)
	}
	return MaxIterations
}

// equalityPhase solves, for the variables currently free (not in the active
// set), the unconstrained least squares that holds the active variables
// pinned at their current bound values, handling the weighted-sum row via
// substitution when it is active. It returns the resulting full candidate
// iterate y and the list of free indices.
func (ls *LeastSquare) equalityPhase(obj *LeastSquareObjective, jDir []float64, c float64, lc *LinearConstraints) (y []float64, free []int, ok bool) {
	n := ls.n
	full := obj.Dense()

	ls.free = ls.free[:0]
	for i := 0; i < n; i++ {
		if !lc.Active(i) {
			ls.free = append(ls.free, i)
		}
	}
	free = ls.free

	// base RHS: contribution of the fixed variables plus c*jDir, built
	// directly into the driver's preallocated resid buffer.
	g := ls.resid
	dcopy(jDir, g)
	dscal(c, g)
	for i := 0; i < n; i++ {
		if lc.Active(i) {
			daxpy(ls.x[i], full.Col(i), g)
		}
	}

	copy(ls.y, ls.x)
	y = ls.y

	if len(free) == 0 {
		return y, free, true
	}

	if lc.WeightedActive() {
		target := weightedTarget(lc, ls.x)
		p := free[len(free)-1]
		newFree := free[:len(free)-1]
		colP := full.Col(p)
		// g is not read again after this point, so the weighted-sum
		// adjustment is folded into it in place instead of copying to a
		// second buffer first.
		daxpy(target, colP, g)

		ls.keptRows = ls.keptRows[:0]
		for r := 0; r < n-1; r++ {
			nz := colP[r] != 0
			for _, fc := range newFree {
				if full.At(r, fc) != 0 {
					nz = true
					break
				}
			}
			if nz {
				ls.keptRows = append(ls.keptRows, r)
			}
		}
		rows, cols := len(ls.keptRows), len(newFree)
		reduced := ViewMatrix(ls.reducedData[:rows*cols], rows, cols, rows)
		rhsKept := ls.rhsBuf[:rows]
		for ri, r := range ls.keptRows {
			for ci, fc := range newFree {
				reduced.Set(ri, ci, full.At(r, fc)-full.At(r, p))
			}
			rhsKept[ri] = g[r]
		}
		ls.q.Reset(false)
		sqr := NewSpecialQR(obj.Delta())
		sqr.QR(reduced, ls.q.Q(0), 0)
		dscal(-1, rhsKept)
		rhsMat := ViewMatrix(rhsKept, rows, 1, rows)
		ls.q.Q(0).ApplyLeft(rhsMat)
		sol, ok := backSubstituteUpper(reduced, rhsKept, ls.tol.EpsRank, ls.dx[:cols])
		if !ok {
			return y, free, false
		}
		sumFree := 0.0
		for i, fc := range newFree {
			y[fc] = sol[i]
			sumFree += sol[i]
		}
		y[p] = target - sumFree
		return y, free, true
	}

	// Route through the objective's own QR (a cache lookup once Precompute
	// has been called, instead of a fresh sweep every iteration) rather
	// than building the reduced block by hand: the row set it keeps is
	// the same deterministic "drop all-zero rows" rule used above, so the
	// two stay in lockstep.
	for i := 0; i < n; i++ {
		ls.activeMask[i] = lc.Active(i)
	}
	reduced, q, err := obj.QR(ls.activeMask, 0)
	if err != nil {
		return y, free, false
	}
	ls.keptRows = ls.keptRows[:0]
	for r := 0; r < n-1; r++ {
		nz := false
		for _, fc := range free {
			if full.At(r, fc) != 0 {
				nz = true
				break
			}
		}
		if nz {
			ls.keptRows = append(ls.keptRows, r)
		}
	}
	rhsKept := ls.rhsBuf[:len(ls.keptRows)]
	for ri, r := range ls.keptRows {
		rhsKept[ri] = g[r]
	}
	dscal(-1, rhsKept)
	rhsMat := ViewMatrix(rhsKept, len(ls.keptRows), 1, len(ls.keptRows))
	q.Q(0).ApplyLeft(rhsMat)
	sol, ok := backSubstituteUpper(reduced, rhsKept, ls.tol.EpsRank, ls.dx[:len(free)])
	if !ok {
		return y, free, false
	}
	for i, fc := range free {
		y[fc] = sol[i]
	}
	return y, free, true
}

func weightedTarget(lc *LinearConstraints, x []float64) float64 {
	wLo, wHi := lc.WeightedBounds()
	target := wLo
	if lc.ActiveSide(lc.N()) == AtUpper {
		target = wHi
	}
	for i := 0; i < lc.N(); i++ {
		if lc.Active(i) {
			target -= x[i]
		}
	}
	return target
}

// backSubstituteUpper solves R*y = rhs for y, where R is upper triangular
// in its leading min(rows,cols) block, writing the result into the
// caller-owned out (which must have length >= cols and is returned
// truncated to exactly cols). Columns beyond the triangular block (an
// underdetermined tail, which only arises when no box bound is active at
// all) are set to zero: this is a particular solution, not the
// minimum-norm one. Since out may be reused scratch carrying stale values
// from a previous call, every entry up to cols is written, never left at
// whatever it held before. If a diagonal pivot of the triangular block is
// smaller than epsRank in magnitude, it stops and reports ok=false (the
// reduced system is rank-deficient).
func backSubstituteUpper(r Matrix, rhs []float64, epsRank float64, out []float64) ([]float64, bool) {
	rows, cols := r.Rows, r.Cols
	y := out[:cols]
	k := rows
	if cols < k {
		k = cols
	}
	for i := k; i < cols; i++ {
		y[i] = 0
	}
	for i := k - 1; i >= 0; i-- {
		s := rhs[i]
		for jc := i + 1; jc < cols; jc++ {
			s -= r.At(i, jc) * y[jc]
		}
		piv := r.At(i, i)
		if math.Abs(piv) < epsRank {
			return y, false
		}
		y[i] = s / piv
	}
	return y, true
}

// ratioTest finds the largest alpha in [0,1] such that x + alpha*dx stays
// within every inactive box bound and, while the weighted-sum row is
// inactive, within [w_lo, w_hi], returning the blocking index (n for the
// weighted-sum row) and side if alpha < 1.
func (ls *LeastSquare) ratioTest(lc *LinearConstraints, free []int) (alpha float64, blocker int, side Side) {
	alpha = 1
	blocker = -1
	for _, i := range free {
		d := ls.dx[i]
		if d == 0 {
			continue
		}
		lo, hi := lc.Bounds(i)
		if d < 0 {
			if a := (lo - ls.x[i]) / d; a < alpha {
				alpha, blocker, side = a, i, AtLower
			}
		} else {
			if a := (hi - ls.x[i]) / d; a < alpha {
				alpha, blocker, side = a, i, AtUpper
			}
		}
	}
	if !lc.WeightedActive() {
		sum, dsum := 0.0, 0.0
		for i := 0; i < ls.n; i++ {
			sum += ls.x[i]
			dsum += ls.dx[i]
		}
		wLo, wHi := lc.WeightedBounds()
		if a := (wLo - sum) / dsum; dsum < 0 && a < alpha {
			alpha, blocker, side = a, ls.n, AtLower
		} else if a := (wHi - sum) / dsum; dsum > 0 && a < alpha {
			alpha, blocker, side = a, ls.n, AtUpper
		}
	}
	if alpha < 0 {
		alpha = 0
	}
	return alpha, blocker, side
}

func (ls *LeastSquare) computeMultipliers(obj *LeastSquareObjective, jDir []float64, c float64, lc *LinearConstraints, free []int) {
	n := ls.n
	xMat := ViewMatrix(ls.x, n, 1, n)
	rMat := ViewMatrix(ls.resid, n-1, 1, n-1)
	obj.ApplyJLeft(rMat, xMat)
	daxpy(c, jDir, ls.resid)

	gMat := ViewMatrix(ls.g, n, 1, n)
	obj.ApplyJTLeft(gMat, rMat)

	dzero(ls.lambda)
	lambdaW := 0.0
	if lc.WeightedActive() && len(free) > 0 {
		lambdaW = -ls.g[free[0]]
	}
	ls.lambda[n] = lambdaW
	for i := 0; i < n; i++ {
		if lc.Active(i) {
			ls.lambda[i] = -ls.g[i] - lambdaW
		}
	}
}

// dropMostViolated removes from the active set the constraint whose
// multiplier most violates its required sign, reporting ok=false if every
// active multiplier already has the correct sign (nothing to drop).
func (ls *LeastSquare) dropMostViolated(lc *LinearConstraints) (ok bool, dropped int) {
	worst := -1
	worstVal := ls.tol.EpsZero
	for i := 0; i <= ls.n; i++ {
		if !lc.Active(i) {
			continue
		}
		v := ls.lambda[i]
		var violation float64
		switch lc.ActiveSide(i) {
		case AtLower:
			violation = v
		case AtUpper:
			violation = -v
		}
		if violation > worstVal {
			worstVal = violation
			worst = i
		}
	}
	if worst < 0 {
		return false, -1
	}
	lc.Deactivate(worst)
	return true, worst
}

// SolveFeasibility looks for a point satisfying lc's bounds, with no
// objective, by taking the same starting point Solve uses: the box
// midpoint, shifted uniformly toward a violated weighted-sum bound and then
// clamped to the box. No iteration is performed. It returns Converged if
// that point satisfies lc and NumericalFailure otherwise; since the clamp
// can leave the sum outside [w_lo, w_hi], NumericalFailure can be returned
// even when a feasible point exists.
func (ls *LeastSquare) SolveFeasibility(lc *LinearConstraints) Status {
	ls.initPoint(lc)
	if lc.CheckPrimal(ls.x, ls.tol.EpsZero) {
		return Converged
	}
	return NumericalFailure
}
