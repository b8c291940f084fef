// Copyright ©2025 go-numerics. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cps

// LeastSquareObjective owns the time-step vector delta and exposes the
// structured (n-1) x n tridiagonal Jacobian J: J is built densely once at
// construction (the dense field, read by qrComputation and the driver),
// applied via ApplyJLeft/ApplyJTLeft, and factorized on demand (or read
// from a precomputed cache) via QR.
//
// Grounded on original_source/c++/include/cps/QuadraticObjective.h.
type LeastSquareObjective struct {
	n     int
	delta []float64
	d     []float64 // d[i] = 1/delta[i]

	precomputed     bool
	precomputeShift int
	precomputations []precomputation

	// dense is J, built once at construction: qrComputation and the driver's
	// equalityPhase both read it directly instead of rebuilding it every
	// outer-loop iteration.
	dense Matrix
}

type precomputation struct {
	r Matrix
	q *CondensedOrthogonalMatrix
}

// NewLeastSquareObjective builds an objective for the given positive
// time-step vector. len(delta) must be >= 3.
func NewLeastSquareObjective(delta []float64) (*LeastSquareObjective, error) {
	n := len(delta)
	if n < 3 {
		return nil, DimensionMismatch("delta must have length >= 3, got %d", n)
	}
	d := make([]float64, n)
	for i, v := range delta {
		if v <= 0 {
			return nil, DimensionMismatch("delta[%d] = %v must be > 0", i, v)
		}
		d[i] = 1 / v
	}
	deltaCopy := make([]float64, n)
	copy(deltaCopy, delta)
	obj := &LeastSquareObjective{n: n, delta: deltaCopy, d: d, dense: NewMatrix(n-1, n)}
	obj.fillDense(obj.dense)
	return obj, nil
}

// N returns the number of x-variables (columns of J).
func (o *LeastSquareObjective) N() int { return o.n }

// Delta returns the time-step vector backing this objective.
func (o *LeastSquareObjective) Delta() []float64 { return o.delta }

// ApplyJLeft computes Y = J*X, where X has n rows and Y has n-1 rows, both
// sharing the same number of columns. Row 0 is the degenerate boundary row;
// rows 1..n-2 use the uniform tridiagonal pattern (which, unlike
// ApplyJTLeft, already reaches the true last column without a second
// boundary case — see SPEC_FULL.md's "Open Question resolution").
func (o *LeastSquareObjective) ApplyJLeft(y, x Matrix) error {
	n := o.n
	if x.Rows != n {
		return DimensionMismatch("ApplyJLeft: x has %d rows, want %d", x.Rows, n)
	}
	if y.Rows != n-1 {
		return DimensionMismatch("ApplyJLeft: y has %d rows, want %d", y.Rows, n-1)
	}
	if y.Cols != x.Cols {
		return DimensionMismatch("ApplyJLeft: y has %d cols, x has %d", y.Cols, x.Cols)
	}
	d := o.d
	for c := 0; c < x.Cols; c++ {
		xc := x.Col(c)
		yc := y.Col(c)
		yc[0] = d[1]*xc[1] - (d[0]+d[1])*xc[0]
		for i := 1; i <= n-2; i++ {
			yc[i] = d[i]*xc[i-1] - (d[i]+d[i+1])*xc[i] + d[i+1]*xc[i+1]
		}
	}
	return nil
}

// ApplyJTLeft computes Y = J^T*X, where X has n-1 rows and Y has n rows.
// Rows 0 and n-2..n-1 are the boundary cases; rows 1..n-3 use the uniform
// pattern.
func (o *LeastSquareObjective) ApplyJTLeft(y, x Matrix) error {
	n := o.n
	if x.Rows != n-1 {
		return DimensionMismatch("ApplyJTLeft: x has %d rows, want %d", x.Rows, n-1)
	}
	if y.Rows != n {
		return DimensionMismatch("ApplyJTLeft: y has %d rows, want %d", y.Rows, n)
	}
	if y.Cols != x.Cols {
		return DimensionMismatch("ApplyJTLeft: y has %d cols, x has %d", y.Cols, x.Cols)
	}
	d := o.d
	for c := 0; c < x.Cols; c++ {
		xc := x.Col(c)
		yc := y.Col(c)
		yc[0] = d[1]*xc[1] - (d[0]+d[1])*xc[0]
		for i := 1; i <= n-3; i++ {
			yc[i] = d[i]*xc[i-1] - (d[i]+d[i+1])*xc[i] + d[i+1]*xc[i+1]
		}
		yc[n-2] = d[n-2]*xc[n-3] - (d[n-2]+d[n-1])*xc[n-2]
		yc[n-1] = d[n-1] * xc[n-2]
	}
	return nil
}

func (o *LeastSquareObjective) fillDense(m Matrix) {
	n := o.n
	d := o.d
	m.Set(0, 0, -(d[0] + d[1]))
	m.Set(0, 1, d[1])
	for i := 1; i <= n-2; i++ {
		m.Set(i, i-1, d[i])
		m.Set(i, i, -(d[i] + d[i+1]))
		m.Set(i, i+1, d[i+1])
	}
}

// DenseMatrix materializes a fresh, independent copy of the full (n-1) x n
// Jacobian J, for cross-checking ApplyJLeft/ApplyJTLeft and QR against in
// tests. Allocates; never used on the hot path — production code reads the
// cached copy Dense returns instead.
func (o *LeastSquareObjective) DenseMatrix() Matrix {
	m := NewMatrix(o.n-1, o.n)
	o.fillDense(m)
	return m
}

// Dense returns the Jacobian J cached at construction time.
func (o *LeastSquareObjective) Dense() Matrix { return o.dense }

func maskIndex(active []bool) int {
	idx := 0
	for i, a := range active {
		if a {
			idx |= 1 << i
		}
	}
	return idx
}

// QR computes a CondensedOrthogonalMatrix Q and upper-triangular R such
// that Q*R equals J restricted to the columns where active[i] is false
// (the free variables), with every row shifted by shift so the rotations
// index correctly into a larger embedding matrix. If Precompute has been
// called, the factorization is a cache lookup instead of a fresh sweep.
func (o *LeastSquareObjective) QR(active []bool, shift int) (Matrix, *CondensedOrthogonalMatrix, error) {
	if len(active) != o.n {
		return Matrix{}, nil, DimensionMismatch("QR: active mask has length %d, want %d", len(active), o.n)
	}
	if o.precomputed && shift == o.precomputeShift {
		p := o.precomputations[maskIndex(active)]
		return p.r, p.q, nil
	}
	r, q := o.qrComputation(active, shift)
	return r, q, nil
}

// qrComputation builds the dense Jacobian restricted to the free columns,
// drops the resulting all-zero rows (always safe: a zero row carries no
// information and never changes the least-squares solution or Q's action
// on the complementary subspace), and runs a generic Givens sweep over
// what remains. See DESIGN.md for why this direct approach is used instead
// of reassembling per-segment SpecialQR blocks: the exact segment
// boundary-type mapping is underdetermined without the original
// QRAlgorithms.h source, while dropping zero rows is correct by
// construction.
func (o *LeastSquareObjective) qrComputation(active []bool, shift int) (Matrix, *CondensedOrthogonalMatrix) {
	n := o.n
	full := o.dense

	var freeCols []int
	for i := 0; i < n; i++ {
		if !active[i] {
			freeCols = append(freeCols, i)
		}
	}
	nFree := len(freeCols)

	var keptRows []int
	for r := 0; r < n-1; r++ {
		nonzero := false
		for _, c := range freeCols {
			if full.At(r, c) != 0 {
				nonzero = true
				break
			}
		}
		if nonzero {
			keptRows = append(keptRows, r)
		}
	}

	reduced := NewMatrix(len(keptRows), nFree)
	for ri, r := range keptRows {
		for ci, c := range freeCols {
			reduced.Set(ri, ci, full.At(r, c))
		}
	}

	// pmax is sized at rows*cols, the worst case for a single dense Givens
	// sweep over a len(keptRows) x nFree block (one rotation per (row, col)
	// pair visited before the no-op skip in SpecialQR.QR bounds it further
	// in practice): len(keptRows) alone is not enough capacity whenever
	// nFree > 1, since the sweep can visit more than one row per column.
	q := NewCOM(len(keptRows), 1, len(keptRows)*nFree)
	sqr := NewSpecialQR(o.delta)
	sqr.QR(reduced, q.Q(0), shift)

	return reduced, q
}

// Precompute eagerly builds and caches the QR factorization for every one
// of the 2^n possible active-set masks, so that subsequent QR calls made
// with the same shift are O(1) lookups. It is only valid for small n
// (n <= 20), per the combinatorial blow-up this cache implies; larger n
// returns DimensionMismatch instead of silently consuming exponential
// memory.
func (o *LeastSquareObjective) Precompute(shift int) error {
	if o.n > 20 {
		return DimensionMismatch("Precompute: n = %d exceeds the supported limit of 20", o.n)
	}
	total := 1 << o.n
	table := make([]precomputation, total)
	active := make([]bool, o.n)
	for mask := 0; mask < total; mask++ {
		for i := 0; i < o.n; i++ {
			active[i] = mask&(1<<i) != 0
		}
		r, q := o.qrComputation(active, shift)
		table[mask] = precomputation{r: r, q: q}
	}
	o.precomputations = table
	o.precomputeShift = shift
	o.precomputed = true
	return nil
}

// IsPrecomputed reports whether Precompute has been called successfully.
func (o *LeastSquareObjective) IsPrecomputed() bool { return o.precomputed }
