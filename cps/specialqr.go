// Copyright ©2025 go-numerics. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cps

import "math"

// StartType classifies how the first row(s) of a structured block built by
// BuildJj should look, per the boundary-row table carried from
// original_source/c++/include/cps/QuadraticObjective.h's buildJj doc
// comment.
type StartType int

const (
	// StartFirstCol means the block begins at the true first column: the
	// usual two-term boundary row (-(e0+e1), e1) with no extra row.
	StartFirstCol StartType = -2
	// StartGeneric means the block begins strictly inside the column
	// range, preceded by a column that was eliminated from the unknown
	// set: an extra single-term row (e0 alone) is prepended ahead of the
	// usual two-term row.
	StartGeneric StartType = -1
	// StartSingleton is the degenerate single-column boundary row
	// (-e0, e0), used for rank-1 blocks.
	StartSingleton StartType = -3
)

// EndType classifies the last row(s) of a structured block.
type EndType int

const (
	// EndLastCol means the block ends at the true last column: no row is
	// appended beyond the natural interior pattern.
	EndLastCol EndType = -4
	// EndGeneric means the block ends strictly inside the column range:
	// no row is appended either, the natural pattern already reaches the
	// last column (mirrors StartGeneric's compensating row at the other
	// end of the block).
	EndGeneric EndType = -2
	// EndAppend appends one extra single-term row (e_last alone) after
	// the natural pattern.
	EndAppend EndType = -1
	// EndAppendSingleton is the singleton-block counterpart of
	// EndAppend.
	EndAppendSingleton EndType = -3
)

func startRows(t StartType) int {
	if t == StartGeneric {
		return 2
	}
	return 1
}

func endRows(t EndType) int {
	if t == EndAppend || t == EndAppendSingleton {
		return 1
	}
	return 0
}

// RowsForJj returns the row count BuildJj will produce for a segment of m
// consecutive d-values with the given boundary types. m must be >= 2.
func RowsForJj(m int, start StartType, end EndType) int {
	return startRows(start) + (m - 2) + endRows(end)
}

// BuildJj materializes, into a freshly allocated Matrix, the structured
// block spanned by e = d[dStart:dEnd+1] (m = dEnd-dStart+1 columns), with
// boundary rows per start/end. BuildJj requires m >= 2 and panics on a
// single-column segment.
func BuildJj(d []float64, dStart, dEnd int, start StartType, end EndType) Matrix {
	e := d[dStart : dEnd+1]
	m := len(e)
	if m < 2 {
		panic("bound check error")
	}
	rows := RowsForJj(m, start, end)
	jj := NewMatrix(rows, m)

	r := 0
	switch start {
	case StartGeneric:
		jj.Set(r, 0, e[0])
		r++
		jj.Set(r, 0, -(e[0] + e[1]))
		jj.Set(r, 1, e[1])
		r++
	case StartFirstCol:
		jj.Set(r, 0, -(e[0] + e[1]))
		jj.Set(r, 1, e[1])
		r++
	case StartSingleton:
		jj.Set(r, 0, -e[0])
		jj.Set(r, 1, e[0])
		r++
	}

	for idx := 1; idx <= m-2; idx++ {
		jj.Set(r, idx-1, e[idx-1])
		jj.Set(r, idx, -(e[idx-1] + e[idx]))
		jj.Set(r, idx+1, e[idx])
		r++
	}

	switch end {
	case EndAppend, EndAppendSingleton:
		jj.Set(r, m-1, e[m-1])
		r++
	case EndLastCol, EndGeneric:
		// nothing appended: the natural pattern already reaches column m-1.
	}

	return jj
}

// SpecialQR computes the QR factorization of a structured block built by
// BuildJj: because the block has at most two nonzero entries below any
// pivot, a column only ever needs a handful of rotations against its own
// band regardless of how many rows sit below it elsewhere in the block.
type SpecialQR struct {
	// EpsZero is the threshold below which a subdiagonal entry is treated
	// as already zero: no rotation is applied and nothing is appended to
	// q, so q's length tracks the number of rotations that actually moved
	// a nonzero entry rather than the number of (row, col) pairs visited.
	EpsZero float64
}

// NewSpecialQR builds a SpecialQR with ε_zero = 1e-15 * ‖delta‖∞, the
// identity-rotation threshold used throughout this package's QR sweeps.
func NewSpecialQR(delta []float64) SpecialQR {
	maxAbs := 0.0
	for _, v := range delta {
		if a := math.Abs(v); a > maxAbs {
			maxAbs = a
		}
	}
	return SpecialQR{EpsZero: 1e-15 * maxAbs}
}

// QR factorizes jj in place (jj becomes R, upper triangular in its leading
// min(rows,cols) block) and appends the rotations that actually zeroed a
// nonzero entry to q, each offset by shift so they index correctly into
// whatever larger matrix this block is embedded in. A (row-1, row) pair
// that is already zero to within EpsZero is left untouched and nothing is
// appended: applying the identity rotation would be a no-op anyway, and
// skipping the append keeps q's length tracking the genuinely banded
// rotation count instead of the O(rows*cols) pairs the sweep visits.
func (s SpecialQR) QR(jj Matrix, q *GivensSequence, shift int) {
	rows, cols := jj.Rows, jj.Cols
	lim := rows
	if cols < lim {
		lim = cols
	}
	for col := 0; col < lim; col++ {
		for row := rows - 1; row > col; row-- {
			a, b := jj.At(row-1, col), jj.At(row, col)
			if math.Abs(a) < s.EpsZero && math.Abs(b) < s.EpsZero {
				continue
			}
			g, r := MakeGivens(row-1, row, a, b)
			g.ApplyLeft(jj)
			jj.Set(row-1, col, r)
			jj.Set(row, col, 0)
			g.Extend(shift)
			q.Append(g)
		}
	}
}

// QRJj builds the structured block for [dStart,dEnd] and factorizes it,
// appending its rotations to q with every index shifted by shift (the
// global row offset at which this block is embedded), and returns R as a
// freshly allocated RowsForJj x m matrix.
func (s SpecialQR) QRJj(d []float64, dStart, dEnd int, start StartType, end EndType, q *GivensSequence, shift int) Matrix {
	jj := BuildJj(d, dStart, dEnd, start, end)
	s.QR(jj, q, shift)
	return jj
}
