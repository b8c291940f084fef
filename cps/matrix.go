// Copyright ©2025 go-numerics. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cps

import "gonum.org/v1/gonum/mat"

// Matrix is a column-major dense view over a caller-owned flat slice, in the
// classic BLAS storage convention (a[i+ld*j]). It exists so that the
// hot-path kernels (Givens, GivensSequence,
// CondensedOrthogonalMatrix) can mutate a caller-supplied sub-view without
// allocating: Data is never owned by Matrix itself.
type Matrix struct {
	Data       []float64
	Rows, Cols int
	LD         int // leading dimension: stride between columns
}

// NewMatrix allocates a fresh, zeroed Rows x Cols matrix with LD = Rows.
func NewMatrix(rows, cols int) Matrix {
	return Matrix{Data: make([]float64, rows*cols), Rows: rows, Cols: cols, LD: rows}
}

// ViewMatrix wraps an existing flat slice as a Rows x Cols matrix with the
// given leading dimension, without copying.
func ViewMatrix(data []float64, rows, cols, ld int) Matrix {
	return Matrix{Data: data, Rows: rows, Cols: cols, LD: ld}
}

// At returns the (i,j) element.
func (m Matrix) At(i, j int) float64 {
	return m.Data[i+m.LD*j]
}

// Set assigns the (i,j) element.
func (m Matrix) Set(i, j int, v float64) {
	m.Data[i+m.LD*j] = v
}

// Col returns the j-th column as a contiguous slice.
func (m Matrix) Col(j int) []float64 {
	return m.Data[j*m.LD : j*m.LD+m.Rows]
}

// Sub returns the sub-view [r0:r0+rows, c0:c0+cols), sharing storage.
func (m Matrix) Sub(r0, c0, rows, cols int) Matrix {
	return Matrix{Data: m.Data[r0+c0*m.LD:], Rows: rows, Cols: cols, LD: m.LD}
}

// Zero fills the matrix with zeros.
func (m Matrix) Zero() {
	for j := 0; j < m.Cols; j++ {
		col := m.Col(j)
		for i := range col {
			col[i] = 0
		}
	}
}

// swapRows exchanges rows i and j across all columns, in place.
func swapRows(m Matrix, i, j int) {
	if i == j {
		return
	}
	for c := 0; c < m.Cols; c++ {
		ii, jj := i+c*m.LD, j+c*m.LD
		m.Data[ii], m.Data[jj] = m.Data[jj], m.Data[ii]
	}
}

// swapCols exchanges columns i and j across all rows, in place.
func swapCols(m Matrix, i, j int) {
	if i == j {
		return
	}
	ci, cj := m.Col(i), m.Col(j)
	for r := 0; r < m.Rows; r++ {
		ci[r], cj[r] = cj[r], ci[r]
	}
}

// Dense materializes an independent copy as a *mat.Dense, for use in tests
// and debug paths only: it allocates and is never called on the hot path.
func (m Matrix) Dense() *mat.Dense {
	data := make([]float64, m.Rows*m.Cols)
	for i := 0; i < m.Rows; i++ {
		for j := 0; j < m.Cols; j++ {
			data[i*m.Cols+j] = m.At(i, j)
		}
	}
	return mat.NewDense(m.Rows, m.Cols, data)
}
