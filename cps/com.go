// Copyright ©2025 go-numerics. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cps

// CondensedOrthogonalMatrix represents an orthogonal matrix as a product
// Q = Q_1 Q_2 ... Q_k . P^(T) . Qh, the same factored form as
// original_source/c++/include/CondensedOrthogonalMatrix.h: k preallocated
// GivensSequence "legs", a trailing permutation (stored as a transposition
// list with a ptranspose flag choosing P or its transpose), and a final
// GivensSequence Qh applied last.
//
// The type only stores and applies rotations; it never decides in what
// order a caller's algorithm should build them, matching the invariant
// that CondensedOrthogonalMatrix is a passive container.
type CondensedOrthogonalMatrix struct {
	n, kmax, pmax int

	sequences []*GivensSequence
	qh        *GivensSequence

	// transpositions[i] pairs row/col i with transpositions[i] for the
	// permutation P; entries equal to their own index are untouched.
	transpositions []int
	ptranspose     bool
}

// NewCOM preallocates a CondensedOrthogonalMatrix for an n x n orthogonal
// factor with up to kmax sequences of up to pmax rotations each (plus Qh,
// also capacity pmax).
func NewCOM(n, kmax, pmax int) *CondensedOrthogonalMatrix {
	seqs := make([]*GivensSequence, kmax)
	for i := range seqs {
		seqs[i] = NewGivensSequence(pmax)
	}
	c := &CondensedOrthogonalMatrix{
		n:              n,
		kmax:           kmax,
		pmax:           pmax,
		sequences:      seqs,
		qh:             NewGivensSequence(pmax),
		transpositions: make([]int, n),
	}
	c.Reset(false)
	return c
}

// Reset clears every sequence, resets the permutation to identity, and sets
// the ptranspose flag, so the same allocation can be reused across QR calls.
func (c *CondensedOrthogonalMatrix) Reset(ptranspose bool) {
	for _, s := range c.sequences {
		s.Clear()
	}
	c.qh.Clear()
	for i := range c.transpositions {
		c.transpositions[i] = i
	}
	c.ptranspose = ptranspose
}

// K returns the number of sequence legs.
func (c *CondensedOrthogonalMatrix) K() int { return c.kmax }

// Q returns the i-th sequence leg (0-indexed), for callers assembling the
// factorization leg by leg.
func (c *CondensedOrthogonalMatrix) Q(i int) *GivensSequence { return c.sequences[i] }

// Qh returns the trailing sequence applied after the permutation.
func (c *CondensedOrthogonalMatrix) Qh() *GivensSequence { return c.qh }

// SetTranspose sets transpositions[i] = j, recording that row/col i and j
// are swapped by P.
func (c *CondensedOrthogonalMatrix) SetTranspose(i, j int) {
	c.transpositions[i] = j
}

// SetPTranspose sets whether ApplyLeft/ApplyRight apply P or P^T.
func (c *CondensedOrthogonalMatrix) SetPTranspose(b bool) { c.ptranspose = b }

func (c *CondensedOrthogonalMatrix) applyPermLeft(m Matrix, asTranspose bool) {
	if !asTranspose {
		for i := 0; i < c.n; i++ {
			if j := c.transpositions[i]; j != i {
				swapRows(m, i, j)
			}
		}
		return
	}
	for i := c.n - 1; i >= 0; i-- {
		if j := c.transpositions[i]; j != i {
			swapRows(m, i, j)
		}
	}
}

func (c *CondensedOrthogonalMatrix) applyPermRight(m Matrix, asTranspose bool) {
	if !asTranspose {
		for i := 0; i < c.n; i++ {
			if j := c.transpositions[i]; j != i {
				swapCols(m, i, j)
			}
		}
		return
	}
	for i := c.n - 1; i >= 0; i-- {
		if j := c.transpositions[i]; j != i {
			swapCols(m, i, j)
		}
	}
}

// ApplyLeft applies Q to m on the left: forward loop over the sequence legs,
// then the permutation (P if ptranspose, P^T otherwise), then Qh last.
// This mirrors CondensedOrthogonalMatrix::applyTo exactly.
func (c *CondensedOrthogonalMatrix) ApplyLeft(m Matrix) {
	for _, s := range c.sequences {
		s.ApplyLeft(m)
	}
	c.applyPermLeft(m, !c.ptranspose)
	c.qh.ApplyLeft(m)
}

// ApplyRight applies Q to m on the right, mirroring applyOnTheRightTo: the
// sense of the ptranspose flag is inverted relative to ApplyLeft because
// right-multiplication by P is the transpose-conjugate of left-multiplication
// by P^T.
func (c *CondensedOrthogonalMatrix) ApplyRight(m Matrix) {
	for _, s := range c.sequences {
		s.ApplyRight(m)
	}
	c.applyPermRight(m, c.ptranspose)
	c.qh.ApplyRight(m)
}
