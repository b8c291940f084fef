// Copyright ©2025 go-numerics. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cps

// GivensSequence is an append-only, preallocated, fixed-capacity list of
// Givens rotations, mirroring original_source/c++/include/GivensSequence.h
// (there a std::vector<Givens> subclass; here a slice with a high-water
// mark so that repeated QR sweeps reuse one allocation instead of growing
// a new vector every call).
type GivensSequence struct {
	rot []Givens
	n   int
}

// NewGivensSequence preallocates room for up to capacity rotations.
func NewGivensSequence(capacity int) *GivensSequence {
	return &GivensSequence{rot: make([]Givens, capacity)}
}

// Len returns the number of rotations currently stored.
func (s *GivensSequence) Len() int { return s.n }

// Cap returns the preallocated capacity.
func (s *GivensSequence) Cap() int { return len(s.rot) }

// Clear resets the sequence to empty without releasing its backing array.
func (s *GivensSequence) Clear() { s.n = 0 }

// Append adds a rotation to the end of the sequence. It panics if the
// sequence is already at capacity, the same bound-check convention used
// throughout this package for misuse of preallocated scratch.
func (s *GivensSequence) Append(g Givens) {
	if s.n >= len(s.rot) {
		panic("bound check error")
	}
	s.rot[s.n] = g
	s.n++
}

// At returns the i-th stored rotation.
func (s *GivensSequence) At(i int) Givens {
	if i < 0 || i >= s.n {
		panic("bound check error")
	}
	return s.rot[i]
}

// ApplyLeft applies every stored rotation to m in the order they were
// appended (a plain forward loop; each rotation already carries the
// zeroing convention it was built with, so no order reversal is needed).
func (s *GivensSequence) ApplyLeft(m Matrix) {
	for i := 0; i < s.n; i++ {
		s.rot[i].ApplyLeft(m)
	}
}

// ApplyRight applies every stored rotation to m on the right, in forward
// order, mirroring ApplyLeft.
func (s *GivensSequence) ApplyRight(m Matrix) {
	for i := 0; i < s.n; i++ {
		s.rot[i].ApplyRight(m)
	}
}

// Extend shifts every stored rotation's index pair by delta.
func (s *GivensSequence) Extend(delta int) {
	for i := 0; i < s.n; i++ {
		s.rot[i].Extend(delta)
	}
}
