// Copyright ©2025 go-numerics. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cps

import "testing"

func TestGivensSequenceAppendClear(t *testing.T) {
	s := NewGivensSequence(4)
	if s.Len() != 0 || s.Cap() != 4 {
		t.Fatalf("new sequence: len=%d cap=%d, want 0/4", s.Len(), s.Cap())
	}
	s.Append(Givens{I: 0, J: 1, C: 1, S: 0})
	s.Append(Givens{I: 1, J: 2, C: 1, S: 0})
	if s.Len() != 2 {
		t.Fatalf("after two appends: len=%d, want 2", s.Len())
	}
	s.Clear()
	if s.Len() != 0 {
		t.Fatalf("after Clear: len=%d, want 0", s.Len())
	}
	// backing array must still be usable after Clear without reallocating.
	s.Append(Givens{I: 0, J: 3, C: 1, S: 0})
	if s.Len() != 1 || s.At(0).J != 3 {
		t.Fatalf("reuse after Clear failed: %+v", s.At(0))
	}
}

func TestGivensSequenceAppendPastCapacityPanics(t *testing.T) {
	s := NewGivensSequence(1)
	s.Append(Givens{I: 0, J: 1, C: 1, S: 0})
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on append past capacity")
		}
	}()
	s.Append(Givens{I: 0, J: 1, C: 1, S: 0})
}

func TestGivensSequenceApplyLeftComposesInOrder(t *testing.T) {
	s := NewGivensSequence(2)
	g1, _ := MakeGivens(0, 1, 3, 4)
	g2, _ := MakeGivens(1, 2, 5, -6)
	s.Append(g1)
	s.Append(g2)

	m := identityMatrix(3)
	s.ApplyLeft(m)

	expect := identityMatrix(3)
	g1.ApplyLeft(expect)
	g2.ApplyLeft(expect)

	if d := frobeniusDiff(m, expect); d > 1e-12 {
		t.Fatalf("ApplyLeft did not compose rotations in append order, diff=%v", d)
	}
}

func TestGivensSequenceExtend(t *testing.T) {
	s := NewGivensSequence(2)
	s.Append(Givens{I: 0, J: 1, C: 1, S: 0})
	s.Append(Givens{I: 1, J: 2, C: 1, S: 0})
	s.Extend(10)
	if s.At(0).I != 10 || s.At(0).J != 11 || s.At(1).I != 11 || s.At(1).J != 12 {
		t.Fatalf("Extend did not shift every rotation: %+v %+v", s.At(0), s.At(1))
	}
}
