// Copyright ©2025 go-numerics. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cps

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewLinearConstraintsRejectsBadBounds(t *testing.T) {
	_, err := NewLinearConstraints([]float64{1, 2}, []float64{0, 3}, -1, 1)
	require.Error(t, err)
	require.True(t, IsInfeasible(err))

	_, err = NewLinearConstraints([]float64{0, 0}, []float64{1, 1}, 5, 6)
	require.Error(t, err)
	require.True(t, IsInfeasible(err))
}

func TestCheckPrimal(t *testing.T) {
	lc, err := NewLinearConstraints([]float64{0, 0, 0}, []float64{1, 1, 1}, -1, 1)
	require.NoError(t, err)

	require.True(t, lc.CheckPrimal([]float64{0.2, 0.2, 0.2}, 1e-9))
	require.False(t, lc.CheckPrimal([]float64{-0.1, 0.2, 0.2}, 1e-9))
	require.False(t, lc.CheckPrimal([]float64{1, 1, 1}, 1e-9))
}

func TestActivateDeactivateAndCheckDual(t *testing.T) {
	lc, err := NewLinearConstraints([]float64{0, 0, 0}, []float64{1, 1, 1}, -1, 1)
	require.NoError(t, err)

	lambda := make([]float64, 4)
	require.True(t, lc.CheckDual(lambda, 1e-9))

	lc.Activate(0, AtLower)
	lambda[0] = -0.5
	require.True(t, lc.CheckDual(lambda, 1e-9))
	lambda[0] = 0.5
	require.False(t, lc.CheckDual(lambda, 1e-9))

	lc.Deactivate(0)
	require.False(t, lc.CheckDual(lambda, 1e-9))

	lc.Activate(1, AtUpper)
	lambda[0] = 0
	lambda[1] = 0.3
	require.True(t, lc.CheckDual(lambda, 1e-9))
}

func TestActiveBoxMaskAndWeightedActive(t *testing.T) {
	lc, err := NewLinearConstraints([]float64{0, 0, 0}, []float64{1, 1, 1}, -1, 1)
	require.NoError(t, err)
	lc.Activate(1, AtLower)
	mask := lc.ActiveBoxMask()
	require.Equal(t, []bool{false, true, false}, mask)
	require.False(t, lc.WeightedActive())
	lc.Activate(lc.N(), AtUpper)
	require.True(t, lc.WeightedActive())
}

func TestChangeBoundsValidates(t *testing.T) {
	lc, err := NewLinearConstraints([]float64{0, 0}, []float64{1, 1}, -1, 1)
	require.NoError(t, err)
	require.Error(t, lc.ChangeBounds(0, 2, 1))
	require.NoError(t, lc.ChangeBounds(0, 0.5, 0.9))
	lo, hi := lc.Bounds(0)
	require.Equal(t, 0.5, lo)
	require.Equal(t, 0.9, hi)
}

func TestMatrixShapeAndContent(t *testing.T) {
	lc, err := NewLinearConstraints([]float64{0, 0, 0}, []float64{1, 1, 1}, -1, 1)
	require.NoError(t, err)
	m := lc.Matrix()
	require.Equal(t, 4, m.Rows)
	require.Equal(t, 3, m.Cols)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1
			}
			require.Equal(t, want, m.At(i, j))
		}
		require.Equal(t, 1.0, m.At(3, i))
	}
}
