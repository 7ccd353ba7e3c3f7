// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package shapes

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/texpr/texpr/pkg/core/dtypes"
)

func TestShape(t *testing.T) {
	invalidShape := Invalid()
	require.False(t, invalidShape.Ok())

	shape0 := Make(dtypes.Float64)
	require.True(t, shape0.Ok())
	require.True(t, shape0.IsScalar())
	require.Equal(t, 0, shape0.Rank())
	require.Len(t, shape0.Dimensions, 0)
	require.Equal(t, 1, shape0.Size())
	require.Equal(t, 8, int(shape0.Memory()))

	shape1 := Make(dtypes.Float32, 4, 3, 2)
	require.True(t, shape1.Ok())
	require.False(t, shape1.IsScalar())
	require.Equal(t, 3, shape1.Rank())
	require.Equal(t, 4*3*2, shape1.Size())
	require.Equal(t, 4*4*3*2, int(shape1.Memory()))
	require.Equal(t, "(Float32)[4 3 2]", shape1.String())

	require.Panics(t, func() { _ = Make(dtypes.Float32, 2, -1) })
}

func TestDim(t *testing.T) {
	shape := Make(dtypes.Float32, 4, 3, 2)
	require.Equal(t, 4, shape.Dim(0))
	require.Equal(t, 3, shape.Dim(1))
	require.Equal(t, 2, shape.Dim(2))
	require.Equal(t, 4, shape.Dim(-3))
	require.Equal(t, 2, shape.Dim(-1))
	require.Panics(t, func() { _ = shape.Dim(3) })
	require.Panics(t, func() { _ = shape.Dim(-4) })
}

func TestEqualAndClone(t *testing.T) {
	s := Make(dtypes.Float32, 1, 2, 3, 4)
	c := s.Clone()
	require.True(t, s.Equal(c))
	c.Dimensions[0] = 7
	require.Equal(t, 1, s.Dimensions[0])
	require.False(t, s.Equal(c))
	require.True(t, s.EqualDimensions(Make(dtypes.Float64, 1, 2, 3, 4)))
	require.False(t, s.Equal(Make(dtypes.Float64, 1, 2, 3, 4)))
}

func TestChecks(t *testing.T) {
	s := Make(dtypes.Float32, 2, 3)
	require.NoError(t, s.CheckRank(2))
	require.Error(t, s.CheckRank(4))
	require.NoError(t, s.CheckDims(2, -1))
	require.Error(t, s.CheckDims(2, 4))
	require.ErrorContains(t, s.CheckDims(2), "incompatible rank 2")
	require.ErrorContains(t, s.CheckDims(-1, 4), "axis 1 has dimension 3, wanted 4")
}
