// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package shapes

import (
	"testing"

	"github.com/gomlx/tensorpad/pkg/core/dtypes"
	"github.com/stretchr/testify/require"
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
	require.Equal(t, "(Float64)", shape0.String())

	shape1 := Make(dtypes.Float32, 4, 3, 2)
	require.True(t, shape1.Ok())
	require.False(t, shape1.IsScalar())
	require.Equal(t, 3, shape1.Rank())
	require.Equal(t, 4*3*2, shape1.Size())
	require.Equal(t, 4*4*3*2, int(shape1.Memory()))
	require.False(t, shape1.IsZeroSize())
	require.Equal(t, "(Float32)[4 3 2]", shape1.String())
	require.Equal(t, "{4,3,2}", shape1.DimsString())

	shape2 := Make(dtypes.Int64, 2, 0)
	require.True(t, shape2.IsZeroSize())
	require.Equal(t, 0, shape2.Size())
	require.Equal(t, "{2,0}", shape2.DimsString())

	require.Panics(t, func() { _ = Make(dtypes.Int64, 2, -1) })
	require.Equal(t, Scalar[float32](), Make(dtypes.Float32))
}

func TestDim(t *testing.T) {
	shape := Make(dtypes.Float32, 4, 3, 2)
	require.Equal(t, 4, shape.Dim(0))
	require.Equal(t, 3, shape.Dim(1))
	require.Equal(t, 2, shape.Dim(2))
	require.Equal(t, 4, shape.Dim(-3))
	require.Equal(t, 3, shape.Dim(-2))
	require.Equal(t, 2, shape.Dim(-1))
	require.Panics(t, func() { _ = shape.Dim(3) })
	require.Panics(t, func() { _ = shape.Dim(-4) })
}

func TestEqualAndClone(t *testing.T) {
	s := Make(dtypes.Uint8, 3, 0, 1)
	c := s.Clone()
	require.True(t, s.Equal(c))
	c.Dimensions[0] = 7
	require.Equal(t, 3, s.Dimensions[0])
	require.False(t, s.Equal(c))
	require.True(t, s.EqualDimensions(Make(dtypes.Float32, 3, 0, 1)))
	require.False(t, s.Equal(Make(dtypes.Float32, 3, 0, 1)))

	require.NotPanics(t, func() { s.Assert(dtypes.Uint8, 3, -1, 1) })
	require.Panics(t, func() { s.Assert(dtypes.Uint8, 3, 1, 1) })
	require.Panics(t, func() { s.Assert(dtypes.Int8, 3, 0, 1) })
}
