// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package shapes

import (
	"slices"
	"testing"

	"github.com/gomlx/tensorpad/pkg/core/dtypes"
	"github.com/stretchr/testify/require"
)

func TestShape_Strides(t *testing.T) {
	shape := Make(dtypes.F32, 2, 3, 4)
	require.Equal(t, []int{12, 4, 1}, shape.Strides())

	shape = Make(dtypes.F32, 5)
	require.Equal(t, []int{1}, shape.Strides())

	shape = Make(dtypes.F32, 3, 1, 2)
	require.Equal(t, []int{2, 2, 1}, shape.Strides())

	shape = Make(dtypes.F32, 3, 0, 2)
	require.Equal(t, []int{0, 0, 0}, shape.Strides())

	require.Nil(t, Make(dtypes.F32).Strides())
}

func TestShape_Iter(t *testing.T) {
	shape := Make(dtypes.F32, 1, 1, 1, 1)
	collect := make([][]int, 0, shape.Size())
	for flatIdx, indices := range shape.Iter() {
		collect = append(collect, slices.Clone(indices))
		require.Equal(t, 0, flatIdx)
	}
	require.Equal(t, [][]int{{0, 0, 0, 0}}, collect)

	shape = Make(dtypes.F64, 3, 2)
	collect = make([][]int, 0, shape.Size())
	var counter int
	for flatIdx, indices := range shape.Iter() {
		collect = append(collect, slices.Clone(indices))
		require.Equal(t, counter, flatIdx)
		counter++
	}
	want := [][]int{
		{0, 0},
		{0, 1},
		{1, 0},
		{1, 1},
		{2, 0},
		{2, 1},
	}
	require.Equal(t, want, collect)

	// Scalars yield exactly once, zero-size shapes never.
	counter = 0
	for range Make(dtypes.Bool).Iter() {
		counter++
	}
	require.Equal(t, 1, counter)
	for range Make(dtypes.Bool, 2, 0, 3).Iter() {
		t.Fatal("zero-size shape should not yield")
	}
}

func TestShape_IterOnRange(t *testing.T) {
	shape := Make(dtypes.F32, 2, 3, 4)
	var collect [][]int
	var flatIndices []int
	indices := make([]int, 3)
	for flatIdx, indicesResult := range shape.IterOnRange(indices, 10, 14) {
		collect = append(collect, slices.Clone(indicesResult))
		flatIndices = append(flatIndices, flatIdx)
	}
	require.Equal(t, [][]int{
		{0, 2, 2},
		{0, 2, 3},
		{1, 0, 0},
		{1, 0, 1},
	}, collect)
	require.Equal(t, []int{10, 11, 12, 13}, flatIndices)

	// Early break.
	count := 0
	for range shape.IterOnRange(indices, 0, shape.Size()) {
		count++
		if count == 5 {
			break
		}
	}
	require.Equal(t, 5, count)

	require.Panics(t, func() { _ = shape.IterOnRange(indices, 3, 25) })
	require.Panics(t, func() { _ = shape.IterOnRange(make([]int, 2), 0, 1) })
}

func TestShape_UnflattenIndex(t *testing.T) {
	shape := Make(dtypes.Int8, 2, 3, 4)
	indices := make([]int, 3)
	strides := shape.Strides()
	for flatIdx := range shape.Size() {
		shape.UnflattenIndex(flatIdx, indices)
		got := 0
		for axis, idx := range indices {
			got += idx * strides[axis]
		}
		require.Equal(t, flatIdx, got)
	}
	require.Panics(t, func() { shape.UnflattenIndex(24, indices) })
}
