// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package tensors

import (
	"sync"
	"testing"

	"github.com/gomlx/tensorpad/pkg/core/dtypes"
	"github.com/gomlx/tensorpad/pkg/core/dtypes/bfloat16"
	"github.com/gomlx/tensorpad/pkg/core/shapes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/x448/float16"
)

func TestFromShape(t *testing.T) {
	tensor := FromShape(shapes.Make(dtypes.Float32, 2, 3))
	require.True(t, tensor.Ok())
	require.Equal(t, 6, tensor.Size())
	require.Equal(t, dtypes.Float32, tensor.DType())
	require.Equal(t, make([]float32, 6), MustCopyFlatData[float32](tensor))
	require.Equal(t, uintptr(24), tensor.Memory())

	zero := FromShape(shapes.Make(dtypes.Int64, 2, 0))
	require.True(t, zero.Ok())
	require.Equal(t, 0, zero.Size())
	require.Len(t, MustCopyFlatData[int64](zero), 0)
	require.NoError(t, zero.ConstBytes(func(data []byte) {
		require.Len(t, data, 0)
	}))

	require.Panics(t, func() { _ = FromShape(shapes.Invalid()) })
}

func TestFromFlatDataAndDimensions(t *testing.T) {
	tensor := FromFlatDataAndDimensions([]int32{1, 2, 3, 4, 5, 6}, 2, 3)
	require.Equal(t, [][]int32{{1, 2, 3}, {4, 5, 6}}, tensor.Value())
	require.Equal(t, []int{3, 1}, tensor.LayoutStrides())

	ints := FromFlatDataAndDimensions([]int{1, 2}, 2)
	require.Equal(t, dtypes.FromGenericsType[int](), ints.DType())

	require.Panics(t, func() { _ = FromFlatDataAndDimensions([]int8{1, 2, 3}, 2, 2) })

	scalar := FromScalar(float16.Fromfloat32(3))
	require.True(t, scalar.IsScalar())
	require.Equal(t, float32(3), ToScalar[float16.Float16](scalar).Float32())

	filled := FromScalarAndDimensions(bfloat16.FromFloat32(2), 3)
	require.Equal(t, []bfloat16.BFloat16{bfloat16.FromFloat32(2), bfloat16.FromFloat32(2), bfloat16.FromFloat32(2)},
		MustCopyFlatData[bfloat16.BFloat16](filled))
}

func TestFromFlatData(t *testing.T) {
	tensor, err := FromFlatData(shapes.Make(dtypes.Uint16, 2), []uint16{7, 9})
	require.NoError(t, err)
	require.Equal(t, []uint16{7, 9}, tensor.Value())

	_, err = FromFlatData(shapes.Make(dtypes.Uint16, 3), []uint16{7, 9})
	require.Error(t, err)
	_, err = FromFlatData(shapes.Make(dtypes.Uint16, 2), []int16{7, 9})
	require.Error(t, err)
}

func TestAccessors(t *testing.T) {
	tensor := FromFlatDataAndDimensions([]float64{1, 2, 3}, 3)
	err := ConstFlatData(tensor, func(flat []float32) {})
	require.Error(t, err, "dtype mismatch should fail")

	require.NoError(t, MutableFlatData(tensor, func(flat []float64) { flat[1] = 20 }))
	require.Equal(t, []float64{1, 20, 3}, MustCopyFlatData[float64](tensor))

	require.NoError(t, tensor.MutableBytes(func(data []byte) {
		require.Len(t, data, 24)
	}))

	clone, err := tensor.Clone()
	require.NoError(t, err)
	require.True(t, clone.Equal(tensor))
	MustMutableFlatData(clone, func(flat []float64) { flat[0] = -1 })
	require.False(t, clone.Equal(tensor))
	require.False(t, tensor.Equal(FromFlatDataAndDimensions([]float64{1, 20, 3}, 1, 3)))

	tensor.FinalizeAll()
	require.False(t, tensor.Ok())
	require.Error(t, tensor.ConstFlatData(func(flat any) {}))
	require.Panics(t, func() { _ = tensor.Value() })
}

func TestConcurrentReads(t *testing.T) {
	tensor := FromScalarAndDimensions(int16(3), 100)
	var wg sync.WaitGroup
	sums := make([]int, 8)
	for ii := range sums {
		wg.Add(1)
		go func() {
			defer wg.Done()
			MustConstFlatData(tensor, func(flat []int16) {
				for _, v := range flat {
					sums[ii] += int(v)
				}
			})
		}()
	}
	wg.Wait()
	for _, sum := range sums {
		assert.Equal(t, 300, sum)
	}
}

func TestString(t *testing.T) {
	assert.Equal(t, "[2][2]int32{{1, 2},\n {3, 4}}",
		FromFlatDataAndDimensions([]int32{1, 2, 3, 4}, 2, 2).String())
	assert.Equal(t, "[3]bool{true, false, true}",
		FromFlatDataAndDimensions([]bool{true, false, true}, 3).String())
	assert.Equal(t, "float32(1.5)", FromScalar(float32(1.5)).String())
	assert.Equal(t, "[10]uint8{0, 1, 2, ..., 7, 8, 9}",
		FromFlatDataAndDimensions([]uint8{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, 10).String())
	assert.Equal(t, "(Int8)[0 3]", FromShape(shapes.Make(dtypes.Int8, 0, 3)).String())
}
