// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package shapes

import (
	"iter"

	"github.com/pkg/errors"
)

// Strides returns the strides for each axis of the shape, assuming a "row-major" layout
// in memory, the one used everywhere in GoMLX.
//
// Notice the strides are **not in bytes**, but in indices. Zero-size shapes get all strides 0.
func (s Shape) Strides() (strides []int) {
	rank := s.Rank()
	if rank == 0 {
		return
	}
	strides = make([]int, rank)
	if s.IsZeroSize() {
		return
	}
	currentStride := 1
	for axis := rank - 1; axis >= 0; axis-- {
		strides[axis] = currentStride
		currentStride *= s.Dimensions[axis]
	}
	return
}

// UnflattenIndex writes into indices the per-axis coordinates of the element at the flat (row-major)
// position flatIdx.
//
// It expects len(indices) == s.Rank() and 0 <= flatIdx < s.Size(). It will panic otherwise.
func (s Shape) UnflattenIndex(flatIdx int, indices []int) {
	if len(indices) != s.Rank() {
		panic(errors.Errorf("Shape.UnflattenIndex given len(indices) == %d, want it to be equal to the rank %d", len(indices), s.Rank()))
	}
	if flatIdx < 0 || flatIdx >= s.Size() {
		panic(errors.Errorf("Shape.UnflattenIndex(%d) out-of-bounds for shape %s", flatIdx, s))
	}
	for axis := s.Rank() - 1; axis >= 0; axis-- {
		dim := s.Dimensions[axis]
		indices[axis] = flatIdx % dim
		flatIdx /= dim
	}
}

// Iter iterates sequentially over all possible indices of the given shape.
//
// It yields the flat index (counter) and a slice of indices for each axis.
//
// To avoid allocating the slice of indices, the yielded indices is owned by the Iter() method:
// don't change it inside the loop.
func (s Shape) Iter() iter.Seq2[int, []int] {
	indices := make([]int, s.Rank())
	return s.IterOn(indices)
}

// IterOn iterates over all possible indices of the given shape, updating the given indices slice.
//
// During the iteration the caller shouldn't modify the slice of indices, otherwise it will lead to undefined behavior.
//
// It expects len(indices) == s.Rank(). It will panic otherwise.
func (s Shape) IterOn(indices []int) iter.Seq2[int, []int] {
	return s.IterOnRange(indices, 0, s.Size())
}

// IterOnRange iterates over the indices of the elements whose flat (row-major) positions are in
// the range [start, end). It yields the flat index and the indices for each axis.
//
// This is used to split the iteration over a shape into independent blocks that can run in parallel.
//
// It expects len(indices) == s.Rank() and 0 <= start <= end <= s.Size(). It will panic otherwise.
func (s Shape) IterOnRange(indices []int, start, end int) iter.Seq2[int, []int] {
	rank := s.Rank()
	if len(indices) != rank {
		panic(errors.Errorf("Shape.IterOnRange given len(indices) == %d, want it to be equal to the rank %d", len(indices), rank))
	}
	if start < 0 || start > end || end > s.Size() {
		panic(errors.Errorf("Shape.IterOnRange given invalid range [%d, %d) for shape %s", start, end, s))
	}
	return func(yield func(int, []int) bool) {
		if !s.Ok() || start == end {
			return
		}
		if rank == 0 {
			// Valid scalar: yield one empty index slice.
			_ = yield(0, indices)
			return
		}
		s.UnflattenIndex(start, indices)
		for flatIdx := start; flatIdx < end; flatIdx++ {
			if !yield(flatIdx, indices) {
				return
			}
			// Increment indices to the next set of coordinates
			// (row-major order: the last index changes fastest).
			for axis := rank - 1; axis >= 0; axis-- {
				indices[axis]++
				if indices[axis] < s.Dimensions[axis] {
					break
				}
				indices[axis] = 0
			}
		}
	}
}
