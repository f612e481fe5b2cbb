// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package pad

import (
	"github.com/gomlx/tensorpad/pkg/core/dtypes"
	"github.com/gomlx/tensorpad/pkg/core/shapes"
	"github.com/gomlx/tensorpad/pkg/core/tensors"
	"github.com/gomlx/tensorpad/pkg/support/xslices"
	"k8s.io/klog/v2"
)

// execPadGeneric implements the pad kernel for dtype T.
//
// The output is processed in rows along the last axis. For each row, the outer axes either select a
// row of the input or the fill value; the row itself is a contiguous copy of the input row plus the
// padded borders.
func execPadGeneric[T dtypes.Supported](plan *Plan, input, output *tensors.Tensor, fillAny any) error {
	fill, _ := fillAny.(T)
	return tensors.ConstFlatData(input, func(src []T) {
		tensors.MustMutableFlatData(output, func(dst []T) {
			rank := plan.outputShape.Rank()
			if rank == 0 {
				dst[0] = src[0]
				return
			}
			innerDim := plan.outputShape.Dimensions[rank-1]
			numRows := len(dst) / innerDim
			outerShape := shapes.Make(plan.outputShape.DType, plan.outputShape.Dimensions[:rank-1]...)

			numBlocks := plan.numBlocks(len(dst), numRows)
			if numBlocks <= 1 {
				padRowsGeneric(plan, src, dst, fill, outerShape, 0, numRows)
				return
			}
			rowsPerBlock := (numRows + numBlocks - 1) / numBlocks
			numBlocks = (numRows + rowsPerBlock - 1) / rowsPerBlock
			klog.V(2).Infof("pad: splitting %d rows of %s into %d blocks of %d rows",
				numRows, plan.outputShape, numBlocks, rowsPerBlock)
			plan.pool.ParallelFor(numBlocks, func(block int) {
				start := block * rowsPerBlock
				end := min(start+rowsPerBlock, numRows)
				padRowsGeneric(plan, src, dst, fill, outerShape, start, end)
			})
		})
	})
}

// padRowsGeneric writes the output rows [startRow, endRow). Each row spans the last axis.
func padRowsGeneric[T dtypes.Supported](plan *Plan, src, dst []T, fill T, outerShape shapes.Shape, startRow, endRow int) {
	rank := plan.outputShape.Rank()
	innerDim := plan.outputShape.Dimensions[rank-1]
	inputInnerDim := plan.inputShape.Dimensions[rank-1]
	indicesBuf := make([]int, rank-1)
	for row, indices := range outerShape.IterOnRange(indicesBuf, startRow, endRow) {
		dstRow := dst[row*innerDim : (row+1)*innerDim]
		srcOffset := 0
		isFill := false
		for axis, idx := range indices {
			srcIdx := plan.axisMaps[axis][idx]
			if srcIdx == Fill {
				isFill = true
				break
			}
			srcOffset += srcIdx * plan.inputStrides[axis]
		}
		if isFill {
			xslices.FillSlice(dstRow, fill)
			continue
		}
		padRowGeneric(plan, src[srcOffset:srcOffset+inputInnerDim], dstRow, fill)
	}
}

// padRowGeneric pads one row along the last axis.
func padRowGeneric[T dtypes.Supported](plan *Plan, srcRow, dstRow []T, fill T) {
	innerMap := plan.axisMaps[len(plan.axisMaps)-1]
	runStart, runEnd := plan.innerRunStart, plan.innerRunEnd
	lower := plan.paddings[len(plan.paddings)-1].Lower
	if runEnd > runStart {
		copy(dstRow[runStart:runEnd], srcRow[runStart-lower:runEnd-lower])
	}
	for k := range min(runStart, len(dstRow)) {
		dstRow[k] = mappedValue(srcRow, innerMap[k], fill)
	}
	for k := max(runStart, runEnd); k < len(dstRow); k++ {
		dstRow[k] = mappedValue(srcRow, innerMap[k], fill)
	}
}

func mappedValue[T dtypes.Supported](srcRow []T, srcIdx int, fill T) T {
	if srcIdx == Fill {
		return fill
	}
	return srcRow[srcIdx]
}
