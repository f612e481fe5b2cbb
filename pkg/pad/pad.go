// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package pad implements the Pad operation on N-dimensional tensors.
//
// Pad grows (or, with negative pads, crops) each axis of a tensor: the output dimension of an axis is
// its input dimension plus the lower and upper pads of the axis. Output positions that fall inside the
// input copy the corresponding input element; positions outside it are filled according to the Mode:
//
//   - Constant: with a fill value (zero by default).
//   - Edge: repeating the border value.
//   - Reflect: mirroring the input around the border, without repeating the border value.
//
// Example:
//
//	x := tensors.FromFlatDataAndDimensions([]float32{1, 2, 3, 4, 5, 6}, 3, 2)
//	y, err := pad.Pad(x, pad.Spec{Pads: []int{0, 2, 0, 0}})
//	// y is [[0, 0, 1, 2], [0, 0, 3, 4], [0, 0, 5, 6]]
//
// The pads are given as a flat list, by default in the ONNX layout (all lower pads, then all upper pads),
// optionally for a subset of the axes. See NormalizePads for details.
//
// To pad many tensors of the same shape, Compile a Plan once and execute it for each tensor.
package pad

import (
	"github.com/gomlx/tensorpad/pkg/core/tensors"
)

// Spec describes a pad operation.
type Spec struct {
	// Pads is a flat list with the lower and upper pads for each axis in Axes, arranged according to Layout.
	// Negative values crop.
	Pads []int

	// Axes to pad. If nil, all axes in order. Negative values count from the end.
	Axes []int

	// Mode defaults to Constant.
	Mode Mode

	// FillValue used by the Constant mode. It can be any Go scalar: it is converted to the dtype
	// of the input. If nil, zero is used.
	FillValue any

	// Layout of Pads, defaults to LayoutBeginsThenEnds.
	Layout Layout
}

// Pad returns a new tensor with x padded according to spec. x is not modified.
//
// It is a shortcut to Compile(x.Shape(), spec, opts...) followed by Plan.Execute(x).
// See Compile for the errors returned.
func Pad(x *tensors.Tensor, spec Spec, opts ...Option) (*tensors.Tensor, error) {
	if err := x.CheckValid(); err != nil {
		return nil, Errorf(InvalidArgument, "invalid input tensor: %v", err)
	}
	plan, err := Compile(x.Shape(), spec, opts...)
	if err != nil {
		return nil, err
	}
	return plan.Execute(x)
}
