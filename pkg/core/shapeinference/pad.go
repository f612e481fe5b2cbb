// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package shapeinference calculates the shape resulting from operations and validates its inputs.
//
// It is used to plan the output buffer of an operation before any element is written, so every
// validation of the operation's parameters happens here.
package shapeinference

import (
	"fmt"

	"github.com/gomlx/tensorpad/pkg/core/dtypes"
	"github.com/gomlx/tensorpad/pkg/core/shapes"
	"github.com/pkg/errors"
)

// AxisPadding holds the number of elements added before (Lower) and after (Upper) one axis.
// Negative values remove elements (cropping) from that side.
type AxisPadding struct {
	Lower, Upper int
}

// Causes of errors returned by PadOp. Use errors.Is to check for them.
var (
	ErrInvalidPadding          = errors.New("invalid padding")
	ErrNegativeOutputDimension = errors.New("negative output dimension")
	ErrPadOnEmptyDimension     = errors.New("padding of an empty dimension")
)

// OpError is returned by shape inference functions. Its message is meant to be shown to the user as is,
// and Cause is one of the sentinel errors of this package.
type OpError struct {
	Cause error
	Msg   string
}

// Error implements the error interface, it returns only Msg.
func (e *OpError) Error() string { return e.Msg }

// Unwrap allows errors.Is and errors.As to reach the Cause.
func (e *OpError) Unwrap() error { return e.Cause }

func opErrorf(cause error, format string, args ...any) error {
	return errors.WithStack(&OpError{Cause: cause, Msg: fmt.Sprintf(format, args...)})
}

// PadOp returns the output shape of padding operand with the normalized paddings (one per axis).
//
// The output dimension of each axis is input + Lower + Upper, and it must not be negative.
//
// modeName is the padding mode ("constant", "edge" or "reflect"): only the "constant" mode can pad
// an axis of dimension 0, since the other modes read the border values of the axis.
func PadOp(operand shapes.Shape, paddings []AxisPadding, modeName string) (output shapes.Shape, err error) {
	opName := "PadOp"
	if operand.DType == dtypes.InvalidDType {
		return shapes.Invalid(), opErrorf(ErrInvalidPadding, "%s: invalid operand shape %s", opName, operand)
	}
	rank := operand.Rank()
	if len(paddings) != rank {
		return shapes.Invalid(), opErrorf(ErrInvalidPadding, "%s: len(paddings)=%d, but operand rank is %d",
			opName, len(paddings), rank)
	}
	switch modeName {
	case "constant", "edge", "reflect":
	default:
		return shapes.Invalid(), opErrorf(ErrInvalidPadding, "%s: unknown padding mode %q", opName, modeName)
	}

	output = shapes.Shape{
		DType:      operand.DType,
		Dimensions: make([]int, rank),
	}
	for axis, padding := range paddings {
		dim := operand.Dimensions[axis]
		if dim == 0 && modeName != "constant" && (padding.Lower != 0 || padding.Upper != 0) {
			return shapes.Invalid(), opErrorf(ErrPadOnEmptyDimension,
				"Cannot use '%s' mode to pad dimension with a value of 0. Input shape:%s",
				modeName, operand.DimsString())
		}
		outputDim := dim + padding.Lower + padding.Upper
		if outputDim < 0 {
			return shapes.Invalid(), opErrorf(ErrNegativeOutputDimension,
				"%s: padding (%d, %d) of axis %d with dimension %d results in a negative dimension %d (operand shape %s)",
				opName, padding.Lower, padding.Upper, axis, dim, outputDim, operand)
		}
		output.Dimensions[axis] = outputDim
	}
	return output, nil
}
