// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"strconv"
	"strings"

	"github.com/gomlx/tensorpad/pkg/core/dtypes"
	"github.com/gomlx/tensorpad/pkg/core/dtypes/bfloat16"
	"github.com/gomlx/tensorpad/pkg/core/shapes"
	"github.com/gomlx/tensorpad/pkg/core/tensors"
	"github.com/gomlx/tensorpad/pkg/support/xslices"
	"github.com/pkg/errors"
	"github.com/x448/float16"
)

// parseScalar parses a bool, an integer or a float, in this order of preference.
func parseScalar(value string) (any, error) {
	value = strings.TrimSpace(value)
	if b, err := strconv.ParseBool(value); err == nil && strings.ContainsAny(value, "tTfF") {
		return b, nil
	}
	if i, err := strconv.ParseInt(value, 0, 64); err == nil {
		return i, nil
	}
	if u, err := strconv.ParseUint(value, 0, 64); err == nil {
		return u, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, errors.Errorf("invalid scalar value %q", value)
	}
	return f, nil
}

// tensorFromFlags creates a tensor from comma-separated values, dimensions and dtype name.
// If dimensions is nil, the tensor is 1D with all the values.
func tensorFromFlags(values string, dimensions []int, dtypeName string) (*tensors.Tensor, error) {
	dtype, err := dtypes.FromName(dtypeName)
	if err != nil {
		return nil, err
	}
	scalars, err := xslices.ParseList(values, parseScalar)
	if err != nil {
		return nil, errors.WithMessage(err, "parsing values")
	}
	if dimensions == nil {
		dimensions = []int{len(scalars)}
	}
	for axis, dim := range dimensions {
		if dim < 0 {
			return nil, errors.Errorf("dimension %d of axis %d is negative", dim, axis)
		}
	}
	shape := shapes.Make(dtype, dimensions...)
	if shape.Size() != len(scalars) {
		return nil, errors.Errorf("%d values given, but shape %s has %d elements", len(scalars), shape, shape.Size())
	}
	t := tensors.FromShape(shape)
	switch dtype {
	case dtypes.Bool:
		err = setValues[bool](t, scalars)
	case dtypes.Int8:
		err = setValues[int8](t, scalars)
	case dtypes.Int16:
		err = setValues[int16](t, scalars)
	case dtypes.Int32:
		err = setValues[int32](t, scalars)
	case dtypes.Int64:
		err = setValues[int64](t, scalars)
	case dtypes.Uint8:
		err = setValues[uint8](t, scalars)
	case dtypes.Uint16:
		err = setValues[uint16](t, scalars)
	case dtypes.Uint32:
		err = setValues[uint32](t, scalars)
	case dtypes.Uint64:
		err = setValues[uint64](t, scalars)
	case dtypes.Float16:
		err = setValues[float16.Float16](t, scalars)
	case dtypes.BFloat16:
		err = setValues[bfloat16.BFloat16](t, scalars)
	case dtypes.Float32:
		err = setValues[float32](t, scalars)
	case dtypes.Float64:
		err = setValues[float64](t, scalars)
	default:
		err = errors.Errorf("dtype %s not supported", dtype)
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func setValues[T dtypes.Supported](t *tensors.Tensor, scalars []any) error {
	var err error
	tensors.MustMutableFlatData(t, func(flat []T) {
		for ii, scalar := range scalars {
			flat[ii], err = dtypes.ConvertScalar[T](scalar)
			if err != nil {
				err = errors.WithMessagef(err, "value #%d", ii)
				return
			}
		}
	})
	return err
}
