// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package pad

import (
	"github.com/gomlx/exceptions"
	"github.com/gomlx/tensorpad/pkg/core/dtypes"
	"github.com/gomlx/tensorpad/pkg/core/dtypes/bfloat16"
	"github.com/gomlx/tensorpad/pkg/core/tensors"
	"github.com/x448/float16"
)

// dtypeKernels holds the generic functions instantiated for one dtype.
type dtypeKernels struct {
	// pad writes the padded input into output, using the (already converted) fill value.
	pad func(plan *Plan, input, output *tensors.Tensor, fill any) error

	// convertFill converts a user provided fill value to the Go type of the dtype.
	convertFill func(value any) (any, error)
}

// DTypeDispatcher selects the kernels instantiated for a dtype.
type DTypeDispatcher struct {
	Name    string
	kernels [dtypes.NumDTypes]*dtypeKernels
}

// padDispatcher has the pad kernels for every supported dtype.
var padDispatcher = &DTypeDispatcher{Name: "Pad"}

func init() {
	registerDType[bool](padDispatcher)
	registerDType[int8](padDispatcher)
	registerDType[int16](padDispatcher)
	registerDType[int32](padDispatcher)
	registerDType[int64](padDispatcher)
	registerDType[uint8](padDispatcher)
	registerDType[uint16](padDispatcher)
	registerDType[uint32](padDispatcher)
	registerDType[uint64](padDispatcher)
	registerDType[float16.Float16](padDispatcher)
	registerDType[bfloat16.BFloat16](padDispatcher)
	registerDType[float32](padDispatcher)
	registerDType[float64](padDispatcher)
}

// registerDType instantiates the kernels for T. It overwrites previous registrations for the same dtype.
func registerDType[T dtypes.Supported](d *DTypeDispatcher) {
	dtype := dtypes.FromGenericsType[T]()
	if !dtype.IsSupported() {
		exceptions.Panicf("%s: cannot register kernels for Go type %T", d.Name, *new(T))
	}
	d.kernels[dtype] = &dtypeKernels{
		pad:         execPadGeneric[T],
		convertFill: convertFillGeneric[T],
	}
}

// IsSupported returns whether there are kernels registered for dtype.
func (d *DTypeDispatcher) IsSupported(dtype dtypes.DType) bool {
	return dtype.IsSupported() && d.kernels[dtype] != nil
}

// Dispatch returns the kernels for dtype. It panics if dtype is not supported.
func (d *DTypeDispatcher) Dispatch(dtype dtypes.DType) *dtypeKernels {
	if !d.IsSupported(dtype) {
		exceptions.Panicf("dtype %s not supported by %s", dtype, d.Name)
	}
	return d.kernels[dtype]
}

func convertFillGeneric[T dtypes.Supported](value any) (any, error) {
	converted, err := dtypes.ConvertScalar[T](value)
	if err != nil {
		return nil, err
	}
	return converted, nil
}
