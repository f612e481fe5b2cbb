// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package padop converts the ONNX "Pad" operator calling conventions to a pad.Spec and executes it.
//
// The operator changed over the opsets:
//
//   - Opset < 11: "pads" and "value" (a float) are attributes.
//   - Opset 11 and 13: "pads" (int64) and the optional scalar "value" (same dtype as data) are inputs.
//   - Opset >= 18: an optional "axes" input (int32 or int64) selects the padded axes.
//   - Domain "com.microsoft", opset 1: like opset 11, but "value" has shape [1] and "pads" may have
//     shape [1, 2*rank].
//
// All of them use the ONNX pads layout: all the lower pads followed by all the upper pads.
package padop

import (
	"reflect"

	"github.com/gomlx/tensorpad/pkg/core/dtypes"
	"github.com/gomlx/tensorpad/pkg/core/tensors"
	"github.com/gomlx/tensorpad/pkg/pad"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

const (
	// ONNXDomain is the default domain. The empty string is also accepted.
	ONNXDomain = "ai.onnx"

	// MSDomain is the domain of the Microsoft contrib operators.
	MSDomain = "com.microsoft"
)

// Attributes of the node. Pads and Value are only used by opsets < 11.
type Attributes struct {
	// Mode is "constant" (the default if empty), "edge" or "reflect".
	Mode string

	Pads  []int64
	Value float32

	// HasPads is set if the Pads attribute was given, even if empty.
	HasPads bool
}

// Inputs of the node. Only Data is used by opsets < 11.
type Inputs struct {
	Data, Pads, Value, Axes *tensors.Tensor
}

// BuildSpec returns the pad.Spec described by the node.
func BuildSpec(opset int, domain string, attrs Attributes, inputs Inputs) (spec pad.Spec, err error) {
	if err = inputs.Data.CheckValid(); err != nil {
		return spec, pad.Errorf(pad.InvalidArgument, "Pad: invalid data input: %v", err)
	}
	spec.Mode, err = pad.ParseMode(attrs.Mode)
	if err != nil {
		return spec, err
	}
	spec.Layout = pad.LayoutBeginsThenEnds

	switch domain {
	case "", ONNXDomain:
		if opset < 1 {
			return spec, pad.Errorf(pad.InvalidArgument, "Pad: invalid opset %d", opset)
		}
		if opset < 11 {
			return specFromAttributes(spec, attrs, inputs)
		}
		return specFromInputs(spec, opset >= 18, false, inputs)
	case MSDomain:
		if opset != 1 {
			return spec, pad.Errorf(pad.InvalidArgument, "Pad: opset %d of domain %q not supported", opset, domain)
		}
		return specFromInputs(spec, false, true, inputs)
	}
	return spec, pad.Errorf(pad.InvalidArgument, "Pad: domain %q not supported", domain)
}

func specFromAttributes(spec pad.Spec, attrs Attributes, inputs Inputs) (pad.Spec, error) {
	if !attrs.HasPads {
		return spec, pad.Errorf(pad.MalformedPadSpec, "Pad: attribute \"pads\" is required for opsets < 11")
	}
	if inputs.Pads != nil || inputs.Value != nil || inputs.Axes != nil {
		return spec, pad.Errorf(pad.InvalidArgument,
			"Pad: opsets < 11 take \"pads\" and \"value\" as attributes, not as inputs")
	}
	spec.Pads = make([]int, len(attrs.Pads))
	for ii, p := range attrs.Pads {
		spec.Pads[ii] = int(p)
	}
	spec.FillValue = attrs.Value
	return spec, nil
}

func specFromInputs(spec pad.Spec, allowAxes, msContrib bool, inputs Inputs) (pad.Spec, error) {
	var err error
	spec.Pads, err = padsFromTensor(inputs.Pads, msContrib)
	if err != nil {
		return spec, err
	}
	if inputs.Value != nil {
		spec.FillValue, err = valueFromTensor(inputs.Value, inputs.Data.DType(), msContrib)
		if err != nil {
			return spec, err
		}
	}
	if inputs.Axes != nil {
		if !allowAxes {
			return spec, pad.Errorf(pad.InvalidArgument, "Pad: input \"axes\" is only supported from opset 18")
		}
		spec.Axes, err = axesFromTensor(inputs.Axes)
		if err != nil {
			return spec, err
		}
	}
	return spec, nil
}

func padsFromTensor(t *tensors.Tensor, msContrib bool) ([]int, error) {
	if t == nil {
		return nil, pad.Errorf(pad.MalformedPadSpec, "Pad: input \"pads\" is required")
	}
	if err := t.CheckValid(); err != nil {
		return nil, pad.Errorf(pad.InvalidArgument, "Pad: invalid \"pads\" input: %v", err)
	}
	shape := t.Shape()
	validRank := shape.Rank() == 1 || (msContrib && shape.Rank() == 2 && shape.Dimensions[0] == 1)
	if shape.DType != dtypes.Int64 || !validRank {
		return nil, pad.Errorf(pad.MalformedPadSpec, "Pad: input \"pads\" must be a 1D Int64 tensor, got %s", shape)
	}
	values, err := tensors.CopyFlatData[int64](t)
	if err != nil {
		return nil, errors.WithMessage(err, "Pad: reading \"pads\"")
	}
	pads := make([]int, len(values))
	for ii, p := range values {
		pads[ii] = int(p)
	}
	return pads, nil
}

func valueFromTensor(t *tensors.Tensor, dtype dtypes.DType, msContrib bool) (any, error) {
	if err := t.CheckValid(); err != nil {
		return nil, pad.Errorf(pad.InvalidArgument, "Pad: invalid \"value\" input: %v", err)
	}
	shape := t.Shape()
	if shape.DType != dtype {
		return nil, pad.Errorf(pad.InvalidArgument, "Pad: input \"value\" has dtype %s, but data has dtype %s",
			shape.DType, dtype)
	}
	if msContrib {
		if shape.Rank() != 1 || shape.Dimensions[0] != 1 {
			return nil, pad.Errorf(pad.InvalidArgument, "Pad: input \"value\" must have shape [1], got %s", shape)
		}
	} else if shape.Size() != 1 {
		return nil, pad.Errorf(pad.InvalidArgument, "Pad: input \"value\" must be a scalar, got %s", shape)
	}
	var value any
	err := t.ConstFlatData(func(flat any) {
		value = reflect.ValueOf(flat).Index(0).Interface()
	})
	if err != nil {
		return nil, errors.WithMessage(err, "Pad: reading \"value\"")
	}
	return value, nil
}

func axesFromTensor(t *tensors.Tensor) ([]int, error) {
	if err := t.CheckValid(); err != nil {
		return nil, pad.Errorf(pad.InvalidArgument, "Pad: invalid \"axes\" input: %v", err)
	}
	shape := t.Shape()
	if shape.Rank() != 1 {
		return nil, pad.Errorf(pad.MalformedPadSpec, "Pad: input \"axes\" must be 1D, got %s", shape)
	}
	axes := make([]int, 0, shape.Size())
	switch shape.DType {
	case dtypes.Int64:
		for _, axis := range tensors.MustCopyFlatData[int64](t) {
			axes = append(axes, int(axis))
		}
	case dtypes.Int32:
		for _, axis := range tensors.MustCopyFlatData[int32](t) {
			axes = append(axes, int(axis))
		}
	default:
		return nil, pad.Errorf(pad.MalformedPadSpec, "Pad: input \"axes\" must be Int32 or Int64, got %s", shape)
	}
	return axes, nil
}

// Convert executes the Pad node of the given opset and domain, and returns the padded data.
//
// The options configure the execution, see pad.Compile.
func Convert(opset int, domain string, attrs Attributes, inputs Inputs, opts ...pad.Option) (*tensors.Tensor, error) {
	spec, err := BuildSpec(opset, domain, attrs, inputs)
	if err != nil {
		return nil, err
	}
	klog.V(2).Infof("Pad(opset=%d, domain=%q): data=%s, pads=%v, axes=%v, mode=%s, value=%v",
		opset, domain, inputs.Data.Shape(), spec.Pads, spec.Axes, spec.Mode, spec.FillValue)
	return pad.Pad(inputs.Data, spec, opts...)
}
