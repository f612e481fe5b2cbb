// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package pad

import (
	"runtime"
	"slices"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/tensorpad/internal/workerspool"
	"github.com/gomlx/tensorpad/pkg/core/shapeinference"
	"github.com/gomlx/tensorpad/pkg/core/shapes"
	"github.com/gomlx/tensorpad/pkg/core/tensors"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Plan is a pad compiled for a fixed input shape: the pads are validated and normalized, and the mapping
// from output to input indices is precomputed, so it can be executed many times.
//
// A Plan is immutable and can be executed concurrently.
type Plan struct {
	inputShape, outputShape shapes.Shape
	paddings                []AxisPadding
	mode                    Mode
	fill                    any // Converted to the Go type of the input dtype.
	config                  Config
	pool                    *workerspool.Pool

	// axisMaps holds, for each axis, the input index (or Fill) read by each output index.
	axisMaps     [][]int
	inputStrides []int

	// innerRunStart and innerRunEnd delimit the output indices of the last axis that are a
	// contiguous copy of the input.
	innerRunStart, innerRunEnd int
}

// Compile validates the pad spec for the input shape and returns a Plan that executes it.
//
// The default configuration is DefaultConfig(), and it can be changed with options.
//
// Errors are of type *Error: MalformedPadSpec for invalid pads or axes, NegativeOutputDimension if
// some axis is cropped by more than its dimension, IllegalPadOnEmptyDimension for padding empty axes in
// Edge or Reflect modes, and InvalidArgument for invalid shapes, modes or fill values.
func Compile(input shapes.Shape, spec Spec, opts ...Option) (*Plan, error) {
	if !input.Ok() {
		return nil, Errorf(InvalidArgument, "invalid input shape %s", input)
	}
	if !padDispatcher.IsSupported(input.DType) {
		return nil, Errorf(InvalidArgument, "dtype %s is not supported by Pad", input.DType)
	}
	if !spec.Mode.IsValid() {
		return nil, Errorf(InvalidArgument, "invalid pad mode %s", spec.Mode)
	}
	paddings, err := NormalizePads(input.Rank(), spec.Pads, spec.Axes, spec.Layout)
	if err != nil {
		return nil, err
	}
	outputShape, err := OutputShape(input, paddings, spec.Mode)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	plan := &Plan{
		inputShape:   input.Clone(),
		outputShape:  outputShape,
		paddings:     paddings,
		mode:         spec.Mode,
		config:       config,
		pool:         workerspool.New(config.Parallelism),
		inputStrides: input.Strides(),
	}
	plan.fill, err = plan.convertFill(spec.FillValue)
	if err != nil {
		return nil, err
	}
	plan.axisMaps = make([][]int, input.Rank())
	for axis, padding := range paddings {
		plan.axisMaps[axis] = AxisMap(input.Dimensions[axis], padding, spec.Mode)
	}
	if rank := input.Rank(); rank > 0 {
		plan.innerRunStart, plan.innerRunEnd = directRun(input.Dimensions[rank-1], paddings[rank-1])
	}
	klog.V(1).Infof("pad: compiled %s -> %s, mode=%s, paddings=%v, config={%s}",
		input, outputShape, spec.Mode, paddings, config)
	return plan, nil
}

// OutputShape returns the shape of padding input with the normalized paddings (one per axis) in the given mode.
//
// Each output dimension is input + Lower + Upper. It returns an error of kind NegativeOutputDimension if any
// of them is negative, and of kind IllegalPadOnEmptyDimension if an axis of dimension 0 is padded in Edge or
// Reflect modes.
func OutputShape(input shapes.Shape, paddings []AxisPadding, mode Mode) (shapes.Shape, error) {
	output, err := shapeinference.PadOp(input, paddings, mode.String())
	if err != nil {
		return shapes.Invalid(), fromShapeInference(err)
	}
	return output, nil
}

// InputShape returns the shape of the inputs accepted by the plan.
func (p *Plan) InputShape() shapes.Shape { return p.inputShape.Clone() }

// OutputShape returns the shape of the outputs of the plan.
func (p *Plan) OutputShape() shapes.Shape { return p.outputShape.Clone() }

// Paddings returns the normalized padding for each axis.
func (p *Plan) Paddings() []AxisPadding { return slices.Clone(p.paddings) }

// Mode returns the pad mode of the plan.
func (p *Plan) Mode() Mode { return p.mode }

// Config returns the configuration the plan was compiled with.
func (p *Plan) Config() Config { return p.config }

// Execute pads x, which must have the input shape of the plan, and returns a newly allocated tensor.
// x is not modified.
func (p *Plan) Execute(x *tensors.Tensor) (*tensors.Tensor, error) {
	return p.execute(x, p.fill)
}

// ExecuteWithFill is like Execute, but uses the given fill value (only used in Constant mode) instead of
// the one compiled in the plan.
func (p *Plan) ExecuteWithFill(x *tensors.Tensor, fill any) (*tensors.Tensor, error) {
	converted, err := p.convertFill(fill)
	if err != nil {
		return nil, err
	}
	return p.execute(x, converted)
}

func (p *Plan) convertFill(fill any) (any, error) {
	kernels := padDispatcher.Dispatch(p.inputShape.DType)
	if p.mode != Constant {
		fill = nil
	}
	converted, err := kernels.convertFill(fill)
	if err != nil {
		return nil, Errorf(InvalidArgument, "invalid fill value for dtype %s: %v", p.inputShape.DType, err)
	}
	return converted, nil
}

func (p *Plan) execute(x *tensors.Tensor, fill any) (output *tensors.Tensor, err error) {
	if err = x.CheckValid(); err != nil {
		return nil, Errorf(InvalidArgument, "invalid input tensor: %v", err)
	}
	if !x.Shape().Equal(p.inputShape) {
		return nil, Errorf(InvalidArgument, "input shape %s doesn't match the shape %s the pad was compiled for",
			x.Shape(), p.inputShape)
	}
	output = tensors.FromShape(p.outputShape)
	if p.outputShape.Size() == 0 {
		return output, nil
	}
	exception := exceptions.TryCatch[error](func() {
		err = padDispatcher.Dispatch(p.inputShape.DType).pad(p, x, output, fill)
	})
	if exception != nil {
		err = exception
	}
	if err != nil {
		output.FinalizeAll()
		return nil, errors.WithMessagef(err, "failed to pad %s to %s", p.inputShape, p.outputShape)
	}
	return output, nil
}

// numBlocks returns in how many blocks of rows the execution of the output with the given size is split.
func (p *Plan) numBlocks(outputSize, numRows int) int {
	if !p.pool.IsEnabled() || p.config.Parallelism == 1 || outputSize < p.config.MinParallelSize {
		return 1
	}
	workers := p.config.Parallelism
	if p.pool.IsUnlimited() {
		workers = runtime.NumCPU()
	}
	return max(min(workers, numRows), 1)
}
