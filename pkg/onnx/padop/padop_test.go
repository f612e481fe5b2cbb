// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package padop

import (
	"testing"

	"github.com/gomlx/tensorpad/pkg/core/tensors"
	"github.com/gomlx/tensorpad/pkg/pad"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// convention runs the same pad through one of the ONNX calling conventions.
type convention struct {
	name   string
	opset  int
	domain string
}

var conventions = []convention{
	{"Opset10", 10, ""},
	{"Opset11", 11, ONNXDomain},
	{"Opset13", 13, ""},
	{"Opset18", 18, ""},
	{"MSContrib", 1, MSDomain},
}

func runConvention(t *testing.T, c convention, data []float32, dims []int, pads []int64, value float32, mode string) *tensors.Tensor {
	x := tensors.FromFlatDataAndDimensions(data, dims...)
	attrs := Attributes{Mode: mode}
	inputs := Inputs{Data: x}
	switch {
	case c.domain == MSDomain:
		inputs.Pads = tensors.FromFlatDataAndDimensions(pads, len(pads))
		inputs.Value = tensors.FromFlatDataAndDimensions([]float32{value}, 1)
	case c.opset < 11:
		attrs.Pads = pads
		attrs.HasPads = true
		attrs.Value = value
	default:
		inputs.Pads = tensors.FromFlatDataAndDimensions(pads, len(pads))
		inputs.Value = tensors.FromScalar(value)
	}
	y, err := Convert(c.opset, c.domain, attrs, inputs)
	require.NoError(t, err)
	return y
}

func TestConventionsAgree(t *testing.T) {
	testCases := []struct {
		name     string
		data     []float32
		dims     []int
		pads     []int64
		value    float32
		mode     string
		wantDims []int
		want     []float32
	}{
		{"Constant", []float32{1, 2, 3, 4, 5, 6}, []int{3, 2}, []int64{0, 2, 0, 0}, 0, "",
			[]int{3, 4}, []float32{0, 0, 1, 2, 0, 0, 3, 4, 0, 0, 5, 6}},
		{"ConstantWithValue", []float32{1, 2}, []int{2}, []int64{1, 2}, 123, "constant",
			[]int{5}, []float32{123, 1, 2, 123, 123}},
		{"Edge", []float32{1, 2, 3, 4, 5, 6}, []int{3, 2}, []int64{0, 2, 0, 1}, 0, "edge",
			[]int{3, 5}, []float32{1, 1, 1, 2, 2, 3, 3, 3, 4, 4, 5, 5, 5, 6, 6}},
		{"Reflect", []float32{1, 2, 3, 4, 5, 6}, []int{3, 2}, []int64{0, 1, 0, 1}, 0, "reflect",
			[]int{3, 4}, []float32{2, 1, 2, 1, 4, 3, 4, 3, 6, 5, 6, 5}},
		{"NegativePads", []float32{11, 21, 31, 12, 22, 32}, []int{2, 3}, []int64{-1, 0, 0, 0}, 0, "",
			[]int{1, 3}, []float32{12, 22, 32}},
	}
	for _, tc := range testCases {
		for _, c := range conventions {
			t.Run(tc.name+"/"+c.name, func(t *testing.T) {
				y := runConvention(t, c, tc.data, tc.dims, tc.pads, tc.value, tc.mode)
				assert.Equal(t, tc.wantDims, y.Shape().Dimensions)
				assert.Equal(t, tc.want, tensors.MustCopyFlatData[float32](y))
			})
		}
	}
}

func TestAxes(t *testing.T) {
	ones := make([]int32, 8)
	for ii := range ones {
		ones[ii] = 1
	}
	x := tensors.FromFlatDataAndDimensions(ones, 1, 2, 2, 2)
	want := []int32{
		0, 1, 1, 0, 0, 1, 1, 0,
		0, 1, 1, 0, 0, 1, 1, 0,
	}
	for _, axes := range []*tensors.Tensor{
		tensors.FromFlatDataAndDimensions([]int64{1, 3}, 2),
		tensors.FromFlatDataAndDimensions([]int32{1, 3}, 2),
		tensors.FromFlatDataAndDimensions([]int64{-3, -1}, 2),
	} {
		y, err := Convert(18, "", Attributes{}, Inputs{
			Data:  x,
			Pads:  tensors.FromFlatDataAndDimensions([]int64{0, 1, 0, 1}, 4),
			Value: tensors.FromScalar(int32(0)),
			Axes:  axes,
		})
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 2, 4}, y.Shape().Dimensions)
		assert.Equal(t, want, tensors.MustCopyFlatData[int32](y))
	}

	// Axes are not accepted before opset 18.
	_, err := Convert(13, "", Attributes{}, Inputs{
		Data: x,
		Pads: tensors.FromFlatDataAndDimensions([]int64{1, 1}, 2),
		Axes: tensors.FromFlatDataAndDimensions([]int64{3}, 1),
	})
	assert.ErrorIs(t, err, pad.ErrInvalidArgument)
}

func TestMSContribPadsShape(t *testing.T) {
	x := tensors.FromFlatDataAndDimensions([]float32{1, 2}, 2)
	y, err := Convert(1, MSDomain, Attributes{}, Inputs{
		Data: x,
		Pads: tensors.FromFlatDataAndDimensions([]int64{1, 1}, 1, 2),
	})
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 1, 2, 0}, tensors.MustCopyFlatData[float32](y))

	// Scalar value is not accepted by the contrib op.
	_, err = Convert(1, MSDomain, Attributes{}, Inputs{
		Data:  x,
		Pads:  tensors.FromFlatDataAndDimensions([]int64{1, 1}, 2),
		Value: tensors.FromScalar(float32(1)),
	})
	assert.ErrorIs(t, err, pad.ErrInvalidArgument)
}

func TestBuildSpecErrors(t *testing.T) {
	x := tensors.FromFlatDataAndDimensions([]float32{1, 2}, 2)
	pads := tensors.FromFlatDataAndDimensions([]int64{1, 1}, 2)
	testCases := []struct {
		name   string
		opset  int
		domain string
		attrs  Attributes
		inputs Inputs
		target error
	}{
		{"NoData", 11, "", Attributes{}, Inputs{Pads: pads}, pad.ErrInvalidArgument},
		{"UnknownMode", 11, "", Attributes{Mode: "wrap"}, Inputs{Data: x, Pads: pads}, pad.ErrInvalidArgument},
		{"MissingPadsAttribute", 10, "", Attributes{}, Inputs{Data: x}, pad.ErrMalformedPadSpec},
		{"PadsAsInputInOpset10", 10, "", Attributes{HasPads: true, Pads: []int64{1, 1}},
			Inputs{Data: x, Pads: pads}, pad.ErrInvalidArgument},
		{"MissingPadsInput", 11, "", Attributes{}, Inputs{Data: x}, pad.ErrMalformedPadSpec},
		{"PadsNotInt64", 11, "", Attributes{},
			Inputs{Data: x, Pads: tensors.FromFlatDataAndDimensions([]int32{1, 1}, 2)}, pad.ErrMalformedPadSpec},
		{"PadsNot1D", 11, "", Attributes{},
			Inputs{Data: x, Pads: tensors.FromFlatDataAndDimensions([]int64{1, 1}, 1, 2)}, pad.ErrMalformedPadSpec},
		{"ValueWrongDType", 11, "", Attributes{},
			Inputs{Data: x, Pads: pads, Value: tensors.FromScalar(float64(1))}, pad.ErrInvalidArgument},
		{"ValueNotScalar", 11, "", Attributes{},
			Inputs{Data: x, Pads: pads, Value: tensors.FromFlatDataAndDimensions([]float32{1, 2}, 2)}, pad.ErrInvalidArgument},
		{"AxesWrongDType", 18, "", Attributes{},
			Inputs{Data: x, Pads: pads, Axes: tensors.FromFlatDataAndDimensions([]float32{0}, 1)}, pad.ErrMalformedPadSpec},
		{"UnknownDomain", 1, "org.pytorch", Attributes{}, Inputs{Data: x, Pads: pads}, pad.ErrInvalidArgument},
		{"MSContribOpset2", 2, MSDomain, Attributes{}, Inputs{Data: x, Pads: pads}, pad.ErrInvalidArgument},
		{"InvalidOpset", 0, "", Attributes{}, Inputs{Data: x, Pads: pads}, pad.ErrInvalidArgument},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := BuildSpec(tc.opset, tc.domain, tc.attrs, tc.inputs)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.target)
		})
	}

	// Errors from the pad itself are passed through.
	_, err := Convert(11, "", Attributes{Mode: "edge"}, Inputs{
		Data: tensors.FromFlatDataAndDimensions([]float32{}, 0),
		Pads: pads,
	})
	require.Error(t, err)
	assert.Equal(t, "Cannot use 'edge' mode to pad dimension with a value of 0. Input shape:{0}", err.Error())
}

func TestOpset10ValueCoercion(t *testing.T) {
	x := tensors.FromFlatDataAndDimensions([]float64{1, 2}, 2)
	y, err := Convert(10, "", Attributes{HasPads: true, Pads: []int64{1, 0}, Value: 0.5}, Inputs{Data: x})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 1, 2}, tensors.MustCopyFlatData[float64](y))
}
