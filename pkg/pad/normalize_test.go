// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package pad

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePads(t *testing.T) {
	paddings, err := NormalizePads(3, []int{1, 2, 3, 4, 5, 6}, nil, LayoutBeginsThenEnds)
	require.NoError(t, err)
	assert.Equal(t, []AxisPadding{{Lower: 1, Upper: 4}, {Lower: 2, Upper: 5}, {Lower: 3, Upper: 6}}, paddings)

	paddings, err = NormalizePads(3, []int{1, 2, 3, 4, 5, 6}, nil, LayoutInterleaved)
	require.NoError(t, err)
	assert.Equal(t, []AxisPadding{{Lower: 1, Upper: 2}, {Lower: 3, Upper: 4}, {Lower: 5, Upper: 6}}, paddings)

	paddings, err = NormalizePads(4, []int{1, -2, 3, 4}, []int{-1, 1}, LayoutBeginsThenEnds)
	require.NoError(t, err)
	assert.Equal(t, []AxisPadding{{}, {Lower: -2, Upper: 4}, {}, {Lower: 1, Upper: 3}}, paddings)

	paddings, err = NormalizePads(0, nil, nil, LayoutBeginsThenEnds)
	require.NoError(t, err)
	assert.Empty(t, paddings)

	// Empty axes list: nothing is padded.
	paddings, err = NormalizePads(2, []int{}, []int{}, LayoutBeginsThenEnds)
	require.NoError(t, err)
	assert.Equal(t, []AxisPadding{{}, {}}, paddings)

	for _, tc := range []struct {
		pads, axes []int
	}{
		{[]int{1, 2, 3}, nil},
		{[]int{1, 2}, []int{0, 1}},
		{[]int{1, 2}, []int{3}},
		{[]int{1, 2}, []int{-4}},
		{[]int{1, 2, 3, 4}, []int{0, -3}},
	} {
		_, err = NormalizePads(3, tc.pads, tc.axes, LayoutBeginsThenEnds)
		require.Error(t, err, "pads=%v, axes=%v", tc.pads, tc.axes)
		assert.ErrorIs(t, err, ErrMalformedPadSpec)
	}
}

func TestParseLayout(t *testing.T) {
	for name, want := range map[string]Layout{
		"":                 LayoutBeginsThenEnds,
		"onnx":             LayoutBeginsThenEnds,
		"begins_then_ends": LayoutBeginsThenEnds,
		"interleaved":      LayoutInterleaved,
		"pairs":            LayoutInterleaved,
	} {
		layout, err := ParseLayout(name)
		require.NoError(t, err)
		assert.Equal(t, want, layout, "layout %q", name)
	}
	_, err := ParseLayout("numpy")
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Equal(t, "interleaved", LayoutInterleaved.String())
}

func TestMapIndex(t *testing.T) {
	// Inside the input all modes copy.
	for _, mode := range []Mode{Constant, Edge, Reflect} {
		assert.Equal(t, 0, MapIndex(3, 2, 2, mode))
		assert.Equal(t, 2, MapIndex(3, 2, 4, mode))
	}
	assert.Equal(t, Fill, MapIndex(3, 2, 1, Constant))
	assert.Equal(t, Fill, MapIndex(3, 2, 5, Constant))
	assert.Equal(t, 0, MapIndex(3, 2, 0, Edge))
	assert.Equal(t, 2, MapIndex(3, 2, 6, Edge))
	assert.Equal(t, 2, MapIndex(3, 2, 0, Reflect))
	assert.Equal(t, 1, MapIndex(3, 2, 5, Reflect))
	assert.Equal(t, 0, MapIndex(1, 3, 0, Reflect))
	assert.Equal(t, Fill, MapIndex(0, 1, 0, Edge))

	// Negative lower pads crop: output 0 reads input 2.
	assert.Equal(t, 2, MapIndex(5, -2, 0, Constant))
}

func TestAxisMap(t *testing.T) {
	assert.Equal(t, []int{Fill, Fill, 0, 1, 2, Fill}, AxisMap(3, AxisPadding{Lower: 2, Upper: 1}, Constant))
	assert.Equal(t, []int{0, 0, 0, 1, 2, 2}, AxisMap(3, AxisPadding{Lower: 2, Upper: 1}, Edge))
	assert.Equal(t, []int{2, 1, 0, 1, 2, 1}, AxisMap(3, AxisPadding{Lower: 2, Upper: 1}, Reflect))

	// Repeated reflection, period 2*(n-1) = 4.
	assert.Equal(t, []int{0, 1, 2, 1, 0, 1, 2, 1, 0, 1, 2}, AxisMap(3, AxisPadding{Lower: 4, Upper: 4}, Reflect))

	// Cropping.
	assert.Equal(t, []int{1, 2}, AxisMap(4, AxisPadding{Lower: -1, Upper: -1}, Reflect))
	assert.Empty(t, AxisMap(2, AxisPadding{Lower: -1, Upper: -1}, Constant))
}

func TestDirectRun(t *testing.T) {
	for _, tc := range []struct {
		n          int
		padding    AxisPadding
		start, end int
	}{
		{3, AxisPadding{}, 0, 3},
		{3, AxisPadding{Lower: 2, Upper: 1}, 2, 5},
		{5, AxisPadding{Lower: -2, Upper: -1}, 0, 2},
		{5, AxisPadding{Lower: 1, Upper: -3}, 1, 3},
		{0, AxisPadding{Lower: 1, Upper: 1}, 1, 1},
	} {
		start, end := directRun(tc.n, tc.padding)
		assert.Equal(t, tc.start, start, "n=%d, padding=%+v", tc.n, tc.padding)
		assert.Equal(t, tc.end, end, "n=%d, padding=%+v", tc.n, tc.padding)
	}
}

func TestConfig(t *testing.T) {
	config, err := Config{}.Parse("parallelism=4, min_parallel_size=128")
	require.NoError(t, err)
	assert.Equal(t, Config{Parallelism: 4, MinParallelSize: 128}, config)
	assert.Equal(t, "parallelism=4,min_parallel_size=128", config.String())

	config, err = config.Parse("parallelism=-1")
	require.NoError(t, err)
	assert.Equal(t, Config{Parallelism: -1, MinParallelSize: 128}, config)

	for _, invalid := range []string{"parallelism", "parallelism=many", "workers=2", "min_parallel_size=-1"} {
		_, err = Config{}.Parse(invalid)
		assert.Error(t, err, "config %q", invalid)
	}

	t.Setenv(TENSORPAD_CONFIG, "parallelism=3,min_parallel_size=0")
	assert.Equal(t, Config{Parallelism: 3, MinParallelSize: 0}, DefaultConfig())

	t.Setenv(TENSORPAD_CONFIG, "parallelism=three")
	assert.Equal(t, Config{Parallelism: runtime.NumCPU(), MinParallelSize: DefaultMinParallelSize}, DefaultConfig())

	var c Config
	WithParallelism(7)(&c)
	WithMinParallelSize(11)(&c)
	assert.Equal(t, Config{Parallelism: 7, MinParallelSize: 11}, c)
	WithConfig(Config{Parallelism: 1})(&c)
	assert.Equal(t, Config{Parallelism: 1}, c)
}
