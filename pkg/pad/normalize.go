// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package pad

import (
	"github.com/gomlx/tensorpad/pkg/core/shapeinference"
)

// AxisPadding holds the number of elements added before (Lower) and after (Upper) one axis.
// Negative values crop elements from that side.
type AxisPadding = shapeinference.AxisPadding

// Layout defines how the flat list of pads is split into (lower, upper) pairs.
type Layout int

const (
	// LayoutBeginsThenEnds lists all the lower pads first, then all the upper pads:
	// [lower(axes[0]), ..., lower(axes[k-1]), upper(axes[0]), ..., upper(axes[k-1])].
	// This is the ONNX convention, and the default.
	LayoutBeginsThenEnds Layout = iota

	// LayoutInterleaved lists the pads in pairs: [lower(axes[0]), upper(axes[0]), lower(axes[1]), ...].
	LayoutInterleaved
)

// String implements fmt.Stringer.
func (l Layout) String() string {
	switch l {
	case LayoutBeginsThenEnds:
		return "begins_then_ends"
	case LayoutInterleaved:
		return "interleaved"
	}
	return "Layout(?)"
}

// ParseLayout converts "begins_then_ends" (or "onnx") and "interleaved" (or "pairs") to a Layout.
// An empty name returns the default LayoutBeginsThenEnds.
func ParseLayout(name string) (Layout, error) {
	switch name {
	case "", "begins_then_ends", "onnx":
		return LayoutBeginsThenEnds, nil
	case "interleaved", "pairs":
		return LayoutInterleaved, nil
	}
	return LayoutBeginsThenEnds, Errorf(InvalidArgument, "unknown pads layout %q", name)
}

// NormalizePads converts the flat pads list for the given axes into one AxisPadding per axis of an
// input of the given rank. Axes not listed get no padding.
//
// If axes is nil, it means all axes in order, and pads must have 2*rank values.
// Negative axes count from the end (-1 is the last axis).
//
// It returns an error of kind MalformedPadSpec if len(pads) != 2*len(axes), if an axis is out of range
// or if an axis is repeated.
func NormalizePads(rank int, pads []int, axes []int, layout Layout) ([]AxisPadding, error) {
	if axes == nil {
		axes = make([]int, rank)
		for axis := range axes {
			axes[axis] = axis
		}
	}
	if len(pads) != 2*len(axes) {
		return nil, Errorf(MalformedPadSpec,
			"pads must have 2 values per padded axis: got %d pads for %d axes (input rank %d)",
			len(pads), len(axes), rank)
	}
	if layout != LayoutBeginsThenEnds && layout != LayoutInterleaved {
		return nil, Errorf(InvalidArgument, "invalid pads layout %s", layout)
	}

	paddings := make([]AxisPadding, rank)
	seen := make([]bool, rank)
	numAxes := len(axes)
	for ii, axis := range axes {
		adjustedAxis := axis
		if adjustedAxis < 0 {
			adjustedAxis += rank
		}
		if adjustedAxis < 0 || adjustedAxis >= rank {
			return nil, Errorf(MalformedPadSpec, "axis %d is out of range for input of rank %d", axis, rank)
		}
		if seen[adjustedAxis] {
			return nil, Errorf(MalformedPadSpec, "axis %d is repeated in axes %v", adjustedAxis, axes)
		}
		seen[adjustedAxis] = true
		switch layout {
		case LayoutBeginsThenEnds:
			paddings[adjustedAxis] = AxisPadding{Lower: pads[ii], Upper: pads[ii+numAxes]}
		case LayoutInterleaved:
			paddings[adjustedAxis] = AxisPadding{Lower: pads[2*ii], Upper: pads[2*ii+1]}
		}
	}
	return paddings, nil
}
