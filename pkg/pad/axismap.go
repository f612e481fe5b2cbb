// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package pad

// Fill is returned by MapIndex for output positions that take the fill value.
const Fill = -1

// MapIndex returns the input index along one axis that the output index k reads from, or Fill.
//
// n is the input dimension of the axis and lower its lower padding. Output index k corresponds to
// the input position s = k - lower: positions inside the input are copied in every mode, and
// positions outside it are
//
//   - Constant: Fill.
//   - Edge: the nearest border index, 0 or n-1.
//   - Reflect: the mirror of s around the borders, repeated as many times as needed (period 2*(n-1)).
//     If n == 1 the only index is 0.
//
// For n == 0 and the Edge and Reflect modes there is nothing to read from: it returns Fill, but shape
// validation rejects any padding of empty axes in these modes.
func MapIndex(n, lower, k int, mode Mode) int {
	s := k - lower
	if s >= 0 && s < n {
		return s
	}
	if n == 0 {
		return Fill
	}
	switch mode {
	case Edge:
		if s < 0 {
			return 0
		}
		return n - 1
	case Reflect:
		if n == 1 {
			return 0
		}
		period := 2 * (n - 1)
		if s < 0 {
			s = -s
		}
		s %= period
		if s >= n {
			s = period - s
		}
		return s
	default:
		return Fill
	}
}

// AxisMap returns the input index (or Fill) for every output index of one axis, with input
// dimension n and the given padding.
func AxisMap(n int, padding AxisPadding, mode Mode) []int {
	outputDim := max(n+padding.Lower+padding.Upper, 0)
	axisMap := make([]int, outputDim)
	for k := range axisMap {
		axisMap[k] = MapIndex(n, padding.Lower, k, mode)
	}
	return axisMap
}

// directRun returns the range [start, end) of output indices along an axis that copy the input
// contiguously (output k reads input k-lower), clipped to the output. end <= start if there is none.
func directRun(n int, padding AxisPadding) (start, end int) {
	outputDim := n + padding.Lower + padding.Upper
	start = max(padding.Lower, 0)
	end = min(padding.Lower+n, outputDim)
	return
}
