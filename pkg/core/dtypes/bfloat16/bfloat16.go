// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package bfloat16 implements the bfloat16 ("brain float") type, the upper 16 bits of an IEEE 754 float32.
//
// It follows the API of https://github.com/x448/float16, so both 16 bits types can be handled alike.
package bfloat16

import (
	"math"
	"strconv"
)

// BFloat16 holds the sign, the 8 bits exponent and the top 7 bits of the mantissa of a float32.
type BFloat16 uint16

// Float32 returns the exact float32 value of f.
func (f BFloat16) Float32() float32 {
	return math.Float32frombits(uint32(f) << 16)
}

// Float64 returns the exact float64 value of f.
func (f BFloat16) Float64() float64 {
	return float64(f.Float32())
}

// FromFloat32 converts x to a BFloat16, rounding to the nearest value (ties to even).
// NaNs are kept as quiet NaNs.
func FromFloat32(x float32) BFloat16 {
	bits := math.Float32bits(x)
	if x != x {
		return BFloat16(bits>>16 | 0x0040)
	}
	rounding := uint32(0x7FFF) + (bits>>16)&1
	return BFloat16((bits + rounding) >> 16)
}

// FromFloat64 converts x to a BFloat16, going through float32.
func FromFloat64(x float64) BFloat16 {
	return FromFloat32(float32(x))
}

// FromBits returns the BFloat16 with the given bit pattern.
func FromBits(bits uint16) BFloat16 {
	return BFloat16(bits)
}

// Bits returns the bit pattern of f.
func (f BFloat16) Bits() uint16 {
	return uint16(f)
}

// IsNaN reports whether f is a "not-a-number" value.
func (f BFloat16) IsNaN() bool {
	return f&0x7F80 == 0x7F80 && f&0x007F != 0
}

// String implements fmt.Stringer.
func (f BFloat16) String() string {
	return strconv.FormatFloat(f.Float64(), 'g', -1, 32)
}

// Inf returns positive infinity if sign >= 0, negative infinity otherwise.
func Inf(sign int) BFloat16 {
	if sign >= 0 {
		return BFloat16(0x7F80)
	}
	return BFloat16(0xFF80)
}
