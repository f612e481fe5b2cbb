// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package dtypes

import (
	"math"

	"github.com/gomlx/tensorpad/pkg/core/dtypes/bfloat16"
	"github.com/pkg/errors"
	"github.com/x448/float16"
)

// ConvertScalar converts a Go scalar value (any of the Supported types, plus uint and uintptr) to T.
//
// Booleans convert to 0/1 and numbers convert to bool by comparing to zero. Float to integer conversions
// truncate, as Go does; NaN and infinities can't be converted to integers and return an error.
func ConvertScalar[T Supported](value any) (T, error) {
	var zero T
	if value == nil {
		return zero, nil
	}
	if v, ok := value.(T); ok {
		return v, nil
	}

	var (
		asFloat   float64
		asInt     int64
		asUint    uint64
		isFloat   bool
		isUint    bool
		isBoolean bool
		asBool    bool
	)
	switch v := value.(type) {
	case bool:
		isBoolean, asBool = true, v
		if v {
			asInt = 1
		}
	case int:
		asInt = int64(v)
	case int8:
		asInt = int64(v)
	case int16:
		asInt = int64(v)
	case int32:
		asInt = int64(v)
	case int64:
		asInt = v
	case uint:
		isUint, asUint = true, uint64(v)
	case uint8:
		isUint, asUint = true, uint64(v)
	case uint16:
		isUint, asUint = true, uint64(v)
	case uint32:
		isUint, asUint = true, uint64(v)
	case uint64:
		isUint, asUint = true, v
	case uintptr:
		isUint, asUint = true, uint64(v)
	case float32:
		isFloat, asFloat = true, float64(v)
	case float64:
		isFloat, asFloat = true, v
	case float16.Float16:
		isFloat, asFloat = true, float64(v.Float32())
	case bfloat16.BFloat16:
		isFloat, asFloat = true, v.Float64()
	default:
		return zero, errors.Errorf("cannot convert value %v of type %T to %s", value, value, FromGenericsType[T]())
	}
	if !isFloat {
		if isUint {
			asFloat = float64(asUint)
			asInt = int64(asUint)
		} else {
			asFloat = float64(asInt)
			asUint = uint64(asInt)
		}
	}
	if !isBoolean {
		asBool = asFloat != 0
	}

	var result any
	switch any(zero).(type) {
	case bool:
		result = asBool
	case float32:
		result = float32(asFloat)
	case float64:
		result = asFloat
	case float16.Float16:
		result = float16.Fromfloat32(float32(asFloat))
	case bfloat16.BFloat16:
		result = bfloat16.FromFloat64(asFloat)
	default:
		if isFloat {
			if math.IsNaN(asFloat) || math.IsInf(asFloat, 0) {
				return zero, errors.Errorf("cannot convert %g to %s", asFloat, FromGenericsType[T]())
			}
			asInt = int64(asFloat)
			asUint = uint64(asFloat)
		}
		switch any(zero).(type) {
		case int:
			result = int(asInt)
		case int8:
			result = int8(asInt)
		case int16:
			result = int16(asInt)
		case int32:
			result = int32(asInt)
		case int64:
			result = asInt
		case uint8:
			result = uint8(asUint)
		case uint16:
			result = uint16(asUint)
		case uint32:
			result = uint32(asUint)
		case uint64:
			result = asUint
		}
	}
	return result.(T), nil
}
