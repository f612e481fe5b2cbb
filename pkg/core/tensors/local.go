// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package tensors

import (
	"reflect"
	"unsafe"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/tensorpad/pkg/core/dtypes"
	"github.com/pkg/errors"
)

// ConstFlatData calls accessFn with the flattened data as a slice of the Go type corresponding to the DType type.
// Even scalar values have a flattened data representation of one element.
// It read-locks the Tensor until accessFn returns, so concurrent readers are allowed.
//
// This provides accessFn with the actual Tensor data (not a copy), and it should not be changed.
// See Tensor.MutableFlatData to access a mutable version of the flat data.
func (t *Tensor) ConstFlatData(accessFn func(flat any)) error {
	if err := t.CheckValid(); err != nil {
		return err
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	accessFn(t.flat)
	return nil
}

// MustConstFlatData is like Tensor.ConstFlatData, but panics on error.
func (t *Tensor) MustConstFlatData(accessFn func(flat any)) {
	if err := t.ConstFlatData(accessFn); err != nil {
		panic(err)
	}
}

// MutableFlatData calls accessFn with a flat slice pointing to the Tensor data.
// The contents of the slice itself can be changed until accessFn returns.
// During this time the Tensor is locked.
func (t *Tensor) MutableFlatData(accessFn func(flat any)) error {
	if err := t.CheckValid(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	accessFn(t.flat)
	return nil
}

// ConstFlatData calls accessFn with the flattened data as a slice of the Go type corresponding to the DType type.
//
// It is the "generics" version of Tensor.ConstFlatData(), and it returns an error if T doesn't match the
// tensor's dtype.
func ConstFlatData[T dtypes.Supported](t *Tensor, accessFn func(flat []T)) error {
	if err := checkGenericsType[T](t, "ConstFlatData"); err != nil {
		return err
	}
	return t.ConstFlatData(func(anyFlat any) {
		accessFn(anyFlat.([]T))
	})
}

// MustConstFlatData is like ConstFlatData but panics on error.
func MustConstFlatData[T dtypes.Supported](t *Tensor, accessFn func(flat []T)) {
	if err := ConstFlatData(t, accessFn); err != nil {
		panic(err)
	}
}

// MutableFlatData calls accessFn with a flat slice pointing to the Tensor data, that can be modified
// until accessFn returns.
//
// It is the "generics" version of Tensor.MutableFlatData(), and it returns an error if T doesn't match the
// tensor's dtype.
func MutableFlatData[T dtypes.Supported](t *Tensor, accessFn func(flat []T)) error {
	if err := checkGenericsType[T](t, "MutableFlatData"); err != nil {
		return err
	}
	return t.MutableFlatData(func(anyFlat any) {
		accessFn(anyFlat.([]T))
	})
}

// MustMutableFlatData is like MutableFlatData but panics on error.
func MustMutableFlatData[T dtypes.Supported](t *Tensor, accessFn func(flat []T)) {
	if err := MutableFlatData(t, accessFn); err != nil {
		panic(err)
	}
}

func checkGenericsType[T dtypes.Supported](t *Tensor, method string) error {
	if err := t.CheckValid(); err != nil {
		return err
	}
	// Go's int is stored as Int32 or Int64 depending on the platform, but the flat slice is never an []int.
	var v T
	if _, isInt := any(v).(int); isInt || t.shape.DType != dtypes.FromGenericsType[T]() {
		return errors.Errorf("%s[%T] is incompatible with Tensor's dtype %s", method, v, t.shape.DType)
	}
	return nil
}

// ConstBytes calls accessFn with the data as a bytes slice.
// Even scalar values have a bytes data representation of one element.
//
// This provides accessFn with the actual Tensor data (not a copy), and it should not be changed.
func (t *Tensor) ConstBytes(accessFn func(data []byte)) error {
	return t.ConstFlatData(func(flat any) {
		accessFn(flatAsBytes(flat))
	})
}

// MutableBytes calls accessFn with the data as a mutable bytes slice.
func (t *Tensor) MutableBytes(accessFn func(data []byte)) error {
	return t.MutableFlatData(func(flat any) {
		accessFn(flatAsBytes(flat))
	})
}

// flatAsBytes returns a []byte view of the flat slice. Zero-size slices return an empty (non-nil) slice.
func flatAsBytes(flat any) []byte {
	flatV := reflect.ValueOf(flat)
	if flatV.Len() == 0 {
		return []byte{}
	}
	element0 := flatV.Index(0)
	sizeBytes := uintptr(flatV.Len()) * element0.Type().Size()
	return unsafe.Slice((*byte)(element0.Addr().UnsafePointer()), sizeBytes)
}

// ToScalar returns the scalar value of the Tensor.
//
// It will panic if the given generic type doesn't match the DType of the tensor, or if the tensor is not a scalar.
func ToScalar[T dtypes.Supported](t *Tensor) T {
	if !t.shape.IsScalar() {
		var v T
		exceptions.Panicf("ToScalar[%T] requires scalar Tensor, got shape %s instead", v, t.shape)
	}
	var value T
	MustConstFlatData(t, func(flat []T) {
		value = flat[0]
	})
	return value
}

// CopyFlatData returns a copy of the flat data of the Tensor.
func CopyFlatData[T dtypes.Supported](t *Tensor) ([]T, error) {
	var flatCopy []T
	err := ConstFlatData(t, func(flat []T) {
		flatCopy = make([]T, len(flat))
		copy(flatCopy, flat)
	})
	if err != nil {
		return nil, err
	}
	return flatCopy, nil
}

// MustCopyFlatData returns a copy of the flat data of the Tensor.
//
// It will panic if the given generic type doesn't match the DType of the tensor.
func MustCopyFlatData[T dtypes.Supported](t *Tensor) []T {
	flatCopy, err := CopyFlatData[T](t)
	if err != nil {
		panic(err)
	}
	return flatCopy
}

// LayoutStrides return the strides for each axis. This can be handy when manipulating the flat data.
func (t *Tensor) LayoutStrides() (strides []int) {
	return t.shape.Strides()
}

// Clone returns a deep copy of the tensor.
func (t *Tensor) Clone() (*Tensor, error) {
	var clone *Tensor
	err := t.ConstFlatData(func(flat any) {
		clone = FromShape(t.shape)
		reflect.Copy(reflect.ValueOf(clone.flat), reflect.ValueOf(flat))
	})
	if err != nil {
		return nil, err
	}
	return clone, nil
}

// Value returns a multidimensional slice (except if the shape is a scalar) containing a copy of the values stored
// in the tensor.
// This is expensive and usually only used for smaller tensors in tests and to print results.
//
// It panics if the tensor is invalid.
func (t *Tensor) Value() any {
	var mdSlice any
	t.MustConstFlatData(func(flat any) {
		if t.shape.IsScalar() {
			mdSlice = reflect.ValueOf(flat).Index(0).Interface()
			return
		}
		flatCopyV := reflect.MakeSlice(reflect.SliceOf(t.shape.DType.GoType()), t.Size(), t.Size())
		reflect.Copy(flatCopyV, reflect.ValueOf(flat))
		mdSlice = convertDataToSlices(flatCopyV, t.shape.Dimensions...).Interface()
	})
	return mdSlice
}

// convertDataToSlices takes data as a flat slice and creates a multidimensional slice with the given dimensions that
// points to the given data.
func convertDataToSlices(dataV reflect.Value, dimensions ...int) reflect.Value {
	if len(dimensions) <= 1 {
		return dataV
	}
	resultT := dataV.Type().Elem()
	for range dimensions {
		resultT = reflect.SliceOf(resultT)
	}
	stride := 1
	for _, dim := range dimensions[1:] {
		stride *= dim
	}
	slice := reflect.MakeSlice(resultT, dimensions[0], dimensions[0])
	for ii := range dimensions[0] {
		subData := dataV.Slice(ii*stride, (ii+1)*stride)
		slice.Index(ii).Set(convertDataToSlices(subData, dimensions[1:]...))
	}
	return slice
}

// Equal checks weather t == otherTensor.
// If they are the same pointer, they are considered equal.
// If the shapes are different, it returns false.
// If either side is invalid (nil), it panics.
//
// Floating point values are compared by value, so NaNs are never equal.
func (t *Tensor) Equal(otherTensor *Tensor) bool {
	t.AssertValid()
	otherTensor.AssertValid()
	if t == otherTensor {
		return true
	}
	if !t.shape.Equal(otherTensor.shape) {
		return false
	}
	equal := true
	t.MustConstFlatData(func(flat0 any) {
		otherTensor.MustConstFlatData(func(flat1 any) {
			t0V := reflect.ValueOf(flat0)
			t1V := reflect.ValueOf(flat1)
			for ii := range t0V.Len() {
				if !t0V.Index(ii).Equal(t1V.Index(ii)) {
					equal = false
					return
				}
			}
		})
	})
	return equal
}
