// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package tensors

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"

	"github.com/gomlx/tensorpad/pkg/core/dtypes/bfloat16"
	"github.com/x448/float16"
)

// TensorStringDefaultPrecision used by Tensor.String.
const TensorStringDefaultPrecision = 4

// maxRowElements is the largest row printed in full by Summary; longer rows are elided.
const maxRowElements = 8

var (
	typeFloat16  = reflect.TypeOf(float16.Float16(0))
	typeBFloat16 = reflect.TypeOf(bfloat16.BFloat16(0))
)

// String converts to string, if not too large. It uses t.Summary(precision=4).
func (t *Tensor) String() string {
	if !t.Ok() {
		return "<invalid tensor>"
	}
	return t.Summary(TensorStringDefaultPrecision)
}

// Summary returns a multi-line summary of the Tensor's content.
// Inspired by numpy output.
//
// Zero-size tensors are printed as their shape only.
func (t *Tensor) Summary(precision int) string {
	if t.Shape().IsZeroSize() {
		return t.Shape().String()
	}

	var buf bytes.Buffer
	w := func(format string, args ...any) { _, _ = fmt.Fprintf(&buf, format, args...) }
	wValue := func(v reflect.Value) {
		switch {
		case v.Type() == typeFloat16:
			w("%.*g", precision, v.Interface().(float16.Float16).Float32())
			return
		case v.Type() == typeBFloat16:
			w("%.*g", precision, v.Interface().(bfloat16.BFloat16).Float32())
			return
		}
		switch v.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			w("%d", v.Int())
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			w("%d", v.Uint())
		case reflect.Bool:
			w("%v", v.Bool())
		default:
			w("%.*g", precision, v.Interface())
		}
	}

	dims := t.Shape().Dimensions
	t.MustConstFlatData(func(flat any) {
		values := reflect.ValueOf(flat)
		for _, dim := range dims {
			w("[%d]", dim)
		}
		w("%s", values.Type().Elem())
		if len(dims) == 0 {
			w("(")
			wValue(values.Index(0))
			w(")")
			return
		}

		var printElements func(index, depth int)
		printElements = func(index, depth int) {
			dim := dims[depth]
			if depth == len(dims)-1 {
				w("{")
				for ii := range dim {
					if dim > maxRowElements && ii >= 3 && ii < dim-3 {
						if ii == 3 {
							w(", ...")
						}
						continue
					}
					if ii > 0 {
						w(", ")
					}
					wValue(values.Index(index + ii))
				}
				w("}")
				return
			}
			stride := 1
			for _, d := range dims[depth+1:] {
				stride *= d
			}
			indentStr := strings.Repeat(" ", depth+1)
			w("{")
			for ii := range dim {
				if ii > 0 {
					w(",\n%s", indentStr)
				}
				printElements(index+ii*stride, depth+1)
			}
			w("}")
		}
		printElements(0, 0)
	})
	return buf.String()
}
