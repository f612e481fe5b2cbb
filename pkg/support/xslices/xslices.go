// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package xslices provide missing functionality to the slices package.
package xslices

import (
	"flag"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

// FillSlice with fill the slice with the given value.
func FillSlice[T any](slice []T, value T) {
	// Apparently, the fastest way is by using copy.
	if len(slice) == 0 {
		return
	}
	slice[0] = value
	filled := 1
	for ; filled < len(slice); filled *= 2 {
		copy(slice[filled:], slice[:filled])
	}
}

// Iota returns a slice of incremental values, starting at start.
// Eg: Iota(3.0, 2) -> []float64{3.0, 4.0}
func Iota[T constraints.Integer | constraints.Float](start T, len int) (slice []T) {
	slice = make([]T, len)
	for ii := range slice {
		slice[ii] = start + T(ii)
	}
	return
}

// ParseList splits a comma-separated list and parses each element with parserFn.
// Spaces around the elements and enclosing brackets ("[...]", "{...}" or "(...)") are ignored.
// An empty list returns an empty (not nil) slice.
func ParseList[T any](listStr string, parserFn func(valueStr string) (T, error)) ([]T, error) {
	listStr = strings.TrimSpace(listStr)
	listStr = strings.TrimSpace(strings.Trim(listStr, "[]{}()"))
	if listStr == "" {
		return make([]T, 0), nil
	}
	parts := strings.Split(listStr, ",")
	list := make([]T, len(parts))
	for ii, part := range parts {
		var err error
		list[ii], err = parserFn(strings.TrimSpace(part))
		if err != nil {
			return nil, errors.WithMessagef(err, "element #%d of %q", ii, listStr)
		}
	}
	return list, nil
}

// Flag creates a flag for []T with the given name, description and default value in flag.CommandLine.
// It takes as input a parser for an individual T value.
//
// The returned pointer holds defaultValue until the flag is set. Setting the flag to an empty
// string gives an empty (not nil) slice, so callers can distinguish "not set" when defaultValue is nil.
func Flag[T any](name string, defaultValue []T, usage string,
	parserFn func(valueStr string) (T, error)) *[]T {
	return FlagSetVar(flag.CommandLine, name, defaultValue, usage, parserFn)
}

// FlagSetVar is like Flag, but defines the flag in the given flag.FlagSet.
func FlagSetVar[T any](fs *flag.FlagSet, name string, defaultValue []T, usage string,
	parserFn func(valueStr string) (T, error)) *[]T {
	f := &genericSliceFlagImpl[T]{
		parsedSlice: defaultValue,
		parserFn:    parserFn,
	}
	fs.Var(f, name, usage)
	return &f.parsedSlice
}

// genericSliceFlagImpl implements flag.Value for a generic type.
type genericSliceFlagImpl[T any] struct {
	parsedSlice []T
	parserFn    func(valueStr string) (T, error)
}

func (f *genericSliceFlagImpl[T]) String() string {
	if f == nil || len(f.parsedSlice) == 0 {
		return ""
	}
	parts := make([]string, len(f.parsedSlice))
	for ii, elem := range f.parsedSlice {
		parts[ii] = fmt.Sprintf("%v", elem)
	}
	return strings.Join(parts, ",")
}

func (f *genericSliceFlagImpl[T]) Set(listStr string) error {
	parsed, err := ParseList(listStr, f.parserFn)
	if err != nil {
		return err
	}
	f.parsedSlice = parsed
	return nil
}
