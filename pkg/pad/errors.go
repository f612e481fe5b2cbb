// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package pad

import (
	"fmt"

	"github.com/gomlx/tensorpad/pkg/core/shapeinference"
	"github.com/pkg/errors"
)

// ErrorKind classifies the errors returned by this package.
type ErrorKind int

const (
	// UnknownKind is returned by KindOf for errors not created by this package.
	UnknownKind ErrorKind = iota

	// MalformedPadSpec is the kind of error for a pad list whose length doesn't match the axes,
	// axes out of range or repeated axes.
	MalformedPadSpec

	// NegativeOutputDimension is the kind of error when the cropping of an axis exceeds its dimension.
	NegativeOutputDimension

	// IllegalPadOnEmptyDimension is the kind of error when padding an axis of dimension 0 in
	// a mode other than Constant.
	IllegalPadOnEmptyDimension

	// InvalidArgument is the kind of error for invalid modes, fill values or input tensors.
	InvalidArgument
)

var errorKindNames = map[ErrorKind]string{
	UnknownKind:                "UnknownKind",
	MalformedPadSpec:           "MalformedPadSpec",
	NegativeOutputDimension:    "NegativeOutputDimension",
	IllegalPadOnEmptyDimension: "IllegalPadOnEmptyDimension",
	InvalidArgument:            "InvalidArgument",
}

// String implements fmt.Stringer.
func (k ErrorKind) String() string {
	if name, found := errorKindNames[k]; found {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error is the error returned by the pad operations. Its message is Msg verbatim.
//
// Use errors.Is with one of the sentinel errors (ErrMalformedPadSpec, etc.) or KindOf to classify it.
type Error struct {
	Kind ErrorKind
	Msg  string
}

// Error implements the error interface.
func (e *Error) Error() string { return e.Msg }

// Is reports whether target is the sentinel error of the same kind.
func (e *Error) Is(target error) bool {
	sentinel, ok := target.(*Error)
	return ok && sentinel.Msg == "" && sentinel.Kind == e.Kind
}

// Sentinel errors, one per ErrorKind, to be used with errors.Is.
var (
	ErrMalformedPadSpec           = &Error{Kind: MalformedPadSpec}
	ErrNegativeOutputDimension    = &Error{Kind: NegativeOutputDimension}
	ErrIllegalPadOnEmptyDimension = &Error{Kind: IllegalPadOnEmptyDimension}
	ErrInvalidArgument            = &Error{Kind: InvalidArgument}
)

// KindOf returns the ErrorKind of err, or UnknownKind if it is not (or doesn't wrap) an *Error.
func KindOf(err error) ErrorKind {
	var padErr *Error
	if errors.As(err, &padErr) {
		return padErr.Kind
	}
	return UnknownKind
}

// Errorf creates an *Error of the given kind with a stack trace.
// It is used by packages that adapt other calling conventions to Pad, so their errors classify the same way.
func Errorf(kind ErrorKind, format string, args ...any) error {
	return errors.WithStack(&Error{Kind: kind, Msg: fmt.Sprintf(format, args...)})
}

// fromShapeInference converts an error from the shapeinference package to an *Error, keeping its message.
func fromShapeInference(err error) error {
	var opErr *shapeinference.OpError
	if !errors.As(err, &opErr) {
		return errors.WithStack(&Error{Kind: InvalidArgument, Msg: err.Error()})
	}
	kind := InvalidArgument
	switch {
	case errors.Is(opErr.Cause, shapeinference.ErrNegativeOutputDimension):
		kind = NegativeOutputDimension
	case errors.Is(opErr.Cause, shapeinference.ErrPadOnEmptyDimension):
		kind = IllegalPadOnEmptyDimension
	case errors.Is(opErr.Cause, shapeinference.ErrInvalidPadding):
		kind = MalformedPadSpec
	}
	return errors.WithStack(&Error{Kind: kind, Msg: opErr.Msg})
}
