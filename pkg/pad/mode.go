// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package pad

import (
	"strconv"
	"strings"
)

// Mode selects how the output positions outside the input range are filled.
type Mode int

const (
	// Constant fills positions outside the input with the fill value. It is the default.
	Constant Mode = iota

	// Edge repeats the nearest border value of the input.
	Edge

	// Reflect mirrors the input around its border values, without repeating them.
	// So padding [1, 2, 3] by 2 on both sides gives [3, 2, 1, 2, 3, 2, 1].
	Reflect
)

var modeNames = []string{"constant", "edge", "reflect"}

// String returns the lower-case name of the mode, as used by ParseMode.
func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return "Mode(" + strconv.Itoa(int(m)) + ")"
	}
	return modeNames[m]
}

// IsValid returns whether m is one of the defined modes.
func (m Mode) IsValid() bool {
	return m >= Constant && m <= Reflect
}

// ParseMode converts a mode name (case-insensitive) to a Mode.
// An empty name returns Constant.
// Unknown names return an error of kind InvalidArgument.
func ParseMode(name string) (Mode, error) {
	if name == "" {
		return Constant, nil
	}
	lower := strings.ToLower(strings.TrimSpace(name))
	for ii, modeName := range modeNames {
		if lower == modeName {
			return Mode(ii), nil
		}
	}
	return Constant, Errorf(InvalidArgument, "unknown pad mode %q, valid modes are %s",
		name, strings.Join(modeNames, ", "))
}
