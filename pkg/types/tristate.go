// SPDX-License-Identifier: MPL-2.0

// Package types defines cross-cutting value types used by multiple domain
// packages (config, buildenv, theme). These are foundation types that carry
// semantic meaning and validation but have no domain-specific dependencies.
//
// This package is a leaf dependency: it imports only the standard library.
// Domain packages import it; it never imports domain packages.
package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidTristate is the sentinel error wrapped by InvalidTristateError.
var ErrInvalidTristate = errors.New("invalid tri-state value")

type (
	// Tristate is a three-way boolean for CLI options that distinguish
	// "explicitly enabled", "explicitly disabled", and "not given".
	// The zero value is TristateUnspecified, so an untouched flag never
	// masquerades as an explicit choice.
	Tristate int

	// InvalidTristateError is returned when a token cannot be parsed as a
	// tri-state boolean.
	InvalidTristateError struct {
		Token string
	}
)

const (
	// TristateUnspecified means no explicit value was given.
	TristateUnspecified Tristate = iota
	// TristateFalse means the value was explicitly disabled.
	TristateFalse
	// TristateTrue means the value was explicitly enabled.
	TristateTrue
)

// ParseTristate parses a boolean token case-insensitively.
// Accepted true tokens: true, t, yes, 1. Accepted false tokens: false, f, no, 0.
// Any other token yields InvalidTristateError; an empty token is not valid
// either; "unspecified" is represented by never calling ParseTristate.
func ParseTristate(token string) (Tristate, error) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "true", "t", "yes", "1":
		return TristateTrue, nil
	case "false", "f", "no", "0":
		return TristateFalse, nil
	default:
		return TristateUnspecified, &InvalidTristateError{Token: token}
	}
}

// Bool collapses the tri-state to a plain boolean, substituting fallback
// when the value is unspecified.
func (t Tristate) Bool(fallback bool) bool {
	switch t {
	case TristateTrue:
		return true
	case TristateFalse:
		return false
	default:
		return fallback
	}
}

// IsSpecified reports whether an explicit value was given.
func (t Tristate) IsSpecified() bool { return t != TristateUnspecified }

// String returns "true", "false", or "unspecified".
func (t Tristate) String() string {
	switch t {
	case TristateTrue:
		return "true"
	case TristateFalse:
		return "false"
	default:
		return "unspecified"
	}
}

// Error implements the error interface for InvalidTristateError.
func (e *InvalidTristateError) Error() string {
	return fmt.Sprintf("invalid tri-state value %q: expected one of true/t/yes/1 or false/f/no/0", e.Token)
}

// Unwrap returns ErrInvalidTristate for errors.Is() compatibility.
func (e *InvalidTristateError) Unwrap() error { return ErrInvalidTristate }
