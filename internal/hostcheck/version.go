// SPDX-License-Identifier: MPL-2.0

package hostcheck

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrIncompatibleHost is the sentinel error wrapped by IncompatibleHostError.
var ErrIncompatibleHost = errors.New("incompatible host")

// ErrInvalidVersion is the sentinel error wrapped by InvalidVersionError.
var ErrInvalidVersion = errors.New("invalid version string")

type (
	// Version is a major.minor pair. Patch-level differences never affect
	// compatibility, so they are parsed and discarded.
	Version struct {
		Major int
		Minor int
	}

	// IncompatibleHostError is returned when the host-side engine version
	// cannot satisfy the required version: the major components differ, or
	// the minor component is below the required minimum.
	IncompatibleHostError struct {
		Current  Version
		Required Version
	}

	// InvalidVersionError is returned when a version string cannot be parsed.
	InvalidVersionError struct {
		Input string
	}
)

// ParseVersion parses "major.minor" or "major.minor.patch" strings, tolerating
// a leading "v" and trailing junk after the patch component (some engines
// report versions like "4.5.2+dfsg").
func ParseVersion(s string) (Version, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(s), "v")
	parts := strings.SplitN(trimmed, ".", 3)
	if len(parts) < 2 {
		return Version{}, &InvalidVersionError{Input: s}
	}

	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return Version{}, &InvalidVersionError{Input: s}
	}
	minor, err := strconv.Atoi(parts[1])
	if err != nil {
		return Version{}, &InvalidVersionError{Input: s}
	}

	return Version{Major: major, Minor: minor}, nil
}

// String returns the "major.minor" representation.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// CheckVersion verifies that current can stand in for required. The major
// version must match exactly; the minor version must be at least the required
// minimum. A newer major is rejected just like an older one, because engine
// majors break build-script compatibility in both directions.
func CheckVersion(current, required Version) error {
	if current.Major != required.Major || current.Minor < required.Minor {
		return &IncompatibleHostError{Current: current, Required: required}
	}
	return nil
}

// Error implements the error interface for IncompatibleHostError.
func (e *IncompatibleHostError) Error() string {
	return fmt.Sprintf("incompatible host: engine version %s does not satisfy required %s (major must match, minor must be >= required)",
		e.Current, e.Required)
}

// Unwrap returns ErrIncompatibleHost for errors.Is() compatibility.
func (e *IncompatibleHostError) Unwrap() error { return ErrIncompatibleHost }

// Error implements the error interface for InvalidVersionError.
func (e *InvalidVersionError) Error() string {
	return fmt.Sprintf("invalid version string %q: expected major.minor[.patch]", e.Input)
}

// Unwrap returns ErrInvalidVersion for errors.Is() compatibility.
func (e *InvalidVersionError) Unwrap() error { return ErrInvalidVersion }
