// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
)

var (
	// ErrConfigNotFound is the sentinel error wrapped by NotFoundError.
	ErrConfigNotFound = errors.New("configuration not found")

	// ErrConfigParse is the sentinel error wrapped by ParseError.
	ErrConfigParse = errors.New("configuration parse error")

	// ErrConfigConflict is the sentinel error wrapped by ConflictError.
	ErrConfigConflict = errors.New("configuration merge conflict")

	// ErrConfigPath is the sentinel error wrapped by PathError.
	ErrConfigPath = errors.New("configuration path error")

	// ErrRelativeEnvPath is the sentinel error wrapped by RelativeEnvPathError.
	ErrRelativeEnvPath = errors.New("relative path in environment variable")

	// ErrConfigSchema is the sentinel error wrapped by SchemaError.
	ErrConfigSchema = errors.New("configuration schema violation")
)

// PathKind classifies what is wrong with a configuration path.
type PathKind int

const (
	// PathNotExists means the path does not exist at all.
	PathNotExists PathKind = iota
	// PathNotFile means the path exists but is not a regular file.
	PathNotFile
	// PathNotDir means the path exists but is not a directory.
	PathNotDir
)

type (
	// NotFoundError is returned when no configuration document could be found
	// for a logical name in any search root. In merged mode this is only an
	// error for consumers that require at least one document; in single-source
	// mode it is always fatal.
	NotFoundError struct {
		Name LogicalName
	}

	// ParseError is returned when a configuration file exists but cannot be
	// decoded as TOML.
	ParseError struct {
		Name LogicalName
		Path string
		Err  error
	}

	// ConflictError is returned when the same key path holds incompatibly
	// typed values across sources (a mapping on one side, a leaf on the
	// other). Precedence must not silently resolve this: it almost always
	// signals an authoring mistake in one of the files.
	ConflictError struct {
		Name     LogicalName
		KeyPath  string
		HighPath string // higher-precedence source file
		LowPath  string // lower-precedence source file
		HighKind Kind
		LowKind  Kind
	}

	// PathError is returned when an explicitly given configuration path (a
	// --*-config file or a --config-home directory) is unusable. Implicit
	// search roots are skipped silently instead.
	PathError struct {
		Path string
		Kind PathKind
	}

	// RelativeEnvPathError is returned when an environment variable that must
	// hold an absolute path ($CHAIN_CONFIG_HOME, $XDG_CONFIG_HOME) holds a
	// relative one.
	RelativeEnvPathError struct {
		Var  string
		Path string
	}

	// SchemaError is returned when a merged document does not conform to the
	// embedded schema for its logical name.
	SchemaError struct {
		Name LogicalName
		Err  error
	}
)

// Error implements the error interface for NotFoundError.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s configuration found in any search root", e.Name)
}

// Unwrap returns ErrConfigNotFound for errors.Is() compatibility.
func (e *NotFoundError) Unwrap() error { return ErrConfigNotFound }

// Error implements the error interface for ParseError.
func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %s configuration %s: %v", e.Name, e.Path, e.Err)
}

// Unwrap returns the underlying decode error. ParseError also matches
// ErrConfigParse through Is.
func (e *ParseError) Unwrap() error { return e.Err }

// Is reports whether target is ErrConfigParse.
func (e *ParseError) Is(target error) bool { return target == ErrConfigParse }

// Error implements the error interface for ConflictError.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflicting value types for key %q in %s configuration: %s in %s vs %s in %s",
		e.KeyPath, e.Name, e.HighKind, e.HighPath, e.LowKind, e.LowPath)
}

// Unwrap returns ErrConfigConflict for errors.Is() compatibility.
func (e *ConflictError) Unwrap() error { return ErrConfigConflict }

// Error implements the error interface for PathError.
func (e *PathError) Error() string {
	switch e.Kind {
	case PathNotFile:
		return fmt.Sprintf("configuration path is not a file: %s", e.Path)
	case PathNotDir:
		return fmt.Sprintf("configuration path is not a directory: %s", e.Path)
	default:
		return fmt.Sprintf("configuration path does not exist: %s", e.Path)
	}
}

// Unwrap returns ErrConfigPath for errors.Is() compatibility.
func (e *PathError) Unwrap() error { return ErrConfigPath }

// Error implements the error interface for RelativeEnvPathError.
func (e *RelativeEnvPathError) Error() string {
	return fmt.Sprintf("path in $%s must be absolute, got %q", e.Var, e.Path)
}

// Unwrap returns ErrRelativeEnvPath for errors.Is() compatibility.
func (e *RelativeEnvPathError) Unwrap() error { return ErrRelativeEnvPath }

// Error implements the error interface for SchemaError.
func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s configuration does not match schema: %v", e.Name, e.Err)
}

// Unwrap returns the underlying validation error. SchemaError also matches
// ErrConfigSchema through Is.
func (e *SchemaError) Unwrap() error { return e.Err }

// Is reports whether target is ErrConfigSchema.
func (e *SchemaError) Is(target error) bool { return target == ErrConfigSchema }
