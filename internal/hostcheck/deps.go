// SPDX-License-Identifier: MPL-2.0

package hostcheck

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrMissingDependency is the sentinel error wrapped by MissingDependencyError.
var ErrMissingDependency = errors.New("missing host dependency")

// MissingDependencyError is returned when one or more required executables
// are not reachable. Names carries every missing dependency, not just the
// first, so the user can fix the whole host in one pass.
type MissingDependencyError struct {
	Names []string
}

// LookupFunc resolves an executable name to its path, typically exec.LookPath.
// Tests substitute their own lookup to simulate missing binaries.
type LookupFunc func(name string) (string, error)

// CheckDependencies verifies that every named executable resolves through
// lookup. When lookup is nil, exec.LookPath is used. The returned error, if
// any, lists all missing names in input order.
func CheckDependencies(required []string, lookup LookupFunc) error {
	if lookup == nil {
		lookup = exec.LookPath
	}

	var missing []string
	for _, name := range required {
		if name == "" {
			continue
		}
		if _, err := lookup(name); err != nil {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		return &MissingDependencyError{Names: missing}
	}
	return nil
}

// Error implements the error interface for MissingDependencyError.
func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("missing host dependencies: %s", strings.Join(e.Names, ", "))
}

// Unwrap returns ErrMissingDependency for errors.Is() compatibility.
func (e *MissingDependencyError) Unwrap() error { return ErrMissingDependency }
