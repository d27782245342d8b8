// SPDX-License-Identifier: MPL-2.0

package tool

import (
	"os"
	"strings"
)

// LookupEnv resolves an environment variable name, typically os.LookupEnv.
// Tests substitute their own lookup for determinism.
type LookupEnv func(name string) (string, bool)

// Expand performs one pass of ${VAR} substitution over s. Only the braced
// form is recognized; a bare $VAR passes through untouched, as do malformed
// placeholders. Unresolved placeholders are preserved literally, never
// silently dropped, and their names are returned so callers can enforce
// required-resolved fields.
//
// Expansion is a single pass: values substituted in never get re-expanded,
// so a variable holding "${OTHER}" cannot recurse.
func Expand(s string, lookup LookupEnv) (expanded string, missing []string) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if !strings.Contains(s, "${") {
		return s, nil
	}

	var b strings.Builder
	for i := 0; i < len(s); {
		start := strings.Index(s[i:], "${")
		if start < 0 {
			b.WriteString(s[i:])
			break
		}
		start += i
		end := strings.IndexByte(s[start+2:], '}')
		if end < 0 {
			b.WriteString(s[start:])
			break
		}

		name := s[start+2 : start+2+end]
		b.WriteString(s[i:start])
		if name == "" || !validVarName(name) {
			b.WriteString(s[start : start+2+end+1])
		} else if value, ok := lookup(name); ok {
			b.WriteString(value)
		} else {
			b.WriteString(s[start : start+2+end+1])
			missing = append(missing, name)
		}
		i = start + 2 + end + 1
	}
	return b.String(), missing
}

// validVarName reports whether name is a plausible environment variable
// name: letters, digits, and underscores, not starting with a digit.
func validVarName(name string) bool {
	for i, r := range name {
		switch {
		case r == '_' || (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z'):
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
