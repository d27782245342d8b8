// SPDX-License-Identifier: MPL-2.0

package tool

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"chain-cli/internal/config"
	"chain-cli/pkg/types"
)

var (
	// ErrUnknownTool is the sentinel error wrapped by UnknownToolError.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrMissingEnvVar is the sentinel error wrapped by MissingEnvVarError.
	ErrMissingEnvVar = errors.New("missing environment variable")

	// ErrNoMatchingVersion is the sentinel error wrapped by NoMatchingVersionError.
	ErrNoMatchingVersion = errors.New("no matching tool version")

	// ErrInvalidBinding is the sentinel error wrapped by InvalidBindingError.
	ErrInvalidBinding = errors.New("invalid tool binding")
)

type (
	// ContainerRef identifies the execution sandbox for a tool. chain never
	// provisions containers itself; the identity is passed through to the
	// engine's tool adapters.
	ContainerRef struct {
		Image   string
		Volumes []string
	}

	// Binding is one resolved tool: where it lives, what environment it
	// needs, which versions are installed, and an optional container
	// identity. Immutable after resolution.
	Binding struct {
		Name string
		// Path is the tool installation path. Required-resolved: every
		// ${VAR} placeholder in it must expand.
		Path string
		// Env holds licensing and environment variables. Unresolved
		// placeholders stay literal here.
		Env map[string]string
		// Versions maps version identifiers to per-version subpaths.
		Versions map[string]string
		// Container is the tool's execution sandbox identity, if any.
		Container ContainerRef
		// Extra preserves unrecognized keys for forward compatibility.
		Extra map[string]any
	}

	// Resolver answers tool-binding lookups against the merged tools
	// configuration.
	Resolver struct {
		tools  map[string]map[string]any
		lookup LookupEnv
	}

	// UnknownToolError is returned when a flow references a tool with no
	// entry in the merged tools configuration.
	UnknownToolError struct {
		Name  string
		Known []string
	}

	// MissingEnvVarError is returned when a required-resolved field still
	// contains unresolved ${VAR} placeholders after expansion.
	MissingEnvVarError struct {
		Tool  string
		Field string
		Vars  []string
	}

	// NoMatchingVersionError is returned when a flow's version requirement
	// matches none of a binding's installed versions.
	NoMatchingVersionError struct {
		Tool    string
		Pattern string
		Known   []string
	}

	// InvalidBindingError is returned when a tool entry exists but cannot
	// be decoded.
	InvalidBindingError struct {
		Tool   string
		Reason string
	}
)

// NewResolver builds a resolver from the merged tools document. A nil
// lookup uses the process environment.
func NewResolver(merged *config.Merged, lookup LookupEnv) *Resolver {
	tools := make(map[string]map[string]any)
	for name, raw := range merged.Table("tool") {
		if table, ok := raw.(map[string]any); ok {
			tools[name] = table
		}
	}
	return &Resolver{tools: tools, lookup: lookup}
}

// Names returns all known tool names, sorted.
func (r *Resolver) Names() []string {
	names := maps.Keys(r.tools)
	slices.Sort(names)
	return names
}

// Resolve looks up a tool binding by reference and applies the single
// ${VAR} expansion pass. Path must resolve completely; Env values keep
// unresolved placeholders literally.
func (r *Resolver) Resolve(ref string) (*Binding, error) {
	raw, ok := r.tools[ref]
	if !ok {
		return nil, &UnknownToolError{Name: ref, Known: r.Names()}
	}

	binding, err := decodeBinding(ref, raw)
	if err != nil {
		return nil, err
	}
	if err := types.FilesystemPath(binding.Path).Validate(); err != nil {
		return nil, &InvalidBindingError{Tool: ref, Reason: err.Error()}
	}

	expanded, missing := Expand(binding.Path, r.lookup)
	if len(missing) > 0 {
		return nil, &MissingEnvVarError{Tool: ref, Field: "path", Vars: missing}
	}
	binding.Path = expanded

	for key, value := range binding.Env {
		expanded, _ := Expand(value, r.lookup)
		binding.Env[key] = expanded
	}

	return binding, nil
}

// MatchVersion finds the newest version identifier in the binding that
// matches the given pattern (an anchored regular expression). Versions are
// ordered naturally, with digit runs compared by numeric value, so "10.2"
// outranks "9.1". The subpath registered for the winning version is returned
// alongside it.
func MatchVersion(b *Binding, pattern string) (version, subpath string, err error) {
	re, err := regexp.Compile("^(?:" + pattern + ")$")
	if err != nil {
		return "", "", &InvalidBindingError{Tool: b.Name, Reason: fmt.Sprintf("invalid version pattern %q: %v", pattern, err)}
	}

	versions := maps.Keys(b.Versions)
	slices.SortFunc(versions, compareNatural)

	// Iterate descending so the newest matching version wins.
	for i := len(versions) - 1; i >= 0; i-- {
		if re.MatchString(versions[i]) {
			return versions[i], b.Versions[versions[i]], nil
		}
	}
	return "", "", &NoMatchingVersionError{Tool: b.Name, Pattern: pattern, Known: versions}
}

// compareNatural orders version identifiers chunk by chunk: digit runs
// compare by numeric value, everything else byte-wise. A bytewise tiebreak
// keeps the order total when identifiers differ only in leading zeros
// ("19.3" vs "19.03").
func compareNatural(a, b string) int {
	origA, origB := a, b
	for a != "" && b != "" {
		aDigit, bDigit := isDigit(a[0]), isDigit(b[0])
		switch {
		case aDigit && bDigit:
			var aRun, bRun string
			aRun, a = splitDigits(a)
			bRun, b = splitDigits(b)
			if c := compareDigits(aRun, bRun); c != 0 {
				return c
			}
		case aDigit != bDigit:
			if a[0] < b[0] {
				return -1
			}
			return 1
		default:
			if a[0] != b[0] {
				if a[0] < b[0] {
					return -1
				}
				return 1
			}
			a, b = a[1:], b[1:]
		}
	}
	if a == "" && b != "" {
		return -1
	}
	if a != "" && b == "" {
		return 1
	}
	return strings.Compare(origA, origB)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// splitDigits cuts the leading digit run off s.
func splitDigits(s string) (run, rest string) {
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return s[:i], s[i:]
}

// compareDigits compares two digit runs by numeric value without parsing,
// so arbitrarily long runs cannot overflow.
func compareDigits(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

// decodeBinding converts a raw tool table into a Binding.
func decodeBinding(name string, raw map[string]any) (*Binding, error) {
	b := &Binding{
		Name:     name,
		Env:      map[string]string{},
		Versions: map[string]string{},
		Extra:    map[string]any{},
	}

	for key, value := range raw {
		switch key {
		case "path":
			path, ok := value.(string)
			if !ok {
				return nil, &InvalidBindingError{Tool: name, Reason: "path must be a string"}
			}
			b.Path = path
		case "env":
			table, ok := value.(map[string]any)
			if !ok {
				return nil, &InvalidBindingError{Tool: name, Reason: "env must be a table"}
			}
			for k, v := range table {
				s, ok := v.(string)
				if !ok {
					return nil, &InvalidBindingError{Tool: name, Reason: fmt.Sprintf("env value for %q must be a string", k)}
				}
				b.Env[k] = s
			}
		case "versions":
			table, ok := value.(map[string]any)
			if !ok {
				return nil, &InvalidBindingError{Tool: name, Reason: "versions must be a table"}
			}
			for k, v := range table {
				s, ok := v.(string)
				if !ok {
					return nil, &InvalidBindingError{Tool: name, Reason: fmt.Sprintf("version subpath for %q must be a string", k)}
				}
				b.Versions[k] = s
			}
		case "container":
			table, ok := value.(map[string]any)
			if !ok {
				return nil, &InvalidBindingError{Tool: name, Reason: "container must be a table"}
			}
			if image, ok := table["image"]; ok {
				s, ok := image.(string)
				if !ok {
					return nil, &InvalidBindingError{Tool: name, Reason: "container image must be a string"}
				}
				b.Container.Image = s
			}
			if volumes, ok := table["volumes"]; ok {
				list, ok := volumes.([]any)
				if !ok {
					return nil, &InvalidBindingError{Tool: name, Reason: "container volumes must be an array"}
				}
				for _, item := range list {
					s, ok := item.(string)
					if !ok {
						return nil, &InvalidBindingError{Tool: name, Reason: "container volumes must contain only strings"}
					}
					b.Container.Volumes = append(b.Container.Volumes, s)
				}
			}
		default:
			b.Extra[key] = value
		}
	}

	return b, nil
}

// Error implements the error interface for UnknownToolError.
func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool %q", e.Name)
}

// Unwrap returns ErrUnknownTool for errors.Is() compatibility.
func (e *UnknownToolError) Unwrap() error { return ErrUnknownTool }

// Error implements the error interface for MissingEnvVarError.
func (e *MissingEnvVarError) Error() string {
	return fmt.Sprintf("tool %q field %q references unset environment variables: %v", e.Tool, e.Field, e.Vars)
}

// Unwrap returns ErrMissingEnvVar for errors.Is() compatibility.
func (e *MissingEnvVarError) Unwrap() error { return ErrMissingEnvVar }

// Error implements the error interface for NoMatchingVersionError.
func (e *NoMatchingVersionError) Error() string {
	return fmt.Sprintf("tool %q has no version matching %q (installed: %v)", e.Tool, e.Pattern, e.Known)
}

// Unwrap returns ErrNoMatchingVersion for errors.Is() compatibility.
func (e *NoMatchingVersionError) Unwrap() error { return ErrNoMatchingVersion }

// Error implements the error interface for InvalidBindingError.
func (e *InvalidBindingError) Error() string {
	return fmt.Sprintf("invalid binding for tool %q: %s", e.Tool, e.Reason)
}

// Unwrap returns ErrInvalidBinding for errors.Is() compatibility.
func (e *InvalidBindingError) Unwrap() error { return ErrInvalidBinding }
