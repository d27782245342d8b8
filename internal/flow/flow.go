// SPDX-License-Identifier: MPL-2.0

package flow

import (
	"errors"
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"chain-cli/internal/config"
)

var (
	// ErrUnknownFlow is the sentinel error wrapped by UnknownFlowError.
	ErrUnknownFlow = errors.New("unknown flow")

	// ErrInvalidDefinition is the sentinel error wrapped by InvalidDefinitionError.
	ErrInvalidDefinition = errors.New("invalid flow definition")
)

type (
	// Definition is one resolved flow: the tool it runs with, the flows it
	// depends on, its tool version requirements, and its open parameter set.
	Definition struct {
		Name string
		// Tool names the tool binding this flow executes with.
		Tool string
		// DependsOn lists flows pulled into the same invocation.
		DependsOn []string
		// ToolVersions maps tool names to version match patterns.
		ToolVersions map[string]string
		// Params holds flow-specific parameters, schema-free by design.
		Params map[string]any
	}

	// Registry holds every flow from the merged configuration and answers
	// name lookups. It is immutable after construction.
	Registry struct {
		flows map[string]map[string]any
	}

	// UnknownFlowError is returned when the requested flow name has no entry
	// in the merged flows configuration.
	UnknownFlowError struct {
		Name  string
		Known []string
	}

	// InvalidDefinitionError is returned when a flow entry exists but cannot
	// be decoded (wrong value types, missing tool reference).
	InvalidDefinitionError struct {
		Flow   string
		Reason string
	}
)

// NewRegistry builds a registry from the merged flows document. Entries that
// are not tables are rejected by schema validation before this point; the
// registry still skips them defensively rather than panicking.
func NewRegistry(merged *config.Merged) *Registry {
	flows := make(map[string]map[string]any)
	for name, raw := range merged.Table("flow") {
		if table, ok := raw.(map[string]any); ok {
			flows[name] = table
		}
	}
	return &Registry{flows: flows}
}

// Names returns all registered flow names, sorted.
func (r *Registry) Names() []string {
	names := maps.Keys(r.flows)
	slices.Sort(names)
	return names
}

// Resolve looks up a single flow by name. The lookup is total: any absent
// name yields UnknownFlowError and a nil Definition, never a partial result.
func (r *Registry) Resolve(name string) (*Definition, error) {
	raw, ok := r.flows[name]
	if !ok {
		return nil, &UnknownFlowError{Name: name, Known: r.Names()}
	}
	return decodeDefinition(name, raw)
}

// ResolveWithDeps resolves the target flow and the transitive closure of its
// dependent flows. The closure is cycle-safe; every referenced flow must
// exist. Dependents are returned in discovery order, target excluded.
func (r *Registry) ResolveWithDeps(name string) (*Definition, []*Definition, error) {
	target, err := r.Resolve(name)
	if err != nil {
		return nil, nil, err
	}

	seen := map[string]bool{name: true}
	var deps []*Definition
	queue := append([]string(nil), target.DependsOn...)

	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if seen[next] {
			continue
		}
		seen[next] = true

		dep, err := r.Resolve(next)
		if err != nil {
			return nil, nil, err
		}
		deps = append(deps, dep)
		queue = append(queue, dep.DependsOn...)
	}

	return target, deps, nil
}

// decodeDefinition converts a raw flow table into a Definition. Keys with
// dedicated meaning (tool, flows, tools, params) are decoded strictly; all
// other keys are preserved in Params for the engine to consume.
func decodeDefinition(name string, raw map[string]any) (*Definition, error) {
	def := &Definition{Name: name, Params: map[string]any{}}

	for key, value := range raw {
		switch key {
		case "tool":
			tool, ok := value.(string)
			if !ok {
				return nil, &InvalidDefinitionError{Flow: name, Reason: "tool reference must be a string"}
			}
			def.Tool = tool
		case "flows":
			list, ok := value.([]any)
			if !ok {
				return nil, &InvalidDefinitionError{Flow: name, Reason: "flows must be an array of flow names"}
			}
			for _, item := range list {
				dep, ok := item.(string)
				if !ok {
					return nil, &InvalidDefinitionError{Flow: name, Reason: "flows must contain only strings"}
				}
				def.DependsOn = append(def.DependsOn, dep)
			}
		case "tools":
			table, ok := value.(map[string]any)
			if !ok {
				return nil, &InvalidDefinitionError{Flow: name, Reason: "tools must be a table of version patterns"}
			}
			def.ToolVersions = make(map[string]string, len(table))
			for tool, pattern := range table {
				p, ok := pattern.(string)
				if !ok {
					return nil, &InvalidDefinitionError{Flow: name, Reason: fmt.Sprintf("version pattern for tool %q must be a string", tool)}
				}
				def.ToolVersions[tool] = p
			}
		case "params":
			table, ok := value.(map[string]any)
			if !ok {
				return nil, &InvalidDefinitionError{Flow: name, Reason: "params must be a table"}
			}
			for k, v := range table {
				def.Params[k] = v
			}
		default:
			def.Params[key] = value
		}
	}

	if def.Tool == "" {
		return nil, &InvalidDefinitionError{Flow: name, Reason: "missing required tool reference"}
	}
	return def, nil
}

// Error implements the error interface for UnknownFlowError.
func (e *UnknownFlowError) Error() string {
	return fmt.Sprintf("unknown flow %q", e.Name)
}

// Unwrap returns ErrUnknownFlow for errors.Is() compatibility.
func (e *UnknownFlowError) Unwrap() error { return ErrUnknownFlow }

// Error implements the error interface for InvalidDefinitionError.
func (e *InvalidDefinitionError) Error() string {
	return fmt.Sprintf("invalid definition for flow %q: %s", e.Flow, e.Reason)
}

// Unwrap returns ErrInvalidDefinition for errors.Is() compatibility.
func (e *InvalidDefinitionError) Unwrap() error { return ErrInvalidDefinition }
