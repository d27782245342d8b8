// SPDX-License-Identifier: MPL-2.0

package flow

import (
	"errors"
	"reflect"
	"testing"

	"chain-cli/internal/config"
)

// registryFrom builds a Registry from a raw flow table.
func registryFrom(flows map[string]any) *Registry {
	return NewRegistry(&config.Merged{
		Name: config.NameFlows,
		Data: map[string]any{"flow": flows},
	})
}

func TestResolve_KnownFlow(t *testing.T) {
	t.Parallel()

	reg := registryFrom(map[string]any{
		"sim": map[string]any{
			"tool":   "xcelium19",
			"params": map[string]any{"seed": int64(1)},
			"waves":  true,
		},
	})

	def, err := reg.Resolve("sim")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if def.Tool != "xcelium19" {
		t.Errorf("Tool = %q, want xcelium19", def.Tool)
	}
	if def.Params["seed"] != int64(1) {
		t.Errorf("Params[seed] = %v, want 1", def.Params["seed"])
	}
	if def.Params["waves"] != true {
		t.Errorf("Params[waves] = %v, want true (unknown keys preserved)", def.Params["waves"])
	}
}

func TestResolve_UnknownFlow(t *testing.T) {
	t.Parallel()

	reg := registryFrom(map[string]any{
		"sim": map[string]any{"tool": "xcelium19"},
	})

	def, err := reg.Resolve("nope")
	if def != nil {
		t.Errorf("Resolve returned partial result %+v for unknown flow", def)
	}
	if !errors.Is(err, ErrUnknownFlow) {
		t.Fatalf("Resolve error = %v, want ErrUnknownFlow", err)
	}

	var ufErr *UnknownFlowError
	if !errors.As(err, &ufErr) {
		t.Fatalf("error should be *UnknownFlowError, got: %T", err)
	}
	if ufErr.Name != "nope" {
		t.Errorf("UnknownFlowError.Name = %q, want nope", ufErr.Name)
	}
	if !reflect.DeepEqual(ufErr.Known, []string{"sim"}) {
		t.Errorf("UnknownFlowError.Known = %v, want [sim]", ufErr.Known)
	}
}

func TestResolve_NoImplicitDefault(t *testing.T) {
	t.Parallel()

	reg := registryFrom(map[string]any{"sim": map[string]any{"tool": "x"}})
	if _, err := reg.Resolve(""); !errors.Is(err, ErrUnknownFlow) {
		t.Errorf("Resolve(\"\") = %v, want ErrUnknownFlow (no implicit default flow)", err)
	}
}

func TestResolve_MissingToolRef(t *testing.T) {
	t.Parallel()

	reg := registryFrom(map[string]any{
		"sim": map[string]any{"params": map[string]any{"seed": int64(1)}},
	})
	if _, err := reg.Resolve("sim"); !errors.Is(err, ErrInvalidDefinition) {
		t.Errorf("Resolve without tool ref = %v, want ErrInvalidDefinition", err)
	}
}

func TestResolve_WrongTypes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  map[string]any
	}{
		{"numeric tool", map[string]any{"tool": int64(7)}},
		{"scalar flows", map[string]any{"tool": "x", "flows": "lint"}},
		{"non-string flow dep", map[string]any{"tool": "x", "flows": []any{int64(1)}}},
		{"scalar tools", map[string]any{"tool": "x", "tools": "xcelium19"}},
		{"non-string version pattern", map[string]any{"tool": "x", "tools": map[string]any{"xcelium19": int64(19)}}},
		{"scalar params", map[string]any{"tool": "x", "params": "seed"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			reg := registryFrom(map[string]any{"sim": tt.raw})
			if _, err := reg.Resolve("sim"); !errors.Is(err, ErrInvalidDefinition) {
				t.Errorf("Resolve = %v, want ErrInvalidDefinition", err)
			}
		})
	}
}

func TestResolveWithDeps_TransitiveClosure(t *testing.T) {
	t.Parallel()

	reg := registryFrom(map[string]any{
		"sim":   map[string]any{"tool": "xcelium19", "flows": []any{"lint"}},
		"lint":  map[string]any{"tool": "verilator", "flows": []any{"setup"}},
		"setup": map[string]any{"tool": "make"},
	})

	target, deps, err := reg.ResolveWithDeps("sim")
	if err != nil {
		t.Fatalf("ResolveWithDeps: %v", err)
	}
	if target.Name != "sim" {
		t.Errorf("target = %q, want sim", target.Name)
	}

	var names []string
	for _, d := range deps {
		names = append(names, d.Name)
	}
	if !reflect.DeepEqual(names, []string{"lint", "setup"}) {
		t.Errorf("dependent flows = %v, want [lint setup]", names)
	}
}

func TestResolveWithDeps_CycleSafe(t *testing.T) {
	t.Parallel()

	reg := registryFrom(map[string]any{
		"a": map[string]any{"tool": "x", "flows": []any{"b"}},
		"b": map[string]any{"tool": "y", "flows": []any{"a"}},
	})

	target, deps, err := reg.ResolveWithDeps("a")
	if err != nil {
		t.Fatalf("ResolveWithDeps on cycle: %v", err)
	}
	if target.Name != "a" || len(deps) != 1 || deps[0].Name != "b" {
		t.Errorf("cycle resolution produced target %v deps %v, want a with [b]", target.Name, deps)
	}
}

func TestResolveWithDeps_MissingDependentFlow(t *testing.T) {
	t.Parallel()

	reg := registryFrom(map[string]any{
		"sim": map[string]any{"tool": "x", "flows": []any{"ghost"}},
	})

	_, _, err := reg.ResolveWithDeps("sim")
	var ufErr *UnknownFlowError
	if !errors.As(err, &ufErr) || ufErr.Name != "ghost" {
		t.Errorf("ResolveWithDeps = %v, want UnknownFlowError for ghost", err)
	}
}

func TestNames_Sorted(t *testing.T) {
	t.Parallel()

	reg := registryFrom(map[string]any{
		"synth": map[string]any{"tool": "a"},
		"lint":  map[string]any{"tool": "b"},
		"sim":   map[string]any{"tool": "c"},
	})
	want := []string{"lint", "sim", "synth"}
	if got := reg.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}
