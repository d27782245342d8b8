// SPDX-License-Identifier: MPL-2.0

package buildenv

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"chain-cli/internal/config"
	"chain-cli/internal/flow"
	"chain-cli/internal/tool"
)

var (
	// ErrAlreadyPublished is returned when Publish is called twice.
	ErrAlreadyPublished = errors.New("build environment already published")

	// ErrNotPublished is returned by Current before a successful Publish.
	ErrNotPublished = errors.New("build environment not published")
)

// BuildEnv is the fully resolved context handed to the engine: the target
// flow, its dependent flows, every tool binding they reference, the merged
// theme, and the resolved process settings. Assembly is all-or-nothing; once
// published the value never changes for the life of the process.
type BuildEnv struct {
	Flow           *flow.Definition
	DependentFlows []*flow.Definition
	// Tools maps tool names to their resolved bindings, covering the
	// target flow and every dependent flow.
	Tools map[string]*tool.Binding
	// Versions maps tool names to the version subpath selected by the
	// flow's version requirement, when one was stated.
	Versions map[string]string
	Theme    *config.Merged
	Settings *config.Settings
}

var (
	publishMu sync.Mutex
	published *BuildEnv
)

// Assemble resolves the named flow, its dependent flows, and all referenced
// tool bindings into a BuildEnv. Any resolution failure aborts the whole
// assembly; a partial BuildEnv is never returned.
func Assemble(name string, flows *flow.Registry, tools *tool.Resolver, theme *config.Merged, settings *config.Settings) (*BuildEnv, error) {
	target, deps, err := flows.ResolveWithDeps(name)
	if err != nil {
		return nil, err
	}

	env := &BuildEnv{
		Flow:           target,
		DependentFlows: deps,
		Tools:          map[string]*tool.Binding{},
		Versions:       map[string]string{},
		Theme:          theme,
		Settings:       settings,
	}

	all := append([]*flow.Definition{target}, deps...)
	for _, def := range all {
		refs := append([]string{def.Tool}, sortedKeys(def.ToolVersions)...)
		for _, ref := range refs {
			if _, ok := env.Tools[ref]; ok {
				continue
			}
			binding, err := tools.Resolve(ref)
			if err != nil {
				return nil, err
			}
			env.Tools[ref] = binding
		}
		for toolName, pattern := range def.ToolVersions {
			binding := env.Tools[toolName]
			_, subpath, err := tool.MatchVersion(binding, pattern)
			if err != nil {
				return nil, err
			}
			env.Versions[toolName] = subpath
		}
	}

	return env, nil
}

// Publish installs env as the process-wide build environment. Exactly one
// Publish succeeds per process; later calls fail rather than swapping the
// environment out from under the engine handoff.
func Publish(env *BuildEnv) error {
	if env == nil {
		return fmt.Errorf("cannot publish a nil build environment")
	}
	publishMu.Lock()
	defer publishMu.Unlock()
	if published != nil {
		return ErrAlreadyPublished
	}
	published = env
	return nil
}

// Current returns the published build environment.
func Current() (*BuildEnv, error) {
	publishMu.Lock()
	defer publishMu.Unlock()
	if published == nil {
		return nil, ErrNotPublished
	}
	return published, nil
}

// Reset clears the published environment. Intended for tests.
func Reset() {
	publishMu.Lock()
	defer publishMu.Unlock()
	published = nil
}

// sortedKeys returns map keys in sorted order for deterministic resolution.
func sortedKeys(m map[string]string) []string {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}
