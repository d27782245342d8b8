// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"chain-cli/internal/config"
	"chain-cli/internal/engine"
	"chain-cli/internal/flow"
	"chain-cli/internal/hostcheck"
	"chain-cli/internal/issue"
	"chain-cli/internal/tool"
	"chain-cli/pkg/types"
)

// Exit codes by failure stage. The engine's own exit code passes through
// unchanged when a build runs; these apply only to failures before handoff.
const (
	// ExitIncompatibleHost is returned when the engine version check fails.
	ExitIncompatibleHost types.ExitCode = 2
	// ExitMissingDependencies is returned when required host programs or the
	// engine binary are absent.
	ExitMissingDependencies types.ExitCode = 3
	// ExitConfigError is returned for configuration location, parse, merge,
	// and schema failures.
	ExitConfigError types.ExitCode = 4
	// ExitResolveError is returned for flow and tool resolution failures.
	ExitResolveError types.ExitCode = 5
)

// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
type ExitError struct {
	Code types.ExitCode
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// classify maps a pipeline error to its exit code.
func classify(err error) types.ExitCode {
	switch {
	case errors.Is(err, hostcheck.ErrIncompatibleHost),
		errors.Is(err, engine.ErrVersionUndetected),
		errors.Is(err, hostcheck.ErrInvalidVersion):
		return ExitIncompatibleHost
	case errors.Is(err, hostcheck.ErrMissingDependency),
		errors.Is(err, engine.ErrEngineNotFound):
		return ExitMissingDependencies
	case errors.Is(err, config.ErrConfigNotFound),
		errors.Is(err, config.ErrConfigParse),
		errors.Is(err, config.ErrConfigConflict),
		errors.Is(err, config.ErrConfigPath),
		errors.Is(err, config.ErrRelativeEnvPath),
		errors.Is(err, config.ErrConfigSchema):
		return ExitConfigError
	case errors.Is(err, flow.ErrUnknownFlow),
		errors.Is(err, flow.ErrInvalidDefinition),
		errors.Is(err, tool.ErrUnknownTool),
		errors.Is(err, tool.ErrMissingEnvVar),
		errors.Is(err, tool.ErrNoMatchingVersion),
		errors.Is(err, tool.ErrInvalidBinding):
		return ExitResolveError
	default:
		return 1
	}
}

// issueFor maps a pipeline error to its issue card, or 0 when no card applies.
func issueFor(err error) issue.Id {
	switch {
	case errors.Is(err, config.ErrConfigNotFound):
		return issue.ConfigNotFoundId
	case errors.Is(err, config.ErrConfigParse), errors.Is(err, config.ErrConfigSchema):
		return issue.ConfigParseErrorId
	case errors.Is(err, config.ErrConfigConflict):
		return issue.ConfigConflictId
	case errors.Is(err, flow.ErrUnknownFlow):
		return issue.UnknownFlowId
	case errors.Is(err, tool.ErrUnknownTool):
		return issue.UnknownToolId
	case errors.Is(err, tool.ErrMissingEnvVar):
		return issue.MissingEnvVarId
	case errors.Is(err, hostcheck.ErrIncompatibleHost):
		return issue.IncompatibleHostId
	case errors.Is(err, hostcheck.ErrMissingDependency):
		return issue.MissingDependenciesId
	case errors.Is(err, engine.ErrEngineNotFound):
		return issue.EngineNotFoundId
	default:
		return 0
	}
}
