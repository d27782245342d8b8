// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"

	"chain-cli/internal/buildenv"
	"chain-cli/internal/config"
	"chain-cli/internal/engine"
	"chain-cli/internal/flow"
	"chain-cli/internal/hostcheck"
	"chain-cli/internal/issue"
	"chain-cli/internal/tool"
	"chain-cli/pkg/types"
)

// requiredPrograms are the host executables every flow needs regardless of
// which tools it binds. The engine binary is checked separately so its
// failure gets its own remediation card.
var requiredPrograms = []string{"python3", "git"}

// runFlow is the build dispatch pipeline: settings, host checks,
// configuration resolution, flow and tool resolution, environment assembly,
// engine handoff. Every stage is fail-fast; nothing is retried or defaulted
// past a failure.
func runFlow(ctx context.Context, opts config.Options, extraArgs []string) error {
	settings, err := config.LoadSettings(opts)
	if err != nil {
		return fail(err)
	}

	logger := newLogger("build/init")
	logger.Debug("settings resolved",
		"project_root", settings.ProjectRoot,
		"engine", settings.EngineBinary,
		"flow", settings.Flow)

	if err := checkHost(ctx, settings); err != nil {
		return fail(issue.NewErrorContext().
			WithOperation("verify host environment").
			WithResource(settings.EngineBinary).
			WithSuggestion("Run 'chain doctor' for a full host report").
			Wrap(err).
			BuildError())
	}
	logger.Debug("host check passed")

	merged, err := loadConfigs(settings)
	if err != nil {
		return fail(err)
	}
	logger.Debug("configuration merged",
		"flows_files", len(merged[config.NameFlows].Paths),
		"tools_files", len(merged[config.NameTools].Paths))

	flows := flow.NewRegistry(merged[config.NameFlows])
	tools := tool.NewResolver(merged[config.NameTools], nil)

	env, err := buildenv.Assemble(settings.Flow, flows, tools, merged[config.NameTheme], settings)
	if err != nil {
		return fail(issue.NewErrorContext().
			WithOperation("assemble build environment for flow " + settings.Flow).
			WithSuggestion("Run 'chain flows list' to see the known flows").
			WithSuggestion("Run 'chain tools list' to see the known tool bindings").
			Wrap(err).
			BuildError())
	}
	if err := buildenv.Publish(env); err != nil {
		return fail(err)
	}

	runLogger := newLogger("build/run")
	runLogger.Info("dispatching flow",
		"flow", env.Flow.Name,
		"tool", env.Flow.Tool,
		"dependent_flows", len(env.DependentFlows))

	inv, err := engine.Prepare(env, extraArgs)
	if err != nil {
		return fail(err)
	}

	result := engine.Run(ctx, inv)
	if result.Error != nil {
		return fail(result.Error)
	}
	if result.ExitCode != 0 {
		// The engine already reported its own failure; pass the code through.
		return &ExitError{Code: types.ExitCode(result.ExitCode)}
	}
	return nil
}

// checkHost verifies the engine version and the required host programs
// before any configuration work happens.
func checkHost(ctx context.Context, settings *config.Settings) error {
	current, err := engine.DetectVersion(ctx, settings.EngineBinary)
	if err != nil {
		return err
	}
	required, err := hostcheck.ParseVersion(settings.EngineMinVersion)
	if err != nil {
		return err
	}
	if err := hostcheck.CheckVersion(current, required); err != nil {
		return err
	}
	return hostcheck.CheckDependencies(requiredPrograms, nil)
}

// loadConfigs locates, loads, merges, and schema-validates all three
// configuration names. Theme is optional; flows and tools must exist in at
// least one search location.
func loadConfigs(settings *config.Settings) (map[config.LogicalName]*config.Merged, error) {
	locator, err := config.NewLocator(settings.ConfigHome, settings.ProjectRoot, settings.InstallRoot)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("resolve configuration search roots").
			WithSuggestion("Run 'chain config path' to list the search locations").
			Wrap(err).
			BuildError()
	}

	load := func(name config.LogicalName, explicit string, single, required bool) (*config.Merged, error) {
		srcs, err := locator.Locate(name, explicit, single)
		if err != nil {
			return nil, err
		}
		if required && len(srcs) == 0 {
			return nil, &config.NotFoundError{Name: name}
		}
		docs, err := config.LoadDocuments(name, srcs)
		if err != nil {
			return nil, err
		}
		merged, err := config.Merge(name, docs, single)
		if err != nil {
			return nil, err
		}
		if err := config.ValidateSchema(merged); err != nil {
			return nil, err
		}
		return merged, nil
	}

	theme, err := load(config.NameTheme, settings.ThemeConfig, false, false)
	if err != nil {
		return nil, wrapConfigError(config.NameTheme, settings.ThemeConfig, err)
	}
	flows, err := load(config.NameFlows, settings.FlowsConfig, settings.SingleFlowsConfig, true)
	if err != nil {
		return nil, wrapConfigError(config.NameFlows, settings.FlowsConfig, err)
	}
	tools, err := load(config.NameTools, settings.ToolsConfig, false, true)
	if err != nil {
		return nil, wrapConfigError(config.NameTools, settings.ToolsConfig, err)
	}

	return map[config.LogicalName]*config.Merged{
		config.NameTheme: theme,
		config.NameFlows: flows,
		config.NameTools: tools,
	}, nil
}

// wrapConfigError attaches operation and remediation context to a
// configuration load failure. The sentinel chain stays reachable through
// Unwrap, so classify and issueFor see the underlying error unchanged.
func wrapConfigError(name config.LogicalName, explicit string, err error) error {
	return issue.NewErrorContext().
		WithOperation("load " + string(name) + " configuration").
		WithResource(explicit).
		WithSuggestion("Run 'chain config path' to list the search locations").
		Wrap(err).
		BuildError()
}

// fail wraps a pipeline error with its exit code and prints the matching
// remediation card.
func fail(err error) error {
	if opts.Debug {
		newLogger("build/error").Error(formatErrorForDisplay(err, true))
	}
	renderIssueCard(err)
	return &ExitError{Code: classify(err), Err: err}
}
