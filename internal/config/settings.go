// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"chain-cli/pkg/types"
)

const (
	// DefaultEngineBinary is the external build engine executable.
	DefaultEngineBinary = "scons"
	// DefaultEngineMinVersion is the minimum supported engine version.
	DefaultEngineMinVersion = "4.5"
)

type (
	// Options carries raw command-line inputs into settings resolution.
	// String-typed booleans hold the unparsed flag token; the empty string
	// means the flag was not given, keeping the tri-state distinction.
	Options struct {
		Flow              string
		ProjectRoot       string
		ConfigHome        string
		ThemeConfig       string
		FlowsConfig       string
		ToolsConfig       string
		SingleFlowsConfig bool
		Debug             bool
		Quiet             bool
		ForceTerminal     string
		ForceInteractive  string
	}

	// Settings is the resolved process-level configuration: flag values
	// combined with CHAIN_* environment variables and defaults. It feeds the
	// locator and the BuildEnv; nothing mutates it after LoadSettings.
	Settings struct {
		Flow        string
		ProjectRoot string
		// ConfigHome is the --config-home flag only. $CHAIN_CONFIG_HOME is a
		// search root the locator registers itself, with laxer semantics: the
		// flag directory must exist, the environment directory may not.
		ConfigHome        string
		InstallRoot       string
		ThemeConfig       string
		FlowsConfig       string
		ToolsConfig       string
		SingleFlowsConfig bool
		Debug             bool
		Quiet             bool
		ForceTerminal     types.Tristate
		ForceInteractive  types.Tristate
		EngineBinary      string
		EngineMinVersion  string
	}
)

// installRootOverride allows tests to pin the installation root.
// os.Executable points into the test binary's temp dir during go test, which
// would make default-config resolution nondeterministic.
var installRootOverride string

// SetInstallRootOverride sets a custom installation root. Intended for tests.
func SetInstallRootOverride(dir string) { installRootOverride = dir }

// ResetOverrides clears test overrides. Call from test cleanup.
func ResetOverrides() { installRootOverride = "" }

// LoadSettings resolves process-level settings from flags, CHAIN_*
// environment variables, and defaults, in that order of precedence. Invalid
// boolean tokens are rejected here, before any pipeline stage runs.
func LoadSettings(opts Options) (*Settings, error) {
	v := viper.New()
	v.SetEnvPrefix("CHAIN")
	for _, key := range []string{"force_terminal", "force_interactive", "engine_binary", "engine_min_version", "install_root"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind environment variable for %s: %w", key, err)
		}
	}
	v.SetDefault("engine_binary", DefaultEngineBinary)
	v.SetDefault("engine_min_version", DefaultEngineMinVersion)

	projectRoot := opts.ProjectRoot
	if projectRoot == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to determine working directory: %w", err)
		}
		projectRoot = cwd
	}
	projectRoot, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root: %w", err)
	}

	installRoot := v.GetString("install_root")
	if installRootOverride != "" {
		installRoot = installRootOverride
	}
	if installRoot == "" {
		installRoot = detectInstallRoot()
	}

	forceTerminal, err := resolveTristate(opts.ForceTerminal, v.GetString("force_terminal"))
	if err != nil {
		return nil, fmt.Errorf("invalid --force-terminal value: %w", err)
	}
	forceInteractive, err := resolveTristate(opts.ForceInteractive, v.GetString("force_interactive"))
	if err != nil {
		return nil, fmt.Errorf("invalid --force-interactive value: %w", err)
	}

	return &Settings{
		Flow:              opts.Flow,
		ProjectRoot:       projectRoot,
		ConfigHome:        opts.ConfigHome,
		InstallRoot:       installRoot,
		ThemeConfig:       opts.ThemeConfig,
		FlowsConfig:       opts.FlowsConfig,
		ToolsConfig:       opts.ToolsConfig,
		SingleFlowsConfig: opts.SingleFlowsConfig,
		Debug:             opts.Debug,
		Quiet:             opts.Quiet,
		ForceTerminal:     forceTerminal,
		ForceInteractive:  forceInteractive,
		EngineBinary:      v.GetString("engine_binary"),
		EngineMinVersion:  v.GetString("engine_min_version"),
	}, nil
}

// resolveTristate picks the flag token over the environment token and parses
// whichever is present. Both absent means unspecified.
func resolveTristate(flagToken, envToken string) (types.Tristate, error) {
	token := flagToken
	if token == "" {
		token = envToken
	}
	if token == "" {
		return types.TristateUnspecified, nil
	}
	return types.ParseTristate(token)
}

// detectInstallRoot derives the installation directory from the running
// executable. A conventional <root>/bin/chain layout maps to <root>; a bare
// binary maps to its own directory.
func detectInstallRoot() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	dir := filepath.Dir(exe)
	if filepath.Base(dir) == "bin" {
		return filepath.Dir(dir)
	}
	return dir
}
