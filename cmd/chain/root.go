// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"chain-cli/internal/config"
	"chain-cli/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// opts collects the raw global flag values for settings resolution.
	opts config.Options

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "chain <flow>",
		Short: "A configuration-driven build flow dispatcher",
		Long: `chain dispatches FPGA and ASIC build flows to an external build engine.

Flows and tool bindings are described in layered TOML files (theme.toml,
flows.toml, tools.toml) merged across the project, the user's config
directory, and the installation defaults. chain resolves the requested
flow, binds its tools, assembles the build environment, and hands off to
the engine.

Quick Start:
  1. Define flows in flows.toml in your project root
  2. Bind tools in tools.toml
  3. Run a flow with: chain <flow-name>

Examples:
  chain sim                 Run the 'sim' flow
  chain flows list          List all known flows
  chain tools describe vcs  Show the 'vcs' tool binding
  chain config path         Show the configuration search locations
  chain doctor              Check host compatibility`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			opts.Flow = args[0]
			return runFlow(cmd.Context(), opts, args[1:])
		},
	}
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.ProjectRoot, "project-root", "", "project root directory (default is the working directory)")
	pf.StringVar(&opts.ConfigHome, "config-home", "", "directory searched for configuration files before the project root")
	pf.StringVar(&opts.ThemeConfig, "theme-config", "", "explicit theme configuration file")
	pf.StringVar(&opts.FlowsConfig, "flows-config", "", "explicit flows configuration file")
	pf.StringVar(&opts.ToolsConfig, "tools-config", "", "explicit tools configuration file")
	pf.BoolVar(&opts.SingleFlowsConfig, "single-flows-config", false, "use only the highest-precedence flows file instead of merging")
	pf.BoolVar(&opts.Debug, "debug", false, "enable debug output")
	pf.BoolVarP(&opts.Quiet, "quiet", "q", false, "suppress progress output")
	pf.StringVar(&opts.ForceTerminal, "force-terminal", "", "force styled output on or off (true/false)")
	pf.StringVar(&opts.ForceInteractive, "force-interactive", "", "force interactive prompts on or off (true/false)")

	rootCmd.AddCommand(flowsCmd)
	rootCmd.AddCommand(toolsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(doctorCmd)
}

// newLogger builds the stage logger honoring --debug and --quiet.
func newLogger(prefix string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix: prefix,
	})
	switch {
	case opts.Debug:
		logger.SetLevel(log.DebugLevel)
	case opts.Quiet:
		logger.SetLevel(log.ErrorLevel)
	}
	return logger
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Use fang.Execute for enhanced Cobra styling
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// renderIssueCard prints the remediation card for err, when one exists and
// output is going to a terminal.
func renderIssueCard(err error) {
	id := issueFor(err)
	if id == 0 {
		return
	}
	card := issue.Get(id)
	if card == nil {
		return
	}
	rendered, renderErr := card.Render("auto")
	if renderErr != nil {
		return
	}
	fmt.Fprintln(os.Stderr, rendered)
}
