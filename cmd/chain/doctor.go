// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os/exec"

	"github.com/spf13/cobra"

	"chain-cli/internal/config"
	"chain-cli/internal/engine"
	"chain-cli/internal/hostcheck"
	"chain-cli/internal/theme"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that this host can run build flows",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := config.LoadSettings(opts)
		if err != nil {
			return fail(err)
		}
		console := theme.NewConsole(nil, settings.ForceTerminal)
		healthy := true

		report := func(ok bool, label, detail string) {
			mark := console.Render("success", "ok")
			if !ok {
				mark = console.Render("error", "FAIL")
				healthy = false
			}
			fmt.Printf("  %-4s  %-24s %s\n", mark, label, console.Render("muted", detail))
		}

		path, err := engine.Locate(settings.EngineBinary)
		if err != nil {
			report(false, "engine binary", settings.EngineBinary+" not on PATH")
		} else {
			report(true, "engine binary", path)

			current, err := engine.DetectVersion(cmd.Context(), settings.EngineBinary)
			if err != nil {
				report(false, "engine version", err.Error())
			} else {
				required, err := hostcheck.ParseVersion(settings.EngineMinVersion)
				if err != nil {
					report(false, "engine version", err.Error())
				} else if err := hostcheck.CheckVersion(current, required); err != nil {
					report(false, "engine version", fmt.Sprintf("%s (need %s)", current, required))
				} else {
					report(true, "engine version", fmt.Sprintf("%s (need %s)", current, required))
				}
			}
		}

		for _, name := range requiredPrograms {
			if path, err := exec.LookPath(name); err != nil {
				report(false, name, "not on PATH")
			} else {
				report(true, name, path)
			}
		}

		if _, err := config.NewLocator(settings.ConfigHome, settings.ProjectRoot, settings.InstallRoot); err != nil {
			report(false, "config search roots", err.Error())
		} else {
			report(true, "config search roots", "see 'chain config path'")
		}

		if !healthy {
			return &ExitError{Code: ExitMissingDependencies}
		}
		return nil
	},
}
