// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"chain-cli/internal/config"
	"chain-cli/internal/theme"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration resolution",
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the configuration search locations and the files found",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := config.LoadSettings(opts)
		if err != nil {
			return fail(err)
		}
		locator, err := config.NewLocator(settings.ConfigHome, settings.ProjectRoot, settings.InstallRoot)
		if err != nil {
			return fail(err)
		}
		console := theme.NewConsole(nil, settings.ForceTerminal)

		fmt.Println(console.Render("title", "Search locations (highest precedence first):"))
		for i, root := range locator.Roots() {
			fmt.Printf("  %d. %s  %s\n", i+1,
				console.Render("path", root.Dir),
				console.Render("muted", "("+root.Origin+")"))
		}

		fmt.Println()
		fmt.Println(console.Render("title", "Files found (lowest precedence first, later wins):"))
		for _, name := range []config.LogicalName{config.NameTheme, config.NameFlows, config.NameTools} {
			srcs, err := locator.Locate(name, "", false)
			if err != nil {
				return fail(err)
			}
			fmt.Printf("  %s:\n", console.Render("flow", name.FileName()))
			if len(srcs) == 0 {
				fmt.Printf("    %s\n", console.Render("muted", "not found"))
				continue
			}
			for _, src := range srcs {
				fmt.Printf("    %s  %s\n",
					console.Render("path", src.Path),
					console.Render("muted", "("+src.Origin+")"))
			}
		}
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:       "show <theme|flows|tools>",
	Short:     "Show the merged view of one configuration document",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"theme", "flows", "tools"},
	RunE: func(cmd *cobra.Command, args []string) error {
		name := config.LogicalName(args[0])
		switch name {
		case config.NameTheme, config.NameFlows, config.NameTools:
		default:
			return fmt.Errorf("unknown configuration name %q (expected theme, flows, or tools)", args[0])
		}

		_, merged, err := loadForInspection()
		if err != nil {
			return fail(err)
		}

		out, err := toml.Marshal(merged[name].Data)
		if err != nil {
			return fail(err)
		}
		if _, err := os.Stdout.Write(out); err != nil {
			return err
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configShowCmd)
}
