// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"chain-cli/internal/config"
	"chain-cli/internal/flow"
	"chain-cli/internal/theme"
)

var flowsCmd = &cobra.Command{
	Use:   "flows",
	Short: "Inspect the merged flow definitions",
}

var flowsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all known flows",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, merged, err := loadForInspection()
		if err != nil {
			return fail(err)
		}
		console := theme.NewConsole(merged[config.NameTheme], settings.ForceTerminal)
		registry := flow.NewRegistry(merged[config.NameFlows])

		names := registry.Names()
		if len(names) == 0 {
			fmt.Println(console.Render("muted", "no flows defined"))
			return nil
		}
		for _, name := range names {
			def, err := registry.Resolve(name)
			if err != nil {
				// List every flow even when one definition is broken.
				fmt.Printf("%s  %s\n",
					console.Render("flow", name),
					console.Render("error", err.Error()))
				continue
			}
			fmt.Printf("%s  %s\n",
				console.Render("flow", name),
				console.Render("tool", def.Tool))
		}
		return nil
	},
}

var flowsDescribeCmd = &cobra.Command{
	Use:   "describe <flow>",
	Short: "Show a flow definition, its dependent flows, and tool requirements",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, merged, err := loadForInspection()
		if err != nil {
			return fail(err)
		}
		registry := flow.NewRegistry(merged[config.NameFlows])

		target, deps, err := registry.ResolveWithDeps(args[0])
		if err != nil {
			return fail(err)
		}

		rendered, err := glamour.Render(describeFlowMarkdown(target, deps), "auto")
		if err != nil {
			return fail(err)
		}
		fmt.Print(rendered)
		return nil
	},
}

func init() {
	flowsCmd.AddCommand(flowsListCmd)
	flowsCmd.AddCommand(flowsDescribeCmd)
}

// describeFlowMarkdown builds the markdown card for a flow.
func describeFlowMarkdown(target *flow.Definition, deps []*flow.Definition) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Flow: %s\n\n", target.Name)
	fmt.Fprintf(&b, "- **Tool**: `%s`\n", target.Tool)

	if len(deps) > 0 {
		var names []string
		for _, d := range deps {
			names = append(names, "`"+d.Name+"`")
		}
		fmt.Fprintf(&b, "- **Dependent flows**: %s\n", strings.Join(names, ", "))
	}

	if len(target.ToolVersions) > 0 {
		b.WriteString("\n## Tool version requirements\n\n")
		for _, toolName := range sortedStringKeys(target.ToolVersions) {
			fmt.Fprintf(&b, "- `%s`: `%s`\n", toolName, target.ToolVersions[toolName])
		}
	}

	if len(target.Params) > 0 {
		b.WriteString("\n## Parameters\n\n")
		for _, key := range sortedAnyKeys(target.Params) {
			fmt.Fprintf(&b, "- `%s` = `%v`\n", key, target.Params[key])
		}
	}

	return b.String()
}

// loadForInspection resolves settings and loads all configs for the
// read-only inspection commands.
func loadForInspection() (*config.Settings, map[config.LogicalName]*config.Merged, error) {
	settings, err := config.LoadSettings(opts)
	if err != nil {
		return nil, nil, err
	}
	merged, err := loadConfigs(settings)
	if err != nil {
		return nil, nil, err
	}
	return settings, merged, nil
}
