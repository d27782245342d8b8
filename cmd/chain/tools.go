// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"chain-cli/internal/config"
	"chain-cli/internal/theme"
	"chain-cli/internal/tool"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Inspect the merged tool bindings",
}

var toolsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all known tool bindings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, merged, err := loadForInspection()
		if err != nil {
			return fail(err)
		}
		console := theme.NewConsole(merged[config.NameTheme], settings.ForceTerminal)
		resolver := tool.NewResolver(merged[config.NameTools], nil)

		names := resolver.Names()
		if len(names) == 0 {
			fmt.Println(console.Render("muted", "no tools defined"))
			return nil
		}
		for _, name := range names {
			binding, err := resolver.Resolve(name)
			if err != nil {
				// Listing must not hide tools whose bindings are broken.
				fmt.Printf("%s  %s\n",
					console.Render("tool", name),
					console.Render("error", err.Error()))
				continue
			}
			fmt.Printf("%s  %s\n",
				console.Render("tool", name),
				console.Render("path", binding.Path))
		}
		return nil
	},
}

var toolsDescribeCmd = &cobra.Command{
	Use:   "describe <tool>",
	Short: "Show a tool binding: path, environment, versions, container",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, merged, err := loadForInspection()
		if err != nil {
			return fail(err)
		}
		resolver := tool.NewResolver(merged[config.NameTools], nil)

		binding, err := resolver.Resolve(args[0])
		if err != nil {
			return fail(err)
		}

		rendered, err := glamour.Render(describeToolMarkdown(binding), "auto")
		if err != nil {
			return fail(err)
		}
		fmt.Print(rendered)
		return nil
	},
}

func init() {
	toolsCmd.AddCommand(toolsListCmd)
	toolsCmd.AddCommand(toolsDescribeCmd)
}

// describeToolMarkdown builds the markdown card for a tool binding.
func describeToolMarkdown(b *tool.Binding) string {
	var md strings.Builder

	fmt.Fprintf(&md, "# Tool: %s\n\n", b.Name)
	fmt.Fprintf(&md, "- **Path**: `%s`\n", b.Path)

	if len(b.Env) > 0 {
		md.WriteString("\n## Environment\n\n")
		for _, key := range sortedStringKeys(b.Env) {
			fmt.Fprintf(&md, "- `%s` = `%s`\n", key, b.Env[key])
		}
	}

	if len(b.Versions) > 0 {
		md.WriteString("\n## Versions\n\n")
		for _, version := range sortedStringKeys(b.Versions) {
			fmt.Fprintf(&md, "- `%s` -> `%s`\n", version, b.Versions[version])
		}
	}

	if b.Container.Image != "" {
		md.WriteString("\n## Container\n\n")
		fmt.Fprintf(&md, "- **Image**: `%s`\n", b.Container.Image)
		for _, vol := range b.Container.Volumes {
			fmt.Fprintf(&md, "- **Volume**: `%s`\n", vol)
		}
	}

	return md.String()
}
