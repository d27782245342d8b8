// SPDX-License-Identifier: MPL-2.0

package theme

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"golang.org/x/term"

	"chain-cli/internal/config"
	"chain-cli/pkg/types"
)

// Color palette - shared hex colors for consistent theming across all CLI
// output. These colors are designed for dark terminal backgrounds with good
// contrast.
const (
	// ColorPrimary is purple - used for titles, headers, and primary emphasis.
	ColorPrimary = lipgloss.Color("#7C3AED")

	// ColorMuted is gray - used for secondary text and de-emphasized content.
	ColorMuted = lipgloss.Color("#6B7280")

	// ColorSuccess is green - used for success states and positive outcomes.
	ColorSuccess = lipgloss.Color("#10B981")

	// ColorError is red - used for errors and failures.
	ColorError = lipgloss.Color("#EF4444")

	// ColorWarning is amber - used for warnings and attention-needed items.
	ColorWarning = lipgloss.Color("#F59E0B")

	// ColorHighlight is blue - used for flow names, tool names, and paths.
	ColorHighlight = lipgloss.Color("#3B82F6")

	// ColorVerbose is light gray - used for debug output and details.
	ColorVerbose = lipgloss.Color("#9CA3AF")
)

// namedColors maps the color words accepted in theme style specs.
var namedColors = map[string]lipgloss.Color{
	"black":   lipgloss.Color("0"),
	"red":     lipgloss.Color("1"),
	"green":   lipgloss.Color("2"),
	"yellow":  lipgloss.Color("3"),
	"blue":    lipgloss.Color("4"),
	"magenta": lipgloss.Color("5"),
	"cyan":    lipgloss.Color("6"),
	"white":   lipgloss.Color("7"),
	"gray":    lipgloss.Color("8"),
	"grey":    lipgloss.Color("8"),
}

// defaultStyles is the built-in palette used when the theme configuration
// does not override a role.
var defaultStyles = map[string]lipgloss.Style{
	"title":   lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary),
	"flow":    lipgloss.NewStyle().Bold(true).Foreground(ColorHighlight),
	"tool":    lipgloss.NewStyle().Foreground(ColorHighlight),
	"path":    lipgloss.NewStyle().Foreground(ColorMuted),
	"success": lipgloss.NewStyle().Foreground(ColorSuccess),
	"error":   lipgloss.NewStyle().Bold(true).Foreground(ColorError),
	"warning": lipgloss.NewStyle().Foreground(ColorWarning),
	"info":    lipgloss.NewStyle().Foreground(ColorVerbose),
	"muted":   lipgloss.NewStyle().Foreground(ColorMuted),
}

// Console renders role-styled output. Styling is decided once at
// construction; a non-terminal console renders every role as plain text.
type Console struct {
	styled bool
	styles map[string]lipgloss.Style
}

// NewConsole builds a console from the merged theme document. The theme's
// `styles` table overrides built-in roles with specs like "bold red" or
// "dim #7C3AED"; unparseable specs keep the built-in style. forceTerminal
// overrides TTY detection in either direction.
func NewConsole(theme *config.Merged, forceTerminal types.Tristate) *Console {
	c := &Console{
		styled: styledOutput(forceTerminal),
		styles: make(map[string]lipgloss.Style, len(defaultStyles)),
	}
	for role, style := range defaultStyles {
		c.styles[role] = style
	}

	if theme == nil {
		return c
	}
	for role, raw := range theme.Table("styles") {
		spec, ok := raw.(string)
		if !ok {
			continue
		}
		if style, ok := parseStyleSpec(spec); ok {
			c.styles[role] = style
		}
	}
	return c
}

// Styled reports whether this console applies styling.
func (c *Console) Styled() bool { return c.styled }

// Roles returns every known style role, sorted.
func (c *Console) Roles() []string {
	roles := maps.Keys(c.styles)
	slices.Sort(roles)
	return roles
}

// Render styles s for the named role. Unknown roles and unstyled consoles
// return s unchanged.
func (c *Console) Render(role, s string) string {
	if !c.styled {
		return s
	}
	style, ok := c.styles[role]
	if !ok {
		return s
	}
	return style.Render(s)
}

// parseStyleSpec converts a whitespace-separated spec into a lipgloss
// style. Attribute words (bold, dim, italic, underline) combine with at
// most one color, given as a named color or a #RRGGBB hex value.
func parseStyleSpec(spec string) (lipgloss.Style, bool) {
	style := lipgloss.NewStyle()
	recognized := false

	for _, word := range strings.Fields(strings.ToLower(spec)) {
		switch word {
		case "bold":
			style = style.Bold(true)
		case "dim", "faint":
			style = style.Faint(true)
		case "italic":
			style = style.Italic(true)
		case "underline":
			style = style.Underline(true)
		default:
			if color, ok := namedColors[word]; ok {
				style = style.Foreground(color)
			} else if strings.HasPrefix(word, "#") && (len(word) == 7 || len(word) == 4) {
				style = style.Foreground(lipgloss.Color(word))
			} else {
				return lipgloss.Style{}, false
			}
		}
		recognized = true
	}
	return style, recognized
}

// styledOutput decides whether to style output. Force flags win; otherwise
// stdout must be a terminal and NO_COLOR must be unset.
func styledOutput(forceTerminal types.Tristate) bool {
	if forceTerminal.IsSpecified() {
		return forceTerminal.Bool(false)
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}
