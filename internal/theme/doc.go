// SPDX-License-Identifier: MPL-2.0

// Package theme turns the merged theme configuration into a console: named
// lipgloss styles for each output role, with TTY detection and explicit
// force flags deciding whether styling is applied at all. Unknown style
// names fall back to the built-in palette instead of failing the build.
package theme
