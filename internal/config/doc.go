// SPDX-License-Identifier: MPL-2.0

// Package config locates, loads, and merges the layered TOML configuration
// that drives a chain invocation: theme.toml (console styling), flows.toml
// (build flow definitions), and tools.toml (tool bindings).
//
// Documents are discovered across an ordered list of search roots: explicit
// --*-config paths, the --config-home directory, $CHAIN_CONFIG_HOME, the
// project root, the user config directory ($XDG_CONFIG_HOME/chain or
// ~/.config/chain), and finally the installation defaults. Higher-precedence
// documents win key-by-key under a recursive merge; single-source mode
// disables merging for a logical name and uses exactly one document.
//
// Merged flows and tools documents are validated against embedded CUE
// schemas before any registry lookup, so authoring mistakes surface with a
// key path instead of a nil-map panic three packages later.
package config
