// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// sortedStringKeys returns the keys of a string-valued map, sorted.
func sortedStringKeys(m map[string]string) []string {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}

// sortedAnyKeys returns the keys of an any-valued map, sorted.
func sortedAnyKeys(m map[string]any) []string {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}
