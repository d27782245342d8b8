// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"strings"
	"testing"

	"chain-cli/internal/issue"
)

func TestGetVersionString(t *testing.T) {
	// Not parallel: subtests mutate package-level Version/Commit/BuildDate vars.

	t.Run("ldflags version takes priority", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version = "v1.2.3"
		Commit = "abc1234"
		BuildDate = "2026-06-15T10:00:00Z"

		got := getVersionString()
		want := "v1.2.3 (commit: abc1234, built: 2026-06-15T10:00:00Z)"
		if got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})

	t.Run("fallback to dev when no build info", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version = "dev"
		Commit = "unknown"
		BuildDate = "unknown"

		got := getVersionString()
		want := "dev (built from source)"
		if got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})
}

func TestFormatErrorForDisplay(t *testing.T) {
	t.Parallel()

	if got := formatErrorForDisplay(errors.New("boom"), false); got != "boom" {
		t.Errorf("plain error = %q, want boom", got)
	}

	wrapped := issue.NewErrorContext().
		WithOperation("load flows configuration").
		WithSuggestion("Run 'chain config path' to list the search locations").
		Wrap(errors.New("no sources found")).
		BuildError()

	got := formatErrorForDisplay(wrapped, true)
	for _, want := range []string{
		"failed to load flows configuration",
		"• Run 'chain config path' to list the search locations",
		"Error chain:",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("formatErrorForDisplay missing %q\ngot:\n%s", want, got)
		}
	}
}

func TestRootCommand_Wiring(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"flows", "tools", "config", "doctor"} {
		found := false
		for _, sub := range rootCmd.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command missing subcommand %q", name)
		}
	}
}
