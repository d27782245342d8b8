// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// writeConfig creates a config file for the logical name inside dir.
func writeConfig(t *testing.T, dir string, name LogicalName, content string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	path := filepath.Join(dir, name.FileName())
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// isolateEnv clears every environment variable the locator consults.
func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvConfigHome, "")
	t.Setenv(EnvConfigDirName, "")
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", t.TempDir())
}

func TestLocate_PrecedenceOrder(t *testing.T) {
	isolateEnv(t)

	configHome := t.TempDir()
	projectRoot := t.TempDir()
	installRoot := t.TempDir()

	homePath := writeConfig(t, configHome, NameFlows, "")
	projPath := writeConfig(t, projectRoot, NameFlows, "")
	defPath := writeConfig(t, filepath.Join(installRoot, "config"), NameFlows, "")

	loc, err := NewLocator(configHome, projectRoot, installRoot)
	if err != nil {
		t.Fatalf("NewLocator: %v", err)
	}

	srcs, err := loc.Locate(NameFlows, "", false)
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}

	// Precedence-ascending: installation defaults first, config home last.
	want := []string{defPath, projPath, homePath}
	if len(srcs) != len(want) {
		t.Fatalf("Locate returned %d sources, want %d: %+v", len(srcs), len(want), srcs)
	}
	for i, src := range srcs {
		if src.Path != want[i] {
			t.Errorf("source[%d].Path = %s, want %s", i, src.Path, want[i])
		}
	}
}

func TestLocate_MissingRootsSkippedSilently(t *testing.T) {
	isolateEnv(t)

	projectRoot := t.TempDir()
	projPath := writeConfig(t, projectRoot, NameTools, "")

	loc, err := NewLocator("", projectRoot, filepath.Join(t.TempDir(), "does-not-exist"))
	if err != nil {
		t.Fatalf("NewLocator: %v", err)
	}

	srcs, err := loc.Locate(NameTools, "", false)
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if len(srcs) != 1 || srcs[0].Path != projPath {
		t.Errorf("Locate = %+v, want single project-root source %s", srcs, projPath)
	}
}

func TestLocate_ExplicitPathIsHighestPrecedence(t *testing.T) {
	isolateEnv(t)

	projectRoot := t.TempDir()
	writeConfig(t, projectRoot, NameFlows, "")
	explicit := writeConfig(t, t.TempDir(), NameFlows, "")

	loc, err := NewLocator("", projectRoot, "")
	if err != nil {
		t.Fatalf("NewLocator: %v", err)
	}

	srcs, err := loc.Locate(NameFlows, explicit, false)
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if len(srcs) != 2 {
		t.Fatalf("Locate returned %d sources, want 2", len(srcs))
	}
	if last := srcs[len(srcs)-1]; last.Path != explicit || last.Origin != "command-line argument" {
		t.Errorf("highest-precedence source = %+v, want explicit path %s", last, explicit)
	}
}

func TestLocate_SingleSourceUsesOnlyHighestPrecedence(t *testing.T) {
	isolateEnv(t)

	configHome := t.TempDir()
	projectRoot := t.TempDir()
	homePath := writeConfig(t, configHome, NameFlows, "")
	writeConfig(t, projectRoot, NameFlows, "")

	loc, err := NewLocator(configHome, projectRoot, "")
	if err != nil {
		t.Fatalf("NewLocator: %v", err)
	}

	srcs, err := loc.Locate(NameFlows, "", true)
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if len(srcs) != 1 {
		t.Fatalf("single-source Locate returned %d sources, want 1", len(srcs))
	}
	if srcs[0].Path != homePath {
		t.Errorf("single-source Locate picked %s, want %s", srcs[0].Path, homePath)
	}
}

func TestLocate_SingleSourceWithExplicitPathIsOnlySource(t *testing.T) {
	isolateEnv(t)

	projectRoot := t.TempDir()
	writeConfig(t, projectRoot, NameFlows, "")
	explicit := writeConfig(t, t.TempDir(), NameFlows, "")

	loc, err := NewLocator("", projectRoot, "")
	if err != nil {
		t.Fatalf("NewLocator: %v", err)
	}

	srcs, err := loc.Locate(NameFlows, explicit, true)
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if len(srcs) != 1 || srcs[0].Path != explicit {
		t.Errorf("Locate = %+v, want only the explicit path %s", srcs, explicit)
	}
}

func TestLocate_ExplicitPathMustExist(t *testing.T) {
	isolateEnv(t)

	loc, err := NewLocator("", t.TempDir(), "")
	if err != nil {
		t.Fatalf("NewLocator: %v", err)
	}

	_, err = loc.Locate(NameTheme, filepath.Join(t.TempDir(), "nope.toml"), false)
	if !errors.Is(err, ErrConfigPath) {
		t.Errorf("Locate with missing explicit path: error = %v, want ErrConfigPath", err)
	}

	var pathErr *PathError
	if !errors.As(err, &pathErr) || pathErr.Kind != PathNotExists {
		t.Errorf("error = %v, want *PathError with PathNotExists", err)
	}
}

func TestLocate_ExplicitPathMustBeFile(t *testing.T) {
	isolateEnv(t)

	loc, err := NewLocator("", t.TempDir(), "")
	if err != nil {
		t.Fatalf("NewLocator: %v", err)
	}

	_, err = loc.Locate(NameTheme, t.TempDir(), false)
	var pathErr *PathError
	if !errors.As(err, &pathErr) || pathErr.Kind != PathNotFile {
		t.Errorf("Locate with directory as explicit path: error = %v, want *PathError with PathNotFile", err)
	}
}

func TestNewLocator_ConfigHomeMustBeDir(t *testing.T) {
	isolateEnv(t)

	file := writeConfig(t, t.TempDir(), NameTheme, "")
	_, err := NewLocator(file, "", "")
	var pathErr *PathError
	if !errors.As(err, &pathErr) || pathErr.Kind != PathNotDir {
		t.Errorf("NewLocator with file as config home: error = %v, want *PathError with PathNotDir", err)
	}
}

func TestNewLocator_RelativeChainConfigHomeRejected(t *testing.T) {
	isolateEnv(t)
	t.Setenv(EnvConfigHome, "relative/path")

	_, err := NewLocator("", "", "")
	if !errors.Is(err, ErrRelativeEnvPath) {
		t.Errorf("NewLocator with relative $%s: error = %v, want ErrRelativeEnvPath", EnvConfigHome, err)
	}
}

func TestLocate_EnvConfigHomeRoot(t *testing.T) {
	isolateEnv(t)

	envHome := t.TempDir()
	envPath := writeConfig(t, envHome, NameTools, "")
	t.Setenv(EnvConfigHome, envHome)

	loc, err := NewLocator("", t.TempDir(), "")
	if err != nil {
		t.Fatalf("NewLocator: %v", err)
	}

	srcs, err := loc.Locate(NameTools, "", false)
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if len(srcs) != 1 || srcs[0].Path != envPath {
		t.Errorf("Locate = %+v, want $%s source %s", srcs, EnvConfigHome, envPath)
	}
}

func TestLocate_EnvConfigHomeMissingDirSkipped(t *testing.T) {
	isolateEnv(t)
	t.Setenv(EnvConfigHome, filepath.Join(t.TempDir(), "does-not-exist"))

	projectRoot := t.TempDir()
	projPath := writeConfig(t, projectRoot, NameFlows, "")

	loc, err := NewLocator("", projectRoot, "")
	if err != nil {
		t.Fatalf("NewLocator with missing $%s: %v", EnvConfigHome, err)
	}

	srcs, err := loc.Locate(NameFlows, "", false)
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if len(srcs) != 1 || srcs[0].Path != projPath {
		t.Errorf("Locate = %+v, want fallthrough to project-root source %s", srcs, projPath)
	}
}

func TestLocate_UserConfigDirHonorsDirNameOverride(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		t.Skip("XDG_CONFIG_HOME is only consulted on Linux and BSDs")
	}
	isolateEnv(t)

	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Setenv(EnvConfigDirName, "custom-chain")

	userPath := writeConfig(t, filepath.Join(xdg, "custom-chain"), NameTheme, "")

	loc, err := NewLocator("", "", "")
	if err != nil {
		t.Fatalf("NewLocator: %v", err)
	}

	srcs, err := loc.Locate(NameTheme, "", false)
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if len(srcs) != 1 || srcs[0].Path != userPath {
		t.Errorf("Locate = %+v, want user config dir source %s", srcs, userPath)
	}
}
