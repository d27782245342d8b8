// SPDX-License-Identifier: MPL-2.0

package config

import (
	"os"
	"path/filepath"
	"runtime"
)

const (
	// AppName is the application name, used for config subdirectories.
	AppName = "chain"

	// EnvConfigHome points at a directory holding chain config files.
	EnvConfigHome = "CHAIN_CONFIG_HOME"
	// EnvConfigDirName overrides the per-user config subdirectory name.
	EnvConfigDirName = "CHAIN_CONFIG_DIR_NAME"
)

// LogicalName identifies one of the layered configuration documents.
type LogicalName string

const (
	// NameTheme is the console theme configuration (theme.toml).
	NameTheme LogicalName = "theme"
	// NameFlows is the build flow configuration (flows.toml).
	NameFlows LogicalName = "flows"
	// NameTools is the tool binding configuration (tools.toml).
	NameTools LogicalName = "tools"
)

// FileName returns the file name searched for in each root.
func (n LogicalName) FileName() string { return string(n) + ".toml" }

type (
	// SearchRoot is one ordered filesystem location where configuration
	// files are looked up. Origin is a human-readable label used in debug
	// output and error messages.
	SearchRoot struct {
		Dir    string
		Origin string
	}

	// Source is a configuration file found in a search root.
	Source struct {
		Path   string
		Origin string
	}

	// Locator discovers configuration files across search roots.
	// Roots are held in precedence-descending order (index 0 wins).
	Locator struct {
		roots []SearchRoot
	}
)

// NewLocator builds the ordered search root list for this invocation.
// Precedence, high to low: the --config-home directory, $CHAIN_CONFIG_HOME,
// the project root, the user config directory, the installation defaults.
// Explicit per-document paths outrank all of these and are handled by
// Locate directly.
//
// configHome must be an existing directory when non-empty; $CHAIN_CONFIG_HOME
// and $XDG_CONFIG_HOME must be absolute when set. Everything else that is
// missing is skipped silently.
func NewLocator(configHome, projectRoot, installRoot string) (*Locator, error) {
	var roots []SearchRoot

	if configHome != "" {
		info, err := os.Stat(configHome)
		if err != nil {
			return nil, &PathError{Path: configHome, Kind: PathNotExists}
		}
		if !info.IsDir() {
			return nil, &PathError{Path: configHome, Kind: PathNotDir}
		}
		roots = append(roots, SearchRoot{Dir: configHome, Origin: "config home (--config-home)"})
	}

	if envHome := os.Getenv(EnvConfigHome); envHome != "" {
		if !filepath.IsAbs(envHome) {
			return nil, &RelativeEnvPathError{Var: EnvConfigHome, Path: envHome}
		}
		roots = append(roots, SearchRoot{Dir: envHome, Origin: "$" + EnvConfigHome})
	}

	if projectRoot != "" {
		roots = append(roots, SearchRoot{Dir: projectRoot, Origin: "project root"})
	}

	userDir, err := userConfigDir()
	if err != nil {
		return nil, err
	}
	if userDir != "" {
		roots = append(roots, SearchRoot{Dir: userDir, Origin: "user config directory"})
	}

	if installRoot != "" {
		roots = append(roots, SearchRoot{Dir: filepath.Join(installRoot, "config"), Origin: "installation defaults"})
	}

	return &Locator{roots: roots}, nil
}

// Roots returns the search roots in precedence-descending order.
func (l *Locator) Roots() []SearchRoot {
	out := make([]SearchRoot, len(l.roots))
	copy(out, l.roots)
	return out
}

// Locate returns every existing configuration file for the logical name, in
// precedence-ascending order (lowest first) ready to feed Merge. When
// explicitPath is non-empty it is validated strictly. It must exist and be
// a regular file, and becomes the highest-precedence source. In
// single-source mode only the single highest-precedence source is returned.
func (l *Locator) Locate(name LogicalName, explicitPath string, singleSource bool) ([]Source, error) {
	var found []Source // precedence-descending while collecting

	if explicitPath != "" {
		abs, err := filepath.Abs(explicitPath)
		if err != nil {
			return nil, &PathError{Path: explicitPath, Kind: PathNotExists}
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, &PathError{Path: abs, Kind: PathNotExists}
		}
		if info.IsDir() {
			return nil, &PathError{Path: abs, Kind: PathNotFile}
		}
		found = append(found, Source{Path: abs, Origin: "command-line argument"})
	}

	for _, root := range l.roots {
		path := filepath.Join(root.Dir, name.FileName())
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		found = append(found, Source{Path: path, Origin: root.Origin})
	}

	if singleSource && len(found) > 1 {
		found = found[:1]
	}

	// Reverse into precedence-ascending order for the merger.
	out := make([]Source, 0, len(found))
	for i := len(found) - 1; i >= 0; i-- {
		out = append(out, found[i])
	}
	return out, nil
}

// userConfigDir resolves the per-user configuration directory. The
// subdirectory name defaults to "chain" and can be overridden through
// $CHAIN_CONFIG_DIR_NAME. On Linux and BSDs $XDG_CONFIG_HOME is honored;
// macOS and Windows use their platform conventions, mirroring where other
// tools expect their configuration.
func userConfigDir() (string, error) {
	subdir := os.Getenv(EnvConfigDirName)
	if subdir == "" {
		subdir = AppName
	}

	switch runtime.GOOS {
	case "windows":
		if appdata := os.Getenv("APPDATA"); appdata != "" {
			return filepath.Join(appdata, subdir), nil
		}
		return "", nil
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", nil
		}
		return filepath.Join(home, "Library", "Application Support", subdir), nil
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			if !filepath.IsAbs(xdg) {
				return "", &RelativeEnvPathError{Var: "XDG_CONFIG_HOME", Path: xdg}
			}
			return filepath.Join(xdg, subdir), nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", nil
		}
		return filepath.Join(home, ".config", subdir), nil
	}
}
