// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"regexp"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"chain-cli/internal/buildenv"
	"chain-cli/internal/hostcheck"
)

var (
	// ErrEngineNotFound is the sentinel error wrapped by NotFoundError.
	ErrEngineNotFound = errors.New("build engine not found")

	// ErrVersionUndetected is returned when the engine's version output
	// cannot be parsed.
	ErrVersionUndetected = errors.New("cannot detect build engine version")
)

// EnvFlow is set in the engine's environment to the target flow name.
const EnvFlow = "CHAIN_FLOW"

// EnvDependentFlows is set in the engine's environment to the
// comma-separated dependent flow names, in invocation order.
const EnvDependentFlows = "CHAIN_DEPENDENT_FLOWS"

type (
	// Invocation is a fully shaped engine call, ready to run.
	Invocation struct {
		Binary string
		Args   []string
		Dir    string
		Env    []string

		Stdout io.Writer
		Stderr io.Writer
		Stdin  io.Reader
	}

	// Result is the outcome of an engine run.
	Result struct {
		ExitCode int
		Error    error
	}

	// NotFoundError is returned when the engine binary is not on PATH.
	NotFoundError struct {
		Binary string
	}
)

// Success reports whether the engine ran and exited zero.
func (r *Result) Success() bool {
	return r.ExitCode == 0 && r.Error == nil
}

// Error implements the error interface for NotFoundError.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("build engine %q not found on PATH", e.Binary)
}

// Unwrap returns ErrEngineNotFound for errors.Is() compatibility.
func (e *NotFoundError) Unwrap() error { return ErrEngineNotFound }

// Locate resolves the engine binary on PATH.
func Locate(binary string) (string, error) {
	path, err := exec.LookPath(binary)
	if err != nil {
		return "", &NotFoundError{Binary: binary}
	}
	return path, nil
}

// Prepare shapes the engine invocation from a published build environment.
// The engine runs in the project root with the flow name as a build
// variable; tool environments and flow identity ride in the environment.
func Prepare(env *buildenv.BuildEnv, extraArgs []string) (*Invocation, error) {
	if env == nil || env.Flow == nil || env.Settings == nil {
		return nil, fmt.Errorf("build environment is incomplete")
	}

	path, err := Locate(env.Settings.EngineBinary)
	if err != nil {
		return nil, err
	}

	args := []string{"flow=" + env.Flow.Name}
	args = append(args, extraArgs...)

	return &Invocation{
		Binary: path,
		Args:   args,
		Dir:    env.Settings.ProjectRoot,
		Env:    buildEnviron(env),
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Stdin:  os.Stdin,
	}, nil
}

// Run executes the invocation and maps its outcome to a Result. The
// engine's own exit code passes through unchanged; failures to start at
// all report exit code 1 with the start error attached.
func Run(ctx context.Context, inv *Invocation) *Result {
	cmd := exec.CommandContext(ctx, inv.Binary, inv.Args...)
	cmd.Dir = inv.Dir
	cmd.Env = inv.Env
	cmd.Stdout = inv.Stdout
	cmd.Stderr = inv.Stderr
	cmd.Stdin = inv.Stdin

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &Result{ExitCode: exitErr.ExitCode()}
		}
		return &Result{ExitCode: 1, Error: err}
	}
	return &Result{ExitCode: 0}
}

// versionPattern matches the first dotted version in engine output, e.g.
// "SCons by Steven Knight et al.: ... engine: v4.5.2".
var versionPattern = regexp.MustCompile(`v?(\d+\.\d+(?:\.\d+)?)`)

// DetectVersion runs the engine with --version and parses the reported
// version for the host compatibility check.
func DetectVersion(ctx context.Context, binary string) (hostcheck.Version, error) {
	path, err := Locate(binary)
	if err != nil {
		return hostcheck.Version{}, err
	}

	out, err := exec.CommandContext(ctx, path, "--version").CombinedOutput()
	if err != nil {
		return hostcheck.Version{}, fmt.Errorf("failed to run %s --version: %w", binary, err)
	}
	return ParseVersionOutput(string(out))
}

// ParseVersionOutput extracts the engine version from its --version output.
func ParseVersionOutput(out string) (hostcheck.Version, error) {
	match := versionPattern.FindStringSubmatch(out)
	if match == nil {
		return hostcheck.Version{}, ErrVersionUndetected
	}
	return hostcheck.ParseVersion(match[1])
}

// buildEnviron combines the process environment with every resolved tool's
// environment and the flow identity variables. Tool variables are applied
// in sorted tool order so collisions resolve deterministically.
func buildEnviron(env *buildenv.BuildEnv) []string {
	environ := os.Environ()

	tools := maps.Keys(env.Tools)
	slices.Sort(tools)
	for _, name := range tools {
		binding := env.Tools[name]
		keys := maps.Keys(binding.Env)
		slices.Sort(keys)
		for _, k := range keys {
			environ = append(environ, k+"="+binding.Env[k])
		}
	}

	environ = append(environ, EnvFlow+"="+env.Flow.Name)
	var deps []string
	for _, d := range env.DependentFlows {
		deps = append(deps, d.Name)
	}
	environ = append(environ, EnvDependentFlows+"="+strings.Join(deps, ","))
	return environ
}
