// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ConfigNotFoundId Id = iota + 1
	ConfigParseErrorId
	ConfigConflictId
	UnknownFlowId
	UnknownToolId
	MissingEnvVarId
	IncompatibleHostId
	MissingDependenciesId
	EngineNotFoundId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // must never be empty, because we need to have docs about all issue types
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also: "
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	configNotFoundIssue = &Issue{
		id: ConfigNotFoundId,
		mdMsg: `
# Configuration not found!

A required configuration file was not found in any search location.

## Search locations (in order of precedence):
1. Explicit path given with --theme-config / --flows-config / --tools-config
2. Directory given with --config-home or $CHAIN_CONFIG_HOME
3. Project root
4. ~/.config/chain/ (or $XDG_CONFIG_HOME/chain/)
5. The installation's config/ directory

## Things you can try:
- List the locations chain actually searched:
~~~
$ chain config path
~~~

- Create the file in your project root or user config directory
- Point chain at a directory that has it:
~~~
$ chain --config-home /path/to/configs <flow>
~~~`,
	}

	configParseErrorIssue = &Issue{
		id: ConfigParseErrorId,
		mdMsg: `
# Failed to parse configuration!

A configuration file exists but is not valid TOML, or does not match the
expected structure.

## Common issues:
- Invalid TOML syntax (unbalanced quotes or brackets)
- A top-level key that should be a table written as a scalar
- Wrong value types for known fields

## Things you can try:
- Check the error message above for the file and the failing key
- Validate the file with any TOML checker
- Show the merged view to see which files contribute:
~~~
$ chain config show flows
~~~

## Example flows.toml:
~~~toml
[flow.sim]
tool = "xcelium19"

[flow.sim.params]
seed = 1
~~~`,
	}

	configConflictIssue = &Issue{
		id: ConfigConflictId,
		mdMsg: `
# Configuration conflict!

Two configuration files disagree about the shape of the same key: one
treats it as a table, the other as a plain value. chain refuses to guess
which one you meant.

## Things you can try:
- Check the two files and the key path named above
- Make both files use the same shape for that key
- Bypass merging for flows entirely:
~~~
$ chain --single-flows-config <flow>
~~~`,
	}

	unknownFlowIssue = &Issue{
		id: UnknownFlowId,
		mdMsg: `
# Unknown flow!

The requested flow has no definition in the merged flows configuration.

## Things you can try:
- List the flows chain knows about:
~~~
$ chain flows list
~~~

- Check for typos in the flow name
- Make sure the file defining your flow is in a searched location:
~~~
$ chain config path
~~~`,
	}

	unknownToolIssue = &Issue{
		id: UnknownToolId,
		mdMsg: `
# Unknown tool!

A flow references a tool that has no binding in the merged tools
configuration.

## Things you can try:
- List the tools chain knows about:
~~~
$ chain tools list
~~~

- Add a binding for the tool:
~~~toml
[tool.xcelium19]
path = "/tools/xcelium19"
~~~

- Check which flow pulls the tool in:
~~~
$ chain flows describe <flow>
~~~`,
	}

	missingEnvVarIssue = &Issue{
		id: MissingEnvVarId,
		mdMsg: `
# Missing environment variable!

A tool's installation path references an environment variable that is not
set. Paths must resolve completely before a build can start.

## Things you can try:
- Export the variable named above before running chain
- Replace the placeholder with a literal path in tools.toml
- Inspect the binding:
~~~
$ chain tools describe <tool>
~~~`,
	}

	incompatibleHostIssue = &Issue{
		id: IncompatibleHostId,
		mdMsg: `
# Incompatible host!

The build engine installed on this host cannot run your flows: its major
version differs from the required one, or its minor version is too old.

## Things you can try:
- Check what the host has:
~~~
$ scons --version
~~~

- Install a compatible engine version
- Point chain at a different engine binary:
~~~
$ CHAIN_ENGINE_BINARY=/opt/scons/bin/scons chain <flow>
~~~`,
	}

	missingDependenciesIssue = &Issue{
		id: MissingDependenciesId,
		mdMsg: `
# Missing host dependencies!

One or more programs chain needs are not installed on this host. The full
list of missing names is printed above, so one fix round is enough.

## Things you can try:
- Install the missing programs with your package manager
- Check that they are on PATH for the shell running chain
- Re-run the host check on its own:
~~~
$ chain doctor
~~~`,
	}

	engineNotFoundIssue = &Issue{
		id: EngineNotFoundId,
		mdMsg: `
# Build engine not found!

chain dispatches builds to an external engine, but the engine binary is
not on PATH.

## Things you can try:
- Install the engine (SCons by default):
~~~
$ pip install scons
~~~

- Point chain at the binary explicitly:
~~~
$ CHAIN_ENGINE_BINARY=/opt/scons/bin/scons chain <flow>
~~~

- Verify what chain would run:
~~~
$ chain doctor
~~~`,
	}

	issues = map[Id]*Issue{
		configNotFoundIssue.Id():      configNotFoundIssue,
		configParseErrorIssue.Id():    configParseErrorIssue,
		configConflictIssue.Id():      configConflictIssue,
		unknownFlowIssue.Id():         unknownFlowIssue,
		unknownToolIssue.Id():         unknownToolIssue,
		missingEnvVarIssue.Id():       missingEnvVarIssue,
		incompatibleHostIssue.Id():    incompatibleHostIssue,
		missingDependenciesIssue.Id(): missingDependenciesIssue,
		engineNotFoundIssue.Id():      engineNotFoundIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
