// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	TutorialNotFoundId Id = iota + 1
	TutorialParseErrorId
	RequiredExecutableNotFoundId
	InvalidAlternativesId
	TestFailedId
	ConfigLoadFailedId
	GitExportFailedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // documentation links for this issue type
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

	tutorialNotFoundIssue = &Issue{
		id: TutorialNotFoundId,
		mdMsg: `
# Tutorial file not found!

We could not find the tutorial file you asked for.

## Things you can try:
- Check the path for typos
- Pass the file explicitly:
~~~
$ tutorun run ./tutorial.yaml
~~~
- Tutorials can be written in YAML or CUE; both extensions are accepted.`,
	}

	tutorialParseErrorIssue = &Issue{
		id: TutorialParseErrorId,
		mdMsg: `
# Failed to parse the tutorial file!

The tutorial contains syntax errors or invalid configuration.

## Common issues:
- Invalid YAML or CUE syntax
- Unknown part type (valid: commands, file, prompt, alternatives)
- A command defining both command and argv
- A file part defining both contents and source
- A status_code outside 0..255 that is not "ignore"

## Things you can try:
- Check the error message above for the exact field path
- Validate the file with:
~~~
$ tutorun check ./tutorial.yaml
~~~

## Example of a valid part:
~~~yaml
parts:
  - type: commands
    commands:
      - command: "echo hello"
        cleanup:
          - command: "rm -f hello.txt"
~~~`,
	}

	requiredExecutableNotFoundIssue = &Issue{
		id: RequiredExecutableNotFoundId,
		mdMsg: `
# Required executable not found!

The tutorial declares an executable that is not on your PATH, so nothing
was run.

## Things you can try:
- Install the missing tool with your package manager
- Check that the tool's directory is on PATH
- If the tutorial overrides PATH in its environment, verify that override`,
	}

	invalidAlternativesIssue = &Issue{
		id: InvalidAlternativesId,
		mdMsg: `
# Invalid alternative selection!

The tutorial has alternative parts and your selection does not resolve
them: either a required part has no selected key, or more than one key
matches the same part.

## Things you can try:
- List a tutorial's alternatives:
~~~
$ tutorun check ./tutorial.yaml
~~~
- Select exactly one key per part:
~~~
$ tutorun run --alternative apt ./tutorial.yaml
~~~`,
	}

	testFailedIssue = &Issue{
		id: TestFailedId,
		mdMsg: `
# A verification test did not pass!

A command ran, but its test never succeeded within the retry budget.

## Common causes:
- A service needs longer to come up than delay/retry allow
- A port test probes the wrong host or port
- An output regex does not match what the command actually printed

## Things you can try:
- Increase delay, retry or backoff_factor on the test
- Re-run with all command output visible:
~~~
$ tutorun run --show-output ./tutorial.yaml
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the tutorun configuration file.

## Configuration file locations:
- Linux: ~/.config/tutorun/config.toml
- macOS: ~/Library/Application Support/tutorun/config.toml
- Windows: %APPDATA%\tutorun\config.toml

## Things you can try:
- Create a default configuration:
~~~
$ tutorun config init
~~~
- Check the TOML syntax
- Remove the config file to use defaults`,
	}

	gitExportFailedIssue = &Issue{
		id: GitExportFailedId,
		mdMsg: `
# Git export failed!

The tutorial is configured with git_export, but exporting the work tree
did not succeed.

## Common causes:
- The tutorial directory is not inside a git repository
- The configured git_ref does not exist
- git or tar is not installed

## Things you can try:
- Run the tutorial from inside the repository it belongs to
- Check the ref:
~~~
$ git rev-parse <git_ref>
~~~`,
	}

	issues = map[Id]*Issue{
		tutorialNotFoundIssue.Id():           tutorialNotFoundIssue,
		tutorialParseErrorIssue.Id():         tutorialParseErrorIssue,
		requiredExecutableNotFoundIssue.Id(): requiredExecutableNotFoundIssue,
		invalidAlternativesIssue.Id():        invalidAlternativesIssue,
		testFailedIssue.Id():                 testFailedIssue,
		configLoadFailedIssue.Id():           configLoadFailedIssue,
		gitExportFailedIssue.Id():            gitExportFailedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
