// SPDX-License-Identifier: MPL-2.0

package tutorialfile

// ExpectedStatus is the exit code a command must produce. The loader maps
// the definition value "ignore" to StatusIgnore.
type ExpectedStatus int

// StatusIgnore disables the status check for a command.
const StatusIgnore ExpectedStatus = -1

// Ignored reports whether the status check is disabled.
func (s ExpectedStatus) Ignored() bool { return s == StatusIgnore }

type (
	// Command is a single process invocation. Exactly one of Shell/Argv
	// is set (enforced by the loader): Shell is interpreted by a POSIX
	// shell, Argv is executed directly without one. Every string field is
	// a template, rendered against the run context immediately before use.
	Command struct {
		// Shell is the single-string, shell-interpreted form.
		Shell string
		// Argv is the no-shell argument-vector form.
		Argv []string

		// Status is the expected exit code (default 0) or StatusIgnore.
		Status ExpectedStatus
		// ShowOutput echoes process output when true (the default).
		ShowOutput bool
		// Environment overrides applied on top of the run environment.
		Environment map[string]string
		// ClearEnvironment drops the inherited process environment.
		ClearEnvironment bool
		// Stdin optionally feeds the process standard input.
		Stdin *StdinSpec
		// Chdir switches the working directory after the command
		// succeeds; the change persists for later parts.
		Chdir string
		// Cleanup commands are pushed onto the run's cleanup stack as
		// soon as the command has executed, before its status check.
		Cleanup []Command
		// Tests verify the command's effect (see Test).
		Tests []Test
		// UpdateContext is merged into the run context after the
		// command and its tests pass.
		UpdateContext map[string]any
	}

	// StdinSpec describes the standard input of a command. Exactly one of
	// Contents/Source is set. The data is rendered against the run
	// context before piping unless Template is false.
	StdinSpec struct {
		Contents *string
		Source   string
		Template bool
	}
)

// IsShell reports whether the command uses the shell-interpreted form.
func (c *Command) IsShell() bool { return len(c.Argv) == 0 }
