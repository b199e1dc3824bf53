// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tutorun/tutorun/pkg/tutorialfile"
)

// Sentinel errors for programmatic detection with errors.Is. The concrete
// error types below wrap exactly one sentinel each, giving a closed set of
// failure kinds with explicit severity:
//
//   - fatal preflight (nothing ran, no cleanup): ErrRequiredExecutable,
//     ErrInvalidAlternatives, ErrGitExport
//   - abort with cleanup: ErrStatusMismatch, ErrTestExhausted,
//     ErrOutputMismatch, ErrTemplate
//   - soft continue (logged, swallowed by the run guard): ErrNotConfirmed
var (
	ErrRequiredExecutable  = errors.New("required executable not found")
	ErrInvalidAlternatives = errors.New("invalid alternatives selected")
	ErrGitExport           = errors.New("git export failed")
	ErrStatusMismatch      = errors.New("unexpected status code")
	ErrTestExhausted       = errors.New("test did not pass")
	ErrOutputMismatch      = errors.New("unexpected command output")
	ErrNotConfirmed        = errors.New("prompt not confirmed")
	ErrTemplate            = errors.New("template rendering failed")
)

// RequiredExecutableError is raised by the preflight check when a required
// executable does not resolve on PATH.
type RequiredExecutableError struct {
	Name string
}

func (e *RequiredExecutableError) Error() string {
	return fmt.Sprintf("%s: required executable not found.", e.Name)
}

func (e *RequiredExecutableError) Unwrap() error { return ErrRequiredExecutable }

// AlternativesError is raised by the preflight validation of alternative
// parts. An empty Keys slice means a required part had no selection; more
// than one key means the selection was ambiguous.
type AlternativesError struct {
	// Position is the index of the part in the tutorial.
	Position int
	// Keys are the conflicting selected keys (sorted), empty when none
	// was selected.
	Keys []string
}

func (e *AlternativesError) Error() string {
	if len(e.Keys) == 0 {
		return fmt.Sprintf("parts[%d]: no alternative selected.", e.Position)
	}
	return fmt.Sprintf("parts[%d]: more than one alternative selected: %s.", e.Position, strings.Join(e.Keys, ", "))
}

func (e *AlternativesError) Unwrap() error { return ErrInvalidAlternatives }

// GitExportError is raised when exporting the surrounding git work tree
// into the scratch directory fails.
type GitExportError struct {
	Ref string
	Err error
}

func (e *GitExportError) Error() string {
	return fmt.Sprintf("git export of %s failed: %v", e.Ref, e.Err)
}

func (e *GitExportError) Unwrap() error { return ErrGitExport }

// StatusMismatchError is raised when a command exits with a code other
// than its expected one.
type StatusMismatchError struct {
	// Command is the rendered command line.
	Command  string
	Actual   int
	Expected int
}

func (e *StatusMismatchError) Error() string {
	return fmt.Sprintf("%s failed with return code %d (expected: %d).", e.Command, e.Actual, e.Expected)
}

func (e *StatusMismatchError) Unwrap() error { return ErrStatusMismatch }

// TestExhaustedError is raised when every attempt of a command or port
// test has failed.
type TestExhaustedError struct {
	Attempts int
}

func (e *TestExhaustedError) Error() string { return "Test did not pass" }

func (e *TestExhaustedError) Unwrap() error { return ErrTestExhausted }

// OutputMismatchError is raised when an output test's regex does not match
// the captured stream.
type OutputMismatchError struct {
	Stream tutorialfile.Stream
	Output string
}

func (e *OutputMismatchError) Error() string {
	return fmt.Sprintf("Process did not have the expected output: %q", e.Output)
}

func (e *OutputMismatchError) Unwrap() error { return ErrOutputMismatch }

// NotConfirmedError is raised when the operator answers a confirm prompt
// negatively. The run guard logs it as a warning and proceeds to cleanup
// without the interactive pause.
type NotConfirmedError struct {
	// Message is the rendered error message of the prompt part.
	Message string
}

func (e *NotConfirmedError) Error() string { return e.Message }

func (e *NotConfirmedError) Unwrap() error { return ErrNotConfirmed }

// TemplateError is raised when a template fails to parse or render. It is
// a configuration error and is never retried.
type TemplateError struct {
	Template string
	Err      error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("%s: template error: %v", e.Template, e.Err)
}

func (e *TemplateError) Unwrap() error { return ErrTemplate }
