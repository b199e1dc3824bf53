// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue/errors"
)

// ValidationError is a single CUE validation failure with file context.
type ValidationError struct {
	// FilePath is the file being validated.
	FilePath string

	// FieldPath is the JSON-style path to the invalid value
	// (e.g. "parts[0].commands[1].status_code").
	FieldPath string

	// Message is the validation error message.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.FieldPath != "" {
		return fmt.Sprintf("%s: %s: %s", e.FilePath, e.FieldPath, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
}

// FormatError formats a CUE error with JSON-style path prefixes.
//
// Error format: <file-path>: <field-path>: <message>
//
// Example:
//
//	tutorial.yaml: parts[1].commands[0].status_code: invalid value 300 (out of bound <=255)
func FormatError(err error, filePath string) error {
	if err == nil {
		return nil
	}

	cueErrors := errors.Errors(err)
	if len(cueErrors) == 0 {
		return fmt.Errorf("%s: %w", filePath, err)
	}

	errs := make([]error, 0, len(cueErrors))
	for _, e := range cueErrors {
		pathStr := formatPath(errors.Path(e))
		msg := e.Error()

		// CUE sometimes repeats the path inside the message itself.
		if pathStr != "" && strings.HasPrefix(msg, pathStr) {
			msg = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(msg, pathStr), ":"))
		}

		errs = append(errs, &ValidationError{
			FilePath:  filePath,
			FieldPath: pathStr,
			Message:   msg,
		})
	}

	if len(errs) == 1 {
		return errs[0]
	}
	return joinErrors(errs)
}

// formatPath renders a CUE path as a JSON-style selector chain,
// e.g. ["parts", "0", "commands"] -> "parts[0].commands".
func formatPath(path []string) string {
	var b strings.Builder
	for _, elem := range path {
		if isIndex(elem) {
			b.WriteString("[")
			b.WriteString(elem)
			b.WriteString("]")
			continue
		}
		if b.Len() > 0 {
			b.WriteString(".")
		}
		b.WriteString(elem)
	}
	return b.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

type multiError struct {
	errs []error
}

func joinErrors(errs []error) error {
	return &multiError{errs: errs}
}

func (m *multiError) Error() string {
	lines := make([]string, len(m.errs))
	for i, e := range m.errs {
		lines[i] = e.Error()
	}
	return strings.Join(lines, "\n")
}

func (m *multiError) Unwrap() []error { return m.errs }
