// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

const checkFixture = `
parts:
  - type: commands
    commands:
      - command: "echo one"
      - command: "echo two"
  - type: file
    contents: "data"
    destination: "out.txt"
  - type: prompt
    text: "Ready?"
    mode: confirm
  - type: alternatives
    alternatives:
      apt:
        type: commands
        commands:
          - command: "apt-get install pkg"
      brew:
        type: commands
        commands:
          - command: "brew install pkg"
configuration:
  temporary_directory: true
  required_executables: ["git"]
`

func runCheck(t *testing.T, path string) (string, error) {
	t.Helper()
	cmd := &cobra.Command{}
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	err := checkTutorial(cmd, []string{path})
	return buf.String(), err
}

func TestCheckTutorial(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tutorial.yaml")
	if err := os.WriteFile(path, []byte(checkFixture), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCheck(t, path)
	if err != nil {
		t.Fatalf("checkTutorial() unexpected error: %v", err)
	}

	for _, want := range []string{
		"parts: 4",
		"commands (2 commands)",
		"file -> out.txt",
		"prompt (confirm)",
		"alternatives (apt, brew)",
		"required executables: git",
		"alternative keys: apt, brew",
		"scratch: temporary directory",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCheckTutorial_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tutorial.yaml")
	if err := os.WriteFile(path, []byte("parts: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := runCheck(t, path)
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("checkTutorial() = %v, want *ExitError", err)
	}
	if exitErr.Code != 2 {
		t.Errorf("Code = %d, want 2", exitErr.Code)
	}
}

func TestCheckTutorial_MissingFile(t *testing.T) {
	_, err := runCheck(t, filepath.Join(t.TempDir(), "nope.yaml"))
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("checkTutorial() = %v, want *ExitError", err)
	}
}
