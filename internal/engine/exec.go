// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/tutorun/tutorun/pkg/tutorialfile"
)

// Result is the outcome of a single command execution.
type Result struct {
	// Display is the rendered command line, as echoed to the operator.
	Display  string
	ExitCode int
	// Stdout and Stderr are only populated when the command carries an
	// output test; plain commands stream without capturing.
	Stdout string
	Stderr string
}

// Executor renders and runs a single command against the current run
// context. Shell-form commands run through the embedded POSIX interpreter,
// argv-form commands through os/exec.
type Executor struct {
	Stdout io.Writer
	Stderr io.Writer
	// Root is the tutorial directory; stdin source paths resolve against it.
	Root string
	// ForceShowOutput overrides per-command show_output: false.
	ForceShowOutput bool
	// ClearEnv starts every command from an empty process environment.
	ClearEnv bool
}

// Execute renders the command line, environment and stdin against the run
// context and executes the command in dir. Output is captured only when the
// command carries an output test. The exit code is returned in the Result,
// not as an error; status verification is a separate step so cleanup can be
// registered in between.
func (e *Executor) Execute(ctx context.Context, cmd *tutorialfile.Command, runCtx *Context, dir string) (*Result, error) {
	display, argv, script, err := e.renderCommandLine(cmd, runCtx)
	if err != nil {
		return nil, err
	}

	env, err := e.composeEnv(cmd, runCtx)
	if err != nil {
		return nil, err
	}

	stdin, err := e.resolveStdin(cmd, runCtx)
	if err != nil {
		return nil, err
	}

	show := e.ForceShowOutput || cmd.ShowOutput
	capture := hasOutputTest(cmd)

	res := &Result{Display: display}

	var outBuf, errBuf bytes.Buffer
	stdout := e.writerFor(e.Stdout, &outBuf, show, capture)
	stderr := e.writerFor(e.Stderr, &errBuf, show, capture)

	if show {
		fmt.Fprintf(e.Stdout, "+ %s\n", display)
	}

	if cmd.IsShell() {
		res.ExitCode, err = e.runShell(ctx, script, dir, env, stdin, stdout, stderr)
	} else {
		res.ExitCode, err = e.runArgv(ctx, argv, dir, env, stdin, stdout, stderr)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", display, err)
	}

	if capture {
		res.Stdout = outBuf.String()
		res.Stderr = errBuf.String()
	}
	return res, nil
}

// CheckStatus verifies the exit code against the command's expectation.
// Commands with status_code: ignore always pass.
func (e *Executor) CheckStatus(res *Result, cmd *tutorialfile.Command) error {
	if cmd.Status.Ignored() {
		return nil
	}
	if res.ExitCode != int(cmd.Status) {
		return &StatusMismatchError{
			Command:  res.Display,
			Actual:   res.ExitCode,
			Expected: int(cmd.Status),
		}
	}
	return nil
}

// renderCommandLine renders the shell string or every argv element and
// builds the display form echoed to the operator.
func (e *Executor) renderCommandLine(cmd *tutorialfile.Command, runCtx *Context) (display string, argv []string, script string, err error) {
	if cmd.IsShell() {
		script, err = Render(cmd.Shell, runCtx.Values)
		if err != nil {
			return "", nil, "", err
		}
		return script, nil, script, nil
	}

	argv = make([]string, 0, len(cmd.Argv))
	quoted := make([]string, 0, len(cmd.Argv))
	for _, arg := range cmd.Argv {
		rendered, err := Render(arg, runCtx.Values)
		if err != nil {
			return "", nil, "", err
		}
		argv = append(argv, rendered)
		q, err := syntax.Quote(rendered, syntax.LangBash)
		if err != nil {
			q = rendered
		}
		quoted = append(quoted, q)
	}
	return strings.Join(quoted, " "), argv, "", nil
}

// composeEnv builds the process environment: the inherited environment (or
// an empty one), the rendered run-level overlay, then the rendered
// per-command overlay. Later layers win.
func (e *Executor) composeEnv(cmd *tutorialfile.Command, runCtx *Context) ([]string, error) {
	env := map[string]string{}
	if !e.ClearEnv && !cmd.ClearEnvironment {
		for _, kv := range os.Environ() {
			if k, v, ok := strings.Cut(kv, "="); ok {
				env[k] = v
			}
		}
	}

	runEnv, err := RenderAll(runCtx.Env, runCtx.Values)
	if err != nil {
		return nil, err
	}
	for k, v := range runEnv {
		env[k] = v
	}

	cmdEnv, err := RenderAll(cmd.Environment, runCtx.Values)
	if err != nil {
		return nil, err
	}
	for k, v := range cmdEnv {
		env[k] = v
	}

	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, k+"="+v)
	}
	return out, nil
}

// resolveStdin builds the command's stdin reader: inline contents or a file
// relative to the tutorial directory, both rendered unless templating is
// disabled.
func (e *Executor) resolveStdin(cmd *tutorialfile.Command, runCtx *Context) (io.Reader, error) {
	spec := cmd.Stdin
	if spec == nil {
		return nil, nil
	}

	var data string
	if spec.Contents != nil {
		data = *spec.Contents
	} else {
		raw, err := os.ReadFile(filepath.Join(e.Root, spec.Source))
		if err != nil {
			return nil, err
		}
		data = string(raw)
	}

	if spec.Template {
		rendered, err := Render(data, runCtx.Values)
		if err != nil {
			return nil, err
		}
		data = rendered
	}
	return strings.NewReader(data), nil
}

func (e *Executor) writerFor(stream io.Writer, buf *bytes.Buffer, show, capture bool) io.Writer {
	switch {
	case show && capture:
		return io.MultiWriter(stream, buf)
	case capture:
		return buf
	case show:
		return stream
	default:
		return io.Discard
	}
}

func (e *Executor) runShell(ctx context.Context, script, dir string, env []string, stdin io.Reader, stdout, stderr io.Writer) (int, error) {
	prog, err := syntax.NewParser().Parse(strings.NewReader(script), "command")
	if err != nil {
		return 0, fmt.Errorf("parse failed: %w", err)
	}

	runner, err := interp.New(
		interp.Dir(dir),
		interp.Env(expand.ListEnviron(env...)),
		interp.StdIO(stdin, stdout, stderr),
	)
	if err != nil {
		return 0, err
	}

	if err := runner.Run(ctx, prog); err != nil {
		var exitStatus interp.ExitStatus
		if errors.As(err, &exitStatus) {
			return int(exitStatus), nil
		}
		return 0, err
	}
	return 0, nil
}

func (e *Executor) runArgv(ctx context.Context, argv []string, dir string, env []string, stdin io.Reader, stdout, stderr io.Writer) (int, error) {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Env = env
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return 0, err
	}
	return 0, nil
}

func hasOutputTest(cmd *tutorialfile.Command) bool {
	for i := range cmd.Tests {
		if cmd.Tests[i].Kind == tutorialfile.TestOutput {
			return true
		}
	}
	return false
}
