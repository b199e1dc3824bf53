// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tutorun/tutorun/pkg/tutorialfile"
)

const errorPause = "An error occurred while running the tutorial.\nCurrent working directory is %s\n\nPress Enter to continue... "

// Runner executes a tutorial end to end: preflight validation, scratch
// space setup, the part loop, and the cleanup drain.
type Runner struct {
	Logger   *log.Logger
	Stdout   io.Writer
	Stderr   io.Writer
	Clock    Clock
	Prompter Prompter // nil means non-interactive

	// Selected are the alternative keys chosen by the operator.
	Selected []string
	// ForceShowOutput overrides per-command show_output: false.
	ForceShowOutput bool
	// ExtraEnv is merged into the run-level environment overlay, winning
	// over the tutorial configuration.
	ExtraEnv map[string]string
	// DialTimeout bounds a single port probe; zero means the default.
	DialTimeout time.Duration
}

// Option configures a Runner.
type Option func(*Runner)

func WithLogger(l *log.Logger) Option            { return func(r *Runner) { r.Logger = l } }
func WithOutput(stdout, stderr io.Writer) Option { return func(r *Runner) { r.Stdout, r.Stderr = stdout, stderr } }
func WithClock(c Clock) Option                   { return func(r *Runner) { r.Clock = c } }
func WithPrompter(p Prompter) Option             { return func(r *Runner) { r.Prompter = p } }
func WithAlternatives(keys []string) Option      { return func(r *Runner) { r.Selected = keys } }
func WithShowOutput(force bool) Option           { return func(r *Runner) { r.ForceShowOutput = force } }
func WithExtraEnv(env map[string]string) Option  { return func(r *Runner) { r.ExtraEnv = env } }
func WithDialTimeout(d time.Duration) Option     { return func(r *Runner) { r.DialTimeout = d } }

// NewRunner creates a Runner with the given options applied over sane
// defaults (system clock, process stdio, non-interactive).
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Logger: log.Default(),
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Clock:  SystemClock{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the tutorial. Preflight failures (bad alternative selection,
// missing executables) return before anything ran. Once parts start
// running, any failure still drains the cleanup stack; in interactive mode
// the drain is preceded by a pause so the operator can inspect the scratch
// space first. A declined confirm prompt ends the run early but is not
// treated as a failure.
func (r *Runner) Run(ctx context.Context, tut *tutorialfile.Tutorial) error {
	selector := &Selector{Selected: r.Selected}
	if err := selector.Validate(tut); err != nil {
		return err
	}

	runCtx := NewContext(tut, r.Selected)
	for k, v := range r.ExtraEnv {
		runCtx.Env[k] = v
	}

	if err := r.checkExecutables(tut, runCtx); err != nil {
		return err
	}

	exec := &Executor{
		Stdout:          r.Stdout,
		Stderr:          r.Stderr,
		Root:            tut.Root,
		ForceShowOutput: r.ForceShowOutput || tut.Configuration.ShowOutput,
		ClearEnv:        tut.Configuration.ClearEnvironment,
	}
	tests := &TestRunner{Exec: exec, Clock: r.Clock, Logger: r.Logger, DialTimeout: r.DialTimeout}
	stack := &CleanupStack{Exec: exec, Logger: r.Logger}

	scratch := &Scratch{Logger: r.Logger}
	space, err := scratch.Enter(ctx, tut, runCtx)
	if err != nil {
		return err
	}
	defer func() {
		if err := space.Close(); err != nil {
			r.Logger.Error("failed to remove scratch directory", "err", err)
		}
	}()

	runErr := r.runParts(ctx, tut, runCtx, exec, tests, stack, selector)

	switch {
	case runErr == nil:
	case errors.Is(runErr, ErrNotConfirmed):
		r.Logger.Warn(runErr.Error())
		runErr = nil
	default:
		r.Logger.Error("tutorial failed", "err", runErr)
		if r.Prompter != nil {
			if err := r.Prompter.Pause(fmt.Sprintf(errorPause, runCtx.Cwd())); err != nil {
				r.Logger.Error("pause failed", "err", err)
			}
		}
	}

	stack.Drain(ctx, runCtx)
	return runErr
}

// runParts recovers panics from part execution into errors so the cleanup
// drain always runs.
func (r *Runner) runParts(ctx context.Context, tut *tutorialfile.Tutorial, runCtx *Context, exec *Executor, tests *TestRunner, stack *CleanupStack, selector *Selector) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("part execution panicked: %v", p)
		}
	}()

	for i := range tut.Parts {
		if err := r.runPart(ctx, &tut.Parts[i], fmt.Sprintf("parts[%d]", i), runCtx, exec, tests, stack, selector); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) runPart(ctx context.Context, part *tutorialfile.Part, pos string, runCtx *Context, exec *Executor, tests *TestRunner, stack *CleanupStack, selector *Selector) error {
	if part.Skip {
		r.Logger.Debug("skipping part", "part", pos)
		return nil
	}

	switch part.Kind {
	case tutorialfile.PartCommands:
		for i := range part.Commands.Commands {
			if err := r.runCommand(ctx, &part.Commands.Commands[i], runCtx, exec, tests, stack); err != nil {
				return err
			}
		}

	case tutorialfile.PartFile:
		if err := r.runFile(part.File, runCtx, exec); err != nil {
			return err
		}

	case tutorialfile.PartPrompt:
		if err := r.runPrompt(part.Prompt, runCtx); err != nil {
			return err
		}

	case tutorialfile.PartAlternative:
		nested, key, ok := selector.Pick(part.Alternative)
		if !ok {
			r.Logger.Debug("no alternative selected, skipping part", "part", pos)
			break
		}
		if err := r.runPart(ctx, &nested, pos+".alternatives["+key+"]", runCtx, exec, tests, stack, selector); err != nil {
			return err
		}
	}

	if part.UpdateContext != nil {
		return runCtx.Update(part.UpdateContext)
	}
	return nil
}

// runCommand executes one command and its verification pipeline. The
// cleanup block is registered as soon as the process ran, before the status
// check: a command that started work and then failed still needs its
// cleanup. The working directory change applies only after the command and
// its tests passed.
func (r *Runner) runCommand(ctx context.Context, cmd *tutorialfile.Command, runCtx *Context, exec *Executor, tests *TestRunner, stack *CleanupStack) error {
	dir := runCtx.Cwd()

	res, err := exec.Execute(ctx, cmd, runCtx, dir)
	if err != nil {
		return err
	}
	stack.Register(cmd.Cleanup, dir)

	if err := exec.CheckStatus(res, cmd); err != nil {
		return err
	}

	for i := range cmd.Tests {
		if err := tests.Run(ctx, &cmd.Tests[i], res, runCtx, dir); err != nil {
			return err
		}
	}

	if cmd.Chdir != "" {
		target, err := Render(cmd.Chdir, runCtx.Values)
		if err != nil {
			return err
		}
		if !filepath.IsAbs(target) {
			target = filepath.Join(dir, target)
		}
		info, err := os.Stat(target)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("%s: not a directory", target)
		}
		runCtx.SetCwd(target)
	}

	if cmd.UpdateContext != nil {
		return runCtx.Update(cmd.UpdateContext)
	}
	return nil
}

// runFile writes a file part's contents to its destination. A destination
// with a trailing separator is treated as a directory and the filename is
// derived from the source. Existing destinations are never overwritten.
func (r *Runner) runFile(part *tutorialfile.FilePart, runCtx *Context, exec *Executor) error {
	dest, err := Render(part.Destination, runCtx.Values)
	if err != nil {
		return err
	}

	if strings.HasSuffix(dest, "/") || strings.HasSuffix(dest, string(os.PathSeparator)) {
		if part.Source == "" {
			return fmt.Errorf("%s: Destination is directory, but no source given to derive filename.", dest)
		}
		dest = filepath.Join(dest, filepath.Base(part.Source))
	}
	if !filepath.IsAbs(dest) {
		dest = filepath.Join(runCtx.Cwd(), dest)
	}

	if _, err := os.Stat(dest); err == nil {
		return fmt.Errorf("%s: Destination already exists.", dest)
	}

	var data string
	if part.Contents != nil {
		data = *part.Contents
	} else {
		raw, err := os.ReadFile(filepath.Join(exec.Root, part.Source))
		if err != nil {
			return err
		}
		data = string(raw)
	}
	if part.Template {
		data, err = Render(data, runCtx.Values)
		if err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	r.Logger.Info("writing file", "dest", dest)
	return os.WriteFile(dest, []byte(data), 0o644)
}

// runPrompt asks the operator. Prompt parts only make sense with a
// terminal; non-interactive runs skip them.
func (r *Runner) runPrompt(part *tutorialfile.PromptPart, runCtx *Context) error {
	if r.Prompter == nil {
		r.Logger.Debug("non-interactive run, skipping prompt")
		return nil
	}

	text, err := Render(part.Text, runCtx.Values)
	if err != nil {
		return err
	}

	switch part.Mode {
	case tutorialfile.PromptConfirm:
		ok, err := r.Prompter.Confirm(text, part.Default)
		if err != nil {
			return err
		}
		if !ok {
			msg, err := Render(part.ErrorMessage, runCtx.Values)
			if err != nil {
				return err
			}
			return &NotConfirmedError{Message: msg}
		}
		return nil
	default:
		return r.Prompter.Pause(text)
	}
}

// checkExecutables verifies that every required executable, including those
// of the selected alternatives, resolves on the effective PATH. The
// run-level environment overlay may replace PATH, so the check honors it.
func (r *Runner) checkExecutables(tut *tutorialfile.Tutorial, runCtx *Context) error {
	required := append([]string(nil), tut.Configuration.RequiredExecutables...)
	for _, key := range r.Selected {
		if alt, ok := tut.Configuration.Alternatives[key]; ok {
			required = append(required, alt.RequiredExecutables...)
		}
	}
	if len(required) == 0 {
		return nil
	}

	pathEnv := os.Getenv("PATH")
	if tut.Configuration.ClearEnvironment {
		pathEnv = ""
	}
	if override, ok := runCtx.Env["PATH"]; ok {
		rendered, err := Render(override, runCtx.Values)
		if err != nil {
			return err
		}
		pathEnv = rendered
	}

	for _, name := range required {
		if !executableOnPath(name, pathEnv) {
			return &RequiredExecutableError{Name: name}
		}
	}
	return nil
}

// executableOnPath scans pathEnv for name. os/exec.LookPath only consults
// the process PATH, which the tutorial may have replaced.
func executableOnPath(name, pathEnv string) bool {
	if strings.ContainsRune(name, os.PathSeparator) {
		return isExecutable(name)
	}
	for _, dir := range filepath.SplitList(pathEnv) {
		if dir == "" {
			dir = "."
		}
		if isExecutable(filepath.Join(dir, name)) {
			return true
		}
	}
	return false
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir() && info.Mode()&0o111 != 0
}
