// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/tutorun/tutorun/internal/config"
	"github.com/tutorun/tutorun/internal/engine"
	"github.com/tutorun/tutorun/internal/issue"
	"github.com/tutorun/tutorun/pkg/tutorialfile"
)

var (
	runAlternatives   []string
	runNonInteractive bool
	runShowOutput     bool
	runEnvVars        []string

	runCmd = &cobra.Command{
		Use:   "run <tutorial>",
		Short: "Execute a tutorial file",
		Long: `Execute a tutorial file part by part: commands, file writes, prompts and
alternative branches. Failures drain the cleanup stack before exiting.`,
		Args: cobra.ExactArgs(1),
		RunE: runTutorial,
	}
)

func init() {
	runCmd.Flags().StringArrayVarP(&runAlternatives, "alternative", "a", nil, "select an alternative key (repeatable)")
	runCmd.Flags().BoolVar(&runNonInteractive, "non-interactive", false, "skip prompts and error pauses")
	runCmd.Flags().BoolVar(&runShowOutput, "show-output", false, "show output of all commands, even ones that hide it")
	runCmd.Flags().StringArrayVarP(&runEnvVars, "env-var", "e", nil, "set an environment variable for the run (KEY=VALUE, repeatable)")
}

func runTutorial(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	tut, err := loadTutorial(args[0])
	if err != nil {
		return err
	}

	extraEnv := make(map[string]string, len(appCfg.Run.Environment)+len(runEnvVars))
	for k, v := range appCfg.Run.Environment {
		extraEnv[k] = v
	}
	for _, kv := range runEnvVars {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			return fmt.Errorf("--env-var %q: expected KEY=VALUE", kv)
		}
		extraEnv[k] = v
	}

	selected := append(append([]string(nil), appCfg.Run.Alternatives...), runAlternatives...)

	opts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithAlternatives(selected),
		engine.WithShowOutput(runShowOutput || appCfg.Run.ShowOutput),
		engine.WithExtraEnv(extraEnv),
	}
	if interactiveRun() {
		opts = append(opts, engine.WithPrompter(&engine.TerminalPrompter{In: os.Stdin, Out: os.Stdout}))
	}
	if appCfg.Probe.DialTimeoutSeconds > 0 {
		opts = append(opts, engine.WithDialTimeout(time.Duration(appCfg.Probe.DialTimeoutSeconds*float64(time.Second))))
	}

	if err := engine.NewRunner(opts...).Run(cmd.Context(), tut); err != nil {
		showIssueFor(err)
		return &ExitError{Code: 1, Err: err}
	}

	logger.Info("Tutorial finished.")
	return nil
}

// loadTutorial loads and parses a tutorial file, mapping failures onto
// their user-facing issues.
func loadTutorial(path string) (*tutorialfile.Tutorial, error) {
	tut, err := tutorialfile.Load(path)
	if err == nil {
		return tut, nil
	}

	id := issue.TutorialParseErrorId
	if errors.Is(err, os.ErrNotExist) {
		id = issue.TutorialNotFoundId
	}
	printIssue(id)
	aerr := issue.WrapWithContext(err, "load tutorial", path).
		WithSuggestions("Validate the file with: tutorun check " + path)
	return nil, &ExitError{Code: 2, Err: aerr}
}

// interactiveRun decides whether prompts and error pauses run, combining
// the --non-interactive flag, the config and the terminal state.
func interactiveRun() bool {
	if runNonInteractive {
		return false
	}
	switch appCfg.UI.Interactive {
	case config.InteractiveAlways:
		return true
	case config.InteractiveNever:
		return false
	default:
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}
}

// showIssueFor prints the rendered issue card matching a run failure, when
// one exists.
func showIssueFor(err error) {
	switch {
	case errors.Is(err, engine.ErrRequiredExecutable):
		printIssue(issue.RequiredExecutableNotFoundId)
	case errors.Is(err, engine.ErrInvalidAlternatives):
		printIssue(issue.InvalidAlternativesId)
	case errors.Is(err, engine.ErrTestExhausted), errors.Is(err, engine.ErrOutputMismatch):
		printIssue(issue.TestFailedId)
	case errors.Is(err, engine.ErrGitExport):
		printIssue(issue.GitExportFailedId)
	}
}

func printIssue(id issue.Id) {
	is := issue.Get(id)
	if is == nil {
		return
	}
	rendered, err := is.Render(issueStyle())
	if err != nil {
		fmt.Fprintln(os.Stderr, string(is.MarkdownMsg()))
		return
	}
	fmt.Fprintln(os.Stderr, rendered)
}

// issueStyle maps the configured color scheme onto a glamour style name.
func issueStyle() string {
	switch appCfg.UI.ColorScheme {
	case config.ColorSchemeLight:
		return "light"
	case config.ColorSchemeDark:
		return "dark"
	default:
		return "auto"
	}
}
