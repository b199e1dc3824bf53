// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for tutorun.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/tutorun/tutorun/internal/config"
	"github.com/tutorun/tutorun/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string

	// appCfg holds the loaded application configuration.
	appCfg = config.DefaultConfig()

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "tutorun",
		Short: "Run step-by-step tutorials as executable provisioning scripts",
		Long: TitleStyle.Render("tutorun") + SubtitleStyle.Render(" - Run step-by-step tutorials as executable provisioning scripts") + `

tutorun executes tutorials defined in YAML or CUE files: shell commands,
file writes, operator prompts and alternative branches, with template
context propagation, retrying verification tests and automatic cleanup.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Describe your setup steps in a tutorial.yaml
  2. Validate it with: tutorun check tutorial.yaml
  3. Execute it with:  tutorun run tutorial.yaml

` + SubtitleStyle.Render("Examples:") + `
  tutorun run tutorial.yaml                   Run a tutorial
  tutorun run -a apt tutorial.yaml            Run, selecting the apt alternative
  tutorun run --show-output tutorial.yaml     Run with all command output visible
  tutorun check tutorial.yaml                 Validate without executing
  tutorun config init                         Create a default config file`,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/tutorun/config.toml)")

	// Add subcommands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(configCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Use fang.Execute for enhanced Cobra styling
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// initRootConfig reads in the config file if set.
func initRootConfig() {
	cfg, err := config.NewProvider().Load(context.Background(), config.LoadOptions{
		ConfigFilePath: cfgFile,
	})
	if err != nil {
		// Surface config loading errors but keep going on defaults.
		aerr := issue.WrapWithContext(err, "load configuration", cfgFile).
			WithSuggestions(
				"Create a default configuration: tutorun config init",
				"Remove the config file to fall back to defaults",
			)
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(aerr, verbose))
		printIssue(issue.ConfigLoadFailedId)
		return
	}
	appCfg = cfg

	// Apply verbose from config if not set via flag
	if !verbose {
		verbose = cfg.UI.Verbose
	}
}

// newLogger builds the application logger honoring the verbose flag.
func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix: config.AppName,
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
