// SPDX-License-Identifier: MPL-2.0

package tutorialfile

type (
	// Configuration is the run-level configuration of a tutorial.
	Configuration struct {
		// Context seeds the template namespace of the run.
		Context map[string]any
		// Environment seeds the process environment overlay. Values are
		// templates, rendered when a command composes its environment.
		Environment map[string]string
		// ClearEnvironment starts every command from an empty process
		// environment instead of the inherited one.
		ClearEnvironment bool

		// TemporaryDirectory runs the tutorial inside a fresh temporary
		// directory. Mutually exclusive with GitExport.
		TemporaryDirectory bool
		// GitExport runs the tutorial inside a clean export of the
		// current git work tree (git archive | tar -x).
		GitExport bool
		// GitRef is the reference exported by GitExport (default HEAD).
		GitRef string

		// ShowOutput forces command output to be echoed even for
		// commands that hide it.
		ShowOutput bool

		// RequiredExecutables must resolve on PATH before any part runs.
		RequiredExecutables []string

		// Alternatives holds per-key sub-configuration that is merged
		// into the run when that alternative key is selected.
		Alternatives map[string]AlternativeConfiguration
	}

	// AlternativeConfiguration is merged into the run configuration when
	// its alternative key is selected.
	AlternativeConfiguration struct {
		Context             map[string]any
		Environment         map[string]string
		RequiredExecutables []string
	}
)
