// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// InteractiveAuto prompts only when stdin is a terminal.
	InteractiveAuto InteractiveMode = "auto"
	// InteractiveAlways prompts unconditionally.
	InteractiveAlways InteractiveMode = "always"
	// InteractiveNever skips prompts and error pauses.
	InteractiveNever InteractiveMode = "never"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidInteractiveMode is returned when an InteractiveMode value is not recognized.
	ErrInvalidInteractiveMode = errors.New("invalid interactive mode")
	// ErrInvalidProbeTimeout is returned when the probe timeout is not positive.
	ErrInvalidProbeTimeout = errors.New("invalid probe timeout")
)

type (
	// ColorScheme controls terminal color rendering.
	ColorScheme string

	// InteractiveMode controls whether prompt parts and error pauses run.
	InteractiveMode string

	// Config is the application configuration.
	Config struct {
		UI    UIConfig    `mapstructure:"ui" toml:"ui"`
		Run   RunConfig   `mapstructure:"run" toml:"run"`
		Probe ProbeConfig `mapstructure:"probe" toml:"probe"`
	}

	// UIConfig controls terminal presentation.
	UIConfig struct {
		ColorScheme ColorScheme     `mapstructure:"color_scheme" toml:"color_scheme"`
		Verbose     bool            `mapstructure:"verbose" toml:"verbose"`
		Interactive InteractiveMode `mapstructure:"interactive" toml:"interactive"`
	}

	// RunConfig holds run defaults applied when the corresponding flags are
	// not given.
	RunConfig struct {
		// ShowOutput forces command output even for commands that hide it.
		ShowOutput bool `mapstructure:"show_output" toml:"show_output"`
		// Alternatives are alternative keys selected for every run.
		Alternatives []string `mapstructure:"alternatives" toml:"alternatives"`
		// Environment is merged into the run-level environment overlay.
		Environment map[string]string `mapstructure:"environment" toml:"environment"`
	}

	// ProbeConfig tunes test verification.
	ProbeConfig struct {
		// DialTimeoutSeconds bounds a single port probe attempt.
		DialTimeoutSeconds float64 `mapstructure:"dial_timeout_seconds" toml:"dial_timeout_seconds"`
	}
)

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
			Interactive: InteractiveAuto,
		},
		Run: RunConfig{
			ShowOutput:   false,
			Alternatives: []string{},
		},
		Probe: ProbeConfig{
			DialTimeoutSeconds: 3,
		},
	}
}

// Validate checks the configuration for values the TOML decoding cannot
// reject.
func (c *Config) Validate() error {
	switch c.UI.ColorScheme {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
	default:
		return fmt.Errorf("ui.color_scheme %q: %w", c.UI.ColorScheme, ErrInvalidColorScheme)
	}

	switch c.UI.Interactive {
	case InteractiveAuto, InteractiveAlways, InteractiveNever:
	default:
		return fmt.Errorf("ui.interactive %q: %w", c.UI.Interactive, ErrInvalidInteractiveMode)
	}

	if c.Probe.DialTimeoutSeconds <= 0 {
		return fmt.Errorf("probe.dial_timeout_seconds %v: %w", c.Probe.DialTimeoutSeconds, ErrInvalidProbeTimeout)
	}
	return nil
}
