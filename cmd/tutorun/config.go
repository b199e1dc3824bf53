// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strconv"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/tutorun/tutorun/internal/config"
)

var (
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Manage tutorun configuration",
	}

	configShowCmd = &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := toml.Marshal(appCfg)
			if err != nil {
				return fmt.Errorf("failed to encode config: %w", err)
			}
			cmd.Print(string(data))
			return nil
		},
	}

	configInitCmd = &cobra.Command{
		Use:   "init",
		Short: "Create a default config file if none exists",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.CreateDefaultConfig()
			if err != nil {
				return err
			}
			cmd.Println(SuccessStyle.Render("✓") + " " + path)
			return nil
		},
	}

	configPathCmd = &cobra.Command{
		Use:   "path",
		Short: "Print the config directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := config.ConfigDir()
			if err != nil {
				return err
			}
			cmd.Println(dir)
			return nil
		},
	}

	configSetCmd = &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value and write it to the config file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := applyConfigValue(appCfg, args[0], args[1]); err != nil {
				return err
			}
			if err := appCfg.Validate(); err != nil {
				return err
			}
			if err := config.Save(appCfg); err != nil {
				return err
			}
			cmd.Println(SuccessStyle.Render("✓") + " " + args[0] + " = " + args[1])
			return nil
		},
	}
)

// applyConfigValue sets a single dotted key from its command-line string
// form. Enum values are validated afterwards by Config.Validate.
func applyConfigValue(cfg *config.Config, key, value string) error {
	switch key {
	case "ui.color_scheme":
		cfg.UI.ColorScheme = config.ColorScheme(value)
	case "ui.verbose":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		cfg.UI.Verbose = b
	case "ui.interactive":
		cfg.UI.Interactive = config.InteractiveMode(value)
	case "run.show_output":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		cfg.Run.ShowOutput = b
	case "probe.dial_timeout_seconds":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		cfg.Probe.DialTimeoutSeconds = f
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configSetCmd)
}
