// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tutorun/tutorun/internal/config"
)

func TestApplyConfigValue(t *testing.T) {
	tests := []struct {
		key   string
		value string
		check func(cfg *config.Config) bool
	}{
		{"ui.color_scheme", "light", func(c *config.Config) bool { return c.UI.ColorScheme == config.ColorSchemeLight }},
		{"ui.verbose", "true", func(c *config.Config) bool { return c.UI.Verbose }},
		{"ui.interactive", "never", func(c *config.Config) bool { return c.UI.Interactive == config.InteractiveNever }},
		{"run.show_output", "true", func(c *config.Config) bool { return c.Run.ShowOutput }},
		{"probe.dial_timeout_seconds", "1.5", func(c *config.Config) bool { return c.Probe.DialTimeoutSeconds == 1.5 }},
	}

	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			cfg := config.DefaultConfig()
			if err := applyConfigValue(cfg, tc.key, tc.value); err != nil {
				t.Fatalf("applyConfigValue() unexpected error: %v", err)
			}
			if !tc.check(cfg) {
				t.Errorf("%s = %s not applied", tc.key, tc.value)
			}
		})
	}

	t.Run("unknown key", func(t *testing.T) {
		if err := applyConfigValue(config.DefaultConfig(), "run.parallel", "true"); err == nil {
			t.Error("applyConfigValue() expected error for unknown key")
		}
	})

	t.Run("bad bool", func(t *testing.T) {
		if err := applyConfigValue(config.DefaultConfig(), "ui.verbose", "maybe"); err == nil {
			t.Error("applyConfigValue() expected error for bad bool")
		}
	})
}

func TestConfigSet_WritesFile(t *testing.T) {
	dir := t.TempDir()
	config.SetConfigDirOverride(dir)
	t.Cleanup(config.Reset)

	prev := appCfg
	appCfg = config.DefaultConfig()
	t.Cleanup(func() { appCfg = prev })

	if err := configSetCmd.RunE(configSetCmd, []string{"ui.color_scheme", "dark"}); err != nil {
		t.Fatalf("config set failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "config.toml"))
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if got := string(data); !strings.Contains(got, "color_scheme = 'dark'") && !strings.Contains(got, `color_scheme = "dark"`) {
		t.Errorf("saved config missing color_scheme:\n%s", got)
	}

	t.Run("invalid enum is rejected before saving", func(t *testing.T) {
		err := configSetCmd.RunE(configSetCmd, []string{"ui.interactive", "sometimes"})
		if err == nil {
			t.Error("config set expected validation error")
		}
	})
}
