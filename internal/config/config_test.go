// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	want := DefaultConfig()
	if cfg.UI.ColorScheme != want.UI.ColorScheme {
		t.Errorf("ColorScheme = %q, want %q", cfg.UI.ColorScheme, want.UI.ColorScheme)
	}
	if cfg.UI.Interactive != want.UI.Interactive {
		t.Errorf("Interactive = %q, want %q", cfg.UI.Interactive, want.UI.Interactive)
	}
	if cfg.Probe.DialTimeoutSeconds != want.Probe.DialTimeoutSeconds {
		t.Errorf("DialTimeoutSeconds = %v, want %v", cfg.Probe.DialTimeoutSeconds, want.Probe.DialTimeoutSeconds)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	content := `
[ui]
color_scheme = "dark"
verbose = true

[run]
show_output = true
alternatives = ["apt"]

[run.environment]
DEBUG = "1"
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.UI.ColorScheme != ColorSchemeDark {
		t.Errorf("ColorScheme = %q, want dark", cfg.UI.ColorScheme)
	}
	if !cfg.UI.Verbose {
		t.Error("Verbose = false, want true")
	}
	if !cfg.Run.ShowOutput {
		t.Error("ShowOutput = false, want true")
	}
	if len(cfg.Run.Alternatives) != 1 || cfg.Run.Alternatives[0] != "apt" {
		t.Errorf("Alternatives = %v, want [apt]", cfg.Run.Alternatives)
	}
	if cfg.Run.Environment["DEBUG"] != "1" {
		t.Errorf("Environment = %v, want DEBUG=1", cfg.Run.Environment)
	}
	// untouched sections keep their defaults
	if cfg.UI.Interactive != InteractiveAuto {
		t.Errorf("Interactive = %q, want auto", cfg.UI.Interactive)
	}
}

func TestLoad_ExplicitFilePath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.toml")
	if err := os.WriteFile(path, []byte("[ui]\ncolor_scheme = \"light\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: path})
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.UI.ColorScheme != ColorSchemeLight {
		t.Errorf("ColorScheme = %q, want light", cfg.UI.ColorScheme)
	}
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	_, err := NewProvider().Load(context.Background(), LoadOptions{
		ConfigFilePath: filepath.Join(t.TempDir(), "nope.toml"),
	})
	if err == nil {
		t.Fatal("Load() expected error for missing explicit file")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    error
	}{
		{
			name:    "bad color scheme",
			content: "[ui]\ncolor_scheme = \"sepia\"\n",
			want:    ErrInvalidColorScheme,
		},
		{
			name:    "bad interactive mode",
			content: "[ui]\ninteractive = \"sometimes\"\n",
			want:    ErrInvalidInteractiveMode,
		},
		{
			name:    "bad probe timeout",
			content: "[probe]\ndial_timeout_seconds = -1\n",
			want:    ErrInvalidProbeTimeout,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(tc.content), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
			if !errors.Is(err, tc.want) {
				t.Errorf("Load() = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestCreateDefaultConfig_RoundTrips(t *testing.T) {
	dir := t.TempDir()
	SetConfigDirOverride(dir)
	t.Cleanup(Reset)

	path, err := CreateDefaultConfig()
	if err != nil {
		t.Fatalf("CreateDefaultConfig() unexpected error: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("path = %q, want under %q", path, dir)
	}

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: path})
	if err != nil {
		t.Fatalf("Load() of generated file failed: %v", err)
	}
	if cfg.UI.ColorScheme != ColorSchemeAuto {
		t.Errorf("ColorScheme = %q, want auto", cfg.UI.ColorScheme)
	}

	// a second call must not overwrite the existing file
	if _, err := CreateDefaultConfig(); err != nil {
		t.Fatalf("CreateDefaultConfig() second call failed: %v", err)
	}
}

func TestSave_RoundTrips(t *testing.T) {
	dir := t.TempDir()
	SetConfigDirOverride(dir)
	t.Cleanup(Reset)

	cfg := DefaultConfig()
	cfg.UI.ColorScheme = ColorSchemeLight
	cfg.Run.ShowOutput = true
	if err := Save(cfg); err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}

	loaded, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() of saved file failed: %v", err)
	}
	if loaded.UI.ColorScheme != ColorSchemeLight {
		t.Errorf("ColorScheme = %q, want light", loaded.UI.ColorScheme)
	}
	if !loaded.Run.ShowOutput {
		t.Error("ShowOutput = false, want true")
	}
}

func TestConfigDir_Override(t *testing.T) {
	SetConfigDirOverride("/custom/dir")
	t.Cleanup(Reset)

	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() unexpected error: %v", err)
	}
	if dir != "/custom/dir" {
		t.Errorf("ConfigDir() = %q, want /custom/dir", dir)
	}
}
