// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"testing"

	"github.com/tutorun/tutorun/pkg/tutorialfile"
)

func TestNewContext(t *testing.T) {
	tut := &tutorialfile.Tutorial{
		Path: "/doc/tutorial.yaml",
		Root: "/doc",
		Configuration: tutorialfile.Configuration{
			Context:     map[string]any{"value": "base", "port": 8080},
			Environment: map[string]string{"DEBUG": "1"},
			Alternatives: map[string]tutorialfile.AlternativeConfiguration{
				"apt": {
					Context:     map[string]any{"value": "apt"},
					Environment: map[string]string{"PKG": "apt-get"},
				},
				"brew": {
					Context: map[string]any{"value": "brew"},
				},
			},
		},
	}

	t.Run("well-known keys", func(t *testing.T) {
		ctx := NewContext(tut, nil)
		if ctx.Values["run"] != true || ctx.Values["doc"] != false {
			t.Errorf("run/doc = %v/%v, want true/false", ctx.Values["run"], ctx.Values["doc"])
		}
		if ctx.Values["tutorial_path"] != "/doc/tutorial.yaml" {
			t.Errorf("tutorial_path = %v", ctx.Values["tutorial_path"])
		}
		if ctx.Values["tutorial_dir"] != "/doc" {
			t.Errorf("tutorial_dir = %v", ctx.Values["tutorial_dir"])
		}
	})

	t.Run("configuration seeds", func(t *testing.T) {
		ctx := NewContext(tut, nil)
		if ctx.Values["value"] != "base" {
			t.Errorf("value = %v, want base", ctx.Values["value"])
		}
		if ctx.Env["DEBUG"] != "1" {
			t.Errorf("Env = %v", ctx.Env)
		}
	})

	t.Run("selected alternative merges", func(t *testing.T) {
		ctx := NewContext(tut, []string{"apt"})
		if ctx.Values["value"] != "apt" {
			t.Errorf("value = %v, want apt", ctx.Values["value"])
		}
		if ctx.Env["PKG"] != "apt-get" {
			t.Errorf("Env = %v", ctx.Env)
		}
		// unselected alternatives contribute nothing
		if ctx.Values["value"] == "brew" {
			t.Error("brew configuration leaked into context")
		}
	})
}

func TestContext_Update(t *testing.T) {
	ctx := &Context{Values: map[string]any{"host": "db.example.com"}}

	if err := ctx.Update(map[string]any{
		"url":   "postgres://{{ .host }}/app",
		"count": 3,
	}); err != nil {
		t.Fatalf("Update() unexpected error: %v", err)
	}

	if ctx.Values["url"] != "postgres://db.example.com/app" {
		t.Errorf("url = %v", ctx.Values["url"])
	}
	if ctx.Values["count"] != 3 {
		t.Errorf("count = %v, want 3", ctx.Values["count"])
	}
}

func TestContext_UpdateMissingKey(t *testing.T) {
	ctx := &Context{Values: map[string]any{}}
	if err := ctx.Update(map[string]any{"v": "{{ .missing }}"}); err == nil {
		t.Fatal("Update() expected error, got nil")
	}
}

func TestContext_Cwd(t *testing.T) {
	ctx := &Context{Values: map[string]any{}}
	if ctx.Cwd() != "" {
		t.Errorf("Cwd() = %q, want empty", ctx.Cwd())
	}
	ctx.SetCwd("/work")
	if ctx.Cwd() != "/work" {
		t.Errorf("Cwd() = %q, want /work", ctx.Cwd())
	}
}
