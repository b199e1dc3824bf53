// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"path/filepath"

	"github.com/tutorun/tutorun/pkg/tutorialfile"
)

// Context carries the mutable run state threaded through every part: the
// template namespace and the run-level environment overlay.
type Context struct {
	// Values is the template namespace. Rendering happens with
	// missingkey=error, so every referenced key must be present here.
	Values map[string]any
	// Env is the run-level environment overlay, applied on top of the
	// process environment (or an empty one) for every command. Values are
	// templates and are rendered at command composition time.
	Env map[string]string
}

// NewContext seeds the run context from the tutorial configuration and the
// selected alternatives. Selected alternative sub-configurations are merged
// in on top of the base configuration; later entries win on key conflicts.
//
// The well-known keys run, doc, tutorial_path, tutorial_dir and cwd are
// always present.
func NewContext(tut *tutorialfile.Tutorial, selected []string) *Context {
	ctx := &Context{
		Values: map[string]any{
			"run":           true,
			"doc":           false,
			"tutorial_path": tut.Path,
			"tutorial_dir":  filepath.Dir(tut.Path),
			"cwd":           "",
		},
		Env: map[string]string{},
	}

	for k, v := range tut.Configuration.Context {
		ctx.Values[k] = v
	}
	for k, v := range tut.Configuration.Environment {
		ctx.Env[k] = v
	}

	for _, key := range selected {
		alt, ok := tut.Configuration.Alternatives[key]
		if !ok {
			continue
		}
		for k, v := range alt.Context {
			ctx.Values[k] = v
		}
		for k, v := range alt.Environment {
			ctx.Env[k] = v
		}
	}

	return ctx
}

// Update merges rendered key/value pairs into the template namespace.
// String values are rendered against the current namespace before being
// stored, so updates can reference earlier context values.
func (c *Context) Update(values map[string]any) error {
	for k, v := range values {
		if s, ok := v.(string); ok {
			rendered, err := Render(s, c.Values)
			if err != nil {
				return err
			}
			c.Values[k] = rendered
			continue
		}
		c.Values[k] = v
	}
	return nil
}

// SetCwd publishes the current working directory to the namespace.
func (c *Context) SetCwd(dir string) {
	c.Values["cwd"] = dir
}

// Cwd returns the published working directory, empty if never set.
func (c *Context) Cwd() string {
	s, _ := c.Values["cwd"].(string)
	return s
}
