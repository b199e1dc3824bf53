// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// Render executes a template string against the run context namespace.
// Missing keys are hard errors rather than "<no value>" holes: a typo in a
// tutorial should abort the run, not silently produce a broken command.
func Render(tmpl string, values map[string]any) (string, error) {
	// Fast path for the common literal case.
	if !strings.Contains(tmpl, "{{") {
		return tmpl, nil
	}

	t, err := template.New("tutorial").
		Funcs(sprig.TxtFuncMap()).
		Option("missingkey=error").
		Parse(tmpl)
	if err != nil {
		return "", &TemplateError{Template: tmpl, Err: err}
	}

	var buf strings.Builder
	if err := t.Execute(&buf, values); err != nil {
		return "", &TemplateError{Template: tmpl, Err: err}
	}
	return buf.String(), nil
}

// RenderAll renders a template map into a new map, preserving key order
// independence. Used for environment overlays.
func RenderAll(src map[string]string, values map[string]any) (map[string]string, error) {
	if len(src) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		rendered, err := Render(v, values)
		if err != nil {
			return nil, err
		}
		out[k] = rendered
	}
	return out, nil
}
