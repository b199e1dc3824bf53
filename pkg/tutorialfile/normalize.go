// SPDX-License-Identifier: MPL-2.0

package tutorialfile

import (
	"fmt"
	"path/filepath"
	"regexp"
)

// Raw decode targets. The CUE schema has already constrained value ranges
// and closed every struct; normalization only resolves unions, compiles
// regexes, and applies defaults.
type (
	rawTutorial struct {
		Parts         []rawPart        `json:"parts"`
		Configuration rawConfiguration `json:"configuration"`
	}

	rawPart struct {
		Type          string         `json:"type"`
		Skip          bool           `json:"skip"`
		UpdateContext map[string]any `json:"update_context"`

		// commands part
		Commands []rawCommand `json:"commands"`

		// file part
		Contents    *string `json:"contents"`
		Source      string  `json:"source"`
		Destination string  `json:"destination"`
		Template    *bool   `json:"template"`

		// prompt part
		Text         string `json:"text"`
		Mode         string `json:"mode"`
		Default      bool   `json:"default"`
		ErrorMessage string `json:"error_message"`

		// alternative part
		Required     bool               `json:"required"`
		Alternatives map[string]rawPart `json:"alternatives"`
	}

	rawCommand struct {
		Command          string            `json:"command"`
		Argv             []string          `json:"argv"`
		StatusCode       any               `json:"status_code"`
		ShowOutput       *bool             `json:"show_output"`
		Environment      map[string]string `json:"environment"`
		ClearEnvironment bool              `json:"clear_environment"`
		Stdin            *rawStdin         `json:"stdin"`
		Chdir            string            `json:"chdir"`
		Cleanup          []rawCommand      `json:"cleanup"`
		Tests            []rawTest         `json:"tests"`
		UpdateContext    map[string]any    `json:"update_context"`
	}

	rawStdin struct {
		Contents *string `json:"contents"`
		Source   string  `json:"source"`
		Template *bool   `json:"template"`
	}

	rawTest struct {
		// command test
		Command    string   `json:"command"`
		Argv       []string `json:"argv"`
		StatusCode any      `json:"status_code"`
		ShowOutput *bool    `json:"show_output"`

		// port test
		Host string `json:"host"`
		Port *int   `json:"port"`

		// output test
		Stream string `json:"stream"`
		Regex  string `json:"regex"`

		Delay         float64 `json:"delay"`
		Retry         int     `json:"retry"`
		BackoffFactor float64 `json:"backoff_factor"`
	}

	rawConfiguration struct {
		Context             map[string]any                  `json:"context"`
		Environment         map[string]string               `json:"environment"`
		ClearEnvironment    bool                            `json:"clear_environment"`
		TemporaryDirectory  bool                            `json:"temporary_directory"`
		GitExport           bool                            `json:"git_export"`
		GitRef              string                          `json:"git_ref"`
		ShowOutput          bool                            `json:"show_output"`
		RequiredExecutables []string                        `json:"required_executables"`
		Alternatives        map[string]rawAlternativeConfig `json:"alternatives"`
	}

	rawAlternativeConfig struct {
		Context             map[string]any    `json:"context"`
		Environment         map[string]string `json:"environment"`
		RequiredExecutables []string          `json:"required_executables"`
	}
)

func (r *rawTutorial) normalize(path string) (*Tutorial, error) {
	t := &Tutorial{
		Path: path,
		Root: filepath.Dir(path),
	}

	cfg, err := r.Configuration.normalize(path)
	if err != nil {
		return nil, err
	}
	t.Configuration = *cfg

	t.Parts = make([]Part, 0, len(r.Parts))
	for i := range r.Parts {
		part, err := r.Parts[i].normalize(fmt.Sprintf("%s: parts[%d]", path, i), true)
		if err != nil {
			return nil, err
		}
		t.Parts = append(t.Parts, *part)
	}
	return t, nil
}

func (r *rawConfiguration) normalize(path string) (*Configuration, error) {
	if r.TemporaryDirectory && r.GitExport {
		return nil, fmt.Errorf("%s: configuration: temporary_directory and git_export are mutually exclusive", path)
	}
	cfg := &Configuration{
		Context:             r.Context,
		Environment:         r.Environment,
		ClearEnvironment:    r.ClearEnvironment,
		TemporaryDirectory:  r.TemporaryDirectory,
		GitExport:           r.GitExport,
		GitRef:              r.GitRef,
		ShowOutput:          r.ShowOutput,
		RequiredExecutables: r.RequiredExecutables,
	}
	if cfg.GitRef == "" {
		cfg.GitRef = DefaultGitRef
	}
	if len(r.Alternatives) > 0 {
		cfg.Alternatives = make(map[string]AlternativeConfiguration, len(r.Alternatives))
		for key, alt := range r.Alternatives {
			cfg.Alternatives[key] = AlternativeConfiguration{
				Context:             alt.Context,
				Environment:         alt.Environment,
				RequiredExecutables: alt.RequiredExecutables,
			}
		}
	}
	return cfg, nil
}

// normalize resolves a raw part into the typed union. Alternative parts may
// only nest commands and file parts, so nesting is rejected unless allowNest
// is set.
func (r *rawPart) normalize(pos string, allowNest bool) (*Part, error) {
	part := &Part{
		Skip:          r.Skip,
		UpdateContext: r.UpdateContext,
	}

	switch r.Type {
	case "commands":
		part.Kind = PartCommands
		cmds := make([]Command, 0, len(r.Commands))
		for i := range r.Commands {
			cmd, err := r.Commands[i].normalize(fmt.Sprintf("%s.commands[%d]", pos, i), true)
			if err != nil {
				return nil, err
			}
			cmds = append(cmds, *cmd)
		}
		part.Commands = &CommandsPart{Commands: cmds}

	case "file":
		part.Kind = PartFile
		if r.Contents == nil && r.Source == "" {
			return nil, fmt.Errorf("%s: either contents or source is required", pos)
		}
		if r.Contents != nil && r.Source != "" {
			return nil, fmt.Errorf("%s: only one of contents or source is allowed", pos)
		}
		if filepath.IsAbs(r.Source) {
			return nil, fmt.Errorf("%s: %s: must be a relative path", pos, r.Source)
		}
		part.File = &FilePart{
			Contents:    r.Contents,
			Source:      r.Source,
			Destination: r.Destination,
			Template:    boolDefault(r.Template, true),
		}

	case "prompt":
		part.Kind = PartPrompt
		mode := PromptMode(r.Mode)
		if mode == "" {
			mode = PromptEnter
		}
		msg := r.ErrorMessage
		if msg == "" {
			msg = "Prompt not confirmed."
		}
		part.Prompt = &PromptPart{
			Text:         r.Text,
			Mode:         mode,
			Default:      r.Default,
			ErrorMessage: msg,
		}

	case "alternatives":
		if !allowNest {
			return nil, fmt.Errorf("%s: alternatives cannot be nested", pos)
		}
		part.Kind = PartAlternative
		alts := make(map[string]Part, len(r.Alternatives))
		for key := range r.Alternatives {
			nested := r.Alternatives[key]
			p, err := nested.normalize(fmt.Sprintf("%s.alternatives[%s]", pos, key), false)
			if err != nil {
				return nil, err
			}
			if p.Kind != PartCommands && p.Kind != PartFile {
				return nil, fmt.Errorf("%s.alternatives[%s]: only commands and file parts are allowed", pos, key)
			}
			alts[key] = *p
		}
		part.Alternative = &AlternativePart{
			Required:     r.Required,
			Alternatives: alts,
		}

	default:
		return nil, fmt.Errorf("%s: %s: unknown part type", pos, r.Type)
	}

	return part, nil
}

// normalize resolves a raw command. Cleanup commands are normalized with
// allowNested=false: they cannot carry tests or further cleanup.
func (r *rawCommand) normalize(pos string, allowNested bool) (*Command, error) {
	if r.Command == "" && len(r.Argv) == 0 {
		return nil, fmt.Errorf("%s: either command or argv is required", pos)
	}
	if r.Command != "" && len(r.Argv) > 0 {
		return nil, fmt.Errorf("%s: only one of command or argv is allowed", pos)
	}

	status, err := normalizeStatus(r.StatusCode, pos)
	if err != nil {
		return nil, err
	}

	cmd := &Command{
		Shell:            r.Command,
		Argv:             r.Argv,
		Status:           status,
		ShowOutput:       boolDefault(r.ShowOutput, true),
		Environment:      r.Environment,
		ClearEnvironment: r.ClearEnvironment,
		Chdir:            r.Chdir,
		UpdateContext:    r.UpdateContext,
	}

	if r.Stdin != nil {
		if r.Stdin.Contents == nil && r.Stdin.Source == "" {
			return nil, fmt.Errorf("%s.stdin: either contents or source is required", pos)
		}
		if r.Stdin.Contents != nil && r.Stdin.Source != "" {
			return nil, fmt.Errorf("%s.stdin: only one of contents or source is allowed", pos)
		}
		cmd.Stdin = &StdinSpec{
			Contents: r.Stdin.Contents,
			Source:   r.Stdin.Source,
			Template: boolDefault(r.Stdin.Template, true),
		}
	}

	if !allowNested && (len(r.Cleanup) > 0 || len(r.Tests) > 0) {
		return nil, fmt.Errorf("%s: cleanup commands cannot carry tests or cleanup", pos)
	}

	for i := range r.Cleanup {
		c, err := r.Cleanup[i].normalize(fmt.Sprintf("%s.cleanup[%d]", pos, i), false)
		if err != nil {
			return nil, err
		}
		cmd.Cleanup = append(cmd.Cleanup, *c)
	}

	for i := range r.Tests {
		t, err := r.Tests[i].normalize(fmt.Sprintf("%s.tests[%d]", pos, i))
		if err != nil {
			return nil, err
		}
		cmd.Tests = append(cmd.Tests, *t)
	}

	return cmd, nil
}

func (r *rawTest) normalize(pos string) (*Test, error) {
	test := &Test{
		Delay:         r.Delay,
		Retry:         r.Retry,
		BackoffFactor: r.BackoffFactor,
	}

	switch {
	case r.Regex != "":
		test.Kind = TestOutput
		test.Stream = Stream(r.Stream)
		if test.Stream == "" {
			test.Stream = StreamStdout
		}
		re, err := regexp.Compile(r.Regex)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid regex: %w", pos, err)
		}
		test.Regex = re

	case r.Host != "":
		test.Kind = TestPort
		if r.Port == nil {
			return nil, fmt.Errorf("%s: port is required", pos)
		}
		test.Host = r.Host
		test.Port = *r.Port

	default:
		test.Kind = TestCommand
		probe := rawCommand{
			Command:    r.Command,
			Argv:       r.Argv,
			StatusCode: r.StatusCode,
			ShowOutput: r.ShowOutput,
		}
		cmd, err := probe.normalize(pos, false)
		if err != nil {
			return nil, err
		}
		test.Command = cmd
	}

	return test, nil
}

// normalizeStatus maps the schema's (int & 0..255) | "ignore" disjunction
// onto ExpectedStatus. CUE decodes the integer branch into one of several
// Go numeric types depending on the input encoding.
func normalizeStatus(v any, pos string) (ExpectedStatus, error) {
	switch code := v.(type) {
	case nil:
		return 0, nil
	case string:
		if code == "ignore" {
			return StatusIgnore, nil
		}
		return 0, fmt.Errorf("%s: %q: invalid status code", pos, code)
	case int:
		return ExpectedStatus(code), nil
	case int64:
		return ExpectedStatus(code), nil
	case uint64:
		return ExpectedStatus(code), nil
	case float64:
		return ExpectedStatus(int(code)), nil
	default:
		return 0, fmt.Errorf("%s: %v: invalid status code", pos, v)
	}
}

func boolDefault(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
