// SPDX-License-Identifier: MPL-2.0

package tutorialfile

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tutorun/tutorun/pkg/cueutil"
)

//go:embed tutorial_schema.cue
var tutorialSchema string

// DefaultGitRef is the git reference exported when git_ref is not set.
const DefaultGitRef = "HEAD"

// Tutorial is a fully validated, typed tutorial definition.
type Tutorial struct {
	// Path is the absolute path of the definition file.
	Path string
	// Root is the directory that relative source paths resolve against.
	// It defaults to the directory of the definition file.
	Root string

	// Parts are the ordered units of the tutorial.
	Parts []Part

	// Configuration is the run-level configuration.
	Configuration Configuration
}

// Load reads and parses a tutorial definition from path. CUE files compile
// directly; YAML files go through CUE's YAML extraction. Either way the
// data is unified with the embedded schema before decoding.
func Load(path string) (*Tutorial, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tutorial at %s: %w", path, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve tutorial path %s: %w", path, err)
	}
	return ParseBytes(data, abs)
}

// ParseBytes parses tutorial content from bytes. The path is used for
// error messages, encoding selection, and as the tutorial root directory.
func ParseBytes(data []byte, path string) (*Tutorial, error) {
	res, err := cueutil.ParseAndDecode[rawTutorial](tutorialSchema, data, "#Tutorial", path)
	if err != nil {
		return nil, err
	}

	t, err := res.Value.normalize(path)
	if err != nil {
		return nil, err
	}
	return t, nil
}
