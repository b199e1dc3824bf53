// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"sort"

	"github.com/tutorun/tutorun/pkg/tutorialfile"
)

// Selector resolves alternative parts against the keys the operator
// selected on the command line.
type Selector struct {
	// Selected holds the chosen alternative keys.
	Selected []string
}

// Validate checks every alternative part of the tutorial up front: a
// required part must match exactly one selected key, and no part may match
// more than one. Running parts before reporting a bad selection would waste
// the operator's time, so this runs before anything else.
func (s *Selector) Validate(tut *tutorialfile.Tutorial) error {
	for i := range tut.Parts {
		part := &tut.Parts[i]
		if part.Kind != tutorialfile.PartAlternative || part.Skip {
			continue
		}
		matches := s.matches(part.Alternative)
		if len(matches) > 1 {
			return &AlternativesError{Position: i, Keys: matches}
		}
		if len(matches) == 0 && part.Alternative.Required {
			return &AlternativesError{Position: i}
		}
	}
	return nil
}

// Pick returns the nested part for the single selected key of an
// alternative part, or false when none is selected.
func (s *Selector) Pick(part *tutorialfile.AlternativePart) (tutorialfile.Part, string, bool) {
	matches := s.matches(part)
	if len(matches) != 1 {
		return tutorialfile.Part{}, "", false
	}
	return part.Alternatives[matches[0]], matches[0], true
}

// matches intersects the selected keys with the part's alternatives. The
// selection is a set: the same key given twice counts once.
func (s *Selector) matches(part *tutorialfile.AlternativePart) []string {
	var matches []string
	seen := map[string]bool{}
	for _, key := range s.Selected {
		if seen[key] {
			continue
		}
		seen[key] = true
		if _, ok := part.Alternatives[key]; ok {
			matches = append(matches, key)
		}
	}
	sort.Strings(matches)
	return matches
}
