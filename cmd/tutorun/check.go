// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tutorun/tutorun/pkg/tutorialfile"
)

var checkCmd = &cobra.Command{
	Use:   "check <tutorial>",
	Short: "Validate a tutorial file without executing it",
	Long: `Parse and validate a tutorial file, then print a summary of its parts,
required executables and alternative keys. Nothing is executed.`,
	Args: cobra.ExactArgs(1),
	RunE: checkTutorial,
}

func checkTutorial(cmd *cobra.Command, args []string) error {
	tut, err := loadTutorial(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, SuccessStyle.Render("✓")+" "+tut.Path)
	fmt.Fprintf(out, "  parts: %d\n", len(tut.Parts))

	for i, part := range tut.Parts {
		fmt.Fprintf(out, "  [%d] %s%s\n", i, part.Kind, partSummary(&part))
	}

	if execs := tut.Configuration.RequiredExecutables; len(execs) > 0 {
		fmt.Fprintf(out, "  required executables: %s\n", strings.Join(execs, ", "))
	}
	if keys := alternativeKeys(tut); len(keys) > 0 {
		fmt.Fprintf(out, "  alternative keys: %s\n", strings.Join(keys, ", "))
	}
	switch {
	case tut.Configuration.TemporaryDirectory:
		fmt.Fprintln(out, "  scratch: temporary directory")
	case tut.Configuration.GitExport:
		fmt.Fprintf(out, "  scratch: git export of %s\n", tut.Configuration.GitRef)
	}

	return nil
}

func partSummary(part *tutorialfile.Part) string {
	var extra string
	switch part.Kind {
	case tutorialfile.PartCommands:
		extra = fmt.Sprintf(" (%d commands)", len(part.Commands.Commands))
	case tutorialfile.PartFile:
		extra = " -> " + part.File.Destination
	case tutorialfile.PartPrompt:
		extra = fmt.Sprintf(" (%s)", part.Prompt.Mode)
	case tutorialfile.PartAlternative:
		keys := make([]string, 0, len(part.Alternative.Alternatives))
		for key := range part.Alternative.Alternatives {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		extra = fmt.Sprintf(" (%s)", strings.Join(keys, ", "))
	}
	if part.Skip {
		extra += " [skipped]"
	}
	return extra
}

// alternativeKeys collects every alternative key of the tutorial, sorted.
func alternativeKeys(tut *tutorialfile.Tutorial) []string {
	seen := map[string]bool{}
	for i := range tut.Parts {
		if tut.Parts[i].Kind != tutorialfile.PartAlternative {
			continue
		}
		for key := range tut.Parts[i].Alternative.Alternatives {
			seen[key] = true
		}
	}
	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
