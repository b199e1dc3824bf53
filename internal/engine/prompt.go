// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"bufio"
	"fmt"
	"io"

	"github.com/charmbracelet/huh"
)

// Prompter is the operator interaction surface. Non-interactive runs use a
// nil prompter and skip prompt parts entirely.
type Prompter interface {
	// Pause shows text and blocks until the operator presses Enter.
	Pause(text string) error
	// Confirm asks a yes/no question with the given default answer.
	Confirm(text string, def bool) (bool, error)
}

// TerminalPrompter prompts on the controlling terminal.
type TerminalPrompter struct {
	In  io.Reader
	Out io.Writer
}

func (p *TerminalPrompter) Pause(text string) error {
	fmt.Fprint(p.Out, text)
	_, err := bufio.NewReader(p.In).ReadString('\n')
	if err == io.EOF {
		return nil
	}
	return err
}

func (p *TerminalPrompter) Confirm(text string, def bool) (bool, error) {
	answer := def
	form := huh.NewConfirm().
		Title(text).
		Affirmative("Yes").
		Negative("No").
		Value(&answer)
	if err := form.Run(); err != nil {
		return false, err
	}
	return answer, nil
}
