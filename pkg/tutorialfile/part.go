// SPDX-License-Identifier: MPL-2.0

package tutorialfile

// PartKind discriminates the Part union. The set is closed: every dispatch
// site switches exhaustively over these values.
type PartKind int

const (
	// PartCommands is an ordered list of commands to execute.
	PartCommands PartKind = iota
	// PartFile writes a file to a destination path.
	PartFile
	// PartPrompt asks the operator for acknowledgment or confirmation.
	PartPrompt
	// PartAlternative branches between named alternative sub-parts.
	PartAlternative
)

// String returns the definition-file name of the part kind.
func (k PartKind) String() string {
	switch k {
	case PartCommands:
		return "commands"
	case PartFile:
		return "file"
	case PartPrompt:
		return "prompt"
	case PartAlternative:
		return "alternatives"
	default:
		return "unknown"
	}
}

type (
	// Part is one ordered unit of a tutorial. Exactly one of the variant
	// pointers matching Kind is non-nil.
	Part struct {
		Kind PartKind

		// Skip excludes the part from execution.
		Skip bool
		// UpdateContext is merged into the run context after the part
		// executes.
		UpdateContext map[string]any

		Commands    *CommandsPart
		File        *FilePart
		Prompt      *PromptPart
		Alternative *AlternativePart
	}

	// CommandsPart executes its commands in order.
	CommandsPart struct {
		Commands []Command
	}

	// FilePart writes inline contents or a source file to a destination.
	// Exactly one of Contents/Source is set (enforced by the loader).
	FilePart struct {
		// Contents is the inline file content. Rendered as a template
		// when Template is true.
		Contents *string
		// Source is a path relative to the tutorial root.
		Source string
		// Destination is rendered as a template. A trailing path
		// separator marks it as a directory.
		Destination string
		// Template selects rendering (true) or byte copy (false).
		Template bool
	}

	// PromptPart blocks on operator input. It only executes in
	// interactive runs.
	PromptPart struct {
		// Text is the prompt message template.
		Text string
		// Mode selects acknowledgment (enter) or yes/no (confirm).
		Mode PromptMode
		// Default is the confirm answer assumed on empty input.
		Default bool
		// ErrorMessage is the template for the not-confirmed error.
		ErrorMessage string
	}

	// AlternativePart is a branch point between named nested parts. Each
	// nested part is a Commands or File part.
	AlternativePart struct {
		Required     bool
		Alternatives map[string]Part
	}
)

// PromptMode is the response mode of a prompt part.
type PromptMode string

const (
	// PromptEnter waits for the operator to press Enter.
	PromptEnter PromptMode = "enter"
	// PromptConfirm asks a yes/no question.
	PromptConfirm PromptMode = "confirm"
)
