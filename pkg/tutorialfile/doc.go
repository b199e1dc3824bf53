// SPDX-License-Identifier: MPL-2.0

// Package tutorialfile defines the schema, model, and loading of tutorial
// definition files.
//
// A tutorial is an ordered list of parts (commands, file writes, operator
// prompts, alternative branches) plus run configuration. Definitions are
// authored as CUE or YAML, validated against an embedded CUE schema, and
// normalized into the typed model consumed by the engine. The engine
// trusts every invariant enforced here (value ranges, mutually exclusive
// fields, compiled regexes) and never re-validates them.
package tutorialfile
