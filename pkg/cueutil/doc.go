// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared helpers for CUE schema validation.
//
// Tutorial definitions are authored either as CUE or as YAML; both are
// built into a cue.Value and unified with an embedded schema before being
// decoded into Go structs. This package owns that compile/unify/decode
// flow and the formatting of CUE errors with JSON-style field paths.
package cueutil
