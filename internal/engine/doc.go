// SPDX-License-Identifier: MPL-2.0

// Package engine executes parsed tutorials: it renders templates against
// the run context, runs commands through the embedded POSIX interpreter or
// os/exec, verifies them with retrying tests, and unwinds the cleanup
// stack when the run ends.
package engine
