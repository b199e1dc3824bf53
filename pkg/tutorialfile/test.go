// SPDX-License-Identifier: MPL-2.0

package tutorialfile

import "regexp"

// TestKind discriminates the Test union.
type TestKind int

const (
	// TestCommand probes by running a command and comparing exit codes.
	TestCommand TestKind = iota
	// TestPort probes by attempting a TCP connect.
	TestPort
	// TestOutput matches a regex against the owning command's captured
	// output. It is evaluated once, immediately, with no retry loop.
	TestOutput
)

// Stream selects which output stream an output test inspects.
type Stream string

const (
	// StreamStdout inspects standard output (the default).
	StreamStdout Stream = "stdout"
	// StreamStderr inspects standard error.
	StreamStderr Stream = "stderr"
)

// Test verifies the effect of a command. Command and port tests retry with
// exponential backoff: after a failed attempt n (1-based) the engine waits
// BackoffFactor * 2^(n-1) seconds, up to Retry additional attempts.
type Test struct {
	Kind TestKind

	// Command is the probe for TestCommand (its Status, Shell/Argv,
	// ShowOutput, Environment fields apply; it carries no tests or
	// cleanup of its own).
	Command *Command

	// Host and Port identify the TCP endpoint for TestPort.
	Host string
	Port int

	// Stream and Regex configure TestOutput. Named capture groups of a
	// matching regex are merged into the run context.
	Stream Stream
	Regex  *regexp.Regexp

	// Delay is an initial wait in seconds, applied once before the first
	// attempt. Not used by TestOutput.
	Delay float64
	// Retry is the number of additional attempts after the first.
	Retry int
	// BackoffFactor anchors the exponential backoff, in seconds.
	BackoffFactor float64
}
