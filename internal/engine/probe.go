// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"context"
	"math"
	"net"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tutorun/tutorun/pkg/tutorialfile"
)

// defaultDialTimeout bounds a single port probe attempt.
const defaultDialTimeout = 3 * time.Second

// TestRunner verifies commands after they ran: output tests match the
// captured streams once, command and port tests poll with exponential
// backoff until they pass or the retry budget is spent.
type TestRunner struct {
	Exec   *Executor
	Clock  Clock
	Logger *log.Logger
	// DialTimeout bounds a single port probe; zero means the default.
	DialTimeout time.Duration
}

// Run executes one test. For output tests, res must be the captured result
// of the command under test; named capture groups of a matching regex are
// merged into the run context.
func (r *TestRunner) Run(ctx context.Context, test *tutorialfile.Test, res *Result, runCtx *Context, dir string) error {
	switch test.Kind {
	case tutorialfile.TestOutput:
		return r.runOutput(test, res, runCtx)
	case tutorialfile.TestPort:
		return r.retry(test, func() (bool, error) {
			return r.probePort(test), nil
		})
	case tutorialfile.TestCommand:
		return r.retry(test, func() (bool, error) {
			return r.probeCommand(ctx, test, runCtx, dir)
		})
	default:
		return nil
	}
}

// runOutput matches the test regex against the captured stream. A matching
// regex publishes its named capture groups to the template namespace; a
// mismatch fails immediately, output tests are never retried.
func (r *TestRunner) runOutput(test *tutorialfile.Test, res *Result, runCtx *Context) error {
	output := res.Stdout
	if test.Stream == tutorialfile.StreamStderr {
		output = res.Stderr
	}

	match := test.Regex.FindStringSubmatch(output)
	if match == nil {
		return &OutputMismatchError{Stream: test.Stream, Output: output}
	}

	for i, name := range test.Regex.SubexpNames() {
		if name != "" {
			runCtx.Values[name] = match[i]
		}
	}
	return nil
}

// retry polls attempt until it succeeds. The schedule is: the initial delay
// once, then retry+1 attempts with a wait of factor*2^(n-1) seconds after
// the n-th failure.
func (r *TestRunner) retry(test *tutorialfile.Test, attempt func() (bool, error)) error {
	if test.Delay > 0 {
		r.Clock.Sleep(seconds(test.Delay))
	}

	for n := 1; ; n++ {
		ok, err := attempt()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		if n > test.Retry {
			return &TestExhaustedError{Attempts: n}
		}

		if wait := backoffWait(test.BackoffFactor, n); wait > 0 {
			r.Logger.Debug("test attempt failed, backing off", "attempt", n, "wait", wait)
			r.Clock.Sleep(wait)
		}
	}
}

func (r *TestRunner) probePort(test *tutorialfile.Test) bool {
	timeout := r.DialTimeout
	if timeout == 0 {
		timeout = defaultDialTimeout
	}
	addr := net.JoinHostPort(test.Host, strconv.Itoa(test.Port))
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

func (r *TestRunner) probeCommand(ctx context.Context, test *tutorialfile.Test, runCtx *Context, dir string) (bool, error) {
	res, err := r.Exec.Execute(ctx, test.Command, runCtx, dir)
	if err != nil {
		return false, err
	}
	return r.Exec.CheckStatus(res, test.Command) == nil, nil
}

// backoffWait returns the wait after the n-th failed attempt (1-based):
// factor*2^(n-1) seconds.
func backoffWait(factor float64, n int) time.Duration {
	if factor <= 0 || n < 1 {
		return 0
	}
	return seconds(factor * math.Pow(2, float64(n-1)))
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
