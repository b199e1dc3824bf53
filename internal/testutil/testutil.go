// SPDX-License-Identifier: MPL-2.0

// Package testutil provides shared test helpers: a controllable clock for
// backoff assertions and environment manipulation with cleanup.
package testutil

import (
	"os"
	"testing"
)

// MustSetenv sets an environment variable and returns a function that
// restores the previous value. It fails the test on error.
func MustSetenv(t *testing.T, key, value string) func() {
	t.Helper()

	prev, had := os.LookupEnv(key)
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("Setenv(%q, %q) failed: %v", key, value, err)
	}

	return func() {
		if had {
			os.Setenv(key, prev)
		} else {
			os.Unsetenv(key)
		}
	}
}
