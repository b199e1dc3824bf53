// SPDX-License-Identifier: MPL-2.0

package engine

import "time"

// Clock abstracts time for the retry loop so tests can assert backoff
// schedules without sleeping.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// SystemClock is the Clock used outside of tests.
type SystemClock struct{}

func (SystemClock) Now() time.Time        { return time.Now() }
func (SystemClock) Sleep(d time.Duration) { time.Sleep(d) }
