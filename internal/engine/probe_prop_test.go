// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestBackoffWait_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("first wait equals the factor", prop.ForAll(
		func(factor float64) bool {
			return backoffWait(factor, 1) == seconds(factor)
		},
		gen.Float64Range(0.001, 100),
	))

	properties.Property("waits never decrease across attempts", prop.ForAll(
		func(factor float64, attempt int) bool {
			return backoffWait(factor, attempt+1) >= backoffWait(factor, attempt)
		},
		gen.Float64Range(0.001, 100),
		gen.IntRange(1, 20),
	))

	properties.Property("non-positive factor never waits", prop.ForAll(
		func(factor float64, attempt int) bool {
			return backoffWait(-factor, attempt) == time.Duration(0)
		},
		gen.Float64Range(0, 100),
		gen.IntRange(1, 20),
	))

	properties.TestingRun(t)
}
