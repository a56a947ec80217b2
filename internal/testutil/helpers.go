// Package testutil provides reusable test helpers for the audio preparation packages.
package testutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Default tolerances for various test scenarios.
const (
	DefaultTolerance = 1e-10
	SampleTolerance  = 1e-6
	LUFSTolerance    = 0.1
)

// AssertNoNaNOrInf verifies that no elements in the slice are NaN or Inf.
func AssertNoNaNOrInf[F ~float32 | ~float64](t *testing.T, s []F) bool {
	t.Helper()
	for i, v := range s {
		if math.IsNaN(float64(v)) {
			return assert.Fail(t, "found NaN", "s[%d] is NaN", i)
		}
		if math.IsInf(float64(v), 0) {
			return assert.Fail(t, "found Inf", "s[%d] is Inf", i)
		}
	}
	return true
}

// AssertAllInRange verifies that all elements are within [min, max].
func AssertAllInRange[F ~float32 | ~float64](t *testing.T, s []F, minVal, maxVal float64) bool {
	t.Helper()
	for i, v := range s {
		if float64(v) < minVal || float64(v) > maxVal {
			return assert.Fail(t, "value out of range",
				"s[%d]=%f is outside range [%f, %f]", i, v, minVal, maxVal)
		}
	}
	return true
}

// AssertSlicesInDelta verifies two slices have equal length and are element-wise within delta.
func AssertSlicesInDelta[F ~float32 | ~float64](t *testing.T, expected, actual []F, delta float64) bool {
	t.Helper()
	if !assert.Len(t, actual, len(expected)) {
		return false
	}
	for i := range expected {
		if math.Abs(float64(expected[i])-float64(actual[i])) > delta {
			return assert.Fail(t, "slices differ",
				"index %d: expected %g, got %g (delta %g)", i, expected[i], actual[i], delta)
		}
	}
	return true
}

// AssertRelativeError verifies that the relative error between actual and expected is within tolerance.
func AssertRelativeError(t *testing.T, expected, actual, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	if expected == 0 {
		return assert.InDelta(t, expected, actual, tolerance, msgAndArgs...)
	}
	relError := math.Abs(actual-expected) / math.Abs(expected)
	return assert.LessOrEqual(t, relError, tolerance,
		"relative error %e exceeds tolerance %e (expected=%f, actual=%f)",
		relError, tolerance, expected, actual)
}

// RMS returns the root mean square of s.
func RMS[F ~float32 | ~float64](s []F) float64 {
	if len(s) == 0 {
		return 0
	}
	var sum float64
	for _, v := range s {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum / float64(len(s)))
}

// MaxAbs returns the largest absolute value in s.
func MaxAbs[F ~float32 | ~float64](s []F) float64 {
	var peak float64
	for _, v := range s {
		peak = max(peak, math.Abs(float64(v)))
	}
	return peak
}
