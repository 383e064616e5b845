package testutil

import (
	"strings"
	"testing"
)

// Assert checks a condition and logs a human-readable behavior description
func Assert(t *testing.T, condition bool, behavior string) {
	t.Helper()
	if condition {
		t.Logf("✓ %s", behavior)
	} else {
		t.Errorf("✗ %s", behavior)
	}
}

// AssertEqual checks equality and logs what behavior was verified
func AssertEqual(t *testing.T, expected, actual interface{}, behavior string) {
	t.Helper()
	if expected == actual {
		t.Logf("✓ %s", behavior)
	} else {
		t.Errorf("✗ %s\n  Expected: %v\n  Got: %v", behavior, expected, actual)
	}
}

// AssertNoError checks for nil error and logs success behavior
func AssertNoError(t *testing.T, err error, behavior string) {
	t.Helper()
	if err == nil {
		t.Logf("✓ %s", behavior)
	} else {
		t.Errorf("✗ %s: %v", behavior, err)
	}
}

// AssertError checks that an error occurred and logs the expected failure behavior
func AssertError(t *testing.T, err error, behavior string) {
	t.Helper()
	if err != nil {
		t.Logf("✓ %s", behavior)
	} else {
		t.Errorf("✗ %s (expected error but got none)", behavior)
	}
}

// AssertContains checks if a string contains a substring
func AssertContains(t *testing.T, haystack, needle string, behavior string) {
	t.Helper()
	if strings.Contains(haystack, needle) {
		t.Logf("✓ %s", behavior)
	} else {
		t.Errorf("✗ %s\n  Looking for: %q\n  In: %q", behavior, needle, haystack)
	}
}
