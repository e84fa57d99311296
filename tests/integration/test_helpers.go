//go:build integration
// +build integration

package integration

import (
	"os"
	"testing"
)

// envOr returns the environment variable, or def when it is unset
func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// verifyNamesExist checks that every expected name appears in the discovered list
func verifyNamesExist(t *testing.T, names, expected []string) {
	t.Helper()

	nameSet := make(map[string]bool, len(names))
	for _, n := range names {
		nameSet[n] = true
	}

	for _, want := range expected {
		if !nameSet[want] {
			t.Errorf("Expected table %s not found in %v", want, names)
		}
	}
}

// verifyNamesAbsent checks that none of the given names were discovered
func verifyNamesAbsent(t *testing.T, names, unexpected []string) {
	t.Helper()

	for _, n := range names {
		for _, bad := range unexpected {
			if n == bad {
				t.Errorf("Table %s should not be listed", bad)
			}
		}
	}
}
