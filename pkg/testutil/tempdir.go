// Package testutil provides helpers shared by the package tests.
package testutil

import (
	"os"
	"testing"
)

// TempDir creates a temporary directory matching pattern and removes it when the test ends.
func TempDir(t *testing.T, pattern string) string {
	t.Helper()

	dir, err := os.MkdirTemp("", pattern)
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.RemoveAll(dir); err != nil {
			t.Logf("failed to remove temp dir %s: %v", dir, err)
		}
	})
	return dir
}
