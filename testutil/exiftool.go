// Package testutil provides shared helpers for integration tests.
// Helpers in this package skip automatically when required environment
// variables are not set, so unit tests run without the external tool
// installed.
package testutil

import (
	"os"
	"os/exec"
	"testing"
)

// ExiftoolPath returns the path of the exiftool binary named by the
// SURVEYPREP_TEST_EXIFTOOL environment variable.
//
// The test is skipped automatically if the variable is not set or the
// binary cannot be found, so external-tool integration tests are opt-in
// and never break environments without exiftool.
func ExiftoolPath(t *testing.T) string {
	t.Helper()

	path := os.Getenv("SURVEYPREP_TEST_EXIFTOOL")
	if path == "" {
		t.Skip("SURVEYPREP_TEST_EXIFTOOL not set; skipping exiftool integration test")
	}
	if _, err := exec.LookPath(path); err != nil {
		t.Skipf("exiftool binary %q not found: %v", path, err)
	}
	return path
}
