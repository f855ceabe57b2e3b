// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// MustSetenv sets key to value and returns a function restoring the previous
// value, or unsetting key when it had none.
func MustSetenv(t testing.TB, key, value string) func() {
	t.Helper()
	previous, had := os.LookupEnv(key)
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set env %s: %v", key, err)
	}
	return func() {
		var err error
		if had {
			err = os.Setenv(key, previous)
		} else {
			err = os.Unsetenv(key)
		}
		if err != nil {
			t.Errorf("failed to restore env %s: %v", key, err)
		}
	}
}

// MustMkdirAll creates a directory along with any necessary parents.
func MustMkdirAll(t testing.TB, path string, perm os.FileMode) {
	t.Helper()
	if err := os.MkdirAll(path, perm); err != nil {
		t.Fatalf("failed to create directory %s: %v", path, err)
	}
}

// MustWriteFile writes data to path, creating parent directories as needed.
func MustWriteFile(t testing.TB, path string, data []byte) {
	t.Helper()
	MustMkdirAll(t, filepath.Dir(path), 0o755)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// MustRemoveAll removes path and any children it contains. Failures are
// logged, not fatal.
func MustRemoveAll(t testing.TB, path string) {
	t.Helper()
	if err := os.RemoveAll(path); err != nil {
		t.Logf("warning: failed to remove %s: %v", path, err)
	}
}
