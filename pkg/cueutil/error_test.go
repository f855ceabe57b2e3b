// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"strings"
	"testing"
)

func TestFormatError(t *testing.T) {
	t.Parallel()

	t.Run("nil error returns nil", func(t *testing.T) {
		t.Parallel()

		if err := FormatError(nil, "test.cue"); err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	})

	t.Run("non-CUE error is wrapped with filepath", func(t *testing.T) {
		t.Parallel()

		originalErr := errors.New("some error")
		err := FormatError(originalErr, "test.cue")
		if !errors.Is(err, originalErr) {
			t.Errorf("error should wrap the original, got: %v", err)
		}
		if !strings.HasPrefix(err.Error(), "test.cue: ") {
			t.Errorf("error should start with filepath, got: %v", err)
		}
	})
}

func TestFormatPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		path     []string
		expected string
	}{
		{name: "empty path", path: []string{}, expected: ""},
		{name: "single element", path: []string{"ui"}, expected: "ui"},
		{name: "nested path", path: []string{"archive", "compression"}, expected: "archive.compression"},
		{name: "array index", path: []string{"entries", "0", "directory"}, expected: "entries[0].directory"},
		{name: "nested arrays", path: []string{"items", "0", "values", "1"}, expected: "items[0].values[1]"},
		{name: "leading number is a field", path: []string{"0", "x"}, expected: "0.x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if result := formatPath(tt.path); result != tt.expected {
				t.Errorf("formatPath(%v) = %q, want %q", tt.path, result, tt.expected)
			}
		})
	}
}

func TestCheckFileSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{name: "within limit", size: 11},
		{name: "exact limit", size: 100},
		{name: "empty", size: 0},
		{name: "over limit", size: 101, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := CheckFileSize(make([]byte, tt.size), 100, "test.cue")
			if !tt.wantErr {
				if err != nil {
					t.Errorf("expected nil, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			for _, want := range []string{"test.cue", "101", "100"} {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("error should contain %q, got: %v", want, err)
				}
			}
		})
	}
}
