// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"errors"
	"io/fs"
	"testing"
)

func TestDetectSandboxFrom(t *testing.T) {
	t.Parallel()

	exists := func(string) error { return nil }
	missing := func(string) error { return fs.ErrNotExist }
	env := func(vals map[string]string) func(string) string {
		return func(k string) string { return vals[k] }
	}

	tests := []struct {
		name      string
		lookupEnv func(string) string
		statFile  func(string) error
		want      SandboxType
	}{
		{name: "none", lookupEnv: env(nil), statFile: missing, want: SandboxNone},
		{name: "flatpak", lookupEnv: env(nil), statFile: exists, want: SandboxFlatpak},
		{name: "snap", lookupEnv: env(map[string]string{"SNAP_NAME": "dpzip"}), statFile: missing, want: SandboxSnap},
		{name: "flatpak wins", lookupEnv: env(map[string]string{"SNAP_NAME": "dpzip"}), statFile: exists, want: SandboxFlatpak},
		{name: "stat error other than missing", lookupEnv: env(nil), statFile: func(string) error { return errors.New("denied") }, want: SandboxNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := detectSandboxFrom(tt.lookupEnv, tt.statFile); got != tt.want {
				t.Errorf("detectSandboxFrom() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFilesystemHintFor(t *testing.T) {
	t.Parallel()

	if FilesystemHintFor(SandboxNone) != "" {
		t.Error("no hint expected outside a sandbox")
	}
	for _, st := range []SandboxType{SandboxFlatpak, SandboxSnap} {
		if FilesystemHintFor(st) == "" {
			t.Errorf("expected a hint for %q", st)
		}
	}
}
