// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"os"
	"sync"
)

const (
	// SandboxNone indicates no sandbox environment detected.
	SandboxNone SandboxType = ""
	// SandboxFlatpak indicates a Flatpak sandbox environment.
	SandboxFlatpak SandboxType = "flatpak"
	// SandboxSnap indicates a Snap sandbox environment.
	SandboxSnap SandboxType = "snap"
)

// detectOnce caches the sandbox detection result for the lifetime of the process.
// detectSandboxFrom must not panic: sync.OnceValue re-panics on every call.
var detectOnce = sync.OnceValue(func() SandboxType {
	return detectSandboxFrom(os.Getenv, statFile)
})

// SandboxType identifies the type of application sandbox, if any.
type SandboxType string

// DetectSandbox returns the type of application sandbox the current process is running in.
// The result is cached after the first call.
//
// Detection methods:
//   - Flatpak: Checks for existence of /.flatpak-info
//   - Snap: Checks for SNAP_NAME environment variable
func DetectSandbox() SandboxType {
	return detectOnce()
}

// IsInSandbox returns true if the current process is running inside a sandbox.
func IsInSandbox() bool {
	return DetectSandbox() != SandboxNone
}

// FilesystemHintFor returns advice for reaching host folders from inside
// the given sandbox, or "" when there is none.
func FilesystemHintFor(st SandboxType) string {
	switch st {
	case SandboxFlatpak:
		return "Running inside Flatpak: grant folder access with 'flatpak override --user --filesystem=<folder>'"
	case SandboxSnap:
		return "Running inside Snap: folders outside your home directory need the 'removable-media' interface"
	case SandboxNone:
		return ""
	default:
		return ""
	}
}

// detectSandboxFrom performs sandbox detection using the provided lookup functions.
func detectSandboxFrom(lookupEnv func(string) string, statFile func(string) error) SandboxType {
	// Flatpak takes precedence; /.flatpak-info is always present inside it.
	if err := statFile("/.flatpak-info"); err == nil {
		return SandboxFlatpak
	}

	if lookupEnv("SNAP_NAME") != "" {
		return SandboxSnap
	}

	return SandboxNone
}

func statFile(path string) error {
	_, err := os.Stat(path)
	return err
}
