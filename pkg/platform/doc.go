// SPDX-License-Identifier: MPL-2.0

// Package platform provides cross-platform compatibility utilities.
//
// It names the supported operating systems, rejects archive names that
// Windows cannot store, and detects Flatpak and Snap sandboxes whose
// filesystem restrictions explain otherwise puzzling "folder not found"
// errors.
package platform
