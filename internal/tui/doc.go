// SPDX-License-Identifier: MPL-2.0

// Package tui provides the interactive pack form built on charmbracelet/huh.
package tui
