// SPDX-License-Identifier: MPL-2.0

// Package issue turns dpzip failures into guidance pages.
//
// Each Id names one user-facing failure (an unset folder, a missing
// pack.mcmeta, an unreadable config) and maps to a Markdown page rendered
// with glamour. ActionableError carries the failed operation, the resource
// involved and suggestions so the CLI can print a short explanation without
// a stack of wrapped messages.
package issue
