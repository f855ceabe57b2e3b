// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates user CUE files against an embedded schema.
//
// Unify runs the usual three steps: compile the schema, compile the user data
// and unify it with a schema definition, then validate. Errors carry the
// file name and the JSON-style path of the offending field:
//
//	config.cue: archive.compression: 2 errors in empty disjunction
package cueutil
