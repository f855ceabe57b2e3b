// SPDX-License-Identifier: MPL-2.0

// Package testutil holds fail-fast helpers shared by dpzip tests: environment
// and home directory overrides (MustSetenv, SetHomeDir), file setup
// (MustMkdirAll, MustWriteFile, MustRemoveAll), pack fixture trees
// (WriteTree, DatapackTree) and archive inspection (ZipEntryNames).
package testutil
