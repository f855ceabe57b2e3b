// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"archive/zip"
	"path/filepath"
	"slices"
	"testing"
)

// DatapackTree is the smallest source tree that packages successfully:
// one function file, the pack metadata and the pack icon.
var DatapackTree = map[string]string{
	"data/example/function/hello.mcfunction": "say hello",
	"pack.mcmeta":                            `{"pack":{"pack_format":48,"description":"Example"}}`,
	"pack.png":                               "png",
}

// WriteTree creates every file in files (slash-separated paths relative to
// root, mapped to their content) under root.
func WriteTree(t testing.TB, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		MustWriteFile(t, filepath.Join(root, filepath.FromSlash(rel)), []byte(content))
	}
}

// ZipEntryNames returns the sorted file entry names of the zip archive at path.
func ZipEntryNames(t testing.TB, path string) []string {
	t.Helper()
	r, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	defer func() {
		if err := r.Close(); err != nil {
			t.Logf("warning: close %s: %v", path, err)
		}
	}()

	names := make([]string, 0, len(r.File))
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		names = append(names, f.Name)
	}
	slices.Sort(names)
	return names
}
