// SPDX-License-Identifier: MPL-2.0

// Package mcmeta reads Minecraft pack metadata (pack.mcmeta) files.
//
// Every section of the document is optional. Decoding uses pointer and raw
// fields so an absent or oddly shaped section simply yields an empty result;
// ResolveOverlays never fails, it degrades to "no overlays".
package mcmeta

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// FileName is the canonical metadata file name at the root of a pack.
const FileName = "pack.mcmeta"

// ErrEmptyDocument is returned by Parse for empty input.
var ErrEmptyDocument = errors.New("empty pack metadata document")

type (
	// PackMeta is the decoded pack.mcmeta document.
	PackMeta struct {
		Pack     *PackSection     `json:"pack,omitempty"`
		Overlays *OverlaysSection `json:"overlays,omitempty"`
	}

	// PackSection holds the "pack" object. Description may be a plain string
	// or a text component, so it is kept raw.
	PackSection struct {
		PackFormat  *int            `json:"pack_format,omitempty"`
		Description json.RawMessage `json:"description,omitempty"`
	}

	// OverlaysSection holds the "overlays" object. Entries are kept raw so a
	// single malformed entry does not discard the others.
	OverlaysSection struct {
		Entries []json.RawMessage `json:"entries,omitempty"`
	}

	// OverlayEntry is one element of overlays.entries.
	OverlayEntry struct {
		Directory *string         `json:"directory,omitempty"`
		Formats   json.RawMessage `json:"formats,omitempty"`
	}
)

// Parse decodes a pack.mcmeta document.
func Parse(data []byte) (*PackMeta, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyDocument
	}

	var meta PackMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to parse pack metadata: %w", err)
	}
	return &meta, nil
}

// Load reads and decodes the pack.mcmeta file at path.
func Load(path string) (*PackMeta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pack metadata: %w", err)
	}
	meta, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return meta, nil
}

// OverlayDirectories returns overlays.entries[].directory in declaration
// order. Entries that are not objects, or whose directory is absent, not a
// string, or empty, are skipped. The result is never nil.
func (m *PackMeta) OverlayDirectories() []string {
	dirs := []string{}
	if m == nil || m.Overlays == nil {
		return dirs
	}

	for _, raw := range m.Overlays.Entries {
		var entry OverlayEntry
		if err := json.Unmarshal(raw, &entry); err != nil {
			continue
		}
		if entry.Directory == nil || *entry.Directory == "" {
			continue
		}
		dirs = append(dirs, *entry.Directory)
	}
	return dirs
}

// PackFormat returns pack.pack_format, or false when it is absent.
func (m *PackMeta) PackFormat() (int, bool) {
	if m == nil || m.Pack == nil || m.Pack.PackFormat == nil {
		return 0, false
	}
	return *m.Pack.PackFormat, true
}

// Description returns pack.description as display text. String descriptions
// are returned verbatim; text components are returned as compact JSON.
func (m *PackMeta) Description() string {
	if m == nil || m.Pack == nil || len(m.Pack.Description) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(m.Pack.Description, &s); err == nil {
		return s
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, m.Pack.Description); err != nil {
		return ""
	}
	return buf.String()
}

// ResolveOverlays reads the metadata file at path and returns its declared
// overlay directories. Read or decode failures yield an empty list and are
// only reported to logger (which may be nil).
func ResolveOverlays(path string, logger *log.Logger) []string {
	meta, err := Load(path)
	if err != nil {
		if logger != nil {
			logger.Debug("no overlays", "metadata", path, "reason", err)
		}
		return []string{}
	}
	return meta.OverlayDirectories()
}

// FindFirst returns the path of the first regular file among names that
// exists inside dir.
func FindFirst(dir string, names ...string) (string, bool) {
	for _, name := range names {
		candidate := filepath.Join(dir, name)
		info, err := os.Stat(candidate)
		if err == nil && info.Mode().IsRegular() {
			return candidate, true
		}
	}
	return "", false
}
