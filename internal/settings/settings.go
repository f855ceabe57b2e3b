// SPDX-License-Identifier: MPL-2.0

// Package settings persists the last used pack inputs (name, datapack folder,
// export folder, resource pack flag) in a shared JSON file.
//
// The values live under the ProjectKey section of the file; every other
// top-level key belongs to someone else and is preserved on save. Files
// written by older versions kept the four keys at the top level; Migrate
// moves them under ProjectKey and the nested layout is persisted by the next
// Save.
package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

const (
	// ProjectKey is the section of the shared settings file owned by dpzip.
	ProjectKey = "datapack_zipper"

	// KeyDatapackName stores the archive base name.
	KeyDatapackName = "datapack_name"
	// KeySourceDir stores the datapack folder.
	KeySourceDir = "root_folder_path"
	// KeyExportDir stores the export folder.
	KeyExportDir = "target_folder_path"
	// KeyResourcePack stores whether the resource pack archive is built.
	KeyResourcePack = "has_rpack"
)

// ErrUnknownKey is returned by Set for a key outside Keys.
var ErrUnknownKey = errors.New("unknown settings key")

type (
	// Settings is the persisted pack input record.
	Settings struct {
		DatapackName        string `json:"datapack_name" mapstructure:"datapack_name"`
		SourceDir           string `json:"root_folder_path" mapstructure:"root_folder_path"`
		ExportDir           string `json:"target_folder_path" mapstructure:"target_folder_path"`
		IncludeResourcePack bool   `json:"has_rpack" mapstructure:"has_rpack"`
	}

	// Overrides holds values supplied on the command line. Nil fields keep the
	// stored value.
	Overrides struct {
		DatapackName        *string
		SourceDir           *string
		ExportDir           *string
		IncludeResourcePack *bool
	}

	// Store reads and writes Settings at a fixed path.
	Store struct {
		path string
	}
)

// Keys returns the settings keys in display order.
func Keys() []string {
	return []string{KeyDatapackName, KeySourceDir, KeyExportDir, KeyResourcePack}
}

// NewStore returns a Store backed by the JSON file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the settings file location.
func (s *Store) Path() string {
	return s.path
}

// Merge applies the non-nil overrides and reports whether any value changed.
func (s Settings) Merge(o Overrides) (Settings, bool) {
	merged := s
	if o.DatapackName != nil {
		merged.DatapackName = *o.DatapackName
	}
	if o.SourceDir != nil {
		merged.SourceDir = *o.SourceDir
	}
	if o.ExportDir != nil {
		merged.ExportDir = *o.ExportDir
	}
	if o.IncludeResourcePack != nil {
		merged.IncludeResourcePack = *o.IncludeResourcePack
	}
	return merged, merged != s
}

// Set assigns value to key, converting it to the field's type
// ("true", "1" and "false", "0" are accepted for has_rpack).
func (s Settings) Set(key, value string) (Settings, error) {
	if !slices.Contains(Keys(), key) {
		return s, fmt.Errorf("%w: %q (valid keys: %s)", ErrUnknownKey, key, strings.Join(Keys(), ", "))
	}
	raw := s.ToMap()
	raw[key] = value
	updated, err := decode(raw)
	if err != nil {
		return s, fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return updated, nil
}

// ToMap returns the settings keyed by their persisted names.
func (s Settings) ToMap() map[string]any {
	return map[string]any{
		KeyDatapackName: s.DatapackName,
		KeySourceDir:    s.SourceDir,
		KeyExportDir:    s.ExportDir,
		KeyResourcePack: s.IncludeResourcePack,
	}
}

// Migrate upgrades a decoded settings document to the nested layout.
//
// A document that already holds an object under ProjectKey is returned as is.
// Otherwise any legacy top-level keys are moved into a new ProjectKey section
// and the remaining top-level keys are kept. The boolean reports whether the
// document changed. raw is never modified.
func Migrate(raw map[string]any) (map[string]any, bool) {
	if _, ok := raw[ProjectKey].(map[string]any); ok {
		return raw, false
	}

	section := map[string]any{}
	for _, key := range Keys() {
		if v, ok := raw[key]; ok {
			section[key] = v
		}
	}
	if len(section) == 0 {
		return raw, false
	}

	migrated := make(map[string]any, len(raw)-len(section)+1)
	for k, v := range raw {
		if _, moved := section[k]; moved {
			continue
		}
		migrated[k] = v
	}
	migrated[ProjectKey] = section
	return migrated, true
}

// Load reads the stored settings. A missing file yields zero Settings and no
// error. A read or decode failure yields zero Settings and the error, which
// callers are expected to report and otherwise ignore.
func (s *Store) Load() (Settings, error) {
	raw, err := s.readRaw()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Settings{}, nil
		}
		return Settings{}, err
	}

	raw, _ = Migrate(raw)
	section, ok := raw[ProjectKey].(map[string]any)
	if !ok {
		return Settings{}, nil
	}

	loaded, err := decode(section)
	if err != nil {
		return Settings{}, fmt.Errorf("invalid settings in %s: %w", s.path, err)
	}
	return loaded, nil
}

// Save writes v under ProjectKey. The file is re-read first so other
// top-level keys survive; unreadable or malformed content is replaced.
func (s *Store) Save(v Settings) error {
	raw, err := s.readRaw()
	if err != nil {
		raw = map[string]any{}
	}
	raw, _ = Migrate(raw)
	raw[ProjectKey] = v.ToMap()
	return s.writeRaw(raw)
}

// MigrateFile rewrites a legacy settings file in the nested layout. It
// reports whether the file needed migrating.
func (s *Store) MigrateFile() (bool, error) {
	raw, err := s.readRaw()
	if err != nil {
		return false, err
	}
	migrated, changed := Migrate(raw)
	if !changed {
		return false, nil
	}
	return true, s.writeRaw(migrated)
}

func (s *Store) readRaw() (map[string]any, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	raw := map[string]any{}
	if len(bytes.TrimSpace(data)) == 0 {
		return raw, nil
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse settings %s: %w", s.path, err)
	}
	if raw == nil {
		// The document was a JSON null.
		raw = map[string]any{}
	}
	return raw, nil
}

func (s *Store) writeRaw(raw map[string]any) error {
	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}

func decode(section map[string]any) (Settings, error) {
	var out Settings
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return Settings{}, err
	}
	if err := dec.Decode(section); err != nil {
		return Settings{}, err
	}
	return out, nil
}
