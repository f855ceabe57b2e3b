// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/dpzip/dpzip/internal/issue"
	"github.com/dpzip/dpzip/internal/testutil"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.UI.ColorScheme != ColorSchemeAuto {
		t.Errorf("expected default color scheme to be auto, got %s", cfg.UI.ColorScheme)
	}
	if cfg.UI.Verbose || cfg.UI.Interactive {
		t.Error("expected verbose and interactive to be false by default")
	}
	if cfg.Log.Level != LogLevelInfo {
		t.Errorf("expected default log level to be info, got %s", cfg.Log.Level)
	}
	if cfg.Archive.Compression != CompressionDeflate {
		t.Errorf("expected default compression to be deflate, got %s", cfg.Archive.Compression)
	}
	if cfg.Archive.Verify {
		t.Error("expected verify to be false by default")
	}
	if cfg.SettingsFile != "" {
		t.Errorf("expected empty settings file override, got %q", cfg.SettingsFile)
	}
	if valid, errs := cfg.IsValid(); !valid {
		t.Errorf("default config should be valid: %v", errs)
	}
}

func TestConfigDir(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_CONFIG_HOME only applies on Linux")
	}
	t.Cleanup(Reset)

	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() error: %v", err)
	}
	if want := filepath.Join(xdg, AppName); dir != want {
		t.Errorf("ConfigDir() = %q, want %q", dir, want)
	}

	SetConfigDirOverride("/custom/dir")
	if dir, _ := ConfigDir(); dir != "/custom/dir" {
		t.Errorf("ConfigDir() with override = %q", dir)
	}
}

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	t.Parallel()

	cfg, path, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if path != "" {
		t.Errorf("expected no resolved path, got %q", path)
	}
	if *cfg != *DefaultConfig() {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
}

func TestLoad_FromConfigDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
	testutil.MustWriteFile(t, cfgPath, []byte(`
ui: verbose: true
archive: {
	compression: "store"
	verify:      true
}
settings_file: "/tmp/packs.json"
`))

	cfg, path, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if path != cfgPath {
		t.Errorf("resolved path = %q, want %q", path, cfgPath)
	}
	if !cfg.UI.Verbose || !cfg.Archive.Verify {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Archive.Compression != CompressionStore {
		t.Errorf("compression = %q, want store", cfg.Archive.Compression)
	}
	if cfg.SettingsFile != "/tmp/packs.json" {
		t.Errorf("settings_file = %q", cfg.SettingsFile)
	}
	// Fields the file leaves out keep their defaults.
	if cfg.Log.Level != LogLevelInfo || cfg.UI.ColorScheme != ColorSchemeAuto {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoad_SchemaViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{name: "unknown compression", content: `archive: compression: "zip"`},
		{name: "unknown field", content: `container_engine: "podman"`},
		{name: "wrong type", content: `ui: verbose: "yes"`},
		{name: "syntax error", content: `ui: {`},
		{name: "blank settings file", content: `settings_file: "   "`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "config.cue")
			testutil.MustWriteFile(t, path, []byte(tt.content))

			_, _, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: path})
			if err == nil {
				t.Fatal("expected error")
			}
			var ae *issue.ActionableError
			if !errors.As(err, &ae) {
				t.Fatalf("expected *issue.ActionableError, got %T", err)
			}
			if ae.Resource != path {
				t.Errorf("Resource = %q, want %q", ae.Resource, path)
			}
		})
	}
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "nope.cue")
	_, _, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: missing})

	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("expected *issue.ActionableError, got %T: %v", err, err)
	}
	if !strings.Contains(ae.Error(), "config file not found") {
		t.Errorf("unexpected message: %v", ae)
	}
	if len(ae.Suggestions) == 0 {
		t.Error("expected suggestions")
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("DPZIP_LOG_LEVEL", "debug")
	t.Setenv("DPZIP_ARCHIVE_VERIFY", "true")

	cfg, _, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Log.Level != LogLevelDebug {
		t.Errorf("log level = %q, want debug", cfg.Log.Level)
	}
	if !cfg.Archive.Verify {
		t.Error("expected DPZIP_ARCHIVE_VERIFY to enable verify")
	}
}

func TestLoad_InvalidEnvironmentValue(t *testing.T) {
	t.Setenv("DPZIP_LOG_LEVEL", "loud")

	_, _, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	if !strings.Contains(err.Error(), "loud") {
		t.Errorf("error should name the bad value: %v", err)
	}
}

func TestLoad_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err := NewProvider().Load(ctx, LoadOptions{}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestGenerateCUE_RoundTrip(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.UI.ColorScheme = ColorSchemeDark
	cfg.Log.Level = LogLevelWarn
	cfg.Archive.Compression = CompressionStore
	cfg.SettingsFile = "~/packs.json"

	dir := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(dir, "config.cue"), []byte(GenerateCUE(cfg)))

	loaded, _, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() of generated CUE error: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip = %+v, want %+v", loaded, cfg)
	}
}

func TestGenerateCUE_OmitsEmptySettingsFile(t *testing.T) {
	t.Parallel()

	if out := GenerateCUE(DefaultConfig()); strings.Contains(out, "settings_file") {
		t.Errorf("default config should not write settings_file:\n%s", out)
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	t.Cleanup(Reset)
	dir := filepath.Join(t.TempDir(), "nested")
	SetConfigDirOverride(dir)

	path, created, err := CreateDefaultConfig()
	if err != nil {
		t.Fatalf("CreateDefaultConfig() error: %v", err)
	}
	if !created {
		t.Error("expected the file to be created")
	}
	if want := filepath.Join(dir, "config.cue"); path != want {
		t.Errorf("path = %q, want %q", path, want)
	}

	testutil.MustWriteFile(t, path, []byte(`log: level: "error"`+"\n"))
	if _, created, err := CreateDefaultConfig(); err != nil || created {
		t.Errorf("second call: created=%v err=%v, want existing file kept", created, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"error"`) {
		t.Error("existing config was overwritten")
	}
}

func TestSettingsPath(t *testing.T) {
	t.Cleanup(Reset)
	SetConfigDirOverride("/cfg")

	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		name     string
		cfg      *Config
		expected string
	}{
		{name: "nil config", cfg: nil, expected: filepath.Join("/cfg", SettingsFileName)},
		{name: "default", cfg: DefaultConfig(), expected: filepath.Join("/cfg", SettingsFileName)},
		{name: "absolute override", cfg: &Config{SettingsFile: "/data/packs.json"}, expected: "/data/packs.json"},
		{name: "home override", cfg: &Config{SettingsFile: "~/packs.json"}, expected: filepath.Join(home, "packs.json")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SettingsPath(tt.cfg)
			if err != nil {
				t.Fatalf("SettingsPath() error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("SettingsPath() = %q, want %q", got, tt.expected)
			}
		})
	}
}
