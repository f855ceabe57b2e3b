// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/dpzip/dpzip/internal/config"
	"github.com/dpzip/dpzip/internal/settings"
	"github.com/dpzip/dpzip/internal/testutil"
	"github.com/dpzip/dpzip/pkg/types"
)

// cliEnv is an isolated config directory, settings file, datapack source and
// export folder for one test.
type cliEnv struct {
	settingsPath string
	source       string
	export       string
}

func newCLIEnv(t *testing.T) cliEnv {
	t.Helper()
	t.Cleanup(config.Reset)
	config.SetConfigDirOverride(t.TempDir())

	root := t.TempDir()
	env := cliEnv{
		settingsPath: filepath.Join(root, "settings.json"),
		source:       filepath.Join(root, "my_pack"),
		export:       filepath.Join(root, "dist"),
	}
	testutil.WriteTree(t, env.source, testutil.DatapackTree)
	testutil.MustMkdirAll(t, env.export, 0o755)
	return env
}

// run executes the dpzip command tree with args and returns its output.
func (e cliEnv) run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	var out, errOut bytes.Buffer
	app := NewApp(Dependencies{
		Stdin:  strings.NewReader(""),
		Stdout: &out,
		Stderr: &errOut,
	})
	root := NewRootCommand(app)
	root.SetArgs(append([]string{"--settings", e.settingsPath}, args...))
	err = root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestBuild_WithFlags(t *testing.T) {
	env := newCLIEnv(t)

	stdout, _, err := env.run(t, "build", "--name", "pack", "--source", env.source, "--export", env.export)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if !strings.Contains(stdout, "Created datapack archive") {
		t.Errorf("stdout missing creation line:\n%s", stdout)
	}

	want := []string{"data/example/function/hello.mcfunction", "pack.mcmeta", "pack.png"}
	if got := testutil.ZipEntryNames(t, filepath.Join(env.export, "pack.zip")); !slices.Equal(got, want) {
		t.Errorf("entries = %v, want %v", got, want)
	}

	stored, err := settings.NewStore(env.settingsPath).Load()
	if err != nil {
		t.Fatal(err)
	}
	if stored.DatapackName != "pack" || stored.SourceDir != env.source || stored.ExportDir != env.export {
		t.Errorf("flags were not remembered: %+v", stored)
	}
}

func TestBuild_UsesRememberedSettings(t *testing.T) {
	env := newCLIEnv(t)
	if err := settings.NewStore(env.settingsPath).Save(settings.Settings{
		DatapackName: "remembered",
		SourceDir:    env.source,
		ExportDir:    env.export,
	}); err != nil {
		t.Fatal(err)
	}

	if _, _, err := env.run(t, "build"); err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(env.export, "remembered.zip")); err != nil {
		t.Errorf("expected remembered.zip: %v", err)
	}
}

func TestBuild_MissingInput(t *testing.T) {
	env := newCLIEnv(t)

	_, stderr, err := env.run(t, "build", "--name", "pack", "--export", env.export)

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected *ExitError, got %T: %v", err, err)
	}
	if exitErr.Code != types.ExitMissingInput {
		t.Errorf("exit code = %d, want %d", exitErr.Code, types.ExitMissingInput)
	}
	if !strings.Contains(stderr, "no datapack folder chosen") {
		t.Errorf("stderr should name the missing input:\n%s", stderr)
	}
	entries, readErr := os.ReadDir(env.export)
	if readErr != nil {
		t.Fatal(readErr)
	}
	if len(entries) != 0 {
		t.Errorf("export folder should stay empty, found %d entries", len(entries))
	}
}

func TestBuild_MissingPackFile(t *testing.T) {
	env := newCLIEnv(t)
	testutil.MustRemoveAll(t, filepath.Join(env.source, "pack.mcmeta"))

	_, stderr, err := env.run(t, "build", "--name", "pack", "--source", env.source, "--export", env.export)

	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != types.ExitFailure {
		t.Fatalf("expected ExitError with code 1, got %v", err)
	}
	if !strings.Contains(stderr, "archive source not found") {
		t.Errorf("stderr should report the missing file:\n%s", stderr)
	}
	if _, statErr := os.Stat(filepath.Join(env.export, "pack.zip")); !os.IsNotExist(statErr) {
		t.Errorf("no archive should be written, stat err = %v", statErr)
	}
}

func TestBuild_ResourcePackAndVerify(t *testing.T) {
	env := newCLIEnv(t)
	testutil.WriteTree(t, env.source, map[string]string{
		"assets/example/lang/en_us.json": "{}",
		"resource_pack.mcmeta":           `{"pack":{"pack_format":34}}`,
	})

	stdout, _, err := env.run(t, "build", "--name", "pack", "--source", env.source, "--export", env.export,
		"--resource-pack", "--verify")
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	want := []string{"assets/example/lang/en_us.json", "pack.mcmeta", "pack.png"}
	if got := testutil.ZipEntryNames(t, filepath.Join(env.export, "pack_resources.zip")); !slices.Equal(got, want) {
		t.Errorf("resource entries = %v, want %v", got, want)
	}
	if !strings.Contains(stdout, "assets/example/lang/en_us.json") {
		t.Errorf("--verify should list resource archive entries:\n%s", stdout)
	}
}

func TestOverlaysCommand(t *testing.T) {
	env := newCLIEnv(t)
	meta := filepath.Join(env.source, "pack.mcmeta")
	testutil.MustWriteFile(t, meta, []byte(`{
  "pack": {"pack_format": 48, "description": "Example"},
  "overlays": {"entries": [{"directory": "1.20"}, {"formats": 1}, {"directory": "1.21"}]}
}`))

	stdout, _, err := env.run(t, "overlays", meta)
	if err != nil {
		t.Fatalf("overlays failed: %v", err)
	}
	for _, want := range []string{"pack_format: 48", "description: Example", "- 1.20", "- 1.21"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, stdout)
		}
	}
}

func TestOverlaysCommand_MissingFile(t *testing.T) {
	env := newCLIEnv(t)

	stdout, _, err := env.run(t, "overlays", filepath.Join(env.source, "nope.mcmeta"))
	if err != nil {
		t.Fatalf("a missing file should not fail: %v", err)
	}
	if !strings.Contains(stdout, "(no overlays)") {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestSettingsCommands(t *testing.T) {
	env := newCLIEnv(t)

	if _, _, err := env.run(t, "settings", "set", "has_rpack", "true"); err != nil {
		t.Fatalf("settings set failed: %v", err)
	}
	if _, _, err := env.run(t, "settings", "set", "datapack_name", "my_pack"); err != nil {
		t.Fatalf("settings set failed: %v", err)
	}
	if _, _, err := env.run(t, "settings", "set", "window", "1"); !errors.Is(err, settings.ErrUnknownKey) {
		t.Errorf("unknown key error = %v, want ErrUnknownKey", err)
	}

	stdout, _, err := env.run(t, "settings", "show")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"datapack_name: my_pack", "has_rpack: true", "root_folder_path: (not set)"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("settings show missing %q:\n%s", want, stdout)
		}
	}

	stdout, _, err = env.run(t, "settings", "path")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(stdout) != env.settingsPath {
		t.Errorf("settings path = %q, want %q", stdout, env.settingsPath)
	}
}

func TestSettingsMigrate(t *testing.T) {
	env := newCLIEnv(t)
	testutil.MustWriteFile(t, env.settingsPath, []byte(`{"datapack_name":"old","has_rpack":false,"window":"main"}`))

	stdout, _, err := env.run(t, "settings", "migrate")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout, "Migrated") {
		t.Errorf("stdout = %q", stdout)
	}

	stdout, _, err = env.run(t, "settings", "migrate")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout, "already up to date") {
		t.Errorf("second migrate stdout = %q", stdout)
	}
}

func TestConfigCommands(t *testing.T) {
	env := newCLIEnv(t)

	stdout, _, err := env.run(t, "config", "init")
	if err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if !strings.Contains(stdout, "Created default configuration") {
		t.Errorf("stdout = %q", stdout)
	}

	stdout, _, err = env.run(t, "config", "init")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout, "already exists") {
		t.Errorf("second init should keep the file: %q", stdout)
	}

	stdout, _, err = env.run(t, "config", "dump")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout, `compression: "deflate"`) {
		t.Errorf("dump = %q", stdout)
	}
}

func TestConfigWarning_UsesDefaults(t *testing.T) {
	env := newCLIEnv(t)
	missing := filepath.Join(t.TempDir(), "missing.cue")

	_, stderr, err := env.run(t, "--config", missing, "build", "--name", "pack", "--source", env.source, "--export", env.export)
	if err != nil {
		t.Fatalf("a config warning must not stop the build: %v", err)
	}
	if !strings.Contains(stderr, "Warning:") {
		t.Errorf("expected a config warning on stderr:\n%s", stderr)
	}
}

func TestInvalidLogLevelFlag(t *testing.T) {
	env := newCLIEnv(t)

	_, _, err := env.run(t, "--log-level", "loud", "settings", "path")
	if !errors.Is(err, config.ErrInvalidLogLevel) {
		t.Errorf("expected ErrInvalidLogLevel, got %v", err)
	}
}
