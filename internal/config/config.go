// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/dpzip/dpzip/internal/issue"
	"github.com/dpzip/dpzip/pkg/cueutil"
	"github.com/dpzip/dpzip/pkg/platform"

	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "dpzip"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// SettingsFileName is the default pack settings file inside the config directory.
	SettingsFileName = "settings.json"
	// EnvPrefix prefixes environment overrides (DPZIP_LOG_LEVEL, DPZIP_UI_VERBOSE, ...).
	EnvPrefix = "DPZIP"
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the dpzip configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case platform.Windows:
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case platform.Darwin:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// FilePath returns the config file that Load reads for opts: the explicit
// ConfigFilePath when set, otherwise config.cue in the config directory.
func FilePath(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		return opts.ConfigFilePath, nil
	}
	cfgDir, err := configDirWithOverride(opts.ConfigDirPath)
	if err != nil {
		return "", err
	}
	return filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt), nil
}

// SettingsPath returns where pack settings are stored for cfg.
func SettingsPath(cfg *Config) (string, error) {
	if cfg != nil && cfg.SettingsFile != "" {
		return expandHome(string(cfg.SettingsFile))
	}
	cfgDir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfgDir, SettingsFileName), nil
}

// loadWithOptions performs option-driven config loading without mutating
// package-level state.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("ui.color_scheme", defaults.UI.ColorScheme)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)
	v.SetDefault("ui.interactive", defaults.UI.Interactive)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("archive.verify", defaults.Archive.Verify)
	v.SetDefault("archive.compression", defaults.Archive.Compression)
	v.SetDefault("settings_file", defaults.SettingsFile)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfgPath, err := FilePath(opts)
	if err != nil {
		return nil, "", err
	}

	resolvedPath := ""
	switch {
	case fileExists(cfgPath):
		if err := loadCUEIntoViper(v, cfgPath); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(cfgPath).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithSuggestion("Run 'dpzip config dump' to print a valid configuration").
				Wrap(err).
				BuildError()
		}
		resolvedPath = cfgPath
	case opts.ConfigFilePath != "":
		// An explicitly requested file must exist.
		return nil, "", issue.NewErrorContext().
			WithOperation("load configuration").
			WithResource(opts.ConfigFilePath).
			WithSuggestion("Verify the file path is correct").
			WithSuggestion("Check that the file exists and is readable").
			WithSuggestion("Use 'dpzip config show' to see the default configuration").
			Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
			BuildError()
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	// Environment overrides bypass the CUE schema.
	if valid, errs := cfg.IsValid(); !valid {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithSuggestion("Check the " + EnvPrefix + "_* environment variables").
			Wrap(errs[0]).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}

	return ConfigDir()
}

// loadCUEIntoViper validates a CUE file against the #Config schema and
// merges its contents into Viper. The file is decoded to a map rather than
// a struct so that Viper keeps its defaults for fields the file leaves out.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	unified, err := cueutil.Unify(configSchema, data, "#Config",
		cueutil.WithFilename(path),
		cueutil.WithConcrete(false),
	)
	if err != nil {
		return err
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return cueutil.FormatError(err, path)
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

func expandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir() error {
	cfgDir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(cfgDir, 0o755)
}

// CreateDefaultConfig writes the default config file unless one exists. It
// returns the file path and whether it was created.
func CreateDefaultConfig() (string, bool, error) {
	cfgPath, err := FilePath(LoadOptions{})
	if err != nil {
		return "", false, err
	}

	if _, err := os.Stat(cfgPath); err == nil {
		return cfgPath, false, nil
	}

	if err := Save(DefaultConfig()); err != nil {
		return "", false, err
	}
	return cfgPath, true, nil
}

// Save writes cfg to the config file in the config directory.
func Save(cfg *Config) error {
	cfgPath, err := FilePath(LoadOptions{})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(cfgPath), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(cfgPath, []byte(GenerateCUE(cfg)), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// dpzip configuration file\n")
	sb.WriteString("// Run 'dpzip config --help' for the available options.\n")

	sb.WriteString("\nui: {\n")
	sb.WriteString(fmt.Sprintf("\tcolor_scheme: %q\n", cfg.UI.ColorScheme))
	sb.WriteString(fmt.Sprintf("\tverbose: %v\n", cfg.UI.Verbose))
	sb.WriteString(fmt.Sprintf("\tinteractive: %v\n", cfg.UI.Interactive))
	sb.WriteString("}\n")

	sb.WriteString("\nlog: {\n")
	sb.WriteString(fmt.Sprintf("\tlevel: %q\n", cfg.Log.Level))
	sb.WriteString("}\n")

	sb.WriteString("\narchive: {\n")
	sb.WriteString(fmt.Sprintf("\tverify: %v\n", cfg.Archive.Verify))
	sb.WriteString(fmt.Sprintf("\tcompression: %q\n", cfg.Archive.Compression))
	sb.WriteString("}\n")

	if cfg.SettingsFile != "" {
		sb.WriteString(fmt.Sprintf("\nsettings_file: %q\n", cfg.SettingsFile))
	}

	return sb.String()
}
