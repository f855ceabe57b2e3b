// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// LogLevelDebug prints every archived file.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo prints one line per folder and archive.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn prints only recoverable problems.
	LogLevelWarn LogLevel = "warn"
	// LogLevelError prints only failures.
	LogLevelError LogLevel = "error"

	// CompressionDeflate compresses archive entries.
	CompressionDeflate Compression = "deflate"
	// CompressionStore stores archive entries uncompressed.
	CompressionStore Compression = "store"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidCompression is returned when a Compression value is not recognized.
	ErrInvalidCompression = errors.New("invalid compression")
	// ErrInvalidSettingsFilePath is returned when a SettingsFilePath value is whitespace-only.
	ErrInvalidSettingsFilePath = errors.New("invalid settings file path")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// LogLevel is the minimum level printed by the CLI logger.
	LogLevel string

	// InvalidLogLevelError is returned when a LogLevel value is not recognized.
	// It wraps ErrInvalidLogLevel for errors.Is() compatibility.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// Compression selects how archive entries are stored.
	Compression string

	// InvalidCompressionError is returned when a Compression value is not recognized.
	// It wraps ErrInvalidCompression for errors.Is() compatibility.
	InvalidCompressionError struct {
		Value Compression
	}

	// SettingsFilePath overrides the location of the pack settings file.
	// The zero value ("") means "<config dir>/settings.json".
	SettingsFilePath string

	// InvalidSettingsFilePathError is returned when a SettingsFilePath value is
	// non-empty but whitespace-only.
	InvalidSettingsFilePathError struct {
		Value SettingsFilePath
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sections.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// UI configures the user interface
		UI UIConfig `json:"ui" mapstructure:"ui"`
		// Log configures the CLI logger
		Log LogConfig `json:"log" mapstructure:"log"`
		// Archive configures how archives are written
		Archive ArchiveConfig `json:"archive" mapstructure:"archive"`
		// SettingsFile overrides where pack settings are persisted
		SettingsFile SettingsFilePath `json:"settings_file" mapstructure:"settings_file"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme picks the form theme and the issue page style
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose prints full error chains
		Verbose bool `json:"verbose" mapstructure:"verbose"`
		// Interactive opens the form when dpzip runs without a subcommand
		Interactive bool `json:"interactive" mapstructure:"interactive"`
	}

	// LogConfig configures logging.
	LogConfig struct {
		Level LogLevel `json:"level" mapstructure:"level"`
	}

	// ArchiveConfig configures archive output.
	ArchiveConfig struct {
		// Verify lists the archive contents after each build
		Verify bool `json:"verify" mapstructure:"verify"`
		// Compression is "deflate" (default) or "store"
		Compression Compression `json:"compression" mapstructure:"compression"`
	}
)

// IsValid returns whether the Config has valid fields.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.UI.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Log.Level.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Archive.Compression.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.SettingsFile.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error {
	return ErrInvalidColorScheme
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// Error implements the error interface for InvalidLogLevelError.
func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidLogLevelError) Unwrap() error { return ErrInvalidLogLevel }

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string { return string(l) }

// IsValid returns whether the LogLevel is one of the defined levels.
func (l LogLevel) IsValid() (bool, []error) {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true, nil
	default:
		return false, []error{&InvalidLogLevelError{Value: l}}
	}
}

// Error implements the error interface for InvalidCompressionError.
func (e *InvalidCompressionError) Error() string {
	return fmt.Sprintf("invalid compression %q (valid: deflate, store)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidCompressionError) Unwrap() error { return ErrInvalidCompression }

// String returns the string representation of the Compression.
func (c Compression) String() string { return string(c) }

// IsValid returns whether the Compression is one of the defined methods.
func (c Compression) IsValid() (bool, []error) {
	switch c {
	case CompressionDeflate, CompressionStore:
		return true, nil
	default:
		return false, []error{&InvalidCompressionError{Value: c}}
	}
}

// String returns the string representation of the SettingsFilePath.
func (p SettingsFilePath) String() string { return string(p) }

// IsValid returns whether the SettingsFilePath is valid.
// The zero value ("") is valid (means "use the default location").
// Non-zero values must not be whitespace-only.
func (p SettingsFilePath) IsValid() (bool, []error) {
	if p == "" {
		return true, nil
	}
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidSettingsFilePathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidSettingsFilePathError.
func (e *InvalidSettingsFilePathError) Error() string {
	return fmt.Sprintf("invalid settings file path %q: non-empty value must not be whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidSettingsFilePath for errors.Is() compatibility.
func (e *InvalidSettingsFilePathError) Unwrap() error { return ErrInvalidSettingsFilePath }

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
			Interactive: false,
		},
		Log: LogConfig{
			Level: LogLevelInfo,
		},
		Archive: ArchiveConfig{
			Verify:      false,
			Compression: CompressionDeflate,
		},
		SettingsFile: "", // Will use <config dir>/settings.json if empty
	}
}
