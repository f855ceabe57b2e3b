// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/dpzip/config.cue (or XDG equivalent on Linux,
// ~/Library/Application Support/dpzip/config.cue on macOS, %APPDATA%\dpzip\config.cue
// on Windows). It covers the UI (color scheme, verbosity, interactive default), the log
// level, archive output (verification, compression) and the pack settings file location.
// DPZIP_* environment variables override file values.
//
// Configuration validation is performed against a CUE schema (config_schema.cue) to ensure
// type safety and provide clear error messages for invalid configurations.
package config
