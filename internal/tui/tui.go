// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"errors"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

const (
	// ThemeDefault uses the default huh theme.
	ThemeDefault Theme = "default"
	// ThemeCharm uses the Charm theme.
	ThemeCharm Theme = "charm"
	// ThemeDracula uses the Dracula theme.
	ThemeDracula Theme = "dracula"
	// ThemeCatppuccin uses the Catppuccin theme.
	ThemeCatppuccin Theme = "catppuccin"
	// ThemeBase16 uses the Base16 theme.
	ThemeBase16 Theme = "base16"
)

// ErrCancelled is returned when the user aborts a form.
var ErrCancelled = errors.New("cancelled by user")

type (
	// Theme represents the visual theme for TUI components.
	Theme string

	// Config holds common configuration for TUI components.
	Config struct {
		// Theme specifies the visual theme to use.
		Theme Theme
		// Accessible enables accessible mode for screen readers.
		Accessible bool
		// Width specifies the width of the form (0 for auto).
		Width int
		// Input is where answers are read from (nil for stdin).
		Input io.Reader
		// Output specifies where to write the form (nil picks stdout or stderr).
		Output io.Writer
	}
)

// DefaultConfig returns the default configuration for TUI components.
// Accessible mode is enabled when stdin is not a terminal or the ACCESSIBLE
// environment variable is set; prompts then go to stderr.
func DefaultConfig() Config {
	accessible := !isInputTerminal() || os.Getenv("ACCESSIBLE") != ""

	var output io.Writer = os.Stdout
	if accessible {
		output = os.Stderr
	}

	return Config{
		Theme:      ThemeDefault,
		Accessible: accessible,
		Output:     output,
	}
}

// ThemeForColorScheme maps the configured ui.color_scheme to a form theme.
func ThemeForColorScheme(scheme string) Theme {
	switch scheme {
	case "dark":
		return ThemeDracula
	case "light":
		return ThemeBase16
	default:
		return ThemeCharm
	}
}

// isInputTerminal returns true if stdin is connected to a terminal.
func isInputTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// shouldUseAccessible returns true if accessible mode should be used, either
// because cfg asks for it or because stdin is not a terminal.
func shouldUseAccessible(cfg Config) bool {
	return cfg.Accessible || !isInputTerminal()
}

// getOutputWriter returns cfg.Output, or stderr in accessible mode and
// stdout otherwise.
func getOutputWriter(cfg Config) io.Writer {
	if cfg.Output != nil {
		return cfg.Output
	}
	if shouldUseAccessible(cfg) {
		return os.Stderr
	}
	return os.Stdout
}

// getHuhTheme converts a Theme to a huh.Theme.
func getHuhTheme(t Theme) *huh.Theme {
	switch t {
	case ThemeCharm:
		return huh.ThemeCharm()
	case ThemeDracula:
		return huh.ThemeDracula()
	case ThemeCatppuccin:
		return huh.ThemeCatppuccin()
	case ThemeBase16:
		return huh.ThemeBase16()
	default:
		return huh.ThemeBase()
	}
}
