// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dpzip/dpzip/internal/config"
	"github.com/dpzip/dpzip/internal/issue"
	"github.com/dpzip/dpzip/internal/settings"

	"github.com/charmbracelet/log"
	"golang.org/x/term"
)

type (
	// ConfigProvider loads configuration using explicit options.
	// This abstraction enables testing with custom config sources.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, string, error)
	}

	// App wires CLI services and shared dependencies. All Cobra command
	// handlers receive an App reference; output goes through its writers.
	App struct {
		Config ConfigProvider
		stdin  io.Reader
		stdout io.Writer
		stderr io.Writer

		flags rootFlags

		// Populated by prepare before any command runs.
		cfg     *config.Config
		cfgPath string
		logger  *log.Logger
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}

	rootFlags struct {
		verbose      bool
		configPath   string
		settingsPath string
		logLevel     string
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdin == nil {
		deps.Stdin = os.Stdin
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}

	return &App{
		Config: deps.Config,
		stdin:  deps.Stdin,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
		cfg:    config.DefaultConfig(),
		logger: newLogger(deps.Stderr, config.LogLevelInfo),
	}
}

// prepare loads the configuration and builds the logger. A configuration
// that cannot be loaded is reported as a warning and defaults are used.
func (a *App) prepare(ctx context.Context) error {
	cfg, path, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: a.flags.configPath})
	if err != nil {
		fmt.Fprintln(a.stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, a.flags.verbose))
		cfg = config.DefaultConfig()
		path = ""
	}
	a.cfg = cfg
	a.cfgPath = path

	level := cfg.Log.Level
	if a.flags.logLevel != "" {
		level = config.LogLevel(a.flags.logLevel)
		if valid, errs := level.IsValid(); !valid {
			return errs[0]
		}
	}
	a.logger = newLogger(a.stderr, level)
	return nil
}

// verbose reports whether full error chains should be printed.
func (a *App) verbose() bool {
	return a.flags.verbose || a.cfg.UI.Verbose
}

// settingsStore returns the store selected by --settings, the settings_file
// config value, or the default location.
func (a *App) settingsStore() (*settings.Store, error) {
	if a.flags.settingsPath != "" {
		return settings.NewStore(a.flags.settingsPath), nil
	}
	path, err := config.SettingsPath(a.cfg)
	if err != nil {
		return nil, err
	}
	return settings.NewStore(path), nil
}

// loadSettings returns the stored settings, or zero settings when they
// cannot be read.
func (a *App) loadSettings(store *settings.Store) settings.Settings {
	if store == nil {
		return settings.Settings{}
	}
	s, err := store.Load()
	if err != nil {
		a.logger.Warn("settings unavailable, using defaults", "path", store.Path(), "err", err)
		return settings.Settings{}
	}
	return s
}

// saveSettings persists s. Failures are logged and otherwise ignored.
func (a *App) saveSettings(store *settings.Store, s settings.Settings) {
	if store == nil {
		return
	}
	if err := store.Save(s); err != nil {
		a.logger.Warn("could not save settings", "path", store.Path(), "err", err)
		return
	}
	a.logger.Debug("settings saved", "path", store.Path())
}

// openSettings resolves the settings store, logging and returning nil when
// no location can be determined.
func (a *App) openSettings() *settings.Store {
	store, err := a.settingsStore()
	if err != nil {
		a.logger.Warn("settings unavailable, using defaults", "err", err)
		return nil
	}
	return store
}

// issueStyle picks the glamour style for issue pages from ui.color_scheme.
func (a *App) issueStyle() string {
	switch a.cfg.UI.ColorScheme {
	case config.ColorSchemeDark:
		return "dark"
	case config.ColorSchemeLight:
		return "light"
	case config.ColorSchemeAuto:
		if isTerminal(a.stderr) {
			return "dark"
		}
		return "notty"
	default:
		return "notty"
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// newLogger builds the CLI logger writing to w at level.
func newLogger(w io.Writer, level config.LogLevel) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Prefix:          "dpzip",
		ReportTimestamp: false,
	})
	parsed, err := log.ParseLevel(string(level))
	if err != nil {
		parsed = log.InfoLevel
	}
	logger.SetLevel(parsed)
	return logger
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
