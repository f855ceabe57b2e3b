// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dpzip/dpzip/pkg/types"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the dpzip command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dpzip",
		Short: "Zip Minecraft datapacks and resource packs",
		Long: TitleStyle.Render("dpzip") + SubtitleStyle.Render(" - Zip Minecraft datapacks and resource packs") + `

dpzip packages a datapack folder into <name>.zip with data/, the overlay
folders declared in pack.mcmeta, pack.mcmeta and pack.png. With a resource
pack it also writes <name>_resources.zip from assets/.

The name, datapack folder, export folder and resource pack choice are
remembered between runs.

` + SubtitleStyle.Render("Examples:") + `
  dpzip build --name my_pack --source ./my_pack --export ./dist
  dpzip build                     Rebuild with the remembered settings
  dpzip form                      Pick the settings interactively
  dpzip overlays ./my_pack/pack.mcmeta
  dpzip verify ./dist/my_pack.zip`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.prepare(cmd.Context())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.cfg.UI.Interactive {
				return app.runForm(cmd)
			}
			return cmd.Help()
		},
	}

	rootCmd.SetIn(app.stdin)
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.PersistentFlags().BoolVarP(&app.flags.verbose, "verbose", "v", false, "print full error chains")
	rootCmd.PersistentFlags().StringVar(&app.flags.configPath, "config", "", "config file (default is <config dir>/dpzip/config.cue)")
	rootCmd.PersistentFlags().StringVar(&app.flags.settingsPath, "settings", "", "pack settings file (default is <config dir>/dpzip/settings.json)")
	rootCmd.PersistentFlags().StringVar(&app.flags.logLevel, "log-level", "", "log level: debug, info, warn or error")

	rootCmd.AddCommand(
		newBuildCommand(app),
		newFormCommand(app),
		newOverlaysCommand(app),
		newVerifyCommand(app),
		newSettingsCommand(app),
		newConfigCommand(app),
	)

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the dpzip CLI and exits with the resulting exit code.
// This is called by main.main().
func Execute() {
	rootCmd := NewRootCommand(NewApp(Dependencies{}))

	// fang overrides rootCmd.Version, so the version goes through WithVersion.
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(handleError),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(int(types.ExitFailure))
	}
}

// handleError prints errors that were not already rendered by a command.
func handleError(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}
