// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/dpzip/dpzip/internal/config"
	"github.com/dpzip/dpzip/internal/settings"
	"github.com/dpzip/dpzip/internal/tui"

	"github.com/spf13/cobra"
)

func newFormCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "form",
		Short: "Pick the pack settings interactively and zip",
		Long: `Pick the pack settings interactively and zip.

The form is pre-filled with the remembered settings. Submitting saves them;
answering "Zip" to the last question also builds the archives.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runForm(cmd)
		},
	}
}

func (a *App) runForm(cmd *cobra.Command) error {
	store := a.openSettings()
	current := a.loadSettings(store)

	values := tui.FormValues{
		Name:                current.DatapackName,
		SourceDir:           current.SourceDir,
		ExportDir:           current.ExportDir,
		IncludeResourcePack: current.IncludeResourcePack,
	}

	tuiCfg := tui.DefaultConfig()
	tuiCfg.Theme = tui.ThemeForColorScheme(a.cfg.UI.ColorScheme.String())
	tuiCfg.Input = a.stdin
	if err := tui.PackForm(&values, tuiCfg); err != nil {
		if errors.Is(err, tui.ErrCancelled) {
			fmt.Fprintln(a.stderr, WarningStyle.Render("Cancelled."))
			return nil
		}
		return err
	}

	submitted := settings.Settings{
		DatapackName:        values.Name,
		SourceDir:           values.SourceDir,
		ExportDir:           values.ExportDir,
		IncludeResourcePack: values.IncludeResourcePack,
	}
	a.saveSettings(store, submitted)

	if !values.Confirmed {
		fmt.Fprintf(a.stdout, "%s Settings saved. Run %s to zip.\n", SuccessStyle.Render("✓"), CmdStyle.Render("dpzip build"))
		return nil
	}

	return a.runBuild(cmd, settings.Overrides{}, buildRunOptions{
		verify: a.cfg.Archive.Verify,
		store:  a.cfg.Archive.Compression == config.CompressionStore,
	})
}
