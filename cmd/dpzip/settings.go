// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/dpzip/dpzip/internal/issue"
	"github.com/dpzip/dpzip/internal/settings"
	"github.com/dpzip/dpzip/pkg/types"

	"github.com/spf13/cobra"
)

// newSettingsCommand creates the `dpzip settings` command tree.
func newSettingsCommand(app *App) *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Manage the remembered pack settings",
		Long: `Manage the remembered pack settings.

Settings are stored as JSON under the "` + settings.ProjectKey + `" key, by default in
settings.json next to the configuration file. Use --settings or the
settings_file configuration value to pick another file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	settingsCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the remembered settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.showSettings()
		},
	})

	settingsCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the settings file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.settingsStore()
			if err != nil {
				return err
			}
			fmt.Fprintln(app.stdout, store.Path())
			return nil
		},
	})

	settingsCmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a remembered value",
		Long: `Set a remembered value.

Valid keys: ` + fmt.Sprint(settings.Keys()),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.setSetting(args[0], args[1])
		},
	})

	settingsCmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Rewrite a legacy flat settings file in the nested layout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.migrateSettings()
		},
	})

	return settingsCmd
}

func (a *App) showSettings() error {
	store, err := a.settingsStore()
	if err != nil {
		return err
	}

	current, loadErr := store.Load()
	if loadErr != nil {
		renderServiceError(a.stderr, newServiceError(loadErr, issue.SettingsUnavailableId,
			fmt.Sprintf("\n%s %v\n\n", WarningStyle.Render("Warning:"), loadErr), types.ExitSuccess), a.issueStyle(), a.logger)
	}

	fmt.Fprintln(a.stdout, TitleStyle.Render("Pack Settings"))
	fmt.Fprintf(a.stdout, "%s: %s\n\n", CmdStyle.Render("Settings file"), store.Path())

	values := current.ToMap()
	for _, key := range settings.Keys() {
		value := fmt.Sprint(values[key])
		if value == "" {
			value = SubtitleStyle.Render("(not set)")
		}
		fmt.Fprintf(a.stdout, "%s: %s\n", CmdStyle.Render(key), value)
	}
	return nil
}

func (a *App) setSetting(key, value string) error {
	store, err := a.settingsStore()
	if err != nil {
		return err
	}

	current := a.loadSettings(store)
	updated, err := current.Set(key, value)
	if err != nil {
		return err
	}
	if err := store.Save(updated); err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "%s Set %s = %v\n", SuccessStyle.Render("✓"), key, updated.ToMap()[key])
	return nil
}

func (a *App) migrateSettings() error {
	store, err := a.settingsStore()
	if err != nil {
		return err
	}

	migrated, err := store.MigrateFile()
	switch {
	case errors.Is(err, fs.ErrNotExist):
		fmt.Fprintf(a.stdout, "No settings file at %s\n", store.Path())
		return nil
	case err != nil:
		return err
	case migrated:
		fmt.Fprintf(a.stdout, "%s Migrated %s\n", SuccessStyle.Render("✓"), store.Path())
	default:
		fmt.Fprintf(a.stdout, "%s is already up to date\n", store.Path())
	}
	return nil
}
