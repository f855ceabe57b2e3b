// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/dpzip/dpzip/internal/config"
	"github.com/dpzip/dpzip/internal/issue"
	"github.com/dpzip/dpzip/pkg/types"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `dpzip config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage dpzip configuration",
		Long: `Manage dpzip configuration.

Configuration is stored in:
  - Linux: ~/.config/dpzip/config.cue
  - macOS: ~/Library/Application Support/dpzip/config.cue
  - Windows: %APPDATA%\dpzip\config.cue

Every value can also be set with a DPZIP_ environment variable, for example
DPZIP_LOG_LEVEL=debug or DPZIP_ARCHIVE_COMPRESSION=store.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.showConfig(cmd)
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.initConfig(force)
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing configuration file")
	cfgCmd.AddCommand(initCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, err := config.FilePath(config.LoadOptions{ConfigFilePath: app.flags.configPath})
			if err != nil {
				return err
			}
			fmt.Fprintln(app.stdout, cfgPath)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(app.stdout, config.GenerateCUE(app.cfg))
			return nil
		},
	})

	return cfgCmd
}

func (a *App) showConfig(cmd *cobra.Command) error {
	cfg, cfgPath, err := a.Config.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: a.flags.configPath})
	if err != nil {
		svcErr := newServiceError(err, issue.ConfigLoadFailedId,
			fmt.Sprintf("\n%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, a.verbose())), types.ExitFailure)
		return a.fail(cmd, svcErr)
	}

	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Fprintln(a.stdout, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(a.stdout)
	if cfgPath != "" {
		fmt.Fprintf(a.stdout, "%s: %s\n", keyStyle.Render("Config file"), cfgPath)
	} else {
		fmt.Fprintf(a.stdout, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}

	settingsPath, err := config.SettingsPath(cfg)
	if err == nil {
		fmt.Fprintf(a.stdout, "%s: %s\n", keyStyle.Render("Settings file"), settingsPath)
	}

	fmt.Fprintln(a.stdout)
	fmt.Fprintf(a.stdout, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(a.stdout, "  color_scheme: %s\n", valueStyle.Render(cfg.UI.ColorScheme.String()))
	fmt.Fprintf(a.stdout, "  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))
	fmt.Fprintf(a.stdout, "  interactive: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Interactive)))

	fmt.Fprintln(a.stdout)
	fmt.Fprintf(a.stdout, "%s:\n", keyStyle.Render("log"))
	fmt.Fprintf(a.stdout, "  level: %s\n", valueStyle.Render(cfg.Log.Level.String()))

	fmt.Fprintln(a.stdout)
	fmt.Fprintf(a.stdout, "%s:\n", keyStyle.Render("archive"))
	fmt.Fprintf(a.stdout, "  verify: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.Archive.Verify)))
	fmt.Fprintf(a.stdout, "  compression: %s\n", valueStyle.Render(cfg.Archive.Compression.String()))

	return nil
}

func (a *App) initConfig(force bool) error {
	if force {
		if err := config.Save(config.DefaultConfig()); err != nil {
			return fmt.Errorf("failed to create config: %w", err)
		}
		cfgPath, err := config.FilePath(config.LoadOptions{})
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "%s Wrote default configuration to %s\n", SuccessStyle.Render("✓"), cfgPath)
		return nil
	}

	cfgPath, created, err := config.CreateDefaultConfig()
	if err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}
	if !created {
		fmt.Fprintf(a.stdout, "%s Configuration already exists at %s (use --force to overwrite)\n", WarningStyle.Render("!"), cfgPath)
		return nil
	}

	fmt.Fprintf(a.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), cfgPath)
	return nil
}

