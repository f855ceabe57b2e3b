// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/dpzip/dpzip/pkg/mcmeta"

	"github.com/spf13/cobra"
)

func newOverlaysCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "overlays <pack.mcmeta>",
		Short: "Show the overlay folders a metadata file declares",
		Long: `Show the pack format, description and overlay folders declared in a
pack.mcmeta (or resource_pack.mcmeta) file.

A missing or malformed file declares no overlays, exactly as during a build.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			fmt.Fprintln(app.stdout, TitleStyle.Render(path))
			if meta, err := mcmeta.Load(path); err == nil {
				if format, ok := meta.PackFormat(); ok {
					fmt.Fprintf(app.stdout, "%s: %d\n", CmdStyle.Render("pack_format"), format)
				}
				if desc := meta.Description(); desc != "" {
					fmt.Fprintf(app.stdout, "%s: %s\n", CmdStyle.Render("description"), desc)
				}
			}

			overlays := mcmeta.ResolveOverlays(path, app.logger)
			if len(overlays) == 0 {
				fmt.Fprintln(app.stdout, SubtitleStyle.Render("(no overlays)"))
				return nil
			}
			fmt.Fprintf(app.stdout, "%s:\n", CmdStyle.Render("overlays"))
			for _, dir := range overlays {
				fmt.Fprintf(app.stdout, "  - %s\n", dir)
			}
			return nil
		},
	}
}
