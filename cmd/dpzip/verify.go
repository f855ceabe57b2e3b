// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/spf13/cobra"
)

func newVerifyCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <archive.zip>...",
		Short: "List the entries of built archives",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				if err := app.listArchive(path); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
