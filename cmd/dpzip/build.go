// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/dpzip/dpzip/internal/config"
	"github.com/dpzip/dpzip/internal/settings"
	"github.com/dpzip/dpzip/pkg/archive"
	"github.com/dpzip/dpzip/pkg/datapack"

	"github.com/spf13/cobra"
)

type buildFlags struct {
	name           string
	source         string
	export         string
	resourcePack   bool
	noResourcePack bool
	verify         bool
	store          bool
}

func newBuildCommand(app *App) *cobra.Command {
	var flags buildFlags

	buildCmd := &cobra.Command{
		Use:   "build",
		Short: "Zip the datapack (and optionally its resource pack)",
		Long: `Zip the datapack (and optionally its resource pack).

Flags override the remembered settings; changed values are saved before the
build starts. Values that are neither given nor remembered make the build
fail with exit code 2 before any file is touched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides := settings.Overrides{}
			if cmd.Flags().Changed("name") {
				overrides.DatapackName = &flags.name
			}
			if cmd.Flags().Changed("source") {
				overrides.SourceDir = &flags.source
			}
			if cmd.Flags().Changed("export") {
				overrides.ExportDir = &flags.export
			}
			switch {
			case cmd.Flags().Changed("no-resource-pack"):
				include := !flags.noResourcePack
				overrides.IncludeResourcePack = &include
			case cmd.Flags().Changed("resource-pack"):
				overrides.IncludeResourcePack = &flags.resourcePack
			}

			return app.runBuild(cmd, overrides, buildRunOptions{
				verify: flags.verify || app.cfg.Archive.Verify,
				store:  flags.store || app.cfg.Archive.Compression == config.CompressionStore,
			})
		},
	}

	buildCmd.Flags().StringVarP(&flags.name, "name", "n", "", "datapack name (archive file name without .zip)")
	buildCmd.Flags().StringVarP(&flags.source, "source", "s", "", "datapack folder containing data/, pack.mcmeta and pack.png")
	buildCmd.Flags().StringVarP(&flags.export, "export", "o", "", "folder the archives are written to")
	buildCmd.Flags().BoolVarP(&flags.resourcePack, "resource-pack", "r", false, "also zip assets/ as <name>_resources.zip")
	buildCmd.Flags().BoolVar(&flags.noResourcePack, "no-resource-pack", false, "do not build the resource pack")
	buildCmd.Flags().BoolVar(&flags.verify, "verify", false, "list the archive contents after building")
	buildCmd.Flags().BoolVar(&flags.store, "store", false, "store entries uncompressed")
	buildCmd.MarkFlagsMutuallyExclusive("resource-pack", "no-resource-pack")

	return buildCmd
}

type buildRunOptions struct {
	verify bool
	store  bool
}

// runBuild merges overrides over the stored settings, saves them when they
// changed, and packages. Settings are saved again after every archive.
func (a *App) runBuild(cmd *cobra.Command, overrides settings.Overrides, opts buildRunOptions) error {
	store := a.openSettings()
	merged, changed := a.loadSettings(store).Merge(overrides)
	if changed {
		a.saveSettings(store, merged)
	}

	res, err := datapack.Package(datapack.Options{
		Name:                merged.DatapackName,
		SourceDir:           merged.SourceDir,
		ExportDir:           merged.ExportDir,
		IncludeResourcePack: merged.IncludeResourcePack,
		Store:               opts.store,
		Logger:              a.logger,
		OnArchive: func(built datapack.ArchiveResult) {
			a.saveSettings(store, merged)
			a.printArchive(built)
		},
	})
	if err != nil {
		return a.fail(cmd, classifyBuildError(err, a.verbose()))
	}

	if opts.verify {
		for _, built := range res.Archives {
			if err := a.listArchive(built.Path); err != nil {
				return err
			}
		}
	}

	return nil
}

func (a *App) printArchive(built datapack.ArchiveResult) {
	size := ""
	if info, err := os.Stat(built.Path); err == nil {
		size = " " + SubtitleStyle.Render("("+formatFileSize(info.Size())+")")
	}
	fmt.Fprintf(a.stdout, "%s Created %s archive: %s%s\n",
		SuccessStyle.Render("✓"), built.Kind, CmdStyle.Render(built.Path), size)
	if len(built.Overlays) > 0 {
		fmt.Fprintf(a.stdout, "  %s %v\n", SubtitleStyle.Render("overlays:"), built.Overlays)
	}
}

// listArchive prints every entry of the archive at path.
func (a *App) listArchive(path string) error {
	entries, err := archive.List(path)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.stdout, TitleStyle.Render(path))
	var total uint64
	for _, e := range entries {
		fmt.Fprintf(a.stdout, "  %10s  %s\n", formatFileSize(int64(e.Size)), e.Name)
		total += e.Size
	}
	fmt.Fprintf(a.stdout, "%s\n", SubtitleStyle.Render(fmt.Sprintf("%d files, %s", len(entries), formatFileSize(int64(total)))))
	return nil
}

// fail renders svcErr and returns an already-reported ExitError.
func (a *App) fail(cmd *cobra.Command, svcErr *ServiceError) error {
	renderServiceError(a.stderr, svcErr, a.issueStyle(), a.logger)
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	return &ExitError{Code: svcErr.Code}
}

// formatFileSize formats a file size in bytes to a human-readable string
func formatFileSize(size int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case size >= GB:
		return fmt.Sprintf("%.2f GB", float64(size)/float64(GB))
	case size >= MB:
		return fmt.Sprintf("%.2f MB", float64(size)/float64(MB))
	case size >= KB:
		return fmt.Sprintf("%.2f KB", float64(size)/float64(KB))
	default:
		return fmt.Sprintf("%d bytes", size)
	}
}
