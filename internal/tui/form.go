// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dpzip/dpzip/pkg/datapack"

	"github.com/charmbracelet/huh"
)

// FormValues holds the pack form fields. PackForm pre-fills the inputs from
// the current values and writes the answers back.
type FormValues struct {
	Name                string
	SourceDir           string
	ExportDir           string
	IncludeResourcePack bool
	// Confirmed is the answer to "Zip datapack now?".
	Confirmed bool
}

// PackForm runs the interactive pack form. It returns ErrCancelled when the
// user aborts; values are only updated on submit.
func PackForm(values *FormValues, cfg Config) error {
	answers := *values
	form := newPackForm(&answers, cfg)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrCancelled
		}
		return fmt.Errorf("pack form failed: %w", err)
	}

	answers.Name = strings.TrimSpace(answers.Name)
	answers.SourceDir = strings.TrimSpace(answers.SourceDir)
	answers.ExportDir = strings.TrimSpace(answers.ExportDir)
	*values = answers
	return nil
}

func newPackForm(values *FormValues, cfg Config) *huh.Form {
	settings := huh.NewGroup(
		huh.NewInput().
			Title("Datapack name").
			Description("The archive is written as <name>.zip").
			Placeholder("my_datapack").
			Value(&values.Name).
			Validate(validateName),
		huh.NewInput().
			Title("Datapack folder").
			Description("Folder containing data/, pack.mcmeta and pack.png").
			Value(&values.SourceDir).
			Validate(validateFolder(datapack.FieldSourceDir)),
		huh.NewInput().
			Title("Export folder").
			Description("Where the archives are written").
			Value(&values.ExportDir).
			Validate(validateFolder(datapack.FieldExportDir)),
		huh.NewConfirm().
			Title("Also build a resource pack?").
			Description("Zips assets/ as <name>" + datapack.ResourceSuffix + datapack.ArchiveExt).
			Affirmative("Yes").
			Negative("No").
			Value(&values.IncludeResourcePack),
	)

	confirm := huh.NewGroup(
		huh.NewConfirm().
			Title("Zip datapack now?").
			Affirmative("Zip").
			Negative("Just save").
			Value(&values.Confirmed),
	)

	form := huh.NewForm(settings, confirm).
		WithTheme(getHuhTheme(cfg.Theme)).
		WithAccessible(shouldUseAccessible(cfg)).
		WithOutput(getOutputWriter(cfg))
	if cfg.Input != nil {
		form = form.WithInput(cfg.Input)
	}
	if cfg.Width > 0 {
		form = form.WithWidth(cfg.Width)
	}
	return form
}

// validateName applies the same rules as datapack.Options.Validate.
func validateName(name string) error {
	opts := datapack.Options{Name: name, SourceDir: ".", ExportDir: "."}
	return opts.Validate()
}

// validateFolder requires a non-empty path naming an existing directory.
func validateFolder(field datapack.InputField) func(string) error {
	return func(value string) error {
		value = strings.TrimSpace(value)
		if value == "" {
			return &datapack.MissingInputError{Field: field}
		}
		info, err := os.Stat(value)
		if err != nil {
			return fmt.Errorf("%s %q does not exist", field, value)
		}
		if !info.IsDir() {
			return fmt.Errorf("%s %q is not a folder", field, value)
		}
		return nil
	}
}
