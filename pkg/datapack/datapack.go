// SPDX-License-Identifier: MPL-2.0

// Package datapack sequences the archive builds for a Minecraft datapack and
// its optional companion resource pack.
//
// The primary archive "<name>.zip" holds data/, every overlay folder declared
// in pack.mcmeta, pack.mcmeta and pack.png. The resource archive
// "<name>_resources.zip" holds assets/, the overlays declared in the resource
// pack metadata, that metadata stored as pack.mcmeta, and pack.png.
package datapack

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/dpzip/dpzip/pkg/archive"
	"github.com/dpzip/dpzip/pkg/mcmeta"
	"github.com/dpzip/dpzip/pkg/platform"
)

const (
	// DataDir is the datapack content folder.
	DataDir = "data"
	// AssetsDir is the resource pack content folder.
	AssetsDir = "assets"
	// IconFile is the pack icon copied into both archives.
	IconFile = "pack.png"
	// ArchiveExt is the extension of every produced archive.
	ArchiveExt = ".zip"
	// ResourceSuffix is appended to the pack name for the resource archive.
	ResourceSuffix = "_resources"

	// KindDatapack identifies the primary archive.
	KindDatapack ArchiveKind = "datapack"
	// KindResourcePack identifies the resource pack archive.
	KindResourcePack ArchiveKind = "resource pack"

	// FieldName is the datapack name input.
	FieldName InputField = "datapack name"
	// FieldSourceDir is the datapack folder input.
	FieldSourceDir InputField = "datapack folder"
	// FieldExportDir is the export folder input.
	FieldExportDir InputField = "export folder"
)

// ResourceMetaCandidates are the accepted resource pack metadata file names,
// in lookup order.
var ResourceMetaCandidates = []string{"resource_pack.mcmeta", "pack_resourcepack.mcmeta"}

var (
	// ErrMissingInput is returned when a required option is empty.
	ErrMissingInput = errors.New("missing required input")
	// ErrInvalidName is returned when the datapack name cannot be used as a file name.
	ErrInvalidName = errors.New("invalid datapack name")
)

type (
	// ArchiveKind names one of the two archives a build can produce.
	ArchiveKind string

	// InputField names a required user input.
	InputField string

	// MissingInputError reports the first required input that was left empty.
	// It wraps ErrMissingInput for errors.Is() compatibility.
	MissingInputError struct {
		Field InputField
	}

	// InvalidNameError reports a datapack name that contains path elements or
	// is reserved on Windows.
	// It wraps ErrInvalidName.
	InvalidNameError struct {
		Name string
	}

	// Options configures a packaging run.
	Options struct {
		// Name is the base name of the produced archives, without extension.
		Name string
		// SourceDir is the datapack root containing data/, pack.mcmeta and pack.png.
		SourceDir string
		// ExportDir receives the archives. It must already exist.
		ExportDir string
		// IncludeResourcePack also builds "<Name>_resources.zip" from assets/.
		IncludeResourcePack bool
		// Store writes entries uncompressed instead of deflated.
		Store bool
		// Logger receives progress output. Nil discards it.
		Logger *log.Logger
		// OnArchive is called after each archive that was written successfully.
		OnArchive func(ArchiveResult)
	}

	// ArchiveResult describes one archive written by Package.
	ArchiveResult struct {
		Kind ArchiveKind
		Path string
		// Overlays lists the overlay folders that were included.
		Overlays []string
		// Metadata is the source metadata file stored as pack.mcmeta, or empty
		// when the archive carries none.
		Metadata string
		Entries  int
	}

	// Result lists the archives produced by Package, in build order.
	Result struct {
		Archives []ArchiveResult
	}
)

// Error implements the error interface.
func (e *MissingInputError) Error() string {
	return fmt.Sprintf("no %s chosen", e.Field)
}

// Unwrap returns ErrMissingInput.
func (e *MissingInputError) Unwrap() error { return ErrMissingInput }

// Error implements the error interface.
func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid datapack name %q: must be a plain file name", e.Name)
}

// Unwrap returns ErrInvalidName.
func (e *InvalidNameError) Unwrap() error { return ErrInvalidName }

// Validate checks that every required input is present. It performs no file I/O.
func (o Options) Validate() error {
	switch {
	case strings.TrimSpace(o.SourceDir) == "":
		return &MissingInputError{Field: FieldSourceDir}
	case strings.TrimSpace(o.ExportDir) == "":
		return &MissingInputError{Field: FieldExportDir}
	case strings.TrimSpace(o.Name) == "":
		return &MissingInputError{Field: FieldName}
	}
	if o.Name == "." || o.Name == ".." || strings.ContainsAny(o.Name, `/\`) || platform.IsWindowsReservedName(o.Name) {
		return &InvalidNameError{Name: o.Name}
	}
	return nil
}

// DatapackPath returns the path of the primary archive.
func (o Options) DatapackPath() string {
	return filepath.Join(o.ExportDir, o.Name+ArchiveExt)
}

// ResourcePackPath returns the path of the resource pack archive.
func (o Options) ResourcePackPath() string {
	return filepath.Join(o.ExportDir, o.Name+ResourceSuffix+ArchiveExt)
}

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.New(io.Discard)
}

func (o Options) archiveOptions() []archive.Option {
	method := zip.Deflate
	if o.Store {
		method = zip.Store
	}
	return []archive.Option{archive.WithLogger(o.logger()), archive.WithMethod(method)}
}

// Package validates opts and builds the datapack archive followed, when
// requested, by the resource pack archive. The first failure stops the run;
// archives completed before it are kept and were already reported to
// OnArchive.
func Package(opts Options) (Result, error) {
	var res Result
	if err := opts.Validate(); err != nil {
		return res, err
	}

	built, err := BuildDatapack(opts)
	if err != nil {
		return res, err
	}
	res.add(opts, built)

	if !opts.IncludeResourcePack {
		return res, nil
	}

	built, err = BuildResourcePack(opts)
	if err != nil {
		return res, err
	}
	res.add(opts, built)

	return res, nil
}

func (r *Result) add(opts Options, a ArchiveResult) {
	r.Archives = append(r.Archives, a)
	if opts.OnArchive != nil {
		opts.OnArchive(a)
	}
}

// BuildDatapack writes "<ExportDir>/<Name>.zip". Missing data/, pack.mcmeta,
// pack.png or overlay folders fail the build and leave no archive behind.
func BuildDatapack(opts Options) (ArchiveResult, error) {
	logger := opts.logger()
	metaPath := filepath.Join(opts.SourceDir, mcmeta.FileName)
	result := ArchiveResult{
		Kind:     KindDatapack,
		Path:     opts.DatapackPath(),
		Overlays: mcmeta.ResolveOverlays(metaPath, logger),
		Metadata: metaPath,
	}

	logger.Info("building", "archive", result.Path)
	err := archive.Create(result.Path, func(w *archive.Writer) error {
		if err := w.AddDir(filepath.Join(opts.SourceDir, DataDir), DataDir); err != nil {
			return err
		}
		if err := addOverlays(w, opts.SourceDir, result.Overlays); err != nil {
			return err
		}
		if err := w.AddFile(metaPath, mcmeta.FileName); err != nil {
			return err
		}
		if err := w.AddFile(filepath.Join(opts.SourceDir, IconFile), IconFile); err != nil {
			return err
		}
		result.Entries = w.Entries()
		return nil
	}, opts.archiveOptions()...)
	if err != nil {
		return ArchiveResult{}, fmt.Errorf("failed to build %s archive: %w", KindDatapack, err)
	}

	return result, nil
}

// BuildResourcePack writes "<ExportDir>/<Name>_resources.zip". When none of
// ResourceMetaCandidates exists the archive is still produced, without
// overlays and without pack.mcmeta.
func BuildResourcePack(opts Options) (ArchiveResult, error) {
	logger := opts.logger()
	result := ArchiveResult{
		Kind:     KindResourcePack,
		Path:     opts.ResourcePackPath(),
		Overlays: []string{},
	}

	if metaPath, ok := mcmeta.FindFirst(opts.SourceDir, ResourceMetaCandidates...); ok {
		result.Metadata = metaPath
		result.Overlays = mcmeta.ResolveOverlays(metaPath, logger)
	} else {
		logger.Warn("no resource pack metadata found, archive will not contain pack.mcmeta",
			"looked for", strings.Join(ResourceMetaCandidates, ", "))
	}

	logger.Info("building", "archive", result.Path)
	err := archive.Create(result.Path, func(w *archive.Writer) error {
		if err := w.AddDir(filepath.Join(opts.SourceDir, AssetsDir), AssetsDir); err != nil {
			return err
		}
		if err := addOverlays(w, opts.SourceDir, result.Overlays); err != nil {
			return err
		}
		if result.Metadata != "" {
			if err := w.AddFile(result.Metadata, mcmeta.FileName); err != nil {
				return err
			}
		}
		if err := w.AddFile(filepath.Join(opts.SourceDir, IconFile), IconFile); err != nil {
			return err
		}
		result.Entries = w.Entries()
		return nil
	}, opts.archiveOptions()...)
	if err != nil {
		return ArchiveResult{}, fmt.Errorf("failed to build %s archive: %w", KindResourcePack, err)
	}

	return result, nil
}

// addOverlays adds each declared overlay as a top-level folder of the same
// name. The archive writer rejects names that are absolute or climb out of
// the source directory.
func addOverlays(w *archive.Writer, sourceDir string, overlays []string) error {
	for _, name := range overlays {
		if err := w.AddDir(filepath.Join(sourceDir, filepath.FromSlash(name)), name); err != nil {
			return fmt.Errorf("overlay %q: %w", name, err)
		}
	}
	return nil
}
