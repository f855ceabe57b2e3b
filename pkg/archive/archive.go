// SPDX-License-Identifier: MPL-2.0

// Package archive builds zip archives from directory trees.
//
// A Writer accumulates any number of source folders and single files into one
// archive, each folder remapped under its own archive-relative prefix. Create
// owns the output file: it is written to a temporary sibling and only renamed
// into place once every entry was written and the zip directory was flushed,
// so a failed build never leaves a valid-looking archive behind.
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

var (
	// ErrSourceNotFound is returned when a folder or file to be archived does not exist.
	ErrSourceNotFound = errors.New("archive source not found")
	// ErrInvalidEntryName is returned when an archive-relative name is absolute or escapes the archive root.
	ErrInvalidEntryName = errors.New("invalid archive entry name")
)

type (
	// SourceNotFoundError is returned when a source path is missing.
	// It wraps ErrSourceNotFound for errors.Is() compatibility.
	SourceNotFoundError struct {
		Path string
		Err  error
	}

	// InvalidEntryNameError is returned when an archive-relative name cannot be
	// used as a zip entry prefix. It wraps ErrInvalidEntryName.
	InvalidEntryNameError struct {
		Name string
	}

	// Option configures a Writer.
	Option func(*Writer)

	// Writer adds folders and files to an open zip archive.
	Writer struct {
		zw      *zip.Writer
		method  uint16
		logger  *log.Logger
		entries int
	}

	// Entry describes one file stored in an archive.
	Entry struct {
		Name           string
		Size           uint64
		CompressedSize uint64
		Method         uint16
	}
)

// Error implements the error interface.
func (e *SourceNotFoundError) Error() string {
	return fmt.Sprintf("archive source not found: %s", e.Path)
}

// Unwrap returns ErrSourceNotFound and the underlying stat error.
func (e *SourceNotFoundError) Unwrap() []error { return []error{ErrSourceNotFound, e.Err} }

// Error implements the error interface.
func (e *InvalidEntryNameError) Error() string {
	return fmt.Sprintf("invalid archive entry name %q: must be relative and stay inside the archive", e.Name)
}

// Unwrap returns ErrInvalidEntryName.
func (e *InvalidEntryNameError) Unwrap() error { return ErrInvalidEntryName }

// WithLogger sets the logger used to report added folders and files.
func WithLogger(l *log.Logger) Option {
	return func(w *Writer) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithMethod sets the compression method (zip.Deflate or zip.Store).
func WithMethod(method uint16) Option {
	return func(w *Writer) {
		w.method = method
	}
}

// Create builds the archive at outputPath by calling fill with a Writer.
//
// The archive is written to a temporary file in the same directory. The zip
// writer and the file are closed on every exit path; the temporary file is
// renamed onto outputPath only if fill and both closes succeed, and is removed
// otherwise. An existing file at outputPath is left untouched on failure.
func Create(outputPath string, fill func(*Writer) error, opts ...Option) (err error) {
	absOutputPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("failed to resolve output path: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(absOutputPath), "."+filepath.Base(absOutputPath)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create ZIP file: %w", err)
	}
	tmpPath := tmp.Name()

	w := newWriter(zip.NewWriter(tmp), opts...)

	defer func() {
		if err != nil {
			_ = os.Remove(tmpPath) // best-effort; the build already failed
		}
	}()

	fillErr := fill(w)
	closeZipErr := w.zw.Close()
	closeFileErr := tmp.Close()

	switch {
	case fillErr != nil:
		return fillErr
	case closeZipErr != nil:
		return fmt.Errorf("failed to finalize ZIP archive: %w", closeZipErr)
	case closeFileErr != nil:
		return fmt.Errorf("failed to close ZIP file: %w", closeFileErr)
	}

	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("failed to set archive permissions: %w", err)
	}
	if err := os.Rename(tmpPath, absOutputPath); err != nil {
		return fmt.Errorf("failed to move archive into place: %w", err)
	}

	return nil
}

// NewWriter wraps an existing zip.Writer. The caller owns zw and must close it.
func NewWriter(zw *zip.Writer, opts ...Option) *Writer {
	return newWriter(zw, opts...)
}

func newWriter(zw *zip.Writer, opts ...Option) *Writer {
	w := &Writer{
		zw:     zw,
		method: zip.Deflate,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Entries returns the number of file entries written so far.
func (w *Writer) Entries() int {
	return w.entries
}

// AddDir walks srcDir recursively and writes every file as
// "<arcName>/<path relative to srcDir>". An empty arcName uses the base name
// of srcDir. Directories produce no entries of their own.
func (w *Writer) AddDir(srcDir, arcName string) error {
	if arcName == "" {
		arcName = filepath.Base(srcDir)
	}
	prefix, err := cleanEntryName(arcName)
	if err != nil {
		return err
	}

	info, err := os.Stat(srcDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &SourceNotFoundError{Path: srcDir, Err: err}
		}
		return fmt.Errorf("failed to stat %s: %w", srcDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", srcDir)
	}

	w.logger.Info("adding folder", "source", srcDir, "as", prefix)

	walkErr := filepath.WalkDir(srcDir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}

		relPath, relErr := filepath.Rel(srcDir, p)
		if relErr != nil {
			return fmt.Errorf("failed to get relative path: %w", relErr)
		}

		return w.addFile(p, path.Join(prefix, filepath.ToSlash(relPath)))
	})
	if walkErr != nil {
		return fmt.Errorf("failed to add folder %s: %w", srcDir, walkErr)
	}

	return nil
}

// AddFile writes a single file under the given archive name.
func (w *Writer) AddFile(srcPath, arcName string) error {
	name, err := cleanEntryName(arcName)
	if err != nil {
		return err
	}

	info, err := os.Stat(srcPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &SourceNotFoundError{Path: srcPath, Err: err}
		}
		return fmt.Errorf("failed to stat %s: %w", srcPath, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a file", srcPath)
	}

	return w.addFile(srcPath, name)
}

func (w *Writer) addFile(srcPath, name string) error {
	f, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", srcPath, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to get file info: %w", err)
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("failed to create file header: %w", err)
	}
	header.Name = name
	header.Method = w.method

	dst, err := w.zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("failed to create ZIP entry %s: %w", name, err)
	}
	if _, err := io.Copy(dst, f); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}

	w.entries++
	w.logger.Debug("added", "file", srcPath, "entry", name)
	return nil
}

// cleanEntryName normalizes an archive-relative name to forward slashes and
// rejects names that are absolute or climb out of the archive root.
func cleanEntryName(name string) (string, error) {
	slashed := filepath.ToSlash(name)
	if slashed == "" || strings.HasPrefix(slashed, "/") || filepath.IsAbs(name) || filepath.VolumeName(name) != "" {
		return "", &InvalidEntryNameError{Name: name}
	}
	cleaned := path.Clean(slashed)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", &InvalidEntryNameError{Name: name}
	}
	return cleaned, nil
}

// List returns the file entries of the archive at archivePath in stored order.
func List(archivePath string) (entries []Entry, err error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open ZIP file: %w", err)
	}
	defer func() {
		if closeErr := r.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	entries = make([]Entry, 0, len(r.File))
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		entries = append(entries, Entry{
			Name:           f.Name,
			Size:           f.UncompressedSize64,
			CompressedSize: f.CompressedSize64,
			Method:         f.Method,
		})
	}
	return entries, nil
}
