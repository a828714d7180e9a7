// Package writer exposes sinks for committed container images.
package writer

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
)

// DefaultPerm is the mode of newly created files.
const DefaultPerm fs.FileMode = 0o644

// FileWriter writes container bytes to a path atomically: the image goes to
// a temp file in the same directory which is synced and then renamed over
// the original. A crash leaves either the old or the new file, never a
// half-written one.
type FileWriter struct {
	Fs afero.Fs
	// MkdirAll creates missing parent directories before writing.
	MkdirAll bool
}

// NewFileWriter returns a writer over fsys, defaulting to the OS filesystem.
func NewFileWriter(fsys afero.Fs) *FileWriter {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &FileWriter{Fs: fsys}
}

// WriteContainer writes buf to path atomically via temp file + rename. An
// existing file keeps its permission bits.
func (w *FileWriter) WriteContainer(path string, buf []byte) error {
	dir := filepath.Dir(path)
	if w.MkdirAll {
		if err := w.Fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}

	perm := DefaultPerm
	if info, err := w.Fs.Stat(path); err == nil {
		if info.IsDir() {
			return fmt.Errorf("%s is a directory", path)
		}
		perm = info.Mode().Perm()
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat target: %w", err)
	}

	tmpFile, err := afero.TempFile(w.Fs, dir, ".resupdate-tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	// Clean up temp file on error
	defer func() {
		if tmpFile != nil {
			_ = tmpFile.Close()
			_ = w.Fs.Remove(tmpPath)
		}
	}()

	if _, writeErr := tmpFile.Write(buf); writeErr != nil {
		return fmt.Errorf("write temp file: %w", writeErr)
	}
	if syncErr := tmpFile.Sync(); syncErr != nil {
		return fmt.Errorf("sync temp file: %w", syncErr)
	}
	if closeErr := tmpFile.Close(); closeErr != nil {
		return fmt.Errorf("close temp file: %w", closeErr)
	}
	tmpFile = nil // Don't clean up in defer

	if chmodErr := w.Fs.Chmod(tmpPath, perm); chmodErr != nil {
		_ = w.Fs.Remove(tmpPath)
		return fmt.Errorf("chmod temp file: %w", chmodErr)
	}

	if renameErr := w.Fs.Rename(tmpPath, path); renameErr != nil {
		_ = w.Fs.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", renameErr)
	}

	// The rename is durable only once the directory entry is flushed.
	// Best-effort: some filesystems reject fsync on directories.
	if _, ok := w.Fs.(*afero.OsFs); ok {
		_ = syncDir(dir)
	}
	return nil
}
