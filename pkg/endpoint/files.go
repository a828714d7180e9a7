package endpoint

import (
	"errors"
	"io/fs"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/yxpscom/batch-resource-updater/internal/writer"
	"github.com/yxpscom/batch-resource-updater/pkg/spec"
	"github.com/yxpscom/batch-resource-updater/pkg/types"
)

// Files serves whole files. Writes happen immediately, each one atomic, and
// missing parent directories are created.
type Files struct {
	fs              afero.Fs
	sink            *writer.FileWriter
	log             zerolog.Logger
	removeMissingOK bool
}

// NewFiles returns the filesystem endpoint. Options.Sink is ignored: plain
// files are always written through the atomic file writer over Options.Fs.
func NewFiles(opts Options) *Files {
	fsys := opts.fs()
	w := writer.NewFileWriter(fsys)
	w.MkdirAll = true
	return &Files{
		fs:              fsys,
		sink:            w,
		log:             opts.logger().With().Str("endpoint", "files").Logger(),
		removeMissingOK: opts.RemoveMissingOK,
	}
}

// IsSpec reports whether path is a plain file path.
func (f *Files) IsSpec(path string) bool {
	return !spec.HasResource(path) && spec.IsFilePath(path)
}

func (f *Files) check(path string) error {
	if !f.IsSpec(path) {
		return types.Errorf(types.ErrKindInvalidSpec, "files: %q is not a file path", path)
	}
	return nil
}

// Add writes data to path subject to opts.Overwrite. The existing size is
// the file size and the existing version its modification time in Unix
// seconds.
func (f *Files) Add(path string, data []byte, opts types.AddOptions) error {
	if err := f.check(path); err != nil {
		return err
	}

	var existing *types.Existing
	info, err := f.fs.Stat(path)
	switch {
	case err == nil:
		if info.IsDir() {
			return types.Errorf(types.ErrKindIO, "files: %s is a directory", path)
		}
		existing = &types.Existing{Size: int(info.Size()), Version: uint32(info.ModTime().Unix())}
	case !errors.Is(err, fs.ErrNotExist):
		return types.Errorf(types.ErrKindIO, "files: stat %s: %w", path, err)
	}

	decision, err := opts.Decide(existing, len(data))
	if err != nil {
		return types.Errorf(kindOf(err), "files: %s: %w", path, err)
	}
	if decision == types.DecisionSkip {
		f.log.Debug().Str("path", path).Stringer("overwrite", opts.Overwrite).Msg("add skipped by policy")
		return nil
	}

	if err := f.sink.WriteContainer(path, data); err != nil {
		return types.Errorf(types.ErrKindIO, "files: write %s: %w", path, err)
	}
	f.log.Debug().Str("path", path).Int("size", len(data)).Msg("file written")
	return nil
}

// Get reads the whole file.
func (f *Files) Get(path string) ([]byte, error) {
	if err := f.check(path); err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(f.fs, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, types.Errorf(types.ErrKindNotFound, "files: %s: %w", path, err)
		}
		return nil, types.Errorf(types.ErrKindIO, "files: read %s: %w", path, err)
	}
	return data, nil
}

// Remove deletes the file.
func (f *Files) Remove(path string) error {
	if err := f.check(path); err != nil {
		return err
	}
	info, err := f.fs.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if f.removeMissingOK {
				return nil
			}
			return types.Errorf(types.ErrKindNotFound, "files: %s: %w", path, err)
		}
		return types.Errorf(types.ErrKindIO, "files: stat %s: %w", path, err)
	}
	if info.IsDir() {
		return types.Errorf(types.ErrKindIO, "files: %s is a directory", path)
	}
	if err := f.fs.Remove(path); err != nil {
		return types.Errorf(types.ErrKindIO, "files: remove %s: %w", path, err)
	}
	f.log.Debug().Str("path", path).Msg("file removed")
	return nil
}

// Commit is a no-op; every write has already happened.
func (f *Files) Commit() error { return nil }

// kindOf returns the kind of a typed error, or ErrKindIO for anything else.
func kindOf(err error) types.ErrKind {
	var te *types.Error
	if errors.As(err, &te) {
		return te.Kind
	}
	return types.ErrKindIO
}
