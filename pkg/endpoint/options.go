package endpoint

import (
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/yxpscom/batch-resource-updater/internal/writer"
	"github.com/yxpscom/batch-resource-updater/pkg/logging"
	"github.com/yxpscom/batch-resource-updater/pkg/spec"
)

// Options configures the endpoints built by NewRouter, NewPE, NewRES and
// NewFiles. The zero value works: OS filesystem, atomic file sink, default
// extension lists, no logging.
type Options struct {
	// Fs is the filesystem containers and files are read from.
	// Default: afero.NewOsFs().
	Fs afero.Fs

	// Sink receives committed container images.
	// Default: an atomic temp-file + rename writer over Fs.
	Sink Sink

	// Logger receives debug events for loads and edits and info events for
	// writes. Default: discard.
	Logger *zerolog.Logger

	// PEExtensions overrides spec.DefaultPEExtensions.
	PEExtensions []string

	// RESExtensions overrides spec.DefaultRESExtensions.
	RESExtensions []string

	// RemoveMissingOK makes Remove of an absent resource, file or container
	// succeed instead of failing with types.ErrNotFound. Batch scripts that
	// are re-run benefit from this.
	RemoveMissingOK bool

	// OnCommit is called for every container written by Commit.
	OnCommit func(CommitRecord)
}

func (o Options) fs() afero.Fs {
	if o.Fs == nil {
		return afero.NewOsFs()
	}
	return o.Fs
}

func (o Options) sink(fsys afero.Fs) Sink {
	if o.Sink == nil {
		return writer.NewFileWriter(fsys)
	}
	return o.Sink
}

func (o Options) logger() zerolog.Logger {
	if o.Logger == nil {
		return logging.Nop
	}
	return *o.Logger
}

func (o Options) peExtensions() []string {
	if len(o.PEExtensions) == 0 {
		return spec.DefaultPEExtensions
	}
	return o.PEExtensions
}

func (o Options) resExtensions() []string {
	if len(o.RESExtensions) == 0 {
		return spec.DefaultRESExtensions
	}
	return o.RESExtensions
}
