package endpoint

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/zeebo/blake3"

	"github.com/yxpscom/batch-resource-updater/internal/format"
	"github.com/yxpscom/batch-resource-updater/internal/peimage"
	"github.com/yxpscom/batch-resource-updater/pkg/spec"
	"github.com/yxpscom/batch-resource-updater/pkg/types"
)

// handle is the cached state of one container file.
type handle struct {
	path     string
	tree     *types.Tree
	original []byte // bytes last read from or written to disk; nil if created
	dirty    bool
}

// Store serves resources inside container files of one kind. Containers are
// loaded on first reference and kept until Evict; edits stay in memory until
// Commit.
type Store struct {
	exts            spec.ExtensionSet
	codec           Codec
	fs              afero.Fs
	sink            Sink
	log             zerolog.Logger
	removeMissingOK bool
	onCommit        func(CommitRecord)

	files map[string]*handle
}

// NewStore returns a store for containers with the given extensions.
func NewStore(codec Codec, exts []string, opts Options) *Store {
	fsys := opts.fs()
	return &Store{
		exts:            spec.NewExtensionSet(exts),
		codec:           codec,
		fs:              fsys,
		sink:            opts.sink(fsys),
		log:             opts.logger().With().Str("endpoint", codec.Name()).Logger(),
		removeMissingOK: opts.RemoveMissingOK,
		onCommit:        opts.OnCommit,
		files:           make(map[string]*handle),
	}
}

// NewPE returns the store for PE images.
func NewPE(opts Options) *Store {
	return NewStore(peimage.Codec{}, opts.peExtensions(), opts)
}

// NewRES returns the store for compiled resource (.res) files.
func NewRES(opts Options) *Store {
	return NewStore(format.Codec{}, opts.resExtensions(), opts)
}

// IsSpec reports whether raw is a well-formed container spec whose path has
// one of the store's extensions.
func (s *Store) IsSpec(raw string) bool {
	rs, err := spec.Parse(raw)
	return err == nil && s.exts.Match(rs.Path)
}

// Owns reports whether path has one of the store's extensions.
func (s *Store) Owns(path string) bool {
	return s.exts.Match(path)
}

func (s *Store) parse(raw string) (spec.ResourceSpec, error) {
	rs, err := spec.Parse(raw)
	if err != nil {
		return spec.ResourceSpec{}, types.Errorf(types.ErrKindInvalidSpec, "%s: %w", s.codec.Name(), err)
	}
	if !s.exts.Match(rs.Path) {
		return spec.ResourceSpec{}, types.Errorf(types.ErrKindInvalidSpec, "%s: %q is not a %s container", s.codec.Name(), rs.Path, s.codec.Name())
	}
	return rs, nil
}

// load returns the cached handle for path, reading and decoding the file on
// a miss. With create set and a codec that can build containers from
// scratch, a missing file yields a fresh handle that is not cached yet; the
// caller caches it once something has been stored in it.
func (s *Store) load(path string, create bool) (h *handle, cached bool, err error) {
	key := spec.NormalizePath(path)
	if h, ok := s.files[key]; ok {
		return h, true, nil
	}

	raw, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if create && s.codec.CanCreate() {
				s.log.Debug().Str("path", path).Msg("starting new container")
				return &handle{path: path, tree: types.NewTree()}, false, nil
			}
			return nil, false, types.Errorf(types.ErrKindNotFound, "%s: container %s: %w", s.codec.Name(), path, err)
		}
		return nil, false, types.Errorf(types.ErrKindIO, "%s: read %s: %w", s.codec.Name(), path, err)
	}

	tree, err := s.codec.Decode(raw)
	if err != nil {
		return nil, false, types.Errorf(types.ErrKindParse, "%s: decode %s: %w", s.codec.Name(), path, err)
	}

	h = &handle{path: path, tree: tree, original: raw}
	s.files[key] = h
	s.log.Debug().
		Str("path", path).
		Int("resources", tree.Len()).
		Str("size", humanize.Bytes(uint64(len(raw)))).
		Msg("loaded container")
	return h, true, nil
}

// Add stores data at raw subject to opts.Overwrite. A replacement keeps the
// existing entry's header fields; the stored version is opts.Version when
// non-zero and the previous version otherwise.
func (s *Store) Add(raw string, data []byte, opts types.AddOptions) error {
	rs, err := s.parse(raw)
	if err != nil {
		return err
	}
	h, cached, err := s.load(rs.Path, true)
	if err != nil {
		return err
	}

	k := rs.Key()
	old, exists := h.tree.Get(k)
	var existing *types.Existing
	if exists {
		existing = &types.Existing{Size: old.Size(), Version: old.Version}
	}
	decision, err := opts.Decide(existing, len(data))
	if err != nil {
		return fmt.Errorf("%s: %w", rs, err)
	}
	if decision == types.DecisionSkip {
		s.log.Debug().Str("spec", rs.String()).Stringer("overwrite", opts.Overwrite).Msg("add skipped by policy")
		return nil
	}

	version := opts.Version
	if version == 0 && exists {
		version = old.Version
	}
	if exists && old.Version == version && bytes.Equal(old.Data, data) {
		return nil
	}

	entry := &types.Entry{MemoryFlags: types.DefaultMemoryFlags}
	if exists {
		entry = old.Clone()
	}
	entry.Data = append([]byte(nil), data...)
	entry.Version = version
	h.tree.Set(k, entry)
	h.dirty = true
	if !cached {
		s.files[spec.NormalizePath(h.path)] = h
	}

	s.log.Debug().
		Str("spec", rs.String()).
		Int("size", len(data)).
		Bool("replaced", exists).
		Msg("resource added")
	return nil
}

// Get returns a copy of the resource at raw.
func (s *Store) Get(raw string) ([]byte, error) {
	rs, err := s.parse(raw)
	if err != nil {
		return nil, err
	}
	h, _, err := s.load(rs.Path, false)
	if err != nil {
		return nil, err
	}
	e, ok := h.tree.Get(rs.Key())
	if !ok {
		return nil, types.Errorf(types.ErrKindNotFound, "%s: no such resource", rs)
	}
	return append([]byte(nil), e.Data...), nil
}

// Remove deletes the resource at raw. The container becomes dirty only when
// something was actually erased.
func (s *Store) Remove(raw string) error {
	rs, err := s.parse(raw)
	if err != nil {
		return err
	}
	h, _, err := s.load(rs.Path, false)
	if err != nil {
		if s.removeMissingOK && errors.Is(err, types.ErrNotFound) {
			return nil
		}
		return err
	}
	if !h.tree.Delete(rs.Key()) {
		if s.removeMissingOK {
			return nil
		}
		return types.Errorf(types.ErrKindNotFound, "%s: no such resource", rs)
	}
	h.dirty = true
	s.log.Debug().Str("spec", rs.String()).Msg("resource removed")
	return nil
}

// Commit writes every dirty container. A failing container does not stop
// the others; it stays dirty so a later Commit retries it. The returned
// error is a *types.CommitError naming every failed path.
func (s *Store) Commit() error {
	var failures []types.FileError
	for _, key := range s.sortedKeys() {
		h := s.files[key]
		if !h.dirty {
			continue
		}
		if err := s.flush(h); err != nil {
			s.log.Warn().Err(err).Str("path", h.path).Msg("commit failed")
			failures = append(failures, types.FileError{Path: h.path, Err: err})
		}
	}
	if len(failures) > 0 {
		return &types.CommitError{Failures: failures}
	}
	return nil
}

func (s *Store) flush(h *handle) error {
	image, err := s.codec.Encode(h.tree, h.original)
	if err != nil {
		return types.Errorf(types.ErrKindEncode, "%s: encode: %w", s.codec.Name(), err)
	}
	if h.original != nil && bytes.Equal(image, h.original) {
		h.dirty = false
		s.log.Debug().Str("path", h.path).Msg("container unchanged")
		return nil
	}
	if err := s.sink.WriteContainer(h.path, image); err != nil {
		return types.Errorf(types.ErrKindIO, "%s: write: %w", s.codec.Name(), err)
	}
	h.original = image
	h.dirty = false

	rec := CommitRecord{
		Kind:      s.codec.Name(),
		Path:      h.path,
		Size:      len(image),
		Resources: h.tree.Len(),
		Digest:    blake3.Sum256(image),
	}
	s.log.Info().
		Str("path", rec.Path).
		Int("resources", rec.Resources).
		Str("size", humanize.Bytes(uint64(rec.Size))).
		Str("blake3", hex.EncodeToString(rec.Digest[:])).
		Msg("container written")
	if s.onCommit != nil {
		s.onCommit(rec)
	}
	return nil
}

// Dirty returns the paths of containers with uncommitted changes, sorted.
func (s *Store) Dirty() []string {
	var paths []string
	for _, key := range s.sortedKeys() {
		if h := s.files[key]; h.dirty {
			paths = append(paths, h.path)
		}
	}
	return paths
}

// Evict drops the cached state of path, discarding uncommitted changes. It
// reports whether anything was cached.
func (s *Store) Evict(path string) bool {
	key := spec.NormalizePath(path)
	if _, ok := s.files[key]; !ok {
		return false
	}
	delete(s.files, key)
	return true
}

// Entries lists the resources of the container at path in directory order,
// including uncommitted changes.
func (s *Store) Entries(path string) ([]EntryInfo, error) {
	if !s.exts.Match(path) {
		return nil, types.Errorf(types.ErrKindInvalidSpec, "%s: %q is not a %s container", s.codec.Name(), path, s.codec.Name())
	}
	h, _, err := s.load(path, false)
	if err != nil {
		return nil, err
	}
	infos := make([]EntryInfo, 0, h.tree.Len())
	h.tree.Walk(func(k types.Key, e *types.Entry) bool {
		infos = append(infos, EntryInfo{Key: k, Size: e.Size()})
		return true
	})
	return infos, nil
}

func (s *Store) sortedKeys() []string {
	keys := make([]string, 0, len(s.files))
	for k := range s.files {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
