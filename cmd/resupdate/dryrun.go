package main

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/yxpscom/batch-resource-updater/pkg/spec"
)

// stageFs copies every existing file a manifest names into an in-memory
// filesystem. A dry run executes each step against the copy, so plain-file
// writes and removals never reach the disk.
func stageFs(m *Manifest) (afero.Fs, error) {
	src := afero.NewOsFs()
	mem := afero.NewMemMapFs()
	for _, op := range m.Operations {
		for _, s := range []string{op.Add, op.From, op.Get, op.To, op.Remove} {
			if s == "" {
				continue
			}
			path, _, _ := strings.Cut(s, spec.Separator)
			if err := stageFile(src, mem, path); err != nil {
				return nil, err
			}
		}
	}
	return mem, nil
}

func stageFile(src, dst afero.Fs, path string) error {
	info, err := src.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stage %s: %w", path, err)
	}
	if info.IsDir() {
		return dst.MkdirAll(path, info.Mode().Perm())
	}
	if exists, _ := afero.Exists(dst, path); exists {
		return nil
	}

	data, err := afero.ReadFile(src, path)
	if err != nil {
		return fmt.Errorf("stage %s: %w", path, err)
	}
	if err := dst.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("stage %s: %w", path, err)
	}
	if err := afero.WriteFile(dst, path, data, info.Mode().Perm()); err != nil {
		return fmt.Errorf("stage %s: %w", path, err)
	}
	// Keeps --overwrite if-newer decisions identical to a real run.
	return dst.Chtimes(path, info.ModTime(), info.ModTime())
}
