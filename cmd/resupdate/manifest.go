package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/yxpscom/batch-resource-updater/pkg/spec"
	"github.com/yxpscom/batch-resource-updater/pkg/types"
)

// Manifest is a batch of operations read by the apply command.
//
//	overwrite: always
//	missing_ok: false
//	operations:
//	  - add: app.exe|BITMAP|100|1033
//	    from: logo.bmp
//	  - remove: app.exe|ICON|1
//	  - get: app.exe|VERSION|1
//	    to: version.bin
type Manifest struct {
	Overwrite  string      `yaml:"overwrite"`
	MissingOK  bool        `yaml:"missing_ok"`
	Operations []Operation `yaml:"operations"`
}

// Operation is one step of a manifest. Exactly one of Add, Get and Remove
// is set.
type Operation struct {
	Add       string `yaml:"add,omitempty"`
	From      string `yaml:"from,omitempty"`
	Get       string `yaml:"get,omitempty"`
	To        string `yaml:"to,omitempty"`
	Remove    string `yaml:"remove,omitempty"`
	Overwrite string `yaml:"overwrite,omitempty"`
	Version   uint32 `yaml:"version,omitempty"`
}

type opKind int

const (
	opAdd opKind = iota
	opGet
	opRemove
)

func (k opKind) String() string {
	switch k {
	case opAdd:
		return "add"
	case opGet:
		return "get"
	default:
		return "remove"
	}
}

func (op Operation) kind() (opKind, error) {
	var kinds []opKind
	if op.Add != "" {
		kinds = append(kinds, opAdd)
	}
	if op.Get != "" {
		kinds = append(kinds, opGet)
	}
	if op.Remove != "" {
		kinds = append(kinds, opRemove)
	}
	if len(kinds) != 1 {
		return 0, fmt.Errorf("want exactly one of add, get, remove")
	}
	switch k := kinds[0]; {
	case k == opAdd && op.From == "":
		return 0, fmt.Errorf("add %q: missing from", op.Add)
	case k == opGet && op.To == "":
		return 0, fmt.Errorf("get %q: missing to", op.Get)
	case k != opAdd && (op.From != "" || op.Overwrite != "" || op.Version != 0):
		return 0, fmt.Errorf("%s: from, overwrite and version apply to add only", k)
	case k != opGet && op.To != "":
		return 0, fmt.Errorf("%s: to applies to get only", k)
	default:
		return k, nil
	}
}

// LoadManifest reads and validates the manifest at path. Relative paths in
// its specs are resolved against the manifest's directory.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.resolve(filepath.Dir(path))
	return m, nil
}

// ParseManifest decodes and validates a manifest. Unknown keys are errors.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.UnmarshalWithOptions(data, &m, yaml.DisallowUnknownField()); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if m.Overwrite != "" {
		if _, err := types.ParseOverwrite(m.Overwrite); err != nil {
			return nil, err
		}
	}
	for i, op := range m.Operations {
		if _, err := op.kind(); err != nil {
			return nil, fmt.Errorf("operation %d: %w", i+1, err)
		}
		if op.Overwrite != "" {
			if _, err := types.ParseOverwrite(op.Overwrite); err != nil {
				return nil, fmt.Errorf("operation %d: %w", i+1, err)
			}
		}
	}
	return &m, nil
}

func (m *Manifest) resolve(base string) {
	for i := range m.Operations {
		op := &m.Operations[i]
		for _, s := range []*string{&op.Add, &op.From, &op.Get, &op.To, &op.Remove} {
			*s = resolveSpec(base, *s)
		}
	}
}

// resolveSpec joins the path part of s onto base when it is relative.
func resolveSpec(base, s string) string {
	if s == "" {
		return s
	}
	path, rest, found := strings.Cut(s, spec.Separator)
	if spec.IsAbsPath(path) {
		return s
	}
	path = filepath.Join(base, path)
	if found {
		return path + spec.Separator + rest
	}
	return path
}

// policy returns the overwrite policy of op, defaulting to the manifest's
// and then to fallback.
func (m *Manifest) policy(op Operation, fallback types.Overwrite) types.Overwrite {
	for _, name := range []string{op.Overwrite, m.Overwrite} {
		if name == "" {
			continue
		}
		if p, err := types.ParseOverwrite(name); err == nil {
			return p
		}
	}
	return fallback
}
