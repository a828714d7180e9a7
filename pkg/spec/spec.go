// Package spec parses the textual addresses that select a resource or file.
//
// A container spec has the form
//
//	path|type|id-or-name[|language]
//
// for example "app.exe|BITMAP|100|1033" or "out.res|ICON|5". The type is a
// well-known name (BITMAP, RT_ICON, ...), a number, or a custom name such as
// PNG. The resource is a positive integer ID or a name; names are
// upper-cased. The language is a decimal or 0x-prefixed hex LCID and
// defaults to neutral (0).
//
// Any other string without a '|' is a plain filesystem path.
package spec

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/yxpscom/batch-resource-updater/pkg/types"
)

// Separator splits the segments of a container spec.
const Separator = "|"

// ResourceSpec is a parsed, validated container spec.
type ResourceSpec struct {
	Path string
	Type types.Ident
	Name types.Ident
	Lang uint16
}

// Key returns the resource key addressed by the spec.
func (s ResourceSpec) Key() types.Key {
	return types.Key{Type: s.Type, Name: s.Name, Lang: s.Lang}
}

// String renders the canonical form path|TYPE|NAME|LANG.
func (s ResourceSpec) String() string {
	return s.Path + Separator + s.Key().String()
}

// Parse parses a container spec. It never returns a partially filled spec:
// on error the ResourceSpec is the zero value.
func Parse(raw string) (ResourceSpec, error) {
	parts := strings.Split(raw, Separator)
	if len(parts) != 3 && len(parts) != 4 {
		return ResourceSpec{}, fmt.Errorf("spec %q: want path|type|name[|language], got %d segment(s)", raw, len(parts))
	}

	path := strings.TrimSpace(parts[0])
	if !IsFilePath(path) {
		return ResourceSpec{}, fmt.Errorf("spec %q: invalid container path %q", raw, parts[0])
	}

	typ, err := parseType(parts[1])
	if err != nil {
		return ResourceSpec{}, fmt.Errorf("spec %q: type: %w", raw, err)
	}

	name, err := parseName(parts[2])
	if err != nil {
		return ResourceSpec{}, fmt.Errorf("spec %q: name: %w", raw, err)
	}

	lang := types.LangNeutral
	if len(parts) == 4 {
		lang, err = parseLang(parts[3])
		if err != nil {
			return ResourceSpec{}, fmt.Errorf("spec %q: language: %w", raw, err)
		}
	}

	return ResourceSpec{Path: path, Type: typ, Name: name, Lang: lang}, nil
}

// HasResource reports whether raw carries a '|'-delimited resource suffix.
func HasResource(raw string) bool {
	return strings.Contains(raw, Separator)
}

func parseType(s string) (types.Ident, error) {
	s = strings.TrimSpace(s)
	if id, ok := types.LookupType(s); ok {
		return types.IntID(id), nil
	}
	return parseIdent(s)
}

func parseName(s string) (types.Ident, error) {
	return parseIdent(strings.TrimSpace(s))
}

// parseIdent accepts "#123" or "123" as a numeric ID and any other
// non-empty printable token as a name.
func parseIdent(s string) (types.Ident, error) {
	if s == "" {
		return types.Ident{}, fmt.Errorf("empty identifier")
	}
	num := strings.TrimPrefix(s, "#")
	if isDigits(num) {
		id, err := strconv.ParseUint(num, 10, 16)
		if err != nil {
			return types.Ident{}, fmt.Errorf("id %q out of range", s)
		}
		if id == 0 {
			return types.Ident{}, fmt.Errorf("id must be positive")
		}
		return types.IntID(uint16(id)), nil
	}
	if num != s {
		return types.Ident{}, fmt.Errorf("malformed id %q", s)
	}
	for _, r := range s {
		if r == 0 || unicode.IsControl(r) || unicode.IsSpace(r) {
			return types.Ident{}, fmt.Errorf("name %q contains invalid characters", s)
		}
	}
	if isDigits(s[:1]) {
		return types.Ident{}, fmt.Errorf("name %q must not start with a digit", s)
	}
	return types.StrID(s), nil
}

func parseLang(s string) (uint16, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty language")
	}
	base := 10
	if h, ok := strings.CutPrefix(strings.ToLower(s), "0x"); ok {
		s, base = h, 16
	}
	v, err := strconv.ParseUint(s, base, 16)
	if err != nil {
		return 0, fmt.Errorf("malformed language %q", s)
	}
	return uint16(v), nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
