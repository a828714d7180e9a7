package spec

import (
	"path/filepath"
	"runtime"
	"strings"
	"unicode"
)

// DefaultPEExtensions lists the extensions treated as PE images.
var DefaultPEExtensions = []string{
	".exe", ".dll", ".sys", ".ocx", ".mui", ".drv", ".cpl", ".efi",
	".com", ".fnt", ".msstyles", ".scr", ".ax", ".acm", ".ime", ".pe",
}

// DefaultRESExtensions lists the extensions treated as RES files.
var DefaultRESExtensions = []string{".res"}

// reserved are the characters Windows forbids in file names, besides the
// path separators and ':' which are checked separately.
const reserved = `<>"|?*`

// IsFilePath reports whether s is a syntactically valid file path: non-empty,
// free of control characters and of the characters Windows reserves, with ':'
// only as a drive designator ("C:\...").
func IsFilePath(s string) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == 0 || unicode.IsControl(r):
			return false
		case strings.ContainsRune(reserved, r):
			return false
		case r == ':':
			if i != 1 || !isDriveLetter(s[0]) {
				return false
			}
		}
	}
	base := filepath.Base(strings.ReplaceAll(s, `\`, "/"))
	return base != "." && base != "/" && base != ".."
}

// IsAbsPath reports whether path must not be resolved against another
// directory: absolute on this host, or carrying a Windows drive designator
// (`C:\...`, "C:/...", "C:file") or a UNC prefix.
func IsAbsPath(path string) bool {
	if filepath.IsAbs(path) || strings.HasPrefix(path, `\\`) {
		return true
	}
	return len(path) >= 2 && isDriveLetter(path[0]) && path[1] == ':'
}

func isDriveLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// ExtensionSet is a case-insensitive set of file extensions.
type ExtensionSet map[string]struct{}

// NewExtensionSet builds a set from extensions with or without the leading dot.
func NewExtensionSet(exts []string) ExtensionSet {
	set := make(ExtensionSet, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		set[e] = struct{}{}
	}
	return set
}

// Match reports whether path carries one of the extensions.
func (s ExtensionSet) Match(path string) bool {
	_, ok := s[strings.ToLower(filepath.Ext(path))]
	return ok
}

// NormalizePath returns the cache key for a container path: absolute and
// cleaned, and lower-cased on Windows where paths are case-insensitive.
func NormalizePath(path string) string {
	p := filepath.Clean(path)
	if abs, err := filepath.Abs(p); err == nil {
		p = abs
	}
	if runtime.GOOS == "windows" {
		p = strings.ToLower(p)
	}
	return p
}
