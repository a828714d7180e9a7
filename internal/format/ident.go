package format

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/unicode"

	"github.com/yxpscom/batch-resource-updater/internal/buf"
	"github.com/yxpscom/batch-resource-updater/pkg/types"
)

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// readIdent decodes a TYPE or NAME field at off and returns the identifier
// and the offset just past it. Ordinal 0 is returned as the zero Ident; the
// caller decides whether that is acceptable.
func readIdent(b []byte, off int) (types.Ident, int, error) {
	if !buf.Has(b, off, 2) {
		return types.Ident{}, 0, fmt.Errorf("ident: %w", ErrTruncated)
	}
	if buf.U16LE(b[off:]) == ordinalMarker {
		if !buf.Has(b, off, 4) {
			return types.Ident{}, 0, fmt.Errorf("ident: %w", ErrTruncated)
		}
		return types.Ident{ID: buf.U16LE(b[off+2:])}, off + 4, nil
	}

	end := off
	for {
		if !buf.Has(b, end, 2) {
			return types.Ident{}, 0, fmt.Errorf("ident: unterminated name: %w", ErrTruncated)
		}
		if buf.U16LE(b[end:]) == 0 {
			break
		}
		end += 2
	}
	if end == off {
		return types.Ident{}, 0, fmt.Errorf("ident: empty name: %w", ErrBadIdent)
	}
	name, err := utf16le.NewDecoder().Bytes(b[off:end])
	if err != nil {
		return types.Ident{}, 0, fmt.Errorf("ident: %w", err)
	}
	return types.StrID(string(name)), end + 2, nil
}

// appendIdent encodes id as a TYPE or NAME field.
func appendIdent(b []byte, id types.Ident) ([]byte, error) {
	if !id.Valid() {
		return nil, fmt.Errorf("ident %+v: %w", id, ErrBadIdent)
	}
	if !id.IsName() {
		b = AppendU16(b, ordinalMarker)
		return AppendU16(b, id.ID), nil
	}
	if strings.ContainsRune(id.Name, 0) {
		return nil, fmt.Errorf("ident %q: embedded NUL: %w", id.Name, ErrBadIdent)
	}
	enc, err := utf16le.NewEncoder().Bytes([]byte(id.Name))
	if err != nil {
		return nil, fmt.Errorf("ident %q: %w", id.Name, err)
	}
	b = append(b, enc...)
	return AppendU16(b, 0), nil
}
