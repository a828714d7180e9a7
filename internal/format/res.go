package format

import (
	"bytes"
	"fmt"
	"math"

	"github.com/yxpscom/batch-resource-updater/internal/buf"
	"github.com/yxpscom/batch-resource-updater/pkg/types"
)

// ResourceHeader is one decoded RES entry header.
type ResourceHeader struct {
	DataSize        uint32
	HeaderSize      uint32
	Type            types.Ident
	Name            types.Ident
	DataVersion     uint32
	MemoryFlags     uint16
	Language        uint16
	Version         uint32
	Characteristics uint32
}

// IsRES reports whether b starts with the empty RES header.
func IsRES(b []byte) bool {
	return len(b) >= EmptyHeaderSize && bytes.Equal(b[:16], EmptyHeader[:16])
}

// NextResource decodes the entry at off and returns its header, a slice of
// its payload aliasing b, and the offset of the following entry.
func NextResource(b []byte, off int) (ResourceHeader, []byte, int, error) {
	if !buf.Has(b, off, prefixSize) {
		return ResourceHeader{}, nil, 0, fmt.Errorf("resource at 0x%x: %w", off, ErrTruncated)
	}
	h := ResourceHeader{
		DataSize:   buf.U32LE(b[off+DataSizeOffset:]),
		HeaderSize: buf.U32LE(b[off+HeaderSizeOffset:]),
	}
	if !buf.Has(b, off, int(h.HeaderSize)) {
		return ResourceHeader{}, nil, 0, fmt.Errorf("resource at 0x%x: header: %w", off, ErrTruncated)
	}
	hdr := b[:off+int(h.HeaderSize)]

	var err error
	pos := off + prefixSize
	if h.Type, pos, err = readIdent(hdr, pos); err != nil {
		return ResourceHeader{}, nil, 0, fmt.Errorf("resource at 0x%x: type: %w", off, err)
	}
	if h.Name, pos, err = readIdent(hdr, pos); err != nil {
		return ResourceHeader{}, nil, 0, fmt.Errorf("resource at 0x%x: name: %w", off, err)
	}
	pos = off + Align4(pos-off)
	tail, ok := buf.Slice(hdr, pos, tailSize)
	if !ok {
		return ResourceHeader{}, nil, 0, fmt.Errorf("resource at 0x%x: header size %d: %w", off, h.HeaderSize, ErrBadHeader)
	}
	h.DataVersion = buf.U32LE(tail[0:])
	h.MemoryFlags = buf.U16LE(tail[4:])
	h.Language = buf.U16LE(tail[6:])
	h.Version = buf.U32LE(tail[8:])
	h.Characteristics = buf.U32LE(tail[12:])

	dataOff := off + int(h.HeaderSize)
	data, ok := buf.Slice(b, dataOff, int(h.DataSize))
	if !ok {
		return ResourceHeader{}, nil, 0, fmt.Errorf("resource at 0x%x: data: %w", off, ErrTruncated)
	}
	next, ok := buf.AddOverflowSafe(dataOff, int(h.DataSize))
	if !ok {
		return ResourceHeader{}, nil, 0, fmt.Errorf("resource at 0x%x: data: %w", off, ErrBadHeader)
	}
	return h, data, Align4(next), nil
}

// Decode parses a complete RES file into a tree. Payloads are copied, so the
// tree does not alias b.
func Decode(b []byte) (*types.Tree, error) {
	if !IsRES(b) {
		return nil, fmt.Errorf("res: %w", ErrSignatureMismatch)
	}
	tree := types.NewTree()
	off := EmptyHeaderSize
	for off < len(b) {
		if allZero(b[off:]) {
			break
		}
		h, data, next, err := NextResource(b, off)
		if err != nil {
			return nil, fmt.Errorf("res: %w", err)
		}
		if !h.Type.Valid() || !h.Name.Valid() {
			return nil, fmt.Errorf("res: resource at 0x%x: ordinal 0: %w", off, ErrBadIdent)
		}
		k := types.Key{Type: h.Type, Name: h.Name, Lang: h.Language}
		if _, dup := tree.Get(k); dup {
			return nil, fmt.Errorf("res: %s: %w", k, ErrDuplicate)
		}
		tree.Set(k, &types.Entry{
			Data:            append([]byte(nil), data...),
			Version:         h.Version,
			DataVersion:     h.DataVersion,
			MemoryFlags:     h.MemoryFlags,
			Characteristics: h.Characteristics,
		})
		off = next
	}
	return tree, nil
}

// Encode produces a RES file holding every entry of tree, in directory order.
func Encode(tree *types.Tree) ([]byte, error) {
	out := append([]byte(nil), EmptyHeader...)
	var encErr error
	tree.Walk(func(k types.Key, e *types.Entry) bool {
		out, encErr = appendResource(out, k, e)
		return encErr == nil
	})
	if encErr != nil {
		return nil, fmt.Errorf("res: %w", encErr)
	}
	return out, nil
}

func appendResource(out []byte, k types.Key, e *types.Entry) ([]byte, error) {
	if uint64(len(e.Data)) > math.MaxUint32 {
		return nil, fmt.Errorf("%s: %w", k, ErrTooLarge)
	}
	start := len(out)
	out = AppendU32(out, uint32(len(e.Data)))
	out = AppendU32(out, 0) // HeaderSize, patched below

	var err error
	if out, err = appendIdent(out, k.Type); err != nil {
		return nil, fmt.Errorf("%s: type: %w", k, err)
	}
	if out, err = appendIdent(out, k.Name); err != nil {
		return nil, fmt.Errorf("%s: name: %w", k, err)
	}
	out = pad(out)
	out = AppendU32(out, e.DataVersion)
	out = AppendU16(out, e.MemoryFlags)
	out = AppendU16(out, k.Lang)
	out = AppendU32(out, e.Version)
	out = AppendU32(out, e.Characteristics)
	PutU32(out, start+HeaderSizeOffset, uint32(len(out)-start))

	out = append(out, e.Data...)
	return pad(out), nil
}

func allZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}
