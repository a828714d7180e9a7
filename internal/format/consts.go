// Package format houses the low-level reader and writer for Win32 RES files,
// the output of resource compilers such as rc.exe and windres. The goal is to
// keep the byte layout focused and independent from the endpoint layer, so
// higher-level packages only ever see a types.Tree.
//
// A RES file is a sequence of DWORD-aligned entries. Each entry is a header
// followed by its payload:
//
//	Offset  Size  Field
//	0x00    4     DataSize (payload length, excluding padding)
//	0x04    4     HeaderSize (bytes from 0x00 to the end of Characteristics)
//	0x08    var   TYPE  (0xFFFF + u16 ordinal, or NUL-terminated UTF-16LE)
//	var     var   NAME  (same encoding as TYPE)
//	var     0-2   padding to a DWORD boundary
//	        4     DataVersion
//	        2     MemoryFlags
//	        2     LanguageId
//	        4     Version
//	        4     Characteristics
//
// The first entry is always the 32-byte empty resource that marks the file as
// a 32-bit RES file.
package format

const (
	// DWORDAlignment is the alignment of every header and payload.
	DWORDAlignment = 4
	// DWORDAlignmentMask is DWORDAlignment-1, used by Align4.
	DWORDAlignmentMask = DWORDAlignment - 1

	// EmptyHeaderSize is the size of the leading empty resource.
	EmptyHeaderSize = 0x20

	// ordinalMarker introduces a numeric identifier.
	ordinalMarker uint16 = 0xFFFF

	// prefixSize covers DataSize and HeaderSize.
	prefixSize = 8
	// tailSize covers DataVersion through Characteristics.
	tailSize = 16

	// DataSizeOffset and HeaderSizeOffset locate the two leading fields.
	DataSizeOffset   = 0x00
	HeaderSizeOffset = 0x04
)

// EmptyHeader is the leading entry of every RES file: a zero-length resource
// with ordinal type 0 and ordinal name 0.
var EmptyHeader = []byte{
	0x00, 0x00, 0x00, 0x00, // DataSize
	0x20, 0x00, 0x00, 0x00, // HeaderSize
	0xFF, 0xFF, 0x00, 0x00, // TYPE = ordinal 0
	0xFF, 0xFF, 0x00, 0x00, // NAME = ordinal 0
	0x00, 0x00, 0x00, 0x00, // DataVersion
	0x00, 0x00, // MemoryFlags
	0x00, 0x00, // LanguageId
	0x00, 0x00, 0x00, 0x00, // Version
	0x00, 0x00, 0x00, 0x00, // Characteristics
}
