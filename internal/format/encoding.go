package format

import "encoding/binary"

// Binary encoding utilities for little-endian integers.
//
// RES files, like the rest of the Win32 resource formats, are little-endian
// throughout. Reads go through internal/buf for bounds safety; writes append
// to a growing buffer.

// AppendU16 appends v in little-endian order.
func AppendU16(b []byte, v uint16) []byte {
	return binary.LittleEndian.AppendUint16(b, v)
}

// AppendU32 appends v in little-endian order.
func AppendU32(b []byte, v uint32) []byte {
	return binary.LittleEndian.AppendUint32(b, v)
}

// PutU32 writes a uint32 value to the buffer at the specified offset in little-endian format.
func PutU32(b []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(b[off:off+4], v)
}

// pad appends zero bytes until len(b) is DWORD aligned.
func pad(b []byte) []byte {
	for len(b)%DWORDAlignment != 0 {
		b = append(b, 0)
	}
	return b
}
