package testutil

import "encoding/binary"

// Layout of the image produced by MinimalPE.
const (
	peOffset        = 0x40
	fileAlignment   = 0x200
	sectionAlign    = 0x1000
	optHeaderSize64 = 0xF0
	numDataDirs     = 16
)

// MinimalPE returns a tiny, valid PE32+ (x64) console executable with a
// single .text section and no resource directory. Its entry point is a lone
// RET. It is small enough to build in memory and valid enough for debug/pe
// and resource writers to operate on.
func MinimalPE() []byte {
	img := make([]byte, 2*fileAlignment)
	le := binary.LittleEndian

	// DOS header: "MZ" and e_lfanew.
	img[0], img[1] = 'M', 'Z'
	le.PutUint32(img[0x3C:], peOffset)

	// PE signature + COFF file header.
	p := peOffset
	copy(img[p:], "PE\x00\x00")
	p += 4
	le.PutUint16(img[p+0:], 0x8664)           // Machine: AMD64
	le.PutUint16(img[p+2:], 1)                // NumberOfSections
	le.PutUint16(img[p+16:], optHeaderSize64) // SizeOfOptionalHeader
	le.PutUint16(img[p+18:], 0x0022)          // EXECUTABLE_IMAGE | LARGE_ADDRESS_AWARE
	p += 20

	// Optional header (PE32+).
	o := p
	le.PutUint16(img[o+0:], 0x20B)           // Magic
	img[o+2] = 14                            // MajorLinkerVersion
	le.PutUint32(img[o+4:], fileAlignment)   // SizeOfCode
	le.PutUint32(img[o+16:], sectionAlign)   // AddressOfEntryPoint
	le.PutUint32(img[o+20:], sectionAlign)   // BaseOfCode
	le.PutUint64(img[o+24:], 0x140000000)    // ImageBase
	le.PutUint32(img[o+32:], sectionAlign)   // SectionAlignment
	le.PutUint32(img[o+36:], fileAlignment)  // FileAlignment
	le.PutUint16(img[o+40:], 6)              // MajorOperatingSystemVersion
	le.PutUint16(img[o+48:], 6)              // MajorSubsystemVersion
	le.PutUint32(img[o+56:], 2*sectionAlign) // SizeOfImage
	le.PutUint32(img[o+60:], fileAlignment)  // SizeOfHeaders
	le.PutUint16(img[o+68:], 3)              // Subsystem: WINDOWS_CUI
	le.PutUint16(img[o+70:], 0x8120)         // DllCharacteristics
	le.PutUint64(img[o+72:], 0x100000)       // SizeOfStackReserve
	le.PutUint64(img[o+80:], 0x1000)         // SizeOfStackCommit
	le.PutUint64(img[o+88:], 0x100000)       // SizeOfHeapReserve
	le.PutUint64(img[o+96:], 0x1000)         // SizeOfHeapCommit
	le.PutUint32(img[o+108:], numDataDirs)   // NumberOfRvaAndSizes
	p += optHeaderSize64

	// Section header: .text
	copy(img[p:], ".text\x00\x00\x00")
	le.PutUint32(img[p+8:], 1)              // VirtualSize
	le.PutUint32(img[p+12:], sectionAlign)  // VirtualAddress
	le.PutUint32(img[p+16:], fileAlignment) // SizeOfRawData
	le.PutUint32(img[p+20:], fileAlignment) // PointerToRawData
	le.PutUint32(img[p+36:], 0x60000020)    // CODE | EXECUTE | READ

	img[fileAlignment] = 0xC3 // RET
	return img
}
