package rom

import "encoding/binary"

// Builder assembles a synthetic cartridge image in memory: a minimal
// valid header, a resource table, and whatever image/sound/code bytes
// a test wants to hang off it. It exists for the scenario fixtures
// spec.md's end-to-end tests call for (a cold-boot ROM, a page-program
// ROM, ...) since a real dumped firmware image isn't available to the
// test suite.
type Builder struct {
	data []byte
	key  byte
}

// NewBuilder starts a size-byte image (rounded up to the minimum a
// valid header plus one 64 KiB save region needs) with every byte
// zeroed and the obfuscation key set to k. A zero key leaves the
// image in plaintext, matching an unobfuscated firmware dump.
func NewBuilder(size int, k byte) *Builder {
	if size < MinSize+SaveRegionSize {
		size = MinSize + SaveRegionSize
	}
	return &Builder{data: make([]byte, size), key: k}
}

// SetResourceTable writes the 24-bit pointer at offset 0.
func (b *Builder) SetResourceTable(offset uint32) *Builder {
	putU24(b.data, 0, offset)
	return b
}

// SetColdStart writes the cold-start ROM-call frame at offset 3.
func (b *Builder) SetColdStart(addr uint32, size uint16) *Builder {
	putU24(b.data, coldStartOffset, addr)
	binary.LittleEndian.PutUint16(b.data[coldStartOffset+3:], size)
	return b
}

// SetFontBase writes the 16-bit font-table pointer at offset 8.
func (b *Builder) SetFontBase(offset uint16) *Builder {
	binary.LittleEndian.PutUint16(b.data[fontPtrOffset:], offset)
	return b
}

// SetTickEntry writes the periodic-tick ROM-call frame at offset 0x1b.
func (b *Builder) SetTickEntry(addr uint32, size uint16) *Builder {
	putU24(b.data, tickOffset, addr)
	binary.LittleEndian.PutUint16(b.data[tickOffset+3:], size)
	return b
}

// PutBytes copies src into the image starting at offset, growing the
// image if src would otherwise run past its current end.
func (b *Builder) PutBytes(offset uint32, src []byte) *Builder {
	need := int(offset) + len(src)
	if need > len(b.data) {
		grown := make([]byte, need)
		copy(grown, b.data)
		b.data = grown
	}
	copy(b.data[offset:], src)
	return b
}

// PutResourceEntries writes a resource table of 24-bit little-endian
// offsets at tabOffset, terminated by the 0xFFFFFF sentinel.
func (b *Builder) PutResourceEntries(tabOffset uint32, offsets ...uint32) *Builder {
	for i, off := range offsets {
		putU24(b.data, int(tabOffset)+3*i, off)
	}
	putU24(b.data, int(tabOffset)+3*len(offsets), resourceSentinel)
	return b
}

// Build finalizes the image: stamps the plaintext magic at 0x23, then
// XORs the whole buffer by the key exactly the way ValidateAndDeobfuscate
// undoes it, so Build's output round-trips through New/
// ValidateAndDeobfuscate.
func (b *Builder) Build() []byte {
	out := make([]byte, len(b.data))
	copy(out, b.data)
	copy(out[magicOffset:magicOffset+len(magic)], []byte(magic))
	if b.key != 0 {
		for i := range out {
			out[i] ^= b.key
		}
	}
	return out
}

func putU24(data []byte, off int, v uint32) {
	data[off] = byte(v)
	data[off+1] = byte(v >> 8)
	data[off+2] = byte(v >> 16)
}
