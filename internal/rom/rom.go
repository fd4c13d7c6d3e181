// Package rom implements the cartridge container: loading a dumped
// firmware image, validating and deobfuscating it, and exposing the
// header fields and resource table the rest of the core reads from.
// The image is a flat XOR-obfuscated buffer with a resource table and
// a save-region tail, not a banked address space.
package rom

import (
	"fmt"
	"os"

	"toumapet/internal/debug"
)

const (
	// MinSize is the smallest buffer that can possibly carry a magic
	// and a resource table pointer.
	MinSize = 0x10000

	magicOffset = 0x23
	magic       = "tony"

	coldStartOffset = 3 // u24 addr @ 3, u16 size @ 6 (ROM[3..8))
	fontPtrOffset   = 8 // u16 pointer into ROM, right after the cold-start frame
	tickOffset      = 0x1b // u24 addr @ 0x1b, u16 size @ 0x1e (ROM[0x1b..0x20))

	// SaveRegionSize is the fixed tail reserved for flash erase/program.
	SaveRegionSize = 0x10000

	// resourceEntrySize is the width of one resource-table slot: a
	// 24-bit little-endian ROM offset.
	resourceEntrySize = 3

	// resourceSentinel marks "extends to the resource table itself" in
	// the slot following a resource's start offset.
	resourceSentinel = 0xFFFFFF
)

// ROM holds the deobfuscated cartridge image plus derived metadata.
type ROM struct {
	Data       []byte
	Key        byte
	SaveOffset int

	logger *debug.Logger
}

// Load reads a ROM file from disk, rejecting anything above maxSize
// bytes (the two supported hardware models top out at 8 MiB).
func Load(path string, maxSize int) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rom: reading %q: %w", path, err)
	}
	if len(data) > maxSize {
		return nil, fmt.Errorf("rom: %q is %d bytes, exceeds max %d", path, len(data), maxSize)
	}
	return data, nil
}

// New validates and deobfuscates a loaded image and returns a ready
// ROM. Failure is always fatal per spec: short file, bad magic, or a
// resource-table offset beyond the buffer.
func New(data []byte, logger *debug.Logger) (*ROM, error) {
	if len(data) < MinSize {
		return nil, fmt.Errorf("rom: image is %d bytes, below minimum %d", len(data), MinSize)
	}

	key, err := ValidateAndDeobfuscate(data)
	if err != nil {
		return nil, err
	}

	r := &ROM{
		Data:       data,
		Key:        key,
		SaveOffset: len(data) - SaveRegionSize,
		logger:     logger,
	}

	tableOff := r.ResourceTableOffset()
	if int(tableOff) >= len(data) {
		return nil, fmt.Errorf("rom: resource table offset 0x%06X beyond image length %d", tableOff, len(data))
	}

	if logger != nil {
		logger.LogROMf(debug.LogLevelInfo, "loaded ROM: %d bytes, key=0x%02X, save region @0x%06X", len(data), key, r.SaveOffset)
	}
	return r, nil
}

// ValidateAndDeobfuscate derives the obfuscation key from the magic
// byte, XORs the whole buffer in place if the key is non-zero, and
// confirms the deobfuscated magic reads "tony".
func ValidateAndDeobfuscate(data []byte) (byte, error) {
	if len(data) < magicOffset+len(magic) {
		return 0, fmt.Errorf("rom: too short to carry magic at 0x%02X", magicOffset)
	}

	key := data[magicOffset] ^ 't'
	if key != 0 {
		for i := range data {
			data[i] ^= key
		}
	}

	if string(data[magicOffset:magicOffset+len(magic)]) != magic {
		return 0, fmt.Errorf("rom: magic mismatch at 0x%02X after deobfuscation", magicOffset)
	}
	return key, nil
}

// XORSaveRegion toggles the obfuscation of the save-region tail only.
// It is an involution: calling it twice restores the original bytes.
// Used when serializing a save file (the persisted tail is obfuscated
// like the original dump) and when hydrating one back into memory.
func (r *ROM) XORSaveRegion() {
	if r.Key == 0 {
		return
	}
	tail := r.Data[r.SaveOffset:]
	for i := range tail {
		tail[i] ^= r.Key
	}
}

func readU16(data []byte, off int) uint16 {
	return uint16(data[off]) | uint16(data[off+1])<<8
}

func readU24(data []byte, off int) uint32 {
	return uint32(data[off]) | uint32(data[off+1])<<8 | uint32(data[off+2])<<16
}

// ResourceTableOffset is the 24-bit little-endian pointer at ROM[0..3).
func (r *ROM) ResourceTableOffset() uint32 {
	return readU24(r.Data, 0)
}

// ColdStart returns the cold-start ROM-call frame (addr, size) packed
// at ROM[3..8).
func (r *ROM) ColdStart() (addr uint32, size uint16) {
	return readU24(r.Data, coldStartOffset), readU16(r.Data, coldStartOffset+3)
}

// TickEntry returns the periodic game-tick ROM-call frame (addr, size)
// packed at ROM[0x1b..0x20).
func (r *ROM) TickEntry() (addr uint32, size uint16) {
	return readU24(r.Data, tickOffset), readU16(r.Data, tickOffset+3)
}

// FontBase reads the 16-bit pointer at ROM[8..10) and returns the ROM
// offset it names, where the 8x16 glyph table is stored.
func (r *ROM) FontBase() uint16 {
	return readU16(r.Data, fontPtrOffset)
}

// ReadU16 / ReadU24 expose the same little-endian reads used for
// header fields to other packages. Nothing in this repository calls
// them yet; the BIOS trampoline and the flash machine decode their
// own little-endian values.
func ReadU16(data []byte, off int) uint16 { return readU16(data, off) }
func ReadU24(data []byte, off int) uint32 { return readU24(data, off) }
