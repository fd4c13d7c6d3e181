package emulator

import (
	"fmt"

	"toumapet/internal/rom"
)

// SaveStateSize returns the exact byte length of a save file for a
// given screen height: 64 KiB of CPU memory, the 64 KiB ROM save-region
// tail, then one byte per framebuffer pixel.
func SaveStateSize(screenHeight int) int {
	return 0x10000 + rom.SaveRegionSize + 128*screenHeight
}

// Save serializes CPU memory, the obfuscated ROM save-region tail, and
// the framebuffer into the fixed on-disk layout spec.md §6 names. The
// save-region bytes are written obfuscated by K, matching how they'd
// sit in a flash dump — XORSaveRegion toggles ROM.Data's tail in
// place, so Save brackets the copy with two calls to leave the live
// ROM state exactly as it found it.
func (e *Emulator) Save() []byte {
	out := make([]byte, SaveStateSize(e.FB.H))
	copy(out, e.Bus.RAM[:])

	tail := e.ROM.Data[e.ROM.SaveOffset:]
	e.ROM.XORSaveRegion()
	copy(out[0x10000:], tail)
	e.ROM.XORSaveRegion()

	copy(out[0x10000+rom.SaveRegionSize:], e.FB.Pix)
	return out
}

// Load hydrates CPU memory, the ROM save-region tail, and the
// framebuffer from a save file produced by Save. A mismatched size is
// fatal per spec.md §7 (ConfigError).
func (e *Emulator) Load(data []byte) error {
	want := SaveStateSize(e.FB.H)
	if len(data) != want {
		return fmt.Errorf("emulator: save file is %d bytes, want %d for a %d-row screen", len(data), want, e.FB.H)
	}

	copy(e.Bus.RAM[:], data[:0x10000])

	tail := e.ROM.Data[e.ROM.SaveOffset:]
	copy(tail, data[0x10000:0x10000+rom.SaveRegionSize])
	e.ROM.XORSaveRegion()

	copy(e.FB.Pix, data[0x10000+rom.SaveRegionSize:])
	return nil
}
