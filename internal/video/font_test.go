package video

import "testing"

func buildFontTable(glyphs map[byte][16]byte, maxCode byte) []byte {
	data := make([]byte, int(maxCode+1)*glyphBytes)
	for code, rows := range glyphs {
		copy(data[int(code)*glyphBytes:], rows[:])
	}
	return data
}

func TestDrawCharOpaquePaintsBackground(t *testing.T) {
	var rows [16]byte
	rows[0] = 0x80 // top-left pixel set
	rom := buildFontTable(map[byte][16]byte{0x41: rows}, 0x41)

	fb := NewFramebuffer(20)
	if err := fb.DrawChar(rom, 0, 0x41, 0, 0, 0x1F, 0x00, BlendNone); err != nil {
		t.Fatalf("DrawChar: %v", err)
	}
	if got := fb.get(0, 0); got != 0x1F {
		t.Errorf("(0,0) = %#x, want 0x1F", got)
	}
	if got := fb.get(1, 0); got != 0x00 {
		t.Errorf("(1,0) = %#x, want background 0x00", got)
	}
}

func TestDrawCharAlphaSkipsBackground(t *testing.T) {
	var rows [16]byte
	rows[0] = 0x80
	rom := buildFontTable(map[byte][16]byte{0x41: rows}, 0x41)

	fb := NewFramebuffer(20)
	fb.Clear(0, 19, 0xAA)
	if err := fb.DrawChar(rom, 0, 0x41, 0, 0, 0x1F, -1, BlendNone); err != nil {
		t.Fatalf("DrawChar: %v", err)
	}
	if got := fb.get(1, 0); got != 0xAA {
		t.Errorf("(1,0) = %#x, want untouched 0xAA", got)
	}
}

func TestDrawCharBelowReservedCodeIsFatal(t *testing.T) {
	rom := make([]byte, 64)
	fb := NewFramebuffer(20)
	if err := fb.DrawChar(rom, 0, 0x1F, 0, 0, 0x1F, 0x00, BlendNone); err == nil {
		t.Fatal("expected fatal error for character code below 0x20")
	}
}
