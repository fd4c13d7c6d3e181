package bios

import (
	"errors"
	"testing"

	"toumapet/internal/rom"
	"toumapet/internal/video"
)

// fakeMemory is a flat 64 KiB byte array satisfying Memory, standing
// in for the full bus the emulator package wires up.
type fakeMemory [65536]byte

func (m *fakeMemory) Read8(addr uint16) uint8 { return m[addr] }
func (m *fakeMemory) Write8(addr uint16, v uint8) error {
	m[addr] = v
	return nil
}

// stageROMCall writes a ROM-call address/size frame at MEM[0x80..0x85),
// the zero-page convention romCall reads from: a 24-bit address at
// 0x80, then a 16-bit size word at 0x83 that gets doubled.
func stageROMCall(mem *fakeMemory, addr uint32, size uint16) {
	mem.Write8(0x80, byte(addr))
	mem.Write8(0x81, byte(addr>>8))
	mem.Write8(0x82, byte(addr>>16))
	half := size / 2
	mem.Write8(0x83, byte(half))
	mem.Write8(0x84, byte(half>>8))
}

func newTestRegisters(stack *[]uint16) *Registers {
	return &Registers{
		Push16: func(v uint16) { *stack = append(*stack, v) },
		Pop16: func() uint16 {
			n := len(*stack)
			v := (*stack)[n-1]
			*stack = (*stack)[:n-1]
			return v
		},
	}
}

// imageAAddr and imageBAddr are two 4-byte image headers (width, 0x00,
// height, 0x80) newTestROM stamps in, used by the FnCheckIntersect
// dispatch test to resolve an id through video.ReadImageHeader the
// same way fnDrawImage/fnRepeatLine/fnImageSize do.
const (
	imageAAddr = 0x2000
	imageBAddr = 0x2010
)

func newTestROM(t *testing.T) *rom.ROM {
	t.Helper()
	img := rom.NewBuilder(0, 0).
		SetResourceTable(0x40).
		SetColdStart(0x1000, 8).
		SetTickEntry(0x1100, 8).
		PutBytes(0x1000, []byte{0, 1, 2, 3, 4, 5, 6, 7}).
		PutBytes(imageAAddr, []byte{4, 0x00, 4, 0x80}).
		PutBytes(imageBAddr, []byte{4, 0x00, 4, 0x80}).
		Build()
	r, err := rom.New(img, nil)
	if err != nil {
		t.Fatalf("rom.New: %v", err)
	}
	return r
}

func TestRomCallPushesFrameAndCopiesOverlay(t *testing.T) {
	mem := &fakeMemory{}
	r := newTestROM(t)
	fb := video.NewFramebuffer(128)
	tr := New(mem, r, fb, nil)

	var stack []uint16
	regs := newTestRegisters(&stack)
	stageROMCall(mem, 0x1000, 8)

	handled, err := tr.Intercept(AddrROMCall, regs)
	if err != nil {
		t.Fatalf("Intercept(AddrROMCall): %v", err)
	}
	if !handled {
		t.Fatal("expected AddrROMCall to be handled")
	}
	if regs.PC != OverlayBase {
		t.Errorf("PC = 0x%04X, want OverlayBase 0x%04X", regs.PC, OverlayBase)
	}
	if tr.Depth() != 1 {
		t.Errorf("Depth() = %d, want 1", tr.Depth())
	}
	for i := 0; i < 8; i++ {
		if got := mem.Read8(uint16(OverlayBase + i)); got != byte(i) {
			t.Errorf("overlay byte %d = %d, want %d", i, got, i)
		}
	}
	if len(stack) != 1 || stack[0] != 0x6FFF {
		t.Errorf("stack = %v, want [0x6FFF]", stack)
	}
}

func TestRomReturnUnwindsToHalt(t *testing.T) {
	mem := &fakeMemory{}
	r := newTestROM(t)
	fb := video.NewFramebuffer(128)
	tr := New(mem, r, fb, nil)

	var stack []uint16
	regs := newTestRegisters(&stack)
	stageROMCall(mem, 0x1000, 8)
	if _, err := tr.Intercept(AddrROMCall, regs); err != nil {
		t.Fatalf("entering frame: %v", err)
	}

	mem.Write8(OverlayBase, 0xAA) // clobber the overlay the way ROM code would

	_, err := tr.Intercept(AddrROMReturn, regs)
	if !errors.Is(err, ErrInterpreterHalt) {
		t.Fatalf("Intercept(AddrROMReturn) = %v, want ErrInterpreterHalt", err)
	}
	if tr.Depth() != 0 {
		t.Errorf("Depth() = %d, want 0 after unwinding the only frame", tr.Depth())
	}
	if got := mem.Read8(OverlayBase); got != 0 {
		t.Errorf("overlay byte 0 = %d, want 0 (restored)", got)
	}
}

func TestRomTailCallReusesReturnAddress(t *testing.T) {
	mem := &fakeMemory{}
	r := newTestROM(t)
	fb := video.NewFramebuffer(128)
	tr := New(mem, r, fb, nil)

	var stack []uint16
	regs := newTestRegisters(&stack)
	stageROMCall(mem, 0x1000, 8)
	if _, err := tr.Intercept(AddrROMCall, regs); err != nil {
		t.Fatalf("entering frame: %v", err)
	}
	if len(stack) != 1 {
		t.Fatalf("stack depth = %d after first call, want 1", len(stack))
	}

	stageROMCall(mem, 0x1100, 8)
	if _, err := tr.Intercept(AddrROMTailCall, regs); err != nil {
		t.Fatalf("tail call: %v", err)
	}
	if tr.Depth() != 1 {
		t.Errorf("Depth() = %d, want 1 (tail call replaces, not grows)", tr.Depth())
	}
	if len(stack) != 1 {
		t.Errorf("stack depth = %d after tail call, want 1 (unchanged)", len(stack))
	}
}

func TestDispatchCallClearAndIntersect(t *testing.T) {
	mem := &fakeMemory{}
	r := newTestROM(t)
	fb := video.NewFramebuffer(128)
	tr := New(mem, r, fb, nil)

	regs := &Registers{X: FnClear}
	mem.Write8(argBase+0, 0)
	mem.Write8(argBase+1, 1)
	mem.Write8(argBase+2, 0x1F)
	if _, err := tr.Intercept(AddrBIOSDispatch, regs); err != nil {
		t.Fatalf("FnClear dispatch: %v", err)
	}
	if got := fb.Pix[0]; got != 0x1F {
		t.Errorf("cleared pixel 0 = 0x%02X, want 0x1F", got)
	}
	if regs.PC != SynthReturnAddr {
		t.Errorf("PC = 0x%04X, want SynthReturnAddr 0x%04X", regs.PC, SynthReturnAddr)
	}

	regs2 := &Registers{X: FnCheckIntersect}
	mem.Write8(argBase+0, byte(imageAAddr&0xFF))
	mem.Write8(argBase+1, byte(imageAAddr>>8))
	mem.Write8(argBase+2, byte(imageAAddr>>16))
	mem.Write8(argBase+3, 0) // x1
	mem.Write8(argBase+4, 0) // y1
	mem.Write8(argBase+5, byte(imageBAddr&0xFF))
	mem.Write8(argBase+6, byte(imageBAddr>>8))
	mem.Write8(argBase+7, byte(imageBAddr>>16))
	mem.Write8(argBase+8, 2) // x2
	mem.Write8(argBase+9, 2) // y2
	if _, err := tr.Intercept(AddrBIOSDispatch, regs2); err != nil {
		t.Fatalf("FnCheckIntersect dispatch: %v", err)
	}
	if regs2.A != 1 {
		t.Errorf("A = %d, want 1 (overlapping boxes)", regs2.A)
	}
}

func TestDispatchCallUnknownSelectorIsFatal(t *testing.T) {
	mem := &fakeMemory{}
	r := newTestROM(t)
	fb := video.NewFramebuffer(128)
	tr := New(mem, r, fb, nil)

	regs := &Registers{X: 0x7F}
	if _, err := tr.Intercept(AddrBIOSDispatch, regs); err == nil {
		t.Fatal("expected an error for an unrecognized bios call selector")
	}
}
