package bios

import (
	"fmt"

	"toumapet/internal/video"
)

// Sub-function selectors for the graphics BIOS call, chosen by the X
// register at the moment execution reaches AddrBIOSCall.
const (
	FnImageSize = iota
	FnDrawImage
	FnDrawImageAlpha
	FnDrawImageOpaque
	FnClear
	FnRepeatLine
	FnCheckIntersect
	FnChar
	FnCharAlpha
	FnDiagnosticNop
)

// argBase is the first byte of the BIOS call argument window
// (arg0..arg15), per spec.md §4.G: "argument area at MEM[0x100..]".
// It overlaps the low end of the hardware stack page, the same way
// the firmware itself borrows scratch bytes there below the live
// stack pointer.
const argBase = 0x100

func (t *Trampoline) arg(i int) byte     { return t.Mem.Read8(uint16(argBase + i)) }
func (t *Trampoline) argW(i int) uint16  { return uint16(t.arg(i)) | uint16(t.arg(i+1))<<8 }
func (t *Trampoline) setArg(i int, v byte) { t.Mem.Write8(uint16(argBase+i), v) }

// dispatchCall runs the graphics primitive selected by X, reading its
// operands out of the argument window at argBase and returning results
// the same way (plus a quick status byte in A where it fits). The
// caller (biosDispatch) owns the return to ROM code; this only mutates
// the framebuffer and A/X/Y.
func (t *Trampoline) dispatchCall(r *Registers) error {
	var err error
	switch r.X {
	case FnImageSize:
		err = t.fnImageSize(r)
	case FnDrawImage:
		err = t.fnDrawImage(r, 0, false)
	case FnDrawImageAlpha:
		err = t.fnDrawImage(r, t.arg(6), true)
	case FnDrawImageOpaque:
		err = t.fnDrawImage(r, 0, false)
	case FnClear:
		err = t.fnClear(r)
	case FnRepeatLine:
		err = t.fnRepeatLine(r)
	case FnCheckIntersect:
		err = t.fnCheckIntersect(r)
	case FnChar:
		err = t.fnChar(r, false)
	case FnCharAlpha:
		err = t.fnChar(r, true)
	case FnDiagnosticNop:
		r.A = 0
	default:
		return fmt.Errorf("bios: unknown bios call selector X=0x%02X", r.X)
	}
	return err
}

// fnImageSize reads the resource header for the 24-bit id packed into
// A:X:Y... but X doubles as the selector here, so image size takes its
// id from the argument window instead: arg0..2 (24-bit ROM offset).
func (t *Trampoline) fnImageSize(r *Registers) error {
	addr := uint32(t.arg(0)) | uint32(t.arg(1))<<8 | uint32(t.arg(2))<<16
	hdr, err := video.ReadImageHeader(t.ROM.Data, addr)
	if err != nil {
		return err
	}
	r.A = byte(hdr.W)
	r.Y = byte(hdr.H)
	return nil
}

// fnDrawImage draws the image resource at arg0..2 to (arg3,arg4) with
// flip flags arg5, with colorKey as the transparent index when
// useColorKey is true and every pixel drawn when it is false. No blend
// color is taken from the caller: pixels are always stored unblended
// (video.BlendNone).
func (t *Trampoline) fnDrawImage(r *Registers, colorKey byte, useColorKey bool) error {
	addr := uint32(t.arg(0)) | uint32(t.arg(1))<<8 | uint32(t.arg(2))<<16
	x := int(int8(t.arg(3)))
	y := int(int8(t.arg(4)))
	flip := t.arg(5)

	ck := video.NoColorKey
	if useColorKey {
		ck = int(colorKey)
	}

	if _, err := video.ReadImageHeader(t.ROM.Data, addr); err != nil {
		return err
	}
	return t.FB.DrawImage(t.ROM.Data, addr, uint32(len(t.ROM.Data)), x, y, flip, video.BlendNone, ck)
}

func (t *Trampoline) fnClear(r *Registers) error {
	t.FB.Clear(int(t.arg(0)), int(t.arg(1)), t.arg(2))
	return nil
}

func (t *Trampoline) fnRepeatLine(r *Registers) error {
	addr := uint32(t.arg(0)) | uint32(t.arg(1))<<8 | uint32(t.arg(2))<<16
	start := int(int8(t.arg(3)))
	end := int(int8(t.arg(4)))
	return t.FB.RepeatLine(t.ROM.Data, addr, start, end)
}

// fnCheckIntersect resolves the two image ids the same way
// fnDrawImage/fnRepeatLine/fnImageSize do — each is a 24-bit ROM
// address read through video.ReadImageHeader — rather than taking
// pre-resolved width/height bytes. arg0..2/arg5..7 are the two boxes'
// ROM addresses, arg3/arg4 and arg8/arg9 their x/y origins.
func (t *Trampoline) fnCheckIntersect(r *Registers) error {
	addr1 := uint32(t.arg(0)) | uint32(t.arg(1))<<8 | uint32(t.arg(2))<<16
	x1 := int(int8(t.arg(3)))
	y1 := int(int8(t.arg(4)))
	addr2 := uint32(t.arg(5)) | uint32(t.arg(6))<<8 | uint32(t.arg(7))<<16
	x2 := int(int8(t.arg(8)))
	y2 := int(int8(t.arg(9)))

	hdr1, err := video.ReadImageHeader(t.ROM.Data, addr1)
	if err != nil {
		return err
	}
	hdr2, err := video.ReadImageHeader(t.ROM.Data, addr2)
	if err != nil {
		return err
	}

	hit := video.CheckIntersect(x1, y1, hdr1.W, hdr1.H, x2, y2, hdr2.W, hdr2.H)
	if hit {
		r.A = 1
	} else {
		r.A = 0
	}
	return nil
}

// fnChar draws one 8x16 glyph from the ROM's built-in font. arg0 is the
// character code, arg1/arg2 the destination x/y, arg3 the foreground
// color, arg4 the background color (ignored when alpha drops the
// background entirely).
func (t *Trampoline) fnChar(r *Registers, transparent bool) error {
	fontBase := uint32(t.ROM.FontBase())
	x := int(int8(t.arg(1)))
	y := int(int8(t.arg(2)))
	bg := int(t.arg(4))
	if transparent {
		bg = -1
	}
	return t.FB.DrawChar(t.ROM.Data, fontBase, t.arg(0), x, y, t.arg(3), bg, video.BlendNone)
}
