// Package flash implements the SPI save-flash state machine. The
// firmware talks to it through two bit-banged MMIO ports: a
// clock/data port that shifts one bit per write, and a chip-select
// port that brackets a transaction, built around the same
// latch/shift-one-byte-at-a-time protocol shape used elsewhere in
// this core's narrow MMIO ports, driving a real SPI NOR command set
// rather than a button matrix.
package flash

import (
	"fmt"

	"toumapet/internal/debug"
)

// State names the SPI transaction phase.
type State int

const (
	// StateOff: chip deselected, shift register idle.
	StateOff State = iota
	// StateReady: chip selected, waiting for a command byte.
	StateReady
	// StateCmd: command received, shifting in its 3-byte address.
	StateCmd
	// StateCmd2: address complete, shifting page-program or read data.
	StateCmd2
)

func (s State) String() string {
	switch s {
	case StateOff:
		return "OFF"
	case StateReady:
		return "READY"
	case StateCmd:
		return "CMD"
	case StateCmd2:
		return "CMD2"
	default:
		return "UNKNOWN"
	}
}

const (
	cmdWriteEnable  = 0x06
	cmdWriteDisable = 0x04
	cmdReadStatus   = 0x05
	cmdPageProgram  = 0x02
	cmdSectorErase  = 0x20
	cmdRead         = 0x03

	pageSize   = 256
	sectorSize = 4096
)

// Flash is the save-region SPI controller. Data aliases the ROM's
// save-region tail directly: erase and program mutate it in place, so
// the obfuscated-on-disk image and the in-memory flash stay the same
// slice.
type Flash struct {
	Data []byte

	// Key is the ROM's obfuscation key. Every byte committed to Data by
	// a page program or sector erase is XORed by it, the same way the
	// ROM container XORs the save region on load and on save-file
	// write-out; plaintext shift-register traffic (addresses, status
	// reads) is untouched.
	Key byte

	state    State
	selected bool

	shiftIn  byte
	bitCount int

	cmd       byte
	addr      uint32
	addrBytes int

	pageAddr uint32
	pageLen  int

	outByte byte
	outBit  byte

	writeEnable bool

	logger *debug.Logger
}

// New wraps the save-region byte slice (typically rom.Data's tail)
// with a fresh, deselected flash controller.
func New(saveRegion []byte, logger *debug.Logger) *Flash {
	return &Flash{Data: saveRegion, state: StateOff, logger: logger}
}

// WriteSelect drives the chip-select line. Bit 0 clear selects the
// chip (active low, as real SPI flash parts do); bit 0 set deselects
// it and ends the transaction. Page-program bytes are already written
// as each one arrives, so deselecting commits nothing; a deselect that
// ends a page program clears the write-enable latch.
func (f *Flash) WriteSelect(v byte) {
	selected := v&1 == 0
	if selected == f.selected {
		return
	}
	f.selected = selected

	if selected {
		f.state = StateReady
		f.bitCount = 0
		f.shiftIn = 0
		return
	}

	if f.state == StateCmd2 && f.cmd == cmdPageProgram {
		// Real NOR flash auto-clears the write-enable latch when a
		// program command completes, signaled here by CS rising.
		f.writeEnable = false
	}

	f.state = StateOff
	if f.logger != nil {
		f.logger.LogFlashf(debug.LogLevelDebug, "deselected in state %s", f.state)
	}
}

// WriteClockData shifts one MOSI bit (value's bit 0) into the current
// byte, MSB first. Every 8 bits it dispatches the completed byte per
// the current transaction phase, and every bit it advances outBit so
// a host read immediately after a write observes the next MISO bit of
// a read transaction. It returns a fatal error for an unrecognized
// command, a misaligned or out-of-save-region program/erase address,
// per spec.md §4.F/§7 ("Bad alignment, out-of-save-region... are
// fatal").
func (f *Flash) WriteClockData(v byte) error {
	if !f.selected {
		return nil
	}

	f.outBit = (f.outByte >> uint(7-f.bitCount)) & 1

	bit := v & 1
	f.shiftIn = (f.shiftIn << 1) | bit
	f.bitCount++
	if f.bitCount < 8 {
		return nil
	}

	b := f.shiftIn
	f.shiftIn = 0
	f.bitCount = 0
	return f.consumeByte(b)
}

// ReadClockData returns the MISO bit most recently staged by
// WriteClockData.
func (f *Flash) ReadClockData() byte {
	return f.outBit
}

func (f *Flash) consumeByte(b byte) error {
	switch f.state {
	case StateReady:
		f.cmd = b
		switch b {
		case cmdWriteEnable:
			f.writeEnable = true
		case cmdWriteDisable:
			f.writeEnable = false
		case cmdReadStatus:
			f.outByte = f.statusByte()
		case cmdPageProgram, cmdSectorErase, cmdRead:
			f.state = StateCmd
			f.addr = 0
			f.addrBytes = 0
		default:
			return fmt.Errorf("flash: unrecognized command byte 0x%02X", b)
		}

	case StateCmd:
		f.addr = (f.addr << 8) | uint32(b)
		f.addrBytes++
		if f.addrBytes < 3 {
			return nil
		}
		switch f.cmd {
		case cmdRead:
			f.state = StateCmd2
			f.outByte = f.readByte(f.addr)
		case cmdPageProgram:
			if !f.writeEnable {
				return fmt.Errorf("flash: page program at 0x%06X without write-enable latch", f.addr)
			}
			if int(f.addr) < len(f.Data) && f.addr&(pageSize-1) != 0 {
				return fmt.Errorf("flash: page program address 0x%06X is not 256-byte aligned", f.addr)
			}
			if int(f.addr) >= len(f.Data) {
				return fmt.Errorf("flash: page program address 0x%06X outside the save region", f.addr)
			}
			f.state = StateCmd2
			f.pageAddr = f.addr
			f.pageLen = 0
		case cmdSectorErase:
			if !f.writeEnable {
				return fmt.Errorf("flash: sector erase at 0x%06X without write-enable latch", f.addr)
			}
			if f.addr&(sectorSize-1) != 0 {
				return fmt.Errorf("flash: sector erase address 0x%06X is not 4KiB aligned", f.addr)
			}
			if int(f.addr) >= len(f.Data) {
				return fmt.Errorf("flash: sector erase address 0x%06X outside the save region", f.addr)
			}
			f.eraseSector(f.addr)
			f.state = StateReady
		}

	case StateCmd2:
		switch f.cmd {
		case cmdRead:
			f.addr++
			f.outByte = f.readByte(f.addr)
		case cmdPageProgram:
			f.programByte(f.pageAddr, b)
			f.pageLen++
			// A real page-program part wraps the low byte of the
			// address at a 256-byte boundary rather than crossing
			// into the next page.
			f.pageAddr = (f.pageAddr &^ (pageSize - 1)) | ((f.pageAddr + 1) & (pageSize - 1))
		}
	}
	return nil
}

func (f *Flash) statusByte() byte {
	var s byte
	if f.writeEnable {
		s |= 0x02
	}
	return s
}

func (f *Flash) readByte(addr uint32) byte {
	if int(addr) >= len(f.Data) {
		return 0xFF
	}
	return f.Data[addr] ^ f.Key
}

// programByte writes one de-obfuscated byte into the save region.
// consumeByte has already validated the write-enable latch, alignment
// and save-region bounds of the page's first byte before this is ever
// called; the bounds re-check here only guards the wrap-around within
// the page, which is always in range for a 64 KiB save region.
func (f *Flash) programByte(addr uint32, v byte) {
	if int(addr) >= len(f.Data) {
		return
	}
	f.Data[addr] = v ^ f.Key
}

// eraseSector sets a 4 KiB-aligned sector to all 1 bits. The address
// is truncated to the sector boundary the same way real flash parts
// ignore the low bits of an erase command's address. consumeByte has
// already checked the write-enable latch and alignment before this is
// ever called.
func (f *Flash) eraseSector(addr uint32) {
	start := int(addr) &^ (sectorSize - 1)
	end := start + sectorSize
	if start >= len(f.Data) {
		return
	}
	if end > len(f.Data) {
		end = len(f.Data)
	}
	for i := start; i < end; i++ {
		f.Data[i] = 0xFF ^ f.Key
	}
	f.writeEnable = false
	if f.logger != nil {
		f.logger.LogFlashf(debug.LogLevelInfo, "erased sector @0x%06X", start)
	}
}

// State reports the current transaction phase, for the debug
// inspector overlay.
func (f *Flash) State() State { return f.state }
