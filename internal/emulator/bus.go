// Package emulator wires the CPU, ROM, flash, input and BIOS
// trampoline into one 64 KiB address space and drives it frame by
// frame: the single-goroutine event loop spec.md's concurrency model
// describes, plus the save-file codec spec.md §6 fixes the byte
// layout of.
package emulator

import (
	"toumapet/internal/bios"
	"toumapet/internal/debug"
	"toumapet/internal/flash"
	"toumapet/internal/input"
)

// Port addresses the bus treats specially. Everything else in the
// 64 KiB space is plain RAM (zero page doubling as the MMIO window
// except at these offsets, the ROM-call overlay at 0x0300..0x0800,
// and the hardware stack at 0x0100..0x01FF, neither of which the bus
// itself needs to know about — they're just RAM the CPU and
// trampoline address normally).
const (
	portKeys       = 0x00
	portFlashData  = 0x02
	portTimerReady = 0x14
	portFlashCS    = 0x12
	portDiag7B     = 0x7B
	portDiag93     = 0x93
	portLCDCtrl    = 0x8000
	lcdOffValue    = 0x28
)

// inputTickInterval is how many reads of portKeys it takes before the
// bus opportunistically pumps host events, per spec.md §4.G/§5: input
// latency inside a frame is bounded by this interval rather than only
// resolved at the frame boundary.
const inputTickInterval = 16

// Bus is the CPU's 64 KiB flat memory, fanning out the handful of
// MMIO addresses spec.md names to the flash state machine and the
// input register, and satisfying cpu.Memory.
type Bus struct {
	RAM [65536]byte

	Flash *flash.Flash
	Input *input.Input

	inputTicks int

	// PowerOff latches when firmware writes 0 to portKeys: a deliberate
	// shutdown request distinct from the host-driven quit signal.
	PowerOff bool

	// PumpEvents, if set, is called every inputTickInterval reads of
	// portKeys and once per scheduler frame boundary — the host event
	// pump spec.md §5 describes as polled rather than interrupt-driven.
	PumpEvents func()

	logger *debug.Logger
}

// NewBus wires a fresh 64 KiB RAM to the flash controller and input
// register the emulator already constructed.
func NewBus(f *flash.Flash, in *input.Input, logger *debug.Logger) *Bus {
	return &Bus{Flash: f, Input: in, logger: logger}
}

// Read8 returns the byte at addr, applying the handful of read-side
// MMIO effects spec.md §4.G lists — each only fires for zero-page
// addresses, since the CPU's own load/store split (addressing.go)
// never calls Read8 for a pure store. The one non-RAM byte outside the
// zero page is bios.SynthReturnAddr, which always reads as the RTS
// opcode the BIOS dispatch returns through.
func (b *Bus) Read8(addr uint16) uint8 {
	switch addr {
	case bios.SynthReturnAddr:
		return bios.SynthReturnOpcode
	case portKeys:
		b.inputTicks++
		if b.inputTicks >= inputTickInterval {
			b.inputTicks = 0
			if b.PumpEvents != nil {
				b.PumpEvents()
			}
		}
		return ^byte(input.FirmwareKeys(b.Input.Keys()))
	case portFlashData:
		b.RAM[addr] &^= 1 << 1
		if b.Flash.ReadClockData() != 0 {
			b.RAM[addr] |= 1 << 2
		} else {
			b.RAM[addr] &^= 1 << 2
		}
		return b.RAM[addr]
	case portTimerReady:
		b.RAM[addr] |= 1 << 6
	case portDiag7B:
		b.RAM[addr] |= 1 << 3
	case portDiag93:
		b.RAM[addr] |= 1 << 7
	}
	return b.RAM[addr]
}

// Write8 stores v at addr, applying the MMIO write-side effects
// spec.md §4.G lists: the power-off port, the flash clock/data and
// chip-select pins, and the LCD-off request. An unrecognized flash
// command or a misaligned/out-of-save-region flash write is
// RuntimeFatal per spec.md §4.F/§7, so it is surfaced as an error
// instead of silently dropped.
func (b *Bus) Write8(addr uint16, v uint8) error {
	b.RAM[addr] = v
	switch addr {
	case portKeys:
		if v == 0 {
			b.PowerOff = true
			b.Input.Set(input.BitPowerOff, true)
			b.Input.Set(input.BitScreenBlanked, true)
		}
	case portFlashData:
		// Bit 2 of the port carries the MOSI data line (bit 0 is the
		// clock-edge signal firmware toggles around it); the flash
		// controller's own state machine advances one bit per call
		// rather than modeling the separate clock phase.
		if err := b.Flash.WriteClockData((v >> 2) & 1); err != nil {
			return err
		}
	case portFlashCS:
		b.Flash.WriteSelect(v)
	case portLCDCtrl:
		if v == lcdOffValue {
			b.Input.Set(input.BitScreenBlanked, true)
		}
	}
	if b.logger != nil && b.logger.IsComponentEnabled(debug.ComponentSystem) {
		b.logger.LogSystemf(debug.LogLevelTrace, "write 0x%04X = 0x%02X", addr, v)
	}
	return nil
}
