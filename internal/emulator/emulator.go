package emulator

import (
	"errors"
	"fmt"

	"toumapet/internal/bios"
	"toumapet/internal/cpu"
	"toumapet/internal/debug"
	"toumapet/internal/flash"
	"toumapet/internal/input"
	"toumapet/internal/rom"
	"toumapet/internal/video"
)

// Screen heights the two supported hardware models carry, keyed by
// ROM size per spec.md §1.
const (
	ROMSize550 = 4 * 1024 * 1024
	ROMSize560 = 8 * 1024 * 1024

	ScreenHeight550 = 128
	ScreenHeight560 = 160
)

// ScreenHeightForROM picks the screen height implied by the ROM's
// size, the only thing spec.md uses to distinguish the two models.
func ScreenHeightForROM(romLen int) (int, error) {
	switch {
	case romLen <= ROMSize550:
		return ScreenHeight550, nil
	case romLen <= ROMSize560:
		return ScreenHeight560, nil
	default:
		return 0, fmt.Errorf("emulator: rom size %d exceeds the largest supported model (%d)", romLen, ROMSize560)
	}
}

// cpuLogAdapter bridges the narrow per-instruction cpu.Logger
// interface to the shared component logger, so the CPU package never
// needs to import internal/debug.
type cpuLogAdapter struct{ l *debug.Logger }

func (a cpuLogAdapter) LogCPU(pc uint16, opcode byte, mnemonic string) {
	if a.l == nil {
		return
	}
	a.l.LogCPUf(debug.LogLevelTrace, "pc=%04X op=%02X %s", pc, opcode, mnemonic)
}

// Emulator owns every piece of mutable state a running cartridge
// touches: CPU registers, the flat 64 KiB bus, the deobfuscated ROM,
// the flash save controller, the framebuffer, and the input latch. It
// runs strictly single-threaded — the scheduler that drives it is the
// only caller, and the only suspension point is between frames.
type Emulator struct {
	CPU   *cpu.CPU
	Bus   *Bus
	ROM   *rom.ROM
	Flash *flash.Flash
	Input *input.Input
	FB    *video.Framebuffer
	Tramp *bios.Trampoline

	Logger *debug.Logger
}

// New constructs an emulator for an already-validated ROM. fb must
// already be sized for the model the ROM implies
// (ScreenHeightForROM).
func New(r *rom.ROM, fb *video.Framebuffer, logger *debug.Logger) *Emulator {
	in := input.New()
	fl := flash.New(r.Data[r.SaveOffset:], logger)
	fl.Key = r.Key

	bus := NewBus(fl, in, logger)
	c := cpu.New(bus, cpuLogAdapter{logger})
	tramp := bios.New(bus, r, fb, logger)

	return &Emulator{
		CPU:    c,
		Bus:    bus,
		ROM:    r,
		Flash:  fl,
		Input:  in,
		FB:     fb,
		Tramp:  tramp,
		Logger: logger,
	}
}

// registersView snapshots the CPU registers the trampoline is allowed
// to read and write, binding its push/pop requests to the CPU's own
// hardware stack.
func (e *Emulator) registersView() *bios.Registers {
	return &bios.Registers{
		A: e.CPU.A, X: e.CPU.X, Y: e.CPU.Y, PC: e.CPU.PC,
		Push16: e.CPU.Push16,
		Pop16:  e.CPU.Pop16,
	}
}

func (e *Emulator) applyRegisters(r *bios.Registers) {
	e.CPU.A, e.CPU.X, e.CPU.Y = r.A, r.X, r.Y
	e.CPU.SetPC(r.PC)
}

// RunFrame(rom_addr, size) pushes the given ROM-call frame and steps
// the interpreter until it returns (the frame stack unwinds to
// empty), hits WAI, or the firmware requests power-off. It mirrors
// spec.md §4.I's description of how the scheduler enters both the
// cold-start and periodic-tick routines: "push the frame, run the
// interpreter to termination".
//
// waited reports whether the frame ended in WAI rather than a normal
// return, so the scheduler can skip the next tick push per spec.md's
// WAI-idling rule.
func (e *Emulator) RunFrame(romAddr uint32, size uint16) (waited bool, err error) {
	r := e.registersView()
	// The ROM-call trampoline reads its address and size out of
	// MEM[0x80..0x85) per spec.md §4.H: a 24-bit address at 0x80, then
	// a 16-bit size word at 0x83 that it doubles — so the value staged
	// here is the frame's actual byte size divided by two, rounded up so
	// the last byte of an odd-sized frame is still copied.
	e.Bus.RAM[0x80] = byte(romAddr)
	e.Bus.RAM[0x81] = byte(romAddr >> 8)
	e.Bus.RAM[0x82] = byte(romAddr >> 16)
	half := (size + 1) / 2
	e.Bus.RAM[0x83] = byte(half)
	e.Bus.RAM[0x84] = byte(half >> 8)

	ok, err := e.Tramp.Intercept(bios.AddrROMCall, r)
	if err != nil {
		return false, fmt.Errorf("emulator: entering rom-call frame: %w", err)
	}
	if !ok {
		return false, fmt.Errorf("emulator: rom-call trampoline did not accept entry address")
	}
	e.applyRegisters(r)

	return e.run()
}

// run steps the CPU until the frame stack unwinds (ErrInterpreterHalt),
// WAI, or a power-off request, intercepting the trampoline's reserved
// addresses before each fetch instead of letting the CPU execute
// whatever garbage lives there.
func (e *Emulator) run() (waited bool, err error) {
	for {
		if e.Bus.PowerOff {
			return false, nil
		}

		r := e.registersView()
		handled, err := e.Tramp.Intercept(e.CPU.PC, r)
		if err != nil {
			if errors.Is(err, bios.ErrInterpreterHalt) {
				e.applyRegisters(r)
				return false, nil
			}
			return false, fmt.Errorf("emulator: bios trap at PC=0x%04X: %w", e.CPU.PC, err)
		}
		if handled {
			e.applyRegisters(r)
			continue
		}

		if _, err := e.CPU.Step(); err != nil {
			return false, fmt.Errorf("emulator: %w", err)
		}
		if e.CPU.Waiting {
			e.Input.Set(input.BitIdleWake, true)
			return true, nil
		}
		if e.CPU.Stopped {
			return false, fmt.Errorf("emulator: STP executed at PC=0x%04X (unsupported per spec non-goals)", e.CPU.PC)
		}
	}
}
