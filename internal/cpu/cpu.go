// Package cpu implements a WDC 65C02 interpreter: the full 6502
// instruction set plus the 65C02 extensions (BBR/BBS/RMB/SMB/TSB/TRB/
// STZ/BRA/PHX/PHY/PLX/PLY/WAI/STP) and 65C02 decimal-mode arithmetic.
// Errors are wrapped with fmt.Errorf("...: %w", err) and carry the
// faulting PC so a failure is traceable back to the instruction that
// caused it.
package cpu

import "fmt"

// Memory is the 64 KiB flat address space the CPU reads and writes.
// Implementations route zero-page MMIO, the BIOS call-overlay window,
// and plain RAM through a single byte-addressed interface.
type Memory interface {
	Read8(addr uint16) uint8
	Write8(addr uint16, value uint8) error
}

// Logger receives one line per retired instruction when tracing is
// enabled. The CPU never depends on *debug.Logger directly, so tests
// can supply a bare recorder instead.
type Logger interface {
	LogCPU(pc uint16, opcode byte, mnemonic string)
}

// Status bit positions within the packed processor status byte, in
// the canonical 6502 NV1BDIZC order used by PHP/PLP/BRK/RTI. Day to
// day the CPU keeps Z, N, V and C decomposed as separate bools — only
// these four boundaries repack them.
const (
	flagC = 1 << 0
	flagZ = 1 << 1
	flagI = 1 << 2
	flagD = 1 << 3
	flagB = 1 << 4
	flag1 = 1 << 5
	flagV = 1 << 6
	flagN = 1 << 7
)

const stackBase = 0x0100

// CPU is a single 65C02 core. Flags are decomposed for the hot path
// (every ADC/CMP/branch touches Z/N/C and sometimes V) and are only
// ever packed into a status byte at PHP, PLP, BRK and RTI — exactly
// the boundaries a real 65C02 exposes the status register at.
type CPU struct {
	A, X, Y byte
	SP      byte
	PC      uint16

	Z, N, V, C bool
	I, D       bool

	Mem Memory
	Log Logger

	Cycles uint64

	// Waiting is true after WAI: the interpreter should not fetch
	// another instruction until an interrupt is pending.
	Waiting bool
	// Stopped is true after STP: permanently halted until a reset.
	Stopped bool

	// Trace, if set, is called after every instruction retires.
	Trace func(pc uint16, opcode byte, mnemonic string)
}

// New returns a freshly reset CPU wired to mem.
func New(mem Memory, log Logger) *CPU {
	c := &CPU{Mem: mem, Log: log}
	c.Reset()
	return c
}

// Reset clears registers to the 65C02's documented power-on state.
// The program counter is left at zero; callers set it explicitly via
// SetPC once the cold-start ROM-call frame has been resolved.
func (c *CPU) Reset() {
	c.A, c.X, c.Y = 0, 0, 0
	c.SP = 0xFF
	c.PC = 0
	c.Z, c.N, c.V, c.C = false, false, false, false
	c.I, c.D = true, false
	c.Cycles = 0
	c.Waiting = false
	c.Stopped = false
}

// SetPC sets the program counter directly, used by the BIOS
// trampoline to enter a ROM-call frame and by interrupt dispatch.
func (c *CPU) SetPC(addr uint16) {
	c.PC = addr
}

// Push16 and Pop16 expose the hardware stack primitives the BIOS
// trampoline needs to fabricate (or unwind) a return the same way a
// real JSR/RTS pair would, without giving the trampoline package the
// whole CPU surface.
func (c *CPU) Push16(v uint16) { c.push16(v) }
func (c *CPU) Pop16() uint16   { return c.pop16() }

// packFlags assembles the processor status byte. Bit 5 is always set
// (the 6502 has no real flip-flop there); the break bit is the
// caller's to decide, since it reads as 1 for a software BRK push but
// 0 for a hardware interrupt push.
func (c *CPU) packFlags(brk bool) byte {
	var f byte = flag1
	if c.C {
		f |= flagC
	}
	if c.Z {
		f |= flagZ
	}
	if c.I {
		f |= flagI
	}
	if c.D {
		f |= flagD
	}
	if brk {
		f |= flagB
	}
	if c.V {
		f |= flagV
	}
	if c.N {
		f |= flagN
	}
	return f
}

func (c *CPU) unpackFlags(f byte) {
	c.C = f&flagC != 0
	c.Z = f&flagZ != 0
	c.I = f&flagI != 0
	c.D = f&flagD != 0
	c.V = f&flagV != 0
	c.N = f&flagN != 0
}

func (c *CPU) setZN(v byte) {
	c.Z = v == 0
	c.N = v&0x80 != 0
}

// push8 ignores Write8's error: the hardware stack page (0x0100..
//0x01FF) never aliases a port the flash/BIOS validation logic can
// reject, so a stack write can't fail.
func (c *CPU) push8(v byte) {
	_ = c.Mem.Write8(stackBase+uint16(c.SP), v)
	c.SP--
}

func (c *CPU) pop8() byte {
	c.SP++
	return c.Mem.Read8(stackBase + uint16(c.SP))
}

func (c *CPU) push16(v uint16) {
	c.push8(byte(v >> 8))
	c.push8(byte(v))
}

func (c *CPU) pop16() uint16 {
	lo := c.pop8()
	hi := c.pop8()
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) fetch8() byte {
	v := c.Mem.Read8(c.PC)
	c.PC++
	return v
}

func (c *CPU) fetch16() uint16 {
	lo := c.fetch8()
	hi := c.fetch8()
	return uint16(hi)<<8 | uint16(lo)
}

// Step decodes and executes one instruction, returning the cycle
// count it consumed. A WAI'd CPU returns immediately without fetching
// until TriggerIRQ/TriggerNMI clears Waiting.
func (c *CPU) Step() (int, error) {
	if c.Stopped || c.Waiting {
		return 1, nil
	}

	pc := c.PC
	opcode := c.fetch8()
	info, ok := opcodeTable[opcode]
	if !ok {
		return 0, fmt.Errorf("cpu: illegal opcode 0x%02X at PC=0x%04X", opcode, pc)
	}

	if err := info.exec(c, info); err != nil {
		return 0, fmt.Errorf("cpu: %s at PC=0x%04X: %w", info.mnemonic, pc, err)
	}
	c.Cycles += uint64(info.cycles)

	if c.Log != nil {
		c.Log.LogCPU(pc, opcode, info.mnemonic)
	}
	if c.Trace != nil {
		c.Trace(pc, opcode, info.mnemonic)
	}
	return info.cycles, nil
}

// TriggerIRQ fires a maskable interrupt, honoring the I flag and
// clearing a WAI wait-state regardless of it (per the 65C02's WAI
// semantics: any interrupt resumes fetch, masked IRQs just don't
// vector).
func (c *CPU) TriggerIRQ(vector uint16) {
	c.Waiting = false
	if c.I {
		return
	}
	c.irq(vector, false)
}

// TriggerNMI fires a non-maskable interrupt.
func (c *CPU) TriggerNMI(vector uint16) {
	c.Waiting = false
	c.irq(vector, false)
}

func (c *CPU) irq(vector uint16, brk bool) {
	c.push16(c.PC)
	c.push8(c.packFlags(brk))
	c.I = true
	lo := c.Mem.Read8(vector)
	hi := c.Mem.Read8(vector + 1)
	c.PC = uint16(hi)<<8 | uint16(lo)
}
