package cpu

// mode identifies an addressing mode. Each opcode table entry is
// fixed to exactly one, the same way the 65C02's opcode map is.
type mode int

const (
	modeImplied mode = iota
	modeAccumulator
	modeImmediate
	modeZeroPage
	modeZeroPageX
	modeZeroPageY
	modeZeroPageIndirect   // (zp)
	modeZeroPageIndirectX  // (zp,x)
	modeZeroPageIndirectY  // (zp),y
	modeAbsolute
	modeAbsoluteX
	modeAbsoluteY
	modeAbsoluteIndirect   // (abs), JMP only
	modeAbsoluteIndirectX  // (abs,x), JMP only (65C02 extension)
	modeRelative
	modeZeroPageRelative // zp, rel — BBR/BBS composite operand
)

// operandAddr resolves the effective address for every mode except
// the ones that don't name a memory location (implied, accumulator,
// immediate, relative — those are handled inline by their opcodes).
func (c *CPU) operandAddr(m mode) uint16 {
	switch m {
	case modeZeroPage:
		return uint16(c.fetch8())
	case modeZeroPageX:
		return uint16(c.fetch8() + c.X)
	case modeZeroPageY:
		return uint16(c.fetch8() + c.Y)
	case modeZeroPageIndirect:
		zp := c.fetch8()
		return c.read16zp(zp)
	case modeZeroPageIndirectX:
		zp := c.fetch8() + c.X
		return c.read16zp(zp)
	case modeZeroPageIndirectY:
		zp := c.fetch8()
		base := c.read16zp(zp)
		return base + uint16(c.Y)
	case modeAbsolute:
		return c.fetch16()
	case modeAbsoluteX:
		return c.fetch16() + uint16(c.X)
	case modeAbsoluteY:
		return c.fetch16() + uint16(c.Y)
	default:
		panic("cpu: operandAddr called with a mode that has no memory operand")
	}
}

// read16zp reads a little-endian pointer out of zero page, wrapping
// within page 0 the way the 6502 family's indirect modes do.
func (c *CPU) read16zp(zp byte) uint16 {
	lo := c.Mem.Read8(uint16(zp))
	hi := c.Mem.Read8(uint16(zp + 1))
	return uint16(hi)<<8 | uint16(lo)
}

// load reads the operand byte for modes that can serve as a source:
// immediate, accumulator, or a resolved memory address.
func (c *CPU) load(m mode) byte {
	switch m {
	case modeAccumulator:
		return c.A
	case modeImmediate:
		return c.fetch8()
	default:
		return c.Mem.Read8(c.operandAddr(m))
	}
}

// store writes v back to the operand location named by m (accumulator
// or memory — never called with immediate).
func (c *CPU) store(m mode, addr uint16, v byte) error {
	if m == modeAccumulator {
		c.A = v
		return nil
	}
	return c.Mem.Write8(addr, v)
}

// branchTarget resolves a relative-mode target from the signed displacement
// byte that follows the opcode. The displacement is read before the
// branch decision so PC always ends up just past it on the no-branch
// path.
func (c *CPU) branchTarget() uint16 {
	disp := int8(c.fetch8())
	return uint16(int32(c.PC) + int32(disp))
}
