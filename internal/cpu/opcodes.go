package cpu

// opInfo is one row of the opcode dispatch table: how to decode the
// operand, how long it takes, and what to do with it.
type opInfo struct {
	mnemonic string
	mode     mode
	cycles   int
	bit      int // operand bit index for RMB/SMB/BBR/BBS
	exec     func(c *CPU, info opInfo) error
}

var opcodeTable = buildOpcodeTable()

func buildOpcodeTable() map[byte]opInfo {
	t := make(map[byte]opInfo, 212)

	add := func(op byte, mnemonic string, m mode, cycles int, fn func(c *CPU, info opInfo) error) {
		t[op] = opInfo{mnemonic: mnemonic, mode: m, cycles: cycles, exec: fn}
	}

	// Loads.
	add(0xA9, "LDA", modeImmediate, 2, execLDA)
	add(0xA5, "LDA", modeZeroPage, 3, execLDA)
	add(0xB5, "LDA", modeZeroPageX, 4, execLDA)
	add(0xAD, "LDA", modeAbsolute, 4, execLDA)
	add(0xBD, "LDA", modeAbsoluteX, 4, execLDA)
	add(0xB9, "LDA", modeAbsoluteY, 4, execLDA)
	add(0xA1, "LDA", modeZeroPageIndirectX, 6, execLDA)
	add(0xB1, "LDA", modeZeroPageIndirectY, 5, execLDA)
	add(0xB2, "LDA", modeZeroPageIndirect, 5, execLDA)

	add(0xA2, "LDX", modeImmediate, 2, execLDX)
	add(0xA6, "LDX", modeZeroPage, 3, execLDX)
	add(0xB6, "LDX", modeZeroPageY, 4, execLDX)
	add(0xAE, "LDX", modeAbsolute, 4, execLDX)
	add(0xBE, "LDX", modeAbsoluteY, 4, execLDX)

	add(0xA0, "LDY", modeImmediate, 2, execLDY)
	add(0xA4, "LDY", modeZeroPage, 3, execLDY)
	add(0xB4, "LDY", modeZeroPageX, 4, execLDY)
	add(0xAC, "LDY", modeAbsolute, 4, execLDY)
	add(0xBC, "LDY", modeAbsoluteX, 4, execLDY)

	// Stores.
	add(0x85, "STA", modeZeroPage, 3, execSTA)
	add(0x95, "STA", modeZeroPageX, 4, execSTA)
	add(0x8D, "STA", modeAbsolute, 4, execSTA)
	add(0x9D, "STA", modeAbsoluteX, 5, execSTA)
	add(0x99, "STA", modeAbsoluteY, 5, execSTA)
	add(0x81, "STA", modeZeroPageIndirectX, 6, execSTA)
	add(0x91, "STA", modeZeroPageIndirectY, 6, execSTA)
	add(0x92, "STA", modeZeroPageIndirect, 5, execSTA)

	add(0x86, "STX", modeZeroPage, 3, execSTX)
	add(0x96, "STX", modeZeroPageY, 4, execSTX)
	add(0x8E, "STX", modeAbsolute, 4, execSTX)

	add(0x84, "STY", modeZeroPage, 3, execSTY)
	add(0x94, "STY", modeZeroPageX, 4, execSTY)
	add(0x8C, "STY", modeAbsolute, 4, execSTY)

	add(0x64, "STZ", modeZeroPage, 3, execSTZ)
	add(0x74, "STZ", modeZeroPageX, 4, execSTZ)
	add(0x9C, "STZ", modeAbsolute, 4, execSTZ)
	add(0x9E, "STZ", modeAbsoluteX, 5, execSTZ)

	// Arithmetic.
	add(0x69, "ADC", modeImmediate, 2, execADC)
	add(0x65, "ADC", modeZeroPage, 3, execADC)
	add(0x75, "ADC", modeZeroPageX, 4, execADC)
	add(0x6D, "ADC", modeAbsolute, 4, execADC)
	add(0x7D, "ADC", modeAbsoluteX, 4, execADC)
	add(0x79, "ADC", modeAbsoluteY, 4, execADC)
	add(0x61, "ADC", modeZeroPageIndirectX, 6, execADC)
	add(0x71, "ADC", modeZeroPageIndirectY, 5, execADC)
	add(0x72, "ADC", modeZeroPageIndirect, 5, execADC)

	add(0xE9, "SBC", modeImmediate, 2, execSBC)
	add(0xE5, "SBC", modeZeroPage, 3, execSBC)
	add(0xF5, "SBC", modeZeroPageX, 4, execSBC)
	add(0xED, "SBC", modeAbsolute, 4, execSBC)
	add(0xFD, "SBC", modeAbsoluteX, 4, execSBC)
	add(0xF9, "SBC", modeAbsoluteY, 4, execSBC)
	add(0xE1, "SBC", modeZeroPageIndirectX, 6, execSBC)
	add(0xF1, "SBC", modeZeroPageIndirectY, 5, execSBC)
	add(0xF2, "SBC", modeZeroPageIndirect, 5, execSBC)

	add(0xE6, "INC", modeZeroPage, 5, execINC)
	add(0xF6, "INC", modeZeroPageX, 6, execINC)
	add(0xEE, "INC", modeAbsolute, 6, execINC)
	add(0xFE, "INC", modeAbsoluteX, 7, execINC)
	add(0x1A, "INC", modeAccumulator, 2, execINC)

	add(0xC6, "DEC", modeZeroPage, 5, execDEC)
	add(0xD6, "DEC", modeZeroPageX, 6, execDEC)
	add(0xCE, "DEC", modeAbsolute, 6, execDEC)
	add(0xDE, "DEC", modeAbsoluteX, 7, execDEC)
	add(0x3A, "DEC", modeAccumulator, 2, execDEC)

	add(0xE8, "INX", modeImplied, 2, execINX)
	add(0xC8, "INY", modeImplied, 2, execINY)
	add(0xCA, "DEX", modeImplied, 2, execDEX)
	add(0x88, "DEY", modeImplied, 2, execDEY)

	// Logic.
	add(0x29, "AND", modeImmediate, 2, execAND)
	add(0x25, "AND", modeZeroPage, 3, execAND)
	add(0x35, "AND", modeZeroPageX, 4, execAND)
	add(0x2D, "AND", modeAbsolute, 4, execAND)
	add(0x3D, "AND", modeAbsoluteX, 4, execAND)
	add(0x39, "AND", modeAbsoluteY, 4, execAND)
	add(0x21, "AND", modeZeroPageIndirectX, 6, execAND)
	add(0x31, "AND", modeZeroPageIndirectY, 5, execAND)
	add(0x32, "AND", modeZeroPageIndirect, 5, execAND)

	add(0x09, "ORA", modeImmediate, 2, execORA)
	add(0x05, "ORA", modeZeroPage, 3, execORA)
	add(0x15, "ORA", modeZeroPageX, 4, execORA)
	add(0x0D, "ORA", modeAbsolute, 4, execORA)
	add(0x1D, "ORA", modeAbsoluteX, 4, execORA)
	add(0x19, "ORA", modeAbsoluteY, 4, execORA)
	add(0x01, "ORA", modeZeroPageIndirectX, 6, execORA)
	add(0x11, "ORA", modeZeroPageIndirectY, 5, execORA)
	add(0x12, "ORA", modeZeroPageIndirect, 5, execORA)

	add(0x49, "EOR", modeImmediate, 2, execEOR)
	add(0x45, "EOR", modeZeroPage, 3, execEOR)
	add(0x55, "EOR", modeZeroPageX, 4, execEOR)
	add(0x4D, "EOR", modeAbsolute, 4, execEOR)
	add(0x5D, "EOR", modeAbsoluteX, 4, execEOR)
	add(0x59, "EOR", modeAbsoluteY, 4, execEOR)
	add(0x41, "EOR", modeZeroPageIndirectX, 6, execEOR)
	add(0x51, "EOR", modeZeroPageIndirectY, 5, execEOR)
	add(0x52, "EOR", modeZeroPageIndirect, 5, execEOR)

	add(0x89, "BIT", modeImmediate, 2, execBIT)
	add(0x24, "BIT", modeZeroPage, 3, execBIT)
	add(0x34, "BIT", modeZeroPageX, 4, execBIT)
	add(0x2C, "BIT", modeAbsolute, 4, execBIT)
	add(0x3C, "BIT", modeAbsoluteX, 4, execBIT)

	// Compares.
	add(0xC9, "CMP", modeImmediate, 2, execCMP)
	add(0xC5, "CMP", modeZeroPage, 3, execCMP)
	add(0xD5, "CMP", modeZeroPageX, 4, execCMP)
	add(0xCD, "CMP", modeAbsolute, 4, execCMP)
	add(0xDD, "CMP", modeAbsoluteX, 4, execCMP)
	add(0xD9, "CMP", modeAbsoluteY, 4, execCMP)
	add(0xC1, "CMP", modeZeroPageIndirectX, 6, execCMP)
	add(0xD1, "CMP", modeZeroPageIndirectY, 5, execCMP)
	add(0xD2, "CMP", modeZeroPageIndirect, 5, execCMP)

	add(0xE0, "CPX", modeImmediate, 2, execCPX)
	add(0xE4, "CPX", modeZeroPage, 3, execCPX)
	add(0xEC, "CPX", modeAbsolute, 4, execCPX)

	add(0xC0, "CPY", modeImmediate, 2, execCPY)
	add(0xC4, "CPY", modeZeroPage, 3, execCPY)
	add(0xCC, "CPY", modeAbsolute, 4, execCPY)

	// Shifts.
	add(0x0A, "ASL", modeAccumulator, 2, execASL)
	add(0x06, "ASL", modeZeroPage, 5, execASL)
	add(0x16, "ASL", modeZeroPageX, 6, execASL)
	add(0x0E, "ASL", modeAbsolute, 6, execASL)
	add(0x1E, "ASL", modeAbsoluteX, 7, execASL)

	add(0x4A, "LSR", modeAccumulator, 2, execLSR)
	add(0x46, "LSR", modeZeroPage, 5, execLSR)
	add(0x56, "LSR", modeZeroPageX, 6, execLSR)
	add(0x4E, "LSR", modeAbsolute, 6, execLSR)
	add(0x5E, "LSR", modeAbsoluteX, 7, execLSR)

	add(0x2A, "ROL", modeAccumulator, 2, execROL)
	add(0x26, "ROL", modeZeroPage, 5, execROL)
	add(0x36, "ROL", modeZeroPageX, 6, execROL)
	add(0x2E, "ROL", modeAbsolute, 6, execROL)
	add(0x3E, "ROL", modeAbsoluteX, 7, execROL)

	add(0x6A, "ROR", modeAccumulator, 2, execROR)
	add(0x66, "ROR", modeZeroPage, 5, execROR)
	add(0x76, "ROR", modeZeroPageX, 6, execROR)
	add(0x6E, "ROR", modeAbsolute, 6, execROR)
	add(0x7E, "ROR", modeAbsoluteX, 7, execROR)

	// Test/reset/set bits (65C02 extension).
	add(0x04, "TSB", modeZeroPage, 5, execTSB)
	add(0x0C, "TSB", modeAbsolute, 6, execTSB)
	add(0x14, "TRB", modeZeroPage, 5, execTRB)
	add(0x1C, "TRB", modeAbsolute, 6, execTRB)

	for bit := 0; bit < 8; bit++ {
		bit := bit
		t[byte(0x07|bit<<4)] = opInfo{mnemonic: "RMB", mode: modeZeroPage, cycles: 5, bit: bit, exec: execRMB}
		t[byte(0x87|bit<<4)] = opInfo{mnemonic: "SMB", mode: modeZeroPage, cycles: 5, bit: bit, exec: execSMB}
		t[byte(0x0F|bit<<4)] = opInfo{mnemonic: "BBR", mode: modeZeroPageRelative, cycles: 5, bit: bit, exec: execBBR}
		t[byte(0x8F|bit<<4)] = opInfo{mnemonic: "BBS", mode: modeZeroPageRelative, cycles: 5, bit: bit, exec: execBBS}
	}

	// Register transfers.
	add(0xAA, "TAX", modeImplied, 2, execTAX)
	add(0x8A, "TXA", modeImplied, 2, execTXA)
	add(0xA8, "TAY", modeImplied, 2, execTAY)
	add(0x98, "TYA", modeImplied, 2, execTYA)
	add(0xBA, "TSX", modeImplied, 2, execTSX)
	add(0x9A, "TXS", modeImplied, 2, execTXS)

	// Stack.
	add(0x48, "PHA", modeImplied, 3, execPHA)
	add(0x68, "PLA", modeImplied, 4, execPLA)
	add(0xDA, "PHX", modeImplied, 3, execPHX)
	add(0xFA, "PLX", modeImplied, 4, execPLX)
	add(0x5A, "PHY", modeImplied, 3, execPHY)
	add(0x7A, "PLY", modeImplied, 4, execPLY)
	add(0x08, "PHP", modeImplied, 3, execPHP)
	add(0x28, "PLP", modeImplied, 4, execPLP)

	// Control flow.
	add(0x4C, "JMP", modeAbsolute, 3, execJMP)
	add(0x6C, "JMP", modeAbsoluteIndirect, 5, execJMP)
	add(0x7C, "JMP", modeAbsoluteIndirectX, 6, execJMP)
	add(0x20, "JSR", modeAbsolute, 6, execJSR)
	add(0x60, "RTS", modeImplied, 6, execRTS)
	add(0x40, "RTI", modeImplied, 6, execRTI)
	add(0x00, "BRK", modeImplied, 7, execBRK)

	// Branches.
	add(0x10, "BPL", modeRelative, 2, execBPL)
	add(0x30, "BMI", modeRelative, 2, execBMI)
	add(0x50, "BVC", modeRelative, 2, execBVC)
	add(0x70, "BVS", modeRelative, 2, execBVS)
	add(0x90, "BCC", modeRelative, 2, execBCC)
	add(0xB0, "BCS", modeRelative, 2, execBCS)
	add(0xD0, "BNE", modeRelative, 2, execBNE)
	add(0xF0, "BEQ", modeRelative, 2, execBEQ)
	add(0x80, "BRA", modeRelative, 3, execBRA)

	// Flags.
	add(0x18, "CLC", modeImplied, 2, execCLC)
	add(0x38, "SEC", modeImplied, 2, execSEC)
	add(0x58, "CLI", modeImplied, 2, execCLI)
	add(0x78, "SEI", modeImplied, 2, execSEI)
	add(0xB8, "CLV", modeImplied, 2, execCLV)
	add(0xD8, "CLD", modeImplied, 2, execCLD)
	add(0xF8, "SED", modeImplied, 2, execSED)

	add(0xEA, "NOP", modeImplied, 2, execNOP)
	add(0xCB, "WAI", modeImplied, 3, execWAI)
	add(0xDB, "STP", modeImplied, 3, execSTP)

	return t
}

func execLDA(c *CPU, i opInfo) error { c.A = c.load(i.mode); c.setZN(c.A); return nil }
func execLDX(c *CPU, i opInfo) error { c.X = c.load(i.mode); c.setZN(c.X); return nil }
func execLDY(c *CPU, i opInfo) error { c.Y = c.load(i.mode); c.setZN(c.Y); return nil }

func execSTA(c *CPU, i opInfo) error { return c.Mem.Write8(c.operandAddr(i.mode), c.A) }
func execSTX(c *CPU, i opInfo) error { return c.Mem.Write8(c.operandAddr(i.mode), c.X) }
func execSTY(c *CPU, i opInfo) error { return c.Mem.Write8(c.operandAddr(i.mode), c.Y) }
func execSTZ(c *CPU, i opInfo) error { return c.Mem.Write8(c.operandAddr(i.mode), 0) }

func execADC(c *CPU, i opInfo) error { c.adc(c.load(i.mode)); return nil }
func execSBC(c *CPU, i opInfo) error { c.sbc(c.load(i.mode)); return nil }

func execINC(c *CPU, i opInfo) error {
	if i.mode == modeAccumulator {
		c.A++
		c.setZN(c.A)
		return nil
	}
	addr := c.operandAddr(i.mode)
	v := c.Mem.Read8(addr) + 1
	if err := c.Mem.Write8(addr, v); err != nil {
		return err
	}
	c.setZN(v)
	return nil
}

func execDEC(c *CPU, i opInfo) error {
	if i.mode == modeAccumulator {
		c.A--
		c.setZN(c.A)
		return nil
	}
	addr := c.operandAddr(i.mode)
	v := c.Mem.Read8(addr) - 1
	if err := c.Mem.Write8(addr, v); err != nil {
		return err
	}
	c.setZN(v)
	return nil
}

func execINX(c *CPU, i opInfo) error { c.X++; c.setZN(c.X); return nil }
func execINY(c *CPU, i opInfo) error { c.Y++; c.setZN(c.Y); return nil }
func execDEX(c *CPU, i opInfo) error { c.X--; c.setZN(c.X); return nil }
func execDEY(c *CPU, i opInfo) error { c.Y--; c.setZN(c.Y); return nil }

func execAND(c *CPU, i opInfo) error { c.A &= c.load(i.mode); c.setZN(c.A); return nil }
func execORA(c *CPU, i opInfo) error { c.A |= c.load(i.mode); c.setZN(c.A); return nil }
func execEOR(c *CPU, i opInfo) error { c.A ^= c.load(i.mode); c.setZN(c.A); return nil }

func execBIT(c *CPU, i opInfo) error {
	v := c.load(i.mode)
	c.Z = c.A&v == 0
	if i.mode != modeImmediate {
		c.N = v&0x80 != 0
		c.V = v&0x40 != 0
	}
	return nil
}

func compare(c *CPU, reg, v byte) {
	c.C = reg >= v
	c.setZN(reg - v)
}

func execCMP(c *CPU, i opInfo) error { compare(c, c.A, c.load(i.mode)); return nil }
func execCPX(c *CPU, i opInfo) error { compare(c, c.X, c.load(i.mode)); return nil }
func execCPY(c *CPU, i opInfo) error { compare(c, c.Y, c.load(i.mode)); return nil }

func execASL(c *CPU, i opInfo) error {
	if i.mode == modeAccumulator {
		c.C = c.A&0x80 != 0
		c.A <<= 1
		c.setZN(c.A)
		return nil
	}
	addr := c.operandAddr(i.mode)
	v := c.Mem.Read8(addr)
	c.C = v&0x80 != 0
	v <<= 1
	if err := c.Mem.Write8(addr, v); err != nil {
		return err
	}
	c.setZN(v)
	return nil
}

func execLSR(c *CPU, i opInfo) error {
	if i.mode == modeAccumulator {
		c.C = c.A&0x01 != 0
		c.A >>= 1
		c.setZN(c.A)
		return nil
	}
	addr := c.operandAddr(i.mode)
	v := c.Mem.Read8(addr)
	c.C = v&0x01 != 0
	v >>= 1
	if err := c.Mem.Write8(addr, v); err != nil {
		return err
	}
	c.setZN(v)
	return nil
}

func execROL(c *CPU, i opInfo) error {
	oldCarry := byte(0)
	if c.C {
		oldCarry = 1
	}
	if i.mode == modeAccumulator {
		c.C = c.A&0x80 != 0
		c.A = c.A<<1 | oldCarry
		c.setZN(c.A)
		return nil
	}
	addr := c.operandAddr(i.mode)
	v := c.Mem.Read8(addr)
	c.C = v&0x80 != 0
	v = v<<1 | oldCarry
	if err := c.Mem.Write8(addr, v); err != nil {
		return err
	}
	c.setZN(v)
	return nil
}

func execROR(c *CPU, i opInfo) error {
	oldCarry := byte(0)
	if c.C {
		oldCarry = 0x80
	}
	if i.mode == modeAccumulator {
		c.C = c.A&0x01 != 0
		c.A = c.A>>1 | oldCarry
		c.setZN(c.A)
		return nil
	}
	addr := c.operandAddr(i.mode)
	v := c.Mem.Read8(addr)
	c.C = v&0x01 != 0
	v = v>>1 | oldCarry
	if err := c.Mem.Write8(addr, v); err != nil {
		return err
	}
	c.setZN(v)
	return nil
}

func execTSB(c *CPU, i opInfo) error {
	addr := c.operandAddr(i.mode)
	v := c.Mem.Read8(addr)
	c.Z = c.A&v == 0
	return c.Mem.Write8(addr, v|c.A)
}

func execTRB(c *CPU, i opInfo) error {
	addr := c.operandAddr(i.mode)
	v := c.Mem.Read8(addr)
	c.Z = c.A&v == 0
	return c.Mem.Write8(addr, v&^c.A)
}

func execRMB(c *CPU, i opInfo) error {
	addr := c.operandAddr(modeZeroPage)
	v := c.Mem.Read8(addr)
	return c.Mem.Write8(addr, v&^(1<<uint(i.bit)))
}

func execSMB(c *CPU, i opInfo) error {
	addr := c.operandAddr(modeZeroPage)
	v := c.Mem.Read8(addr)
	return c.Mem.Write8(addr, v|(1<<uint(i.bit)))
}

func execBBR(c *CPU, i opInfo) error {
	zp := c.fetch8()
	v := c.Mem.Read8(uint16(zp))
	target := c.branchTarget()
	if v&(1<<uint(i.bit)) == 0 {
		c.PC = target
	}
	return nil
}

func execBBS(c *CPU, i opInfo) error {
	zp := c.fetch8()
	v := c.Mem.Read8(uint16(zp))
	target := c.branchTarget()
	if v&(1<<uint(i.bit)) != 0 {
		c.PC = target
	}
	return nil
}

func execTAX(c *CPU, i opInfo) error { c.X = c.A; c.setZN(c.X); return nil }
func execTXA(c *CPU, i opInfo) error { c.A = c.X; c.setZN(c.A); return nil }
func execTAY(c *CPU, i opInfo) error { c.Y = c.A; c.setZN(c.Y); return nil }
func execTYA(c *CPU, i opInfo) error { c.A = c.Y; c.setZN(c.A); return nil }
func execTSX(c *CPU, i opInfo) error { c.X = c.SP; c.setZN(c.X); return nil }
func execTXS(c *CPU, i opInfo) error { c.SP = c.X; return nil }

func execPHA(c *CPU, i opInfo) error { c.push8(c.A); return nil }
func execPLA(c *CPU, i opInfo) error { c.A = c.pop8(); c.setZN(c.A); return nil }
func execPHX(c *CPU, i opInfo) error { c.push8(c.X); return nil }
func execPLX(c *CPU, i opInfo) error { c.X = c.pop8(); c.setZN(c.X); return nil }
func execPHY(c *CPU, i opInfo) error { c.push8(c.Y); return nil }
func execPLY(c *CPU, i opInfo) error { c.Y = c.pop8(); c.setZN(c.Y); return nil }
func execPHP(c *CPU, i opInfo) error { c.push8(c.packFlags(true)); return nil }
func execPLP(c *CPU, i opInfo) error { c.unpackFlags(c.pop8()); return nil }

func execJMP(c *CPU, i opInfo) error {
	switch i.mode {
	case modeAbsolute:
		c.PC = c.fetch16()
	case modeAbsoluteIndirect:
		ptr := c.fetch16()
		lo := c.Mem.Read8(ptr)
		hi := c.Mem.Read8(ptr + 1)
		c.PC = uint16(hi)<<8 | uint16(lo)
	case modeAbsoluteIndirectX:
		ptr := c.fetch16() + uint16(c.X)
		lo := c.Mem.Read8(ptr)
		hi := c.Mem.Read8(ptr + 1)
		c.PC = uint16(hi)<<8 | uint16(lo)
	}
	return nil
}

func execJSR(c *CPU, i opInfo) error {
	addr := c.fetch16()
	c.push16(c.PC - 1)
	c.PC = addr
	return nil
}

func execRTS(c *CPU, i opInfo) error { c.PC = c.pop16() + 1; return nil }

func execRTI(c *CPU, i opInfo) error {
	c.unpackFlags(c.pop8())
	c.PC = c.pop16()
	return nil
}

func execBRK(c *CPU, i opInfo) error {
	c.fetch8() // BRK's signature byte, conventionally ignored
	c.push16(c.PC)
	c.push8(c.packFlags(true))
	c.I = true
	c.D = false
	lo := c.Mem.Read8(0xFFFE)
	hi := c.Mem.Read8(0xFFFF)
	c.PC = uint16(hi)<<8 | uint16(lo)
	return nil
}

func execBPL(c *CPU, i opInfo) error { t := c.branchTarget(); if !c.N { c.PC = t }; return nil }
func execBMI(c *CPU, i opInfo) error { t := c.branchTarget(); if c.N { c.PC = t }; return nil }
func execBVC(c *CPU, i opInfo) error { t := c.branchTarget(); if !c.V { c.PC = t }; return nil }
func execBVS(c *CPU, i opInfo) error { t := c.branchTarget(); if c.V { c.PC = t }; return nil }
func execBCC(c *CPU, i opInfo) error { t := c.branchTarget(); if !c.C { c.PC = t }; return nil }
func execBCS(c *CPU, i opInfo) error { t := c.branchTarget(); if c.C { c.PC = t }; return nil }
func execBNE(c *CPU, i opInfo) error { t := c.branchTarget(); if !c.Z { c.PC = t }; return nil }
func execBEQ(c *CPU, i opInfo) error { t := c.branchTarget(); if c.Z { c.PC = t }; return nil }
func execBRA(c *CPU, i opInfo) error { c.PC = c.branchTarget(); return nil }

func execCLC(c *CPU, i opInfo) error { c.C = false; return nil }
func execSEC(c *CPU, i opInfo) error { c.C = true; return nil }
func execCLI(c *CPU, i opInfo) error { c.I = false; return nil }
func execSEI(c *CPU, i opInfo) error { c.I = true; return nil }
func execCLV(c *CPU, i opInfo) error { c.V = false; return nil }
func execCLD(c *CPU, i opInfo) error { c.D = false; return nil }
func execSED(c *CPU, i opInfo) error { c.D = true; return nil }

func execNOP(c *CPU, i opInfo) error { return nil }
func execWAI(c *CPU, i opInfo) error { c.Waiting = true; return nil }
func execSTP(c *CPU, i opInfo) error { c.Stopped = true; return nil }
