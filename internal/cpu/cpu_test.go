package cpu

import "testing"

type mockMemory struct {
	ram [65536]byte
}

func (m *mockMemory) Read8(addr uint16) uint8        { return m.ram[addr] }
func (m *mockMemory) Write8(addr uint16, v uint8) error { m.ram[addr] = v; return nil }

func newTestCPU() (*CPU, *mockMemory) {
	mem := &mockMemory{}
	return New(mem, nil), mem
}

func (m *mockMemory) load(addr uint16, prog ...byte) {
	copy(m.ram[addr:], prog)
}

func TestLDAImmediateSetsFlags(t *testing.T) {
	c, mem := newTestCPU()
	mem.load(0, 0xA9, 0x00) // LDA #$00
	c.SetPC(0)
	if _, err := c.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if !c.Z || c.N {
		t.Errorf("Z=%v N=%v, want Z=true N=false for LDA #0", c.Z, c.N)
	}

	mem.load(0, 0xA9, 0x80) // LDA #$80
	c.SetPC(0)
	c.Step()
	if c.Z || !c.N {
		t.Errorf("Z=%v N=%v, want Z=false N=true for LDA #$80", c.Z, c.N)
	}
}

func TestADCDecimalMode(t *testing.T) {
	c, mem := newTestCPU()
	c.D = true
	c.A = 0x58 // 58 BCD
	c.C = false
	mem.load(0, 0x69, 0x46) // ADC #$46 (46 BCD) -> 104 decimal -> 0x04 with carry
	c.SetPC(0)
	if _, err := c.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if c.A != 0x04 {
		t.Errorf("A = 0x%02X, want 0x04 (58+46=104 BCD)", c.A)
	}
	if !c.C {
		t.Error("expected carry set for 58+46 BCD overflowing 99")
	}
}

func TestSBCDecimalMode(t *testing.T) {
	c, mem := newTestCPU()
	c.D = true
	c.A = 0x50
	c.C = true // no borrow going in
	mem.load(0, 0xE9, 0x25) // SBC #$25 -> 50-25=25 BCD
	c.SetPC(0)
	if _, err := c.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if c.A != 0x25 {
		t.Errorf("A = 0x%02X, want 0x25 (50-25=25 BCD)", c.A)
	}
}

func TestBBRBranchesWhenBitClear(t *testing.T) {
	c, mem := newTestCPU()
	mem.ram[0x10] = 0x00 // bit 0 clear
	// BBR0 $10, +5
	mem.load(0, 0x0F, 0x10, 0x05)
	c.SetPC(0)
	if _, err := c.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	want := uint16(3 + 5)
	if c.PC != want {
		t.Errorf("PC = 0x%04X, want 0x%04X", c.PC, want)
	}
}

func TestBBSDoesNotBranchWhenBitClear(t *testing.T) {
	c, mem := newTestCPU()
	mem.ram[0x10] = 0x00
	mem.load(0, 0x8F, 0x10, 0x05) // BBS0 $10, +5
	c.SetPC(0)
	c.Step()
	if c.PC != 3 {
		t.Errorf("PC = 0x%04X, want 3 (no branch)", c.PC)
	}
}

func TestRMBAndSMB(t *testing.T) {
	c, mem := newTestCPU()
	mem.ram[0x20] = 0xFF
	mem.load(0, 0x27, 0x20) // RMB2 $20
	c.SetPC(0)
	c.Step()
	if mem.ram[0x20] != 0xFB {
		t.Errorf("after RMB2, ram[0x20] = 0x%02X, want 0xFB", mem.ram[0x20])
	}

	mem.ram[0x21] = 0x00
	mem.load(2, 0x97, 0x21) // SMB1 $21
	c.SetPC(2)
	c.Step()
	if mem.ram[0x21] != 0x02 {
		t.Errorf("after SMB1, ram[0x21] = 0x%02X, want 0x02", mem.ram[0x21])
	}
}

func TestPHPPLPRoundTripsFlags(t *testing.T) {
	c, mem := newTestCPU()
	c.SP = 0xFF
	c.N, c.V, c.D, c.I, c.Z, c.C = true, true, true, false, false, true
	mem.load(0, 0x08) // PHP
	c.SetPC(0)
	c.Step()

	c.N, c.V, c.D, c.I, c.Z, c.C = false, false, false, true, true, false
	mem.load(1, 0x28) // PLP
	c.SetPC(1)
	c.Step()

	if !c.N || !c.V || !c.D || c.I || c.Z || !c.C {
		t.Errorf("flags after PLP = N=%v V=%v D=%v I=%v Z=%v C=%v, want true true true false false true",
			c.N, c.V, c.D, c.I, c.Z, c.C)
	}
}

func TestWAIResumesOnIRQ(t *testing.T) {
	c, mem := newTestCPU()
	mem.load(0, 0xCB) // WAI
	c.SetPC(0)
	c.Step()
	if !c.Waiting {
		t.Fatal("expected Waiting after WAI")
	}

	mem.ram[0xFFFE] = 0x00
	mem.ram[0xFFFF] = 0x80
	c.I = false
	c.TriggerIRQ(0xFFFE)
	if c.Waiting {
		t.Error("expected Waiting cleared after TriggerIRQ")
	}
	if c.PC != 0x8000 {
		t.Errorf("PC = 0x%04X after IRQ, want 0x8000", c.PC)
	}
}

func TestJSRRTSRoundTrip(t *testing.T) {
	c, mem := newTestCPU()
	c.SP = 0xFF
	mem.load(0x8000, 0x20, 0x00, 0x90) // JSR $9000
	mem.load(0x9000, 0x60)            // RTS
	c.SetPC(0x8000)
	if _, err := c.Step(); err != nil { // JSR
		t.Fatalf("JSR: %v", err)
	}
	if c.PC != 0x9000 {
		t.Fatalf("PC after JSR = 0x%04X, want 0x9000", c.PC)
	}
	if _, err := c.Step(); err != nil { // RTS
		t.Fatalf("RTS: %v", err)
	}
	if c.PC != 0x8003 {
		t.Errorf("PC after RTS = 0x%04X, want 0x8003", c.PC)
	}
}

func TestIllegalOpcodeReturnsError(t *testing.T) {
	c, mem := newTestCPU()
	mem.ram[0] = 0xFF // undefined
	delete(opcodeTable, 0xFF)
	c.SetPC(0)
	if _, err := c.Step(); err == nil {
		t.Fatal("expected an error for an illegal opcode")
	}
}
