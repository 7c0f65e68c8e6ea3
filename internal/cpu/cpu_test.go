package cpu

import (
	"testing"

	"github.com/valerio/psxcore/internal/gte"
)

// fakeBus is a flat 64 KiB RAM used only to exercise the CPU interpreter in
// isolation from the real bus/DMA wiring.
type fakeBus struct {
	mem [0x10000]byte
}

func (b *fakeBus) LoadWord(addr uint32) uint32 {
	a := addr & 0xFFFF
	return uint32(b.mem[a]) | uint32(b.mem[a+1])<<8 | uint32(b.mem[a+2])<<16 | uint32(b.mem[a+3])<<24
}
func (b *fakeBus) LoadHalf(addr uint32) uint16 {
	a := addr & 0xFFFF
	return uint16(b.mem[a]) | uint16(b.mem[a+1])<<8
}
func (b *fakeBus) LoadByte(addr uint32) uint8 { return b.mem[addr&0xFFFF] }
func (b *fakeBus) StoreWord(addr uint32, v uint32) {
	a := addr & 0xFFFF
	b.mem[a] = byte(v)
	b.mem[a+1] = byte(v >> 8)
	b.mem[a+2] = byte(v >> 16)
	b.mem[a+3] = byte(v >> 24)
}
func (b *fakeBus) StoreHalf(addr uint32, v uint16) {
	a := addr & 0xFFFF
	b.mem[a] = byte(v)
	b.mem[a+1] = byte(v >> 8)
}
func (b *fakeBus) StoreByte(addr uint32, v uint8) { b.mem[addr&0xFFFF] = v }

func newTestCPU() (*CPU, *fakeBus) {
	bus := &fakeBus{}
	c := New(bus, gte.New(), nil)
	c.SetPC(0)
	return c, bus
}

func encodeI(op, rs, rt uint32, imm uint16) uint32 {
	return op<<26 | rs<<21 | rt<<16 | uint32(imm)
}
func encodeR(rs, rt, rd, shamt, funct uint32) uint32 {
	return rs<<21 | rt<<16 | rd<<11 | shamt<<6 | funct
}

func TestADDIOverflowExceptionScenario(t *testing.T) {
	c, bus := newTestCPU()
	c.SetGPR(1, 0x7FFFFFFF)
	bus.StoreWord(0, encodeI(0x08, 1, 2, 1)) // ADDI r2, r1, 1

	c.Step()

	if c.GPR(2) != 0 {
		t.Fatalf("GPR2 = %#x, want unchanged (0)", c.GPR(2))
	}
	if c.COP0(regEPC) != 0 {
		t.Fatalf("EPC = %#x, want 0 (pc of ADDI)", c.COP0(regEPC))
	}
	excCode := (c.COP0(regCause) >> 2) & 0x1F
	if excCode != 12 {
		t.Fatalf("Cause exc code = %d, want 12 (Ov)", excCode)
	}
	if c.PC() != exceptionVector {
		t.Fatalf("PC = %#x, want exception vector", c.PC())
	}
}

func TestBEQTakenWithDelaySlot(t *testing.T) {
	c, bus := newTestCPU()
	bus.StoreWord(0, encodeI(0x04, 0, 0, 3))          // BEQ r0,r0,+3 (words) -> target = pc+4+12 = 0x10
	bus.StoreWord(4, encodeI(0x0D, 0, 5, 0x1234))      // ORI r5,r0,0x1234 (delay slot)
	bus.StoreWord(8, encodeI(0x0D, 0, 5, 0xDEAD))      // ORI r5,r0,0xDEAD (should not execute yet)
	bus.StoreWord(0x10, encodeI(0x0D, 0, 6, 0x1)) // sentinel at branch target

	c.Step() // BEQ: sets branchTaken, nextPC = 0x10
	c.Step() // delay slot ORI r5,r0,0x1234 executes; then pc becomes 0x10

	if c.GPR(5) != 0x1234 {
		t.Fatalf("GPR5 = %#x, want 0x1234", c.GPR(5))
	}
	if c.PC() != 0x10 {
		t.Fatalf("PC = %#x, want 0x10", c.PC())
	}
}

func TestLWLLWRComplementarity(t *testing.T) {
	c, bus := newTestCPU()
	const base = 0x200
	bus.StoreWord(base, 0x11223344)

	c.SetGPR(1, base)
	c.SetGPR(2, 0xAABBCCDD) // value to store via SWL/SWR
	// SWL r2, 0(r1) ; SWR r2, 0(r1) should fully overwrite the word.
	bus.StoreWord(0x1000, encodeI(0x2A, 1, 2, 0)) // SWL
	bus.StoreWord(0x1004, encodeI(0x2E, 1, 2, 0)) // SWR
	c.SetPC(0x1000)
	c.Step()
	c.Step()

	if got := bus.LoadWord(base); got != 0xAABBCCDD {
		t.Fatalf("word at base after SWL;SWR = %#x, want 0xAABBCCDD", got)
	}

	// Now LWL r3,0(r1) ; LWR r3,0(r1) should reproduce it in r3.
	bus.StoreWord(0x1008, encodeI(0x22, 1, 3, 0)) // LWL
	bus.StoreWord(0x100C, encodeI(0x26, 1, 3, 0)) // LWR
	c.SetPC(0x1008)
	c.Step()
	c.Step()

	if c.GPR(3) != 0xAABBCCDD {
		t.Fatalf("GPR3 = %#x, want 0xAABBCCDD", c.GPR(3))
	}
}

func TestStoreLoadRoundTrip(t *testing.T) {
	c, bus := newTestCPU()
	c.SetGPR(1, 0x300)
	c.SetGPR(2, 0xCAFEBABE)
	bus.StoreWord(0, encodeI(0x2B, 1, 2, 0)) // SW r2, 0(r1)
	bus.StoreWord(4, encodeI(0x23, 1, 3, 0)) // LW r3, 0(r1)
	c.Step()
	c.Step()
	if c.GPR(3) != 0xCAFEBABE {
		t.Fatalf("GPR3 = %#x, want 0xCAFEBABE", c.GPR(3))
	}
}

func TestGPR0AlwaysZero(t *testing.T) {
	c, bus := newTestCPU()
	bus.StoreWord(0, encodeI(0x0D, 0, 0, 0xFFFF)) // ORI r0,r0,0xFFFF
	c.Step()
	if c.GPR(0) != 0 {
		t.Fatalf("GPR0 = %#x, want 0", c.GPR(0))
	}
}

func TestReservedInstructionExceptionFlag(t *testing.T) {
	c, bus := newTestCPU()
	bus.StoreWord(0, 0xFC000000) // opcode 0x3F, unassigned
	c.Step()
	if !c.LastExceptionWasRI() {
		t.Fatal("expected LastExceptionWasRI() true")
	}
}

func TestJALRLinksAndJumps(t *testing.T) {
	c, bus := newTestCPU()
	c.SetGPR(4, 0x400)
	bus.StoreWord(0, encodeR(4, 0, 31, 0, 0x09)) // JALR r31, r4
	bus.StoreWord(4, encodeI(0x0D, 0, 0, 0))     // NOP-ish delay slot
	c.Step()
	c.Step()
	if c.GPR(31) != 8 {
		t.Fatalf("GPR31 = %#x, want 8 (pc+8)", c.GPR(31))
	}
	if c.PC() != 0x400 {
		t.Fatalf("PC = %#x, want 0x400", c.PC())
	}
}
