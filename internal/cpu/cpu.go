// Package cpu implements the LSI LR33300 (MIPS-I) interpreter: fetch,
// decode and execute one instruction per call to Step, including branch
// delay slots, the COP0 system control registers, and dispatch into the
// GTE (COP2) coprocessor.
package cpu

import (
	"log/slog"

	"github.com/valerio/psxcore/internal/gte"
)

// Bus is the minimal memory-mapped interconnect the CPU needs: word,
// halfword and byte loads/stores over the 29-bit physical address space
// (the CPU itself applies the KUSEG/KSEG0/KSEG1 mask before calling in, see
// Translate).
type Bus interface {
	LoadWord(addr uint32) uint32
	LoadHalf(addr uint32) uint16
	LoadByte(addr uint32) uint8
	StoreWord(addr uint32, v uint32)
	StoreHalf(addr uint32, v uint16)
	StoreByte(addr uint32, v uint8)
}

// CPU holds all LR33300 architectural state.
type CPU struct {
	bus Bus
	gte *gte.GTE
	log *slog.Logger

	pc     uint32
	nextPC uint32
	gpr    [32]uint32
	hi, lo uint32
	cop0   [32]uint32

	branchTaken bool // set by a taken branch/jump; becomes next step's delay-slot flag
	inDelaySlot bool // true while executing the instruction after a taken branch

	BreakOnException bool // host-selectable setting; nothing in this package reads it, so only RI is reported (LastExceptionWasRI)
	lastExceptionWasRI bool
}

// New creates a CPU wired to bus and gte, with PC at the BIOS reset vector.
func New(bus Bus, g *gte.GTE, log *slog.Logger) *CPU {
	if log == nil {
		log = slog.Default()
	}
	c := &CPU{bus: bus, gte: g, log: log}
	c.Reset()
	return c
}

// Reset restores the CPU to its power-on state.
func (c *CPU) Reset() {
	c.pc = 0xBFC00000
	c.nextPC = c.pc + 4
	c.gpr = [32]uint32{}
	c.hi, c.lo = 0, 0
	c.cop0 = [32]uint32{}
	c.cop0[regSR] = 0
	c.branchTaken = false
	c.inDelaySlot = false
	c.lastExceptionWasRI = false
}

// PC returns the program counter of the next instruction to fetch.
func (c *CPU) PC() uint32 { return c.pc }

// SetPC forcibly redirects fetch (used by the EXE side-loader contract).
func (c *CPU) SetPC(pc uint32) {
	c.pc = pc
	c.nextPC = pc + 4
}

// GPR returns the value of general register i (0..31); GPR0 always 0.
func (c *CPU) GPR(i uint32) uint32 { return c.gpr[i&0x1F] }

// SetGPR writes general register i; writes to GPR0 are dropped.
func (c *CPU) SetGPR(i uint32, v uint32) { c.setGPR(i&0x1F, v) }

// COP0 returns the raw value of COP0 register i.
func (c *CPU) COP0(i uint32) uint32 { return c.cop0[i&0x1F] }

// SetCOP0 writes COP0 register i directly (used by tests and the debugger).
func (c *CPU) SetCOP0(i uint32, v uint32) { c.cop0[i&0x1F] = v }

// InDelaySlot reports whether the instruction about to execute is in a
// branch delay slot.
func (c *CPU) InDelaySlot() bool { return c.inDelaySlot }

// SetIRQ latches the bus's aggregated interrupt line into Cause bit 10.
func (c *CPU) SetIRQ(pending bool) {
	if pending {
		c.cop0[regCause] |= 1 << 10
	} else {
		c.cop0[regCause] &^= 1 << 10
	}
}

// LastExceptionWasRI reports whether the most recently taken exception was
// Reserved Instruction — per spec.md §7 this should terminate the host's
// run loop unconditionally.
func (c *CPU) LastExceptionWasRI() bool { return c.lastExceptionWasRI }

// Translate applies the fixed KUSEG/KSEG0/KSEG1 top-bit mask; there is no
// TLB in this core (spec.md Non-goals).
func Translate(vaddr uint32) uint32 {
	return vaddr & 0x1FFFFFFF
}

// Step executes exactly one CPU cycle: either an interrupt exception, or a
// normal fetch-decode-execute with correct delay-slot threading.
func (c *CPU) Step() {
	c.lastExceptionWasRI = false

	sr := c.cop0[regSR]
	cause := c.cop0[regCause]
	if cause&(1<<10) != 0 && sr&(1<<10) != 0 && sr&srIEc != 0 {
		c.raiseException(ExcInt, c.pc, c.inDelaySlot)
		return
	}

	c.inDelaySlot = c.branchTaken
	c.branchTaken = false

	pc := c.pc
	if pc&0x3 != 0 {
		c.raiseAddressException(ExcAdEL, pc, c.inDelaySlot, pc)
		return
	}

	word := c.bus.LoadWord(Translate(pc))
	c.pc = c.nextPC
	c.nextPC += 4

	c.execute(decode(word), pc)
}
