package cpu

import "github.com/valerio/psxcore/internal/bit"

// branchTo records a taken branch/jump target, which the following
// (already-fetched) instruction is the delay slot for.
func (c *CPU) branchTo(target uint32) {
	c.nextPC = target
	c.branchTaken = true
}

func (c *CPU) execute(ins instruction, pc uint32) {
	switch ins.opcode {
	case 0x00:
		c.execSpecial(ins, pc)
	case 0x01:
		c.execBcond(ins, pc)
	case 0x02: // J
		c.branchTo((ins.target << 2) | (c.pc & 0xF0000000))
	case 0x03: // JAL
		c.setGPR(31, c.pc+4)
		c.branchTo((ins.target << 2) | (c.pc & 0xF0000000))
	case 0x04: // BEQ
		c.branchIf(ins, pc, c.getGPR(ins.rs) == c.getGPR(ins.rt))
	case 0x05: // BNE
		c.branchIf(ins, pc, c.getGPR(ins.rs) != c.getGPR(ins.rt))
	case 0x06: // BLEZ
		c.branchIf(ins, pc, int32(c.getGPR(ins.rs)) <= 0)
	case 0x07: // BGTZ
		c.branchIf(ins, pc, int32(c.getGPR(ins.rs)) > 0)
	case 0x08: // ADDI
		c.execAddImmediate(ins, pc, true)
	case 0x09: // ADDIU
		c.execAddImmediate(ins, pc, false)
	case 0x0A: // SLTI
		v := int32(c.getGPR(ins.rs)) < int32(bit.SignExtend16(ins.imm16))
		c.setGPR(ins.rt, boolToWord(v))
	case 0x0B: // SLTIU
		v := c.getGPR(ins.rs) < bit.SignExtend16(ins.imm16)
		c.setGPR(ins.rt, boolToWord(v))
	case 0x0C: // ANDI
		c.setGPR(ins.rt, c.getGPR(ins.rs)&uint32(ins.imm16))
	case 0x0D: // ORI
		c.setGPR(ins.rt, c.getGPR(ins.rs)|uint32(ins.imm16))
	case 0x0E: // XORI
		c.setGPR(ins.rt, c.getGPR(ins.rs)^uint32(ins.imm16))
	case 0x0F: // LUI
		c.setGPR(ins.rt, uint32(ins.imm16)<<16)
	case 0x10: // COP0
		c.execCop0(ins, pc)
	case 0x12: // COP2 (GTE)
		c.execCop2(ins, pc)
	case 0x20: // LB
		c.execLoad(ins, pc, 1, true)
	case 0x21: // LH
		c.execLoad(ins, pc, 2, true)
	case 0x22: // LWL
		c.execLWL(ins, pc)
	case 0x23: // LW
		c.execLoad(ins, pc, 4, true)
	case 0x24: // LBU
		c.execLoad(ins, pc, 1, false)
	case 0x25: // LHU
		c.execLoad(ins, pc, 2, false)
	case 0x26: // LWR
		c.execLWR(ins, pc)
	case 0x28: // SB
		c.execStore(ins, pc, 1)
	case 0x29: // SH
		c.execStore(ins, pc, 2)
	case 0x2A: // SWL
		c.execSWL(ins, pc)
	case 0x2B: // SW
		c.execStore(ins, pc, 4)
	case 0x2E: // SWR
		c.execSWR(ins, pc)
	case 0x32: // LWC2
		c.execLWC2(ins, pc)
	case 0x3A: // SWC2
		c.execSWC2(ins, pc)
	default:
		c.raiseException(ExcRI, pc, c.inDelaySlot)
		c.lastExceptionWasRI = true
	}
}

func boolToWord(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

func (c *CPU) branchIf(ins instruction, pc uint32, taken bool) {
	if taken {
		c.branchTo(pc + 4 + (bit.SignExtend16(ins.imm16) << 2))
	}
}

func (c *CPU) execBcond(ins instruction, pc uint32) {
	rs := int32(c.getGPR(ins.rs))
	isGE := ins.word&(1<<16) != 0 // bit 16 of the word == bit 0 of rt (0x01)
	link := (ins.rt & 0x1E) == 0x10

	var taken bool
	if isGE {
		taken = rs >= 0
	} else {
		taken = rs < 0
	}

	if link {
		c.setGPR(31, pc+8)
	}
	if taken {
		c.branchTo(pc + 4 + (bit.SignExtend16(ins.imm16) << 2))
	}
}

func (c *CPU) execAddImmediate(ins instruction, pc uint32, checkOverflow bool) {
	a := c.getGPR(ins.rs)
	imm := bit.SignExtend16(ins.imm16)
	result := a + imm
	if checkOverflow {
		if addOverflows(a, imm, result) {
			c.raiseException(ExcOv, pc, c.inDelaySlot)
			return
		}
	}
	c.setGPR(ins.rt, result)
}

func addOverflows(a, b, result uint32) bool {
	return (^(a^b))&(a^result)&0x80000000 != 0
}

func subOverflows(a, b, result uint32) bool {
	return ((a ^ b) & (a ^ result) & 0x80000000) != 0
}

func (c *CPU) execSpecial(ins instruction, pc uint32) {
	switch ins.funct {
	case 0x00: // SLL
		c.setGPR(ins.rd, c.getGPR(ins.rt)<<ins.shamt)
	case 0x02: // SRL
		c.setGPR(ins.rd, c.getGPR(ins.rt)>>ins.shamt)
	case 0x03: // SRA
		c.setGPR(ins.rd, uint32(int32(c.getGPR(ins.rt))>>ins.shamt))
	case 0x04: // SLLV
		c.setGPR(ins.rd, c.getGPR(ins.rt)<<(c.getGPR(ins.rs)&0x1F))
	case 0x06: // SRLV
		c.setGPR(ins.rd, c.getGPR(ins.rt)>>(c.getGPR(ins.rs)&0x1F))
	case 0x07: // SRAV
		c.setGPR(ins.rd, uint32(int32(c.getGPR(ins.rt))>>(c.getGPR(ins.rs)&0x1F)))
	case 0x08: // JR
		target := c.getGPR(ins.rs)
		if target&0x3 != 0 {
			c.raiseAddressException(ExcAdEL, pc, c.inDelaySlot, target)
			return
		}
		c.branchTo(target)
	case 0x09: // JALR
		target := c.getGPR(ins.rs)
		if target&0x3 != 0 {
			c.raiseAddressException(ExcAdEL, pc, c.inDelaySlot, target)
			return
		}
		c.setGPR(ins.rd, pc+8)
		c.branchTo(target)
	case 0x0C: // SYSCALL
		c.raiseException(ExcSys, pc, c.inDelaySlot)
	case 0x0D: // BREAK
		c.raiseException(ExcBp, pc, c.inDelaySlot)
	case 0x10: // MFHI
		c.setGPR(ins.rd, c.hi)
	case 0x11: // MTHI
		c.hi = c.getGPR(ins.rs)
	case 0x12: // MFLO
		c.setGPR(ins.rd, c.lo)
	case 0x13: // MTLO
		c.lo = c.getGPR(ins.rs)
	case 0x18: // MULT
		r := int64(int32(c.getGPR(ins.rs))) * int64(int32(c.getGPR(ins.rt)))
		c.lo, c.hi = uint32(r), uint32(r>>32)
	case 0x19: // MULTU
		r := uint64(c.getGPR(ins.rs)) * uint64(c.getGPR(ins.rt))
		c.lo, c.hi = uint32(r), uint32(r>>32)
	case 0x1A: // DIV
		n, d := int32(c.getGPR(ins.rs)), int32(c.getGPR(ins.rt))
		if d == 0 {
			c.hi = uint32(n)
			if n >= 0 {
				c.lo = 0xFFFFFFFF
			} else {
				c.lo = 1
			}
		} else if n == -0x80000000 && d == -1 {
			c.lo, c.hi = uint32(n), 0
		} else {
			c.lo, c.hi = uint32(n/d), uint32(n%d)
		}
	case 0x1B: // DIVU
		n, d := c.getGPR(ins.rs), c.getGPR(ins.rt)
		if d == 0 {
			c.lo, c.hi = 0xFFFFFFFF, n
		} else {
			c.lo, c.hi = n/d, n%d
		}
	case 0x20: // ADD
		a, b := c.getGPR(ins.rs), c.getGPR(ins.rt)
		r := a + b
		if addOverflows(a, b, r) {
			c.raiseException(ExcOv, pc, c.inDelaySlot)
			return
		}
		c.setGPR(ins.rd, r)
	case 0x21: // ADDU
		c.setGPR(ins.rd, c.getGPR(ins.rs)+c.getGPR(ins.rt))
	case 0x22: // SUB
		a, b := c.getGPR(ins.rs), c.getGPR(ins.rt)
		r := a - b
		if subOverflows(a, b, r) {
			c.raiseException(ExcOv, pc, c.inDelaySlot)
			return
		}
		c.setGPR(ins.rd, r)
	case 0x23: // SUBU
		c.setGPR(ins.rd, c.getGPR(ins.rs)-c.getGPR(ins.rt))
	case 0x24: // AND
		c.setGPR(ins.rd, c.getGPR(ins.rs)&c.getGPR(ins.rt))
	case 0x25: // OR
		c.setGPR(ins.rd, c.getGPR(ins.rs)|c.getGPR(ins.rt))
	case 0x26: // XOR
		c.setGPR(ins.rd, c.getGPR(ins.rs)^c.getGPR(ins.rt))
	case 0x27: // NOR
		c.setGPR(ins.rd, ^(c.getGPR(ins.rs) | c.getGPR(ins.rt)))
	case 0x2A: // SLT
		c.setGPR(ins.rd, boolToWord(int32(c.getGPR(ins.rs)) < int32(c.getGPR(ins.rt))))
	case 0x2B: // SLTU
		c.setGPR(ins.rd, boolToWord(c.getGPR(ins.rs) < c.getGPR(ins.rt)))
	default:
		c.raiseException(ExcRI, pc, c.inDelaySlot)
		c.lastExceptionWasRI = true
	}
}
