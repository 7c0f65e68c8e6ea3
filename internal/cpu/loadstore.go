package cpu

import "github.com/valerio/psxcore/internal/bit"

func (c *CPU) effectiveAddr(ins instruction) uint32 {
	return c.getGPR(ins.rs) + bit.SignExtend16(ins.imm16)
}

// execLoad handles LB/LBU/LH/LHU/LW with alignment checks and sign/zero
// extension.
func (c *CPU) execLoad(ins instruction, pc uint32, size int, signed bool) {
	addr := c.effectiveAddr(ins)
	if size == 2 && addr&0x1 != 0 {
		c.raiseAddressException(ExcAdEL, pc, c.inDelaySlot, addr)
		return
	}
	if size == 4 && addr&0x3 != 0 {
		c.raiseAddressException(ExcAdEL, pc, c.inDelaySlot, addr)
		return
	}

	paddr := Translate(addr)
	var v uint32
	switch size {
	case 1:
		b := c.bus.LoadByte(paddr)
		if signed {
			v = bit.SignExtend8(b)
		} else {
			v = uint32(b)
		}
	case 2:
		h := c.bus.LoadHalf(paddr)
		if signed {
			v = bit.SignExtend16(h)
		} else {
			v = uint32(h)
		}
	case 4:
		v = c.bus.LoadWord(paddr)
	}
	c.setGPR(ins.rt, v)
}

// execStore handles SB/SH/SW with alignment checks. SW is suppressed when
// SR.IsC (isolate cache) is set.
func (c *CPU) execStore(ins instruction, pc uint32, size int) {
	addr := c.effectiveAddr(ins)
	if size == 2 && addr&0x1 != 0 {
		c.raiseAddressException(ExcAdES, pc, c.inDelaySlot, addr)
		return
	}
	if size == 4 && addr&0x3 != 0 {
		c.raiseAddressException(ExcAdES, pc, c.inDelaySlot, addr)
		return
	}
	if c.cop0[regSR]&srIsC != 0 {
		return
	}

	paddr := Translate(addr)
	v := c.getGPR(ins.rt)
	switch size {
	case 1:
		c.bus.StoreByte(paddr, uint8(v))
	case 2:
		c.bus.StoreHalf(paddr, uint16(v))
	case 4:
		c.bus.StoreWord(paddr, v)
	}
}

// lwlShift/lwrShift: LWL offsets 0..3 keep low 24/16/8/0 bits of rt and
// shift new data left by 24/16/8/0; LWR offsets 0..3 keep high 0/8/16/24
// bits of rt and OR in new data shifted right by 0/8/16/24.
var lwlKeepMask = [4]uint32{0x00FFFFFF, 0x0000FFFF, 0x000000FF, 0x00000000}
var lwlShiftAmt = [4]uint32{24, 16, 8, 0}
var lwrKeepMask = [4]uint32{0x00000000, 0xFF000000, 0xFFFF0000, 0xFFFFFF00}
var lwrShiftAmt = [4]uint32{0, 8, 16, 24}

func (c *CPU) execLWL(ins instruction, pc uint32) {
	addr := c.effectiveAddr(ins)
	aligned := Translate(addr) &^ 0x3
	word := c.bus.LoadWord(aligned)
	offset := addr & 0x3
	old := c.getGPR(ins.rt)
	result := (old & lwlKeepMask[offset]) | (word << lwlShiftAmt[offset])
	c.setGPR(ins.rt, result)
}

func (c *CPU) execLWR(ins instruction, pc uint32) {
	addr := c.effectiveAddr(ins)
	aligned := Translate(addr) &^ 0x3
	word := c.bus.LoadWord(aligned)
	offset := addr & 0x3
	old := c.getGPR(ins.rt)
	result := (old & lwrKeepMask[offset]) | (word >> lwrShiftAmt[offset])
	c.setGPR(ins.rt, result)
}

// swlKeepMask/swrKeepMask mirror the LWL/LWR tables for the memory-side
// merge SWL/SWR perform.
var swlKeepMask = [4]uint32{0xFFFFFF00, 0xFFFF0000, 0xFF000000, 0x00000000}
var swlShiftAmt = [4]uint32{24, 16, 8, 0}
var swrKeepMask = [4]uint32{0x00000000, 0x000000FF, 0x0000FFFF, 0x00FFFFFF}
var swrShiftAmt = [4]uint32{0, 8, 16, 24}

func (c *CPU) execSWL(ins instruction, pc uint32) {
	if c.cop0[regSR]&srIsC != 0 {
		return
	}
	addr := c.effectiveAddr(ins)
	aligned := Translate(addr) &^ 0x3
	old := c.bus.LoadWord(aligned)
	offset := addr & 0x3
	rt := c.getGPR(ins.rt)
	result := (old & swlKeepMask[offset]) | (rt >> swlShiftAmt[offset])
	c.bus.StoreWord(aligned, result)
}

func (c *CPU) execSWR(ins instruction, pc uint32) {
	if c.cop0[regSR]&srIsC != 0 {
		return
	}
	addr := c.effectiveAddr(ins)
	aligned := Translate(addr) &^ 0x3
	old := c.bus.LoadWord(aligned)
	offset := addr & 0x3
	rt := c.getGPR(ins.rt)
	result := (old & swrKeepMask[offset]) | (rt << swrShiftAmt[offset])
	c.bus.StoreWord(aligned, result)
}
