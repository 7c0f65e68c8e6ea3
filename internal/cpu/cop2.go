package cpu

// execCop2 dispatches COP2 (GTE) instructions: MFC2/MTC2 for data
// registers, CFC2/CTC2 for control registers, and everything else (rs bit
// 4 set, i.e. a "CO" coprocessor-operation encoding) into the GTE
// arithmetic pipeline keyed by the low 6 function bits.
func (c *CPU) execCop2(ins instruction, pc uint32) {
	if ins.rs&0x10 != 0 {
		c.gte.Execute(ins.word)
		return
	}

	switch ins.rs {
	case 0x00: // MFC2
		c.setGPR(ins.rt, c.gte.GetData(int(ins.rd)))
	case 0x02: // CFC2
		c.setGPR(ins.rt, c.gte.GetControl(int(ins.rd)))
	case 0x04: // MTC2
		c.gte.SetData(int(ins.rd), c.getGPR(ins.rt))
	case 0x06: // CTC2
		if ins.rd == 31 {
			c.gte.SetFlagRaw(c.getGPR(ins.rt))
		} else {
			c.gte.SetControl(int(ins.rd), c.getGPR(ins.rt))
		}
	default:
		c.raiseException(ExcRI, pc, c.inDelaySlot)
		c.lastExceptionWasRI = true
	}
}

func (c *CPU) execLWC2(ins instruction, pc uint32) {
	addr := c.effectiveAddr(ins)
	if addr&0x3 != 0 {
		c.raiseAddressException(ExcAdEL, pc, c.inDelaySlot, addr)
		return
	}
	v := c.bus.LoadWord(Translate(addr))
	c.gte.SetData(int(ins.rt), v)
}

func (c *CPU) execSWC2(ins instruction, pc uint32) {
	addr := c.effectiveAddr(ins)
	if addr&0x3 != 0 {
		c.raiseAddressException(ExcAdES, pc, c.inDelaySlot, addr)
		return
	}
	if c.cop0[regSR]&srIsC != 0 {
		return
	}
	c.bus.StoreWord(Translate(addr), c.gte.GetData(int(ins.rt)))
}
