package bus

// runDMA executes channel idx synchronously: real hardware steals bus
// cycles word-by-word, but nothing in this core depends on DMA taking
// observable time, so the whole block/linked-list transfer completes
// within the StoreWord that set the start bit, matching the teacher's
// immediate-effect DMA trigger.
func (b *Bus) runDMA(idx uint, ch *dmaChannel) {
	sync := (ch.chcr >> 9) & 0x3
	ramToDevice := ch.chcr&0x1 != 0 // direction bit: 1=RAM->device, 0=device->RAM

	switch idx {
	case 2:
		b.runGPUDMA(ch, sync, ramToDevice)
	case 6:
		b.runOTCDMA(ch)
	}

	ch.chcr &^= 1 << 24 // clear busy/start
	ch.chcr &^= 1 << 28 // clear trigger bit if set

	b.requestDMAInterrupt(idx)
}

// requestDMAInterrupt raises the shared DMA interrupt line (I_STAT bit 3)
// if DICR has both this channel's IRQ enable and the master enable (bit 23)
// set, then latches its flag bit.
func (b *Bus) requestDMAInterrupt(idx uint) {
	enableBit := uint32(1) << (16 + idx)
	if b.dicr&enableBit == 0 || b.dicr&(1<<23) == 0 {
		return
	}
	b.dicr |= 1 << (24 + idx)
	b.RequestInterrupt(3)
}

// runGPUDMA implements channel 2: sync mode 1 (block, VRAM<->RAM) and
// sync mode 2 (linked list, RAM->GPU command stream). Mode 0 (single
// block, immediate) is treated identically to mode 1 with a one-block
// transfer.
func (b *Bus) runGPUDMA(ch *dmaChannel, sync uint32, ramToDevice bool) {
	if b.GPU == nil {
		return
	}
	if sync == 2 {
		addr := ch.madr & 0x1FFFFC
		for {
			header := b.LoadWord(addr)
			count := header >> 24
			for i := uint32(1); i <= count; i++ {
				b.GPU.WriteGP0(b.LoadWord((addr + i*4) & 0x1FFFFC))
			}
			next := header & 0xFFFFFF
			if next == 0xFFFFFF || next == addr {
				break
			}
			addr = next & 0x1FFFFC
		}
		return
	}

	words := ch.bcr & 0xFFFF
	blocks := ch.bcr >> 16
	if blocks == 0 {
		blocks = 1
	}
	if words == 0 {
		words = 0x10000
	}
	addr := ch.madr & 0x1FFFFC
	for blk := uint32(0); blk < blocks; blk++ {
		for w := uint32(0); w < words; w++ {
			if ramToDevice {
				b.GPU.WriteGP0(b.LoadWord(addr))
			} else {
				b.StoreWord(addr, b.GPU.Read())
			}
			addr = (addr + 4) & 0x1FFFFC
		}
	}
	ch.madr = addr
}

// runOTCDMA implements channel 6, the order-table-clear DMA: it always
// writes RAM downward from MADR, each entry holding the address of the
// word below it (addr-4), with the last entry written as 0x00FFFFFF, per
// spec.md's OTC scenario.
func (b *Bus) runOTCDMA(ch *dmaChannel) {
	count := ch.bcr & 0xFFFF
	if count == 0 {
		count = 0x10000
	}
	addr := ch.madr & 0x1FFFFC
	for i := uint32(0); i < count; i++ {
		var next uint32
		if i == count-1 {
			next = 0x00FFFFFF
		} else {
			next = (addr - 4) & 0x1FFFFF
		}
		b.StoreWord(addr, next)
		addr = (addr - 4) & 0x1FFFFC
	}
}
