package bus

// Step advances timers and the CD-ROM drive by cycles system clocks,
// latching any interrupts they raise into I_STAT. The GPU is not stepped:
// it only reacts to GP0/GP1 writes and DMA transfers.
func (b *Bus) Step(cycles uint32) {
	for i := range b.timers {
		if b.timers[i].tick(cycles) {
			b.RequestInterrupt(uint(4 + i))
		}
	}
	if b.CDROM != nil {
		if irq, ok := b.CDROM.Step(cycles); ok {
			_ = irq
			b.RequestInterrupt(2)
		}
	}
}

// Pending reports whether any unmasked interrupt is outstanding, for the
// CPU's SetIRQ wiring.
func (b *Bus) Pending() bool {
	return b.iStat&b.iMask != 0
}
