package gpu

// WriteGP1 handles the GPU's control/display port: reset, display enable,
// display area geometry, and video timing mode.
func (g *GPU) WriteGP1(v uint32) {
	cmd := (v >> 24) & 0xFF
	switch cmd {
	case 0x00:
		g.Reset()
	case 0x01:
		g.st = modeAwaitingCommand
		g.params.Reset()
		g.paramsBuf = g.paramsBuf[:0]
	case 0x02:
		// IRQ ack: nothing latched on the GPU side in this core.
	case 0x03:
		g.displayEnabled = v&0x1 == 0
	case 0x04:
		g.dmaDirection = int(v & 0x3)
	case 0x05:
		g.displayAreaX = int(v & 0x3FF)
		g.displayAreaY = int((v >> 10) & 0x1FF)
	case 0x06:
		g.hRangeX1 = int(v & 0xFFF)
		g.hRangeX2 = int((v >> 12) & 0xFFF)
	case 0x07:
		g.vRangeY1 = int(v & 0x3FF)
		g.vRangeY2 = int((v >> 10) & 0x3FF)
	case 0x08:
		g.decodeDisplayMode(v)
	default:
		g.log.Debug("unhandled GP1 command", "cmd", cmd)
	}
}

func (g *GPU) decodeDisplayMode(v uint32) {
	hw := v & 0x3
	if v&0x40 != 0 {
		hw = 4 // 368px wide mode (bit 6)
	}
	switch hw {
	case 0:
		g.hres = 256
	case 1:
		g.hres = 320
	case 2:
		g.hres = 512
	case 3:
		g.hres = 640
	case 4:
		g.hres = 368
	}
	if v&0x4 != 0 {
		g.vres = 480
	} else {
		g.vres = 240
	}
	g.videoMode = int((v >> 3) & 0x1)
	g.colorDepth24 = v&0x10 != 0
	g.interlaced = v&0x20 != 0
}
