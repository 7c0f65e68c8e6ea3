package gpu

// WriteGP0 feeds one 32-bit word into the GP0 command stream: the render
// and VRAM-access command port. Commands are collected into params until
// the full word count for the pending opcode is buffered, then dispatched.
func (g *GPU) WriteGP0(v uint32) {
	switch g.st {
	case modeReceivingImage:
		g.feedImageWord(v)
		return
	case modeAwaitingCommand:
		g.cmd = (v >> 24) & 0xFF
		words, handler := decodeGP0(uint8(g.cmd))
		g.wordsWanted = words
		g.handler = handler
		g.params.Reset()
		g.paramsBuf = g.paramsBuf[:0]
		g.params.Enqueue(v)
		g.paramsBuf = append(g.paramsBuf, v)
		if g.wordsWanted <= 1 {
			g.dispatch()
			return
		}
		g.st = modeCollectingParams
	case modeCollectingParams:
		g.params.Enqueue(v)
		g.paramsBuf = append(g.paramsBuf, v)
		if len(g.paramsBuf) >= g.wordsWanted {
			g.dispatch()
		}
	}
}

func (g *GPU) dispatch() {
	if g.handler != nil {
		g.handler(g)
	}
	if g.st != modeReceivingImage && g.st != modeSendingImage {
		g.st = modeAwaitingCommand
	}
	g.params.Reset()
	g.wordsWanted = 0
	g.handler = nil
}

// param returns the i'th word collected for the current command (0 is the
// command header itself).
func (g *GPU) param(i int) uint32 {
	return g.paramsBuf[i]
}

// decodeGP0 returns the total word count (including the header) and the
// handler for command byte cmd.
func decodeGP0(cmd uint8) (int, func(g *GPU)) {
	switch {
	case cmd == 0x00:
		return 1, func(g *GPU) {}
	case cmd == 0x01:
		return 1, func(g *GPU) {}
	case cmd == 0x02:
		return 3, (*GPU).gp0FillRect
	case cmd >= 0x20 && cmd <= 0x3F:
		return decodePolygon(cmd)
	case cmd >= 0x40 && cmd <= 0x5F:
		return decodeLine(cmd)
	case cmd >= 0x60 && cmd <= 0x7F:
		return decodeRect(cmd)
	case cmd == 0x80:
		return 4, (*GPU).gp0CopyVRAMToVRAM
	case cmd >= 0xA0 && cmd <= 0xBF:
		return 3, (*GPU).gp0CopyCPUToVRAM
	case cmd == 0xC0:
		return 3, (*GPU).gp0CopyVRAMToCPU
	case cmd == 0xE1:
		return 1, (*GPU).gp0DrawMode
	case cmd == 0xE2:
		return 1, (*GPU).gp0TexWindow
	case cmd == 0xE3:
		return 1, (*GPU).gp0DrawAreaTL
	case cmd == 0xE4:
		return 1, (*GPU).gp0DrawAreaBR
	case cmd == 0xE5:
		return 1, (*GPU).gp0DrawOffset
	case cmd == 0xE6:
		return 1, (*GPU).gp0MaskSetting
	case cmd >= 0x10 && cmd <= 0x1F:
		return 1, (*GPU).gp0InfoQuery
	default:
		return 1, func(g *GPU) { g.log.Debug("unhandled GP0 command", "cmd", g.cmd) }
	}
}

func decodePolygon(cmd uint8) (int, func(g *GPU)) {
	gouraud := cmd&0x10 != 0
	quad := cmd&0x08 != 0
	textured := cmd&0x04 != 0
	n := 3
	if quad {
		n = 4
	}
	words := 1 + n
	if textured {
		words += n
	}
	if gouraud {
		words += n - 1
	}
	return words, (*GPU).gp0DrawPolygon
}

func decodeLine(cmd uint8) (int, func(g *GPU)) {
	gouraud := cmd&0x10 != 0
	// polyline (bit 0x08 set) is not supported; treated as a single
	// 2-point segment using the first two points supplied.
	words := 3
	if gouraud {
		words = 4
	}
	return words, (*GPU).gp0DrawLine
}

func decodeRect(cmd uint8) (int, func(g *GPU)) {
	textured := cmd&0x04 != 0
	size := (cmd >> 3) & 0x3
	words := 2
	if size == 0 {
		words = 3 // variable size: header, xy, wh
	}
	if textured {
		words++
	}
	return words, (*GPU).gp0DrawRect
}
