package gpu

// gp0CopyCPUToVRAM handles GP0(A0h): the first two params set the
// destination rectangle; WriteGP0 then streams raw pixel data until the
// rectangle is full.
func (g *GPU) gp0CopyCPUToVRAM() {
	g.beginTransfer(g.param(1), g.param(2))
	g.st = modeReceivingImage
}

// gp0CopyVRAMToCPU handles GP0(C0h): same rectangle setup, but GPUREAD now
// streams pixels out instead of GP0 streaming them in.
func (g *GPU) gp0CopyVRAMToCPU() {
	g.beginTransfer(g.param(1), g.param(2))
	g.st = modeSendingImage
}

func (g *GPU) beginTransfer(xy, wh uint32) {
	g.xferX = int(xy & 0x3FF)
	g.xferY = int((xy >> 16) & 0x1FF)
	g.xferW = int(wh & 0x3FF)
	if g.xferW == 0 {
		g.xferW = 0x400
	}
	g.xferH = int((wh >> 16) & 0x1FF)
	if g.xferH == 0 {
		g.xferH = 0x200
	}
	g.xferCurX, g.xferCurY = 0, 0
	g.xferWordsLeft = (g.xferW*g.xferH + 1) / 2
}

func (g *GPU) feedImageWord(v uint32) {
	g.writeTexel(uint16(v))
	g.writeTexel(uint16(v >> 16))
	g.xferWordsLeft--
	if g.xferWordsLeft <= 0 {
		g.st = modeAwaitingCommand
	}
}

func (g *GPU) writeTexel(px uint16) {
	if g.xferCurY >= g.xferH {
		return
	}
	g.setPixel(g.xferX+g.xferCurX, g.xferY+g.xferCurY, px)
	g.xferCurX++
	if g.xferCurX >= g.xferW {
		g.xferCurX = 0
		g.xferCurY++
	}
}

func (g *GPU) streamVRAMRead() uint32 {
	lo := g.readTexel()
	hi := g.readTexel()
	g.xferWordsLeft--
	if g.xferWordsLeft <= 0 {
		g.st = modeAwaitingCommand
	}
	return uint32(lo) | uint32(hi)<<16
}

func (g *GPU) readTexel() uint16 {
	if g.xferCurY >= g.xferH {
		return 0
	}
	v := g.pixelAt(g.xferX+g.xferCurX, g.xferY+g.xferCurY)
	g.xferCurX++
	if g.xferCurX >= g.xferW {
		g.xferCurX = 0
		g.xferCurY++
	}
	return v
}
