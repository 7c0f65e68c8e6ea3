// Package gpu implements the PSX GPU: the GP0/GP1 command state machine,
// the 1024x512 16-bit VRAM, and a software rasterizer for polygons and
// rectangles. It is driven exclusively through WriteGP0/WriteGP1 and
// read through Read/Status, matching the real chip's register pair.
package gpu

import (
	"log/slog"

	"github.com/valerio/psxcore/internal/fifo"
)

const (
	vramWidth  = 1024
	vramHeight = 512

	fifoCapacity = 16
)

type mode int

const (
	modeAwaitingCommand mode = iota
	modeCollectingParams
	modeReceivingImage // CPU->VRAM data load in progress
	modeSendingImage   // VRAM->CPU data load in progress
)

// texpage holds the decoded contents of a draw-mode setting (GP0(E1h) or
// the polygon command's own texpage word for textured primitives).
type texpage struct {
	texBaseX   int // in units of 64 halfwords
	texBaseY   int // in units of 256 lines
	blendMode  int // 0..3 semi-transparency mode
	colorDepth int // 0=4bit,1=8bit,2=15bit
	dither     bool
	drawToDisp bool
	textureDisable bool
}

// GPU owns VRAM and all GP0/GP1-addressable state.
type GPU struct {
	vram []uint16 // row-major, vramWidth*vramHeight

	log *slog.Logger

	st mode

	params       *fifo.FIFO // mirrors the real 16-deep command FIFO
	paramsBuf    []uint32   // same words, indexable for decode convenience
	cmd          uint32
	wordsWanted  int
	handler      func(g *GPU)

	tp texpage

	texWindowMaskX, texWindowMaskY     int
	texWindowOffsetX, texWindowOffsetY int

	drawAreaX1, drawAreaY1 int
	drawAreaX2, drawAreaY2 int
	offsetX, offsetY       int // signed 11-bit drawing offset

	forceMaskBit   bool
	checkMaskBit   bool

	displayEnabled bool
	dmaDirection   int
	displayAreaX   int
	displayAreaY   int
	hRangeX1       int
	hRangeX2       int
	vRangeY1       int
	vRangeY2       int
	videoMode      int // 0=NTSC,1=PAL
	colorDepth24   bool
	interlaced     bool
	hres           int
	vres           int

	// active image transfer (CPU<->VRAM)
	xferX, xferY, xferW, xferH int
	xferCurX, xferCurY         int
	xferWordsLeft              int

	readLatch uint32

	odd bool // GPUSTAT bit 31; nothing in this core changes it, so it stays false
}

// New allocates a GPU with zeroed VRAM, ready for Reset.
func New(log *slog.Logger) *GPU {
	if log == nil {
		log = slog.Default()
	}
	g := &GPU{
		vram:   make([]uint16, vramWidth*vramHeight),
		log:    log,
		params: fifo.New(fifoCapacity),
	}
	g.Reset()
	return g
}

// Reset restores GP0/GP1 state to power-on defaults. VRAM contents are
// left untouched, matching real hardware.
func (g *GPU) Reset() {
	g.st = modeAwaitingCommand
	g.params.Reset()
	g.cmd = 0
	g.wordsWanted = 0
	g.handler = nil
	g.tp = texpage{}
	g.texWindowMaskX, g.texWindowMaskY = 0, 0
	g.texWindowOffsetX, g.texWindowOffsetY = 0, 0
	g.drawAreaX1, g.drawAreaY1 = 0, 0
	g.drawAreaX2, g.drawAreaY2 = 0, 0
	g.offsetX, g.offsetY = 0, 0
	g.forceMaskBit, g.checkMaskBit = false, false
	g.displayEnabled = false
	g.dmaDirection = 0
	g.displayAreaX, g.displayAreaY = 0, 0
	g.hRangeX1, g.hRangeX2 = 0x200, 0xC00
	g.vRangeY1, g.vRangeY2 = 0x10, 0x100
	g.videoMode = 0
	g.colorDepth24 = false
	g.interlaced = false
	g.hres, g.vres = 0, 0
	g.xferWordsLeft = 0
	g.readLatch = 0
}

// Width and Height report VRAM's fixed pixel dimensions.
func (g *GPU) Width() int  { return vramWidth }
func (g *GPU) Height() int { return vramHeight }

// VRAM exposes the raw framebuffer for the display package, indexed
// [y*Width()+x], A1B5G5R5 packed.
func (g *GPU) VRAM() []uint16 { return g.vram }

func (g *GPU) pixelAt(x, y int) uint16 {
	x &= vramWidth - 1
	y &= vramHeight - 1
	return g.vram[y*vramWidth+x]
}

func (g *GPU) setPixel(x, y int, v uint16) {
	x &= vramWidth - 1
	y &= vramHeight - 1
	if g.checkMaskBit && g.vram[y*vramWidth+x]&0x8000 != 0 {
		return
	}
	if g.forceMaskBit {
		v |= 0x8000
	}
	g.vram[y*vramWidth+x] = v
}

// Status returns the GPUSTAT register read over GP1's read port.
func (g *GPU) Status() uint32 {
	var s uint32
	s |= uint32(g.tp.texBaseX & 0xF)
	s |= uint32(g.tp.texBaseY&0x1) << 4
	s |= uint32(g.tp.blendMode&0x3) << 5
	s |= uint32(g.tp.colorDepth&0x3) << 7
	if g.tp.dither {
		s |= 1 << 9
	}
	if g.tp.drawToDisp {
		s |= 1 << 10
	}
	if g.forceMaskBit {
		s |= 1 << 11
	}
	if g.checkMaskBit {
		s |= 1 << 12
	}
	s |= 1 << 13 // interlace field, always "odd" ready in this core
	s |= uint32(g.videoMode) << 20
	if g.colorDepth24 {
		s |= 1 << 21
	}
	if g.interlaced {
		s |= 1 << 22
	}
	if !g.displayEnabled {
		s |= 1 << 23
	}
	s |= uint32(g.dmaDirection&0x3) << 29
	s |= 1 << 26 // ready to receive command
	if g.st == modeSendingImage {
		s |= 1 << 27 // ready to send VRAM->CPU: only while a transfer is pending
	}
	s |= 1 << 28 // ready to receive DMA block
	if g.odd {
		s |= 1 << 31
	}
	return s
}

// Read returns the GPUREAD port: either streamed VRAM->CPU pixel data or
// the result latched by the most recent GP0(0x10..0x1F) info query.
func (g *GPU) Read() uint32 {
	if g.st == modeSendingImage {
		return g.streamVRAMRead()
	}
	return g.readLatch
}
