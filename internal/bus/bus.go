// Package bus implements the PSX memory-mapped interconnect: address
// decoding across RAM/scratchpad/BIOS/I/O, the DMA engines (GPU linked
// list, GPU VRAM read/write, OTC reverse-clear), interrupt aggregation,
// and the timers. It is the System's single point of contact with the
// GPU and CD-ROM drive.
package bus

import (
	"log/slog"

	"github.com/valerio/psxcore/internal/cdrom"
	"github.com/valerio/psxcore/internal/gpu"
)

const (
	ramSize   = 2 * 1024 * 1024
	scratchSize = 1024
)

// DebugLogFunc is the optional host hook invoked on unmapped accesses, per
// spec.md §7's "invoking a debug-log callback with the offending address
// and value" clause.
type DebugLogFunc func(addr uint32, value uint32, kind string)

// Bus owns RAM, scratchpad, a borrowed BIOS image, the GPU, the CD-ROM
// drive, the DMA channel registers and the interrupt controller.
type Bus struct {
	ram       []byte
	scratch   []byte
	bios      []byte // externally owned, borrowed for the system's lifetime
	GPU       *gpu.GPU
	CDROM     *cdrom.Drive
	timers    [3]timer

	iStat uint32
	iMask uint32

	dpcr uint32
	dicr uint32

	dma2 dmaChannel // GPU
	dma6 dmaChannel // OTC

	log      *slog.Logger
	debugLog DebugLogFunc
}

type dmaChannel struct {
	madr uint32
	bcr  uint32
	chcr uint32
}

// New creates a Bus with freshly allocated RAM/scratchpad, wired to g and
// cd (either may be nil at construction and attached later by the caller
// assigning the exported GPU / CDROM fields).
func New(bios []byte, g *gpu.GPU, cd *cdrom.Drive, log *slog.Logger) *Bus {
	if log == nil {
		log = slog.Default()
	}
	b := &Bus{
		ram:     make([]byte, ramSize),
		scratch: make([]byte, scratchSize),
		bios:    bios,
		GPU:     g,
		CDROM:   cd,
		log:     log,
	}
	b.Reset()
	return b
}

// SetDebugLog installs the optional debug-log hook for unmapped accesses.
func (b *Bus) SetDebugLog(f DebugLogFunc) { b.debugLog = f }

// Reset restores bus-owned state (RAM/scratchpad contents are left as-is,
// matching real hardware power-on garbage; registers reset to their
// documented values).
func (b *Bus) Reset() {
	b.iStat = 0
	b.iMask = 0
	b.dpcr = 0x07654321
	b.dicr = 0
	b.dma2 = dmaChannel{}
	b.dma6 = dmaChannel{}
	for i := range b.timers {
		b.timers[i] = timer{}
	}
}

func (b *Bus) logUnmapped(addr uint32, value uint32, kind string) {
	if b.debugLog != nil {
		b.debugLog(addr, value, kind)
	}
	b.log.Debug("unmapped bus access", "kind", kind, "addr", addr, "value", value)
}

// RequestInterrupt sets a bit in I_STAT (bit indices per spec.md §4.3/§4.5:
// bit 0 = V-blank, bit 2 = CD-ROM).
func (b *Bus) RequestInterrupt(bitIndex uint) {
	b.iStat |= 1 << bitIndex
}

// VBlank sets I_STAT bit 0, per the host API contract (§6).
func (b *Bus) VBlank() {
	b.RequestInterrupt(0)
}
