package bus

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestBus() *Bus {
	bios := make([]byte, 512*1024)
	return New(bios, nil, nil, nil)
}

func TestRAMMirrorsAcrossEightMegabytes(t *testing.T) {
	b := newTestBus()
	b.StoreWord(0x10, 0xDEADBEEF)
	require.EqualValues(t, 0xDEADBEEF, b.LoadWord(0x00200000+0x10), "mirrored read")
}

func TestCacheControlStoreIsNoOp(t *testing.T) {
	b := newTestBus()
	b.StoreWord(0x1FFE0130, 0x1234)
	require.Zero(t, b.LoadWord(0x1FFE0130), "cache control readback")
}

func TestIStatAckOnlyClearsWrittenZeroBits(t *testing.T) {
	b := newTestBus()
	b.RequestInterrupt(0)
	b.RequestInterrupt(2)
	b.StoreWord(ioBase+offIStat, ^uint32(1)) // ack bit 0, leave bit 2
	require.EqualValues(t, 1<<2, b.LoadWord(ioBase+offIStat), "I_STAT should keep only bit 2 set")
}

func TestOTCDMAClearBuildsReverseLinkedList(t *testing.T) {
	b := newTestBus()
	const base = 0x1000
	const count = 4

	b.StoreWord(ioBase+offDPCR, 1<<27)              // enable channel 6 in DPCR
	b.StoreWord(ioBase+offDMABase+0x60, base)       // channel 6 MADR
	b.StoreWord(ioBase+offDMABase+0x64, count)      // channel 6 BCR
	b.StoreWord(ioBase+offDMABase+0x68, 0x11000002) // start, sync mode 0

	// Entries run downward from MADR; the lowest address holds the
	// terminator and each higher entry points to the one below it.
	bottom := base - (count-1)*4
	require.EqualValues(t, 0x00FFFFFF, b.LoadWord(bottom), "bottom entry should hold the terminator")
	for i := 0; i < count-1; i++ {
		addr := uint32(base - i*4)
		want := (addr - 4) & 0x1FFFFF
		require.Equal(t, want, b.LoadWord(addr), "entry at %#x", addr)
	}
}

func TestOTCDMADoesNotRunWithoutDPCREnable(t *testing.T) {
	b := newTestBus()
	const base = 0x1000
	const count = 4

	b.StoreWord(ioBase+offDMABase+0x60, base)       // channel 6 MADR, DPCR left at reset (disabled)
	b.StoreWord(ioBase+offDMABase+0x64, count)      // channel 6 BCR
	b.StoreWord(ioBase+offDMABase+0x68, 0x11000002) // start, sync mode 0

	require.Zero(t, b.LoadWord(base), "DMA must not run while DPCR leaves channel 6 disabled")
}

func TestTimerIRQFiresAtTarget(t *testing.T) {
	b := newTestBus()
	b.StoreHalf(ioBase+offTimerBase+0x8, 10) // target=10
	b.StoreHalf(ioBase+offTimerBase+0x4, timerModeIRQTarget)
	b.Step(10)
	require.NotZero(t, b.iStat&(1<<4), "expected timer 0 IRQ bit set after reaching target")
}
