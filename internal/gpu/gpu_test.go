package gpu

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFillRectangleWritesFlatColor(t *testing.T) {
	g := New(nil)

	g.WriteGP0(0x02000000 | 0x00FF00) // green
	g.WriteGP0(16<<16 | 16)           // x=16,y=16 (16-aligned, so masking is a no-op)
	g.WriteGP0(16<<16 | 16)           // w=16,h=16

	for y := 16; y < 32; y++ {
		for x := 16; x < 32; x++ {
			r, gg, b := unpackColor(g.pixelAt(x, y))
			require.Zero(t, r, "pixel (%d,%d) red channel", x, y)
			require.NotZero(t, gg, "pixel (%d,%d) green channel", x, y)
			require.Zero(t, b, "pixel (%d,%d) blue channel", x, y)
		}
	}
}

func TestCommandStateMachineReturnsToAwaitingCommand(t *testing.T) {
	g := New(nil)
	g.WriteGP0(0x02000000)
	require.Equal(t, modeCollectingParams, g.st, "expected collecting params after header")

	g.WriteGP0(0)
	g.WriteGP0(0)
	require.Equal(t, modeAwaitingCommand, g.st, "expected awaiting command after full fill-rect")
	require.Zero(t, g.params.Len(), "expected drained FIFO")
}

func TestMonochromeTriangleFillsInteriorNotExterior(t *testing.T) {
	g := New(nil)
	g.drawAreaX2, g.drawAreaY2 = 1023, 511
	g.WriteGP0(0x20000000 | 0xFF0000) // flat-shaded triangle
	g.WriteGP0(uint32(uint16(0)) | uint32(uint16(0))<<16)
	g.WriteGP0(uint32(uint16(10)) | uint32(uint16(0))<<16)
	g.WriteGP0(uint32(uint16(0)) | uint32(uint16(10))<<16)

	require.NotZero(t, g.pixelAt(2, 2)&0x7FFF, "expected interior pixel to be painted")
	require.Zero(t, g.pixelAt(50, 50)&0x7FFF, "expected exterior pixel to remain untouched")
}

func TestVRAMToVRAMCopyPreservesPixels(t *testing.T) {
	g := New(nil)
	g.setPixel(0, 0, 0x1234&0x7FFF)
	g.WriteGP0(0x80000000)
	g.WriteGP0(0)          // src 0,0
	g.WriteGP0(1<<16 | 1) // dst 1,1
	g.WriteGP0(1<<16 | 1) // 1x1

	require.Equal(t, uint16(0x1234&0x7FFF), g.pixelAt(1, 1))
}

func TestStatusReflectsDisplayDisabledByDefault(t *testing.T) {
	g := New(nil)
	require.NotZero(t, g.Status()&(1<<23), "expected display-disabled bit set after reset")

	g.WriteGP1(0x03000000)
	require.Zero(t, g.Status()&(1<<23), "expected display-disabled bit clear after GP1(03h) bit0=0")
}

func TestStatusMatchesDocumentedResetValue(t *testing.T) {
	g := New(nil)
	require.EqualValues(t, 0x14802000, g.Status(), "GPUSTAT should match the documented post-reset bit pattern")
}
