// Package display renders the PSX GPU's VRAM to a terminal using tcell,
// the way the teacher's jeebie/render package presents a Game Boy
// framebuffer. It lives outside THE CORE: the System never imports it,
// only cmd/psxcore wires the two together.
package display

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/valerio/psxcore/internal/gpu"
)

const frameTime = time.Second / 60

// VRAMReader is the minimal surface display needs from the GPU.
type VRAMReader interface {
	VRAM() []uint16
	Width() int
	Height() int
}

var _ VRAMReader = (*gpu.GPU)(nil)

// shadeChars mirrors the teacher's half-block shading ramp. RenderFrame does
// not use it: it draws every cell with the upper half block '▀' alone.
var shadeChars = []rune{'█', '▀', '▄', ' '}

// Terminal presents a display region of VRAM through a tcell screen.
type Terminal struct {
	screen tcell.Screen
	src    VRAMReader

	viewX, viewY int
	viewW, viewH int

	running bool
}

// NewTerminal initializes a tcell screen and binds it to src, viewing the
// viewW x viewH rectangle starting at (viewX, viewY) in VRAM coordinates.
func NewTerminal(src VRAMReader, viewX, viewY, viewW, viewH int) (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("display: failed to initialize terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("display: failed to initialize terminal: %w", err)
	}
	return &Terminal{
		screen: screen,
		src:    src,
		viewX:  viewX, viewY: viewY,
		viewW: viewW, viewH: viewH,
		running: true,
	}, nil
}

// Close tears down the tcell screen.
func (t *Terminal) Close() {
	t.screen.Fini()
}

// RenderFrame draws one frame from VRAM and flushes it to the terminal.
// Two VRAM scanlines are packed into each terminal row via half-block
// characters, doubling vertical resolution within one cell.
func (t *Terminal) RenderFrame() {
	termW, termH := t.screen.Size()
	w := t.viewW
	if w > termW {
		w = termW
	}
	h := t.viewH / 2
	if h > termH {
		h = termH
	}

	for row := 0; row < h; row++ {
		topY := t.viewY + row*2
		botY := topY + 1
		for col := 0; col < w; col++ {
			x := t.viewX + col
			top := t.pixel(x, topY)
			bot := t.pixel(x, botY)
			style := tcell.StyleDefault.
				Foreground(rgbColor(top)).
				Background(rgbColor(bot))
			t.screen.SetContent(col, row, '▀', nil, style)
		}
	}
	t.screen.Show()
}

func (t *Terminal) pixel(x, y int) uint16 {
	w, h := t.src.Width(), t.src.Height()
	v := t.src.VRAM()
	return v[(y%h)*w+(x%w)]
}

// rgbColor expands a 15-bit A1B5G5R5 VRAM cell into a tcell truecolor
// value, ignoring the mask bit (presentation-only concern).
func rgbColor(px uint16) tcell.Color {
	r := uint8(px&0x1F) << 3
	g := uint8((px>>5)&0x1F) << 3
	b := uint8((px>>10)&0x1F) << 3
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// PollQuit reports whether the user requested to quit (Esc/Ctrl+C),
// draining any other key events without blocking indefinitely.
func (t *Terminal) PollQuit() bool {
	for t.screen.HasPendingEvent() {
		ev := t.screen.PollEvent()
		if ke, ok := ev.(*tcell.EventKey); ok {
			switch ke.Key() {
			case tcell.KeyEscape, tcell.KeyCtrlC:
				return true
			}
		}
	}
	return false
}

// RunLoop renders step once per frameTime tick until stepFrame returns
// false or the user requests to quit, logging via log.
func (t *Terminal) RunLoop(log *slog.Logger, stepFrame func() bool) {
	ticker := time.NewTicker(frameTime)
	defer ticker.Stop()
	for t.running {
		<-ticker.C
		if t.PollQuit() || !stepFrame() {
			t.running = false
			break
		}
		t.RenderFrame()
	}
	log.Info("display loop finished")
}
