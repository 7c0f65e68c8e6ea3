package main

import (
	"encoding/binary"
	"errors"
	"log/slog"
	"os"

	"github.com/urfave/cli"

	"github.com/valerio/psxcore/display"
	"github.com/valerio/psxcore/psx"
)

func main() {
	app := cli.NewApp()
	app.Name = "psxcore"
	app.Description = "A PlayStation system emulator core"
	app.Usage = "psxcore --bios <path> [options]"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "bios", Usage: "Path to the 512KiB BIOS ROM image"},
		cli.StringFlag{Name: "exe", Usage: "Path to a PS-EXE to side-load at boot"},
		cli.StringFlag{Name: "cdrom", Usage: "Path to a raw CD-ROM disc image"},
		cli.IntFlag{Name: "frames", Usage: "Run headless for N frames then exit (0 = interactive)"},
		cli.StringFlag{Name: "vram-dump", Usage: "On exit, write raw VRAM (A1B5G5R5) to this path"},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		slog.Error("psxcore exited with error", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	biosPath := c.String("bios")
	if biosPath == "" {
		cli.ShowAppHelp(c)
		return errors.New("no BIOS path provided")
	}

	biosBytes, err := os.ReadFile(biosPath)
	if err != nil {
		return err
	}

	sys, err := psx.New(biosBytes, nil)
	if err != nil {
		return err
	}

	var exeBytes []byte
	if p := c.String("exe"); p != "" {
		exeBytes, err = os.ReadFile(p)
		if err != nil {
			return err
		}
	}

	if imgPath := c.String("cdrom"); imgPath != "" {
		img, err := os.ReadFile(imgPath)
		if err != nil {
			return err
		}
		sys.SetCDROM(rawImageReader(img))
	}

	if frames := c.Int("frames"); frames > 0 {
		runHeadless(sys, exeBytes, frames)
	} else if err := runInteractive(sys, exeBytes); err != nil {
		return err
	}

	if dump := c.String("vram-dump"); dump != "" {
		return writeVRAMDump(sys, dump)
	}
	return nil
}

func runHeadless(sys *psx.System, exe []byte, frames int) {
	for f := 0; f < frames; f++ {
		for i := 0; i < psx.CyclesPerFrame; i++ {
			if exe != nil {
				sys.MaybeSideloadEXE(exe)
			}
			sys.Step()
			if sys.LastExceptionWasRI() {
				return
			}
		}
		sys.VBlank()
	}
}

func runInteractive(sys *psx.System, exe []byte) error {
	term, err := display.NewTerminal(sys.GPU, 0, 0, sys.GPU.Width(), sys.GPU.Height())
	if err != nil {
		return err
	}
	defer term.Close()

	term.RunLoop(slog.Default(), func() bool {
		for i := 0; i < psx.CyclesPerFrame; i++ {
			if exe != nil {
				sys.MaybeSideloadEXE(exe)
			}
			sys.Step()
			if sys.LastExceptionWasRI() {
				return false
			}
		}
		sys.VBlank()
		return true
	})
	return nil
}

func rawImageReader(img []byte) func(lba uint32) ([2048]byte, bool) {
	const sectorStride = 2352
	return func(lba uint32) (buf [2048]byte, ok bool) {
		off := int(lba)*sectorStride + 24 // skip sync+header+subheader
		if off+2048 > len(img) {
			return buf, false
		}
		copy(buf[:], img[off:off+2048])
		return buf, true
	}
}

func writeVRAMDump(sys *psx.System, path string) error {
	v := sys.GPU.VRAM()
	out := make([]byte, len(v)*2)
	for i, px := range v {
		binary.LittleEndian.PutUint16(out[i*2:], px)
	}
	return os.WriteFile(path, out, 0o644)
}
