// Package psx wires the CPU, GTE, Bus, GPU and CD-ROM drive into one
// system instance and exposes the host API contract: create, reset, step,
// vblank, set_cdrom, set_user_param.
package psx

import (
	"fmt"
	"log/slog"

	"github.com/valerio/psxcore/internal/bus"
	"github.com/valerio/psxcore/internal/cdrom"
	"github.com/valerio/psxcore/internal/cpu"
	"github.com/valerio/psxcore/internal/gpu"
	"github.com/valerio/psxcore/internal/gte"
)

// CyclesPerFrame is the nominal CPU cycle budget for one 60Hz video frame
// at the PSX's 33.8685MHz system clock.
const CyclesPerFrame = 33868800 / 60

const biosSize = 512 * 1024

// System is the complete emulated machine: CPU+GTE+Bus+GPU+CD-ROM.
type System struct {
	CPU   *cpu.CPU
	GTE   *gte.GTE
	Bus   *bus.Bus
	GPU   *gpu.GPU
	CDROM *cdrom.Drive

	log       *slog.Logger
	userParam any
}

// New builds a system from a borrowed BIOS image (not copied; the caller
// must keep it alive for the system's lifetime). Returns an error if the
// image is the wrong size, mirroring the teacher's NewWithFile contract.
func New(biosBytes []byte, log *slog.Logger) (*System, error) {
	if len(biosBytes) != biosSize {
		return nil, fmt.Errorf("psx: BIOS image must be %d bytes, got %d", biosSize, len(biosBytes))
	}
	if log == nil {
		log = slog.Default()
	}

	g := gte.New()
	gp := gpu.New(log)
	cd := cdrom.New(log)
	b := bus.New(biosBytes, gp, cd, log)
	c := cpu.New(b, g, log)

	s := &System{CPU: c, GTE: g, Bus: b, GPU: gp, CDROM: cd, log: log}
	return s, nil
}

// Reset restores all sub-component state to initial values. Reset is
// idempotent: reset(reset(S)) == reset(S).
func (s *System) Reset() {
	s.CPU.Reset()
	s.GTE.Reset()
	s.Bus.Reset()
	s.GPU.Reset()
	s.CDROM.Reset()
}

// Step runs exactly one CPU cycle and one bus cycle (which in turn steps
// timers and the CD-ROM drive), then latches the bus's aggregated
// interrupt line into the CPU.
func (s *System) Step() {
	s.CPU.Step()
	s.Bus.Step(1)
	s.CPU.SetIRQ(s.Bus.Pending())
	if s.CPU.LastExceptionWasRI() {
		s.log.Warn("reserved instruction exception", "pc", s.CPU.PC())
	}
}

// VBlank sets I_STAT bit 0, per the host API contract.
func (s *System) VBlank() {
	s.Bus.VBlank()
}

// SetCDROM installs or removes a disc: a non-nil reader reports a disc
// present on GetID, nil reports none.
func (s *System) SetCDROM(reader cdrom.SectorReader) {
	s.CDROM.SetSectorReader(reader)
}

// SetUserParam stores an opaque host value, returned by UserParam. It is
// not passed to the CD-ROM sector reader or the debug-log hook.
func (s *System) SetUserParam(p any) {
	s.userParam = p
}

// UserParam returns the value installed by SetUserParam.
func (s *System) UserParam() any {
	return s.userParam
}

// LastExceptionWasRI reports whether the most recent Step raised a
// Reserved Instruction exception, which should terminate a host run loop.
func (s *System) LastExceptionWasRI() bool {
	return s.CPU.LastExceptionWasRI()
}
