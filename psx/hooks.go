package psx

import (
	"encoding/binary"

	"github.com/valerio/psxcore/internal/cpu"
)

// TTYChar reports the character the BIOS is about to print through its
// putchar syscalls, and whether the CPU is currently sitting at one of the
// three observable call sites. The host polls this once per Step.
func (s *System) TTYChar() (ch byte, ok bool) {
	pc := s.CPU.PC()
	r9 := s.CPU.GPR(9)
	switch {
	case pc == 0x000000A0 && (r9 == 0x3C || r9 == 0x40):
		return byte(s.CPU.GPR(4)), true
	case pc == 0x000000B0 && r9 == 0x3D:
		return byte(s.CPU.GPR(4)), true
	default:
		return 0, false
	}
}

// MaybeSideloadEXE implements the EXE side-loader contract: when the CPU
// is parked at the shell's EXE entry hook, it copies the executable's
// .text segment into RAM at its load address and redirects PC to its
// entry point.
func (s *System) MaybeSideloadEXE(exe []byte) bool {
	if s.CPU.PC() != 0x80030000 || len(exe) < 0x800 {
		return false
	}
	loadAddr := binary.LittleEndian.Uint32(exe[0x10:])
	entry := binary.LittleEndian.Uint32(exe[0x18:])

	body := exe[0x800:]
	for i, b := range body {
		s.Bus.StoreByte(cpu.Translate(loadAddr+uint32(i)), b)
	}
	s.CPU.SetPC(entry)
	return true
}
