package psx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestSystem(t *testing.T) *System {
	t.Helper()
	bios := make([]byte, biosSize)
	s, err := New(bios, nil)
	require.NoError(t, err)
	return s
}

func TestNewRejectsWrongSizedBIOS(t *testing.T) {
	_, err := New(make([]byte, 16), nil)
	require.Error(t, err, "expected error for undersized BIOS image")
}

func TestResetIsIdempotent(t *testing.T) {
	s := newTestSystem(t)
	s.CPU.SetGPR(4, 0x1234)
	s.Reset()
	pcAfterFirst := s.CPU.PC()
	gprAfterFirst := s.CPU.GPR(4)

	s.Reset()
	require.Equal(t, pcAfterFirst, s.CPU.PC(), "second reset changed PC relative to the first")
	require.Equal(t, gprAfterFirst, s.CPU.GPR(4), "second reset changed GPR4 relative to the first")
}

func TestStepDrivesCPUAndLatchesInterrupts(t *testing.T) {
	s := newTestSystem(t)
	s.VBlank()
	s.Step()
	require.False(t, s.Bus.Pending(), "interrupt mask defaults to 0, pending stays false until IMASK enables it")

	s.Bus.StoreWord(0x1F801074, 1) // I_MASK: enable V-blank
	s.Step()
	require.True(t, s.Bus.Pending(), "V-blank should be pending once I_MASK enables it")
	require.NotZero(t, s.CPU.COP0(13)&(1<<10), "Step should latch the pending interrupt into Cause bit 10")
}

func TestCreateOneFrameOfCycles(t *testing.T) {
	s := newTestSystem(t)
	for i := 0; i < CyclesPerFrame; i++ {
		s.Step()
	}
	s.VBlank()
}
