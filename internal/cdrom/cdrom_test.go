package cdrom

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func sendCommand(d *Drive, cmd uint8, params ...uint8) {
	d.WriteRegister(0, 0) // index 0
	for _, p := range params {
		d.WriteRegister(2, p)
	}
	d.WriteRegister(1, cmd)
}

func runUntilIRQ(d *Drive, maxCycles int) (uint8, bool) {
	const step = 1000
	for c := 0; c < maxCycles; c += step {
		if n, fired := d.Step(step); fired {
			return n, true
		}
	}
	return 0, false
}

func ackInterrupt(d *Drive) {
	d.WriteRegister(0, 1)
	d.WriteRegister(3, 0x1F)
}

func TestGetIDWithNoDiscReturnsErrorInterrupt(t *testing.T) {
	d := New(nil)
	sendCommand(d, 0x1A)

	n, fired := runUntilIRQ(d, 200000)
	require.True(t, fired, "expected the acknowledge interrupt to fire")
	require.EqualValues(t, int3Acknowledge, n, "first interrupt should be INT3")
	ackInterrupt(d)

	n, fired = runUntilIRQ(d, 200000)
	require.True(t, fired, "expected a second interrupt to fire")
	require.EqualValues(t, int5Error, n, "second interrupt should be INT5 (error)")
	require.NotZero(t, d.resp.Len(), "expected a response payload")
}

func TestGetIDWithDiscReturnsCompleteInterrupt(t *testing.T) {
	d := New(nil)
	d.SetSectorReader(func(lba uint32) ([sectorSize]byte, bool) {
		return [sectorSize]byte{}, true
	})
	sendCommand(d, 0x1A)

	_, fired := runUntilIRQ(d, 200000)
	require.True(t, fired, "expected the acknowledge interrupt to fire")
	ackInterrupt(d)

	n, fired := runUntilIRQ(d, 200000)
	require.True(t, fired)
	require.EqualValues(t, int2Complete, n, "expected INT2 (complete)")
}

func TestBCDRoundTripLaw(t *testing.T) {
	for _, v := range []int{0, 1, 9, 10, 42, 59, 99} {
		bcd := binaryToBCD(v)
		require.Equal(t, v, bcdToBinary(bcd), "bcdToBinary(binaryToBCD(%d))", v)
	}
}

func TestLocToLBAHonorsLeadInOffset(t *testing.T) {
	// 00:02:00 is the first addressable sector, LBA 0.
	require.EqualValues(t, 0, locToLBA(0x00, 0x02, 0x00))
	// 00:03:00 is one second (75 sectors) further in.
	require.EqualValues(t, 75, locToLBA(0x00, 0x03, 0x00))
}

func TestGetstatReflectsMotorAfterInit(t *testing.T) {
	d := New(nil)
	sendCommand(d, 0x0A)
	_, fired := runUntilIRQ(d, 200000)
	require.True(t, fired, "expected Init to complete")
	require.True(t, d.motorOn, "expected motor on after Init")
}

func TestPRMEMPTReflectsParameterFIFOEmptiness(t *testing.T) {
	d := New(nil)
	require.NotZero(t, d.statusByte()&(1<<3), "PRMEMPT should be set while the parameter FIFO is empty")

	d.WriteRegister(0, 0) // index 0
	d.WriteRegister(2, 0x00)
	require.Zero(t, d.statusByte()&(1<<3), "PRMEMPT should clear once a parameter byte is queued")
}
