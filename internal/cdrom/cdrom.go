// Package cdrom implements the PSX CD-ROM drive's command/response state
// machine: the index-banked register file, parameter/response FIFOs, the
// delayed-interrupt scheduler (INT1/INT2/INT3/INT5) and BCD sector
// addressing. Sector payloads are supplied by the host through a
// SectorReader callback rather than any real disc image format, keeping
// this package free of filesystem concerns.
package cdrom

import (
	"log/slog"

	"github.com/valerio/psxcore/internal/fifo"
)

const (
	sectorSize = 2048

	respCapacity  = 16
	paramCapacity = 16
)

// SectorReader fetches the 2048-byte data payload of the sector at the
// given logical block address. A nil reader means no disc is inserted.
type SectorReader func(lba uint32) ([sectorSize]byte, bool)

// Status bits of the Getstat response byte.
const (
	statError     = 1 << 0
	statMotorOn   = 1 << 1
	statSeekError = 1 << 2
	statIDError   = 1 << 3
	statShellOpen = 1 << 4
	statRead      = 1 << 5
	statSeek      = 1 << 6
	statPlay      = 1 << 7
)

type irqSlot struct {
	armed    bool
	countdown int
	intNum    uint8
	response  []uint8
}

// Drive is the CD-ROM controller. Zero value is not usable; use New.
type Drive struct {
	log *slog.Logger

	index uint8

	params *fifo.FIFO
	resp   *fifo.FIFO

	ie    uint8
	iflag uint8

	queue [4]irqSlot // descriptor chain; queue[0] is always the next to fire

	mode uint8

	locMM, locSS, locFF byte // BCD Setloc target
	seekLBA             uint32

	reading   bool
	playing   bool
	motorOn   bool
	shellOpen bool

	dataBuf [sectorSize]byte
	dataPos int
	dataLen int

	reader SectorReader
	hasDisc bool
}

// New creates a Drive with no disc inserted.
func New(log *slog.Logger) *Drive {
	if log == nil {
		log = slog.Default()
	}
	d := &Drive{
		log:    log,
		params: fifo.New(paramCapacity),
		resp:   fifo.New(respCapacity),
	}
	d.Reset()
	return d
}

// SetSectorReader installs the host's disc-image backing callback and
// marks a disc as inserted. Passing nil removes the disc.
func (d *Drive) SetSectorReader(r SectorReader) {
	d.reader = r
	d.hasDisc = r != nil
}

// Reset restores power-on state: motor off, no pending interrupts, empty
// FIFOs.
func (d *Drive) Reset() {
	d.index = 0
	d.params.Reset()
	d.resp.Reset()
	d.ie = 0
	d.iflag = 0
	d.queue = [4]irqSlot{}
	d.mode = 0
	d.locMM, d.locSS, d.locFF = 0, 0, 0
	d.seekLBA = 0
	d.reading = false
	d.playing = false
	d.motorOn = false
	d.shellOpen = false
	d.dataPos = 0
	d.dataLen = 0
}

func (d *Drive) getstat() uint8 {
	var s uint8
	if d.shellOpen {
		s |= statShellOpen
	}
	if d.motorOn {
		s |= statMotorOn
	}
	if d.reading {
		s |= statRead
	}
	if d.playing {
		s |= statPlay
	}
	if !d.hasDisc {
		s |= statIDError
	}
	return s
}

func bcdToBinary(v byte) int { return int(v>>4)*10 + int(v&0xF) }
func binaryToBCD(v int) byte { return byte((v/10)<<4 | (v % 10)) }

// locToLBA converts the BCD minute:second:frame Setloc target to a
// logical block address, using the standard 2-second (150-sector) lead-in
// offset.
func locToLBA(mm, ss, ff byte) uint32 {
	m := bcdToBinary(mm)
	s := bcdToBinary(ss)
	f := bcdToBinary(ff)
	total := (m*60+s)*75 + f
	if total < 150 {
		return 0
	}
	return uint32(total - 150)
}
