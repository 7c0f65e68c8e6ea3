// Package gte implements the Geometry Transformation Engine (COP2): the
// PSX's fixed-point vector/matrix coprocessor. It owns the 32 data and 32
// control registers, the saturating limiters, the RTPS/RTPT perspective
// transform, NCDS lighting, NCLIP winding test, AVSZ3 depth average, and the
// UNR perspective divider.
//
// Every limiter is implemented as the "limit and flag" helper the design
// notes call for: a function parameterized by the FLAG bit index, rather
// than a macro that mutates state at each call site.
package gte

// GTE holds the two 32-slot register banks and the sticky FLAG bits.
type GTE struct {
	data      [32]uint32
	control   [32]uint32
	flag      uint32 // sticky bits 12..30; bit 31 is derived on read
	lastInstr uint32 // currently executing GTE instruction word (sf/lm bits)
}

// New returns a zero-initialized GTE.
func New() *GTE {
	return &GTE{}
}

// Reset restores the GTE to its power-on state.
func (g *GTE) Reset() {
	*g = GTE{}
}

// Flag returns the FLAG register including the derived error bit 31. Per
// spec.md §4.2, limiter bits accumulate across instructions; callers (and
// tests) must mask the bits they care about rather than assume FLAG was
// cleared by a prior op.
func (g *GTE) Flag() uint32 {
	return g.computeFlag()
}

// SetFlagRaw overwrites the raw sticky bits (used by CTC2 writes to FLAG).
func (g *GTE) SetFlagRaw(v uint32) {
	g.flag = v &^ (1 << 31)
}

const errorMask = 0x7F87E000 // bits 13..18 and 23..30, see computeFlag

func (g *GTE) computeFlag() uint32 {
	v := g.flag &^ (1 << 31)
	if v&errorMask != 0 {
		v |= 1 << 31
	}
	return v
}

func (g *GTE) setFlagBit(bit uint) {
	g.flag |= 1 << bit
}

// limitIR clamps v to [-32768, 32767] (A1/A2/A3, unsigned=false) or
// [0, 32767] (unsigned=true), setting flagBit on saturation.
func (g *GTE) limitIR(v int64, unsigned bool, flagBit uint) int32 {
	lo, hi := int64(-32768), int64(32767)
	if unsigned {
		lo = 0
	}
	if v < lo {
		g.setFlagBit(flagBit)
		return int32(lo)
	}
	if v > hi {
		g.setFlagBit(flagBit)
		return int32(hi)
	}
	return int32(v)
}

// limitColor clamps v to [0,255] (B1/B2/B3).
func (g *GTE) limitColor(v int64, flagBit uint) uint8 {
	if v < 0 {
		g.setFlagBit(flagBit)
		return 0
	}
	if v > 255 {
		g.setFlagBit(flagBit)
		return 255
	}
	return uint8(v)
}

// limitSZ clamps v to [0,65535] (C, bit 18).
func (g *GTE) limitSZ(v int64) uint16 {
	if v < 0 {
		g.setFlagBit(18)
		return 0
	}
	if v > 65535 {
		g.setFlagBit(18)
		return 65535
	}
	return uint16(v)
}

// limitSXY clamps v to [-1024,1023] (D1/D2, bits 14/13).
func (g *GTE) limitSXY(v int64, flagBit uint) int16 {
	if v < -1024 {
		g.setFlagBit(flagBit)
		return -1024
	}
	if v > 1023 {
		g.setFlagBit(flagBit)
		return 1023
	}
	return int16(v)
}

// limitIR0 clamps v to [0,4095] (E, bit 12).
func (g *GTE) limitIR0(v int64) int32 {
	if v < 0 {
		g.setFlagBit(12)
		return 0
	}
	if v > 4095 {
		g.setFlagBit(12)
		return 4095
	}
	return int32(v)
}

func (g *GTE) sfLm(instr uint32) (sf bool, lm bool) {
	return instr&(1<<19) != 0, instr&(1<<10) != 0
}

// Execute dispatches a COP2 arithmetic instruction word to the
// corresponding GTE operation, per the function code in bits 0..5.
func (g *GTE) Execute(instr uint32) {
	g.lastInstr = instr
	switch instr & 0x3F {
	case 0x01:
		g.rtp(dVXY0, true)
	case 0x30:
		g.RTPT(instr)
	case 0x06:
		g.NCLIP()
	case 0x2D:
		g.AVSZ3()
	case 0x13:
		g.NCDS(instr)
	default:
		// Unrecognized GTE functions are accepted as no-ops by the core;
		// only unrecognized *COP2 encodings* (outside the arithmetic
		// group) raise Reserved Instruction at the CPU level.
	}
}

func matVecShift(m matrix3, v [3]int32, bias [3]int64, shift uint) [3]int64 {
	var out [3]int64
	for r := 0; r < 3; r++ {
		acc := bias[r]
		for c := 0; c < 3; c++ {
			acc += int64(m[r][c]) * int64(v[c])
		}
		out[r] = acc >> shift
	}
	return out
}

// RTPS transforms a single vertex (V0) through the perspective pipeline.
func (g *GTE) RTPS(instr uint32) {
	g.lastInstr = instr
	g.rtp(dVXY0, true)
}

// RTPT transforms the three vertices V0, V1, V2 in sequence.
func (g *GTE) RTPT(instr uint32) {
	g.lastInstr = instr
	g.rtp(dVXY0, false)
	g.rtp(dVXY1, false)
	g.rtp(dVXY2, true)
}

func (g *GTE) rtp(vecBase int, last bool) {
	sf, lm := g.sfLm(g.lastInstr)
	shift := uint(0)
	if sf {
		shift = 12
	}

	rt := g.readMatrix(cRT0)
	v := g.vector(vecBase)
	tr := [3]int64{
		int64(int32(g.control[cTRX])) * 4096,
		int64(int32(g.control[cTRY])) * 4096,
		int64(int32(g.control[cTRZ])) * 4096,
	}
	mac := matVecShift(rt, v, tr, shift)

	ir1 := g.limitIR(mac[0], lm, 24)
	ir2 := g.limitIR(mac[1], lm, 23)
	ir3 := g.limitIR(mac[2], lm, 22)

	g.data[dMAC1] = uint32(mac[0])
	g.data[dMAC2] = uint32(mac[1])
	g.data[dMAC3] = uint32(mac[2])
	g.data[dIR1] = uint32(ir1)
	g.data[dIR2] = uint32(ir2)
	g.data[dIR3] = uint32(ir3)

	// SZ FIFO shift: the latched SZ3 always uses the full (sf-independent)
	// MAC3 precision, i.e. whichever shift sf did NOT already apply.
	szShift := uint(12)
	if sf {
		szShift = 0
	}
	newSZ := g.limitSZ(mac[2] >> szShift)
	g.data[dSZ0] = uint32(g.data[dSZ1])
	g.data[dSZ1] = uint32(g.data[dSZ2])
	g.data[dSZ2] = uint32(g.data[dSZ3])
	g.data[dSZ3] = uint32(newSZ)

	h := uint16(g.control[cH])
	d := g.UnrDivide(h, newSZ)

	ofx := int64(int32(g.control[cOFX]))
	ofy := int64(int32(g.control[cOFY]))
	sx := g.limitSXY((int64(ir1)*int64(d)+ofx)>>16, 14)
	sy := g.limitSXY((int64(ir2)*int64(d)+ofy)>>16, 13)

	// SXY FIFO shift via the SXYP write semantics.
	g.data[dSXY0] = g.data[dSXY1]
	g.data[dSXY1] = g.data[dSXY2]
	g.data[dSXY2] = pack16(uint16(sx), uint16(sy))

	dqa := int64(int16(g.control[cDQA]))
	dqb := int64(int32(g.control[cDQB]))
	mac0 := dqa*int64(d) + dqb
	g.data[dMAC0] = uint32(mac0)
	g.data[dIR0] = uint32(g.limitIR0(mac0 >> 12))

	_ = last
}

// NCLIP computes the signed area (MAC0) of the SXY FIFO triangle; its sign
// determines winding.
func (g *GTE) NCLIP() {
	sx0 := int64(int16(g.data[dSXY0]))
	sy0 := int64(int16(g.data[dSXY0] >> 16))
	sx1 := int64(int16(g.data[dSXY1]))
	sy1 := int64(int16(g.data[dSXY1] >> 16))
	sx2 := int64(int16(g.data[dSXY2]))
	sy2 := int64(int16(g.data[dSXY2] >> 16))

	mac0 := sx0*sy1 + sx1*sy2 + sx2*sy0 - sx0*sy2 - sx1*sy0 - sx2*sy1
	g.data[dMAC0] = uint32(mac0)
}

// AVSZ3 averages the top three SZ FIFO entries scaled by ZSF3.
func (g *GTE) AVSZ3() {
	zsf3 := int64(int16(g.control[cZSF3]))
	sum := int64(uint16(g.data[dSZ1])) + int64(uint16(g.data[dSZ2])) + int64(uint16(g.data[dSZ3]))
	mac0 := zsf3 * sum
	g.data[dMAC0] = uint32(mac0)
	g.data[dOTZ] = uint32(g.limitSZ(mac0 >> 12))
}

// NCDS applies normal-vector lighting plus depth cueing for a single vertex,
// writing the result into the RGB FIFO while preserving the CD code byte.
func (g *GTE) NCDS(instr uint32) {
	sf, lm := g.sfLm(instr)
	shift := uint(0)
	if sf {
		shift = 12
	}
	zero := [3]int64{0, 0, 0}

	v := g.vector(dVXY0)
	L := g.readMatrix(cL0)
	mac := matVecShift(L, v, zero, shift)
	ir := g.limitVec(mac, lm)

	LCM := g.readMatrix(cLR0)
	bk := [3]int64{
		int64(int32(g.control[cRBK])) * 4096,
		int64(int32(g.control[cGBK])) * 4096,
		int64(int32(g.control[cBBK])) * 4096,
	}
	mac = matVecShift(LCM, [3]int32{int32(ir[0]), int32(ir[1]), int32(ir[2])}, bk, shift)
	ir = g.limitVec(mac, lm)

	rgbc := g.data[dRGBC]
	r := int64(byte(rgbc))
	gc := int64(byte(rgbc >> 8))
	b := int64(byte(rgbc >> 16))
	code := byte(rgbc >> 24)

	mac[0] = (r * ir[0] * 16) >> shift
	mac[1] = (gc * ir[1] * 16) >> shift
	mac[2] = (b * ir[2] * 16) >> shift
	ir = g.limitVec(mac, lm)

	ir0 := int64(int16(g.data[dIR0]))
	fc := [3]int64{
		int64(int32(g.control[cRFC])) * 4096,
		int64(int32(g.control[cGFC])) * 4096,
		int64(int32(g.control[cBFC])) * 4096,
	}
	for i := 0; i < 3; i++ {
		mac[i] = mac[i] + ((fc[i]-mac[i])*ir0)>>12
	}
	ir = g.limitVec(mac, lm)

	g.data[dMAC1], g.data[dMAC2], g.data[dMAC3] = uint32(mac[0]), uint32(mac[1]), uint32(mac[2])
	g.data[dIR1], g.data[dIR2], g.data[dIR3] = uint32(ir[0]), uint32(ir[1]), uint32(ir[2])

	rOut := g.limitColor(mac[0]>>4, 21)
	gOut := g.limitColor(mac[1]>>4, 20)
	bOut := g.limitColor(mac[2]>>4, 19)

	g.data[dRGB0] = g.data[dRGB1]
	g.data[dRGB1] = g.data[dRGB2]
	g.data[dRGB2] = uint32(rOut) | uint32(gOut)<<8 | uint32(bOut)<<16 | uint32(code)<<24
}

func (g *GTE) limitVec(mac [3]int64, lm bool) [3]int64 {
	return [3]int64{
		int64(g.limitIR(mac[0], lm, 24)),
		int64(g.limitIR(mac[1], lm, 23)),
		int64(g.limitIR(mac[2], lm, 22)),
	}
}


