package gte

// Data and control register indices, per the PSX GTE (COP2) register map.
// Both banks are plain 32-slot arrays (per the "register tables" design
// note): callers that need the packed sub-halfword view go through the
// named accessors below rather than indexing the array directly.
const (
	dVXY0 = 0
	dVZ0  = 1
	dVXY1 = 2
	dVZ1  = 3
	dVXY2 = 4
	dVZ2  = 5
	dRGBC = 6
	dOTZ  = 7
	dIR0  = 8
	dIR1  = 9
	dIR2  = 10
	dIR3  = 11
	dSXY0 = 12
	dSXY1 = 13
	dSXY2 = 14
	dSXYP = 15
	dSZ0  = 16
	dSZ1  = 17
	dSZ2  = 18
	dSZ3  = 19
	dRGB0 = 20
	dRGB1 = 21
	dRGB2 = 22
	dRES1 = 23
	dMAC0 = 24
	dMAC1 = 25
	dMAC2 = 26
	dMAC3 = 27
	dIRGB = 28
	dORGB = 29
	dLZCS = 30
	dLZCR = 31
)

const (
	cRT0  = 0 // RT11,RT12
	cRT1  = 1 // RT13,RT21
	cRT2  = 2 // RT22,RT23
	cRT3  = 3 // RT31,RT32
	cRT4  = 4 // RT33
	cTRX  = 5
	cTRY  = 6
	cTRZ  = 7
	cL0   = 8 // L11,L12
	cL1   = 9 // L13,L21
	cL2   = 10 // L22,L23
	cL3   = 11 // L31,L32
	cL4   = 12 // L33
	cRBK  = 13
	cGBK  = 14
	cBBK  = 15
	cLR0  = 16 // LR1,LR2
	cLR1  = 17 // LR3,LG1
	cLR2  = 18 // LG2,LG3
	cLR3  = 19 // LB1,LB2
	cLR4  = 20 // LB3
	cRFC  = 21
	cGFC  = 22
	cBFC  = 23
	cOFX  = 24
	cOFY  = 25
	cH    = 26
	cDQA  = 27
	cDQB  = 28
	cZSF3 = 29
	cZSF4 = 30
	cFLAG = 31
)

func i16(v uint32) int32 { return int32(int16(uint16(v))) }
func lo16(v uint32) uint16 { return uint16(v) }
func hi16(v uint32) uint16 { return uint16(v >> 16) }
func pack16(lo, hi uint16) uint32 { return uint32(lo) | uint32(hi)<<16 }

// matrix3 is a row-major 3x3 matrix of signed 16-bit fixed-point entries.
type matrix3 [3][3]int32

func (g *GTE) readMatrix(base int) matrix3 {
	var m matrix3
	r0 := g.control[base]
	r1 := g.control[base+1]
	r2 := g.control[base+2]
	r3 := g.control[base+3]
	r4 := g.control[base+4]
	m[0][0] = i16(uint32(lo16(r0)))
	m[0][1] = i16(uint32(hi16(r0)))
	m[0][2] = i16(uint32(lo16(r1)))
	m[1][0] = i16(uint32(hi16(r1)))
	m[1][1] = i16(uint32(lo16(r2)))
	m[1][2] = i16(uint32(hi16(r2)))
	m[2][0] = i16(uint32(lo16(r3)))
	m[2][1] = i16(uint32(hi16(r3)))
	m[2][2] = i16(uint32(lo16(r4)))
	return m
}

func (g *GTE) vector(dataBase int) [3]int32 {
	xy := g.data[dataBase]
	z := g.data[dataBase+1]
	return [3]int32{i16(uint32(lo16(xy))), i16(uint32(hi16(xy))), i16(uint32(lo16(z)))}
}

// GetData reads a data register by index (0..31) with hardware packing.
func (g *GTE) GetData(i int) uint32 {
	switch i {
	case dOTZ:
		return uint32(uint16(g.data[i]))
	case dIR0, dIR1, dIR2, dIR3:
		return uint32(i16(g.data[i]))
	case dSZ0, dSZ1, dSZ2, dSZ3:
		return uint32(uint16(g.data[i]))
	case dSXYP:
		return g.data[dSXY2]
	case dIRGB, dORGB:
		return g.irgb()
	case dLZCR:
		return uint32(g.lzcr())
	default:
		return g.data[i]
	}
}

// SetData writes a data register by index (0..31) with hardware packing
// and side effects (SXYP FIFO push, LZCS/LZCR recompute).
func (g *GTE) SetData(i int, v uint32) {
	switch i {
	case dSXYP:
		g.data[dSXY0] = g.data[dSXY1]
		g.data[dSXY1] = g.data[dSXY2]
		g.data[dSXY2] = v
	case dLZCS:
		g.data[dLZCS] = v
	case dLZCR, dORGB:
		// read-only
	default:
		g.data[i] = v
	}
}

// GetControl reads a control register by index (0..31).
func (g *GTE) GetControl(i int) uint32 {
	if i == cFLAG {
		return g.computeFlag()
	}
	return g.control[i]
}

// SetControl writes a control register by index (0..31).
func (g *GTE) SetControl(i int, v uint32) {
	g.control[i] = v
}

func (g *GTE) irgb() uint32 {
	clamp := func(v int32) uint32 {
		c := v >> 7
		if c < 0 {
			c = 0
		}
		if c > 0x1F {
			c = 0x1F
		}
		return uint32(c)
	}
	r := clamp(i16(g.data[dIR1]))
	gg := clamp(i16(g.data[dIR2]))
	b := clamp(i16(g.data[dIR3]))
	return r | gg<<5 | b<<10
}

func (g *GTE) lzcr() int32 {
	v := g.data[dLZCS]
	if v == 0 {
		return 32
	}
	if int32(v) < 0 {
		v = ^v
	}
	n := int32(0)
	for i := 31; i >= 0; i-- {
		if (v>>uint(i))&1 != 0 {
			break
		}
		n++
	}
	return n
}
