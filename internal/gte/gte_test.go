package gte

import "testing"

func TestNCLIPWinding(t *testing.T) {
	g := New()
	// Counter-clockwise triangle: positive area.
	g.SetData(dSXY0, pack16(0, 0))
	g.SetData(dSXY1, pack16(10, 0))
	g.SetData(dSXY2, pack16(10, 10))
	g.NCLIP()
	mac0 := int32(g.GetData(dMAC0))
	if mac0 <= 0 {
		t.Fatalf("MAC0 = %d, want positive for CCW winding", mac0)
	}
}

func TestAVSZ3Average(t *testing.T) {
	g := New()
	g.SetControl(cZSF3, uint32(int16(4096)))
	g.data[dSZ1] = 100
	g.data[dSZ2] = 200
	g.data[dSZ3] = 300
	g.AVSZ3()
	if got := g.GetData(dOTZ); got != 600 {
		t.Fatalf("OTZ = %d, want 600", got)
	}
}

func TestRTPSIdentityProjectsOrigin(t *testing.T) {
	g := New()
	// Identity rotation matrix.
	g.control[cRT0] = pack16(1<<12, 0)
	g.control[cRT1] = pack16(0, 0)
	g.control[cRT2] = pack16(1<<12, 0)
	g.control[cRT3] = pack16(0, 0)
	g.control[cRT4] = uint32(uint16(1 << 12))
	g.control[cTRZ] = 1000 // place vertex in front of camera
	g.control[cH] = 100
	g.control[cDQA] = 0
	g.control[cDQB] = 0

	g.SetData(dVXY0, pack16(0, 0))
	g.SetData(dVZ0, 0)

	g.Execute(0x01) // RTPS
	if flag := g.Flag(); flag&(1<<31) != 0 {
		t.Fatalf("unexpected error flag on well-formed RTPS: %#x", flag)
	}
}

func TestSetDataSXYPShiftsFIFO(t *testing.T) {
	g := New()
	g.SetData(dSXYP, pack16(1, 1))
	g.SetData(dSXYP, pack16(2, 2))
	g.SetData(dSXYP, pack16(3, 3))

	if g.GetData(dSXY0) != pack16(1, 1) {
		t.Fatalf("SXY0 = %#x", g.GetData(dSXY0))
	}
	if g.GetData(dSXY1) != pack16(2, 2) {
		t.Fatalf("SXY1 = %#x", g.GetData(dSXY1))
	}
	if g.GetData(dSXYP) != pack16(3, 3) {
		t.Fatalf("SXYP = %#x", g.GetData(dSXYP))
	}
}

func TestLimitIRUnsignedVsSigned(t *testing.T) {
	g := New()
	got := g.limitIR(-100, false, 24)
	if got != -100 {
		t.Fatalf("signed limitIR(-100) = %d, want -100", got)
	}
	if g.Flag()&(1<<24) != 0 {
		t.Fatal("unexpected saturation flag for in-range signed value")
	}

	g2 := New()
	got2 := g2.limitIR(-100, true, 24)
	if got2 != 0 {
		t.Fatalf("unsigned limitIR(-100) = %d, want clamped to 0", got2)
	}
	if g2.Flag()&(1<<24) == 0 {
		t.Fatal("expected saturation flag set for unsigned clamp")
	}
}
