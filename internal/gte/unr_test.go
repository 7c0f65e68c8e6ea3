package gte

import "testing"

func TestUnrDivideSaturatesWhenHTooLarge(t *testing.T) {
	g := New()
	got := g.UnrDivide(200, 100) // h >= sz3*2
	if got != 0x1FFFF {
		t.Fatalf("UnrDivide() = %#x, want 0x1FFFF", got)
	}
	flag := g.Flag()
	if flag&(1<<17) == 0 {
		t.Fatalf("expected FLAG bit 17 set, flag=%#x", flag)
	}
	if flag&(1<<31) == 0 {
		t.Fatalf("expected FLAG bit 31 (error) set, flag=%#x", flag)
	}
}

func TestUnrDivideApproximatesReciprocal(t *testing.T) {
	g := New()
	cases := []struct{ h, sz3 uint16 }{
		{1000, 4000},
		{500, 2000},
		{1, 2},
		{4095, 8192},
		{12345, 60000},
	}
	for _, c := range cases {
		g.flag = 0
		got := g.UnrDivide(c.h, c.sz3)
		want := (uint32(c.h) << 16) / uint32(c.sz3)
		diff := int64(got) - int64(want)
		if diff < -1 || diff > 1 {
			t.Fatalf("UnrDivide(%d,%d) = %d, want ~%d (diff %d)", c.h, c.sz3, got, want, diff)
		}
	}
}

func TestFlagAccumulatesAcrossOps(t *testing.T) {
	g := New()
	g.UnrDivide(200, 100) // sets bit 17
	g.limitIR0(-1)        // sets bit 12
	flag := g.Flag()
	if flag&(1<<17) == 0 || flag&(1<<12) == 0 {
		t.Fatalf("expected both bit 17 and bit 12 still set, flag=%#x", flag)
	}
}
