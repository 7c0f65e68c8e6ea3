package gpu

type vertex struct {
	x, y int
	r, g, b uint8
	u, v   uint8
}

// gp0FillRect handles GP0(02h): flat-fill a rectangle, unaffected by the
// drawing area, mask bit or dithering (matches real hardware).
func (g *GPU) gp0FillRect() {
	color := g.param(0)
	xy := g.param(1)
	wh := g.param(2)
	x0 := int(xy & 0x3F0)
	y0 := int((xy >> 16) & 0x1FF)
	w := int(wh&0x3FF+0xF) &^ 0xF
	h := int((wh >> 16) & 0x1FF)
	px := packColor(uint8(color), uint8(color>>8), uint8(color>>16))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			yy := (y0 + y) & 0x1FF
			xx := (x0 + x) & 0x3FF
			g.vram[yy*vramWidth+xx] = px
		}
	}
}

func packColor(r, g8, b uint8) uint16 {
	return uint16(r>>3) | uint16(g8>>3)<<5 | uint16(b>>3)<<10
}

func unpackColor(p uint16) (r, g8, b uint8) {
	r = uint8(p&0x1F) << 3
	g8 = uint8((p>>5)&0x1F) << 3
	b = uint8((p>>10)&0x1F) << 3
	return
}

// gp0DrawPolygon rasterizes a triangle or quad (as two triangles) using
// the vertices/colors/texcoords collected in paramsBuf, per the bitfields
// of the command byte (see decodePolygon).
func (g *GPU) gp0DrawPolygon() {
	gouraud := g.cmd&0x10 != 0
	quad := g.cmd&0x08 != 0
	textured := g.cmd&0x04 != 0

	n := 3
	if quad {
		n = 4
	}

	baseR := uint8(g.param(0))
	baseG := uint8(g.param(0) >> 8)
	baseB := uint8(g.param(0) >> 16)

	verts := make([]vertex, n)
	clutX, clutY, texpageWord := 0, 0, uint32(0)
	idx := 1
	for i := 0; i < n; i++ {
		r, gg, b := baseR, baseG, baseB
		if gouraud && i > 0 {
			c := g.param(idx)
			idx++
			r, gg, b = uint8(c), uint8(c>>8), uint8(c>>16)
		}
		xy := g.param(idx)
		idx++
		x := int(int16(xy & 0xFFFF))
		y := int(int16(xy >> 16))

		var u, v uint8
		if textured {
			uv := g.param(idx)
			idx++
			u = uint8(uv)
			v = uint8(uv >> 8)
			if i == 0 {
				clutX = int(uv>>16) & 0x3F
				clutY = int(uv>>22) & 0x1FF
			} else if i == 1 {
				texpageWord = (uv >> 16) & 0xFFFF
			}
		}
		verts[i] = vertex{x: x + g.offsetX, y: y + g.offsetY, r: r, g: gg, b: b, u: u, v: v}
	}

	if textured {
		g.applyDrawModeFromTexpage(texpageWord)
	}

	g.fillTriangle(verts[0], verts[1], verts[2], textured, gouraud, clutX, clutY)
	if quad {
		g.fillTriangle(verts[1], verts[2], verts[3], textured, gouraud, clutX, clutY)
	}
}

func (g *GPU) applyDrawModeFromTexpage(tp uint32) {
	g.tp.texBaseX = int(tp & 0xF)
	g.tp.texBaseY = int((tp >> 4) & 0x1)
	g.tp.blendMode = int((tp >> 5) & 0x3)
	g.tp.colorDepth = int((tp >> 7) & 0x3)
}

func edge(ax, ay, bx, by, px, py int) int {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

func (g *GPU) fillTriangle(a, b, c vertex, textured, gouraud bool, clutX, clutY int) {
	minX := min3(a.x, b.x, c.x)
	maxX := max3(a.x, b.x, c.x)
	minY := min3(a.y, b.y, c.y)
	maxY := max3(a.y, b.y, c.y)

	if minX < g.drawAreaX1 {
		minX = g.drawAreaX1
	}
	if minY < g.drawAreaY1 {
		minY = g.drawAreaY1
	}
	if maxX > g.drawAreaX2 {
		maxX = g.drawAreaX2
	}
	if maxY > g.drawAreaY2 {
		maxY = g.drawAreaY2
	}

	area := edge(a.x, a.y, b.x, b.y, c.x, c.y)
	if area == 0 {
		return
	}

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			w0 := edge(b.x, b.y, c.x, c.y, x, y)
			w1 := edge(c.x, c.y, a.x, a.y, x, y)
			w2 := edge(a.x, a.y, b.x, b.y, x, y)
			inside := (w0 >= 0 && w1 >= 0 && w2 >= 0) || (w0 <= 0 && w1 <= 0 && w2 <= 0)
			if !inside {
				continue
			}
			var px uint16
			if textured {
				u := int(a.u) + (int(b.u)-int(a.u))*w0/area + (int(c.u)-int(a.u))*w1/area
				v := int(a.v) + (int(b.v)-int(a.v))*w0/area + (int(c.v)-int(a.v))*w1/area
				px = g.sampleTexture(u, v, clutX, clutY)
				if px == 0 {
					continue // fully transparent texel (color 0 = sprite hole)
				}
			} else if gouraud {
				r := interp(a.r, b.r, c.r, w0, w1, w2, area)
				gg := interp(a.g, b.g, c.g, w0, w1, w2, area)
				bb := interp(a.b, b.b, c.b, w0, w1, w2, area)
				px = packColor(r, gg, bb)
			} else {
				px = packColor(a.r, a.g, a.b)
			}
			g.setPixel(x, y, px)
		}
	}
}

func interp(a, b, c uint8, w0, w1, w2, area int) uint8 {
	v := (int(a)*w0 + int(b)*w1 + int(c)*w2) / area
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	return uint8(v)
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
func max3(a, b, c int) int {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}

// sampleTexture fetches a texel through the current texpage/CLUT setup,
// honoring the 4bit/8bit/15bit color depth modes.
func (g *GPU) sampleTexture(u, v, clutX, clutY int) uint16 {
	texBaseX := g.tp.texBaseX * 64
	texBaseY := g.tp.texBaseY * 256
	switch g.tp.colorDepth {
	case 0: // 4bit
		texel := g.pixelAt(texBaseX+u/4, texBaseY+v)
		shift := uint((u % 4) * 4)
		idx := (texel >> shift) & 0xF
		return g.pixelAt(clutX*16+int(idx), clutY)
	case 1: // 8bit
		texel := g.pixelAt(texBaseX+u/2, texBaseY+v)
		shift := uint((u % 2) * 8)
		idx := (texel >> shift) & 0xFF
		return g.pixelAt(clutX*16+int(idx), clutY)
	default: // 15bit direct
		return g.pixelAt(texBaseX+u, texBaseY+v)
	}
}

// gp0DrawLine draws a single 2-point line segment (monochrome or shaded);
// polylines are not supported, matching the decode in decodeLine.
func (g *GPU) gp0DrawLine() {
	gouraud := g.cmd&0x10 != 0
	r0 := uint8(g.param(0))
	g0 := uint8(g.param(0) >> 8)
	b0 := uint8(g.param(0) >> 16)
	xy0 := g.param(1)
	x0 := int(int16(xy0&0xFFFF)) + g.offsetX
	y0 := int(int16(xy0>>16)) + g.offsetY

	idx := 2
	r1, g1, b1 := r0, g0, b0
	if gouraud {
		c := g.param(2)
		r1, g1, b1 = uint8(c), uint8(c>>8), uint8(c>>16)
		idx = 3
	}
	xy1 := g.param(idx)
	x1 := int(int16(xy1&0xFFFF)) + g.offsetX
	y1 := int(int16(xy1>>16)) + g.offsetY

	g.drawLineBresenham(x0, y0, x1, y1, r0, g0, b0, r1, g1, b1)
}

func (g *GPU) drawLineBresenham(x0, y0, x1, y1 int, r0, g0, b0, r1, g1, b1 uint8) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	steps := dx
	if -dy > steps {
		steps = -dy
	}
	if steps == 0 {
		steps = 1
	}
	x, y := x0, y0
	for i := 0; ; i++ {
		if x >= g.drawAreaX1 && x <= g.drawAreaX2 && y >= g.drawAreaY1 && y <= g.drawAreaY2 {
			t := i
			r := uint8(int(r0) + (int(r1)-int(r0))*t/steps)
			gg := uint8(int(g0) + (int(g1)-int(g0))*t/steps)
			b := uint8(int(b0) + (int(b1)-int(b0))*t/steps)
			g.setPixel(x, y, packColor(r, gg, b))
		}
		if x == x1 && y == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// gp0DrawRect handles the 0x60-0x7F sprite/rectangle family: a flat-color
// (optionally textured) axis-aligned rectangle of fixed or variable size.
func (g *GPU) gp0DrawRect() {
	textured := g.cmd&0x04 != 0
	size := (g.cmd >> 3) & 0x3

	r := uint8(g.param(0))
	gc := uint8(g.param(0) >> 8)
	b := uint8(g.param(0) >> 16)
	xy := g.param(1)
	x0 := int(int16(xy&0xFFFF)) + g.offsetX
	y0 := int(int16(xy>>16)) + g.offsetY

	idx := 2
	var u0, v0 uint8
	var clutX, clutY int
	if textured {
		uv := g.param(idx)
		idx++
		u0 = uint8(uv)
		v0 = uint8(uv >> 8)
		clutX = int(uv>>16) & 0x3F
		clutY = int(uv>>22) & 0x1FF
	}

	var w, h int
	switch size {
	case 1:
		w, h = 1, 1
	case 2:
		w, h = 8, 8
	case 3:
		w, h = 16, 16
	default:
		wh := g.param(idx)
		w = int(wh & 0x3FF)
		h = int((wh >> 16) & 0x1FF)
	}

	px := packColor(r, gc, b)
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			x, y := x0+dx, y0+dy
			if x < g.drawAreaX1 || x > g.drawAreaX2 || y < g.drawAreaY1 || y > g.drawAreaY2 {
				continue
			}
			out := px
			if textured {
				out = g.sampleTexture(int(u0)+dx, int(v0)+dy, clutX, clutY)
				if out == 0 {
					continue
				}
			}
			g.setPixel(x, y, out)
		}
	}
}

// gp0CopyVRAMToVRAM handles GP0(80h): a rectangular blit within VRAM.
func (g *GPU) gp0CopyVRAMToVRAM() {
	src := g.param(1)
	dst := g.param(2)
	wh := g.param(3)
	sx, sy := int(src&0x3FF), int((src>>16)&0x1FF)
	dx, dy := int(dst&0x3FF), int((dst>>16)&0x1FF)
	w, h := int(wh&0x3FF), int((wh>>16)&0x1FF)
	if w == 0 {
		w = 0x400
	}
	if h == 0 {
		h = 0x200
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := g.pixelAt(sx+x, sy+y)
			g.setPixel(dx+x, dy+y, v)
		}
	}
}
