// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package texel

import (
	"github.com/chewxy/math32"

	"github.com/gogpu/pixaccel/gpucore"
	"github.com/gogpu/pixaccel/internal/color"
)

// span is the pixel area covered by a quad, with the affine map from a
// pixel center back to the quad's edge parameters.
type span struct {
	x0, y0, x1, y1 int

	// origin and edge vectors in pixel space: v0, v1-v0, v3-v0.
	ox, oy   float32
	e1x, e1y float32
	e2x, e2y float32
	det      float32
}

func (m *Image) span(q gpucore.Quad) (span, bool) {
	w, h := float32(m.Width), float32(m.Height)
	var px, py [4]float32
	for i := 0; i < 4; i++ {
		px[i] = (q[2*i] + 1) * w / 2
		py[i] = (q[2*i+1] + 1) * h / 2
	}
	minx := math32.Min(math32.Min(px[0], px[1]), math32.Min(px[2], px[3]))
	maxx := math32.Max(math32.Max(px[0], px[1]), math32.Max(px[2], px[3]))
	miny := math32.Min(math32.Min(py[0], py[1]), math32.Min(py[2], py[3]))
	maxy := math32.Max(math32.Max(py[0], py[1]), math32.Max(py[2], py[3]))

	// A pixel is covered when its center lies inside [min, max).
	s := span{
		x0: clampInt(int(math32.Ceil(minx-0.5)), 0, m.Width),
		x1: clampInt(int(math32.Ceil(maxx-0.5)), 0, m.Width),
		y0: clampInt(int(math32.Ceil(miny-0.5)), 0, m.Height),
		y1: clampInt(int(math32.Ceil(maxy-0.5)), 0, m.Height),
		ox: px[0], oy: py[0],
		e1x: px[1] - px[0], e1y: py[1] - py[0],
		e2x: px[3] - px[0], e2y: py[3] - py[0],
	}
	s.det = s.e1x*s.e2y - s.e1y*s.e2x
	return s, s.x0 < s.x1 && s.y0 < s.y1 && s.det != 0
}

// params returns the edge parameters of the center of pixel x, y.
func (s span) params(x, y int) (a, b float32) {
	dx := float32(x) + 0.5 - s.ox
	dy := float32(y) + 0.5 - s.oy
	a = (dx*s.e2y - dy*s.e2x) / s.det
	b = (s.e1x*dy - s.e1y*dx) / s.det
	return a, b
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// FillQuad writes c over the pixels the quad covers.
func (m *Image) FillQuad(q gpucore.Quad, c color.ColorF32, op gpucore.LogicOp) {
	s, ok := m.span(q)
	if !ok {
		return
	}
	for y := s.y0; y < s.y1; y++ {
		for x := s.x0; x < s.x1; x++ {
			m.write(x, y, c, op)
		}
	}
}

// DrawQuad samples src with nearest filtering over the quad. Texture
// coordinates are interpolated from the corners of tc and each texel runs
// through p before it is written.
func (m *Image) DrawQuad(src *Image, q, tc gpucore.Quad, p gpucore.Program, op gpucore.LogicOp) {
	s, ok := m.span(q)
	if !ok || src.Width == 0 || src.Height == 0 {
		return
	}
	for y := s.y0; y < s.y1; y++ {
		for x := s.x0; x < s.x1; x++ {
			a, b := s.params(x, y)
			u := tc[0] + a*(tc[2]-tc[0]) + b*(tc[6]-tc[0])
			v := tc[1] + a*(tc[3]-tc[1]) + b*(tc[7]-tc[1])
			sx := clampInt(int(math32.Floor(u*float32(src.Width))), 0, src.Width-1)
			sy := clampInt(int(math32.Floor(v*float32(src.Height))), 0, src.Height-1)
			t := src.At(sx, sy)
			out := p.Apply(gpucore.Color{R: t.R, G: t.G, B: t.B, A: t.A})
			m.write(x, y, color.ColorF32{R: out.R, G: out.G, B: out.B, A: out.A}, op)
		}
	}
}

func (m *Image) write(x, y int, c color.ColorF32, op gpucore.LogicOp) {
	if op == gpucore.LogicCopy {
		m.Set(x, y, c)
		return
	}
	d := m.At(x, y)
	bits := m.Internal.Bits()
	out := d
	for ch := 0; ch < 4; ch++ {
		n := bits[ch]
		if n == 0 {
			continue
		}
		mask := uint32(1)<<n - 1
		v := op.Apply(color.Quantize(c.Channel(ch), n), color.Quantize(d.Channel(ch), n), mask)
		out.SetChannel(ch, color.Expand(v, n))
	}
	m.Set(x, y, out)
}
