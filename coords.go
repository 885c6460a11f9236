package pixaccel

import "github.com/gogpu/pixaccel/gpucore"

// glRows returns the framebuffer rows [lo, hi) holding pixmap rows
// [y, y+h) of a surface height rows tall.
func (s *Screen) glRows(height, y, h int) (lo, hi int) {
	if s.caps.YInverted {
		return y, y + h
	}
	return height - y - h, height - y
}

// ndc maps a framebuffer coordinate to normalized device space.
func ndc(v, size int) float32 {
	return 2*float32(v)/float32(size) - 1
}

// rectQuad returns the device quad covering pixmap rectangle x, y, w, h of
// a surfW×surfH render target.
func (s *Screen) rectQuad(surfW, surfH, x, y, w, h int) gpucore.Quad {
	lo, hi := s.glRows(surfH, y, h)
	return gpucore.RectQuad(ndc(x, surfW), ndc(lo, surfH), ndc(x+w, surfW), ndc(hi, surfH))
}

// Texture coordinates over a whole transient texture, by row order.
var (
	uploadTexcoords     = gpucore.RectQuad(0, 0, 1, 1)
	uploadFlipTexcoords = gpucore.RectQuad(0, 1, 1, 0)
)
