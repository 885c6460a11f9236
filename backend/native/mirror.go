// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	"github.com/gogpu/pixaccel/internal/color"
	"github.com/gogpu/pixaccel/internal/texel"
	"github.com/gogpu/pixaccel/pixfmt"
)

// copyPitchAlignment is the BytesPerRow alignment WebGPU requires for
// texture to buffer copies.
const copyPitchAlignment = 256

// alignedRow returns the padded row pitch for a copy of width texels.
func alignedRow(width, bpp int) int {
	n := width * bpp
	return (n + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
}

// encodeMirror packs m into tightly packed rows of its GPU format.
func encodeMirror(m *texel.Image) []byte {
	bpp := m.Internal.GPUBytesPerPixel()
	out := make([]byte, m.Width*m.Height*bpp)
	for i, c := range m.Pix {
		o := i * bpp
		if bpp == 1 {
			out[o] = uint8(color.Quantize(c.A, 8))
			continue
		}
		out[o+0] = uint8(color.Quantize(c.R, 8))
		out[o+1] = uint8(color.Quantize(c.G, 8))
		out[o+2] = uint8(color.Quantize(c.B, 8))
		out[o+3] = uint8(color.Quantize(c.A, 8))
	}
	return out
}

// decodeMirror stores rows of GPU texels read back with the given pitch
// into m, requantizing to its internal format.
func decodeMirror(m *texel.Image, data []byte, pitch int) {
	bpp := m.Internal.GPUBytesPerPixel()
	for y := 0; y < m.Height; y++ {
		row := data[y*pitch:]
		for x := 0; x < m.Width; x++ {
			o := x * bpp
			var c color.ColorF32
			if bpp == 1 {
				c.A = color.Expand(uint32(row[o]), 8)
			} else {
				c.R = color.Expand(uint32(row[o+0]), 8)
				c.G = color.Expand(uint32(row[o+1]), 8)
				c.B = color.Expand(uint32(row[o+2]), 8)
				c.A = color.Expand(uint32(row[o+3]), 8)
			}
			m.Set(x, y, c)
		}
	}
}

// readsBack reports whether reads of internal are served from the GPU.
func readsBack(internal pixfmt.Internal) bool {
	return internal.ExactOnGPU()
}
