// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package texel stores texture contents on the CPU and implements the
// pixel-transfer codec and quad rasterization a GL-style device performs.
//
// An Image holds normalized texels quantized to the precision of its
// internal format. Row 0 is the first row of memory handed to Load.
package texel

import (
	"errors"
	"fmt"

	"github.com/gogpu/pixaccel/internal/color"
	"github.com/gogpu/pixaccel/pixfmt"
)

// ErrShortBuffer is returned when client memory cannot hold a rectangle.
var ErrShortBuffer = errors.New("texel: buffer too short")

// ErrBounds is returned when a rectangle leaves the image.
var ErrBounds = errors.New("texel: rectangle out of bounds")

// Image is texture storage.
type Image struct {
	Width, Height int
	Internal      pixfmt.Internal
	Pix           []color.ColorF32
}

// New returns a w×h image with every stored channel zero.
func New(w, h int, internal pixfmt.Internal) *Image {
	m := &Image{Width: w, Height: h, Internal: internal, Pix: make([]color.ColorF32, w*h)}
	m.Fill(color.ColorF32{})
	return m
}

// At returns the texel at x, y.
func (m *Image) At(x, y int) color.ColorF32 {
	return m.Pix[y*m.Width+x]
}

// Set stores c at x, y, quantized to the internal format. Channels the
// format does not store read back as 0 for color and 1 for alpha.
func (m *Image) Set(x, y int, c color.ColorF32) {
	m.Pix[y*m.Width+x] = m.quantize(c)
}

// Fill stores c in every texel.
func (m *Image) Fill(c color.ColorF32) {
	q := m.quantize(c)
	for i := range m.Pix {
		m.Pix[i] = q
	}
}

func (m *Image) quantize(c color.ColorF32) color.ColorF32 {
	bits := m.Internal.Bits()
	var out color.ColorF32
	for ch := 0; ch < 4; ch++ {
		switch {
		case bits[ch] != 0:
			out.SetChannel(ch, color.Requantize(c.Channel(ch), bits[ch]))
		case ch == int(pixfmt.A):
			out.A = 1
		}
	}
	return out
}

func (m *Image) contains(x, y, w, h int) error {
	if x < 0 || y < 0 || w < 0 || h < 0 || x+w > m.Width || y+h > m.Height {
		return fmt.Errorf("%w: %dx%d at %d,%d in %dx%d", ErrBounds, w, h, x, y, m.Width, m.Height)
	}
	return nil
}
