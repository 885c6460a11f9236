// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package texel

import (
	"fmt"

	"github.com/gogpu/pixaccel/internal/color"
	"github.com/gogpu/pixaccel/pixfmt"
)

// rowBytes returns the packed size of w pixels of t.
func rowBytes(t pixfmt.Transfer, w int) int {
	return (w*t.BitsPerPixel() + 7) / 8
}

// CheckSpan verifies that buf holds h rows of w pixels of t at stride.
func CheckSpan(t pixfmt.Transfer, buf []byte, stride, w, h int) error {
	if h == 0 || w == 0 {
		return nil
	}
	row := rowBytes(t, w)
	if stride < row {
		return fmt.Errorf("%w: stride %d < row %d", ErrShortBuffer, stride, row)
	}
	if need := (h-1)*stride + row; len(buf) < need {
		return fmt.Errorf("%w: %d < %d bytes", ErrShortBuffer, len(buf), need)
	}
	return nil
}

func readWord(row []byte, x, bpp int) uint32 {
	if bpp == 1 {
		return uint32(row[x/8] >> (x % 8) & 1)
	}
	n := bpp / 8
	var v uint32
	for i := n - 1; i >= 0; i-- {
		v = v<<8 | uint32(row[x*n+i])
	}
	return v
}

func writeWord(row []byte, x, bpp int, v uint32) {
	if bpp == 1 {
		if v&1 != 0 {
			row[x/8] |= 1 << (x % 8)
		} else {
			row[x/8] &^= 1 << (x % 8)
		}
		return
	}
	n := bpp / 8
	for i := 0; i < n; i++ {
		row[x*n+i] = byte(v >> (8 * i))
	}
}

// Decode unpacks one pixel word of layout t. Channels the layout does not
// carry read as 0 for color and 1 for alpha.
func Decode(t pixfmt.Transfer, word uint32) color.ColorF32 {
	fields := t.Fields()
	c := color.ColorF32{A: 1}
	for ch, f := range fields {
		if f.Bits == 0 {
			continue
		}
		c.SetChannel(ch, color.Expand(f.Get(word), f.Bits))
	}
	return c
}

// Encode packs c into one pixel word of layout t.
func Encode(t pixfmt.Transfer, c color.ColorF32) uint32 {
	var w uint32
	for ch, f := range t.Fields() {
		if f.Bits == 0 {
			continue
		}
		w |= f.Put(color.Quantize(c.Channel(ch), f.Bits))
	}
	return w
}

// Load replaces the w×h rectangle at x, y with pixels from src in layout
// t. Memory row r lands on image row y+r.
func (m *Image) Load(x, y, w, h int, t pixfmt.Transfer, src []byte, stride int) error {
	if !t.Valid() {
		return fmt.Errorf("texel: invalid transfer %v", t)
	}
	if err := m.contains(x, y, w, h); err != nil {
		return err
	}
	if err := CheckSpan(t, src, stride, w, h); err != nil {
		return err
	}
	bpp := t.BitsPerPixel()
	for r := 0; r < h; r++ {
		row := src[r*stride:]
		for i := 0; i < w; i++ {
			m.Set(x+i, y+r, Decode(t, readWord(row, i, bpp)))
		}
	}
	return nil
}

// Pack writes the w×h rectangle at x, y into dst in layout t. Image row
// y+r goes to memory row r, or to memory row h-1-r when invert is set.
// Padding bits of a 1-bit row are left untouched.
func (m *Image) Pack(x, y, w, h int, t pixfmt.Transfer, dst []byte, stride int, invert bool) error {
	if !t.Valid() {
		return fmt.Errorf("texel: invalid transfer %v", t)
	}
	if err := m.contains(x, y, w, h); err != nil {
		return err
	}
	if err := CheckSpan(t, dst, stride, w, h); err != nil {
		return err
	}
	bpp := t.BitsPerPixel()
	for r := 0; r < h; r++ {
		mr := r
		if invert {
			mr = h - 1 - r
		}
		row := dst[mr*stride:]
		for i := 0; i < w; i++ {
			writeWord(row, i, bpp, Encode(t, m.At(x+i, y+r)))
		}
	}
	return nil
}
