package convert

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gogpu/pixaccel/internal/parallel"
	"github.com/gogpu/pixaccel/pixfmt"
)

// parallelPixels is the image area above which rows are split into bands.
const parallelPixels = 256 * 256

// bandRows is the smallest band handed to a worker.
const bandRows = 16

// ErrConversion is returned when a conversion cannot build the images it
// works on, typically because a buffer is too short for its geometry.
var ErrConversion = errors.New("convert: cannot build conversion image")

// Params describes one conversion.
type Params struct {
	Width, Height int

	// SrcStride and DstStride are row strides in bytes.
	SrcStride, DstStride int

	Mode pixfmt.Reformat

	// NoAlpha forces alpha to the maximum the destination can hold.
	NoAlpha bool

	// Swap exchanges the red and blue positions in the destination.
	Swap bool

	// Banded lets large packed repacks run as row bands on a shared worker
	// pool. Convert still returns only when every row is done. When false,
	// all work stays on the calling goroutine.
	Banded bool
}

// wordLayout gives the channel positions of one side of a packed repack.
type wordLayout struct {
	a, b, g, r pixfmt.Field
}

var (
	native8888    = wordLayout{a: pixfmt.Field{Shift: 24, Bits: 8}, b: pixfmt.Field{Shift: 16, Bits: 8}, g: pixfmt.Field{Shift: 8, Bits: 8}, r: pixfmt.Field{Shift: 0, Bits: 8}}
	legacy2101010 = wordLayout{a: pixfmt.Field{Shift: 30, Bits: 2}, b: pixfmt.Field{Shift: 20, Bits: 10}, g: pixfmt.Field{Shift: 10, Bits: 10}, r: pixfmt.Field{Shift: 0, Bits: 10}}
	native5551    = wordLayout{a: pixfmt.Field{Shift: 0, Bits: 1}, b: pixfmt.Field{Shift: 1, Bits: 5}, g: pixfmt.Field{Shift: 6, Bits: 5}, r: pixfmt.Field{Shift: 11, Bits: 5}}
	legacy1555    = wordLayout{a: pixfmt.Field{Shift: 15, Bits: 1}, b: pixfmt.Field{Shift: 10, Bits: 5}, g: pixfmt.Field{Shift: 5, Bits: 5}, r: pixfmt.Field{Shift: 0, Bits: 5}}
)

// Convert repacks src into dst according to p.Mode.
//
// The packed modes work pixel by pixel and may run in place when dst and
// src share storage and stride. The 1-bit modes go through an image
// compositor and need distinct buffers.
func Convert(dst, src []byte, p Params) error {
	if p.Width <= 0 || p.Height <= 0 {
		return nil
	}
	switch p.Mode {
	case pixfmt.ReformatUploadA1, pixfmt.ReformatDownloadA1:
		return convertA1(dst, src, p)
	case pixfmt.ReformatDownload2101010:
		return repack(dst, src, p, 4, native8888, legacy2101010)
	case pixfmt.ReformatUpload2101010:
		return repack(dst, src, p, 4, legacy2101010, native8888)
	case pixfmt.ReformatDownload1555:
		return repack(dst, src, p, 2, native5551, legacy1555)
	case pixfmt.ReformatUpload1555:
		return repack(dst, src, p, 2, legacy1555, native5551)
	}
	return fmt.Errorf("convert: unsupported mode %v", p.Mode)
}

// Rescale changes the bit width of a channel value. Widening shifts left
// and adds half of the new low-order range; narrowing truncates.
func Rescale(v uint32, from, to uint8) uint32 {
	switch {
	case to == from:
		return v
	case to > from:
		d := to - from
		return v<<d + (1<<d)>>1
	default:
		return v >> (from - to)
	}
}

func repack(dst, src []byte, p Params, size int, from, to wordLayout) error {
	row := p.Width * size
	if err := checkSpan(src, p.SrcStride, row, p.Height); err != nil {
		return fmt.Errorf("source: %w", err)
	}
	if err := checkSpan(dst, p.DstStride, row, p.Height); err != nil {
		return fmt.Errorf("destination: %w", err)
	}

	rows := func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			repackRow(dst[y*p.DstStride:], src[y*p.SrcStride:], p, size, from, to)
		}
	}
	if !p.Banded || p.Width*p.Height < parallelPixels {
		rows(0, p.Height)
		return nil
	}
	parallel.Shared().Run(p.Height, bandRows, rows)
	return nil
}

func repackRow(d, s []byte, p Params, size int, from, to wordLayout) {
	for x := 0; x < p.Width; x++ {
		off := x * size
		var px uint32
		if size == 4 {
			px = binary.LittleEndian.Uint32(s[off:])
		} else {
			px = uint32(binary.LittleEndian.Uint16(s[off:]))
		}

		var a uint32
		if p.NoAlpha {
			a = to.a.Mask()
		} else {
			a = Rescale(from.a.Get(px), from.a.Bits, to.a.Bits)
		}
		b := Rescale(from.b.Get(px), from.b.Bits, to.b.Bits)
		g := Rescale(from.g.Get(px), from.g.Bits, to.g.Bits)
		r := Rescale(from.r.Get(px), from.r.Bits, to.r.Bits)
		if p.Swap {
			r, b = b, r
		}
		out := to.a.Put(a) | to.b.Put(b) | to.g.Put(g) | to.r.Put(r)

		if size == 4 {
			binary.LittleEndian.PutUint32(d[off:], out)
		} else {
			binary.LittleEndian.PutUint16(d[off:], uint16(out))
		}
	}
}

// checkSpan verifies buf holds rows of rowBytes at stride.
func checkSpan(buf []byte, stride, rowBytes, rows int) error {
	if stride < rowBytes {
		return fmt.Errorf("%w: stride %d < row %d", ErrConversion, stride, rowBytes)
	}
	if need := (rows-1)*stride + rowBytes; len(buf) < need {
		return fmt.Errorf("%w: buffer %d < %d bytes", ErrConversion, len(buf), need)
	}
	return nil
}
