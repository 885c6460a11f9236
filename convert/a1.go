package convert

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/gogpu/pixaccel/pixfmt"
)

// Bitmap is a 1-bit alpha image. Pixel x of a row lives at bit x%8 of
// byte x/8. Set pixels are fully opaque.
type Bitmap struct {
	Pix    []byte
	Stride int
	Rect   image.Rectangle
}

// NewBitmap wraps pix as a w×h bitmap, or fails with ErrConversion when
// pix is too short.
func NewBitmap(pix []byte, stride, w, h int) (*Bitmap, error) {
	if err := checkSpan(pix, stride, (w+7)/8, h); err != nil {
		return nil, err
	}
	return &Bitmap{Pix: pix, Stride: stride, Rect: image.Rect(0, 0, w, h)}, nil
}

func (m *Bitmap) ColorModel() color.Model { return color.AlphaModel }

func (m *Bitmap) Bounds() image.Rectangle { return m.Rect }

func (m *Bitmap) At(x, y int) color.Color {
	if !(image.Pt(x, y).In(m.Rect)) {
		return color.Alpha{}
	}
	if m.Pix[y*m.Stride+x/8]&(1<<(x%8)) != 0 {
		return color.Alpha{A: 0xff}
	}
	return color.Alpha{}
}

// Set stores c as set when its alpha is at least one half.
func (m *Bitmap) Set(x, y int, c color.Color) {
	if !(image.Pt(x, y).In(m.Rect)) {
		return
	}
	i := y*m.Stride + x/8
	if color.AlphaModel.Convert(c).(color.Alpha).A >= 0x80 {
		m.Pix[i] |= 1 << (x % 8)
	} else {
		m.Pix[i] &^= 1 << (x % 8)
	}
}

func newAlpha(pix []byte, stride, w, h int) (*image.Alpha, error) {
	if err := checkSpan(pix, stride, w, h); err != nil {
		return nil, err
	}
	return &image.Alpha{Pix: pix, Stride: stride, Rect: image.Rect(0, 0, w, h)}, nil
}

// convertA1 composites between a 1-bit mask and an 8-bit alpha buffer.
// The images only wrap the caller's buffers, so nothing outlives the call.
func convertA1(dst, src []byte, p Params) error {
	var (
		dimg draw.Image
		simg image.Image
		err  error
	)
	if p.Mode == pixfmt.ReformatUploadA1 {
		if simg, err = NewBitmap(src, p.SrcStride, p.Width, p.Height); err != nil {
			return fmt.Errorf("source: %w", err)
		}
		if dimg, err = newAlpha(dst, p.DstStride, p.Width, p.Height); err != nil {
			return fmt.Errorf("destination: %w", err)
		}
	} else {
		if simg, err = newAlpha(src, p.SrcStride, p.Width, p.Height); err != nil {
			return fmt.Errorf("source: %w", err)
		}
		if dimg, err = NewBitmap(dst, p.DstStride, p.Width, p.Height); err != nil {
			return fmt.Errorf("destination: %w", err)
		}
	}
	if p.NoAlpha {
		simg = image.Opaque
	}
	draw.Draw(dimg, dimg.Bounds(), simg, image.Point{}, draw.Src)
	return nil
}
