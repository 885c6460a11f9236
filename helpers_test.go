package pixaccel

import (
	"testing"

	"github.com/gogpu/pixaccel/backend/software"
	"github.com/gogpu/pixaccel/convert"
	"github.com/gogpu/pixaccel/gpucore"
	"github.com/gogpu/pixaccel/internal/dispatchtest"
	"github.com/gogpu/pixaccel/pixfmt"
)

// deviceConfig is one software device setup the pipelines must handle.
type deviceConfig struct {
	name string
	opts []software.Option
}

var deviceConfigs = []deviceConfig{
	{"desktop/y-inverted", nil},
	{"desktop/flipped", []software.Option{software.WithYInverted(false)}},
	{"desktop/flipped-pack-invert", []software.Option{software.WithYInverted(false), software.WithPackInvert(true)}},
	{"desktop/y-inverted-pack-invert", []software.Option{software.WithPackInvert(true)}},
	{"embedded/y-inverted", []software.Option{software.WithFlavor(pixfmt.Embedded)}},
	{"embedded/flipped", []software.Option{software.WithFlavor(pixfmt.Embedded), software.WithYInverted(false)}},
}

// newTestScreen returns a screen on a counted software device.
func newTestScreen(t *testing.T, opts ...software.Option) (*Screen, *dispatchtest.Counter, *software.Device) {
	t.Helper()
	dev := software.New(opts...)
	c := dispatchtest.New(dev)
	s := NewScreen(c)
	t.Cleanup(s.Close)
	return s, c, dev
}

// allFormats lists every valid pixel format.
func allFormats() []pixfmt.Format {
	var out []pixfmt.Format
	for f := pixfmt.A1; f.IsValid(); f++ {
		out = append(out, f)
	}
	return out
}

// padBits returns the bits of a pixel word of f that no channel uses.
func padBits(f pixfmt.Format) uint32 {
	bpp := f.BitsPerPixel()
	all := ^uint32(0)
	if bpp < 32 {
		all = uint32(1)<<bpp - 1
	}
	used := uint32(0)
	for _, fd := range f.Info().Fields {
		if fd.Bits != 0 {
			used |= fd.Mask() << fd.Shift
		}
	}
	return all &^ used
}

// fillPattern writes pseudo-random pixels into a CPU pixmap. Padding bits
// are set, since formats without alpha read back with an opaque pad.
func fillPattern(p *Pixmap, seed uint32) {
	pad := padBits(p.Format())
	v := seed*2654435761 + 1
	for y := 0; y < p.Height(); y++ {
		for x := 0; x < p.Width(); x++ {
			v = v*1664525 + 1013904223
			p.SetPixel(x, y, (v>>3)|pad)
		}
	}
}

// canonicalize replaces each pixel with what a GPU round trip through an
// 8-bit texture keeps of it. Only the Embedded 10-bit layouts lose bits.
func canonicalize(t *testing.T, p *Pixmap, flavor pixfmt.Flavor) {
	t.Helper()
	desc, err := pixfmt.Resolve(p.Format(), flavor, pixfmt.Download)
	if err != nil || desc.Reformat != pixfmt.ReformatDownload2101010 {
		return
	}
	tmp := make([]byte, len(p.Data()))
	params := convert.Params{
		Width: p.Width(), Height: p.Height(),
		SrcStride: p.Stride(), DstStride: p.Stride(),
		Mode: pixfmt.ReformatUpload2101010, NoAlpha: desc.NoAlpha, Swap: desc.Swap,
	}
	if err := convert.Convert(tmp, p.Data(), params); err != nil {
		t.Fatal(err)
	}
	params.Mode = pixfmt.ReformatDownload2101010
	if err := convert.Convert(p.Data(), tmp, params); err != nil {
		t.Fatal(err)
	}
}

// comparePixels reports every pixel of got that differs from want over a
// w×h rectangle, with got at gx, gy and want at wx, wy.
func comparePixels(t *testing.T, got *Pixmap, gx, gy int, want *Pixmap, wx, wy, w, h int) {
	t.Helper()
	bad := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g, gok := got.Pixel(gx+x, gy+y)
			e, eok := want.Pixel(wx+x, wy+y)
			if !gok || !eok {
				t.Fatalf("Pixel(%d, %d) out of range", x, y)
			}
			if g != e {
				if bad < 5 {
					t.Errorf("pixel (%d, %d) = %#x, want %#x", x, y, g, e)
				}
				bad++
			}
		}
	}
	if bad > 5 {
		t.Errorf("... %d mismatched pixels in total", bad)
	}
}

// cpuPixmap builds a CPU picture of format f without touching the GPU.
func cpuPixmap(t *testing.T, s *Screen, w, h int, f pixfmt.Format) *Pixmap {
	t.Helper()
	p, err := s.CreatePicture(w, h, f, UsageCPU)
	if err != nil {
		t.Fatalf("CreatePicture(%v) = %v", f, err)
	}
	return p
}

// download reads p back into a new CPU picture of the same format.
func download(t *testing.T, s *Screen, p *Pixmap) *Pixmap {
	t.Helper()
	out := cpuPixmap(t, s, p.Width(), p.Height(), p.Format())
	if _, err := s.DownloadRegion(p, 0, 0, p.Width(), p.Height(), out.Stride(), out.Data(), gpucore.InvalidID, gpucore.AccessRO); err != nil {
		t.Fatalf("DownloadRegion() = %v", err)
	}
	return out
}
