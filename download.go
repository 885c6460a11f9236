package pixaccel

import (
	"fmt"

	"github.com/gogpu/pixaccel/convert"
	"github.com/gogpu/pixaccel/gpucore"
	"github.com/gogpu/pixaccel/pixfmt"
)

// DownloadRegion reads the w×h rectangle at x, y of p into client memory
// with the given row stride, after rendering any pending fill.
//
// The destination is bits, or the staging buffer pbo when bits is nil; in
// that case the buffer is left mapped and the mapped bytes are returned.
// With AccessWO nothing is read and bits is returned unchanged.
//
// DownloadRegion panics if the format of p cannot be resolved or access is
// not a known mode.
func (s *Screen) DownloadRegion(p *Pixmap, x, y, w, h, stride int, bits []byte, pbo gpucore.BufferID, access gpucore.Access) ([]byte, error) {
	b := p.backing
	if b == nil || b.fb == gpucore.InvalidID {
		return nil, fmt.Errorf("%w: download", ErrNoBacking)
	}
	switch access {
	case gpucore.AccessWO:
		return bits, nil
	case gpucore.AccessRO, gpucore.AccessRW:
	default:
		panic(fmt.Sprintf("pixaccel: invalid access mode %v", access))
	}
	if !p.contains(x, y, w, h) {
		return nil, fmt.Errorf("%w: download %dx%d+%d+%d from %dx%d", ErrInvalidDimensions, w, h, x, y, p.width, p.height)
	}
	if bits == nil && pbo == gpucore.InvalidID {
		return nil, fmt.Errorf("%w: download without destination", ErrInvalidDimensions)
	}
	desc, err := s.resolve(p.format, pixfmt.Download)
	if err != nil {
		panic(fmt.Sprintf("pixaccel: download of unresolvable format: %v", err))
	}
	pl := planDownload(desc, s.caps, p.depth)
	Logger().Debug("pixaccel: download",
		"format", p.format, "x", x, "y", y, "width", w, "height", h,
		"direct", pl.direct, "prepare", pl.prepare, "convert", pl.postConvert)

	d, release := s.acquire()
	defer release()

	if err := d.BindFramebuffer(b.fb); err != nil {
		return nil, err
	}
	defer func() { _ = d.BindFramebuffer(gpucore.InvalidID) }()
	if err := s.Validate(p); err != nil {
		return nil, err
	}

	toPBO := bits == nil
	if toPBO {
		if err := d.BufferData(pbo, stride*h); err != nil {
			return nil, err
		}
	}

	// raw receives the GPU read, in the layout of the read transfer.
	raw := gpucore.PixelData{Bits: bits, Stride: stride}
	switch {
	case pl.a1Intermediate, toPBO && pl.postConvert:
		rs := stride
		if pl.a1Intermediate {
			rs = pixfmt.AlphaRowStride(w)
		}
		raw = gpucore.PixelData{Bits: make([]byte, rs*h), Stride: rs}
	case toPBO:
		raw = gpucore.PixelData{Buffer: pbo, Stride: stride}
	}

	rx := x
	ry, _ := s.glRows(p.height, y, h)
	if pl.prepare {
		tmp, err := s.readPrepare(d, p, pl, x, y, w, h)
		if err != nil {
			return nil, err
		}
		defer s.DestroyBacking(tmp)
		rx, ry = 0, 0
	}

	if pl.direct {
		err = d.ReadPixels(rx, ry, w, h, desc.Transfer, pl.invert, raw)
	} else {
		err = s.readReversed(d, rx, ry, w, h, desc.Transfer, raw)
	}
	if err != nil {
		return nil, err
	}

	out := bits
	if toPBO {
		if out, err = d.MapBuffer(pbo); err != nil {
			return nil, err
		}
	}
	if !pl.postConvert {
		return out, nil
	}

	err = convert.Convert(out, raw.Bits, convert.Params{
		Width:     w,
		Height:    h,
		SrcStride: raw.Stride,
		DstStride: stride,
		Mode:      desc.Reformat,
		NoAlpha:   desc.NoAlpha,
		Swap:      desc.Swap,
		Banded:    s.banded,
	})
	if err != nil {
		if toPBO {
			d.UnmapBuffer(pbo)
		}
		return nil, fmt.Errorf("pixaccel: download %v: %w", p.format, err)
	}
	return out, nil
}

// readPrepare renders the rectangle of p through the normalizing program
// into a temporary w×h framebuffer and leaves it bound. The caller owns
// the returned backing.
func (s *Screen) readPrepare(d gpucore.Dispatch, p *Pixmap, pl downloadPlan, x, y, w, h int) (*Backing, error) {
	tmp, err := s.NewBacking(w, h, pl.desc.Transfer.Internal(), 0)
	if err != nil {
		return nil, err
	}
	src := p.backing
	lo, hi := s.glRows(p.height, y, h)
	sw, sh := float32(src.width), float32(src.height)
	tc := gpucore.RectQuad(float32(x)/sw, float32(lo)/sh, float32(x+w)/sw, float32(hi)/sh)

	if err := d.BindFramebuffer(tmp.fb); err != nil {
		s.DestroyBacking(tmp)
		return nil, err
	}
	restore := s.copyMode(d)
	defer restore()
	if err := d.DrawTextured(src.tex, gpucore.FullQuad, tc, pl.program()); err != nil {
		s.DestroyBacking(tmp)
		return nil, err
	}
	return tmp, nil
}

// readReversed reads bottom-up rows through a temporary buffer and stores
// them top-down in dst.
func (s *Screen) readReversed(d gpucore.Dispatch, x, y, w, h int, t pixfmt.Transfer, dst gpucore.PixelData) error {
	tmp, err := d.CreateBuffer()
	if err != nil {
		return fmt.Errorf("%w: read-back buffer: %w", ErrAllocation, err)
	}
	defer d.DestroyBuffer(tmp)
	if err := d.BufferData(tmp, dst.Stride*h); err != nil {
		return fmt.Errorf("%w: read-back buffer: %w", ErrAllocation, err)
	}
	if err := d.ReadPixels(x, y, w, h, t, false, gpucore.PixelData{Buffer: tmp, Stride: dst.Stride}); err != nil {
		return err
	}

	rows, err := d.MapBuffer(tmp)
	if err != nil {
		return err
	}
	defer d.UnmapBuffer(tmp)

	out := dst.Bits
	if dst.Buffer != gpucore.InvalidID {
		if out, err = d.MapBuffer(dst.Buffer); err != nil {
			return err
		}
		defer d.UnmapBuffer(dst.Buffer)
		out = out[dst.Offset:]
	}
	for yy := 0; yy < h; yy++ {
		from := (h - 1 - yy) * dst.Stride
		copy(out[yy*dst.Stride:], rows[from:from+dst.Stride])
	}
	return nil
}

// DownloadPixmap makes the whole content of p available in Data. On the
// Desktop flavor, when rows can be read in order, the pixels land in the
// backing's staging buffer and Data aliases its mapping until the next
// UploadPixmap. A pixmap without a framebuffer already has its pixels on
// the CPU and is left alone.
func (s *Screen) DownloadPixmap(p *Pixmap, access gpucore.Access) error {
	b := p.backing
	if b == nil || b.fb == gpucore.InvalidID {
		return nil
	}
	usePBO := access != gpucore.AccessWO && s.caps.Flavor == pixfmt.Desktop &&
		(s.caps.PackInvert || s.caps.YInverted)

	var data []byte
	var pbo gpucore.BufferID
	if usePBO {
		d, release := s.acquire()
		if b.mapped {
			d.UnmapBuffer(b.pbo)
			b.mapped = false
		}
		if b.pbo == gpucore.InvalidID {
			buf, err := d.CreateBuffer()
			if err != nil {
				release()
				return fmt.Errorf("%w: staging buffer: %w", ErrAllocation, err)
			}
			b.pbo = buf
		}
		release()
		pbo = b.pbo
	} else {
		data = make([]byte, p.stride*p.height)
	}

	out, err := s.DownloadRegion(p, 0, 0, p.width, p.height, p.stride, data, pbo, access)
	if err != nil {
		return err
	}
	if usePBO {
		b.mapped = true
		b.pboValid = true
	}
	p.data = out
	return nil
}
