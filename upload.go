package pixaccel

import (
	"fmt"

	"github.com/gogpu/pixaccel/convert"
	"github.com/gogpu/pixaccel/gpucore"
	"github.com/gogpu/pixaccel/pixfmt"
)

// UploadRegion writes the w×h rectangle at x, y of p from client memory.
// The source is bits with the given row stride, or the staging buffer pbo
// when bits is nil. A backing is created if p has none.
//
// A pending fill is discarded when the upload covers the whole pixmap and
// rendered first otherwise.
func (s *Screen) UploadRegion(p *Pixmap, x, y, w, h, stride int, bits []byte, pbo gpucore.BufferID) error {
	if !p.contains(x, y, w, h) {
		return fmt.Errorf("%w: upload %dx%d+%d+%d into %dx%d", ErrInvalidDimensions, w, h, x, y, p.width, p.height)
	}
	desc, err := s.resolve(p.format, pixfmt.Upload)
	if err != nil {
		return err
	}
	pl := planUpload(desc, s.caps)
	Logger().Debug("pixaccel: upload",
		"format", p.format, "x", x, "y", y, "width", w, "height", h,
		"fast", pl.fast, "convert", pl.convertFirst, "flip", pl.flip)

	// A pending fill is overwritten by a full upload and rendered first
	// under a partial one. It is only dropped once the upload succeeded.
	fullFill, partialFill := false, false
	if p.pending.Kind != PendingNone {
		if x == 0 && y == 0 && w == p.width && h == p.height {
			fullFill = true
		} else {
			partialFill = true
			pl.textureOnly = false
		}
	}

	if err := s.uploadPrepare(p, pl); err != nil {
		Logger().Debug("pixaccel: fallback", "op", "upload", "reason", err)
		return err
	}
	if partialFill {
		if err := s.Validate(p); err != nil {
			return err
		}
	}
	if err := s.uploadBits(p, pl, x, y, w, h, gpucore.PixelData{Bits: bits, Buffer: pbo, Stride: stride}); err != nil {
		return err
	}
	if fullFill {
		p.pending = Pending{}
	}
	return nil
}

// uploadPrepare gives p the backing pl needs.
func (s *Screen) uploadPrepare(p *Pixmap, pl uploadPlan) error {
	b := p.backing
	if b != nil && b.fb != gpucore.InvalidID {
		return nil
	}
	var flags BackingFlags
	if pl.textureOnly {
		if b != nil && b.tex != gpucore.InvalidID {
			return nil
		}
		flags = NoFramebuffer
	}
	return s.EnsureBacking(p, pl.desc.Internal, flags)
}

func (s *Screen) uploadBits(p *Pixmap, pl uploadPlan, x, y, w, h int, src gpucore.PixelData) error {
	d, release := s.acquire()
	defer release()

	if pl.convertFirst {
		converted, err := s.convertSource(d, p, pl, w, h, src)
		if err != nil {
			return err
		}
		src = converted
	}

	b := p.backing
	if pl.fast {
		var err error
		if b.fresh && x == 0 && y == 0 && w == b.width && h == b.height {
			err = d.TexImage(b.tex, w, h, pl.desc.Transfer, src)
		} else {
			err = d.TexSubImage(b.tex, x, y, w, h, pl.desc.Transfer, src)
		}
		if err != nil {
			return err
		}
		b.fresh = false
		return nil
	}

	tex, err := d.CreateTexture(w, h, pl.desc.Transfer.Internal())
	if err != nil {
		return fmt.Errorf("%w: transient texture: %w", ErrAllocation, err)
	}
	defer d.DestroyTexture(tex)
	if err := d.TexImage(tex, w, h, pl.desc.Transfer, src); err != nil {
		return err
	}
	if err := d.BindFramebuffer(b.fb); err != nil {
		return err
	}
	defer func() { _ = d.BindFramebuffer(gpucore.InvalidID) }()
	restore := s.copyMode(d)
	defer restore()

	if err := d.DrawTextured(tex, s.rectQuad(b.width, b.height, x, y, w, h), pl.texcoords(), pl.program()); err != nil {
		return err
	}
	b.fresh = false
	return nil
}

// convertSource repacks the client pixels into a new CPU buffer laid out
// the way the GPU reads them.
func (s *Screen) convertSource(d gpucore.Dispatch, p *Pixmap, pl uploadPlan, w, h int, src gpucore.PixelData) (gpucore.PixelData, error) {
	bits := src.Bits
	if bits == nil && src.Buffer != gpucore.InvalidID {
		mapped, err := d.MapBuffer(src.Buffer)
		if err != nil {
			return gpucore.PixelData{}, err
		}
		defer d.UnmapBuffer(src.Buffer)
		bits = mapped[src.Offset:]
	}

	dstStride := src.Stride
	if p.depth == 1 {
		dstStride = pixfmt.AlphaRowStride(w)
	}
	out := make([]byte, dstStride*h)
	err := convert.Convert(out, bits, convert.Params{
		Width:     w,
		Height:    h,
		SrcStride: src.Stride,
		DstStride: dstStride,
		Mode:      pl.convert.Reformat,
		NoAlpha:   pl.convert.NoAlpha,
		Swap:      pl.convert.Swap,
		Banded:    s.banded,
	})
	if err != nil {
		return gpucore.PixelData{}, fmt.Errorf("pixaccel: upload %v: %w", p.format, err)
	}
	return gpucore.PixelData{Bits: out, Stride: dstStride}, nil
}

// UploadPixmap writes the whole CPU content of p to the GPU. When a
// previous download left the pixels in the staging buffer, the buffer is
// unmapped and used as the source. On success the GPU holds the pixels and
// Data returns nil, unless the backing is texture-only: without a
// framebuffer nothing can be read back, so the CPU copy is kept.
func (s *Screen) UploadPixmap(p *Pixmap) error {
	b := p.backing
	if b != nil && b.pboValid {
		d, release := s.acquire()
		if b.mapped {
			d.UnmapBuffer(b.pbo)
			b.mapped = false
		}
		release()
		if err := s.UploadRegion(p, 0, 0, p.width, p.height, p.stride, nil, b.pbo); err != nil {
			return err
		}
		b.pboValid = false
		p.data = nil
		return nil
	}
	if p.data == nil {
		return fmt.Errorf("pixaccel: upload of pixmap without CPU data: %w", ErrNoBacking)
	}
	if err := s.UploadRegion(p, 0, 0, p.width, p.height, p.stride, p.data, gpucore.InvalidID); err != nil {
		return err
	}
	if p.backing.fb != gpucore.InvalidID {
		p.data = nil
	}
	return nil
}

// RestorePixmap moves the CPU content of p back to the GPU, logging a
// warning if that fails.
func (s *Screen) RestorePixmap(p *Pixmap) {
	if err := s.UploadPixmap(p); err != nil {
		Logger().Warn("pixaccel: failed to restore pixmap to texture",
			"width", p.width, "height", p.height, "format", p.format, "err", err)
	}
}
