package pixaccel

import (
	"fmt"

	"github.com/gogpu/pixaccel/gpucore"
	"github.com/gogpu/pixaccel/pixfmt"
)

// BackingFlags modify how EnsureBacking allocates.
type BackingFlags uint8

const (
	// NoFramebuffer allocates a texture only.
	NoFramebuffer BackingFlags = 1 << iota
)

// Backing is the GPU storage of one pixmap: a texture, a framebuffer if
// the pixmap has been a render target, and a staging buffer if its pixels
// have been mapped.
type Backing struct {
	tex      gpucore.TextureID
	fb       gpucore.FramebufferID
	pbo      gpucore.BufferID
	width    int
	height   int
	internal pixfmt.Internal

	// fresh is set while texture storage is allocated but unspecified.
	fresh bool
	// pboValid is set while the staging buffer mirrors the pixmap.
	pboValid bool
	// mapped is set while the staging buffer is mapped.
	mapped bool
}

// Texture returns the texture, or InvalidID.
func (b *Backing) Texture() gpucore.TextureID { return b.tex }

// Framebuffer returns the framebuffer, or InvalidID.
func (b *Backing) Framebuffer() gpucore.FramebufferID { return b.fb }

// Buffer returns the staging buffer, or InvalidID.
func (b *Backing) Buffer() gpucore.BufferID { return b.pbo }

// Size returns the texture dimensions.
func (b *Backing) Size() (width, height int) { return b.width, b.height }

// Internal returns the texture storage format.
func (b *Backing) Internal() pixfmt.Internal { return b.internal }

// PBOValid reports whether the staging buffer mirrors the pixmap.
func (b *Backing) PBOValid() bool { return b.pboValid }

// NewBacking allocates a w×h texture and, unless flags has NoFramebuffer,
// a framebuffer on it.
func (s *Screen) NewBacking(w, h int, internal pixfmt.Internal, flags BackingFlags) (*Backing, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: backing %dx%d", ErrInvalidDimensions, w, h)
	}
	b := &Backing{width: w, height: h, internal: internal}
	if err := s.allocate(b, flags); err != nil {
		s.DestroyBacking(b)
		return nil, err
	}
	return b, nil
}

// allocate creates whatever texture and framebuffer b is missing.
func (s *Screen) allocate(b *Backing, flags BackingFlags) error {
	d, release := s.acquire()
	defer release()

	if b.tex == gpucore.InvalidID {
		tex, err := d.CreateTexture(b.width, b.height, b.internal)
		if err != nil {
			return fmt.Errorf("%w: texture %dx%d: %w", ErrAllocation, b.width, b.height, err)
		}
		b.tex = tex
		b.fresh = true
	}
	if flags&NoFramebuffer == 0 && b.fb == gpucore.InvalidID {
		fb, err := d.CreateFramebuffer(b.tex)
		if err != nil {
			return fmt.Errorf("%w: framebuffer: %w", ErrAllocation, err)
		}
		b.fb = fb
	}
	return nil
}

// DestroyBacking releases everything b holds.
func (s *Screen) DestroyBacking(b *Backing) {
	d, release := s.acquire()
	defer release()

	if b.pbo != gpucore.InvalidID {
		if b.mapped {
			d.UnmapBuffer(b.pbo)
		}
		d.DestroyBuffer(b.pbo)
	}
	if b.fb != gpucore.InvalidID {
		d.DestroyFramebuffer(b.fb)
	}
	if b.tex != gpucore.InvalidID {
		d.DestroyTexture(b.tex)
	}
	*b = Backing{}
}

// AttachBacking makes b the backing of p. A previous backing is destroyed.
func (s *Screen) AttachBacking(p *Pixmap, b *Backing) {
	if old := p.backing; old != nil && old != b {
		s.DestroyBacking(old)
	}
	p.backing = b
}

// DetachBacking removes and returns the backing of p without releasing
// it. Any pending fill is dropped along with it.
func (s *Screen) DetachBacking(p *Pixmap) *Backing {
	b := p.backing
	p.backing = nil
	p.pending = Pending{}
	return b
}

// EnsureBacking makes sure p has a texture, and a framebuffer unless flags
// has NoFramebuffer. Missing storage is allocated at the pixmap size with
// the given internal format; existing storage is kept.
func (s *Screen) EnsureBacking(p *Pixmap, internal pixfmt.Internal, flags BackingFlags) error {
	b := p.backing
	if b == nil {
		nb, err := s.NewBacking(p.width, p.height, internal, flags)
		if err != nil {
			return err
		}
		s.AttachBacking(p, nb)
		return nil
	}
	if b.tex == gpucore.InvalidID {
		b.width, b.height, b.internal = p.width, p.height, internal
	}
	return s.allocate(b, flags)
}

// FixupBacking reallocates the backing of p when its size no longer
// matches the pixmap, copying the overlapping content. The staging buffer
// of the old backing is released.
func (s *Screen) FixupBacking(p *Pixmap) error {
	old := p.backing
	if old == nil || old.tex == gpucore.InvalidID {
		return ErrNoBacking
	}
	if old.width == p.width && old.height == p.height {
		return nil
	}
	if err := s.Validate(p); err != nil {
		return err
	}

	nb, err := s.NewBacking(p.width, p.height, old.internal, 0)
	if err != nil {
		return err
	}

	d, release := s.acquire()
	defer release()
	restore := s.copyMode(d)
	defer restore()

	cw, ch := min(p.width, old.width), min(p.height, old.height)
	lo, hi := s.glRows(old.height, 0, ch)
	ow, oh := float32(old.width), float32(old.height)
	tc := gpucore.RectQuad(0, float32(lo)/oh, float32(cw)/ow, float32(hi)/oh)

	if err := d.BindFramebuffer(nb.fb); err != nil {
		s.DestroyBacking(nb)
		return err
	}
	err = d.DrawTextured(old.tex, s.rectQuad(nb.width, nb.height, 0, 0, cw, ch), tc, gpucore.Program{})
	_ = d.BindFramebuffer(gpucore.InvalidID)
	if err != nil {
		s.DestroyBacking(nb)
		return err
	}
	nb.fresh = false

	s.DetachBacking(p)
	s.AttachBacking(p, nb)
	s.DestroyBacking(old)
	return nil
}
