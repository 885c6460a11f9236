package pixaccel

import (
	"fmt"

	"github.com/gogpu/pixaccel/gpucore"
)

// PendingKind identifies a deferred operation.
type PendingKind uint8

const (
	// PendingNone means the backing holds the logical pixels.
	PendingNone PendingKind = iota
	// PendingFill means the whole pixmap is to be filled with Color.
	PendingFill
)

func (k PendingKind) String() string {
	switch k {
	case PendingNone:
		return "none"
	case PendingFill:
		return "fill"
	}
	return fmt.Sprintf("PendingKind(%d)", uint8(k))
}

// Pending is the single deferred operation of a pixmap.
type Pending struct {
	Kind  PendingKind
	Color gpucore.Color
}

// RequestFill records a fill of p with c, replacing any pending operation.
// Nothing is drawn until Validate.
func (s *Screen) RequestFill(p *Pixmap, c gpucore.Color) {
	p.pending = Pending{Kind: PendingFill, Color: c}
}

// RequestFillPixel records a fill with a pixel word in the format of p.
func (s *Screen) RequestFillPixel(p *Pixmap, pixel uint32) {
	s.RequestFill(p, gpucore.ColorFromArray(p.format.Color(pixel)))
}

// Validate renders the pending operation of p, if any. With nothing
// pending it makes no dispatch calls. On failure the operation stays
// pending.
func (s *Screen) Validate(p *Pixmap) error {
	switch p.pending.Kind {
	case PendingNone:
		return nil
	case PendingFill:
		b := p.backing
		if b == nil || b.fb == gpucore.InvalidID {
			return fmt.Errorf("%w: validate", ErrNoBacking)
		}
		d, release := s.acquire()
		defer release()
		if err := d.BindFramebuffer(b.fb); err != nil {
			return err
		}
		restore := s.copyMode(d)
		defer restore()
		if err := d.DrawSolid(gpucore.FullQuad, p.pending.Color); err != nil {
			return err
		}
		p.pending = Pending{}
		b.fresh = false
		return nil
	default:
		panic(fmt.Sprintf("pixaccel: unknown pending operation %v", p.pending.Kind))
	}
}
