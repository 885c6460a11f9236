package pixaccel

import (
	"fmt"

	"github.com/gogpu/pixaccel/gpucore"
	"github.com/gogpu/pixaccel/pixfmt"
)

// ALU is an X11 raster operation code.
type ALU uint8

const (
	GXclear ALU = iota
	GXand
	GXandReverse
	GXcopy
	GXandInverted
	GXnoop
	GXxor
	GXor
	GXnor
	GXequiv
	GXinvert
	GXorReverse
	GXcopyInverted
	GXorInverted
	GXnand
	GXset
)

// LogicOp returns the GPU logic operation for a.
func (a ALU) LogicOp() gpucore.LogicOp { return gpucore.LogicOp(a) }

// SetDestination binds the framebuffer of p as the render target. Draw
// coordinates are normalized to the bound framebuffer, so the full quad
// covers exactly the pixmap.
func (s *Screen) SetDestination(p *Pixmap) error {
	b := p.backing
	if b == nil || b.fb == gpucore.InvalidID {
		return fmt.Errorf("%w: destination", ErrNoBacking)
	}
	d, release := s.acquire()
	defer release()
	return d.BindFramebuffer(b.fb)
}

// SetALU selects the raster operation of later draws. The Embedded flavor
// has no logic operations and only accepts GXcopy.
func (s *Screen) SetALU(alu ALU) error {
	if alu > GXset {
		return fmt.Errorf("pixaccel: unknown ALU %d", alu)
	}
	if s.caps.Flavor == pixfmt.Embedded && alu != GXcopy {
		Logger().Debug("pixaccel: fallback", "op", "alu", "alu", uint8(alu))
		return fmt.Errorf("%w: ALU %d unsupported on %v", ErrFallbackToCPU, alu, s.caps.Flavor)
	}
	d, release := s.acquire()
	defer release()
	d.SetLogicOp(alu.LogicOp())
	s.alu = alu
	return nil
}

// SetPlanemask reports whether mask writes every plane of depth. Partial
// planemasks cannot be expressed on the GPU.
func (s *Screen) SetPlanemask(depth int, mask uint32) bool {
	full := ^uint32(0)
	if depth < 32 {
		full = uint32(1)<<depth - 1
	}
	if mask&full == full {
		return true
	}
	Logger().Debug("pixaccel: fallback", "op", "planemask", "depth", depth, "mask", mask)
	return false
}
