// Package dispatchtest wraps a gpucore.Dispatch to count calls and inject
// failures in tests.
package dispatchtest

import (
	"errors"
	"log/slog"

	"github.com/gogpu/pixaccel/gpucore"
	"github.com/gogpu/pixaccel/pixfmt"
)

// ErrInjected is returned by methods listed in Counter.Fail.
var ErrInjected = errors.New("dispatchtest: injected failure")

// Method names used as Counter keys.
const (
	CreateTexture      = "CreateTexture"
	DestroyTexture     = "DestroyTexture"
	TexImage           = "TexImage"
	TexSubImage        = "TexSubImage"
	CreateFramebuffer  = "CreateFramebuffer"
	DestroyFramebuffer = "DestroyFramebuffer"
	BindFramebuffer    = "BindFramebuffer"
	DrawSolid          = "DrawSolid"
	DrawTextured       = "DrawTextured"
	SetLogicOp         = "SetLogicOp"
	ReadPixels         = "ReadPixels"
	CreateBuffer       = "CreateBuffer"
	BufferData         = "BufferData"
	DestroyBuffer      = "DestroyBuffer"
	MapBuffer          = "MapBuffer"
	UnmapBuffer        = "UnmapBuffer"
)

// Counter forwards to Next, counting every call by method name.
type Counter struct {
	Next gpucore.Dispatch

	// Calls counts invocations per method.
	Calls map[string]int

	// Fail makes the named methods return ErrInjected without forwarding.
	// Methods without an error result are always forwarded.
	Fail map[string]bool
}

var _ gpucore.Dispatch = (*Counter)(nil)

// New wraps next.
func New(next gpucore.Dispatch) *Counter {
	return &Counter{
		Next:  next,
		Calls: make(map[string]int),
		Fail:  make(map[string]bool),
	}
}

// Reset zeroes all counts.
func (c *Counter) Reset() {
	clear(c.Calls)
}

// Total returns the number of calls to any method.
func (c *Counter) Total() int {
	n := 0
	for _, v := range c.Calls {
		n += v
	}
	return n
}

// Reads returns the number of read-back calls.
func (c *Counter) Reads() int { return c.Calls[ReadPixels] }

// Draws returns the number of draw calls.
func (c *Counter) Draws() int { return c.Calls[DrawSolid] + c.Calls[DrawTextured] }

func (c *Counter) hit(name string) bool {
	c.Calls[name]++
	return c.Fail[name]
}

// SetLogger forwards to Next when it accepts a logger.
func (c *Counter) SetLogger(l *slog.Logger) {
	if ls, ok := c.Next.(interface{ SetLogger(*slog.Logger) }); ok {
		ls.SetLogger(l)
	}
}

func (c *Counter) Capabilities() gpucore.Caps { return c.Next.Capabilities() }

func (c *Counter) CreateTexture(w, h int, internal pixfmt.Internal) (gpucore.TextureID, error) {
	if c.hit(CreateTexture) {
		return gpucore.InvalidID, ErrInjected
	}
	return c.Next.CreateTexture(w, h, internal)
}

func (c *Counter) DestroyTexture(tex gpucore.TextureID) {
	c.hit(DestroyTexture)
	c.Next.DestroyTexture(tex)
}

func (c *Counter) TexImage(tex gpucore.TextureID, w, h int, t pixfmt.Transfer, src gpucore.PixelData) error {
	if c.hit(TexImage) {
		return ErrInjected
	}
	return c.Next.TexImage(tex, w, h, t, src)
}

func (c *Counter) TexSubImage(tex gpucore.TextureID, x, y, w, h int, t pixfmt.Transfer, src gpucore.PixelData) error {
	if c.hit(TexSubImage) {
		return ErrInjected
	}
	return c.Next.TexSubImage(tex, x, y, w, h, t, src)
}

func (c *Counter) CreateFramebuffer(tex gpucore.TextureID) (gpucore.FramebufferID, error) {
	if c.hit(CreateFramebuffer) {
		return gpucore.InvalidID, ErrInjected
	}
	return c.Next.CreateFramebuffer(tex)
}

func (c *Counter) DestroyFramebuffer(fb gpucore.FramebufferID) {
	c.hit(DestroyFramebuffer)
	c.Next.DestroyFramebuffer(fb)
}

func (c *Counter) BindFramebuffer(fb gpucore.FramebufferID) error {
	if c.hit(BindFramebuffer) {
		return ErrInjected
	}
	return c.Next.BindFramebuffer(fb)
}

func (c *Counter) DrawSolid(q gpucore.Quad, col gpucore.Color) error {
	if c.hit(DrawSolid) {
		return ErrInjected
	}
	return c.Next.DrawSolid(q, col)
}

func (c *Counter) DrawTextured(src gpucore.TextureID, q, tc gpucore.Quad, p gpucore.Program) error {
	if c.hit(DrawTextured) {
		return ErrInjected
	}
	return c.Next.DrawTextured(src, q, tc, p)
}

func (c *Counter) SetLogicOp(op gpucore.LogicOp) {
	c.hit(SetLogicOp)
	c.Next.SetLogicOp(op)
}

func (c *Counter) ReadPixels(x, y, w, h int, t pixfmt.Transfer, invert bool, dst gpucore.PixelData) error {
	if c.hit(ReadPixels) {
		return ErrInjected
	}
	return c.Next.ReadPixels(x, y, w, h, t, invert, dst)
}

func (c *Counter) CreateBuffer() (gpucore.BufferID, error) {
	if c.hit(CreateBuffer) {
		return gpucore.InvalidID, ErrInjected
	}
	return c.Next.CreateBuffer()
}

func (c *Counter) BufferData(buf gpucore.BufferID, size int) error {
	if c.hit(BufferData) {
		return ErrInjected
	}
	return c.Next.BufferData(buf, size)
}

func (c *Counter) DestroyBuffer(buf gpucore.BufferID) {
	c.hit(DestroyBuffer)
	c.Next.DestroyBuffer(buf)
}

func (c *Counter) MapBuffer(buf gpucore.BufferID) ([]byte, error) {
	if c.hit(MapBuffer) {
		return nil, ErrInjected
	}
	return c.Next.MapBuffer(buf)
}

func (c *Counter) UnmapBuffer(buf gpucore.BufferID) {
	c.hit(UnmapBuffer)
	c.Next.UnmapBuffer(buf)
}
