package gpucore

import (
	"fmt"

	"github.com/gogpu/pixaccel/pixfmt"
)

// Resource IDs
//
// These opaque IDs represent GPU resources. Each backend implementation
// maintains a mapping between IDs and actual backend resources.

// TextureID is an opaque handle to a GPU texture.
type TextureID uint64

// FramebufferID is an opaque handle to a render target bound to a texture.
type FramebufferID uint64

// BufferID is an opaque handle to a staging buffer.
type BufferID uint64

// InvalidID is the zero value, representing an invalid/null resource.
const InvalidID = 0

// Caps describes what the underlying GPU API can do.
type Caps struct {
	Flavor pixfmt.Flavor

	// YInverted is true when framebuffer row 0 is the top row of a pixmap.
	YInverted bool

	// PackInvert is true when ReadPixels can return rows bottom-up.
	PackInvert bool

	// MaxTextureSize bounds both texture dimensions. Zero means unbounded.
	MaxTextureSize int
}

// Color is a normalized RGBA color.
type Color struct {
	R, G, B, A float32
}

// ColorFromArray builds a Color from R, G, B, A components.
func ColorFromArray(c [4]float32) Color {
	return Color{R: c[0], G: c[1], B: c[2], A: c[3]}
}

// Quad is the four corners of a triangle fan as x, y pairs.
type Quad [8]float32

// FullQuad covers the whole normalized device area.
var FullQuad = Quad{-1, -1, 1, -1, 1, 1, -1, 1}

// RectQuad returns the fan x1,y1 → x2,y1 → x2,y2 → x1,y2.
func RectQuad(x1, y1, x2, y2 float32) Quad {
	return Quad{x1, y1, x2, y1, x2, y2, x1, y2}
}

// Program selects the finishing shader applied to sampled texels.
type Program struct {
	// NoAlpha forces sampled alpha to 1.
	NoAlpha bool
	// Swap exchanges sampled red and blue.
	Swap bool
}

// Identity reports whether p leaves texels unchanged.
func (p Program) Identity() bool { return !p.NoAlpha && !p.Swap }

// Apply runs p over one texel.
func (p Program) Apply(c Color) Color {
	if p.Swap {
		c.R, c.B = c.B, c.R
	}
	if p.NoAlpha {
		c.A = 1
	}
	return c
}

// PixelData locates client pixel memory: either Bits, or a staging Buffer
// at Offset when Buffer is valid.
type PixelData struct {
	Bits   []byte
	Buffer BufferID
	Offset int
	Stride int
}

// Access is the intent of a caller mapping pixels to the CPU.
type Access uint8

const (
	// AccessRO reads pixels and leaves them unchanged.
	AccessRO Access = iota
	// AccessRW reads and then modifies pixels.
	AccessRW
	// AccessWO overwrites pixels without reading them.
	AccessWO
)

func (a Access) String() string {
	switch a {
	case AccessRO:
		return "ro"
	case AccessRW:
		return "rw"
	case AccessWO:
		return "wo"
	}
	return fmt.Sprintf("Access(%d)", uint8(a))
}
