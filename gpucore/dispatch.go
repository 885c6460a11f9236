package gpucore

import "github.com/gogpu/pixaccel/pixfmt"

// Dispatch is the set of GPU primitives the acceleration core invokes.
//
// Implementations are driven from a single goroutine. Calls are
// synchronous: a draw is complete, as far as later calls can observe,
// when the method returns.
type Dispatch interface {
	// Capabilities reports the fixed properties of the device.
	Capabilities() Caps

	// CreateTexture allocates uninitialized storage.
	CreateTexture(width, height int, internal pixfmt.Internal) (TextureID, error)
	DestroyTexture(tex TextureID)

	// TexImage replaces the whole texture from src in layout t.
	TexImage(tex TextureID, width, height int, t pixfmt.Transfer, src PixelData) error

	// TexSubImage replaces the rectangle at x, y.
	TexSubImage(tex TextureID, x, y, width, height int, t pixfmt.Transfer, src PixelData) error

	// CreateFramebuffer makes tex renderable.
	CreateFramebuffer(tex TextureID) (FramebufferID, error)
	DestroyFramebuffer(fb FramebufferID)

	// BindFramebuffer selects the target of draws and the source of
	// reads, with a viewport covering the attachment.
	// InvalidID unbinds.
	BindFramebuffer(fb FramebufferID) error

	// DrawSolid fills the quad with c.
	DrawSolid(q Quad, c Color) error

	// DrawTextured fills the quad by sampling src with nearest filtering
	// at texcoords, running each texel through p.
	DrawTextured(src TextureID, q Quad, texcoords Quad, p Program) error

	// SetLogicOp sets the raster operation applied by later draws.
	SetLogicOp(op LogicOp)

	// ReadPixels reads the rectangle at x, y of the bound framebuffer
	// into dst in layout t. With invert set, the last row of the
	// rectangle is written first.
	ReadPixels(x, y, width, height int, t pixfmt.Transfer, invert bool, dst PixelData) error

	// CreateBuffer allocates an empty staging buffer.
	CreateBuffer() (BufferID, error)

	// BufferData (re)allocates size bytes of storage, discarding contents.
	BufferData(buf BufferID, size int) error
	DestroyBuffer(buf BufferID)

	// MapBuffer exposes the buffer storage to the CPU until UnmapBuffer.
	MapBuffer(buf BufferID) ([]byte, error)
	UnmapBuffer(buf BufferID)
}
