package software

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/pixaccel/gpucore"
	"github.com/gogpu/pixaccel/internal/color"
	"github.com/gogpu/pixaccel/internal/texel"
	"github.com/gogpu/pixaccel/pixfmt"
)

// Device errors.
var (
	ErrInvalidResource = errors.New("software: invalid resource")
	ErrNoFramebuffer   = errors.New("software: no framebuffer bound")
	ErrTooLarge        = errors.New("software: texture exceeds maximum size")
	ErrBufferMapped    = errors.New("software: buffer is mapped")
)

// Option configures a Device.
type Option func(*gpucore.Caps)

// WithFlavor selects the API flavor the device emulates.
func WithFlavor(f pixfmt.Flavor) Option {
	return func(c *gpucore.Caps) { c.Flavor = f }
}

// WithYInverted sets whether framebuffer row 0 is the top pixmap row.
func WithYInverted(v bool) Option {
	return func(c *gpucore.Caps) { c.YInverted = v }
}

// WithPackInvert sets whether ReadPixels supports bottom-up packing.
func WithPackInvert(v bool) Option {
	return func(c *gpucore.Caps) { c.PackInvert = v }
}

// WithMaxTextureSize bounds texture dimensions.
func WithMaxTextureSize(n int) Option {
	return func(c *gpucore.Caps) { c.MaxTextureSize = n }
}

type buffer struct {
	data   []byte
	mapped bool
}

// Device is a CPU implementation of gpucore.Dispatch.
type Device struct {
	caps gpucore.Caps
	log  *slog.Logger

	next         uint64
	textures     map[gpucore.TextureID]*texel.Image
	framebuffers map[gpucore.FramebufferID]gpucore.TextureID
	buffers      map[gpucore.BufferID]*buffer

	bound gpucore.FramebufferID
	op    gpucore.LogicOp
}

var _ gpucore.Dispatch = (*Device)(nil)

// New returns a Desktop-flavored, y-inverted device unless options say
// otherwise. Pack invert is only offered by the Desktop flavor.
func New(opts ...Option) *Device {
	caps := gpucore.Caps{Flavor: pixfmt.Desktop, YInverted: true}
	for _, opt := range opts {
		opt(&caps)
	}
	if caps.Flavor == pixfmt.Embedded {
		caps.PackInvert = false
	}
	return &Device{
		caps:         caps,
		log:          slog.New(nopHandler{}),
		textures:     make(map[gpucore.TextureID]*texel.Image),
		framebuffers: make(map[gpucore.FramebufferID]gpucore.TextureID),
		buffers:      make(map[gpucore.BufferID]*buffer),
		op:           gpucore.LogicCopy,
	}
}

// SetLogger sets the logger for device diagnostics. Nil silences it.
func (d *Device) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	d.log = l
}

func (d *Device) id() uint64 {
	d.next++
	return d.next
}

// Capabilities implements gpucore.Dispatch.
func (d *Device) Capabilities() gpucore.Caps { return d.caps }

// Texture returns the storage behind tex, for inspection in tests.
func (d *Device) Texture(tex gpucore.TextureID) (*texel.Image, bool) {
	m, ok := d.textures[tex]
	return m, ok
}

// Live returns the number of live textures, framebuffers and buffers.
func (d *Device) Live() (textures, framebuffers, buffers int) {
	return len(d.textures), len(d.framebuffers), len(d.buffers)
}

// CreateTexture implements gpucore.Dispatch.
func (d *Device) CreateTexture(w, h int, internal pixfmt.Internal) (gpucore.TextureID, error) {
	if w <= 0 || h <= 0 {
		return gpucore.InvalidID, fmt.Errorf("software: invalid texture size %dx%d", w, h)
	}
	if limit := d.caps.MaxTextureSize; limit > 0 && (w > limit || h > limit) {
		return gpucore.InvalidID, fmt.Errorf("%w: %dx%d > %d", ErrTooLarge, w, h, limit)
	}
	id := gpucore.TextureID(d.id())
	d.textures[id] = texel.New(w, h, internal)
	d.log.Debug("software: texture created", "id", id, "width", w, "height", h, "internal", internal)
	return id, nil
}

// DestroyTexture implements gpucore.Dispatch.
func (d *Device) DestroyTexture(tex gpucore.TextureID) {
	delete(d.textures, tex)
}

func (d *Device) texture(tex gpucore.TextureID) (*texel.Image, error) {
	m, ok := d.textures[tex]
	if !ok {
		return nil, fmt.Errorf("%w: texture %d", ErrInvalidResource, tex)
	}
	return m, nil
}

// source resolves client memory, which may live in a staging buffer.
func (d *Device) source(src gpucore.PixelData) ([]byte, error) {
	if src.Buffer == gpucore.InvalidID {
		return src.Bits, nil
	}
	b, ok := d.buffers[src.Buffer]
	if !ok {
		return nil, fmt.Errorf("%w: buffer %d", ErrInvalidResource, src.Buffer)
	}
	if b.mapped {
		return nil, fmt.Errorf("%w: buffer %d", ErrBufferMapped, src.Buffer)
	}
	if src.Offset > len(b.data) {
		return nil, fmt.Errorf("software: offset %d past buffer end %d", src.Offset, len(b.data))
	}
	return b.data[src.Offset:], nil
}

// TexImage implements gpucore.Dispatch.
func (d *Device) TexImage(tex gpucore.TextureID, w, h int, t pixfmt.Transfer, src gpucore.PixelData) error {
	m, err := d.texture(tex)
	if err != nil {
		return err
	}
	if w != m.Width || h != m.Height {
		// Respecifying storage keeps the internal format.
		*m = *texel.New(w, h, m.Internal)
	}
	return d.TexSubImage(tex, 0, 0, w, h, t, src)
}

// TexSubImage implements gpucore.Dispatch.
func (d *Device) TexSubImage(tex gpucore.TextureID, x, y, w, h int, t pixfmt.Transfer, src gpucore.PixelData) error {
	m, err := d.texture(tex)
	if err != nil {
		return err
	}
	bits, err := d.source(src)
	if err != nil {
		return err
	}
	return m.Load(x, y, w, h, t, bits, src.Stride)
}

// CreateFramebuffer implements gpucore.Dispatch.
func (d *Device) CreateFramebuffer(tex gpucore.TextureID) (gpucore.FramebufferID, error) {
	if _, err := d.texture(tex); err != nil {
		return gpucore.InvalidID, err
	}
	id := gpucore.FramebufferID(d.id())
	d.framebuffers[id] = tex
	return id, nil
}

// DestroyFramebuffer implements gpucore.Dispatch.
func (d *Device) DestroyFramebuffer(fb gpucore.FramebufferID) {
	delete(d.framebuffers, fb)
	if d.bound == fb {
		d.bound = gpucore.InvalidID
	}
}

// BindFramebuffer implements gpucore.Dispatch.
func (d *Device) BindFramebuffer(fb gpucore.FramebufferID) error {
	if fb != gpucore.InvalidID {
		if _, ok := d.framebuffers[fb]; !ok {
			return fmt.Errorf("%w: framebuffer %d", ErrInvalidResource, fb)
		}
	}
	d.bound = fb
	return nil
}

// Bound returns the framebuffer currently bound.
func (d *Device) Bound() gpucore.FramebufferID { return d.bound }

func (d *Device) target() (*texel.Image, error) {
	if d.bound == gpucore.InvalidID {
		return nil, ErrNoFramebuffer
	}
	tex, ok := d.framebuffers[d.bound]
	if !ok {
		return nil, ErrNoFramebuffer
	}
	return d.texture(tex)
}

// DrawSolid implements gpucore.Dispatch.
func (d *Device) DrawSolid(q gpucore.Quad, c gpucore.Color) error {
	m, err := d.target()
	if err != nil {
		return err
	}
	m.FillQuad(q, color.ColorF32{R: c.R, G: c.G, B: c.B, A: c.A}, d.op)
	return nil
}

// DrawTextured implements gpucore.Dispatch.
func (d *Device) DrawTextured(src gpucore.TextureID, q, tc gpucore.Quad, p gpucore.Program) error {
	m, err := d.target()
	if err != nil {
		return err
	}
	s, err := d.texture(src)
	if err != nil {
		return err
	}
	if s == m {
		// Sampling the render target is undefined; read from a snapshot.
		cp := *s
		cp.Pix = append([]color.ColorF32(nil), s.Pix...)
		s = &cp
	}
	m.DrawQuad(s, q, tc, p, d.op)
	return nil
}

// SetLogicOp implements gpucore.Dispatch.
func (d *Device) SetLogicOp(op gpucore.LogicOp) { d.op = op }

// LogicOp returns the current raster operation.
func (d *Device) LogicOp() gpucore.LogicOp { return d.op }

// ReadPixels implements gpucore.Dispatch.
func (d *Device) ReadPixels(x, y, w, h int, t pixfmt.Transfer, invert bool, dst gpucore.PixelData) error {
	if invert && !d.caps.PackInvert {
		return errors.New("software: pack invert not supported")
	}
	m, err := d.target()
	if err != nil {
		return err
	}
	var out []byte
	if dst.Buffer == gpucore.InvalidID {
		out = dst.Bits
	} else {
		b, ok := d.buffers[dst.Buffer]
		if !ok {
			return fmt.Errorf("%w: buffer %d", ErrInvalidResource, dst.Buffer)
		}
		if b.mapped {
			return fmt.Errorf("%w: buffer %d", ErrBufferMapped, dst.Buffer)
		}
		if dst.Offset > len(b.data) {
			return fmt.Errorf("software: offset %d past buffer end %d", dst.Offset, len(b.data))
		}
		out = b.data[dst.Offset:]
	}
	return m.Pack(x, y, w, h, t, out, dst.Stride, invert)
}

// CreateBuffer implements gpucore.Dispatch.
func (d *Device) CreateBuffer() (gpucore.BufferID, error) {
	id := gpucore.BufferID(d.id())
	d.buffers[id] = &buffer{}
	return id, nil
}

// BufferData implements gpucore.Dispatch.
func (d *Device) BufferData(buf gpucore.BufferID, size int) error {
	b, ok := d.buffers[buf]
	if !ok {
		return fmt.Errorf("%w: buffer %d", ErrInvalidResource, buf)
	}
	if b.mapped {
		return fmt.Errorf("%w: buffer %d", ErrBufferMapped, buf)
	}
	b.data = make([]byte, size)
	return nil
}

// DestroyBuffer implements gpucore.Dispatch.
func (d *Device) DestroyBuffer(buf gpucore.BufferID) {
	delete(d.buffers, buf)
}

// MapBuffer implements gpucore.Dispatch.
func (d *Device) MapBuffer(buf gpucore.BufferID) ([]byte, error) {
	b, ok := d.buffers[buf]
	if !ok {
		return nil, fmt.Errorf("%w: buffer %d", ErrInvalidResource, buf)
	}
	b.mapped = true
	return b.data, nil
}

// UnmapBuffer implements gpucore.Dispatch.
func (d *Device) UnmapBuffer(buf gpucore.BufferID) {
	if b, ok := d.buffers[buf]; ok {
		b.mapped = false
	}
}
