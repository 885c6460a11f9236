// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	"errors"
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/pixaccel/backend/software"
	"github.com/gogpu/pixaccel/gpucore"
	"github.com/gogpu/pixaccel/pixfmt"
)

// Device errors.
var (
	// ErrNoHAL is returned when a provider does not expose HAL objects.
	ErrNoHAL = errors.New("native: provider does not expose HAL types")

	// ErrReadback is returned when the GPU copy of a texture cannot be read.
	ErrReadback = errors.New("native: texture readback failed")
)

// mirror is the GPU copy of one texture.
type mirror struct {
	tex  hal.Texture
	view hal.TextureView
}

// Device implements gpucore.Dispatch on a hal.Device.
type Device struct {
	*software.Device

	device hal.Device
	queue  hal.Queue
	log    *slog.Logger

	mirrors      map[gpucore.TextureID]*mirror
	framebuffers map[gpucore.FramebufferID]gpucore.TextureID
}

var _ gpucore.Dispatch = (*Device)(nil)

// New wraps device and queue. Options select the GL flavor and
// orientation the device presents.
func New(device hal.Device, queue hal.Queue, opts ...software.Option) *Device {
	return &Device{
		Device:       software.New(opts...),
		device:       device,
		queue:        queue,
		log:          slog.New(nopHandler{}),
		mirrors:      make(map[gpucore.TextureID]*mirror),
		framebuffers: make(map[gpucore.FramebufferID]gpucore.TextureID),
	}
}

// NewFromProvider takes the device and queue from a host provider that
// implements HalDevice() any and HalQueue() any.
func NewFromProvider(provider any, opts ...software.Option) (*Device, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHAL
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHAL)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHAL)
	}
	return New(device, queue, opts...), nil
}

// SetLogger sets the logger for device diagnostics. Nil silences it.
func (d *Device) SetLogger(l *slog.Logger) {
	d.Device.SetLogger(l)
	if l == nil {
		l = slog.New(nopHandler{})
	}
	d.log = l
}

// Close releases every mirror texture still alive.
func (d *Device) Close() {
	for id := range d.mirrors {
		d.destroyMirror(id)
	}
}

// CreateTexture implements gpucore.Dispatch.
func (d *Device) CreateTexture(w, h int, internal pixfmt.Internal) (gpucore.TextureID, error) {
	id, err := d.Device.CreateTexture(w, h, internal)
	if err != nil {
		return id, err
	}
	if err := d.newMirror(id, w, h, internal); err != nil {
		d.Device.DestroyTexture(id)
		return gpucore.InvalidID, err
	}
	if err := d.sync(id); err != nil {
		d.DestroyTexture(id)
		return gpucore.InvalidID, err
	}
	return id, nil
}

// DestroyTexture implements gpucore.Dispatch.
func (d *Device) DestroyTexture(id gpucore.TextureID) {
	d.destroyMirror(id)
	d.Device.DestroyTexture(id)
}

// TexImage implements gpucore.Dispatch.
func (d *Device) TexImage(id gpucore.TextureID, w, h int, t pixfmt.Transfer, src gpucore.PixelData) error {
	m, ok := d.Texture(id)
	resized := ok && (m.Width != w || m.Height != h)
	if err := d.Device.TexImage(id, w, h, t, src); err != nil {
		return err
	}
	if resized {
		// Storage was respecified; the mirror must follow.
		d.destroyMirror(id)
		if err := d.newMirror(id, w, h, m.Internal); err != nil {
			return err
		}
	}
	return d.sync(id)
}

// TexSubImage implements gpucore.Dispatch.
func (d *Device) TexSubImage(id gpucore.TextureID, x, y, w, h int, t pixfmt.Transfer, src gpucore.PixelData) error {
	if err := d.Device.TexSubImage(id, x, y, w, h, t, src); err != nil {
		return err
	}
	return d.sync(id)
}

// CreateFramebuffer implements gpucore.Dispatch.
func (d *Device) CreateFramebuffer(id gpucore.TextureID) (gpucore.FramebufferID, error) {
	fb, err := d.Device.CreateFramebuffer(id)
	if err != nil {
		return fb, err
	}
	d.framebuffers[fb] = id
	return fb, nil
}

// DestroyFramebuffer implements gpucore.Dispatch.
func (d *Device) DestroyFramebuffer(fb gpucore.FramebufferID) {
	delete(d.framebuffers, fb)
	d.Device.DestroyFramebuffer(fb)
}

// DrawSolid implements gpucore.Dispatch. A copy-mode fill of the whole
// target is recorded as a clear pass on the mirror.
func (d *Device) DrawSolid(q gpucore.Quad, c gpucore.Color) error {
	if err := d.Device.DrawSolid(q, c); err != nil {
		return err
	}
	id := d.target()
	if q == gpucore.FullQuad && d.LogicOp() == gpucore.LogicCopy {
		return d.clear(id)
	}
	return d.sync(id)
}

// DrawTextured implements gpucore.Dispatch.
func (d *Device) DrawTextured(src gpucore.TextureID, q, tc gpucore.Quad, p gpucore.Program) error {
	if err := d.Device.DrawTextured(src, q, tc, p); err != nil {
		return err
	}
	return d.sync(d.target())
}

// ReadPixels implements gpucore.Dispatch.
func (d *Device) ReadPixels(x, y, w, h int, t pixfmt.Transfer, invert bool, dst gpucore.PixelData) error {
	if id := d.target(); id != gpucore.InvalidID {
		if err := d.refresh(id); err != nil {
			return err
		}
	}
	return d.Device.ReadPixels(x, y, w, h, t, invert, dst)
}

func (d *Device) target() gpucore.TextureID {
	return d.framebuffers[d.Bound()]
}

func (d *Device) newMirror(id gpucore.TextureID, w, h int, internal pixfmt.Internal) error {
	tex, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label:         fmt.Sprintf("pixaccel_texture_%d", id),
		Size:          hal.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1}, //nolint:gosec // validated by the texel store
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        internal.GPUFormat(),
		Usage: gputypes.TextureUsageTextureBinding | gputypes.TextureUsageRenderAttachment |
			gputypes.TextureUsageCopyDst | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("native: create texture: %w", err)
	}
	view, err := d.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label: fmt.Sprintf("pixaccel_texture_%d_view", id),
	})
	if err != nil {
		d.device.DestroyTexture(tex)
		return fmt.Errorf("native: create texture view: %w", err)
	}
	d.mirrors[id] = &mirror{tex: tex, view: view}
	return nil
}

func (d *Device) destroyMirror(id gpucore.TextureID) {
	mi, ok := d.mirrors[id]
	if !ok {
		return
	}
	d.device.DestroyTextureView(mi.view)
	d.device.DestroyTexture(mi.tex)
	delete(d.mirrors, id)
}

// sync uploads the CPU storage of id to its mirror.
func (d *Device) sync(id gpucore.TextureID) error {
	m, ok := d.Texture(id)
	mi, mok := d.mirrors[id]
	if !ok || !mok {
		return nil
	}
	w, h := uint32(m.Width), uint32(m.Height) //nolint:gosec // texture sizes fit uint32
	err := d.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: mi.tex, MipLevel: 0},
		encodeMirror(m),
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  w * uint32(m.Internal.GPUBytesPerPixel()), //nolint:gosec // 1 or 4
			RowsPerImage: h,
		},
		&hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	)
	if err != nil {
		return fmt.Errorf("native: write texture %d: %w", id, err)
	}
	return nil
}

// clear fills the mirror of id with the stored color of its first texel.
func (d *Device) clear(id gpucore.TextureID) error {
	m, ok := d.Texture(id)
	mi, mok := d.mirrors[id]
	if !ok || !mok {
		return nil
	}
	c := m.At(0, 0)
	if m.Internal == pixfmt.InternalAlpha8 {
		// R8 mirrors keep alpha in the red channel.
		c.R = c.A
	}
	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "pixaccel_clear"})
	if err != nil {
		return fmt.Errorf("native: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("pixaccel_clear"); err != nil {
		return fmt.Errorf("native: begin encoding: %w", err)
	}
	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "pixaccel_clear_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       mi.view,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: gputypes.Color{R: float64(c.R), G: float64(c.G), B: float64(c.B), A: float64(c.A)},
		}},
	})
	rp.End()
	if err := d.submit(encoder); err != nil {
		return fmt.Errorf("native: clear: %w", err)
	}
	return nil
}

// submit ends encoding, submits and waits until the GPU is idle.
func (d *Device) submit(encoder hal.CommandEncoder) error {
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer d.device.FreeCommandBuffer(cmdBuf)

	idx, err := d.queue.Submit([]hal.CommandBuffer{cmdBuf})
	if err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	if err := d.device.WaitIdle(); err != nil {
		return fmt.Errorf("wait for GPU: %w", err)
	}
	if done := d.queue.PollCompleted(); done < idx {
		return fmt.Errorf("wait for GPU: submission %d not complete (at %d)", idx, done)
	}
	return nil
}

// refresh replaces the CPU storage of id with the mirror contents when the
// internal format survives the round trip through 8-bit channels.
func (d *Device) refresh(id gpucore.TextureID) error {
	m, ok := d.Texture(id)
	mi, mok := d.mirrors[id]
	if !ok || !mok || !readsBack(m.Internal) {
		return nil
	}
	bpp := m.Internal.GPUBytesPerPixel()
	pitch := alignedRow(m.Width, bpp)
	w, h := uint32(m.Width), uint32(m.Height) //nolint:gosec // texture sizes fit uint32
	size := uint64(pitch) * uint64(h)

	staging, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "pixaccel_readback",
		Size:  size,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("%w: create staging buffer: %w", ErrReadback, err)
	}
	defer d.device.DestroyBuffer(staging)

	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "pixaccel_readback"})
	if err != nil {
		return fmt.Errorf("%w: create command encoder: %w", ErrReadback, err)
	}
	if err := encoder.BeginEncoding("pixaccel_readback"); err != nil {
		return fmt.Errorf("%w: begin encoding: %w", ErrReadback, err)
	}
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: mi.tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopyDst,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})
	encoder.CopyTextureToBuffer(mi.tex, staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: uint32(pitch), RowsPerImage: h}, //nolint:gosec // aligned row pitch
		TextureBase:  hal.ImageCopyTexture{Texture: mi.tex, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: mi.tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageCopyDst,
		},
	}})
	if err := d.submit(encoder); err != nil {
		return fmt.Errorf("%w: %w", ErrReadback, err)
	}

	mapping, err := d.device.MapBuffer(staging, 0, size)
	if err != nil {
		return fmt.Errorf("%w: map staging buffer: %w", ErrReadback, err)
	}
	decodeMirror(m, unsafe.Slice((*byte)(mapping.Ptr), size), pitch)
	if err := d.device.UnmapBuffer(staging); err != nil {
		return fmt.Errorf("%w: unmap staging buffer: %w", ErrReadback, err)
	}
	d.log.Debug("native: texture read back", "id", id, "width", w, "height", h)
	return nil
}
