// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package native provides a gpucore.Dispatch backed by a real GPU through
// gogpu/wgpu/hal.
//
// Every texture lives twice: as texel storage on the CPU, where quads are
// rasterized with GL semantics, and as a hal.Texture mirror that is
// refreshed with queue.WriteTexture after each mutation. ReadPixels on a
// texture whose channels fit 8 bits reads the mirror back through a
// staging buffer, so the GPU copy is what callers observe. Wider formats
// (10-bit and 16-bit channels) are read from CPU storage.
//
// The device and queue come from a host application:
//
//	dev, err := native.NewFromProvider(provider, software.WithFlavor(pixfmt.Desktop))
//
// where provider exposes HalDevice() and HalQueue(), as
// gpucontext.DeviceProvider implementations in gogpu do.
package native
