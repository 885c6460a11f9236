// Package pixaccel moves pixmap contents between CPU memory and GPU
// textures.
//
// # Overview
//
// A [Screen] wraps a [gpucore.Dispatch] implementation and owns every
// transfer decision: whether an upload can go straight into a texture or
// needs a textured render pass to flip rows, force alpha or swap channels,
// and whether a download can be read back directly, needs row reversal, or
// first needs a normalizing pass through a temporary framebuffer. Pixel
// layouts the GPU cannot move natively are repacked on the CPU by the
// convert package.
//
// # Quick Start
//
//	dev := software.New()
//	s := pixaccel.NewScreen(dev)
//	defer s.Close()
//
//	p, err := s.CreatePixmap(64, 64, 32, pixaccel.UsageGPU)
//	if err != nil {
//	    return err
//	}
//	if err := s.UploadRegion(p, 0, 0, 64, 64, p.Stride(), bits, gpucore.InvalidID); err != nil {
//	    // fall back to CPU rendering
//	}
//
// # Deferred fills
//
// [Screen.RequestFill] records a solid fill without drawing it. The fill is
// rendered by [Screen.Validate], which every read path calls first, so a
// pixmap that is filled twice or destroyed before being read costs no draw.
//
// # Sub-pixmaps
//
// [Screen.Extract] copies a rectangle of a GPU pixmap into a standalone
// pixmap and [Screen.Reinsert] writes it back. Write-only extraction skips
// the read-back entirely.
//
// # Errors
//
// All failures are returned as errors wrapping one of the package
// sentinels, and callers are expected to fall back to a CPU path. A
// download of a format the resolver cannot describe, or an unknown access
// mode, panics: both mean a caller contract was already broken.
//
// # Logging
//
// The package is silent by default. See [SetLogger].
package pixaccel
