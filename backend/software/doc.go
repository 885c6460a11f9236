// Package software implements gpucore.Dispatch entirely on the CPU.
//
// The device behaves like a GL-style GPU of either flavor: textures keep
// the precision of their internal format, transfers go through the same
// packed layouts, draws rasterize quads with nearest sampling, and
// ReadPixels honors the pack-invert capability. It serves as the reference
// device for tests and as a headless fallback.
package software
