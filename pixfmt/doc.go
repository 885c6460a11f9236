// Package pixfmt describes the pixel layouts exchanged between CPU pixmaps
// and GPU textures.
//
// A [Format] tags the legacy CPU layout of a pixmap (the picture formats of
// a display server: a8r8g8b8, x2r10g10b10, a1r5g5b5 and friends). A
// [Transfer] names the component order and packed type used when pixels
// cross the CPU/GPU boundary, and an [Internal] names the storage format of
// the texture itself.
//
// A [Descriptor] ties the three together for one direction of transfer on
// one GPU API [Flavor]. It also carries the fix-ups the transfer needs when
// the GPU cannot express the CPU layout natively:
//
//   - NoAlpha: the layout has no alpha bits, alpha must read as opaque
//   - Reformat: a CPU-side repack is required (see package convert)
//   - Swap: red and blue must be exchanged
//
// Descriptors are produced by a [Resolver]. [DefaultResolver] holds the
// built-in tables for the Desktop and Embedded flavors.
package pixfmt
