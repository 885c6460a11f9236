// Package gpucore defines the GPU dispatch table the pixmap acceleration
// core drives.
//
// The [Dispatch] interface abstracts over GPU backend implementations so
// that the transfer and validation logic is written once:
//   - backend/software: a CPU reference GPU, used in tests and headless runs
//   - backend/native: gogpu/wgpu through its HAL device and queue
//
// # Architecture
//
//	               +-----------------+
//	               |    pixaccel     |
//	               | (Screen, Pixmap)|
//	               +--------+--------+
//	                        | Dispatch
//	         +--------------+--------------+
//	         |                             |
//	+--------v--------+          +--------v--------+
//	|    software     |          |     native      |
//	|  (texel images) |          |  (hal.Device)   |
//	+-----------------+          +--------+--------+
//	                                      |
//	                             +--------v--------+
//	                             |   gogpu/wgpu    |
//	                             +-----------------+
//
// # Coordinates
//
// The dispatch table follows the conventions of a GL-style API. Texture
// rows are numbered from the first row of memory handed to TexImage.
// Framebuffer rows are numbered in the same space, so ReadPixels at row y
// reads back what TexSubImage wrote at row y. Quads are given in normalized
// device coordinates of the bound framebuffer, where -1 maps to row 0.
// Texture coordinates run from 0 to 1, with 0 at the first memory row.
//
// # Resource IDs
//
// Resources are referenced by opaque IDs. Each backend keeps its own
// mapping from ID to backend object. The zero value, [InvalidID], never
// names a live resource.
package gpucore
