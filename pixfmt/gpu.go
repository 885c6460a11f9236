package pixfmt

import "github.com/gogpu/gputypes"

// GPUFormat returns the WebGPU texture format used to mirror a texture of
// storage format i. Single-channel alpha lives in the red channel of an
// R8 texture. Every other storage format is widened to RGBA8.
func (i Internal) GPUFormat() gputypes.TextureFormat {
	if i == InternalAlpha8 {
		return gputypes.TextureFormatR8Unorm
	}
	return gputypes.TextureFormatRGBA8Unorm
}

// GPUBytesPerPixel returns the texel size of GPUFormat.
func (i Internal) GPUBytesPerPixel() int {
	if i == InternalAlpha8 {
		return 1
	}
	return 4
}

// ExactOnGPU reports whether every stored channel fits in the 8 bits the
// mirrored texture provides.
func (i Internal) ExactOnGPU() bool {
	for _, b := range i.Bits() {
		if b > 8 {
			return false
		}
	}
	return true
}
