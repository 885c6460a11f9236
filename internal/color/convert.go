package color

import "github.com/chewxy/math32"

// U8ToF32 converts ColorU8 to ColorF32.
// Each uint8 component [0,255] is mapped to float32 [0,1].
func U8ToF32(c ColorU8) ColorF32 {
	return ColorF32{
		R: float32(c.R) / 255.0,
		G: float32(c.G) / 255.0,
		B: float32(c.B) / 255.0,
		A: float32(c.A) / 255.0,
	}
}

// F32ToU8 converts ColorF32 to ColorU8.
// Each float32 component [0,1] is mapped to uint8 [0,255] with rounding.
func F32ToU8(c ColorF32) ColorU8 {
	return ColorU8{
		R: uint8(Quantize(c.R, 8)),
		G: uint8(Quantize(c.G, 8)),
		B: uint8(Quantize(c.B, 8)),
		A: uint8(Quantize(c.A, 8)),
	}
}

// Quantize maps v, clamped to [0,1], to the nearest n-bit value.
func Quantize(v float32, bits uint8) uint32 {
	if bits == 0 {
		return 0
	}
	top := float32(uint32(1)<<bits - 1)
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return uint32(top)
	}
	return uint32(math32.Floor(v*top + 0.5))
}

// Expand maps an n-bit value back to [0,1].
func Expand(q uint32, bits uint8) float32 {
	if bits == 0 {
		return 0
	}
	return float32(q) / float32(uint32(1)<<bits-1)
}

// Requantize snaps v to the nearest value representable in n bits.
func Requantize(v float32, bits uint8) float32 {
	return Expand(Quantize(v, bits), bits)
}
