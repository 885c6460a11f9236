// Package color provides the normalized color types shared by texel
// storage and the GPU backends, and the fixed-point quantization that
// maps them onto n-bit channels.
package color

// ColorF32 represents a color with float32 components in [0,1].
type ColorF32 struct {
	R, G, B, A float32
}

// ColorU8 represents a color with uint8 components in [0,255].
type ColorU8 struct {
	R, G, B, A uint8
}

// Channel returns component i in R, G, B, A order.
func (c ColorF32) Channel(i int) float32 {
	switch i {
	case 0:
		return c.R
	case 1:
		return c.G
	case 2:
		return c.B
	}
	return c.A
}

// SetChannel stores v as component i in R, G, B, A order.
func (c *ColorF32) SetChannel(i int, v float32) {
	switch i {
	case 0:
		c.R = v
	case 1:
		c.G = v
	case 2:
		c.B = v
	default:
		c.A = v
	}
}
