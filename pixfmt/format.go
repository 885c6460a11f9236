package pixfmt

import "fmt"

// Format is the legacy CPU pixel layout of a pixmap.
type Format uint8

const (
	// FormatUnknown is the zero value and resolves to nothing.
	FormatUnknown Format = iota

	// A1 is a 1-bit alpha mask, pixel x at bit x%8 of byte x/8.
	A1
	// A8 is an 8-bit alpha mask.
	A8

	X8R8G8B8
	A8R8G8B8
	X8B8G8R8
	A8B8G8R8
	B8G8R8X8
	B8G8R8A8

	X2R10G10B10
	A2R10G10B10
	X2B10G10R10
	A2B10G10R10

	R5G6B5
	B5G6R5

	X1R5G5B5
	A1R5G5B5
	X1B5G5R5
	A1B5G5R5

	X4R4G4B4
	A4R4G4B4
	X4B4G4R4
	A4B4G4R4

	formatCount
)

// Channel indexes the four color channels.
type Channel uint8

const (
	R Channel = iota
	G
	B
	A
)

// Field locates one channel inside a little-endian pixel word.
// Bits == 0 means the channel is absent.
type Field struct {
	Shift uint8
	Bits  uint8
}

// Mask returns the unshifted channel mask.
func (f Field) Mask() uint32 { return 1<<f.Bits - 1 }

// Get extracts the channel from a pixel word.
func (f Field) Get(pixel uint32) uint32 {
	if f.Bits == 0 {
		return 0
	}
	return pixel >> f.Shift & f.Mask()
}

// Put places v into a pixel word.
func (f Field) Put(v uint32) uint32 {
	if f.Bits == 0 {
		return 0
	}
	return (v & f.Mask()) << f.Shift
}

// FormatInfo contains layout metadata about a format.
type FormatInfo struct {
	Name string

	// Depth is the number of significant bits (the pixmap depth).
	Depth int

	// BitsPerPixel is the storage size of one pixel.
	BitsPerPixel int

	// Fields holds the channel positions, indexed by Channel.
	Fields [4]Field
}

var formatInfoTable = [formatCount]FormatInfo{
	FormatUnknown: {Name: "unknown"},

	A1: {Name: "a1", Depth: 1, BitsPerPixel: 1, Fields: [4]Field{A: {0, 1}}},
	A8: {Name: "a8", Depth: 8, BitsPerPixel: 8, Fields: [4]Field{A: {0, 8}}},

	X8R8G8B8: {Name: "x8r8g8b8", Depth: 24, BitsPerPixel: 32, Fields: [4]Field{R: {16, 8}, G: {8, 8}, B: {0, 8}}},
	A8R8G8B8: {Name: "a8r8g8b8", Depth: 32, BitsPerPixel: 32, Fields: [4]Field{R: {16, 8}, G: {8, 8}, B: {0, 8}, A: {24, 8}}},
	X8B8G8R8: {Name: "x8b8g8r8", Depth: 24, BitsPerPixel: 32, Fields: [4]Field{R: {0, 8}, G: {8, 8}, B: {16, 8}}},
	A8B8G8R8: {Name: "a8b8g8r8", Depth: 32, BitsPerPixel: 32, Fields: [4]Field{R: {0, 8}, G: {8, 8}, B: {16, 8}, A: {24, 8}}},
	B8G8R8X8: {Name: "b8g8r8x8", Depth: 24, BitsPerPixel: 32, Fields: [4]Field{R: {8, 8}, G: {16, 8}, B: {24, 8}}},
	B8G8R8A8: {Name: "b8g8r8a8", Depth: 32, BitsPerPixel: 32, Fields: [4]Field{R: {8, 8}, G: {16, 8}, B: {24, 8}, A: {0, 8}}},

	X2R10G10B10: {Name: "x2r10g10b10", Depth: 30, BitsPerPixel: 32, Fields: [4]Field{R: {20, 10}, G: {10, 10}, B: {0, 10}}},
	A2R10G10B10: {Name: "a2r10g10b10", Depth: 32, BitsPerPixel: 32, Fields: [4]Field{R: {20, 10}, G: {10, 10}, B: {0, 10}, A: {30, 2}}},
	X2B10G10R10: {Name: "x2b10g10r10", Depth: 30, BitsPerPixel: 32, Fields: [4]Field{R: {0, 10}, G: {10, 10}, B: {20, 10}}},
	A2B10G10R10: {Name: "a2b10g10r10", Depth: 32, BitsPerPixel: 32, Fields: [4]Field{R: {0, 10}, G: {10, 10}, B: {20, 10}, A: {30, 2}}},

	R5G6B5: {Name: "r5g6b5", Depth: 16, BitsPerPixel: 16, Fields: [4]Field{R: {11, 5}, G: {5, 6}, B: {0, 5}}},
	B5G6R5: {Name: "b5g6r5", Depth: 16, BitsPerPixel: 16, Fields: [4]Field{R: {0, 5}, G: {5, 6}, B: {11, 5}}},

	X1R5G5B5: {Name: "x1r5g5b5", Depth: 15, BitsPerPixel: 16, Fields: [4]Field{R: {10, 5}, G: {5, 5}, B: {0, 5}}},
	A1R5G5B5: {Name: "a1r5g5b5", Depth: 16, BitsPerPixel: 16, Fields: [4]Field{R: {10, 5}, G: {5, 5}, B: {0, 5}, A: {15, 1}}},
	X1B5G5R5: {Name: "x1b5g5r5", Depth: 15, BitsPerPixel: 16, Fields: [4]Field{R: {0, 5}, G: {5, 5}, B: {10, 5}}},
	A1B5G5R5: {Name: "a1b5g5r5", Depth: 16, BitsPerPixel: 16, Fields: [4]Field{R: {0, 5}, G: {5, 5}, B: {10, 5}, A: {15, 1}}},

	X4R4G4B4: {Name: "x4r4g4b4", Depth: 12, BitsPerPixel: 16, Fields: [4]Field{R: {8, 4}, G: {4, 4}, B: {0, 4}}},
	A4R4G4B4: {Name: "a4r4g4b4", Depth: 16, BitsPerPixel: 16, Fields: [4]Field{R: {8, 4}, G: {4, 4}, B: {0, 4}, A: {12, 4}}},
	X4B4G4R4: {Name: "x4b4g4r4", Depth: 12, BitsPerPixel: 16, Fields: [4]Field{R: {0, 4}, G: {4, 4}, B: {8, 4}}},
	A4B4G4R4: {Name: "a4b4g4r4", Depth: 16, BitsPerPixel: 16, Fields: [4]Field{R: {0, 4}, G: {4, 4}, B: {8, 4}, A: {12, 4}}},
}

// Info returns the layout metadata for f.
func (f Format) Info() FormatInfo {
	if f >= formatCount {
		return formatInfoTable[FormatUnknown]
	}
	return formatInfoTable[f]
}

// IsValid reports whether f names a known layout.
func (f Format) IsValid() bool { return f > FormatUnknown && f < formatCount }

// Depth returns the number of significant bits per pixel.
func (f Format) Depth() int { return f.Info().Depth }

// BitsPerPixel returns the storage size of one pixel.
func (f Format) BitsPerPixel() int { return f.Info().BitsPerPixel }

// HasAlpha reports whether the layout stores alpha bits.
func (f Format) HasAlpha() bool { return f.Info().Fields[A].Bits != 0 }

// String returns the conventional lower-case layout name.
func (f Format) String() string {
	if !f.IsValid() {
		return fmt.Sprintf("Format(%d)", uint8(f))
	}
	return formatInfoTable[f].Name
}

// Color decodes a pixel word of layout f into normalized components in
// R, G, B, A order. Absent alpha decodes as opaque.
func (f Format) Color(pixel uint32) [4]float32 {
	info := f.Info()
	var c [4]float32
	for ch, fd := range info.Fields {
		if fd.Bits == 0 {
			continue
		}
		c[ch] = float32(fd.Get(pixel)) / float32(fd.Mask())
	}
	if info.Fields[A].Bits == 0 {
		c[A] = 1
	}
	return c
}

var depthFormats = map[int]Format{
	1:  A1,
	8:  A8,
	15: X1R5G5B5,
	16: R5G6B5,
	24: X8R8G8B8,
	30: X2R10G10B10,
	32: A8R8G8B8,
}

// ForDepth returns the default layout for a pixmap depth, or
// FormatUnknown if the depth has none.
func ForDepth(depth int) Format {
	return depthFormats[depth]
}

// BitsPerPixelForDepth returns the storage size of a pixel at depth,
// or 0 for an unsupported depth.
func BitsPerPixelForDepth(depth int) int {
	switch {
	case depth == 1:
		return 1
	case depth > 1 && depth <= 8:
		return 8
	case depth > 8 && depth <= 16:
		return 16
	case depth > 16 && depth <= 32:
		return 32
	}
	return 0
}

// RowStride returns the byte stride of a row of width pixels at bpp bits
// per pixel, padded to a 32-bit boundary.
func RowStride(width, bpp int) int {
	return ((width*bpp + 31) >> 5) << 2
}

// AlphaRowStride returns the stride of an 8-bit intermediate row used when
// a 1-bit image is staged as one byte per pixel.
func AlphaRowStride(width int) int {
	return ((width*8+7)/8 + 3) &^ 3
}
