package pixfmt

import "fmt"

// Order is the component order of a transfer, in the sense of the GL
// "format" argument.
type Order uint8

const (
	OrderAlpha Order = iota
	OrderRGB
	OrderRGBA
	OrderBGRA
)

var orderChannels = [...][]Channel{
	OrderAlpha: {A},
	OrderRGB:   {R, G, B},
	OrderRGBA:  {R, G, B, A},
	OrderBGRA:  {B, G, R, A},
}

var orderNames = [...]string{
	OrderAlpha: "alpha",
	OrderRGB:   "rgb",
	OrderRGBA:  "rgba",
	OrderBGRA:  "bgra",
}

// Channels returns the channels of o in memory order.
func (o Order) Channels() []Channel { return orderChannels[o] }

func (o Order) String() string {
	if int(o) < len(orderNames) {
		return orderNames[o]
	}
	return fmt.Sprintf("Order(%d)", uint8(o))
}

// Type is the packed data type of a transfer, in the sense of the GL
// "type" argument.
//
// For plain packed types the first component of the Order occupies the
// most significant bits. For the Rev types the widths are listed in the
// same order but packed from the least significant bit up.
type Type uint8

const (
	TypeUnsignedByte Type = iota
	TypeBitmap
	TypeInt8888
	TypeInt8888Rev
	TypeInt2101010Rev
	TypeShort565
	TypeShort565Rev
	TypeShort5551
	TypeShort1555Rev
	TypeShort4444
	TypeShort4444Rev
)

type typeInfo struct {
	name   string
	size   int // bits per pixel, 0 for UnsignedByte (depends on order)
	widths []uint8
	rev    bool
}

var typeInfoTable = [...]typeInfo{
	TypeUnsignedByte:  {name: "ubyte", rev: true},
	TypeBitmap:        {name: "bitmap", size: 1, widths: []uint8{1}, rev: true},
	TypeInt8888:       {name: "8888", size: 32, widths: []uint8{8, 8, 8, 8}},
	TypeInt8888Rev:    {name: "8888_rev", size: 32, widths: []uint8{8, 8, 8, 8}, rev: true},
	TypeInt2101010Rev: {name: "2_10_10_10_rev", size: 32, widths: []uint8{10, 10, 10, 2}, rev: true},
	TypeShort565:      {name: "565", size: 16, widths: []uint8{5, 6, 5}},
	TypeShort565Rev:   {name: "565_rev", size: 16, widths: []uint8{5, 6, 5}, rev: true},
	TypeShort5551:     {name: "5551", size: 16, widths: []uint8{5, 5, 5, 1}},
	TypeShort1555Rev:  {name: "1555_rev", size: 16, widths: []uint8{5, 5, 5, 1}, rev: true},
	TypeShort4444:     {name: "4444", size: 16, widths: []uint8{4, 4, 4, 4}},
	TypeShort4444Rev:  {name: "4444_rev", size: 16, widths: []uint8{4, 4, 4, 4}, rev: true},
}

func (t Type) String() string {
	if int(t) < len(typeInfoTable) {
		return typeInfoTable[t].name
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

// Transfer is the layout of pixel data crossing the CPU/GPU boundary.
type Transfer struct {
	Order Order
	Type  Type
}

func (t Transfer) String() string { return t.Order.String() + "/" + t.Type.String() }

// BitsPerPixel returns the packed size of one pixel.
func (t Transfer) BitsPerPixel() int {
	if t.Type == TypeUnsignedByte {
		return 8 * len(t.Order.Channels())
	}
	return typeInfoTable[t.Type].size
}

// Valid reports whether the packed type has exactly one width per
// component of the order.
func (t Transfer) Valid() bool {
	if int(t.Order) >= len(orderChannels) || int(t.Type) >= len(typeInfoTable) {
		return false
	}
	if t.Type == TypeUnsignedByte {
		return true
	}
	return len(typeInfoTable[t.Type].widths) == len(t.Order.Channels())
}

// Fields returns the channel positions of one pixel word, indexed by
// Channel. Channels not carried by the order have zero width.
// Words are read little-endian.
func (t Transfer) Fields() [4]Field {
	var out [4]Field
	if !t.Valid() {
		return out
	}
	chans := t.Order.Channels()
	info := typeInfoTable[t.Type]
	widths := info.widths
	if t.Type == TypeUnsignedByte {
		widths = make([]uint8, len(chans))
		for i := range widths {
			widths[i] = 8
		}
	}
	size := uint8(t.BitsPerPixel())
	var acc uint8
	for i, ch := range chans {
		w := widths[i]
		if info.rev {
			out[ch] = Field{Shift: acc, Bits: w}
		} else {
			out[ch] = Field{Shift: size - acc - w, Bits: w}
		}
		acc += w
	}
	return out
}

// Internal is the storage format of a GPU texture.
type Internal uint8

const (
	InternalAlpha8 Internal = iota
	InternalRGB8
	InternalRGBA8
	InternalRGB10A2
	InternalRGB565
	InternalRGB5A1
	InternalRGBA4
)

var internalBits = [...][4]uint8{
	InternalAlpha8:  {0, 0, 0, 8},
	InternalRGB8:    {8, 8, 8, 0},
	InternalRGBA8:   {8, 8, 8, 8},
	InternalRGB10A2: {10, 10, 10, 2},
	InternalRGB565:  {5, 6, 5, 0},
	InternalRGB5A1:  {5, 5, 5, 1},
	InternalRGBA4:   {4, 4, 4, 4},
}

var internalNames = [...]string{
	InternalAlpha8:  "alpha8",
	InternalRGB8:    "rgb8",
	InternalRGBA8:   "rgba8",
	InternalRGB10A2: "rgb10_a2",
	InternalRGB565:  "rgb565",
	InternalRGB5A1:  "rgb5_a1",
	InternalRGBA4:   "rgba4",
}

// Bits returns the stored precision of each channel, indexed by Channel.
// A zero entry means the channel is not stored: color reads as 0 and
// alpha reads as 1.
func (i Internal) Bits() [4]uint8 {
	if int(i) < len(internalBits) {
		return internalBits[i]
	}
	return internalBits[InternalRGBA8]
}

func (i Internal) String() string {
	if int(i) < len(internalNames) {
		return internalNames[i]
	}
	return fmt.Sprintf("Internal(%d)", uint8(i))
}

// Internal returns the storage format a texture gets when it is specified
// directly from data in transfer layout t. This is the Embedded rule where
// the internal format always equals the transfer format.
func (t Transfer) Internal() Internal {
	switch t.Order {
	case OrderAlpha:
		return InternalAlpha8
	case OrderRGB:
		if t.Type == TypeShort565 || t.Type == TypeShort565Rev {
			return InternalRGB565
		}
		return InternalRGB8
	}
	switch t.Type {
	case TypeInt2101010Rev:
		return InternalRGB10A2
	case TypeShort5551, TypeShort1555Rev:
		return InternalRGB5A1
	case TypeShort4444, TypeShort4444Rev:
		return InternalRGBA4
	}
	return InternalRGBA8
}
