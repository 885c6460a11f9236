package pixfmt

import (
	"errors"
	"fmt"
)

// ErrUnsupported is returned when a format has no descriptor on a flavor.
var ErrUnsupported = errors.New("pixfmt: unsupported format")

// Flavor identifies the GPU API family in use.
type Flavor uint8

const (
	// Desktop is the full desktop API with packed transfer types and
	// inverted pack support.
	Desktop Flavor = iota
	// Embedded is the reduced embedded API subset.
	Embedded
)

func (f Flavor) String() string {
	switch f {
	case Desktop:
		return "desktop"
	case Embedded:
		return "embedded"
	}
	return fmt.Sprintf("Flavor(%d)", uint8(f))
}

// Direction is the direction of a pixel transfer.
type Direction uint8

const (
	Upload Direction = iota
	Download
)

func (d Direction) String() string {
	if d == Upload {
		return "upload"
	}
	return "download"
}

// Descriptor is everything a transfer of one format needs to know.
type Descriptor struct {
	Transfer Transfer
	Internal Internal
	NoAlpha  bool
	Reformat Reformat
	Swap     bool
}

// Native reports whether the GPU can move the data without any fix-up.
func (d Descriptor) Native() bool {
	return !d.NoAlpha && !d.Reformat.NeedsConversion() && !d.Swap
}

// Resolver maps a pixmap format to its transfer descriptor.
type Resolver interface {
	Resolve(f Format, flavor Flavor, dir Direction) (Descriptor, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(f Format, flavor Flavor, dir Direction) (Descriptor, error)

// Resolve calls fn.
func (fn ResolverFunc) Resolve(f Format, flavor Flavor, dir Direction) (Descriptor, error) {
	return fn(f, flavor, dir)
}

// DefaultResolver resolves through the built-in tables.
var DefaultResolver Resolver = ResolverFunc(Resolve)

// Resolve looks f up in the built-in table for flavor. The Reformat of the
// result is oriented for dir.
func Resolve(f Format, flavor Flavor, dir Direction) (Descriptor, error) {
	var table map[Format]Descriptor
	switch flavor {
	case Desktop:
		table = desktopTable
	case Embedded:
		table = embeddedTable
	default:
		return Descriptor{}, fmt.Errorf("%w: flavor %v", ErrUnsupported, flavor)
	}
	d, ok := table[f]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %v on %v", ErrUnsupported, f, flavor)
	}
	d.Reformat = d.Reformat.forDirection(dir)
	return d, nil
}

// Reformat entries below are stored in their download orientation.

var desktopTable = map[Format]Descriptor{
	A1: {Transfer: Transfer{OrderAlpha, TypeBitmap}, Internal: InternalAlpha8},
	A8: {Transfer: Transfer{OrderAlpha, TypeUnsignedByte}, Internal: InternalAlpha8},

	X8R8G8B8: {Transfer: Transfer{OrderBGRA, TypeInt8888Rev}, Internal: InternalRGB8, NoAlpha: true},
	A8R8G8B8: {Transfer: Transfer{OrderBGRA, TypeInt8888Rev}, Internal: InternalRGBA8},
	X8B8G8R8: {Transfer: Transfer{OrderRGBA, TypeInt8888Rev}, Internal: InternalRGB8, NoAlpha: true},
	A8B8G8R8: {Transfer: Transfer{OrderRGBA, TypeInt8888Rev}, Internal: InternalRGBA8},
	B8G8R8X8: {Transfer: Transfer{OrderBGRA, TypeInt8888}, Internal: InternalRGB8, NoAlpha: true},
	B8G8R8A8: {Transfer: Transfer{OrderBGRA, TypeInt8888}, Internal: InternalRGBA8},

	X2R10G10B10: {Transfer: Transfer{OrderBGRA, TypeInt2101010Rev}, Internal: InternalRGB10A2, NoAlpha: true},
	A2R10G10B10: {Transfer: Transfer{OrderBGRA, TypeInt2101010Rev}, Internal: InternalRGB10A2},
	X2B10G10R10: {Transfer: Transfer{OrderRGBA, TypeInt2101010Rev}, Internal: InternalRGB10A2, NoAlpha: true},
	A2B10G10R10: {Transfer: Transfer{OrderRGBA, TypeInt2101010Rev}, Internal: InternalRGB10A2},

	R5G6B5: {Transfer: Transfer{OrderRGB, TypeShort565}, Internal: InternalRGB565},
	B5G6R5: {Transfer: Transfer{OrderRGB, TypeShort565Rev}, Internal: InternalRGB565},

	X1R5G5B5: {Transfer: Transfer{OrderBGRA, TypeShort1555Rev}, Internal: InternalRGB5A1, NoAlpha: true},
	A1R5G5B5: {Transfer: Transfer{OrderBGRA, TypeShort1555Rev}, Internal: InternalRGB5A1},
	X1B5G5R5: {Transfer: Transfer{OrderRGBA, TypeShort1555Rev}, Internal: InternalRGB5A1, NoAlpha: true},
	A1B5G5R5: {Transfer: Transfer{OrderRGBA, TypeShort1555Rev}, Internal: InternalRGB5A1},

	X4R4G4B4: {Transfer: Transfer{OrderBGRA, TypeShort4444Rev}, Internal: InternalRGBA4, NoAlpha: true},
	A4R4G4B4: {Transfer: Transfer{OrderBGRA, TypeShort4444Rev}, Internal: InternalRGBA4},
	X4B4G4R4: {Transfer: Transfer{OrderRGBA, TypeShort4444Rev}, Internal: InternalRGBA4, NoAlpha: true},
	A4B4G4R4: {Transfer: Transfer{OrderRGBA, TypeShort4444Rev}, Internal: InternalRGBA4},
}

var (
	esAlpha = Transfer{OrderAlpha, TypeUnsignedByte}
	esRGBA  = Transfer{OrderRGBA, TypeUnsignedByte}
	es565   = Transfer{OrderRGB, TypeShort565}
	es5551  = Transfer{OrderRGBA, TypeShort5551}
)

var embeddedTable = map[Format]Descriptor{
	A1: {Transfer: esAlpha, Internal: InternalAlpha8, Reformat: ReformatDownloadA1},
	A8: {Transfer: esAlpha, Internal: InternalAlpha8},

	X8R8G8B8: {Transfer: esRGBA, Internal: InternalRGBA8, NoAlpha: true, Swap: true},
	A8R8G8B8: {Transfer: esRGBA, Internal: InternalRGBA8, Swap: true},
	X8B8G8R8: {Transfer: esRGBA, Internal: InternalRGBA8, NoAlpha: true},
	A8B8G8R8: {Transfer: esRGBA, Internal: InternalRGBA8},

	X2R10G10B10: {Transfer: esRGBA, Internal: InternalRGBA8, NoAlpha: true, Reformat: ReformatDownload2101010, Swap: true},
	A2R10G10B10: {Transfer: esRGBA, Internal: InternalRGBA8, Reformat: ReformatDownload2101010, Swap: true},
	X2B10G10R10: {Transfer: esRGBA, Internal: InternalRGBA8, NoAlpha: true, Reformat: ReformatDownload2101010},
	A2B10G10R10: {Transfer: esRGBA, Internal: InternalRGBA8, Reformat: ReformatDownload2101010},

	R5G6B5: {Transfer: es565, Internal: InternalRGB565},
	B5G6R5: {Transfer: es565, Internal: InternalRGB565, Swap: true},

	X1R5G5B5: {Transfer: es5551, Internal: InternalRGB5A1, NoAlpha: true, Reformat: ReformatDownload1555, Swap: true},
	A1R5G5B5: {Transfer: es5551, Internal: InternalRGB5A1, Reformat: ReformatDownload1555, Swap: true},
	X1B5G5R5: {Transfer: es5551, Internal: InternalRGB5A1, NoAlpha: true, Reformat: ReformatDownload1555},
	A1B5G5R5: {Transfer: es5551, Internal: InternalRGB5A1, Reformat: ReformatDownload1555},
}
