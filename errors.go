package pixaccel

import (
	"errors"

	"github.com/gogpu/pixaccel/convert"
	"github.com/gogpu/pixaccel/pixfmt"
)

// Sentinel errors. Every error returned by a Screen wraps one of these or
// an error from the Dispatch implementation.
var (
	// ErrUnsupportedFormat is returned when a pixmap format has no transfer
	// descriptor on the active API flavor.
	ErrUnsupportedFormat = pixfmt.ErrUnsupported

	// ErrAllocation is returned when a texture, framebuffer or staging
	// buffer cannot be created.
	ErrAllocation = errors.New("pixaccel: GPU allocation failed")

	// ErrNoBacking is returned for GPU operations on a pixmap without the
	// texture or framebuffer they need.
	ErrNoBacking = errors.New("pixaccel: pixmap has no GPU backing")

	// ErrConversion is returned when the CPU repacking step fails.
	ErrConversion = convert.ErrConversion

	// ErrInvalidDimensions is returned for empty or out of bounds
	// rectangles and pixmap sizes.
	ErrInvalidDimensions = errors.New("pixaccel: invalid dimensions")

	// ErrFallbackToCPU is returned when the GPU cannot honor a raster
	// state and the caller should render on the CPU instead.
	ErrFallbackToCPU = errors.New("pixaccel: falling back to CPU rendering")
)
