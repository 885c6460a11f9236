package backend

import (
	"errors"

	"github.com/gogpu/pixaccel/backend/software"
	"github.com/gogpu/pixaccel/gpucore"
	"github.com/gogpu/pixaccel/pixfmt"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not available.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrNotInitialized is returned when a GPU backend is requested before
	// a device provider has been set.
	ErrNotInitialized = errors.New("backend: not initialized")
)

// Config describes the device a backend should present.
type Config struct {
	// Flavor selects Desktop or Embedded GL semantics.
	Flavor pixfmt.Flavor

	// YInverted is true when framebuffer row 0 is the top pixmap row.
	YInverted bool

	// PackInvert enables bottom-up ReadPixels. Ignored on Embedded.
	PackInvert bool

	// MaxTextureSize bounds texture dimensions. Zero means unbounded.
	MaxTextureSize int
}

// DefaultConfig returns a Desktop, y-inverted configuration.
func DefaultConfig() Config {
	return Config{Flavor: pixfmt.Desktop, YInverted: true}
}

// options translates cfg into device options.
func (cfg Config) options() []software.Option {
	return []software.Option{
		software.WithFlavor(cfg.Flavor),
		software.WithYInverted(cfg.YInverted),
		software.WithPackInvert(cfg.PackInvert),
		software.WithMaxTextureSize(cfg.MaxTextureSize),
	}
}

// Factory creates a device for cfg.
type Factory func(cfg Config) (gpucore.Dispatch, error)
