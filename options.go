package pixaccel

import "github.com/gogpu/pixaccel/pixfmt"

// ScreenOption configures a Screen during creation. Options override the
// capabilities reported by the dispatch device.
//
// Example:
//
//	s := pixaccel.NewScreen(dev, pixaccel.WithYInverted(false))
type ScreenOption func(*screenOptions)

type screenOptions struct {
	flavor     *pixfmt.Flavor
	yInverted  *bool
	packInvert *bool
	resolver   pixfmt.Resolver
	banded     bool
}

func defaultOptions() screenOptions {
	return screenOptions{resolver: pixfmt.DefaultResolver}
}

// WithFlavor selects the GPU API flavor used to resolve pixel formats.
func WithFlavor(f pixfmt.Flavor) ScreenOption {
	return func(o *screenOptions) {
		o.flavor = &f
	}
}

// WithYInverted sets whether framebuffer row 0 holds the top pixmap row.
func WithYInverted(v bool) ScreenOption {
	return func(o *screenOptions) {
		o.yInverted = &v
	}
}

// WithPackInvert sets whether read-back can return rows bottom-up.
// It is ignored on the Embedded flavor.
func WithPackInvert(v bool) ScreenOption {
	return func(o *screenOptions) {
		o.packInvert = &v
	}
}

// WithBandedConversion lets CPU format conversion of large transfers run
// on a worker pool. Transfers still block until done. Off by default, so
// a Screen uses only the calling goroutine.
func WithBandedConversion(v bool) ScreenOption {
	return func(o *screenOptions) {
		o.banded = v
	}
}

// WithResolver replaces the built-in pixel format tables.
//
// Example:
//
//	// Treat 1-bit pixmaps as opaque.
//	r := pixfmt.ResolverFunc(func(f pixfmt.Format, fl pixfmt.Flavor, d pixfmt.Direction) (pixfmt.Descriptor, error) {
//	    desc, err := pixfmt.Resolve(f, fl, d)
//	    if f == pixfmt.A1 {
//	        desc.NoAlpha = true
//	    }
//	    return desc, err
//	})
//	s := pixaccel.NewScreen(dev, pixaccel.WithResolver(r))
func WithResolver(r pixfmt.Resolver) ScreenOption {
	return func(o *screenOptions) {
		if r != nil {
			o.resolver = r
		}
	}
}
