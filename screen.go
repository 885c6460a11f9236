package pixaccel

import (
	"fmt"

	"github.com/gogpu/pixaccel/gpucore"
	"github.com/gogpu/pixaccel/pixfmt"
)

// Screen is the per-device acceleration context. It holds the dispatch
// table every GPU-touching operation acquires, the effective capabilities
// and the format resolver.
//
// A Screen is not safe for concurrent use. All operations run on the
// caller's goroutine and complete before returning.
type Screen struct {
	dispatch gpucore.Dispatch
	caps     gpucore.Caps
	resolver pixfmt.Resolver
	banded   bool

	// depth counts nested acquisitions of the dispatch table.
	depth int
	alu   ALU
}

// NewScreen creates a Screen driving d. The returned Screen receives the
// package logger and should be closed when no longer used.
func NewScreen(d gpucore.Dispatch, opts ...ScreenOption) *Screen {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	caps := d.Capabilities()
	if o.flavor != nil {
		caps.Flavor = *o.flavor
	}
	if o.yInverted != nil {
		caps.YInverted = *o.yInverted
	}
	if o.packInvert != nil {
		caps.PackInvert = *o.packInvert
	}
	if caps.Flavor == pixfmt.Embedded {
		caps.PackInvert = false
	}

	s := &Screen{
		dispatch: d,
		caps:     caps,
		resolver: o.resolver,
		banded:   o.banded,
		alu:      GXcopy,
	}
	registerScreen(s)
	Logger().Info("pixaccel: screen created",
		"flavor", caps.Flavor,
		"y_inverted", caps.YInverted,
		"pack_invert", caps.PackInvert)
	return s
}

// Close detaches the Screen from logger propagation. Pixmaps created on
// the Screen must be destroyed first.
func (s *Screen) Close() {
	unregisterScreen(s)
}

// Caps returns the effective capabilities.
func (s *Screen) Caps() gpucore.Caps { return s.caps }

// Dispatch returns the device the Screen drives.
func (s *Screen) Dispatch() gpucore.Dispatch { return s.dispatch }

// acquire hands out the dispatch table for the duration of a GPU-touching
// operation. Calls nest; release must be called exactly once.
func (s *Screen) acquire() (gpucore.Dispatch, func()) {
	s.depth++
	released := false
	return s.dispatch, func() {
		if released {
			return
		}
		released = true
		s.depth--
	}
}

// copyMode switches the raster operation to GXcopy for an internal draw
// and returns a func restoring the caller's operation.
func (s *Screen) copyMode(d gpucore.Dispatch) func() {
	if s.alu == GXcopy {
		return func() {}
	}
	d.SetLogicOp(gpucore.LogicCopy)
	return func() { d.SetLogicOp(s.alu.LogicOp()) }
}

func (s *Screen) resolve(f pixfmt.Format, dir pixfmt.Direction) (pixfmt.Descriptor, error) {
	desc, err := s.resolver.Resolve(f, s.caps.Flavor, dir)
	if err != nil {
		return pixfmt.Descriptor{}, fmt.Errorf("pixaccel: %v %v: %w", dir, f, err)
	}
	return desc, nil
}
