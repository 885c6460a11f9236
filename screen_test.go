package pixaccel

import (
	"bytes"
	"testing"

	"github.com/gogpu/pixaccel/backend/software"
	"github.com/gogpu/pixaccel/gpucore"
	"github.com/gogpu/pixaccel/pixfmt"
)

func TestNewScreenCaps(t *testing.T) {
	tests := []struct {
		name       string
		dev        []software.Option
		opts       []ScreenOption
		flavor     pixfmt.Flavor
		yInverted  bool
		packInvert bool
	}{
		{"device defaults", nil, nil, pixfmt.Desktop, true, false},
		{"device pack invert", []software.Option{software.WithPackInvert(true)}, nil, pixfmt.Desktop, true, true},
		{"override y", nil, []ScreenOption{WithYInverted(false)}, pixfmt.Desktop, false, false},
		{"override pack invert", nil, []ScreenOption{WithPackInvert(true)}, pixfmt.Desktop, true, true},
		{
			"embedded drops pack invert", nil,
			[]ScreenOption{WithFlavor(pixfmt.Embedded), WithPackInvert(true)},
			pixfmt.Embedded, true, false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScreen(software.New(tt.dev...), tt.opts...)
			defer s.Close()
			caps := s.Caps()
			if caps.Flavor != tt.flavor || caps.YInverted != tt.yInverted || caps.PackInvert != tt.packInvert {
				t.Errorf("Caps() = %+v, want flavor=%v yInverted=%v packInvert=%v",
					caps, tt.flavor, tt.yInverted, tt.packInvert)
			}
		})
	}
}

func TestWithResolver(t *testing.T) {
	var calls int
	r := pixfmt.ResolverFunc(func(f pixfmt.Format, fl pixfmt.Flavor, d pixfmt.Direction) (pixfmt.Descriptor, error) {
		calls++
		return pixfmt.Resolve(f, fl, d)
	})
	s := NewScreen(software.New(), WithResolver(r))
	defer s.Close()
	if _, err := s.CreatePixmap(2, 2, 32, UsageGPU); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Errorf("resolver calls = %d, want 1", calls)
	}

	d := NewScreen(software.New(), WithResolver(nil))
	defer d.Close()
	if d.resolver == nil {
		t.Error("WithResolver(nil) cleared the default resolver")
	}
}

func TestAcquireNests(t *testing.T) {
	s := NewScreen(software.New())
	defer s.Close()

	_, outer := s.acquire()
	_, inner := s.acquire()
	if s.depth != 2 {
		t.Errorf("depth = %d, want 2", s.depth)
	}
	inner()
	inner()
	if s.depth != 1 {
		t.Errorf("depth after double release = %d, want 1", s.depth)
	}
	outer()
	if s.depth != 0 {
		t.Errorf("depth = %d, want 0", s.depth)
	}
}

func TestBandedConversion(t *testing.T) {
	// Embedded repacks 2-10-10-10 on the CPU in both directions.
	plain, _, _ := newTestScreen(t, software.WithFlavor(pixfmt.Embedded))
	if plain.banded {
		t.Fatal("banded conversion is on by default")
	}
	banded := NewScreen(software.New(software.WithFlavor(pixfmt.Embedded)), WithBandedConversion(true))
	defer banded.Close()

	// Large enough for the converter to split rows across workers.
	const w, h = 300, 260
	var got [2]*Pixmap
	for i, s := range []*Screen{plain, banded} {
		src := cpuPixmap(t, s, w, h, pixfmt.A2R10G10B10)
		fillPattern(src, 11)
		p, err := s.CreatePicture(w, h, pixfmt.A2R10G10B10, UsageGPU)
		if err != nil {
			t.Fatal(err)
		}
		if err := s.UploadRegion(p, 0, 0, w, h, src.Stride(), src.Data(), gpucore.InvalidID); err != nil {
			t.Fatalf("UploadRegion() = %v", err)
		}
		got[i] = download(t, s, p)
	}
	if !bytes.Equal(got[0].Data(), got[1].Data()) {
		t.Error("banded round trip differs from single-threaded round trip")
	}
}
