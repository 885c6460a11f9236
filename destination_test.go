package pixaccel

import (
	"errors"
	"testing"

	"github.com/gogpu/pixaccel/backend/software"
	"github.com/gogpu/pixaccel/gpucore"
	"github.com/gogpu/pixaccel/pixfmt"
)

func TestSetDestination(t *testing.T) {
	s, _, dev := newTestScreen(t)
	p, _ := s.CreatePixmap(4, 4, 32, UsageGPU)
	if err := s.SetDestination(p); err != nil {
		t.Fatalf("SetDestination() = %v", err)
	}
	if dev.Bound() != p.Backing().Framebuffer() {
		t.Errorf("bound framebuffer = %d, want %d", dev.Bound(), p.Backing().Framebuffer())
	}

	cpu, _ := s.CreatePixmap(4, 4, 32, UsageCPU)
	if err := s.SetDestination(cpu); !errors.Is(err, ErrNoBacking) {
		t.Errorf("SetDestination(cpu) = %v, want ErrNoBacking", err)
	}
}

func TestSetDestinationFullQuadCoversPixmap(t *testing.T) {
	s, _, _ := newTestScreen(t)
	p, err := s.CreatePicture(5, 3, pixfmt.A8R8G8B8, UsageGPU)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SetDestination(p); err != nil {
		t.Fatal(err)
	}
	if err := s.Dispatch().DrawSolid(gpucore.FullQuad, gpucore.Color{R: 1, A: 1}); err != nil {
		t.Fatalf("DrawSolid() = %v", err)
	}
	got := download(t, s, p)
	for y := 0; y < 3; y++ {
		for x := 0; x < 5; x++ {
			if v, _ := got.Pixel(x, y); v != 0xffff0000 {
				t.Fatalf("Pixel(%d, %d) = %#x, want 0xffff0000", x, y, v)
			}
		}
	}
}

func TestSetALU(t *testing.T) {
	t.Run("desktop", func(t *testing.T) {
		s, _, dev := newTestScreen(t)
		if err := s.SetALU(GXxor); err != nil {
			t.Fatalf("SetALU(GXxor) = %v", err)
		}
		if dev.LogicOp() != gpucore.LogicXor {
			t.Errorf("device logic op = %v, want xor", dev.LogicOp())
		}
		if err := s.SetALU(ALU(16)); err == nil {
			t.Error("SetALU(16) = nil, want error")
		}
	})
	t.Run("embedded", func(t *testing.T) {
		s, _, dev := newTestScreen(t, software.WithFlavor(pixfmt.Embedded))
		if err := s.SetALU(GXcopy); err != nil {
			t.Errorf("SetALU(GXcopy) = %v", err)
		}
		if err := s.SetALU(GXand); !errors.Is(err, ErrFallbackToCPU) {
			t.Errorf("SetALU(GXand) = %v, want ErrFallbackToCPU", err)
		}
		if dev.LogicOp() != gpucore.LogicCopy {
			t.Errorf("device logic op = %v, want copy", dev.LogicOp())
		}
	})
}

func TestInternalDrawsIgnoreALU(t *testing.T) {
	s, _, dev := newTestScreen(t, software.WithYInverted(false))
	p, _ := s.CreatePixmap(3, 3, 32, UsageGPU)
	if err := s.SetALU(GXxor); err != nil {
		t.Fatal(err)
	}

	s.RequestFillPixel(p, 0xff00ff00)
	src := cpuPixmap(t, s, 1, 1, pixfmt.A8R8G8B8)
	src.SetPixel(0, 0, 0xff0000ff)
	if err := s.UploadRegion(p, 2, 2, 1, 1, src.Stride(), src.Data(), gpucore.InvalidID); err != nil {
		t.Fatal(err)
	}
	got := download(t, s, p)
	if v, _ := got.Pixel(0, 0); v != 0xff00ff00 {
		t.Errorf("filled pixel = %#x, want 0xff00ff00", v)
	}
	if v, _ := got.Pixel(2, 2); v != 0xff0000ff {
		t.Errorf("uploaded pixel = %#x, want 0xff0000ff", v)
	}
	if dev.LogicOp() != gpucore.LogicXor {
		t.Errorf("device logic op = %v after transfers, want xor restored", dev.LogicOp())
	}
}

func TestSetPlanemask(t *testing.T) {
	s, _, _ := newTestScreen(t)
	tests := []struct {
		depth int
		mask  uint32
		want  bool
	}{
		{1, 1, true},
		{1, 0, false},
		{8, 0xff, true},
		{8, 0xffffffff, true},
		{8, 0x7f, false},
		{24, 0xffffff, true},
		{24, 0xfffeff, false},
		{32, 0xffffffff, true},
		{32, 0x00ffffff, false},
	}
	for _, tt := range tests {
		if got := s.SetPlanemask(tt.depth, tt.mask); got != tt.want {
			t.Errorf("SetPlanemask(%d, %#x) = %v, want %v", tt.depth, tt.mask, got, tt.want)
		}
	}
}
