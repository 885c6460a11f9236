package pixaccel

import (
	"testing"

	"github.com/gogpu/pixaccel/backend/software"
	"github.com/gogpu/pixaccel/gpucore"
	"github.com/gogpu/pixaccel/internal/dispatchtest"
	"github.com/gogpu/pixaccel/pixfmt"
)

// targetCalls counts calls that read or write a texture or framebuffer.
func targetCalls(c *dispatchtest.Counter) int {
	return c.Calls[dispatchtest.TexImage] + c.Calls[dispatchtest.TexSubImage] +
		c.Calls[dispatchtest.BindFramebuffer] + c.Draws() + c.Reads()
}

func TestExtractWriteOnlyTouchesNothing(t *testing.T) {
	for _, cfg := range deviceConfigs {
		t.Run(cfg.name, func(t *testing.T) {
			s, c, _ := newTestScreen(t, cfg.opts...)
			p, err := s.CreatePicture(8, 8, pixfmt.A8B8G8R8, UsageGPU)
			if err != nil {
				t.Fatal(err)
			}
			s.RequestFill(p, gpucore.Color{B: 1, A: 1})

			c.Reset()
			sub, err := s.Extract(p, 2, 2, 3, 3, gpucore.AccessWO)
			if err != nil {
				t.Fatalf("Extract(WO) = %v", err)
			}
			if c.Total() != 0 {
				t.Errorf("Extract(WO) made %d calls, want 0", c.Total())
			}
			if sub.Backing() != nil || sub.Data() == nil {
				t.Error("Extract(WO) should return a CPU-only pixmap")
			}
			if sub.Format() != pixfmt.A8B8G8R8 || !sub.IsPicture() {
				t.Errorf("Extract(WO) format = %v picture=%v, want a8b8g8r8 picture", sub.Format(), sub.IsPicture())
			}
			if p.Pending().Kind != PendingFill {
				t.Error("Extract(WO) resolved the pending fill")
			}
		})
	}
}

func TestReinsertReadOnlyTouchesNothing(t *testing.T) {
	for _, cfg := range deviceConfigs {
		t.Run(cfg.name, func(t *testing.T) {
			s, c, dev := newTestScreen(t, cfg.opts...)
			p, _ := s.CreatePixmap(8, 8, 32, UsageGPU)
			sub, err := s.Extract(p, 1, 1, 4, 4, gpucore.AccessRO)
			if err != nil {
				t.Fatalf("Extract(RO) = %v", err)
			}
			liveTex, liveFB, _ := dev.Live()

			c.Reset()
			if err := s.Reinsert(sub, p, 1, 1, 4, 4, gpucore.AccessRO); err != nil {
				t.Fatalf("Reinsert(RO) = %v", err)
			}
			if n := targetCalls(c); n != 0 {
				t.Errorf("Reinsert(RO) made %d texture or framebuffer calls, want 0", n)
			}
			if sub.Data() != nil || sub.Backing() != nil {
				t.Error("Reinsert(RO) did not release the sub-pixmap")
			}
			if tex, fb, buf := dev.Live(); tex != liveTex || fb != liveFB || buf != 0 {
				t.Errorf("live resources = %d/%d/%d, want %d/%d/0", tex, fb, buf, liveTex, liveFB)
			}
		})
	}
}

func TestExtractUsage(t *testing.T) {
	tests := []struct {
		name   string
		opts   []software.Option
		mapped bool
	}{
		{"desktop", nil, true},
		{"embedded", []software.Option{software.WithFlavor(pixfmt.Embedded)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, _ := newTestScreen(t, tt.opts...)
			p, _ := s.CreatePixmap(8, 8, 32, UsageGPU)
			sub, err := s.Extract(p, 0, 0, 2, 2, gpucore.AccessRO)
			if err != nil {
				t.Fatalf("Extract() = %v", err)
			}
			defer s.DestroyPixmap(sub)
			if got := sub.Usage() == UsageMap; got != tt.mapped {
				t.Errorf("map-backed = %v, want %v", got, tt.mapped)
			}
			if tt.mapped && !sub.Backing().PBOValid() {
				t.Error("map-backed sub-pixmap has no valid staging buffer")
			}
		})
	}
}

func TestExtractModifyReinsert(t *testing.T) {
	const w, h = 10, 8
	const x, y, rw, rh = 2, 3, 5, 4
	for _, cfg := range deviceConfigs {
		t.Run(cfg.name, func(t *testing.T) {
			for _, f := range []pixfmt.Format{pixfmt.A8R8G8B8, pixfmt.A1, pixfmt.A1B5G5R5} {
				t.Run(f.String(), func(t *testing.T) {
					s, _, _ := newTestScreen(t, cfg.opts...)
					want := cpuPixmap(t, s, w, h, f)
					fillPattern(want, 21)
					p, _ := s.CreatePicture(w, h, f, UsageGPU)
					if err := s.UploadRegion(p, 0, 0, w, h, want.Stride(), want.Data(), gpucore.InvalidID); err != nil {
						t.Fatal(err)
					}

					sub, err := s.Extract(p, x, y, rw, rh, gpucore.AccessRW)
					if err != nil {
						t.Fatalf("Extract(RW) = %v", err)
					}
					comparePixels(t, sub, 0, 0, want, x, y, rw, rh)

					// Invert one pixel's low bit in both the sub-pixmap and
					// the expectation.
					v, _ := sub.Pixel(1, 2)
					sub.SetPixel(1, 2, v^1)
					want.SetPixel(x+1, y+2, v^1)

					if err := s.Reinsert(sub, p, x, y, rw, rh, gpucore.AccessRW); err != nil {
						t.Fatalf("Reinsert(RW) = %v", err)
					}
					if sub.Backing() != nil {
						t.Error("Reinsert did not release the sub-pixmap")
					}
					comparePixels(t, download(t, s, p), 0, 0, want, 0, 0, w, h)
				})
			}
		})
	}
}

func TestExtractWithoutBacking(t *testing.T) {
	s, _, _ := newTestScreen(t)
	p, _ := s.CreatePixmap(4, 4, 32, UsageCPU)
	if _, err := s.Extract(p, 0, 0, 2, 2, gpucore.AccessRO); err == nil {
		t.Error("Extract() without backing = nil, want error")
	}
	if _, err := s.Extract(p, 3, 3, 2, 2, gpucore.AccessWO); err == nil {
		t.Error("Extract() outside pixmap = nil, want error")
	}
}
