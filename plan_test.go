package pixaccel

import (
	"testing"

	"github.com/gogpu/pixaccel/gpucore"
	"github.com/gogpu/pixaccel/pixfmt"
)

func TestPlanUpload(t *testing.T) {
	desktop := gpucore.Caps{Flavor: pixfmt.Desktop, YInverted: true}
	flipped := gpucore.Caps{Flavor: pixfmt.Desktop}
	embedded := gpucore.Caps{Flavor: pixfmt.Embedded, YInverted: true}

	tests := []struct {
		name        string
		format      pixfmt.Format
		caps        gpucore.Caps
		fast        bool
		textureOnly bool
		convert     bool
	}{
		{"native desktop", pixfmt.A8R8G8B8, desktop, true, true, false},
		{"no alpha desktop", pixfmt.X8R8G8B8, desktop, false, false, false},
		{"flipped desktop", pixfmt.A8R8G8B8, flipped, false, false, false},
		{"swap embedded", pixfmt.A8R8G8B8, embedded, false, false, false},
		{"native embedded", pixfmt.A8B8G8R8, embedded, true, true, false},
		{"bitmap embedded", pixfmt.A1, embedded, true, false, true},
		{"1555 embedded", pixfmt.A1R5G5B5, embedded, true, false, true},
		{"2101010 embedded", pixfmt.X2B10G10R10, embedded, true, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc, err := pixfmt.Resolve(tt.format, tt.caps.Flavor, pixfmt.Upload)
			if err != nil {
				t.Fatal(err)
			}
			pl := planUpload(desc, tt.caps)
			if pl.fast != tt.fast {
				t.Errorf("fast = %v, want %v", pl.fast, tt.fast)
			}
			if pl.textureOnly != tt.textureOnly {
				t.Errorf("textureOnly = %v, want %v", pl.textureOnly, tt.textureOnly)
			}
			if pl.convertFirst != tt.convert {
				t.Errorf("convertFirst = %v, want %v", pl.convertFirst, tt.convert)
			}
			if pl.convertFirst && !pl.desc.Native() {
				t.Errorf("descriptor after conversion = %+v, want native", pl.desc)
			}
		})
	}
}

func TestPlanUploadTexcoords(t *testing.T) {
	desc, _ := pixfmt.Resolve(pixfmt.A8R8G8B8, pixfmt.Desktop, pixfmt.Upload)
	if got := planUpload(desc, gpucore.Caps{YInverted: true}).texcoords(); got != uploadTexcoords {
		t.Errorf("texcoords() = %v, want %v", got, uploadTexcoords)
	}
	if got := planUpload(desc, gpucore.Caps{}).texcoords(); got != uploadFlipTexcoords {
		t.Errorf("flipped texcoords() = %v, want %v", got, uploadFlipTexcoords)
	}
}

func TestPlanDownload(t *testing.T) {
	tests := []struct {
		name   string
		format pixfmt.Format
		caps   gpucore.Caps
		depth  int
		want   downloadPlan
	}{
		{
			name:   "desktop y-inverted",
			format: pixfmt.A8R8G8B8, caps: gpucore.Caps{Flavor: pixfmt.Desktop, YInverted: true}, depth: 32,
			want: downloadPlan{direct: true},
		},
		{
			name:   "desktop pack invert",
			format: pixfmt.A8R8G8B8, caps: gpucore.Caps{Flavor: pixfmt.Desktop, PackInvert: true}, depth: 32,
			want: downloadPlan{direct: true, invert: true},
		},
		{
			name:   "desktop flipped",
			format: pixfmt.A8R8G8B8, caps: gpucore.Caps{Flavor: pixfmt.Desktop}, depth: 32,
			want: downloadPlan{},
		},
		{
			name:   "embedded swap",
			format: pixfmt.A8R8G8B8, caps: gpucore.Caps{Flavor: pixfmt.Embedded, YInverted: true}, depth: 32,
			want: downloadPlan{direct: true, prepare: true},
		},
		{
			name:   "embedded bitmap",
			format: pixfmt.A1, caps: gpucore.Caps{Flavor: pixfmt.Embedded}, depth: 1,
			want: downloadPlan{postConvert: true, a1Intermediate: true},
		},
		{
			name:   "embedded 2101010 swap",
			format: pixfmt.A2R10G10B10, caps: gpucore.Caps{Flavor: pixfmt.Embedded, YInverted: true}, depth: 32,
			want: downloadPlan{postConvert: true, direct: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc, err := pixfmt.Resolve(tt.format, tt.caps.Flavor, pixfmt.Download)
			if err != nil {
				t.Fatal(err)
			}
			got := planDownload(desc, tt.caps, tt.depth)
			got.desc = pixfmt.Descriptor{}
			if got != tt.want {
				t.Errorf("planDownload() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
