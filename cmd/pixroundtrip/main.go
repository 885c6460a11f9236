// Command pixroundtrip pushes pixmaps of every configured depth through a
// device and reports which formats survive an upload/download round trip
// bit for bit.
//
// Usage:
//
//	pixroundtrip [-profile embedded.toml] [-v] [-strict]
package main

import (
	"errors"
	"flag"
	"log/slog"
	"os"

	"github.com/gogpu/pixaccel"
	"github.com/gogpu/pixaccel/backend"
	"github.com/gogpu/pixaccel/gpucore"
	"github.com/gogpu/pixaccel/pixfmt"
)

// errLossy is returned in strict mode when a format loses bits.
var errLossy = errors.New("pixroundtrip: lossy round trip")

func main() {
	var (
		profilePath = flag.String("profile", "", "TOML device profile")
		verbose     = flag.Bool("v", false, "log acceleration diagnostics")
		strict      = flag.Bool("strict", false, "exit non-zero when any format is lossy")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	pixaccel.SetLogger(logger)

	if err := run(logger, *profilePath, *strict); err != nil {
		logger.Error("pixroundtrip failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, path string, strict bool) error {
	p, err := loadProfile(path)
	if err != nil {
		return err
	}
	cfg, err := p.config()
	if err != nil {
		return err
	}
	dev, err := backend.Get(p.Backend, cfg)
	if err != nil {
		return err
	}
	s := pixaccel.NewScreen(dev, p.screenOptions()...)
	defer s.Close()

	lossy := 0
	for _, depth := range p.Depths {
		res, err := roundTrip(s, p.Width, p.Height, depth)
		if err != nil {
			return err
		}
		logger.Info("round trip",
			"depth", depth,
			"format", res.format,
			"pixels", res.pixels,
			"mismatched", res.mismatched,
		)
		if res.mismatched > 0 {
			lossy++
		}
	}
	if strict && lossy > 0 {
		return errLossy
	}
	return nil
}

// result summarizes one depth.
type result struct {
	format     pixfmt.Format
	pixels     int
	mismatched int
}

// roundTrip uploads a patterned w×h pixmap of depth, downloads it again, and
// counts pixels whose significant bits changed.
func roundTrip(s *pixaccel.Screen, w, h, depth int) (result, error) {
	f := pixfmt.ForDepth(depth)
	res := result{format: f, pixels: w * h}

	src, err := s.CreatePicture(w, h, f, pixaccel.UsageCPU)
	if err != nil {
		return res, err
	}
	gpu, err := s.CreatePicture(w, h, f, pixaccel.UsageGPU)
	if err != nil {
		return res, err
	}
	defer s.DestroyPixmap(gpu)
	dst, err := s.CreatePicture(w, h, f, pixaccel.UsageCPU)
	if err != nil {
		return res, err
	}

	used := significant(f)
	v := uint32(depth)*2654435761 + 1
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v = v*1664525 + 1013904223
			src.SetPixel(x, y, v>>3)
		}
	}

	if err := s.UploadRegion(gpu, 0, 0, w, h, src.Stride(), src.Data(), gpucore.InvalidID); err != nil {
		return res, err
	}
	if _, err := s.DownloadRegion(gpu, 0, 0, w, h, dst.Stride(), dst.Data(), gpucore.InvalidID, gpucore.AccessRO); err != nil {
		return res, err
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			a, _ := src.Pixel(x, y)
			b, _ := dst.Pixel(x, y)
			if a&used != b&used {
				res.mismatched++
			}
		}
	}
	return res, nil
}

// significant returns the mask of bits f assigns to a channel.
func significant(f pixfmt.Format) uint32 {
	var used uint32
	for _, fd := range f.Info().Fields {
		if fd.Bits != 0 {
			used |= fd.Mask() << fd.Shift
		}
	}
	return used
}
