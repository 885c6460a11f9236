package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/pixaccel"
	"github.com/gogpu/pixaccel/backend"
	"github.com/gogpu/pixaccel/pixfmt"
)

// Profile describes the device to exercise and the pixmaps to push through it.
type Profile struct {
	Backend        string `toml:"backend"`
	Flavor         string `toml:"flavor"`
	YInverted      bool   `toml:"y_inverted"`
	PackInvert     bool   `toml:"pack_invert"`
	MaxTextureSize int    `toml:"max_texture_size"`
	Width          int    `toml:"width"`
	Height         int    `toml:"height"`
	Depths         []int  `toml:"depths"`

	// Banded runs large CPU conversions on a worker pool.
	Banded bool `toml:"banded"`
}

// defaultProfile round-trips every depth on a Desktop software device.
func defaultProfile() Profile {
	return Profile{
		Backend:   backend.BackendSoftware,
		Flavor:    "desktop",
		YInverted: true,
		Width:     17,
		Height:    9,
		Depths:    []int{1, 8, 15, 16, 24, 30, 32},
	}
}

// loadProfile reads a TOML profile. Keys the file omits keep their
// defaults.
func loadProfile(path string) (Profile, error) {
	p := defaultProfile()
	if path == "" {
		return p, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read profile: %w", err)
	}
	if err := toml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("parse profile %s: %w", path, err)
	}
	return p, p.validate()
}

func (p Profile) validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("profile: invalid size %dx%d", p.Width, p.Height)
	}
	if _, err := p.flavor(); err != nil {
		return err
	}
	for _, d := range p.Depths {
		if !pixfmt.ForDepth(d).IsValid() {
			return fmt.Errorf("profile: no format for depth %d", d)
		}
	}
	return nil
}

func (p Profile) flavor() (pixfmt.Flavor, error) {
	switch strings.ToLower(p.Flavor) {
	case "", "desktop":
		return pixfmt.Desktop, nil
	case "embedded", "es", "gles":
		return pixfmt.Embedded, nil
	}
	return pixfmt.Desktop, fmt.Errorf("profile: unknown flavor %q", p.Flavor)
}

// config returns the backend configuration the profile asks for.
func (p Profile) config() (backend.Config, error) {
	f, err := p.flavor()
	if err != nil {
		return backend.Config{}, err
	}
	return backend.Config{
		Flavor:         f,
		YInverted:      p.YInverted,
		PackInvert:     p.PackInvert,
		MaxTextureSize: p.MaxTextureSize,
	}, nil
}

// screenOptions returns the pixaccel options the profile asks for.
func (p Profile) screenOptions() []pixaccel.ScreenOption {
	return []pixaccel.ScreenOption{pixaccel.WithBandedConversion(p.Banded)}
}
