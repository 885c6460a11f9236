package backend

import (
	"github.com/gogpu/pixaccel/backend/software"
	"github.com/gogpu/pixaccel/gpucore"
)

// Backend name constants.
const (
	// BackendSoftware is the name of the CPU reference device.
	BackendSoftware = "software"
	// BackendNative is the name of the Pure Go GPU device (gogpu/wgpu/hal).
	BackendNative = "native"
)

// init registers the software backend on package import.
func init() {
	Register(BackendSoftware, func(cfg Config) (gpucore.Dispatch, error) {
		return software.New(cfg.options()...), nil
	})
}
