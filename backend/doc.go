// Package backend selects the device that pixmap acceleration runs on.
//
// # Backend Registration
//
// Backends are registered via init() functions and selected at runtime.
// Importing the package registers both built-in backends:
//
//	import "github.com/gogpu/pixaccel/backend"
//
// # Backend Selection
//
// Use Default() to get the best available device, or Get() to request
// a specific backend by name:
//
//	name, dev, err := backend.Default(backend.DefaultConfig())
//
//	dev, err := backend.Get(backend.BackendSoftware, backend.Config{
//		Flavor:    pixfmt.Embedded,
//		YInverted: true,
//	})
//
// The returned gpucore.Dispatch is passed to pixaccel.NewScreen.
//
// # GPU Device
//
// The native backend needs a device from the host application:
//
//	backend.SetDeviceProvider(app)
//
// Until then, or when the provider does not expose HAL objects, Default
// falls back to software.
//
// # Available Backends
//
//   - "native": gogpu/wgpu/hal device with CPU-side GL semantics
//   - "software": CPU reference device (always available)
package backend
