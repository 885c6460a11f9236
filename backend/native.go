package backend

import (
	"sync"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/pixaccel/backend/native"
	"github.com/gogpu/pixaccel/gpucore"
)

var (
	providerMu sync.RWMutex
	provider   gpucontext.DeviceProvider
)

// SetDeviceProvider supplies the GPU device used by the native backend.
// The provider must also implement HalDevice() any and HalQueue() any.
// Nil disables the native backend.
func SetDeviceProvider(p gpucontext.DeviceProvider) {
	providerMu.Lock()
	defer providerMu.Unlock()
	provider = p
}

func init() {
	Register(BackendNative, func(cfg Config) (gpucore.Dispatch, error) {
		providerMu.RLock()
		p := provider
		providerMu.RUnlock()
		if p == nil {
			return nil, ErrNotInitialized
		}
		d, err := native.NewFromProvider(p, cfg.options()...)
		if err != nil {
			return nil, err
		}
		return d, nil
	})
}
