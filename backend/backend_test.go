package backend

import (
	"errors"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/pixaccel/backend/native"
	"github.com/gogpu/pixaccel/backend/software"
	"github.com/gogpu/pixaccel/gpucore"
	"github.com/gogpu/pixaccel/pixfmt"
)

// mockDevice implements gpucontext.Device for testing.
type mockDevice struct{}

func (m *mockDevice) Poll(wait bool) {}
func (m *mockDevice) Destroy()       {}

// mockQueue implements gpucontext.Queue for testing.
type mockQueue struct{}

// mockAdapter implements gpucontext.Adapter for testing.
type mockAdapter struct{}

// mockProvider implements gpucontext.DeviceProvider without HAL access.
type mockProvider struct{}

func (m *mockProvider) Device() gpucontext.Device   { return &mockDevice{} }
func (m *mockProvider) Queue() gpucontext.Queue     { return &mockQueue{} }
func (m *mockProvider) Adapter() gpucontext.Adapter { return &mockAdapter{} }
func (m *mockProvider) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}
func (m *mockProvider) AdapterInfo() gpucontext.AdapterInfo { return gpucontext.AdapterInfo{} }

func TestRegistryRegisterAndGet(t *testing.T) {
	// Software backend is auto-registered via init()
	if !IsRegistered(BackendSoftware) {
		t.Error("software backend should be auto-registered")
	}

	d, err := Get(BackendSoftware, DefaultConfig())
	if err != nil {
		t.Fatalf("Get(software) error = %v", err)
	}
	if _, ok := d.(*software.Device); !ok {
		t.Errorf("Get(software) = %T, want *software.Device", d)
	}
}

func TestRegistryGetUnregistered(t *testing.T) {
	d, err := Get("nonexistent", DefaultConfig())
	if !errors.Is(err, ErrBackendNotAvailable) {
		t.Errorf("Get(nonexistent) error = %v, want ErrBackendNotAvailable", err)
	}
	if d != nil {
		t.Error("Get(nonexistent) should return nil")
	}
}

func TestRegistryAvailable(t *testing.T) {
	available := Available()
	want := []string{BackendNative, BackendSoftware}
	if len(available) != len(want) {
		t.Fatalf("Available() = %v, want %v", available, want)
	}
	for i := range want {
		if available[i] != want[i] {
			t.Errorf("Available()[%d] = %q, want %q", i, available[i], want[i])
		}
	}
}

func TestConfigReachesDevice(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want gpucore.Caps
	}{
		{
			name: "default",
			cfg:  DefaultConfig(),
			want: gpucore.Caps{Flavor: pixfmt.Desktop, YInverted: true},
		},
		{
			name: "desktop pack invert",
			cfg:  Config{Flavor: pixfmt.Desktop, PackInvert: true, MaxTextureSize: 64},
			want: gpucore.Caps{Flavor: pixfmt.Desktop, PackInvert: true, MaxTextureSize: 64},
		},
		{
			name: "embedded drops pack invert",
			cfg:  Config{Flavor: pixfmt.Embedded, YInverted: true, PackInvert: true},
			want: gpucore.Caps{Flavor: pixfmt.Embedded, YInverted: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Get(BackendSoftware, tt.cfg)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if got := d.Capabilities(); got != tt.want {
				t.Errorf("Capabilities() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNativeWithoutProvider(t *testing.T) {
	SetDeviceProvider(nil)
	_, err := Get(BackendNative, DefaultConfig())
	if !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Get(native) error = %v, want ErrNotInitialized", err)
	}
}

func TestNativeProviderWithoutHAL(t *testing.T) {
	SetDeviceProvider(&mockProvider{})
	defer SetDeviceProvider(nil)

	d, err := Get(BackendNative, DefaultConfig())
	if !errors.Is(err, native.ErrNoHAL) {
		t.Errorf("Get(native) error = %v, want ErrNoHAL", err)
	}
	if d != nil {
		t.Errorf("Get(native) = %v, want nil", d)
	}
}

func TestRegistryDefault(t *testing.T) {
	SetDeviceProvider(&mockProvider{})
	defer SetDeviceProvider(nil)

	// Native cannot open a device, so software wins.
	name, d, err := Default(DefaultConfig())
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	if name != BackendSoftware {
		t.Errorf("Default() name = %q, want %q", name, BackendSoftware)
	}
	if d == nil {
		t.Error("Default() returned nil device")
	}
}

func TestRegistryMustDefault(t *testing.T) {
	// Should not panic when software backend is available
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("MustDefault() panicked: %v", r)
		}
	}()
	if d := MustDefault(DefaultConfig()); d == nil {
		t.Error("MustDefault() returned nil")
	}
}

func TestRegistryUnregister(t *testing.T) {
	// Register a test backend
	Register("test-backend", func(cfg Config) (gpucore.Dispatch, error) {
		return software.New(), nil
	})

	if !IsRegistered("test-backend") {
		t.Error("test-backend should be registered")
	}

	Unregister("test-backend")

	if IsRegistered("test-backend") {
		t.Error("test-backend should be unregistered")
	}
}

func TestRegistryDefaultNothingAvailable(t *testing.T) {
	registryMu.Lock()
	saved := backends
	backends = map[string]Factory{
		"broken": func(Config) (gpucore.Dispatch, error) { return nil, errors.New("broken") },
	}
	registryMu.Unlock()
	defer func() {
		registryMu.Lock()
		backends = saved
		registryMu.Unlock()
	}()

	if _, _, err := Default(DefaultConfig()); !errors.Is(err, ErrBackendNotAvailable) {
		t.Errorf("Default() error = %v, want ErrBackendNotAvailable", err)
	}
}
