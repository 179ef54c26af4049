package gpu

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// DefaultBackends is the probe order used when no preference is given.
// BackendEmpty comes last so a registered noop or software backend is only
// picked when no hardware backend is available.
var DefaultBackends = []gputypes.Backend{
	gputypes.BackendVulkan,
	gputypes.BackendMetal,
	gputypes.BackendDX12,
	gputypes.BackendGL,
	gputypes.BackendEmpty,
}

// Device owns the HAL instance, adapter, logical device and queue.
//
// A Device is created by Probe and then walks through RequestAdapter and
// RequestDevice exactly once. It is never recreated.
type Device struct {
	backend  gputypes.Backend
	instance hal.Instance

	adapter hal.Adapter
	info    gputypes.AdapterInfo

	device hal.Device
	queue  hal.Queue
}

// Probe checks whether GPU rendering is possible at all.
//
// It walks preferred (or DefaultBackends when empty) and returns a Device
// holding an instance of the first registered backend that can create one.
// When nothing works the error wraps ErrNoBackend.
func Probe(preferred []gputypes.Backend) (*Device, error) {
	order := preferred
	if len(order) == 0 {
		order = DefaultBackends
	}

	var lastErr error
	for _, variant := range order {
		backend, ok := hal.GetBackend(variant)
		if !ok {
			continue
		}
		instance, err := backend.CreateInstance(&hal.InstanceDescriptor{
			Backends: backendFlags(variant),
		})
		if err != nil {
			slogger().Debug("gpu: backend instance failed", "backend", variant, "err", err)
			lastErr = err
			continue
		}
		slogger().Debug("gpu: backend selected", "backend", variant)
		return &Device{backend: variant, instance: instance}, nil
	}

	if lastErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoBackend, lastErr)
	}
	return nil, fmt.Errorf("%w: tried %v", ErrNoBackend, order)
}

// backendFlags maps a backend variant to the instance flag set that enables it.
func backendFlags(variant gputypes.Backend) gputypes.Backends {
	switch variant {
	case gputypes.BackendVulkan:
		return gputypes.BackendsVulkan
	case gputypes.BackendMetal:
		return gputypes.BackendsMetal
	case gputypes.BackendDX12:
		return gputypes.BackendsDX12
	case gputypes.BackendGL:
		return gputypes.BackendsGL
	default:
		return gputypes.BackendsAll
	}
}

// Backend returns the backend variant chosen by Probe.
func (d *Device) Backend() gputypes.Backend {
	return d.backend
}

// RequestAdapter picks the first adapter the instance exposes.
// It returns ErrNoAdapter when the instance reports none.
func (d *Device) RequestAdapter() (gputypes.AdapterInfo, error) {
	if d.adapter != nil {
		return d.info, nil
	}

	adapters := d.instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return gputypes.AdapterInfo{}, fmt.Errorf("%w (backend %s)", ErrNoAdapter, d.backend)
	}

	// Release the adapters we do not keep.
	for _, a := range adapters[1:] {
		a.Adapter.Destroy()
	}

	d.adapter = adapters[0].Adapter
	d.info = adapters[0].Info
	slogger().Info("gpu: adapter selected",
		"name", d.info.Name,
		"type", d.info.DeviceType,
		"driver", d.info.Driver,
		"backend", d.info.Backend,
	)
	return d.info, nil
}

// RequestDevice opens a logical device on the selected adapter with default
// limits and no optional features.
func (d *Device) RequestDevice() error {
	if d.adapter == nil {
		return ErrNoAdapter
	}
	if d.device != nil {
		return nil
	}

	open, err := d.adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		return fmt.Errorf("gpu: open device on %q: %w", d.info.Name, err)
	}
	d.device = open.Device
	d.queue = open.Queue
	slogger().Info("gpu: device acquired", "adapter", d.info.Name)
	return nil
}

// CreateSurface creates a drawable surface for a native window.
// The handles are platform specific (X11 display and window, HWND, ...).
func (d *Device) CreateSurface(display, window uintptr) (*Surface, error) {
	if d.device == nil {
		return nil, ErrNoDevice
	}
	s, err := d.instance.CreateSurface(display, window)
	if err != nil {
		return nil, fmt.Errorf("gpu: create surface: %w", err)
	}
	return &Surface{owner: d, surface: s}, nil
}

// HAL returns the logical device and queue. Both are nil before RequestDevice.
func (d *Device) HAL() (hal.Device, hal.Queue) {
	return d.device, d.queue
}

// ContextInfo converts the adapter info into the gpucontext form used by
// other gogpu libraries when they share this device.
func (d *Device) ContextInfo() gpucontext.AdapterInfo {
	t := gpucontext.AdapterTypeUnknown
	switch d.info.DeviceType {
	case gputypes.DeviceTypeDiscreteGPU:
		t = gpucontext.AdapterTypeDiscrete
	case gputypes.DeviceTypeIntegratedGPU:
		t = gpucontext.AdapterTypeIntegrated
	case gputypes.DeviceTypeCPU:
		t = gpucontext.AdapterTypeSoftware
	}
	return gpucontext.AdapterInfo{Name: d.info.Name, Type: t}
}

// Destroy releases the device, adapter and instance in reverse creation order.
// Surfaces and resources created from the device must be destroyed first.
func (d *Device) Destroy() {
	if d.device != nil {
		if err := d.device.WaitIdle(); err != nil {
			slogger().Warn("gpu: wait idle before destroy", "err", err)
		}
		d.device.Destroy()
		d.device = nil
		d.queue = nil
	}
	if d.adapter != nil {
		d.adapter.Destroy()
		d.adapter = nil
	}
	if d.instance != nil {
		d.instance.Destroy()
		d.instance = nil
	}
}
