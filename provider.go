package pipecache

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/pipecache/pipeline"
)

// halProvider is implemented by providers that expose their HAL device,
// such as the gogpu application context.
type halProvider interface {
	HalDevice() any
}

// halDeviceHandle is implemented by device handles that wrap a HAL device,
// such as *wgpu.Device.
type halDeviceHandle interface {
	HalDevice() hal.Device
}

// NewRendererFromProvider creates a renderer on the device shared by a
// host application. The HAL device is taken from the provider's
// HalDevice() any method or, failing that, from a Device() handle with a
// HalDevice() hal.Device method. Otherwise ErrNoHalDevice is returned.
func NewRendererFromProvider(provider gpucontext.DeviceProvider, opts ...Option) (*Renderer, error) {
	if provider == nil {
		return nil, ErrNilDevice
	}
	device := providerHalDevice(provider)
	if device == nil {
		return nil, ErrNoHalDevice
	}

	r, err := NewRenderer(device, opts...)
	if err != nil {
		return nil, err
	}
	r.surfaceFormat = provider.SurfaceFormat()
	Logger().Info("pipecache: using provider device", "surface_format", r.surfaceFormat)
	return r, nil
}

func providerHalDevice(provider gpucontext.DeviceProvider) hal.Device {
	if hp, ok := provider.(halProvider); ok {
		if device, ok := hp.HalDevice().(hal.Device); ok && device != nil {
			return device
		}
	}
	if dh, ok := provider.Device().(halDeviceHandle); ok {
		return dh.HalDevice()
	}
	return nil
}

// SurfaceFormat returns the provider's surface format, or
// gputypes.TextureFormatUndefined for renderers created with NewRenderer.
func (r *Renderer) SurfaceFormat() gputypes.TextureFormat {
	return r.surfaceFormat
}

// SurfaceRequirements returns requirements for drawing straight to the
// provider's surface: one replacing target in slot 0 with the surface
// format. Without a surface format no target is enabled.
func (r *Renderer) SurfaceRequirements(topology pipeline.Topology) pipeline.Requirements {
	if r.surfaceFormat == gputypes.TextureFormatUndefined {
		return pipeline.NewRequirements(topology)
	}
	return pipeline.NewRequirements(topology, pipeline.Target(r.surfaceFormat, pipeline.BlendReplace))
}
