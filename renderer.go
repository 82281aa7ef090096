// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pipecache

import (
	"errors"
	"sync"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/pipecache/pipeline"
	"github.com/gogpu/pipecache/registry"
)

var (
	// ErrNilDevice is returned by NewRenderer for a nil device.
	ErrNilDevice = errors.New("pipecache: nil device")

	// ErrClosed is returned by every Renderer method after Close.
	ErrClosed = errors.New("pipecache: renderer closed")

	// ErrNoHalDevice is returned by NewRendererFromProvider when the
	// provider does not expose a hal.Device.
	ErrNoHalDevice = errors.New("pipecache: provider does not expose a hal.Device")
)

// Device is the part of hal.Device a Renderer uses. Any hal.Device
// satisfies it.
type Device interface {
	registry.Device
	pipeline.Device
}

// Renderer ties a device to a shader registry and a pipeline cache.
//
// Renderer is safe for concurrent use, but it is meant to be driven by the
// goroutine that owns the device.
type Renderer struct {
	mu      sync.Mutex
	device  Device
	shaders *registry.Registry
	cache   *pipeline.Cache
	label   string
	closed  bool

	// surfaceFormat is set when the renderer was created from a provider.
	surfaceFormat gputypes.TextureFormat
}

// NewRenderer creates a renderer for device.
func NewRenderer(device Device, opts ...Option) (*Renderer, error) {
	if device == nil {
		return nil, ErrNilDevice
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	regOpts := []registry.Option{registry.WithCapabilities(o.caps)}
	if o.truncate {
		regOpts = append(regOpts, registry.WithTruncatedBindGroups())
	}
	shaders := registry.New(regOpts...)

	return &Renderer{
		device:  device,
		shaders: shaders,
		cache: pipeline.NewCache(shaders,
			pipeline.WithPolicy(o.policy),
			pipeline.WithVertexLayouts(o.vertexLayouts),
		),
		label: o.label,
	}, nil
}

// LoadShader parses, validates and registers a WGSL shader.
func (r *Renderer) LoadShader(label, source string) (registry.Key, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return registry.Key{}, ErrClosed
	}
	if r.label != "" {
		label = r.label + "_" + label
	}
	return r.shaders.Load(r.device, label, source)
}

// Shader returns what the registry holds for key.
func (r *Renderer) Shader(key registry.Key) (*registry.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrClosed
	}
	return r.shaders.Get(key)
}

// Pipeline returns the render pipeline for key and req, creating it on
// first use. The caller must Release the returned pipeline.
func (r *Renderer) Pipeline(key registry.Key, req pipeline.Requirements) (*pipeline.Pipeline, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrClosed
	}
	return r.cache.GetOrCreate(r.device, key, req)
}

// RemoveShader drops the cached pipelines built from key, then the shader
// itself.
func (r *Renderer) RemoveShader(key registry.Key) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	if _, err := r.shaders.Get(key); err != nil {
		return err
	}
	n := r.cache.Invalidate(key)
	Logger().Debug("pipecache: shader pipelines invalidated", "key", key.String(), "pipelines", n)
	return r.shaders.Remove(r.device, key)
}

// Stats returns the pipeline cache counters.
func (r *Renderer) Stats() pipeline.Stats {
	return r.cache.Stats()
}

// Close releases every cached pipeline and shader. Pipelines the caller
// still holds stay valid until released. Close is idempotent.
func (r *Renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	r.cache.InvalidateAll()
	r.shaders.DestroyAll(r.device)
	Logger().Info("pipecache: renderer closed", "label", r.label)
	return nil
}
