package pipeline

import (
	"errors"
	"sync/atomic"

	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/pipecache/registry"
)

// ErrReleased is returned when acquiring or releasing a pipeline whose
// reference count already reached zero.
var ErrReleased = errors.New("pipeline: already released")

// Pipeline is a shared, reference-counted render pipeline.
//
// The cache holds one reference for as long as the pipeline is cached.
// GetOrCreate hands out one more, which the caller gives back with
// Release. The device object is destroyed when the last reference goes.
type Pipeline struct {
	raw    hal.RenderPipeline
	device Device
	label  string
	key    registry.Key
	req    Requirements
	refs   atomic.Int32
}

func newPipeline(device Device, raw hal.RenderPipeline, label string, key registry.Key, req Requirements) *Pipeline {
	p := &Pipeline{raw: raw, device: device, label: label, key: key, req: req}
	p.refs.Store(1)
	return p
}

// Raw returns the device pipeline, or nil once it has been destroyed.
func (p *Pipeline) Raw() hal.RenderPipeline {
	if p.refs.Load() <= 0 {
		return nil
	}
	return p.raw
}

// Label returns the debug label the pipeline was created with.
func (p *Pipeline) Label() string { return p.label }

// Shader returns the key of the shader the pipeline was built from.
func (p *Pipeline) Shader() registry.Key { return p.key }

// Requirements returns the requirements the pipeline was built for.
func (p *Pipeline) Requirements() Requirements { return p.req }

// Refs returns the current reference count.
func (p *Pipeline) Refs() int { return int(p.refs.Load()) }

// Acquire adds a reference. It fails with ErrReleased if the pipeline has
// already been destroyed.
func (p *Pipeline) Acquire() error {
	for {
		n := p.refs.Load()
		if n <= 0 {
			return ErrReleased
		}
		if p.refs.CompareAndSwap(n, n+1) {
			return nil
		}
	}
}

// Release drops a reference and destroys the device pipeline when none
// remain.
func (p *Pipeline) Release() error {
	for {
		n := p.refs.Load()
		if n <= 0 {
			slogger().Warn("pipeline: release after destroy", "label", p.label)
			return ErrReleased
		}
		if !p.refs.CompareAndSwap(n, n-1) {
			continue
		}
		if n == 1 {
			p.destroy()
		}
		return nil
	}
}

func (p *Pipeline) destroy() {
	if p.raw != nil {
		p.device.DestroyRenderPipeline(p.raw)
		p.raw = nil
	}
	slogger().Debug("pipeline: destroyed", "label", p.label)
}
