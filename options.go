package pipecache

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/pipecache/pipeline"
	"github.com/gogpu/pipecache/shader"
)

// Option configures a Renderer during creation.
//
// Example:
//
//	r, err := pipecache.NewRenderer(device,
//	    pipecache.WithEviction(pipeline.LRU(64)),
//	    pipecache.WithLabel("ui"),
//	)
type Option func(*options)

type options struct {
	caps          shader.Capabilities
	vertexLayouts []gputypes.VertexBufferLayout
	policy        pipeline.Policy
	label         string
	truncate      bool
}

func defaultOptions() options {
	return options{
		caps:          shader.DefaultCapabilities(),
		vertexLayouts: DefaultVertexLayouts(),
		policy:        pipeline.Unbounded(),
	}
}

// WithCapabilities sets the device capabilities shaders are validated
// against. The default allows every feature.
func WithCapabilities(caps shader.Capabilities) Option {
	return func(o *options) {
		o.caps = caps
	}
}

// WithVertexLayouts replaces DefaultVertexLayouts for every pipeline the
// renderer builds.
func WithVertexLayouts(layouts []gputypes.VertexBufferLayout) Option {
	return func(o *options) {
		o.vertexLayouts = layouts
	}
}

// WithEviction sets the pipeline cache eviction policy. The default keeps
// every pipeline until its shader is removed.
func WithEviction(p pipeline.Policy) Option {
	return func(o *options) {
		if p != nil {
			o.policy = p
		}
	}
}

// WithLabel prefixes the debug labels of every device object the renderer
// creates.
func WithLabel(label string) Option {
	return func(o *options) {
		o.label = label
	}
}

// WithTruncatedBindGroups drops bindings in groups past the layout's
// capacity, with a warning, instead of failing LoadShader.
func WithTruncatedBindGroups() Option {
	return func(o *options) {
		o.truncate = true
	}
}
