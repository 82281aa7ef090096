// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package registry owns loaded shaders and the device objects derived from
// them, addressed by generational keys.
package registry

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/naga/ir"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/pipecache/layout"
	"github.com/gogpu/pipecache/shader"
)

var (
	// ErrNotFound is returned for keys that are stale, removed or were
	// issued by another registry.
	ErrNotFound = errors.New("registry: shader not found")

	// ErrNilDevice is returned when a nil device is passed.
	ErrNilDevice = errors.New("registry: nil device")
)

// Device is the part of hal.Device the registry uses.
type Device interface {
	layout.Device
	CreateShaderModule(desc *hal.ShaderModuleDescriptor) (hal.ShaderModule, error)
	DestroyShaderModule(module hal.ShaderModule)
}

// registryIDs hands out owner IDs so keys from one registry never resolve
// in another. Zero is never issued.
var registryIDs atomic.Uint32

// Key identifies a shader within the registry that issued it. The zero Key
// never resolves.
type Key struct {
	owner      uint32
	index      uint32
	generation uint32
}

// IsZero reports whether k is the zero Key.
func (k Key) IsZero() bool { return k == Key{} }

func (k Key) String() string {
	return fmt.Sprintf("shader(%d:%d#%d)", k.owner, k.index, k.generation)
}

// Entry is everything derived from one loaded shader. Entries are
// read-only for callers.
type Entry struct {
	Label  string
	Module *shader.Module
	Groups shader.BindGroups
	Layout *layout.PipelineLayout
	Shader hal.ShaderModule

	// Attachments is the number of color outputs of the fragment stage.
	Attachments int

	VertexEntry   string
	FragmentEntry string
}

// Option configures a Registry.
type Option func(*options)

type options struct {
	caps     shader.Capabilities
	truncate bool
}

// WithCapabilities sets the device capabilities shaders are validated
// against. The default allows every feature.
func WithCapabilities(caps shader.Capabilities) Option {
	return func(o *options) {
		o.caps = caps
	}
}

// WithTruncatedBindGroups drops bindings in groups past the layout's
// capacity instead of failing the load.
func WithTruncatedBindGroups() Option {
	return func(o *options) {
		o.truncate = true
	}
}

// Registry stores loaded shaders. It is safe for concurrent use, though
// callers are expected to drive it from a single owner.
type Registry struct {
	mu      sync.Mutex
	id      uint32
	entries arena[*Entry]
	opts    options
}

// New creates an empty Registry.
func New(opts ...Option) *Registry {
	o := options{caps: shader.DefaultCapabilities()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Registry{
		id:   registryIDs.Add(1),
		opts: o,
	}
}

// Load parses, validates and reflects source, builds its pipeline layout
// and shader module on device, and stores the result.
//
// Errors from the shader package (*shader.ParseError,
// *shader.ValidationError, reflection and output sentinels) and from the
// device are wrapped; nothing is stored and no device object leaks when
// Load fails.
func (r *Registry) Load(device Device, label, source string) (Key, error) {
	if device == nil {
		return Key{}, ErrNilDevice
	}
	if label == "" {
		label = "shader"
	}
	log := slogger().With("label", label)

	m, err := shader.Load(source, r.opts.caps)
	if err != nil {
		return Key{}, fmt.Errorf("registry: load %q: %w", label, err)
	}

	vs, ok := m.EntryPoint(ir.StageVertex)
	if !ok {
		return Key{}, fmt.Errorf("registry: load %q: %w", label, shader.ErrNoVertexStage)
	}
	fs, ok := m.EntryPoint(ir.StageFragment)
	if !ok {
		return Key{}, fmt.Errorf("registry: load %q: %w", label, shader.ErrNoFragmentStage)
	}

	groups, err := shader.ReflectWith(m, shader.ReflectOptions{
		TruncateGroups: r.opts.truncate,
		OnTruncate: func(name string, group, binding uint32) {
			log.Warn("registry: binding dropped, group out of range",
				"var", name, "group", group, "binding", binding,
				"max_groups", shader.MaxBindGroups)
		},
	})
	if err != nil {
		return Key{}, fmt.Errorf("registry: load %q: %w", label, err)
	}

	attachments, err := shader.CountColorOutputs(m)
	if err != nil {
		return Key{}, fmt.Errorf("registry: load %q: %w", label, err)
	}

	pl, err := layout.Build(device, label, groups)
	if err != nil {
		return Key{}, fmt.Errorf("registry: load %q: %w", label, err)
	}

	module, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label,
		Source: hal.ShaderSource{WGSL: source},
	})
	if err != nil {
		pl.Destroy(device)
		return Key{}, fmt.Errorf("registry: load %q: create shader module: %w", label, err)
	}

	entry := &Entry{
		Label:         label,
		Module:        m,
		Groups:        groups,
		Layout:        pl,
		Shader:        module,
		Attachments:   attachments,
		VertexEntry:   vs,
		FragmentEntry: fs,
	}

	r.mu.Lock()
	idx, gen := r.entries.insert(entry)
	r.mu.Unlock()

	key := Key{owner: r.id, index: idx, generation: gen}
	log.Info("registry: shader loaded",
		"key", key.String(),
		"bindings", groups.Len(),
		"attachments", attachments)
	return key, nil
}

// Get returns the entry for key, or ErrNotFound.
func (r *Registry) Get(key Key) (*Entry, error) {
	if key.owner != r.id {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, key)
	}
	r.mu.Lock()
	e, ok := r.entries.get(key.index, key.generation)
	r.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, key)
	}
	return e, nil
}

// Remove destroys the device objects of key and invalidates it. Pipelines
// built from the shader must be released first.
func (r *Registry) Remove(device Device, key Key) error {
	if device == nil {
		return ErrNilDevice
	}
	if key.owner != r.id {
		return fmt.Errorf("%w: %v", ErrNotFound, key)
	}
	r.mu.Lock()
	e, ok := r.entries.remove(key.index, key.generation)
	r.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %v", ErrNotFound, key)
	}
	destroyEntry(device, e)
	slogger().Info("registry: shader removed", "label", e.Label, "key", key.String())
	return nil
}

// Len returns the number of live shaders.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries.len()
}

// Keys returns the keys of all live shaders in slot order.
func (r *Registry) Keys() []Key {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := make([]Key, 0, r.entries.len())
	r.entries.each(func(idx, gen uint32, _ *Entry) {
		keys = append(keys, Key{owner: r.id, index: idx, generation: gen})
	})
	return keys
}

// DestroyAll removes every shader. Keys issued before the call stop
// resolving.
func (r *Registry) DestroyAll(device Device) {
	for _, k := range r.Keys() {
		_ = r.Remove(device, k)
	}
}

func destroyEntry(device Device, e *Entry) {
	if e.Shader != nil {
		device.DestroyShaderModule(e.Shader)
		e.Shader = nil
	}
	if e.Layout != nil {
		e.Layout.Destroy(device)
	}
}
