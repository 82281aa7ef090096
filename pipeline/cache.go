// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package pipeline builds render pipelines from registered shaders and
// caches them by shader and Requirements.
package pipeline

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/pipecache/registry"
)

var (
	// ErrUnknownShader is returned when the shader key does not resolve.
	// The error also matches registry.ErrNotFound.
	ErrUnknownShader = errors.New("pipeline: unknown shader")

	// ErrNilDevice is returned when a nil device is passed.
	ErrNilDevice = errors.New("pipeline: nil device")
)

// Device is the part of hal.Device the cache uses.
type Device interface {
	CreateRenderPipeline(desc *hal.RenderPipelineDescriptor) (hal.RenderPipeline, error)
	DestroyRenderPipeline(pipeline hal.RenderPipeline)
}

// Shaders resolves shader keys. *registry.Registry implements it.
type Shaders interface {
	Get(key registry.Key) (*registry.Entry, error)
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithPolicy sets the eviction policy. The default is Unbounded.
func WithPolicy(p Policy) CacheOption {
	return func(c *Cache) {
		if p != nil {
			c.policy = p
		}
	}
}

// WithVertexLayouts sets the vertex buffer layouts every pipeline is built
// with. The cache does not interpret them.
func WithVertexLayouts(layouts []gputypes.VertexBufferLayout) CacheOption {
	return func(c *Cache) {
		c.vertexLayouts = layouts
	}
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Pipelines int
}

// Cache maps a shader key and Requirements to a shared Pipeline.
//
// A hit returns the cached pipeline without touching the device. A miss
// builds the pipeline from the shader's entry points and layout, the
// requirements' primitive state and color targets, single-sample
// multisampling and no depth-stencil, then stores it. A failed build
// stores nothing.
//
// Cache is safe for concurrent use; pipelines are built under the lock,
// so a given entry is created at most once.
type Cache struct {
	mu            sync.Mutex
	shaders       Shaders
	pipelines     map[registry.Key]map[Requirements]*Pipeline
	count         int
	policy        Policy
	vertexLayouts []gputypes.VertexBufferLayout

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// NewCache creates an empty cache resolving keys through shaders.
func NewCache(shaders Shaders, opts ...CacheOption) *Cache {
	c := &Cache{
		shaders:   shaders,
		pipelines: make(map[registry.Key]map[Requirements]*Pipeline),
		policy:    Unbounded(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetOrCreate returns the pipeline for key and req, building it on a
// miss. The returned pipeline carries a reference the caller must Release.
//
// Unresolvable keys fail with ErrUnknownShader, and any pipelines still
// cached for a removed shader are dropped. Device errors are returned
// unchanged.
func (c *Cache) GetOrCreate(device Device, key registry.Key, req Requirements) (*Pipeline, error) {
	if device == nil {
		return nil, ErrNilDevice
	}

	entry, err := c.shaders.Get(key)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			c.mu.Lock()
			c.dropShaderLocked(key)
			c.mu.Unlock()
		}
		return nil, fmt.Errorf("%w: %w", ErrUnknownShader, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	id := EntryID{Shader: key, Requirements: req}

	if p, ok := c.pipelines[key][req]; ok {
		if err := p.Acquire(); err == nil {
			c.hits.Add(1)
			c.policy.Touched(id)
			slogger().Debug("pipeline: cache hit", "label", p.label)
			return p, nil
		}
		// Released by someone holding a stray reference; rebuild.
		c.removeLocked(id)
	}

	label := fmt.Sprintf("%s_pipeline_%016x", entry.Label, req.Hash())
	raw, err := device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  label,
		Layout: entry.Layout.Layout,
		Vertex: hal.VertexState{
			Module:     entry.Shader,
			EntryPoint: entry.VertexEntry,
			Buffers:    c.vertexLayouts,
		},
		Fragment: &hal.FragmentState{
			Module:     entry.Shader,
			EntryPoint: entry.FragmentEntry,
			Targets:    req.colorTargetStates(),
		},
		Primitive: req.primitiveState(),
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, err
	}
	c.misses.Add(1)

	p := newPipeline(device, raw, label, key, req)
	byReq, ok := c.pipelines[key]
	if !ok {
		byReq = make(map[Requirements]*Pipeline)
		c.pipelines[key] = byReq
	}
	byReq[req] = p
	c.count++

	slogger().Debug("pipeline: created",
		"label", label,
		"targets", req.EnabledTargets(),
		"shader_outputs", entry.Attachments)

	// The caller's reference, taken before eviction can drop the cache's.
	p.refs.Add(1)

	for _, victim := range c.policy.Added(id) {
		if c.dropLocked(victim) {
			c.evictions.Add(1)
			slogger().Debug("pipeline: evicted", "shader", victim.Shader.String())
		}
	}
	return p, nil
}

// Invalidate drops every pipeline built from key and returns how many
// were dropped. Pipelines still referenced elsewhere stay alive until
// released.
func (c *Cache) Invalidate(key registry.Key) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.invalidateLocked(key)
}

// Prune drops the pipelines of every shader that no longer resolves,
// such as one removed from the registry directly, and returns how many
// were dropped.
func (c *Cache) Prune() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for key := range c.pipelines {
		if _, err := c.shaders.Get(key); errors.Is(err, registry.ErrNotFound) {
			n += c.dropShaderLocked(key)
		}
	}
	return n
}

// InvalidateAll drops every cached pipeline.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, byReq := range c.pipelines {
		for req := range byReq {
			c.removeLocked(EntryID{Shader: key, Requirements: req})
		}
	}
}

// Len returns the number of cached pipelines.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// Stats returns the current counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
		Pipelines: c.Len(),
	}
}

// HitRate returns hits / (hits + misses), or 0 before any lookup.
func (c *Cache) HitRate() float64 {
	hits := c.hits.Load()
	total := hits + c.misses.Load()
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}

func (c *Cache) invalidateLocked(key registry.Key) int {
	n := 0
	for req := range c.pipelines[key] {
		if c.removeLocked(EntryID{Shader: key, Requirements: req}) {
			n++
		}
	}
	return n
}

// dropShaderLocked invalidates the pipelines of a shader that is gone.
func (c *Cache) dropShaderLocked(key registry.Key) int {
	n := c.invalidateLocked(key)
	if n > 0 {
		slogger().Debug("pipeline: dropped pipelines of removed shader",
			"shader", key.String(), "pipelines", n)
	}
	return n
}

// removeLocked drops id and tells the policy.
func (c *Cache) removeLocked(id EntryID) bool {
	if !c.dropLocked(id) {
		return false
	}
	c.policy.Removed(id)
	return true
}

// dropLocked deletes id from the maps and releases the cache's reference.
func (c *Cache) dropLocked(id EntryID) bool {
	byReq, ok := c.pipelines[id.Shader]
	if !ok {
		return false
	}
	p, ok := byReq[id.Requirements]
	if !ok {
		return false
	}
	delete(byReq, id.Requirements)
	if len(byReq) == 0 {
		delete(c.pipelines, id.Shader)
	}
	c.count--
	_ = p.Release()
	return true
}
