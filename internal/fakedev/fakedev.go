// Package fakedev provides a counting device double for tests.
//
// Device implements the create and destroy methods of hal.Device that the
// shader registry and pipeline cache call. Every created object is a
// *Resource; failures are injected through the *Func fields.
package fakedev

import (
	"sync"

	"github.com/gogpu/wgpu/hal"
)

// Resource is a fake device object.
type Resource struct {
	ID        uintptr
	Kind      string
	Label     string
	destroyed bool
}

// Destroy implements hal.Resource.
func (r *Resource) Destroy() { r.destroyed = true }

// NativeHandle implements hal.NativeHandle.
func (r *Resource) NativeHandle() uintptr { return r.ID }

// Destroyed reports whether the device destroyed r.
func (r *Resource) Destroyed() bool { return r.destroyed }

// Device is a test double that counts object creation and destruction.
type Device struct {
	CreateShaderModuleFunc    func(*hal.ShaderModuleDescriptor) error
	CreateBindGroupLayoutFunc func(*hal.BindGroupLayoutDescriptor) error
	CreatePipelineLayoutFunc  func(*hal.PipelineLayoutDescriptor) error
	CreateRenderPipelineFunc  func(*hal.RenderPipelineDescriptor) error

	mu      sync.Mutex
	nextID  uintptr
	created map[string]int
	freed   map[string]int

	// Descriptors seen by the last successful calls.
	LastShaderModule    *hal.ShaderModuleDescriptor
	LastBindGroupLayout []*hal.BindGroupLayoutDescriptor
	LastPipelineLayout  *hal.PipelineLayoutDescriptor
	LastRenderPipeline  *hal.RenderPipelineDescriptor
}

// New returns an empty Device.
func New() *Device {
	return &Device{
		created: make(map[string]int),
		freed:   make(map[string]int),
	}
}

// Object kinds used by Created and Destroyed.
const (
	ShaderModule    = "shader_module"
	BindGroupLayout = "bind_group_layout"
	PipelineLayout  = "pipeline_layout"
	RenderPipeline  = "render_pipeline"
)

// Created returns how many objects of kind were created.
func (d *Device) Created(kind string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.created[kind]
}

// Destroyed returns how many objects of kind were destroyed.
func (d *Device) Destroyed(kind string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.freed[kind]
}

// Live returns created minus destroyed objects of kind.
func (d *Device) Live(kind string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.created[kind] - d.freed[kind]
}

func (d *Device) newResource(kind, label string) *Resource {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	d.created[kind]++
	return &Resource{ID: d.nextID, Kind: kind, Label: label}
}

func (d *Device) destroy(kind string, r any) {
	d.mu.Lock()
	d.freed[kind]++
	d.mu.Unlock()
	if res, ok := r.(*Resource); ok {
		res.Destroy()
	}
}

// CreateShaderModule implements hal.Device.
func (d *Device) CreateShaderModule(desc *hal.ShaderModuleDescriptor) (hal.ShaderModule, error) {
	if d.CreateShaderModuleFunc != nil {
		if err := d.CreateShaderModuleFunc(desc); err != nil {
			return nil, err
		}
	}
	d.LastShaderModule = desc
	return d.newResource(ShaderModule, desc.Label), nil
}

// DestroyShaderModule implements hal.Device.
func (d *Device) DestroyShaderModule(m hal.ShaderModule) { d.destroy(ShaderModule, m) }

// CreateBindGroupLayout implements hal.Device.
func (d *Device) CreateBindGroupLayout(desc *hal.BindGroupLayoutDescriptor) (hal.BindGroupLayout, error) {
	if d.CreateBindGroupLayoutFunc != nil {
		if err := d.CreateBindGroupLayoutFunc(desc); err != nil {
			return nil, err
		}
	}
	d.LastBindGroupLayout = append(d.LastBindGroupLayout, desc)
	return d.newResource(BindGroupLayout, desc.Label), nil
}

// DestroyBindGroupLayout implements hal.Device.
func (d *Device) DestroyBindGroupLayout(l hal.BindGroupLayout) { d.destroy(BindGroupLayout, l) }

// CreatePipelineLayout implements hal.Device.
func (d *Device) CreatePipelineLayout(desc *hal.PipelineLayoutDescriptor) (hal.PipelineLayout, error) {
	if d.CreatePipelineLayoutFunc != nil {
		if err := d.CreatePipelineLayoutFunc(desc); err != nil {
			return nil, err
		}
	}
	d.LastPipelineLayout = desc
	return d.newResource(PipelineLayout, desc.Label), nil
}

// DestroyPipelineLayout implements hal.Device.
func (d *Device) DestroyPipelineLayout(l hal.PipelineLayout) { d.destroy(PipelineLayout, l) }

// CreateRenderPipeline implements hal.Device.
func (d *Device) CreateRenderPipeline(desc *hal.RenderPipelineDescriptor) (hal.RenderPipeline, error) {
	if d.CreateRenderPipelineFunc != nil {
		if err := d.CreateRenderPipelineFunc(desc); err != nil {
			return nil, err
		}
	}
	d.LastRenderPipeline = desc
	return d.newResource(RenderPipeline, desc.Label), nil
}

// DestroyRenderPipeline implements hal.Device.
func (d *Device) DestroyRenderPipeline(p hal.RenderPipeline) { d.destroy(RenderPipeline, p) }
