// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package layout turns reflected bind groups into device pipeline layouts.
package layout

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/pipecache/shader"
)

// Device is the part of hal.Device the builder uses.
type Device interface {
	CreateBindGroupLayout(desc *hal.BindGroupLayoutDescriptor) (hal.BindGroupLayout, error)
	DestroyBindGroupLayout(layout hal.BindGroupLayout)
	CreatePipelineLayout(desc *hal.PipelineLayoutDescriptor) (hal.PipelineLayout, error)
	DestroyPipelineLayout(layout hal.PipelineLayout)
}

// PipelineLayout holds one bind group layout per group slot and the
// pipeline layout built from them. Groups with no bindings still get a
// layout with zero entries.
type PipelineLayout struct {
	Groups  [shader.MaxBindGroups]hal.BindGroupLayout
	Layout  hal.PipelineLayout
	Entries [shader.MaxBindGroups][]gputypes.BindGroupLayoutEntry
}

// Entries maps reflected descriptors to layout entries, group by group.
// It has no side effects.
func Entries(groups shader.BindGroups) [shader.MaxBindGroups][]gputypes.BindGroupLayoutEntry {
	var out [shader.MaxBindGroups][]gputypes.BindGroupLayoutEntry
	for g := range groups {
		entries := make([]gputypes.BindGroupLayoutEntry, 0, len(groups[g]))
		for _, d := range groups[g] {
			entries = append(entries, entry(d))
		}
		out[g] = entries
	}
	return out
}

func entry(d shader.BindingDescriptor) gputypes.BindGroupLayoutEntry {
	e := gputypes.BindGroupLayoutEntry{
		Binding:    d.Slot,
		Visibility: visibility(d.Visibility),
	}
	switch d.Kind {
	case shader.KindSampledTexture:
		sampleType := gputypes.TextureSampleTypeFloat
		if d.Texture.Multisampled {
			sampleType = gputypes.TextureSampleTypeUnfilterableFloat
		}
		e.Texture = &gputypes.TextureBindingLayout{
			SampleType:    sampleType,
			ViewDimension: viewDimension(d.Texture.Dimension),
			Multisampled:  d.Texture.Multisampled,
		}
	case shader.KindSampler:
		samplerType := gputypes.SamplerBindingTypeFiltering
		if d.Sampler == shader.SamplerComparison {
			samplerType = gputypes.SamplerBindingTypeComparison
		}
		e.Sampler = &gputypes.SamplerBindingLayout{Type: samplerType}
	case shader.KindUniformBuffer:
		e.Buffer = &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}
	}
	return e
}

func visibility(s shader.Stage) gputypes.ShaderStage {
	var v gputypes.ShaderStage
	if s.Has(shader.StageVertex) {
		v |= gputypes.ShaderStageVertex
	}
	if s.Has(shader.StageFragment) {
		v |= gputypes.ShaderStageFragment
	}
	if s.Has(shader.StageCompute) {
		v |= gputypes.ShaderStageCompute
	}
	return v
}

func viewDimension(d shader.ViewDimension) gputypes.TextureViewDimension {
	switch d {
	case shader.View1D:
		return gputypes.TextureViewDimension1D
	case shader.View2DArray:
		return gputypes.TextureViewDimension2DArray
	case shader.View3D:
		return gputypes.TextureViewDimension3D
	case shader.ViewCube:
		return gputypes.TextureViewDimensionCube
	case shader.ViewCubeArray:
		return gputypes.TextureViewDimensionCubeArray
	default:
		return gputypes.TextureViewDimension2D
	}
}

// Build creates the four bind group layouts and the pipeline layout for
// groups. On failure every object created so far is destroyed.
func Build(device Device, label string, groups shader.BindGroups) (*PipelineLayout, error) {
	pl := &PipelineLayout{Entries: Entries(groups)}

	for g := range pl.Groups {
		bgl, err := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
			Label:   fmt.Sprintf("%s_group%d", label, g),
			Entries: pl.Entries[g],
		})
		if err != nil {
			pl.Destroy(device)
			return nil, fmt.Errorf("create bind group layout %d: %w", g, err)
		}
		pl.Groups[g] = bgl
	}

	layout, err := device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            label + "_layout",
		BindGroupLayouts: pl.Groups[:],
	})
	if err != nil {
		pl.Destroy(device)
		return nil, fmt.Errorf("create pipeline layout: %w", err)
	}
	pl.Layout = layout

	return pl, nil
}

// Destroy releases the pipeline layout and its bind group layouts.
// It is safe to call on a partially built layout.
func (pl *PipelineLayout) Destroy(device Device) {
	if pl.Layout != nil {
		device.DestroyPipelineLayout(pl.Layout)
		pl.Layout = nil
	}
	for g := range pl.Groups {
		if pl.Groups[g] != nil {
			device.DestroyBindGroupLayout(pl.Groups[g])
			pl.Groups[g] = nil
		}
	}
}
