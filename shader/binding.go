// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shader

import "strings"

// MaxBindGroups is the number of bind group slots a pipeline layout has.
const MaxBindGroups = 4

// Stage is a bitmask of shader stages a resource is visible to.
type Stage uint8

// Shader stages.
const (
	StageVertex Stage = 1 << iota
	StageFragment
	StageCompute

	// StageNone is the empty visibility of a resource no entry point uses.
	StageNone Stage = 0
)

// Has reports whether every stage in o is set in s.
func (s Stage) Has(o Stage) bool { return s&o == o }

func (s Stage) String() string {
	if s == StageNone {
		return "none"
	}
	var parts []string
	if s.Has(StageVertex) {
		parts = append(parts, "vertex")
	}
	if s.Has(StageFragment) {
		parts = append(parts, "fragment")
	}
	if s.Has(StageCompute) {
		parts = append(parts, "compute")
	}
	return strings.Join(parts, "|")
}

// ResourceKind identifies what a binding slot holds.
type ResourceKind uint8

// Resource kinds.
const (
	KindSampledTexture ResourceKind = iota + 1
	KindSampler
	KindUniformBuffer
)

func (k ResourceKind) String() string {
	switch k {
	case KindSampledTexture:
		return "texture"
	case KindSampler:
		return "sampler"
	case KindUniformBuffer:
		return "uniform"
	default:
		return "unknown"
	}
}

// ViewDimension is the dimensionality of a sampled texture binding.
type ViewDimension uint8

// Texture view dimensions. Array variants exist only for 2D and Cube.
const (
	View1D ViewDimension = iota + 1
	View2D
	View2DArray
	View3D
	ViewCube
	ViewCubeArray
)

func (d ViewDimension) String() string {
	switch d {
	case View1D:
		return "1d"
	case View2D:
		return "2d"
	case View2DArray:
		return "2d-array"
	case View3D:
		return "3d"
	case ViewCube:
		return "cube"
	case ViewCubeArray:
		return "cube-array"
	default:
		return "unknown"
	}
}

// SampleKind is the scalar kind a texture returns when sampled.
// Only SampleFloat is reflected; the others exist to name what was rejected.
type SampleKind uint8

// Sample kinds.
const (
	SampleFloat SampleKind = iota + 1
	SampleSint
	SampleUint
	SampleDepth
)

func (k SampleKind) String() string {
	switch k {
	case SampleFloat:
		return "float"
	case SampleSint:
		return "sint"
	case SampleUint:
		return "uint"
	case SampleDepth:
		return "depth"
	default:
		return "unknown"
	}
}

// SamplerKind distinguishes filtering samplers from comparison samplers.
type SamplerKind uint8

// Sampler kinds.
const (
	SamplerFiltering SamplerKind = iota + 1
	SamplerComparison
)

func (k SamplerKind) String() string {
	switch k {
	case SamplerFiltering:
		return "filtering"
	case SamplerComparison:
		return "comparison"
	default:
		return "unknown"
	}
}

// TextureBinding describes a sampled texture resource.
type TextureBinding struct {
	Dimension    ViewDimension
	Multisampled bool
	SampleKind   SampleKind
}

// BindingDescriptor is the kind, slot and stage visibility of one resource
// within a bind group. Texture is set only for KindSampledTexture and
// Sampler only for KindSampler.
//
// BindingDescriptor is comparable; two reflections of the same source
// compare equal.
type BindingDescriptor struct {
	// Name is the global variable's source name, kept for diagnostics.
	Name string

	Slot       uint32
	Visibility Stage
	Kind       ResourceKind
	Texture    TextureBinding
	Sampler    SamplerKind
}

func (d BindingDescriptor) String() string {
	var b strings.Builder
	b.WriteString(d.Kind.String())
	switch d.Kind {
	case KindSampledTexture:
		b.WriteString("-" + d.Texture.Dimension.String() + "-" + d.Texture.SampleKind.String())
		if d.Texture.Multisampled {
			b.WriteString("-ms")
		}
	case KindSampler:
		b.WriteString("-" + d.Sampler.String())
	}
	return b.String()
}

// BindGroups holds the reflected descriptors for each bind group slot.
// A nil or empty slice is a group with no bindings.
type BindGroups [MaxBindGroups][]BindingDescriptor

// Len returns the total number of descriptors across all groups.
func (g *BindGroups) Len() int {
	n := 0
	for i := range g {
		n += len(g[i])
	}
	return n
}
