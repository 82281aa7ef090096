// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pipeline

import (
	"github.com/gogpu/gputypes"
)

// MaxColorTargets is the number of color attachment slots in Requirements.
const MaxColorTargets = 8

// BlendMode selects one of the blend states pipelines are built with.
type BlendMode uint8

// Blend modes.
const (
	// BlendReplace writes the source color unchanged.
	BlendReplace BlendMode = iota

	// BlendAlpha is straight (non-premultiplied) source-over.
	BlendAlpha

	// BlendPremultiplied is source-over for premultiplied colors.
	BlendPremultiplied

	// BlendAdditive adds source to destination.
	BlendAdditive
)

func (b BlendMode) String() string {
	switch b {
	case BlendReplace:
		return "replace"
	case BlendAlpha:
		return "alpha"
	case BlendPremultiplied:
		return "premultiplied"
	case BlendAdditive:
		return "additive"
	default:
		return "unknown"
	}
}

// State returns the device blend state for b, or nil for BlendReplace.
func (b BlendMode) State() *gputypes.BlendState {
	switch b {
	case BlendAlpha:
		return &gputypes.BlendState{
			Color: gputypes.BlendComponent{
				SrcFactor: gputypes.BlendFactorSrcAlpha,
				DstFactor: gputypes.BlendFactorOneMinusSrcAlpha,
				Operation: gputypes.BlendOperationAdd,
			},
			Alpha: gputypes.BlendComponent{
				SrcFactor: gputypes.BlendFactorOne,
				DstFactor: gputypes.BlendFactorOneMinusSrcAlpha,
				Operation: gputypes.BlendOperationAdd,
			},
		}
	case BlendPremultiplied:
		s := gputypes.BlendStatePremultiplied()
		return &s
	case BlendAdditive:
		add := gputypes.BlendComponent{
			SrcFactor: gputypes.BlendFactorOne,
			DstFactor: gputypes.BlendFactorOne,
			Operation: gputypes.BlendOperationAdd,
		}
		return &gputypes.BlendState{Color: add, Alpha: add}
	default:
		return nil
	}
}

// ColorTarget is the state of one color attachment slot. A slot whose
// Format is gputypes.TextureFormatUndefined is disabled.
type ColorTarget struct {
	Format    gputypes.TextureFormat
	Blend     BlendMode
	WriteMask gputypes.ColorWriteMask
}

// Target returns an enabled slot writing all channels.
func Target(format gputypes.TextureFormat, blend BlendMode) ColorTarget {
	return ColorTarget{Format: format, Blend: blend, WriteMask: gputypes.ColorWriteMaskAll}
}

// Enabled reports whether the slot is in use.
func (t ColorTarget) Enabled() bool {
	return t.Format != gputypes.TextureFormatUndefined
}

func (t ColorTarget) state() gputypes.ColorTargetState {
	if !t.Enabled() {
		return gputypes.ColorTargetState{Format: gputypes.TextureFormatUndefined}
	}
	return gputypes.ColorTargetState{
		Format:    t.Format,
		Blend:     t.Blend.State(),
		WriteMask: t.WriteMask,
	}
}

// Topology is the primitive type a pipeline rasterizes.
type Topology uint8

// Topologies.
const (
	TopologyTriangles Topology = iota
	TopologyLines
	TopologyPoints
)

// PrimitiveTopology returns the device topology for t.
func (t Topology) PrimitiveTopology() gputypes.PrimitiveTopology {
	switch t {
	case TopologyPoints:
		return gputypes.PrimitiveTopologyPointList
	case TopologyLines:
		return gputypes.PrimitiveTopologyLineList
	default:
		return gputypes.PrimitiveTopologyTriangleList
	}
}

// Primitive is the rasterization state of a pipeline.
type Primitive struct {
	Topology gputypes.PrimitiveTopology

	// StripIndexFormat is the index format of indexed strip draws.
	// IndexFormatUndefined leaves it unset.
	StripIndexFormat gputypes.IndexFormat

	FrontFace      gputypes.FrontFace
	CullMode       gputypes.CullMode
	UnclippedDepth bool
}

// Requirements is everything about a pipeline that is not fixed by its
// shader. It is comparable and used as a cache key. Targets are positional:
// swapping two slots gives a different pipeline.
type Requirements struct {
	Primitive Primitive
	Targets   [MaxColorTargets]ColorTarget
}

// NewRequirements returns requirements for topology with counter-clockwise
// front faces, no culling and targets placed in slots 0, 1, ...
// Targets past MaxColorTargets are ignored.
func NewRequirements(topology Topology, targets ...ColorTarget) Requirements {
	req := Requirements{
		Primitive: Primitive{
			Topology:  topology.PrimitiveTopology(),
			FrontFace: gputypes.FrontFaceCCW,
			CullMode:  gputypes.CullModeNone,
		},
	}
	copy(req.Targets[:], targets)
	return req
}

// TargetsFromFormats returns one enabled target per attachment format.
// Target i uses blends[i]; attachments without a blend mode replace.
func TargetsFromFormats(formats []gputypes.TextureFormat, blends []BlendMode) []ColorTarget {
	targets := make([]ColorTarget, len(formats))
	for i, f := range formats {
		blend := BlendReplace
		if i < len(blends) {
			blend = blends[i]
		}
		targets[i] = Target(f, blend)
	}
	return targets
}

// EnabledTargets returns the number of enabled slots.
func (r *Requirements) EnabledTargets() int {
	n := 0
	for _, t := range r.Targets {
		if t.Enabled() {
			n++
		}
	}
	return n
}

// colorTargetStates returns device target states up to and including the
// last enabled slot. Disabled slots before it keep their position with an
// undefined format.
func (r *Requirements) colorTargetStates() []gputypes.ColorTargetState {
	last := -1
	for i, t := range r.Targets {
		if t.Enabled() {
			last = i
		}
	}
	states := make([]gputypes.ColorTargetState, last+1)
	for i := range states {
		states[i] = r.Targets[i].state()
	}
	return states
}

func (r *Requirements) primitiveState() gputypes.PrimitiveState {
	state := gputypes.PrimitiveState{
		Topology:       r.Primitive.Topology,
		FrontFace:      r.Primitive.FrontFace,
		CullMode:       r.Primitive.CullMode,
		UnclippedDepth: r.Primitive.UnclippedDepth,
	}
	if f := r.Primitive.StripIndexFormat; f != gputypes.IndexFormatUndefined {
		state.StripIndexFormat = &f
	}
	return state
}
