// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shader

import (
	"fmt"

	"github.com/gogpu/naga/ir"
)

// ReflectOptions controls how Reflect treats out-of-range bind groups.
type ReflectOptions struct {
	// TruncateGroups drops globals bound at @group(MaxBindGroups) or higher
	// instead of failing with ErrTooManyBindGroups.
	TruncateGroups bool

	// OnTruncate, if set, is called for every global dropped because of
	// TruncateGroups.
	OnTruncate func(name string, group, binding uint32)
}

// Reflect derives the bind group descriptors of every bound global in m.
// It fails on the first global that cannot be described.
func Reflect(m *Module) (BindGroups, error) {
	return ReflectWith(m, ReflectOptions{})
}

// ReflectWith is Reflect with explicit options.
//
// Descriptors within a group keep the declaration order of their globals.
// A bound global that no entry point uses is still reported, with an empty
// visibility.
func ReflectWith(m *Module, opts ReflectOptions) (BindGroups, error) {
	var groups BindGroups
	module := m.ir
	visibility := resourceVisibility(module)

	for i := range module.GlobalVariables {
		gv := &module.GlobalVariables[i]
		if gv.Binding == nil {
			continue
		}
		group, slot := gv.Binding.Group, gv.Binding.Binding

		if group >= MaxBindGroups {
			if opts.TruncateGroups {
				if opts.OnTruncate != nil {
					opts.OnTruncate(gv.Name, group, slot)
				}
				continue
			}
			return BindGroups{}, &BindingError{
				Name: gv.Name, Group: group, Binding: slot,
				Reason: fmt.Sprintf("at most %d groups", MaxBindGroups),
				Err:    ErrTooManyBindGroups,
			}
		}

		desc, err := m.describe(gv)
		if err != nil {
			return BindGroups{}, err
		}
		desc.Visibility = visibility[ir.GlobalVariableHandle(i)]

		for _, prev := range groups[group] {
			if prev.Slot == slot {
				return BindGroups{}, &BindingError{
					Name: gv.Name, Group: group, Binding: slot,
					Reason: fmt.Sprintf("already used by %q", prev.Name),
					Err:    ErrDuplicateBinding,
				}
			}
		}
		groups[group] = append(groups[group], desc)
	}

	return groups, nil
}

// describe maps a bound global to its descriptor, without visibility.
func (m *Module) describe(gv *ir.GlobalVariable) (BindingDescriptor, error) {
	unsupported := func(reason string) error {
		return &BindingError{
			Name: gv.Name, Group: gv.Binding.Group, Binding: gv.Binding.Binding,
			Reason: reason,
			Err:    ErrUnsupportedBindingType,
		}
	}

	desc := BindingDescriptor{Name: gv.Name, Slot: gv.Binding.Binding}

	if int(gv.Type) >= len(m.ir.Types) {
		return desc, unsupported("unknown type")
	}
	inner := m.ir.Types[gv.Type].Inner

	switch t := inner.(type) {
	case ir.ImageType:
		tex, err := textureBinding(t)
		if err != nil {
			return desc, unsupported(err.Error())
		}
		desc.Kind = KindSampledTexture
		desc.Texture = tex
		return desc, nil

	case ir.SamplerType:
		desc.Kind = KindSampler
		desc.Sampler = SamplerFiltering
		if t.Comparison {
			desc.Sampler = SamplerComparison
		}
		return desc, nil
	}

	switch gv.Space {
	case ir.SpaceUniform:
		desc.Kind = KindUniformBuffer
		return desc, nil
	case ir.SpaceStorage:
		return desc, unsupported("storage buffer")
	}
	return desc, unsupported(fmt.Sprintf("type %T", inner))
}

func textureBinding(img ir.ImageType) (TextureBinding, error) {
	switch img.Class {
	case ir.ImageClassSampled:
	case ir.ImageClassDepth:
		return TextureBinding{}, fmt.Errorf("depth texture")
	case ir.ImageClassStorage:
		return TextureBinding{}, fmt.Errorf("storage texture")
	default:
		return TextureBinding{}, fmt.Errorf("image class %d", img.Class)
	}

	var dim ViewDimension
	switch {
	case img.Dim == ir.Dim1D && !img.Arrayed:
		dim = View1D
	case img.Dim == ir.Dim2D && !img.Arrayed:
		dim = View2D
	case img.Dim == ir.Dim2D && img.Arrayed:
		dim = View2DArray
	case img.Dim == ir.Dim3D && !img.Arrayed:
		dim = View3D
	case img.Dim == ir.DimCube && !img.Arrayed:
		dim = ViewCube
	case img.Dim == ir.DimCube && img.Arrayed:
		dim = ViewCubeArray
	default:
		return TextureBinding{}, fmt.Errorf("image dimension %d arrayed=%t", img.Dim, img.Arrayed)
	}

	kind, err := sampleKind(img.SampledKind)
	if err != nil {
		return TextureBinding{}, err
	}
	if kind != SampleFloat {
		return TextureBinding{}, fmt.Errorf("%s sample type", kind)
	}

	return TextureBinding{
		Dimension:    dim,
		Multisampled: img.Multisampled,
		SampleKind:   kind,
	}, nil
}

func sampleKind(k ir.ScalarKind) (SampleKind, error) {
	switch k {
	case ir.ScalarFloat:
		return SampleFloat, nil
	case ir.ScalarSint:
		return SampleSint, nil
	case ir.ScalarUint:
		return SampleUint, nil
	}
	return 0, fmt.Errorf("sample kind %d", k)
}

// resourceVisibility returns, per global, the stages whose entry point
// reaches the global directly or through called functions.
func resourceVisibility(module *ir.Module) map[ir.GlobalVariableHandle]Stage {
	direct := make([]map[ir.GlobalVariableHandle]struct{}, len(module.Functions))
	callees := make([]map[ir.FunctionHandle]struct{}, len(module.Functions))
	for i := range module.Functions {
		direct[i], callees[i] = scanFunction(&module.Functions[i])
	}

	vis := make(map[ir.GlobalVariableHandle]Stage)
	for i := range module.EntryPoints {
		ep := &module.EntryPoints[i]
		stage := stageBit(ep.Stage)

		// Entry point bodies are not in module.Functions.
		globals, calls := scanFunction(&ep.Function)
		for gv := range globals {
			vis[gv] |= stage
		}

		seen := make(map[ir.FunctionHandle]bool)
		stack := make([]ir.FunctionHandle, 0, len(calls))
		for fn := range calls {
			stack = append(stack, fn)
		}
		for len(stack) > 0 {
			fn := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if seen[fn] || int(fn) >= len(module.Functions) {
				continue
			}
			seen[fn] = true
			for gv := range direct[fn] {
				vis[gv] |= stage
			}
			for callee := range callees[fn] {
				stack = append(stack, callee)
			}
		}
	}
	return vis
}

func scanFunction(fn *ir.Function) (map[ir.GlobalVariableHandle]struct{}, map[ir.FunctionHandle]struct{}) {
	globals := make(map[ir.GlobalVariableHandle]struct{})
	calls := make(map[ir.FunctionHandle]struct{})

	for _, expr := range fn.Expressions {
		switch k := expr.Kind.(type) {
		case ir.ExprGlobalVariable:
			globals[k.Variable] = struct{}{}
		case ir.ExprCallResult:
			calls[k.Function] = struct{}{}
		}
	}
	collectCalls(fn.Body, calls)

	return globals, calls
}

func collectCalls(block ir.Block, calls map[ir.FunctionHandle]struct{}) {
	for _, stmt := range block {
		switch s := stmt.Kind.(type) {
		case ir.StmtCall:
			calls[s.Function] = struct{}{}
		case ir.StmtBlock:
			collectCalls(s.Block, calls)
		case ir.StmtIf:
			collectCalls(s.Accept, calls)
			collectCalls(s.Reject, calls)
		case ir.StmtSwitch:
			for _, c := range s.Cases {
				collectCalls(c.Body, calls)
			}
		case ir.StmtLoop:
			collectCalls(s.Body, calls)
			collectCalls(s.Continuing, calls)
		}
	}
}

func stageBit(s ir.ShaderStage) Stage {
	switch s {
	case ir.StageVertex:
		return StageVertex
	case ir.StageFragment:
		return StageFragment
	case ir.StageCompute:
		return StageCompute
	}
	return StageNone
}
