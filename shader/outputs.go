// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shader

import (
	"fmt"

	"github.com/gogpu/naga/ir"
)

// CountColorOutputs returns how many color attachments the first fragment
// entry point of m writes.
//
// A location-bound result counts as one attachment. A struct result counts
// one attachment per member, builtins included. A result bound to a builtin
// such as frag_depth fails with ErrUnsupportedOutput.
func CountColorOutputs(m *Module) (int, error) {
	module := m.ir

	var ep *ir.EntryPoint
	for i := range module.EntryPoints {
		if module.EntryPoints[i].Stage == ir.StageFragment {
			ep = &module.EntryPoints[i]
			break
		}
	}
	if ep == nil {
		return 0, ErrNoFragmentStage
	}

	result := ep.Function.Result
	if result == nil {
		return 0, fmt.Errorf("%w: %q", ErrNoFragmentOutput, ep.Name)
	}

	if result.Binding != nil {
		switch b := (*result.Binding).(type) {
		case ir.LocationBinding:
			return 1, nil
		case ir.BuiltinBinding:
			return 0, fmt.Errorf("%w: %q returns @builtin(%s)", ErrUnsupportedOutput, ep.Name, builtinName(b.Builtin))
		default:
			return 0, fmt.Errorf("%w: %q returns binding %T", ErrUnsupportedOutput, ep.Name, b)
		}
	}

	if int(result.Type) < len(module.Types) {
		if st, ok := module.Types[result.Type].Inner.(ir.StructType); ok {
			return len(st.Members), nil
		}
	}
	return 0, fmt.Errorf("%w: %q returns an unbound non-struct value", ErrUnsupportedOutput, ep.Name)
}

// builtinName returns the WGSL spelling of the builtins a fragment stage
// can produce or consume.
func builtinName(b ir.BuiltinValue) string {
	switch b {
	case ir.BuiltinPosition:
		return "position"
	case ir.BuiltinFrontFacing:
		return "front_facing"
	case ir.BuiltinFragDepth:
		return "frag_depth"
	case ir.BuiltinSampleIndex:
		return "sample_index"
	case ir.BuiltinSampleMask:
		return "sample_mask"
	case ir.BuiltinPrimitiveIndex:
		return "primitive_index"
	default:
		return fmt.Sprintf("builtin_%d", b)
	}
}
