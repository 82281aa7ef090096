// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shader

import (
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
)

// Capabilities is the set of optional shader features the target device
// declares. Load rejects modules that use a feature the device lacks.
type Capabilities struct {
	// Compute allows @compute entry points in the module.
	Compute bool

	// PushConstants allows globals in the push_constant and immediate
	// address spaces.
	PushConstants bool

	// Float64 allows f64 scalars, vectors and matrices.
	Float64 bool
}

// DefaultCapabilities returns a capability set that allows every feature.
func DefaultCapabilities() Capabilities {
	return Capabilities{
		Compute:       true,
		PushConstants: true,
		Float64:       true,
	}
}

// Module is a parsed and validated shader module. It is immutable once
// returned by Load.
type Module struct {
	source string
	ir     *ir.Module
}

// Load parses WGSL source, lowers it to IR and validates it against caps.
//
// Syntax and lowering failures are returned as *ParseError, validator and
// capability failures as *ValidationError. No module is returned on error.
func Load(source string, caps Capabilities) (*Module, error) {
	ast, err := naga.Parse(source)
	if err != nil {
		return nil, newParseError(err)
	}

	module, err := naga.LowerWithSource(ast, source)
	if err != nil {
		return nil, newParseError(err)
	}

	verrs, err := naga.Validate(module)
	if err != nil {
		return nil, &ValidationError{Diagnostics: []string{err.Error()}}
	}
	if len(verrs) > 0 {
		diags := make([]string, len(verrs))
		for i := range verrs {
			diags[i] = verrs[i].Error()
		}
		return nil, &ValidationError{Diagnostics: diags}
	}

	if diags := checkCapabilities(module, caps); len(diags) > 0 {
		return nil, &ValidationError{Diagnostics: diags}
	}

	return &Module{source: source, ir: module}, nil
}

// Source returns the WGSL text the module was loaded from.
func (m *Module) Source() string { return m.source }

// IR returns the lowered module. Callers must not modify it.
func (m *Module) IR() *ir.Module { return m.ir }

// EntryPoint returns the name of the first entry point for stage.
func (m *Module) EntryPoint(stage ir.ShaderStage) (string, bool) {
	for _, ep := range m.ir.EntryPoints {
		if ep.Stage == stage {
			return ep.Name, true
		}
	}
	return "", false
}

// NewModule wraps an already lowered module without validating it.
func NewModule(module *ir.Module) *Module {
	return &Module{ir: module}
}

func checkCapabilities(module *ir.Module, caps Capabilities) []string {
	var diags []string

	if !caps.Compute {
		for _, ep := range module.EntryPoints {
			if ep.Stage == ir.StageCompute {
				diags = append(diags, fmt.Sprintf("entry point %q: compute stage not supported by device", ep.Name))
			}
		}
	}

	if !caps.PushConstants {
		for _, gv := range module.GlobalVariables {
			if gv.Space == ir.SpacePushConstant || gv.Space == ir.SpaceImmediate {
				diags = append(diags, fmt.Sprintf("global variable %q: push constants not supported by device", gv.Name))
			}
		}
	}

	if !caps.Float64 {
		for i := range module.Types {
			if usesFloat64(module.Types[i].Inner) {
				name := module.Types[i].Name
				if name == "" {
					name = fmt.Sprintf("#%d", i)
				}
				diags = append(diags, fmt.Sprintf("type %s: f64 not supported by device", name))
			}
		}
	}

	return diags
}

func usesFloat64(inner ir.TypeInner) bool {
	isF64 := func(s ir.ScalarType) bool { return s.Kind == ir.ScalarFloat && s.Width == 8 }
	switch t := inner.(type) {
	case ir.ScalarType:
		return isF64(t)
	case ir.VectorType:
		return isF64(t.Scalar)
	case ir.MatrixType:
		return isF64(t.Scalar)
	}
	return false
}
