package shader

import "github.com/gogpu/naga/ir"

const quadWGSL = `
struct VertexOutput {
  @location(0) uv : vec2<f32>,
  @builtin(position) position : vec4<f32>,
}

@group(0) @binding(0) var u_texture : texture_2d<f32>;
@group(0) @binding(1) var u_sampler : sampler;

@vertex
fn vs_main(
  @location(0) pos : vec2<f32>,
  @location(1) uv : vec2<f32>,
) -> VertexOutput {
  return VertexOutput(uv, vec4<f32>(pos, 0.0, 1.0));
}

@fragment
fn fs_main(@location(0) uv : vec2<f32>) -> @location(0) vec4<f32> {
  return textureSample(u_texture, u_sampler, uv);
}
`

var (
	f32Scalar = ir.ScalarType{Kind: ir.ScalarFloat, Width: 4}
	f64Scalar = ir.ScalarType{Kind: ir.ScalarFloat, Width: 8}
)

// Type handles used by irModule.
const (
	tyF32 ir.TypeHandle = iota
	tyVec2
	tyVec4
	tySampler
	tyTexture2D
	tyComparisonSampler
	tyStorageTexture
	tyDepthTexture
	tyTexture2DArray
	tyTextureCube
	tyTexture3D
	tyTexture1DArray
	tyUniformStruct
	tyMultisampled2D
	tyOutputStruct
	tyTexture2DSint
)

func baseTypes() []ir.Type {
	return []ir.Type{
		tyF32:               {Inner: f32Scalar},
		tyVec2:              {Inner: ir.VectorType{Size: ir.Vec2, Scalar: f32Scalar}},
		tyVec4:              {Inner: ir.VectorType{Size: ir.Vec4, Scalar: f32Scalar}},
		tySampler:           {Inner: ir.SamplerType{}},
		tyTexture2D:         {Inner: ir.ImageType{Dim: ir.Dim2D, Class: ir.ImageClassSampled, SampledKind: ir.ScalarFloat}},
		tyComparisonSampler: {Inner: ir.SamplerType{Comparison: true}},
		tyStorageTexture:    {Inner: ir.ImageType{Dim: ir.Dim2D, Class: ir.ImageClassStorage}},
		tyDepthTexture:      {Inner: ir.ImageType{Dim: ir.Dim2D, Class: ir.ImageClassDepth}},
		tyTexture2DArray:    {Inner: ir.ImageType{Dim: ir.Dim2D, Arrayed: true, Class: ir.ImageClassSampled, SampledKind: ir.ScalarFloat}},
		tyTextureCube:       {Inner: ir.ImageType{Dim: ir.DimCube, Class: ir.ImageClassSampled, SampledKind: ir.ScalarFloat}},
		tyTexture3D:         {Inner: ir.ImageType{Dim: ir.Dim3D, Class: ir.ImageClassSampled, SampledKind: ir.ScalarFloat}},
		tyTexture1DArray:    {Inner: ir.ImageType{Dim: ir.Dim1D, Arrayed: true, Class: ir.ImageClassSampled, SampledKind: ir.ScalarFloat}},
		tyUniformStruct: {Name: "Globals", Inner: ir.StructType{
			Members: []ir.StructMember{{Name: "transform", Type: tyVec4}},
			Span:    16,
		}},
		tyMultisampled2D: {Inner: ir.ImageType{Dim: ir.Dim2D, Class: ir.ImageClassSampled, SampledKind: ir.ScalarFloat, Multisampled: true}},
		tyOutputStruct: {Name: "FragmentOutput", Inner: ir.StructType{
			Members: []ir.StructMember{
				{Name: "a", Type: tyVec4, Binding: location(0)},
				{Name: "b", Type: tyVec4, Binding: location(1)},
				{Name: "c", Type: tyVec4, Binding: location(2)},
				{Name: "d", Type: tyVec4, Binding: location(3)},
			},
			Span: 64,
		}},
		tyTexture2DSint: {Inner: ir.ImageType{Dim: ir.Dim2D, Class: ir.ImageClassSampled, SampledKind: ir.ScalarSint}},
	}
}

func location(loc uint32) *ir.Binding {
	b := ir.Binding(ir.LocationBinding{Location: loc})
	return &b
}

func builtin(v ir.BuiltinValue) *ir.Binding {
	b := ir.Binding(ir.BuiltinBinding{Builtin: v})
	return &b
}

func bound(name string, ty ir.TypeHandle, group, binding uint32) ir.GlobalVariable {
	return ir.GlobalVariable{
		Name:    name,
		Space:   ir.SpaceHandle,
		Binding: &ir.ResourceBinding{Group: group, Binding: binding},
		Type:    ty,
	}
}

// usesGlobals returns a function whose expressions reference each global.
func usesGlobals(name string, result *ir.FunctionResult, globals ...ir.GlobalVariableHandle) ir.Function {
	fn := ir.Function{Name: name, Result: result}
	for _, g := range globals {
		fn.Expressions = append(fn.Expressions, ir.Expression{Kind: ir.ExprGlobalVariable{Variable: g}})
	}
	return fn
}

func colorResult() *ir.FunctionResult {
	return &ir.FunctionResult{Type: tyVec4, Binding: location(0)}
}

// texturedModule models a vertex stage and a fragment stage sharing a
// texture at @group(0) @binding(0) and a sampler at @group(0) @binding(1).
// The fragment stage uses both; the vertex stage uses the globals in vsUses.
func texturedModule(vsUses ...ir.GlobalVariableHandle) *Module {
	return NewModule(&ir.Module{
		Types: baseTypes(),
		GlobalVariables: []ir.GlobalVariable{
			bound("t", tyTexture2D, 0, 0),
			bound("s", tySampler, 0, 1),
		},
		EntryPoints: []ir.EntryPoint{
			{
				Name:     "vs_main",
				Stage:    ir.StageVertex,
				Function: usesGlobals("vs_main", &ir.FunctionResult{Type: tyVec4, Binding: builtin(ir.BuiltinPosition)}, vsUses...),
			},
			{
				Name:     "fs_main",
				Stage:    ir.StageFragment,
				Function: usesGlobals("fs_main", colorResult(), 0, 1),
			},
		},
	})
}

// fragmentModule wraps globals and a single fragment entry point using all
// of them.
func fragmentModule(result *ir.FunctionResult, globals ...ir.GlobalVariable) *Module {
	handles := make([]ir.GlobalVariableHandle, len(globals))
	for i := range globals {
		handles[i] = ir.GlobalVariableHandle(i)
	}
	return NewModule(&ir.Module{
		Types:           baseTypes(),
		GlobalVariables: globals,
		EntryPoints: []ir.EntryPoint{
			{Name: "fs_main", Stage: ir.StageFragment, Function: usesGlobals("fs_main", result, handles...)},
		},
	})
}
