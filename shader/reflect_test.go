package shader

import (
	"errors"
	"testing"

	"github.com/gogpu/naga/ir"
)

func TestReflectQuadShader(t *testing.T) {
	m, err := Load(quadWGSL, DefaultCapabilities())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	groups, err := Reflect(m)
	if err != nil {
		t.Fatalf("Reflect() error = %v", err)
	}

	want := []BindingDescriptor{
		{
			Name:       "u_texture",
			Slot:       0,
			Visibility: StageFragment,
			Kind:       KindSampledTexture,
			Texture:    TextureBinding{Dimension: View2D, SampleKind: SampleFloat},
		},
		{
			Name:       "u_sampler",
			Slot:       1,
			Visibility: StageFragment,
			Kind:       KindSampler,
			Sampler:    SamplerFiltering,
		},
	}
	if len(groups[0]) != len(want) {
		t.Fatalf("group 0 has %d descriptors, want %d: %v", len(groups[0]), len(want), groups[0])
	}
	for i := range want {
		if groups[0][i] != want[i] {
			t.Errorf("group 0[%d] = %+v, want %+v", i, groups[0][i], want[i])
		}
	}
	for g := 1; g < MaxBindGroups; g++ {
		if len(groups[g]) != 0 {
			t.Errorf("group %d = %v, want empty", g, groups[g])
		}
	}
}

func TestReflectDeterministic(t *testing.T) {
	a, err := Load(quadWGSL, DefaultCapabilities())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	b, err := Load(quadWGSL, DefaultCapabilities())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	ga, err := Reflect(a)
	if err != nil {
		t.Fatalf("Reflect(a) error = %v", err)
	}
	gb, err := Reflect(b)
	if err != nil {
		t.Fatalf("Reflect(b) error = %v", err)
	}

	for g := range ga {
		if len(ga[g]) != len(gb[g]) {
			t.Fatalf("group %d: %d vs %d descriptors", g, len(ga[g]), len(gb[g]))
		}
		for i := range ga[g] {
			if ga[g][i] != gb[g][i] {
				t.Errorf("group %d[%d]: %+v != %+v", g, i, ga[g][i], gb[g][i])
			}
		}
	}
}

func TestReflectVisibility(t *testing.T) {
	tests := []struct {
		name   string
		vsUses []ir.GlobalVariableHandle
		want   Stage
	}{
		{"fragment only", nil, StageFragment},
		{"vertex and fragment", []ir.GlobalVariableHandle{0}, StageVertex | StageFragment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groups, err := Reflect(texturedModule(tt.vsUses...))
			if err != nil {
				t.Fatalf("Reflect() error = %v", err)
			}
			if got := groups[0][0].Visibility; got != tt.want {
				t.Errorf("texture visibility = %v, want %v", got, tt.want)
			}
			if got := groups[0][1].Visibility; got != StageFragment {
				t.Errorf("sampler visibility = %v, want %v", got, StageFragment)
			}
		})
	}
}

const visibilityWGSL = `
struct Globals {
  tint : vec4<f32>,
}

@group(0) @binding(0) var<uniform> globals : Globals;
@group(0) @binding(1) var t_color : texture_2d<f32>;
@group(0) @binding(2) var s_color : sampler;
@group(0) @binding(3) var t_unused : texture_2d<f32>;
@group(1) @binding(0) var t_ms : texture_multisampled_2d<f32>;
@group(1) @binding(1) var t_sky : texture_cube_array<f32>;
@group(1) @binding(2) var s_shadow : sampler_comparison;

fn sample_color(uv : vec2<f32>) -> vec4<f32> {
  return textureSample(t_color, s_color, uv);
}

@vertex
fn vs_main(@location(0) pos : vec2<f32>) -> @builtin(position) vec4<f32> {
  return vec4<f32>(pos, 0.0, 1.0) * globals.tint;
}

@fragment
fn fs_main(@builtin(position) pos : vec4<f32>) -> @location(0) vec4<f32> {
  let ms = textureLoad(t_ms, vec2<i32>(pos.xy), 0);
  let sky = textureSample(t_sky, s_color, vec3<f32>(0.0, 0.0, 1.0), 0);
  return sample_color(pos.xy) * globals.tint + ms + sky;
}
`

func TestReflectVisibilityFromSource(t *testing.T) {
	m, err := Load(visibilityWGSL, DefaultCapabilities())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	groups, err := Reflect(m)
	if err != nil {
		t.Fatalf("Reflect() error = %v", err)
	}

	byName := make(map[string]BindingDescriptor)
	for g := range groups {
		for _, d := range groups[g] {
			byName[d.Name] = d
		}
	}

	tests := []struct {
		name string
		want BindingDescriptor
	}{
		{"globals", BindingDescriptor{Slot: 0, Visibility: StageVertex | StageFragment, Kind: KindUniformBuffer}},
		{"t_color", BindingDescriptor{Slot: 1, Visibility: StageFragment, Kind: KindSampledTexture,
			Texture: TextureBinding{Dimension: View2D, SampleKind: SampleFloat}}},
		{"s_color", BindingDescriptor{Slot: 2, Visibility: StageFragment, Kind: KindSampler, Sampler: SamplerFiltering}},
		{"t_unused", BindingDescriptor{Slot: 3, Visibility: StageNone, Kind: KindSampledTexture,
			Texture: TextureBinding{Dimension: View2D, SampleKind: SampleFloat}}},
		{"t_ms", BindingDescriptor{Slot: 0, Visibility: StageFragment, Kind: KindSampledTexture,
			Texture: TextureBinding{Dimension: View2D, Multisampled: true, SampleKind: SampleFloat}}},
		{"t_sky", BindingDescriptor{Slot: 1, Visibility: StageFragment, Kind: KindSampledTexture,
			Texture: TextureBinding{Dimension: ViewCubeArray, SampleKind: SampleFloat}}},
		{"s_shadow", BindingDescriptor{Slot: 2, Visibility: StageNone, Kind: KindSampler, Sampler: SamplerComparison}},
	}

	if len(byName) != len(tests) {
		t.Errorf("reflected %d bindings, want %d", len(byName), len(tests))
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := byName[tt.name]
			if !ok {
				t.Fatalf("%s not reflected", tt.name)
			}
			tt.want.Name = tt.name
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
	if len(groups[0]) != 4 || len(groups[1]) != 3 {
		t.Errorf("group sizes = %d, %d, want 4, 3", len(groups[0]), len(groups[1]))
	}
}

func TestReflectVisibilityThroughHelper(t *testing.T) {
	helper := usesGlobals("sample_helper", colorResult(), 0)
	fs := ir.Function{
		Name:   "fs_main",
		Result: colorResult(),
		Expressions: []ir.Expression{
			{Kind: ir.ExprGlobalVariable{Variable: 1}},
			{Kind: ir.ExprCallResult{Function: 0}},
		},
		Body: []ir.Statement{
			{Kind: ir.StmtIf{Accept: ir.Block{
				{Kind: ir.StmtCall{Function: 0}},
			}}},
		},
	}

	m := NewModule(&ir.Module{
		Types: baseTypes(),
		GlobalVariables: []ir.GlobalVariable{
			bound("t", tyTexture2D, 0, 0),
			bound("s", tySampler, 0, 1),
		},
		Functions:   []ir.Function{helper},
		EntryPoints: []ir.EntryPoint{{Name: "fs_main", Stage: ir.StageFragment, Function: fs}},
	})

	groups, err := Reflect(m)
	if err != nil {
		t.Fatalf("Reflect() error = %v", err)
	}
	if got := groups[0][0].Visibility; got != StageFragment {
		t.Errorf("texture used by helper: visibility = %v, want %v", got, StageFragment)
	}
}

func TestReflectUnusedBindingHasEmptyVisibility(t *testing.T) {
	m := NewModule(&ir.Module{
		Types: baseTypes(),
		GlobalVariables: []ir.GlobalVariable{
			bound("unused", tySampler, 1, 3),
		},
		EntryPoints: []ir.EntryPoint{{Name: "fs_main", Stage: ir.StageFragment, Function: usesGlobals("fs_main", colorResult())}},
	})

	groups, err := Reflect(m)
	if err != nil {
		t.Fatalf("Reflect() error = %v", err)
	}
	if len(groups[1]) != 1 {
		t.Fatalf("group 1 has %d descriptors, want 1", len(groups[1]))
	}
	if groups[1][0].Visibility != StageNone {
		t.Errorf("visibility = %v, want none", groups[1][0].Visibility)
	}
	if groups[1][0].Slot != 3 {
		t.Errorf("slot = %d, want 3", groups[1][0].Slot)
	}
}

func TestReflectResourceKinds(t *testing.T) {
	uniform := ir.GlobalVariable{
		Name:    "globals",
		Space:   ir.SpaceUniform,
		Binding: &ir.ResourceBinding{Group: 0, Binding: 0},
		Type:    tyUniformStruct,
	}

	tests := []struct {
		name   string
		global ir.GlobalVariable
		want   BindingDescriptor
	}{
		{
			name:   "comparison sampler",
			global: bound("shadow", tyComparisonSampler, 0, 0),
			want:   BindingDescriptor{Name: "shadow", Kind: KindSampler, Sampler: SamplerComparison},
		},
		{
			name:   "2d array",
			global: bound("layers", tyTexture2DArray, 0, 0),
			want:   BindingDescriptor{Name: "layers", Kind: KindSampledTexture, Texture: TextureBinding{Dimension: View2DArray, SampleKind: SampleFloat}},
		},
		{
			name:   "cube",
			global: bound("sky", tyTextureCube, 0, 0),
			want:   BindingDescriptor{Name: "sky", Kind: KindSampledTexture, Texture: TextureBinding{Dimension: ViewCube, SampleKind: SampleFloat}},
		},
		{
			name:   "3d",
			global: bound("volume", tyTexture3D, 0, 0),
			want:   BindingDescriptor{Name: "volume", Kind: KindSampledTexture, Texture: TextureBinding{Dimension: View3D, SampleKind: SampleFloat}},
		},
		{
			name:   "multisampled",
			global: bound("msaa", tyMultisampled2D, 0, 0),
			want:   BindingDescriptor{Name: "msaa", Kind: KindSampledTexture, Texture: TextureBinding{Dimension: View2D, Multisampled: true, SampleKind: SampleFloat}},
		},
		{
			name:   "uniform buffer",
			global: uniform,
			want:   BindingDescriptor{Name: "globals", Kind: KindUniformBuffer},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groups, err := Reflect(fragmentModule(colorResult(), tt.global))
			if err != nil {
				t.Fatalf("Reflect() error = %v", err)
			}
			if len(groups[0]) != 1 {
				t.Fatalf("group 0 has %d descriptors, want 1", len(groups[0]))
			}
			want := tt.want
			want.Visibility = StageFragment
			if groups[0][0] != want {
				t.Errorf("descriptor = %+v, want %+v", groups[0][0], want)
			}
		})
	}
}

func TestReflectUnsupported(t *testing.T) {
	storageBuffer := ir.GlobalVariable{
		Name:    "particles",
		Space:   ir.SpaceStorage,
		Binding: &ir.ResourceBinding{Group: 0, Binding: 0},
		Type:    tyUniformStruct,
	}

	tests := []struct {
		name   string
		global ir.GlobalVariable
	}{
		{"storage texture", bound("out", tyStorageTexture, 0, 0)},
		{"depth texture", bound("depth", tyDepthTexture, 0, 0)},
		{"1d array", bound("strip", tyTexture1DArray, 0, 0)},
		{"integer texture", bound("ids", tyTexture2DSint, 0, 0)},
		{"storage buffer", storageBuffer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Reflect(fragmentModule(colorResult(), tt.global))
			if !errors.Is(err, ErrUnsupportedBindingType) {
				t.Fatalf("Reflect() error = %v, want ErrUnsupportedBindingType", err)
			}
			var be *BindingError
			if !errors.As(err, &be) {
				t.Fatalf("error %T is not *BindingError", err)
			}
			if be.Name != tt.global.Name {
				t.Errorf("BindingError.Name = %q, want %q", be.Name, tt.global.Name)
			}
		})
	}
}

func TestReflectTooManyBindGroups(t *testing.T) {
	newModule := func() *Module {
		return fragmentModule(colorResult(),
			bound("kept", tySampler, 3, 0),
			bound("dropped", tySampler, 4, 0),
		)
	}

	_, err := Reflect(newModule())
	if !errors.Is(err, ErrTooManyBindGroups) {
		t.Fatalf("Reflect() error = %v, want ErrTooManyBindGroups", err)
	}

	var truncated []string
	groups, err := ReflectWith(newModule(), ReflectOptions{
		TruncateGroups: true,
		OnTruncate: func(name string, group, binding uint32) {
			truncated = append(truncated, name)
		},
	})
	if err != nil {
		t.Fatalf("ReflectWith(TruncateGroups) error = %v", err)
	}
	if groups.Len() != 1 || groups[3][0].Name != "kept" {
		t.Errorf("groups = %v, want only %q in group 3", groups, "kept")
	}
	if len(truncated) != 1 || truncated[0] != "dropped" {
		t.Errorf("OnTruncate saw %v, want [dropped]", truncated)
	}
}

func TestReflectDuplicateBinding(t *testing.T) {
	m := fragmentModule(colorResult(),
		bound("a", tySampler, 0, 2),
		bound("b", tyTexture2D, 0, 2),
	)

	_, err := Reflect(m)
	if !errors.Is(err, ErrDuplicateBinding) {
		t.Fatalf("Reflect() error = %v, want ErrDuplicateBinding", err)
	}
}

func TestReflectDeclarationOrder(t *testing.T) {
	m := fragmentModule(colorResult(),
		bound("third", tySampler, 0, 5),
		bound("first", tySampler, 0, 1),
		bound("other", tySampler, 2, 0),
		bound("second", tySampler, 0, 3),
	)

	groups, err := Reflect(m)
	if err != nil {
		t.Fatalf("Reflect() error = %v", err)
	}

	var names []string
	for _, d := range groups[0] {
		names = append(names, d.Name)
	}
	want := []string{"third", "first", "second"}
	if len(names) != len(want) {
		t.Fatalf("group 0 = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("group 0 = %v, want %v", names, want)
			break
		}
	}
}

func TestStageString(t *testing.T) {
	tests := []struct {
		stage Stage
		want  string
	}{
		{StageNone, "none"},
		{StageVertex, "vertex"},
		{StageVertex | StageFragment, "vertex|fragment"},
		{StageCompute, "compute"},
	}
	for _, tt := range tests {
		if got := tt.stage.String(); got != tt.want {
			t.Errorf("Stage(%d).String() = %q, want %q", tt.stage, got, tt.want)
		}
	}
}

func TestBindingDescriptorString(t *testing.T) {
	tests := []struct {
		desc BindingDescriptor
		want string
	}{
		{BindingDescriptor{Kind: KindSampledTexture, Texture: TextureBinding{Dimension: View2D, SampleKind: SampleFloat}}, "texture-2d-float"},
		{BindingDescriptor{Kind: KindSampledTexture, Texture: TextureBinding{Dimension: ViewCubeArray, SampleKind: SampleFloat, Multisampled: true}}, "texture-cube-array-float-ms"},
		{BindingDescriptor{Kind: KindSampler, Sampler: SamplerComparison}, "sampler-comparison"},
		{BindingDescriptor{Kind: KindUniformBuffer}, "uniform"},
	}
	for _, tt := range tests {
		if got := tt.desc.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
