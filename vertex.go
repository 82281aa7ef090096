package pipecache

import "github.com/gogpu/gputypes"

// vertexStride is the byte size of one default vertex: position vec2,
// uv vec2 and color vec4, all float32.
const vertexStride = 32

// DefaultVertexLayouts returns the vertex layout pipelines are built with
// unless WithVertexLayouts is given: one interleaved buffer with position
// at location 0, uv at location 1 and color at location 2.
func DefaultVertexLayouts() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: vertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
				{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
				{Format: gputypes.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 2},
			},
		},
	}
}
