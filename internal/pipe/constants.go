package pipe

// Limits.
const (
	MaxClipPlanes   = 6
	MaxAttribs      = 32
	MaxColorBufs    = 8
	MaxConstBuffers = 16
)

// Shader stages.
const (
	ShaderVertex   = 0
	ShaderFragment = 1
	ShaderGeometry = 2
)

// Clear buffer bits.
const (
	ClearColor   = 1 << 0
	ClearDepth   = 1 << 1
	ClearStencil = 1 << 2
)

// Transfer usage bits.
const (
	TransferRead  = 1 << 0
	TransferWrite = 1 << 1
)

// Flush flags.
const (
	FlushRenderCache  = 1 << 0
	FlushTextureCache = 1 << 1
	FlushSwapBuffers  = 1 << 2
	FlushFrame        = 1 << 3
)

// Resource targets.
const (
	Buffer = iota
	Texture1D
	Texture2D
	Texture3D
	TextureCube
	TextureRect
)

// Bind flags.
const (
	BindDepthStencil   = 1 << 0
	BindRenderTarget   = 1 << 1
	BindSamplerView    = 1 << 3
	BindVertexBuffer   = 1 << 4
	BindIndexBuffer    = 1 << 5
	BindConstantBuffer = 1 << 6
	BindDisplayTarget  = 1 << 8
	BindTransferWrite  = 1 << 9
	BindTransferRead   = 1 << 10
)

// Primitive types.
const (
	PrimPoints = iota
	PrimLines
	PrimLineLoop
	PrimLineStrip
	PrimTriangles
	PrimTriangleStrip
	PrimTriangleFan
	PrimQuads
	PrimQuadStrip
	PrimPolygon
)

var constants = map[string]uint64{
	"PIPE_MAX_CLIP_PLANES":      MaxClipPlanes,
	"PIPE_MAX_ATTRIBS":          MaxAttribs,
	"PIPE_MAX_COLOR_BUFS":       MaxColorBufs,
	"PIPE_MAX_CONSTANT_BUFFERS": MaxConstBuffers,

	"PIPE_SHADER_VERTEX":   ShaderVertex,
	"PIPE_SHADER_FRAGMENT": ShaderFragment,
	"PIPE_SHADER_GEOMETRY": ShaderGeometry,

	"PIPE_CLEAR_COLOR":        ClearColor,
	"PIPE_CLEAR_DEPTH":        ClearDepth,
	"PIPE_CLEAR_STENCIL":      ClearStencil,
	"PIPE_CLEAR_DEPTHSTENCIL": ClearDepth | ClearStencil,

	"PIPE_TRANSFER_READ":       TransferRead,
	"PIPE_TRANSFER_WRITE":      TransferWrite,
	"PIPE_TRANSFER_READ_WRITE": TransferRead | TransferWrite,

	"PIPE_FLUSH_RENDER_CACHE":  FlushRenderCache,
	"PIPE_FLUSH_TEXTURE_CACHE": FlushTextureCache,
	"PIPE_FLUSH_SWAPBUFFERS":   FlushSwapBuffers,
	"PIPE_FLUSH_FRAME":         FlushFrame,

	"PIPE_BUFFER":       Buffer,
	"PIPE_TEXTURE_1D":   Texture1D,
	"PIPE_TEXTURE_2D":   Texture2D,
	"PIPE_TEXTURE_3D":   Texture3D,
	"PIPE_TEXTURE_CUBE": TextureCube,
	"PIPE_TEXTURE_RECT": TextureRect,

	"PIPE_BIND_DEPTH_STENCIL":   BindDepthStencil,
	"PIPE_BIND_RENDER_TARGET":   BindRenderTarget,
	"PIPE_BIND_SAMPLER_VIEW":    BindSamplerView,
	"PIPE_BIND_VERTEX_BUFFER":   BindVertexBuffer,
	"PIPE_BIND_INDEX_BUFFER":    BindIndexBuffer,
	"PIPE_BIND_CONSTANT_BUFFER": BindConstantBuffer,
	"PIPE_BIND_DISPLAY_TARGET":  BindDisplayTarget,
	"PIPE_BIND_TRANSFER_WRITE":  BindTransferWrite,
	"PIPE_BIND_TRANSFER_READ":   BindTransferRead,

	"PIPE_USAGE_DEFAULT": 0,
	"PIPE_USAGE_DYNAMIC": 1,
	"PIPE_USAGE_STATIC":  2,
	"PIPE_USAGE_STREAM":  3,

	"PIPE_PRIM_POINTS":         PrimPoints,
	"PIPE_PRIM_LINES":          PrimLines,
	"PIPE_PRIM_LINE_LOOP":      PrimLineLoop,
	"PIPE_PRIM_LINE_STRIP":     PrimLineStrip,
	"PIPE_PRIM_TRIANGLES":      PrimTriangles,
	"PIPE_PRIM_TRIANGLE_STRIP": PrimTriangleStrip,
	"PIPE_PRIM_TRIANGLE_FAN":   PrimTriangleFan,
	"PIPE_PRIM_QUADS":          PrimQuads,
	"PIPE_PRIM_QUAD_STRIP":     PrimQuadStrip,
	"PIPE_PRIM_POLYGON":        PrimPolygon,

	"PIPE_BLENDFACTOR_ONE":                0x1,
	"PIPE_BLENDFACTOR_SRC_COLOR":          0x2,
	"PIPE_BLENDFACTOR_SRC_ALPHA":          0x3,
	"PIPE_BLENDFACTOR_DST_ALPHA":          0x4,
	"PIPE_BLENDFACTOR_DST_COLOR":          0x5,
	"PIPE_BLENDFACTOR_SRC_ALPHA_SATURATE": 0x6,
	"PIPE_BLENDFACTOR_CONST_COLOR":        0x7,
	"PIPE_BLENDFACTOR_CONST_ALPHA":        0x8,
	"PIPE_BLENDFACTOR_SRC1_COLOR":         0x9,
	"PIPE_BLENDFACTOR_SRC1_ALPHA":         0x0a,
	"PIPE_BLENDFACTOR_ZERO":               0x11,
	"PIPE_BLENDFACTOR_INV_SRC_COLOR":      0x12,
	"PIPE_BLENDFACTOR_INV_SRC_ALPHA":      0x13,
	"PIPE_BLENDFACTOR_INV_DST_ALPHA":      0x14,
	"PIPE_BLENDFACTOR_INV_DST_COLOR":      0x15,
	"PIPE_BLENDFACTOR_INV_CONST_COLOR":    0x17,
	"PIPE_BLENDFACTOR_INV_CONST_ALPHA":    0x18,
	"PIPE_BLENDFACTOR_INV_SRC1_COLOR":     0x19,
	"PIPE_BLENDFACTOR_INV_SRC1_ALPHA":     0x1a,

	"PIPE_BLEND_ADD":              0,
	"PIPE_BLEND_SUBTRACT":         1,
	"PIPE_BLEND_REVERSE_SUBTRACT": 2,
	"PIPE_BLEND_MIN":              3,
	"PIPE_BLEND_MAX":              4,

	"PIPE_LOGICOP_CLEAR": 0,
	"PIPE_LOGICOP_COPY":  12,
	"PIPE_LOGICOP_SET":   15,

	"PIPE_MASK_R":    0x1,
	"PIPE_MASK_G":    0x2,
	"PIPE_MASK_B":    0x4,
	"PIPE_MASK_A":    0x8,
	"PIPE_MASK_RGBA": 0xf,
	"PIPE_MASK_Z":    0x10,
	"PIPE_MASK_S":    0x20,
	"PIPE_MASK_ZS":   0x30,

	"PIPE_FUNC_NEVER":    0,
	"PIPE_FUNC_LESS":     1,
	"PIPE_FUNC_EQUAL":    2,
	"PIPE_FUNC_LEQUAL":   3,
	"PIPE_FUNC_GREATER":  4,
	"PIPE_FUNC_NOTEQUAL": 5,
	"PIPE_FUNC_GEQUAL":   6,
	"PIPE_FUNC_ALWAYS":   7,

	"PIPE_STENCIL_OP_KEEP":      0,
	"PIPE_STENCIL_OP_ZERO":      1,
	"PIPE_STENCIL_OP_REPLACE":   2,
	"PIPE_STENCIL_OP_INCR":      3,
	"PIPE_STENCIL_OP_DECR":      4,
	"PIPE_STENCIL_OP_INCR_WRAP": 5,
	"PIPE_STENCIL_OP_DECR_WRAP": 6,
	"PIPE_STENCIL_OP_INVERT":    7,

	"PIPE_TEX_WRAP_REPEAT":                 0,
	"PIPE_TEX_WRAP_CLAMP":                  1,
	"PIPE_TEX_WRAP_CLAMP_TO_EDGE":          2,
	"PIPE_TEX_WRAP_CLAMP_TO_BORDER":        3,
	"PIPE_TEX_WRAP_MIRROR_REPEAT":          4,
	"PIPE_TEX_WRAP_MIRROR_CLAMP":           5,
	"PIPE_TEX_WRAP_MIRROR_CLAMP_TO_EDGE":   6,
	"PIPE_TEX_WRAP_MIRROR_CLAMP_TO_BORDER": 7,
	"PIPE_TEX_MIPFILTER_NEAREST":           0,
	"PIPE_TEX_MIPFILTER_LINEAR":            1,
	"PIPE_TEX_MIPFILTER_NONE":              2,
	"PIPE_TEX_FILTER_NEAREST":              0,
	"PIPE_TEX_FILTER_LINEAR":               1,
	"PIPE_TEX_COMPARE_NONE":                0,
	"PIPE_TEX_COMPARE_R_TO_TEXTURE":        1,

	"PIPE_POLYGON_MODE_FILL":  0,
	"PIPE_POLYGON_MODE_LINE":  1,
	"PIPE_POLYGON_MODE_POINT": 2,

	"PIPE_SPRITE_COORD_UPPER_LEFT": 0,
	"PIPE_SPRITE_COORD_LOWER_LEFT": 1,

	"PIPE_SWIZZLE_RED":   0,
	"PIPE_SWIZZLE_GREEN": 1,
	"PIPE_SWIZZLE_BLUE":  2,
	"PIPE_SWIZZLE_ALPHA": 3,
	"PIPE_SWIZZLE_ZERO":  4,
	"PIPE_SWIZZLE_ONE":   5,

	"PIPE_TEX_FACE_POS_X": 0,
	"PIPE_TEX_FACE_NEG_X": 1,
	"PIPE_TEX_FACE_POS_Y": 2,
	"PIPE_TEX_FACE_NEG_Y": 3,
	"PIPE_TEX_FACE_POS_Z": 4,
	"PIPE_TEX_FACE_NEG_Z": 5,

	"PIPE_UNREFERENCED":         0,
	"PIPE_REFERENCED_FOR_READ":  1,
	"PIPE_REFERENCED_FOR_WRITE": 2,
}

func init() {
	for f := FormatNone; f < formatCount; f++ {
		constants[f.String()] = uint64(f)
	}
}

// LookupConstant resolves a symbolic constant name.
func LookupConstant(name string) (uint64, bool) {
	v, ok := constants[name]
	return v, ok
}
