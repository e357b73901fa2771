package pipe

// ResourceTemplate describes a resource to create (pipe_resource).
type ResourceTemplate struct {
	Target    uint32
	Format    Format
	Width     uint32
	Height    uint32
	Depth     uint32
	ArraySize uint32
	LastLevel uint32
	Bind      uint32
	Usage     uint32
}

// LevelSize returns the dimensions of a mip level, never smaller than 1.
func (t ResourceTemplate) LevelSize(level uint32) (w, h, d uint32) {
	minify := func(v uint32) uint32 {
		v >>= level
		if v == 0 {
			return 1
		}
		return v
	}
	return minify(t.Width), minify(t.Height), minify(t.Depth)
}

// Resource is a backend buffer or texture.
type Resource interface {
	Template() ResourceTemplate
}

// Surface is a 2D view of one level/layer of a texture.
type Surface struct {
	Resource Resource
	Format   Format
	Face     uint32
	Level    uint32
	Layer    uint32
	Width    uint32
	Height   uint32
}

// NewSurface returns the surface for (face, level, layer) of res.
func NewSurface(res Resource, face, level, layer uint32) *Surface {
	t := res.Template()
	w, h, _ := t.LevelSize(level)
	return &Surface{
		Resource: res,
		Format:   t.Format,
		Face:     face,
		Level:    level,
		Layer:    layer,
		Width:    w,
		Height:   h,
	}
}

// Framebuffer is pipe_framebuffer_state.
type Framebuffer struct {
	Width  uint32
	Height uint32
	Cbufs  []*Surface
	Zsbuf  *Surface
}

// VertexBuffer is pipe_vertex_buffer.
type VertexBuffer struct {
	Stride       uint32
	MaxIndex     uint32
	BufferOffset uint32
	Buffer       Resource
}

// IndexBuffer is pipe_index_buffer. A zero value unbinds.
type IndexBuffer struct {
	IndexSize uint32
	Offset    uint32
	Buffer    Resource
}

// Clip is pipe_clip_state with the user planes flattened.
type Clip struct {
	UCP [MaxClipPlanes * 4]float32
	Nr  uint32
}

// StencilRef is pipe_stencil_ref.
type StencilRef struct {
	RefValue [2]uint32
}

// Shader holds TGSI shader tokens in text form.
type Shader struct {
	Tokens string
}

// SamplerViewTemplate is the pipe_sampler_view template passed to
// create_sampler_view.
type SamplerViewTemplate struct {
	Format     Format
	FirstLevel uint32
	LastLevel  uint32
	SwizzleR   uint32
	SwizzleG   uint32
	SwizzleB   uint32
	SwizzleA   uint32
}

// SamplerView binds a texture with a view template.
type SamplerView struct {
	Texture  Resource
	Template SamplerViewTemplate
}

// Driver creates screens. It is the entry point of a backend.
type Driver interface {
	CreateScreen() (Screen, error)
}

// Screen is a backend device (pipe_screen).
type Screen interface {
	Name() string
	Vendor() string
	ContextCreate() (Context, error)
	IsFormatSupported(format Format, target, bind uint32) bool
	ResourceCreate(templ ResourceTemplate) (Resource, error)
}

// Context is a backend rendering context (pipe_context).
//
// State setters cannot fail; operations that touch resource memory return
// an error when their arguments do not fit the resource.
type Context interface {
	SetBlend(s *Blend)
	SetRasterizer(s *Rasterizer)
	SetDepthStencilAlpha(s *DepthStencilAlpha)
	SetVertexSampler(index int, s *Sampler)
	SetFragmentSampler(index int, s *Sampler)
	SetVertexShader(s *Shader)
	SetFragmentShader(s *Shader)
	SetBlendColor(s *BlendColor)
	SetStencilRef(s StencilRef)
	SetClip(s Clip)
	SetConstantBuffer(shader, index uint32, buf Resource)
	SetFramebuffer(fb Framebuffer)
	SetPolygonStipple(s *PolyStipple)
	SetScissor(s *Scissor)
	SetViewport(s *Viewport)
	SetVertexSamplerView(index int, v *SamplerView)
	SetFragmentSamplerView(index int, v *SamplerView)
	SetVertexBuffer(index int, vb VertexBuffer)
	SetVertexElement(index int, ve *VertexElement)
	SetVertexElements(count int)
	SetIndexBuffer(ib IndexBuffer)

	CreateSamplerView(tex Resource, templ SamplerViewTemplate) (*SamplerView, error)
	DrawVBO(info *DrawInfo) error
	ResourceCopyRegion(dst Resource, dstSub Subresource, dstx, dsty, dstz uint32,
		src Resource, srcSub Subresource, srcx, srcy, srcz uint32, width, height uint32) error
	BufferRead(buf Resource) ([]byte, error)
	BufferWrite(buf Resource, data []byte, offset uint32) error
	TransferInlineWrite(res Resource, sub Subresource, usage uint32, box Box, data []byte, stride, sliceStride uint32) error
	SurfaceWrite(s *Surface, data []byte, stride uint32) error
	// SurfaceReadRGBA8 returns w*h*4 bytes of the region converted to RGBA8.
	SurfaceReadRGBA8(s *Surface, x, y, w, h uint32) ([]byte, error)
	Flush(flags uint32)
	Clear(buffers uint32, rgba [4]float32, depth float64, stencil uint32) error
	ClearRenderTarget(dst *Surface, rgba [4]float32, x, y, w, h uint32) error
	ClearDepthStencil(dst *Surface, flags uint32, depth float64, stencil uint32, x, y, w, h uint32) error
}
