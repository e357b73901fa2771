package memdev

import (
	"fmt"

	"github.com/bitrig/bitrig-xenocara/internal/pipe"
)

// Context is a memdev rendering context. Bound state is kept so tests can
// inspect what the replay pushed.
type Context struct {
	screen *Screen

	Blend             *pipe.Blend
	Rasterizer        *pipe.Rasterizer
	DepthStencilAlpha *pipe.DepthStencilAlpha
	VertexShader      *pipe.Shader
	FragmentShader    *pipe.Shader
	BlendColor        *pipe.BlendColor
	StencilRef        pipe.StencilRef
	Clip              pipe.Clip
	Framebuffer       pipe.Framebuffer
	PolygonStipple    *pipe.PolyStipple
	Scissor           *pipe.Scissor
	Viewport          *pipe.Viewport
	IndexBuffer       pipe.IndexBuffer

	VertexSamplers       map[int]*pipe.Sampler
	FragmentSamplers     map[int]*pipe.Sampler
	VertexSamplerViews   map[int]*pipe.SamplerView
	FragmentSamplerViews map[int]*pipe.SamplerView
	ConstantBuffers      map[[2]uint32]pipe.Resource
	VertexBuffers        map[int]pipe.VertexBuffer
	VertexElements       map[int]*pipe.VertexElement
	NumVertexElements    int

	Draws        []pipe.DrawInfo
	Flushes      []uint32
	Copies       int
	SurfaceReads int
}

var _ pipe.Context = (*Context)(nil)

func setIndexed[T any](m *map[int]T, i int, v T) {
	if *m == nil {
		*m = make(map[int]T)
	}
	(*m)[i] = v
}

func (c *Context) SetBlend(s *pipe.Blend) { c.Blend = s }
func (c *Context) SetRasterizer(s *pipe.Rasterizer) { c.Rasterizer = s }
func (c *Context) SetDepthStencilAlpha(s *pipe.DepthStencilAlpha) { c.DepthStencilAlpha = s }
func (c *Context) SetVertexShader(s *pipe.Shader) { c.VertexShader = s }
func (c *Context) SetFragmentShader(s *pipe.Shader) { c.FragmentShader = s }
func (c *Context) SetBlendColor(s *pipe.BlendColor) { c.BlendColor = s }
func (c *Context) SetStencilRef(s pipe.StencilRef) { c.StencilRef = s }
func (c *Context) SetClip(s pipe.Clip) { c.Clip = s }
func (c *Context) SetFramebuffer(fb pipe.Framebuffer) { c.Framebuffer = fb }
func (c *Context) SetPolygonStipple(s *pipe.PolyStipple) { c.PolygonStipple = s }
func (c *Context) SetScissor(s *pipe.Scissor) { c.Scissor = s }
func (c *Context) SetViewport(s *pipe.Viewport) { c.Viewport = s }
func (c *Context) SetIndexBuffer(ib pipe.IndexBuffer) { c.IndexBuffer = ib }
func (c *Context) SetVertexElements(count int) { c.NumVertexElements = count }

func (c *Context) SetVertexSampler(i int, s *pipe.Sampler) {
	setIndexed(&c.VertexSamplers, i, s)
}

func (c *Context) SetFragmentSampler(i int, s *pipe.Sampler) {
	setIndexed(&c.FragmentSamplers, i, s)
}

func (c *Context) SetVertexSamplerView(i int, v *pipe.SamplerView) {
	setIndexed(&c.VertexSamplerViews, i, v)
}

func (c *Context) SetFragmentSamplerView(i int, v *pipe.SamplerView) {
	setIndexed(&c.FragmentSamplerViews, i, v)
}

func (c *Context) SetVertexBuffer(i int, vb pipe.VertexBuffer) {
	setIndexed(&c.VertexBuffers, i, vb)
}

func (c *Context) SetVertexElement(i int, ve *pipe.VertexElement) {
	setIndexed(&c.VertexElements, i, ve)
}

func (c *Context) SetConstantBuffer(shader, index uint32, buf pipe.Resource) {
	if c.ConstantBuffers == nil {
		c.ConstantBuffers = make(map[[2]uint32]pipe.Resource)
	}
	c.ConstantBuffers[[2]uint32{shader, index}] = buf
}

// CreateSamplerView implements pipe.Context.
func (c *Context) CreateSamplerView(tex pipe.Resource, templ pipe.SamplerViewTemplate) (*pipe.SamplerView, error) {
	if _, err := asResource(tex); err != nil {
		return nil, err
	}
	return &pipe.SamplerView{Texture: tex, Template: templ}, nil
}

// DrawVBO records the draw. Nothing is rasterized.
func (c *Context) DrawVBO(info *pipe.DrawInfo) error {
	if info == nil {
		return fmt.Errorf("memdev: draw without info")
	}
	if info.Indexed && c.IndexBuffer.Buffer == nil {
		return fmt.Errorf("memdev: indexed draw without index buffer")
	}
	c.Draws = append(c.Draws, *info)
	return nil
}

// ResourceCopyRegion copies a width x height rectangle between textures, or
// width bytes between buffers.
func (c *Context) ResourceCopyRegion(dst pipe.Resource, dstSub pipe.Subresource, dstx, dsty, dstz uint32,
	src pipe.Resource, srcSub pipe.Subresource, srcx, srcy, srcz uint32, width, height uint32) error {
	d, err := asResource(dst)
	if err != nil {
		return err
	}
	s, err := asResource(src)
	if err != nil {
		return err
	}

	if d.isBuffer() || s.isBuffer() {
		if !d.isBuffer() || !s.isBuffer() {
			return fmt.Errorf("memdev: copy between buffer and texture")
		}
		sb, db := s.levels[0], d.levels[0]
		if uint64(srcx)+uint64(width) > uint64(len(sb)) || uint64(dstx)+uint64(width) > uint64(len(db)) {
			return fmt.Errorf("memdev: buffer copy of %d bytes out of range", width)
		}
		copy(db[dstx:dstx+width], sb[srcx:srcx+width])
		c.Copies++
		return nil
	}

	if d.templ.Format.BlockSize() != s.templ.Format.BlockSize() {
		return fmt.Errorf("memdev: copy between %s and %s", s.templ.Format, d.templ.Format)
	}
	sr, err := s.region(srcSub.Level, sliceOf(s, srcSub, srcz), srcx, srcy, width, height)
	if err != nil {
		return fmt.Errorf("copy source: %w", err)
	}
	dr, err := d.region(dstSub.Level, sliceOf(d, dstSub, dstz), dstx, dsty, width, height)
	if err != nil {
		return fmt.Errorf("copy destination: %w", err)
	}
	for y := 0; y < int(height); y++ {
		copy(dr.row(y), sr.row(y))
	}
	c.Copies++
	return nil
}

func sliceOf(r *Resource, sub pipe.Subresource, z uint32) uint32 {
	if r.templ.Target == pipe.TextureCube {
		return sub.Face
	}
	return z
}

// BufferRead returns a copy of the buffer contents.
func (c *Context) BufferRead(buf pipe.Resource) ([]byte, error) {
	r, err := asResource(buf)
	if err != nil {
		return nil, err
	}
	if !r.isBuffer() {
		return nil, fmt.Errorf("memdev: buffer read of a texture")
	}
	out := make([]byte, len(r.levels[0]))
	copy(out, r.levels[0])
	return out, nil
}

// BufferWrite stores data at offset.
func (c *Context) BufferWrite(buf pipe.Resource, data []byte, offset uint32) error {
	r, err := asResource(buf)
	if err != nil {
		return err
	}
	if !r.isBuffer() {
		return fmt.Errorf("memdev: buffer write to a texture")
	}
	if uint64(offset)+uint64(len(data)) > uint64(len(r.levels[0])) {
		return fmt.Errorf("memdev: buffer write of %d bytes at %d exceeds size %d", len(data), offset, len(r.levels[0]))
	}
	copy(r.levels[0][offset:], data)
	return nil
}

// TransferInlineWrite uploads a box of texels. Rows of data are stride
// bytes apart and depth slices sliceStride bytes apart.
func (c *Context) TransferInlineWrite(res pipe.Resource, sub pipe.Subresource, usage uint32, box pipe.Box,
	data []byte, stride, sliceStride uint32) error {
	r, err := asResource(res)
	if err != nil {
		return err
	}
	if usage&pipe.TransferWrite == 0 {
		return fmt.Errorf("memdev: inline write without PIPE_TRANSFER_WRITE")
	}
	if box.X < 0 || box.Y < 0 || box.Z < 0 || box.Width < 0 || box.Height < 0 || box.Depth < 0 {
		return fmt.Errorf("memdev: negative transfer box %+v", box)
	}

	if r.isBuffer() {
		if int(box.Width) > len(data) {
			return fmt.Errorf("memdev: inline write of %d bytes with %d bytes of data", box.Width, len(data))
		}
		return c.BufferWrite(res, data[:box.Width], uint32(box.X))
	}

	for z := int32(0); z < box.Depth; z++ {
		g, err := r.region(sub.Level, sliceOf(r, sub, uint32(box.Z+z)), uint32(box.X), uint32(box.Y), uint32(box.Width), uint32(box.Height))
		if err != nil {
			return fmt.Errorf("inline write slice %d: %w", box.Z+z, err)
		}
		for y := 0; y < g.height; y++ {
			start := int(z)*int(sliceStride) + y*int(stride)
			row := g.row(y)
			if start+len(row) > len(data) {
				return fmt.Errorf("memdev: inline write data too short (%d bytes)", len(data))
			}
			copy(row, data[start:start+len(row)])
		}
	}
	return nil
}

// SurfaceWrite replaces the whole surface with rows of data stride bytes
// apart.
func (c *Context) SurfaceWrite(s *pipe.Surface, data []byte, stride uint32) error {
	if s == nil {
		return fmt.Errorf("memdev: nil surface")
	}
	r, err := asResource(s.Resource)
	if err != nil {
		return err
	}
	g, err := r.region(s.Level, surfaceSlice(s), 0, 0, s.Width, s.Height)
	if err != nil {
		return err
	}
	for y := 0; y < g.height; y++ {
		start := y * int(stride)
		row := g.row(y)
		if start+len(row) > len(data) {
			return fmt.Errorf("memdev: surface write data too short (%d bytes)", len(data))
		}
		copy(row, data[start:start+len(row)])
	}
	return nil
}

// SurfaceReadRGBA8 implements pipe.Context. It never modifies the surface.
func (c *Context) SurfaceReadRGBA8(s *pipe.Surface, x, y, w, h uint32) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("memdev: nil surface")
	}
	r, err := asResource(s.Resource)
	if err != nil {
		return nil, err
	}
	g, err := r.region(s.Level, surfaceSlice(s), x, y, w, h)
	if err != nil {
		return nil, err
	}
	c.SurfaceReads++

	out := make([]byte, 0, int(w*h)*4)
	for row := 0; row < g.height; row++ {
		line := g.row(row)
		for col := 0; col < g.width; col++ {
			px, err := decodeRGBA8(s.Format, line[col*g.bpp:(col+1)*g.bpp])
			if err != nil {
				return nil, err
			}
			out = append(out, px[:]...)
		}
	}
	return out, nil
}

// Flush records the flush flags.
func (c *Context) Flush(flags uint32) {
	c.Flushes = append(c.Flushes, flags)
}

// Clear clears the bound framebuffer.
func (c *Context) Clear(buffers uint32, rgba [4]float32, depth float64, stencil uint32) error {
	fb := c.Framebuffer
	if buffers&pipe.ClearColor != 0 {
		for i, cbuf := range fb.Cbufs {
			if cbuf == nil {
				continue
			}
			if err := c.ClearRenderTarget(cbuf, rgba, 0, 0, cbuf.Width, cbuf.Height); err != nil {
				return fmt.Errorf("cbuf %d: %w", i, err)
			}
		}
	}
	if zs := buffers & (pipe.ClearDepth | pipe.ClearStencil); zs != 0 && fb.Zsbuf != nil {
		if err := c.ClearDepthStencil(fb.Zsbuf, zs, depth, stencil, 0, 0, fb.Zsbuf.Width, fb.Zsbuf.Height); err != nil {
			return fmt.Errorf("zsbuf: %w", err)
		}
	}
	return nil
}

// ClearRenderTarget fills a region of a color surface.
func (c *Context) ClearRenderTarget(dst *pipe.Surface, rgba [4]float32, x, y, w, h uint32) error {
	if dst == nil {
		return fmt.Errorf("memdev: nil surface")
	}
	texel, err := encodeColor(dst.Format, rgba)
	if err != nil {
		return err
	}
	return c.fill(dst, x, y, w, h, func(px []byte) error {
		copy(px, texel)
		return nil
	})
}

// ClearDepthStencil fills a region of a depth/stencil surface. Only the
// parts selected by flags are written.
func (c *Context) ClearDepthStencil(dst *pipe.Surface, flags uint32, depth float64, stencil uint32, x, y, w, h uint32) error {
	if dst == nil {
		return fmt.Errorf("memdev: nil surface")
	}
	if !dst.Format.IsDepthOrStencil() {
		return fmt.Errorf("memdev: %s is not a depth/stencil format", dst.Format)
	}
	return c.fill(dst, x, y, w, h, func(px []byte) error {
		return writeDepthStencil(dst.Format, px, flags, depth, stencil)
	})
}

func (c *Context) fill(dst *pipe.Surface, x, y, w, h uint32, set func(px []byte) error) error {
	r, err := asResource(dst.Resource)
	if err != nil {
		return err
	}
	g, err := r.region(dst.Level, surfaceSlice(dst), x, y, w, h)
	if err != nil {
		return err
	}
	for row := 0; row < g.height; row++ {
		line := g.row(row)
		for col := 0; col < g.width; col++ {
			if err := set(line[col*g.bpp : (col+1)*g.bpp]); err != nil {
				return err
			}
		}
	}
	return nil
}
