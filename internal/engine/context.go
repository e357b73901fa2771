package engine

import (
	"github.com/bitrig/bitrig-xenocara/internal/pipe"
)

// Context wraps a backend rendering context and shadows the state that
// diagnostics and presentation need: bound render targets, vertex buffers,
// vertex elements, index buffer, and whether anything was drawn since the
// last presentation.
type Context struct {
	engine *Engine
	real   pipe.Context

	cbufs  []*pipe.Surface
	zsbuf  *pipe.Surface
	vbufs  []pipe.VertexBuffer
	velems []*pipe.VertexElement
	ibuf   pipe.IndexBuffer
	dirty  bool
}

var contextMethods = map[string]func(*Context, Args) (any, error){
	"destroy": (*Context).noop,

	"create_blend_state":               (*Context).createState,
	"bind_blend_state":                 (*Context).bindBlendState,
	"delete_blend_state":               (*Context).noop,
	"create_sampler_state":             (*Context).createState,
	"delete_sampler_state":             (*Context).noop,
	"bind_vertex_sampler_states":       (*Context).bindVertexSamplerStates,
	"bind_fragment_sampler_states":     (*Context).bindFragmentSamplerStates,
	"create_rasterizer_state":          (*Context).createState,
	"bind_rasterizer_state":            (*Context).bindRasterizerState,
	"delete_rasterizer_state":          (*Context).noop,
	"create_depth_stencil_alpha_state": (*Context).createState,
	"bind_depth_stencil_alpha_state":   (*Context).bindDepthStencilAlphaState,
	"delete_depth_stencil_alpha_state": (*Context).noop,
	"create_fs_state":                  (*Context).createShaderState,
	"create_vs_state":                  (*Context).createShaderState,
	"bind_fs_state":                    (*Context).bindFSState,
	"bind_vs_state":                    (*Context).bindVSState,
	"delete_fs_state":                  (*Context).noop,
	"delete_vs_state":                  (*Context).noop,

	"set_blend_color":       (*Context).setBlendColor,
	"set_stencil_ref":       (*Context).setStencilRef,
	"set_clip_state":        (*Context).setClipState,
	"set_constant_buffer":   (*Context).setConstantBuffer,
	"set_framebuffer_state": (*Context).setFramebufferState,
	"set_polygon_stipple":   (*Context).setPolygonStipple,
	"set_scissor_state":     (*Context).setScissorState,
	"set_viewport_state":    (*Context).setViewportState,

	"create_sampler_view":        (*Context).createSamplerView,
	"sampler_view_destroy":       (*Context).noop,
	"set_fragment_sampler_views": (*Context).setFragmentSamplerViews,
	"set_vertex_sampler_views":   (*Context).setVertexSamplerViews,

	"set_vertex_buffers":           (*Context).setVertexBuffers,
	"create_vertex_elements_state": (*Context).createVertexElementsState,
	"bind_vertex_elements_state":   (*Context).bindVertexElementsState,
	"delete_vertex_elements_state": (*Context).noop,
	"set_index_buffer":             (*Context).setIndexBuffer,
	"draw_vbo":                     (*Context).drawVBO,

	"resource_copy_region":   (*Context).resourceCopyRegion,
	"is_resource_referenced": (*Context).noop,
	"buffer_write":           (*Context).bufferWrite,
	"surface_write":          (*Context).surfaceWrite,
	"get_transfer":           (*Context).getTransfer,
	"tex_transfer_destroy":   (*Context).transferDestroy,
	"transfer_destroy":       (*Context).transferDestroy,
	"transfer_inline_write":  (*Context).transferInlineWrite,

	"flush":               (*Context).flush,
	"clear":               (*Context).clear,
	"clear_render_target": (*Context).clearRenderTarget,
	"clear_depth_stencil": (*Context).clearDepthStencil,
	"create_surface":      (*Context).createSurface,
	"surface_destroy":     (*Context).surfaceDestroy,
}

func newContext(e *Engine, real pipe.Context) *Context {
	return &Context{engine: e, real: real}
}

// Real returns the backend context.
func (c *Context) Real() pipe.Context { return c.real }

// Dirty reports whether something was drawn since the last presentation.
func (c *Context) Dirty() bool { return c.dirty }

// Class implements Target.
func (c *Context) Class() string { return ClassContext }

// Invoke implements Target.
func (c *Context) Invoke(method string, args Args) (any, error) {
	return invoke(c, ClassContext, contextMethods, method, args)
}

func (c *Context) noop(Args) (any, error) { return nil, nil }

// State objects.

// createState returns the translated state structure; the backend takes it
// as is at bind time.
func (c *Context) createState(args Args) (any, error) {
	v, ok := args.Get("state")
	if !ok {
		return nil, badArgument("state: missing")
	}
	return v, nil
}

func (c *Context) bindBlendState(args Args) (any, error) {
	r := newReader(args, "bind_blend_state")
	if s := as[*pipe.Blend](r, "state"); s != nil {
		c.real.SetBlend(s)
	}
	return nil, r.err
}

func (c *Context) bindRasterizerState(args Args) (any, error) {
	r := newReader(args, "bind_rasterizer_state")
	if s := as[*pipe.Rasterizer](r, "state"); s != nil {
		c.real.SetRasterizer(s)
	}
	return nil, r.err
}

func (c *Context) bindDepthStencilAlphaState(args Args) (any, error) {
	r := newReader(args, "bind_depth_stencil_alpha_state")
	if s := as[*pipe.DepthStencilAlpha](r, "state"); s != nil {
		c.real.SetDepthStencilAlpha(s)
	}
	return nil, r.err
}

func (c *Context) bindVertexSamplerStates(args Args) (any, error) {
	return nil, c.bindSamplers(args, "bind_vertex_sampler_states", c.real.SetVertexSampler)
}

func (c *Context) bindFragmentSamplerStates(args Args) (any, error) {
	return nil, c.bindSamplers(args, "bind_fragment_sampler_states", c.real.SetFragmentSampler)
}

func (c *Context) bindSamplers(args Args, op string, set func(int, *pipe.Sampler)) error {
	r := newReader(args, op)
	n := r.uint("num_states")
	states := r.list("states")
	if r.err != nil {
		return r.err
	}
	if int(n) > len(states) {
		return newError(ErrCodeArityMismatch, "%s: num_states %d but %d states", op, n, len(states))
	}
	for i := 0; i < int(n); i++ {
		s := asAt[*pipe.Sampler](r, "states", i, states[i])
		if r.err != nil {
			return r.err
		}
		set(i, s)
	}
	return nil
}

// createShaderState turns a pipe_shader_state into a backend shader.
func (c *Context) createShaderState(args Args) (any, error) {
	r := newReader(args, "create_shader_state")
	state := r.bag("state")
	if r.err != nil {
		return nil, r.err
	}
	if state == nil {
		return nil, nil
	}
	sr := newReader(state, state.Name)
	tokens := sr.str("tokens")
	if sr.err != nil {
		return nil, sr.err
	}
	return &pipe.Shader{Tokens: tokens}, nil
}

// Shader binds push NULL too: it unbinds the stage.
func (c *Context) bindFSState(args Args) (any, error) {
	r := newReader(args, "bind_fs_state")
	s := as[*pipe.Shader](r, "state")
	if r.err != nil {
		return nil, r.err
	}
	c.real.SetFragmentShader(s)
	return nil, nil
}

func (c *Context) bindVSState(args Args) (any, error) {
	r := newReader(args, "bind_vs_state")
	s := as[*pipe.Shader](r, "state")
	if r.err != nil {
		return nil, r.err
	}
	c.real.SetVertexShader(s)
	return nil, nil
}

// Parameter state.

func (c *Context) setBlendColor(args Args) (any, error) {
	r := newReader(args, "set_blend_color")
	s := as[*pipe.BlendColor](r, "state")
	if r.err != nil {
		return nil, r.err
	}
	c.real.SetBlendColor(s)
	return nil, nil
}

func (c *Context) setStencilRef(args Args) (any, error) {
	r := newReader(args, "set_stencil_ref")
	state := r.bag("state")
	if r.err != nil {
		return nil, r.err
	}
	var ref pipe.StencilRef
	if state != nil {
		sr := newReader(state, state.Name)
		vals := sr.list("ref_value")
		if len(vals) > len(ref.RefValue) {
			return nil, newError(ErrCodeArityMismatch, "set_stencil_ref: %d ref values", len(vals))
		}
		for i, v := range vals {
			u, err := pipe.ToUint(v)
			if err != nil {
				return nil, badArgument("set_stencil_ref: ref_value[%d]: %v", i, err)
			}
			ref.RefValue[i] = uint32(u)
		}
		if sr.err != nil {
			return nil, sr.err
		}
	}
	c.real.SetStencilRef(ref)
	return nil, nil
}

// setClipState flattens the user clip planes into MaxClipPlanes*4 floats.
func (c *Context) setClipState(args Args) (any, error) {
	r := newReader(args, "set_clip_state")
	state := r.bag("state")
	if r.err != nil {
		return nil, r.err
	}
	var clip pipe.Clip
	if state != nil {
		sr := newReader(state, state.Name)
		clip.Nr = sr.optUint("nr", 0)
		var planes []any
		if sr.has("ucp") {
			planes = sr.list("ucp")
		}
		if sr.err != nil {
			return nil, sr.err
		}
		if clip.Nr > 0 {
			if len(planes) > pipe.MaxClipPlanes {
				return nil, newError(ErrCodeArityMismatch, "set_clip_state: %d planes", len(planes))
			}
			for i, p := range planes {
				plane, ok := p.([]any)
				if !ok {
					return nil, badArgument("set_clip_state: ucp[%d]: expected array, got %T", i, p)
				}
				if len(plane) > 4 {
					return nil, newError(ErrCodeArityMismatch, "set_clip_state: ucp[%d] has %d components", i, len(plane))
				}
				for j, v := range plane {
					f, err := pipe.ToFloat(v)
					if err != nil {
						return nil, badArgument("set_clip_state: ucp[%d][%d]: %v", i, j, err)
					}
					clip.UCP[i*4+j] = float32(f)
				}
			}
		}
	}
	c.real.SetClip(clip)
	return nil, nil
}

func (c *Context) setConstantBuffer(args Args) (any, error) {
	r := newReader(args, "set_constant_buffer")
	shader := r.uint("shader")
	index := r.uint("index")
	buf := r.resource("buffer")
	if r.err != nil {
		return nil, r.err
	}
	if buf == nil {
		return nil, nil
	}
	c.real.SetConstantBuffer(shader, index, buf)
	c.dumpConstantBuffer(buf)
	return nil, nil
}

func (c *Context) setFramebufferState(args Args) (any, error) {
	r := newReader(args, "set_framebuffer_state")
	state := r.bag("state")
	if r.err != nil {
		return nil, r.err
	}
	if state == nil {
		return nil, badArgument("set_framebuffer_state: state is NULL")
	}

	sr := newReader(state, state.Name)
	fb := pipe.Framebuffer{
		Width:  sr.uint("width"),
		Height: sr.uint("height"),
	}
	nr := sr.optUint("nr_cbufs", 0)
	var list []any
	if sr.has("cbufs") {
		list = sr.list("cbufs")
	}
	if sr.has("zsbuf") {
		fb.Zsbuf = as[*pipe.Surface](sr, "zsbuf")
	}
	if sr.err != nil {
		return nil, sr.err
	}
	if int(nr) > len(list) || nr > pipe.MaxColorBufs {
		return nil, newError(ErrCodeArityMismatch, "set_framebuffer_state: nr_cbufs %d with %d cbufs", nr, len(list))
	}
	for i := 0; i < int(nr); i++ {
		s := asAt[*pipe.Surface](sr, "cbufs", i, list[i])
		if sr.err != nil {
			return nil, sr.err
		}
		fb.Cbufs = append(fb.Cbufs, s)
	}

	c.real.SetFramebuffer(fb)
	c.cbufs = fb.Cbufs
	c.zsbuf = fb.Zsbuf
	return nil, nil
}

func (c *Context) setPolygonStipple(args Args) (any, error) {
	r := newReader(args, "set_polygon_stipple")
	s := as[*pipe.PolyStipple](r, "state")
	if r.err != nil {
		return nil, r.err
	}
	c.real.SetPolygonStipple(s)
	return nil, nil
}

func (c *Context) setScissorState(args Args) (any, error) {
	r := newReader(args, "set_scissor_state")
	s := as[*pipe.Scissor](r, "state")
	if r.err != nil {
		return nil, r.err
	}
	c.real.SetScissor(s)
	return nil, nil
}

func (c *Context) setViewportState(args Args) (any, error) {
	r := newReader(args, "set_viewport_state")
	s := as[*pipe.Viewport](r, "state")
	if r.err != nil {
		return nil, r.err
	}
	c.real.SetViewport(s)
	return nil, nil
}

// Sampler views.

func (c *Context) createSamplerView(args Args) (any, error) {
	r := newReader(args, "create_sampler_view")
	tex := r.resource("texture")
	templ := r.bag("templ")
	if r.err != nil {
		return nil, r.err
	}
	if tex == nil {
		return nil, nil
	}

	t := pipe.SamplerViewTemplate{Format: tex.Template().Format, SwizzleG: 1, SwizzleB: 2, SwizzleA: 3}
	if templ != nil {
		tr := newReader(templ, templ.Name)
		t = pipe.SamplerViewTemplate{
			Format:     pipe.Format(tr.uint("format")),
			FirstLevel: tr.optUint("first_level", 0),
			LastLevel:  tr.optUint("last_level", tex.Template().LastLevel),
			SwizzleR:   tr.optUint("swizzle_r", 0),
			SwizzleG:   tr.optUint("swizzle_g", 1),
			SwizzleB:   tr.optUint("swizzle_b", 2),
			SwizzleA:   tr.optUint("swizzle_a", 3),
		}
		if tr.err != nil {
			return nil, tr.err
		}
	}

	view, err := c.real.CreateSamplerView(tex, t)
	if err != nil {
		return nil, backendFailure("create_sampler_view", err)
	}
	return view, nil
}

func (c *Context) setFragmentSamplerViews(args Args) (any, error) {
	return nil, c.setViews(args, "set_fragment_sampler_views", c.real.SetFragmentSamplerView)
}

func (c *Context) setVertexSamplerViews(args Args) (any, error) {
	return nil, c.setViews(args, "set_vertex_sampler_views", c.real.SetVertexSamplerView)
}

func (c *Context) setViews(args Args, op string, set func(int, *pipe.SamplerView)) error {
	r := newReader(args, op)
	n := r.uint("num")
	views := r.list("views")
	if r.err != nil {
		return r.err
	}
	if int(n) > len(views) {
		return newError(ErrCodeArityMismatch, "%s: num %d but %d views", op, n, len(views))
	}
	for i := 0; i < int(n); i++ {
		v := asAt[*pipe.SamplerView](r, "views", i, views[i])
		if r.err != nil {
			return r.err
		}
		set(i, v)
	}
	return nil
}

// Vertex input.

func (c *Context) setVertexBuffers(args Args) (any, error) {
	r := newReader(args, "set_vertex_buffers")
	n := r.uint("num_buffers")
	list := r.list("buffers")
	if r.err != nil {
		return nil, r.err
	}
	if int(n) > len(list) {
		return nil, newError(ErrCodeArityMismatch, "set_vertex_buffers: num_buffers %d but %d buffers", n, len(list))
	}

	vbufs := make([]pipe.VertexBuffer, n)
	for i := range vbufs {
		b := asAt[*Bag](r, "buffers", i, list[i])
		if r.err != nil {
			return nil, r.err
		}
		if b == nil {
			continue
		}
		br := newReader(b, b.Name)
		vbufs[i] = pipe.VertexBuffer{
			Stride:       br.uint("stride"),
			MaxIndex:     br.optUint("max_index", 0),
			BufferOffset: br.optUint("buffer_offset", 0),
			Buffer:       br.resource("buffer"),
		}
		if br.err != nil {
			return nil, br.err
		}
	}

	c.vbufs = vbufs
	for i, vb := range vbufs {
		c.real.SetVertexBuffer(i, vb)
	}
	return nil, nil
}

// createVertexElementsState returns the first num_elements elements.
func (c *Context) createVertexElementsState(args Args) (any, error) {
	r := newReader(args, "create_vertex_elements_state")
	n := r.uint("num_elements")
	list := r.list("elements")
	if r.err != nil {
		return nil, r.err
	}
	if int(n) > len(list) {
		return nil, newError(ErrCodeArityMismatch, "create_vertex_elements_state: num_elements %d but %d elements", n, len(list))
	}
	elems := make([]*pipe.VertexElement, n)
	for i := range elems {
		elems[i] = asAt[*pipe.VertexElement](r, "elements", i, list[i])
	}
	if r.err != nil {
		return nil, r.err
	}
	return elems, nil
}

func (c *Context) bindVertexElementsState(args Args) (any, error) {
	r := newReader(args, "bind_vertex_elements_state")
	elems := as[[]*pipe.VertexElement](r, "state")
	if r.err != nil {
		return nil, r.err
	}
	if elems == nil {
		c.real.SetVertexElements(0)
		return nil, nil
	}

	c.velems = elems
	for i, ve := range elems {
		c.real.SetVertexElement(i, ve)
	}
	c.real.SetVertexElements(len(elems))
	return nil, nil
}

func (c *Context) setIndexBuffer(args Args) (any, error) {
	r := newReader(args, "set_index_buffer")
	ib := r.bag("ib")
	if r.err != nil {
		return nil, r.err
	}
	var buf pipe.IndexBuffer
	if ib != nil {
		ir := newReader(ib, ib.Name)
		buf = pipe.IndexBuffer{
			IndexSize: ir.uint("index_size"),
			Offset:    ir.optUint("offset", 0),
			Buffer:    ir.resource("buffer"),
		}
		if ir.err != nil {
			return nil, ir.err
		}
	}
	c.ibuf = buf
	c.real.SetIndexBuffer(buf)
	return nil, nil
}

// Drawing.

func (c *Context) drawVBO(args Args) (any, error) {
	r := newReader(args, "draw_vbo")
	info := as[*pipe.DrawInfo](r, "info")
	if r.err != nil {
		return nil, r.err
	}
	if info == nil {
		return nil, badArgument("draw_vbo: info is NULL")
	}

	if c.engine.opts.Verbose(2) {
		start, count := info.Start, info.Count
		if info.Indexed && c.ibuf.Buffer != nil {
			lo, hi, ok := c.dumpIndices(c.ibuf, info.IndexBias, info.Start, info.Count)
			if ok {
				start, count = lo, hi+1-lo
			}
		}
		c.dumpVertices(start, count)
	}

	if err := c.real.DrawVBO(info); err != nil {
		return nil, backendFailure("draw_vbo", err)
	}
	c.setDirty()
	return nil, nil
}

func (c *Context) resourceCopyRegion(args Args) (any, error) {
	r := newReader(args, "resource_copy_region")
	dst := r.resource("dst")
	dstSub := as[*pipe.Subresource](r, "subdst")
	dstx, dsty, dstz := r.uint("dstx"), r.uint("dsty"), r.uint("dstz")
	src := r.resource("src")
	srcSub := as[*pipe.Subresource](r, "subsrc")
	srcx, srcy, srcz := r.uint("srcx"), r.uint("srcy"), r.uint("srcz")
	width, height := r.uint("width"), r.uint("height")
	if r.err != nil {
		return nil, r.err
	}
	if dst == nil || src == nil {
		return nil, nil
	}

	var ds, ss pipe.Subresource
	if dstSub != nil {
		ds = *dstSub
	}
	if srcSub != nil {
		ss = *srcSub
	}

	if c.engine.opts.All {
		c.presentResource(src, ss, srcz, "resource_copy_src", &region{int64(srcx), int64(srcy), int64(width), int64(height)})
	}
	if err := c.real.ResourceCopyRegion(dst, ds, dstx, dsty, dstz, src, ss, srcx, srcy, srcz, width, height); err != nil {
		return nil, backendFailure("resource_copy_region", err)
	}
	c.flushWith(0)
	if c.engine.opts.All {
		c.presentResource(dst, ds, dstz, "resource_copy_dst", &region{int64(dstx), int64(dsty), int64(width), int64(height)})
	}
	return nil, nil
}

// bufferWrite writes size bytes of data at offset (default 0).
func (c *Context) bufferWrite(args Args) (any, error) {
	r := newReader(args, "buffer_write")
	buf := r.resource("buffer")
	data := r.bytes("data")
	size := r.optUint("size", uint32(len(data)))
	offset := r.optUint("offset", 0)
	if r.err != nil {
		return nil, r.err
	}
	if int(size) != len(data) {
		return nil, badArgument("buffer_write: size %d but %d bytes of data", size, len(data))
	}
	if buf == nil {
		return nil, badArgument("buffer_write: buffer is NULL")
	}
	return nil, backendFailure("buffer_write", c.real.BufferWrite(buf, data, offset))
}

func (c *Context) surfaceWrite(args Args) (any, error) {
	r := newReader(args, "surface_write")
	s := as[*pipe.Surface](r, "surface")
	data := r.bytes("data")
	stride := r.uint("stride")
	if r.err != nil {
		return nil, r.err
	}
	if s == nil {
		return nil, nil
	}
	return nil, backendFailure("surface_write", c.real.SurfaceWrite(s, data, stride))
}

// Clears.

func (c *Context) clear(args Args) (any, error) {
	r := newReader(args, "clear")
	buffers := r.uint("buffers")
	rgba := r.floats4("rgba")
	depth := r.float("depth")
	stencil := r.uint("stencil")
	if r.err != nil {
		return nil, r.err
	}
	return nil, backendFailure("clear", c.real.Clear(buffers, rgba, depth, stencil))
}

func (c *Context) clearRenderTarget(args Args) (any, error) {
	r := newReader(args, "clear_render_target")
	dst := as[*pipe.Surface](r, "dst")
	rgba := r.floats4("rgba")
	x, y := r.uint("dstx"), r.uint("dsty")
	w, h := r.uint("width"), r.uint("height")
	if r.err != nil {
		return nil, r.err
	}
	if dst == nil {
		return nil, badArgument("clear_render_target: dst is NULL")
	}
	return nil, backendFailure("clear_render_target", c.real.ClearRenderTarget(dst, rgba, x, y, w, h))
}

func (c *Context) clearDepthStencil(args Args) (any, error) {
	r := newReader(args, "clear_depth_stencil")
	dst := as[*pipe.Surface](r, "dst")
	flags := r.uint("clear_flags")
	depth := r.float("depth")
	stencil := r.uint("stencil")
	x, y := r.uint("dstx"), r.uint("dsty")
	w, h := r.uint("width"), r.uint("height")
	if r.err != nil {
		return nil, r.err
	}
	if dst == nil {
		return nil, badArgument("clear_depth_stencil: dst is NULL")
	}
	return nil, backendFailure("clear_depth_stencil", c.real.ClearDepthStencil(dst, flags, depth, stencil, x, y, w, h))
}

// Surfaces.

func (c *Context) createSurface(args Args) (any, error) {
	r := newReader(args, "create_surface")
	tex := r.resource("texture")
	level := r.uint("level")
	layer := r.optUint("layer", 0)
	if r.err != nil {
		return nil, r.err
	}
	if tex == nil {
		return nil, nil
	}
	if tex.Template().Target == pipe.Buffer {
		return nil, badArgument("create_surface: texture is a buffer")
	}
	if level > tex.Template().LastLevel {
		return nil, badArgument("create_surface: level %d beyond last level %d", level, tex.Template().LastLevel)
	}
	// Cube maps address their faces through the layer argument.
	if tex.Template().Target == pipe.TextureCube {
		if layer >= 6 {
			return nil, badArgument("create_surface: cube face %d out of range", layer)
		}
		return pipe.NewSurface(tex, layer, level, 0), nil
	}
	return pipe.NewSurface(tex, 0, level, layer), nil
}

func (c *Context) surfaceDestroy(args Args) (any, error) {
	if v, ok := args.Get("surface"); ok {
		c.engine.objects.Unregister(v)
	}
	return nil, nil
}

// Flush and presentation.

func (c *Context) flush(args Args) (any, error) {
	r := newReader(args, "flush")
	flags := r.optUint("flags", 0)
	if r.err != nil {
		return nil, r.err
	}
	c.flushWith(flags)
	return nil, nil
}

// flushWith flushes the backend and presents pending rendering when the
// flush ends a frame. Other flushes keep the context dirty.
func (c *Context) flushWith(flags uint32) {
	c.real.Flush(flags)
	if c.dirty && flags&pipe.FlushFrame != 0 {
		c.presentCurrent()
		c.dirty = false
	}
}

// setDirty records that rendering happened, or presents it immediately in
// step mode.
func (c *Context) setDirty() {
	if c.engine.opts.Step {
		c.presentCurrent()
		c.dirty = false
		return
	}
	c.dirty = true
}

// presentCurrent presents the first color buffer and, with All, the
// depth/stencil buffer.
func (c *Context) presentCurrent() {
	c.real.Flush(0)
	if len(c.cbufs) > 0 && c.cbufs[0] != nil {
		c.engine.present(c.real, c.cbufs[0], "cbuf", nil)
	}
	if c.zsbuf != nil && c.engine.opts.All {
		c.engine.present(c.real, c.zsbuf, "zsbuf", nil)
	}
}

// presentResource presents a region of one slice of a texture. Buffers
// have no image and are skipped.
func (c *Context) presentResource(res pipe.Resource, sub pipe.Subresource, z uint32, desc string, rgn *region) {
	if res.Template().Target == pipe.Buffer {
		return
	}
	c.engine.present(c.real, pipe.NewSurface(res, sub.Face, sub.Level, z), desc, rgn)
}
