package engine

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitrig/bitrig-xenocara/internal/pipe"
	"github.com/bitrig/bitrig-xenocara/internal/pipe/memdev"
	"github.com/bitrig/bitrig-xenocara/internal/trace"
)

func floatBytes(vals ...float32) []byte {
	out := make([]byte, 4*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}

func userBuffer(no uint64, addr uint64, data []byte) trace.Call {
	return screenCall(no, "user_buffer_create", trace.Ptr(addr),
		trace.A("data", trace.Bytes(data)),
		trace.A("size", trace.Uint(uint64(len(data)))),
		trace.A("usage", trace.Const("PIPE_BIND_VERTEX_BUFFER")))
}

func subresource(face, level uint64) trace.Struct {
	return trace.NewStruct("pipe_subresource", trace.M("face", trace.Uint(face)), trace.M("level", trace.Uint(level)))
}

func box(x, y, z, w, h, d int64) trace.Struct {
	return trace.NewStruct("pipe_box",
		trace.M("x", trace.Int(x)), trace.M("y", trace.Int(y)), trace.M("z", trace.Int(z)),
		trace.M("width", trace.Int(w)), trace.M("height", trace.Int(h)), trace.M("depth", trace.Int(d)))
}

func TestContext_ClearAndFramePresent(t *testing.T) {
	f := newFixture(t, testOptions())

	f.replay(t, calls(setupCalls(), []trace.Call{
		clearCall(6, 1, 0, 0, 1),
		drawCall(7),
		flushCall(8, "PIPE_FLUSH_FRAME"),
	})...)

	frames := f.frames.Frames()
	require.Len(t, frames, 1)
	assert.Equal(t, "0008_cbuf.png", frames[0].FileName())
	assert.Equal(t, image.Rect(0, 0, 4, 4), frames[0].Image.Bounds())
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, frames[0].Image.RGBAAt(3, 3))

	// Presenting flushes the backend before reading back.
	assert.Equal(t, []uint32{pipe.FlushFrame, 0}, f.backend(t).Flushes)
}

func TestContext_StartSuppressesPresentation(t *testing.T) {
	opts := testOptions()
	opts.Start = 10
	f := newFixture(t, opts)

	f.replay(t, calls(setupCalls(), []trace.Call{
		drawCall(6),
		flushCall(7, "PIPE_FLUSH_FRAME"),
		drawCall(10),
		flushCall(11, "PIPE_FLUSH_FRAME"),
	})...)

	assert.Equal(t, []string{"11. cbuf"}, f.frames.Descriptions())
}

func TestContext_PresentErrorIsNotFatal(t *testing.T) {
	f := newFixture(t, testOptions())
	f.frames.FailWith(errors.New("display unavailable"))

	res := f.replay(t, calls(setupCalls(), []trace.Call{
		drawCall(6),
		flushCall(7, "PIPE_FLUSH_FRAME"),
		drawCall(8),
	})...)

	assert.Equal(t, 8, res.Dispatched)
	assert.True(t, f.context(t).Dirty())
}

func TestContext_AllPresentsDepthStencil(t *testing.T) {
	opts := testOptions()
	opts.All = true
	opts.Step = true
	f := newFixture(t, opts)

	f.replay(t, calls(setupCalls()[:4], []trace.Call{
		screenCall(5, "resource_create", trace.Ptr(0x3100),
			trace.A("templat", textureTemplate("PIPE_FORMAT_Z24_UNORM_S8_USCALED", 4, 4))),
		ctxCall(6, "create_surface", trace.Ptr(0x4100),
			trace.A("texture", trace.Ptr(0x3100)), trace.A("level", trace.Uint(0)), trace.A("layer", trace.Uint(0))),
		ctxCall(7, "set_framebuffer_state", nil,
			trace.A("state", trace.NewStruct("pipe_framebuffer_state",
				trace.M("width", trace.Uint(4)),
				trace.M("height", trace.Uint(4)),
				trace.M("nr_cbufs", trace.Uint(1)),
				trace.M("cbufs", trace.Arr(trace.Ptr(surfAddr))),
				trace.M("zsbuf", trace.Ptr(0x4100)),
			))),
		drawCall(8),
	})...)

	assert.Equal(t, []string{"8. cbuf", "8. zsbuf"}, f.frames.Descriptions())

	fb := f.backend(t).Framebuffer
	require.Len(t, fb.Cbufs, 1)
	assert.NotNil(t, fb.Zsbuf)
	assert.Equal(t, pipe.FormatZ24UnormS8Uscaled, fb.Zsbuf.Format)
}

func TestContext_StateObjects(t *testing.T) {
	f := newFixture(t, testOptions())

	f.replay(t, calls(setupCalls()[:2], []trace.Call{
		ctxCall(3, "create_blend_state", trace.Ptr(0xa000),
			trace.A("state", trace.NewStruct("pipe_blend_state", trace.M("dither", trace.Uint(1))))),
		ctxCall(4, "bind_blend_state", nil, trace.A("state", trace.Ptr(0))),
	})...)
	assert.Nil(t, f.backend(t).Blend, "binding NULL does not push state")

	require.NoError(t, f.engine.HandleCall(ctxCall(5, "bind_blend_state", nil, trace.A("state", trace.Ptr(0xa000)))))
	blend, err := f.engine.Objects().Lookup(0xa000)
	require.NoError(t, err)
	assert.Same(t, blend, f.backend(t).Blend)

	require.NoError(t, f.engine.HandleCall(ctxCall(6, "delete_blend_state", nil, trace.A("state", trace.Ptr(0xa000)))))
	assert.Same(t, blend, f.backend(t).Blend, "delete is a no-op")
}

func TestContext_BindWrongStateType(t *testing.T) {
	f := newFixture(t, testOptions())

	f.replay(t, calls(setupCalls()[:2], []trace.Call{
		ctxCall(3, "create_rasterizer_state", trace.Ptr(0xa000),
			trace.A("state", trace.NewStruct("pipe_rasterizer_state"))),
	})...)

	err := f.engine.HandleCall(ctxCall(4, "bind_blend_state", nil, trace.A("state", trace.Ptr(0xa000))))
	assert.True(t, IsBadArgument(err))
}

func TestContext_Shaders(t *testing.T) {
	f := newFixture(t, testOptions())

	f.replay(t, calls(setupCalls()[:2], []trace.Call{
		ctxCall(3, "create_fs_state", trace.Ptr(0xa000),
			trace.A("state", trace.NewStruct("pipe_shader_state", trace.M("tokens", trace.String("FRAG\nEND\n"))))),
		ctxCall(4, "bind_fs_state", nil, trace.A("state", trace.Ptr(0xa000))),
		ctxCall(5, "bind_vs_state", nil, trace.A("state", trace.Ptr(0))),
	})...)

	mc := f.backend(t)
	require.NotNil(t, mc.FragmentShader)
	assert.Equal(t, "FRAG\nEND\n", mc.FragmentShader.Tokens)
	assert.Nil(t, mc.VertexShader)
}

func TestContext_SamplersAndViews(t *testing.T) {
	f := newFixture(t, testOptions())

	f.replay(t, calls(setupCalls()[:3], []trace.Call{
		ctxCall(4, "create_sampler_state", trace.Ptr(0xa000),
			trace.A("state", trace.NewStruct("pipe_sampler_state",
				trace.M("border_color", trace.Arr(trace.Float(0), trace.Float(0), trace.Float(0), trace.Float(1)))))),
		ctxCall(5, "bind_fragment_sampler_states", nil,
			trace.A("num_states", trace.Uint(2)),
			trace.A("states", trace.Arr(trace.Ptr(0xa000), trace.Ptr(0)))),
		ctxCall(6, "create_sampler_view", trace.Ptr(0xb000),
			trace.A("texture", trace.Ptr(texAddr)),
			trace.A("templ", trace.NewStruct("pipe_sampler_view",
				trace.M("format", trace.Const("PIPE_FORMAT_B8G8R8A8_UNORM")),
				trace.M("first_level", trace.Uint(0)),
				trace.M("last_level", trace.Uint(0)),
				trace.M("swizzle_r", trace.Const("PIPE_SWIZZLE_BLUE")),
				trace.M("swizzle_g", trace.Const("PIPE_SWIZZLE_GREEN")),
				trace.M("swizzle_b", trace.Const("PIPE_SWIZZLE_RED")),
				trace.M("swizzle_a", trace.Const("PIPE_SWIZZLE_ONE")),
			))),
		ctxCall(7, "set_fragment_sampler_views", nil,
			trace.A("num", trace.Uint(1)),
			trace.A("views", trace.Arr(trace.Ptr(0xb000)))),
	})...)

	mc := f.backend(t)
	require.Len(t, mc.FragmentSamplers, 2)
	assert.Equal(t, [4]float32{0, 0, 0, 1}, mc.FragmentSamplers[0].BorderColor)
	assert.Nil(t, mc.FragmentSamplers[1])

	view := mc.FragmentSamplerViews[0]
	require.NotNil(t, view)
	assert.Equal(t, pipe.SamplerViewTemplate{
		Format:   pipe.FormatB8G8R8A8Unorm,
		SwizzleR: 2,
		SwizzleG: 1,
		SwizzleB: 0,
		SwizzleA: 5,
	}, view.Template)
}

func TestContext_SamplerCountExceedsList(t *testing.T) {
	f := newFixture(t, testOptions())
	f.replay(t, setupCalls()[:2]...)

	err := f.engine.HandleCall(ctxCall(3, "bind_vertex_sampler_states", nil,
		trace.A("num_states", trace.Uint(3)),
		trace.A("states", trace.Arr(trace.Ptr(0)))))
	assert.True(t, IsArityMismatch(err))
}

func TestContext_ParameterState(t *testing.T) {
	f := newFixture(t, testOptions())

	f.replay(t, calls(setupCalls()[:2], []trace.Call{
		ctxCall(3, "set_stencil_ref", nil,
			trace.A("state", trace.NewStruct("pipe_stencil_ref",
				trace.M("ref_value", trace.Arr(trace.Uint(3), trace.Uint(7)))))),
		ctxCall(4, "set_clip_state", nil,
			trace.A("state", trace.NewStruct("pipe_clip_state",
				trace.M("ucp", trace.Arr(
					trace.Arr(trace.Float(1), trace.Float(0), trace.Float(0), trace.Float(0.5)),
					trace.Arr(trace.Float(0), trace.Float(-1), trace.Float(0), trace.Float(2)),
				)),
				trace.M("nr", trace.Uint(2)),
			))),
		ctxCall(5, "set_blend_color", nil,
			trace.A("state", trace.NewStruct("pipe_blend_color",
				trace.M("color", trace.Arr(trace.Float(0.25), trace.Float(0.5)))))),
		ctxCall(6, "set_scissor_state", nil,
			trace.A("state", trace.NewStruct("pipe_scissor_state",
				trace.M("minx", trace.Uint(0)), trace.M("miny", trace.Uint(0)),
				trace.M("maxx", trace.Uint(4)), trace.M("maxy", trace.Uint(4))))),
		ctxCall(7, "set_viewport_state", nil,
			trace.A("state", trace.NewStruct("pipe_viewport_state",
				trace.M("scale", trace.Arr(trace.Float(2), trace.Float(-2), trace.Float(1), trace.Float(1))),
				trace.M("translate", trace.Arr(trace.Float(2), trace.Float(2), trace.Float(0), trace.Float(0)))))),
	})...)

	mc := f.backend(t)
	assert.Equal(t, [2]uint32{3, 7}, mc.StencilRef.RefValue)

	assert.Equal(t, uint32(2), mc.Clip.Nr)
	assert.Equal(t, []float32{1, 0, 0, 0.5, 0, -1, 0, 2}, mc.Clip.UCP[:8])
	assert.Equal(t, make([]float32, 16), mc.Clip.UCP[8:])

	require.NotNil(t, mc.BlendColor)
	assert.Equal(t, [4]float32{0.25, 0.5, 0, 0}, mc.BlendColor.Color)
	assert.Equal(t, &pipe.Scissor{MaxX: 4, MaxY: 4}, mc.Scissor)
	assert.Equal(t, [4]float32{2, -2, 1, 1}, mc.Viewport.Scale)
}

func TestContext_ClipPlaneTooLong(t *testing.T) {
	f := newFixture(t, testOptions())
	f.replay(t, setupCalls()[:2]...)

	five := trace.Arr(trace.Float(1), trace.Float(1), trace.Float(1), trace.Float(1), trace.Float(1))
	err := f.engine.HandleCall(ctxCall(3, "set_clip_state", nil,
		trace.A("state", trace.NewStruct("pipe_clip_state",
			trace.M("ucp", trace.Arr(five)),
			trace.M("nr", trace.Uint(1))))))
	assert.True(t, IsArityMismatch(err))
}

// vertexCalls uploads three R32G32 vertices and binds them, starting at
// call 6.
func vertexCalls() []trace.Call {
	return []trace.Call{
		userBuffer(6, vbufAddr, floatBytes(1, 2, 3, 4, 5, 6)),
		ctxCall(7, "set_vertex_buffers", nil,
			trace.A("num_buffers", trace.Uint(1)),
			trace.A("buffers", trace.Arr(trace.NewStruct("pipe_vertex_buffer",
				trace.M("stride", trace.Uint(8)),
				trace.M("max_index", trace.Uint(2)),
				trace.M("buffer_offset", trace.Uint(0)),
				trace.M("buffer", trace.Ptr(vbufAddr)),
			)))),
		ctxCall(8, "create_vertex_elements_state", trace.Ptr(velemsAddr),
			trace.A("num_elements", trace.Uint(1)),
			trace.A("elements", trace.Arr(trace.NewStruct("pipe_vertex_element",
				trace.M("src_offset", trace.Uint(0)),
				trace.M("instance_divisor", trace.Uint(0)),
				trace.M("vertex_buffer_index", trace.Uint(0)),
				trace.M("src_format", trace.Const("PIPE_FORMAT_R32G32_FLOAT")),
			)))),
		ctxCall(9, "bind_vertex_elements_state", nil, trace.A("state", trace.Ptr(velemsAddr))),
	}
}

func TestContext_VertexInput(t *testing.T) {
	f := newFixture(t, testOptions())

	f.replay(t, calls(setupCalls(), vertexCalls())...)

	mc := f.backend(t)
	assert.Equal(t, 1, mc.NumVertexElements)
	require.Contains(t, mc.VertexElements, 0)
	assert.Equal(t, pipe.FormatR32G32Float, mc.VertexElements[0].SrcFormat)
	assert.Equal(t, uint32(8), mc.VertexBuffers[0].Stride)

	require.NoError(t, f.engine.HandleCall(ctxCall(10, "bind_vertex_elements_state", nil, trace.A("state", trace.Ptr(0)))))
	assert.Equal(t, 0, mc.NumVertexElements)
}

func TestContext_DumpVertices(t *testing.T) {
	opts := testOptions()
	opts.Verbosity = 2
	f := newFixture(t, opts)

	f.replay(t, calls(setupCalls(), vertexCalls(), []trace.Call{drawCall(10)})...)

	assert.Contains(t, f.out.String(),
		"10 pipe_context::draw_vbo(pipe = 0x2000, info = {")
	assert.Contains(t, f.out.String(),
		"\t{\n\t\t{1, 2},\n\t},\n"+
			"\t{\n\t\t{3, 4},\n\t},\n"+
			"\t{\n\t\t{5, 6},\n\t},\n")
}

func TestContext_DumpIndicesSetsVertexRange(t *testing.T) {
	opts := testOptions()
	opts.Verbosity = 2
	f := newFixture(t, opts)

	indices := []byte{2, 0, 0, 0, 1, 0}
	f.replay(t, calls(setupCalls(), vertexCalls(), []trace.Call{
		userBuffer(10, ibufAddr, indices),
		ctxCall(11, "set_index_buffer", nil,
			trace.A("ib", trace.NewStruct("pipe_index_buffer",
				trace.M("index_size", trace.Uint(2)),
				trace.M("offset", trace.Uint(0)),
				trace.M("buffer", trace.Ptr(ibufAddr))))),
		ctxCall(12, "draw_vbo", nil,
			trace.A("info", trace.NewStruct("pipe_draw_info",
				trace.M("indexed", trace.Bool(true)),
				trace.M("mode", trace.Const("PIPE_PRIM_TRIANGLES")),
				trace.M("start", trace.Uint(0)),
				trace.M("count", trace.Uint(2)),
				trace.M("index_bias", trace.Int(1)),
			))),
	})...)

	// Indices 2 and 0 with bias 1 reference vertices 1 to 3; vertex 3 is
	// past the end of the buffer and is not printed.
	assert.Contains(t, f.out.String(),
		"\t{\n\t\t2,\n\t\t0,\n\t},\n"+
			"\t{\n\t\t{3, 4},\n\t},\n"+
			"\t{\n\t\t{5, 6},\n\t},\n"+
			"\t{\n\t\t<PIPE_FORMAT_R32G32_FLOAT>,\n\t},\n")

	draws := f.backend(t).Draws
	require.Len(t, draws, 1)
	assert.True(t, draws[0].Indexed)
}

func TestDumpIndices_Truncation(t *testing.T) {
	tests := []struct {
		name      string
		verbosity int
		lines     int
	}{
		{"first 16 at verbosity 2", 2, 16},
		{"all at verbosity 3", 3, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions()
			opts.Verbosity = tt.verbosity
			f := newFixture(t, opts)
			f.replay(t, setupCalls()[:2]...)

			data := make([]byte, 20)
			for i := range data {
				data[i] = byte(i)
			}
			obj, err := f.engine.Objects().Lookup(screenAddr)
			require.NoError(t, err)
			res, err := obj.(*Screen).createBuffer(20, 0)
			require.NoError(t, err)
			require.NoError(t, f.context(t).Real().BufferWrite(res, data, 0))
			f.out.Reset()

			lo, hi, ok := f.context(t).dumpIndices(pipe.IndexBuffer{IndexSize: 1, Buffer: res}, -1, 0, 20)
			require.True(t, ok)
			assert.Equal(t, uint32(0), lo, "bias below zero clamps")
			assert.Equal(t, uint32(18), hi)

			out := f.out.String()
			assert.Equal(t, tt.lines, strings.Count(out, "\n\t\t"))
			if tt.lines < 20 {
				assert.Contains(t, out, "\t...\n")
			}
		})
	}
}

func TestContext_DumpConstantBuffer(t *testing.T) {
	opts := testOptions()
	opts.Verbosity = 2
	f := newFixture(t, opts)

	f.replay(t, calls(setupCalls()[:2], []trace.Call{
		userBuffer(3, cbufferAddr, floatBytes(1, 2, 3, 4, -0.5, 0, 0, 100)),
		ctxCall(4, "set_constant_buffer", nil,
			trace.A("shader", trace.Const("PIPE_SHADER_FRAGMENT")),
			trace.A("index", trace.Uint(0)),
			trace.A("buffer", trace.Ptr(cbufferAddr))),
	})...)

	assert.Contains(t, f.out.String(),
		"\tCONST[ 0] = {    1.0000,     2.0000,     3.0000,     4.0000}\n"+
			"\tCONST[ 1] = {   -0.5000,     0.0000,     0.0000,  100.0000}\n")
	assert.Len(t, f.backend(t).ConstantBuffers, 1)
}

func TestContext_ConstantBufferNullIsIgnored(t *testing.T) {
	f := newFixture(t, testOptions())

	f.replay(t, calls(setupCalls()[:2], []trace.Call{
		ctxCall(3, "set_constant_buffer", nil,
			trace.A("shader", trace.Uint(0)),
			trace.A("index", trace.Uint(0)),
			trace.A("buffer", trace.Ptr(0))),
	})...)
	assert.Empty(t, f.backend(t).ConstantBuffers)
}

func TestContext_ResourceCopyRegion(t *testing.T) {
	opts := testOptions()
	opts.All = true
	f := newFixture(t, opts)

	f.replay(t, calls(setupCalls(), []trace.Call{
		screenCall(6, "resource_create", trace.Ptr(0x3100),
			trace.A("templat", textureTemplate("PIPE_FORMAT_B8G8R8A8_UNORM", 4, 4))),
		ctxCall(7, "clear_render_target", nil,
			trace.A("dst", trace.Ptr(surfAddr)),
			trace.A("rgba", trace.Arr(trace.Float(0), trace.Float(1), trace.Float(0), trace.Float(1))),
			trace.A("dstx", trace.Uint(0)), trace.A("dsty", trace.Uint(0)),
			trace.A("width", trace.Uint(2)), trace.A("height", trace.Uint(2))),
		ctxCall(8, "resource_copy_region", nil,
			trace.A("dst", trace.Ptr(0x3100)),
			trace.A("subdst", subresource(0, 0)),
			trace.A("dstx", trace.Uint(1)), trace.A("dsty", trace.Uint(1)), trace.A("dstz", trace.Uint(0)),
			trace.A("src", trace.Ptr(texAddr)),
			trace.A("subsrc", subresource(0, 0)),
			trace.A("srcx", trace.Uint(0)), trace.A("srcy", trace.Uint(0)), trace.A("srcz", trace.Uint(0)),
			trace.A("width", trace.Uint(2)), trace.A("height", trace.Uint(2))),
	})...)

	assert.Equal(t, []string{"8. resource_copy_src", "8. resource_copy_dst"}, f.frames.Descriptions())
	frames := f.frames.Frames()
	green := color.RGBA{0, 255, 0, 255}
	assert.Equal(t, green, frames[0].Image.RGBAAt(1, 1))
	assert.Equal(t, image.Rect(0, 0, 2, 2), frames[1].Image.Bounds())
	assert.Equal(t, green, frames[1].Image.RGBAAt(0, 0))

	mc := f.backend(t)
	assert.Equal(t, 1, mc.Copies)
	assert.Equal(t, []uint32{0}, mc.Flushes, "copies flush without flags")
}

func TestContext_ResourceCopyRegionNullIsNoop(t *testing.T) {
	f := newFixture(t, testOptions())

	f.replay(t, calls(setupCalls(), []trace.Call{
		ctxCall(6, "resource_copy_region", nil,
			trace.A("dst", trace.Ptr(0)),
			trace.A("subdst", subresource(0, 0)),
			trace.A("dstx", trace.Uint(0)), trace.A("dsty", trace.Uint(0)), trace.A("dstz", trace.Uint(0)),
			trace.A("src", trace.Ptr(texAddr)),
			trace.A("subsrc", subresource(0, 0)),
			trace.A("srcx", trace.Uint(0)), trace.A("srcy", trace.Uint(0)), trace.A("srcz", trace.Uint(0)),
			trace.A("width", trace.Uint(1)), trace.A("height", trace.Uint(1))),
	})...)

	assert.Zero(t, f.backend(t).Copies)
	assert.Empty(t, f.backend(t).Flushes)
}

func TestContext_GetTransferPresentsReadRegion(t *testing.T) {
	opts := testOptions()
	opts.All = true
	f := newFixture(t, opts)

	f.replay(t, calls(setupCalls(), []trace.Call{
		ctxCall(6, "get_transfer", trace.Ptr(0xc000),
			trace.A("texture", trace.Ptr(texAddr)),
			trace.A("sr", subresource(0, 0)),
			trace.A("usage", trace.Const("PIPE_TRANSFER_READ")),
			trace.A("box", box(1, 0, 0, 2, 3, 1))),
		ctxCall(7, "tex_transfer_destroy", nil, trace.A("transfer", trace.Ptr(0xc000))),
	})...)

	obj, err := f.engine.Objects().Lookup(0xc000)
	require.NoError(t, err)
	tr, ok := obj.(*Transfer)
	require.True(t, ok)
	assert.Equal(t, uint32(pipe.TransferRead), tr.Usage)
	assert.Equal(t, pipe.Box{X: 1, Width: 2, Height: 3, Depth: 1}, tr.Box)

	frames := f.frames.Frames()
	require.Len(t, frames, 1)
	assert.Equal(t, "transf_read", frames[0].Description)
	assert.Equal(t, image.Rect(0, 0, 2, 3), frames[0].Image.Bounds())
}

func TestContext_GetTransferWithoutAllPresentsNothing(t *testing.T) {
	f := newFixture(t, testOptions())

	f.replay(t, calls(setupCalls(), []trace.Call{
		ctxCall(6, "get_transfer", trace.Ptr(0xc000),
			trace.A("texture", trace.Ptr(texAddr)),
			trace.A("sr", subresource(0, 0)),
			trace.A("usage", trace.Const("PIPE_TRANSFER_READ")),
			trace.A("box", box(0, 0, 0, 4, 4, 1))),
	})...)
	assert.Empty(t, f.frames.Frames())
}

func TestContext_TransferInlineWrite(t *testing.T) {
	opts := testOptions()
	opts.All = true
	f := newFixture(t, opts)

	// Two BGRA texels per row: blue, red.
	row := []byte{0xff, 0, 0, 0xff, 0, 0, 0xff, 0xff}
	data := append(append([]byte{}, row...), row...)

	f.replay(t, calls(setupCalls(), []trace.Call{
		ctxCall(6, "transfer_inline_write", nil,
			trace.A("resource", trace.Ptr(texAddr)),
			trace.A("sr", subresource(0, 0)),
			trace.A("usage", trace.Const("PIPE_TRANSFER_WRITE")),
			trace.A("box", box(2, 2, 0, 2, 2, 1)),
			trace.A("stride", trace.Uint(8)),
			trace.A("slice_stride", trace.Uint(16)),
			trace.A("data", trace.Bytes(data))),
	})...)

	frames := f.frames.Frames()
	require.Len(t, frames, 1)
	assert.Equal(t, "transf_inline_write0", frames[0].Description)
	assert.Equal(t, color.RGBA{0, 0, 255, 255}, frames[0].Image.RGBAAt(0, 1))
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, frames[0].Image.RGBAAt(1, 1))
}

func TestContext_TransferInlineWriteEachSlice(t *testing.T) {
	opts := testOptions()
	opts.All = true
	f := newFixture(t, opts)

	// Slice 0 is all blue, slice 1 all red. Slices are padded to 20 bytes.
	blue := []byte{0xff, 0, 0, 0xff}
	red := []byte{0, 0, 0xff, 0xff}
	var data []byte
	for _, texel := range [][]byte{blue, red} {
		for range 4 {
			data = append(data, texel...)
		}
		data = append(data, 0, 0, 0, 0)
	}

	f.replay(t, calls(setupCalls()[:2], []trace.Call{
		screenCall(3, "resource_create", trace.Ptr(texAddr),
			trace.A("templat", trace.NewStruct("pipe_resource",
				trace.M("target", trace.Const("PIPE_TEXTURE_3D")),
				trace.M("format", trace.Const("PIPE_FORMAT_B8G8R8A8_UNORM")),
				trace.M("width0", trace.Uint(2)),
				trace.M("height0", trace.Uint(2)),
				trace.M("depth0", trace.Uint(2)),
				trace.M("last_level", trace.Uint(0)),
			))),
		ctxCall(4, "transfer_inline_write", nil,
			trace.A("resource", trace.Ptr(texAddr)),
			trace.A("sr", subresource(0, 0)),
			trace.A("usage", trace.Const("PIPE_TRANSFER_WRITE")),
			trace.A("box", box(0, 0, 0, 2, 2, 2)),
			trace.A("stride", trace.Uint(8)),
			trace.A("slice_stride", trace.Uint(20)),
			trace.A("data", trace.Bytes(data))),
	})...)

	frames := f.frames.Frames()
	require.Len(t, frames, 2)
	want := []struct {
		desc string
		rgba color.RGBA
	}{
		{"transf_inline_write0", color.RGBA{0, 0, 255, 255}},
		{"transf_inline_write1", color.RGBA{255, 0, 0, 255}},
	}
	for i, w := range want {
		assert.Equal(t, uint64(4), frames[i].CallNo)
		assert.Equal(t, w.desc, frames[i].Description)
		assert.Equal(t, image.Rect(0, 0, 2, 2), frames[i].Image.Bounds())
		for _, pt := range []image.Point{{0, 0}, {1, 0}, {0, 1}, {1, 1}} {
			assert.Equal(t, w.rgba, frames[i].Image.RGBAAt(pt.X, pt.Y), "%s at %v", w.desc, pt)
		}
	}
}

func TestContext_BufferWrite(t *testing.T) {
	f := newFixture(t, testOptions())

	f.replay(t, calls(setupCalls()[:2], []trace.Call{
		screenCall(3, "buffer_create", trace.Ptr(vbufAddr),
			trace.A("alignment", trace.Uint(16)),
			trace.A("usage", trace.Const("PIPE_BIND_VERTEX_BUFFER")),
			trace.A("size", trace.Uint(8))),
		ctxCall(4, "buffer_write", nil,
			trace.A("buffer", trace.Ptr(vbufAddr)),
			trace.A("data", trace.Bytes([]byte{1, 2, 3})),
			trace.A("size", trace.Uint(3)),
			trace.A("offset", trace.Uint(4))),
	})...)

	obj, err := f.engine.Objects().Lookup(vbufAddr)
	require.NoError(t, err)
	got, err := f.context(t).Real().BufferRead(obj.(pipe.Resource))
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 0, 1, 2, 3, 0}, got)
}

func TestContext_BufferWriteSizeMismatch(t *testing.T) {
	f := newFixture(t, testOptions())

	f.replay(t, calls(setupCalls()[:2], []trace.Call{
		userBuffer(3, vbufAddr, []byte{0, 0, 0, 0}),
	})...)

	err := f.engine.HandleCall(ctxCall(4, "buffer_write", nil,
		trace.A("buffer", trace.Ptr(vbufAddr)),
		trace.A("data", trace.Bytes([]byte{1, 2})),
		trace.A("size", trace.Uint(3))))
	assert.True(t, IsBadArgument(err))
}

func TestContext_BufferWriteOutOfRange(t *testing.T) {
	f := newFixture(t, testOptions())

	f.replay(t, calls(setupCalls()[:2], []trace.Call{
		userBuffer(3, vbufAddr, []byte{0, 0, 0, 0}),
	})...)

	err := f.engine.HandleCall(ctxCall(4, "buffer_write", nil,
		trace.A("buffer", trace.Ptr(vbufAddr)),
		trace.A("data", trace.Bytes([]byte{1, 2})),
		trace.A("size", trace.Uint(2)),
		trace.A("offset", trace.Uint(3))))
	assert.True(t, IsBackendFailure(err))
}

func TestContext_SurfaceWrite(t *testing.T) {
	f := newFixture(t, testOptions())

	texel := []byte{0, 0xff, 0, 0xff}
	var data []byte
	for i := 0; i < 16; i++ {
		data = append(data, texel...)
	}

	f.replay(t, calls(setupCalls(), []trace.Call{
		ctxCall(6, "surface_write", nil,
			trace.A("surface", trace.Ptr(surfAddr)),
			trace.A("data", trace.Bytes(data)),
			trace.A("stride", trace.Uint(16)),
			trace.A("size", trace.Uint(64))),
		drawCall(7),
		flushCall(8, "PIPE_FLUSH_FRAME"),
	})...)

	frames := f.frames.Frames()
	require.Len(t, frames, 1)
	assert.Equal(t, color.RGBA{0, 255, 0, 255}, frames[0].Image.RGBAAt(2, 2))
}

func TestContext_ClearDepthStencilRejectsColorSurface(t *testing.T) {
	f := newFixture(t, testOptions())
	f.replay(t, setupCalls()...)

	err := f.engine.HandleCall(ctxCall(6, "clear_depth_stencil", nil,
		trace.A("dst", trace.Ptr(surfAddr)),
		trace.A("clear_flags", trace.Const("PIPE_CLEAR_DEPTHSTENCIL")),
		trace.A("depth", trace.Float(1)),
		trace.A("stencil", trace.Uint(0)),
		trace.A("dstx", trace.Uint(0)), trace.A("dsty", trace.Uint(0)),
		trace.A("width", trace.Uint(4)), trace.A("height", trace.Uint(4))))
	require.Error(t, err)
	assert.True(t, IsBackendFailure(err))
	assert.Contains(t, err.Error(), "call 6 pipe_context::clear_depth_stencil")
}

func TestScreen_Queries(t *testing.T) {
	f := newFixture(t, testOptions())
	f.replay(t, setupCalls()[:1]...)

	obj, err := f.engine.Objects().Lookup(screenAddr)
	require.NoError(t, err)
	screen := obj.(*Screen)

	name, err := screen.Invoke("get_name", nil)
	require.NoError(t, err)
	assert.Equal(t, "memdev", name)

	ok, err := screen.Invoke("is_format_supported", Args{
		{Name: "format", Value: uint64(pipe.FormatR8G8B8A8Unorm)},
		{Name: "target", Value: uint64(pipe.Texture2D)},
		{Name: "sample_count", Value: uint64(0)},
		{Name: "bind", Value: uint64(pipe.BindRenderTarget)},
		{Name: "geom_flags", Value: uint64(0)},
	})
	require.NoError(t, err)
	assert.Equal(t, true, ok)
}

func TestScreen_UserBufferSizeMismatch(t *testing.T) {
	f := newFixture(t, testOptions())
	f.replay(t, setupCalls()[:1]...)

	err := f.engine.HandleCall(screenCall(2, "user_buffer_create", trace.Ptr(vbufAddr),
		trace.A("data", trace.Bytes([]byte{1, 2, 3})),
		trace.A("size", trace.Uint(4)),
		trace.A("usage", trace.Uint(0))))
	assert.True(t, IsBadArgument(err))
}

func TestScreen_ResourceCreateAcceptsOldMemberNames(t *testing.T) {
	f := newFixture(t, testOptions())
	f.replay(t, setupCalls()[:1]...)

	require.NoError(t, f.engine.HandleCall(screenCall(2, "resource_create", trace.Ptr(texAddr),
		trace.A("templat", trace.NewStruct("pipe_texture",
			trace.M("target", trace.Const("PIPE_TEXTURE_2D")),
			trace.M("format", trace.Const("PIPE_FORMAT_A8_UNORM")),
			trace.M("width", trace.Uint(8)),
			trace.M("height", trace.Uint(2)),
			trace.M("last_level", trace.Uint(3)),
		)))))

	obj, err := f.engine.Objects().Lookup(texAddr)
	require.NoError(t, err)
	templ := obj.(pipe.Resource).Template()
	assert.Equal(t, uint32(8), templ.Width)
	assert.Equal(t, uint32(2), templ.Height)
	assert.Equal(t, uint32(1), templ.Depth)
	assert.Equal(t, uint32(3), templ.LastLevel)
}

func cubeCalls(layer uint64) []trace.Call {
	return []trace.Call{
		{No: 1, Method: "pipe_screen_create", Ret: trace.Ptr(screenAddr)},
		screenCall(2, "context_create", trace.Ptr(ctxAddr)),
		screenCall(3, "resource_create", trace.Ptr(texAddr),
			trace.A("templat", trace.NewStruct("pipe_resource",
				trace.M("target", trace.Const("PIPE_TEXTURE_CUBE")),
				trace.M("format", trace.Const("PIPE_FORMAT_B8G8R8A8_UNORM")),
				trace.M("width0", trace.Uint(2)),
				trace.M("height0", trace.Uint(2)),
				trace.M("depth0", trace.Uint(1)),
				trace.M("last_level", trace.Uint(0)),
				trace.M("bind", trace.Const("PIPE_BIND_RENDER_TARGET")),
			))),
		ctxCall(4, "create_surface", trace.Ptr(surfAddr),
			trace.A("texture", trace.Ptr(texAddr)),
			trace.A("level", trace.Uint(0)),
			trace.A("layer", trace.Uint(layer))),
	}
}

func TestContext_CreateSurfaceCubeFace(t *testing.T) {
	f := newFixture(t, testOptions())
	f.replay(t, calls(cubeCalls(3), []trace.Call{
		ctxCall(5, "clear_render_target", nil,
			trace.A("dst", trace.Ptr(surfAddr)),
			trace.A("rgba", trace.Arr(trace.Float(1), trace.Float(0), trace.Float(0), trace.Float(1))),
			trace.A("dstx", trace.Uint(0)),
			trace.A("dsty", trace.Uint(0)),
			trace.A("width", trace.Uint(2)),
			trace.A("height", trace.Uint(2))),
	})...)

	obj, err := f.engine.Objects().Lookup(surfAddr)
	require.NoError(t, err)
	surf := obj.(*pipe.Surface)
	assert.Equal(t, uint32(3), surf.Face)
	assert.Equal(t, uint32(0), surf.Layer)

	obj, err = f.engine.Objects().Lookup(texAddr)
	require.NoError(t, err)
	level := obj.(*memdev.Resource).Level(0)
	const faceBytes = 2 * 2 * 4
	require.Len(t, level, 6*faceBytes)

	red := []byte{0, 0, 0xff, 0xff}
	for face := range 6 {
		got := level[face*faceBytes : (face+1)*faceBytes]
		if face == 3 {
			assert.Equal(t, bytes.Repeat(red, 4), got, "face %d", face)
		} else {
			assert.Equal(t, make([]byte, faceBytes), got, "face %d", face)
		}
	}
}

func TestContext_CreateSurfaceCubeFaceOutOfRange(t *testing.T) {
	f := newFixture(t, testOptions())
	f.replay(t, cubeCalls(0)[:3]...)

	err := f.engine.HandleCall(cubeCalls(6)[3])
	assert.True(t, IsBadArgument(err))
}

func TestContext_CreateSurfaceLevelOutOfRange(t *testing.T) {
	f := newFixture(t, testOptions())
	f.replay(t, setupCalls()[:3]...)

	err := f.engine.HandleCall(ctxCall(4, "create_surface", trace.Ptr(surfAddr),
		trace.A("texture", trace.Ptr(texAddr)),
		trace.A("level", trace.Uint(1)),
		trace.A("layer", trace.Uint(0))))
	assert.True(t, IsBadArgument(err))
}
