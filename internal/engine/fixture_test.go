package engine

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bitrig/bitrig-xenocara/internal/config"
	"github.com/bitrig/bitrig-xenocara/internal/pipe/memdev"
	"github.com/bitrig/bitrig-xenocara/internal/testutil"
	"github.com/bitrig/bitrig-xenocara/internal/trace"
)

const (
	screenAddr  = 0x1000
	ctxAddr     = 0x2000
	texAddr     = 0x3000
	surfAddr    = 0x4000
	vbufAddr    = 0x5000
	velemsAddr  = 0x6000
	ibufAddr    = 0x7000
	cbufferAddr = 0x8000
)

type fixture struct {
	engine *Engine
	driver *memdev.Driver
	out    *bytes.Buffer
	frames *testutil.RecordingPresenter
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newFixture(t *testing.T, opts config.Options) *fixture {
	t.Helper()
	f := &fixture{
		driver: memdev.New(discardLogger()),
		out:    &bytes.Buffer{},
		frames: testutil.NewRecordingPresenter(),
	}
	f.engine = New(f.driver, opts,
		WithLogger(discardLogger()),
		WithOutput(f.out),
		WithPresenter(f.frames),
	)
	return f
}

func (f *fixture) replay(t *testing.T, calls ...trace.Call) Result {
	t.Helper()
	res, err := f.engine.Replay(context.Background(), trace.NewSliceSource(calls))
	require.NoError(t, err)
	return res
}

// context returns the wrapper registered at ctxAddr.
func (f *fixture) context(t *testing.T) *Context {
	t.Helper()
	obj, err := f.engine.Objects().Lookup(ctxAddr)
	require.NoError(t, err)
	c, ok := obj.(*Context)
	require.True(t, ok, "object at ctxAddr is %T", obj)
	return c
}

// backend returns the memdev context behind the wrapper at ctxAddr.
func (f *fixture) backend(t *testing.T) *memdev.Context {
	t.Helper()
	mc, ok := f.context(t).Real().(*memdev.Context)
	require.True(t, ok)
	return mc
}

func screenCall(no uint64, method string, ret trace.Node, args ...trace.Arg) trace.Call {
	return trace.Call{
		No:     no,
		Class:  ClassScreen,
		Method: method,
		Args:   append([]trace.Arg{trace.A("screen", trace.Ptr(screenAddr))}, args...),
		Ret:    ret,
	}
}

func ctxCall(no uint64, method string, ret trace.Node, args ...trace.Arg) trace.Call {
	return trace.Call{
		No:     no,
		Class:  ClassContext,
		Method: method,
		Args:   append([]trace.Arg{trace.A("pipe", trace.Ptr(ctxAddr))}, args...),
		Ret:    ret,
	}
}

func textureTemplate(format string, w, h uint64) trace.Struct {
	return trace.NewStruct("pipe_resource",
		trace.M("target", trace.Const("PIPE_TEXTURE_2D")),
		trace.M("format", trace.Const(format)),
		trace.M("width0", trace.Uint(w)),
		trace.M("height0", trace.Uint(h)),
		trace.M("depth0", trace.Uint(1)),
		trace.M("last_level", trace.Uint(0)),
		trace.M("bind", trace.Const("PIPE_BIND_RENDER_TARGET")),
	)
}

// setupCalls creates a screen, a context and a 4x4 BGRA render target
// bound as the only color buffer. They are calls 1 to 5.
func setupCalls() []trace.Call {
	return []trace.Call{
		{No: 1, Method: "pipe_screen_create", Ret: trace.Ptr(screenAddr)},
		screenCall(2, "context_create", trace.Ptr(ctxAddr)),
		screenCall(3, "resource_create", trace.Ptr(texAddr),
			trace.A("templat", textureTemplate("PIPE_FORMAT_B8G8R8A8_UNORM", 4, 4))),
		ctxCall(4, "create_surface", trace.Ptr(surfAddr),
			trace.A("texture", trace.Ptr(texAddr)),
			trace.A("level", trace.Uint(0)),
			trace.A("layer", trace.Uint(0)),
			trace.A("usage", trace.Const("PIPE_BIND_RENDER_TARGET"))),
		ctxCall(5, "set_framebuffer_state", nil,
			trace.A("state", trace.NewStruct("pipe_framebuffer_state",
				trace.M("width", trace.Uint(4)),
				trace.M("height", trace.Uint(4)),
				trace.M("nr_cbufs", trace.Uint(1)),
				trace.M("cbufs", trace.Arr(trace.Ptr(surfAddr))),
				trace.M("zsbuf", trace.Null()),
			))),
	}
}

func drawCall(no uint64) trace.Call {
	return ctxCall(no, "draw_vbo", nil,
		trace.A("info", trace.NewStruct("pipe_draw_info",
			trace.M("indexed", trace.Bool(false)),
			trace.M("mode", trace.Const("PIPE_PRIM_TRIANGLES")),
			trace.M("start", trace.Uint(0)),
			trace.M("count", trace.Uint(3)),
		)))
}

func flushCall(no uint64, flags string) trace.Call {
	return ctxCall(no, "flush", nil, trace.A("flags", trace.Const(flags)))
}

func clearCall(no uint64, r, g, b, a float64) trace.Call {
	return ctxCall(no, "clear", nil,
		trace.A("buffers", trace.Const("PIPE_CLEAR_COLOR")),
		trace.A("rgba", trace.Arr(trace.Float(r), trace.Float(g), trace.Float(b), trace.Float(a))),
		trace.A("depth", trace.Float(1)),
		trace.A("stencil", trace.Uint(0)))
}

// calls concatenates call lists.
func calls(lists ...[]trace.Call) []trace.Call {
	var out []trace.Call
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}
