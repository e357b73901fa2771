package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bitrig/bitrig-xenocara/internal/engine"
	"github.com/bitrig/bitrig-xenocara/internal/trace"
)

const (
	screenAddr = 0x1000
	ctxAddr    = 0x2000
	texAddr    = 0x3000
	surfAddr   = 0x4000
)

func ctxCall(no uint64, method string, ret trace.Node, args ...trace.Arg) trace.Call {
	return trace.Call{
		No:     no,
		Class:  engine.ClassContext,
		Method: method,
		Args:   append([]trace.Arg{trace.A("pipe", trace.Ptr(ctxAddr))}, args...),
		Ret:    ret,
	}
}

// redFrameCalls renders one frame: a 4x4 render target cleared to red
// (calls 1 to 6), a draw (call 7) and a frame flush (call 8).
func redFrameCalls() []trace.Call {
	return []trace.Call{
		{No: 1, Method: "pipe_screen_create", Ret: trace.Ptr(screenAddr)},
		{
			No: 2, Class: engine.ClassScreen, Method: "context_create",
			Args: []trace.Arg{trace.A("screen", trace.Ptr(screenAddr))},
			Ret:  trace.Ptr(ctxAddr),
		},
		{
			No: 3, Class: engine.ClassScreen, Method: "resource_create",
			Args: []trace.Arg{
				trace.A("screen", trace.Ptr(screenAddr)),
				trace.A("templat", trace.NewStruct("pipe_resource",
					trace.M("target", trace.Const("PIPE_TEXTURE_2D")),
					trace.M("format", trace.Const("PIPE_FORMAT_B8G8R8A8_UNORM")),
					trace.M("width0", trace.Uint(4)),
					trace.M("height0", trace.Uint(4)),
					trace.M("depth0", trace.Uint(1)),
					trace.M("last_level", trace.Uint(0)),
					trace.M("bind", trace.Const("PIPE_BIND_RENDER_TARGET")),
				)),
			},
			Ret: trace.Ptr(texAddr),
		},
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
		ctxCall(6, "clear", nil,
			trace.A("buffers", trace.Const("PIPE_CLEAR_COLOR")),
			trace.A("rgba", trace.Arr(trace.Float(1), trace.Float(0), trace.Float(0), trace.Float(1))),
			trace.A("depth", trace.Float(1)),
			trace.A("stencil", trace.Uint(0))),
		ctxCall(7, "draw_vbo", nil,
			trace.A("info", trace.NewStruct("pipe_draw_info",
				trace.M("indexed", trace.Bool(false)),
				trace.M("mode", trace.Const("PIPE_PRIM_TRIANGLES")),
				trace.M("start", trace.Uint(0)),
				trace.M("count", trace.Uint(3)),
			))),
		ctxCall(8, "flush", nil, trace.A("flags", trace.Const("PIPE_FLUSH_FRAME"))),
	}
}

// brokenCalls fails at call 2: the screen address was never created.
func brokenCalls() []trace.Call {
	return []trace.Call{
		{No: 1, Method: "pipe_screen_create", Ret: trace.Ptr(screenAddr)},
		{
			No: 2, Class: engine.ClassScreen, Method: "context_create",
			Args: []trace.Arg{trace.A("screen", trace.Ptr(0x9999))},
			Ret:  trace.Ptr(ctxAddr),
		},
	}
}

// writeTrace writes calls as a JSON-lines file named name in a temp dir.
func writeTrace(t *testing.T, name string, calls []trace.Call) string {
	t.Helper()
	var buf bytes.Buffer
	w := trace.NewWriter(&buf)
	for _, c := range calls {
		require.NoError(t, w.Write(c))
	}
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

type result struct {
	stdout string
	stderr string
	err    error
}

// execute runs the root command with args. Run IDs are handed out from
// ids in order.
func execute(t *testing.T, stdin string, ids []string, args ...string) result {
	t.Helper()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := newRootCommand(engine.NewFixedGenerator(ids...))
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(t.Context())
	return result{stdout: out.String(), stderr: errOut.String(), err: err}
}

var echoLine = regexp.MustCompile(`^[0-9]+ [a-z_:]+\(`)

// echoLines returns the echoed calls of a replay's stdout, leaving out
// frames drawn by the terminal viewer.
func echoLines(stdout string) []string {
	var lines []string
	for _, line := range strings.Split(stdout, "\n") {
		if echoLine.MatchString(line) {
			lines = append(lines, line)
		}
	}
	return lines
}
