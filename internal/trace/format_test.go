package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCall(t *testing.T) {
	tests := []struct {
		name string
		call Call
		want string
	}{
		{
			name: "free function",
			call: Call{No: 1, Method: "pipe_screen_create", Ret: Ptr(0x1000)},
			want: "1 pipe_screen_create() = 0x1000",
		},
		{
			name: "method with pointer",
			call: Call{No: 2, Class: "pipe_screen", Method: "context_create",
				Args: []Arg{A("screen", Ptr(0x1000))}, Ret: Ptr(0x2000)},
			want: "2 pipe_screen::context_create(screen = 0x1000) = 0x2000",
		},
		{
			name: "struct, array, constant and blob",
			call: Call{No: 7, Class: "pipe_context", Method: "clear", Args: []Arg{
				A("pipe", Ptr(0x2000)),
				A("rgba", Arr(Float(0.5), Float(1), Int(0), Int(1))),
				A("box", NewStruct("pipe_box", M("x", Uint(3)), M("f", Const("PIPE_FORMAT_A8_UNORM")))),
				A("data", Bytes([]byte{1, 2, 3})),
				A("name", String("fs")),
				A("null", Ptr(0)),
			}},
			want: `7 pipe_context::clear(pipe = 0x2000, rgba = {0.5, 1, 0, 1}, box = {x = 3, f = PIPE_FORMAT_A8_UNORM}, data = blob(3), name = "fs", null = NULL)`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCall(tt.call))
		})
	}
}

func TestFormatNode_NullLiteral(t *testing.T) {
	assert.Equal(t, "NULL", FormatNode(Null()))
	assert.Equal(t, "true", FormatNode(Bool(true)))
}
