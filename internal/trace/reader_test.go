package trace

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoCallTrace = `# screen then context
{"no":1,"method":"pipe_screen_create","args":[],"ret":{"ptr":"0x1000"}}

{"no":2,"class":"pipe_screen","method":"context_create","args":[{"name":"screen","value":{"ptr":"0x1000"}}],"ret":{"ptr":"0x2000"}}
`

func TestReader_ReadsCallsInOrder(t *testing.T) {
	calls, err := ReadAll(NewReader(strings.NewReader(twoCallTrace)))
	require.NoError(t, err)
	require.Len(t, calls, 2)

	assert.Equal(t, uint64(1), calls[0].No)
	assert.Equal(t, "pipe_screen_create", calls[0].Method)
	assert.Equal(t, "pipe_screen::context_create", calls[1].QualifiedName())
}

func TestReader_RejectsNonIncreasingNumbers(t *testing.T) {
	input := `{"no":2,"method":"a","args":[]}
{"no":2,"method":"b","args":[]}
`
	r := NewReader(strings.NewReader(input))
	_, err := r.Next()
	require.NoError(t, err)

	_, err = r.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
	assert.Contains(t, err.Error(), "not greater")
}

func TestReader_ReportsLineOfMalformedCall(t *testing.T) {
	r := NewReader(strings.NewReader("{\"no\":1,\"method\":\"a\",\"args\":[]}\n{broken\n"))
	_, err := r.Next()
	require.NoError(t, err)
	_, err = r.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestReader_EmptyInput(t *testing.T) {
	_, err := NewReader(strings.NewReader("")).Next()
	assert.Equal(t, io.EOF, err)
}

func TestWriter_RoundTripsThroughReader(t *testing.T) {
	calls := []Call{
		{No: 1, Method: "pipe_screen_create", Args: []Arg{}, Ret: Ptr(0x1000)},
		{No: 5, Class: "pipe_context", Method: "flush", Args: []Arg{
			A("pipe", Ptr(0x2000)),
			A("flags", Const("PIPE_FLUSH_FRAME")),
		}},
	}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	for _, c := range calls {
		require.NoError(t, w.Write(c))
	}

	got, err := ReadAll(NewReader(&buf))
	require.NoError(t, err)
	assert.Equal(t, calls, got)
}

func TestSliceSource(t *testing.T) {
	src := NewSliceSource([]Call{{No: 1, Method: "a"}, {No: 2, Method: "b"}})
	got, err := ReadAll(src)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = src.Next()
	assert.Equal(t, io.EOF, err)
}
