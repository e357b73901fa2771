package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/bitrig/bitrig-xenocara/internal/testutil"
	"github.com/bitrig/bitrig-xenocara/internal/trace"
)

// createTestStore creates a new store in a temp directory with a
// deterministic clock.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, WithClock(testutil.NewDeterministicClock().Now))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestTrace creates a trace called name.
func createTestTrace(t *testing.T, s *Store, name string) Trace {
	t.Helper()
	tr, err := s.CreateTrace(context.Background(), name)
	if err != nil {
		t.Fatalf("CreateTrace(%q) failed: %v", name, err)
	}
	return tr
}

// testCalls is a short trace: a screen, a context and a flush.
func testCalls() []trace.Call {
	return []trace.Call{
		{No: 1, Method: "pipe_screen_create", Ret: trace.Ptr(0x1000)},
		{
			No: 2, Class: "pipe_screen", Method: "context_create",
			Args: []trace.Arg{trace.A("screen", trace.Ptr(0x1000))},
			Ret:  trace.Ptr(0x2000),
		},
		{
			No: 3, Class: "pipe_context", Method: "flush",
			Args: []trace.Arg{
				trace.A("pipe", trace.Ptr(0x2000)),
				trace.A("flags", trace.Const("PIPE_FLUSH_FRAME")),
			},
		},
	}
}
