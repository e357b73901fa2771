package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bitrig/bitrig-xenocara/internal/store"
	"github.com/bitrig/bitrig-xenocara/internal/trace"
)

// SourceOptions selects where calls are read from: a JSON-lines trace
// file, or a trace previously imported into a database.
type SourceOptions struct {
	Database string
	Trace    string // trace name in the database
}

// openedSource is an open trace. Close releases the file or database.
type openedSource struct {
	trace.Source
	// Store and TraceID are set when reading from a database.
	Store   *store.Store
	TraceID int64

	closer io.Closer
}

func (s *openedSource) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// openSource opens the trace named by args or opts. args holds at most
// one file path; "-" reads standard input.
func openSource(ctx context.Context, opts SourceOptions, args []string, stdin io.Reader) (*openedSource, error) {
	if opts.Database != "" {
		if len(args) > 0 {
			return nil, NewExitError(ExitCommandError, "give either a trace file or --db, not both")
		}
		if opts.Trace == "" {
			return nil, NewExitError(ExitCommandError, "--trace is required with --db")
		}
		return openStoredSource(ctx, opts)
	}

	if len(args) != 1 {
		return nil, NewExitError(ExitCommandError, "expected one trace file (or --db and --trace)")
	}
	if args[0] == "-" {
		return &openedSource{Source: trace.NewReader(stdin)}, nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open trace", err)
	}
	return &openedSource{Source: trace.NewReader(f), closer: f}, nil
}

func openStoredSource(ctx context.Context, opts SourceOptions) (*openedSource, error) {
	if _, err := os.Stat(opts.Database); err != nil {
		return nil, WrapExitError(ExitCommandError, "database not found", err)
	}
	st, err := store.Open(opts.Database)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}

	tr, err := st.TraceByName(ctx, opts.Trace)
	if err != nil {
		st.Close()
		if errors.Is(err, store.ErrNotFound) {
			return nil, NewExitError(ExitCommandError, fmt.Sprintf("trace %q has not been imported", opts.Trace))
		}
		return nil, WrapExitError(ExitCommandError, "failed to look up trace", err)
	}
	src, err := st.Source(ctx, tr.ID)
	if err != nil {
		st.Close()
		return nil, WrapExitError(ExitCommandError, "failed to read trace", err)
	}
	return &openedSource{Source: src, Store: st, TraceID: tr.ID, closer: st}, nil
}

// traceName derives the stored name of a trace file: its base name
// without extension.
func traceName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
