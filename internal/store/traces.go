package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/bitrig/bitrig-xenocara/internal/trace"
)

// Trace is an imported trace.
type Trace struct {
	ID         int64
	Name       string
	ImportedAt time.Time
	// Calls is the number of stored calls. Filled by ListTraces only.
	Calls int
}

// ImportStats counts what an import wrote.
type ImportStats struct {
	Inserted int
	Existing int
	LastCall uint64
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// CreateTrace returns the trace called name, creating it if needed.
func (s *Store) CreateTrace(ctx context.Context, name string) (Trace, error) {
	if name == "" {
		return Trace{}, fmt.Errorf("create trace: empty name")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO traces (name, imported_at)
		VALUES (?, ?)
		ON CONFLICT(name) DO NOTHING
	`, name, s.timestamp())
	if err != nil {
		return Trace{}, fmt.Errorf("create trace: %w", err)
	}
	return s.TraceByName(ctx, name)
}

// TraceByName looks up a trace. Returns ErrNotFound if there is none.
func (s *Store) TraceByName(ctx context.Context, name string) (Trace, error) {
	var (
		t        Trace
		imported string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, imported_at FROM traces WHERE name = ?
	`, name).Scan(&t.ID, &t.Name, &imported)
	if errors.Is(err, sql.ErrNoRows) {
		return Trace{}, fmt.Errorf("trace %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return Trace{}, fmt.Errorf("query trace: %w", err)
	}
	if t.ImportedAt, err = parseTime(imported); err != nil {
		return Trace{}, err
	}
	return t, nil
}

// ListTraces returns every trace with its call count, ordered by name.
func (s *Store) ListTraces(ctx context.Context) ([]Trace, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.name, t.imported_at, COUNT(c.no)
		FROM traces t
		LEFT JOIN calls c ON c.trace_id = t.id
		GROUP BY t.id
		ORDER BY t.name COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query traces: %w", err)
	}
	defer rows.Close()

	traces := []Trace{}
	for rows.Next() {
		var (
			t        Trace
			imported string
		)
		if err := rows.Scan(&t.ID, &t.Name, &imported, &t.Calls); err != nil {
			return nil, fmt.Errorf("scan trace: %w", err)
		}
		if t.ImportedAt, err = parseTime(imported); err != nil {
			return nil, err
		}
		traces = append(traces, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate traces: %w", err)
	}
	return traces, nil
}

// WriteCall stores a call of a trace. Returns inserted=false if the same
// call is already stored. A different call under the same number is an
// error.
func (s *Store) WriteCall(ctx context.Context, traceID int64, c trace.Call) (inserted bool, err error) {
	return writeCall(ctx, s.db, traceID, c)
}

func writeCall(ctx context.Context, q querier, traceID int64, c trace.Call) (bool, error) {
	hash, err := trace.CallID(c)
	if err != nil {
		return false, fmt.Errorf("write call: %w", err)
	}
	body, err := marshalCall(c)
	if err != nil {
		return false, fmt.Errorf("write call: %w", err)
	}

	res, err := q.ExecContext(ctx, `
		INSERT INTO calls (trace_id, no, hash, class, method, body)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(trace_id, no) DO NOTHING
	`, traceID, int64(c.No), hash, c.Class, c.Method, body)
	if err != nil {
		return false, fmt.Errorf("write call %d: %w", c.No, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("write call %d: %w", c.No, err)
	}
	if n == 1 {
		return true, nil
	}

	var existing string
	err = q.QueryRowContext(ctx, `
		SELECT hash FROM calls WHERE trace_id = ? AND no = ?
	`, traceID, int64(c.No)).Scan(&existing)
	if err != nil {
		return false, fmt.Errorf("write call %d: %w", c.No, err)
	}
	if existing != hash {
		return false, fmt.Errorf("write call %d: a different call is already stored under this number", c.No)
	}
	return false, nil
}

// Import copies every call of src into the trace in one transaction.
// progress, if not nil, is called after each call.
func (s *Store) Import(ctx context.Context, traceID int64, src trace.Source, progress func(trace.Call)) (ImportStats, error) {
	var stats ImportStats

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return stats, fmt.Errorf("import: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		c, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("import: %w", err)
		}
		inserted, err := writeCall(ctx, tx, traceID, c)
		if err != nil {
			return stats, fmt.Errorf("import: %w", err)
		}
		if inserted {
			stats.Inserted++
		} else {
			stats.Existing++
		}
		stats.LastCall = c.No
		if progress != nil {
			progress(c)
		}
	}

	if err := tx.Commit(); err != nil {
		return stats, fmt.Errorf("import: commit: %w", err)
	}
	return stats, nil
}

// ReadCalls returns the calls of a trace in call order.
//
// Returns an empty slice (not nil) if the trace has no calls.
func (s *Store) ReadCalls(ctx context.Context, traceID int64) ([]trace.Call, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT body FROM calls
		WHERE trace_id = ?
		ORDER BY no ASC
	`, traceID)
	if err != nil {
		return nil, fmt.Errorf("query calls: %w", err)
	}
	defer rows.Close()

	calls := []trace.Call{}
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan call: %w", err)
		}
		c, err := unmarshalCall(body)
		if err != nil {
			return nil, err
		}
		calls = append(calls, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate calls: %w", err)
	}
	return calls, nil
}

// Source returns the calls of a trace as a trace.Source.
func (s *Store) Source(ctx context.Context, traceID int64) (trace.Source, error) {
	calls, err := s.ReadCalls(ctx, traceID)
	if err != nil {
		return nil, err
	}
	return trace.NewSliceSource(calls), nil
}
