package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Run is the journal entry of one replay.
type Run struct {
	ID         string
	TraceID    int64
	StartedAt  time.Time
	FinishedAt time.Time // zero while the run is in progress
	Dispatched int
	Skipped    int
	LastCall   uint64
	Stopped    bool
	Error      string
}

// Frame records one presented frame of a run.
type Frame struct {
	Seq         int
	CallNo      uint64
	Description string
	Width       int
	Height      int
}

// StartRun journals the start of a replay.
func (s *Store) StartRun(ctx context.Context, runID string, traceID int64) (Run, error) {
	now := s.timestamp()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, trace_id, started_at)
		VALUES (?, ?, ?)
	`, runID, traceID, now)
	if err != nil {
		return Run{}, fmt.Errorf("start run: %w", err)
	}
	return s.ReadRun(ctx, runID)
}

// FinishRun records the outcome of a run. errMsg is empty on success.
func (s *Store) FinishRun(ctx context.Context, runID string, dispatched, skipped int, lastCall uint64, stopped bool, errMsg string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE runs
		SET finished_at = ?, dispatched = ?, skipped = ?, last_call = ?, stopped = ?, error = ?
		WHERE id = ?
	`, s.timestamp(), dispatched, skipped, int64(lastCall), stopped, errMsg, runID)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("finish run %s: %w", runID, ErrNotFound)
	}
	return nil
}

// ReadRun returns a run. Returns ErrNotFound if there is none.
func (s *Store) ReadRun(ctx context.Context, runID string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, trace_id, started_at, COALESCE(finished_at, ''), dispatched, skipped, last_call, stopped, error
		FROM runs WHERE id = ?
	`, runID)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("run %s: %w", runID, ErrNotFound)
	}
	return r, err
}

// ListRuns returns the runs of a trace, oldest first.
func (s *Store) ListRuns(ctx context.Context, traceID int64) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, trace_id, started_at, COALESCE(finished_at, ''), dispatched, skipped, last_call, stopped, error
		FROM runs WHERE trace_id = ?
		ORDER BY started_at ASC, id COLLATE BINARY ASC
	`, traceID)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var (
		r                 Run
		started, finished string
		lastCall          int64
	)
	err := row.Scan(&r.ID, &r.TraceID, &started, &finished, &r.Dispatched, &r.Skipped, &lastCall, &r.Stopped, &r.Error)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	r.LastCall = uint64(lastCall)
	if r.StartedAt, err = parseTime(started); err != nil {
		return Run{}, err
	}
	if r.FinishedAt, err = parseTime(finished); err != nil {
		return Run{}, err
	}
	return r, nil
}

// WriteFrame appends a frame to a run and returns its sequence number,
// starting at 1.
func (s *Store) WriteFrame(ctx context.Context, runID string, f Frame) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("write frame: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var seq int
	if err := tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(seq), 0) + 1 FROM frames WHERE run_id = ?
	`, runID).Scan(&seq); err != nil {
		return 0, fmt.Errorf("write frame: next seq: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO frames (run_id, seq, call_no, description, width, height)
		VALUES (?, ?, ?, ?, ?, ?)
	`, runID, seq, int64(f.CallNo), f.Description, f.Width, f.Height)
	if err != nil {
		return 0, fmt.Errorf("write frame: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("write frame: commit: %w", err)
	}
	return seq, nil
}

// ReadFrames returns the frames of a run in presentation order.
func (s *Store) ReadFrames(ctx context.Context, runID string) ([]Frame, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, call_no, description, width, height
		FROM frames WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query frames: %w", err)
	}
	defer rows.Close()

	frames := []Frame{}
	for rows.Next() {
		var (
			f      Frame
			callNo int64
		)
		if err := rows.Scan(&f.Seq, &callNo, &f.Description, &f.Width, &f.Height); err != nil {
			return nil, fmt.Errorf("scan frame: %w", err)
		}
		f.CallNo = uint64(callNo)
		frames = append(frames, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate frames: %w", err)
	}
	return frames, nil
}
