package harness

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/bitrig/bitrig-xenocara/internal/engine"
	"github.com/bitrig/bitrig-xenocara/internal/pipe/memdev"
	"github.com/bitrig/bitrig-xenocara/internal/store"
	"github.com/bitrig/bitrig-xenocara/internal/testutil"
	"github.com/bitrig/bitrig-xenocara/internal/trace"
)

// Harness holds the per-scenario replay environment.
type Harness struct {
	store     *store.Store
	runIDs    engine.RunIDGenerator
	presenter *testutil.RecordingPresenter
	logger    *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
// Deterministic helpers ensure reproducible results.
//
// Execution flow:
// 1. Create fresh in-memory database
// 2. Import the trace
// 3. Replay it from the store, journaling the run
// 4. Check the expected outcome and evaluate assertions
//
// A replay error is part of the result, not an error of Run. Run only
// fails when the scenario cannot be executed at all.
func Run(scenario *Scenario) (*Result, error) {
	clock := testutil.NewDeterministicClock()
	st, err := store.Open(":memory:", store.WithClock(clock.Now))
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		store:     st,
		runIDs:    testutil.NewFixedRunIDGenerator(scenario.RunID),
		presenter: testutil.NewRecordingPresenter(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}

	ctx := context.Background()

	traceID, err := h.importTrace(ctx, scenario)
	if err != nil {
		return nil, fmt.Errorf("failed to import trace: %w", err)
	}

	result, err := h.replay(ctx, scenario, traceID)
	if err != nil {
		return nil, fmt.Errorf("failed to replay: %w", err)
	}

	for _, msg := range checkExpect(result, scenario.Expect) {
		result.AddError(msg)
	}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}

func (h *Harness) importTrace(ctx context.Context, scenario *Scenario) (int64, error) {
	f, err := os.Open(scenario.Trace)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	tr, err := h.store.CreateTrace(ctx, scenario.Name)
	if err != nil {
		return 0, err
	}
	if _, err := h.store.Import(ctx, tr.ID, trace.NewReader(f), nil); err != nil {
		return 0, err
	}
	return tr.ID, nil
}

func (h *Harness) replay(ctx context.Context, scenario *Scenario, traceID int64) (*Result, error) {
	src, err := h.store.Source(ctx, traceID)
	if err != nil {
		return nil, err
	}

	runID := h.runIDs.Generate()
	if _, err := h.store.StartRun(ctx, runID, traceID); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	driver := memdev.New(h.logger)
	eng := engine.New(driver, scenario.Options.Config(),
		engine.WithLogger(h.logger),
		engine.WithOutput(&out),
		engine.WithPresenter(h.presenter),
	)
	res, replayErr := eng.Replay(ctx, src)

	result := NewResult()
	result.Output = out.String()
	result.Replay = res
	result.Err = replayErr
	result.Frames = h.presenter.Frames()
	result.objects = eng.Objects()

	for _, f := range result.Frames {
		b := f.Image.Bounds()
		rec := store.Frame{CallNo: f.CallNo, Description: f.Description, Width: b.Dx(), Height: b.Dy()}
		if _, err := h.store.WriteFrame(ctx, runID, rec); err != nil {
			return nil, err
		}
	}

	msg := ""
	if replayErr != nil {
		msg = replayErr.Error()
	}
	if err := h.store.FinishRun(ctx, runID, res.Dispatched, res.Skipped, res.LastCall, res.Stopped, msg); err != nil {
		return nil, err
	}
	if result.Run, err = h.store.ReadRun(ctx, runID); err != nil {
		return nil, err
	}
	if result.Journal, err = h.store.ReadFrames(ctx, runID); err != nil {
		return nil, err
	}
	return result, nil
}

// checkExpect compares the end of the replay with the expected outcome.
func checkExpect(r *Result, want Expect) []string {
	var errs []string

	code, _ := engine.CodeOf(r.Err)
	switch {
	case want.Error == "" && r.Err != nil:
		errs = append(errs, fmt.Sprintf("replay failed: %v", r.Err))
	case want.Error != "" && r.Err == nil:
		errs = append(errs, fmt.Sprintf("expected replay error %s, replay succeeded", want.Error))
	case want.Error != "" && string(code) != want.Error:
		errs = append(errs, fmt.Sprintf("expected replay error %s, got %v", want.Error, r.Err))
	}

	if want.Stopped != r.Replay.Stopped {
		errs = append(errs, fmt.Sprintf("expected stopped=%t, got %t", want.Stopped, r.Replay.Stopped))
	}
	if want.Dispatched != nil && *want.Dispatched != r.Replay.Dispatched {
		errs = append(errs, fmt.Sprintf("expected %d dispatched calls, got %d", *want.Dispatched, r.Replay.Dispatched))
	}
	if want.LastCall != nil && *want.LastCall != r.Replay.LastCall {
		errs = append(errs, fmt.Sprintf("expected last call %d, got %d", *want.LastCall, r.Replay.LastCall))
	}
	return errs
}
