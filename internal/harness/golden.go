package harness

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
)

// Snapshot renders the parts of a result that golden files pin down: the
// echo and dump log followed by the journal of the run.
func (r *Result) Snapshot() []byte {
	var buf bytes.Buffer
	buf.WriteString(r.Output)

	run := r.Run
	fmt.Fprintf(&buf, "-- journal --\n")
	fmt.Fprintf(&buf, "run %s started %s finished %s\n", run.ID,
		run.StartedAt.Format(time.RFC3339), run.FinishedAt.Format(time.RFC3339))
	fmt.Fprintf(&buf, "dispatched=%d skipped=%d last_call=%d stopped=%t\n",
		run.Dispatched, run.Skipped, run.LastCall, run.Stopped)
	if run.Error != "" {
		fmt.Fprintf(&buf, "error: %s\n", run.Error)
	}
	for _, f := range r.Journal {
		fmt.Fprintf(&buf, "frame %d: call %d %s %dx%d\n", f.Seq, f.CallNo, f.Description, f.Width, f.Height)
	}
	return buf.Bytes()
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns the result, or an error if the scenario could not be executed.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	AssertGolden(t, scenario.Name, result)
	return result, nil
}

// AssertGolden compares the snapshot of a result against a golden file.
// This is useful when you've already run a scenario and want to compare
// the result against a golden file without re-running.
func AssertGolden(t *testing.T, name string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, result.Snapshot())
}
