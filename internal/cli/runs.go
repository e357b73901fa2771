package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/bitrig/bitrig-xenocara/internal/store"
)

// RunsOptions holds flags for the runs command.
type RunsOptions struct {
	*RootOptions
	Database string
	Trace    string // optional - one trace only
	Frames   bool
}

// RunsFrame is a journaled frame.
type RunsFrame struct {
	Seq         int    `json:"seq"`
	Call        uint64 `json:"call"`
	Description string `json:"description"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
}

// RunsRun is one journaled replay.
type RunsRun struct {
	ID         string      `json:"id"`
	StartedAt  time.Time   `json:"started_at"`
	FinishedAt *time.Time  `json:"finished_at,omitempty"`
	Dispatched int         `json:"dispatched"`
	Skipped    int         `json:"skipped"`
	LastCall   uint64      `json:"last_call"`
	Stopped    bool        `json:"stopped"`
	Error      string      `json:"error,omitempty"`
	Frames     []RunsFrame `json:"frames,omitempty"`
}

// RunsTrace is an imported trace and its runs.
type RunsTrace struct {
	Name       string    `json:"name"`
	Calls      int       `json:"calls"`
	ImportedAt time.Time `json:"imported_at"`
	Runs       []RunsRun `json:"runs"`
}

// RunsResult is the output of the runs command.
type RunsResult struct {
	Traces []RunsTrace `json:"traces"`
}

// String renders the text form.
func (r RunsResult) String() string {
	if len(r.Traces) == 0 {
		return "No traces imported.\n"
	}
	var sb strings.Builder
	for _, t := range r.Traces {
		fmt.Fprintf(&sb, "%s (%d calls, imported %s)\n", t.Name, t.Calls, t.ImportedAt.Format(time.RFC3339))
		if len(t.Runs) == 0 {
			sb.WriteString("  no runs\n")
		}
		for _, run := range t.Runs {
			fmt.Fprintf(&sb, "  %s  %s\n", run.ID, run.status())
			for _, f := range run.Frames {
				fmt.Fprintf(&sb, "    %3d. call %d %s %dx%d\n", f.Seq, f.Call, f.Description, f.Width, f.Height)
			}
		}
	}
	return sb.String()
}

func (r RunsRun) status() string {
	switch {
	case r.FinishedAt == nil:
		return "running"
	case r.Error != "":
		return fmt.Sprintf("failed at call %d: %s", r.LastCall, r.Error)
	case r.Stopped:
		return fmt.Sprintf("stopped after call %d (%d dispatched, %d skipped)", r.LastCall, r.Dispatched, r.Skipped)
	}
	return fmt.Sprintf("completed through call %d (%d dispatched, %d skipped)", r.LastCall, r.Dispatched, r.Skipped)
}

// NewRunsCommand creates the runs command.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List imported traces and their replays",
		Long: `List the traces imported into a database and the replays journaled
for each of them.

Examples:
  retrace runs --db traces.db
  retrace runs --db traces.db --trace glxgears --frames
  retrace runs --db traces.db --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuns(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Trace, "trace", "", "list one trace only")
	cmd.Flags().BoolVar(&opts.Frames, "frames", false, "list the frames of every run")

	return cmd
}

func runRuns(opts *RunsOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	if _, err := os.Stat(opts.Database); err != nil {
		return WrapExitError(ExitCommandError, "database not found", err)
	}
	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	traces, err := st.ListTraces(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list traces", err)
	}

	result := RunsResult{Traces: []RunsTrace{}}
	for _, t := range traces {
		if opts.Trace != "" && t.Name != opts.Trace {
			continue
		}
		entry := RunsTrace{Name: t.Name, Calls: t.Calls, ImportedAt: t.ImportedAt, Runs: []RunsRun{}}

		runs, err := st.ListRuns(ctx, t.ID)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list runs", err)
		}
		for _, r := range runs {
			run := RunsRun{
				ID:         r.ID,
				StartedAt:  r.StartedAt,
				Dispatched: r.Dispatched,
				Skipped:    r.Skipped,
				LastCall:   r.LastCall,
				Stopped:    r.Stopped,
				Error:      r.Error,
			}
			if !r.FinishedAt.IsZero() {
				finished := r.FinishedAt
				run.FinishedAt = &finished
			}
			if opts.Frames {
				frames, err := st.ReadFrames(ctx, r.ID)
				if err != nil {
					return WrapExitError(ExitCommandError, "failed to read frames", err)
				}
				for _, f := range frames {
					run.Frames = append(run.Frames, RunsFrame{
						Seq: f.Seq, Call: f.CallNo, Description: f.Description, Width: f.Width, Height: f.Height,
					})
				}
			}
			entry.Runs = append(entry.Runs, run)
		}
		result.Traces = append(result.Traces, entry)
	}

	if opts.Trace != "" && len(result.Traces) == 0 {
		_ = out.Error("COMMAND", fmt.Sprintf("trace %q has not been imported", opts.Trace), nil)
		return WrapExitError(ExitCommandError, "unknown trace", errors.New(opts.Trace))
	}
	return out.Success(result)
}
