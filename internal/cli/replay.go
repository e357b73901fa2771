package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/bitrig/bitrig-xenocara/internal/config"
	"github.com/bitrig/bitrig-xenocara/internal/engine"
	"github.com/bitrig/bitrig-xenocara/internal/pipe/memdev"
	"github.com/bitrig/bitrig-xenocara/internal/present"
	"github.com/bitrig/bitrig-xenocara/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	SourceOptions
	ConfigFile string
	Images     bool
	All        bool
	Step       bool
	From       uint64
	To         uint64
	OutDir     string

	runIDs engine.RunIDGenerator
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	return newReplayCommand(rootOpts, engine.UUIDv7Generator{})
}

func newReplayCommand(rootOpts *RootOptions, runIDs engine.RunIDGenerator) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts, runIDs: runIDs}

	cmd := &cobra.Command{
		Use:   "replay [trace.jsonl]",
		Short: "Replay a trace against the in-memory backend",
		Long: `Replay every call of a trace in order.

Calls are echoed as they are replayed unless -q is given. With -v, constant
buffers, vertices and indices are dumped before each draw. Presented frames
are shown in the terminal, waiting for Enter after each one, or saved as
PNG files with -i. With -s a frame is presented after every draw instead
of at the end of each frame.

Settings can also come from a CUE file given with --config:

  replay: {
    images:  true
    out_dir: "frames"
    stop:    500
  }

Flags given on the command line override the file.

With --db, the trace is read from a database filled by "retrace import"
and the run is journaled there together with the frames it presented.

Exit codes:
  0 - Trace replayed to the end, or to the --to call
  1 - A call could not be replayed
  2 - Command error (unreadable trace, bad config, etc.)

Examples:
  retrace replay glxgears.jsonl
  retrace replay -i --out-dir frames -f 100 -t 200 glxgears.jsonl
  retrace replay -s -a glxgears.jsonl
  retrace replay --db traces.db --trace glxgears`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd, args)
		},
	}

	cmd.Flags().StringVar(&opts.ConfigFile, "config", "", "CUE file with replay settings")
	cmd.Flags().BoolVarP(&opts.Images, "images", "i", false, "save presented frames as PNG files")
	cmd.Flags().BoolVarP(&opts.All, "all", "a", false, "also present depth buffers, copies and transfers")
	cmd.Flags().BoolVarP(&opts.Step, "step", "s", false, "present after every draw")
	cmd.Flags().Uint64VarP(&opts.From, "from", "f", 0, "present nothing before this call")
	cmd.Flags().Uint64VarP(&opts.To, "to", "t", 0, "stop after this call (0 replays everything)")
	cmd.Flags().StringVar(&opts.OutDir, "out-dir", "", "directory for saved frames")
	cmd.Flags().StringVar(&opts.Database, "db", "", "replay a trace stored in this SQLite database")
	cmd.Flags().StringVar(&opts.Trace, "trace", "", "name of the stored trace (with --db)")

	return cmd
}

// resolveOptions builds the replay options: defaults, then the config
// file, then every flag given on the command line.
func (o *ReplayOptions) resolveOptions(cmd *cobra.Command) (config.Options, error) {
	opts := config.Default()
	if o.ConfigFile != "" {
		loaded, err := config.Load(o.ConfigFile)
		if err != nil {
			return opts, WrapExitError(ExitCommandError, "failed to load config", err)
		}
		opts = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("quiet") {
		opts.Quiet = o.Quiet
	}
	if flags.Changed("verbose") {
		opts.Verbosity = config.DefaultVerbosity + o.Verbose
	}
	if flags.Changed("images") {
		opts.Images = o.Images
	}
	if flags.Changed("all") {
		opts.All = o.All
	}
	if flags.Changed("step") {
		opts.Step = o.Step
	}
	if flags.Changed("from") {
		opts.Start = o.From
	}
	if flags.Changed("to") {
		opts.Stop = o.To
	}
	if flags.Changed("out-dir") {
		opts.OutDir = o.OutDir
	}
	return opts, nil
}

// newPresenter picks the frame sink: PNG files with Images, the terminal
// viewer otherwise.
func newPresenter(opts config.Options, cmd *cobra.Command, logger *slog.Logger) present.Presenter {
	if opts.Images {
		return present.NewFileSaver(opts.OutDir, logger)
	}
	return present.NewTerminalViewer(
		present.WithViewerInput(cmd.InOrStdin()),
		present.WithViewerOutput(cmd.OutOrStdout()),
	)
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	replayOpts, err := opts.resolveOptions(cmd)
	if err != nil {
		return err
	}
	logger := opts.Logger(cmd.ErrOrStderr())

	src, err := openSource(ctx, opts.SourceOptions, args, cmd.InOrStdin())
	if err != nil {
		return err
	}
	defer src.Close()

	presenter := newPresenter(replayOpts, cmd, logger)

	var runID string
	if src.Store != nil {
		runID = opts.runIDs.Generate()
		if _, err := src.Store.StartRun(ctx, runID, src.TraceID); err != nil {
			return WrapExitError(ExitCommandError, "failed to journal run", err)
		}
		presenter = &journal{ctx: ctx, store: src.Store, runID: runID, next: presenter}
		logger.Info("run started", "run", runID, "trace", opts.Trace)
	}

	eng := engine.New(memdev.New(logger), replayOpts,
		engine.WithLogger(logger),
		engine.WithOutput(cmd.OutOrStdout()),
		engine.WithPresenter(presenter),
	)
	res, replayErr := eng.Replay(ctx, src)

	if src.Store != nil {
		msg := ""
		if replayErr != nil {
			msg = replayErr.Error()
		}
		// The journal is written even when the replay was cancelled.
		err := src.Store.FinishRun(context.WithoutCancel(ctx), runID,
			res.Dispatched, res.Skipped, res.LastCall, res.Stopped, msg)
		if err != nil {
			logger.Error("failed to finish run", "run", runID, "error", err)
		}
	}

	if replayErr != nil {
		return WrapExitError(ExitFailure, "replay failed", replayErr)
	}
	if res.Stopped {
		logger.Info(fmt.Sprintf("stopped after call %d", replayOpts.Stop))
	}
	return nil
}

// journal records every presented frame of a run in the store before
// passing it on.
type journal struct {
	ctx   context.Context
	store *store.Store
	runID string
	next  present.Presenter
}

func (j *journal) Present(f present.Frame) error {
	rec := store.Frame{CallNo: f.CallNo, Description: f.Description}
	if f.Image != nil {
		b := f.Image.Bounds()
		rec.Width, rec.Height = b.Dx(), b.Dy()
	}
	if _, err := j.store.WriteFrame(j.ctx, j.runID, rec); err != nil {
		return fmt.Errorf("journal frame: %w", err)
	}
	if j.next == nil {
		return nil
	}
	return j.next.Present(f)
}
