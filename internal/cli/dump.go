package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/bitrig/bitrig-xenocara/internal/trace"
)

// DumpOptions holds flags for the dump command.
type DumpOptions struct {
	*RootOptions
	SourceOptions
	To uint64
}

// NewDumpCommand creates the dump command.
func NewDumpCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DumpOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "dump [trace.jsonl]",
		Short: "Print a trace without replaying it",
		Long: `Print every call of a trace in the same form replay echoes it,
without creating any object.

Examples:
  retrace dump glxgears.jsonl
  retrace dump -t 50 glxgears.jsonl
  retrace dump --db traces.db --trace glxgears`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(opts, cmd, args)
		},
	}

	cmd.Flags().Uint64VarP(&opts.To, "to", "t", 0, "stop after this call (0 prints everything)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "dump a trace stored in this SQLite database")
	cmd.Flags().StringVar(&opts.Trace, "trace", "", "name of the stored trace (with --db)")

	return cmd
}

func runDump(opts *DumpOptions, cmd *cobra.Command, args []string) error {
	src, err := openSource(cmd.Context(), opts.SourceOptions, args, cmd.InOrStdin())
	if err != nil {
		return err
	}
	defer src.Close()

	w := bufio.NewWriter(cmd.OutOrStdout())
	n, err := dumpTrace(w, src, opts.To)
	if flushErr := w.Flush(); err == nil {
		err = flushErr
	}
	if err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("failed after %d calls", n), err)
	}
	return nil
}

// dumpTrace writes one line per call up to and including call stop (all
// calls when stop is 0) and returns how many were written.
func dumpTrace(w io.Writer, src trace.Source, stop uint64) (int, error) {
	n := 0
	for {
		call, err := src.Next()
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		if stop != 0 && call.No > stop {
			return n, nil
		}
		if _, err := fmt.Fprintln(w, trace.FormatCall(call)); err != nil {
			return n, err
		}
		n++
	}
}
