package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/bitrig/bitrig-xenocara/internal/engine"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Quiet   bool
	Verbose int    // repeat count of -v
	Format  string // "json" | "text", for listing output
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command of the retrace CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(engine.UUIDv7Generator{})
}

func newRootCommand(runIDs engine.RunIDGenerator) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "retrace",
		Short: "retrace - replay recorded gallium traces",
		Long: `Replay a recorded trace of gallium pipe calls against a backend.

Every call in the trace is decoded, its object addresses are resolved to
the live objects created earlier in the replay, and the call is
re-executed. Render targets can be saved as PNG files or shown in the
terminal as the replay progresses.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Quiet, "quiet", "q", false, "do not echo calls")
	cmd.PersistentFlags().CountVarP(&opts.Verbose, "verbose", "v", "increase verbosity (repeatable)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "listing output format (json|text)")

	cmd.AddCommand(newReplayCommand(opts, runIDs))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewDumpCommand(opts))
	cmd.AddCommand(NewRunsCommand(opts))

	return cmd
}

// Logger returns the logger for a command writing diagnostics to w.
// Quiet shows warnings only; each -v lowers the threshold.
func (o *RootOptions) Logger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case o.Quiet:
		level = slog.LevelWarn
	case o.Verbose > 0:
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
