package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/bitrig/bitrig-xenocara/internal/store"
	"github.com/bitrig/bitrig-xenocara/internal/trace"
)

// ImportOptions holds flags for the import command.
type ImportOptions struct {
	*RootOptions
	Database string
	Name     string
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import <trace.jsonl>",
		Short: "Import a trace into a database",
		Long: `Import a JSON-lines trace into a SQLite database for later replay.

Calls are stored by number together with a hash of their content.
Importing the same trace again stores nothing new; importing a different
trace under the same name fails at the first call that differs.

The trace is named after its file unless --name is given.

Examples:
  retrace import --db traces.db glxgears.jsonl
  retrace import --db traces.db --name gears-v2 glxgears.jsonl`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(opts, cmd, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Name, "name", "", "trace name (default: file name without extension)")

	return cmd
}

func runImport(opts *ImportOptions, cmd *cobra.Command, path string) error {
	ctx := cmd.Context()

	f, err := os.Open(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open trace", err)
	}
	defer f.Close()

	size := int64(-1)
	if info, err := f.Stat(); err == nil && info.Size() > 0 {
		size = info.Size()
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	name := opts.Name
	if name == "" {
		name = traceName(path)
	}
	tr, err := st.CreateTrace(ctx, name)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to create trace", err)
	}

	bar := progressbar.NewOptions64(size,
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionSetDescription("import "+name),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetVisibility(!opts.Quiet),
		progressbar.OptionClearOnFinish(),
	)
	defer bar.Close()

	src := trace.NewReader(io.TeeReader(f, bar))
	stats, err := st.Import(ctx, tr.ID, src, nil)
	if err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("failed to import %s", path), err)
	}
	_ = bar.Finish()

	if !opts.Quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d calls imported, %d already present, last call %d\n",
			name, stats.Inserted, stats.Existing, stats.LastCall)
	}
	return nil
}
