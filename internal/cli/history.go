package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/valiblox/internal/report"
	"github.com/roach88/valiblox/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Limit int
}

// NewHistoryCommand creates the history command and its show subcommand.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded validation runs",
		Long: `List the most recent validation runs recorded in the run history
database (history_db in the config, or --history-db).

Examples:
  valiblox history
  valiblox history --limit 5 --format json
  valiblox history show 3f2a`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listHistory(cmd, opts)
		},
	}
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "number of runs to list")

	cmd.AddCommand(newHistoryShowCommand(rootOpts))
	return cmd
}

func newHistoryShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show a recorded run",
		Long: `Show one recorded run with its full report. The run ID may be
abbreviated to any unambiguous prefix; "latest" selects the most
recent run.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showRun(cmd, rootOpts, args[0])
		},
	}
}

func openHistory(cmd *cobra.Command, opts *RootOptions) (*store.Store, error) {
	f := opts.formatter(cmd)
	cfg, err := opts.Config()
	if err != nil {
		_ = f.Error(ErrCodeConfig, err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, ErrCodeConfig, err)
	}
	st, err := store.Open(cfg.HistoryDB)
	if err != nil {
		_ = f.Error(ErrCodeHistory, err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, ErrCodeHistory, err)
	}
	return st, nil
}

func listHistory(cmd *cobra.Command, opts *HistoryOptions) error {
	f := opts.formatter(cmd)
	if opts.Limit < 1 {
		msg := fmt.Sprintf("--limit must be positive, got %d", opts.Limit)
		_ = f.Error(ErrCodeInvalidArg, msg, nil)
		return NewExitError(ExitCommandError, ErrCodeInvalidArg+": "+msg)
	}

	st, err := openHistory(cmd, opts.RootOptions)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.ListRuns(cmd.Context(), opts.Limit)
	if err != nil {
		_ = f.Error(ErrCodeHistory, err.Error(), nil)
		return WrapExitError(ExitCommandError, ErrCodeHistory, err)
	}

	if opts.Format == FormatJSON {
		return f.Success(runs)
	}

	w := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}
	for _, run := range runs {
		writeRunLine(w, run)
	}
	return nil
}

func writeRunLine(w io.Writer, run store.Run) {
	fmt.Fprintf(w, "%4d  %s  %-12s  %-4s  %s\n",
		run.Seq, run.ID, run.Kind, verdict(run.Passed), run.CreatedAt.Format(time.RFC3339))
}

func verdict(passed bool) string {
	if passed {
		return "PASS"
	}
	return "FAIL"
}

func showRun(cmd *cobra.Command, opts *RootOptions, id string) error {
	f := opts.formatter(cmd)

	st, err := openHistory(cmd, opts)
	if err != nil {
		return err
	}
	defer st.Close()

	var run store.Run
	if id == "latest" {
		run, err = st.LatestRun(cmd.Context(), "")
	} else {
		run, err = st.ReadRun(cmd.Context(), id)
	}
	if err != nil {
		code := ErrCodeHistory
		if errors.Is(err, store.ErrRunNotFound) {
			code = ErrCodeNotFound
		} else if errors.Is(err, store.ErrAmbiguousRunID) {
			code = ErrCodeInvalidArg
		}
		_ = f.Error(code, err.Error(), nil)
		return WrapExitError(ExitCommandError, code, err)
	}

	if opts.Format == FormatJSON {
		return f.Success(run)
	}

	var rep report.Report
	if err := json.Unmarshal(run.Report, &rep); err != nil {
		_ = f.Error(ErrCodeHistory, fmt.Sprintf("stored report is unreadable: %v", err), nil)
		return WrapExitError(ExitCommandError, ErrCodeHistory, err)
	}

	w := cmd.OutOrStdout()
	switch opts.Format {
	case FormatMarkdown:
		return report.RenderMarkdown(w, &rep)
	case FormatHTML:
		return report.RenderHTML(w, &rep)
	}

	fmt.Fprintf(w, "Run: %s (#%d)\n", run.ID, run.Seq)
	fmt.Fprintf(w, "Kind: %s\n", run.Kind)
	fmt.Fprintf(w, "Created: %s\n", run.CreatedAt.Format(time.RFC3339))
	if run.NamingSource != "" {
		fmt.Fprintf(w, "Naming archive: %s\n", run.NamingSource)
	}
	if run.DeliverablesSource != "" {
		fmt.Fprintf(w, "Deliverables archive: %s\n", run.DeliverablesSource)
	}
	fmt.Fprintf(w, "Fingerprint: %s\n\n", run.Fingerprint)
	return report.RenderText(w, &rep, report.TextOptions{
		Color:   opts.useColor(w),
		Verbose: opts.Verbose,
	})
}
