package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/valiblox/internal/store"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	Naming        string
	Deliverables  string
	TemplateTable string
	TemplateSheet string
	RegisterTable string
	RegisterSheet string
	IDColumn      string
	Confirm       []string
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run naming and deliverables checks together",
		Long: `Run the naming check and the deliverables reconciliation in one
report. The two run concurrently and fail independently: a malformed
template still leaves a deliverables report, and vice versa.

Exit codes:
  0 - No findings
  1 - Non-compliant files or missing deliverables found
  2 - Command error in either check

Examples:
  valiblox check --naming ./Sample-Naming.zip --deliverables ./Sample-Deliverables.zip
  valiblox check --naming ./project --deliverables ./project --format markdown -o report.md`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Naming == "" && opts.Deliverables == "" {
				f := opts.formatter(cmd)
				msg := "at least one of --naming or --deliverables is required"
				_ = f.Error(ErrCodeInvalidArg, msg, nil)
				return NewExitError(ExitCommandError, ErrCodeInvalidArg+": "+msg)
			}

			req := request{
				kind:     store.KindCheck,
				idColumn: opts.IDColumn,
				confirm:  opts.Confirm,
			}
			if opts.Naming != "" {
				req.naming = &sourceRequest{path: opts.Naming, table: opts.TemplateTable, sheet: opts.TemplateSheet}
			}
			if opts.Deliverables != "" {
				req.deliverables = &sourceRequest{path: opts.Deliverables, table: opts.RegisterTable, sheet: opts.RegisterSheet}
			}
			return runValidation(cmd, opts.RootOptions, req)
		},
	}

	cmd.Flags().StringVar(&opts.Naming, "naming", "", "archive to check against its naming template")
	cmd.Flags().StringVar(&opts.Deliverables, "deliverables", "", "archive to reconcile against its register")
	cmd.Flags().StringVar(&opts.TemplateTable, "template-table", "", "archive path of the naming template")
	cmd.Flags().StringVar(&opts.TemplateSheet, "template-sheet", "", "workbook sheet of the naming template")
	cmd.Flags().StringVar(&opts.RegisterTable, "register-table", "", "archive path of the register")
	cmd.Flags().StringVar(&opts.RegisterSheet, "register-sheet", "", "workbook sheet of the register")
	cmd.Flags().StringVar(&opts.IDColumn, "id-column", "", "register column holding document identifiers")
	cmd.Flags().StringArrayVar(&opts.Confirm, "confirm", nil, "accept a fuzzy candidate (IDENTIFIER=PATH, repeatable)")

	return cmd
}
