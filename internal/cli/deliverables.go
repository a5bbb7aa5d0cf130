package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/valiblox/internal/store"
)

// DeliverablesOptions holds flags for the deliverables command.
type DeliverablesOptions struct {
	*RootOptions
	Table    string
	Sheet    string
	IDColumn string
	Confirm  []string
}

// NewDeliverablesCommand creates the deliverables command.
func NewDeliverablesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DeliverablesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "deliverables <archive>",
		Short: "Reconcile an archive against its deliverables register",
		Long: `Reconcile the files of a zip archive or directory against the
deliverables register table it contains.

Entries match files by exact stem, then by normalized stem. Near misses
are listed as fuzzy candidates and only count as delivered once accepted
with --confirm IDENTIFIER=PATH.

Exit codes:
  0 - Every register entry delivered
  1 - Missing deliverables found
  2 - Command error (unreadable archive, no identifier column, etc.)

Examples:
  valiblox deliverables ./Sample-Deliverables.zip
  valiblox deliverables ./project --sheet "Drawing List" --id-column "Doc No"
  valiblox deliverables ./project --confirm ABC-ARC-003=Drawings/ABC-ARC-003-Draft.pdf`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidation(cmd, opts.RootOptions, request{
				kind: store.KindDeliverables,
				deliverables: &sourceRequest{
					path:  args[0],
					table: opts.Table,
					sheet: opts.Sheet,
				},
				idColumn: opts.IDColumn,
				confirm:  opts.Confirm,
			})
		},
	}

	cmd.Flags().StringVar(&opts.Table, "table", "", "archive path of the register")
	cmd.Flags().StringVar(&opts.Sheet, "sheet", "", "workbook sheet of the register (default: first sheet)")
	cmd.Flags().StringVar(&opts.IDColumn, "id-column", "", "register column holding document identifiers")
	cmd.Flags().StringArrayVar(&opts.Confirm, "confirm", nil, "accept a fuzzy candidate (IDENTIFIER=PATH, repeatable)")

	return cmd
}
