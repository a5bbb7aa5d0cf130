package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/valiblox/internal/store"
)

// NamingOptions holds flags for the naming command.
type NamingOptions struct {
	*RootOptions
	Table string
	Sheet string
}

// NewNamingCommand creates the naming command.
func NewNamingCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &NamingOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "naming <archive>",
		Short: "Check file names against the archive's naming template",
		Long: `Check every file in a zip archive or directory against the naming
convention described by the template table it contains.

The template is the table file whose name mentions "naming", "convention"
or "template" (shallowest first), else the first table file. Use --table
to name it explicitly.

Exit codes:
  0 - All files compliant
  1 - Non-compliant files found
  2 - Command error (unreadable archive, malformed template, etc.)

Examples:
  valiblox naming ./Sample-Naming.zip
  valiblox naming ./project --table specs/naming.xlsx --sheet Rules
  valiblox naming ./Sample-Naming.zip --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidation(cmd, opts.RootOptions, request{
				kind: store.KindNaming,
				naming: &sourceRequest{
					path:  args[0],
					table: opts.Table,
					sheet: opts.Sheet,
				},
			})
		},
	}

	cmd.Flags().StringVar(&opts.Table, "table", "", "archive path of the naming template")
	cmd.Flags().StringVar(&opts.Sheet, "sheet", "", "workbook sheet of the template (default: first sheet)")

	return cmd
}
