package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/roach88/valiblox/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "text" | "json" | "markdown" | "html"
	Output     string // write the report here instead of stdout
	ConfigPath string
	NoHistory  bool
	HistoryDB  string

	Threshold float64
	Workers   int
	Strict    bool

	// flags records which overrides were set on the command line.
	flags *cobra.Command
	cfg   *config.Configuration
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{FormatText, FormatJSON, FormatMarkdown, FormatHTML}

// NewRootCommand creates the root command for the valiblox CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "valiblox",
		Short: "valiblox - drawing naming and deliverables checker",
		Long: `Validate project archives against a naming convention and
reconcile them against a deliverables register.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				msg := fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
				fmt.Fprintf(cmd.ErrOrStderr(), "Error [%s]: %s\n", ErrCodeInvalidArg, msg)
				return NewExitError(ExitCommandError, ErrCodeInvalidArg+": "+msg)
			}
			opts.flags = cmd
			return nil
		},
	}

	// Global flags
	pf := cmd.PersistentFlags()
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output and debug logging")
	pf.StringVar(&opts.Format, "format", FormatText, "output format (text|json|markdown|html)")
	pf.StringVarP(&opts.Output, "output", "o", "", "write the report to a file")
	pf.StringVar(&opts.ConfigPath, "config", config.DefaultLocalPath, "project config file")
	pf.BoolVar(&opts.NoHistory, "no-history", false, "do not record this run")
	pf.StringVar(&opts.HistoryDB, "history-db", "", "run history database (overrides config)")
	pf.Float64Var(&opts.Threshold, "threshold", 0, "fuzzy candidate threshold in (0, 1] (overrides config)")
	pf.IntVar(&opts.Workers, "workers", 0, "worker goroutines, 0 for GOMAXPROCS (overrides config)")
	pf.BoolVar(&opts.Strict, "strict", false, "reject fixed-code values missing from the template")

	// Add subcommands
	cmd.AddCommand(NewNamingCommand(opts))
	cmd.AddCommand(NewDeliverablesCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// changed reports whether a global flag was set explicitly.
func (o *RootOptions) changed(name string) bool {
	if o.flags == nil {
		return false
	}
	f := o.flags.Flags().Lookup(name)
	return f != nil && f.Changed
}

// Config loads the layered configuration once and applies flag overrides.
func (o *RootOptions) Config() (*config.Configuration, error) {
	if o.cfg != nil {
		return o.cfg, nil
	}

	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return nil, err
	}
	if o.Threshold != 0 || o.changed("threshold") {
		cfg.FuzzyThreshold = o.Threshold
	}
	if o.Workers != 0 || o.changed("workers") {
		cfg.Workers = o.Workers
	}
	if o.Strict {
		cfg.StrictCodes = true
	}
	if o.HistoryDB != "" {
		cfg.HistoryDB = o.HistoryDB
	}
	if o.NoHistory {
		cfg.RecordHistory = false
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o.cfg = cfg
	return cfg, nil
}

// Logger builds the stderr logger: debug with --verbose, warn otherwise.
func (o *RootOptions) Logger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if o.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// useColor reports whether the text report should carry ANSI colours.
func (o *RootOptions) useColor(w io.Writer) bool {
	if o.Output != "" || color.NoColor {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}
