package engine

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/valiblox/internal/naming"
	"github.com/roach88/valiblox/internal/reconcile"
	"github.com/roach88/valiblox/internal/register"
	"github.com/roach88/valiblox/internal/report"
)

// Confirmation accepts the fuzzy candidate pairing Identifier with Path.
type Confirmation struct {
	Identifier string
	Path       string
}

// Input is everything one run reads. A nil Template skips the naming
// pipeline; a nil Register skips the deliverables pipeline.
type Input struct {
	Template         [][]string
	NamingPaths      []string
	Register         [][]string
	DeliverablePaths []string
}

// Outcome is the result of a run. Fields of a failed or skipped pipeline
// are nil and its error, if any, is set.
type Outcome struct {
	Pattern        *naming.Pattern
	Classified     []naming.ClassifiedFile
	Register       *register.Register
	Reconciliation *reconcile.Result
	Report         *report.Report

	NamingErr       error
	DeliverablesErr error
}

// Err joins both pipeline errors, nil when both succeeded or were skipped.
func (o *Outcome) Err() error {
	return errors.Join(o.NamingErr, o.DeliverablesErr)
}

// Engine holds run settings. Safe for concurrent use; Run keeps no state
// between calls.
type Engine struct {
	logger            *slog.Logger
	workers           int
	fuzzyThreshold    float64
	strictCodes       bool
	identifierHint    string
	identifierColumns []string
	confirmations     []Confirmation
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithWorkers bounds classification and reconciliation parallelism.
// Zero means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(e *Engine) { e.workers = n }
}

// WithFuzzyThreshold sets the minimum fuzzy candidate score.
func WithFuzzyThreshold(t float64) Option {
	return func(e *Engine) { e.fuzzyThreshold = t }
}

// WithStrictCodes rejects fixed-code values not seen in the template.
func WithStrictCodes(strict bool) Option {
	return func(e *Engine) { e.strictCodes = strict }
}

// WithIdentifierColumn names the register's identifier column.
func WithIdentifierColumn(hint string) Option {
	return func(e *Engine) { e.identifierHint = hint }
}

// WithIdentifierColumns replaces the recognised identifier header names.
func WithIdentifierColumns(names []string) Option {
	return func(e *Engine) { e.identifierColumns = names }
}

// WithConfirmations accepts fuzzy candidates after reconciliation.
func WithConfirmations(c []Confirmation) Option {
	return func(e *Engine) { e.confirmations = c }
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		logger:         slog.Default(),
		fuzzyThreshold: reconcile.DefaultFuzzyThreshold,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes the requested pipelines concurrently and builds the report.
// The returned error is non-nil only when ctx is cancelled; pipeline
// failures are reported on the Outcome.
func (e *Engine) Run(ctx context.Context, in Input) (*Outcome, error) {
	out := &Outcome{}

	g, gctx := errgroup.WithContext(ctx)
	if in.Template != nil {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			e.runNaming(in, out)
			return nil
		})
	}
	if in.Register != nil {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			e.runDeliverables(in, out)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out.Report = report.BuildReport(out.Classified, out.Reconciliation)

	e.logger.Debug("run complete",
		"naming", in.Template != nil,
		"deliverables", in.Register != nil,
		"passed", out.Report.Passed(),
		"naming_error", out.NamingErr != nil,
		"deliverables_error", out.DeliverablesErr != nil,
	)
	return out, nil
}

// runNaming writes only the naming fields of out.
func (e *Engine) runNaming(in Input, out *Outcome) {
	p, err := naming.CompilePatternWith(in.Template, naming.Options{StrictCodes: e.strictCodes})
	if err != nil {
		e.logger.Warn("naming template rejected", "error", err)
		out.NamingErr = &PipelineError{Stage: StageNaming, Err: err}
		return
	}
	e.logger.Debug("pattern compiled",
		"fields", p.FieldCount,
		"separator", p.SeparatorString(),
		"strict", p.StrictCodes,
	)

	out.Pattern = p
	out.Classified = naming.ClassifyFilesN(p, in.NamingPaths, e.workers)
	e.logger.Debug("files classified", "count", len(out.Classified))
}

// runDeliverables writes only the deliverables fields of out.
func (e *Engine) runDeliverables(in Input, out *Outcome) {
	reg, err := register.ParseRegisterWith(in.Register, register.Options{
		IdentifierColumnHint: e.identifierHint,
		IdentifierColumns:    e.identifierColumns,
	})
	if err != nil {
		e.logger.Warn("register rejected", "error", err)
		out.DeliverablesErr = &PipelineError{Stage: StageDeliverables, Err: err}
		return
	}
	out.Register = reg
	e.logger.Debug("register parsed",
		"identifier_column", reg.IdentifierColumn,
		"entries", len(reg.Entries),
		"warnings", len(reg.Warnings),
	)

	res := reconcile.Reconcile(reg.Entries, in.DeliverablePaths, reconcile.Options{
		FuzzyThreshold: e.fuzzyThreshold,
		Workers:        e.workers,
		Logger:         e.logger,
	})

	for _, c := range e.confirmations {
		next, err := res.ConfirmMatch(c.Identifier, c.Path)
		if err != nil {
			out.DeliverablesErr = &PipelineError{Stage: StageDeliverables, Err: err}
			break
		}
		e.logger.Debug("fuzzy candidate confirmed", "identifier", c.Identifier, "path", c.Path)
		res = next
	}
	out.Reconciliation = res
}
