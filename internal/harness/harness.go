package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/valiblox/internal/engine"
	"github.com/roach88/valiblox/internal/reconcile"
	"github.com/roach88/valiblox/internal/register"
	"github.com/roach88/valiblox/internal/table"
)

// Harness executes scenarios against a configured engine.
type Harness struct {
	logger  *slog.Logger
	workers int
}

// HarnessOption configures a Harness.
type HarnessOption func(*Harness)

// WithLogger sets the logger passed to the engine. Default discards output.
func WithLogger(l *slog.Logger) HarnessOption {
	return func(h *Harness) { h.logger = l }
}

// WithWorkers sets engine parallelism.
func WithWorkers(n int) HarnessOption {
	return func(h *Harness) { h.workers = n }
}

// New creates a Harness.
func New(opts ...HarnessOption) *Harness {
	h := &Harness{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run executes a scenario with a default Harness.
func Run(scenario *Scenario) (*Result, error) {
	return New().Run(context.Background(), scenario)
}

// Run executes the scenario and checks its expectations. The error is
// non-nil only when the scenario itself is unusable (unreadable CSV) or ctx
// is cancelled; failed expectations are reported on the Result.
func (h *Harness) Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	in, err := buildInput(scenario)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	opts := []engine.Option{
		engine.WithLogger(h.logger),
		engine.WithWorkers(h.workers),
		engine.WithStrictCodes(scenario.StrictCodes),
		engine.WithIdentifierColumn(scenario.IdentifierColumn),
	}
	if scenario.FuzzyThreshold > 0 {
		opts = append(opts, engine.WithFuzzyThreshold(scenario.FuzzyThreshold))
	}
	if len(scenario.Confirm) > 0 {
		confirmations := make([]engine.Confirmation, len(scenario.Confirm))
		for i, c := range scenario.Confirm {
			confirmations[i] = engine.Confirmation{Identifier: c.Identifier, Path: c.Path}
		}
		opts = append(opts, engine.WithConfirmations(confirmations))
	}

	out, err := engine.New(opts...).Run(ctx, in)
	if err != nil {
		return nil, err
	}

	result := NewResult()
	result.Outcome = out
	checkExpectation(result, scenario.Expect, out)
	return result, nil
}

func buildInput(s *Scenario) (engine.Input, error) {
	var in engine.Input
	if s.Template != "" {
		rows, err := table.Read("template.csv", []byte(s.Template), table.ReadOptions{})
		if err != nil {
			return in, err
		}
		in.Template = rows
		in.NamingPaths = nonNil(s.NamingFiles)
	}
	if s.Register != "" {
		rows, err := table.Read("register.csv", []byte(s.Register), table.ReadOptions{})
		if err != nil {
			return in, err
		}
		in.Register = rows
		in.DeliverablePaths = nonNil(s.DeliverableFiles)
	}
	return in, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func checkExpectation(r *Result, exp Expectation, out *engine.Outcome) {
	err := out.Err()
	switch {
	case exp.Error == "" && err != nil:
		r.AddError(fmt.Sprintf("unexpected error: %v", err))
	case exp.Error != "" && err == nil:
		r.AddError(fmt.Sprintf("expected error containing %q, got none", exp.Error))
	case exp.Error != "" && !strings.Contains(err.Error(), exp.Error):
		r.AddError(fmt.Sprintf("expected error containing %q, got %v", exp.Error, err))
	}

	if exp.Passed != nil && out.Report.Passed() != *exp.Passed {
		r.AddError(fmt.Sprintf("passed: expected %v, got %v", *exp.Passed, out.Report.Passed()))
	}

	if exp.Naming != nil {
		checkNaming(r, exp.Naming, out)
	}
	if exp.Deliverables != nil {
		checkDeliverables(r, exp.Deliverables, out)
	}
}

func checkNaming(r *Result, exp *NamingExpectation, out *engine.Outcome) {
	n := out.Report.Naming
	if n == nil {
		r.AddError("naming: no naming section in report")
		return
	}

	if exp.Compliant != nil && n.Compliant != *exp.Compliant {
		r.AddError(fmt.Sprintf("naming: compliant expected %d, got %d", *exp.Compliant, n.Compliant))
	}
	if exp.NonCompliant != nil && n.NonCompliant != *exp.NonCompliant {
		r.AddError(fmt.Sprintf("naming: non_compliant expected %d, got %d", *exp.NonCompliant, n.NonCompliant))
	}

	reasons := make(map[string]string, len(n.Files))
	for _, f := range n.Files {
		reasons[f.Path] = f.Reason
	}
	for _, fe := range exp.Files {
		got, ok := reasons[fe.Path]
		if !ok {
			r.AddError(fmt.Sprintf("naming: %s was not classified", fe.Path))
			continue
		}
		if got != fe.Reason {
			r.AddError(fmt.Sprintf("naming: %s reason expected %q, got %q", fe.Path, fe.Reason, got))
		}
	}
}

func checkDeliverables(r *Result, exp *DeliverablesExpectation, out *engine.Outcome) {
	res := out.Reconciliation
	if res == nil {
		r.AddError("deliverables: no reconciliation result")
		return
	}

	if exp.Delivered != nil {
		got := make([]string, len(res.Delivered))
		for i, p := range res.Delivered {
			got[i] = p.Entry.Identifier
		}
		compareList(r, "delivered", exp.Delivered, got)
	}
	if exp.Missing != nil {
		compareList(r, "missing", exp.Missing, register.Identifiers(res.Missing))
	}
	if exp.Extra != nil {
		compareList(r, "extra", exp.Extra, res.Extra)
	}
	if exp.Candidates != nil {
		checkCandidates(r, exp.Candidates, res.FuzzyCandidates)
	}
}

func checkCandidates(r *Result, exp []CandidateExpectation, got []reconcile.Candidate) {
	if len(exp) != len(got) {
		r.AddError(fmt.Sprintf("candidates: expected %d, got %d", len(exp), len(got)))
		return
	}
	for i, ce := range exp {
		c := got[i]
		if c.Entry.Identifier != ce.Identifier || c.Path != ce.Path {
			r.AddError(fmt.Sprintf("candidates[%d]: expected %s ~ %s, got %s ~ %s",
				i, ce.Identifier, ce.Path, c.Entry.Identifier, c.Path))
			continue
		}
		if c.Score < ce.MinScore {
			r.AddError(fmt.Sprintf("candidates[%d]: score %.4f below %.4f", i, c.Score, ce.MinScore))
		}
		if ce.Basis != "" && string(c.Basis) != ce.Basis {
			r.AddError(fmt.Sprintf("candidates[%d]: basis expected %s, got %s", i, ce.Basis, c.Basis))
		}
	}
}

func compareList(r *Result, label string, want, got []string) {
	if len(want) != len(got) {
		r.AddError(fmt.Sprintf("%s: expected %v, got %v", label, want, got))
		return
	}
	for i := range want {
		if want[i] != got[i] {
			r.AddError(fmt.Sprintf("%s: expected %v, got %v", label, want, got))
			return
		}
	}
}
