package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/valiblox/internal/archive"
	"github.com/roach88/valiblox/internal/config"
	"github.com/roach88/valiblox/internal/engine"
	"github.com/roach88/valiblox/internal/filelock"
	"github.com/roach88/valiblox/internal/report"
	"github.com/roach88/valiblox/internal/store"
)

// request describes one validation run. A nil source skips that pipeline.
type request struct {
	kind         store.Kind
	naming       *sourceRequest
	deliverables *sourceRequest
	idColumn     string
	confirm      []string
}

type sourceRequest struct {
	path  string
	table string
	sheet string
}

// ReportPayload is the JSON data of a validation run.
type ReportPayload struct {
	Passed       bool           `json:"passed"`
	Fingerprint  string         `json:"fingerprint,omitempty"`
	Naming       *Source        `json:"naming_source,omitempty"`
	Deliverables *Source        `json:"deliverables_source,omitempty"`
	Report       *report.Report `json:"report"`
}

// parseConfirmations splits ID=PATH flag values at the first '='.
func parseConfirmations(values []string) ([]engine.Confirmation, error) {
	out := make([]engine.Confirmation, 0, len(values))
	for _, v := range values {
		id, path, ok := strings.Cut(v, "=")
		id, path = strings.TrimSpace(id), strings.TrimSpace(path)
		if !ok || id == "" || path == "" {
			return nil, fmt.Errorf("invalid --confirm %q: want IDENTIFIER=PATH", v)
		}
		out = append(out, engine.Confirmation{Identifier: id, Path: path})
	}
	return out, nil
}

func runValidation(cmd *cobra.Command, opts *RootOptions, req request) error {
	f := opts.formatter(cmd)

	cfg, err := opts.Config()
	if err != nil {
		_ = f.Error(ErrCodeConfig, err.Error(), nil)
		return WrapExitError(ExitCommandError, ErrCodeConfig, err)
	}
	logger := opts.Logger(cmd.ErrOrStderr())

	confirmations, err := parseConfirmations(req.confirm)
	if err != nil {
		_ = f.Error(ErrCodeInvalidArg, err.Error(), nil)
		return WrapExitError(ExitCommandError, ErrCodeInvalidArg, err)
	}

	var (
		payload         ReportPayload
		in              engine.Input
		namingErr       error
		deliverablesErr error
	)
	if req.naming != nil {
		payload.Naming, namingErr = loadRequested(req.naming, archive.KindNamingTemplate, cfg, logger)
		if payload.Naming != nil {
			in.Template = payload.Naming.Rows
			in.NamingPaths = payload.Naming.Paths
		}
	}
	if req.deliverables != nil {
		payload.Deliverables, deliverablesErr = loadRequested(req.deliverables, archive.KindRegister, cfg, logger)
		if payload.Deliverables != nil {
			in.Register = payload.Deliverables.Rows
			in.DeliverablePaths = payload.Deliverables.Paths
		}
	}

	eng := engine.New(
		engine.WithLogger(logger),
		engine.WithWorkers(cfg.Workers),
		engine.WithFuzzyThreshold(cfg.FuzzyThreshold),
		engine.WithStrictCodes(cfg.StrictCodes),
		engine.WithIdentifierColumn(req.idColumn),
		engine.WithIdentifierColumns(cfg.IdentifierColumns),
		engine.WithConfirmations(confirmations),
	)
	out, err := eng.Run(cmd.Context(), in)
	if err != nil {
		_ = f.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "run cancelled", err)
	}
	if namingErr == nil {
		namingErr = out.NamingErr
	}
	if deliverablesErr == nil {
		deliverablesErr = out.DeliverablesErr
	}
	pipelineErr := errors.Join(namingErr, deliverablesErr)

	rep := out.Report
	if rep.Naming == nil && rep.Deliverables == nil {
		reportErrors(f, namingErr, deliverablesErr)
		return WrapExitError(ExitCommandError, ErrorCode(pipelineErr), pipelineErr)
	}

	payload.Report = rep
	payload.Passed = rep.Passed()
	if fp, err := report.Fingerprint(rep); err != nil {
		logger.Warn("fingerprint failed", "error", err)
	} else {
		payload.Fingerprint = fp
	}

	var runID string
	if cfg.RecordHistory && pipelineErr == nil {
		runID = recordRun(cmd.Context(), cfg.HistoryDB, req.kind, &payload, logger)
	}

	if err := writeReport(cmd, opts, &payload, runID, namingErr, deliverablesErr); err != nil {
		_ = f.Error(ErrCodeWriteFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, ErrCodeWriteFailed, err)
	}

	if pipelineErr != nil {
		if opts.Format != FormatJSON {
			reportErrors(f, namingErr, deliverablesErr)
		}
		return WrapExitError(ExitCommandError, ErrorCode(pipelineErr), pipelineErr)
	}
	if !payload.Passed {
		return errFindings
	}
	return nil
}

func loadRequested(sr *sourceRequest, kind archive.TableKind, cfg *config.Configuration, logger *slog.Logger) (*Source, error) {
	return LoadSource(sr.path, kind, SourceOptions{
		Table:  sr.table,
		Sheet:  sr.sheet,
		Ignore: cfg.Ignore,
	}, logger)
}

// reportErrors prints each pipeline error with its own code.
func reportErrors(f *OutputFormatter, errs ...error) {
	if f.Format == FormatJSON {
		joined := errors.Join(errs...)
		_ = f.Error(ErrorCode(joined), joined.Error(), errorDetails(errs...))
		return
	}
	for _, err := range errs {
		if err != nil {
			_ = f.Error(ErrorCode(err), err.Error(), nil)
		}
	}
}

func errorDetails(errs ...error) []CLIError {
	details := []CLIError{}
	for _, err := range errs {
		if err != nil {
			details = append(details, CLIError{Code: ErrorCode(err), Message: err.Error()})
		}
	}
	return details
}

// writeReport renders the payload in the selected format to stdout or --output.
func writeReport(cmd *cobra.Command, opts *RootOptions, payload *ReportPayload, runID string, errs ...error) error {
	render := func(w io.Writer) error {
		switch opts.Format {
		case FormatJSON:
			resp := CLIResponse{Status: "ok", Data: payload, RunID: runID}
			if joined := errors.Join(errs...); joined != nil {
				resp.Status = "error"
				resp.Error = &CLIError{
					Code:    ErrorCode(joined),
					Message: joined.Error(),
					Details: errorDetails(errs...),
				}
			}
			return json.NewEncoder(w).Encode(resp)
		case FormatMarkdown:
			return report.RenderMarkdown(w, payload.Report)
		case FormatHTML:
			return report.RenderHTML(w, payload.Report)
		default:
			return report.RenderText(w, payload.Report, report.TextOptions{
				Color:   opts.useColor(cmd.OutOrStdout()),
				Verbose: opts.Verbose,
			})
		}
	}

	if opts.Output == "" {
		return render(cmd.OutOrStdout())
	}
	if err := filelock.WriteRendered(cmd.Context(), opts.Output, render); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Report written to %s\n", opts.Output)
	return nil
}

// recordRun stores the run and returns its ID, or "" when history is
// unavailable. History failures never fail a validation.
func recordRun(ctx context.Context, dbPath string, kind store.Kind, payload *ReportPayload, logger *slog.Logger) string {
	st, err := store.Open(dbPath)
	if err != nil {
		logger.Warn("run history unavailable", "path", dbPath, "error", err)
		return ""
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Warn("error closing run history", "error", closeErr)
		}
	}()

	body, err := json.Marshal(payload.Report)
	if err != nil {
		logger.Warn("encode report for history", "error", err)
		return ""
	}

	run := store.Run{
		Kind:        kind,
		Passed:      payload.Passed,
		Fingerprint: payload.Fingerprint,
		Counts:      reportCounts(payload.Report),
		Report:      body,
	}
	if payload.Naming != nil {
		run.NamingSource = payload.Naming.Archive
	}
	if payload.Deliverables != nil {
		run.DeliverablesSource = payload.Deliverables.Archive
	}

	stored, err := st.WriteRun(ctx, run)
	if err != nil {
		logger.Warn("record run", "error", err)
		return ""
	}
	logger.Debug("run recorded", "id", stored.ID, "seq", stored.Seq)
	return stored.ID
}

// reportCounts flattens the headline numbers of r for the run history.
func reportCounts(r *report.Report) map[string]int {
	counts := map[string]int{}
	if n := r.Naming; n != nil {
		counts["naming_total"] = n.Total
		counts["naming_compliant"] = n.Compliant
		counts["naming_non_compliant"] = n.NonCompliant
	}
	if d := r.Deliverables; d != nil {
		counts["register_entries"] = d.RegisterCount
		counts["delivered"] = d.Delivered
		counts["missing"] = d.Missing
		counts["extra"] = d.Extra
		counts["fuzzy_candidates"] = len(d.FuzzyCandidates)
	}
	return counts
}
