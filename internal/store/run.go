package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"
)

// Kind is the command that produced a run.
type Kind string

const (
	KindNaming       Kind = "naming"
	KindDeliverables Kind = "deliverables"
	KindCheck        Kind = "check"
)

var (
	// ErrRunNotFound is returned when no run matches an ID or prefix.
	ErrRunNotFound = errors.New("run not found")
	// ErrAmbiguousRunID is returned when an ID prefix matches several runs.
	ErrAmbiguousRunID = errors.New("run id prefix is ambiguous")
)

// Run is one recorded validation run.
type Run struct {
	Seq                int64           `json:"seq"`
	ID                 string          `json:"id"`
	Kind               Kind            `json:"kind"`
	NamingSource       string          `json:"naming_source,omitempty"`
	DeliverablesSource string          `json:"deliverables_source,omitempty"`
	Passed             bool            `json:"passed"`
	Fingerprint        string          `json:"fingerprint"`
	Counts             map[string]int  `json:"counts"`
	Report             json.RawMessage `json:"report,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
}

// WriteRun inserts run with its counts in one transaction. ID and
// CreatedAt are assigned when empty. Returns the stored run.
func (s *Store) WriteRun(ctx context.Context, run Run) (Run, error) {
	if run.ID == "" {
		run.ID = s.ids.NewID()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = s.now()
	}
	run.CreatedAt = run.CreatedAt.UTC()
	if len(run.Report) == 0 {
		run.Report = json.RawMessage("{}")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("write run: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, kind, naming_source, deliverables_source, passed, fingerprint, report, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		string(run.Kind),
		run.NamingSource,
		run.DeliverablesSource,
		run.Passed,
		run.Fingerprint,
		string(run.Report),
		run.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Run{}, fmt.Errorf("write run: %w", err)
	}
	if run.Seq, err = res.LastInsertId(); err != nil {
		return Run{}, fmt.Errorf("write run: %w", err)
	}

	metrics := make([]string, 0, len(run.Counts))
	for m := range run.Counts {
		metrics = append(metrics, m)
	}
	sort.Strings(metrics)
	for _, m := range metrics {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_counts (run_id, metric, value) VALUES (?, ?, ?)`,
			run.ID, m, run.Counts[m],
		); err != nil {
			return Run{}, fmt.Errorf("write run counts: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("write run: %w", err)
	}
	if run.Counts == nil {
		run.Counts = map[string]int{}
	}
	return run, nil
}

const runColumns = `seq, id, kind, naming_source, deliverables_source, passed, fingerprint, created_at`

// ListRuns returns the most recent limit runs (all when limit <= 0) in
// insertion order, without report bodies. Returns an empty slice (not nil)
// when the history is empty.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+runColumns+` FROM (
			SELECT `+runColumns+` FROM runs ORDER BY seq DESC LIMIT ?
		)
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	for i := range runs {
		if runs[i].Counts, err = s.readCounts(ctx, runs[i].ID); err != nil {
			return nil, err
		}
	}
	return runs, nil
}

// ReadRun returns the run whose ID equals or uniquely starts with id,
// including its report.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	if id == "" {
		return Run{}, ErrRunNotFound
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+runColumns+`, report FROM runs
		WHERE id = ? OR substr(id, 1, length(?)) = ?
		ORDER BY (id = ?) DESC, seq ASC, id COLLATE BINARY ASC
		LIMIT 2
	`, id, id, id, id)
	if err != nil {
		return Run{}, fmt.Errorf("query run: %w", err)
	}
	defer rows.Close()

	var found []Run
	for rows.Next() {
		run, err := scanRunWithReport(rows)
		if err != nil {
			return Run{}, err
		}
		found = append(found, run)
	}
	if err := rows.Err(); err != nil {
		return Run{}, fmt.Errorf("iterate run: %w", err)
	}
	rows.Close()

	switch {
	case len(found) == 0:
		return Run{}, fmt.Errorf("%s: %w", id, ErrRunNotFound)
	case len(found) > 1 && found[0].ID != id:
		return Run{}, fmt.Errorf("%s: %w", id, ErrAmbiguousRunID)
	}

	run := found[0]
	if run.Counts, err = s.readCounts(ctx, run.ID); err != nil {
		return Run{}, err
	}
	return run, nil
}

// LatestRun returns the most recent run, of kind when kind is non-empty.
func (s *Store) LatestRun(ctx context.Context, kind Kind) (Run, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM runs
		WHERE ? = '' OR kind = ?
		ORDER BY seq DESC
		LIMIT 1
	`, string(kind), string(kind)).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrRunNotFound
	}
	if err != nil {
		return Run{}, fmt.Errorf("query latest run: %w", err)
	}
	return s.ReadRun(ctx, id)
}

func (s *Store) readCounts(ctx context.Context, runID string) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT metric, value FROM run_counts
		WHERE run_id = ?
		ORDER BY metric COLLATE BINARY ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query run counts: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var (
			metric string
			value  int
		)
		if err := rows.Scan(&metric, &value); err != nil {
			return nil, fmt.Errorf("scan run count: %w", err)
		}
		counts[metric] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run counts: %w", err)
	}
	return counts, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		run       Run
		kind      string
		createdAt string
	)
	if err := sc.Scan(
		&run.Seq, &run.ID, &kind, &run.NamingSource, &run.DeliverablesSource,
		&run.Passed, &run.Fingerprint, &createdAt,
	); err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	return finishRun(run, kind, createdAt)
}

func scanRunWithReport(sc scanner) (Run, error) {
	var (
		run       Run
		kind      string
		createdAt string
		report    string
	)
	if err := sc.Scan(
		&run.Seq, &run.ID, &kind, &run.NamingSource, &run.DeliverablesSource,
		&run.Passed, &run.Fingerprint, &createdAt, &report,
	); err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.Report = json.RawMessage(report)
	return finishRun(run, kind, createdAt)
}

func finishRun(run Run, kind, createdAt string) (Run, error) {
	run.Kind = Kind(kind)
	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Run{}, fmt.Errorf("parse created_at for run %s: %w", run.ID, err)
	}
	run.CreatedAt = t
	return run, nil
}
