package cli

import (
	"fmt"
	"log/slog"

	"github.com/roach88/valiblox/internal/archive"
	"github.com/roach88/valiblox/internal/table"
)

// SourceOptions selects the table inside an archive.
type SourceOptions struct {
	// Table is the archive path of the table file. Empty means discover it.
	Table string
	// Sheet is the workbook sheet to read. Empty means the first sheet.
	Sheet string
	// Ignore lists doublestar globs of archive paths to leave out.
	Ignore []string
}

// Source is an archive split into its table and the files to check.
type Source struct {
	Archive string     `json:"archive"`
	Table   string     `json:"table"`
	Rows    [][]string `json:"-"`
	Paths   []string   `json:"-"`
}

// SourceError reports an archive that could not be opened or listed.
type SourceError struct {
	Code string
	Path string
	Err  error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// LoadSource opens the archive at path, reads its kind table and lists the
// remaining files.
func LoadSource(path string, kind archive.TableKind, opts SourceOptions, logger *slog.Logger) (*Source, error) {
	a, err := archive.Open(path, opts.Ignore)
	if err != nil {
		return nil, &SourceError{Code: ErrCodeArchive, Path: path, Err: err}
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			logger.Warn("error closing archive", "path", path, "error", closeErr)
		}
	}()

	name := opts.Table
	if name == "" {
		name, err = archive.FindTable(a, kind)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	data, err := a.ReadFile(name)
	if err != nil {
		return nil, err
	}
	rows, err := table.Read(name, data, table.ReadOptions{Sheet: opts.Sheet})
	if err != nil {
		return nil, err
	}

	src := &Source{
		Archive: a.Source(),
		Table:   name,
		Rows:    rows,
		Paths:   a.PathsExcept(name),
	}
	logger.Debug("archive loaded",
		"archive", src.Archive,
		"kind", kind,
		"table", name,
		"rows", len(rows),
		"files", len(src.Paths),
	)
	return src, nil
}
