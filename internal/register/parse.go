package register

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// DefaultIdentifierColumns are header names recognised as the document
// identifier column. Matching ignores case, spaces, and punctuation.
var DefaultIdentifierColumns = []string{
	"Drawing Number",
	"Drawing No",
	"Document Number",
	"Document No",
	"Doc No",
	"Doc Number",
	"Document ID",
	"Document Identifier",
	"Deliverable ID",
	"Deliverable Number",
	"Identifier",
}

// uniquenessQuorum is the share of distinct values a column needs to be
// picked as the identifier column by the fallback heuristic.
const uniquenessQuorum = 0.9

// Options tunes register parsing.
type Options struct {
	// IdentifierColumnHint names the identifier column explicitly.
	IdentifierColumnHint string

	// IdentifierColumns overrides DefaultIdentifierColumns.
	IdentifierColumns []string
}

// ParseRegister parses a register table. hint may be empty.
func ParseRegister(rows [][]string, hint string) (*Register, error) {
	return ParseRegisterWith(rows, Options{IdentifierColumnHint: hint})
}

// ParseRegisterWith is ParseRegister with explicit options.
func ParseRegisterWith(rows [][]string, opts Options) (*Register, error) {
	headerAt := -1
	for i, row := range rows {
		if !isBlank(row) {
			headerAt = i
			break
		}
	}
	if headerAt < 0 {
		return nil, newRegisterError(ErrRegisterEmpty, "register has no header row")
	}

	columns := headerColumns(rows[headerAt])
	if len(columns) == 0 {
		return nil, newRegisterError(ErrRegisterEmpty, "register header is empty")
	}

	type dataRow struct {
		number int
		cells  []string
	}
	var data []dataRow
	for i := headerAt + 1; i < len(rows); i++ {
		if isBlank(rows[i]) {
			continue
		}
		data = append(data, dataRow{number: i + 1, cells: rows[i]})
	}

	cellsOf := make([][]string, len(data))
	for i, d := range data {
		cellsOf[i] = d.cells
	}

	idCol, err := identifierColumn(columns, cellsOf, opts)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(data))
	for _, d := range data {
		entry := Entry{
			Row:        d.number,
			Identifier: cell(d.cells, idCol),
			Attributes: make(map[string]string, len(columns)-1),
		}
		for c, name := range columns {
			if c == idCol {
				continue
			}
			entry.Attributes[name] = cell(d.cells, c)
		}
		entries = append(entries, entry)
	}

	return &Register{
		Columns:          columns,
		IdentifierColumn: columns[idCol],
		Entries:          entries,
		Warnings:         CheckQuality(entries),
	}, nil
}

// Identifiers returns the identifiers of entries in register order.
func Identifiers(entries []Entry) []string {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.Identifier
	}
	return ids
}

func identifierColumn(columns []string, rows [][]string, opts Options) (int, error) {
	if hint := strings.TrimSpace(opts.IdentifierColumnHint); hint != "" {
		if i := findColumn(columns, []string{hint}); i >= 0 {
			return i, nil
		}
		return -1, newRegisterError(ErrIdentifierNotFound, "identifier column %q not in header %q", hint, columns)
	}

	known := opts.IdentifierColumns
	if len(known) == 0 {
		known = DefaultIdentifierColumns
	}
	if i := findColumn(columns, known); i >= 0 {
		return i, nil
	}

	if len(rows) > 0 {
		for c := range columns {
			if looksLikeIdentifier(rows, c) {
				return c, nil
			}
		}
	}
	return -1, newRegisterError(ErrNoIdentifierColumn, "no identifier column among %q", columns)
}

// findColumn returns the first header column matching any of names.
func findColumn(columns, names []string) int {
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[columnKey(n)] = true
	}
	for i, c := range columns {
		if wanted[columnKey(c)] {
			return i
		}
	}
	return -1
}

// looksLikeIdentifier reports whether column c is fully populated and
// mostly unique.
func looksLikeIdentifier(rows [][]string, c int) bool {
	seen := make(map[string]bool, len(rows))
	for _, row := range rows {
		v := cell(row, c)
		if v == "" {
			return false
		}
		seen[v] = true
	}
	return float64(len(seen)) >= uniquenessQuorum*float64(len(rows))
}

func columnKey(name string) string {
	var b strings.Builder
	for _, r := range cases.Fold().String(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func headerColumns(row []string) []string {
	end := len(row)
	for end > 0 && strings.TrimSpace(row[end-1]) == "" {
		end--
	}
	columns := make([]string, end)
	seen := make(map[string]bool, end)
	for i := 0; i < end; i++ {
		name := strings.TrimSpace(row[i])
		if name == "" {
			name = "Column " + strconv.Itoa(i+1)
		}
		// Repeated headers get a " (n)" suffix so no attribute is overwritten.
		unique := name
		for n := 2; seen[unique]; n++ {
			unique = name + " (" + strconv.Itoa(n) + ")"
		}
		seen[unique] = true
		columns[i] = unique
	}
	return columns
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
