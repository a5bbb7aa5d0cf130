package naming

import (
	"slices"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultSeparator is used when a template gives no evidence of its separator.
const DefaultSeparator = '-'

// separatorQuorum is the share of joined sample rows that must agree on a separator.
const separatorQuorum = 0.9

// maxFixedCodeLength is the longest value that still compiles to a FixedCode.
const maxFixedCodeLength = 4

// freeTextMinLength is the shortest FreeText value accepted, lowered to the
// shortest sample when a template sample is shorter.
const freeTextMinLength = 3

// Options tunes pattern compilation.
type Options struct {
	// StrictCodes requires FixedCode values to be one of the template samples.
	StrictCodes bool
}

// directive holds the optional "Number of parts" / "Delimiter" row.
type directive struct {
	parts     int
	delimiter string
}

// CompilePattern compiles a naming template (header row plus sample rows)
// into a Pattern. It is a pure function of its input.
func CompilePattern(rows [][]string) (*Pattern, error) {
	return CompilePatternWith(rows, Options{})
}

// CompilePatternWith is CompilePattern with explicit options.
func CompilePatternWith(rows [][]string, opts Options) (*Pattern, error) {
	dir, rest, err := parseDirective(rows)
	if err != nil {
		return nil, err
	}

	rest = dropBlankRows(rest)
	if len(rest) == 0 {
		return nil, newTemplateError(ErrTemplateEmpty, "template has no header row")
	}

	header := headerFields(rest[0])
	if len(header) < 2 {
		return nil, newTemplateError(ErrTooFewFields, "template needs at least 2 fields, found %d", len(header))
	}
	if dir.parts > 0 && dir.parts != len(header) {
		return nil, newTemplateError(ErrPartCountMismatch,
			"template declares %d parts but the header has %d fields", dir.parts, len(header))
	}

	samples := rest[1:]
	if len(samples) == 0 {
		return nil, newTemplateError(ErrNoSamples, "template has no sample rows")
	}

	sep, err := inferSeparator(samples, len(header), dir)
	if err != nil {
		return nil, err
	}

	columns, used := splitSamples(samples, len(header), sep)
	if used == 0 {
		return nil, newTemplateError(ErrNoSamples, "no sample row splits into %d fields", len(header))
	}

	fields := make([]FieldSpec, len(header))
	for i, name := range header {
		fields[i] = inferField(name, columns[i])
	}

	return &Pattern{
		Fields:      fields,
		Separator:   sep,
		FieldCount:  len(fields),
		StrictCodes: opts.StrictCodes,
	}, nil
}

// parseDirective strips a leading directive row such as
// ["Number of parts", "3", "", "Delimiter", "_"] and returns its values.
func parseDirective(rows [][]string) (directive, [][]string, error) {
	var d directive
	if len(rows) == 0 || len(rows[0]) == 0 {
		return d, rows, nil
	}

	row := rows[0]
	if !isDirectiveLabel(row[0]) {
		return d, rows, nil
	}
	for i := 0; i < len(row)-1; i++ {
		label := strings.ToLower(strings.TrimSpace(row[i]))
		value := row[i+1]
		switch label {
		case "number of parts", "parts":
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil || n < 1 {
				return d, nil, newTemplateError(ErrInvalidPartCountCell, "number of parts %q is not a positive integer", value)
			}
			d.parts = n
		case "delimiter", "separator":
			// A delimiter cell of spaces means a space delimiter.
			if t := strings.TrimSpace(value); t != "" {
				value = t
			}
			d.delimiter = value
		}
	}

	if d.delimiter == "" && d.parts == 0 {
		return d, nil, newTemplateError(ErrInvalidDelimiter, "directive row declares neither a part count nor a delimiter")
	}
	return d, rows[1:], nil
}

func isDirectiveLabel(cell string) bool {
	switch strings.ToLower(strings.TrimSpace(cell)) {
	case "number of parts", "parts", "delimiter", "separator":
		return true
	}
	return false
}

func dropBlankRows(rows [][]string) [][]string {
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		blank := true
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				blank = false
				break
			}
		}
		if !blank {
			out = append(out, row)
		}
	}
	return out
}

// headerFields trims header cells, drops trailing empties, and names unnamed
// middle columns "Field N".
func headerFields(row []string) []string {
	end := len(row)
	for end > 0 && strings.TrimSpace(row[end-1]) == "" {
		end--
	}
	fields := make([]string, end)
	for i := 0; i < end; i++ {
		name := strings.TrimSpace(row[i])
		if name == "" {
			name = "Field " + strconv.Itoa(i+1)
		}
		fields[i] = name
	}
	return fields
}

// joinedSample returns the full name carried by a row that holds a whole
// filename in its first cell, or "" when the row is pre-split.
func joinedSample(row []string, fieldCount int) string {
	if len(row) == 0 {
		return ""
	}
	first := strings.TrimSpace(row[0])
	if first == "" {
		return ""
	}
	for i := 1; i < len(row) && i < fieldCount; i++ {
		if strings.TrimSpace(row[i]) != "" {
			return ""
		}
	}
	if !strings.ContainsFunc(first, isSeparatorRune) {
		return ""
	}
	return first
}

func inferSeparator(samples [][]string, fieldCount int, d directive) (rune, error) {
	if d.delimiter != "" {
		r, size := utf8.DecodeRuneInString(d.delimiter)
		if size != len(d.delimiter) || !isSeparatorRune(r) {
			return 0, newTemplateError(ErrInvalidDelimiter,
				"delimiter %q must be a single non-alphanumeric character", d.delimiter)
		}
		return r, nil
	}

	var joined []string
	for _, row := range samples {
		if s := joinedSample(row, fieldCount); s != "" {
			joined = append(joined, s)
		}
	}
	if len(joined) == 0 {
		return DefaultSeparator, nil
	}

	votes := make(map[rune]int)
	for _, s := range joined {
		seen := make(map[rune]bool)
		for _, r := range s {
			if !isSeparatorRune(r) || seen[r] {
				continue
			}
			seen[r] = true
			if strings.Count(s, string(r)) == fieldCount-1 {
				votes[r]++
			}
		}
	}

	best, bestVotes := rune(0), 0
	for r, n := range votes {
		if n > bestVotes || (n == bestVotes && r < best) {
			best, bestVotes = r, n
		}
	}
	if bestVotes == 0 || float64(bestVotes) < separatorQuorum*float64(len(joined)) {
		return 0, newTemplateError(ErrNoSeparator,
			"no separator splits at least 90%% of %d joined samples into %d fields", len(joined), fieldCount)
	}
	return best, nil
}

// splitSamples distributes sample values into per-field columns. Joined rows
// that do not split into fieldCount parts are skipped. Returns the columns and
// the number of rows used.
func splitSamples(samples [][]string, fieldCount int, sep rune) ([][]string, int) {
	columns := make([][]string, fieldCount)
	used := 0
	for _, row := range samples {
		var cells []string
		if s := joinedSample(row, fieldCount); s != "" {
			cells = strings.Split(s, string(sep))
			if len(cells) != fieldCount {
				continue
			}
		} else {
			cells = row
		}
		used++
		for i := 0; i < fieldCount && i < len(cells); i++ {
			if v := strings.TrimSpace(cells[i]); v != "" {
				columns[i] = append(columns[i], v)
			}
		}
	}
	return columns, used
}

// inferField picks a kind for one column of sample values.
// Priority: FixedCode > NumericCounter > RevisionTag > FreeText.
func inferField(name string, values []string) FieldSpec {
	spec := FieldSpec{Name: name, Kind: KindFreeText, SampleValues: distinctSorted(values)}
	spec.MinLength = freeTextMinLength
	if len(values) == 0 {
		return spec
	}
	for _, v := range values {
		spec.MinLength = min(spec.MinLength, utf8.RuneCountInString(v))
	}

	switch {
	case isFixedCodeColumn(values):
		spec.Kind, spec.MinLength = KindFixedCode, 0
		spec.Width = utf8.RuneCountInString(values[0])
	case allOf(values, isDigits):
		spec.Kind, spec.MinLength = KindNumericCounter, 0
		spec.Width = modalLength(values)
	case isRevisionColumn(values):
		spec.Kind, spec.MinLength = KindRevisionTag, 0
		spec.RequireDigit = allOf(values, hasDigit)
	}
	return spec
}

func isFixedCodeColumn(values []string) bool {
	width := utf8.RuneCountInString(values[0])
	if width == 0 || width > maxFixedCodeLength {
		return false
	}
	for _, v := range values {
		if utf8.RuneCountInString(v) != width || !startsWithLetter(v) || !isAlnum(v) {
			return false
		}
	}
	return true
}

func isRevisionColumn(values []string) bool {
	if !allOf(values, isAlnum) {
		return false
	}
	for _, v := range values {
		if strings.HasPrefix(strings.ToUpper(v), "REV") {
			return true
		}
	}

	mixed := false
	lengths := make(map[int]bool)
	anyLetters, anyDigitsOnly := false, false
	for _, v := range values {
		lengths[utf8.RuneCountInString(v)] = true
		letters := strings.ContainsFunc(v, unicode.IsLetter)
		if letters && hasDigit(v) {
			mixed = true
		}
		if letters {
			anyLetters = true
		} else {
			anyDigitsOnly = true
		}
	}
	if anyLetters && anyDigitsOnly {
		mixed = true
	}
	return mixed && len(lengths) > 1
}

// modalLength returns the most common rune length; ties go to the shorter width.
func modalLength(values []string) int {
	counts := make(map[int]int)
	for _, v := range values {
		counts[utf8.RuneCountInString(v)]++
	}
	best, bestCount := 0, 0
	for width, n := range counts {
		if n > bestCount || (n == bestCount && width < best) {
			best, bestCount = width, n
		}
	}
	return best
}

func distinctSorted(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := slices.Clone(values)
	slices.Sort(out)
	return slices.Compact(out)
}

func allOf(values []string, pred func(string) bool) bool {
	for _, v := range values {
		if !pred(v) {
			return false
		}
	}
	return true
}

func isSeparatorRune(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isAlnum(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if isSeparatorRune(r) {
			return false
		}
	}
	return true
}

func hasDigit(s string) bool {
	return strings.ContainsFunc(s, unicode.IsDigit)
}

func startsWithLetter(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsLetter(r)
}
