package table

import (
	"bytes"
	"errors"
	"fmt"
	"path"
	"strings"

	"cuelang.org/go/cue/token"
)

// Format identifies a table encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
	FormatXLSX Format = "xlsx"
	FormatCUE  Format = "cue"
)

// Error codes for table reading.
const (
	ErrUnsupportedFormat = "E401"
	ErrMalformed         = "E402"
	ErrSheetNotFound     = "E403"
	ErrEmpty             = "E404"
)

// ReadError reports a table that could not be read.
type ReadError struct {
	Code    string
	Name    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *ReadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Name, e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Name, e.Code, e.Message)
}

// ReadOptions selects what to read from multi-sheet sources.
type ReadOptions struct {
	// Sheet names the workbook sheet to read. Empty means the first sheet.
	Sheet string
}

// DetectFormat maps a file name to its table format by extension.
func DetectFormat(name string) (Format, bool) {
	switch strings.ToLower(path.Ext(name)) {
	case ".csv", ".txt":
		return FormatCSV, true
	case ".tsv":
		return FormatTSV, true
	case ".xlsx", ".xlsm":
		return FormatXLSX, true
	case ".cue":
		return FormatCUE, true
	}
	return "", false
}

// IsTable reports whether name has a supported table extension.
func IsTable(name string) bool {
	_, ok := DetectFormat(name)
	return ok
}

// Read decodes data as the table format implied by name. Rows are returned
// as read; blank rows and cell trimming are left to the consumers.
func Read(name string, data []byte, opts ReadOptions) ([][]string, error) {
	format, ok := DetectFormat(name)
	if !ok {
		return nil, &ReadError{
			Code:    ErrUnsupportedFormat,
			Name:    name,
			Message: fmt.Sprintf("unsupported table format %q", path.Ext(name)),
		}
	}

	var (
		rows [][]string
		err  error
	)
	switch format {
	case FormatCSV:
		rows, err = readDelimited(name, data, sniffComma(data))
	case FormatTSV:
		rows, err = readDelimited(name, data, '\t')
	case FormatXLSX:
		rows, err = readWorkbook(name, data, opts.Sheet)
	case FormatCUE:
		rows, err = readCUE(name, data)
	}
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, &ReadError{Code: ErrEmpty, Name: name, Message: "table has no rows"}
	}
	return rows, nil
}

// sniffComma picks tab when the first line has tabs but no commas.
func sniffComma(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if bytes.IndexByte(line, '\t') >= 0 && bytes.IndexByte(line, ',') < 0 {
		return '\t'
	}
	return ','
}

// IsReadError reports whether err is a ReadError.
func IsReadError(err error) bool {
	var re *ReadError
	return errors.As(err, &re)
}
