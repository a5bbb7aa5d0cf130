package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func readDelimited(name string, data []byte, comma rune) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	r.Comma = comma
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	rows, err := r.ReadAll()
	if err != nil {
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			return nil, &ReadError{
				Code:    ErrMalformed,
				Name:    name,
				Message: fmt.Sprintf("line %d: %v", pe.Line, pe.Err),
			}
		}
		return nil, &ReadError{Code: ErrMalformed, Name: name, Message: err.Error()}
	}
	return rows, nil
}
