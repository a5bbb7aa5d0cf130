package table

import (
	"fmt"
	"strconv"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
)

// readCUE reads a document of the form
//
//	delimiter: "-"        // optional
//	header: ["Project", "Discipline"]
//	rows: [["ABC", "STR"], ["XYZ", "ARC"]]
//
// A delimiter becomes a leading ["Delimiter", d] directive row.
func readCUE(name string, data []byte) ([][]string, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(name))
	if err := v.Err(); err != nil {
		return nil, cueError(name, err)
	}

	var rows [][]string

	if d := v.LookupPath(cue.ParsePath("delimiter")); d.Exists() {
		s, err := d.String()
		if err != nil {
			return nil, cueError(name, err)
		}
		rows = append(rows, []string{"Delimiter", s})
	}

	headerVal := v.LookupPath(cue.ParsePath("header"))
	if !headerVal.Exists() {
		return nil, &ReadError{Code: ErrMalformed, Name: name, Message: "header is required", Pos: v.Pos()}
	}
	header, err := cueRow(name, headerVal)
	if err != nil {
		return nil, err
	}
	rows = append(rows, header)

	rowsVal := v.LookupPath(cue.ParsePath("rows"))
	if !rowsVal.Exists() {
		return rows, nil
	}
	iter, err := rowsVal.List()
	if err != nil {
		return nil, cueError(name, err)
	}
	for iter.Next() {
		row, err := cueRow(name, iter.Value())
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func cueRow(name string, v cue.Value) ([]string, error) {
	iter, err := v.List()
	if err != nil {
		return nil, cueError(name, err)
	}
	var row []string
	for iter.Next() {
		cell, err := cueCell(name, iter.Value())
		if err != nil {
			return nil, err
		}
		row = append(row, cell)
	}
	return row, nil
}

func cueCell(name string, v cue.Value) (string, error) {
	switch v.Kind() {
	case cue.StringKind:
		return v.String()
	case cue.IntKind:
		n, err := v.Int64()
		if err != nil {
			return "", cueError(name, err)
		}
		return strconv.FormatInt(n, 10), nil
	default:
		return "", &ReadError{
			Code:    ErrMalformed,
			Name:    name,
			Message: fmt.Sprintf("cell must be a string or integer, got %v", v.Kind()),
			Pos:     v.Pos(),
		}
	}
}

// cueError keeps the first CUE error and its position.
func cueError(name string, err error) *ReadError {
	re := &ReadError{Code: ErrMalformed, Name: name, Message: err.Error()}
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return re
	}
	re.Message = errs[0].Error()
	if positions := errors.Positions(errs[0]); len(positions) > 0 {
		re.Pos = positions[0]
	}
	return re
}
