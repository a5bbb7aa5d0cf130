package table

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/xuri/excelize/v2"
)

func readWorkbook(name string, data []byte, sheet string) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &ReadError{Code: ErrMalformed, Name: name, Message: fmt.Sprintf("open workbook: %v", err)}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &ReadError{Code: ErrEmpty, Name: name, Message: "workbook has no sheets"}
	}
	if sheet == "" {
		sheet = sheets[0]
	} else if !slices.Contains(sheets, sheet) {
		return nil, &ReadError{
			Code:    ErrSheetNotFound,
			Name:    name,
			Message: fmt.Sprintf("sheet %q not found (have %v)", sheet, sheets),
		}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, &ReadError{Code: ErrMalformed, Name: name, Message: fmt.Sprintf("read sheet %q: %v", sheet, err)}
	}
	return rows, nil
}

// Sheets lists the sheet names of a workbook in order.
func Sheets(name string, data []byte) ([]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &ReadError{Code: ErrMalformed, Name: name, Message: fmt.Sprintf("open workbook: %v", err)}
	}
	defer f.Close()
	return f.GetSheetList(), nil
}
