package register

import "fmt"

// CheckQuality reports empty and duplicated identifiers. Warnings are ordered
// empty-identifier first, then duplicates by first appearance.
func CheckQuality(entries []Entry) []Warning {
	var warnings []Warning

	var emptyRows []int
	rowsByID := make(map[string][]int)
	var order []string
	for _, e := range entries {
		if e.Identifier == "" {
			emptyRows = append(emptyRows, e.Row)
			continue
		}
		if _, ok := rowsByID[e.Identifier]; !ok {
			order = append(order, e.Identifier)
		}
		rowsByID[e.Identifier] = append(rowsByID[e.Identifier], e.Row)
	}

	if len(emptyRows) > 0 {
		warnings = append(warnings, Warning{
			Kind:    WarningEmptyIdentifier,
			Rows:    emptyRows,
			Message: fmt.Sprintf("%d register row(s) have no identifier", len(emptyRows)),
		})
	}

	for _, id := range order {
		rows := rowsByID[id]
		if len(rows) < 2 {
			continue
		}
		warnings = append(warnings, Warning{
			Kind:       WarningDuplicateIdentifier,
			Identifier: id,
			Rows:       rows,
			Message:    fmt.Sprintf("identifier %q appears %d times", id, len(rows)),
		})
	}

	return warnings
}
