package register

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRegister() [][]string {
	return [][]string{
		{"Drawing Number", "Title", "Discipline", "Status"},
		{"ABC-STR-001", "Foundation Plan", "Structural", "For Construction"},
		{"ABC-STR-002", "Ground Floor Plan", "Structural", "For Construction"},
		{"ABC-STR-003", "First Floor Plan", "Structural", "For Construction"},
		{"ABC-MEP-001", "HVAC Layout", "MEP", "For Review"},
		{"ABC-MEP-002", "Electrical Layout", "MEP", "For Review"},
		{"ABC-ARC-001", "Site Plan", "Architecture", "For Construction"},
		{"ABC-ARC-002", "Floor Plans", "Architecture", "For Construction"},
		{"ABC-ARC-003", "Elevations", "Architecture", "Draft"},
		{"ABC-ARC-004", "Sections", "Architecture", "Draft"},
	}
}

func TestParseRegisterSample(t *testing.T) {
	reg, err := ParseRegister(sampleRegister(), "")
	require.NoError(t, err)

	assert.Equal(t, "Drawing Number", reg.IdentifierColumn)
	assert.Equal(t, []string{"Drawing Number", "Title", "Discipline", "Status"}, reg.Columns)
	require.Len(t, reg.Entries, 9)
	assert.Empty(t, reg.Warnings)

	first := reg.Entries[0]
	assert.Equal(t, 2, first.Row)
	assert.Equal(t, "ABC-STR-001", first.Identifier)
	assert.Equal(t, map[string]string{
		"Title":      "Foundation Plan",
		"Discipline": "Structural",
		"Status":     "For Construction",
	}, first.Attributes)

	assert.Equal(t, "ABC-ARC-004", reg.Entries[8].Identifier)
	assert.Equal(t, 10, reg.Entries[8].Row)
}

func TestParseRegisterHint(t *testing.T) {
	rows := [][]string{
		{"Title", "Doc Ref"},
		{"Site Plan", "A-001"},
		{"Roof Plan", "A-002"},
	}

	reg, err := ParseRegister(rows, "doc ref")
	require.NoError(t, err)
	assert.Equal(t, "Doc Ref", reg.IdentifierColumn)
	assert.Equal(t, []string{"A-001", "A-002"}, Identifiers(reg.Entries))
}

func TestParseRegisterHintMissing(t *testing.T) {
	_, err := ParseRegister(sampleRegister(), "Sheet Ref")
	var re *RegisterError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ErrIdentifierNotFound, re.Code)
	assert.True(t, IsRegisterError(err))
}

func TestParseRegisterKnownNameVariants(t *testing.T) {
	rows := [][]string{
		{"Title", "Document No."},
		{"Site Plan", "A-001"},
		{"Site Plan", "A-002"},
	}
	reg, err := ParseRegister(rows, "")
	require.NoError(t, err)
	assert.Equal(t, "Document No.", reg.IdentifierColumn)
}

func TestParseRegisterConfiguredNames(t *testing.T) {
	rows := [][]string{
		{"Title", "Sheet"},
		{"", "S-1"},
		{"", "S-2"},
	}
	reg, err := ParseRegisterWith(rows, Options{IdentifierColumns: []string{"sheet"}})
	require.NoError(t, err)
	assert.Equal(t, "Sheet", reg.IdentifierColumn)
}

func TestParseRegisterHeuristicColumn(t *testing.T) {
	rows := [][]string{
		{"Discipline", "Ref", "Title"},
		{"STR", "S-1", "Plan"},
		{"STR", "S-2", "Plan"},
		{"MEP", "M-1", "Layout"},
	}
	reg, err := ParseRegister(rows, "")
	require.NoError(t, err)
	// Discipline repeats; Ref is the first fully populated, unique column.
	assert.Equal(t, "Ref", reg.IdentifierColumn)
}

func TestParseRegisterNoIdentifierColumn(t *testing.T) {
	rows := [][]string{
		{"Discipline", "Status"},
		{"STR", "Draft"},
		{"STR", "Draft"},
	}
	_, err := ParseRegister(rows, "")
	var re *RegisterError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ErrNoIdentifierColumn, re.Code)
}

func TestParseRegisterHeaderOnlyWithoutKnownColumn(t *testing.T) {
	_, err := ParseRegister([][]string{{"Foo", "Bar"}}, "")
	var re *RegisterError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ErrNoIdentifierColumn, re.Code)
}

func TestParseRegisterEmpty(t *testing.T) {
	for _, rows := range [][][]string{nil, {{"", ""}}, {{}}} {
		_, err := ParseRegister(rows, "")
		var re *RegisterError
		require.ErrorAs(t, err, &re)
		assert.Equal(t, ErrRegisterEmpty, re.Code)
	}
}

func TestParseRegisterSkipsBlankRowsAndKeepsEmptyIdentifiers(t *testing.T) {
	rows := [][]string{
		{"", ""},
		{"Drawing Number", "Title"},
		{"ABC-001", "One"},
		{"", ""},
		{" ", "Orphan title"},
		{"ABC-002"},
	}
	reg, err := ParseRegister(rows, "")
	require.NoError(t, err)

	require.Len(t, reg.Entries, 3)
	assert.Equal(t, []int{3, 5, 6}, []int{reg.Entries[0].Row, reg.Entries[1].Row, reg.Entries[2].Row})
	assert.Equal(t, "", reg.Entries[1].Identifier)
	assert.Equal(t, "", reg.Entries[2].Attributes["Title"], "short rows pad with empty cells")

	require.Len(t, reg.Warnings, 1)
	assert.Equal(t, WarningEmptyIdentifier, reg.Warnings[0].Kind)
	assert.Equal(t, []int{5}, reg.Warnings[0].Rows)
}

func TestParseRegisterUnnamedColumns(t *testing.T) {
	reg, err := ParseRegister([][]string{
		{"Drawing Number", "", "Status", ""},
		{"A-1", "x", "Draft"},
	}, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Drawing Number", "Column 2", "Status"}, reg.Columns)
	assert.Equal(t, "x", reg.Entries[0].Attributes["Column 2"])
}

func TestParseRegisterRepeatedHeaders(t *testing.T) {
	reg, err := ParseRegister([][]string{
		{"Drawing Number", "Title", "Title", "Title (2)", "Title"},
		{"A-1", "Plan", "Level 1", "extra", "Issued"},
	}, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Drawing Number", "Title", "Title (2)", "Title (2) (2)", "Title (3)"}, reg.Columns)

	attrs := reg.Entries[0].Attributes
	assert.Len(t, attrs, 4)
	assert.Equal(t, "Plan", attrs["Title"])
	assert.Equal(t, "Level 1", attrs["Title (2)"])
	assert.Equal(t, "extra", attrs["Title (2) (2)"])
	assert.Equal(t, "Issued", attrs["Title (3)"])
}
