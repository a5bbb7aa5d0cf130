package register

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckQualityClean(t *testing.T) {
	entries := []Entry{{Row: 2, Identifier: "A"}, {Row: 3, Identifier: "B"}}
	assert.Empty(t, CheckQuality(entries))
}

func TestCheckQualityDuplicatesAreKept(t *testing.T) {
	rows := [][]string{
		{"Drawing Number"},
		{"A"},
		{"B"},
		{"A"},
		{"C"},
		{"B"},
		{"A"},
	}
	reg, err := ParseRegister(rows, "")
	require.NoError(t, err)

	assert.Len(t, reg.Entries, 6, "duplicates are preserved")
	require.Len(t, reg.Warnings, 2)

	assert.Equal(t, WarningDuplicateIdentifier, reg.Warnings[0].Kind)
	assert.Equal(t, "A", reg.Warnings[0].Identifier)
	assert.Equal(t, []int{2, 4, 7}, reg.Warnings[0].Rows)
	assert.Contains(t, reg.Warnings[0].Message, "3 times")

	assert.Equal(t, "B", reg.Warnings[1].Identifier)
	assert.Equal(t, []int{3, 6}, reg.Warnings[1].Rows)
}

func TestCheckQualityEmptyBeforeDuplicates(t *testing.T) {
	warnings := CheckQuality([]Entry{
		{Row: 2, Identifier: "A"},
		{Row: 3, Identifier: "A"},
		{Row: 4, Identifier: ""},
		{Row: 5, Identifier: ""},
	})
	require.Len(t, warnings, 2)
	assert.Equal(t, WarningEmptyIdentifier, warnings[0].Kind)
	assert.Equal(t, []int{4, 5}, warnings[0].Rows)
	assert.Equal(t, WarningDuplicateIdentifier, warnings[1].Kind)
}
