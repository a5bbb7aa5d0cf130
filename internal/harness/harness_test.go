package harness

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Scenario loading
// =============================================================================

func TestLoadScenario_ValidFile(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/scenario_c_partition.yaml")
	require.NoError(t, err)

	assert.Equal(t, "scenario_c_partition", s.Name)
	assert.Contains(t, s.Register, "ABC-STR-002")
	assert.Equal(t, []string{"ABC-STR-001.dwg", "ABC-STR-004.dwg"}, s.DeliverableFiles)
	require.NotNil(t, s.Expect.Deliverables)
	assert.Equal(t, []string{"ABC-STR-001"}, s.Expect.Deliverables.Delivered)
	require.Len(t, s.Expect.Deliverables.Candidates, 1)
	assert.Equal(t, "edit_distance", s.Expect.Deliverables.Candidates[0].Basis)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestParseScenario_UnknownField(t *testing.T) {
	_, err := ParseScenario([]byte(`
name: typo
description: "misspelt key"
template: |
  A,B
  x,y
expectations:
  passed: true
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestParseScenario_Validation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"no name", "description: d\ntemplate: \"A,B\"\n", "name is required"},
		{"no description", "name: n\ntemplate: \"A,B\"\n", "description is required"},
		{"no inputs", "name: n\ndescription: d\n", "template or register is required"},
		{"files without template", "name: n\ndescription: d\nregister: \"ID\"\nnaming_files: [a.dwg]\n", "naming_files given without a template"},
		{"confirm without register", "name: n\ndescription: d\ntemplate: \"A,B\"\nconfirm: [{identifier: X, path: x}]\n", "without a register"},
		{"threshold out of range", "name: n\ndescription: d\nregister: \"ID\"\nfuzzy_threshold: 1.5\n", "fuzzy_threshold"},
		{"incomplete confirm", "name: n\ndescription: d\nregister: \"ID\"\nconfirm: [{identifier: X}]\n", "confirm[0]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

// =============================================================================
// Execution
// =============================================================================

func TestRun_AllScenarios(t *testing.T) {
	paths, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, paths)
	sort.Strings(paths)

	for _, path := range paths {
		s, err := LoadScenario(path)
		require.NoError(t, err, path)

		t.Run(s.Name, func(t *testing.T) {
			result, err := Run(s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "expectation failures: %v", result.Errors)
		})
	}
}

func TestRun_Golden(t *testing.T) {
	names := []string{
		"scenario_a_separator",
		"scenario_b_field_count",
		"scenario_c_partition",
		"scenario_d_fuzzy_candidate",
		"scenario_d_confirmed",
		"naming_sample",
		"deliverables_sample",
	}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			s, err := LoadScenario(filepath.Join("testdata/scenarios", name+".yaml"))
			require.NoError(t, err)

			result, err := RunWithGolden(t, s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "expectation failures: %v", result.Errors)
		})
	}
}

func TestRun_ReportsFailedExpectations(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: wrong_expectations
description: "every expectation here is wrong"
register: |
  Drawing Number
  ABC-STR-001
deliverable_files:
  - ABC-STR-001.dwg
expect:
  passed: false
  error: E999
  deliverables:
    delivered: []
    missing: [ABC-STR-001]
    candidates:
      - identifier: ABC-STR-001
        path: ABC-STR-001.dwg
`))
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Len(t, result.Errors, 5)
}

func TestRun_MissingSection(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: naming_only
description: "deliverables expectations without a register"
template: |
  Project Code,Discipline,Document Type,Sequential Number,Revision
  ABC,STR,DWG,001,01
naming_files: [ABC-STR-DWG-002-01.dwg]
expect:
  deliverables:
    delivered: []
`))
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors, "deliverables: no reconciliation result")
}

func TestRun_CancelledContext(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/scenario_c_partition.yaml")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = New().Run(ctx, s)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_WorkersDoNotChangeOutcome(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/deliverables_sample.yaml")
	require.NoError(t, err)

	serial, err := New(WithWorkers(1)).Run(context.Background(), s)
	require.NoError(t, err)
	pooled, err := New(WithWorkers(4)).Run(context.Background(), s)
	require.NoError(t, err)

	assert.Equal(t, serial.Outcome.Report, pooled.Outcome.Report)
}

func TestScenarioFilesAreNamedAfterScenarios(t *testing.T) {
	entries, err := os.ReadDir("testdata/scenarios")
	require.NoError(t, err)

	for _, e := range entries {
		s, err := LoadScenario(filepath.Join("testdata/scenarios", e.Name()))
		require.NoError(t, err)
		assert.Equal(t, s.Name+".yaml", e.Name())
	}
}
