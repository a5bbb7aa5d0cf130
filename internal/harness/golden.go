package harness

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/valiblox/internal/report"
)

// RunWithGolden executes a scenario and compares its plain-text report
// against testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns the result so callers can assert on expectations too. Test failure
// (via goldie) occurs if the rendering doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result's report against a golden file
// without re-running the scenario.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	snapshot, err := Snapshot(result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, snapshot)
	return nil
}

// Snapshot renders the golden form of a result: the uncoloured,
// non-verbose text report.
func Snapshot(result *Result) ([]byte, error) {
	var buf bytes.Buffer
	if err := report.RenderText(&buf, result.Outcome.Report, report.TextOptions{}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
