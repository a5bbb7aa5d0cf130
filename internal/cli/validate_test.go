package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/valiblox/internal/testutil"
)

// runCommand executes a subcommand built by newCmd and returns stdout,
// stderr and the command error.
func runCommand(t *testing.T, opts *RootOptions, newCmd func(*RootOptions) *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := newCmd(opts)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func decodeResponse(t *testing.T, out string) CLIResponse {
	t.Helper()
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	return resp
}

// =============================================================================
// naming
// =============================================================================

func TestNamingSampleText(t *testing.T) {
	zip := testutil.WriteZip(t, "Sample-Naming.zip", testutil.NamingSample()...)

	out, _, err := runCommand(t, &RootOptions{Format: FormatText, NoHistory: true}, NewNamingCommand, zip)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	golden, readErr := os.ReadFile(filepath.Join("..", "harness", "testdata", "golden", "naming_sample.golden"))
	require.NoError(t, readErr)
	assert.Equal(t, string(golden), out)
}

func TestNamingSampleJSON(t *testing.T) {
	zip := testutil.WriteZip(t, "Sample-Naming.zip", testutil.NamingSample()...)

	out, _, err := runCommand(t, &RootOptions{Format: FormatJSON, NoHistory: true}, NewNamingCommand, zip)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	resp := decodeResponse(t, out)
	assert.Equal(t, "ok", resp.Status)
	assert.Empty(t, resp.RunID)

	data := resp.Data.(map[string]any)
	assert.Equal(t, false, data["passed"])
	assert.Len(t, data["fingerprint"], 64)

	src := data["naming_source"].(map[string]any)
	assert.Equal(t, "Sample-Naming-Convention.csv", src["table"])

	rep := data["report"].(map[string]any)
	naming := rep["naming"].(map[string]any)
	assert.EqualValues(t, 12, naming["total"])
	assert.EqualValues(t, 7, naming["compliant"])
	assert.NotContains(t, rep, "deliverables")
}

func TestNamingCompliantArchivePasses(t *testing.T) {
	dir := testutil.WriteDir(t,
		testutil.File{Name: "naming-template.csv", Data: testutil.NamingTemplateCSV},
		testutil.File{Name: "Structural/ABC-STR-DWG-001-01.dwg", Data: "x"},
		testutil.File{Name: "MEP/ABC-MEP-DWG-002-01.dwg", Data: "x"},
	)

	out, _, err := runCommand(t, &RootOptions{Format: FormatText, NoHistory: true}, NewNamingCommand, dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Compliance rate: 100.0%")
	assert.Contains(t, out, "Result: PASS")
}

func TestNamingMalformedTemplate(t *testing.T) {
	zip := testutil.WriteZip(t, "bad.zip",
		testutil.File{Name: "naming.csv", Data: "Code\nABC\n"},
		testutil.File{Name: "ABC.dwg", Data: "x"},
	)

	out, errOut, err := runCommand(t, &RootOptions{Format: FormatText, NoHistory: true}, NewNamingCommand, zip)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "E202")
	assert.Empty(t, out)
	assert.Contains(t, errOut, "Error [E202]")
}

func TestNamingArchiveNotFound(t *testing.T) {
	_, errOut, err := runCommand(t, &RootOptions{Format: FormatText, NoHistory: true}, NewNamingCommand,
		filepath.Join(t.TempDir(), "missing.zip"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "E005")
	assert.Contains(t, errOut, "Error [E005]")
}

func TestNamingNoTable(t *testing.T) {
	dir := testutil.WriteDir(t, testutil.File{Name: "ABC-STR-DWG-001-01.dwg", Data: "x"})

	out, _, err := runCommand(t, &RootOptions{Format: FormatJSON, NoHistory: true}, NewNamingCommand, dir)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	resp := decodeResponse(t, out)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNoTable, resp.Error.Code)
}

func TestNamingStrictFlag(t *testing.T) {
	dir := testutil.WriteDir(t,
		testutil.File{Name: "naming.csv", Data: testutil.NamingTemplateCSV},
		testutil.File{Name: "ABC-QQQ-DWG-001-01.dwg", Data: "x"},
	)

	out, _, err := runCommand(t, &RootOptions{Format: FormatText, NoHistory: true}, NewNamingCommand, dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Result: PASS")

	out, _, err = runCommand(t, &RootOptions{Format: FormatText, NoHistory: true, Strict: true}, NewNamingCommand, dir)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "unknown value: Discipline")
}

// =============================================================================
// deliverables
// =============================================================================

func TestDeliverablesSampleText(t *testing.T) {
	zip := testutil.WriteZip(t, "Sample-Deliverables.zip", testutil.DeliverablesSample()...)

	out, _, err := runCommand(t, &RootOptions{Format: FormatText, NoHistory: true}, NewDeliverablesCommand, zip)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	golden, readErr := os.ReadFile(filepath.Join("..", "harness", "testdata", "golden", "deliverables_sample.golden"))
	require.NoError(t, readErr)
	assert.Equal(t, string(golden), out)
}

func TestDeliverablesConfirm(t *testing.T) {
	zip := testutil.WriteZip(t, "Sample-Deliverables.zip", testutil.DeliverablesSample()...)

	out, _, err := runCommand(t, &RootOptions{Format: FormatText, NoHistory: true}, NewDeliverablesCommand, zip,
		"--confirm", "ABC-ARC-003=Drawings/ABC-ARC-003-Draft.pdf",
		"--confirm", "ABC-STR-003=Drawings/ABC-STR-004.dwg",
	)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Delivered: 8 (88.9%)")
	assert.Contains(t, out, "Missing: 1")
	assert.Contains(t, out, "  ABC-ARC-004 (row 10)")
	assert.NotContains(t, out, "Fuzzy candidates")
}

func TestDeliverablesConfirmUnknownCandidate(t *testing.T) {
	zip := testutil.WriteZip(t, "Sample-Deliverables.zip", testutil.DeliverablesSample()...)

	out, errOut, err := runCommand(t, &RootOptions{Format: FormatText, NoHistory: true}, NewDeliverablesCommand, zip,
		"--confirm", "ABC-ARC-004=Drawings/ABC-MEP-003.dwg")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Delivered: 6 (66.7%)")
	assert.Contains(t, errOut, "deliverables:")
}

func TestDeliverablesConfirmSyntax(t *testing.T) {
	zip := testutil.WriteZip(t, "Sample-Deliverables.zip", testutil.DeliverablesSample()...)

	_, errOut, err := runCommand(t, &RootOptions{Format: FormatText, NoHistory: true}, NewDeliverablesCommand, zip,
		"--confirm", "ABC-ARC-003")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, errOut, "Error [E006]")
}

func TestDeliverablesIDColumn(t *testing.T) {
	dir := testutil.WriteDir(t,
		testutil.File{Name: "register.csv", Data: "Sheet,Title\nA-100,Plan\nA-101,Section\n"},
		testutil.File{Name: "A-100.pdf", Data: "x"},
		testutil.File{Name: "A-101.pdf", Data: "x"},
	)

	out, _, err := runCommand(t, &RootOptions{Format: FormatText, NoHistory: true}, NewDeliverablesCommand, dir,
		"--id-column", "Sheet")
	require.NoError(t, err)
	assert.Contains(t, out, "Delivered: 2 (100.0%)")
	assert.Contains(t, out, "Result: PASS")
}

func TestDeliverablesMarkdownToFile(t *testing.T) {
	zip := testutil.WriteZip(t, "Sample-Deliverables.zip", testutil.DeliverablesSample()...)
	target := filepath.Join(t.TempDir(), "out", "report.md")

	out, errOut, err := runCommand(t, &RootOptions{Format: FormatMarkdown, Output: target, NoHistory: true},
		NewDeliverablesCommand, zip)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Empty(t, out)
	assert.Contains(t, errOut, "Report written to")

	data, readErr := os.ReadFile(target)
	require.NoError(t, readErr)
	assert.Contains(t, string(data), "# Validation report")
	assert.Contains(t, string(data), "**Result:** FAIL")
}

func TestDeliverablesHTML(t *testing.T) {
	zip := testutil.WriteZip(t, "Sample-Deliverables.zip", testutil.DeliverablesSample()...)

	out, _, err := runCommand(t, &RootOptions{Format: FormatHTML, NoHistory: true}, NewDeliverablesCommand, zip)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "<!DOCTYPE html>")
	assert.Contains(t, out, "<table>")
}

// =============================================================================
// check
// =============================================================================

func TestCheckBothArchives(t *testing.T) {
	naming := testutil.WriteZip(t, "Sample-Naming.zip", testutil.NamingSample()...)
	deliverables := testutil.WriteZip(t, "Sample-Deliverables.zip", testutil.DeliverablesSample()...)

	out, _, err := runCommand(t, &RootOptions{Format: FormatText, NoHistory: true}, NewCheckCommand,
		"--naming", naming, "--deliverables", deliverables)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "== Naming ==")
	assert.Contains(t, out, "== Deliverables ==")
	assert.Contains(t, out, "Compliance rate: 58.3%")
	assert.Contains(t, out, "Delivered: 6 (66.7%)")
}

func TestCheckIndependentFailure(t *testing.T) {
	badNaming := testutil.WriteZip(t, "bad.zip",
		testutil.File{Name: "naming.csv", Data: "Code\nABC\n"},
	)
	deliverables := testutil.WriteZip(t, "Sample-Deliverables.zip", testutil.DeliverablesSample()...)

	out, _, err := runCommand(t, &RootOptions{Format: FormatJSON, NoHistory: true}, NewCheckCommand,
		"--naming", badNaming, "--deliverables", deliverables)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	resp := decodeResponse(t, out)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E202", resp.Error.Code)

	rep := resp.Data.(map[string]any)["report"].(map[string]any)
	assert.NotContains(t, rep, "naming")
	deliv := rep["deliverables"].(map[string]any)
	assert.EqualValues(t, 6, deliv["delivered"])
}

func TestCheckRequiresAnArchive(t *testing.T) {
	_, errOut, err := runCommand(t, &RootOptions{Format: FormatText, NoHistory: true}, NewCheckCommand)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, errOut, "at least one of --naming or --deliverables")
}

func TestParseConfirmations(t *testing.T) {
	got, err := parseConfirmations([]string{"A-1=dir/A-1 draft.pdf", " B-2 = b=2.pdf "})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "A-1", got[0].Identifier)
	assert.Equal(t, "dir/A-1 draft.pdf", got[0].Path)
	assert.Equal(t, "B-2", got[1].Identifier)
	assert.Equal(t, "b=2.pdf", got[1].Path)

	for _, bad := range []string{"A-1", "=x.pdf", "A-1="} {
		_, err := parseConfirmations([]string{bad})
		assert.Error(t, err, bad)
	}
}
