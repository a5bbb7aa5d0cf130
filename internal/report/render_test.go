package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderText(t *testing.T) {
	r := BuildReport(sampleClassified(t), sampleReconciliation(t))

	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, r, TextOptions{}))
	out := buf.String()

	assert.Contains(t, out, "== Naming ==\n")
	assert.Contains(t, out, "Compliance rate: 58.3%\n")
	assert.Contains(t, out, "  field count: 4\n")
	assert.Contains(t, out, "  Structural: 3/5 compliant\n")
	assert.Contains(t, out, "  Structural/ABC_STR_DWG_004_01.dwg (wrong separator)\n")
	assert.Contains(t, out, "== Deliverables ==\n")
	assert.Contains(t, out, "Delivered: 6 (66.7%)\n")
	assert.Contains(t, out, "  ABC-STR-003 (row 4)\n")
	assert.Contains(t, out, "  ABC-ARC-003 ~ Drawings/ABC-ARC-003-Draft.pdf 0.93 containment\n")
	assert.Contains(t, out, "  ABC-STR-003 ~ Drawings/ABC-STR-004.dwg 0.91 edit_distance\n")
	assert.Contains(t, out, "Result: FAIL\n")
	assert.NotContains(t, out, "\x1b[", "colour disabled")
}

func TestRenderTextVerbose(t *testing.T) {
	r := BuildReport(sampleClassified(t), sampleReconciliation(t))

	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, r, TextOptions{Verbose: true}))
	out := buf.String()

	assert.Contains(t, out, "  ok   Structural/ABC-STR-DWG-001-01.dwg\n")
	assert.Contains(t, out, "  delivered ABC-STR-001 -> Drawings/ABC-STR-001.dwg (exact)\n")
	assert.Contains(t, out, "  missing   ABC-ARC-004 (row 10)\n")
	assert.Contains(t, out, "  extra     Archive/ABC-STR-001-OLD.dwg\n")
}

func TestRenderTextColor(t *testing.T) {
	r := BuildReport(nil, nil)

	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, r, TextOptions{Color: true}))
	assert.Contains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "Result: PASS")
}

func TestRenderMarkdown(t *testing.T) {
	r := BuildReport(sampleClassified(t), sampleReconciliation(t))

	var buf bytes.Buffer
	require.NoError(t, RenderMarkdown(&buf, r))
	out := buf.String()

	assert.Contains(t, out, "# Validation report\n")
	assert.Contains(t, out, "**Result:** FAIL\n")
	assert.Contains(t, out, "| Compliance rate | 58.3% |\n")
	assert.Contains(t, out, "| General | 1 | 0 | 1 |\n")
	assert.Contains(t, out, "| missing | ABC-STR-003 | - |\n")
	assert.Contains(t, out, "| extra | - | Reports/Progress-Report-Week1.docx |\n")
	assert.Contains(t, out, "| ABC-ARC-003 | Drawings/ABC-ARC-003-Draft.pdf | 0.93 | containment |\n")
}

func TestRenderHTML(t *testing.T) {
	r := BuildReport(sampleClassified(t), sampleReconciliation(t))

	var buf bytes.Buffer
	require.NoError(t, RenderHTML(&buf, r))
	out := buf.String()

	assert.Contains(t, out, "<!DOCTYPE html>")
	assert.Contains(t, out, "<h1>Validation report</h1>")
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "<td>ABC-STR-003</td>")
	assert.Contains(t, out, "</body></html>")
}

func TestCell(t *testing.T) {
	assert.Equal(t, "-", cell(""))
	assert.Equal(t, `a\|b`, cell("a|b"))
}
