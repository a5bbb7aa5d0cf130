package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// RenderMarkdown writes the report as a GitHub-flavoured markdown document.
func RenderMarkdown(w io.Writer, r *Report) error {
	ew := &errWriter{w: w}

	fmt.Fprintln(ew, "# Validation report")
	fmt.Fprintln(ew)
	if r.Passed() {
		fmt.Fprintln(ew, "**Result:** PASS")
	} else {
		fmt.Fprintln(ew, "**Result:** FAIL")
	}

	if n := r.Naming; n != nil {
		fmt.Fprintln(ew)
		fmt.Fprintln(ew, "## Naming")
		fmt.Fprintln(ew)
		fmt.Fprintln(ew, "| Metric | Value |")
		fmt.Fprintln(ew, "|---|---|")
		fmt.Fprintf(ew, "| Files | %d |\n", n.Total)
		fmt.Fprintf(ew, "| Compliant | %d |\n", n.Compliant)
		fmt.Fprintf(ew, "| Non-compliant | %d |\n", n.NonCompliant)
		fmt.Fprintf(ew, "| Compliance rate | %.1f%% |\n", n.ComplianceRate)

		if len(n.ByFolder) > 0 {
			fmt.Fprintln(ew)
			fmt.Fprintln(ew, "| Folder | Files | Compliant | Non-compliant |")
			fmt.Fprintln(ew, "|---|---|---|---|")
			for _, f := range n.ByFolder {
				fmt.Fprintf(ew, "| %s | %d | %d | %d |\n", cell(folderLabel(f.Folder)), f.Total, f.Compliant, f.NonCompliant)
			}
		}

		if n.NonCompliant > 0 {
			fmt.Fprintln(ew)
			fmt.Fprintln(ew, "### Non-compliant files")
			fmt.Fprintln(ew)
			fmt.Fprintln(ew, "| Path | Reason |")
			fmt.Fprintln(ew, "|---|---|")
			for _, f := range n.Files {
				if !f.Compliant() {
					fmt.Fprintf(ew, "| %s | %s |\n", cell(f.Path), cell(f.Reason))
				}
			}
		}
	}

	if d := r.Deliverables; d != nil {
		fmt.Fprintln(ew)
		fmt.Fprintln(ew, "## Deliverables")
		fmt.Fprintln(ew)
		fmt.Fprintln(ew, "| Metric | Value |")
		fmt.Fprintln(ew, "|---|---|")
		fmt.Fprintf(ew, "| Register entries | %d |\n", d.RegisterCount)
		fmt.Fprintf(ew, "| Files | %d |\n", d.FileCount)
		fmt.Fprintf(ew, "| Delivered | %d |\n", d.Delivered)
		fmt.Fprintf(ew, "| Missing | %d |\n", d.Missing)
		fmt.Fprintf(ew, "| Extra | %d |\n", d.Extra)
		fmt.Fprintf(ew, "| Percent delivered | %.1f%% |\n", d.PercentDelivered)

		fmt.Fprintln(ew)
		fmt.Fprintln(ew, "### Items")
		fmt.Fprintln(ew)
		fmt.Fprintln(ew, "| Status | Identifier | Path |")
		fmt.Fprintln(ew, "|---|---|---|")
		for _, it := range d.Items {
			fmt.Fprintf(ew, "| %s | %s | %s |\n", it.Status, cell(it.Identifier), cell(it.Path))
		}

		if len(d.FuzzyCandidates) > 0 {
			fmt.Fprintln(ew)
			fmt.Fprintln(ew, "### Fuzzy candidates")
			fmt.Fprintln(ew)
			fmt.Fprintln(ew, "| Identifier | Path | Score | Basis |")
			fmt.Fprintln(ew, "|---|---|---|---|")
			for _, c := range d.FuzzyCandidates {
				fmt.Fprintf(ew, "| %s | %s | %.2f | %s |\n", cell(c.Entry.Identifier), cell(c.Path), c.Score, c.Basis)
			}
		}

		if len(d.Warnings) > 0 {
			fmt.Fprintln(ew)
			fmt.Fprintln(ew, "### Warnings")
			fmt.Fprintln(ew)
			for _, wn := range d.Warnings {
				fmt.Fprintf(ew, "- %s\n", wn.Message)
			}
		}
	}

	return ew.err
}

// RenderHTML converts the markdown rendering to a standalone HTML page.
func RenderHTML(w io.Writer, r *Report) error {
	var src bytes.Buffer
	if err := RenderMarkdown(&src, r); err != nil {
		return err
	}

	md := goldmark.New(goldmark.WithExtensions(extension.GFM))

	ew := &errWriter{w: w}
	fmt.Fprintln(ew, "<!DOCTYPE html>")
	fmt.Fprintln(ew, `<html><head><meta charset="utf-8"><title>Validation report</title></head><body>`)
	if ew.err != nil {
		return ew.err
	}
	if err := md.Convert(src.Bytes(), ew); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	fmt.Fprintln(ew, "</body></html>")
	return ew.err
}

// cell escapes text for a markdown table cell.
func cell(s string) string {
	if s == "" {
		return "-"
	}
	return strings.ReplaceAll(s, "|", `\|`)
}
