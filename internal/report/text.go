package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// TextOptions controls plain-text rendering.
type TextOptions struct {
	// Color enables ANSI colours. Callers usually set it from isatty.
	Color bool
	// Verbose lists every file and register entry instead of only findings.
	Verbose bool
}

type palette struct {
	header *color.Color
	good   *color.Color
	bad    *color.Color
	warn   *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		header: color.New(color.FgCyan, color.Bold),
		good:   color.New(color.FgGreen),
		bad:    color.New(color.FgRed),
		warn:   color.New(color.FgYellow),
	}
	for _, c := range []*color.Color{p.header, p.good, p.bad, p.warn} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// RenderText writes a human-readable report to w.
func RenderText(w io.Writer, r *Report, opts TextOptions) error {
	ew := &errWriter{w: w}
	p := newPalette(opts.Color)

	if r.Naming != nil {
		renderNamingText(ew, p, r.Naming, opts)
	}
	if r.Deliverables != nil {
		if r.Naming != nil {
			fmt.Fprintln(ew)
		}
		renderDeliverablesText(ew, p, r.Deliverables, opts)
	}

	fmt.Fprintln(ew)
	if r.Passed() {
		p.good.Fprintln(ew, "Result: PASS")
	} else {
		p.bad.Fprintln(ew, "Result: FAIL")
	}
	return ew.err
}

func renderNamingText(w io.Writer, p palette, n *NamingSection, opts TextOptions) {
	p.header.Fprintln(w, "== Naming ==")
	fmt.Fprintf(w, "Files: %d\n", n.Total)
	fmt.Fprint(w, "Compliant: ")
	p.good.Fprintf(w, "%d\n", n.Compliant)
	fmt.Fprint(w, "Non-compliant: ")
	if n.NonCompliant > 0 {
		p.bad.Fprintf(w, "%d\n", n.NonCompliant)
	} else {
		fmt.Fprintf(w, "%d\n", n.NonCompliant)
	}
	fmt.Fprintf(w, "Compliance rate: %.1f%%\n", n.ComplianceRate)

	if len(n.ByReason) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Reasons:")
		for _, rc := range n.ByReason {
			fmt.Fprintf(w, "  %s: %d\n", rc.Reason, rc.Count)
		}
	}

	if len(n.ByFolder) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Folders:")
		for _, f := range n.ByFolder {
			fmt.Fprintf(w, "  %s: %d/%d compliant\n", folderLabel(f.Folder), f.Compliant, f.Total)
		}
	}

	if opts.Verbose {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Files:")
		for _, f := range n.Files {
			if f.Compliant() {
				p.good.Fprintf(w, "  ok   %s\n", f.Path)
			} else {
				p.bad.Fprintf(w, "  FAIL %s (%s)\n", f.Path, f.Reason)
			}
		}
		return
	}

	if n.NonCompliant > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Non-compliant files:")
		for _, f := range n.Files {
			if !f.Compliant() {
				p.bad.Fprintf(w, "  %s (%s)\n", f.Path, f.Reason)
			}
		}
	}
}

func renderDeliverablesText(w io.Writer, p palette, d *DeliverablesSection, opts TextOptions) {
	p.header.Fprintln(w, "== Deliverables ==")
	fmt.Fprintf(w, "Register entries: %d\n", d.RegisterCount)
	fmt.Fprintf(w, "Files: %d\n", d.FileCount)
	fmt.Fprint(w, "Delivered: ")
	p.good.Fprintf(w, "%d (%.1f%%)\n", d.Delivered, d.PercentDelivered)
	fmt.Fprint(w, "Missing: ")
	if d.Missing > 0 {
		p.bad.Fprintf(w, "%d\n", d.Missing)
	} else {
		fmt.Fprintf(w, "%d\n", d.Missing)
	}
	fmt.Fprintf(w, "Extra: %d\n", d.Extra)

	if len(d.ByFolder) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Folders:")
		for _, f := range d.ByFolder {
			fmt.Fprintf(w, "  %s: %d delivered, %d extra\n", folderLabel(f.Folder), f.Delivered, f.Extra)
		}
	}

	if opts.Verbose {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Items:")
		for _, it := range d.Items {
			switch it.Status {
			case ItemDelivered:
				p.good.Fprintf(w, "  delivered %s -> %s (%s)\n", it.Identifier, it.Path, it.Method)
			case ItemMissing:
				p.bad.Fprintf(w, "  missing   %s (row %d)\n", it.Identifier, it.Row)
			case ItemExtra:
				fmt.Fprintf(w, "  extra     %s\n", it.Path)
			}
		}
	} else {
		if d.Missing > 0 {
			fmt.Fprintln(w)
			fmt.Fprintln(w, "Missing:")
			for _, it := range d.Items {
				if it.Status == ItemMissing {
					p.bad.Fprintf(w, "  %s (row %d)\n", it.Identifier, it.Row)
				}
			}
		}
		if d.Extra > 0 {
			fmt.Fprintln(w)
			fmt.Fprintln(w, "Extra:")
			for _, it := range d.Items {
				if it.Status == ItemExtra {
					fmt.Fprintf(w, "  %s\n", it.Path)
				}
			}
		}
	}

	if len(d.FuzzyCandidates) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Fuzzy candidates (unconfirmed):")
		for _, c := range d.FuzzyCandidates {
			p.warn.Fprintf(w, "  %s ~ %s %.2f %s\n", c.Entry.Identifier, c.Path, c.Score, c.Basis)
		}
	}

	if len(d.Warnings) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Warnings:")
		for _, wn := range d.Warnings {
			p.warn.Fprintf(w, "  %s\n", wn.Message)
		}
	}
}

func folderLabel(name string) string {
	if name == "" {
		return "(root)"
	}
	return name
}

// errWriter keeps the first write error so rendering code can stay linear.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}
