// Package table reads naming templates and deliverables registers from
// spreadsheet-like files into rows of cells.
//
// Supported formats are chosen by file extension: .csv, .tsv and .txt
// (comma or tab detected from the header line), .xlsx and .xlsm workbooks,
// and .cue documents with a header list and a rows list.
package table
