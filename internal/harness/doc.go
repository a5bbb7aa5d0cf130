// Package harness runs YAML scenarios through the validation engine and
// checks their expectations.
//
// # Scenario Format
//
//	name: scenario_name
//	description: "What this scenario validates"
//	template: |
//	  Project Code,Discipline,Document Type,Sequential Number,Revision
//	  ABC,STR,DWG,001,01
//	naming_files:
//	  - Structural/ABC-STR-DWG-001-01.dwg
//	register: |
//	  Drawing Number,Title
//	  ABC-STR-001,Foundation Plan
//	deliverable_files:
//	  - Drawings/ABC-STR-001.dwg
//	confirm:
//	  - identifier: ABC-STR-002
//	    path: Drawings/ABC-STR-002-Draft.dwg
//	expect:
//	  passed: false
//	  naming:
//	    compliant: 1
//	    files:
//	      - path: Structural/ABC-STR-DWG-001-01.dwg
//	  deliverables:
//	    delivered: [ABC-STR-001]
//	    missing: []
//
// Template and register are CSV text. Omitting one skips that pipeline.
// Expectation lists are exact when present and unchecked when omitted.
//
// # Golden Files
//
// RunWithGolden renders the plain-text report and compares it with
// testdata/golden/{name}.golden. Regenerate with:
//
//	go test ./internal/harness -update
package harness
