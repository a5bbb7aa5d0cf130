// Package report aggregates classification and reconciliation results into
// a Report and renders it as text, markdown, or HTML.
//
// BuildReport is a pure function of its inputs: it adds counts and
// groupings but makes no new decisions about compliance or delivery.
package report
