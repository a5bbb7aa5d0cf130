// Package register parses deliverables registers: tables whose rows name the
// documents a project is expected to deliver.
//
// Every non-blank data row becomes exactly one Entry, even when its
// identifier is empty or repeated. Such rows are reported as quality
// warnings instead of being dropped or deduplicated, so row counts always
// reconcile with the source table.
package register
