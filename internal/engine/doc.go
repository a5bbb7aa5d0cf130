// Package engine runs the naming and deliverables pipelines over inputs
// that have already been read from archives.
//
// The two pipelines are independent failure domains: a malformed naming
// template fails only the naming pipeline and an unreadable register fails
// only the deliverables pipeline. Both run concurrently and every failure is
// reported on the Outcome rather than aborting the run.
//
// Within the deliverables pipeline, accepted fuzzy confirmations are applied
// after reconciliation in the order given.
package engine
