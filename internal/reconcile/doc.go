// Package reconcile matches a deliverables register against an archive's file
// listing.
//
// Matching runs in three passes, each over what the previous passes left
// unmatched:
//
//  1. Exact: the file stem equals the identifier byte for byte.
//  2. Normalized: equality after NFC normalization, case folding, and
//     collapsing separator runs to a single "-".
//  3. Fuzzy: edit-distance or token-boundary containment similarity at or
//     above the threshold. Fuzzy pairs are only candidates; they stay in
//     Missing and Extra until the caller confirms them with Result.Confirm.
//
// # Concurrency
//
// Key computation and index lookups for the first two passes run on a worker
// pool. Pairing happens after the pool drains, in file order, so results do
// not depend on scheduling. The fuzzy pass is sequential and sees only the
// remaining sets handed over by the pairing step.
//
// Each pairing is one-to-one: an entry is delivered by at most one file and a
// file delivers at most one entry. Hence
//
//	len(Delivered) + len(Missing) == number of entries
//	len(Delivered) + len(Extra)   == number of files
package reconcile
