package reconcile

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrNotUnmatched is returned when a candidate's entry or file has already been paired.
	ErrNotUnmatched = errors.New("candidate entry or file is no longer unmatched")

	// ErrCandidateNotFound is returned by ConfirmMatch when no candidate pairs the identifier and path.
	ErrCandidateNotFound = errors.New("no fuzzy candidate for identifier and path")
)

// Confirm accepts a fuzzy candidate and returns a new Result in which the
// entry is delivered by the file. Candidates involving either side are
// dropped. The receiver is not modified.
func (r *Result) Confirm(c Candidate) (*Result, error) {
	mi := slices.Index(r.missingIdx, c.EntryIndex)
	fi := slices.Index(r.extraIdx, c.FileIndex)
	if mi < 0 || fi < 0 {
		return nil, fmt.Errorf("confirm %q -> %q: %w", c.Entry.Identifier, c.Path, ErrNotUnmatched)
	}

	next := &Result{
		Warnings:      r.Warnings,
		RegisterCount: r.RegisterCount,
		FileCount:     r.FileCount,
		Threshold:     r.Threshold,
		entries:       r.entries,
		paths:         r.paths,
		missingIdx:    slices.Delete(slices.Clone(r.missingIdx), mi, mi+1),
		extraIdx:      slices.Delete(slices.Clone(r.extraIdx), fi, fi+1),
	}

	next.Delivered = append(slices.Clone(r.Delivered), Pairing{
		EntryIndex: c.EntryIndex,
		Entry:      r.entries[c.EntryIndex],
		FileIndex:  c.FileIndex,
		Path:       r.paths[c.FileIndex],
		Method:     MethodConfirmed,
	})
	sortPairings(next.Delivered)

	for _, other := range r.FuzzyCandidates {
		if other.EntryIndex == c.EntryIndex || other.FileIndex == c.FileIndex {
			continue
		}
		next.FuzzyCandidates = append(next.FuzzyCandidates, other)
	}

	next.rebuild()
	return next, nil
}

// ConfirmMatch confirms the candidate pairing identifier with path.
func (r *Result) ConfirmMatch(identifier, path string) (*Result, error) {
	for _, c := range r.FuzzyCandidates {
		if c.Entry.Identifier == identifier && c.Path == path {
			return r.Confirm(c)
		}
	}
	return nil, fmt.Errorf("confirm %q -> %q: %w", identifier, path, ErrCandidateNotFound)
}
