package report

import (
	"github.com/roach88/valiblox/internal/canon"
)

// Fingerprint identifies the outcome of a run: which files were compliant
// and why, and how the register was reconciled. Two runs over the same
// inputs and settings produce the same fingerprint.
func Fingerprint(r *Report) (string, error) {
	digest := canon.Object{}

	if n := r.Naming; n != nil {
		files := make(canon.Array, 0, len(n.Files))
		for _, f := range n.Files {
			files = append(files, canon.Object{
				"path":   f.Path,
				"status": string(f.Status),
				"reason": f.Reason,
			})
		}
		digest["naming"] = canon.Object{"files": files}
	}

	if d := r.Deliverables; d != nil {
		items := make(canon.Array, 0, len(d.Items))
		for _, it := range d.Items {
			items = append(items, canon.Object{
				"status":     string(it.Status),
				"identifier": it.Identifier,
				"path":       it.Path,
				"method":     string(it.Method),
			})
		}
		candidates := make(canon.Array, 0, len(d.FuzzyCandidates))
		for _, c := range d.FuzzyCandidates {
			candidates = append(candidates, canon.Object{
				"identifier": c.Entry.Identifier,
				"path":       c.Path,
				"score_bp":   canon.BasisPoints(c.Score),
				"basis":      string(c.Basis),
			})
		}
		digest["deliverables"] = canon.Object{
			"items":        items,
			"candidates":   candidates,
			"threshold_bp": canon.BasisPoints(d.Threshold),
		}
	}

	return canon.Fingerprint(canon.DomainReport, digest)
}
