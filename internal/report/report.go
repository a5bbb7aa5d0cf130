package report

import (
	"sort"

	"github.com/roach88/valiblox/internal/naming"
	"github.com/roach88/valiblox/internal/reconcile"
	"github.com/roach88/valiblox/internal/register"
)

// Report is the aggregate of a run. Either section may be nil when that
// sub-pipeline was not run or failed.
type Report struct {
	Naming       *NamingSection       `json:"naming,omitempty"`
	Deliverables *DeliverablesSection `json:"deliverables,omitempty"`
}

// ReasonCount is the number of non-compliant files sharing a reason.
type ReasonCount struct {
	Reason string `json:"reason"`
	Count  int    `json:"count"`
}

// NamingFolder totals classification results under one top-level directory.
type NamingFolder struct {
	Folder       string `json:"folder"`
	Total        int    `json:"total"`
	Compliant    int    `json:"compliant"`
	NonCompliant int    `json:"non_compliant"`
}

// NamingSection summarizes naming validation.
type NamingSection struct {
	Total          int                     `json:"total"`
	Compliant      int                     `json:"compliant"`
	NonCompliant   int                     `json:"non_compliant"`
	ComplianceRate float64                 `json:"compliance_rate"`
	ByReason       []ReasonCount           `json:"by_reason"`
	ByFolder       []NamingFolder          `json:"by_folder"`
	Files          []naming.ClassifiedFile `json:"files"`
}

// ItemStatus is the delivery state of a register entry or archive file.
type ItemStatus string

const (
	ItemDelivered ItemStatus = "delivered"
	ItemMissing   ItemStatus = "missing"
	ItemExtra     ItemStatus = "extra"
)

// Item is one line of the per-item status listing.
type Item struct {
	Status     ItemStatus       `json:"status"`
	Identifier string           `json:"identifier,omitempty"`
	Row        int              `json:"row,omitempty"`
	Path       string           `json:"path,omitempty"`
	Method     reconcile.Method `json:"method,omitempty"`
}

// DeliveryFolder totals delivered and extra files under one top-level directory.
type DeliveryFolder struct {
	Folder    string `json:"folder"`
	Delivered int    `json:"delivered"`
	Extra     int    `json:"extra"`
}

// DeliverablesSection summarizes reconciliation.
type DeliverablesSection struct {
	RegisterCount    int                   `json:"register_count"`
	FileCount        int                   `json:"file_count"`
	Delivered        int                   `json:"delivered"`
	Missing          int                   `json:"missing"`
	Extra            int                   `json:"extra"`
	PercentDelivered float64               `json:"percent_delivered"`
	Threshold        float64               `json:"fuzzy_threshold"`
	ByFolder         []DeliveryFolder      `json:"by_folder"`
	Items            []Item                `json:"items"`
	FuzzyCandidates  []reconcile.Candidate `json:"fuzzy_candidates"`
	Warnings         []register.Warning    `json:"warnings"`
}

// BuildReport aggregates classified files and a reconciliation result.
// Either argument may be nil.
func BuildReport(classified []naming.ClassifiedFile, res *reconcile.Result) *Report {
	r := &Report{}
	if classified != nil {
		r.Naming = buildNaming(classified)
	}
	if res != nil {
		r.Deliverables = buildDeliverables(res)
	}
	return r
}

// Passed reports whether the run has no non-compliant files and no missing
// register entries. Extra files and fuzzy candidates do not fail a run.
func (r *Report) Passed() bool {
	if r.Naming != nil && r.Naming.NonCompliant > 0 {
		return false
	}
	if r.Deliverables != nil && r.Deliverables.Missing > 0 {
		return false
	}
	return true
}

func buildNaming(files []naming.ClassifiedFile) *NamingSection {
	s := &NamingSection{
		Total:    len(files),
		ByReason: []ReasonCount{},
		ByFolder: []NamingFolder{},
		Files:    files,
	}

	reasons := map[string]int{}
	folders := map[string]*NamingFolder{}
	for _, f := range files {
		nf := folders[f.Folder]
		if nf == nil {
			nf = &NamingFolder{Folder: f.Folder}
			folders[f.Folder] = nf
		}
		nf.Total++
		if f.Compliant() {
			s.Compliant++
			nf.Compliant++
			continue
		}
		s.NonCompliant++
		nf.NonCompliant++
		reasons[f.Reason]++
	}

	if s.Total > 0 {
		s.ComplianceRate = float64(s.Compliant) / float64(s.Total) * 100
	}

	for reason, n := range reasons {
		s.ByReason = append(s.ByReason, ReasonCount{Reason: reason, Count: n})
	}
	sort.Slice(s.ByReason, func(i, j int) bool {
		if s.ByReason[i].Count != s.ByReason[j].Count {
			return s.ByReason[i].Count > s.ByReason[j].Count
		}
		return s.ByReason[i].Reason < s.ByReason[j].Reason
	})

	for _, name := range sortedKeys(folders) {
		s.ByFolder = append(s.ByFolder, *folders[name])
	}
	return s
}

func buildDeliverables(res *reconcile.Result) *DeliverablesSection {
	s := &DeliverablesSection{
		RegisterCount:    res.RegisterCount,
		FileCount:        res.FileCount,
		Delivered:        len(res.Delivered),
		Missing:          len(res.Missing),
		Extra:            len(res.Extra),
		PercentDelivered: res.PercentDelivered(),
		Threshold:        res.Threshold,
		ByFolder:         []DeliveryFolder{},
		FuzzyCandidates:  res.FuzzyCandidates,
		Warnings:         res.Warnings,
	}
	if s.FuzzyCandidates == nil {
		s.FuzzyCandidates = []reconcile.Candidate{}
	}
	if s.Warnings == nil {
		s.Warnings = []register.Warning{}
	}

	folders := map[string]*DeliveryFolder{}
	folder := func(path string) *DeliveryFolder {
		name := naming.TopLevelDir(path)
		df := folders[name]
		if df == nil {
			df = &DeliveryFolder{Folder: name}
			folders[name] = df
		}
		return df
	}

	// Register items in source row order, then extras in archive order.
	items := make([]Item, 0, len(res.Delivered)+len(res.Missing)+len(res.Extra))
	for _, p := range res.Delivered {
		folder(p.Path).Delivered++
		items = append(items, Item{
			Status:     ItemDelivered,
			Identifier: p.Entry.Identifier,
			Row:        p.Entry.Row,
			Path:       p.Path,
			Method:     p.Method,
		})
	}
	for _, e := range res.Missing {
		items = append(items, Item{
			Status:     ItemMissing,
			Identifier: e.Identifier,
			Row:        e.Row,
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Row < items[j].Row
	})
	for _, path := range res.Extra {
		folder(path).Extra++
		items = append(items, Item{Status: ItemExtra, Path: path})
	}
	s.Items = items

	for _, name := range sortedKeys(folders) {
		s.ByFolder = append(s.ByFolder, *folders[name])
	}
	return s
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
