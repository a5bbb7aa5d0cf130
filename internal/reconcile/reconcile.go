package reconcile

import (
	"log/slog"
	"runtime"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/valiblox/internal/naming"
	"github.com/roach88/valiblox/internal/register"
)

// DefaultFuzzyThreshold is the minimum similarity for a fuzzy candidate.
const DefaultFuzzyThreshold = 0.8

// Method records how a delivered pairing was established.
type Method string

const (
	MethodExact      Method = "exact"
	MethodNormalized Method = "normalized"
	MethodConfirmed  Method = "confirmed"
)

// Options tunes reconciliation. The zero value uses DefaultFuzzyThreshold
// and GOMAXPROCS workers.
type Options struct {
	FuzzyThreshold float64
	Workers        int
	Logger         *slog.Logger
}

func (o Options) threshold() float64 {
	if o.FuzzyThreshold <= 0 {
		return DefaultFuzzyThreshold
	}
	return o.FuzzyThreshold
}

// Pairing is a register entry delivered by an archive file.
type Pairing struct {
	EntryIndex int            `json:"entry_index"`
	Entry      register.Entry `json:"entry"`
	FileIndex  int            `json:"file_index"`
	Path       string         `json:"path"`
	Method     Method         `json:"method"`
}

// Candidate is an unconfirmed fuzzy pairing of a missing entry and an extra file.
type Candidate struct {
	EntryIndex int            `json:"entry_index"`
	Entry      register.Entry `json:"entry"`
	FileIndex  int            `json:"file_index"`
	Path       string         `json:"path"`
	Score      float64        `json:"score"`
	Basis      Basis          `json:"basis"`
}

// Result is the outcome of one reconciliation run.
type Result struct {
	Delivered       []Pairing          `json:"delivered"`
	Missing         []register.Entry   `json:"missing"`
	Extra           []string           `json:"extra"`
	FuzzyCandidates []Candidate        `json:"fuzzy_candidates"`
	Warnings        []register.Warning `json:"warnings,omitempty"`
	RegisterCount   int                `json:"register_count"`
	FileCount       int                `json:"file_count"`
	Threshold       float64            `json:"threshold"`

	entries    []register.Entry
	paths      []string
	missingIdx []int
	extraIdx   []int
}

// PercentDelivered is the share of register entries delivered, 0 for an empty register.
func (r *Result) PercentDelivered() float64 {
	if r.RegisterCount == 0 {
		return 0
	}
	return float64(len(r.Delivered)) / float64(r.RegisterCount) * 100
}

// fileKeys holds the per-file lookups computed on the pool.
type fileKeys struct {
	norm       string
	exactHits  []int
	normalHits []int
}

// Reconcile matches entries against paths.
func Reconcile(entries []register.Entry, paths []string, opts Options) *Result {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	threshold := opts.threshold()
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	// Phase 1: keys and index lookups, parallel per item.
	entryNorm := make([]string, len(entries))
	parallel(len(entries), workers, func(i int) {
		entryNorm[i] = Normalize(stripExtension(entries[i].Identifier))
	})

	exactIndex := make(map[string][]int)
	normalIndex := make(map[string][]int)
	for i, e := range entries {
		if e.Identifier == "" {
			continue
		}
		exactIndex[e.Identifier] = append(exactIndex[e.Identifier], i)
		if entryNorm[i] != "" {
			normalIndex[entryNorm[i]] = append(normalIndex[entryNorm[i]], i)
		}
	}

	keys := make([]fileKeys, len(paths))
	parallel(len(paths), workers, func(i int) {
		stem := naming.Stem(paths[i])
		n := Normalize(stem)
		keys[i] = fileKeys{
			norm:       n,
			exactHits:  exactIndex[stem],
			normalHits: normalIndex[n],
		}
	})

	// Phase 2: pair in file order. Sole writer of the taken sets.
	entryTaken := make([]bool, len(entries))
	fileTaken := make([]bool, len(paths))
	var delivered []Pairing

	pair := func(method Method, hits func(k fileKeys) []int) {
		for f, k := range keys {
			if fileTaken[f] {
				continue
			}
			for _, e := range hits(k) {
				if entryTaken[e] {
					continue
				}
				entryTaken[e], fileTaken[f] = true, true
				delivered = append(delivered, Pairing{
					EntryIndex: e,
					Entry:      entries[e],
					FileIndex:  f,
					Path:       paths[f],
					Method:     method,
				})
				break
			}
		}
	}
	pair(MethodExact, func(k fileKeys) []int { return k.exactHits })
	pair(MethodNormalized, func(k fileKeys) []int { return k.normalHits })
	sortPairings(delivered)

	r := &Result{
		Delivered:     delivered,
		Warnings:      register.CheckQuality(entries),
		RegisterCount: len(entries),
		FileCount:     len(paths),
		Threshold:     threshold,
		entries:       entries,
		paths:         paths,
	}
	for e := range entries {
		if !entryTaken[e] {
			r.missingIdx = append(r.missingIdx, e)
		}
	}
	for f := range paths {
		if !fileTaken[f] {
			r.extraIdx = append(r.extraIdx, f)
		}
	}

	logger.Debug("reconcile passes complete",
		"entries", len(entries),
		"files", len(paths),
		"delivered", len(delivered),
	)

	// Phase 3: fuzzy, sequential over the remaining sets.
	r.FuzzyCandidates = fuzzyCandidates(r, entryNorm, keys, threshold)
	r.rebuild()

	logger.Debug("reconcile fuzzy pass complete",
		"missing", len(r.Missing),
		"extra", len(r.Extra),
		"candidates", len(r.FuzzyCandidates),
		"threshold", threshold,
	)

	return r
}

func fuzzyCandidates(r *Result, entryNorm []string, keys []fileKeys, threshold float64) []Candidate {
	var out []Candidate
	for _, e := range r.missingIdx {
		if entryNorm[e] == "" {
			continue
		}
		for _, f := range r.extraIdx {
			if keys[f].norm == "" {
				continue
			}
			score, basis := similarity(entryNorm[e], keys[f].norm, threshold)
			if score < threshold {
				continue
			}
			out = append(out, Candidate{
				EntryIndex: e,
				Entry:      r.entries[e],
				FileIndex:  f,
				Path:       r.paths[f],
				Score:      score,
				Basis:      basis,
			})
		}
	}
	sortCandidates(out)
	return out
}

// sortPairings orders deliveries by register order.
func sortPairings(p []Pairing) {
	sort.SliceStable(p, func(i, j int) bool {
		return p[i].EntryIndex < p[j].EntryIndex
	})
}

// stripExtension drops a trailing file extension from a register
// identifier. Only extensions that start with a letter count, so
// identifiers such as "A.101" or "Rev 2.0" keep their dotted suffix.
func stripExtension(id string) string {
	dot := strings.LastIndexByte(id, '.')
	if dot <= 0 || dot == len(id)-1 {
		return id
	}
	ext := id[dot+1:]
	r, _ := utf8.DecodeRuneInString(ext)
	if !unicode.IsLetter(r) || strings.ContainsFunc(ext, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		return id
	}
	return id[:dot]
}

// sortCandidates orders by score descending, then register order, then file order.
func sortCandidates(c []Candidate) {
	sort.SliceStable(c, func(i, j int) bool {
		if c[i].Score != c[j].Score {
			return c[i].Score > c[j].Score
		}
		if c[i].EntryIndex != c[j].EntryIndex {
			return c[i].EntryIndex < c[j].EntryIndex
		}
		return c[i].FileIndex < c[j].FileIndex
	})
}

// rebuild refreshes the exported Missing and Extra slices from the index sets.
func (r *Result) rebuild() {
	r.Missing = make([]register.Entry, 0, len(r.missingIdx))
	for _, e := range r.missingIdx {
		r.Missing = append(r.Missing, r.entries[e])
	}
	r.Extra = make([]string, 0, len(r.extraIdx))
	for _, f := range r.extraIdx {
		r.Extra = append(r.Extra, r.paths[f])
	}
	if r.Delivered == nil {
		r.Delivered = []Pairing{}
	}
	if r.FuzzyCandidates == nil {
		r.FuzzyCandidates = []Candidate{}
	}
}

// parallel runs fn(0..n-1) on at most workers goroutines and waits.
func parallel(n, workers int, fn func(i int)) {
	if n < 64 || workers == 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}
	var g errgroup.Group
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			fn(i)
			return nil
		})
	}
	_ = g.Wait()
}
