package naming

import (
	"runtime"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"
)

// inlineThreshold is the input size below which classification skips the pool.
const inlineThreshold = 64

// tokens is a stem split on the pattern's separator. misjoined is set when
// the split misses the field count but another separator, alone or mixed
// with the pattern's, would produce it.
type tokens struct {
	parts     []string
	misjoined bool
}

func tokenize(p *Pattern, stem string) tokens {
	t := tokens{parts: strings.Split(stem, string(p.Separator))}
	if len(t.parts) == p.FieldCount {
		return t
	}

	tried := make(map[rune]bool)
	for _, r := range stem {
		if r == p.Separator || !isSeparatorRune(r) || tried[r] {
			continue
		}
		tried[r] = true
		if strings.Count(stem, string(r))+1 == p.FieldCount ||
			strings.Count(stem, string(r))+len(t.parts) == p.FieldCount {
			t.misjoined = true
			return t
		}
	}
	return t
}

// rule is one link of the classification chain. It returns a violation
// reason, or "" when the stem passes.
type rule func(p *Pattern, t tokens) string

// rules run in order; the first violation wins.
var rules = []rule{
	checkFieldCount,
	checkSeparator,
	checkShapes,
	checkValues,
}

func checkFieldCount(p *Pattern, t tokens) string {
	if len(t.parts) != p.FieldCount && !t.misjoined {
		return ReasonFieldCount
	}
	return ""
}

func checkSeparator(p *Pattern, t tokens) string {
	if len(t.parts) != p.FieldCount {
		return ReasonWrongSeparator
	}
	return ""
}

func checkShapes(p *Pattern, t tokens) string {
	for i, f := range p.Fields {
		if !shapeOK(f, t.parts[i]) {
			return ReasonFieldShape + f.Name
		}
	}
	return ""
}

func checkValues(p *Pattern, t tokens) string {
	if !p.StrictCodes {
		return ""
	}
	for i, f := range p.Fields {
		if f.Kind != KindFixedCode {
			continue
		}
		if _, found := slices.BinarySearch(f.SampleValues, t.parts[i]); !found {
			return ReasonUnknownValue + f.Name
		}
	}
	return ""
}

func shapeOK(f FieldSpec, v string) bool {
	switch f.Kind {
	case KindFixedCode:
		return utf8.RuneCountInString(v) == f.Width && startsWithLetter(v) && isAlnum(v)
	case KindNumericCounter:
		return isDigits(v) && len(v) == f.Width
	case KindRevisionTag:
		return isAlnum(v) && (!f.RequireDigit || hasDigit(v))
	default:
		return v != "" && utf8.RuneCountInString(v) >= f.MinLength
	}
}

// ClassifyFile classifies a single path against the pattern.
func ClassifyFile(p *Pattern, path string) ClassifiedFile {
	stem := Stem(path)
	cf := ClassifiedFile{
		Path:   path,
		Stem:   stem,
		Folder: TopLevelDir(path),
		Status: StatusCompliant,
	}

	t := tokenize(p, stem)
	if len(t.parts) == p.FieldCount {
		cf.MatchedFields = make(map[string]string, p.FieldCount)
		for i, f := range p.Fields {
			cf.MatchedFields[f.Name] = t.parts[i]
		}
	}

	for _, check := range rules {
		if reason := check(p, t); reason != "" {
			cf.Status = StatusNonCompliant
			cf.Reason = reason
			break
		}
	}
	return cf
}

// ClassifyFiles classifies every path using GOMAXPROCS workers. The result has
// exactly one entry per input path, in input order.
func ClassifyFiles(p *Pattern, paths []string) []ClassifiedFile {
	return ClassifyFilesN(p, paths, 0)
}

// ClassifyFilesN is ClassifyFiles with an explicit worker count (0 means GOMAXPROCS).
func ClassifyFilesN(p *Pattern, paths []string, workers int) []ClassifiedFile {
	out := make([]ClassifiedFile, len(paths))
	if len(paths) < inlineThreshold || workers == 1 {
		for i, path := range paths {
			out[i] = ClassifyFile(p, path)
		}
		return out
	}

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	var g errgroup.Group
	g.SetLimit(workers)
	for i, path := range paths {
		g.Go(func() error {
			out[i] = ClassifyFile(p, path)
			return nil
		})
	}
	_ = g.Wait()
	return out
}
