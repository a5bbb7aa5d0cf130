package reconcile

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Basis records which measure produced a fuzzy score.
type Basis string

const (
	BasisEditDistance Basis = "edit_distance"
	BasisContainment  Basis = "containment"
)

// minContainedLength is the shortest key that may score by containment.
const minContainedLength = 4

// containmentFloor is the score of the weakest containment match.
const containmentFloor = 0.8

// Similarity scores two raw strings after normalizing them.
func Similarity(a, b string) (float64, Basis) {
	return similarity(Normalize(a), Normalize(b), 0)
}

// similarity scores two normalized keys. Edit distance is skipped when the
// length difference alone keeps the score below threshold.
func similarity(a, b string, threshold float64) (float64, Basis) {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	if la == 0 || lb == 0 {
		return 0, BasisEditDistance
	}
	longest := max(la, lb)

	edit := 0.0
	if bound := 1 - float64(abs(la-lb))/float64(longest); bound >= threshold {
		edit = 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
	}

	if c := containment(a, b, la, lb); c > edit {
		return c, BasisContainment
	}
	return edit, BasisEditDistance
}

// containment scores the shorter key appearing inside the longer one on
// token boundaries, e.g. "abc-arc-003" within "abc-arc-003-draft".
func containment(a, b string, la, lb int) float64 {
	short, long := a, b
	ls, ll := la, lb
	if la > lb {
		short, long = b, a
		ls, ll = lb, la
	}
	if ls < minContainedLength || ls == ll {
		return 0
	}

	for offset := 0; offset < len(long); {
		i := strings.Index(long[offset:], short)
		if i < 0 {
			break
		}
		start := offset + i
		end := start + len(short)
		if (start == 0 || long[start-1] == '-') && (end == len(long) || long[end] == '-') {
			return containmentFloor + (1-containmentFloor)*float64(ls)/float64(ll)
		}
		offset = start + 1
	}
	return 0
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
