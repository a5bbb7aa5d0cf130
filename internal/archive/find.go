package archive

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/roach88/valiblox/internal/table"
)

// TableKind is the role of a table inside an archive.
type TableKind string

const (
	KindNamingTemplate TableKind = "naming_template"
	KindRegister       TableKind = "register"
)

// ErrNoTable is returned when an archive holds no readable table file.
var ErrNoTable = errors.New("no table file found in archive")

var tableKeywords = map[TableKind][]string{
	KindNamingTemplate: {"naming", "convention", "template"},
	KindRegister:       {"deliverable", "register", "drawing list", "drawing-list", "drawing_list", "document list"},
}

// FindTable picks the table file for kind. A file whose name carries one of
// the kind's keywords wins, shallowest first; otherwise the first table file
// in archive order is used.
func FindTable(a *Archive, kind TableKind) (string, error) {
	var (
		first     string
		best      string
		bestDepth int
	)
	for _, p := range a.paths {
		if !table.IsTable(p) {
			continue
		}
		if first == "" {
			first = p
		}
		if !hasKeyword(p, tableKeywords[kind]) {
			continue
		}
		depth := strings.Count(p, "/")
		if best == "" || depth < bestDepth {
			best, bestDepth = p, depth
		}
	}

	switch {
	case best != "":
		return best, nil
	case first != "":
		return first, nil
	default:
		return "", fmt.Errorf("%s: %w", a.source, ErrNoTable)
	}
}

func hasKeyword(p string, keywords []string) bool {
	base := strings.ToLower(path.Base(p))
	for _, k := range keywords {
		if strings.Contains(base, k) {
			return true
		}
	}
	return false
}
