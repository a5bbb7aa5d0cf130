package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitPath(t *testing.T) {
	tests := []struct {
		path, dir, stem, ext string
	}{
		{"Structural/ABC-STR-001.dwg", "Structural", "ABC-STR-001", ".dwg"},
		{"a/b/c.tar.gz", "a/b", "c.tar", ".gz"},
		{`Drawings\ABC-STR-001.pdf`, "Drawings", "ABC-STR-001", ".pdf"},
		{"./root.txt", "", "root", ".txt"},
		{".gitignore", "", ".gitignore", ""},
		{"noext", "", "noext", ""},
		{"dir/", "dir", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			dir, stem, ext := SplitPath(tt.path)
			assert.Equal(t, tt.dir, dir)
			assert.Equal(t, tt.stem, stem)
			assert.Equal(t, tt.ext, ext)
		})
	}
}

func TestTopLevelDir(t *testing.T) {
	assert.Equal(t, "Structural", TopLevelDir("Structural/ABC.dwg"))
	assert.Equal(t, "Archive", TopLevelDir("/Archive/Old/ABC.dwg"))
	assert.Equal(t, "", TopLevelDir("ABC.dwg"))
}
