package archive

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/valiblox/internal/testutil"
)

var defaultIgnore = []string{"__MACOSX/**", "**/.DS_Store", "**/Thumbs.db"}

// =============================================================================
// Open
// =============================================================================

func TestOpenZip(t *testing.T) {
	path := testutil.WriteZip(t, "naming.zip", testutil.NamingSample()...)

	a, err := Open(path, nil)
	require.NoError(t, err)
	defer a.Close()

	paths := a.Paths()
	require.Len(t, paths, 13)
	assert.Equal(t, "Sample-Naming-Convention.csv", paths[0])
	assert.Equal(t, testutil.NamingSamplePaths, paths[1:])
	assert.Equal(t, path, a.Source())
}

func TestOpenDirectory(t *testing.T) {
	root := testutil.WriteDir(t, testutil.DeliverablesSample()...)

	a, err := Open(root, nil)
	require.NoError(t, err)
	defer a.Close()

	paths := a.Paths()
	assert.Len(t, paths, 13)
	assert.Contains(t, paths, "Drawings/ABC-STR-001.dwg")
	assert.Contains(t, paths, "Sample-Deliverables-List.csv")
	assert.IsIncreasing(t, paths, "directory walk is lexical")
}

func TestOpenIgnore(t *testing.T) {
	path := testutil.WriteZip(t, "a.zip",
		testutil.File{Name: "A-001.pdf", Data: "x"},
		testutil.File{Name: "__MACOSX/._A-001.pdf", Data: "x"},
		testutil.File{Name: ".DS_Store", Data: "x"},
		testutil.File{Name: "Drawings/.DS_Store", Data: "x"},
		testutil.File{Name: "Drawings/Thumbs.db", Data: "x"},
		testutil.File{Name: "Drawings/B-002.pdf", Data: "x"},
	)

	a, err := Open(path, defaultIgnore)
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, []string{"A-001.pdf", "Drawings/B-002.pdf"}, a.Paths())
}

func TestOpenSkipsDirectoryEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dirs.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	_, err = zw.Create("Drawings/")
	require.NoError(t, err)
	w, err := zw.Create("Drawings\\A-001.pdf")
	require.NoError(t, err)
	_, err = w.Write([]byte("x"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	a, err := Open(path, nil)
	require.NoError(t, err)
	defer a.Close()
	assert.Equal(t, []string{"Drawings/A-001.pdf"}, a.Paths())
}

func TestOpenErrors(t *testing.T) {
	t.Run("missing path", func(t *testing.T) {
		_, err := Open(filepath.Join(t.TempDir(), "nope.zip"), nil)
		assert.Error(t, err)
	})

	t.Run("not a zip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "x.zip")
		require.NoError(t, os.WriteFile(path, []byte("plain text"), 0o644))
		_, err := Open(path, nil)
		assert.Error(t, err)
	})

	t.Run("bad ignore pattern", func(t *testing.T) {
		_, err := Open(t.TempDir(), []string{"[unclosed"})
		assert.Error(t, err)
	})
}

// =============================================================================
// ReadFile
// =============================================================================

func TestReadFile(t *testing.T) {
	for _, tc := range []struct {
		name string
		open func(t *testing.T) string
	}{
		{"zip", func(t *testing.T) string { return testutil.WriteZip(t, "d.zip", testutil.DeliverablesSample()...) }},
		{"dir", func(t *testing.T) string { return testutil.WriteDir(t, testutil.DeliverablesSample()...) }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			a, err := Open(tc.open(t), nil)
			require.NoError(t, err)
			defer a.Close()

			data, err := a.ReadFile("Sample-Deliverables-List.csv")
			require.NoError(t, err)
			assert.Equal(t, testutil.RegisterCSV, string(data))

			_, err = a.ReadFile("missing.csv")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestPathsExcept(t *testing.T) {
	a, err := Open(testutil.WriteZip(t, "d.zip", testutil.DeliverablesSample()...), nil)
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, testutil.DeliverablesSamplePaths, a.PathsExcept("Sample-Deliverables-List.csv"))
}

// =============================================================================
// FindTable
// =============================================================================

func TestFindTable(t *testing.T) {
	t.Run("naming sample", func(t *testing.T) {
		a, err := Open(testutil.WriteZip(t, "n.zip", testutil.NamingSample()...), nil)
		require.NoError(t, err)
		defer a.Close()

		name, err := FindTable(a, KindNamingTemplate)
		require.NoError(t, err)
		assert.Equal(t, "Sample-Naming-Convention.csv", name)
	})

	t.Run("deliverables sample ignores other workbooks", func(t *testing.T) {
		a, err := Open(testutil.WriteZip(t, "d.zip", testutil.DeliverablesSample()...), nil)
		require.NoError(t, err)
		defer a.Close()

		name, err := FindTable(a, KindRegister)
		require.NoError(t, err)
		assert.Equal(t, "Sample-Deliverables-List.csv", name)
	})

	t.Run("shallowest keyword match", func(t *testing.T) {
		a, err := Open(testutil.WriteZip(t, "d.zip",
			testutil.File{Name: "Old/register-v1.csv", Data: "x"},
			testutil.File{Name: "Register.xlsx", Data: "x"},
		), nil)
		require.NoError(t, err)
		defer a.Close()

		name, err := FindTable(a, KindRegister)
		require.NoError(t, err)
		assert.Equal(t, "Register.xlsx", name)
	})

	t.Run("falls back to first table", func(t *testing.T) {
		a, err := Open(testutil.WriteZip(t, "d.zip",
			testutil.File{Name: "A-001.pdf", Data: "x"},
			testutil.File{Name: "list.csv", Data: "x"},
		), nil)
		require.NoError(t, err)
		defer a.Close()

		name, err := FindTable(a, KindNamingTemplate)
		require.NoError(t, err)
		assert.Equal(t, "list.csv", name)
	})

	t.Run("no table", func(t *testing.T) {
		a, err := Open(testutil.WriteZip(t, "d.zip", testutil.File{Name: "A-001.pdf", Data: "x"}), nil)
		require.NoError(t, err)
		defer a.Close()

		_, err = FindTable(a, KindRegister)
		assert.ErrorIs(t, err, ErrNoTable)
	})
}
