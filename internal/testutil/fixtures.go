package testutil

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// File is one archive member. Order is preserved when writing.
type File struct {
	Name string
	Data string
}

// WriteZip writes files into a zip in t.TempDir() and returns its path.
func WriteZip(t testing.TB, name string, files ...File) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, file := range files {
		w, err := zw.Create(file.Name)
		require.NoError(t, err)
		_, err = w.Write([]byte(file.Data))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return path
}

// WriteDir writes files under a fresh t.TempDir() and returns its path.
func WriteDir(t testing.TB, files ...File) string {
	t.Helper()

	root := t.TempDir()
	for _, file := range files {
		path := filepath.Join(root, filepath.FromSlash(file.Name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(file.Data), 0o644))
	}
	return root
}

// NamingTemplateCSV is the template shipped in the naming sample archive.
const NamingTemplateCSV = `Project Code,Discipline,Document Type,Sequential Number,Revision
ABC,STR,DWG,001,01
ABC,STR,DWG,002,01
ABC,STR,DWG,003,01
ABC,MEP,DWG,001,01
ABC,MEP,DWG,002,01
XYZ,ARC,PDF,001,REV01
XYZ,ARC,PDF,002,REV01`

// NamingSamplePaths are the drawing files of the naming sample archive.
var NamingSamplePaths = []string{
	"Structural/ABC-STR-DWG-001-01.dwg",
	"Structural/ABC-STR-DWG-002-01.dwg",
	"Structural/ABC-STR-DWG-003-01.pdf",
	"MEP/ABC-MEP-DWG-001-01.dwg",
	"MEP/ABC-MEP-DWG-002-01.xlsx",
	"Architecture/XYZ-ARC-PDF-001-REV01.pdf",
	"Architecture/XYZ-ARC-PDF-002-REV01.docx",
	"Structural/ABC_STR_DWG_004_01.dwg",
	"MEP/ABC-MEP-003-01.dwg",
	"Architecture/XYZ-ARC-PDF-003.pdf",
	"General/RandomFile.txt",
	"Structural/ABC-STR-DWG-005-REV02-EXTRA.dwg",
}

// RegisterCSV is the deliverables list shipped in the deliverables sample archive.
const RegisterCSV = `Drawing Number,Title,Discipline,Status
ABC-STR-001,Foundation Plan,Structural,For Construction
ABC-STR-002,Ground Floor Plan,Structural,For Construction
ABC-STR-003,First Floor Plan,Structural,For Construction
ABC-MEP-001,HVAC Layout,MEP,For Review
ABC-MEP-002,Electrical Layout,MEP,For Review
ABC-ARC-001,Site Plan,Architecture,For Construction
ABC-ARC-002,Floor Plans,Architecture,For Construction
ABC-ARC-003,Elevations,Architecture,Draft
ABC-ARC-004,Sections,Architecture,Draft`

// DeliverablesSamplePaths are the project files of the deliverables sample archive.
var DeliverablesSamplePaths = []string{
	"Drawings/ABC-STR-001.dwg",
	"Drawings/ABC-STR-002.dwg",
	"Drawings/ABC-MEP-001.dwg",
	"Drawings/ABC-MEP-002.dwg",
	"Drawings/ABC-ARC-001.pdf",
	"Drawings/ABC-ARC-002.pdf",
	"Drawings/ABC-STR-004.dwg",
	"Drawings/ABC-MEP-003.dwg",
	"Calculations/Structural-Calc-001.xlsx",
	"Reports/Progress-Report-Week1.docx",
	"Drawings/ABC-ARC-003-Draft.pdf",
	"Archive/ABC-STR-001-OLD.dwg",
}

// NamingSample returns the members of the naming sample archive: the
// template first, then the drawing files.
func NamingSample() []File {
	files := []File{{Name: "Sample-Naming-Convention.csv", Data: NamingTemplateCSV}}
	for _, p := range NamingSamplePaths {
		files = append(files, File{Name: p, Data: "sample content"})
	}
	return files
}

// DeliverablesSample returns the members of the deliverables sample archive.
func DeliverablesSample() []File {
	files := []File{{Name: "Sample-Deliverables-List.csv", Data: RegisterCSV}}
	for _, p := range DeliverablesSamplePaths {
		files = append(files, File{Name: p, Data: "project file content"})
	}
	return files
}
