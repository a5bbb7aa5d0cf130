package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// MaxReadSize caps ReadFile so a hostile archive cannot exhaust memory.
const MaxReadSize = 64 << 20

// ErrNotFound is returned by ReadFile for a path not in the archive.
var ErrNotFound = errors.New("file not found in archive")

// Archive is an opened zip file or directory.
type Archive struct {
	source string
	paths  []string

	zr    *zip.ReadCloser
	files map[string]*zip.File
	root  string
}

// Open lists the archive at path. A directory is walked; anything else is
// read as a zip file. Paths matching any ignore pattern are left out.
func Open(path string, ignore []string) (*Archive, error) {
	for _, pattern := range ignore {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid ignore pattern %q", pattern)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	if info.IsDir() {
		return openDir(path, ignore)
	}
	return openZip(path, ignore)
}

func openZip(path string, ignore []string) (*Archive, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", path, err)
	}

	a := &Archive{source: path, zr: zr, files: make(map[string]*zip.File)}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || strings.HasSuffix(f.Name, "/") {
			continue
		}
		name := cleanName(f.Name)
		if name == "" || ignored(name, ignore) {
			continue
		}
		if _, dup := a.files[name]; dup {
			continue
		}
		a.files[name] = f
		a.paths = append(a.paths, name)
	}
	return a, nil
}

func openDir(root string, ignore []string) (*Archive, error) {
	a := &Archive{source: root, root: root}
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		if ignored(name, ignore) {
			return nil
		}
		a.paths = append(a.paths, name)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk archive %s: %w", root, err)
	}
	return a, nil
}

// Source returns the path the archive was opened from.
func (a *Archive) Source() string { return a.source }

// Paths returns a copy of the listed file paths.
func (a *Archive) Paths() []string {
	out := make([]string, len(a.paths))
	copy(out, a.paths)
	return out
}

// PathsExcept returns the listed paths without skip, preserving order.
func (a *Archive) PathsExcept(skip string) []string {
	out := make([]string, 0, len(a.paths))
	for _, p := range a.paths {
		if p != skip {
			out = append(out, p)
		}
	}
	return out
}

// ReadFile returns the contents of a listed file.
func (a *Archive) ReadFile(name string) ([]byte, error) {
	if a.zr != nil {
		f, ok := a.files[name]
		if !ok {
			return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		defer rc.Close()
		return readLimited(name, rc)
	}

	if !a.has(name) {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	f, err := os.Open(filepath.Join(a.root, filepath.FromSlash(name)))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	defer f.Close()
	return readLimited(name, f)
}

// Close releases the underlying zip file. Safe to call on directories.
func (a *Archive) Close() error {
	if a.zr != nil {
		return a.zr.Close()
	}
	return nil
}

func (a *Archive) has(name string) bool {
	for _, p := range a.paths {
		if p == name {
			return true
		}
	}
	return false
}

func readLimited(name string, r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxReadSize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if len(data) > MaxReadSize {
		return nil, fmt.Errorf("read %s: file exceeds %d bytes", name, MaxReadSize)
	}
	return data, nil
}

func cleanName(name string) string {
	p := strings.ReplaceAll(name, "\\", "/")
	for strings.HasPrefix(p, "./") {
		p = p[2:]
	}
	return strings.TrimLeft(p, "/")
}

func ignored(name string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}
