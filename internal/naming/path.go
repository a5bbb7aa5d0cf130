package naming

import "strings"

// SplitPath breaks an archive path into its directory, stem, and final
// extension. Both "/" and "\" are treated as directory separators. A leading
// dot (".gitignore") is part of the stem, not an extension.
func SplitPath(path string) (dir, stem, ext string) {
	p := cleanPath(path)

	base := p
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		dir = p[:i]
		base = p[i+1:]
	}

	if dot := strings.LastIndexByte(base, '.'); dot > 0 {
		return dir, base[:dot], base[dot:]
	}
	return dir, base, ""
}

// Stem returns the file name of path without directories or extension.
func Stem(path string) string {
	_, stem, _ := SplitPath(path)
	return stem
}

// TopLevelDir returns the first directory component of path, or "" for
// files at the archive root. Used to group results by discipline folder.
func TopLevelDir(path string) string {
	p := cleanPath(path)
	if i := strings.IndexByte(p, '/'); i > 0 {
		return p[:i]
	}
	return ""
}

func cleanPath(path string) string {
	p := strings.ReplaceAll(path, "\\", "/")
	for strings.HasPrefix(p, "./") {
		p = p[2:]
	}
	return strings.TrimLeft(p, "/")
}
