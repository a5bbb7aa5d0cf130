// Package archive lists the files of a deliverables archive, either a zip
// file or a directory on disk, and locates the naming template or register
// table shipped inside it.
//
// Paths are archive-relative with forward slashes, in archive order for zip
// files and lexical order for directories. Directory entries are never
// listed. Ignore patterns use doublestar syntax ("__MACOSX/**", "**/.DS_Store").
package archive
