// Package fsinfo answers the small questions the search engine asks the
// filesystem: does a path exist as a file or a directory, and what are its
// canonical name and size.
package fsinfo

import (
	"fmt"
	"os"
	"path/filepath"
)

// IsFile reports whether path names an existing non-directory.
// Missing or unreadable paths report false.
func IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// IsDirectory reports whether path names an existing directory.
// Missing or unreadable paths report false.
func IsDirectory(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// Info is the metadata a match result is built from
type Info struct {
	Path  string // absolute, cleaned
	Name  string // leaf name as stored on disk
	IsDir bool
	Size  int64 // zero for directories
}

// Lookup resolves the absolute path, leaf name and size of path
func Lookup(path string) (Info, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Info{}, fmt.Errorf("resolve %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return Info{}, err
	}
	out := Info{
		Path:  abs,
		Name:  info.Name(),
		IsDir: info.IsDir(),
	}
	if !info.IsDir() {
		out.Size = info.Size()
	}
	return out, nil
}
