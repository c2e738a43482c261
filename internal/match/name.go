// Package match holds the literal substring tests a search applies to
// names and file contents.
package match

import (
	"path/filepath"
	"strings"
)

// LeafName returns the final path component, optionally without its extension
func LeafName(path string, stripExtension bool) string {
	leaf := filepath.Base(path)
	if stripExtension {
		leaf = strings.TrimSuffix(leaf, filepath.Ext(leaf))
	}
	return leaf
}

// MatchFileName reports whether query is a substring of the file's leaf name.
// With ignoreExtension the extension takes no part in the comparison.
func MatchFileName(path, query string, caseSensitive, ignoreExtension bool) bool {
	return contains(LeafName(path, ignoreExtension), query, caseSensitive)
}

// MatchFolderName reports whether query is a substring of the directory's
// leaf name. Extensions are never stripped from folder names.
func MatchFolderName(path, query string, caseSensitive bool) bool {
	return contains(LeafName(path, false), query, caseSensitive)
}

func contains(name, query string, caseSensitive bool) bool {
	if !caseSensitive {
		name = strings.ToLower(name)
		query = strings.ToLower(query)
	}
	return strings.Contains(name, query)
}
