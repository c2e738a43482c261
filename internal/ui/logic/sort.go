package logic

import (
	"sort"
	"strings"

	"foldersearch/internal/domain"
)

// SortMode represents different sort modes
type SortMode int

const (
	SortFound SortMode = iota // discovery order
	SortByName
	SortBySize
	SortByPath
)

func (m SortMode) String() string {
	switch m {
	case SortByName:
		return "name"
	case SortBySize:
		return "size"
	case SortByPath:
		return "path"
	default:
		return "found"
	}
}

// Next cycles found -> name -> size -> path -> found
func (m SortMode) Next() SortMode {
	return (m + 1) % (SortByPath + 1)
}

// SortResults returns a sorted copy of results. Ties keep discovery order.
func SortResults(results []domain.MatchResult, mode SortMode) []domain.MatchResult {
	out := make([]domain.MatchResult, len(results))
	copy(out, results)

	switch mode {
	case SortByName:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].DisplayName) < strings.ToLower(out[j].DisplayName)
		})
	case SortBySize:
		// largest first; folders have no size and go last
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].SizeBytes > out[j].SizeBytes
		})
	case SortByPath:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Path) < strings.ToLower(out[j].Path)
		})
	}
	return out
}
