package logic

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"foldersearch/internal/domain"
)

func TestSortResults(t *testing.T) {
	results := []domain.MatchResult{
		{Path: "/z/Beta.txt", DisplayName: "Beta.txt", SizeBytes: 10},
		{Path: "/a/dir", DisplayName: "dir", Kind: domain.KindFolder, SizeBytes: domain.NoSize},
		{Path: "/m/alpha.txt", DisplayName: "alpha.txt", SizeBytes: 300},
	}

	tests := []struct {
		mode SortMode
		want []string
	}{
		{SortFound, []string{"/z/Beta.txt", "/a/dir", "/m/alpha.txt"}},
		{SortByName, []string{"/m/alpha.txt", "/z/Beta.txt", "/a/dir"}},
		{SortBySize, []string{"/m/alpha.txt", "/z/Beta.txt", "/a/dir"}},
		{SortByPath, []string{"/a/dir", "/m/alpha.txt", "/z/Beta.txt"}},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			sorted := SortResults(results, tt.mode)
			got := make([]string, len(sorted))
			for i, r := range sorted {
				got[i] = r.Path
			}
			assert.Equal(t, tt.want, got)
		})
	}

	// the input is never reordered
	assert.Equal(t, "/z/Beta.txt", results[0].Path)
}

func TestSortModeNext(t *testing.T) {
	assert.Equal(t, SortByName, SortFound.Next())
	assert.Equal(t, SortBySize, SortByName.Next())
	assert.Equal(t, SortByPath, SortBySize.Next())
	assert.Equal(t, SortFound, SortByPath.Next())
}
