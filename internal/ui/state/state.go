package state

import (
	"foldersearch/internal/domain"
	"foldersearch/internal/ui/logic"
)

// AppState contains all the application state
type AppState struct {
	// Search form
	StartDir        string
	Query           string
	Mode            domain.SearchMode
	CaseSensitive   bool
	Recursive       bool
	IgnoreExtension bool

	// Latest run, as reported by events
	RunID     string
	RunState  domain.RunState
	Progress  domain.ProgressCounters
	LastError string // message of a failed run

	// Results in discovery order and in display order
	Found   []domain.MatchResult
	Results []domain.MatchResult
	Sort    logic.SortMode

	// Selection state
	SelectedIndex int

	// UI state
	ViewportOffset   int // offset for scrolling
	ViewportHeight   int // available height for the result list
	ShowHelp         bool
	HelpScrollOffset int // scroll offset for help popup
	StatusMessage    string
	Exporting        bool
}

// NewAppState creates a new application state
func NewAppState() *AppState {
	return &AppState{
		Found:          make([]domain.MatchResult, 0),
		Results:        make([]domain.MatchResult, 0),
		ViewportHeight: 20, // Default
	}
}

// Request snapshots the form into a search request
func (s *AppState) Request() domain.SearchRequest {
	return domain.SearchRequest{
		StartPath:       s.StartDir,
		Query:           s.Query,
		Mode:            s.Mode,
		CaseSensitive:   s.CaseSensitive,
		Recursive:       s.Recursive,
		IgnoreExtension: s.IgnoreExtension,
	}
}

// AddResult appends a result in discovery order
func (s *AppState) AddResult(r domain.MatchResult) {
	s.Found = append(s.Found, r)
	if s.Sort == logic.SortFound {
		s.Results = append(s.Results, r)
		return
	}
	s.reorder()
}

// RemoveResult drops the result at path and keeps the cursor in range
func (s *AppState) RemoveResult(path string) bool {
	idx := -1
	for i, r := range s.Found {
		if r.Path == path {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	s.Found = append(s.Found[:idx:idx], s.Found[idx+1:]...)
	s.reorder()
	s.clampSelection()
	return true
}

// ClearResults empties the list and resets the cursor
func (s *AppState) ClearResults() {
	s.Found = s.Found[:0]
	s.Results = s.Results[:0]
	s.SelectedIndex = 0
	s.ViewportOffset = 0
}

// SetSort changes the display order, keeping the highlighted result selected
func (s *AppState) SetSort(mode logic.SortMode) {
	current, ok := s.CurrentResult()
	s.Sort = mode
	s.reorder()
	if !ok {
		return
	}
	for i, r := range s.Results {
		if r.Path == current.Path {
			s.SelectedIndex = i
			return
		}
	}
}

// CurrentResult returns the highlighted result
func (s *AppState) CurrentResult() (domain.MatchResult, bool) {
	if s.SelectedIndex < 0 || s.SelectedIndex >= len(s.Results) {
		return domain.MatchResult{}, false
	}
	return s.Results[s.SelectedIndex], true
}

func (s *AppState) reorder() {
	s.Results = logic.SortResults(s.Found, s.Sort)
}

func (s *AppState) clampSelection() {
	if s.SelectedIndex >= len(s.Results) {
		s.SelectedIndex = len(s.Results) - 1
	}
	if s.SelectedIndex < 0 {
		s.SelectedIndex = 0
	}
}
