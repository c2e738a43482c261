package ui

import (
	"foldersearch/internal/eventbus"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// searchStartedMsg contains the result of a start request
type searchStartedMsg struct {
	runID string
	err   error
}

// exportDoneMsg contains the result of copying results into a folder
type exportDoneMsg struct {
	dir    string
	copied int
	err    error
}

// previewPagerMsg contains the result of paging a result file
type previewPagerMsg struct {
	path string
	err  error
}

// helpPagerMsg contains the result of a help pager command
type helpPagerMsg struct {
	err error
}

// clearStatusMsg clears the status line
type clearStatusMsg struct{}

// quitMsg signals that the application should quit
type quitMsg struct {
	saveConfig bool
}

// pauseRenderingMsg signals to pause Bubble Tea rendering
type pauseRenderingMsg struct{}

// resumeRenderingMsg signals to resume Bubble Tea rendering
type resumeRenderingMsg struct{}
