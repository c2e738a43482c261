package handlers

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"foldersearch/internal/domain"
	"foldersearch/internal/eventbus"
	"foldersearch/internal/search"
	"foldersearch/internal/ui/state"
)

// EventHandler handles domain events and updates state.
// Run-scoped events that do not carry the current run id are dropped so a
// cancelled run can never leak results into its successor.
type EventHandler struct {
	state *state.AppState
}

// NewEventHandler creates a new event handler
func NewEventHandler(appState *state.AppState) *EventHandler {
	return &EventHandler{
		state: appState,
	}
}

// HandleEvent processes domain events and returns any necessary commands
func (h *EventHandler) HandleEvent(event eventbus.DomainEvent) tea.Cmd {
	switch e := event.(type) {
	case eventbus.ResultsClearedEvent:
		// published before SearchStarted, so it also switches the current run
		h.state.ClearResults()
		if e.RunID != "" {
			h.state.RunID = e.RunID
		}

	case eventbus.SearchStartedEvent:
		h.state.RunID = e.RunID
		h.state.RunState = domain.RunRunning
		h.state.Progress = domain.ProgressCounters{}
		h.state.LastError = ""
		h.state.StatusMessage = fmt.Sprintf("Searching %s for %q...", e.Request.StartPath, e.Request.Query)

	case eventbus.ResultFoundEvent:
		if !h.current(e.RunID) {
			return nil
		}
		h.state.AddResult(e.Result)

	case eventbus.ProgressEvent:
		if !h.current(e.RunID) {
			return nil
		}
		h.state.Progress = e.Progress

	case eventbus.SearchFinishedEvent:
		if !h.current(e.RunID) {
			return nil
		}
		h.state.RunState = e.State
		h.state.Progress = e.Progress
		switch e.State {
		case domain.RunCompleted:
			h.state.StatusMessage = fmt.Sprintf("Search complete. Found %d results.", e.Results)
		case domain.RunCancelled:
			h.state.StatusMessage = fmt.Sprintf("Search cancelled. Found %d results.", e.Results)
		case domain.RunFailed:
			h.state.LastError = failureMessage(e.Err)
			h.state.StatusMessage = h.state.LastError
		}

	case eventbus.ResultRemovedEvent:
		h.state.RemoveResult(e.Path)

	case eventbus.ExportCompletedEvent:
		h.state.Exporting = false
		if e.Err != nil {
			h.state.StatusMessage = fmt.Sprintf("Copied %d files to %s with errors: %v", e.Copied, e.Dir, e.Err)
		} else {
			h.state.StatusMessage = fmt.Sprintf("Copied %d files to %s", e.Copied, e.Dir)
		}

	case eventbus.ConfigSavedEvent:
		h.state.StatusMessage = fmt.Sprintf("Settings saved to %s", e.Path)
	}

	return nil
}

func (h *EventHandler) current(runID string) bool {
	return runID != "" && runID == h.state.RunID
}

func failureMessage(err error) string {
	if err == nil {
		return "Search failed"
	}
	var runErr *search.RunError
	if errors.As(err, &runErr) {
		return runErr.Message()
	}
	return "Search failed: " + err.Error()
}
