package input

import (
	"foldersearch/internal/domain"
	"foldersearch/internal/ui/state"
)

// ModelContext implements the Context interface for the input handler
type ModelContext struct {
	State *state.AppState
}

// CurrentIndex returns the current selected index
func (c *ModelContext) CurrentIndex() int {
	return c.State.SelectedIndex
}

// TotalItems returns the number of listed results
func (c *ModelContext) TotalItems() int {
	return len(c.State.Results)
}

// IsRunning reports whether a search is in progress
func (c *ModelContext) IsRunning() bool {
	return c.State.RunState == domain.RunRunning
}

// CurrentResultPath returns the path of the highlighted result
func (c *ModelContext) CurrentResultPath() string {
	if r, ok := c.State.CurrentResult(); ok {
		return r.Path
	}
	return ""
}

// CurrentIsFile reports whether the highlighted result is a file
func (c *ModelContext) CurrentIsFile() bool {
	r, ok := c.State.CurrentResult()
	return ok && r.Kind == domain.KindFile
}

// Query returns the current search text
func (c *ModelContext) Query() string {
	return c.State.Query
}

// StartDir returns the current start folder
func (c *ModelContext) StartDir() string {
	return c.State.StartDir
}
