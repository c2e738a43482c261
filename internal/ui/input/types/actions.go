package types

// Navigation actions
type NavigateAction struct {
	Direction string // "up", "down", "pageup", "pagedown", "home", "end"
}

func (a NavigateAction) Type() string { return "navigate" }

// Mode transition actions
type ChangeModeAction struct {
	Mode Mode
	Data string // initial text for text modes
}

func (a ChangeModeAction) Type() string { return "change_mode" }

// Text input actions
type UpdateTextAction struct {
	Text string
}

func (a UpdateTextAction) Type() string { return "update_text" }

type SubmitTextAction struct {
	Text string
	Mode Mode // Which mode submitted the text
}

func (a SubmitTextAction) Type() string { return "submit_text" }

type CancelTextAction struct{}

func (a CancelTextAction) Type() string { return "cancel_text" }

// Search actions
type StartSearchAction struct{}

func (a StartSearchAction) Type() string { return "start_search" }

type CancelSearchAction struct{}

func (a CancelSearchAction) Type() string { return "cancel_search" }

type CycleSearchModeAction struct{}

func (a CycleSearchModeAction) Type() string { return "cycle_search_mode" }

// Option names a boolean search toggle
type Option string

const (
	OptionCaseSensitive   Option = "case_sensitive"
	OptionRecursive       Option = "recursive"
	OptionIgnoreExtension Option = "ignore_extension"
)

type ToggleOptionAction struct {
	Option Option
}

func (a ToggleOptionAction) Type() string { return "toggle_option" }

// Result actions
type RemoveResultAction struct {
	Path string
}

func (a RemoveResultAction) Type() string { return "remove_result" }

type ClearResultsAction struct{}

func (a ClearResultsAction) Type() string { return "clear_results" }

type PreviewAction struct {
	Path string
}

func (a PreviewAction) Type() string { return "preview" }

type CycleSortAction struct{}

func (a CycleSortAction) Type() string { return "cycle_sort" }

type ToggleHelpAction struct{}

func (a ToggleHelpAction) Type() string { return "toggle_help" }

type QuitAction struct {
	Force bool // true for Ctrl+C, false for 'q'
}

func (a QuitAction) Type() string { return "quit" }
