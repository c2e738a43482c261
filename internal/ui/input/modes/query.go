package modes

import (
	"github.com/charmbracelet/bubbles/textinput"

	"foldersearch/internal/ui/input/types"
)

// QueryMode edits the search text. Submitting starts a search.
type QueryMode struct {
	TextInputMode
}

func NewQueryMode(ti *textinput.Model) *QueryMode {
	return &QueryMode{
		TextInputMode: NewTextInputMode(types.ModeQuery, "query", "Search for: ", ti),
	}
}

// StartDirMode edits the folder searches start from
type StartDirMode struct {
	TextInputMode
}

func NewStartDirMode(ti *textinput.Model) *StartDirMode {
	return &StartDirMode{
		TextInputMode: NewTextInputMode(types.ModeStartDir, "start-dir", "Start folder: ", ti),
	}
}

// ExportMode asks for the folder matched files are copied into
type ExportMode struct {
	TextInputMode
}

func NewExportMode(ti *textinput.Model) *ExportMode {
	return &ExportMode{
		TextInputMode: NewTextInputMode(types.ModeExport, "export", "Copy files to: ", ti),
	}
}
