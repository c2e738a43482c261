package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"foldersearch/internal/domain"
	inputtypes "foldersearch/internal/ui/input/types"
	"foldersearch/internal/ui/logic"
)

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width           int
	Height          int
	Results         []domain.MatchResult
	SelectedIndex   int
	ViewportOffset  int
	ViewportHeight  int
	StartDir        string
	Query           string
	Mode            domain.SearchMode
	CaseSensitive   bool
	Recursive       bool
	IgnoreExtension bool
	Sort            string
	RunState        domain.RunState
	Progress        domain.ProgressCounters
	LastError       string
	StatusMessage   string
	Spinner         string
	ShowHelp        bool
	HelpContent     string // already windowed to the popup height
	TextInput       string // prompt plus input, empty outside text modes
	ConfirmClear    bool
	HelpModel       help.Model
	Keys            inputtypes.KeyMap
}

// Renderer handles all view rendering
type Renderer struct {
	styles       *Styles
	resultRender *ResultRenderer
	popupRender  *PopupRenderer
}

// NewRenderer creates a new renderer
func NewRenderer(showSizes, highlight bool) *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles:       styles,
		resultRender: NewResultRenderer(styles, showSizes, highlight),
		popupRender:  NewPopupRenderer(styles),
	}
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	if state.ShowHelp {
		return r.popupRender.RenderPopup(state.HelpContent, state.Height, state.Width, r.styles.InfoBox)
	}

	content := &strings.Builder{}

	content.WriteString(r.renderTitleLine(state))
	content.WriteString("\n")
	content.WriteString(r.renderForm(state))
	content.WriteString("\n")

	if state.ConfirmClear {
		content.WriteString(r.styles.Confirm.Render(fmt.Sprintf("Clear %d results? (y/n): ", len(state.Results))))
		content.WriteString("\n")
	} else if state.TextInput != "" {
		content.WriteString(state.TextInput)
		content.WriteString("\n")
	}
	content.WriteString("\n")

	// Main content
	var mainContent string
	switch {
	case len(state.Results) > 0:
		mainContent = r.renderResultList(state)
	case state.RunState == domain.RunRunning:
		mainContent = r.styles.Dim.Render("Searching...")
	case state.RunState == domain.RunIdle:
		mainContent = r.styles.Dim.Render("Press / to enter a query, then enter to search.")
	default:
		mainContent = r.styles.Dim.Render("No matches.")
	}
	content.WriteString(mainContent)

	footer := r.renderFooter(state)

	// Count current lines and pad so the footer sits at the bottom
	currentLines := strings.Count(content.String(), "\n") + 1
	availableLines := state.Height - 2 // container padding
	if availableLines <= 0 {
		availableLines = 22
	}
	footerLines := strings.Count(footer, "\n") + 1
	if paddingNeeded := availableLines - currentLines - footerLines; paddingNeeded > 0 {
		content.WriteString(strings.Repeat("\n", paddingNeeded))
	}
	content.WriteString("\n")
	content.WriteString(footer)

	mainStyle := r.styles.Main.MaxHeight(state.Height)
	return mainStyle.Render(content.String())
}

// renderTitleLine renders the logo with the run indicator right-aligned
func (r *Renderer) renderTitleLine(state ViewState) string {
	logo := r.styles.Title.Render("foldersearch")

	var indicator string
	switch state.RunState {
	case domain.RunRunning:
		indicator = r.styles.Scan.Render(fmt.Sprintf("%s Searching  %d folders, %d files",
			state.Spinner, state.Progress.FoldersVisited, state.Progress.FilesVisited))
	case domain.RunIdle:
	default:
		label := state.RunState.String()
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(GetStateColor(label)))
		indicator = style.Render(fmt.Sprintf("%s  %d folders, %d files", label,
			state.Progress.FoldersVisited, state.Progress.FilesVisited))
	}
	if indicator == "" {
		return logo
	}

	termWidth := state.Width
	if termWidth <= 0 {
		termWidth = 80
	}
	paddingWidth := termWidth - 4 - lipgloss.Width(logo) - lipgloss.Width(indicator)
	if paddingWidth > 0 {
		return logo + strings.Repeat(" ", paddingWidth) + indicator
	}
	return fmt.Sprintf("%s  %s", logo, indicator)
}

// renderForm renders the start folder, the query and the toggles
func (r *Renderer) renderForm(state ViewState) string {
	query := state.Query
	if query == "" {
		query = r.styles.Dim.Render("(none)")
	}
	lines := []string{
		fmt.Sprintf("Folder: %s", state.StartDir),
		fmt.Sprintf("Query:  %s", query),
		strings.Join([]string{
			r.styles.Toggle.Render("[" + state.Mode.String() + "]"),
			r.toggle("case", state.CaseSensitive),
			r.toggle("recursive", state.Recursive),
			r.toggle("ignore ext", state.IgnoreExtension),
			r.styles.Dim.Render("sort: " + state.Sort),
		}, " "),
	}
	return strings.Join(lines, "\n")
}

func (r *Renderer) toggle(name string, on bool) string {
	if on {
		return r.styles.Toggle.Render("[x] " + name)
	}
	return r.styles.ToggleOff.Render("[ ] " + name)
}

// renderResultList renders the visible window of results with scroll indicators
func (r *Renderer) renderResultList(state ViewState) string {
	total := len(state.Results)

	effectiveHeight := logic.VisibleRows(state.ViewportOffset, state.ViewportHeight, total)
	needsTopIndicator := state.ViewportOffset > 0
	needsBottomIndicator := state.ViewportOffset+effectiveHeight < total

	var lines []string
	if needsTopIndicator {
		lines = append(lines, r.styles.Scroll.Render(fmt.Sprintf("↑ %d more above ↑", state.ViewportOffset)))
	}

	width := state.Width - 4
	end := state.ViewportOffset + effectiveHeight
	if end > total {
		end = total
	}
	for i := state.ViewportOffset; i < end; i++ {
		lines = append(lines, r.resultRender.RenderResult(state.Results[i], i == state.SelectedIndex, state.CaseSensitive, width))
	}

	if needsBottomIndicator {
		itemsBelow := total - end
		if itemsBelow < 0 {
			itemsBelow = 0
		}
		lines = append(lines, r.styles.Scroll.Render(fmt.Sprintf("↓ %d more below ↓", itemsBelow)))
	}

	return strings.Join(lines, "\n")
}

// renderFooter renders the status line and the short key help
func (r *Renderer) renderFooter(state ViewState) string {
	var lines []string
	if state.StatusMessage != "" {
		style := r.styles.Status
		if state.LastError != "" && state.StatusMessage == state.LastError {
			style = r.styles.StatusError
		}
		lines = append(lines, style.Render(state.StatusMessage))
	}
	lines = append(lines, state.HelpModel.View(state.Keys))
	return strings.Join(lines, "\n")
}
