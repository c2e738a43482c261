package views

import (
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"foldersearch/internal/domain"
	"foldersearch/internal/format"
)

// ResultRenderer handles rendering of result rows
type ResultRenderer struct {
	styles    *Styles
	showSizes bool
	highlight bool
}

// NewResultRenderer creates a new result renderer
func NewResultRenderer(styles *Styles, showSizes, highlight bool) *ResultRenderer {
	return &ResultRenderer{
		styles:    styles,
		showSizes: showSizes,
		highlight: highlight,
	}
}

// RenderResult renders one result row: icon, name, parent folder and size
func (r *ResultRenderer) RenderResult(result domain.MatchResult, isSelected bool, caseSensitive bool, width int) string {
	bgColor := ""
	if isSelected {
		bgColor = "238"
	}
	bg := lipgloss.NewStyle().Background(lipgloss.Color(bgColor))

	icon := "f"
	nameStyle := r.styles.File
	if result.Kind == domain.KindFolder {
		icon = "d"
		nameStyle = r.styles.Folder
	}
	if isSelected {
		nameStyle = nameStyle.Background(lipgloss.Color(bgColor))
	}

	var parts []string
	parts = append(parts, bg.Render(icon+" "))

	if r.highlight {
		hl := r.styles.Highlight
		if isSelected {
			hl = hl.Background(lipgloss.Color(bgColor))
		}
		spans := format.Highlight(result.DisplayName, result.MatchedQuery, caseSensitive)
		for _, seg := range format.Split(result.DisplayName, spans) {
			if seg.Match {
				parts = append(parts, hl.Render(seg.Text))
			} else {
				parts = append(parts, nameStyle.Render(seg.Text))
			}
		}
	} else {
		parts = append(parts, nameStyle.Render(result.DisplayName))
	}

	dimStyle := r.styles.Dim
	if isSelected {
		dimStyle = dimStyle.Background(lipgloss.Color(bgColor))
	}
	parts = append(parts, dimStyle.Render("  "+r.formatParent(result.Path)))

	line := strings.Join(parts, "")
	if !r.showSizes || !result.HasSize() {
		return line
	}

	sizeStyle := r.styles.Size
	if isSelected {
		sizeStyle = sizeStyle.Background(lipgloss.Color(bgColor))
	}
	size := sizeStyle.Render(format.ResultSize(result))

	// right-align the size when there is room
	pad := width - lipgloss.Width(line) - lipgloss.Width(size)
	if pad < 2 {
		pad = 2
	}
	return line + bg.Render(strings.Repeat(" ", pad)) + size
}

// formatParent shortens long parent folders from the left
func (r *ResultRenderer) formatParent(path string) string {
	return format.TruncateLeft(filepath.Dir(path), 50)
}
