// Package format renders result fields for display.
package format

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"foldersearch/internal/domain"
)

// Size formats bytes as a human-readable string with 1024 steps. Results
// without a size (folders) render as "".
func Size(bytes int64, hasSize bool) string {
	if !hasSize {
		return ""
	}

	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
		TB = GB * 1024
	)

	switch {
	case bytes >= TB:
		return fmt.Sprintf("%.1f TB", float64(bytes)/float64(TB))
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// ResultSize is Size for a match result
func ResultSize(r domain.MatchResult) string {
	return Size(r.SizeBytes, r.HasSize())
}

// Span is a half-open byte range [Start, End) of a match inside a string
type Span struct {
	Start, End int
}

// Highlight returns the non-overlapping occurrences of query in text, left
// to right. Case-insensitive matching uses Unicode simple folding.
func Highlight(text, query string, caseSensitive bool) []Span {
	if query == "" || len(query) > len(text) {
		return nil
	}

	var spans []Span
	if caseSensitive {
		offset := 0
		for {
			i := strings.Index(text[offset:], query)
			if i < 0 {
				return spans
			}
			start := offset + i
			spans = append(spans, Span{Start: start, End: start + len(query)})
			offset = start + len(query)
		}
	}

	for i := 0; i+len(query) <= len(text); {
		if strings.EqualFold(text[i:i+len(query)], query) {
			spans = append(spans, Span{Start: i, End: i + len(query)})
			i += len(query)
			continue
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		i += size
	}
	return spans
}

// Segment is a piece of text that is either inside or outside a match
type Segment struct {
	Text  string
	Match bool
}

// Split cuts text at the span boundaries. Spans must be sorted and must not
// overlap, as returned by Highlight.
func Split(text string, spans []Span) []Segment {
	var out []Segment
	pos := 0
	for _, s := range spans {
		if s.Start > pos {
			out = append(out, Segment{Text: text[pos:s.Start]})
		}
		out = append(out, Segment{Text: text[s.Start:s.End], Match: true})
		pos = s.End
	}
	if pos < len(text) {
		out = append(out, Segment{Text: text[pos:]})
	}
	return out
}

// TruncateLeft shortens s to at most max runes by replacing its head with
// "...". Paths keep their most specific end this way.
func TruncateLeft(s string, max int) string {
	n := utf8.RuneCountInString(s)
	if n <= max {
		return s
	}
	if max <= 3 {
		return strings.Repeat(".", max)
	}
	runes := []rune(s)
	return "..." + string(runes[n-(max-3):])
}
