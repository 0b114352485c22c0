package ingest

import (
	"strings"
	"unicode/utf8"
)

// DefaultSummaryLength bounds Summarize output, in runes.
const DefaultSummaryLength = 280

// Summarize returns the first paragraph of text, cut at a word boundary to
// at most maxRunes runes with an ellipsis appended when cut.
func Summarize(text string, maxRunes int) string {
	if maxRunes <= 0 {
		maxRunes = DefaultSummaryLength
	}
	text = strings.TrimSpace(text)
	if i := strings.Index(text, "\n\n"); i >= 0 {
		text = text[:i]
	}
	text = strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(text) <= maxRunes {
		return text
	}

	runes := []rune(text)
	cut := string(runes[:maxRunes])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}

// NormalizeText converts line endings to \n and trims trailing space on
// every line, so line numbers are stable for citations.
func NormalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}
