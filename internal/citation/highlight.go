// Package citation resolves citations to source content and decides which
// lines of that content are highlighted and where the viewer scrolls.
package citation

import (
	"strings"

	"github.com/vytor/studybook/internal/models"
)

// Range is an inclusive, 1-indexed line range.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// NoHighlight is returned alongside ok=false by HighlightRange.
var NoHighlight = Range{Start: -1, End: -1}

// Contains reports whether line n falls inside r.
func (r Range) Contains(n int) bool {
	return r.Start <= n && n <= r.End
}

// HighlightRange returns the line range to highlight for c. Citations
// without both line fields, with a non-positive start, or manufactured by
// the source list never highlight.
func HighlightRange(c *models.Citation) (Range, bool) {
	if c == nil || c.ChunkLinesFrom == nil || c.ChunkLinesTo == nil {
		return NoHighlight, false
	}
	if *c.ChunkLinesFrom <= 0 || c.IsSourceListSelection() {
		return NoHighlight, false
	}
	return Range{Start: *c.ChunkLinesFrom, End: *c.ChunkLinesTo}, true
}

// Line is one rendered line of source content.
type Line struct {
	Number      int    `json:"number"`
	Text        string `json:"text"`
	Highlighted bool   `json:"highlighted,omitempty"`
	Anchor      bool   `json:"anchor,omitempty"`
}

// RenderLines splits content on newlines. When ok is set, lines inside r are
// highlighted and the first of them is the scroll anchor.
func RenderLines(content string, r Range, ok bool) []Line {
	if content == "" {
		return nil
	}
	parts := strings.Split(content, "\n")
	lines := make([]Line, len(parts))
	anchored := false
	for i, text := range parts {
		n := i + 1
		line := Line{Number: n, Text: text}
		if ok && r.Contains(n) {
			line.Highlighted = true
			if !anchored {
				line.Anchor = true
				anchored = true
			}
		}
		lines[i] = line
	}
	return lines
}

// Anchor returns the number of the anchor line, or 0 when none is marked.
func Anchor(lines []Line) int {
	for _, l := range lines {
		if l.Anchor {
			return l.Number
		}
	}
	return 0
}

// CenterScrollTop is the container scroll offset that vertically centers an
// element at offsetTop with the given height. Never negative.
func CenterScrollTop(offsetTop, elementHeight, viewportHeight float64) float64 {
	top := offsetTop - viewportHeight/2 + elementHeight/2
	if top < 0 {
		return 0
	}
	return top
}
