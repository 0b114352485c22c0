package models

// Citation points from a chat answer, or a source list click, at a source
// and optionally a line range in it. A negative CitationID marks a
// source list selection.
type Citation struct {
	CitationID     int    `json:"citation_id"`
	SourceID       string `json:"source_id"`
	SourceTitle    string `json:"source_title"`
	SourceType     string `json:"source_type"`
	ChunkIndex     int    `json:"chunk_index"`
	Excerpt        string `json:"excerpt"`
	ChunkLinesFrom *int   `json:"chunk_lines_from,omitempty"`
	ChunkLinesTo   *int   `json:"chunk_lines_to,omitempty"`
}

// IsSourceListSelection reports whether c was manufactured by the source list.
func (c Citation) IsSourceListSelection() bool {
	return c.CitationID < 0
}
