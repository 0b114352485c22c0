package models

import "time"

// Source types recognised by the viewer.
const (
	SourceTypePDF              = "pdf"
	SourceTypeText             = "text"
	SourceTypeWebsite          = "website"
	SourceTypeYouTube          = "youtube"
	SourceTypeAudio            = "audio"
	SourceTypeDoc              = "doc"
	SourceTypeMultipleWebsites = "multiple-websites"
	SourceTypeCopiedText       = "copied-text"
)

// Processing states of a source.
const (
	ProcessingPending   = "pending"
	ProcessingRunning   = "processing"
	ProcessingCompleted = "completed"
	ProcessingFailed    = "failed"
)

type Source struct {
	ID               string    `json:"id"`
	NotebookID       string    `json:"notebook_id"`
	Title            string    `json:"title"`
	Type             string    `json:"type"`
	URL              string    `json:"url,omitempty"`
	Content          string    `json:"content,omitempty"`
	Summary          string    `json:"summary,omitempty"`
	FileSize         int64     `json:"file_size,omitempty"`
	ProcessingStatus string    `json:"processing_status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Ready reports whether the source's content can be shown.
func (s Source) Ready() bool {
	return s.ProcessingStatus == ProcessingCompleted
}

type SourceFilter struct {
	NotebookID string
	Type       string
	Status     string
}
