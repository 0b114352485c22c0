package models

import "time"

// Note origins. Notes saved from a chat response are read-only.
const (
	NoteSourceUser       = "user"
	NoteSourceAIResponse = "ai_response"
)

type Note struct {
	ID         string    `json:"id"`
	NotebookID string    `json:"notebook_id"`
	UserID     string    `json:"user_id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	SourceType string    `json:"source_type"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (n Note) Editable() bool {
	return n.SourceType != NoteSourceAIResponse
}
