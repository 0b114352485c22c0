package models

import "time"

type Notebook struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Principal is the authenticated caller. A zero UserID means anonymous.
type Principal struct {
	UserID string
	Email  string
}

func (p Principal) Authenticated() bool {
	return p.UserID != ""
}
