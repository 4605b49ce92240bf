package model

import "time"

// DateLayout is the wire format for due dates.
const DateLayout = "2006-01-02"

type Todo struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Done      bool      `json:"done"`
	DueDate   string    `json:"dueDate"` // YYYY-MM-DD
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TodoPatch carries the fields of a partial update; nil means "leave unchanged".
type TodoPatch struct {
	Text    *string
	DueDate *string
	Done    *bool
}
