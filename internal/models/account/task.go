package models

import "time"

// Task is a single micro-win: a small task the user wants credit for.
type Task struct {
	ID          string     `json:"id"`
	UserUID     string     `json:"userUid"`
	Title       string     `json:"title"`
	Notes       string     `json:"notes,omitempty"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
