package models

import "time"

type CreateTaskResponse struct {
	ID        string    `json:"id"`
	UserUID   string    `json:"userUid"`
	Title     string    `json:"title"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	Message   string    `json:"message"`
}
