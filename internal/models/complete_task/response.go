package models

import "time"

type CompleteTaskResponse struct {
	ID          string    `json:"id"`
	Completed   bool      `json:"completed"`
	CompletedAt time.Time `json:"completedAt"`
	Message     string    `json:"message"`
}
