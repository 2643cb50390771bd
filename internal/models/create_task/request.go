package models

type CreateTaskRequest struct {
	UserUID string `json:"userUid" binding:"required"`
	Title   string `json:"title" binding:"required"`
	Notes   string `json:"notes"`
}
