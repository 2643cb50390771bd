package models

type StartCaptureRequest struct {
	UserUID string `json:"userUid" binding:"required"`
	TaskID  string `json:"taskId"`
	// Prompt overrides the daily prompt for this session when non-empty.
	Prompt string `json:"prompt"`
}
