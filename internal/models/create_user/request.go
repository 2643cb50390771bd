package models

type CreateUserRequest struct {
	DisplayName string `json:"displayName" binding:"required"`
	Email       string `json:"email"`
}
