package models

type LogEnergyRequest struct {
	UserUID string `json:"userUid" binding:"required"`
	Level   int    `json:"level" binding:"required"`
	Note    string `json:"note"`
}
