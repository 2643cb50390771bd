package models

import (
	"time"

	accountmodels "github.com/friendo-app/friendo-server/internal/models/account"
)

type LogEnergyResponse struct {
	ID       string    `json:"id"`
	UserUID  string    `json:"userUid"`
	Level    int       `json:"level"`
	Note     string    `json:"note,omitempty"`
	LoggedAt time.Time `json:"loggedAt"`
	Message  string    `json:"message"`
}

// ListEnergyResponse returns recent check-ins plus the window average.
type ListEnergyResponse struct {
	Logs    []accountmodels.EnergyLog `json:"logs"`
	Average float64                   `json:"average"`
	Days    int                       `json:"days"`
}
