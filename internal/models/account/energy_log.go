package models

import "time"

// EnergyLog is one energy-level check-in on a 1-5 scale.
type EnergyLog struct {
	ID       string    `json:"id"`
	UserUID  string    `json:"userUid"`
	Level    int       `json:"level"`
	Note     string    `json:"note,omitempty"`
	LoggedAt time.Time `json:"loggedAt"`
}
