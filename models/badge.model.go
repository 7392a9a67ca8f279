package models

import "gorm.io/gorm"

// Badge is a displayable achievement joined onto leaderboard entries
type Badge struct {
	gorm.Model
	Title       string `json:"title" gorm:"not null"`
	Description string `json:"description"`
	IconURL     string `json:"icon_url"`
	Criteria    string `json:"criteria"` // descriptive string for evaluation
}
