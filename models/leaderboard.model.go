package models

import (
	"time"

	"gorm.io/gorm"
)

// LeaderboardEntry is a cached aggregate of a user's passed-submission
// points, refreshed by the cron scheduler. Live reads still aggregate from
// submissions; this table serves cheap dashboard widgets.
type LeaderboardEntry struct {
	gorm.Model
	UserID      uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	Points      float64   `json:"points" gorm:"default:0;index"`
	LastUpdated time.Time `json:"last_updated"`
}
