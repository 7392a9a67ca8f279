package utils

import (
	"log"
	"time"

	"abhyasi/constants"
	"abhyasi/database"
	"abhyasi/models"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm/clause"
)

// InitializeLeaderboardScheduler refreshes the leaderboard snapshot table
// every 15 minutes so the public board does not hit the submissions
// aggregate on every request.
func InitializeLeaderboardScheduler() {
	log.Println("[LEADERBOARD-SCHEDULER] Initializing leaderboard scheduler...")

	c := cron.New()

	c.AddFunc("*/15 * * * *", func() {
		log.Println("[LEADERBOARD-SCHEDULER] Refreshing leaderboard snapshot...")
		RefreshLeaderboardSnapshot()
	})

	c.Start()
	log.Println("[LEADERBOARD-SCHEDULER] Leaderboard scheduler started - runs every 15 minutes")

	// Warm the snapshot on boot so the board is never empty.
	go RefreshLeaderboardSnapshot()
}

// RefreshLeaderboardSnapshot upserts one LeaderboardEntry per user from
// the passed-submission score totals.
func RefreshLeaderboardSnapshot() {
	db := database.Database.Db

	var rows []struct {
		UserID uint
		Points float64
	}
	err := db.Table("users").
		Select("users.id as user_id, COALESCE(SUM(submissions.score), 0) as points").
		Joins("LEFT JOIN submissions ON submissions.user_id = users.id AND submissions.status = ?", "passed").
		Where("users.is_deleted = ?", false).
		Group("users.id").
		Scan(&rows).Error
	if err != nil {
		log.Printf("[LEADERBOARD-SCHEDULER] Error aggregating scores: %v", err)
		return
	}

	now := time.Now()
	for _, row := range rows {
		entry := models.LeaderboardEntry{
			UserID:      row.UserID,
			Points:      row.Points,
			LastUpdated: now,
		}
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"points", "last_updated"}),
		}).Create(&entry).Error
		if err != nil {
			log.Printf("[LEADERBOARD-SCHEDULER] Error upserting entry for user %d: %v", row.UserID, err)
		}
	}

	log.Printf("[LEADERBOARD-SCHEDULER] Snapshot refreshed for %d users", len(rows))

	for _, row := range rows {
		awardMedalBadges(row.UserID, row.Points)
	}
}

// awardMedalBadges attaches the gold/silver badge once a user's score
// total crosses the threshold. Re-appending an already held badge is a
// no-op through the join table.
func awardMedalBadges(userID uint, points float64) {
	db := database.Database.Db

	var titles []string
	if points >= float64(constants.GoldThreshold) {
		titles = append(titles, "Gold Medal")
	}
	if points >= float64(constants.SilverThreshold) {
		titles = append(titles, "Silver Medal")
	}
	if len(titles) == 0 {
		return
	}

	user := models.User{}
	user.ID = userID

	for _, title := range titles {
		var badge models.Badge
		err := db.Where(models.Badge{Title: title}).
			Attrs(models.Badge{Description: title + " for accumulated score", Criteria: "points"}).
			FirstOrCreate(&badge).Error
		if err != nil {
			log.Printf("[LEADERBOARD-SCHEDULER] Error loading badge %q: %v", title, err)
			continue
		}
		if err := db.Model(&user).Association("Badges").Append(&badge); err != nil {
			log.Printf("[LEADERBOARD-SCHEDULER] Error awarding badge %q to user %d: %v", title, userID, err)
		}
	}
}
