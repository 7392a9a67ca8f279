package leaderboardController

import (
	"log"

	"abhyasi/constants"
	"abhyasi/database"
	"abhyasi/middleware"
	"abhyasi/models"

	"github.com/gofiber/fiber/v2"
)

type leaderboardRow struct {
	UserID     uint    `json:"userId"`
	Name       string  `json:"name"`
	Username   string  `json:"username"`
	ProfilePic string  `json:"profilePic"`
	College    string  `json:"college"`
	Points     float64 `json:"points"`
}

type rankedEntry struct {
	leaderboardRow
	RankPosition int            `json:"rankPosition"`
	Medal        string         `json:"medal"`
	Badges       []models.Badge `json:"badges"`
}

// MedalTier maps a points total onto a medal name.
func MedalTier(points float64) string {
	switch {
	case points >= float64(constants.GoldThreshold):
		return "gold"
	case points >= float64(constants.SilverThreshold):
		return "silver"
	default:
		return "bronze"
	}
}

// rankRows assigns dense rank positions: equal point totals share a rank.
func rankRows(rows []leaderboardRow) ([]rankedEntry, error) {
	entries := make([]rankedEntry, 0, len(rows))
	rank := 0
	var prevPoints float64
	for i, row := range rows {
		if i == 0 || row.Points != prevPoints {
			rank++
		}
		prevPoints = row.Points
		holder := models.User{}
		holder.ID = row.UserID
		var badges []models.Badge
		if err := database.Database.Db.Model(&holder).Association("Badges").Find(&badges); err != nil {
			return nil, err
		}
		if badges == nil {
			badges = []models.Badge{}
		}
		entries = append(entries, rankedEntry{
			leaderboardRow: row,
			RankPosition:   rank,
			Medal:          MedalTier(row.Points),
			Badges:         badges,
		})
	}
	return entries, nil
}

// GetLeaderboard returns the top 50 learners by accumulated score.
func GetLeaderboard(c *fiber.Ctx) error {
	var rows []leaderboardRow
	err := database.Database.Db.Table("users").
		Select(`users.id as user_id, users.name, users.username, users.profile_pic, users.college,
			COALESCE(SUM(submissions.score), 0) as points`).
		Joins("LEFT JOIN submissions ON submissions.user_id = users.id AND submissions.status = ?", "passed").
		Where("users.is_deleted = ?", false).
		Group("users.id, users.name, users.username, users.profile_pic, users.college").
		Having("COALESCE(SUM(submissions.score), 0) > 0").
		Order("points desc, users.id asc").
		Limit(50).
		Scan(&rows).Error
	if err != nil {
		log.Println("Failed to build leaderboard:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch leaderboard!", nil)
	}

	entries, err := rankRows(rows)
	if err != nil {
		log.Println("Failed to load badges:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch leaderboard!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Leaderboard fetched successfully.", entries)
}

// GetAllLeaderboard ranks every learner, zero-point users last.
func GetAllLeaderboard(c *fiber.Ctx) error {
	var rows []leaderboardRow
	err := database.Database.Db.Table("users").
		Select(`users.id as user_id, users.name, users.username, users.profile_pic, users.college,
			COALESCE(SUM(submissions.score), 0) as points`).
		Joins("LEFT JOIN submissions ON submissions.user_id = users.id AND submissions.status = ?", "passed").
		Where("users.is_deleted = ?", false).
		Group("users.id, users.name, users.username, users.profile_pic, users.college").
		Order("points desc, users.id asc").
		Scan(&rows).Error
	if err != nil {
		log.Println("Failed to build leaderboard:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch leaderboard!", nil)
	}

	entries, err := rankRows(rows)
	if err != nil {
		log.Println("Failed to load badges:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch leaderboard!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Leaderboard fetched successfully.", entries)
}
