package leaderboardController

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"abhyasi/database"
	"abhyasi/models"
	courseModels "abhyasi/models/course"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testSeq int

func setupTest(t *testing.T) *fiber.App {
	t.Helper()

	testSeq++
	dsn := fmt.Sprintf("file:lbtest%d?mode=memory&cache=shared", testSeq)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	app.Get("/leaderboard/", GetLeaderboard)
	app.Get("/leaderboard/all", GetAllLeaderboard)
	return app
}

// seedRankedUser creates a user with one passed submission per score
func seedRankedUser(t *testing.T, username string, scores ...float64) models.User {
	t.Helper()
	db := database.Database.Db

	user := models.User{Name: username, Username: username, Email: username + "@example.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)

	for i, score := range scores {
		require.NoError(t, db.Create(&courseModels.Submission{
			UserID:        user.ID,
			ModuleID:      uint(i + 1),
			Type:          courseModels.TypeCode,
			Status:        courseModels.StatusPassed,
			Score:         score,
			AttemptNumber: 1,
		}).Error)
	}
	return user
}

func fetchEntries(t *testing.T, app *fiber.App, path string) []map[string]interface{} {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var envelope struct {
		Data []map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &envelope))
	return envelope.Data
}

func TestLeaderboardDenseRanking(t *testing.T) {
	app := setupTest(t)

	anu := seedRankedUser(t, "anu", 60, 40) // 100
	bala := seedRankedUser(t, "bala", 100)  // ties with anu
	charu := seedRankedUser(t, "charu", 50)
	devi := seedRankedUser(t, "devi") // never passed anything

	// A failed attempt's score never counts toward the total
	require.NoError(t, database.Database.Db.Create(&courseModels.Submission{
		UserID:        charu.ID,
		ModuleID:      99,
		Type:          courseModels.TypeCode,
		Status:        courseModels.StatusFailed,
		Score:         90,
		AttemptNumber: 1,
	}).Error)

	entries := fetchEntries(t, app, "/leaderboard/")
	require.Len(t, entries, 3)

	// Tied totals share a rank, the next distinct total takes the next one
	assert.Equal(t, float64(1), entries[0]["rankPosition"])
	assert.Equal(t, float64(1), entries[1]["rankPosition"])
	assert.Equal(t, float64(2), entries[2]["rankPosition"])
	assert.Equal(t, float64(anu.ID), entries[0]["userId"])
	assert.Equal(t, float64(bala.ID), entries[1]["userId"])
	assert.Equal(t, "charu", entries[2]["username"])
	assert.Equal(t, float64(50), entries[2]["points"])

	all := fetchEntries(t, app, "/leaderboard/all")
	require.Len(t, all, 4)
	last := all[3]
	assert.Equal(t, float64(devi.ID), last["userId"])
	assert.Equal(t, float64(3), last["rankPosition"])
	assert.Equal(t, float64(0), last["points"])
	assert.Equal(t, "bronze", last["medal"])
}

func TestMedalTier(t *testing.T) {
	tests := []struct {
		points float64
		want   string
	}{
		{0, "bronze"},
		{299, "bronze"},
		{300, "silver"},
		{999, "silver"},
		{1000, "gold"},
		{5000, "gold"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, MedalTier(tc.points), "points %.0f", tc.points)
	}
}
