package authController

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"abhyasi/config"
	"abhyasi/database"
	"abhyasi/models"
	authValidator "abhyasi/validators/auth"

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

	config.LoadConfig()

	testSeq++
	dsn := fmt.Sprintf("file:authtest%d?mode=memory&cache=shared", testSeq)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	app.Post("/auth/signup", authValidator.Signup(), Signup)
	app.Post("/auth/login", authValidator.Login(), Login)
	return app
}

func doJSON(t *testing.T, app *fiber.App, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal(respBody, &envelope))
	return resp.StatusCode, envelope
}

func signup(t *testing.T, app *fiber.App) models.User {
	t.Helper()

	status, _ := doJSON(t, app, "/auth/signup", fiber.Map{
		"name":     "Asha Rao",
		"username": "asha",
		"email":    "asha@example.com",
		"password": "supersecret",
		"college":  "NIT",
		"year":     3,
	})
	require.Equal(t, http.StatusCreated, status)

	var user models.User
	require.NoError(t, database.Database.Db.Where("username = ?", "asha").First(&user).Error)
	return user
}

func TestLoginStampsLastLogin(t *testing.T) {
	app := setupTest(t)
	user := signup(t, app)
	assert.Nil(t, user.LastLogin)

	before := time.Now().Add(-time.Second)
	status, env := doJSON(t, app, "/auth/login", fiber.Map{
		"email":    "asha@example.com",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusOK, status)
	data := env["data"].(map[string]interface{})
	assert.NotEmpty(t, data["token"])

	var reloaded models.User
	require.NoError(t, database.Database.Db.First(&reloaded, user.ID).Error)
	require.NotNil(t, reloaded.LastLogin)
	assert.True(t, reloaded.LastLogin.After(before))
}

func TestLoginByUsername(t *testing.T) {
	app := setupTest(t)
	signup(t, app)

	status, _ := doJSON(t, app, "/auth/login", fiber.Map{
		"username": "asha",
		"password": "supersecret",
	})
	assert.Equal(t, http.StatusOK, status)
}

func TestLoginWrongPasswordRejected(t *testing.T) {
	app := setupTest(t)
	signup(t, app)

	status, _ := doJSON(t, app, "/auth/login", fiber.Map{
		"email":    "asha@example.com",
		"password": "wrongwrong",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestSignupDuplicateEmailRejected(t *testing.T) {
	app := setupTest(t)
	signup(t, app)

	status, _ := doJSON(t, app, "/auth/signup", fiber.Map{
		"name":     "Other User",
		"username": "other",
		"email":    "asha@example.com",
		"password": "supersecret",
	})
	assert.Equal(t, http.StatusConflict, status)
}
